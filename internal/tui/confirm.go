package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// inputDelay keeps the keypress that triggered an apply from also
// answering the confirm prompt.
const inputDelay = 200 * time.Millisecond

// confirmOverlay asks whether to keep a freshly applied arrangement
// before the countdown reverts it. Key handling lives in the root
// model because the answers drive the apply controller.
type confirmOverlay struct {
	visible   bool
	session   string
	committed bool
	shownAt   time.Time
}

func (c confirmOverlay) Active() bool { return c.visible }

func (c *confirmOverlay) Show(session string) {
	c.visible = true
	c.session = session
	c.committed = false
	c.shownAt = time.Now()
}

func (c *confirmOverlay) Hide() { *c = confirmOverlay{} }

// Ready reports whether the overlay accepts input yet.
func (c confirmOverlay) Ready() bool {
	return c.visible && time.Since(c.shownAt) >= inputDelay
}

// View renders the overlay centered in the content area.
func (c confirmOverlay) View(width, height int, remaining, total time.Duration) string {
	boxW := width - 8
	if boxW > 48 {
		boxW = 48
	}
	if boxW < 30 {
		boxW = 30
	}

	title := titleStyle.Render("Keep this configuration?")
	state := detailStyle.Render("applying...")
	if c.committed {
		state = goodStyle.Render("the new arrangement is live")
	}
	bar := renderCountdown(remaining, total)
	footer := dimStyle.Render("y/enter: keep   n/esc: revert")

	content := title + "\n\n" + state + "\n" + bar + "\n\n" + footer
	box := overlayBoxStyle.Width(boxW).Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
