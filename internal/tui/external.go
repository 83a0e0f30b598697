package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/monarch/internal/backend"
)

// externalAction is the user's answer to an external change.
type externalAction int

const (
	externalNone externalAction = iota
	// externalKeep re-commits the local session over the outside edit.
	externalKeep
	// externalPull adopts the outside arrangement as the session.
	externalPull
	externalQuit
)

// externalOverlay reports that something else reconfigured the
// outputs while this session was editing them. It holds the freshest
// enumeration; polling keeps refreshing it while the overlay is open
// so the eventual pull adopts current state, not a stale snapshot.
type externalOverlay struct {
	visible bool
	enum    backend.Enumeration
}

func (e externalOverlay) Active() bool { return e.visible }

func (e *externalOverlay) Show(enum backend.Enumeration) {
	e.visible = true
	e.enum = enum
}

func (e *externalOverlay) Refresh(enum backend.Enumeration) {
	e.enum = enum
}

func (e *externalOverlay) Hide() { *e = externalOverlay{} }

// Update handles one key while the overlay is open.
func (e externalOverlay) Update(msg tea.KeyMsg) (externalOverlay, externalAction) {
	switch msg.String() {
	case "o", "O":
		e.visible = false
		return e, externalKeep
	case "p", "P":
		e.visible = false
		return e, externalPull
	case "q", "esc":
		return e, externalQuit
	}
	return e, externalNone
}

// View renders the overlay centered in the content area.
func (e externalOverlay) View(width, height int) string {
	boxW := width - 8
	if boxW > 54 {
		boxW = 54
	}
	if boxW < 32 {
		boxW = 32
	}

	content := badStyle.Bold(true).Render("External configuration change detected") + "\n\n" +
		normalStyle.Render("Another program changed the output arrangement.") + "\n\n" +
		accentStyle.Render("o") + normalStyle.Render("  keep local edits and re-apply them") + "\n" +
		goodStyle.Render("p") + normalStyle.Render("  pull the outside arrangement") + "\n" +
		dimStyle.Render("q") + normalStyle.Render("  quit")

	box := overlayBoxStyle.Width(boxW).Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
