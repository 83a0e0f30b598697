package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/monarch/internal/layout"
)

// statusTone picks the color of the status message line.
type statusTone int

const (
	toneInfo statusTone = iota
	toneGood
	toneBad
)

const countdownCells = 20

// renderStatusBar draws the three bottom lines: status message,
// countdown or selection context, and the key help for the current
// input state.
func renderStatusBar(m *model) string {
	width := m.width
	line := lipgloss.NewStyle().Width(width).Padding(0, 1)

	var msg string
	switch m.statusTone {
	case toneGood:
		msg = goodStyle.Render(m.status)
	case toneBad:
		msg = badStyle.Render(m.status)
	default:
		msg = normalStyle.Render(m.status)
	}

	var middle string
	if remaining := m.ctrl.Remaining(); remaining > 0 {
		middle = renderCountdown(remaining, m.cfg.ConfirmTimeout())
	} else {
		middle = detailStyle.Render(selectionContext(m.lay))
	}

	help := dimStyle.Render(m.helpLine())

	return lipgloss.JoinVertical(lipgloss.Left,
		line.Render(msg),
		line.Render(middle),
		line.Render(help),
	)
}

// renderCountdown draws the confirm deadline as a draining bar.
func renderCountdown(remaining, total time.Duration) string {
	if total <= 0 {
		total = remaining
	}
	filled := int((remaining.Seconds()/total.Seconds())*countdownCells + 0.999)
	if filled > countdownCells {
		filled = countdownCells
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", countdownCells-filled)
	secs := int(remaining.Seconds() + 0.999)
	style := accentStyle
	if secs <= 3 {
		style = badStyle
	}
	return style.Render(fmt.Sprintf("reverting in %2ds  %s", secs, bar))
}

// selectionContext summarizes the selected output for the middle line.
func selectionContext(lay *layout.Layout) string {
	sel := lay.SelectedOutput()
	if sel == nil {
		return "no outputs"
	}
	if !sel.Enabled {
		return fmt.Sprintf("%s  disabled  last pos %d,%d", sel.Name, sel.X, sel.Y)
	}
	return fmt.Sprintf("%s  %s  %.2fx  (%d,%d)  ws %s",
		sel.Name, sel.ResolutionText(), sel.Scale, sel.X, sel.Y, workspaceText(sel.Workspaces))
}

// helpLine picks the key hint line for whichever surface owns input.
func (m *model) helpLine() string {
	switch {
	case m.confirm.Active():
		return "y/enter: keep  n/esc: revert"
	case m.save.Active():
		return "enter: save  esc: cancel"
	case m.menu.Active():
		return "j/k: move  enter: load  1-9: slot  0: recent  d: delete  esc: close"
	case m.extchg.Active():
		return "o: keep local  p: pull remote  q/esc: quit"
	case m.drag != nil:
		return "release: place"
	}
	help := "tab: select  f: focus  hjkl: move  HJKL: snap  r: mode  s: scale  e: on/off  1-9: ws  p: presets  S: save  q: quit"
	if m.changed {
		help = "a: apply  " + help
	}
	return help
}
