package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// menuAction is what the preset menu wants the root model to do.
type menuAction int

const (
	menuNone menuAction = iota
	menuLoad
	menuDelete
	menuClose
)

// menuResult carries the chosen action and its target. recent selects
// the implicit most-recent-apply slot instead of a named preset.
type menuResult struct {
	action menuAction
	recent bool
	name   string
}

// presetMenu lists stored presets for loading and deleting. Slot keys
// 1-9 map onto the first nine presets in name order; 0 is the most
// recent confirmed apply.
type presetMenu struct {
	visible   bool
	entries   []string
	hasRecent bool
	cursor    int
}

func (pm presetMenu) Active() bool { return pm.visible }

func (pm *presetMenu) Show(entries []string, hasRecent bool) {
	pm.visible = true
	pm.entries = entries
	pm.hasRecent = hasRecent
	pm.cursor = 0
}

func (pm *presetMenu) Hide() { *pm = presetMenu{} }

func (pm presetMenu) rowCount() int {
	n := len(pm.entries)
	if pm.hasRecent {
		n++
	}
	return n
}

// target resolves the cursor row to a slot.
func (pm presetMenu) target() (recent bool, name string) {
	i := pm.cursor
	if pm.hasRecent {
		if i == 0 {
			return true, ""
		}
		i--
	}
	if i >= 0 && i < len(pm.entries) {
		return false, pm.entries[i]
	}
	return false, ""
}

// Update handles one key while the menu is open.
func (pm presetMenu) Update(msg tea.KeyMsg) (presetMenu, menuResult) {
	key := msg.String()
	switch key {
	case "esc", "q", "p":
		pm.Hide()
		return pm, menuResult{action: menuClose}
	case "j", "down":
		if pm.cursor < pm.rowCount()-1 {
			pm.cursor++
		}
		return pm, menuResult{}
	case "k", "up":
		if pm.cursor > 0 {
			pm.cursor--
		}
		return pm, menuResult{}
	case "enter", "y", " ":
		recent, name := pm.target()
		if !recent && name == "" {
			return pm, menuResult{}
		}
		pm.Hide()
		return pm, menuResult{action: menuLoad, recent: recent, name: name}
	case "0":
		if !pm.hasRecent {
			return pm, menuResult{}
		}
		pm.Hide()
		return pm, menuResult{action: menuLoad, recent: true}
	case "d":
		recent, name := pm.target()
		if recent || name == "" {
			return pm, menuResult{}
		}
		return pm, menuResult{action: menuDelete, name: name}
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		slot := int(key[0] - '1')
		if slot < len(pm.entries) {
			name := pm.entries[slot]
			pm.Hide()
			return pm, menuResult{action: menuLoad, name: name}
		}
	}
	return pm, menuResult{}
}

// Removed drops a deleted entry and keeps the cursor on a valid row.
func (pm *presetMenu) Removed(name string) {
	kept := pm.entries[:0]
	for _, e := range pm.entries {
		if e != name {
			kept = append(kept, e)
		}
	}
	pm.entries = kept
	if pm.cursor >= pm.rowCount() {
		pm.cursor = pm.rowCount() - 1
	}
	if pm.cursor < 0 {
		pm.cursor = 0
	}
}

// View renders the menu centered in the content area.
func (pm presetMenu) View(width, height int) string {
	boxW := width - 8
	if boxW > 44 {
		boxW = 44
	}
	if boxW < 26 {
		boxW = 26
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Presets"), "")

	row := 0
	writeRow := func(slot, label string, style lipgloss.Style) {
		marker := "  "
		if row == pm.cursor {
			marker = "▸ "
			style = selectedStyle
		}
		rows = append(rows, marker+dimStyle.Render(slot)+" "+style.Render(label))
		row++
	}

	if pm.hasRecent {
		writeRow("0", "most recent apply", accentStyle)
	}
	for i, name := range pm.entries {
		slot := " "
		if i < 9 {
			slot = fmt.Sprintf("%d", i+1)
		}
		writeRow(slot, name, normalStyle)
	}
	if pm.rowCount() == 0 {
		rows = append(rows, dimStyle.Render("no saved presets"))
	}

	rows = append(rows, "", dimStyle.Render("enter: load  d: delete  esc: close"))
	box := overlayBoxStyle.Width(boxW).Render(strings.Join(rows, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
