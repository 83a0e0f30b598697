package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/monarch/internal/layout"
)

// listOrder is the presentation order of the list pane: enabled
// outputs by name, then disabled ones by name. It matches the list
// focus ordering of the layout so keyboard and mouse agree.
func listOrder(outputs []layout.Output) []int {
	var enabled, disabled []int
	for i := range outputs {
		if outputs[i].Enabled {
			enabled = append(enabled, i)
		} else {
			disabled = append(disabled, i)
		}
	}
	byName := func(idx []int) {
		sort.Slice(idx, func(a, b int) bool {
			return outputs[idx[a]].Name < outputs[idx[b]].Name
		})
	}
	byName(enabled)
	byName(disabled)
	return append(enabled, disabled...)
}

// itemHeight is the number of list rows one output occupies, including
// the trailing blank line. Mouse hit testing walks the same heights.
func itemHeight(o *layout.Output) int {
	if o.Enabled {
		return 4
	}
	return 2
}

// listItemAt maps a row inside the list pane to the output rendered
// there, -1 when the row is past the last item.
func listItemAt(outputs []layout.Output, row int) int {
	y := 0
	for _, idx := range listOrder(outputs) {
		h := itemHeight(&outputs[idx])
		if row < y+h {
			return idx
		}
		y += h
	}
	return -1
}

// renderList draws the output list pane.
func renderList(lay *layout.Layout, width, height int) string {
	clip := lipgloss.NewStyle().MaxWidth(width)
	var b strings.Builder
	used := 0
	for _, idx := range listOrder(lay.Outputs) {
		o := &lay.Outputs[idx]
		h := itemHeight(o)
		if used+h > height {
			break
		}
		writeItem(&b, clip, o, idx == lay.Selected)
		used += h
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeItem(b *strings.Builder, clip lipgloss.Style, o *layout.Output, selected bool) {
	marker := "  "
	nameStyle := normalStyle
	if selected {
		marker = "▸ "
		nameStyle = selectedStyle
	}
	if !o.Enabled {
		nameStyle = dimStyle
	}

	name := o.Name
	if !o.Connected {
		name += " (disconnected)"
	}
	b.WriteString(clip.Render(marker + nameStyle.Render(name)))
	b.WriteByte('\n')

	if !o.Enabled {
		b.WriteByte('\n')
		return
	}

	scale := goodStyle.Render(fmt.Sprintf("%.2fx", o.Scale))
	b.WriteString(clip.Render(fmt.Sprintf("    %s  %s", o.ResolutionText(), scale)))
	b.WriteByte('\n')

	detail := fmt.Sprintf("pos %d,%d  ws %s", o.X, o.Y, workspaceText(o.Workspaces))
	b.WriteString(clip.Render("    " + detailStyle.Render(detail)))
	b.WriteByte('\n')
	b.WriteByte('\n')
}

func workspaceText(ws []int) string {
	if len(ws) == 0 {
		return "-"
	}
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = fmt.Sprintf("%d", w)
	}
	return strings.Join(parts, ",")
}
