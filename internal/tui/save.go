package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

type savePhase int

const (
	saveHidden savePhase = iota
	saveNaming
	saveOverwrite
)

// saveAction is what the save overlay wants the root model to do.
type saveAction int

const (
	saveNone saveAction = iota
	// saveSubmit: try to store under Name without overwriting.
	saveSubmit
	// saveForce: the user confirmed replacing the existing preset.
	saveForce
	saveCancel
)

type saveResult struct {
	action saveAction
	name   string
}

// saveOverlay collects a preset name and, when the name is already
// taken, asks before overwriting. The store calls happen in the root
// model; the overlay only runs the dialog.
type saveOverlay struct {
	phase savePhase
	form  *huh.Form
	name  string
	stem  string
}

func (s saveOverlay) Active() bool { return s.phase != saveHidden }

// Show opens the naming form. The returned command starts the form.
func (s *saveOverlay) Show() tea.Cmd {
	s.phase = saveNaming
	s.name = ""
	s.stem = ""
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Preset name").
				Description("Stored under ~/.config/monarch/presets").
				Value(&s.name),
		),
	).WithWidth(42).WithShowHelp(false).WithShowErrors(true)
	return s.form.Init()
}

// AskOverwrite switches to the overwrite prompt for an existing stem.
func (s *saveOverlay) AskOverwrite(stem string) {
	s.phase = saveOverwrite
	s.stem = stem
	s.form = nil
}

func (s *saveOverlay) Hide() { *s = saveOverlay{} }

// Update handles one message while the overlay is open.
func (s saveOverlay) Update(msg tea.Msg) (saveOverlay, tea.Cmd, saveResult) {
	switch s.phase {
	case saveNaming:
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
			s.Hide()
			return s, nil, saveResult{action: saveCancel}
		}
		form, cmd := s.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			s.form = f
		}
		if s.form.State == huh.StateCompleted {
			name := strings.TrimSpace(s.name)
			if name == "" {
				s.Hide()
				return s, nil, saveResult{action: saveCancel}
			}
			return s, nil, saveResult{action: saveSubmit, name: name}
		}
		return s, cmd, saveResult{}

	case saveOverwrite:
		if km, ok := msg.(tea.KeyMsg); ok {
			switch km.String() {
			case "y", "enter":
				stem := s.stem
				s.Hide()
				return s, nil, saveResult{action: saveForce, name: stem}
			case "n", "esc":
				s.Hide()
				return s, nil, saveResult{action: saveCancel}
			}
		}
	}
	return s, nil, saveResult{}
}

// View renders the overlay centered in the content area.
func (s saveOverlay) View(width, height int) string {
	boxW := width - 8
	if boxW > 48 {
		boxW = 48
	}
	if boxW < 30 {
		boxW = 30
	}

	var content string
	switch s.phase {
	case saveNaming:
		content = titleStyle.Render("Save preset") + "\n\n" + s.form.View()
	case saveOverwrite:
		content = titleStyle.Render("Preset exists") + "\n\n" +
			normalStyle.Render(fmt.Sprintf("%q is already stored.", s.stem)) + "\n\n" +
			dimStyle.Render("y/enter: overwrite   n/esc: cancel")
	default:
		return ""
	}

	box := overlayBoxStyle.Width(boxW).Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
