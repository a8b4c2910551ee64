// Package tui implements the interactive version prompt shown when a release
// is started without --version or --bump. It is a small Bubble Tea model:
// three suggested bumps plus a free-form entry backed by a textinput.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lsalehar/aero-data-fe/internal/semver"
	"github.com/lsalehar/aero-data-fe/pkg/pprint"
)

// option indexes: 0..2 are the suggested bumps, 3 is the custom entry.
const customOption = 3

var optionLabels = [3]string{"patch", "minor", "major"}

var (
	styleTitle    = lipgloss.NewStyle().Foreground(pprint.ColorPrimary).Bold(true)
	styleCursor   = lipgloss.NewStyle().Foreground(pprint.ColorAccent).Bold(true)
	styleOption   = lipgloss.NewStyle().Foreground(pprint.ColorText)
	styleDim      = lipgloss.NewStyle().Foreground(pprint.ColorMuted)
	styleBadValue = lipgloss.NewStyle().Foreground(pprint.ColorError)
)

// Model is the Bubble Tea model for the version prompt.
type Model struct {
	current     semver.Version
	suggestions [3]semver.Version
	cursor      int
	input       textinput.Model
	parseErr    string

	// Result
	chosen    semver.Version
	confirmed bool
	cancelled bool
}

// NewModel builds a prompt model for the given current version.
func NewModel(current semver.Version) Model {
	ti := textinput.New()
	ti.Placeholder = "X.Y.Z"
	ti.CharLimit = 24
	ti.Width = 16

	return Model{
		current:     current,
		suggestions: current.Suggestions(),
		input:       ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit

		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			m.syncFocus()
			return m, nil

		case tea.KeyDown:
			if m.cursor < customOption {
				m.cursor++
			}
			m.syncFocus()
			return m, nil

		case tea.KeyEnter:
			if m.cursor < customOption {
				m.chosen = m.suggestions[m.cursor]
				m.confirmed = true
				return m, tea.Quit
			}
			v, err := semver.Parse(m.input.Value())
			if err != nil {
				m.parseErr = err.Error()
				return m, nil
			}
			if semver.Compare(v, m.current) <= 0 {
				m.parseErr = fmt.Sprintf("%s is not greater than %s", v, m.current)
				return m, nil
			}
			m.chosen = v
			m.confirmed = true
			return m, tea.Quit
		}
	}

	if m.cursor == customOption {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.parseErr = ""
		return m, cmd
	}
	return m, nil
}

// syncFocus focuses the textinput only while the custom option is selected.
func (m *Model) syncFocus() {
	if m.cursor == customOption {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// View implements tea.Model.
func (m Model) View() string {
	s := styleTitle.Render(fmt.Sprintf("Select the next version (current %s)", m.current)) + "\n\n"

	for i, v := range m.suggestions {
		cursor := "  "
		line := fmt.Sprintf("%-6s %s", optionLabels[i], v)
		if m.cursor == i {
			cursor = styleCursor.Render("❯ ")
			s += cursor + styleCursor.Render(line) + "\n"
			continue
		}
		s += cursor + styleOption.Render(line) + "\n"
	}

	cursor := "  "
	label := styleOption.Render("custom ")
	if m.cursor == customOption {
		cursor = styleCursor.Render("❯ ")
		label = styleCursor.Render("custom ")
	}
	s += cursor + label + m.input.View() + "\n"

	if m.parseErr != "" {
		s += "\n" + styleBadValue.Render("✗ "+m.parseErr) + "\n"
	}
	s += "\n" + styleDim.Render("↑/↓ select · enter confirm · esc cancel") + "\n"
	return s
}

// Chosen returns the confirmed version, if any.
func (m Model) Chosen() (semver.Version, bool) {
	return m.chosen, m.confirmed
}

// PromptVersion runs the prompt and returns the selected version.
func PromptVersion(current semver.Version) (semver.Version, error) {
	final, err := tea.NewProgram(NewModel(current)).Run()
	if err != nil {
		return semver.Version{}, fmt.Errorf("version prompt: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return semver.Version{}, fmt.Errorf("version prompt: unexpected model type")
	}
	if m.cancelled || !m.confirmed {
		return semver.Version{}, fmt.Errorf("version prompt cancelled")
	}
	v, _ := m.Chosen()
	return v, nil
}
