package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxHistory = 50

type CommandBarModel struct {
	textInput textinput.Model
	width     int
	active    bool
	history   []string
	cursor    int
}

func NewCommandBar() *CommandBarModel {
	ti := textinput.New()
	ti.Placeholder = "Enter command..."
	ti.CharLimit = 256
	ti.Width = 50
	ti.ShowSuggestions = true

	return &CommandBarModel{textInput: ti}
}

func (m *CommandBarModel) SetWidth(width int) {
	m.width = width
	if width > 10 {
		m.textInput.Width = width - 10
	}
}

// SetSuggestions sets the completions offered while typing, e.g. ":import notion".
func (m *CommandBarModel) SetSuggestions(suggestions []string) {
	m.textInput.SetSuggestions(suggestions)
}

func (m *CommandBarModel) Activate() {
	m.active = true
	m.cursor = len(m.history)
	m.textInput.Focus()
	m.textInput.SetValue(":")
	m.textInput.CursorEnd()
}

func (m *CommandBarModel) Deactivate() {
	m.active = false
	m.textInput.Blur()
	m.textInput.SetValue("")
}

func (m *CommandBarModel) IsActive() bool {
	return m.active
}

func (m *CommandBarModel) Value() string {
	return m.textInput.Value()
}

// Remember appends input to the history, skipping immediate repeats.
func (m *CommandBarModel) Remember(input string) {
	if input == "" || input == ":" {
		return
	}
	if n := len(m.history); n > 0 && m.history[n-1] == input {
		return
	}
	m.history = append(m.history, input)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
}

func (m *CommandBarModel) History() []string {
	return m.history
}

func (m *CommandBarModel) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && len(m.history) > 0 {
		switch keyMsg.String() {
		case "up":
			m.cursor = max(0, m.cursor-1)
			m.textInput.SetValue(m.history[m.cursor])
			m.textInput.CursorEnd()
			return nil
		case "down":
			m.cursor = min(len(m.history), m.cursor+1)
			if m.cursor == len(m.history) {
				m.textInput.SetValue(":")
			} else {
				m.textInput.SetValue(m.history[m.cursor])
			}
			m.textInput.CursorEnd()
			return nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return cmd
}

func (m *CommandBarModel) View() string {
	if !m.active {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(lipgloss.Color("#1F2937")).
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Width(m.width)

	return style.Render(" " + m.textInput.View())
}
