package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusBarModel shows the last message, or a spinner while a background
// operation runs.
type StatusBarModel struct {
	width   int
	message string
	isError bool
	busy    string
	spinner spinner.Model
}

func NewStatusBar() *StatusBarModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &StatusBarModel{spinner: s}
}

func (m *StatusBarModel) SetWidth(width int) {
	m.width = width
}

func (m *StatusBarModel) SetMessage(message string, isError bool) {
	m.message = message
	m.isError = isError
}

func (m *StatusBarModel) ClearMessage() {
	m.message = ""
	m.isError = false
}

func (m *StatusBarModel) Message() (string, bool) {
	return m.message, m.isError
}

// StartBusy shows label with a spinner until StopBusy is called.
func (m *StatusBarModel) StartBusy(label string) tea.Cmd {
	m.busy = label
	return m.spinner.Tick
}

func (m *StatusBarModel) StopBusy() {
	m.busy = ""
}

func (m *StatusBarModel) IsBusy() bool {
	return m.busy != ""
}

func (m *StatusBarModel) Update(msg tea.Msg) tea.Cmd {
	if !m.IsBusy() {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

func (m *StatusBarModel) View() string {
	content := " " + m.message
	if m.IsBusy() {
		content = " " + m.spinner.View() + " " + m.busy
	}

	if w := lipgloss.Width(content); m.width > 3 && w > m.width {
		content = content[:m.width-3] + "..."
	} else if w < m.width {
		content += strings.Repeat(" ", m.width-w)
	}

	bgColor := lipgloss.Color("#374151")
	if m.isError && !m.IsBusy() {
		bgColor = lipgloss.Color("#991B1B")
	}

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(bgColor).
		Width(m.width).
		Render(content)
}
