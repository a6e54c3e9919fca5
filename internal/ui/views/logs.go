package views

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stsh89/hermione/internal/logger"
)

type LogsViewModel struct {
	width      int
	height     int
	offset     int
	active     bool
	errorsOnly bool
	logs       []logger.LogEntry
}

func NewLogsView() *LogsViewModel {
	return &LogsViewModel{}
}

func (m *LogsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *LogsViewModel) Activate() {
	m.active = true
	m.refresh()
	m.scrollToBottom()
}

func (m *LogsViewModel) Deactivate() {
	m.active = false
	m.offset = 0
}

func (m *LogsViewModel) IsActive() bool {
	return m.active
}

// ErrorsOnly reports whether entries below error level are hidden.
func (m *LogsViewModel) ErrorsOnly() bool {
	return m.errorsOnly
}

func (m *LogsViewModel) Entries() []logger.LogEntry {
	return m.logs
}

func (m *LogsViewModel) refresh() {
	all := logger.GetLogs()
	if !m.errorsOnly {
		m.logs = all
		return
	}

	var errors []logger.LogEntry
	for _, entry := range all {
		if entry.Level >= slog.LevelError {
			errors = append(errors, entry)
		}
	}
	m.logs = errors
}

func (m *LogsViewModel) visibleLines() int {
	return max(1, m.height-8)
}

func (m *LogsViewModel) maxOffset() int {
	return max(0, len(m.logs)-m.visibleLines())
}

func (m *LogsViewModel) scrollToBottom() {
	m.offset = m.maxOffset()
}

func (m *LogsViewModel) Update(msg tea.Msg) tea.Cmd {
	if !m.active {
		return nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		m.offset = max(0, m.offset-1)
	case "down", "j":
		m.offset = min(m.maxOffset(), m.offset+1)
	case "pgup":
		m.offset = max(0, m.offset-m.visibleLines())
	case "pgdown":
		m.offset = min(m.maxOffset(), m.offset+m.visibleLines())
	case "g", "home":
		m.offset = 0
	case "G", "end":
		m.scrollToBottom()
	case "e":
		m.errorsOnly = !m.errorsOnly
		m.refresh()
		m.scrollToBottom()
	case "r":
		m.refresh()
		m.scrollToBottom()
	}

	return nil
}

func entryColor(entry logger.LogEntry) lipgloss.Color {
	switch {
	case entry.Level >= slog.LevelError:
		return errorColor
	case entry.Level >= slog.LevelWarn:
		return warningColor
	case entry.Level < slog.LevelInfo:
		return mutedColor
	default:
		return foregroundColor
	}
}

func (m *LogsViewModel) View() string {
	if !m.active {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("Session Logs (%d entries)", len(m.logs))
	if m.errorsOnly {
		title += " [errors only]"
	}
	b.WriteString(titleStyle.Padding(1, 0).Render(title))
	b.WriteString("\n\n")

	if len(m.logs) == 0 {
		b.WriteString(emptyStyle.Render("No logs yet"))
	} else {
		end := min(m.offset+m.visibleLines(), len(m.logs))
		for _, entry := range m.logs[m.offset:end] {
			line := fmt.Sprintf("[%s] %s", entry.Timestamp.Format("15:04:05.000"), entry.Message)
			b.WriteString(lipgloss.NewStyle().Foreground(entryColor(entry)).Render(line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")

	scrollInfo := ""
	if len(m.logs) > m.visibleLines() {
		scrollInfo = fmt.Sprintf(" | Showing %d-%d of %d", m.offset+1, min(m.offset+m.visibleLines(), len(m.logs)), len(m.logs))
	}
	b.WriteString(helpStyle.Render("j/k: Scroll | PgUp/PgDn: Page | g/G: Top/Bottom | e: Errors only | r: Refresh | Esc: Close" + scrollInfo))

	return boxStyle.Width(max(0, m.width-4)).Render(b.String())
}
