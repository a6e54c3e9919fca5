package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TopBarModel struct {
	width       int
	providers   []string
	workspaces  int
	commands    int
	lastImport  string
	currentView string
	shortcuts   []string
}

var (
	titleStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleOrangeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	valueWhiteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	shortcutBlueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	descGrayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
)

const (
	fixedRows       = 5
	contextColWidth = 45
	colMargin       = 4
)

func NewTopBar() *TopBarModel {
	return &TopBarModel{}
}

func (m *TopBarModel) SetWidth(width int) {
	m.width = width
}

// SetProviders lists the display names of providers with stored credentials.
func (m *TopBarModel) SetProviders(providers []string) {
	m.providers = providers
}

func (m *TopBarModel) SetCounts(workspaces, commands int) {
	m.workspaces = workspaces
	m.commands = commands
}

func (m *TopBarModel) SetLastImport(summary string) {
	m.lastImport = summary
}

func (m *TopBarModel) SetView(view string) {
	m.currentView = view
}

func (m *TopBarModel) SetShortcuts(shortcuts []string) {
	m.shortcuts = shortcuts
}

func (m *TopBarModel) View() string {
	contextLines := m.buildContextInfo()
	shortcutCol1, shortcutCol2, col1Width := m.buildShortcutsDisplay(len(contextLines))

	topSection := []string{titleOrangeStyle.Render("Hermione"), ""}

	for i := 0; i < fixedRows; i++ {
		var contextCol, sc1, sc2 string
		if i < len(contextLines) {
			contextCol = contextLines[i]
		}
		if i < len(shortcutCol1) {
			sc1 = shortcutCol1[i]
		}
		if i < len(shortcutCol2) {
			sc2 = shortcutCol2[i]
		}

		padding1 := contextColWidth - lipgloss.Width(contextCol)
		if padding1 < 0 {
			padding1 = 1
		}
		line := contextCol + strings.Repeat(" ", padding1) + sc1

		if sc2 != "" {
			padding2 := max(colMargin, col1Width-lipgloss.Width(sc1)+colMargin)
			line += strings.Repeat(" ", padding2) + sc2
		}

		topSection = append(topSection, line)
	}

	return titleStyle.Width(m.width).Render(strings.Join(topSection, "\n"))
}

func contextLine(icon, label, value string) string {
	return icon + " " + titleOrangeStyle.Render(label+": ") + valueWhiteStyle.Render(value)
}

func (m *TopBarModel) buildContextInfo() []string {
	backup := "none"
	if len(m.providers) > 0 {
		backup = strings.Join(m.providers, ", ")
	}

	lastImport := m.lastImport
	if lastImport == "" {
		lastImport = "not this session"
	}
	if len(lastImport) > 32 {
		lastImport = lastImport[:29] + "..."
	}

	view := m.currentView
	if view == "" {
		view = "Credentials"
	}

	return []string{
		contextLine("☁", "Backup", backup),
		contextLine("📁", "Workspaces", fmt.Sprintf("%d", m.workspaces)),
		contextLine("⚙", "Commands", fmt.Sprintf("%d", m.commands)),
		contextLine("⟳", "Import", lastImport),
		contextLine("🎯", "View", view),
	}
}

// buildShortcutsDisplay formats "<key> description" entries into at most
// two columns.
func (m *TopBarModel) buildShortcutsDisplay(contextHeight int) ([]string, []string, int) {
	var formatted []string
	maxWidth := 0

	for _, shortcut := range m.shortcuts {
		parts := strings.SplitN(shortcut, ">", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], "<")
		entry := shortcutBlueStyle.Render("<"+key+">") + " " + descGrayStyle.Render(strings.TrimSpace(parts[1]))
		formatted = append(formatted, entry)
		maxWidth = max(maxWidth, lipgloss.Width(entry))
	}

	rows := max(fixedRows, contextHeight)
	if len(formatted) <= rows {
		return formatted, nil, maxWidth
	}
	return formatted[:rows], formatted[rows:], maxWidth
}
