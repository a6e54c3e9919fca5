package views

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor    = lipgloss.Color("#7C3AED")
	errorColor      = lipgloss.Color("#EF4444")
	warningColor    = lipgloss.Color("#F59E0B")
	mutedColor      = lipgloss.Color("#6B7280")
	backgroundColor = lipgloss.Color("#1F2937")
	foregroundColor = lipgloss.Color("#E5E7EB")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(foregroundColor)

	emptyStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	filterStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)
)
