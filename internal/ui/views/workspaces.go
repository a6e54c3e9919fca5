package views

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stsh89/hermione/internal/domain"
)

// workspaceRow is a workspace with the aggregates shown in the table.
type workspaceRow struct {
	workspace domain.Workspace
	commands  int
	lastRun   *time.Time
}

type WorkspacesViewModel struct {
	table table.Model

	source  []workspaceRow
	visible []workspaceRow

	width       int
	height      int
	filterInput textinput.Model
	filtering   bool
	filterText  string
}

func NewWorkspacesView() *WorkspacesViewModel {
	t := table.New(
		table.WithColumns(workspaceColumns(30)),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.HiddenBorder()).
		Bold(false).
		Foreground(mutedColor)
	s.Selected = s.Selected.
		Foreground(warningColor).
		Background(backgroundColor).
		Bold(true)
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = "Filter by name or location..."
	ti.CharLimit = 100

	return &WorkspacesViewModel{
		table:       t,
		filterInput: ti,
	}
}

const (
	commandsWidth = 9
	lastRunWidth  = 14
	locationWidth = 40
	minNameWidth  = 16
	maxNameWidth  = 60
)

func workspaceColumns(nameWidth int) []table.Column {
	return []table.Column{
		{Title: "Name", Width: nameWidth},
		{Title: "Location", Width: locationWidth},
		{Title: "Commands", Width: commandsWidth},
		{Title: "Last run", Width: lastRunWidth},
	}
}

func (m *WorkspacesViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(1, height-7))

	available := max(0, width-commandsWidth-lastRunWidth-locationWidth-4)
	m.table.SetColumns(workspaceColumns(clamp(available, minNameWidth, maxNameWidth)))
	m.rebuild()
}

// SetWorkspaces replaces the table contents. Commands are only used for the
// per-workspace count and last run.
func (m *WorkspacesViewModel) SetWorkspaces(workspaces []domain.Workspace, commands []domain.Command) {
	byWorkspace := make(map[string]*workspaceRow, len(workspaces))
	rows := make([]workspaceRow, len(workspaces))
	for i, w := range workspaces {
		rows[i] = workspaceRow{workspace: w}
		byWorkspace[w.ID] = &rows[i]
	}

	for _, c := range commands {
		row, ok := byWorkspace[c.WorkspaceID]
		if !ok {
			continue
		}
		row.commands++
		if c.LastExecuteTime != nil && (row.lastRun == nil || c.LastExecuteTime.After(*row.lastRun)) {
			row.lastRun = c.LastExecuteTime
		}
	}

	m.source = rows
	m.rebuild()
}

// source → filter → sort → visible → rows
func (m *WorkspacesViewModel) rebuild() {
	filtered := m.filterRows(m.source)
	sort.SliceStable(filtered, func(i, j int) bool {
		return strings.ToLower(filtered[i].workspace.Name) < strings.ToLower(filtered[j].workspace.Name)
	})
	m.visible = filtered

	nameWidth := m.table.Columns()[0].Width
	rows := make([]table.Row, len(filtered))
	for i, r := range filtered {
		rows[i] = table.Row{
			truncateString(r.workspace.Name, nameWidth),
			truncateString(r.workspace.Location, locationWidth),
			strconv.Itoa(r.commands),
			formatLastRun(r.lastRun),
		}
	}
	m.table.SetRows(rows)
}

func (m *WorkspacesViewModel) filterRows(rows []workspaceRow) []workspaceRow {
	if m.filterText == "" {
		return append([]workspaceRow(nil), rows...)
	}

	filter := strings.ToLower(m.filterText)
	var out []workspaceRow
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.workspace.Name), filter) ||
			strings.Contains(strings.ToLower(r.workspace.Location), filter) {
			out = append(out, r)
		}
	}
	return out
}

func (m *WorkspacesViewModel) Count() int {
	return len(m.source)
}

func (m *WorkspacesViewModel) VisibleCount() int {
	return len(m.visible)
}

func (m *WorkspacesViewModel) GetSelectedWorkspace() *domain.Workspace {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visible) {
		return nil
	}
	w := m.visible[idx].workspace
	return &w
}

func (m *WorkspacesViewModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.filtering {
		m.filterInput, cmd = m.filterInput.Update(msg)
	} else {
		m.table, cmd = m.table.Update(msg)
	}
	return cmd
}

func (m *WorkspacesViewModel) ActivateFilter() {
	m.filtering = true
	m.filterInput.SetValue(m.filterText)
	m.filterInput.Focus()
}

func (m *WorkspacesViewModel) ApplyFilter() {
	m.filterText = m.filterInput.Value()
	m.filtering = false
	m.filterInput.Blur()
	m.rebuild()
}

func (m *WorkspacesViewModel) ClearFilter() {
	m.filterText = ""
	m.filterInput.SetValue("")
	m.filtering = false
	m.filterInput.Blur()
	m.rebuild()
}

func (m *WorkspacesViewModel) IsFiltering() bool {
	return m.filtering
}

func (m *WorkspacesViewModel) View() string {
	if len(m.source) == 0 {
		return titleStyle.Render("Workspaces") + "\n\n" +
			emptyStyle.Render("No workspaces yet. Press i to import them from Notion.") +
			"\n" + helpStyle.Render("\n"+m.helpText())
	}

	content := titleStyle.Render(fmt.Sprintf("Workspaces (%d)", len(m.visible))) + "\n" + m.table.View()
	if m.filtering {
		content += "\n" + filterStyle.Render("Filter: ") + m.filterInput.View()
	}
	return content + helpStyle.Render("\n"+m.helpText())
}

func (m *WorkspacesViewModel) helpText() string {
	if m.filtering {
		return "Type to filter | Enter: Apply | Esc: Cancel"
	}
	if m.filterText != "" {
		return "e: Export to Notion | i: Import | r: Refresh | /: Filter | Esc: Clear filter | Tab: Credentials"
	}
	return "e: Export to Notion | i: Import | r: Refresh | /: Filter | Tab: Credentials | q: Quit"
}

func truncateString(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func formatLastRun(t *time.Time) string {
	if t == nil {
		return "never"
	}
	d := time.Since(*t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func clamp(v, minV, maxV int) int {
	return min(max(v, minV), maxV)
}
