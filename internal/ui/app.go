package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stsh89/hermione/internal/backup"
	"github.com/stsh89/hermione/internal/domain"
	"github.com/stsh89/hermione/internal/logger"
	"github.com/stsh89/hermione/internal/ui/components"
	"github.com/stsh89/hermione/internal/ui/views"
)

type ViewState int

const (
	ViewCredentials ViewState = iota
	ViewWorkspaces
)

func (s ViewState) String() string {
	switch s {
	case ViewWorkspaces:
		return "Workspaces"
	default:
		return "Credentials"
	}
}

type CredentialsService interface {
	List() ([]domain.BackupCredentials, error)
	Save(ctx context.Context, creds domain.BackupCredentials) error
	Delete(kind domain.BackupProviderKind) error
}

type Importer interface {
	Execute(ctx context.Context, kind domain.BackupProviderKind) (backup.ImportSummary, error)
}

type Exporter interface {
	ExportWorkspace(ctx context.Context, id string, kind domain.BackupProviderKind) error
}

type Store interface {
	ListWorkspaces(ctx context.Context) ([]domain.Workspace, error)
	ListCommands(ctx context.Context, workspaceID string) ([]domain.Command, error)
}

type Dependencies struct {
	Credentials CredentialsService
	Importer    Importer
	Exporter    Exporter
	Store       Store
}

type Model struct {
	state           ViewState
	width           int
	height          int
	topBar          *components.TopBarModel
	statusBar       *components.StatusBarModel
	commandBar      *components.CommandBarModel
	credentialsView *views.CredentialsViewModel
	workspacesView  *views.WorkspacesViewModel
	logsView        *views.LogsViewModel
	deps            Dependencies
	ctx             context.Context
	commandRegistry *CommandRegistry
}

func NewModel(deps Dependencies) Model {
	m := Model{
		state:           ViewCredentials,
		topBar:          components.NewTopBar(),
		statusBar:       components.NewStatusBar(),
		commandBar:      components.NewCommandBar(),
		credentialsView: views.NewCredentialsView(),
		workspacesView:  views.NewWorkspacesView(),
		logsView:        views.NewLogsView(),
		deps:            deps,
		ctx:             context.Background(),
		commandRegistry: NewCommandRegistry(),
	}
	m.commandBar.SetSuggestions(commandSuggestions)
	m.updateShortcuts()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCredentials(), m.loadWorkspaces())
}

func (m Model) isInInputMode() bool {
	return m.commandBar.IsActive() ||
		m.logsView.IsActive() ||
		(m.state == ViewCredentials && m.credentialsView.Mode == views.CredentialsModeAdd) ||
		(m.state == ViewWorkspaces && m.workspacesView.IsFiltering())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.topBar.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.commandBar.SetWidth(msg.Width)
		m.credentialsView.SetSize(msg.Width, msg.Height-topBarHeight)
		m.workspacesView.SetSize(msg.Width, msg.Height-topBarHeight)
		m.logsView.SetSize(msg.Width, msg.Height-topBarHeight)
		return m, nil

	case tea.KeyMsg:
		if m.isInInputMode() {
			return m.handleInputKey(msg)
		}

		newModel, cmd, handled := m.commandRegistry.HandleKey(m, msg.String())
		if handled {
			return newModel, cmd
		}

	case CredentialsLoadedMsg:
		m.credentialsView.SetCredentials(msg.credentials)
		names := make([]string, len(msg.credentials))
		for i, creds := range msg.credentials {
			names[i] = creds.Kind().DisplayName()
		}
		m.topBar.SetProviders(names)
		return m, nil

	case WorkspacesLoadedMsg:
		m.workspacesView.SetWorkspaces(msg.workspaces, msg.commands)
		m.topBar.SetCounts(len(msg.workspaces), len(msg.commands))
		return m, nil

	case CredentialsSavedMsg:
		m.statusBar.StopBusy()
		m.credentialsView.ExitAddMode()
		m.statusBar.SetMessage(fmt.Sprintf("%s credentials verified and saved", msg.kind.DisplayName()), false)
		return m, m.loadCredentials()

	case CredentialsDeletedMsg:
		m.statusBar.SetMessage(fmt.Sprintf("Deleted %s credentials", msg.kind.DisplayName()), false)
		return m, m.loadCredentials()

	case ImportFinishedMsg:
		m.statusBar.StopBusy()
		summary := fmt.Sprintf("%d workspaces, %d commands", msg.summary.Workspaces, msg.summary.Commands)
		m.topBar.SetLastImport(summary)
		m.statusBar.SetMessage(fmt.Sprintf("Imported %s from %s", summary, msg.kind.DisplayName()), false)
		return m, m.loadWorkspaces()

	case ExportFinishedMsg:
		m.statusBar.StopBusy()
		m.statusBar.SetMessage(fmt.Sprintf("Exported workspace %s to %s", msg.name, msg.kind.DisplayName()), false)
		return m, nil

	case ErrorMsg:
		m.statusBar.StopBusy()
		m.credentialsView.SetSaving(false)
		m.statusBar.SetMessage(msg.err.Error(), true)
		return m, nil

	case SuccessMsg:
		m.statusBar.SetMessage(msg.message, false)
		return m, nil
	}

	if cmd := m.statusBar.Update(msg); cmd != nil {
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.state {
	case ViewCredentials:
		cmd = m.credentialsView.Update(msg)
	case ViewWorkspaces:
		cmd = m.workspacesView.Update(msg)
	}
	return m, cmd
}

// topBarHeight is the title, a blank line, the context rows and padding.
const topBarHeight = 9

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch {
	case m.commandBar.IsActive():
		switch key {
		case "enter":
			return m.handleCommand()
		case "esc":
			m.commandBar.Deactivate()
			return m, nil
		}
		return m, m.commandBar.Update(msg)

	case m.logsView.IsActive():
		if key == "esc" || key == "q" {
			m.logsView.Deactivate()
			return m, nil
		}
		return m, m.logsView.Update(msg)

	case m.workspacesView.IsFiltering():
		switch key {
		case "enter":
			m.workspacesView.ApplyFilter()
			return m, nil
		case "esc":
			m.workspacesView.ClearFilter()
			return m, nil
		}
		return m, m.workspacesView.Update(msg)

	default:
		switch key {
		case "enter":
			return m.saveCredentials()
		case "esc":
			if !m.credentialsView.IsSaving() {
				m.credentialsView.ExitAddMode()
			}
			return m, nil
		}
		return m, m.credentialsView.Update(msg)
	}
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch {
	case m.logsView.IsActive():
		content = m.logsView.View()
	case m.state == ViewWorkspaces:
		content = m.workspacesView.View()
	default:
		content = m.credentialsView.View()
	}

	bottom := m.statusBar.View()
	if commandBar := m.commandBar.View(); commandBar != "" {
		bottom = commandBar
	}

	return m.topBar.View() + "\n" + content + "\n" + bottom
}

func (m Model) handleCommand() (tea.Model, tea.Cmd) {
	input := m.commandBar.Value()
	m.commandBar.Remember(input)
	m.commandBar.Deactivate()

	logger.Log("UI: executing command %s", input)
	return m.commandRegistry.ExecuteCommand(m, input)
}

func (m Model) switchView(state ViewState) Model {
	m.state = state
	if !m.statusBar.IsBusy() {
		m.statusBar.ClearMessage()
	}
	m.updateShortcuts()
	return m
}

func (m Model) updateShortcuts() {
	m.topBar.SetView(m.state.String())
	m.topBar.SetShortcuts(m.commandRegistry.GetContextualShortcuts(m.state))
}

func (m Model) saveCredentials() (tea.Model, tea.Cmd) {
	if m.credentialsView.IsSaving() {
		return m, nil
	}

	creds := m.credentialsView.GetNotionCredentials()
	if err := creds.Validate(); err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return m, nil
	}

	m.credentialsView.SetSaving(true)
	return m, tea.Batch(
		m.statusBar.StartBusy("Verifying Notion credentials..."),
		m.saveCredentialsCmd(creds),
	)
}

func (m Model) saveCredentialsCmd(creds domain.BackupCredentials) tea.Cmd {
	return func() tea.Msg {
		if err := m.deps.Credentials.Save(m.ctx, creds); err != nil {
			return ErrorMsg{err: err}
		}
		return CredentialsSavedMsg{kind: creds.Kind()}
	}
}

func (m Model) deleteCredentials(kind domain.BackupProviderKind) tea.Cmd {
	return func() tea.Msg {
		if err := m.deps.Credentials.Delete(kind); err != nil {
			return ErrorMsg{err: err}
		}
		return CredentialsDeletedMsg{kind: kind}
	}
}

func (m Model) startImport(kind domain.BackupProviderKind) (Model, tea.Cmd) {
	if m.statusBar.IsBusy() {
		return m, nil
	}
	label := fmt.Sprintf("Importing from %s...", kind.DisplayName())
	return m, tea.Batch(m.statusBar.StartBusy(label), m.runImport(kind))
}

func (m Model) runImport(kind domain.BackupProviderKind) tea.Cmd {
	return func() tea.Msg {
		summary, err := m.deps.Importer.Execute(m.ctx, kind)
		if err != nil {
			return ErrorMsg{err: err}
		}
		return ImportFinishedMsg{kind: kind, summary: summary}
	}
}

func (m Model) startExport(kind domain.BackupProviderKind) (Model, tea.Cmd) {
	workspace := m.workspacesView.GetSelectedWorkspace()
	if m.state != ViewWorkspaces || workspace == nil {
		m.statusBar.SetMessage("Select a workspace to export", true)
		return m, nil
	}
	if m.statusBar.IsBusy() {
		return m, nil
	}

	label := fmt.Sprintf("Exporting %s to %s...", workspace.Name, kind.DisplayName())
	return m, tea.Batch(m.statusBar.StartBusy(label), m.runExport(*workspace, kind))
}

func (m Model) runExport(workspace domain.Workspace, kind domain.BackupProviderKind) tea.Cmd {
	return func() tea.Msg {
		if err := m.deps.Exporter.ExportWorkspace(m.ctx, workspace.ID, kind); err != nil {
			return ErrorMsg{err: err}
		}
		return ExportFinishedMsg{kind: kind, name: workspace.Name}
	}
}

func (m Model) loadCredentials() tea.Cmd {
	return func() tea.Msg {
		credentials, err := m.deps.Credentials.List()
		if err != nil {
			return ErrorMsg{err: err}
		}
		return CredentialsLoadedMsg{credentials: credentials}
	}
}

func (m Model) loadWorkspaces() tea.Cmd {
	return func() tea.Msg {
		workspaces, err := m.deps.Store.ListWorkspaces(m.ctx)
		if err != nil {
			return ErrorMsg{err: err}
		}
		commands, err := m.deps.Store.ListCommands(m.ctx, "")
		if err != nil {
			return ErrorMsg{err: err}
		}
		return WorkspacesLoadedMsg{workspaces: workspaces, commands: commands}
	}
}

type CredentialsLoadedMsg struct {
	credentials []domain.BackupCredentials
}

type WorkspacesLoadedMsg struct {
	workspaces []domain.Workspace
	commands   []domain.Command
}

type CredentialsSavedMsg struct {
	kind domain.BackupProviderKind
}

type CredentialsDeletedMsg struct {
	kind domain.BackupProviderKind
}

type ImportFinishedMsg struct {
	kind    domain.BackupProviderKind
	summary backup.ImportSummary
}

type ExportFinishedMsg struct {
	kind domain.BackupProviderKind
	name string
}

type ErrorMsg struct {
	err error
}

type SuccessMsg struct {
	message string
}
