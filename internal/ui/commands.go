package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stsh89/hermione/internal/domain"
	"github.com/stsh89/hermione/internal/logger"
)

type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandQuit
	CommandCredentials
	CommandWorkspaces
	CommandImport
	CommandExport
	CommandLogs
	CommandHelp
)

type Command struct {
	Type CommandType
	Args []string
}

func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)

	if !strings.HasPrefix(input, ":") {
		return Command{Type: CommandUnknown}
	}

	parts := strings.Fields(strings.TrimPrefix(input, ":"))
	if len(parts) == 0 {
		return Command{Type: CommandUnknown}
	}

	args := parts[1:]
	switch parts[0] {
	case "q", "quit":
		return Command{Type: CommandQuit, Args: args}
	case "c", "creds", "credentials":
		return Command{Type: CommandCredentials, Args: args}
	case "w", "ws", "workspaces":
		return Command{Type: CommandWorkspaces, Args: args}
	case "import":
		return Command{Type: CommandImport, Args: args}
	case "export":
		return Command{Type: CommandExport, Args: args}
	case "logs":
		return Command{Type: CommandLogs, Args: args}
	case "h", "help":
		return Command{Type: CommandHelp, Args: args}
	default:
		return Command{Type: CommandUnknown, Args: parts}
	}
}

// commandSuggestions feeds the command bar completion.
var commandSuggestions = []string{
	":import notion",
	":export notion",
	":creds",
	":workspaces",
	":logs",
	":help",
	":quit",
}

type KeyHandler func(m Model) (Model, tea.Cmd)

type KeyBinding struct {
	Keys        []string
	Description string
	AvailableIn []ViewState
	Handler     KeyHandler
}

type CommandRegistry struct {
	keyBindings []*KeyBinding
}

var allViews = []ViewState{ViewCredentials, ViewWorkspaces}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		keyBindings: []*KeyBinding{
			{Keys: []string{":"}, Description: "Command", AvailableIn: allViews, Handler: handleCommandKey},
			{Keys: []string{"tab"}, Description: "Switch view", AvailableIn: allViews, Handler: handleSwitchViewKey},
			{Keys: []string{"i"}, Description: "Import from Notion", AvailableIn: allViews, Handler: handleImportKey},
			{Keys: []string{"a"}, Description: "Add credentials", AvailableIn: []ViewState{ViewCredentials}, Handler: handleAddKey},
			{Keys: []string{"d"}, Description: "Delete credentials", AvailableIn: []ViewState{ViewCredentials}, Handler: handleDeleteKey},
			{Keys: []string{"e"}, Description: "Export workspace", AvailableIn: []ViewState{ViewWorkspaces}, Handler: handleExportKey},
			{Keys: []string{"/"}, Description: "Filter", AvailableIn: []ViewState{ViewWorkspaces}, Handler: handleFilterKey},
			{Keys: []string{"esc"}, Description: "Clear filter", AvailableIn: []ViewState{ViewWorkspaces}, Handler: handleClearFilterKey},
			{Keys: []string{"r"}, Description: "Refresh", AvailableIn: allViews, Handler: handleRefreshKey},
			{Keys: []string{"L"}, Description: "Logs", AvailableIn: allViews, Handler: handleLogsKey},
			{Keys: []string{"q", "ctrl+c"}, Description: "Quit", AvailableIn: allViews, Handler: handleQuitKey},
		},
	}
}

func (b *KeyBinding) availableIn(state ViewState) bool {
	for _, s := range b.AvailableIn {
		if s == state {
			return true
		}
	}
	return false
}

// HandleKey runs the binding for key in the current view, if any.
func (r *CommandRegistry) HandleKey(m Model, key string) (tea.Model, tea.Cmd, bool) {
	for _, binding := range r.keyBindings {
		if !binding.availableIn(m.state) {
			continue
		}
		for _, k := range binding.Keys {
			if k == key {
				newModel, cmd := binding.Handler(m)
				return newModel, cmd, true
			}
		}
	}
	return m, nil, false
}

func (r *CommandRegistry) ExecuteCommand(m Model, input string) (tea.Model, tea.Cmd) {
	command := ParseCommand(input)

	switch command.Type {
	case CommandQuit:
		return m, tea.Quit
	case CommandCredentials:
		return m.switchView(ViewCredentials), nil
	case CommandWorkspaces:
		return m.switchView(ViewWorkspaces), m.loadWorkspaces()
	case CommandLogs:
		return handleLogsKey(m)
	case CommandHelp:
		m.statusBar.SetMessage("Commands: "+strings.Join(commandSuggestions, " "), false)
		return m, nil
	case CommandImport:
		kind, err := providerArg(command.Args)
		if err != nil {
			m.statusBar.SetMessage(err.Error(), true)
			return m, nil
		}
		return m.startImport(kind)
	case CommandExport:
		kind, err := providerArg(command.Args)
		if err != nil {
			m.statusBar.SetMessage(err.Error(), true)
			return m, nil
		}
		return m.startExport(kind)
	default:
		err := fmt.Errorf("unknown command: %s", strings.Join(command.Args, " "))
		logger.LogError("COMMAND", input, err)
		m.statusBar.SetMessage(err.Error(), true)
		return m, nil
	}
}

// providerArg defaults to Notion when no provider is named.
func providerArg(args []string) (domain.BackupProviderKind, error) {
	if len(args) == 0 {
		return domain.BackupProviderNotion, nil
	}
	return domain.ParseBackupProviderKind(args[0])
}

func (r *CommandRegistry) GetContextualShortcuts(state ViewState) []string {
	var shortcuts []string
	for _, binding := range r.keyBindings {
		if binding.availableIn(state) {
			shortcuts = append(shortcuts, fmt.Sprintf("<%s> %s", binding.Keys[0], binding.Description))
		}
	}
	return shortcuts
}

func handleCommandKey(m Model) (Model, tea.Cmd) {
	m.commandBar.Activate()
	return m, nil
}

func handleSwitchViewKey(m Model) (Model, tea.Cmd) {
	if m.state == ViewCredentials {
		return m.switchView(ViewWorkspaces), m.loadWorkspaces()
	}
	return m.switchView(ViewCredentials), nil
}

func handleImportKey(m Model) (Model, tea.Cmd) {
	kind := domain.BackupProviderNotion
	if m.state == ViewCredentials {
		if creds := m.credentialsView.GetSelectedCredentials(); creds != nil {
			kind = creds.Kind()
		}
	}
	return m.startImport(kind)
}

func handleAddKey(m Model) (Model, tea.Cmd) {
	m.credentialsView.EnterAddMode()
	return m, nil
}

func handleDeleteKey(m Model) (Model, tea.Cmd) {
	creds := m.credentialsView.GetSelectedCredentials()
	if creds == nil {
		return m, nil
	}
	return m, m.deleteCredentials(creds.Kind())
}

func handleExportKey(m Model) (Model, tea.Cmd) {
	return m.startExport(domain.BackupProviderNotion)
}

func handleFilterKey(m Model) (Model, tea.Cmd) {
	m.workspacesView.ActivateFilter()
	return m, nil
}

func handleClearFilterKey(m Model) (Model, tea.Cmd) {
	m.workspacesView.ClearFilter()
	return m, nil
}

func handleRefreshKey(m Model) (Model, tea.Cmd) {
	return m, tea.Batch(m.loadCredentials(), m.loadWorkspaces())
}

func handleLogsKey(m Model) (Model, tea.Cmd) {
	m.logsView.Activate()
	return m, nil
}

func handleQuitKey(m Model) (Model, tea.Cmd) {
	logger.Log("UI: quitting")
	return m, tea.Quit
}
