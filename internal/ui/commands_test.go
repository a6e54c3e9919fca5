package ui

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stsh89/hermione/internal/domain"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input    string
		wantType CommandType
		wantArgs []string
	}{
		{":q", CommandQuit, []string{}},
		{":quit", CommandQuit, []string{}},
		{":creds", CommandCredentials, []string{}},
		{":w", CommandWorkspaces, []string{}},
		{":import notion", CommandImport, []string{"notion"}},
		{"  :export   Notion  ", CommandExport, []string{"Notion"}},
		{":logs", CommandLogs, []string{}},
		{":help", CommandHelp, []string{}},
		{":sync all", CommandUnknown, []string{"sync", "all"}},
		{"import", CommandUnknown, nil},
		{":", CommandUnknown, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseCommand(tt.input)
			if got.Type != tt.wantType {
				t.Errorf("ParseCommand(%q).Type = %v, want %v", tt.input, got.Type, tt.wantType)
			}
			if !reflect.DeepEqual(got.Args, tt.wantArgs) {
				t.Errorf("ParseCommand(%q).Args = %#v, want %#v", tt.input, got.Args, tt.wantArgs)
			}
		})
	}
}

func TestHandleKey_RespectsView(t *testing.T) {
	registry := NewCommandRegistry()
	m, _ := newTestModel()

	tests := []struct {
		state       ViewState
		key         string
		wantHandled bool
	}{
		{ViewCredentials, "a", true},
		{ViewCredentials, "e", false},
		{ViewCredentials, "/", false},
		{ViewWorkspaces, "a", false},
		{ViewWorkspaces, "d", false},
		{ViewWorkspaces, "/", true},
		{ViewWorkspaces, "L", true},
		{ViewCredentials, "x", false},
	}

	for _, tt := range tests {
		m.state = tt.state
		_, _, handled := registry.HandleKey(m, tt.key)
		if handled != tt.wantHandled {
			t.Errorf("HandleKey(%v, %q) handled = %v, want %v", tt.state, tt.key, handled, tt.wantHandled)
		}
	}
}

func TestHandleSwitchViewKey_Toggles(t *testing.T) {
	m, _ := newTestModel()

	m, cmd := handleSwitchViewKey(m)
	if m.state != ViewWorkspaces {
		t.Fatalf("expected ViewWorkspaces, got %v", m.state)
	}
	if _, ok := findMsg[WorkspacesLoadedMsg](collect(cmd)); !ok {
		t.Error("expected workspaces to load on entering the view")
	}

	m, _ = handleSwitchViewKey(m)
	if m.state != ViewCredentials {
		t.Errorf("expected ViewCredentials, got %v", m.state)
	}
}

func TestHandleQuitKey_Quits(t *testing.T) {
	m, _ := newTestModel()

	_, cmd := handleQuitKey(m)

	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestCommandBar_RunsCommandAndRemembersIt(t *testing.T) {
	m, _ := newTestModel()

	m, _ = press(t, m, ":")
	if !m.commandBar.IsActive() {
		t.Fatal("expected command bar to activate")
	}
	m = typeText(t, m, "workspaces")
	m, _ = press(t, m, "enter")

	if m.commandBar.IsActive() {
		t.Error("expected command bar to close after enter")
	}
	if m.state != ViewWorkspaces {
		t.Errorf("expected ViewWorkspaces, got %v", m.state)
	}
	if history := m.commandBar.History(); len(history) != 1 || history[0] != ":workspaces" {
		t.Errorf("history = %v, want [:workspaces]", history)
	}
}

func TestCommandBar_EscCancels(t *testing.T) {
	m, _ := newTestModel()

	m, _ = press(t, m, ":")
	m = typeText(t, m, "quit")
	m, cmd := press(t, m, "esc")

	if m.commandBar.IsActive() || cmd != nil {
		t.Error("expected esc to close the command bar without running it")
	}
}

func TestExecuteCommand_Unknown(t *testing.T) {
	m, _ := newTestModel()

	next, cmd := m.commandRegistry.ExecuteCommand(m, ":sync all")
	m = next.(Model)

	if cmd != nil {
		t.Error("expected no command")
	}
	msg, isErr := m.statusBar.Message()
	if !isErr || msg != "unknown command: sync all" {
		t.Errorf("status = %q (error %v)", msg, isErr)
	}
}

func TestExecuteCommand_ImportUnknownProvider(t *testing.T) {
	m, deps := newTestModel()

	next, cmd := m.commandRegistry.ExecuteCommand(m, ":import dropbox")
	m = next.(Model)

	if cmd != nil || len(deps.importer.calls) != 0 {
		t.Error("expected no import for an unknown provider")
	}
	msg, isErr := m.statusBar.Message()
	if !isErr || !strings.Contains(msg, `unknown backup provider "dropbox"`) {
		t.Errorf("status = %q (error %v)", msg, isErr)
	}
}

func TestExecuteCommand_ImportNamedProvider(t *testing.T) {
	m, deps := newTestModel()

	_, cmd := m.commandRegistry.ExecuteCommand(m, ":import Notion")

	if _, ok := findMsg[ImportFinishedMsg](collect(cmd)); !ok {
		t.Fatal("expected an ImportFinishedMsg")
	}
	if len(deps.importer.calls) != 1 || deps.importer.calls[0] != domain.BackupProviderNotion {
		t.Errorf("importer calls = %v, want [notion]", deps.importer.calls)
	}
}

func TestExecuteCommand_Quit(t *testing.T) {
	m, _ := newTestModel()

	_, cmd := m.commandRegistry.ExecuteCommand(m, ":q")

	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestLogsKey_OpensAndClosesLogs(t *testing.T) {
	m, _ := newTestModel()

	m, _ = press(t, m, "L")
	if !m.logsView.IsActive() {
		t.Fatal("expected logs view to open")
	}

	m, _ = press(t, m, "q")
	if m.logsView.IsActive() {
		t.Error("expected q to close the logs view rather than quit")
	}
}

func TestFilterKey_AppliesFilter(t *testing.T) {
	m, deps := newTestModel()
	deps.store.workspaces = append(deps.store.workspaces, domain.Workspace{ID: "ws-2", Name: "Dotfiles", Location: "/home/dotfiles"})
	next, _ := m.Update(WorkspacesLoadedMsg{workspaces: deps.store.workspaces})
	m = next.(Model)
	m = m.switchView(ViewWorkspaces)

	m, _ = press(t, m, "/")
	if !m.workspacesView.IsFiltering() {
		t.Fatal("expected filter input to open")
	}
	m = typeText(t, m, "dot")
	m, _ = press(t, m, "enter")

	if got := m.workspacesView.VisibleCount(); got != 1 {
		t.Errorf("VisibleCount() = %d, want 1", got)
	}
	if w := m.workspacesView.GetSelectedWorkspace(); w == nil || w.ID != "ws-2" {
		t.Errorf("selected = %+v, want ws-2", w)
	}

	m, _ = press(t, m, "esc")
	if got := m.workspacesView.VisibleCount(); got != 2 {
		t.Errorf("VisibleCount() after clear = %d, want 2", got)
	}
}

func TestGetContextualShortcuts(t *testing.T) {
	registry := NewCommandRegistry()

	credentials := strings.Join(registry.GetContextualShortcuts(ViewCredentials), " ")
	if !strings.Contains(credentials, "<a> Add credentials") || strings.Contains(credentials, "Export") {
		t.Errorf("credentials shortcuts = %q", credentials)
	}

	workspaces := strings.Join(registry.GetContextualShortcuts(ViewWorkspaces), " ")
	if !strings.Contains(workspaces, "<e> Export workspace") || strings.Contains(workspaces, "Add credentials") {
		t.Errorf("workspaces shortcuts = %q", workspaces)
	}
}
