package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stsh89/hermione/internal/domain"
)

type CredentialsItem struct {
	creds domain.BackupCredentials
}

func (i CredentialsItem) FilterValue() string { return string(i.creds.Kind()) }
func (i CredentialsItem) Title() string {
	return "● " + i.creds.Kind().DisplayName()
}
func (i CredentialsItem) Description() string {
	switch c := i.creds.(type) {
	case domain.NotionBackupCredentials:
		return fmt.Sprintf("key %s | workspaces %s | commands %s",
			MaskSecret(c.APIKey), c.WorkspacesDatabaseID, c.CommandsDatabaseID)
	default:
		return ""
	}
}

// MaskSecret keeps the last four characters of secret visible.
func MaskSecret(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("•", len(secret))
	}
	return "••••" + secret[len(secret)-4:]
}

type CredentialsMode int

const (
	CredentialsModeList CredentialsMode = iota
	CredentialsModeAdd
)

const (
	inputAPIKey = iota
	inputWorkspacesDB
	inputCommandsDB
	inputCount
)

type CredentialsViewModel struct {
	list       list.Model
	Mode       CredentialsMode
	inputs     [inputCount]textinput.Model
	inputFocus int
	saving     bool
	width      int
	height     int
}

func NewCredentialsView() *CredentialsViewModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Backup Credentials"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	var inputs [inputCount]textinput.Model

	inputs[inputAPIKey] = textinput.New()
	inputs[inputAPIKey].Placeholder = "secret_..."
	inputs[inputAPIKey].CharLimit = 256
	inputs[inputAPIKey].EchoMode = textinput.EchoPassword

	inputs[inputWorkspacesDB] = textinput.New()
	inputs[inputWorkspacesDB].Placeholder = "Workspaces database id"
	inputs[inputWorkspacesDB].CharLimit = 64

	inputs[inputCommandsDB] = textinput.New()
	inputs[inputCommandsDB].Placeholder = "Commands database id"
	inputs[inputCommandsDB].CharLimit = 64

	return &CredentialsViewModel{
		list:   l,
		Mode:   CredentialsModeList,
		inputs: inputs,
	}
}

func (m *CredentialsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(1, height-5))
}

func (m *CredentialsViewModel) SetCredentials(credentials []domain.BackupCredentials) {
	items := make([]list.Item, len(credentials))
	for i, creds := range credentials {
		items[i] = CredentialsItem{creds: creds}
	}
	m.list.SetItems(items)
}

func (m *CredentialsViewModel) Count() int {
	return len(m.list.Items())
}

func (m *CredentialsViewModel) EnterAddMode() {
	m.Mode = CredentialsModeAdd
	m.saving = false
	m.inputFocus = inputAPIKey
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.inputs[inputAPIKey].Focus()
}

func (m *CredentialsViewModel) ExitAddMode() {
	m.Mode = CredentialsModeList
	m.saving = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

// SetSaving marks the form as waiting for verification.
func (m *CredentialsViewModel) SetSaving(saving bool) {
	m.saving = saving
}

func (m *CredentialsViewModel) IsSaving() bool {
	return m.saving
}

func (m *CredentialsViewModel) Update(msg tea.Msg) tea.Cmd {
	if m.Mode == CredentialsModeAdd {
		return m.updateAddMode(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *CredentialsViewModel) updateAddMode(msg tea.Msg) tea.Cmd {
	if m.saving {
		return nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			m.focusInput((m.inputFocus + 1) % inputCount)
			return nil
		case "shift+tab", "up":
			m.focusInput((m.inputFocus - 1 + inputCount) % inputCount)
			return nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.inputFocus], cmd = m.inputs[m.inputFocus].Update(msg)
	return cmd
}

func (m *CredentialsViewModel) focusInput(i int) {
	m.inputs[m.inputFocus].Blur()
	m.inputFocus = i
	m.inputs[m.inputFocus].Focus()
}

func (m *CredentialsViewModel) GetNotionCredentials() domain.NotionBackupCredentials {
	return domain.NotionBackupCredentials{
		APIKey:               strings.TrimSpace(m.inputs[inputAPIKey].Value()),
		WorkspacesDatabaseID: strings.TrimSpace(m.inputs[inputWorkspacesDB].Value()),
		CommandsDatabaseID:   strings.TrimSpace(m.inputs[inputCommandsDB].Value()),
	}
}

func (m *CredentialsViewModel) GetSelectedCredentials() domain.BackupCredentials {
	item, ok := m.list.SelectedItem().(CredentialsItem)
	if !ok {
		return nil
	}
	return item.creds
}

func (m *CredentialsViewModel) View() string {
	if m.Mode == CredentialsModeAdd {
		return m.viewAddMode()
	}
	return m.viewListMode()
}

func (m *CredentialsViewModel) viewListMode() string {
	if len(m.list.Items()) == 0 {
		return titleStyle.Render("Backup Credentials") + "\n\n" +
			emptyStyle.Render("No backup credentials yet. Press a to connect Notion.") +
			"\n" + helpStyle.Render("\na: Add | Tab: Workspaces | L: Logs | :: Command | q: Quit")
	}

	return m.list.View() + helpStyle.Render("\ni: Import | a: Add/Replace | d: Delete | Tab: Workspaces | L: Logs | q: Quit")
}

func (m *CredentialsViewModel) viewAddMode() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Connect Notion"))
	b.WriteString("\n\n")

	labels := [inputCount]string{"API key:", "Workspaces database:", "Commands database:"}
	for i, label := range labels {
		b.WriteString(labelStyle.Render(label) + "\n")
		b.WriteString(m.inputs[i].View() + "\n\n")
	}

	if m.saving {
		b.WriteString(helpStyle.Render("Verifying credentials with Notion..."))
	} else {
		b.WriteString(helpStyle.Render("Tab: Next | Shift+Tab: Previous | Enter: Verify & Save | Esc: Cancel"))
	}

	return b.String()
}
