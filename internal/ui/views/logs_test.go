package views

import (
	"errors"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stsh89/hermione/internal/logger"
)

func TestLogsViewErrorsOnlyToggle(t *testing.T) {
	logger.Log("import started for %s", "notion")
	logger.LogError("IMPORT", "notion", errors.New("rate limited"))

	m := NewLogsView()
	m.SetSize(100, 40)
	m.Activate()

	all := len(m.Entries())
	if all < 2 {
		t.Fatalf("Entries() = %d, want at least 2", all)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if !m.ErrorsOnly() {
		t.Fatal("expected errors-only after pressing e")
	}
	for _, entry := range m.Entries() {
		if entry.Level < slog.LevelError {
			t.Errorf("errors-only view shows %v entry %q", entry.Level, entry.Message)
		}
	}
	if len(m.Entries()) == 0 || len(m.Entries()) >= all {
		t.Errorf("errors-only entries = %d, want between 1 and %d", len(m.Entries()), all-1)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if m.ErrorsOnly() || len(m.Entries()) < all {
		t.Error("expected all entries after toggling back")
	}
}

func TestLogsViewInactiveIgnoresKeys(t *testing.T) {
	m := NewLogsView()

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})

	if m.ErrorsOnly() {
		t.Error("inactive view should ignore keys")
	}
	if m.View() != "" {
		t.Error("inactive view should render nothing")
	}
}
