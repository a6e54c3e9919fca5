package views

import (
	"testing"
	"time"

	"github.com/stsh89/hermione/internal/domain"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestSetWorkspacesAggregatesCommands(t *testing.T) {
	older := time.Now().Add(-3 * time.Hour)
	newer := time.Now().Add(-10 * time.Minute)

	m := NewWorkspacesView()
	m.SetSize(140, 30)
	m.SetWorkspaces(
		[]domain.Workspace{
			{ID: "ws-1", Name: "hermione"},
			{ID: "ws-2", Name: "Dotfiles"},
		},
		[]domain.Command{
			{ID: "c1", WorkspaceID: "ws-1", LastExecuteTime: ptrTime(older)},
			{ID: "c2", WorkspaceID: "ws-1", LastExecuteTime: ptrTime(newer)},
			{ID: "c3", WorkspaceID: "ws-1"},
			{ID: "c4", WorkspaceID: "ws-missing"},
		},
	)

	if m.Count() != 2 || m.VisibleCount() != 2 {
		t.Fatalf("Count() = %d, VisibleCount() = %d; want 2, 2", m.Count(), m.VisibleCount())
	}

	// Sorted case-insensitively: Dotfiles first.
	if m.visible[0].workspace.ID != "ws-2" {
		t.Errorf("first row = %s, want ws-2", m.visible[0].workspace.ID)
	}
	if m.visible[1].commands != 3 {
		t.Errorf("hermione commands = %d, want 3", m.visible[1].commands)
	}
	if m.visible[1].lastRun == nil || !m.visible[1].lastRun.Equal(newer) {
		t.Errorf("hermione last run = %v, want %v", m.visible[1].lastRun, newer)
	}
	if m.visible[0].lastRun != nil {
		t.Errorf("Dotfiles last run = %v, want nil", m.visible[0].lastRun)
	}

	if w := m.GetSelectedWorkspace(); w == nil || w.ID != "ws-2" {
		t.Errorf("GetSelectedWorkspace() = %+v, want ws-2", w)
	}
}

func TestWorkspacesFilterMatchesLocation(t *testing.T) {
	m := NewWorkspacesView()
	m.SetWorkspaces([]domain.Workspace{
		{ID: "ws-1", Name: "Hermione", Location: "/src/hermione"},
		{ID: "ws-2", Name: "Dotfiles", Location: "/home/dotfiles"},
	}, nil)

	m.ActivateFilter()
	m.filterInput.SetValue("HOME")
	m.ApplyFilter()

	if m.VisibleCount() != 1 || m.GetSelectedWorkspace().ID != "ws-2" {
		t.Errorf("filter HOME: visible = %d", m.VisibleCount())
	}
	if m.IsFiltering() {
		t.Error("ApplyFilter() should close the filter input")
	}

	m.ClearFilter()
	if m.VisibleCount() != 2 {
		t.Errorf("VisibleCount() after ClearFilter() = %d, want 2", m.VisibleCount())
	}
}

func TestFormatLastRun(t *testing.T) {
	tests := []struct {
		name string
		t    *time.Time
		want string
	}{
		{"never", nil, "never"},
		{"seconds", ptrTime(time.Now().Add(-5 * time.Second)), "just now"},
		{"minutes", ptrTime(time.Now().Add(-5*time.Minute - time.Second)), "5m ago"},
		{"hours", ptrTime(time.Now().Add(-2*time.Hour - time.Minute)), "2h ago"},
		{"days", ptrTime(time.Now().Add(-49 * time.Hour)), "2d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatLastRun(tt.t); got != tt.want {
				t.Errorf("formatLastRun() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("workspace", 6); got != "wor..." {
		t.Errorf("truncateString() = %q", got)
	}
	if got := truncateString("ws", 6); got != "ws" {
		t.Errorf("truncateString() = %q", got)
	}
	if got := truncateString("workspace", 2); got != "wo" {
		t.Errorf("truncateString() = %q", got)
	}
}
