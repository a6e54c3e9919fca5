package backup

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stsh89/hermione/internal/domain"
)

func TestExportCommandWithoutCredentials(t *testing.T) {
	provider := &stubProvider{verified: true}
	builder := &stubBuilder{provider: provider}
	credentials := NewCredentialsOperator(newMemCredentialsRepository(), builder)
	store := newMemStore()
	store.workspaces["ws-1"] = domain.Workspace{ID: "ws-1"}
	store.commands["cmd-1"] = domain.Command{ID: "cmd-1", WorkspaceID: "ws-1"}

	err := NewExportOperator(credentials, builder, store, store).ExportCommand(context.Background(), "cmd-1", domain.BackupProviderNotion)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ExportCommand() error = %v, want not found", err)
	}
	if err.Error() != "not found: Notion backup credentials" {
		t.Errorf("ExportCommand() message = %q", err.Error())
	}
	if len(builder.built) != 0 || len(provider.backedUp) != 0 {
		t.Errorf("expected no provider activity, got builds=%d pushes=%v", len(builder.built), provider.backedUp)
	}
}

func TestExportPushesSingleEntity(t *testing.T) {
	provider := &stubProvider{verified: true}
	credentials, builder := savedCredentials(t, provider)
	store := newMemStore()
	store.workspaces["ws-1"] = domain.Workspace{ID: "ws-1", Name: "Hermione"}
	store.commands["cmd-1"] = domain.Command{ID: "cmd-1", WorkspaceID: "ws-1", Program: "cargo test"}

	exporter := NewExportOperator(credentials, builder, store, store)
	ctx := context.Background()

	if err := exporter.ExportWorkspace(ctx, "ws-1", domain.BackupProviderNotion); err != nil {
		t.Fatalf("ExportWorkspace() error = %v", err)
	}
	if err := exporter.ExportCommand(ctx, "cmd-1", domain.BackupProviderNotion); err != nil {
		t.Fatalf("ExportCommand() error = %v", err)
	}

	if want := []string{"workspace:ws-1", "command:cmd-1"}; !reflect.DeepEqual(provider.backedUp, want) {
		t.Errorf("pushed %v, want %v", provider.backedUp, want)
	}
}

func TestExportMissingEntity(t *testing.T) {
	provider := &stubProvider{verified: true}
	credentials, builder := savedCredentials(t, provider)
	exporter := NewExportOperator(credentials, builder, newMemStore(), newMemStore())

	err := exporter.ExportWorkspace(context.Background(), "ws-404", domain.BackupProviderNotion)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ExportWorkspace() error = %v, want not found", err)
	}
	if len(provider.backedUp) != 0 {
		t.Errorf("pushed %v, want nothing", provider.backedUp)
	}
}

func TestExportSurfacesProviderErrorUnmodified(t *testing.T) {
	cause := domain.BackupError("PATCH /pages/p1", errors.New("bad gateway"))
	provider := &stubProvider{verified: true, backupErr: cause}
	credentials, builder := savedCredentials(t, provider)
	store := newMemStore()
	store.workspaces["ws-1"] = domain.Workspace{ID: "ws-1"}

	err := NewExportOperator(credentials, builder, store, store).ExportWorkspace(context.Background(), "ws-1", domain.BackupProviderNotion)
	if err != cause {
		t.Fatalf("ExportWorkspace() error = %v, want the provider error as is", err)
	}
	if len(provider.backedUp) != 1 {
		t.Errorf("pushed %d times, want exactly once", len(provider.backedUp))
	}
}
