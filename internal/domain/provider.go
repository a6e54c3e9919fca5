package domain

import "context"

// Backup providers implement whichever of the capabilities below they
// support. Orchestrators ask for the narrowest one they need.

type BackupProvider interface {
	Kind() BackupProviderKind
}

type BackupCredentialsVerifier interface {
	VerifyBackupCredentials(ctx context.Context) (bool, error)
}

// A nil page with a nil error means there is nothing to import.
type WorkspacesBackupLister interface {
	ListWorkspacesBackup(ctx context.Context, params ListBackupParameters) (*BackupPage[Workspace], error)
}

type CommandsBackupLister interface {
	ListCommandsBackup(ctx context.Context, params ListBackupParameters) (*BackupPage[Command], error)
}

type WorkspacesBackupUpserter interface {
	UpsertWorkspacesBackup(ctx context.Context, workspaces []Workspace) error
}

type CommandsBackupUpserter interface {
	UpsertCommandsBackup(ctx context.Context, commands []Command) error
}

type WorkspaceBackuper interface {
	BackupWorkspace(ctx context.Context, workspace Workspace) error
}

type CommandBackuper interface {
	BackupCommand(ctx context.Context, command Command) error
}
