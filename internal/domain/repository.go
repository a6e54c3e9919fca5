package domain

import (
	"context"
	"encoding/json"
)

// Finders return a NotFound error when the entity does not exist.
type WorkspaceFinder interface {
	FindWorkspace(ctx context.Context, id string) (*Workspace, error)
}

type CommandFinder interface {
	FindCommand(ctx context.Context, id string) (*Command, error)
}

type WorkspacesUpserter interface {
	UpsertWorkspaces(ctx context.Context, workspaces []Workspace) error
}

type CommandsUpserter interface {
	UpsertCommands(ctx context.Context, commands []Command) error
}

// BackupCredentialsRecord is the persisted form of BackupCredentials: the
// provider tag plus an opaque secrets blob.
type BackupCredentialsRecord struct {
	Kind    BackupProviderKind `json:"kind"`
	Secrets json.RawMessage    `json:"secrets"`
}

// FindBackupCredentials returns nil and no error when nothing is stored for
// kind. Insert fails if a record exists; Update and Delete fail if none does.
type BackupCredentialsRepository interface {
	FindBackupCredentials(kind BackupProviderKind) (*BackupCredentialsRecord, error)

	InsertBackupCredentials(record BackupCredentialsRecord) error

	UpdateBackupCredentials(record BackupCredentialsRecord) error

	DeleteBackupCredentials(kind BackupProviderKind) error

	ListBackupCredentials() ([]BackupCredentialsRecord, error)
}
