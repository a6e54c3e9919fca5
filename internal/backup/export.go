package backup

import (
	"context"

	"github.com/stsh89/hermione/internal/domain"
	"github.com/stsh89/hermione/internal/logger"
)

// ExportOperator pushes one local entity to a backup provider.
type ExportOperator struct {
	credentials CredentialsGetter
	builder     ProviderBuilder
	workspaces  domain.WorkspaceFinder
	commands    domain.CommandFinder
}

func NewExportOperator(credentials CredentialsGetter, builder ProviderBuilder, workspaces domain.WorkspaceFinder, commands domain.CommandFinder) *ExportOperator {
	return &ExportOperator{
		credentials: credentials,
		builder:     builder,
		workspaces:  workspaces,
		commands:    commands,
	}
}

func (o *ExportOperator) provider(kind domain.BackupProviderKind) (domain.BackupProvider, error) {
	creds, err := o.credentials.Get(kind)
	if err != nil {
		return nil, err
	}
	return o.builder.BuildBackupProvider(creds)
}

func (o *ExportOperator) ExportWorkspace(ctx context.Context, id string, kind domain.BackupProviderKind) error {
	provider, err := o.provider(kind)
	if err != nil {
		return err
	}

	backuper, err := capability[domain.WorkspaceBackuper](provider, "back up workspaces")
	if err != nil {
		return err
	}

	workspace, err := o.workspaces.FindWorkspace(ctx, id)
	if err != nil {
		return err
	}
	if workspace == nil {
		return domain.NotFoundError("workspace " + id)
	}

	if err := backuper.BackupWorkspace(ctx, *workspace); err != nil {
		logger.LogError("EXPORT_WORKSPACE", id, err)
		return err
	}

	logger.Log("Exported workspace %s to %s", id, kind.DisplayName())
	return nil
}

func (o *ExportOperator) ExportCommand(ctx context.Context, id string, kind domain.BackupProviderKind) error {
	provider, err := o.provider(kind)
	if err != nil {
		return err
	}

	backuper, err := capability[domain.CommandBackuper](provider, "back up commands")
	if err != nil {
		return err
	}

	command, err := o.commands.FindCommand(ctx, id)
	if err != nil {
		return err
	}
	if command == nil {
		return domain.NotFoundError("command " + id)
	}

	if err := backuper.BackupCommand(ctx, *command); err != nil {
		logger.LogError("EXPORT_COMMAND", id, err)
		return err
	}

	logger.Log("Exported command %s to %s", id, kind.DisplayName())
	return nil
}
