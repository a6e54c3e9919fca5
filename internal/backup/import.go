package backup

import (
	"context"

	"github.com/stsh89/hermione/internal/domain"
	"github.com/stsh89/hermione/internal/logger"
)

type ImportSummary struct {
	WorkspacePages int `json:"workspace_pages"`
	Workspaces     int `json:"workspaces"`
	CommandPages   int `json:"command_pages"`
	Commands       int `json:"commands"`
}

// ImportOperator pulls every backed up workspace and command, one page at a
// time, and upserts them into local storage. Workspaces are imported first
// so that commands always reference an existing workspace.
type ImportOperator struct {
	credentials CredentialsGetter
	builder     ProviderBuilder
	workspaces  domain.WorkspacesUpserter
	commands    domain.CommandsUpserter
	pageSize    int
}

// NewImportOperator requests pages of pageSize items; zero uses the
// provider default.
func NewImportOperator(credentials CredentialsGetter, builder ProviderBuilder, workspaces domain.WorkspacesUpserter, commands domain.CommandsUpserter, pageSize int) *ImportOperator {
	return &ImportOperator{
		credentials: credentials,
		builder:     builder,
		workspaces:  workspaces,
		commands:    commands,
		pageSize:    pageSize,
	}
}

func (o *ImportOperator) Execute(ctx context.Context, kind domain.BackupProviderKind) (ImportSummary, error) {
	var summary ImportSummary

	creds, err := o.credentials.Get(kind)
	if err != nil {
		return summary, err
	}

	provider, err := o.builder.BuildBackupProvider(creds)
	if err != nil {
		return summary, err
	}

	workspacesLister, err := capability[domain.WorkspacesBackupLister](provider, "list workspaces")
	if err != nil {
		return summary, err
	}
	commandsLister, err := capability[domain.CommandsBackupLister](provider, "list commands")
	if err != nil {
		return summary, err
	}

	logger.Log("Importing workspaces from %s", kind.DisplayName())
	summary.WorkspacePages, summary.Workspaces, err = importPages(ctx, o.pageSize,
		workspacesLister.ListWorkspacesBackup,
		o.workspaces.UpsertWorkspaces,
	)
	if err != nil {
		logger.LogError("IMPORT_WORKSPACES", string(kind), err)
		return summary, err
	}

	logger.Log("Importing commands from %s", kind.DisplayName())
	summary.CommandPages, summary.Commands, err = importPages(ctx, o.pageSize,
		commandsLister.ListCommandsBackup,
		o.commands.UpsertCommands,
	)
	if err != nil {
		logger.LogError("IMPORT_COMMANDS", string(kind), err)
		return summary, err
	}

	logger.Log("Imported %d workspaces and %d commands from %s", summary.Workspaces, summary.Commands, kind.DisplayName())
	return summary, nil
}

// importPages stops at the first nil page or at the first page without a
// next cursor. A cursor that repeats is followed as given.
func importPages[T any](
	ctx context.Context,
	pageSize int,
	list func(context.Context, domain.ListBackupParameters) (*domain.BackupPage[T], error),
	upsert func(context.Context, []T) error,
) (pages, items int, err error) {
	params := domain.ListBackupParameters{PageSize: pageSize}

	for {
		page, err := list(ctx, params)
		if err != nil {
			return pages, items, err
		}
		if page == nil {
			return pages, items, nil
		}

		if err := upsert(ctx, page.Items); err != nil {
			return pages, items, err
		}
		pages++
		items += len(page.Items)

		if page.NextCursor == "" {
			return pages, items, nil
		}
		params.PageCursor = page.NextCursor
	}
}
