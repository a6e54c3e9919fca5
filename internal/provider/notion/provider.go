package notion

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/stsh89/hermione/internal/domain"
	"github.com/stsh89/hermione/internal/logger"
	"github.com/stsh89/hermione/internal/provider/common"
)

// Notion accepts at most this many conditions in one compound filter.
const maxFilterConditions = 100

type Provider struct {
	client               *Client
	workspacesDatabaseID string
	commandsDatabaseID   string
}

func NewProvider(creds domain.NotionBackupCredentials, opts ...Option) *Provider {
	return &Provider{
		client:               NewClient(creds.APIKey, opts...),
		workspacesDatabaseID: creds.WorkspacesDatabaseID,
		commandsDatabaseID:   creds.CommandsDatabaseID,
	}
}

func (p *Provider) Kind() domain.BackupProviderKind {
	return domain.BackupProviderNotion
}

// VerifyBackupCredentials reads one row from each database. Rejections by
// the API report false; transport failures are returned as errors.
func (p *Provider) VerifyBackupCredentials(ctx context.Context) (bool, error) {
	for _, databaseID := range []string{p.workspacesDatabaseID, p.commandsDatabaseID} {
		_, err := p.client.QueryDatabase(ctx, databaseID, &QueryRequest{PageSize: 1})
		if err == nil {
			continue
		}

		if HasStatus(err, http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound) {
			logger.Log("Notion: credentials rejected for database %s: %v", databaseID, err)
			return false, nil
		}

		logger.LogError("NOTION_VERIFY", databaseID, err)
		return false, err
	}

	logger.Log("Notion: credentials verified")
	return true, nil
}

func (p *Provider) ListWorkspacesBackup(ctx context.Context, params domain.ListBackupParameters) (*domain.BackupPage[domain.Workspace], error) {
	return listPage(ctx, p, p.workspacesDatabaseID, params, workspaceFromPage)
}

func (p *Provider) ListCommandsBackup(ctx context.Context, params domain.ListBackupParameters) (*domain.BackupPage[domain.Command], error) {
	return listPage(ctx, p, p.commandsDatabaseID, params, commandFromPage)
}

func (p *Provider) UpsertWorkspacesBackup(ctx context.Context, workspaces []domain.Workspace) error {
	return upsertPages(ctx, p, p.workspacesDatabaseID, workspaces,
		func(w domain.Workspace) string { return w.ID },
		workspaceProperties,
	)
}

func (p *Provider) UpsertCommandsBackup(ctx context.Context, commands []domain.Command) error {
	return upsertPages(ctx, p, p.commandsDatabaseID, commands,
		func(c domain.Command) string { return c.ID },
		commandProperties,
	)
}

func (p *Provider) BackupWorkspace(ctx context.Context, workspace domain.Workspace) error {
	return p.UpsertWorkspacesBackup(ctx, []domain.Workspace{workspace})
}

func (p *Provider) BackupCommand(ctx context.Context, command domain.Command) error {
	return p.UpsertCommandsBackup(ctx, []domain.Command{command})
}

func listPage[T any](
	ctx context.Context,
	p *Provider,
	databaseID string,
	params domain.ListBackupParameters,
	convert func(json.RawMessage) (T, bool),
) (*domain.BackupPage[T], error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	resp, err := p.client.QueryDatabase(ctx, databaseID, &QueryRequest{
		StartCursor: params.PageCursor,
		PageSize:    params.EffectivePageSize(),
	})
	if err != nil {
		logger.LogError("NOTION_LIST", databaseID, err)
		return nil, err
	}

	if len(resp.Results) == 0 {
		logger.Log("Notion: database %s returned no rows", databaseID)
		return nil, nil
	}

	items := make([]T, 0, len(resp.Results))
	for _, raw := range resp.Results {
		item, ok := convert(raw)
		if !ok {
			logger.Log("Notion: skipping page %s without %s", pageID(raw), PropertyExternalID)
			continue
		}
		items = append(items, item)
	}

	page := &domain.BackupPage[T]{Items: items}
	if resp.HasMore {
		page.NextCursor = common.GetString(resp.NextCursor)
	}

	logger.Log("Notion: database %s returned %d rows (more: %v)", databaseID, len(items), page.HasMore())
	return page, nil
}

func upsertPages[T any](
	ctx context.Context,
	p *Provider,
	databaseID string,
	items []T,
	externalID func(T) string,
	properties func(T) map[string]any,
) error {
	for start := 0; start < len(items); start += maxFilterConditions {
		chunk := items[start:min(start+maxFilterConditions, len(items))]

		ids := make([]string, len(chunk))
		for i, item := range chunk {
			ids[i] = externalID(item)
		}

		existing, err := p.findPagesByExternalID(ctx, databaseID, ids)
		if err != nil {
			return err
		}

		var created, updated int
		for _, item := range chunk {
			req := &PageRequest{Properties: properties(item)}

			if id, ok := existing[externalID(item)]; ok {
				if _, err := p.client.UpdatePage(ctx, id, req); err != nil {
					logger.LogError("NOTION_UPDATE_PAGE", externalID(item), err)
					return err
				}
				updated++
				continue
			}

			req.Parent = &Parent{DatabaseID: databaseID}
			page, err := p.client.CreatePage(ctx, req)
			if err != nil {
				logger.LogError("NOTION_CREATE_PAGE", externalID(item), err)
				return err
			}
			existing[externalID(item)] = page.ID
			created++
		}

		logger.Log("Notion: database %s upserted %d rows (%d created, %d updated)", databaseID, len(chunk), created, updated)
	}

	return nil
}

// findPagesByExternalID maps external ids to Notion page ids. When a
// database holds duplicates the first page wins.
func (p *Provider) findPagesByExternalID(ctx context.Context, databaseID string, ids []string) (map[string]string, error) {
	pages := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return pages, nil
	}

	req := &QueryRequest{
		Filter:   externalIDFilter(ids),
		PageSize: domain.MaxBackupPageSize,
	}

	for {
		resp, err := p.client.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			logger.LogError("NOTION_FIND_PAGES", databaseID, err)
			return nil, err
		}

		for _, raw := range resp.Results {
			id := propertyText(raw, PropertyExternalID)
			if _, seen := pages[id]; id != "" && !seen {
				pages[id] = pageID(raw)
			}
		}

		if !resp.HasMore || resp.NextCursor == nil {
			break
		}
		req.StartCursor = *resp.NextCursor
	}

	return pages, nil
}
