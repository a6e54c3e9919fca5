package backup

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/stsh89/hermione/internal/domain"
)

type memCredentialsRepository struct {
	mu      sync.Mutex
	records map[domain.BackupProviderKind]domain.BackupCredentialsRecord
}

func newMemCredentialsRepository() *memCredentialsRepository {
	return &memCredentialsRepository{records: make(map[domain.BackupProviderKind]domain.BackupCredentialsRecord)}
}

func (r *memCredentialsRepository) FindBackupCredentials(kind domain.BackupProviderKind) (*domain.BackupCredentialsRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[kind]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (r *memCredentialsRepository) InsertBackupCredentials(record domain.BackupCredentialsRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.Kind]; ok {
		return domain.StorageError("insert backup credentials", fmt.Errorf("%s already exists", record.Kind))
	}
	r.records[record.Kind] = record
	return nil
}

func (r *memCredentialsRepository) UpdateBackupCredentials(record domain.BackupCredentialsRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.Kind]; !ok {
		return domain.StorageError("update backup credentials", fmt.Errorf("%s does not exist", record.Kind))
	}
	r.records[record.Kind] = record
	return nil
}

func (r *memCredentialsRepository) DeleteBackupCredentials(kind domain.BackupProviderKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, kind)
	return nil
}

func (r *memCredentialsRepository) ListBackupCredentials() ([]domain.BackupCredentialsRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := make([]domain.BackupCredentialsRecord, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Kind < records[j].Kind })
	return records, nil
}

// stubProvider serves scripted pages keyed by the cursor it is asked for.
type stubProvider struct {
	verified       bool
	verifyErr      error
	workspacePages map[string]*domain.BackupPage[domain.Workspace]
	commandPages   map[string]*domain.BackupPage[domain.Command]
	listErr        error
	workspaceCalls []string
	commandCalls   []string
	backedUp       []string
	backupErr      error
}

func (p *stubProvider) Kind() domain.BackupProviderKind { return domain.BackupProviderNotion }

func (p *stubProvider) VerifyBackupCredentials(ctx context.Context) (bool, error) {
	return p.verified, p.verifyErr
}

func (p *stubProvider) ListWorkspacesBackup(ctx context.Context, params domain.ListBackupParameters) (*domain.BackupPage[domain.Workspace], error) {
	p.workspaceCalls = append(p.workspaceCalls, params.PageCursor)
	if p.listErr != nil {
		return nil, p.listErr
	}
	return p.workspacePages[params.PageCursor], nil
}

func (p *stubProvider) ListCommandsBackup(ctx context.Context, params domain.ListBackupParameters) (*domain.BackupPage[domain.Command], error) {
	p.commandCalls = append(p.commandCalls, params.PageCursor)
	return p.commandPages[params.PageCursor], nil
}

func (p *stubProvider) BackupWorkspace(ctx context.Context, workspace domain.Workspace) error {
	p.backedUp = append(p.backedUp, "workspace:"+workspace.ID)
	return p.backupErr
}

func (p *stubProvider) BackupCommand(ctx context.Context, command domain.Command) error {
	p.backedUp = append(p.backedUp, "command:"+command.ID)
	return p.backupErr
}

// verifyOnlyProvider supports nothing but verification.
type verifyOnlyProvider struct{}

func (verifyOnlyProvider) Kind() domain.BackupProviderKind { return domain.BackupProviderNotion }

func (verifyOnlyProvider) VerifyBackupCredentials(ctx context.Context) (bool, error) {
	return true, nil
}

type stubBuilder struct {
	provider domain.BackupProvider
	built    []domain.BackupCredentials
}

func (b *stubBuilder) BuildBackupProvider(creds domain.BackupCredentials) (domain.BackupProvider, error) {
	b.built = append(b.built, creds)
	return b.provider, nil
}

type memStore struct {
	workspaces map[string]domain.Workspace
	commands   map[string]domain.Command
	upserts    int
}

func newMemStore() *memStore {
	return &memStore{
		workspaces: make(map[string]domain.Workspace),
		commands:   make(map[string]domain.Command),
	}
}

func (s *memStore) FindWorkspace(ctx context.Context, id string) (*domain.Workspace, error) {
	w, ok := s.workspaces[id]
	if !ok {
		return nil, domain.NotFoundError("workspace " + id)
	}
	return &w, nil
}

func (s *memStore) FindCommand(ctx context.Context, id string) (*domain.Command, error) {
	c, ok := s.commands[id]
	if !ok {
		return nil, domain.NotFoundError("command " + id)
	}
	return &c, nil
}

func (s *memStore) UpsertWorkspaces(ctx context.Context, workspaces []domain.Workspace) error {
	s.upserts++
	for _, w := range workspaces {
		s.workspaces[w.ID] = w
	}
	return nil
}

func (s *memStore) UpsertCommands(ctx context.Context, commands []domain.Command) error {
	s.upserts++
	for _, c := range commands {
		if _, ok := s.workspaces[c.WorkspaceID]; !ok {
			return domain.StorageError("upsert command "+c.ID, fmt.Errorf("unknown workspace %s", c.WorkspaceID))
		}
		s.commands[c.ID] = c
	}
	return nil
}
