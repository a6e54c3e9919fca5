package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/stsh89/hermione/internal/domain"
	"github.com/stsh89/hermione/internal/logger"
)

// LocalCredentialsRepository keeps backup credentials in a single JSON file
// readable only by the current user.
type LocalCredentialsRepository struct {
	path string
	file *credentialsFile
	mu   sync.RWMutex
}

func NewLocalCredentialsRepository(dataDir string) (*LocalCredentialsRepository, error) {
	repo := &LocalCredentialsRepository{
		path: filepath.Join(dataDir, credentialsFileName),
		file: &credentialsFile{Credentials: []domain.BackupCredentialsRecord{}},
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, domain.StorageError("create data directory", err)
	}

	if err := repo.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, domain.StorageError("load backup credentials", err)
		}
	}

	return repo, nil
}

func (r *LocalCredentialsRepository) Path() string {
	return r.path
}

func (r *LocalCredentialsRepository) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger.LogFileOpen(r.path)
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.LogError("LOAD", r.path, err)
		}
		return err
	}

	if err := json.Unmarshal(data, r.file); err != nil {
		logger.LogError("UNMARSHAL", r.path, err)
		return err
	}

	logger.Log("Backup credentials loaded from %s", r.path)
	return nil
}

// save writes credentials to disk and only then makes them the in-memory
// state, so a failed write leaves both unchanged.
func (r *LocalCredentialsRepository) save(credentials []domain.BackupCredentialsRecord) error {
	data, err := json.MarshalIndent(credentialsFile{Credentials: credentials}, "", "  ")
	if err != nil {
		logger.LogError("MARSHAL", r.path, err)
		return domain.StorageError("encode backup credentials", err)
	}

	logger.LogFileWrite(r.path)
	if err := os.WriteFile(r.path, data, 0600); err != nil {
		logger.LogError("SAVE", r.path, err)
		return domain.StorageError("write backup credentials", err)
	}

	r.file.Credentials = credentials
	return nil
}

func (r *LocalCredentialsRepository) indexOf(kind domain.BackupProviderKind) int {
	for i, record := range r.file.Credentials {
		if record.Kind == kind {
			return i
		}
	}
	return -1
}

func (r *LocalCredentialsRepository) credentialsCopy() []domain.BackupCredentialsRecord {
	credentials := make([]domain.BackupCredentialsRecord, len(r.file.Credentials))
	copy(credentials, r.file.Credentials)
	return credentials
}

func (r *LocalCredentialsRepository) FindBackupCredentials(kind domain.BackupProviderKind) (*domain.BackupCredentialsRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(kind)
	if i < 0 {
		return nil, nil
	}
	record := r.file.Credentials[i]
	return &record, nil
}

func (r *LocalCredentialsRepository) InsertBackupCredentials(record domain.BackupCredentialsRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(record.Kind) >= 0 {
		err := fmt.Errorf("%s backup credentials already exist", record.Kind)
		logger.LogError("INSERT_CREDENTIALS", string(record.Kind), err)
		return domain.StorageError("insert backup credentials", err)
	}

	logger.Log("Adding %s backup credentials", record.Kind)
	return r.save(append(r.credentialsCopy(), record))
}

func (r *LocalCredentialsRepository) UpdateBackupCredentials(record domain.BackupCredentialsRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(record.Kind)
	if i < 0 {
		err := fmt.Errorf("%s backup credentials do not exist", record.Kind)
		logger.LogError("UPDATE_CREDENTIALS", string(record.Kind), err)
		return domain.StorageError("update backup credentials", err)
	}

	credentials := r.credentialsCopy()
	credentials[i] = record
	logger.Log("Updating %s backup credentials", record.Kind)
	return r.save(credentials)
}

func (r *LocalCredentialsRepository) DeleteBackupCredentials(kind domain.BackupProviderKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(kind)
	if i < 0 {
		err := fmt.Errorf("%s backup credentials do not exist", kind)
		logger.LogError("DELETE_CREDENTIALS", string(kind), err)
		return domain.StorageError("delete backup credentials", err)
	}

	credentials := r.credentialsCopy()
	credentials = append(credentials[:i], credentials[i+1:]...)
	logger.Log("Deleting %s backup credentials", kind)
	return r.save(credentials)
}

func (r *LocalCredentialsRepository) ListBackupCredentials() ([]domain.BackupCredentialsRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]domain.BackupCredentialsRecord, len(r.file.Credentials))
	copy(records, r.file.Credentials)
	sort.Slice(records, func(i, j int) bool { return records[i].Kind < records[j].Kind })
	return records, nil
}
