package storage

import "github.com/stsh89/hermione/internal/domain"

// credentialsFile is the on-disk layout of backup_credentials.json.
type credentialsFile struct {
	Credentials []domain.BackupCredentialsRecord `json:"credentials"`
}

const (
	DefaultDataDir      = ".hermione"
	credentialsFileName = "backup_credentials.json"
	databaseFileName    = "hermione.db"
)
