package domain

import (
	"fmt"
	"strings"
	"time"
)

type BackupProviderKind string

const (
	BackupProviderNotion BackupProviderKind = "notion"
)

func (k BackupProviderKind) DisplayName() string {
	switch k {
	case BackupProviderNotion:
		return "Notion"
	default:
		return string(k)
	}
}

// ParseBackupProviderKind accepts the tag case-insensitively.
func ParseBackupProviderKind(value string) (BackupProviderKind, error) {
	switch BackupProviderKind(strings.ToLower(strings.TrimSpace(value))) {
	case BackupProviderNotion:
		return BackupProviderNotion, nil
	default:
		return "", InvalidArgumentError(fmt.Sprintf("unknown backup provider %q", value))
	}
}

// BackupCredentials is implemented only by the credential variants of this
// package, one per BackupProviderKind.
type BackupCredentials interface {
	Kind() BackupProviderKind
	Validate() error
	isBackupCredentials()
}

type NotionBackupCredentials struct {
	APIKey               string `json:"api_key"`
	WorkspacesDatabaseID string `json:"workspaces_database_id"`
	CommandsDatabaseID   string `json:"commands_database_id"`
}

func (NotionBackupCredentials) Kind() BackupProviderKind { return BackupProviderNotion }

func (NotionBackupCredentials) isBackupCredentials() {}

func (c NotionBackupCredentials) Validate() error {
	var missing []string
	if strings.TrimSpace(c.APIKey) == "" {
		missing = append(missing, "api_key")
	}
	if strings.TrimSpace(c.WorkspacesDatabaseID) == "" {
		missing = append(missing, "workspaces_database_id")
	}
	if strings.TrimSpace(c.CommandsDatabaseID) == "" {
		missing = append(missing, "commands_database_id")
	}
	if len(missing) > 0 {
		return InvalidArgumentError("Notion backup credentials missing " + strings.Join(missing, ", "))
	}
	return nil
}

type Workspace struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type Command struct {
	ID              string     `json:"id"`
	WorkspaceID     string     `json:"workspace_id"`
	Name            string     `json:"name"`
	Program         string     `json:"program"`
	LastExecuteTime *time.Time `json:"last_execute_time,omitempty"`
}

// BackupPage is one page of a remote listing. An empty NextCursor marks the
// final page.
type BackupPage[T any] struct {
	Items      []T
	NextCursor string
}

func (p *BackupPage[T]) HasMore() bool {
	return p != nil && p.NextCursor != ""
}

const (
	DefaultBackupPageSize = 100
	MaxBackupPageSize     = 100
)

type ListBackupParameters struct {
	PageCursor string
	PageSize   int
}

func (p ListBackupParameters) Validate() error {
	if p.PageSize < 0 || p.PageSize > MaxBackupPageSize {
		return InvalidArgumentError(fmt.Sprintf("page size must be between 1 and %d, got %d", MaxBackupPageSize, p.PageSize))
	}
	return nil
}

func (p ListBackupParameters) EffectivePageSize() int {
	if p.PageSize == 0 {
		return DefaultBackupPageSize
	}
	return p.PageSize
}
