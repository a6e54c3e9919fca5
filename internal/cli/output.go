package cli

import (
	"encoding/json"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/stsh89/hermione/internal/domain"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// maskSecret keeps only the last four characters visible.
func maskSecret(secret string) string {
	const visible = 4
	if len(secret) <= visible {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", 8) + secret[len(secret)-visible:]
}

type credentialsView struct {
	Provider     string `json:"provider"`
	APIKey       string `json:"api_key"`
	WorkspacesDB string `json:"workspaces_database_id"`
	CommandsDB   string `json:"commands_database_id"`
}

func describeCredentials(creds domain.BackupCredentials) credentialsView {
	switch c := creds.(type) {
	case domain.NotionBackupCredentials:
		return credentialsView{
			Provider:     string(c.Kind()),
			APIKey:       maskSecret(c.APIKey),
			WorkspacesDB: c.WorkspacesDatabaseID,
			CommandsDB:   c.CommandsDatabaseID,
		}
	default:
		return credentialsView{Provider: string(creds.Kind())}
	}
}

func formatLastExecute(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
