package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/stsh89/hermione/internal/domain"
	"github.com/stsh89/hermione/internal/logger"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS workspaces (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS commands (
	id                TEXT PRIMARY KEY,
	workspace_id      TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
	name              TEXT NOT NULL,
	program           TEXT NOT NULL,
	last_execute_time TEXT
);

CREATE INDEX IF NOT EXISTS idx_commands_workspace_id ON commands(workspace_id);
`

// SQLiteStore is the local workspace and command store.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLiteStore opens (creating if needed) hermione.db inside dataDir.
func OpenSQLiteStore(ctx context.Context, dataDir string) (*SQLiteStore, error) {
	return OpenSQLiteStoreAt(ctx, filepath.Join(dataDir, databaseFileName))
}

func OpenSQLiteStoreAt(ctx context.Context, path string) (*SQLiteStore, error) {
	logger.LogFileOpen(path)
	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, domain.StorageError("open sqlite", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, domain.StorageError("open sqlite", err)
	}

	store := &SQLiteStore{db: db, path: path}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return domain.StorageError("read schema version", err)
	}
	if version >= schemaVersion {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StorageError("begin migration", err)
	}
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		_ = tx.Rollback()
		return domain.StorageError("apply schema", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		_ = tx.Rollback()
		return domain.StorageError("record schema version", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.StorageError("commit migration", err)
	}

	logger.Log("Database schema migrated to version %d at %s", schemaVersion, s.path)
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) CreateWorkspace(ctx context.Context, name, location string) (*domain.Workspace, error) {
	if name == "" {
		return nil, domain.InvalidArgumentError("workspace name is required")
	}

	workspace := domain.Workspace{
		ID:       uuid.NewString(),
		Name:     name,
		Location: location,
	}

	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO workspaces (id, name, location) VALUES (?, ?, ?)",
		workspace.ID, workspace.Name, workspace.Location,
	); err != nil {
		logger.LogError("CREATE_WORKSPACE", name, err)
		return nil, domain.StorageError("create workspace", err)
	}

	logger.Log("Created workspace %s (%s)", workspace.Name, workspace.ID)
	return &workspace, nil
}

func (s *SQLiteStore) CreateCommand(ctx context.Context, workspaceID, name, program string) (*domain.Command, error) {
	if name == "" || program == "" {
		return nil, domain.InvalidArgumentError("command name and program are required")
	}
	if _, err := s.FindWorkspace(ctx, workspaceID); err != nil {
		return nil, err
	}

	command := domain.Command{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		Name:        name,
		Program:     program,
	}

	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO commands (id, workspace_id, name, program) VALUES (?, ?, ?, ?)",
		command.ID, command.WorkspaceID, command.Name, command.Program,
	); err != nil {
		logger.LogError("CREATE_COMMAND", name, err)
		return nil, domain.StorageError("create command", err)
	}

	logger.Log("Created command %s (%s) in workspace %s", command.Name, command.ID, workspaceID)
	return &command, nil
}

// TouchCommand records that the command was run at t.
func (s *SQLiteStore) TouchCommand(ctx context.Context, id string, t time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE commands SET last_execute_time = ? WHERE id = ?",
		t.UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return domain.StorageError("touch command", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.StorageError("touch command", err)
	}
	if n == 0 {
		return domain.NotFoundError("command " + id)
	}
	return nil
}

func (s *SQLiteStore) FindWorkspace(ctx context.Context, id string) (*domain.Workspace, error) {
	var w domain.Workspace
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, location FROM workspaces WHERE id = ?", id,
	).Scan(&w.ID, &w.Name, &w.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError("workspace " + id)
	}
	if err != nil {
		return nil, domain.StorageError("find workspace", err)
	}
	return &w, nil
}

func (s *SQLiteStore) FindCommand(ctx context.Context, id string) (*domain.Command, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, workspace_id, name, program, last_execute_time FROM commands WHERE id = ?", id,
	)
	c, err := scanCommand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError("command " + id)
	}
	if err != nil {
		return nil, domain.StorageError("find command", err)
	}
	return c, nil
}

func (s *SQLiteStore) ListWorkspaces(ctx context.Context) ([]domain.Workspace, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, location FROM workspaces ORDER BY name, id")
	if err != nil {
		return nil, domain.StorageError("list workspaces", err)
	}
	defer func() { _ = rows.Close() }()

	workspaces := []domain.Workspace{}
	for rows.Next() {
		var w domain.Workspace
		if err := rows.Scan(&w.ID, &w.Name, &w.Location); err != nil {
			return nil, domain.StorageError("scan workspace", err)
		}
		workspaces = append(workspaces, w)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list workspaces", err)
	}
	return workspaces, nil
}

// ListCommands lists the commands of one workspace, or of every workspace
// when workspaceID is empty.
func (s *SQLiteStore) ListCommands(ctx context.Context, workspaceID string) ([]domain.Command, error) {
	query := "SELECT id, workspace_id, name, program, last_execute_time FROM commands"
	var args []any
	if workspaceID != "" {
		query += " WHERE workspace_id = ?"
		args = append(args, workspaceID)
	}
	query += " ORDER BY name, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.StorageError("list commands", err)
	}
	defer func() { _ = rows.Close() }()

	commands := []domain.Command{}
	for rows.Next() {
		c, err := scanCommand(rows)
		if err != nil {
			return nil, domain.StorageError("scan command", err)
		}
		commands = append(commands, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list commands", err)
	}
	return commands, nil
}

func (s *SQLiteStore) UpsertWorkspaces(ctx context.Context, workspaces []domain.Workspace) error {
	return s.inTx(ctx, "upsert workspaces", func(tx *sql.Tx) error {
		for _, w := range workspaces {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO workspaces (id, name, location) VALUES (?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					name = excluded.name,
					location = excluded.location
			`, w.ID, w.Name, w.Location); err != nil {
				return fmt.Errorf("workspace %s: %w", w.ID, err)
			}
		}
		return nil
	})
}

// UpsertCommands never overwrites last_execute_time of an existing row.
func (s *SQLiteStore) UpsertCommands(ctx context.Context, commands []domain.Command) error {
	return s.inTx(ctx, "upsert commands", func(tx *sql.Tx) error {
		for _, c := range commands {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO commands (id, workspace_id, name, program, last_execute_time) VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					workspace_id = excluded.workspace_id,
					name = excluded.name,
					program = excluded.program
			`, c.ID, c.WorkspaceID, c.Name, c.Program, formatTime(c.LastExecuteTime)); err != nil {
				return fmt.Errorf("command %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) inTx(ctx context.Context, what string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StorageError(what, err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		logger.LogError("SQLITE", what, err)
		return domain.StorageError(what, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.StorageError(what, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCommand(row rowScanner) (*domain.Command, error) {
	var (
		c           domain.Command
		lastExecute sql.NullString
	)
	if err := row.Scan(&c.ID, &c.WorkspaceID, &c.Name, &c.Program, &lastExecute); err != nil {
		return nil, err
	}
	if lastExecute.Valid {
		t, err := time.Parse(time.RFC3339Nano, lastExecute.String)
		if err != nil {
			return nil, fmt.Errorf("parse last_execute_time of %s: %w", c.ID, err)
		}
		c.LastExecuteTime = &t
	}
	return &c, nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
