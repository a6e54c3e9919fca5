package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/stsh89/hermione/internal/backup"
	"github.com/stsh89/hermione/internal/config"
	"github.com/stsh89/hermione/internal/domain"
	"github.com/stsh89/hermione/internal/logger"
	"github.com/stsh89/hermione/internal/provider/notion"
	"github.com/stsh89/hermione/internal/storage"
)

// runtime holds the collaborators shared by every subcommand.
type runtime struct {
	cfg         *config.Config
	store       *storage.SQLiteStore
	credentials *backup.CredentialsOperator
	importer    *backup.ImportOperator
	exporter    *backup.ExportOperator
}

func openRuntime(ctx context.Context, opts *rootOptions) (*runtime, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(viper.New(), opts.cfgFile)
	if err != nil {
		return nil, err
	}

	if opts.verbose {
		logger.EnableConsole(os.Stderr, slog.LevelDebug)
	}

	if err := initLogging(cfg); err != nil {
		return nil, err
	}

	repository, err := storage.NewLocalCredentialsRepository(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	store, err := storage.OpenSQLiteStore(ctx, cfg.DataDir)
	if err != nil {
		return nil, err
	}

	builder := backup.NewBuilder(notionOptions(cfg)...)
	credentials := backup.NewCredentialsOperator(repository, builder)

	return &runtime{
		cfg:         cfg,
		store:       store,
		credentials: credentials,
		importer:    backup.NewImportOperator(credentials, builder, store, store, cfg.Notion.PageSize),
		exporter:    backup.NewExportOperator(credentials, builder, store, store),
	}, nil
}

// initLogging runs before any storage is opened so their file access is
// logged to the file too.
func initLogging(cfg *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0700); err != nil {
		return domain.StorageError("create log directory", err)
	}
	if err := logger.Init(cfg.LogFile); err != nil {
		return err
	}
	logger.Log("hermione starting with data dir %s, logging to %s", cfg.DataDir, cfg.LogFile)
	return nil
}

func notionOptions(cfg *config.Config) []notion.Option {
	return []notion.Option{
		notion.WithBaseURL(cfg.Notion.BaseURL),
		notion.WithRequestsPerSecond(cfg.Notion.RequestsPerSecond),
		notion.WithTimeout(cfg.HTTP.Timeout),
	}
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		logger.LogError("CLOSE", "sqlite", fmt.Errorf("close store: %w", err))
	}
}
