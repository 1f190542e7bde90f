package backend

import (
	"context"
	"fmt"

	"moneta/internal/log"
	"moneta/internal/storage"
)

// CleanupFunc releases the resources a backend holds.
type CleanupFunc func() error

// Result carries the opened repository and its cleanup function.
type Result struct {
	Repo    storage.Repository
	Cleanup CleanupFunc
}

// Open creates the repository described by the config.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentBackend)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case JSONFile:
		repo, err := storage.NewJSONFileRepository(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open jsonfile backend: %w", err)
		}
		logger.Info("Opened jsonfile backend", log.FieldBackend, cfg.Type.String(), "data_dir", cfg.DataDir)
		return &Result{Repo: repo, Cleanup: repo.Close}, nil

	case SQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		logger.Info("Opened sqlite backend", log.FieldBackend, cfg.Type.String(), "db_path", cfg.SQLiteDBPath)
		return &Result{Repo: repo, Cleanup: repo.Close}, nil

	case Postgres:
		repo, err := storage.NewPostgresRepository(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres backend: %w", err)
		}
		logger.Info("Opened postgres backend", log.FieldBackend, cfg.Type.String())
		return &Result{Repo: repo, Cleanup: repo.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
