package database

import (
	"context"
	"fmt"
	"strings"

	"dexspread/internal/model"
)

// Repository defines the standard interface for database operations.
type Repository interface {
	LogTrade(ctx context.Context, trade model.SimulatedTrade) error
	Migrate(ctx context.Context) error
	Close()
}

const sqlitePrefix = "sqlite:"

// Open picks the backend from the DSN: postgres:// and postgresql:// URLs use
// Postgres, sqlite:<path> uses an embedded SQLite file. The schema is migrated
// before returning.
func Open(ctx context.Context, dsn string) (Repository, error) {
	var (
		repo Repository
		err  error
	)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		repo, err = NewPostgresRepository(ctx, dsn)
	case strings.HasPrefix(dsn, sqlitePrefix):
		repo, err = NewSQLiteRepository(strings.TrimPrefix(dsn, sqlitePrefix))
	default:
		return nil, fmt.Errorf("unsupported database dsn %q", dsn)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Migrate(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return repo, nil
}
