package storage

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/Annany2002/nebula-gateway/internal/query"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies the gateway's own migrations (the gateway_users table).
// User tables are never touched.
func (db *DB) Migrate(ctx context.Context) error {
	dialect, dir := goose.DialectPostgres, "migrations/postgres"
	if db.Dialect == query.SQLite {
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	}

	migrations, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("migration error loading %s: %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, db.DB, migrations)
	if err != nil {
		return fmt.Errorf("migration error creating provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	for _, r := range results {
		customLog.Printf("Storage: Applied migration %s in %v", r.Source.Path, r.Duration)
	}
	return nil
}
