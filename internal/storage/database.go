// internal/storage/database.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" driver registration
	_ "github.com/mattn/go-sqlite3"    // "sqlite3" driver registration

	"github.com/Annany2002/nebula-gateway/config"
	"github.com/Annany2002/nebula-gateway/internal/logger"
	"github.com/Annany2002/nebula-gateway/internal/query"
)

var (
	customLog = logger.NewLogger()
)

// DB is the gateway's single connection pool plus the dialect it speaks.
// It is constructed once in main and passed down.
type DB struct {
	*sql.DB
	Dialect query.Dialect
	Schema  string
}

// New wraps an already opened pool.
func New(db *sql.DB, dialect query.Dialect) *DB {
	return &DB{DB: db, Dialect: dialect, Schema: "public"}
}

// Open connects to the configured database, applies pool limits and pings it.
func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	dialect, err := query.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	if dialect == query.SQLite {
		dir := filepath.Dir(cfg.Database.SQLitePath)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			customLog.Warnf("Storage: Error creating data directory '%s': %v", dir, err)
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	customLog.Printf("Storage: Opening %s database", dialect)
	sqlDB, err := sql.Open(dialect.DriverName(), cfg.DSN())
	if err != nil {
		customLog.Warnf("Storage: Failed to open %s database: %v", dialect, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	poolSize := cfg.Database.PoolSize
	sqlDB.SetMaxOpenConns(poolSize)
	sqlDB.SetMaxIdleConns(max(1, poolSize/2))
	sqlDB.SetConnMaxLifetime(15 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		customLog.Warnf("Storage: Failed to ping %s database: %v", dialect, err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	customLog.Println("Storage: Database connection successful.")

	db := New(sqlDB, dialect)
	if cfg.Database.Schema != "" {
		db.Schema = cfg.Database.Schema
	}
	return db, nil
}

// Builder returns a statement builder for the pool's dialect.
func (db *DB) Builder() *query.Builder {
	return query.NewBuilder(db.Dialect)
}

// Ping reports whether the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return classifyError(err)
	}
	return nil
}
