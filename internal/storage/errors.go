package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrUserNotFound    = fmt.Errorf("user %w", ErrRecordNotFound)
	ErrConflict        = errors.New("resource already exists")
	ErrLoginExists     = fmt.Errorf("login %w", ErrConflict)
	ErrDatabaseFailure = errors.New("database failure")
)

// classifyError maps a driver error to the storage taxonomy. The result wraps
// both the sentinel and the original error.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrDatabaseFailure, err)
	}
	if isConflict(err) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return fmt.Errorf("%w: %w", ErrDatabaseFailure, err)
}

func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation,
			pgerrcode.DuplicateTable,
			pgerrcode.DuplicateColumn:
			return true
		}
		return false
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return true
		}
		// DDL conflicts only carry SQLITE_ERROR and a message.
		if sqliteErr.Code == sqlite3.ErrError {
			msg := sqliteErr.Error()
			return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate column name")
		}
	}
	return false
}
