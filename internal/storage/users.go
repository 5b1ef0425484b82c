package storage

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/Annany2002/nebula-gateway/internal/domain"
)

const usersTable = "gateway_users"

func (db *DB) sb() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(db.Dialect.Placeholders())
}

// CreateUser inserts a new user and returns its id.
func (db *DB) CreateUser(ctx context.Context, login, passwordHash string) (int64, error) {
	sqlStatement, args, err := db.sb().
		Insert(usersTable).
		Columns("login", "password_hash").
		Values(login, passwordHash).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var userID int64
	if err := db.QueryRowContext(ctx, sqlStatement, args...).Scan(&userID); err != nil {
		err = classifyError(err)
		if errors.Is(err, ErrConflict) {
			return 0, ErrLoginExists
		}
		customLog.Warnf("Storage: Failed to insert user %s: %v", login, err)
		return 0, err
	}
	return userID, nil
}

// FindUserByLogin retrieves a user by login.
func (db *DB) FindUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	sqlStatement, args, err := db.sb().
		Select("id", "login", "password_hash", "created_at").
		From(usersTable).
		Where(sq.Eq{"login": login}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user domain.User
	err = db.QueryRowContext(ctx, sqlStatement, args...).
		Scan(&user.ID, &user.Login, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		customLog.Warnf("Storage: Failed to find user by login %s: %v", login, err)
		return nil, classifyError(err)
	}
	return &user, nil
}
