package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Annany2002/nebula-gateway/internal/domain"
	"github.com/Annany2002/nebula-gateway/internal/query"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return New(sqlDB, query.Postgres), mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestQueryRecords(t *testing.T) {
	db, mock := newMockDB(t)
	stmt := query.Statement{SQL: "SELECT * FROM widgets WHERE color = $1", Args: []any{"red"}}

	rows := sqlmock.NewRows([]string{"id", "name", "color"}).
		AddRow(int64(1), []byte("gear"), "red").
		AddRow(int64(2), "cog", "red")
	mock.ExpectQuery(regexp.QuoteMeta(stmt.SQL)).WithArgs("red").WillReturnRows(rows)

	records, err := db.QueryRecords(context.Background(), stmt)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.Record{"id": int64(1), "name": "gear", "color": "red"}, records[0])
	assert.Equal(t, "cog", records[1]["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryRecords_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	stmt := query.Statement{SQL: "SELECT * FROM widgets", Args: []any{}}

	mock.ExpectQuery(regexp.QuoteMeta(stmt.SQL)).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	records, err := db.QueryRecords(context.Background(), stmt)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestQueryRecords_DatabaseFailure(t *testing.T) {
	db, mock := newMockDB(t)
	stmt := query.Statement{SQL: "SELECT * FROM missing", Args: []any{}}

	mock.ExpectQuery(regexp.QuoteMeta(stmt.SQL)).WillReturnError(pgError(pgerrcode.UndefinedTable))

	_, err := db.QueryRecords(context.Background(), stmt)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatabaseFailure)

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr), "driver error must stay reachable")
}

func TestQueryRecords_UniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	stmt := query.Statement{SQL: "INSERT INTO widgets (sku) VALUES ($1) RETURNING *", Args: []any{"A1"}}

	mock.ExpectQuery(regexp.QuoteMeta(stmt.SQL)).WithArgs("A1").WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := db.QueryRecords(context.Background(), stmt)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestExecStatement(t *testing.T) {
	db, mock := newMockDB(t)
	stmt := query.Statement{SQL: "DELETE FROM widgets WHERE id = $1", Args: []any{"4"}}

	mock.ExpectExec(regexp.QuoteMeta(stmt.SQL)).WithArgs("4").WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := db.ExecStatement(context.Background(), stmt)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecStatements_CommitsAll(t *testing.T) {
	db, mock := newMockDB(t)
	stmts := []query.Statement{
		{SQL: "ALTER TABLE widgets ADD COLUMN a TEXT", Args: []any{}},
		{SQL: "ALTER TABLE widgets ADD COLUMN b TEXT", Args: []any{}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(stmts[0].SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(stmts[1].SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, db.ExecStatements(context.Background(), stmts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecStatements_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	stmts := []query.Statement{
		{SQL: "ALTER TABLE widgets ADD COLUMN a TEXT", Args: []any{}},
		{SQL: "ALTER TABLE widgets ADD COLUMN a TEXT", Args: []any{}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(stmts[0].SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(stmts[1].SQL)).WillReturnError(pgError(pgerrcode.DuplicateColumn))
	mock.ExpectRollback()

	err := db.ExecStatements(context.Background(), stmts)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchSchema(t *testing.T) {
	db, mock := newMockDB(t)
	stmt, err := query.NewBuilder(query.Postgres).Schema("public")
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"table_name", "column_name", "data_type"}).
		AddRow("gateway_users", "id", "bigint").
		AddRow("gateway_users", "password_hash", "text").
		AddRow("goose_db_version", "id", "integer").
		AddRow("widgets", "id", "bigint").
		AddRow("widgets", "name", "text")
	mock.ExpectQuery(regexp.QuoteMeta(stmt.SQL)).WithArgs("public").WillReturnRows(rows)

	schema, err := db.FetchSchema(context.Background(), stmt)
	require.NoError(t, err)
	assert.Equal(t, domain.SchemaDescriptor{
		"widgets": {{Name: "id", Type: "bigint"}, {Name: "name", Type: "text"}},
	}, schema)
}

func TestCreateUser(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO gateway_users (login,password_hash) VALUES ($1,$2) RETURNING id")).
		WithArgs("a@b.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))

	id, err := db.CreateUser(context.Background(), "a@b.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
}

func TestCreateUser_LoginExists(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("INSERT INTO gateway_users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := db.CreateUser(context.Background(), "a@b.com", "hash")
	assert.ErrorIs(t, err, ErrLoginExists)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestFindUserByLogin(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, login, password_hash, created_at FROM gateway_users WHERE login = $1 LIMIT 1")).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "login", "password_hash", "created_at"}).
			AddRow(int64(3), "a@b.com", "hash", now))

	user, err := db.FindUserByLogin(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "hash", user.PasswordHash)
}

func TestFindUserByLogin_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT id, login, password_hash, created_at FROM gateway_users").
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	_, err := db.FindUserByLogin(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestClassifyError(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"pg unique", pgError(pgerrcode.UniqueViolation), ErrConflict},
		{"pg duplicate table", pgError(pgerrcode.DuplicateTable), ErrConflict},
		{"pg duplicate column", pgError(pgerrcode.DuplicateColumn), ErrConflict},
		{"pg undefined column", pgError(pgerrcode.UndefinedColumn), ErrDatabaseFailure},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, ErrConflict},
		{"sqlite primary key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, ErrConflict},
		{"sqlite not null", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}, ErrDatabaseFailure},
		{"deadline", context.DeadlineExceeded, context.DeadlineExceeded},
		{"other", errors.New("boom"), ErrDatabaseFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyError(tc.err)
			assert.ErrorIs(t, got, tc.wantErr)
			assert.ErrorIs(t, got, tc.err)
		})
	}

	assert.NoError(t, classifyError(nil))
}
