package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Annany2002/nebula-gateway/internal/core"
	"github.com/Annany2002/nebula-gateway/internal/domain"
	"github.com/Annany2002/nebula-gateway/internal/query"
)

// QueryRecords runs a row-returning statement and scans every row into a
// column-keyed map. An empty result is an empty, non-nil slice.
func (db *DB) QueryRecords(ctx context.Context, stmt query.Statement) ([]domain.Record, error) {
	rows, err := db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		customLog.Warnf("Storage: Failed query: %v | SQL: %s", err, stmt.SQL)
		return nil, classifyError(err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		customLog.Warnf("Storage: Failed reading rows: %v | SQL: %s", err, stmt.SQL)
		return nil, classifyError(err)
	}
	return records, nil
}

// ExecStatement runs a statement that returns no rows and reports rows affected.
func (db *DB) ExecStatement(ctx context.Context, stmt query.Statement) (int64, error) {
	result, err := db.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		customLog.Warnf("Storage: Failed exec: %v | SQL: %s", err, stmt.SQL)
		return 0, classifyError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		customLog.Warnf("Storage: Failed getting RowsAffected: %v", err)
		return 0, classifyError(err)
	}
	return affected, nil
}

// ExecStatements runs statements in order inside one transaction.
func (db *DB) ExecStatements(ctx context.Context, stmts []query.Statement) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return classifyError(err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
			customLog.Warnf("Storage: Failed exec in transaction: %v | SQL: %s", err, stmt.SQL)
			return classifyError(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return classifyError(err)
	}
	return nil
}

// FetchSchema runs a catalog statement returning (table_name, column_name,
// data_type) rows and groups them per table. Reserved tables are left out.
func (db *DB) FetchSchema(ctx context.Context, stmt query.Statement) (domain.SchemaDescriptor, error) {
	rows, err := db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		customLog.Warnf("Storage: Failed schema query: %v", err)
		return nil, classifyError(err)
	}
	defer rows.Close()

	schema := make(domain.SchemaDescriptor)
	for rows.Next() {
		var table, column, dataType string
		if err := rows.Scan(&table, &column, &dataType); err != nil {
			customLog.Warnf("Storage: Failed scanning schema row: %v", err)
			return nil, classifyError(err)
		}
		if core.IsReservedTable(table) {
			continue
		}
		schema[table] = append(schema[table], domain.ColumnInfo{Name: column, Type: dataType})
	}
	if err := rows.Err(); err != nil {
		customLog.Warnf("Storage: Error iterating schema rows: %v", err)
		return nil, classifyError(err)
	}
	return schema, nil
}

func scanRecords(rows *sql.Rows) ([]domain.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed processing results: %w", err)
	}

	records := make([]domain.Record, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed reading record data: %w", err)
		}

		record := make(domain.Record, len(columns))
		for i, name := range columns {
			if b, ok := values[i].([]byte); ok {
				record[name] = string(b)
			} else {
				record[name] = values[i]
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed processing all records: %w", err)
	}
	return records, nil
}
