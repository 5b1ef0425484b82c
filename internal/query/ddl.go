package query

import (
	"fmt"
	"strings"

	"github.com/Annany2002/nebula-gateway/internal/core"
)

// CreateTable builds CREATE TABLE with an auto-generated integer "id"
// primary key followed by the given columns in order.
func (b *Builder) CreateTable(table string, columns []ColumnDef) (Statement, error) {
	if err := core.ValidateIdentifier(table); err != nil {
		return Statement{}, err
	}
	if len(columns) == 0 {
		return Statement{}, fmt.Errorf("%w: at least one column is required", core.ErrBadRequest)
	}

	defs, err := b.columnDefinitions(columns)
	if err != nil {
		return Statement{}, err
	}

	var sql strings.Builder
	sql.WriteString("CREATE TABLE ")
	sql.WriteString(b.quote(table))
	sql.WriteString(" (")
	sql.WriteString(b.dialect.primaryKey())
	for _, def := range defs {
		sql.WriteString(", ")
		sql.WriteString(def)
	}
	sql.WriteString(")")

	return Statement{SQL: sql.String(), Args: []any{}}, nil
}

// AddColumn builds a single ALTER TABLE ... ADD COLUMN.
func (b *Builder) AddColumn(table string, column ColumnDef) (Statement, error) {
	stmts, err := b.AddColumns(table, []ColumnDef{column})
	if err != nil {
		return Statement{}, err
	}
	return stmts[0], nil
}

// AddColumns builds the statements adding columns to an existing table.
// Postgres gets one ALTER TABLE with a clause per column; SQLite accepts a
// single ADD COLUMN per ALTER, so it gets one statement per column and the
// caller is expected to run them in one transaction.
func (b *Builder) AddColumns(table string, columns []ColumnDef) ([]Statement, error) {
	if err := core.ValidateIdentifier(table); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: at least one column is required", core.ErrBadRequest)
	}

	defs, err := b.columnDefinitions(columns)
	if err != nil {
		return nil, err
	}

	if b.dialect == SQLite {
		stmts := make([]Statement, 0, len(defs))
		for _, def := range defs {
			stmts = append(stmts, Statement{
				SQL:  "ALTER TABLE " + b.quote(table) + " ADD COLUMN " + def,
				Args: []any{},
			})
		}
		return stmts, nil
	}

	clauses := make([]string, len(defs))
	for i, def := range defs {
		clauses[i] = "ADD COLUMN " + def
	}
	return []Statement{{
		SQL:  "ALTER TABLE " + b.quote(table) + " " + strings.Join(clauses, ", "),
		Args: []any{},
	}}, nil
}

// columnDefinitions renders `"name" TYPE [CONSTRAINT...]` for each column,
// rejecting bad names, the reserved "id" column, duplicates, unknown types
// and unknown constraints.
func (b *Builder) columnDefinitions(columns []ColumnDef) ([]string, error) {
	seen := make(map[string]bool, len(columns))
	defs := make([]string, 0, len(columns))

	for _, col := range columns {
		if err := core.ValidateIdentifier(col.Name); err != nil {
			return nil, err
		}
		key := strings.ToLower(col.Name)
		if key == "id" {
			return nil, fmt.Errorf("%w: column 'id' is managed by the gateway", core.ErrDuplicateColumn)
		}
		if seen[key] {
			return nil, fmt.Errorf("%w: '%s'", core.ErrDuplicateColumn, col.Name)
		}
		seen[key] = true

		logical, ok := core.NormalizeAndValidateType(col.Type)
		if !ok {
			return nil, fmt.Errorf("%w: '%s' for column '%s'", core.ErrInvalidColumnType, col.Type, col.Name)
		}
		typeName, ok := b.dialect.columnType(logical)
		if !ok {
			return nil, fmt.Errorf("%w: '%s' for column '%s'", core.ErrInvalidColumnType, col.Type, col.Name)
		}

		def := b.quote(col.Name) + " " + typeName
		applied := make(map[string]bool, len(col.Constraints))
		for _, raw := range col.Constraints {
			constraint, ok := core.NormalizeAndValidateConstraint(raw)
			if !ok {
				return nil, fmt.Errorf("%w: '%s' for column '%s'", core.ErrInvalidConstraint, raw, col.Name)
			}
			if applied[constraint] {
				continue
			}
			applied[constraint] = true
			def += " " + constraint
		}
		defs = append(defs, def)
	}
	return defs, nil
}
