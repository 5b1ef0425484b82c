// Package query turns a table name, an optional record id, an optional filter
// set and an optional payload into a parameterized statement.
//
// Only identifiers that pass core.ValidateIdentifier are ever written into
// the SQL text, always quoted. Every value travels in Statement.Args.
package query

import (
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/Annany2002/nebula-gateway/internal/core"
)

// Statement is a SQL template plus its bound arguments.
type Statement struct {
	SQL  string
	Args []any
}

// ColumnDef is a validated-on-build column definition for DDL.
type ColumnDef struct {
	Name        string
	Type        string
	Constraints []string
}

// Builder produces statements for one dialect. It does no I/O.
type Builder struct {
	dialect Dialect
	sb      sq.StatementBuilderType
}

// NewBuilder creates a Builder. An empty dialect means Postgres.
func NewBuilder(dialect Dialect) *Builder {
	if dialect == "" {
		dialect = Postgres
	}
	return &Builder{
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(dialect.Placeholders()),
	}
}

// Dialect returns the builder's dialect.
func (b *Builder) Dialect() Dialect {
	return b.dialect
}

// SelectAll builds SELECT * FROM table.
func (b *Builder) SelectAll(table string) (Statement, error) {
	return b.Select(table, nil, nil)
}

// SelectByID builds SELECT * FROM "table" WHERE "id" = $1.
func (b *Builder) SelectByID(table string, id any) (Statement, error) {
	if err := core.ValidateIdentifier(table); err != nil {
		return Statement{}, err
	}
	if err := validateID(id); err != nil {
		return Statement{}, err
	}
	return finish(b.sb.Select("*").From(b.quote(table)).Where(sq.Eq{b.quote("id"): id}))
}

// SelectFiltered builds an equality-filtered SELECT. Filter keys are
// emitted in sorted order so the same set always yields the same statement.
func (b *Builder) SelectFiltered(table string, filters map[string]any) (Statement, error) {
	return b.Select(table, filters, nil)
}

// Select is the general list query: optional column list, filters, sort,
// limit and offset.
func (b *Builder) Select(table string, filters map[string]any, opts *core.ListQueryOptions) (Statement, error) {
	if err := core.ValidateIdentifier(table); err != nil {
		return Statement{}, err
	}
	if opts == nil {
		opts = &core.ListQueryOptions{}
	}

	columns := []string{"*"}
	if len(opts.Fields) > 0 {
		columns = make([]string, len(opts.Fields))
		for i, field := range opts.Fields {
			if err := core.ValidateIdentifier(field); err != nil {
				return Statement{}, err
			}
			columns[i] = b.quote(field)
		}
	}

	q := b.sb.Select(columns...).From(b.quote(table))

	if len(filters) > 0 {
		eq, err := b.columnMap(filters)
		if err != nil {
			return Statement{}, err
		}
		q = q.Where(sq.Eq(eq))
	}

	if opts.SortBy != "" {
		if err := core.ValidateIdentifier(opts.SortBy); err != nil {
			return Statement{}, err
		}
		direction := "ASC"
		if strings.EqualFold(opts.SortOrder, "desc") {
			direction = "DESC"
		}
		q = q.OrderBy(b.quote(opts.SortBy) + " " + direction)
	}
	if opts.Limit > 0 {
		q = q.Limit(uint64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Offset(uint64(opts.Offset))
	}

	return finish(q)
}

// Insert builds INSERT ... RETURNING * with columns in sorted order.
func (b *Builder) Insert(table string, payload map[string]any) (Statement, error) {
	if err := core.ValidateIdentifier(table); err != nil {
		return Statement{}, err
	}
	values, err := b.payloadMap(payload)
	if err != nil {
		return Statement{}, err
	}
	return finish(b.sb.Insert(b.quote(table)).SetMap(values).Suffix("RETURNING *"))
}

// Update builds UPDATE table SET ... WHERE id = $(n+1); the id is the last argument.
func (b *Builder) Update(table string, id any, payload map[string]any) (Statement, error) {
	if err := core.ValidateIdentifier(table); err != nil {
		return Statement{}, err
	}
	if err := validateID(id); err != nil {
		return Statement{}, err
	}
	values, err := b.payloadMap(payload)
	if err != nil {
		return Statement{}, err
	}
	return finish(b.sb.Update(b.quote(table)).SetMap(values).Where(sq.Eq{b.quote("id"): id}))
}

// Delete builds DELETE FROM table WHERE id = $1.
func (b *Builder) Delete(table string, id any) (Statement, error) {
	if err := core.ValidateIdentifier(table); err != nil {
		return Statement{}, err
	}
	if err := validateID(id); err != nil {
		return Statement{}, err
	}
	return finish(b.sb.Delete(b.quote(table)).Where(sq.Eq{b.quote("id"): id}))
}

// Schema builds the catalog query returning (table_name, column_name,
// data_type) rows ordered by table and column position. schemaName is
// ignored on SQLite.
func (b *Builder) Schema(schemaName string) (Statement, error) {
	if b.dialect == SQLite {
		return finish(b.sb.
			Select("m.name AS table_name", "p.name AS column_name", "p.type AS data_type").
			From("sqlite_master m").
			Join("pragma_table_info(m.name) p").
			Where(sq.Eq{"m.type": "table"}).
			OrderBy("m.name", "p.cid"))
	}

	if schemaName == "" {
		schemaName = "public"
	}
	return finish(b.sb.
		Select("table_name", "column_name", "data_type").
		From("information_schema.columns").
		Where(sq.Eq{"table_schema": schemaName}).
		OrderBy("table_name", "ordinal_position"))
}

func finish(q sq.Sqlizer) (Statement, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return Statement{}, fmt.Errorf("%w: %v", core.ErrBadRequest, err)
	}
	if args == nil {
		args = []any{}
	}
	return Statement{SQL: sql, Args: args}, nil
}

func validateID(id any) error {
	switch v := id.(type) {
	case nil:
		return fmt.Errorf("%w: record id is required", core.ErrInvalidValue)
	case string:
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: record id is required", core.ErrInvalidValue)
		}
	}
	if !isScalar(id) {
		return fmt.Errorf("%w: record id must be a scalar", core.ErrInvalidValue)
	}
	return nil
}

func (b *Builder) quote(name string) string {
	return b.dialect.Quote(name)
}

func (b *Builder) payloadMap(payload map[string]any) (map[string]any, error) {
	if len(payload) == 0 {
		return nil, core.ErrEmptyPayload
	}
	return b.columnMap(payload)
}

// columnMap validates keys as identifiers and values as JSON scalars, and
// returns a copy keyed by quoted column name, safe to hand to squirrel.
func (b *Builder) columnMap(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for key, val := range in {
		if err := core.ValidateIdentifier(key); err != nil {
			return nil, err
		}
		if !isScalar(val) {
			return nil, fmt.Errorf("%w: column '%s' must be a string, number, boolean or null", core.ErrInvalidValue, key)
		}
		quoted := b.quote(key)
		if _, dup := out[quoted]; dup {
			return nil, fmt.Errorf("%w: '%s'", core.ErrDuplicateColumn, key)
		}
		out[quoted] = val
	}
	return out, nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, json.Number,
		float32, float64,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}
