package query

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Dialect selects placeholder style, DDL type names and the catalog query.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported database dialect '%s'", driver)
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == SQLite {
		return "sqlite3"
	}
	return "pgx"
}

// Placeholders is the squirrel placeholder format for the dialect.
func (d Dialect) Placeholders() sq.PlaceholderFormat {
	if d == SQLite {
		return sq.Question
	}
	return sq.Dollar
}

// Quote renders an already validated identifier as a quoted name, so SQL
// keywords such as "order" or "group" work as table and column names.
// Postgres folds unquoted names to lower case; quoted names are folded the
// same way so both spellings keep resolving to one column.
func (d Dialect) Quote(name string) string {
	if d != SQLite {
		name = strings.ToLower(name)
	}
	return `"` + name + `"`
}

func (d Dialect) primaryKey() string {
	if d == SQLite {
		return d.Quote("id") + " INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return d.Quote("id") + " BIGSERIAL PRIMARY KEY"
}

// Logical column type (see core.AllowedColumnTypes) -> dialect type name.
var columnTypeNames = map[Dialect]map[string]string{
	Postgres: {
		"TEXT":        "TEXT",
		"VARCHAR":     "VARCHAR(255)",
		"INTEGER":     "INTEGER",
		"BIGINT":      "BIGINT",
		"SMALLINT":    "SMALLINT",
		"REAL":        "REAL",
		"DOUBLE":      "DOUBLE PRECISION",
		"NUMERIC":     "NUMERIC",
		"BOOLEAN":     "BOOLEAN",
		"DATE":        "DATE",
		"TIMESTAMP":   "TIMESTAMP",
		"TIMESTAMPTZ": "TIMESTAMPTZ",
		"UUID":        "UUID",
		"JSON":        "JSONB",
		"BYTEA":       "BYTEA",
	},
	SQLite: {
		"TEXT":        "TEXT",
		"VARCHAR":     "TEXT",
		"INTEGER":     "INTEGER",
		"BIGINT":      "INTEGER",
		"SMALLINT":    "INTEGER",
		"REAL":        "REAL",
		"DOUBLE":      "REAL",
		"NUMERIC":     "NUMERIC",
		"BOOLEAN":     "BOOLEAN",
		"DATE":        "DATE",
		"TIMESTAMP":   "TIMESTAMP",
		"TIMESTAMPTZ": "TIMESTAMP",
		"UUID":        "TEXT",
		"JSON":        "TEXT",
		"BYTEA":       "BLOB",
	},
}

func (d Dialect) columnType(logical string) (string, bool) {
	name, ok := columnTypeNames[d][logical]
	return name, ok
}
