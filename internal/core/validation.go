// internal/core/validation.go
package core

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxIdentifierLength matches PostgreSQL's NAMEDATALEN-1.
const MaxIdentifierLength = 63

// Table and column names: letters, digits and underscore, not starting with a digit.
var nameValidationRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Logical column types accepted in table definitions. The query builder maps
// each to a dialect-specific type name.
var AllowedColumnTypes = map[string]string{
	"TEXT":             "TEXT",
	"STRING":           "TEXT",
	"VARCHAR":          "VARCHAR",
	"INTEGER":          "INTEGER",
	"INT":              "INTEGER",
	"BIGINT":           "BIGINT",
	"SMALLINT":         "SMALLINT",
	"REAL":             "REAL",
	"FLOAT":            "DOUBLE",
	"DOUBLE":           "DOUBLE",
	"DOUBLE PRECISION": "DOUBLE",
	"NUMERIC":          "NUMERIC",
	"DECIMAL":          "NUMERIC",
	"BOOLEAN":          "BOOLEAN",
	"BOOL":             "BOOLEAN",
	"DATE":             "DATE",
	"TIMESTAMP":        "TIMESTAMP",
	"TIMESTAMPTZ":      "TIMESTAMPTZ",
	"UUID":             "UUID",
	"JSON":             "JSON",
	"JSONB":            "JSON",
	"BYTEA":            "BYTEA",
	"BLOB":             "BYTEA",
}

// Column constraints accepted in table definitions.
var AllowedConstraints = map[string]string{
	"NOT NULL": "NOT NULL",
	"NOTNULL":  "NOT NULL",
	"UNIQUE":   "UNIQUE",
}

// Tables owned by the gateway itself or by the database catalog.
var reservedTables = map[string]bool{
	"gateway_users":    true,
	"goose_db_version": true,
}

var reservedTablePrefixes = []string{"pg_", "sqlite_"}

// IsValidIdentifier checks if a string is a valid table or column name.
func IsValidIdentifier(name string) bool {
	return len(name) > 0 && len(name) <= MaxIdentifierLength && nameValidationRegex.MatchString(name)
}

// ValidateIdentifier returns an ErrInvalidIdentifier-wrapped error for names
// that fail IsValidIdentifier.
func ValidateIdentifier(name string) error {
	if !IsValidIdentifier(name) {
		return fmt.Errorf("%w: '%s'", ErrInvalidIdentifier, name)
	}
	return nil
}

// IsReservedTable reports whether a table belongs to the gateway or the catalog.
func IsReservedTable(name string) bool {
	lower := strings.ToLower(name)
	if reservedTables[lower] {
		return true
	}
	for _, prefix := range reservedTablePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// ValidateTableName checks the identifier grammar and rejects reserved tables.
func ValidateTableName(name string) error {
	if err := ValidateIdentifier(name); err != nil {
		return err
	}
	if IsReservedTable(name) {
		return fmt.Errorf("%w: '%s'", ErrReservedTable, name)
	}
	return nil
}

// NormalizeAndValidateType checks if a string is an allowed column type, returning the normalized logical type.
func NormalizeAndValidateType(colType string) (string, bool) {
	normalizedType, ok := AllowedColumnTypes[collapseUpper(colType)]
	return normalizedType, ok
}

// NormalizeAndValidateConstraint does the same for column constraints.
func NormalizeAndValidateConstraint(constraint string) (string, bool) {
	normalized, ok := AllowedConstraints[collapseUpper(constraint)]
	return normalized, ok
}

func collapseUpper(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
