// internal/domain/models.go
package domain

import "time"

// User defines the structure for user data in the DB
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is the authenticated principal carried inside a token.
type Identity struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// Record is one row of a user table keyed by column name.
type Record = map[string]any

// ColumnInfo is a column name and its declared data type as reported by the catalog.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// SchemaDescriptor maps each table to its columns in ordinal order.
type SchemaDescriptor map[string][]ColumnInfo
