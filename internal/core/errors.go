// internal/core/errors.go
package core

import "errors"

// Validation errors raised before any statement reaches the database.
// The error handler maps all of them to 400, except ErrReservedTable (404).
var (
	ErrBadRequest         = errors.New("bad request")
	ErrInvalidIdentifier  = errors.New("invalid identifier")
	ErrEmptyPayload       = errors.New("payload must contain at least one column")
	ErrInvalidValue       = errors.New("invalid value")
	ErrInvalidColumnType  = errors.New("unsupported column type")
	ErrInvalidConstraint  = errors.New("unsupported column constraint")
	ErrDuplicateColumn    = errors.New("duplicate column name")
	ErrInvalidQueryOption = errors.New("invalid query parameter")
	ErrReservedTable      = errors.New("table not found")
)
