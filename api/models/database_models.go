// api/models/database_models.go
package models

// --- Table/Schema Request Structs ---

// ColumnDefinition represents a single column in a table definition request.
// Type and constraints are checked against allow-lists by the query builder.
type ColumnDefinition struct {
	Name        string   `json:"name" binding:"required"`
	Type        string   `json:"type" binding:"required"`
	Constraints []string `json:"constraints,omitempty"`
}

// CreateTableRequest defines the structure for the create-table request body
type CreateTableRequest struct {
	TableName string             `json:"tableName" binding:"required"`
	Columns   []ColumnDefinition `json:"columns" binding:"required,min=1,dive"`
}

// AddFieldsRequest defines the structure for the add-fields request body
type AddFieldsRequest struct {
	Columns []ColumnDefinition `json:"columns" binding:"required,min=1,dive"`
}

// --- Response Structs ---

// MessageResponse is the body of mutations that return no data.
type MessageResponse struct {
	Message string `json:"message"`
}

// InsertResponse is returned with 201 after a record is created.
type InsertResponse struct {
	Message        string         `json:"message"`
	InsertedRecord map[string]any `json:"insertedRecord"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
