// api/handlers/table_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/nebula-gateway/api/models"
	"github.com/Annany2002/nebula-gateway/internal/core"
	"github.com/Annany2002/nebula-gateway/internal/query"
)

// TableHandler holds dependencies for DDL and catalog handlers.
type TableHandler struct {
	Store      SchemaStore
	Builder    *query.Builder
	SchemaName string
}

// NewTableHandler creates a new TableHandler. schemaName is the Postgres
// schema listed by /schema.
func NewTableHandler(store SchemaStore, builder *query.Builder, schemaName string) *TableHandler {
	return &TableHandler{
		Store:      store,
		Builder:    builder,
		SchemaName: schemaName,
	}
}

// CreateTable handles POST /create-table.
func (h *TableHandler) CreateTable(c *gin.Context) {
	var req models.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("CreateTable binding error: %v", err)
		_ = c.Error(fmt.Errorf("%w: %w", core.ErrBadRequest, err))
		return
	}
	if err := core.ValidateTableName(req.TableName); err != nil {
		_ = c.Error(err)
		return
	}

	stmt, err := h.Builder.CreateTable(req.TableName, columnDefs(req.Columns))
	if err != nil {
		_ = c.Error(err)
		return
	}

	if _, err := h.Store.ExecStatement(c.Request.Context(), stmt); err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Printf("Table '%s' created with %d column(s)", req.TableName, len(req.Columns))
	c.JSON(http.StatusCreated, models.MessageResponse{
		Message: fmt.Sprintf("Table '%s' created successfully", req.TableName),
	})
}

// AddFields handles POST /add-fields/:table.
func (h *TableHandler) AddFields(c *gin.Context) {
	tableName, ok := tableParam(c)
	if !ok {
		return
	}

	var req models.AddFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("AddFields binding error: %v", err)
		_ = c.Error(fmt.Errorf("%w: %w", core.ErrBadRequest, err))
		return
	}

	stmts, err := h.Builder.AddColumns(tableName, columnDefs(req.Columns))
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.Store.ExecStatements(c.Request.Context(), stmts); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, models.MessageResponse{
		Message: fmt.Sprintf("%d field(s) added to table '%s'", len(req.Columns), tableName),
	})
}

// Schema handles GET /schema, read fresh from the catalog on every call.
func (h *TableHandler) Schema(c *gin.Context) {
	stmt, err := h.Builder.Schema(h.SchemaName)
	if err != nil {
		_ = c.Error(err)
		return
	}

	schema, err := h.Store.FetchSchema(c.Request.Context(), stmt)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, schema)
}

func columnDefs(in []models.ColumnDefinition) []query.ColumnDef {
	out := make([]query.ColumnDef, len(in))
	for i, col := range in {
		out[i] = query.ColumnDef{Name: col.Name, Type: col.Type, Constraints: col.Constraints}
	}
	return out
}
