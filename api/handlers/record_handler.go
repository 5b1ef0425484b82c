// api/handlers/record_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/nebula-gateway/api/models"
	"github.com/Annany2002/nebula-gateway/internal/core"
	"github.com/Annany2002/nebula-gateway/internal/query"
	"github.com/Annany2002/nebula-gateway/internal/storage"
)

// RecordHandler holds dependencies for record CRUD handlers.
type RecordHandler struct {
	Store   RecordStore
	Builder *query.Builder
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(store RecordStore, builder *query.Builder) *RecordHandler {
	return &RecordHandler{
		Store:   store,
		Builder: builder,
	}
}

// ListRecords handles GET /data/:table with equality filters and list options.
func (h *RecordHandler) ListRecords(c *gin.Context) {
	tableName, ok := tableParam(c)
	if !ok {
		return
	}

	opts, filters, err := core.ParseListQuery(c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		return
	}

	stmt, err := h.Builder.Select(tableName, filters, opts)
	if err != nil {
		_ = c.Error(err)
		return
	}

	records, err := h.Store.QueryRecords(c.Request.Context(), stmt)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": records})
}

// GetRecord handles GET /data/:table/:id.
func (h *RecordHandler) GetRecord(c *gin.Context) {
	tableName, ok := tableParam(c)
	if !ok {
		return
	}

	stmt, err := h.Builder.SelectByID(tableName, recordID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	records, err := h.Store.QueryRecords(c.Request.Context(), stmt)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(records) == 0 {
		_ = c.Error(storage.ErrRecordNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": records[0]})
}

// CreateRecord handles POST /data/:table.
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	tableName, ok := tableParam(c)
	if !ok {
		return
	}

	payload, err := bindRecordPayload(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	stmt, err := h.Builder.Insert(tableName, payload)
	if err != nil {
		_ = c.Error(err)
		return
	}

	records, err := h.Store.QueryRecords(c.Request.Context(), stmt)
	if err != nil {
		_ = c.Error(err)
		return
	}

	inserted := map[string]any{}
	if len(records) > 0 {
		inserted = records[0]
	}
	customLog.Printf("Record inserted into table '%s' (id=%v)", tableName, inserted["id"])
	c.JSON(http.StatusCreated, models.InsertResponse{
		Message:        "Record inserted successfully",
		InsertedRecord: inserted,
	})
}

// UpdateRecord handles PUT /data/:table/:id. The id column itself cannot be
// changed. Like DeleteRecord it answers 200 even when no row matched.
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	tableName, ok := tableParam(c)
	if !ok {
		return
	}

	payload, err := bindRecordPayload(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	for key := range payload {
		if strings.EqualFold(key, "id") {
			delete(payload, key)
		}
	}

	stmt, err := h.Builder.Update(tableName, recordID(c), payload)
	if err != nil {
		_ = c.Error(err)
		return
	}

	affected, err := h.Store.ExecStatement(c.Request.Context(), stmt)
	if err != nil {
		_ = c.Error(err)
		return
	}
	customLog.Printf("Update on table '%s' affected %d row(s)", tableName, affected)
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Record updated successfully"})
}

// DeleteRecord handles DELETE /data/:table/:id. Deleting a missing row still
// answers 200.
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	tableName, ok := tableParam(c)
	if !ok {
		return
	}

	stmt, err := h.Builder.Delete(tableName, recordID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	affected, err := h.Store.ExecStatement(c.Request.Context(), stmt)
	if err != nil {
		_ = c.Error(err)
		return
	}
	customLog.Printf("Delete on table '%s' affected %d row(s)", tableName, affected)
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Record deleted successfully"})
}

// tableParam validates the :table path segment, attaching the error on failure.
func tableParam(c *gin.Context) (string, bool) {
	tableName := c.Param("table")
	if err := core.ValidateTableName(tableName); err != nil {
		_ = c.Error(err)
		return "", false
	}
	return tableName, true
}

// recordID passes integer ids as int64 and anything else as text.
func recordID(c *gin.Context) any {
	raw := c.Param("id")
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id
	}
	return raw
}

// bindRecordPayload decodes the body as a JSON object. Integral numbers
// become int64, other numbers float64. Numbers neither can hold exactly
// are passed on as their decimal text.
func bindRecordPayload(c *gin.Context) (map[string]any, error) {
	if c.Request.Body == nil {
		return nil, core.ErrEmptyPayload
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: request body must be a JSON object", core.ErrBadRequest)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: request body must contain a single JSON object", core.ErrBadRequest)
	}

	for key, val := range payload {
		n, ok := val.(json.Number)
		if !ok {
			continue
		}
		if i, err := n.Int64(); err == nil {
			payload[key] = i
		} else if !strings.ContainsAny(n.String(), ".eE") {
			// Beyond int64: keep the exact digits and let the column type decide.
			payload[key] = n.String()
		} else if f, err := n.Float64(); err == nil {
			payload[key] = f
		} else {
			payload[key] = n.String()
		}
	}
	return payload, nil
}
