// internal/core/query_params.go
package core

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Limit and order constants for list queries
const (
	MaxLimit     = 1000
	DefaultOrder = "asc"
)

// ReservedParams contains query parameter names reserved for pagination, sorting, and field selection.
// These should not be treated as column filters.
var ReservedParams = map[string]bool{
	"limit":  true,
	"offset": true,
	"sort":   true,
	"order":  true,
	"fields": true,
}

// ListQueryOptions holds parsed query parameters for record listing.
type ListQueryOptions struct {
	// Pagination. Limit 0 means no limit.
	Limit  int
	Offset int

	// Sorting
	SortBy    string
	SortOrder string // "asc" or "desc"

	// Field Selection
	Fields []string // Columns to return (empty = all columns)
}

// ParseListQuery splits query parameters into list options and an equality
// filter set. Only the first value of a repeated filter key is used.
func ParseListQuery(queryParams url.Values) (*ListQueryOptions, map[string]any, error) {
	opts, err := ParseListQueryOptions(queryParams)
	if err != nil {
		return nil, nil, err
	}

	filters := make(map[string]any)
	for key, values := range queryParams {
		if IsReservedParam(key) || len(values) == 0 {
			continue
		}
		if err := ValidateIdentifier(key); err != nil {
			return nil, nil, fmt.Errorf("invalid filter key: %w", err)
		}
		filters[key] = values[0]
	}
	return opts, filters, nil
}

// ParseListQueryOptions extracts pagination, sorting, and field selection options from query parameters.
// Returns the parsed options and any validation error.
func ParseListQueryOptions(queryParams url.Values) (*ListQueryOptions, error) {
	opts := &ListQueryOptions{
		SortOrder: DefaultOrder,
	}
	// Reserved names match in any case, as in IsReservedParam.
	queryParams = reservedValues(queryParams)

	// Parse limit
	if limitStr := queryParams.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, fmt.Errorf("%w: 'limit' must be an integer", ErrInvalidQueryOption)
		}
		if limit < 1 {
			return nil, fmt.Errorf("%w: 'limit' must be at least 1", ErrInvalidQueryOption)
		}
		if limit > MaxLimit {
			return nil, fmt.Errorf("%w: 'limit' maximum is %d", ErrInvalidQueryOption, MaxLimit)
		}
		opts.Limit = limit
	}

	// Parse offset
	if offsetStr := queryParams.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, fmt.Errorf("%w: 'offset' must be an integer", ErrInvalidQueryOption)
		}
		if offset < 0 {
			return nil, fmt.Errorf("%w: 'offset' must be non-negative", ErrInvalidQueryOption)
		}
		opts.Offset = offset
	}

	// Parse sort column
	if sortBy := queryParams.Get("sort"); sortBy != "" {
		if !IsValidIdentifier(sortBy) {
			return nil, fmt.Errorf("%w: 'sort' value '%s' is not a valid column name", ErrInvalidQueryOption, sortBy)
		}
		opts.SortBy = sortBy
	}

	// Parse sort order
	if order := queryParams.Get("order"); order != "" {
		lowerOrder := strings.ToLower(order)
		if lowerOrder != "asc" && lowerOrder != "desc" {
			return nil, fmt.Errorf("%w: 'order' must be 'asc' or 'desc'", ErrInvalidQueryOption)
		}
		opts.SortOrder = lowerOrder
	}

	// Parse fields
	if fieldsStr := queryParams.Get("fields"); fieldsStr != "" {
		fields := strings.Split(fieldsStr, ",")
		validFields := make([]string, 0, len(fields))
		for _, field := range fields {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			if !IsValidIdentifier(field) {
				return nil, fmt.Errorf("%w: 'fields' value '%s' is not a valid column name", ErrInvalidQueryOption, field)
			}
			validFields = append(validFields, field)
		}
		if len(validFields) > 0 {
			opts.Fields = validFields
		}
	}

	return opts, nil
}

// IsReservedParam checks if a query parameter name is reserved for pagination/sorting/fields.
func IsReservedParam(key string) bool {
	return ReservedParams[strings.ToLower(key)]
}

// reservedValues collects the reserved parameters under lower-case keys.
func reservedValues(queryParams url.Values) url.Values {
	out := make(url.Values)
	for key, values := range queryParams {
		if IsReservedParam(key) {
			lower := strings.ToLower(key)
			out[lower] = append(out[lower], values...)
		}
	}
	return out
}
