package core

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListQuery(t *testing.T) {
	q := url.Values{
		"name":   {"x", "ignored"},
		"color":  {"red"},
		"limit":  {"10"},
		"offset": {"20"},
		"sort":   {"name"},
		"order":  {"DESC"},
		"fields": {"id, name,,color"},
	}

	opts, filters, err := ParseListQuery(q)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"name": "x", "color": "red"}, filters)
	assert.Equal(t, 10, opts.Limit)
	assert.Equal(t, 20, opts.Offset)
	assert.Equal(t, "name", opts.SortBy)
	assert.Equal(t, "desc", opts.SortOrder)
	assert.Equal(t, []string{"id", "name", "color"}, opts.Fields)
}

func TestParseListQuery_Defaults(t *testing.T) {
	opts, filters, err := ParseListQuery(url.Values{})
	require.NoError(t, err)

	assert.Empty(t, filters)
	assert.Zero(t, opts.Limit)
	assert.Zero(t, opts.Offset)
	assert.Equal(t, DefaultOrder, opts.SortOrder)
	assert.Nil(t, opts.Fields)
}

func TestParseListQuery_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		query   url.Values
		wantErr error
	}{
		{"non-numeric limit", url.Values{"limit": {"ten"}}, ErrInvalidQueryOption},
		{"zero limit", url.Values{"limit": {"0"}}, ErrInvalidQueryOption},
		{"limit over max", url.Values{"limit": {"1001"}}, ErrInvalidQueryOption},
		{"negative offset", url.Values{"offset": {"-1"}}, ErrInvalidQueryOption},
		{"bad sort column", url.Values{"sort": {"name;drop"}}, ErrInvalidQueryOption},
		{"bad order", url.Values{"order": {"sideways"}}, ErrInvalidQueryOption},
		{"bad field", url.Values{"fields": {"id,1=1"}}, ErrInvalidQueryOption},
		{"bad filter key", url.Values{"name or 1": {"x"}}, ErrInvalidIdentifier},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseListQuery(tc.query)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ParseListQuery(%v) = %v; want %v", tc.query, err, tc.wantErr)
			}
		})
	}
}

func TestParseListQuery_ReservedNamesIgnoreCase(t *testing.T) {
	q := url.Values{
		"LIMIT":  {"5"},
		"Offset": {"2"},
		"SORT":   {"name"},
		"Order":  {"desc"},
		"Fields": {"id"},
		"Name":   {"x"},
	}

	opts, filters, err := ParseListQuery(q)
	require.NoError(t, err)
	assert.Equal(t, 5, opts.Limit)
	assert.Equal(t, 2, opts.Offset)
	assert.Equal(t, "name", opts.SortBy)
	assert.Equal(t, "desc", opts.SortOrder)
	assert.Equal(t, []string{"id"}, opts.Fields)
	assert.Equal(t, map[string]any{"Name": "x"}, filters)

	_, _, err = ParseListQuery(url.Values{"LIMIT": {"0"}})
	assert.ErrorIs(t, err, ErrInvalidQueryOption)
}
