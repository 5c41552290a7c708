package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveFiltersSkipsNil(t *testing.T) {
	q := Query{Table: "events", Filters: map[string]any{"category": "Tech", "club_name": nil}}
	assert.Equal(t, map[string]any{"category": "Tech"}, q.ActiveFilters())
	assert.Empty(t, Query{Table: "events"}.ActiveFilters())
}

func TestOrderDirection(t *testing.T) {
	asc, desc := true, false
	assert.False(t, Order{Column: "date"}.Descending())
	assert.False(t, Order{Column: "date", Ascending: &asc}.Descending())
	assert.True(t, Order{Column: "date", Ascending: &desc}.Descending())
}
