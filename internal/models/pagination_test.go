package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int64
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"première page pleine", 1, 10, 25, 3, true, false},
		{"page du milieu", 2, 10, 25, 3, true, true},
		{"dernière page partielle", 3, 10, 25, 3, false, true},
		{"total multiple exact du limit", 2, 10, 20, 2, false, true},
		{"aucun résultat", 1, 10, 0, 0, false, false},
		{"un seul élément", 1, 10, 1, 1, false, false},
		{"page au-delà du total", 5, 10, 25, 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.totalPages, p.TotalPages)
			assert.Equal(t, tt.hasNext, p.HasNext)
			assert.Equal(t, tt.hasPrev, p.HasPrev)
			assert.Equal(t, tt.total, p.TotalItems)
		})
	}
}

func TestNewPaginationClampsInputs(t *testing.T) {
	p := NewPagination(0, 0, 5)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.Limit)
	assert.Equal(t, 5, p.TotalPages)
}
