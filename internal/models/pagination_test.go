package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginatedResponse(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		totalCount int64
		wantPages  int
	}{
		{"exact fit", 1, 20, 40, 2},
		{"partial last page", 1, 20, 41, 3},
		{"empty", 1, 20, 0, 0},
		{"single item", 1, 20, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewPaginatedResponse([]string{}, tt.page, tt.pageSize, tt.totalCount)
			assert.Equal(t, tt.wantPages, resp.TotalPages)
			assert.Equal(t, tt.totalCount, resp.TotalCount)
		})
	}
}
