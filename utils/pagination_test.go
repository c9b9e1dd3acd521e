package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name       string
		pageNumber *int
		pageSize   *int
		wantPage   int
		wantSize   int
	}{
		{"defaults", nil, nil, 1, 10},
		{"explicit values", intPtr(3), intPtr(25), 3, 25},
		{"zero page falls back", intPtr(0), intPtr(25), 1, 25},
		{"negative page falls back", intPtr(-2), nil, 1, 10},
		{"zero size falls back", intPtr(2), intPtr(0), 2, 10},
		{"size capped at maximum", intPtr(1), intPtr(5000), 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := GetPaginationParams(tt.pageNumber, tt.pageSize)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}

func TestNewPagedResult(t *testing.T) {
	result := NewPagedResult([]string{"a", "b"}, 21, 2, 10)

	assert.Equal(t, int64(21), result.TotalCount)
	assert.Equal(t, 2, result.PageNumber)
	assert.Equal(t, 10, result.PageSize)
	assert.Equal(t, 3, result.TotalPages)
	assert.Len(t, result.Items, 2)
}

func TestNewPagedResult_ExactMultiple(t *testing.T) {
	result := NewPagedResult([]int{1, 2, 3}, 30, 1, 10)
	assert.Equal(t, 3, result.TotalPages)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 10, Offset(2, 10))
	assert.Equal(t, 90, Offset(10, 10))
}
