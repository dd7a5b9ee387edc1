package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      PaginationParams
		page    int
		perPage int
	}{
		{"zero values fall back to defaults", PaginationParams{}, 1, 15},
		{"negative page", PaginationParams{Page: -3, PerPage: 10}, 1, 10},
		{"per page capped", PaginationParams{Page: 2, PerPage: 500}, 2, 100},
		{"valid values kept", PaginationParams{Page: 4, PerPage: 25}, 4, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Validate()
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.perPage, p.PerPage)
		})
	}
}

func TestPaginationParams_Offset(t *testing.T) {
	p := PaginationParams{Page: 3, PerPage: 20}
	assert.Equal(t, 40, p.Offset())
}

func TestNewPagination(t *testing.T) {
	pag := NewPagination(2, 10, 25)
	assert.Equal(t, 3, pag.TotalPages)
	assert.True(t, pag.HasNext)
	assert.True(t, pag.HasPrev)

	empty := NewPagination(1, 15, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestNewPaginatedResult_NilItemsBecomeEmpty(t *testing.T) {
	result := NewPaginatedResult[int](nil, NewPagination(1, 15, 0))
	assert.NotNil(t, result.Items)
	assert.Len(t, result.Items, 0)
}

func TestMapItems(t *testing.T) {
	page := NewPaginatedResult([]int{1, 2, 3}, NewPagination(1, 15, 3))
	mapped := MapItems(page, func(i int) int { return i * 10 })
	assert.Equal(t, []int{10, 20, 30}, mapped.Items)
	assert.Same(t, page.Pagination, mapped.Pagination)
}
