package view

import (
	"testing"

	"github.com/PauloHFS/skystore/internal/db"
	"github.com/stretchr/testify/assert"
)

func TestFromResult(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		total     int
		wantPages int
		wantPrev  bool
		wantNext  bool
	}{
		{"Primeira página", 1, 25, 3, false, true},
		{"Página zero vira a primeira", 0, 25, 3, false, true},
		{"Página do meio", 2, 30, 3, true, true},
		{"Última página", 3, 30, 3, true, false},
		{"Zero itens", 1, 0, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromResult(db.PagedResult[int]{CurrentPage: tt.page, TotalItems: tt.total, PerPage: 10})
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantPrev, p.HasPrevious())
			assert.Equal(t, tt.wantNext, p.HasNext())
		})
	}
}

func TestPagination_Window(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 10, []int{1, 2, 3, 4, 5}},
		{5, 10, []int{3, 4, 5, 6, 7}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{2, 3, []int{1, 2, 3}},
		{1, 0, nil},
	}
	for _, tt := range tests {
		got := Pagination{CurrentPage: tt.current, TotalPages: tt.total}.Window(5)
		assert.Equal(t, tt.want, got, "current=%d total=%d", tt.current, tt.total)
	}
}
