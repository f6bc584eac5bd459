package view

import "github.com/PauloHFS/skystore/internal/db"

// Pagination é o estado de navegação de uma listagem paginada.
type Pagination struct {
	CurrentPage int
	TotalPages  int
}

// FromResult monta a navegação a partir do resultado da consulta. Uma página
// além da última (?page=99) continua sendo a atual, só que sem itens.
func FromResult[T any](r db.PagedResult[T]) Pagination {
	return Pagination{
		CurrentPage: max(r.CurrentPage, 1),
		TotalPages:  r.TotalPages(),
	}
}

func (p Pagination) HasPrevious() bool { return p.CurrentPage > 1 }

func (p Pagination) HasNext() bool { return p.CurrentPage < p.TotalPages }

// Window devolve até size números de página centrados na atual.
func (p Pagination) Window(size int) []int {
	if p.TotalPages == 0 || size < 1 {
		return nil
	}
	first := max(p.CurrentPage-size/2, 1)
	last := min(first+size-1, p.TotalPages)
	first = max(last-size+1, 1)

	pages := make([]int, 0, last-first+1)
	for n := first; n <= last; n++ {
		pages = append(pages, n)
	}
	return pages
}
