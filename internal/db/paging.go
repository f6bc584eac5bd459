package db

// PagingParams define os parâmetros básicos de entrada
type PagingParams struct {
	Page    int
	PerPage int
}

func (p PagingParams) Offset() int64 {
	page := max(p.Page, 1)
	return int64((page - 1) * int(p.Limit()))
}

func (p PagingParams) Limit() int64 {
	if p.PerPage < 1 {
		return 10
	}
	return int64(p.PerPage)
}

// PagedResult encapsula os dados e os metadados da página
type PagedResult[T any] struct {
	Items       []T
	TotalItems  int
	CurrentPage int
	PerPage     int
}

func (p PagedResult[T]) TotalPages() int {
	if p.PerPage == 0 {
		return 0
	}
	return (p.TotalItems + p.PerPage - 1) / p.PerPage
}
