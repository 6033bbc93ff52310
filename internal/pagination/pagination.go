// Package pagination implements the list-query paging contract shared by
// every paginated endpoint: page >= 1, pageSize 1..100.
package pagination

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Params identifies one page of a list query.
type Params struct {
	Page     int
	PageSize int
}

// Normalize clamps Params into the valid range, applying defaults for
// missing values.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset of the page. Callers should normalize first.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is one page of results plus paging metadata.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPage assembles a Page from the items of one page and the total count.
func NewPage[T any](items []T, p Params, total int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.PageSize - 1) / p.PageSize
	}
	return &Page[T]{
		Items:      items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
