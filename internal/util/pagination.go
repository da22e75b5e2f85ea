package util

// Page is a single page of results together with the paging metadata
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int32 `json:"page"`
	PageSize   int32 `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int32 `json:"totalPages"`
}

// NewPage wraps already-fetched items with paging metadata.
// Items is never nil so it serializes as an empty JSON array.
func NewPage[T any](items []T, page, pageSize int32, totalItems int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: TotalPages(totalItems, pageSize),
	}
}

// TotalPages returns ceil(totalItems / pageSize), or 0 when there is nothing to page
func TotalPages(totalItems int64, pageSize int32) int32 {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	size := int64(pageSize)
	return int32((totalItems + size - 1) / size)
}

// Offset returns the number of rows to skip for a 1-based page.
// It is computed in int64 so no int32 page and size can overflow it.
func Offset(page, pageSize int32) int64 {
	if page < 1 || pageSize < 1 {
		return 0
	}
	return int64(page-1) * int64(pageSize)
}

// MapItems converts each item of a page, keeping the metadata
func MapItems[T, R any](p Page[T], fn func(T) R) Page[R] {
	out := make([]R, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return Page[R]{
		Items:      out,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	}
}
