// Package pagination provides page/offset handling shared by the list
// endpoints.
package pagination

import "strconv"

const (
	// DefaultPageSize applies when the client does not request a size.
	DefaultPageSize = 25
	// MaxPageSize caps the requested size to keep queries bounded.
	MaxPageSize = 200
)

// Params holds normalized paging parameters. Page is 1-based.
type Params struct {
	Page     int
	PageSize int
}

// Parse normalizes raw query values into paging parameters. Missing or
// malformed values fall back to page 1 and the default size.
func Parse(pageRaw, sizeRaw string) Params {
	return Params{
		Page:     parseInt(pageRaw, 1, 1, 1<<30),
		PageSize: parseInt(sizeRaw, DefaultPageSize, 1, MaxPageSize),
	}
}

// Offset returns the row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is one page of results plus the total row count.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// NewPage wraps items in a page envelope. A nil slice becomes an empty one so
// the JSON encoding is always an array.
func NewPage[T any](items []T, total int64, params Params) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:    items,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}
}

// parseInt parses v, falling back to def and clamping into [min, max].
func parseInt(v string, def, min, max int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
