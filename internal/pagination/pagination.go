// Package pagination slices result sets into pages and wraps them in a
// response envelope.
package pagination

import "math"

// DefaultSize is the page size used when the caller does not ask for one.
const DefaultSize = 10

// Paginator computes the window of a single page. Page and size are 1-based
// and never below 1.
type Paginator struct {
	Page int
	Size int
}

// New creates a Paginator, clamping page and size up to 1.
func New(page, size int) Paginator {
	return Paginator{Page: max(page, 1), Size: max(size, 1)}
}

// Offset is the number of items before the page. It saturates at
// math.MaxInt instead of overflowing.
func (p Paginator) Offset() int {
	if p.Size > 0 && p.Page-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Size
}

// Limit is the maximum number of items on the page.
func (p Paginator) Limit() int {
	return p.Size
}

// Slice returns the page of an already-fetched sequence. A page past the end
// is empty.
func Slice[T any](p Paginator, items []T) []T {
	start := p.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + min(p.Size, len(items)-start)
	return items[start:end]
}

// Pagination is the response envelope for one page of results.
type Pagination[T any] struct {
	Page    int `json:"page"`
	Size    int `json:"size"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
	Results []T `json:"results"`
}

// Create wraps a page of data. Pages is ceil(total/size), or 0 when size is 0.
func Create[T any](data []T, total, page, size int) Pagination[T] {
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	if data == nil {
		data = []T{}
	}
	return Pagination[T]{
		Page:    page,
		Size:    size,
		Total:   total,
		Pages:   pages,
		Results: data,
	}
}
