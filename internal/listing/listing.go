// Package listing builds the paginated collection envelope shared by the
// announcement, project and company list endpoints.
package listing

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is a normalized 1-based page request.
type Params struct {
	Page  int
	Limit int
}

// NewParams applies defaults to caller-supplied values below 1 and caps
// limit at MaxLimit.
func NewParams(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset is the number of matching rows skipped before this page. A page
// whose offset does not fit in an int saturates at math.MaxInt, which lies
// past the end of any collection.
func (p Params) Offset() int {
	p = NewParams(p.Page, p.Limit)
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Pagination describes where a page sits in the filtered collection.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

// Envelope is the {items, pagination} response shape.
type Envelope[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// NewEnvelope wraps one page of items. total must be the count of rows
// matching the filters before pagination.
func NewEnvelope[T any](items []T, total int64, p Params) Envelope[T] {
	p = NewParams(p.Page, p.Limit)
	if items == nil {
		items = []T{}
	}
	if total < 0 {
		total = 0
	}
	limit := int64(p.Limit)
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return Envelope[T]{
		Items: items,
		Pagination: Pagination{
			Total: total,
			Page:  p.Page,
			Limit: p.Limit,
			Pages: pages,
		},
	}
}

// Map converts the items of an envelope, keeping its pagination.
func Map[T, U any](e Envelope[T], fn func(T) U) Envelope[U] {
	out := make([]U, 0, len(e.Items))
	for _, item := range e.Items {
		out = append(out, fn(item))
	}
	return Envelope[U]{Items: out, Pagination: e.Pagination}
}

// Window returns the slice of items that falls on page p. It is used by
// in-memory stores that filter before paginating.
func Window[T any](items []T, p Params) []T {
	p = NewParams(p.Page, p.Limit)
	return Slice(items, p.Limit, p.Offset())
}

// Slice returns at most limit items starting at offset.
func Slice[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}
