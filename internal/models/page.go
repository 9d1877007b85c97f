package models

import "math"

// DefaultPageSize is the number of posts shown per listing page.
const DefaultPageSize = 10

// Page is one slice of an ordered listing.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Number   int   `json:"page"`
	Size     int   `json:"page_size"`
	Total    int64 `json:"total"`
	NumPages int   `json:"num_pages"`
	HasNext  bool  `json:"has_next"`
	HasPrev  bool  `json:"has_previous"`
}

// NewPage assembles a page for the given items. Items is never nil so the
// JSON form always carries an array.
func NewPage[T any](items []T, number, size int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	number = NormalizePageNumber(number)
	if size <= 0 {
		size = DefaultPageSize
	}
	numPages := NumPages(total, size)
	return Page[T]{
		Items:    items,
		Number:   number,
		Size:     size,
		Total:    total,
		NumPages: numPages,
		HasNext:  number < numPages,
		HasPrev:  number > 1,
	}
}

// NumPages returns ceil(total/size).
func NumPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// NormalizePageNumber maps invalid page numbers to the first page.
func NormalizePageNumber(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// PageOffset returns the row offset of page n. Offsets that would overflow
// saturate at math.MaxInt, which is past the end of any listing.
func PageOffset(n, size int) int {
	n = NormalizePageNumber(n)
	if size > 0 && n-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (n - 1) * size
}
