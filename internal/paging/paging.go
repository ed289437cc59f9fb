// Package paging implements numbered page arithmetic for post feeds.
package paging

import (
	"net/http"
	"strconv"
)

// PageSize is the number of posts shown on one feed page.
const PageSize = 10

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid. Values past the last page are
// clamped later by Clamp, once the total is known.
func ParsePage(r *http.Request) int {
	s := r.URL.Query().Get("page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// NumPages returns how many pages total items fill. An empty list still
// has one (empty) page.
func NumPages(total, size int) int {
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Clamp returns the page number that will actually be shown: anything
// below 1 becomes 1 and anything past the end becomes the last page.
func Clamp(number, total, size int) int {
	last := NumPages(total, size)
	switch {
	case number < 1:
		return 1
	case number > last:
		return last
	}
	return number
}

// Offset returns the row offset of a page.
func Offset(number, size int) int {
	return (number - 1) * size
}

// Page is one window of a paginated list.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Total    int
}

// New builds a page from already fetched items.
func New[T any](items []T, number, total, size int) Page[T] {
	return Page[T]{
		Items:    items,
		Number:   number,
		NumPages: NumPages(total, size),
		Total:    total,
	}
}

func (p Page[T]) HasPrev() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool { return p.Number < p.NumPages }
func (p Page[T]) Prev() int     { return p.Number - 1 }
func (p Page[T]) Next() int     { return p.Number + 1 }

// Numbers lists every page number, for rendering a paginator.
func (p Page[T]) Numbers() []int {
	nums := make([]int, p.NumPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}
