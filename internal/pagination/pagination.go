// Package pagination slices ordered listings into fixed-size pages.
//
// Page numbers are 1-based and come straight from the request. Anything that
// does not address an existing page (missing, non-numeric, zero, negative or
// past the end) falls back to the first page instead of failing.
package pagination

import "strconv"

// DefaultPageSize is the number of items on a listing page.
const DefaultPageSize = 10

// Window describes which slice of a listing a page covers.
type Window struct {
	Number   int
	Size     int
	NumPages int
	Total    int
}

// NewWindow resolves the requested page number against total items.
func NewWindow(total, size int, requested string) Window {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	numPages := (total + size - 1) / size
	if numPages == 0 {
		// An empty listing still has one, empty, page.
		numPages = 1
	}
	number, err := strconv.Atoi(requested)
	if err != nil || number < 1 || number > numPages {
		number = 1
	}
	return Window{Number: number, Size: size, NumPages: numPages, Total: total}
}

// Offset is the index of the first item on the page.
func (w Window) Offset() int {
	return (w.Number - 1) * w.Size
}

// Limit is the maximum number of items on the page.
func (w Window) Limit() int {
	return w.Size
}

// Page is one page of a listing.
type Page[T any] struct {
	Items       []T
	Number      int
	NumPages    int
	Total       int
	HasNext     bool
	HasPrevious bool
}

// NextNumber is the number of the following page. Only meaningful when
// HasNext is true.
func (p Page[T]) NextNumber() int { return p.Number + 1 }

// PreviousNumber is the number of the preceding page. Only meaningful when
// HasPrevious is true.
func (p Page[T]) PreviousNumber() int { return p.Number - 1 }

// HasOtherPages reports whether navigation links are needed at all.
func (p Page[T]) HasOtherPages() bool { return p.HasNext || p.HasPrevious }

// FromWindow wraps items already fetched for w.
func FromWindow[T any](w Window, items []T) Page[T] {
	return Page[T]{
		Items:       items,
		Number:      w.Number,
		NumPages:    w.NumPages,
		Total:       w.Total,
		HasNext:     w.Number < w.NumPages,
		HasPrevious: w.Number > 1,
	}
}

// Slice pages through an in-memory ordered list.
func Slice[T any](items []T, size int, requested string) Page[T] {
	w := NewWindow(len(items), size, requested)
	start := w.Offset()
	end := start + w.Limit()
	if end > len(items) {
		end = len(items)
	}
	return FromWindow(w, items[start:end])
}
