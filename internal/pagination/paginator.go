// Package pagination windows an ordered sequence into fixed-size pages.
//
// The page size is fixed when the Paginator is built; callers only pass the
// raw page number taken from the request. Missing or malformed numbers mean
// page 1 and out-of-range numbers clamp to the nearest valid page, so a
// window is always returned.
package pagination

import (
	"strconv"
	"strings"
)

type Paginator struct {
	PerPage int
}

func New(perPage int) Paginator {
	if perPage <= 0 {
		perPage = 1
	}
	return Paginator{PerPage: perPage}
}

// Meta is what a rendering layer needs to build page navigation.
type Meta struct {
	Number       int   `json:"number"`
	NumPages     int   `json:"num_pages"`
	Count        int64 `json:"count"`
	HasNext      bool  `json:"has_next"`
	HasPrevious  bool  `json:"has_previous"`
	NextPage     int   `json:"next_page_number,omitempty"`
	PreviousPage int   `json:"previous_page_number,omitempty"`
}

// Window is the slice of the sequence a page covers.
type Window struct {
	Offset int
	Limit  int
	Meta
}

// Page is one window of items plus navigation metadata.
type Page[T any] struct {
	Items []T `json:"object_list"`
	Meta
}

// Window resolves raw against a sequence of count items.
func (p Paginator) Window(raw string, count int64) Window {
	numPages := 1
	if count > 0 {
		numPages = int((count + int64(p.PerPage) - 1) / int64(p.PerPage))
	}

	number, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case err != nil, number < 1:
		number = 1
	case number > numPages:
		number = numPages
	}

	w := Window{
		Offset: (number - 1) * p.PerPage,
		Limit:  p.PerPage,
		Meta: Meta{
			Number:      number,
			NumPages:    numPages,
			Count:       count,
			HasNext:     number < numPages,
			HasPrevious: number > 1,
		},
	}
	if w.HasNext {
		w.NextPage = number + 1
	}
	if w.HasPrevious {
		w.PreviousPage = number - 1
	}
	return w
}

// NewPage pairs items fetched for w with its metadata.
func NewPage[T any](items []T, w Window) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Meta: w.Meta}
}
