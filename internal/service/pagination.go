package service

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Page is one page of an ordered result set.
type Page[T any] struct {
	Items              []T   `json:"items"`
	Number             int   `json:"number"`
	NumPages           int   `json:"num_pages"`
	Count              int64 `json:"count"`
	PerPage            int   `json:"per_page"`
	HasNext            bool  `json:"has_next"`
	HasPrevious        bool  `json:"has_previous"`
	NextPageNumber     *int  `json:"next_page_number,omitempty"`
	PreviousPageNumber *int  `json:"previous_page_number,omitempty"`
}

// ParsePageNumber reads the "page" query value. Missing or non-integer
// values select the first page; range clamping happens later, once the
// total is known. Integers beyond the int range saturate so they still
// clamp to the nearest end.
func ParsePageNumber(raw string) int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	switch {
	case err == nil:
		return n
	case errors.Is(err, strconv.ErrRange):
		if strings.HasPrefix(raw, "-") {
			return math.MinInt
		}
		return math.MaxInt
	default:
		return 1
	}
}

// NumPages is the page count for count items. An empty result still has one page.
func NumPages(count int64, perPage int) int {
	if perPage <= 0 || count <= 0 {
		return 1
	}
	return int((count + int64(perPage) - 1) / int64(perPage))
}

// ClampPage moves number into [1, numPages].
func ClampPage(number, numPages int) int {
	if number < 1 {
		return 1
	}
	if number > numPages {
		return numPages
	}
	return number
}

// Offset is the row offset of page number.
func Offset(number, perPage int) int {
	return (number - 1) * perPage
}

// NewPage assembles page metadata around items. number must already be clamped.
func NewPage[T any](items []T, number, perPage int, count int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	numPages := NumPages(count, perPage)
	page := Page[T]{
		Items:       items,
		Number:      number,
		NumPages:    numPages,
		Count:       count,
		PerPage:     perPage,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
	if page.HasNext {
		next := number + 1
		page.NextPageNumber = &next
	}
	if page.HasPrevious {
		prev := number - 1
		page.PreviousPageNumber = &prev
	}
	return page
}
