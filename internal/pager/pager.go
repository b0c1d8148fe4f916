// Package pager keeps the current page and page size of the expense list in
// bounds and computes the window of page numbers shown to the user.
package pager

import (
	"fmt"
	"slices"

	"golang.org/x/exp/constraints"
)

const (
	DefaultPage = 1
	DefaultSize = 10

	// WindowSize is the maximum number of page numbers displayed at once.
	WindowSize = 5
)

// AllowedSizes are the page sizes a user can pick.
var AllowedSizes = []int{5, 10, 20, 50}

// State is the page the user is looking at and how many items fit on it.
type State struct {
	Current int
	Size    int
}

func New() State {
	return State{
		Current: DefaultPage,
		Size:    DefaultSize,
	}
}

// ChangePage moves to requested when 1 <= requested <= totalPages. Any other
// request leaves the state unchanged and reports false.
func ChangePage(s State, requested, totalPages int) (State, bool) {
	if requested < 1 || requested > totalPages {
		return s, false
	}

	s.Current = requested
	return s, true
}

// WithSize switches to a new page size and always goes back to the first page.
func WithSize(s State, size int) (State, error) {
	if !slices.Contains(AllowedSizes, size) {
		return s, fmt.Errorf("invalid page size %d: must be one of %v", size, AllowedSizes)
	}

	return State{Current: DefaultPage, Size: size}, nil
}

// Clamp keeps the current page inside [1, totalPages]. With no pages at all
// the current page is 1.
func Clamp(s State, totalPages int) State {
	s.Current = clamp(s.Current, DefaultPage, max(totalPages, DefaultPage))
	return s
}

// NextSize and PrevSize step through AllowedSizes, staying put at the ends.
func NextSize(size int) int {
	i := slices.Index(AllowedSizes, size)
	if i < 0 {
		return DefaultSize
	}
	return AllowedSizes[clamp(i+1, 0, len(AllowedSizes)-1)]
}

func PrevSize(size int) int {
	i := slices.Index(AllowedSizes, size)
	if i < 0 {
		return DefaultSize
	}
	return AllowedSizes[clamp(i-1, 0, len(AllowedSizes)-1)]
}

func HasPrev(s State) bool {
	return s.Current > 1
}

func HasNext(s State, totalPages int) bool {
	return s.Current < totalPages
}

// Offset is the number of items on the pages before the current one.
func Offset(s State) int {
	return (s.Current - 1) * s.Size
}

// Window returns the page numbers to display as buttons:
//
//	totalPages <= 5             -> 1..totalPages
//	current <= 3                -> 1..5
//	current >= totalPages - 2   -> last 5 pages
//	otherwise                   -> current-2..current+2
func Window(current, totalPages int) []int {
	if totalPages <= 0 {
		return []int{}
	}

	var first int
	switch {
	case totalPages <= WindowSize:
		first = 1
	case current <= 3:
		first = 1
	case current >= totalPages-2:
		first = totalPages - WindowSize + 1
	default:
		first = current - 2
	}

	count := min(WindowSize, totalPages)
	pages := make([]int, count)
	for i := range pages {
		pages[i] = first + i
	}

	return pages
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
