package filter

import (
	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expensedesk/internal/expense"
)

// ExpenseFilter holds the criteria the user typed to narrow the expense list.
// Pointer fields distinguish "not set" from zero values.
type ExpenseFilter struct {
	Title             string           // substring search on title
	Category          string           // substring search on category
	AmountMin         *decimal.Decimal // inclusive
	AmountMax         *decimal.Decimal // inclusive
	AmountGreaterThan *decimal.Decimal // exclusive
	DateFrom          *expense.Date    // inclusive
	DateTo            *expense.Date    // inclusive
	Sort              SortOptions
}

// SortField represents a field that can be sorted on.
type SortField string

const (
	SortByNone     SortField = ""
	SortByTitle    SortField = "title"
	SortByAmount   SortField = "amount"
	SortByCategory SortField = "category"
	SortByDate     SortField = "date"
)

// SortDirection represents sort order.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortOptions holds sorting preferences. With Field set to SortByNone the
// server picks its own order and Direction is not sent.
type SortOptions struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSortOptions returns no explicit sort, ascending.
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field:     SortByNone,
		Direction: SortAsc,
	}
}

// IsSet reports whether an explicit sort field was chosen.
func (s SortOptions) IsSet() bool {
	return s.Field != SortByNone
}

// String returns the sort options as a string (e.g., "date:desc").
func (s SortOptions) String() string {
	if !s.IsSet() {
		return ""
	}
	return string(s.Field) + ":" + string(s.Direction)
}

// New returns a filter with nothing set.
func New() ExpenseFilter {
	return ExpenseFilter{Sort: DefaultSortOptions()}
}

// Clear returns f with every criterion removed and the sort back to default.
func (f ExpenseFilter) Clear() ExpenseFilter {
	return New()
}

// IsEmpty reports whether no criteria and no explicit sort are set.
func (f ExpenseFilter) IsEmpty() bool {
	return f.Title == "" &&
		f.Category == "" &&
		f.AmountMin == nil &&
		f.AmountMax == nil &&
		f.AmountGreaterThan == nil &&
		f.DateFrom == nil &&
		f.DateTo == nil &&
		!f.Sort.IsSet()
}
