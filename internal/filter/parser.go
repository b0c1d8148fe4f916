package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expensedesk/internal/expense"
)

// ErrInvalidInput wraps every parse failure so callers can tell local input
// problems apart from API failures.
var ErrInvalidInput = errors.New("invalid filter")

// Input is the raw text of every filter field as typed by the user.
type Input struct {
	Title             string
	Category          string
	AmountMin         string
	AmountMax         string
	AmountGreaterThan string
	DateFrom          string
	DateTo            string
	Sort              string
}

// ParseAmount reads a non-negative decimal amount. Both "12.50" and "12,50"
// are accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount cannot be empty")
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount format %q", s)
	}

	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount cannot be negative")
	}

	return d, nil
}

// ParseSort parses a sort string like "date:desc" or "amount" into SortOptions.
// An empty string means no explicit sort.
func ParseSort(s string) (SortOptions, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultSortOptions(), nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 2 {
		return SortOptions{}, fmt.Errorf("invalid sort format, expected field or field:direction")
	}

	field := SortField(strings.ToLower(strings.TrimSpace(parts[0])))
	direction := SortAsc
	if len(parts) == 2 {
		direction = SortDirection(strings.ToLower(strings.TrimSpace(parts[1])))
	}

	switch field {
	case SortByTitle, SortByAmount, SortByCategory, SortByDate:
	default:
		return SortOptions{}, fmt.Errorf("invalid sort field: %s (must be title, amount, category or date)", field)
	}

	if direction != SortAsc && direction != SortDesc {
		return SortOptions{}, fmt.Errorf("invalid sort direction: %s (must be asc or desc)", direction)
	}

	return SortOptions{
		Field:     field,
		Direction: direction,
	}, nil
}

// Parse turns raw user input into an ExpenseFilter. Empty fields stay unset.
// Range consistency (min <= max) is left to the API.
func Parse(in Input) (ExpenseFilter, error) {
	f := New()

	f.Title = strings.TrimSpace(in.Title)
	f.Category = strings.TrimSpace(in.Category)

	amounts := []struct {
		name  string
		value string
		dest  **decimal.Decimal
	}{
		{"amount_min", in.AmountMin, &f.AmountMin},
		{"amount_max", in.AmountMax, &f.AmountMax},
		{"amount_greater_than", in.AmountGreaterThan, &f.AmountGreaterThan},
	}

	for _, a := range amounts {
		if strings.TrimSpace(a.value) == "" {
			continue
		}
		val, err := ParseAmount(a.value)
		if err != nil {
			return ExpenseFilter{}, fmt.Errorf("%w: %s: %s", ErrInvalidInput, a.name, err.Error())
		}
		*a.dest = &val
	}

	dates := []struct {
		name  string
		value string
		dest  **expense.Date
	}{
		{"date_from", in.DateFrom, &f.DateFrom},
		{"date_to", in.DateTo, &f.DateTo},
	}

	for _, d := range dates {
		if strings.TrimSpace(d.value) == "" {
			continue
		}
		val, err := expense.ParseDate(strings.TrimSpace(d.value))
		if err != nil {
			return ExpenseFilter{}, fmt.Errorf("%w: %s: %s", ErrInvalidInput, d.name, err.Error())
		}
		*d.dest = &val
	}

	sort, err := ParseSort(in.Sort)
	if err != nil {
		return ExpenseFilter{}, fmt.Errorf("%w: sort: %s", ErrInvalidInput, err.Error())
	}
	f.Sort = sort

	return f, nil
}

// ToInput renders a filter back into editable text.
func ToInput(f ExpenseFilter) Input {
	in := Input{
		Title:    f.Title,
		Category: f.Category,
		Sort:     f.Sort.String(),
	}

	if f.AmountMin != nil {
		in.AmountMin = f.AmountMin.String()
	}
	if f.AmountMax != nil {
		in.AmountMax = f.AmountMax.String()
	}
	if f.AmountGreaterThan != nil {
		in.AmountGreaterThan = f.AmountGreaterThan.String()
	}
	if f.DateFrom != nil {
		in.DateFrom = f.DateFrom.String()
	}
	if f.DateTo != nil {
		in.DateTo = f.DateTo.String()
	}

	return in
}
