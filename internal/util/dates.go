package util

import (
	"fmt"
	"time"

	"github.com/GustavoCaso/expensedesk/internal/expense"
)

// MonthRange returns the first and last day of month. A zero year means the
// year of now.
func MonthRange(month int, year int, now time.Time) (expense.Date, expense.Date, error) {
	if month < 1 || month > 12 {
		return expense.Date{}, expense.Date{}, fmt.Errorf("invalid month %d: must be between 1 and 12", month)
	}

	if year <= 0 {
		year = now.Year()
	}

	first := expense.NewDate(year, time.Month(month), 1)
	last := expense.Date{Time: first.AddDate(0, 1, -1)}

	return first, last, nil
}

// YearRange returns January 1st and December 31st of year.
func YearRange(year int) (expense.Date, expense.Date) {
	return expense.NewDate(year, time.January, 1), expense.NewDate(year, time.December, 31)
}
