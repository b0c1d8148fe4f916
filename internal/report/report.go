package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expensedesk/internal/expense"
)

const (
	percentageOfTotal = 100
	hoursInDay        = 24

	uncategorized = "uncategorized"
)

type Category struct {
	Name              string
	Amount            decimal.Decimal
	Records           []expense.Record
	PercentageOfTotal float64
	LastDate          expense.Date
	AvgAmount         decimal.Decimal
}

type Report struct {
	Title         string
	From          expense.Date
	To            expense.Date
	Total         decimal.Decimal
	Count         int
	AveragePerDay decimal.Decimal
	Categories    []Category
	Duplicates    []string
	Verbose       bool
}

// Generate summarizes records spent between from and to, both inclusive.
func Generate(title string, from, to expense.Date, records []expense.Record) Report {
	categories, duplicates, total := Categories(records)

	days := calendarDays(from.Time, to.Time) + 1
	averagePerDay := decimal.Zero
	if days > 0 {
		averagePerDay = total.Div(decimal.NewFromInt(int64(days)))
	}

	return Report{
		Title:         title,
		From:          from,
		To:            to,
		Total:         total,
		Count:         len(records),
		AveragePerDay: averagePerDay,
		Categories:    categories,
		Duplicates:    duplicates,
	}
}

// Categories groups records by category, largest amount first. Records with
// the same title, date and amount are reported as duplicates.
func Categories(records []expense.Record) ([]Category, []string, decimal.Decimal) {
	total := decimal.Zero
	byName := make(map[string]Category)
	seen := map[string]bool{}
	duplicates := []string{}

	for _, r := range records {
		key := fmt.Sprintf("%s|%s|%s", r.Title, r.Date, r.Amount.StringFixed(2))
		if seen[key] {
			duplicates = append(duplicates, fmt.Sprintf("%s on %s", r.Title, r.Date))
		}
		seen[key] = true

		total = total.Add(r.Amount)
		addToCategory(byName, r)
	}

	categories := make([]Category, 0, len(byName))
	for _, c := range byName {
		if total.IsPositive() {
			c.PercentageOfTotal = c.Amount.Mul(decimal.NewFromInt(percentageOfTotal)).Div(total).InexactFloat64()
		}

		c.LastDate = c.Records[0].Date
		for _, r := range c.Records {
			if r.Date.After(c.LastDate.Time) {
				c.LastDate = r.Date
			}
		}
		c.AvgAmount = c.Amount.Div(decimal.NewFromInt(int64(len(c.Records))))

		categories = append(categories, c)
	}

	sort.Slice(categories, func(i, j int) bool {
		if !categories[i].Amount.Equal(categories[j].Amount) {
			return categories[i].Amount.GreaterThan(categories[j].Amount)
		}
		return categories[i].Name < categories[j].Name
	})

	return categories, duplicates, total
}

func addToCategory(categories map[string]Category, r expense.Record) {
	name := r.Category
	if name == "" {
		name = uncategorized
	}

	c, ok := categories[name]
	if !ok {
		c = Category{Name: name, Amount: decimal.Zero}
	}
	c.Amount = c.Amount.Add(r.Amount)
	c.Records = append(c.Records, r)
	categories[name] = c
}

// calendarDays returns the calendar difference between times (t2 - t1) as days.
func calendarDays(t1, t2 time.Time) int {
	y, m, d := t2.Date()
	u2 := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	y, m, d = t1.In(t2.Location()).Date()
	u1 := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	days := u2.Sub(u1) / (hoursInDay * time.Hour)
	return int(days)
}
