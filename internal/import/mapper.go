package importutil

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/GustavoCaso/expensedesk/internal/category"
	"github.com/GustavoCaso/expensedesk/internal/expense"
	"github.com/GustavoCaso/expensedesk/internal/form"
)

const noColumn = -1

var columnAliases = map[string][]string{
	"title":    {"title", "description", "concept", "name"},
	"amount":   {"amount", "value", "price"},
	"category": {"category"},
	"date":     {"date", "day"},
}

// FieldMapping defines how file columns map to expense fields. Category is
// optional and noColumn when absent.
type FieldMapping struct {
	TitleColumn    int
	AmountColumn   int
	CategoryColumn int
	DateColumn     int
}

// RowError represents an error that occurred while mapping a specific row.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// MappedRow is a row ready to submit. Row counts from 1, the header included.
type MappedRow struct {
	Row  int
	Form form.Form
}

// MappingResult contains the results of applying a field mapping.
type MappingResult struct {
	Rows   []MappedRow
	Errors []error
}

// DetectMapping finds the expense columns by header name, case insensitive.
func DetectMapping(headers []string) (*FieldMapping, error) {
	find := func(field string) int {
		for _, alias := range columnAliases[field] {
			for i, h := range headers {
				if strings.EqualFold(strings.TrimSpace(h), alias) {
					return i
				}
			}
		}
		return noColumn
	}

	m := &FieldMapping{
		TitleColumn:    find("title"),
		AmountColumn:   find("amount"),
		CategoryColumn: find("category"),
		DateColumn:     find("date"),
	}

	return m, m.Validate(len(headers))
}

// Validate checks if the field mapping is valid.
func (m *FieldMapping) Validate(headerCount int) error {
	var missing []string
	for name, column := range map[string]int{"title": m.TitleColumn, "amount": m.AmountColumn, "date": m.DateColumn} {
		if column < 0 || column >= headerCount {
			missing = append(missing, name)
		}
	}
	if m.CategoryColumn >= headerCount {
		missing = append(missing, "category")
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ApplyMapping turns every row into a form. Empty categories are guessed
// with categoryMatcher when given.
func ApplyMapping(
	data *ParsedData,
	mapping *FieldMapping,
	categoryMatcher *category.Matcher,
) (*MappingResult, error) {
	if err := mapping.Validate(len(data.Headers)); err != nil {
		return nil, fmt.Errorf("invalid mapping: %w", err)
	}

	result := &MappingResult{
		Rows: make([]MappedRow, 0, len(data.Rows)),
	}

	for i, row := range data.Rows {
		// header is row 1
		line := i + 2

		f, err := mapRow(row, mapping, categoryMatcher)
		if err != nil {
			result.Errors = append(result.Errors, &RowError{Row: line, Err: err})
			continue
		}
		result.Rows = append(result.Rows, MappedRow{Row: line, Form: f})
	}

	return result, nil
}

func mapRow(row []string, mapping *FieldMapping, categoryMatcher *category.Matcher) (form.Form, error) {
	cell := func(column int) string {
		if column < 0 || column >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[column])
	}

	date, err := parseDate(cell(mapping.DateColumn))
	if err != nil {
		return form.Form{}, err
	}

	f := form.Form{
		Title:    cell(mapping.TitleColumn),
		Amount:   strings.ReplaceAll(cell(mapping.AmountColumn), ",", ""),
		Category: cell(mapping.CategoryColumn),
		Date:     date.String(),
	}

	if f.Category == "" && categoryMatcher != nil {
		f.Category = categoryMatcher.Match(f.Title)
	}

	return f, nil
}

var dateFormats = []string{
	expense.DateLayout,     // ISO format
	"02/01/2006",           // DD/MM/YYYY
	"2006-01-02T15:04:05Z", // ISO with time
}

// parseDate attempts each supported layout in order.
func parseDate(dateStr string) (expense.Date, error) {
	for _, layout := range dateFormats {
		if parsed, err := time.Parse(layout, dateStr); err == nil {
			return expense.NewDate(parsed.Year(), parsed.Month(), parsed.Day()), nil
		}
	}

	if dateStr == "" {
		return expense.Date{}, errors.New("missing date")
	}
	return expense.Date{}, fmt.Errorf("unable to parse date %q", dateStr)
}
