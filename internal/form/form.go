// Package form holds the create/edit form and turns it into an API payload.
package form

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expensedesk/internal/expense"
)

const missingFieldsMessage = "Please fill all fields"

// LocalValidationError is raised before anything is sent to the API.
type LocalValidationError struct {
	Message string
	Fields  []string
}

func (e *LocalValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

// Form is the raw user input of the create/edit form.
type Form struct {
	Title     string
	Amount    string
	Category  string
	Date      string
	IsDeleted bool
}

// Blank is the form shown for a new expense.
func Blank(today expense.Date) Form {
	return Form{Date: today.String()}
}

// FromRecord pre-fills the form for editing.
func FromRecord(r expense.Record) Form {
	return Form{
		Title:     r.Title,
		Amount:    r.Amount.StringFixed(2),
		Category:  r.Category,
		Date:      r.Date.String(),
		IsDeleted: r.IsDeleted,
	}
}

func (f Form) Validate() error {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"title", f.Title},
		{"amount", f.Amount},
		{"category", f.Category},
		{"date", f.Date},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}

	if len(missing) > 0 {
		return &LocalValidationError{Message: missingFieldsMessage, Fields: missing}
	}

	return nil
}

// Payload validates the form and converts it. The amount sign is left to the
// server to judge.
func (f Form) Payload() (expense.Payload, error) {
	if err := f.Validate(); err != nil {
		return expense.Payload{}, err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))
	if err != nil {
		return expense.Payload{}, &LocalValidationError{
			Message: fmt.Sprintf("Invalid amount %q", f.Amount),
			Fields:  []string{"amount"},
		}
	}

	date, err := expense.ParseDate(strings.TrimSpace(f.Date))
	if err != nil {
		return expense.Payload{}, &LocalValidationError{
			Message: fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", f.Date),
			Fields:  []string{"date"},
		}
	}

	return expense.Payload{
		Title:     strings.TrimSpace(f.Title),
		Amount:    amount,
		Category:  strings.TrimSpace(f.Category),
		Date:      date,
		IsDeleted: f.IsDeleted,
	}, nil
}
