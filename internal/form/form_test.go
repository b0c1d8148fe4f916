package form

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expensedesk/internal/expense"
)

func TestBlank(t *testing.T) {
	f := Blank(expense.NewDate(2024, time.March, 9))

	if f.Date != "2024-03-09" {
		t.Errorf("expected date 2024-03-09, got %q", f.Date)
	}
	if f.Title != "" || f.Amount != "" || f.Category != "" || f.IsDeleted {
		t.Errorf("expected empty fields, got %+v", f)
	}
}

func TestFromRecord(t *testing.T) {
	f := FromRecord(expense.Record{
		ID:       "3",
		Title:    "Coffee",
		Amount:   decimal.NewFromInt(150),
		Category: "Food",
		Date:     expense.NewDate(2024, time.January, 1),
	})

	expected := Form{Title: "Coffee", Amount: "150.00", Category: "Food", Date: "2024-01-01"}
	if f != expected {
		t.Errorf("expected %+v, got %+v", expected, f)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		form    Form
		missing []string
	}{
		{
			name: "complete",
			form: Form{Title: "Coffee", Amount: "150", Category: "Food", Date: "2024-01-01"},
		},
		{
			name:    "empty title",
			form:    Form{Amount: "150", Category: "Food", Date: "2024-01-01"},
			missing: []string{"title"},
		},
		{
			name:    "whitespace only",
			form:    Form{Title: "  ", Amount: "\t", Category: "Food", Date: "2024-01-01"},
			missing: []string{"title", "amount"},
		},
		{
			name:    "all empty",
			form:    Form{},
			missing: []string{"title", "amount", "category", "date"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()

			if tt.missing == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}

			var validationErr *LocalValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected LocalValidationError, got %T: %v", err, err)
			}
			if validationErr.Message != "Please fill all fields" {
				t.Errorf("unexpected message %q", validationErr.Message)
			}
			if !slices.Equal(validationErr.Fields, tt.missing) {
				t.Errorf("expected missing %v, got %v", tt.missing, validationErr.Fields)
			}
		})
	}
}

func TestPayload(t *testing.T) {
	p, err := Form{Title: " Coffee ", Amount: "150", Category: "Food", Date: "2024-01-01"}.Payload()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Title != "Coffee" || p.Category != "Food" {
		t.Errorf("unexpected payload %+v", p)
	}
	if !p.Amount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected amount 150, got %s", p.Amount)
	}
	if p.Date.String() != "2024-01-01" {
		t.Errorf("expected date 2024-01-01, got %s", p.Date)
	}
}

func TestPayloadNegativeAmountPassesThrough(t *testing.T) {
	p, err := Form{Title: "Refund", Amount: "-5.25", Category: "Misc", Date: "2024-01-01"}.Payload()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Amount.String() != "-5.25" {
		t.Errorf("expected -5.25, got %s", p.Amount)
	}
}

func TestPayloadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		form  Form
		field string
	}{
		{"amount", Form{Title: "a", Amount: "ten", Category: "b", Date: "2024-01-01"}, "amount"},
		{"date", Form{Title: "a", Amount: "10", Category: "b", Date: "01/01/2024"}, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.Payload()

			var validationErr *LocalValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected LocalValidationError, got %T: %v", err, err)
			}
			if !slices.Equal(validationErr.Fields, []string{tt.field}) {
				t.Errorf("expected field %s, got %v", tt.field, validationErr.Fields)
			}
		})
	}
}
