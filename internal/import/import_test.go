package importutil

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/form"
	"github.com/GustavoCaso/expensedesk/internal/testutil"
)

func TestImport(t *testing.T) {
	fake := testutil.NewExpenseAPI(t)
	client, err := api.New(fake.URL, fake.Client(), testutil.TestLogger(t))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	csvData := `ID,Date,Title,Category,Amount
7,2024-01-01,Coffee,Food,150.00
8,2024-01-02,Refund,Misc,-3.00
9,2024-01-03,Mystery,,10
10,2024-01-04,Bus,Transport,2.50
`

	result, err := Import(context.Background(), "expenses.csv", strings.NewReader(csvData), client, nil, testutil.TestLogger(t))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if len(result.Created) != 2 {
		t.Fatalf("expected 2 created expenses, got %v", result.Created)
	}

	stored, ok := fake.Stored(t, result.Created[1])
	if !ok || stored.Title != "Bus" || stored.Amount.StringFixed(2) != "2.50" {
		t.Errorf("unexpected stored expense %+v (found=%v)", stored, ok)
	}

	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", result.Errors)
	}

	var serverErr *api.ServerValidationError
	if !errors.As(result.Errors[0], &serverErr) || serverErr.Message != "Amount cannot be negative" {
		t.Errorf("expected the server to reject the refund, got %v", result.Errors[0])
	}

	var localErr *form.LocalValidationError
	if !errors.As(result.Errors[1], &localErr) {
		t.Errorf("expected a local validation error for the missing category, got %v", result.Errors[1])
	}

	if result.Summary() != "2 expenses imported, 2 rows skipped" {
		t.Errorf("unexpected summary %q", result.Summary())
	}
}

func TestImportUnusableFile(t *testing.T) {
	fake := testutil.NewExpenseAPI(t)
	client, err := api.New(fake.URL, fake.Client(), testutil.TestLogger(t))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_, err = Import(context.Background(), "expenses.csv", strings.NewReader("title,category\nCoffee,Food\n"), client, nil, testutil.TestLogger(t))
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if len(fake.Requests()) != 0 {
		t.Errorf("expected no requests, got %v", fake.Requests())
	}
}
