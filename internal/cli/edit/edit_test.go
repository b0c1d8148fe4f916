package edit

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/config"
	"github.com/GustavoCaso/expensedesk/internal/expense"
	"github.com/GustavoCaso/expensedesk/internal/testutil"
)

func setup(t *testing.T) *testutil.ExpenseAPI {
	t.Helper()
	color.NoColor = true

	fake := testutil.NewExpenseAPI(t)
	fake.Seed(t, expense.Record{
		Title:    "Rent",
		Amount:   decimal.RequireFromString("900.5"),
		Category: "Home",
		Date:     expense.NewDate(2024, time.May, 1),
	})

	return fake
}

func run(t *testing.T, fake *testutil.ExpenseAPI, args ...string) (string, error) {
	t.Helper()

	client, err := api.New(fake.URL, fake.Client(), testutil.TestLogger(t))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	var out bytes.Buffer
	cmd := newCommand(&out)

	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	cmd.SetFlags(fs)
	if err = fs.Parse(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	err = cmd.Run(context.Background(), client, &config.Config{PageSize: 10, Currency: "₹"}, testutil.TestLogger(t))
	return out.String(), err
}

func TestSetFlags(t *testing.T) {
	cmd := NewCommand()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cmd.SetFlags(fs)

	for _, name := range []string{"id", "title", "amount", "category", "date"} {
		if fs.Lookup(name) == nil {
			t.Errorf("Expected flag %s to be registered", name)
		}
	}
}

func TestRunKeepsUnsetFields(t *testing.T) {
	fake := setup(t)

	out, err := run(t, fake, "-id", "1", "-amount", "950")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if out != "Updated expense 1: Rent (Home, ₹950.00) on 2024-05-01\n" {
		t.Errorf("unexpected output %q", out)
	}

	stored, _ := fake.Stored(t, "1")
	if stored.Title != "Rent" || stored.Category != "Home" || stored.Date.String() != "2024-05-01" {
		t.Errorf("expected untouched fields to be kept, got %+v", stored)
	}
	if !stored.Amount.Equal(decimal.NewFromInt(950)) {
		t.Errorf("expected amount 950, got %s", stored.Amount)
	}

	var puts int
	for _, r := range fake.Requests() {
		if strings.HasPrefix(r, "PUT /expenses/1") {
			puts++
		}
	}
	if puts != 1 {
		t.Errorf("expected one update, got %v", fake.Requests())
	}
}

func TestRunClearedFieldFailsLocally(t *testing.T) {
	fake := setup(t)

	out, err := run(t, fake, "-id", "1", "-title", "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if out != "Error: Please fill all fields: title\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRunErrors(t *testing.T) {
	fake := setup(t)

	if _, err := run(t, fake); err == nil {
		t.Error("expected error without -id")
	}

	out, err := run(t, fake, "-id", "99", "-title", "x")
	if err == nil {
		t.Fatal("expected error for missing expense")
	}
	if out != "Error: Expense ID Not Found!\n" {
		t.Errorf("unexpected output %q", out)
	}
}
