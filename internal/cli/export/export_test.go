package export

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/config"
	"github.com/GustavoCaso/expensedesk/internal/expense"
	"github.com/GustavoCaso/expensedesk/internal/testutil"
)

func setup(t *testing.T) api.ExpenseAPI {
	t.Helper()

	fake := testutil.NewExpenseAPI(t)
	fake.Seed(t,
		expense.Record{Title: "Coffee", Amount: decimal.NewFromInt(150), Category: "Food", Date: expense.NewDate(2024, time.January, 1)},
		expense.Record{Title: "Bus", Amount: decimal.RequireFromString("2.5"), Category: "Transport", Date: expense.NewDate(2024, time.January, 2)},
	)

	client, err := api.New(fake.URL, fake.Client(), testutil.TestLogger(t))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func run(t *testing.T, client api.ExpenseAPI, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newCommand(&out)

	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	cmd.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	err := cmd.Run(context.Background(), client, &config.Config{Currency: "₹"}, testutil.TestLogger(t))
	return out.String(), err
}

func TestExport(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "csv sorted by date",
			args:     []string{"-sort", "date:asc"},
			expected: "ID,Date,Title,Category,Amount\n1,2024-01-01,Coffee,Food,150.00\n2,2024-01-02,Bus,Transport,2.50\n",
		},
		{
			name:     "filtered",
			args:     []string{"-category", "trans"},
			expected: "ID,Date,Title,Category,Amount\n2,2024-01-02,Bus,Transport,2.50\n",
		},
		{
			name:     "yaml",
			args:     []string{"-format", "yaml", "-title", "coffee"},
			expected: "- id: \"1\"\n  date: \"2024-01-01\"\n  title: Coffee\n  category: Food\n  amount: \"150.00\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, setup(t), tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.expected {
				t.Errorf("expected:\n%q\ngot:\n%q", tt.expected, out)
			}
		})
	}
}

func TestExportJSON(t *testing.T) {
	out, err := run(t, setup(t), "-format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, `"title": "Coffee"`) || !strings.Contains(out, `"amount": "2.50"`) {
		t.Errorf("unexpected JSON output:\n%s", out)
	}
}

func TestExportToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "expenses.csv")

	out, err := run(t, setup(t), "-o", target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("expected nothing on stdout, got %q", out)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if !strings.HasPrefix(string(content), "ID,Date,Title,Category,Amount\n") {
		t.Errorf("expected CSV header, got %q", content)
	}
}

func TestExportErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown format", args: []string{"-format", "xml"}},
		{name: "invalid filter", args: []string{"-min", "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, setup(t), tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
