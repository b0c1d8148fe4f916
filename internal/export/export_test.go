package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/expense"
	"github.com/GustavoCaso/expensedesk/internal/filter"
	"github.com/GustavoCaso/expensedesk/internal/testutil"
)

func sampleRecords() []expense.Record {
	return []expense.Record{
		{
			ID:       "1",
			Title:    "Coffee",
			Amount:   decimal.NewFromInt(150),
			Category: "Food",
			Date:     expense.NewDate(2024, time.January, 1),
		},
		{
			ID:       "2",
			Title:    "Taxi, airport",
			Amount:   decimal.RequireFromString("32.5"),
			Category: "Transport",
			Date:     expense.NewDate(2024, time.January, 2),
		},
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := CSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("CSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}

	expected := [][]string{
		{"ID", "Date", "Title", "Category", "Amount"},
		{"1", "2024-01-01", "Coffee", "Food", "150.00"},
		{"2", "2024-01-02", "Taxi, airport", "Transport", "32.50"},
	}

	if len(records) != len(expected) {
		t.Fatalf("expected %d rows, got %d", len(expected), len(records))
	}

	for i, row := range expected {
		for j, col := range row {
			if records[i][j] != col {
				t.Errorf("row %d column %d: expected %q, got %q", i, j, col, records[i][j])
			}
		}
	}
}

func TestCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := CSV(&buf, nil); err != nil {
		t.Fatalf("CSV failed: %v", err)
	}

	if buf.String() != "ID,Date,Title,Category,Amount\n" {
		t.Errorf("expected only the header, got %q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleRecords()); err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var rows []Row
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].Amount != "32.50" {
		t.Errorf("expected amount 32.50, got %s", rows[1].Amount)
	}
	if rows[0].Date != "2024-01-01" {
		t.Errorf("expected date 2024-01-01, got %s", rows[0].Date)
	}
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := YAML(&buf, sampleRecords()); err != nil {
		t.Fatalf("YAML failed: %v", err)
	}

	var rows []Row
	if err := yaml.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Title != "Coffee" || rows[0].Category != "Food" {
		t.Errorf("expected Coffee in Food, got %s in %s", rows[0].Title, rows[0].Category)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{input: "csv", expected: FormatCSV},
		{input: "json", expected: FormatJSON},
		{input: "yaml", expected: FormatYAML},
		{input: "xml", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func seed(t *testing.T, fake *testutil.ExpenseAPI, n int) {
	t.Helper()

	records := make([]expense.Record, n)
	for i := range records {
		records[i] = expense.Record{
			Title:    fmt.Sprintf("Expense %03d", i+1),
			Amount:   decimal.NewFromInt(int64(i + 1)),
			Category: "Misc",
			Date:     expense.Date{Time: expense.NewDate(2024, time.January, 1).AddDate(0, 0, i)},
		}
	}
	fake.Seed(t, records...)
}

func TestCollect(t *testing.T) {
	tests := []struct {
		name     string
		records  int
		opts     []testutil.Option
		requests int
	}{
		{name: "empty", records: 0, requests: 1},
		{name: "single page", records: 12, requests: 1},
		{name: "several pages", records: 120, requests: 3},
		{name: "flat list", records: 120, opts: []testutil.Option{testutil.WithFlatList()}, requests: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewExpenseAPI(t, tt.opts...)
			seed(t, fake, tt.records)

			client, err := api.New(fake.URL, fake.Client(), testutil.TestLogger(t))
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			records, err := Collect(context.Background(), client, filter.New(), testutil.TestLogger(t))
			if err != nil {
				t.Fatalf("Collect failed: %v", err)
			}

			if len(records) != tt.records {
				t.Errorf("expected %d records, got %d", tt.records, len(records))
			}

			requests := fake.Requests()
			if len(requests) != tt.requests {
				t.Errorf("expected %d requests, got %d: %v", tt.requests, len(requests), requests)
			}
			for _, r := range requests {
				if !strings.HasPrefix(r, "GET /expenses/") {
					t.Errorf("expected only list requests, got %s", r)
				}
			}
		})
	}
}

func TestCollectFiltered(t *testing.T) {
	fake := testutil.NewExpenseAPI(t)
	fake.Seed(t, sampleRecords()...)

	client, err := api.New(fake.URL, fake.Client(), testutil.TestLogger(t))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	f := filter.New()
	f.Category = "food"

	records, err := Collect(context.Background(), client, f, testutil.TestLogger(t))
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if len(records) != 1 || records[0].Title != "Coffee" {
		t.Errorf("expected only Coffee, got %v", records)
	}
}
