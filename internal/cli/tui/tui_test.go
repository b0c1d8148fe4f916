package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/config"
	"github.com/GustavoCaso/expensedesk/internal/expense"
	"github.com/GustavoCaso/expensedesk/internal/logger"
	"github.com/GustavoCaso/expensedesk/internal/state"
	"github.com/GustavoCaso/expensedesk/internal/testutil"
)

var now = time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)

func setup(t *testing.T, n int) (*testutil.ExpenseAPI, model) {
	t.Helper()

	fake := testutil.NewExpenseAPI(t)
	records := make([]expense.Record, n)
	for i := range records {
		records[i] = expense.Record{
			Title:    fmt.Sprintf("Expense %02d", i+1),
			Amount:   decimal.NewFromInt(int64(i + 1)),
			Category: "Misc",
			Date:     expense.NewDate(2024, time.January, i+1),
		}
	}
	fake.Seed(t, records...)

	client, err := api.New(fake.URL, fake.Client(), testutil.TestLogger(t))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	conf := &config.Config{Currency: "₹", PageSize: 5}
	m := initialModel(context.Background(), client, conf, testutil.TestLogger(t), now, 120, 40)

	return fake, drive(t, m, m.Init())
}

// drive runs cmd and feeds every message it produces back into the model
// until nothing is left to run.
func drive(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 50 {
			t.Fatal("too many commands, model does not settle")
		}

		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			return m
		default:
			updated, follow := m.Update(msg)
			m = updated.(model)
			queue = append(queue, follow)
		}
	}

	return m
}

func press(t *testing.T, m model, keys ...tea.KeyMsg) model {
	t.Helper()

	for _, k := range keys {
		updated, cmd := m.Update(k)
		m = drive(t, updated.(model), cmd)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewCommand(t *testing.T) {
	cmd := NewCommand()
	if cmd == nil {
		t.Error("NewCommand() returned nil")
	}
}

func TestDescription(t *testing.T) {
	cmd := NewCommand()
	desc := cmd.Description()
	if desc != "Interactive terminal user interface" {
		t.Errorf("Description() = %v, want %v", desc, "Interactive terminal user interface")
	}
}

func TestInitialFetch(t *testing.T) {
	fake, m := setup(t, 12)

	if m.state.Loading {
		t.Error("expected loading to be false after the first fetch")
	}
	if m.state.View.TotalCount != 12 {
		t.Errorf("expected 12 total expenses, got %d", m.state.View.TotalCount)
	}
	if m.state.View.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", m.state.View.TotalPages)
	}
	if m.table.Len() != 5 {
		t.Errorf("expected 5 rows, got %d", m.table.Len())
	}

	requests := fake.Requests()
	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d: %v", len(requests), requests)
	}
	if !strings.Contains(requests[0], "page=1") || !strings.Contains(requests[0], "page_size=5") {
		t.Errorf("expected first page of 5, got %s", requests[0])
	}
}

func TestPageNavigation(t *testing.T) {
	tests := []struct {
		name     string
		keys     []tea.KeyMsg
		expected int
		requests int
	}{
		{
			name:     "next with right arrow",
			keys:     []tea.KeyMsg{{Type: tea.KeyRight}},
			expected: 2,
			requests: 2,
		},
		{
			name:     "next with n",
			keys:     []tea.KeyMsg{runes("n"), runes("n")},
			expected: 3,
			requests: 3,
		},
		{
			name:     "past the last page is ignored",
			keys:     []tea.KeyMsg{runes("n"), runes("n"), runes("n")},
			expected: 3,
			requests: 3,
		},
		{
			name:     "before the first page is ignored",
			keys:     []tea.KeyMsg{{Type: tea.KeyLeft}},
			expected: 1,
			requests: 1,
		},
		{
			name:     "back with p",
			keys:     []tea.KeyMsg{runes("n"), runes("p")},
			expected: 1,
			requests: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, m := setup(t, 12)
			m = press(t, m, tt.keys...)

			if m.state.Page.Current != tt.expected {
				t.Errorf("expected page %d, got %d", tt.expected, m.state.Page.Current)
			}
			if got := len(fake.Requests()); got != tt.requests {
				t.Errorf("expected %d requests, got %d", tt.requests, got)
			}
		})
	}
}

func TestPageSizeKeys(t *testing.T) {
	_, m := setup(t, 12)

	m = press(t, m, runes("]"))
	if m.state.Page.Size != 10 {
		t.Errorf("expected page size 10, got %d", m.state.Page.Size)
	}
	if m.table.Len() != 10 {
		t.Errorf("expected 10 rows, got %d", m.table.Len())
	}

	m = press(t, m, runes("["), runes("["))
	if m.state.Page.Size != 5 {
		t.Errorf("expected page size to stay at the smallest size 5, got %d", m.state.Page.Size)
	}
}

func TestStaleResponseIsDropped(t *testing.T) {
	_, m := setup(t, 12)
	latest := m.state.View

	stale := fetchedMsg{
		seq:  m.state.Seq - 1,
		view: state.New(expense.Today(now)).View,
	}
	updated, cmd := m.Update(stale)
	m = updated.(model)

	if cmd != nil {
		t.Error("expected no command for a stale response")
	}
	if m.state.View.TotalCount != latest.TotalCount {
		t.Errorf("expected view to keep %d expenses, got %d", latest.TotalCount, m.state.View.TotalCount)
	}
}

func TestTitleFilter(t *testing.T) {
	fake, m := setup(t, 12)

	m = press(t, m, runes("n"))
	m = press(t, m, runes("/"))
	if m.mode != modeTitleFilter {
		t.Fatalf("expected title filter mode, got %d", m.mode)
	}

	m = press(t, m, runes("Expense 1"), tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeBrowse {
		t.Errorf("expected browse mode after enter, got %d", m.mode)
	}
	if m.state.Filter.Title != "Expense 1" {
		t.Errorf("expected title filter %q, got %q", "Expense 1", m.state.Filter.Title)
	}
	if m.state.Page.Current != 1 {
		t.Errorf("expected search to go back to page 1, got %d", m.state.Page.Current)
	}
	// Expense 10 to 12
	if m.state.View.TotalCount != 3 {
		t.Errorf("expected 3 matching expenses, got %d", m.state.View.TotalCount)
	}

	requests := fake.Requests()
	last := requests[len(requests)-1]
	if !strings.Contains(last, "title=Expense+1") {
		t.Errorf("expected title in query, got %s", last)
	}

	m = press(t, m, runes("x"))
	if m.state.Filter.Title != "" {
		t.Errorf("expected filters to be cleared, got title %q", m.state.Filter.Title)
	}
	if m.state.View.TotalCount != 12 {
		t.Errorf("expected 12 expenses after clearing, got %d", m.state.View.TotalCount)
	}
}

func TestFilterInputEscape(t *testing.T) {
	fake, m := setup(t, 3)

	m = press(t, m, runes("c"), runes("Food"), tea.KeyMsg{Type: tea.KeyEsc})

	if m.mode != modeBrowse {
		t.Errorf("expected browse mode, got %d", m.mode)
	}
	if m.state.Filter.Category != "" {
		t.Errorf("expected no category filter, got %q", m.state.Filter.Category)
	}
	if got := len(fake.Requests()); got != 1 {
		t.Errorf("expected no extra request, got %d requests", got)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name     string
		confirm  tea.KeyMsg
		expected int
	}{
		{
			name:     "confirmed",
			confirm:  runes("y"),
			expected: 2,
		},
		{
			name:     "any other key cancels",
			confirm:  runes("n"),
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, m := setup(t, 3)

			m = press(t, m, runes("d"))
			if m.mode != modeConfirmDelete {
				t.Fatalf("expected confirm mode, got %d", m.mode)
			}
			if !strings.Contains(m.View(), deleteQuestion) {
				t.Error("expected the confirmation question in the view")
			}

			m = press(t, m, tt.confirm)

			if m.mode != modeBrowse {
				t.Errorf("expected browse mode, got %d", m.mode)
			}
			if m.state.View.TotalCount != tt.expected {
				t.Errorf("expected %d expenses, got %d", tt.expected, m.state.View.TotalCount)
			}
		})
	}
}

func TestDeleteFailure(t *testing.T) {
	_, m := setup(t, 1)

	updated, _ := m.Update(deletedMsg{id: "1", err: errors.New("boom")})
	m = updated.(model)

	if m.state.Notice != state.DeleteErrorMessage {
		t.Errorf("expected notice %q, got %q", state.DeleteErrorMessage, m.state.Notice)
	}
}

func TestFetchFailureNotice(t *testing.T) {
	client, err := api.New("http://127.0.0.1:1", nil, testutil.TestLogger(t))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	conf := &config.Config{Currency: "₹", PageSize: 5}
	m := initialModel(context.Background(), client, conf, testutil.TestLogger(t), now, 120, 40)
	m = drive(t, m, m.Init())

	if m.state.Notice != state.FetchErrorMessage {
		t.Errorf("expected notice %q, got %q", state.FetchErrorMessage, m.state.Notice)
	}
	if !strings.Contains(m.View(), state.FetchErrorMessage) {
		t.Error("expected the notice in the view")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state.Notice != "" {
		t.Errorf("expected notice to be dismissed, got %q", m.state.Notice)
	}
}

func TestView(t *testing.T) {
	_, m := setup(t, 12)

	view := m.View()
	for _, expected := range []string{
		"Expenses",
		"Expense 12",
		"Showing 5 of 12 expenses",
		"₹78.00",
		"Page 1 of 3",
		"5 per page",
	} {
		if !strings.Contains(view, expected) {
			t.Errorf("expected view to contain %q", expected)
		}
	}
}

func TestSetDimensions(t *testing.T) {
	_, m := setup(t, 2)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = updated.(model)

	if m.width != 80 {
		t.Errorf("expected width 80, got %d", m.width)
	}
	if m.height != 30 {
		t.Errorf("expected height 30, got %d", m.height)
	}
}

func TestQuit(t *testing.T) {
	_, m := setup(t, 1)

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected a quit message")
	}
}

func TestScreenSafeLogger(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		debug    bool
		expected string
	}{
		{name: "default", output: "", expected: "discard"},
		{name: "stderr", output: "stderr", expected: "discard"},
		{name: "stdout", output: "stdout", expected: "discard"},
		{name: "stderr while debugging", output: "stderr", debug: true, expected: debugLogFile},
		{name: "file is kept", output: "/tmp/expensedesk.log", expected: "/tmp/expensedesk.log"},
		{name: "discard is kept", output: "discard", debug: true, expected: "discard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := logger.Config{Level: logger.LevelWarn, Format: logger.FormatJSON, Output: tt.output}

			got := screenSafeLogger(conf, tt.debug)

			if got.Output != tt.expected {
				t.Errorf("expected output %q, got %q", tt.expected, got.Output)
			}
			if got.Level != conf.Level || got.Format != conf.Format {
				t.Errorf("expected level and format to be kept, got %+v", got)
			}
		})
	}
}
