package testutil

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	// import sqlite driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expensedesk/internal/expense"
)

//go:embed schema.sql
var schema string

const maxPageSize = 100

var sortColumns = map[string]string{
	"title":    "title",
	"amount":   "amount",
	"category": "category",
	"date":     "date",
}

// ExpenseAPI is an in-memory stand-in for the remote expense API. It keeps
// the remote filtering, sorting, pagination and soft delete behaviour.
type ExpenseAPI struct {
	*httptest.Server

	db         *sql.DB
	flat       bool
	noPastDate *expense.Date

	mu       sync.Mutex
	requests []string
}

type Option func(*ExpenseAPI)

// WithFlatList makes the list endpoint answer with a bare array of every
// matching record instead of the paged envelope.
func WithFlatList() Option {
	return func(a *ExpenseAPI) {
		a.flat = true
	}
}

// WithPastDateCheck rejects creates and updates dated before today.
func WithPastDateCheck(today expense.Date) Option {
	return func(a *ExpenseAPI) {
		a.noPastDate = &today
	}
}

func NewExpenseAPI(t *testing.T, opts ...Option) *ExpenseAPI {
	t.Helper()

	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// every connection to :memory: is a different database
	database.SetMaxOpenConns(1)

	if _, err = database.ExecContext(context.Background(), schema); err != nil {
		t.Fatalf("Failed to create expenses table: %v", err)
	}

	fake := &ExpenseAPI{db: database}
	for _, opt := range opts {
		opt(fake)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /expenses/{$}", fake.list)
	mux.HandleFunc("POST /expenses/{$}", fake.create)
	mux.HandleFunc("GET /expenses/{id}", fake.get)
	mux.HandleFunc("PUT /expenses/{id}", fake.update)
	mux.HandleFunc("DELETE /expenses/{id}", fake.remove)

	fake.Server = httptest.NewServer(fake.record(mux))

	t.Cleanup(func() {
		fake.Server.Close()
		if err := database.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return fake
}

// Seed stores records as they are, skipping validation.
func (a *ExpenseAPI) Seed(t *testing.T, records ...expense.Record) []expense.ID {
	t.Helper()

	ids := make([]expense.ID, 0, len(records))
	for _, r := range records {
		amount, _ := r.Amount.Float64()
		res, err := a.db.ExecContext(context.Background(),
			"INSERT INTO expenses (title, amount, category, date, is_deleted) VALUES (?, ?, ?, ?, ?)",
			r.Title, amount, r.Category, r.Date.String(), r.IsDeleted)
		if err != nil {
			t.Fatalf("Failed to seed expense: %v", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			t.Fatalf("Failed to read seeded id: %v", err)
		}
		ids = append(ids, expense.ID(strconv.FormatInt(id, 10)))
	}

	return ids
}

// Stored returns a row including soft deleted ones.
func (a *ExpenseAPI) Stored(t *testing.T, id expense.ID) (expense.Record, bool) {
	t.Helper()

	row := a.db.QueryRowContext(context.Background(),
		"SELECT id, title, amount, category, date, is_deleted FROM expenses WHERE id = ?", id.String())

	w, err := scanExpense(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return expense.Record{}, false
	}
	if err != nil {
		t.Fatalf("Failed to read expense %s: %v", id, err)
	}

	return w.record(), true
}

// Requests lists "METHOD /path?query" for every request served so far.
func (a *ExpenseAPI) Requests() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.requests...)
}

func (a *ExpenseAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		line := r.Method + " " + r.URL.Path
		if r.URL.RawQuery != "" {
			line += "?" + r.URL.RawQuery
		}
		a.mu.Lock()
		a.requests = append(a.requests, line)
		a.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

type wireExpense struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	Category  string  `json:"category"`
	Date      string  `json:"date"`
	IsDeleted bool    `json:"is_deleted"`
}

func (w wireExpense) record() expense.Record {
	r := expense.Record{
		ID:        expense.ID(strconv.FormatInt(w.ID, 10)),
		Title:     w.Title,
		Category:  w.Category,
		IsDeleted: w.IsDeleted,
	}
	r.Amount = decimal.NewFromFloat(w.Amount)
	r.Date, _ = expense.ParseDate(w.Date)
	return r
}

func scanExpense(scan func(dest ...any) error) (wireExpense, error) {
	var w wireExpense
	err := scan(&w.ID, &w.Title, &w.Amount, &w.Category, &w.Date, &w.IsDeleted)
	return w, err
}

type validationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeIssues(w http.ResponseWriter, issues []validationIssue) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string][]validationIssue{"detail": issues})
}

func (a *ExpenseAPI) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var issues []validationIssue
	intParam := func(name string, fallback, lo, hi int) int {
		raw := q.Get(name)
		if raw == "" {
			return fallback
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			issues = append(issues, validationIssue{
				Loc: []string{"query", name}, Msg: "Input should be a valid integer", Type: "int_parsing",
			})
			return fallback
		}
		if v < lo {
			issues = append(issues, validationIssue{
				Loc: []string{"query", name}, Msg: fmt.Sprintf("Input should be greater than or equal to %d", lo), Type: "greater_than_equal",
			})
		}
		if hi > 0 && v > hi {
			issues = append(issues, validationIssue{
				Loc: []string{"query", name}, Msg: fmt.Sprintf("Input should be less than or equal to %d", hi), Type: "less_than_equal",
			})
		}
		return v
	}

	page := intParam("page", 1, 1, 0)
	pageSize := intParam("page_size", 10, 1, maxPageSize)

	conditions := []string{"is_deleted = 0"}
	args := []any{}

	for _, name := range []string{"category", "title"} {
		if v := q.Get(name); v != "" {
			conditions = append(conditions, name+" LIKE ?")
			args = append(args, "%"+v+"%")
		}
	}

	for name, op := range map[string]string{"amount_min": ">=", "amount_max": "<=", "amount_greater_than": ">"} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			issues = append(issues, validationIssue{
				Loc: []string{"query", name}, Msg: "Input should be a valid number", Type: "float_parsing",
			})
			continue
		}
		conditions = append(conditions, "amount "+op+" ?")
		args = append(args, v)
	}

	if v := q.Get("date_from"); v != "" {
		conditions = append(conditions, "date >= ?")
		args = append(args, v)
	}
	if v := q.Get("date_to"); v != "" {
		conditions = append(conditions, "date <= ?")
		args = append(args, v)
	}

	if len(issues) > 0 {
		writeIssues(w, issues)
		return
	}

	order := "date DESC"
	if sortBy := q.Get("sort_by"); sortBy != "" {
		column, ok := sortColumns[sortBy]
		if !ok {
			column = "id"
		}
		direction := "ASC"
		if q.Get("sort_order") == "desc" {
			direction = "DESC"
		}
		order = column + " " + direction
	}

	where := strings.Join(conditions, " AND ")
	ctx := r.Context()

	var totalCount int
	var totalSum float64
	err := a.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM expenses WHERE "+where, args...,
	).Scan(&totalCount, &totalSum)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	statement := "SELECT id, title, amount, category, date, is_deleted FROM expenses WHERE " + where +
		" ORDER BY " + order + ", id ASC"
	rowArgs := args
	if !a.flat {
		statement += " LIMIT ? OFFSET ?"
		rowArgs = append(append([]any{}, args...), pageSize, (page-1)*pageSize)
	}

	expenses, err := a.query(ctx, statement, rowArgs...)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	if a.flat {
		writeJSON(w, http.StatusOK, expenses)
		return
	}

	totalPages := 1
	if totalCount > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"expenses": expenses,
		"pagination": map[string]any{
			"page":        page,
			"page_size":   pageSize,
			"total_count": totalCount,
			"total_pages": totalPages,
			"has_next":    page < totalPages,
			"has_prev":    page > 1,
		},
		"summary": map[string]any{
			"total_sum": totalSum,
			"count":     totalCount,
		},
	})
}

func (a *ExpenseAPI) query(ctx context.Context, statement string, args ...any) ([]wireExpense, error) {
	rows, err := a.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []wireExpense{}
	for rows.Next() {
		e, scanErr := scanExpense(rows.Scan)
		if scanErr != nil {
			return nil, scanErr
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

type expenseBody struct {
	Title     *string      `json:"title"`
	Amount    *json.Number `json:"amount"`
	Category  *string      `json:"category"`
	Date      *string      `json:"date"`
	IsDeleted *bool        `json:"is_deleted"`
}

// decodeBody validates a create or update body, writing the error reply
// itself when the body is rejected.
func (a *ExpenseAPI) decodeBody(w http.ResponseWriter, r *http.Request) (wireExpense, bool) {
	var body expenseBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeIssues(w, []validationIssue{{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"}})
		return wireExpense{}, false
	}

	var issues []validationIssue
	missing := func(name string) {
		issues = append(issues, validationIssue{Loc: []string{"body", name}, Msg: "Field required", Type: "missing"})
	}
	if body.Title == nil {
		missing("title")
	}
	if body.Amount == nil {
		missing("amount")
	}
	if body.Category == nil {
		missing("category")
	}
	if body.Date == nil {
		missing("date")
	}
	if body.IsDeleted == nil {
		missing("is_deleted")
	}
	if len(issues) > 0 {
		writeIssues(w, issues)
		return wireExpense{}, false
	}

	amount, err := body.Amount.Float64()
	if err != nil {
		writeIssues(w, []validationIssue{{Loc: []string{"body", "amount"}, Msg: "Input should be a valid number", Type: "float_parsing"}})
		return wireExpense{}, false
	}

	date, err := expense.ParseDate(*body.Date)
	if err != nil {
		writeIssues(w, []validationIssue{{Loc: []string{"body", "date"}, Msg: "Input should be a valid date", Type: "date_parsing"}})
		return wireExpense{}, false
	}

	if amount < 0 {
		writeDetail(w, http.StatusBadRequest, "Amount cannot be negative")
		return wireExpense{}, false
	}

	if a.noPastDate != nil && date.Before(a.noPastDate.Time) {
		writeDetail(w, http.StatusBadRequest, "Date cannot be in the past. Please select today or a future date.")
		return wireExpense{}, false
	}

	return wireExpense{
		Title:     *body.Title,
		Amount:    amount,
		Category:  *body.Category,
		Date:      date.String(),
		IsDeleted: *body.IsDeleted,
	}, true
}

func (a *ExpenseAPI) create(w http.ResponseWriter, r *http.Request) {
	e, ok := a.decodeBody(w, r)
	if !ok {
		return
	}

	res, err := a.db.ExecContext(r.Context(),
		"INSERT INTO expenses (title, amount, category, date, is_deleted) VALUES (?, ?, ?, ?, ?)",
		e.Title, e.Amount, e.Category, e.Date, e.IsDeleted)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Expense Created Successfully", "expense_id": id})
}

// live loads a non-deleted expense. It writes the error reply itself when
// the path id is invalid or the expense is missing.
func (a *ExpenseAPI) live(w http.ResponseWriter, r *http.Request, notFound string) (wireExpense, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeIssues(w, []validationIssue{{Loc: []string{"path", "expense_id"}, Msg: "Input should be a valid integer", Type: "int_parsing"}})
		return wireExpense{}, false
	}

	row := a.db.QueryRowContext(r.Context(),
		"SELECT id, title, amount, category, date, is_deleted FROM expenses WHERE id = ? AND is_deleted = 0", id)
	e, err := scanExpense(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		writeDetail(w, http.StatusNotFound, notFound)
		return wireExpense{}, false
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return wireExpense{}, false
	}

	return e, true
}

func (a *ExpenseAPI) get(w http.ResponseWriter, r *http.Request) {
	e, ok := a.live(w, r, "Expense ID Not Found!")
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, e)
}

func (a *ExpenseAPI) update(w http.ResponseWriter, r *http.Request) {
	changes, ok := a.decodeBody(w, r)
	if !ok {
		return
	}

	existing, ok := a.live(w, r, "Expense ID Not Found")
	if !ok {
		return
	}

	_, err := a.db.ExecContext(r.Context(),
		"UPDATE expenses SET title = ?, amount = ?, category = ?, date = ?, is_deleted = ? WHERE id = ?",
		changes.Title, changes.Amount, changes.Category, changes.Date, changes.IsDeleted, existing.ID)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Expense Updated Successfully", "Expense_ID": existing.ID})
}

func (a *ExpenseAPI) remove(w http.ResponseWriter, r *http.Request) {
	existing, ok := a.live(w, r, "Expense ID Not Found or Already DELETED")
	if !ok {
		return
	}

	_, err := a.db.ExecContext(r.Context(), "UPDATE expenses SET is_deleted = 1 WHERE id = ?", existing.ID)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Expense Deleted Successfully", "expense_id": existing.ID})
}
