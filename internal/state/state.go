// Package state holds everything the expense list screen shows and the pure
// reducer that moves it from one snapshot to the next.
package state

import (
	"errors"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/expense"
	"github.com/GustavoCaso/expensedesk/internal/filter"
	"github.com/GustavoCaso/expensedesk/internal/form"
	"github.com/GustavoCaso/expensedesk/internal/pager"
	"github.com/GustavoCaso/expensedesk/internal/query"
	"github.com/GustavoCaso/expensedesk/internal/result"
)

const (
	FetchErrorMessage  = "Error fetching expenses. Make sure backend is running."
	SaveErrorMessage   = "Error saving expense"
	DeleteErrorMessage = "Error deleting expense"
)

// State is treated as a value. Reduce never mutates its input.
type State struct {
	Filter filter.ExpenseFilter
	Page   pager.State
	View   result.View
	Form   form.Form

	// Editing is the record being edited, empty while creating.
	Editing expense.ID

	// Seq is the latest fetch sequence number issued.
	Seq     uint64
	Loading bool
	Notice  string
}

func New(today expense.Date) State {
	return State{
		Filter: filter.New(),
		Page:   pager.New(),
		View:   result.Empty(),
		Form:   form.Blank(today),
	}
}

func (s State) IsEditing() bool {
	return s.Editing != ""
}

// Fetch is a list request to send, tagged with its sequence number.
type Fetch struct {
	Seq   uint64
	Query query.Descriptor
}

// BeginFetch issues the next sequence number and the query for the current
// filter and page.
func BeginFetch(s State) (State, Fetch) {
	s = Reduce(s, FetchStarted{Seq: s.Seq + 1})
	return s, Fetch{Seq: s.Seq, Query: query.Build(s.Filter, s.Page)}
}

// Describe turns an error into the notice shown to the user. Server and
// local validation messages are shown verbatim, anything else as fallback.
func Describe(err error, fallback string) string {
	var serverErr *api.ServerValidationError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}

	var localErr *form.LocalValidationError
	if errors.As(err, &localErr) {
		return localErr.Error()
	}

	if fallback == "" && err != nil {
		return err.Error()
	}

	return fallback
}
