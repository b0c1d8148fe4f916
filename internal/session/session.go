// Package session drives the expense list state against the remote API one
// call at a time. Every user-visible failure goes through a Notifier.
package session

import (
	"context"
	"time"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/expense"
	"github.com/GustavoCaso/expensedesk/internal/filter"
	"github.com/GustavoCaso/expensedesk/internal/form"
	"github.com/GustavoCaso/expensedesk/internal/logger"
	"github.com/GustavoCaso/expensedesk/internal/result"
	"github.com/GustavoCaso/expensedesk/internal/state"
)

// Notifier shows an error message to the user.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) {
	f(message)
}

type Session struct {
	client   api.ExpenseAPI
	notifier Notifier
	logger   *logger.Logger
	now      func() time.Time

	state state.State
}

type Option func(*Session)

// WithClock replaces time.Now, used to pick today's date for blank forms.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithPageSize starts the session with a page size other than the default.
func WithPageSize(size int) Option {
	return func(s *Session) {
		s.state = state.Reduce(s.state, state.PageSizeChanged{Size: size})
	}
}

func New(client api.ExpenseAPI, notifier Notifier, l *logger.Logger, opts ...Option) *Session {
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}

	s := &Session{
		client:   client,
		notifier: notifier,
		logger:   l.With("component", "session"),
		now:      time.Now,
	}
	s.state = state.New(s.today())

	for _, opt := range opts {
		opt(s)
	}

	// the clock may have changed
	s.state.Form = form.Blank(s.today())

	return s
}

func (s *Session) State() state.State {
	return s.state
}

func (s *Session) today() expense.Date {
	return expense.Today(s.now())
}

func (s *Session) apply(a state.Action) {
	s.state = state.Reduce(s.state, a)
}

func (s *Session) fail(err error, fallback string) error {
	s.apply(state.Failed{Err: err, Fallback: fallback})
	s.logger.Warn("operation failed", "notice", s.state.Notice, "error", err)
	s.notifier.Notify(s.state.Notice)
	return err
}

// Refresh fetches the current page. When the reply moves the current page
// back inside the new page count, the new page is fetched too.
func (s *Session) Refresh(ctx context.Context) error {
	page := s.state.Page

	if err := s.fetch(ctx); err != nil {
		return err
	}

	if s.state.Page != page {
		s.logger.Debug("page clamped, fetching again", "from", page.Current, "to", s.state.Page.Current)
		return s.fetch(ctx)
	}

	return nil
}

func (s *Session) fetch(ctx context.Context) error {
	var f state.Fetch
	s.state, f = state.BeginFetch(s.state)

	resp, err := s.client.List(ctx, f.Query)
	if err != nil {
		s.apply(state.FetchFailed{Seq: f.Seq, Err: err})
		s.logger.Error("failed to fetch expenses", "seq", f.Seq, "query", f.Query.String(), "error", err)
		s.notifier.Notify(s.state.Notice)
		return err
	}

	view := result.Reconcile(resp)
	s.apply(state.FetchSucceeded{Seq: f.Seq, View: view})
	s.logger.Debug("fetched expenses",
		"seq", f.Seq,
		"kind", resp.Kind.String(),
		"items", len(view.Items),
		"total_count", view.TotalCount,
		"total_pages", view.TotalPages,
	)

	return nil
}

// Search applies f and fetches its first page.
func (s *Session) Search(ctx context.Context, f filter.ExpenseFilter) error {
	s.apply(state.FilterChanged{Filter: f})
	s.apply(state.Searched{})
	return s.Refresh(ctx)
}

func (s *Session) ClearFilters(ctx context.Context) error {
	s.apply(state.FiltersCleared{})
	return s.Refresh(ctx)
}

// ChangePage fetches page when it exists. Out of range pages are ignored and
// nothing is fetched.
func (s *Session) ChangePage(ctx context.Context, page int) error {
	before := s.state.Page
	s.apply(state.PageRequested{Page: page})
	if s.state.Page == before {
		return nil
	}
	return s.Refresh(ctx)
}

// SetPageSize switches page size and fetches the first page. Sizes outside
// pager.AllowedSizes are ignored.
func (s *Session) SetPageSize(ctx context.Context, size int) error {
	before := s.state.Page
	s.apply(state.PageSizeChanged{Size: size})
	if s.state.Page == before {
		return nil
	}
	return s.Refresh(ctx)
}

// StartEdit loads the record and switches the form to edit mode.
func (s *Session) StartEdit(ctx context.Context, id expense.ID) error {
	record, err := s.client.Get(ctx, id)
	if err != nil {
		return s.fail(err, "Error loading expense")
	}

	s.apply(state.EditStarted{Record: record})
	return nil
}

func (s *Session) CancelEdit() {
	s.apply(state.EditCancelled{Today: s.today()})
}

// Submit validates f locally, then creates it or updates the record being
// edited, then refreshes the list.
func (s *Session) Submit(ctx context.Context, f form.Form) error {
	s.apply(state.FormChanged{Form: f})

	payload, err := f.Payload()
	if err != nil {
		return s.fail(err, "")
	}

	var m api.Mutation
	if s.state.IsEditing() {
		m, err = s.client.Update(ctx, s.state.Editing, payload)
	} else {
		m, err = s.client.Create(ctx, payload)
	}
	if err != nil {
		return s.fail(err, state.SaveErrorMessage)
	}

	s.logger.Info("expense saved", "id", m.ID, "message", m.Message)
	s.apply(state.SubmitSucceeded{Today: s.today()})

	return s.Refresh(ctx)
}

// Delete removes id once confirm agrees. A nil confirm declines. It reports
// whether a delete was sent.
func (s *Session) Delete(ctx context.Context, id expense.ID, confirm func() bool) (bool, error) {
	if confirm == nil || !confirm() {
		s.logger.Debug("delete not confirmed", "id", id)
		return false, nil
	}

	m, err := s.client.Delete(ctx, id)
	if err != nil {
		return false, s.fail(err, state.DeleteErrorMessage)
	}

	s.logger.Info("expense deleted", "id", id, "message", m.Message)

	return true, s.Refresh(ctx)
}

func (s *Session) DismissNotice() {
	s.apply(state.NoticeDismissed{})
}
