package state

import (
	"github.com/GustavoCaso/expensedesk/internal/expense"
	"github.com/GustavoCaso/expensedesk/internal/filter"
	"github.com/GustavoCaso/expensedesk/internal/form"
	"github.com/GustavoCaso/expensedesk/internal/pager"
	"github.com/GustavoCaso/expensedesk/internal/result"
)

// Action is anything Reduce knows how to apply.
type Action interface {
	action()
}

type (
	// FilterChanged replaces the filter. It does not imply a fetch.
	FilterChanged struct{ Filter filter.ExpenseFilter }
	// Searched moves back to the first page.
	Searched struct{}
	// FiltersCleared resets the filter and moves back to the first page.
	FiltersCleared struct{}
	PageRequested  struct{ Page int }
	// PageSizeChanged with a size outside pager.AllowedSizes is ignored.
	PageSizeChanged struct{ Size int }

	FetchStarted   struct{ Seq uint64 }
	FetchSucceeded struct {
		Seq  uint64
		View result.View
	}
	FetchFailed struct {
		Seq uint64
		Err error
	}

	FormChanged   struct{ Form form.Form }
	EditStarted   struct{ Record expense.Record }
	EditCancelled struct{ Today expense.Date }
	// SubmitSucceeded resets the form. A create also goes back to page 1, an
	// update keeps the page and leaves edit mode.
	SubmitSucceeded struct{ Today expense.Date }

	// Failed reports a non-fetch error. Fallback is shown unless the error
	// carries a message meant for the user.
	Failed struct {
		Err      error
		Fallback string
	}
	NoticeDismissed struct{}
)

func (FilterChanged) action()   {}
func (Searched) action()        {}
func (FiltersCleared) action()  {}
func (PageRequested) action()   {}
func (PageSizeChanged) action() {}
func (FetchStarted) action()    {}
func (FetchSucceeded) action()  {}
func (FetchFailed) action()     {}
func (FormChanged) action()     {}
func (EditStarted) action()     {}
func (EditCancelled) action()   {}
func (SubmitSucceeded) action() {}
func (Failed) action()          {}
func (NoticeDismissed) action() {}

// Reduce returns the state that follows s after a.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case FilterChanged:
		s.Filter = a.Filter

	case Searched:
		s.Page.Current = pager.DefaultPage

	case FiltersCleared:
		s.Filter = s.Filter.Clear()
		s.Page.Current = pager.DefaultPage

	case PageRequested:
		s.Page, _ = pager.ChangePage(s.Page, a.Page, s.View.TotalPages)

	case PageSizeChanged:
		if next, err := pager.WithSize(s.Page, a.Size); err == nil {
			s.Page = next
		}

	case FetchStarted:
		s.Seq = max(s.Seq, a.Seq)
		s.Loading = true

	case FetchSucceeded:
		if a.Seq != s.Seq {
			return s
		}
		s.Loading = false
		s.View = a.View
		s.Page = pager.Clamp(s.Page, a.View.TotalPages)

	case FetchFailed:
		if a.Seq != s.Seq {
			return s
		}
		s.Loading = false
		s.View = result.Empty()
		s.Notice = Describe(a.Err, FetchErrorMessage)

	case FormChanged:
		s.Form = a.Form

	case EditStarted:
		s.Editing = a.Record.ID
		s.Form = form.FromRecord(a.Record)

	case EditCancelled:
		s.Editing = ""
		s.Form = form.Blank(a.Today)

	case SubmitSucceeded:
		if !s.IsEditing() {
			s.Page.Current = pager.DefaultPage
		}
		s.Editing = ""
		s.Form = form.Blank(a.Today)

	case Failed:
		s.Notice = Describe(a.Err, a.Fallback)

	case NoticeDismissed:
		s.Notice = ""
	}

	return s
}
