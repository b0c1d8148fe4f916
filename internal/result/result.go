// Package result turns an API list response into what the list view shows.
package result

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/expense"
)

// View is replaced wholesale after every fetch.
type View struct {
	Items      []expense.Record
	TotalPages int
	TotalCount int
	TotalSum   decimal.Decimal
}

// Empty is the view shown while nothing was fetched or the last fetch failed.
func Empty() View {
	return View{
		Items:    []expense.Record{},
		TotalSum: decimal.Zero,
	}
}

// Reconcile normalizes both response shapes into a View. Missing sections of
// a paged response default to zero.
func Reconcile(resp api.ListResponse) View {
	view := Empty()

	switch resp.Kind {
	case api.KindFlat:
		if len(resp.Records) > 0 {
			view.Items = resp.Records
			view.TotalPages = 1
		}
		view.TotalCount = len(view.Items)
		view.TotalSum = expense.Sum(view.Items)
	default:
		if resp.Expenses != nil {
			view.Items = resp.Expenses
		}
		if resp.Pagination != nil {
			view.TotalPages = max(resp.Pagination.TotalPages, 0)
			view.TotalCount = max(resp.Pagination.TotalCount, 0)
		}
		if resp.Summary != nil {
			view.TotalSum = resp.Summary.TotalSum
		}
	}

	return view
}

// Showing renders the "Showing N of M expenses" line.
func (v View) Showing() string {
	return fmt.Sprintf("Showing %d of %d expenses", len(v.Items), v.TotalCount)
}

func (v View) IsEmpty() bool {
	return len(v.Items) == 0
}
