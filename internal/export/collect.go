package export

import (
	"context"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/expense"
	"github.com/GustavoCaso/expensedesk/internal/filter"
	"github.com/GustavoCaso/expensedesk/internal/logger"
	"github.com/GustavoCaso/expensedesk/internal/pager"
	"github.com/GustavoCaso/expensedesk/internal/query"
	"github.com/GustavoCaso/expensedesk/internal/result"
)

// Collect walks every page matching f, largest page size first, and returns
// all records in server order.
func Collect(ctx context.Context, client api.ExpenseAPI, f filter.ExpenseFilter, l *logger.Logger) ([]expense.Record, error) {
	page := pager.State{
		Current: pager.DefaultPage,
		Size:    pager.AllowedSizes[len(pager.AllowedSizes)-1],
	}

	records := []expense.Record{}
	for {
		resp, err := client.List(ctx, query.Build(f, page))
		if err != nil {
			return nil, err
		}

		view := result.Reconcile(resp)
		records = append(records, view.Items...)

		l.Debug("collected page", "page", page.Current, "total_pages", view.TotalPages, "items", len(view.Items))

		if resp.Kind == api.KindFlat || view.IsEmpty() || !pager.HasNext(page, view.TotalPages) {
			return records, nil
		}
		page.Current++
	}
}
