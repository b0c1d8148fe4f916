package tui

import (
	"github.com/charmbracelet/bubbles/table"

	"github.com/GustavoCaso/expensedesk/internal/cli"
	"github.com/GustavoCaso/expensedesk/internal/expense"
)

type wrapper struct {
	record   expense.Record
	currency string
}

func wrap(records []expense.Record, currency string) []wrapper {
	wrapped := make([]wrapper, len(records))
	for i, r := range records {
		wrapped[i] = wrapper{record: r, currency: currency}
	}
	return wrapped
}

func (w wrapper) ToRow() table.Row {
	return table.Row{
		w.record.ID.String(),
		w.record.Date.String(),
		w.record.Title,
		w.record.Category,
		cli.Money(w.record.Amount, w.currency),
	}
}
