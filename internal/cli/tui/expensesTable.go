package tui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/GustavoCaso/expensedesk/internal/expense"
)

const (
	idColumnWidth   = 6
	dateColumnWidth = 12
)

type expensesTable struct {
	table    table.Model
	expenses []wrapper
}

func newExpensesTable(width, height int) expensesTable {
	t := table.New(
		table.WithColumns(createExpensesColumns(width)),
		table.WithFocused(true),
		table.WithHeight(max(height, 1)),
	)

	return expensesTable{
		table: t,
	}
}

func (e expensesTable) SetExpenses(expenses []wrapper) expensesTable {
	rows := make([]table.Row, len(expenses))
	for i, ex := range expenses {
		rows[i] = ex.ToRow()
	}

	t := e.table
	t.SetRows(rows)
	if t.Cursor() >= len(rows) {
		t.SetCursor(max(len(rows)-1, 0))
	}

	return expensesTable{
		table:    t,
		expenses: expenses,
	}
}

// Selected returns the record under the cursor.
func (e expensesTable) Selected() (expense.Record, bool) {
	cursor := e.table.Cursor()
	if cursor < 0 || cursor >= len(e.expenses) {
		return expense.Record{}, false
	}
	return e.expenses[cursor].record, true
}

func (e expensesTable) Len() int {
	return len(e.expenses)
}

func (e expensesTable) Update(msg tea.Msg) (expensesTable, tea.Cmd) {
	var cmd tea.Cmd
	e.table.Focus()
	e.table, cmd = e.table.Update(msg)
	return e, cmd
}

func (e expensesTable) UpdateDimensions(width, height int) expensesTable {
	t := e.table
	t.SetColumns(createExpensesColumns(width))
	t.SetWidth(width)
	t.SetHeight(max(height, 1))

	return expensesTable{
		table:    t,
		expenses: e.expenses,
	}
}

func (e expensesTable) View() string {
	return e.table.View()
}

func createExpensesColumns(width int) []table.Column {
	w := max((width-idColumnWidth-dateColumnWidth)/3, 8)

	return []table.Column{
		{Title: "ID", Width: idColumnWidth},
		{Title: "Date", Width: dateColumnWidth},
		{Title: "Title", Width: w},
		{Title: "Category", Width: w},
		{Title: "Amount", Width: w},
	}
}
