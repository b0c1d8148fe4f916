package list

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/cli"
	"github.com/GustavoCaso/expensedesk/internal/config"
	"github.com/GustavoCaso/expensedesk/internal/filter"
	"github.com/GustavoCaso/expensedesk/internal/logger"
	"github.com/GustavoCaso/expensedesk/internal/pager"
	"github.com/GustavoCaso/expensedesk/internal/session"
	"github.com/GustavoCaso/expensedesk/internal/state"
	"github.com/GustavoCaso/expensedesk/internal/util"
)

// content holds our static content.
//
//go:embed templates/*
var content embed.FS

var errPeriodWithDates = errors.New("-month and -year cannot be combined with -from or -to")

type listCommand struct {
	out io.Writer
	now func() time.Time

	input   filter.Input
	page    int
	size    int
	month   int
	year    int
	verbose bool
}

func NewCommand() cli.Command {
	return newCommand(os.Stdout, time.Now)
}

func newCommand(out io.Writer, now func() time.Time) *listCommand {
	return &listCommand{out: out, now: now}
}

func (c *listCommand) Description() string {
	return "List expenses, with optional filters, sorting and paging"
}

func (c *listCommand) SetFlags(fs *flag.FlagSet) {
	cli.FilterFlags(fs, &c.input)
	fs.IntVar(&c.month, "month", 0, "only expenses of this month (1-12)")
	fs.IntVar(&c.year, "year", 0, "only expenses of this year, or the year of -month")
	fs.IntVar(&c.page, "page", pager.DefaultPage, "page to show")
	fs.IntVar(&c.size, "size", 0, fmt.Sprintf("page size, one of %v (defaults to the configured page size)", pager.AllowedSizes))
	fs.BoolVar(&c.verbose, "v", false, "show expense ids")
}

func (c *listCommand) Run(ctx context.Context, client api.ExpenseAPI, conf *config.Config, logger *logger.Logger) error {
	f, err := filter.Parse(c.input)
	if err != nil {
		return err
	}

	if err = c.applyPeriod(&f); err != nil {
		return err
	}

	size := conf.PageSize
	if c.size != 0 {
		size = c.size
	}
	if _, err = pager.WithSize(pager.New(), size); err != nil {
		return err
	}

	sess := session.New(client, cli.NewNotifier(c.out), logger,
		session.WithClock(c.now),
		session.WithPageSize(size),
	)

	if err = sess.Search(ctx, f); err != nil {
		return err
	}

	if c.page != pager.DefaultPage {
		if err = sess.ChangePage(ctx, c.page); err != nil {
			return err
		}

		if current := sess.State().Page.Current; current != c.page {
			fmt.Fprintln(c.out, util.ColorOutput(
				fmt.Sprintf("Page %d does not exist, showing page %d", c.page, current), "yellow"))
		}
	}

	return renderTemplate(c.out, "list.tmpl", newListing(sess.State(), c.verbose, conf.Currency))
}

func (c *listCommand) applyPeriod(f *filter.ExpenseFilter) error {
	if c.month == 0 && c.year == 0 {
		return nil
	}

	if f.DateFrom != nil || f.DateTo != nil {
		return errPeriodWithDates
	}

	if c.month != 0 {
		from, to, err := util.MonthRange(c.month, c.year, c.now())
		if err != nil {
			return err
		}
		f.DateFrom, f.DateTo = &from, &to
		return nil
	}

	from, to := util.YearRange(c.year)
	f.DateFrom, f.DateTo = &from, &to
	return nil
}

type row struct {
	ID       string
	Date     string
	Title    string
	Category string
	Amount   string
}

type listing struct {
	Rows       []row
	Verbose    bool
	Showing    string
	Total      string
	Page       int
	TotalPages int
	Window     string
}

func newListing(s state.State, verbose bool, currency string) listing {
	rows := make([]row, len(s.View.Items))
	for i, e := range s.View.Items {
		rows[i] = row{
			ID:       e.ID.String(),
			Date:     e.Date.String(),
			Title:    e.Title,
			Category: e.Category,
			Amount:   cli.Money(e.Amount, currency),
		}
	}

	return listing{
		Rows:       rows,
		Verbose:    verbose,
		Showing:    s.View.Showing(),
		Total:      cli.Money(s.View.TotalSum, currency),
		Page:       s.Page.Current,
		TotalPages: s.View.TotalPages,
		Window:     pageWindow(s.Page.Current, s.View.TotalPages),
	}
}

// pageWindow renders the visible page numbers, the current one in brackets.
func pageWindow(current, totalPages int) string {
	pages := pager.Window(current, totalPages)

	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
		if p == current {
			parts[i] = "[" + parts[i] + "]"
		}
	}

	return strings.Join(parts, " ")
}

var templateFuncs = template.FuncMap{
	"colorOutput": util.ColorOutput,
}

func renderTemplate(out io.Writer, templateName string, value any) error {
	tmpl, err := content.ReadFile(path.Join("templates", templateName))
	if err != nil {
		return err
	}

	t, err := template.New(templateName).Funcs(templateFuncs).Parse(string(tmpl))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", templateName, err)
	}

	return t.Execute(out, value)
}
