package report

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/cli"
	"github.com/GustavoCaso/expensedesk/internal/config"
	"github.com/GustavoCaso/expensedesk/internal/expense"
	"github.com/GustavoCaso/expensedesk/internal/export"
	"github.com/GustavoCaso/expensedesk/internal/filter"
	"github.com/GustavoCaso/expensedesk/internal/logger"
	internalReport "github.com/GustavoCaso/expensedesk/internal/report"
	"github.com/GustavoCaso/expensedesk/internal/util"
)

// content holds our static content.
//
//go:embed templates/*
var content embed.FS

type reportCommand struct {
	out io.Writer
	now func() time.Time

	month   int
	year    int
	verbose bool
}

func NewCommand() cli.Command {
	return newCommand(os.Stdout, time.Now)
}

func newCommand(out io.Writer, now func() time.Time) *reportCommand {
	return &reportCommand{out: out, now: now}
}

func (c *reportCommand) Description() string {
	return "Displays the expenses information for selected date ranges"
}

func (c *reportCommand) SetFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.month, "month", -1, "what month to use for generating report")
	fs.IntVar(&c.year, "year", -1, "what year to use for generating report")
	fs.BoolVar(&c.verbose, "v", false, "show verbose report output")
}

func (c *reportCommand) Run(ctx context.Context, client api.ExpenseAPI, conf *config.Config, logger *logger.Logger) error {
	from, to, title, err := c.period()
	if err != nil {
		return err
	}

	f := filter.New()
	f.DateFrom, f.DateTo = &from, &to

	records, err := export.Collect(ctx, client, f, logger)
	if err != nil {
		return fmt.Errorf("unable to fetch expenses: %w", err)
	}

	r := internalReport.Generate(title, from, to, records)
	r.Verbose = c.verbose

	return renderTemplate(c.out, "report.tmpl", conf.Currency, r)
}

// period defaults to the previous month. -month 0 with -year reports the
// whole year.
func (c *reportCommand) period() (expense.Date, expense.Date, string, error) {
	now := c.now()

	switch {
	case c.month == -1 && c.year == -1:
		previous := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		return monthly(int(previous.Month()), previous.Year(), now)
	case c.month > 0:
		return monthly(c.month, c.year, now)
	case c.month <= 0 && c.year > 0:
		from, to := util.YearRange(c.year)
		return from, to, strconv.Itoa(c.year), nil
	default:
		return expense.Date{}, expense.Date{}, "", fmt.Errorf("invalid period: -month %d -year %d", c.month, c.year)
	}
}

func monthly(month, year int, now time.Time) (expense.Date, expense.Date, string, error) {
	from, to, err := util.MonthRange(month, year, now)
	if err != nil {
		return expense.Date{}, expense.Date{}, "", err
	}
	return from, to, fmt.Sprintf("%s %d", from.Month().String(), from.Year()), nil
}

func templateFuncs(currency string) template.FuncMap {
	return template.FuncMap{
		"formatMoney": func(amount decimal.Decimal) string {
			return cli.Money(amount, currency)
		},
		"colorOutput": util.ColorOutput,
	}
}

func renderTemplate(out io.Writer, templateName, currency string, value any) error {
	tmpl, err := content.ReadFile(path.Join("templates", templateName))
	if err != nil {
		return err
	}

	t, err := template.New(templateName).Funcs(templateFuncs(currency)).Parse(string(tmpl))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", templateName, err)
	}

	return t.Execute(out, value)
}
