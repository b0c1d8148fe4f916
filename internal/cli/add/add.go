package add

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/category"
	"github.com/GustavoCaso/expensedesk/internal/cli"
	"github.com/GustavoCaso/expensedesk/internal/config"
	"github.com/GustavoCaso/expensedesk/internal/expense"
	"github.com/GustavoCaso/expensedesk/internal/form"
	"github.com/GustavoCaso/expensedesk/internal/logger"
	"github.com/GustavoCaso/expensedesk/internal/session"
	"github.com/GustavoCaso/expensedesk/internal/util"
)

type addCommand struct {
	out  io.Writer
	now  func() time.Time
	form form.Form
}

func NewCommand() cli.Command {
	return newCommand(os.Stdout, time.Now)
}

func newCommand(out io.Writer, now func() time.Time) *addCommand {
	return &addCommand{out: out, now: now}
}

func (c *addCommand) Description() string {
	return "Create a new expense"
}

func (c *addCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.form.Title, "title", "", "expense title")
	fs.StringVar(&c.form.Amount, "amount", "", "expense amount, e.g. 12.50")
	fs.StringVar(&c.form.Category, "category", "", "expense category (guessed from the title with the configured categories when empty)")
	fs.StringVar(&c.form.Date, "date", "", "expense date YYYY-MM-DD (defaults to today)")
}

func (c *addCommand) Run(ctx context.Context, client api.ExpenseAPI, conf *config.Config, logger *logger.Logger) error {
	f := c.form
	if f.Date == "" {
		f.Date = expense.Today(c.now()).String()
	}

	if f.Category == "" && len(conf.Categories) > 0 {
		matcher, err := category.New(conf.Categories)
		if err != nil {
			return err
		}
		f.Category = matcher.Match(f.Title)
		if f.Category != "" {
			logger.Debug("category guessed from title", "title", f.Title, "category", f.Category)
		}
	}

	sess := session.New(client, cli.NewNotifier(c.out), logger, session.WithClock(c.now))
	if err := sess.Submit(ctx, f); err != nil {
		return err
	}

	// already validated by Submit
	p, _ := f.Payload()
	fmt.Fprintf(c.out, "%s %s (%s, %s) on %s\n",
		util.ColorOutput("Created", "green", "bold"),
		p.Title, p.Category, cli.Money(p.Amount, conf.Currency), p.Date)

	return nil
}
