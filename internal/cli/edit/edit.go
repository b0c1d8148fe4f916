package edit

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/cli"
	"github.com/GustavoCaso/expensedesk/internal/config"
	"github.com/GustavoCaso/expensedesk/internal/expense"
	"github.com/GustavoCaso/expensedesk/internal/logger"
	"github.com/GustavoCaso/expensedesk/internal/session"
	"github.com/GustavoCaso/expensedesk/internal/util"
)

type editCommand struct {
	out io.Writer

	id       string
	title    cli.OptionalString
	amount   cli.OptionalString
	category cli.OptionalString
	date     cli.OptionalString
}

func NewCommand() cli.Command {
	return newCommand(os.Stdout)
}

func newCommand(out io.Writer) *editCommand {
	return &editCommand{out: out}
}

func (c *editCommand) Description() string {
	return "Update an existing expense. Fields not given keep their current value"
}

func (c *editCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.id, "id", "", "id of the expense to update")
	fs.Var(&c.title, "title", "new title")
	fs.Var(&c.amount, "amount", "new amount")
	fs.Var(&c.category, "category", "new category")
	fs.Var(&c.date, "date", "new date YYYY-MM-DD")
}

func (c *editCommand) Run(ctx context.Context, client api.ExpenseAPI, conf *config.Config, logger *logger.Logger) error {
	id, err := expense.ParseID(c.id)
	if err != nil {
		return fmt.Errorf("-id is required: %w", err)
	}

	sess := session.New(client, cli.NewNotifier(c.out), logger)
	if err = sess.StartEdit(ctx, id); err != nil {
		return err
	}

	f := sess.State().Form
	for _, field := range []struct {
		flag *cli.OptionalString
		dest *string
	}{
		{&c.title, &f.Title},
		{&c.amount, &f.Amount},
		{&c.category, &f.Category},
		{&c.date, &f.Date},
	} {
		if field.flag.IsSet {
			*field.dest = field.flag.Value
		}
	}

	if err = sess.Submit(ctx, f); err != nil {
		return err
	}

	p, _ := f.Payload()
	fmt.Fprintf(c.out, "%s expense %s: %s (%s, %s) on %s\n",
		util.ColorOutput("Updated", "green", "bold"),
		id, p.Title, p.Category, cli.Money(p.Amount, conf.Currency), p.Date)

	return nil
}
