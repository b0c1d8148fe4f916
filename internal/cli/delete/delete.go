package deletecmd

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

const question = "Are you sure you want to delete this expense?"

type deleteCommand struct {
	in  io.Reader
	out io.Writer

	id  string
	yes bool
}

func NewCommand() cli.Command {
	return newCommand(os.Stdin, os.Stdout)
}

func newCommand(in io.Reader, out io.Writer) *deleteCommand {
	return &deleteCommand{in: in, out: out}
}

func (c *deleteCommand) Description() string {
	return "Delete an expense"
}

func (c *deleteCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.id, "id", "", "id of the expense to delete")
	fs.BoolVar(&c.yes, "y", false, "do not ask for confirmation")
}

func (c *deleteCommand) Run(ctx context.Context, client api.ExpenseAPI, _ *config.Config, logger *logger.Logger) error {
	id, err := expense.ParseID(c.id)
	if err != nil {
		return fmt.Errorf("-id is required: %w", err)
	}

	confirm := cli.Confirm(c.in, c.out, question)
	if c.yes {
		confirm = func() bool { return true }
	}

	sess := session.New(client, cli.NewNotifier(c.out), logger)
	deleted, err := sess.Delete(ctx, id, confirm)
	if err != nil {
		return err
	}

	if !deleted {
		fmt.Fprintln(c.out, "Nothing deleted")
		return nil
	}

	fmt.Fprintf(c.out, "%s expense %s\n", util.ColorOutput("Deleted", "red", "bold"), id)
	return nil
}
