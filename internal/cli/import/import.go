package importcmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/category"
	"github.com/GustavoCaso/expensedesk/internal/cli"
	"github.com/GustavoCaso/expensedesk/internal/config"
	importUtil "github.com/GustavoCaso/expensedesk/internal/import"
	"github.com/GustavoCaso/expensedesk/internal/logger"
	"github.com/GustavoCaso/expensedesk/internal/state"
	"github.com/GustavoCaso/expensedesk/internal/util"
)

var errNoFile = errors.New("-f is required")

type importCommand struct {
	out io.Writer

	file string
}

func NewCommand() cli.Command {
	return newCommand(os.Stdout)
}

func newCommand(out io.Writer) *importCommand {
	return &importCommand{out: out}
}

func (c *importCommand) Description() string {
	return "Create expenses from a CSV, JSON or YAML file"
}

func (c *importCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.file, "f", "", "file to import, with title, amount, date and optional category columns")
}

func (c *importCommand) Run(ctx context.Context, client api.ExpenseAPI, conf *config.Config, logger *logger.Logger) error {
	if c.file == "" {
		return errNoFile
	}

	file, err := os.Open(c.file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.file, err)
	}
	defer file.Close()

	matcher, err := category.New(conf.Categories)
	if err != nil {
		return err
	}

	result, err := importUtil.Import(ctx, c.file, file, client, matcher, logger)
	if err != nil {
		return err
	}

	notifier := cli.NewNotifier(c.out)
	for _, rowErr := range result.Errors {
		var failed *importUtil.RowError
		if errors.As(rowErr, &failed) {
			notifier.Notify(fmt.Sprintf("row %d: %s", failed.Row, state.Describe(failed.Err, "")))
			continue
		}
		notifier.Notify(rowErr.Error())
	}

	color := "green"
	if len(result.Errors) > 0 {
		color = "yellow"
	}
	fmt.Fprintln(c.out, util.ColorOutput(result.Summary(), color))

	return nil
}
