package export

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/cli"
	"github.com/GustavoCaso/expensedesk/internal/config"
	internalExport "github.com/GustavoCaso/expensedesk/internal/export"
	"github.com/GustavoCaso/expensedesk/internal/filter"
	"github.com/GustavoCaso/expensedesk/internal/logger"
)

type exportCommand struct {
	out io.Writer

	input  filter.Input
	format string
	output string
}

func NewCommand() cli.Command {
	return newCommand(os.Stdout)
}

func newCommand(out io.Writer) *exportCommand {
	return &exportCommand{out: out}
}

func (c *exportCommand) Description() string {
	return "Export every expense matching the filters"
}

func (c *exportCommand) SetFlags(fs *flag.FlagSet) {
	cli.FilterFlags(fs, &c.input)
	fs.StringVar(&c.format, "format", string(internalExport.FormatCSV),
		fmt.Sprintf("output format, one of %v", internalExport.Formats))
	fs.StringVar(&c.output, "o", "", "file to write to (defaults to stdout)")
}

func (c *exportCommand) Run(ctx context.Context, client api.ExpenseAPI, _ *config.Config, logger *logger.Logger) error {
	format, err := internalExport.ParseFormat(c.format)
	if err != nil {
		return err
	}

	f, err := filter.Parse(c.input)
	if err != nil {
		return err
	}

	records, err := internalExport.Collect(ctx, client, f, logger)
	if err != nil {
		return fmt.Errorf("unable to fetch expenses: %w", err)
	}

	out := c.out
	if c.output != "" {
		file, createErr := os.Create(c.output)
		if createErr != nil {
			return fmt.Errorf("failed to create %s: %w", c.output, createErr)
		}
		defer file.Close()
		out = file
	}

	if err = internalExport.Write(out, format, records); err != nil {
		return err
	}

	logger.Info("expenses exported", "count", len(records), "format", format, "output", c.output)

	return nil
}
