package cli

import (
	"context"
	"flag"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/config"
	"github.com/GustavoCaso/expensedesk/internal/logger"
)

type Command interface {
	SetFlags(fset *flag.FlagSet)
	Description() string
	Run(ctx context.Context, client api.ExpenseAPI, conf *config.Config, logger *logger.Logger) error
}
