package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/cli"
	"github.com/GustavoCaso/expensedesk/internal/cli/add"
	deletecmd "github.com/GustavoCaso/expensedesk/internal/cli/delete"
	"github.com/GustavoCaso/expensedesk/internal/cli/edit"
	"github.com/GustavoCaso/expensedesk/internal/cli/export"
	importcmd "github.com/GustavoCaso/expensedesk/internal/cli/import"
	"github.com/GustavoCaso/expensedesk/internal/cli/list"
	"github.com/GustavoCaso/expensedesk/internal/cli/report"
	"github.com/GustavoCaso/expensedesk/internal/cli/tui"
	"github.com/GustavoCaso/expensedesk/internal/config"
	"github.com/GustavoCaso/expensedesk/internal/logger"
)

var configPath string

var subcommands = map[string]cli.Command{
	"list":   list.NewCommand(),
	"add":    add.NewCommand(),
	"edit":   edit.NewCommand(),
	"delete": deletecmd.NewCommand(),
	"export": export.NewCommand(),
	"import": importcmd.NewCommand(),
	"report": report.NewCommand(),
	"tui":    tui.NewCommand(),
}

var subcommandsFlagSets = map[string]*flag.FlagSet{}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("subcommand is required\n")
		printUsage()

		os.Exit(1)
	}

	for c, cLogic := range subcommands {
		fset := flag.NewFlagSet(c, flag.ExitOnError)
		fset.StringVar(&configPath, "c", "expensedesk.yaml", "Configuration file (.yaml or .toml)")

		cLogic.SetFlags(fset)

		subcommandsFlagSets[c] = fset
	}

	commandName := os.Args[1]
	command, ok := subcommands[commandName]
	if !ok {
		if strings.Contains(commandName, "help") {
			printHelp()

			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "unsupported command %s.\nUse 'help' command to print information about supported commands\n", commandName)
		os.Exit(1)
	}

	_ = subcommandsFlagSets[commandName].Parse(os.Args[2:])

	// a missing .env file is fine
	_ = godotenv.Load()

	conf, err := config.Parse(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse the configuration: %s\n", err.Error())
		os.Exit(1)
	}

	appLogger := logger.New(conf.Logger)

	client, err := api.New(conf.APIURL, nil, appLogger)
	if err != nil {
		appLogger.Fatal("Unable to create API client", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = command.Run(ctx, client, conf, appLogger); err != nil {
		appLogger.Error("Command failed", "command", commandName, "error", err.Error())
		stop()
		os.Exit(1)
	}
}

func printHelp() {
	printUsage()

	names := make([]string, 0, len(subcommands))
	for c := range subcommands {
		names = append(names, c)
	}
	sort.Strings(names)

	for _, c := range names {
		fmt.Printf("subcommand <%s>: %s\n", c, subcommands[c].Description())
		subcommandsFlagSets[c].PrintDefaults()
		fmt.Println()
	}
}

func printUsage() {
	fmt.Printf("usage: expensedesk <subcommand> [flags]\n\n")
}
