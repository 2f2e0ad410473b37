package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/nab23-dev/prompt-sci/internal/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "promptsci",
		Usage: "Prompt Scientist backend",
		Description: `Serves the Prompt Scientist API: accounts, prompt posts, the
		approved-post feed with reactions and live feed events.

		Settings come from app.yaml, the .env file and PROMPTSCI_* environment
		variables, e.g.:

		store.type => PROMPTSCI_STORE_TYPE=postgres
		`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to the yaml config file",
				EnvVars: []string{"PROMPTSCI_CONFIG"},
				Value:   "app.yaml",
			},
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "Path to the .env file",
				EnvVars: []string{"PROMPTSCI_ENV_FILE"},
				Value:   ".env",
			},
		},
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			rollbackCmd(),
			settingsCmd(),
			postsCmd(),
		},
		Action: func(ctx *cli.Context) error {
			return cli.ShowAppHelp(ctx)
		},
	}
}

// setup loads the configuration and builds the logger shared by every command.
func setup(ctx *cli.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(ctx.String("config"), ctx.String("env-file"))
	if err != nil {
		return nil, nil, err
	}

	var logger *zap.Logger
	if cfg.Log.Development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return cfg, logger, nil
}
