package main

import (
	"github.com/urfave/cli/v3"
)

const (
	configFlag    = "config"
	storeFlag     = "store"
	storePathFlag = "store-path"
	logLevelFlag  = "log-level"
)

func profileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "profile",
		Aliases: []string{"p"},
		Usage:   "Job profile to price with (defaults to the last used profile)",
	}
}

func paramsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "params",
		Usage: "YAML file of job parameters, used instead of a profile",
	}
}

func RootCommand() *cli.Command {
	return &cli.Command{
		Name:            "invoicegen",
		Usage:           "Price 3D print jobs and export customer invoices",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  configFlag,
				Usage: "Config file (default $XDG_CONFIG_HOME/orca-invoice/config.yaml)",
			},
			&cli.StringFlag{
				Name:  storeFlag,
				Usage: "Settings backend: file, sqlite, redis or memory",
			},
			&cli.StringFlag{
				Name:  storePathFlag,
				Usage: "Settings file or database path",
			},
			&cli.StringFlag{
				Name:  logLevelFlag,
				Usage: "Log level: debug, info, warn or error",
			},
		},
		Commands: []*cli.Command{
			QuoteCommand(),
			ExportCommand(),
			ProfileCommand(),
			SettingsCommand(),
			ServeCommand(),
		},
	}
}
