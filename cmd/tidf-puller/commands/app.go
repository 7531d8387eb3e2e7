package commands

import (
	"github.com/urfave/cli/v3"
)

// NewApp builds the command tree. Running without a subcommand performs a download run.
func NewApp(version string) *cli.Command {
	return &cli.Command{
		Name:    "tidf-puller",
		Usage:   "Download yesterday's WhoisXML threat intelligence data feeds",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to configuration file (optional)",
				Value: "config.yaml",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to .env file (optional)",
				Value: ".env",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable coloured console output",
			},
		},
		Action: RunAction,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Download every configured feed for the reference date",
				Action: RunAction,
			},
			{
				Name:   "plan",
				Usage:  "Print the download jobs without fetching anything",
				Action: PlanAction,
			},
			{
				Name:  "history",
				Usage: "Show recorded runs from the journal",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to list",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "run",
						Usage: "Show the outcomes of one run ID",
					},
				},
				Action: HistoryAction,
			},
		},
	}
}
