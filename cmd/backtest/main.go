package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "backtest",
		Usage: "Replay 0DTE credit spread strategies over historical or synthetic data",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run one backtest",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the backtest config `FILE`",
						Required: true,
					},
				}, dataFlags()...),
				Action: runAction,
			},
			{
				Name:  "sweep",
				Usage: "Run several configs over the same data set in parallel",
				Flags: append([]cli.Flag{
					&cli.StringSliceFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to a backtest config; repeat for every run",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "parallelism",
						Aliases: []string{"p"},
						Usage:   "Maximum concurrent runs, 0 for unbounded",
						Value:   4,
					},
				}, dataFlags()...),
				Action: sweepAction,
			},
			{
				Name:  "schema",
				Usage: "Write the config JSON schema and a sample config",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output `DIR`",
						Value: "config",
					},
				},
				Action: schemaAction,
			},
		},
	}
}

func dataFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "bars",
			Usage: "Minute bars file (parquet or csv)",
		},
		&cli.StringFlag{
			Name:  "quotes",
			Usage: "Option quote snapshots file (parquet or csv)",
		},
		&cli.StringFlag{
			Name:  "events",
			Usage: "Optional economic calendar file",
		},
		&cli.BoolFlag{
			Name:  "synthetic",
			Usage: "Generate a seeded synthetic data set instead of reading files",
		},
		&cli.IntFlag{
			Name:  "days",
			Usage: "Sessions generated with --synthetic",
			Value: 5,
		},
		&cli.StringFlag{
			Name:    "results",
			Aliases: []string{"r"},
			Usage:   "Results `DIR`; empty skips writing results",
			Value:   "results",
		},
	}
}
