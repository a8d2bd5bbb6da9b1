// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// connectionFlags select the photo server. Defaults come from the loaded config.
func connectionFlags(r *Runner) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "url",
			Usage:   "Immich server URL",
			Value:   r.config.Immich.URL,
			Sources: cli.EnvVars("IMMICH_URL"),
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Immich API key",
			Value:   r.config.Immich.APIKey,
			Sources: cli.EnvVars("IMMICH_API_KEY"),
		},
	}
}

func albumsFileFlag(r *Runner) cli.Flag {
	return &cli.StringFlag{
		Name:    "albums",
		Aliases: []string{"a"},
		Usage:   "Path to the album definitions file (.json, .yaml or .yml)",
		Value:   r.config.Sync.AlbumsFile,
		Sources: cli.EnvVars("CONFIG_FILE"),
	}
}

func flags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// syncCommand reconciles every defined album, once or on a schedule
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Reconcile album membership with the album definitions",
		Flags: flags(connectionFlags(r), []cli.Flag{
			albumsFileFlag(r),
			&cli.IntFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Minutes between passes; 0 runs once",
				Value:   r.config.Sync.IntervalMinutes,
				Sources: cli.EnvVars("SCHEDULE_INTERVAL"),
			},
			&cli.BoolFlag{
				Name:  "continue-on-error",
				Usage: "Sync the remaining albums when one fails",
				Value: r.config.Sync.ContinueOnError,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Compute plans without changing any album",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Run an extra pass when the album file changes (scheduled mode only)",
				Value: r.config.Sync.Watch,
			},
			&cli.StringFlag{
				Name:    "status-addr",
				Usage:   "Serve /healthz and /status on this address (scheduled mode only)",
				Value:   r.config.Sync.StatusAddr,
				Sources: cli.EnvVars("STATUS_ADDR"),
			},
			&cli.StringFlag{
				Name:    "report",
				Aliases: []string{"o"},
				Usage:   "Write the last pass report to a file (.txt, .md, .csv or .json)",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record runs in the sync history database",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Show every search query as it runs",
			},
		}),
		Action: r.Sync,
	}
}

// planCommand is a dry-run sync that prints the report
func planCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Show the changes a sync would make without applying them",
		Flags: flags(connectionFlags(r), []cli.Flag{
			albumsFileFlag(r),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, markdown, csv or json",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "continue-on-error",
				Usage: "Plan the remaining albums when one fails",
				Value: true,
			},
		}),
		Action: r.Plan,
	}
}

func queriesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "queries",
		Usage: "Print the search queries each album expands to",
		Flags: flags(connectionFlags(r), []cli.Flag{
			albumsFileFlag(r),
			&cli.StringFlag{
				Name:  "album",
				Usage: "Only expand the album with this name",
			},
		}),
		Action: r.Queries,
	}
}

func validateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "validate",
		Usage:  "Check the album definitions file without contacting the server",
		Flags:  []cli.Flag{albumsFileFlag(r)},
		Action: r.Validate,
	}
}

func listFlags(r *Runner) []cli.Flag {
	return flags(connectionFlags(r), []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	})
}

func peopleCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "people",
		Usage:  "List named people and their IDs",
		Flags:  listFlags(r),
		Action: r.People,
	}
}

func tagsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tags",
		Usage:  "List tags and their IDs",
		Flags:  listFlags(r),
		Action: r.Tags,
	}
}

func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "albums",
		Usage:  "List albums on the server",
		Flags:  listFlags(r),
		Action: r.Albums,
	}
}

// historyCommand reads past runs from the sync history database
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recorded sync runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of runs to list",
				Value:   10,
			},
			&cli.BoolFlag{
				Name:  "failed",
				Usage: "Only list runs with failed albums",
			},
		},
		Action: r.History,
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show one run with its album outcomes",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "sequence",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "delete",
				Usage: "Remove a run from the history",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "sequence",
					},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}

// setupCommand handles setup operations for the database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   r.configPathOrDefault(),
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a configuration file with the default settings",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   r.configPathOrDefault(),
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// apiCommand handles direct API calls for debugging
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct authenticated calls to the Immich API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the Immich API, prints the response",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: flags(connectionFlags(r), []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				}),
				Action: r.APIGet,
			},
		},
	}
}
