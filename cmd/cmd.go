// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize the configured store (migrations for sqlite, schema for postgres)",
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write a default config file to the --config path",
				Action: r.SetupConfig,
			},
		},
	}
}

// moviesCommand handles catalog operations on single movies
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Catalog operations",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List every movie in the catalog",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.MoviesList,
			},
			{
				Name:  "show",
				Usage: "Show a single movie by title",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MoviesShow,
			},
			{
				Name:  "add",
				Usage: "Add a movie to the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Movie title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "date",
						Usage:    "Release date (YYYY-MM-DD)",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "phase",
						Usage:    "Phase number",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "director",
						Usage:    "Director",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "runtime",
						Usage:    "Running time in minutes",
						Required: true,
					},
					&cli.FloatFlag{
						Name:     "rating",
						Usage:    "IMDb rating",
						Required: true,
					},
				},
				Action: r.MoviesAdd,
			},
			{
				Name:  "update",
				Usage: "Change a single field of a movie",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "field",
						Aliases:  []string{"f"},
						Usage:    "Field to change (title, releaseDate, phase, director, runningTimeMin, imdbRating)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "value",
						Aliases:  []string{"v"},
						Usage:    "New value",
						Required: true,
					},
				},
				Action: r.MoviesUpdate,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a movie by title",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Action: r.MoviesRemove,
			},
			{
				Name:  "average",
				Usage: "Average rating of a phase",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "phase",
						Usage:    "Phase number",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MoviesAverage,
			},
			{
				Name:  "clear",
				Usage: "Remove every movie from the catalog",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Confirm removal of every movie",
					},
				},
				Action: r.MoviesClear,
			},
		},
	}
}

// importCommand handles batch imports
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Batch import movies",
		Commands: []*cli.Command{
			{
				Name:  "file",
				Usage: "Import a comma-separated batch file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Print a line for every imported record",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the summary as JSON",
					},
				},
				Action: r.ImportFile,
			},
			{
				Name:  "history",
				Usage: "List recorded batch imports",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of imports to return",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.ImportHistoryList,
			},
		},
	}
}

// exportCommand writes the catalog in one of the export formats
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the catalog (csv, md, txt, json, yaml)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (stdout when empty)",
			},
		},
		Action: r.Export,
	}
}

// serveCommand starts the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the catalog over a JSON HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (defaults to server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (defaults to server.port)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive catalog browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing the catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "File receiving log output while the TUI runs",
				Value: "./tmp/moviedb-tui.log",
			},
		},
		Action: r.TUI,
	}
}
