// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes the database and runs migrations
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize database and run migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.SetupDatabase,
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file operations",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Create a config.toml from the bundled template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path for the new config file",
						Value:   "config.toml",
					},
				},
				Action: r.ConfigInit,
			},
		},
	}
}

// serveCommand runs the web application
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the mood playlist web application",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the app in the default browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// moodCommand inspects mood resolution without touching the catalog
func moodCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "mood",
		Usage: "Mood resolution utilities",
		Commands: []*cli.Command{
			{
				Name:      "resolve",
				Usage:     "Resolve free text or an explicit mood to a mood label",
				ArgsUsage: "[text...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "mood",
						Aliases: []string{"m"},
						Usage:   "Explicit mood selection (wins over text)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "scores",
						Usage: "Show per-mood keyword scores",
					},
				},
				Action: r.MoodResolve,
			},
			{
				Name:   "profiles",
				Usage:  "List moods and their audio feature targets",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.MoodProfiles,
			},
		},
	}
}
