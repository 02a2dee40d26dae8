// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/soundtrack/internal/formatter"
	"github.com/desertthunder/soundtrack/internal/recommend"
	"github.com/urfave/cli/v3"
)

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// serveCommand starts the relay
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the OAuth relay and API proxy",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open /login in the default browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example config.toml",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the playlist history database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// historyCommand lists playlists created through the relay
func historyCommand(r *Runner) *cli.Command {
	formats := make([]string, 0, len(formatter.Formats))
	for _, f := range formatter.Formats {
		formats = append(formats, string(f))
	}

	return &cli.Command{
		Name:  "history",
		Usage: "List playlists created through the relay",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of playlists to show (0 for all)",
				Value:   20,
			},
			&cli.StringFlag{
				Name:  "id",
				Usage: "Show a single history entry",
			},
			&cli.StringFlag{
				Name:  "user",
				Usage: "Only show playlists owned by this Spotify user ID",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: " + strings.Join(formats, ", "),
				Value:   string(formatter.FormatText),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the export to a file instead of stdout",
			},
		},
		Action: r.History,
	}
}

// presetsCommand prints the recommendation parameters built for a mood and time of day
func presetsCommand(r *Runner) *cli.Command {
	moods := make([]string, 0, len(recommend.Moods))
	for _, m := range recommend.Moods {
		moods = append(moods, string(m))
	}
	times := make([]string, 0, len(recommend.TimesOfDay))
	for _, t := range recommend.TimesOfDay {
		times = append(times, string(t))
	}

	return &cli.Command{
		Name:  "presets",
		Usage: "Show recommendation parameters for moods and times of day",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mood",
				Aliases: []string{"m"},
				Usage:   "Mood: " + strings.Join(moods, ", ") + " (all when empty)",
			},
			&cli.StringFlag{
				Name:    "time",
				Aliases: []string{"t"},
				Usage:   "Time of day: " + strings.Join(times, ", "),
				Value:   string(recommend.Afternoon),
			},
			&cli.StringFlag{
				Name:  "market",
				Usage: "Market to include in the query string",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Presets,
	}
}
