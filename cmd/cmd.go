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

func tokenFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "token",
		Usage: "Bearer access token (overrides the browser login flow)",
	}
}

// setupCommand initializes config and the history database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize config file and history database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// authCommand handles identity-provider operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Identity provider authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using the browser flow",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
		},
	}
}

// tracksCommand handles catalog operations
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "Track catalog operations",
		Commands: []*cli.Command{
			{
				Name:      "resolve",
				Usage:     "Resolve track identifiers to playable metadata",
				ArgsUsage: "<id> [id...]",
				Flags: []cli.Flag{
					configFlag(),
					tokenFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.TracksResolve,
			},
		},
	}
}

// playCommand starts a playback session
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "Resolve tracks and start a playback session",
		ArgsUsage: "<id> [id...]",
		Flags: []cli.Flag{
			configFlag(),
			tokenFlag(),
		},
		Action: r.PlayTracks,
	}
}

// historyCommand inspects the playback event journal
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Playback event journal",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent playback events",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of events to return",
						Value: 50,
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
				Action: r.HistoryList,
			},
		},
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, tracksCommand, playCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}
