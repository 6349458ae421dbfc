// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "secrets.toml",
	}
}

// serveCommand launches the dashboard
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Launch the dashboard",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the dashboard in the default browser",
			},
		},
		Action: r.Serve,
	}
}

// checkCommand validates configuration and probes the REST endpoint
func checkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Validate configuration and probe every table the dashboard reads",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Print a plain report instead of the interactive view",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of probes to run at once",
				Value: 4,
			},
		},
		Action: r.Check,
	}
}

// initCommand writes a template configuration file
func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a template secrets.toml",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Init,
	}
}
