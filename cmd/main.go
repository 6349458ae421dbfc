package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/walkerbrain/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger, EnvFile: ".env"})

	app := &cli.Command{
		Name:    "walkerbrain",
		Usage:   "Read-only analytics dashboard over analyzed call transcripts",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrMissingConfig) {
			logger.Error("refusing to start", "error", err)
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
