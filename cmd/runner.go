package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/walkerbrain/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	envFile    string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config // Base configuration used when no config file exists
	EnvFile    string         // Optional .env file applied over the configuration
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		envFile:    opts.EnvFile,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, checkCommand, initCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// applyFlags raises the log level when --debug is set anywhere in the command lineage.
func (r *Runner) applyFlags(cmd *cli.Command) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
}

// loadConfig reads path when it exists, falls back to the runner's base config otherwise,
// and overlays the environment.
func (r *Runner) loadConfig(path string) (*shared.Config, error) {
	config := r.config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := shared.LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		} else if errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("config file not found, using defaults and environment", "path", path)
		} else {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	if err := config.ApplyEnv(r.envFile); err != nil {
		return nil, err
	}
	r.config = config
	return config, nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
