package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/walkerbrain/internal/cache"
	"github.com/desertthunder/walkerbrain/internal/services"
	"github.com/desertthunder/walkerbrain/internal/shared"
	"github.com/desertthunder/walkerbrain/internal/tasks"
	"github.com/desertthunder/walkerbrain/internal/ui"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

const checkTitle = "Walker Brain connectivity"

// probedTables lists every table and view a page reads from.
var probedTables = []string{
	services.TableAnalysis,
	services.TableTestimonials,
	services.TableSystemStatus,
	services.TableCostTracking,
	services.TableDriftAlerts,
	services.TablePrompts,
	services.TableArbitrated,
	services.TableTaxonomy,
	services.ViewObjectionFreq,
	services.TableContentQueue,
}

// Check validates the configuration, probes the REST endpoint and the cache, and reports the outcome.
//
// It fails when any probe fails.
func (r *Runner) Check(ctx context.Context, cmd *cli.Command) error {
	r.applyFlags(cmd)

	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	plain := cmd.Bool("plain") || !r.isTerminal()
	logger := r.logger
	if !plain {
		// Logs would tear the interactive view.
		logger = shared.NewLogger(io.Discard)
	}

	qc := cache.New(config.Cache, logger)
	defer qc.Close()

	sections := r.checkSections(config, qc, logger)
	workers := min(max(int(cmd.Int("workers")), 1), tasks.MaxWorkers)

	var result *tasks.Result
	if plain {
		result = tasks.Run(ctx, workers, sections...)
		if err := ui.Report(r.output, checkTitle, result); err != nil {
			return err
		}
	} else {
		model := ui.NewModel(ctx, checkTitle, workers, sections...)
		if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
			return fmt.Errorf("error running check view: %w", err)
		}
		if result = model.Result(); result == nil {
			return nil
		}
	}

	if !result.OK() {
		return fmt.Errorf("%d checks failed: %w", len(result.Failed()), result.Joined())
	}
	return nil
}

func (r *Runner) isTerminal() bool {
	f, ok := r.output.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// checkSections builds one probe per table plus the config and cache checks. Table probes are
// skipped when the client cannot be built, since the config check already reports why.
func (r *Runner) checkSections(config *shared.Config, qc cache.Cache, logger *log.Logger) []tasks.Section {
	sections := []tasks.Section{
		{Name: "config", Load: func(context.Context) error { return config.Validate() }},
		{Name: "cache (" + qc.Backend() + ")", Load: func(ctx context.Context) error { return probeCache(ctx, qc) }},
	}

	client, err := services.NewClient(services.ClientOpts{
		BaseURL:    config.Database.URL,
		Key:        config.Database.Key,
		Timeout:    config.Database.Timeout(),
		RateLimit:  config.Database.RateLimit,
		HTTPClient: r.httpClient,
		Logger:     logger,
	})
	if err != nil {
		return sections
	}

	for _, table := range probedTables {
		sections = append(sections, tasks.Section{
			Name: table,
			Load: func(ctx context.Context) error { return client.Ping(ctx, table) },
		})
	}
	return sections
}

func probeCache(ctx context.Context, qc cache.Cache) error {
	const key = "check"
	want := []byte(shared.GenerateID())

	if err := qc.Set(ctx, key, want, time.Minute); err != nil {
		return err
	}
	defer qc.Delete(ctx, key)

	got, ok, err := qc.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok || !bytes.Equal(got, want) {
		return fmt.Errorf("%w: cache round trip returned a different value", shared.ErrDataAccess)
	}
	return nil
}
