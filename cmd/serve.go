package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/walkerbrain/internal/cache"
	"github.com/desertthunder/walkerbrain/internal/metrics"
	"github.com/desertthunder/walkerbrain/internal/repositories"
	"github.com/desertthunder/walkerbrain/internal/server"
	"github.com/desertthunder/walkerbrain/internal/services"
	"github.com/desertthunder/walkerbrain/internal/shared"
	"github.com/desertthunder/walkerbrain/internal/web"
	"github.com/urfave/cli/v3"
)

const (
	sessionCleanupInterval = 10 * time.Minute
	shutdownTimeout        = 10 * time.Second
)

// dashboard is the fully wired HTTP surface plus the resources it owns.
type dashboard struct {
	handler  http.Handler
	sessions *server.SessionManager
	closers  []func() error
}

func (d *dashboard) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	return errors.Join(errs...)
}

// Serve validates the configuration and runs the dashboard until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	r.applyFlags(cmd)

	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	if cmd.IsSet("host") {
		config.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		config.Server.Port = int(cmd.Int("port"))
	}
	if err := config.Validate(); err != nil {
		return err
	}

	d, err := r.buildDashboard(config)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go d.sessions.RunCleanup(ctx, sessionCleanupInterval)

	srv := server.NewHTTPServer(config.Server.Addr(), d.handler)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	url := shared.LocalURL(config.Server.Host, config.Server.Port)
	r.logger.Info("dashboard listening", "url", url)
	if cmd.Bool("open") {
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// buildDashboard wires the cache, metrics, REST client, session store and page renderers.
func (r *Runner) buildDashboard(config *shared.Config) (*dashboard, error) {
	d := &dashboard{}

	qc := cache.New(config.Cache, shared.WithLogger(r.logger, "component", "cache"))
	d.closers = append(d.closers, qc.Close)
	r.logger.Debug("query cache ready", "backend", qc.Backend())

	var m *metrics.Metrics
	opts := services.ClientOpts{
		BaseURL:    config.Database.URL,
		Key:        config.Database.Key,
		Timeout:    config.Database.Timeout(),
		RateLimit:  config.Database.RateLimit,
		QueryTTL:   seconds(config.Database.QueryCacheTTL),
		OptionsTTL: seconds(config.Database.OptionsCacheTTL),
		Cache:      qc,
		Logger:     shared.WithLogger(r.logger, "component", "postgrest"),
		HTTPClient: r.httpClient,
	}
	if config.Metrics.Enabled {
		m = metrics.New()
		opts.Recorder = m
	}

	client, err := services.NewClient(opts)
	if err != nil {
		d.Close()
		return nil, err
	}

	db, err := shared.OpenSessionStore(config.Sessions)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	d.closers = append(d.closers, db.Close)

	d.sessions = server.NewSessionManager(repositories.NewSessionRepository(db), config.Sessions.IdleTimeout(), r.logger)

	gate, err := server.NewGate(config.Auth)
	if err != nil {
		d.Close()
		return nil, err
	}

	app, err := web.NewApp(services.NewQueries(client), web.Options{
		Gate:        gate,
		Sessions:    d.sessions,
		Metrics:     m,
		MetricsPath: config.Metrics.Path,
		Logger:      r.logger,
	})
	if err != nil {
		d.Close()
		return nil, err
	}

	if d.handler, err = app.Handler(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
