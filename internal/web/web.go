package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/walkerbrain/internal/metrics"
	"github.com/desertthunder/walkerbrain/internal/server"
	"github.com/desertthunder/walkerbrain/internal/services"
	"github.com/desertthunder/walkerbrain/internal/shared"
)

// HomePage is where "/" and successful logins land.
const HomePage = QuoteBank

// Options configures an [App]. Gate and Sessions are required to serve; Metrics is optional.
type Options struct {
	Gate        *server.Gate
	Sessions    *server.SessionManager
	Metrics     *metrics.Metrics
	MetricsPath string
	Search      services.TranscriptSearcher
	Logger      *log.Logger
	Now         func() time.Time
}

// App renders the dashboard pages over a [services.DataSource].
type App struct {
	data      services.DataSource
	search    services.TranscriptSearcher
	templates *Templates
	gate      *server.Gate
	sessions  *server.SessionManager
	metrics   *metrics.Metrics
	metricsAt string
	logger    *log.Logger
	now       func() time.Time
}

// NewApp parses the templates and wires the page renderers to data.
func NewApp(data services.DataSource, opts Options) (*App, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: data source", shared.ErrMissingConfig)
	}
	templates, err := ParseTemplates()
	if err != nil {
		return nil, err
	}

	a := &App{
		data:      data,
		search:    opts.Search,
		templates: templates,
		gate:      opts.Gate,
		sessions:  opts.Sessions,
		metrics:   opts.Metrics,
		metricsAt: opts.MetricsPath,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if a.search == nil {
		a.search = data
	}
	if a.logger == nil {
		a.logger = shared.NewLogger(nil)
	}
	a.logger = shared.WithLogger(a.logger, "component", "web")
	if a.now == nil {
		a.now = time.Now
	}
	if a.metricsAt == "" {
		a.metricsAt = "/metrics"
	}
	return a, nil
}

// Handler builds the router: auth routes, the page route behind RequireAuth, static assets,
// the health check and, when enabled, the metrics endpoint.
func (a *App) Handler() (http.Handler, error) {
	if a.gate == nil || a.sessions == nil {
		return nil, fmt.Errorf("%w: password gate and session manager", shared.ErrMissingConfig)
	}

	router := server.NewBasicRouter()
	router.Use(server.Recover(a.logger), server.Logging(a.logger))
	if a.metrics != nil {
		router.Use(a.metrics.Middleware)
	}

	// Public routes sit outside the session middleware.
	router.Handle(http.MethodGet, "/static/", staticHandler())
	router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(healthz))
	if a.metrics != nil {
		router.Handle(http.MethodGet, a.metricsAt, a.metrics.Handler())
	}

	router.Use(a.sessions.Middleware)

	var recorder server.LoginRecorder
	if a.metrics != nil {
		recorder = a.metrics
	}
	router.Handler(server.NewAuthHandler(a.gate, a.sessions, a, recorder, HomePage.Path(), a.logger))

	router.Handle(http.MethodGet, "/{$}", http.RedirectHandler(HomePage.Path(), http.StatusSeeOther))
	router.Handle(http.MethodGet, "/p/{slug}", server.RequireAuth(http.HandlerFunc(a.ServePage)))
	return router, nil
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// ServePage resolves /p/{slug} for the request's session and writes the page, a download, or
// the data error banner.
func (a *App) ServePage(w http.ResponseWriter, r *http.Request) {
	sess := server.SessionFromContext(r.Context())
	page, ok := ParsePage(r.PathValue("slug"))
	if !ok {
		page = NoPage
	}

	req := &Request{Page: page, Session: sess, Query: r.URL.Query(), Now: a.now()}
	view, err := a.Render(r.Context(), req)
	if err != nil {
		a.logger.Error("page failed", "page", page.Slug(), "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if d := view.Download; d != nil {
		w.Header().Set("Content-Type", d.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(d.Body)))
		_, _ = w.Write(d.Body)
		return
	}

	a.write(w, view.status(), view.templateName(), "layout", newPageLayout(view, sess))
}

// Render runs the page's renderer. A data access error becomes the failed view; other errors
// are returned.
func (a *App) Render(ctx context.Context, req *Request) (*View, error) {
	view, err := a.Resolve(req.Session, req.Page)(ctx, req)
	switch {
	case err == nil:
		return view, nil
	case isDataError(err), errors.Is(err, context.DeadlineExceeded):
		a.logger.Warn("data unavailable", "page", req.Page.Slug(), "error", err)
		return failedView(req.Page, err), nil
	default:
		return nil, err
	}
}

// RenderLogin draws the login form. It satisfies [server.LoginRenderer].
func (a *App) RenderLogin(w http.ResponseWriter, _ *http.Request, status int, form server.LoginForm) {
	a.write(w, status, "login", "login", form)
}

func (a *App) write(w http.ResponseWriter, status int, name, entry string, data any) {
	body, err := a.templates.Render(name, entry, data)
	if err != nil {
		a.logger.Error("template failed", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
