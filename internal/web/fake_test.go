package web

import (
	"context"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/server"
	"github.com/desertthunder/walkerbrain/internal/services"
	"github.com/desertthunder/walkerbrain/internal/shared"
)

var testNow = time.Date(2025, 6, 12, 15, 30, 0, 0, time.UTC)

// fakeData serves canned rows for every query. When err is set every method fails with it.
type fakeData struct {
	mu    sync.Mutex
	err   error
	calls []string

	quotes       []models.Record
	callRows     []models.Record
	explorer     []models.Record
	testimonials []models.Record
	angles       []models.Record
	detail       models.Record
	transcript   string

	hits       []services.TranscriptHit
	lastSearch services.TranscriptQuery

	current, prior services.PeriodMetrics
	topQuotes      []models.Record
	volume         []services.DailyVolume
	recent         map[string][]models.Record
	updated        time.Time

	status     models.Record
	costs      []models.Record
	scores     []models.Record
	alerts     []models.Record
	prompts    []models.Record
	labels     []models.Record
	throughput services.Throughput

	taxonomy   []models.Record
	tags       []services.ValueCount
	tagged     []models.Record
	objections []models.Record

	options []string
}

var _ services.DataSource = (*fakeData)(nil)

func (f *fakeData) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeData) called(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (f *fakeData) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeData) SearchTranscripts(_ context.Context, q services.TranscriptQuery) ([]services.TranscriptHit, error) {
	if err := f.record("SearchTranscripts"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastSearch = q
	f.mu.Unlock()
	if strings.TrimSpace(q.Keyword) == "" {
		return nil, shared.ErrInvalidInput
	}
	return f.hits, nil
}

func (f *fakeData) Quotes(_ context.Context, _ services.QuoteFilter) ([]models.Record, error) {
	return f.quotes, f.record("Quotes")
}

func (f *fakeData) CountQuotes(_ context.Context, _ services.QuoteFilter) (int, error) {
	return len(f.quotes), f.record("CountQuotes")
}

func (f *fakeData) SearchCalls(_ context.Context, _ services.CallFilter) ([]models.Record, error) {
	return f.callRows, f.record("SearchCalls")
}

func (f *fakeData) CountCalls(_ context.Context, _ services.CallFilter) (int, error) {
	return len(f.callRows), f.record("CountCalls")
}

func (f *fakeData) CallDetail(_ context.Context, id string) (models.Record, error) {
	if err := f.record("CallDetail"); err != nil {
		return nil, err
	}
	if f.detail == nil || f.detail.String("source_transcript_id") != id {
		return nil, shared.ErrNotFound
	}
	return f.detail, nil
}

func (f *fakeData) Transcript(_ context.Context, _ string) (string, error) {
	return f.transcript, f.record("Transcript")
}

func (f *fakeData) ExplorerRows(_ context.Context, _ services.ExplorerFilter) ([]models.Record, error) {
	return f.explorer, f.record("ExplorerRows")
}

func (f *fakeData) CountExplorerRows(_ context.Context, _ services.ExplorerFilter) (int, error) {
	return len(f.explorer), f.record("CountExplorerRows")
}

func (f *fakeData) WeeklyMetrics(_ context.Context, _, offset int) (services.PeriodMetrics, error) {
	if offset > 0 {
		return f.prior, f.record("WeeklyMetrics")
	}
	return f.current, f.record("WeeklyMetrics")
}

func (f *fakeData) TopQuotes(_ context.Context, _, _ int) ([]models.Record, error) {
	return f.topQuotes, f.record("TopQuotes")
}

func (f *fakeData) DailyVolume(_ context.Context, _ int) ([]services.DailyVolume, error) {
	return f.volume, f.record("DailyVolume")
}

func (f *fakeData) RecentColumn(_ context.Context, column string, _ int, _ ...services.Filter) ([]models.Record, error) {
	return f.recent[column], f.record("RecentColumn")
}

func (f *fakeData) LastUpdated(_ context.Context) (time.Time, bool, error) {
	return f.updated, !f.updated.IsZero(), f.record("LastUpdated")
}

func (f *fakeData) PipelineStats(_ context.Context) (services.PipelineStats, error) {
	return services.PipelineStats{Total: len(f.callRows), Active: true}, f.record("PipelineStats")
}

func (f *fakeData) TestimonialPipeline(_ context.Context, _, _ string) ([]models.Record, error) {
	return f.testimonials, f.record("TestimonialPipeline")
}

func (f *fakeData) SystemStatus(_ context.Context) (models.Record, error) {
	return f.status, f.record("SystemStatus")
}

func (f *fakeData) CostTracking(_ context.Context, _ int) ([]models.Record, error) {
	return f.costs, f.record("CostTracking")
}

func (f *fakeData) DriftAlerts(_ context.Context, _ int) ([]models.Record, error) {
	return f.alerts, f.record("DriftAlerts")
}

func (f *fakeData) PromptLibrary(_ context.Context) ([]models.Record, error) {
	return f.prompts, f.record("PromptLibrary")
}

func (f *fakeData) QualityScores(_ context.Context, _ int) ([]models.Record, error) {
	return f.scores, f.record("QualityScores")
}

func (f *fakeData) CalibrationLabels(_ context.Context) ([]models.Record, error) {
	return f.labels, f.record("CalibrationLabels")
}

func (f *fakeData) Throughput(_ context.Context, _ int) (services.Throughput, error) {
	return f.throughput, f.record("Throughput")
}

func (f *fakeData) Taxonomy(_ context.Context) ([]models.Record, error) {
	return f.taxonomy, f.record("Taxonomy")
}

func (f *fakeData) TagCounts(_ context.Context) ([]services.ValueCount, error) {
	return f.tags, f.record("TagCounts")
}

func (f *fakeData) TaggedCalls(_ context.Context, _ string) ([]models.Record, error) {
	return f.tagged, f.record("TaggedCalls")
}

func (f *fakeData) ObjectionFrequencies(_ context.Context) ([]models.Record, error) {
	return f.objections, f.record("ObjectionFrequencies")
}

func (f *fakeData) Angles(_ context.Context, _ services.AngleFilter) ([]models.Record, error) {
	return f.angles, f.record("Angles")
}

func (f *fakeData) CaseTypes(_ context.Context) ([]string, error) {
	return f.options, f.record("CaseTypes")
}

func (f *fakeData) EmotionalTones(_ context.Context) ([]string, error) {
	return f.options, f.record("EmotionalTones")
}

func (f *fakeData) Outcomes(_ context.Context) ([]string, error) {
	return f.options, f.record("Outcomes")
}

func (f *fakeData) Languages(_ context.Context) ([]string, error) {
	return f.options, f.record("Languages")
}

func newTestApp(t *testing.T, data *fakeData, opts Options) *App {
	t.Helper()

	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	app, err := NewApp(data, opts)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	return app
}

func session(role models.Role) server.SessionContext {
	return server.SessionContext{Authenticated: role != models.RoleNone, Role: role}
}

// render runs page for role with the given query string.
func render(t *testing.T, app *App, page Page, role models.Role, query string) *View {
	t.Helper()

	q, err := url.ParseQuery(query)
	if err != nil {
		t.Fatalf("bad query %q: %v", query, err)
	}
	view, err := app.Render(context.Background(), &Request{Page: page, Session: session(role), Query: q, Now: testNow})
	if err != nil {
		t.Fatalf("Render(%s) error = %v", page.Slug(), err)
	}
	return view
}

func hasNotice(v *View, level, text string) bool {
	for _, n := range v.Notices {
		if n.Level == level && strings.Contains(n.Text, text) {
			return true
		}
	}
	return false
}

func sampleQuotes() []models.Record {
	return []models.Record{
		{
			"source_transcript_id":  "a1b2c3d4e5f6",
			"key_quote":             "They called me back the same day.",
			"case_type":             "auto-accident",
			"emotional_tone":        "relieved",
			"quality_score":         82.0,
			"analyzed_at":           "2025-06-10T09:00:00Z",
			"testimonial_candidate": true,
		},
		{
			"source_transcript_id": "ffee0011aabb",
			"key_quote":            "I did not know who else to call.",
			"case_type":            "slip-and-fall",
			"emotional_tone":       "anxious",
			"quality_score":        45.0,
			"analyzed_at":          "2025-06-09T09:00:00Z",
		},
	}
}
