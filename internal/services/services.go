package services

import (
	"context"
	"time"

	"github.com/desertthunder/walkerbrain/internal/models"
)

// DataSource defines every read the dashboard performs against the analysis database.
// [Queries] implements it over PostgREST; tests substitute fakes.
type DataSource interface {
	TranscriptSearcher

	// Quotes returns one page of key quotes, best first.
	Quotes(ctx context.Context, f QuoteFilter) ([]models.Record, error)
	CountQuotes(ctx context.Context, f QuoteFilter) (int, error)

	// SearchCalls returns one page of calls, newest first.
	SearchCalls(ctx context.Context, f CallFilter) ([]models.Record, error)
	CountCalls(ctx context.Context, f CallFilter) (int, error)

	// CallDetail returns the full analysis for one call.
	// Returns [shared.ErrNotFound] when no call has that ID.
	CallDetail(ctx context.Context, id string) (models.Record, error)

	// Transcript returns the raw transcript text, loaded only on demand.
	Transcript(ctx context.Context, id string) (string, error)

	ExplorerRows(ctx context.Context, f ExplorerFilter) ([]models.Record, error)
	CountExplorerRows(ctx context.Context, f ExplorerFilter) (int, error)

	// WeeklyMetrics returns headline counts for a window of days, offsetWindows windows back.
	WeeklyMetrics(ctx context.Context, days, offsetWindows int) (PeriodMetrics, error)
	TopQuotes(ctx context.Context, days, limit int) ([]models.Record, error)
	DailyVolume(ctx context.Context, days int) ([]DailyVolume, error)
	RecentColumn(ctx context.Context, column string, days int, extra ...Filter) ([]models.Record, error)
	LastUpdated(ctx context.Context) (time.Time, bool, error)
	PipelineStats(ctx context.Context) (PipelineStats, error)

	TestimonialPipeline(ctx context.Context, status, testimonialType string) ([]models.Record, error)

	SystemStatus(ctx context.Context) (models.Record, error)
	CostTracking(ctx context.Context, days int) ([]models.Record, error)
	DriftAlerts(ctx context.Context, limit int) ([]models.Record, error)
	PromptLibrary(ctx context.Context) ([]models.Record, error)
	QualityScores(ctx context.Context, limit int) ([]models.Record, error)
	CalibrationLabels(ctx context.Context) ([]models.Record, error)
	Throughput(ctx context.Context, days int) (Throughput, error)

	Taxonomy(ctx context.Context) ([]models.Record, error)
	TagCounts(ctx context.Context) ([]ValueCount, error)
	TaggedCalls(ctx context.Context, tag string) ([]models.Record, error)
	ObjectionFrequencies(ctx context.Context) ([]models.Record, error)

	Angles(ctx context.Context, f AngleFilter) ([]models.Record, error)

	// Filter options, cached for the options TTL.
	CaseTypes(ctx context.Context) ([]string, error)
	EmotionalTones(ctx context.Context) ([]string, error)
	Outcomes(ctx context.Context) ([]string, error)
	Languages(ctx context.Context) ([]string, error)
}

var _ DataSource = (*Queries)(nil)
