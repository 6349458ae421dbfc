package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/desertthunder/walkerbrain/internal/formatter"
	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/shared"
)

// Tables and views read by the dashboard.
const (
	TableAnalysis       = "analysis_results"
	TableTestimonials   = "testimonial_pipeline"
	TableSystemStatus   = "system_status"
	TableCostTracking   = "cost_tracking"
	TableDriftAlerts    = "drift_alerts"
	TablePrompts        = "prompt_library"
	TableArbitrated     = "arbitrated_labels"
	TableTaxonomy       = "master_taxonomy"
	ViewObjectionFreq   = "v_objection_frequencies"
	TableContentQueue   = "content_generation_queue"
	RPCSearchTranscript = "search_transcripts"
)

// Column lists for the analysis table.
const (
	QuoteColumns = "source_transcript_id, key_quote, case_type, emotional_tone, " +
		"quality_score, original_language, suggested_tags, analyzed_at, " +
		"testimonial_candidate, testimonial_type, verbatim_customer_language"

	SearchColumns = "source_transcript_id, case_type, quality_score, emotional_tone, " +
		"outcome, analyzed_at, original_language, key_quote, summary, " +
		"primary_topic, suggested_tags, content_generation_flag, " +
		"testimonial_candidate, testimonial_type, confidence_score, " +
		"estimated_case_value_category"

	DetailColumns = "quality_sub_scores, agent_empathy_score, agent_education_quality, " +
		"agent_objection_handling, agent_closing_effectiveness, " +
		"liability_clarity, injury_severity, documentation_quality, " +
		"estimated_case_value_low, estimated_case_value_high, " +
		"objection_categories, mid_call_dropout_moment, conversion_driver, " +
		"drop_off_reason, agent_intervention_that_worked, moment_that_closed, " +
		"reading_level_estimate, communication_style, spanglish_detected, " +
		"colloquialisms, cultural_markers, family_references, verbatim_customer_language, " +
		"questions_repeated_by_attorney, attorney_used_prior_info, " +
		"handoff_wait_time_mentioned, attorney_sentiment, attorney_rejection_reason, " +
		"common_questions_asked, misunderstandings, education_calming_moment, " +
		"process_confusion_points, other_brands_mentioned, competitive_comparison, " +
		"category_confusion, ad_or_creative_referenced, ad_promise_vs_reality_mismatch, " +
		"repeated_questions_from_caller, " +
		"opening_emotional_state, mid_call_emotional_shift, end_state_emotion, " +
		"prompt_version_used, validation_passed, api_cost, input_tokens, output_tokens, " +
		"has_attorney_leg, analysis_type"

	TaggedCallColumns = "source_transcript_id, case_type, quality_score, emotional_tone, " +
		"analyzed_at, key_quote, summary, suggested_tags"
)

// Query limits.
const (
	DefaultPageSize      = 50
	QualityScanLimit     = 10000
	TagScanLimit         = 1000
	TaggedCallLimit      = 20
	AngleFetchLimit      = 200
	DriftAlertLimit      = 10
	CalibrationMinLabels = 5
)

// QualityRange bounds quality_score inclusively. The zero value means 0 to 100.
type QualityRange struct {
	Min int
	Max int
}

func (r QualityRange) filters() []Filter {
	hi := r.Max
	if hi <= 0 || hi > 100 {
		hi = 100
	}
	lo := max(r.Min, 0)
	return []Filter{Gte("quality_score", lo), Lte("quality_score", hi)}
}

// DateRange bounds analyzed_at. Dates are YYYY-MM-DD; the end date covers its whole day.
type DateRange struct {
	Start string
	End   string
}

func (r DateRange) filters(column string) []Filter {
	var fs []Filter
	if r.Start != "" {
		fs = append(fs, Gte(column, r.Start))
	}
	if r.End == "" {
		return fs
	}
	// A bare date ends where the next day starts, fractional seconds included.
	if day, err := time.Parse(time.DateOnly, r.End); err == nil {
		return append(fs, Lt(column, day.AddDate(0, 0, 1).Format(time.DateOnly)))
	}
	return append(fs, Lte(column, r.End))
}

// Page is a limit/offset window.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) limit() int {
	if p.Limit <= 0 {
		return DefaultPageSize
	}
	return p.Limit
}

// QuoteFilter selects Quote Bank rows.
type QuoteFilter struct {
	Quality         QualityRange
	Dates           DateRange
	CaseTypes       []string
	Tones           []string
	Languages       []string
	TestimonialOnly bool
	Page            Page
}

// CallFilter selects Call Search rows.
type CallFilter struct {
	Text          string
	Quality       QualityRange
	Dates         DateRange
	CaseTypes     []string
	Tones         []string
	Languages     []string
	HasQuote      bool
	ContentWorthy bool
	Page          Page
}

// ExplorerFilter selects Data Explorer rows. Columns defaults to the Core group.
type ExplorerFilter struct {
	Columns   []string
	Quality   QualityRange
	Dates     DateRange
	CaseTypes []string
	Languages []string
	Page      Page
}

// AngleFilter selects Angle Bank briefs. Quality defaults to 70 to 100.
type AngleFilter struct {
	Statuses     []string
	ContentTypes []string
	Intents      []string
	Quality      QualityRange
	Dates        DateRange
}

// PeriodMetrics are the headline counts for one window.
type PeriodMetrics struct {
	Quotes        int
	Testimonials  int
	ContentWorthy int
	MedianQuality float64
}

// DailyVolume is one point of the volume trend.
type DailyVolume struct {
	Date       string
	Count      int
	AvgQuality float64
}

// Throughput summarises recent processing.
type Throughput struct {
	Total    int
	Passed   int
	PassRate float64
	PerDay   float64
}

// PipelineStats is the orientation summary shown on the landing page.
type PipelineStats struct {
	Total  int
	Since  string
	Active bool
}

// Queries implements [DataSource] over a [Client].
type Queries struct {
	client *Client
	now    func() time.Time
}

// NewQueries wraps client with the dashboard's named queries.
func NewQueries(client *Client) *Queries {
	return &Queries{client: client, now: time.Now}
}

func (q *Queries) cutoff(days int) string {
	return q.now().UTC().AddDate(0, 0, -days).Format("2006-01-02T15:04:05")
}

func addIn(fs []Filter, col string, values []string) []Filter {
	if len(values) == 0 {
		return fs
	}
	return append(fs, In(col, values))
}

func hasQuoteFilters() []Filter {
	return []Filter{NotNull("key_quote"), Neq("key_quote", "")}
}

func quoteFilters(f QuoteFilter) []Filter {
	fs := hasQuoteFilters()
	fs = append(fs, f.Quality.filters()...)
	fs = addIn(fs, "case_type", f.CaseTypes)
	fs = addIn(fs, "emotional_tone", f.Tones)
	fs = addIn(fs, "original_language", f.Languages)
	if f.TestimonialOnly {
		fs = append(fs, Eq("testimonial_candidate", true))
	}
	return append(fs, f.Dates.filters("analyzed_at")...)
}

// Quotes returns non-empty key quotes ordered by quality then recency.
func (q *Queries) Quotes(ctx context.Context, f QuoteFilter) ([]models.Record, error) {
	return q.client.Select(ctx, Query{
		Table:   TableAnalysis,
		Select:  QuoteColumns,
		Filters: quoteFilters(f),
		Order:   []Order{{Column: "quality_score", Desc: true}, {Column: "analyzed_at", Desc: true}},
		Limit:   f.Page.limit(),
		Offset:  f.Page.Offset,
	})
}

// CountQuotes counts the rows [Queries.Quotes] pages through.
func (q *Queries) CountQuotes(ctx context.Context, f QuoteFilter) (int, error) {
	return q.client.Count(ctx, Query{Table: TableAnalysis, Filters: quoteFilters(f)})
}

func callQuery(f CallFilter) Query {
	fs := f.Quality.filters()
	fs = addIn(fs, "case_type", f.CaseTypes)
	fs = addIn(fs, "emotional_tone", f.Tones)
	fs = addIn(fs, "original_language", f.Languages)
	fs = append(fs, f.Dates.filters("analyzed_at")...)
	if f.HasQuote {
		fs = append(fs, hasQuoteFilters()...)
	}
	if f.ContentWorthy {
		fs = append(fs, Eq("content_generation_flag", true))
	}

	query := Query{Table: TableAnalysis, Filters: fs}
	if f.Text != "" {
		pattern := "%" + EscapeSearchTerm(f.Text) + "%"
		query.Or = []Filter{
			Ilike("summary", pattern),
			Ilike("key_quote", pattern),
			Ilike("primary_topic", pattern),
		}
	}
	return query
}

// SearchCalls returns calls matching f, newest first.
func (q *Queries) SearchCalls(ctx context.Context, f CallFilter) ([]models.Record, error) {
	query := callQuery(f)
	query.Select = SearchColumns
	query.Order = []Order{{Column: "analyzed_at", Desc: true}}
	query.Limit = f.Page.limit()
	query.Offset = f.Page.Offset
	return q.client.Select(ctx, query)
}

// CountCalls counts the rows [Queries.SearchCalls] pages through.
func (q *Queries) CountCalls(ctx context.Context, f CallFilter) (int, error) {
	return q.client.Count(ctx, callQuery(f))
}

// CallDetail returns every displayed column for one call, or [shared.ErrNotFound].
func (q *Queries) CallDetail(ctx context.Context, id string) (models.Record, error) {
	rows, err := q.client.Select(ctx, Query{
		Table:   TableAnalysis,
		Select:  SearchColumns + ", " + DetailColumns,
		Filters: []Filter{Eq("source_transcript_id", id)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: call %s", shared.ErrNotFound, id)
	}
	return rows[0], nil
}

// Transcript returns the original transcript text for one call, or "" when none is stored.
func (q *Queries) Transcript(ctx context.Context, id string) (string, error) {
	rows, err := q.client.Select(ctx, Query{
		Table:   TableAnalysis,
		Select:  "transcript_original",
		Filters: []Filter{Eq("source_transcript_id", id)},
		Limit:   1,
	})
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].String("transcript_original"), nil
}

func explorerFilters(f ExplorerFilter) []Filter {
	fs := f.Quality.filters()
	fs = addIn(fs, "case_type", f.CaseTypes)
	fs = addIn(fs, "original_language", f.Languages)
	return append(fs, f.Dates.filters("analyzed_at")...)
}

// ExplorerRows returns the selected columns for Data Explorer, newest first.
func (q *Queries) ExplorerRows(ctx context.Context, f ExplorerFilter) ([]models.Record, error) {
	columns := f.Columns
	if len(columns) == 0 {
		columns = formatter.ColumnsFor(nil)
	}
	return q.client.Select(ctx, Query{
		Table:   TableAnalysis,
		Select:  strings.Join(columns, ","),
		Filters: explorerFilters(f),
		Order:   []Order{{Column: "analyzed_at", Desc: true}},
		Limit:   f.Page.limit(),
		Offset:  f.Page.Offset,
	})
}

// CountExplorerRows counts the rows [Queries.ExplorerRows] pages through.
func (q *Queries) CountExplorerRows(ctx context.Context, f ExplorerFilter) (int, error) {
	return q.client.Count(ctx, Query{Table: TableAnalysis, Filters: explorerFilters(f)})
}

// WeeklyMetrics returns headline counts for the window of days ending offsetWindows windows ago.
//
// offsetWindows 0 is the current window. Earlier windows count quotes without excluding empty strings.
func (q *Queries) WeeklyMetrics(ctx context.Context, days, offsetWindows int) (PeriodMetrics, error) {
	var m PeriodMetrics

	window := []Filter{Gte("analyzed_at", q.cutoff(days*(offsetWindows+1)))}
	if offsetWindows > 0 {
		window = append(window, Lt("analyzed_at", q.cutoff(days*offsetWindows)))
	}

	quoted := []Filter{NotNull("key_quote")}
	if offsetWindows == 0 {
		quoted = hasQuoteFilters()
	}

	counts := []struct {
		target  *int
		filters []Filter
	}{
		{target: &m.Quotes, filters: quoted},
		{target: &m.Testimonials, filters: []Filter{Eq("testimonial_candidate", true)}},
		{target: &m.ContentWorthy, filters: []Filter{Eq("content_generation_flag", true)}},
	}

	for _, c := range counts {
		n, err := q.client.Count(ctx, Query{Table: TableAnalysis, Filters: append(c.filters, window...)})
		if err != nil {
			return m, err
		}
		*c.target = n
	}

	rows, err := q.client.Select(ctx, Query{
		Table:   TableAnalysis,
		Select:  "quality_score",
		Filters: append([]Filter{NotNull("quality_score")}, window...),
	})
	if err != nil {
		return m, err
	}
	m.MedianQuality = medianOf(rows, "quality_score")

	return m, nil
}

// TopQuotes returns the best quotes analysed in the last days.
func (q *Queries) TopQuotes(ctx context.Context, days, limit int) ([]models.Record, error) {
	return q.Quotes(ctx, QuoteFilter{
		Dates: DateRange{Start: q.cutoff(days)},
		Page:  Page{Limit: limit},
	})
}

// DailyVolume groups calls analysed in the last days by UTC date.
func (q *Queries) DailyVolume(ctx context.Context, days int) ([]DailyVolume, error) {
	rows, err := q.client.Select(ctx, Query{
		Table:   TableAnalysis,
		Select:  "analyzed_at, quality_score",
		Filters: []Filter{Gte("analyzed_at", q.cutoff(days))},
		Order:   []Order{{Column: "analyzed_at"}},
	})
	if err != nil {
		return nil, err
	}

	type bucket struct {
		count  int
		sum    float64
		scored int
	}
	buckets := map[string]*bucket{}
	for _, r := range rows {
		date := formatter.DatePrefix(r.String("analyzed_at"))
		if date == "" {
			continue
		}
		b, ok := buckets[date]
		if !ok {
			b = &bucket{}
			buckets[date] = b
		}
		b.count++
		if f, ok := r.Float("quality_score"); ok {
			b.sum += f
			b.scored++
		}
	}

	out := make([]DailyVolume, 0, len(buckets))
	for date, b := range buckets {
		v := DailyVolume{Date: date, Count: b.count}
		if b.scored > 0 {
			v.AvgQuality = b.sum / float64(b.scored)
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// RecentColumn returns non-null values of column for calls analysed in the last days.
func (q *Queries) RecentColumn(ctx context.Context, column string, days int, extra ...Filter) ([]models.Record, error) {
	filters := append([]Filter{NotNull(column), Gte("analyzed_at", q.cutoff(days))}, extra...)
	return q.client.Select(ctx, Query{Table: TableAnalysis, Select: column, Filters: filters})
}

// TestimonialPipeline returns pipeline entries by quality, optionally narrowed by status and type.
func (q *Queries) TestimonialPipeline(ctx context.Context, status, testimonialType string) ([]models.Record, error) {
	var fs []Filter
	if status != "" {
		fs = append(fs, Eq("status", status))
	}
	if testimonialType != "" {
		fs = append(fs, Eq("testimonial_type", testimonialType))
	}
	return q.client.Select(ctx, Query{
		Table:   TableTestimonials,
		Filters: fs,
		Order:   []Order{{Column: "quality_score", Desc: true}},
	})
}

// SystemStatus returns the single system status row, or nil when the table is empty.
func (q *Queries) SystemStatus(ctx context.Context) (models.Record, error) {
	rows, err := q.client.Select(ctx, Query{Table: TableSystemStatus, Limit: 1})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// CostTracking returns daily cost rows for the last days, newest first.
func (q *Queries) CostTracking(ctx context.Context, days int) ([]models.Record, error) {
	cutoff := q.now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
	return q.client.Select(ctx, Query{
		Table:   TableCostTracking,
		Filters: []Filter{Gte("date", cutoff)},
		Order:   []Order{ParseOrder("-date")},
	})
}

// DriftAlerts returns the most recent drift alerts.
func (q *Queries) DriftAlerts(ctx context.Context, limit int) ([]models.Record, error) {
	if limit <= 0 {
		limit = DriftAlertLimit
	}
	return q.client.Select(ctx, Query{
		Table: TableDriftAlerts,
		Order: []Order{ParseOrder("-created_at")},
		Limit: limit,
	})
}

// PromptLibrary returns every prompt, newest first.
func (q *Queries) PromptLibrary(ctx context.Context) ([]models.Record, error) {
	return q.client.Select(ctx, Query{Table: TablePrompts, Order: []Order{ParseOrder("-created_at")}})
}

// QualityScores returns quality and confidence scores for the most recent scored calls.
func (q *Queries) QualityScores(ctx context.Context, limit int) ([]models.Record, error) {
	if limit <= 0 {
		limit = QualityScanLimit
	}
	return q.client.Select(ctx, Query{
		Table:   TableAnalysis,
		Select:  "quality_score, confidence_score",
		Filters: []Filter{NotNull("quality_score")},
		Order:   []Order{ParseOrder("-analyzed_at")},
		Limit:   limit,
	})
}

// CalibrationLabels returns production vs consensus quality pairs.
func (q *Queries) CalibrationLabels(ctx context.Context) ([]models.Record, error) {
	return q.client.Select(ctx, Query{
		Table:  TableArbitrated,
		Select: "production_quality_score, consensus_quality_score",
	})
}

// Throughput counts calls analysed in the last days and how many passed validation.
func (q *Queries) Throughput(ctx context.Context, days int) (Throughput, error) {
	var t Throughput
	window := []Filter{Gte("analyzed_at", q.cutoff(days))}

	total, err := q.client.Count(ctx, Query{Table: TableAnalysis, Filters: window})
	if err != nil {
		return t, err
	}

	passed, err := q.client.Count(ctx, Query{
		Table:   TableAnalysis,
		Filters: append([]Filter{Eq("validation_passed", true)}, window...),
	})
	if err != nil {
		return t, err
	}

	t.Total = total
	t.Passed = passed
	if total > 0 {
		t.PassRate = float64(passed) / float64(total) * 100
	}
	if days > 0 {
		t.PerDay = float64(total) / float64(days)
	}
	return t, nil
}

// LastUpdated returns the newest analyzed_at. ok is false when nothing has been analysed.
func (q *Queries) LastUpdated(ctx context.Context) (t time.Time, ok bool, err error) {
	rows, err := q.client.Select(ctx, Query{
		Table:  TableAnalysis,
		Select: "analyzed_at",
		Order:  []Order{ParseOrder("-analyzed_at")},
		Limit:  1,
	})
	if err != nil || len(rows) == 0 {
		return time.Time{}, false, err
	}
	t, ok = rows[0].Date("analyzed_at")
	return t, ok, nil
}

// PipelineStats returns the total call count, the first analysis date and whether the pipeline is active.
func (q *Queries) PipelineStats(ctx context.Context) (PipelineStats, error) {
	var s PipelineStats

	total, err := q.client.Count(ctx, Query{Table: TableAnalysis})
	if err != nil {
		return s, err
	}
	s.Total = total

	first, err := q.client.Select(ctx, Query{
		Table:  TableAnalysis,
		Select: "analyzed_at",
		Order:  []Order{{Column: "analyzed_at"}},
		Limit:  1,
	})
	if err != nil {
		return s, err
	}
	if len(first) > 0 {
		s.Since = formatter.DatePrefix(first[0].String("analyzed_at"))
	}

	status, err := q.client.Select(ctx, Query{Table: TableSystemStatus, Select: "system_active", Limit: 1})
	if err != nil {
		return s, err
	}
	if len(status) > 0 {
		s.Active = status[0].Bool("system_active")
	}

	return s, nil
}

// Taxonomy returns the curated tag taxonomy ordered by name.
func (q *Queries) Taxonomy(ctx context.Context) ([]models.Record, error) {
	return q.client.Select(ctx, Query{Table: TableTaxonomy, Order: []Order{{Column: "tag_name"}}})
}

// TagCounts mines suggested_tags from recent rows when no taxonomy exists.
func (q *Queries) TagCounts(ctx context.Context) ([]ValueCount, error) {
	rows, err := q.client.Select(ctx, Query{
		Table:   TableAnalysis,
		Select:  "suggested_tags",
		Filters: []Filter{NotNull("suggested_tags")},
		Limit:   TagScanLimit,
	})
	if err != nil {
		return nil, err
	}
	return Tally(rows, "suggested_tags"), nil
}

// TaggedCalls returns the best calls carrying tag.
func (q *Queries) TaggedCalls(ctx context.Context, tag string) ([]models.Record, error) {
	literal, err := json.Marshal([]string{tag})
	if err != nil {
		return nil, fmt.Errorf("%w: tag %q", shared.ErrInvalidInput, tag)
	}
	return q.client.Select(ctx, Query{
		Table:   TableAnalysis,
		Select:  TaggedCallColumns,
		Filters: []Filter{Contains("suggested_tags", string(literal))},
		Order:   []Order{ParseOrder("-quality_score")},
		Limit:   TaggedCallLimit,
	})
}

// ObjectionFrequencies reads the objection frequency view.
func (q *Queries) ObjectionFrequencies(ctx context.Context) ([]models.Record, error) {
	return q.client.Select(ctx, Query{Table: ViewObjectionFreq})
}

// Angles returns up to 200 of the newest creative angle briefs matching f.
//
// Status, content type, minimum quality and start date are filtered by the database; maximum quality,
// end date and content intent are applied to the fetched rows.
func (q *Queries) Angles(ctx context.Context, f AngleFilter) ([]models.Record, error) {
	statuses := f.Statuses
	if len(statuses) == 0 {
		statuses = formatter.AngleStatuses
	}

	lo, hi := f.Quality.Min, f.Quality.Max
	if lo == 0 && hi == 0 {
		lo, hi = 70, 100
	}
	if hi <= 0 || hi > 100 {
		hi = 100
	}

	fs := []Filter{In("status", statuses)}
	fs = addIn(fs, "content_type", f.ContentTypes)
	fs = append(fs, Gte("quality_score", lo))
	if f.Dates.Start != "" {
		fs = append(fs, Gte("created_at", f.Dates.Start))
	}

	rows, err := q.client.Select(ctx, Query{
		Table:   TableContentQueue,
		Filters: fs,
		Order:   []Order{ParseOrder("-created_at")},
		Limit:   AngleFetchLimit,
	})
	if err != nil {
		return nil, err
	}

	intents := map[string]bool{}
	for _, i := range f.Intents {
		intents[i] = true
	}

	filtered := make([]models.Record, 0, len(rows))
	for _, r := range rows {
		if qs, ok := r.Float("quality_score"); ok && qs > float64(hi) {
			continue
		}
		if created := formatter.DatePrefix(r.String("created_at")); f.Dates.End != "" && created != "" && created > f.Dates.End {
			continue
		}
		if len(intents) > 0 && !intents[AngleContent(r).String("content_intent")] {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

// AngleContent returns the parsed content_text object of an angle brief.
func AngleContent(r models.Record) models.Record {
	m := r.Map("content_text")
	if m == nil {
		return models.Record{}
	}
	return models.Record(m)
}

// CaseTypes lists the distinct case types.
func (q *Queries) CaseTypes(ctx context.Context) ([]string, error) {
	return q.client.DistinctValues(ctx, TableAnalysis, "case_type")
}

// EmotionalTones lists the distinct emotional tones.
func (q *Queries) EmotionalTones(ctx context.Context) ([]string, error) {
	return q.client.DistinctValues(ctx, TableAnalysis, "emotional_tone")
}

// Outcomes lists the distinct call outcomes.
func (q *Queries) Outcomes(ctx context.Context) ([]string, error) {
	return q.client.DistinctValues(ctx, TableAnalysis, "outcome")
}

// Languages lists the distinct languages with wrapping quotes removed, in first-seen order.
func (q *Queries) Languages(ctx context.Context) ([]string, error) {
	raw, err := q.client.DistinctValues(ctx, TableAnalysis, "original_language")
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var cleaned []string
	for _, v := range raw {
		c := formatter.CleanLanguage(v)
		if c != "" && !seen[c] {
			seen[c] = true
			cleaned = append(cleaned, c)
		}
	}
	return cleaned, nil
}
