package web

import (
	"context"

	"github.com/desertthunder/walkerbrain/internal/formatter"
	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/services"
	"github.com/desertthunder/walkerbrain/internal/tasks"
)

// HighlightWindow is the number of days Today's Highlights summarises.
const HighlightWindow = 7

type highlightsData struct {
	Metrics       []MetricCard
	MetricsFailed bool
	TopQuotes     []QuoteCard
	QuotesEmpty   string
	Trending      []Panel
	Volume        Panel
	Quality       Panel
	CaseTypes     Panel
}

// highlights is the marketing summary of the last week. Every section loads concurrently and fails on its own.
func (a *App) highlights(ctx context.Context, req *Request) (*View, error) {
	var (
		current, prior       services.PeriodMetrics
		topQuotes            []models.Record
		objections, faqs     []models.Record
		caseTypes, testTypes []models.Record
		daily                []services.DailyVolume
		scores               []models.Record
		updated              string
	)

	res := tasks.Run(ctx, tasks.DefaultWorkers,
		tasks.Section{Name: "metrics", Load: func(ctx context.Context) (err error) {
			current, err = a.data.WeeklyMetrics(ctx, HighlightWindow, 0)
			return err
		}},
		tasks.Section{Name: "prior metrics", Load: func(ctx context.Context) (err error) {
			prior, err = a.data.WeeklyMetrics(ctx, HighlightWindow, 1)
			return err
		}},
		tasks.Section{Name: "top quotes", Load: func(ctx context.Context) (err error) {
			topQuotes, err = a.data.TopQuotes(ctx, HighlightWindow, 5)
			return err
		}},
		tasks.Section{Name: "objections", Load: func(ctx context.Context) (err error) {
			objections, err = a.data.RecentColumn(ctx, "objection_categories", HighlightWindow)
			return err
		}},
		tasks.Section{Name: "case types", Load: func(ctx context.Context) (err error) {
			caseTypes, err = a.data.RecentColumn(ctx, "case_type", HighlightWindow)
			return err
		}},
		tasks.Section{Name: "testimonial types", Load: func(ctx context.Context) (err error) {
			testTypes, err = a.data.RecentColumn(ctx, "testimonial_type", HighlightWindow,
				services.Eq("testimonial_candidate", true))
			return err
		}},
		tasks.Section{Name: "faq signals", Load: func(ctx context.Context) (err error) {
			faqs, err = a.data.RecentColumn(ctx, "repeated_questions_from_caller", HighlightWindow)
			return err
		}},
		tasks.Section{Name: "volume", Load: func(ctx context.Context) (err error) {
			daily, err = a.data.DailyVolume(ctx, HighlightWindow)
			return err
		}},
		tasks.Section{Name: "quality", Load: func(ctx context.Context) (err error) {
			scores, err = a.data.RecentColumn(ctx, "quality_score", HighlightWindow)
			return err
		}},
		tasks.Section{Name: "updated", Load: func(ctx context.Context) error {
			updated = a.lastUpdated(ctx)
			return nil
		}},
	)
	for _, f := range res.Failed() {
		a.logger.Warn("highlights section failed", "section", f.Name, "error", f.Err)
	}

	data := &highlightsData{}

	if err := res.Err("metrics"); err != nil {
		data.MetricsFailed = true
	} else {
		// A failed prior window compares against zero.
		band := formatter.QualityBand(current.MedianQuality, true)
		data.Metrics = []MetricCard{
			metricCard("New Quotes (7d)", formatter.FormatCount(current.Quotes), accentPrimary).
				withDelta(float64(current.Quotes - prior.Quotes)),
			metricCard("Testimonials (7d)", formatter.FormatCount(current.Testimonials), accentSuccess).
				withDelta(float64(current.Testimonials - prior.Testimonials)),
			metricCard("Content-Worthy (7d)", formatter.FormatCount(current.ContentWorthy), accentInfo).
				withDelta(float64(current.ContentWorthy - prior.ContentWorthy)),
			metricCard("Quality (7d)", formatter.FormatNumber(current.MedianQuality)+" — "+shortBand(band.Name), band.Color).
				withDelta(current.MedianQuality - prior.MedianQuality),
		}
	}

	switch {
	case res.Err("top quotes") != nil:
		data.QuotesEmpty = "Quote data unavailable."
	case len(topQuotes) == 0:
		data.QuotesEmpty = "No quote data available yet."
	default:
		data.TopQuotes = quoteCards(topQuotes)
	}

	caseCounts := services.Tally(caseTypes, "case_type")
	data.Trending = []Panel{
		trendingPanel("Top Objections", services.Top(services.Tally(objections, "objection_categories"), 8),
			formatter.Humanize, res.Err("objections"), "No objection data this week.", "Objection data unavailable."),
		trendingPanel("Case Types", services.Top(caseCounts, 6),
			formatter.Humanize, res.Err("case types"), "No case type data this week.", "Case type data unavailable."),
		trendingPanel("Testimonial Candidates", services.Tally(testTypes, "testimonial_type"),
			formatter.TestimonialTypeLabel, res.Err("testimonial types"), "No testimonial candidates this week.", "Testimonial data unavailable."),
		trendingPanel("Top FAQ Signals", services.Top(services.Tally(faqs, "repeated_questions_from_caller"), 6),
			nil, res.Err("faq signals"), "No FAQ signals this week.", "FAQ data unavailable."),
	}

	var volume *Figure
	if len(daily) > 0 {
		volume = VolumeTrend(daily)
	}
	data.Volume = panel("Call Volume", "Last 7 days", volume, res.Err("volume"),
		"No volume data available.", "Chart unavailable.")

	var quality *Figure
	if values := scoreValues(scores, "quality_score"); len(values) > 0 {
		quality = QualityHistogram(values)
	}
	data.Quality = panel("Quality Distribution", "Last 7 days", quality, res.Err("quality"),
		"No quality data available.", "Quality distribution unavailable.")

	var pie *Figure
	if len(caseCounts) > 0 {
		pie = CaseTypePie(caseCounts)
	}
	data.CaseTypes = panel("Case Type Distribution", "Last 7 days", pie, res.Err("case types"),
		"No case type data available.", "Case type distribution unavailable.")

	caption := "Curated content picks for the creative team."
	if updated != "" {
		caption += " · Data last updated: " + updated
	}
	return newView(req.Page, caption, data), nil
}

func trendingPanel(title string, counts []services.ValueCount, label func(string) string, err error, empty, failed string) Panel {
	var fig *Figure
	if len(counts) > 0 {
		fig = TrendingBar(title, counts, label)
	}
	return panel(title, "", fig, err, empty, failed)
}

// scoreValues collects the numeric values of column.
func scoreValues(rows []models.Record, column string) []float64 {
	values := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v, ok := r.Float(column); ok {
			values = append(values, v)
		}
	}
	return values
}
