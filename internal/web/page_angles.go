package web

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/desertthunder/walkerbrain/internal/formatter"
	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/services"
)

const (
	keyAngleStatus = "status"
	keyContentType = "ctype"
	keyIntent      = "intent"

	// AnglePageSize is the number of angle cards per page.
	AnglePageSize = 20

	angleQualityMin = 70
)

// Pill is a coloured label.
type Pill struct {
	Text  string
	Color string
}

// ArcStep is one phase of an angle's emotional arc.
type ArcStep struct {
	Label string
	Text  string
}

// AngleCard is one creative angle brief.
type AngleCard struct {
	Color   string
	Pills   []Pill
	Angle   string
	Summary string
	Quotes  []string
	Arc     []ArcStep
	Why     string
	Meta    string
}

type angleBankData struct {
	Statuses     []Choice
	ContentTypes []Choice
	Intents      []Choice
	Quality      services.QualityRange
	Dates        services.DateRange
	Metrics      []MetricCard
	TypeSummary  string
	Pagination   Pagination
	Angles       []AngleCard
}

// angleBank browses creative angle briefs generated from high-quality calls.
func (a *App) angleBank(ctx context.Context, req *Request) (*View, error) {
	q := req.Query
	filter := services.AngleFilter{
		Statuses:     queryStrings(q, keyAngleStatus),
		ContentTypes: queryStrings(q, keyContentType),
		Intents:      queryStrings(q, keyIntent),
		Quality:      qualityRange(q, angleQualityMin, 100),
		Dates:        dateRange(q, req.Now, DefaultDateWindow),
	}

	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = formatter.AngleStatuses
	}
	data := &angleBankData{
		Statuses:     choices(formatter.AngleStatuses, statuses, formatter.Humanize),
		ContentTypes: choices(formatter.ContentTypes, filter.ContentTypes, formatter.Humanize),
		Intents:      choices(formatter.ContentIntents, filter.Intents, nil),
		Quality:      filter.Quality,
		Dates:        filter.Dates,
	}

	rows, err := a.data.Angles(ctx, filter)
	if err != nil {
		return nil, err
	}

	view := newView(req.Page, "Creative angle briefs generated from high-quality intake calls.", data)
	if len(rows) == 0 {
		view.notice(LevelInfo, "No creative angles found. Run WF 20 manually from n8n to generate the first batch.")
		return view, nil
	}

	data.Metrics, data.TypeSummary = angleMetrics(rows)
	data.Pagination = NewPagination(q, req.Page.Path(), len(rows), AnglePageSize, "angles")
	start, end := data.Pagination.window(len(rows))
	for _, r := range rows[start:end] {
		data.Angles = append(data.Angles, newAngleCard(r))
	}
	return view, nil
}

// angleMetrics summarises the filtered briefs and lists "Type: n" pairs, most common first.
func angleMetrics(rows []models.Record) ([]MetricCard, string) {
	var pending, approved int
	byType := map[string]int{}
	for _, r := range rows {
		switch r.String("status") {
		case "pending_review":
			pending++
		case "approved":
			approved++
		}
		ct := r.String("content_type")
		if ct == "" {
			ct = "other"
		}
		byType[ct]++
	}

	types := make([]services.ValueCount, 0, len(byType))
	for t, n := range byType {
		types = append(types, services.ValueCount{Value: t, Count: n})
	}
	sort.Slice(types, func(i, j int) bool {
		if types[i].Count != types[j].Count {
			return types[i].Count > types[j].Count
		}
		return types[i].Value < types[j].Value
	})
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%s: %d", formatter.Humanize(t.Value), t.Count))
	}

	return []MetricCard{
		metricCard("Total Angles", formatter.FormatCount(len(rows)), accentPrimary),
		metricCard("Pending Review", formatter.FormatCount(pending), accentWarning),
		metricCard("Approved", formatter.FormatCount(approved), accentSuccess),
		metricCard("Types", formatter.FormatCount(len(types)), accentInfo),
	}, strings.Join(parts, ", ")
}

var arcPhases = []ArcStep{
	{Label: "Opening", Text: "opening"},
	{Label: "Turning Point", Text: "mid"},
	{Label: "Closing", Text: "closing"},
}

func newAngleCard(r models.Record) AngleCard {
	content := services.AngleContent(r)
	contentType := r.String("content_type")
	intent := content.String("content_intent")
	funnel := content.String("funnel_stage_hint")
	status := r.String("status")

	card := AngleCard{
		Color:   formatter.ContentTypeColor(contentType),
		Angle:   content.String("creative_angle"),
		Summary: content.String("call_summary"),
		Why:     content.String("why_this_angle"),
	}

	card.Pills = append(card.Pills, Pill{Text: formatter.Humanize(contentType), Color: card.Color})
	if intent != "" {
		card.Pills = append(card.Pills, Pill{Text: intent, Color: formatter.IntentColor(intent)})
	}
	if funnel != "" {
		card.Pills = append(card.Pills, Pill{Text: funnel, Color: formatter.FunnelColor(funnel)})
	}
	card.Pills = append(card.Pills, Pill{Text: formatter.Humanize(status), Color: formatter.AngleStatusColor(status)})
	injury := "Other"
	if r.Has("injury_type") {
		injury = r.String("injury_type")
	}
	if injury != "" {
		card.Pills = append(card.Pills, Pill{Text: injury, Color: "#546e7a"})
	}
	if score, ok := r.Float("quality_score"); ok {
		card.Pills = append(card.Pills, Pill{Text: "Q: " + formatter.FormatNumber(score), Color: formatter.AngleQualityColor(score)})
	}

	for _, quote := range content.Strings("key_quotes") {
		if len(card.Quotes) == 3 {
			break
		}
		card.Quotes = append(card.Quotes, quote)
	}

	if arc := content.Map("emotional_arc"); arc != nil {
		phases := models.Record(arc)
		for _, p := range arcPhases {
			if v := phases.String(p.Text); v != "" {
				card.Arc = append(card.Arc, ArcStep{Label: p.Label, Text: v})
			}
		}
	}

	var meta []string
	if created := formatter.DatePrefix(r.String("created_at")); created != "" {
		meta = append(meta, "Created "+created)
	}
	if model := r.String("generation_model"); model != "" {
		meta = append(meta, model[strings.LastIndex(model, "/")+1:])
	}
	if cost, ok := r.Float("api_cost"); ok {
		meta = append(meta, fmt.Sprintf("$%.4f", cost))
	}
	card.Meta = strings.Join(meta, " · ")

	return card
}
