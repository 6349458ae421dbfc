package web

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/desertthunder/walkerbrain/internal/formatter"
	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/shared"
)

// Field is one labelled value of the detail panel. Items and Pairs are set for list and object values.
type Field struct {
	Label string
	Text  string
	Items []string
	Pairs []Pair
}

type Pair struct {
	Key   string
	Value string
}

// Metric is a labelled number tile.
type Metric struct {
	Label string
	Value string
}

// AgentScore is a 0-10 score with its colour class and bar width.
type AgentScore struct {
	Label   string
	Value   string
	Class   string
	Percent int
	Missing bool
}

// CallDetail is the tabbed detail panel for one call.
type CallDetail struct {
	ID       string
	Summary  string
	KeyQuote string

	SubScores   []Metric
	AgentScores []AgentScore
	Arc         string

	Liability      string
	Injury         string
	Documentation  string
	EstimatedValue string
	Objections     []Field

	Language []Field
	CX       []Field
	Content  []Field

	Prompt     string
	Confidence string
	Validation string
	Cost       string
	TokensIn   string
	TokensOut  string

	TranscriptURL     string
	Transcript        *formatter.Transcript
	TranscriptRaw     string
	TranscriptMissing bool
}

var (
	agentScoreFields = []struct{ key, label string }{
		{"agent_empathy_score", "Empathy"},
		{"agent_education_quality", "Education"},
		{"agent_objection_handling", "Objection Handling"},
		{"agent_closing_effectiveness", "Closing"},
	}

	objectionFields = []string{
		"objection_categories", "mid_call_dropout_moment", "conversion_driver",
		"drop_off_reason", "agent_intervention_that_worked", "moment_that_closed",
	}
	languageFields = []string{
		"reading_level_estimate", "communication_style", "spanglish_detected",
		"colloquialisms", "cultural_markers", "family_references",
		"verbatim_customer_language",
	}
	cxFields = []string{
		"questions_repeated_by_attorney", "attorney_used_prior_info",
		"handoff_wait_time_mentioned", "attorney_sentiment",
		"attorney_rejection_reason",
	}
	contentFields = []string{
		"common_questions_asked", "misunderstandings",
		"education_calming_moment", "process_confusion_points",
		"other_brands_mentioned", "competitive_comparison",
		"category_confusion", "ad_or_creative_referenced",
		"ad_promise_vs_reality_mismatch", "repeated_questions_from_caller",
	}

	listFields = map[string]bool{
		"objection_categories":           true,
		"colloquialisms":                 true,
		"cultural_markers":               true,
		"family_references":              true,
		"verbatim_customer_language":     true,
		"questions_repeated_by_attorney": true,
		"common_questions_asked":         true,
		"misunderstandings":              true,
		"process_confusion_points":       true,
		"other_brands_mentioned":         true,
		"repeated_questions_from_caller": true,
	}
)

// orDash returns the text at key, or an em-dash when the column is null or missing.
func orDash(r models.Record, key string) string {
	if !r.Has(key) {
		return formatter.EmDash
	}
	return r.String(key)
}

// newField renders one column. List columns drop falsy sentinels and object columns drop sentinel values;
// anything left empty is shown as an em-dash.
func newField(r models.Record, key string) Field {
	f := Field{Label: formatter.Humanize(key)}
	v, ok := r[key]
	if !ok || v == nil {
		f.Text = formatter.EmDash
		return f
	}

	if listFields[key] {
		if m := r.Map(key); m != nil {
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if !formatter.IsFalsySentinel(m[k]) {
					f.Pairs = append(f.Pairs, Pair{Key: formatter.Humanize(k), Value: models.Stringify(m[k])})
				}
			}
			if len(f.Pairs) == 0 {
				f.Text = formatter.EmDash
			}
			return f
		}

		for _, item := range r.Strings(key) {
			if !formatter.IsFalsySentinel(item) {
				f.Items = append(f.Items, item)
			}
		}
		if len(f.Items) == 0 {
			f.Text = formatter.EmDash
		}
		return f
	}

	f.Text = models.Stringify(v)
	return f
}

func anyReal(r models.Record, keys []string) bool {
	for _, k := range keys {
		if formatter.HasRealValue(r[k]) {
			return true
		}
	}
	return false
}

// newCallDetail groups a full analysis row into the Overview, Case, Language, Content and Developer tabs.
func newCallDetail(r models.Record) *CallDetail {
	d := &CallDetail{
		ID:       r.String("source_transcript_id"),
		Summary:  orDash(r, "summary"),
		KeyQuote: r.String("key_quote"),
		Arc: strings.Join([]string{
			orDash(r, "opening_emotional_state"),
			orDash(r, "mid_call_emotional_shift"),
			orDash(r, "end_state_emotion"),
		}, " → "),
		Liability:     orDash(r, "liability_clarity"),
		Injury:        orDash(r, "injury_severity"),
		Documentation: orDash(r, "documentation_quality"),
		Prompt:        orDash(r, "prompt_version_used"),
		Confidence:    orDash(r, "confidence_score"),
		TokensIn:      orDash(r, "input_tokens"),
		TokensOut:     orDash(r, "output_tokens"),
	}

	if scores := r.Map("quality_sub_scores"); len(scores) > 0 {
		keys := make([]string, 0, len(scores))
		for k := range scores {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			value := formatter.EmDash
			if scores[k] != nil {
				value = models.Stringify(scores[k])
			}
			d.SubScores = append(d.SubScores, Metric{Label: formatter.Humanize(k), Value: value})
		}
	}

	for _, s := range agentScoreFields {
		score, ok := r.Float(s.key)
		if !ok {
			d.AgentScores = append(d.AgentScores, AgentScore{Label: s.label, Value: formatter.EmDash, Missing: true})
			continue
		}
		d.AgentScores = append(d.AgentScores, AgentScore{
			Label:   s.label,
			Value:   formatter.FormatNumber(score) + "/10",
			Class:   formatter.AgentScoreClass(score),
			Percent: int(min(max(score*10, 0), 100)),
		})
	}

	if v := formatter.CaseValue(r); v != formatter.EmDash {
		d.EstimatedValue = v
	}

	if anyReal(r, objectionFields) {
		for _, k := range objectionFields {
			d.Objections = append(d.Objections, newField(r, k))
		}
	}
	for _, k := range languageFields {
		d.Language = append(d.Language, newField(r, k))
	}
	if anyReal(r, cxFields) {
		for _, k := range cxFields {
			d.CX = append(d.CX, newField(r, k))
		}
	}
	for _, k := range contentFields {
		if formatter.HasRealValue(r[k]) {
			d.Content = append(d.Content, newField(r, k))
		}
	}

	switch {
	case !r.Has("validation_passed"):
		d.Validation = formatter.EmDash
	case r.Bool("validation_passed"):
		d.Validation = "Passed"
	default:
		d.Validation = "Failed"
	}

	cost, _ := r.Float("api_cost")
	d.Cost = fmt.Sprintf("$%.4f", cost)

	return d
}

// loadCallDetail fetches the detail panel for id and, when withTranscript is set, the transcript.
// A missing call returns nil without error.
func (a *App) loadCallDetail(ctx context.Context, id string, withTranscript bool) (*CallDetail, error) {
	row, err := a.data.CallDetail(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	d := newCallDetail(row)
	if d.ID == "" {
		d.ID = id
	}
	if !withTranscript {
		return d, nil
	}

	raw, err := a.data.Transcript(ctx, id)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		d.TranscriptMissing = true
		return d, nil
	}
	t := formatter.SplitTranscript(raw)
	d.Transcript = &t
	d.TranscriptRaw = raw
	return d, nil
}
