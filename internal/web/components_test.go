package web

import (
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/walkerbrain/internal/models"
)

func TestMetricCardDelta(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		text  string
		class string
	}{
		{"Up", 3, "▲ +3 vs prior week", "up"},
		{"Down", -2, "▼ -2 vs prior week", "down"},
		{"Flat", 0, "— 0 vs prior week", "flat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := metricCard("Quotes", "12", accentPrimary).withDelta(tt.delta)
			if got.Delta != tt.text || got.DeltaClass != tt.class {
				t.Errorf("withDelta(%v) = %q/%q, want %q/%q", tt.delta, got.Delta, got.DeltaClass, tt.text, tt.class)
			}
		})
	}
}

func TestShortBand(t *testing.T) {
	tests := map[string]string{
		"NEEDS IMPROVEMENT": "NEEDS.",
		"EXCELLENT":         "EXCEL.",
		"GOOD":              "GOOD",
		"FAIR":              "FAIR",
	}
	for in, want := range tests {
		if got := shortBand(in); got != want {
			t.Errorf("shortBand(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPanel(t *testing.T) {
	t.Run("Error Wins", func(t *testing.T) {
		p := panel("T", "", &Figure{}, errors.New("down"), "empty", "failed")
		if p.Figure != nil || p.Empty != "failed" {
			t.Errorf("unexpected panel %+v", p)
		}
	})

	t.Run("Empty Without Figure", func(t *testing.T) {
		p := panel("T", "", nil, nil, "empty", "failed")
		if p.Empty != "empty" {
			t.Errorf("Empty = %q", p.Empty)
		}
	})
}

func TestHasBaseline(t *testing.T) {
	tests := []struct {
		this, last int
		want       bool
	}{
		{10, 0, false},
		{100, 9, false},
		{100, 10, true},
		{0, 1, true},
	}
	for _, tt := range tests {
		if got := hasBaseline(tt.this, tt.last); got != tt.want {
			t.Errorf("hasBaseline(%d, %d) = %v, want %v", tt.this, tt.last, got, tt.want)
		}
	}
}

func TestTagSize(t *testing.T) {
	tests := map[int]string{101: "tag-xl", 100: "tag-lg", 51: "tag-lg", 21: "tag-md", 20: "tag-sm", 0: "tag-sm"}
	for count, want := range tests {
		if got := tagSize(count); got != want {
			t.Errorf("tagSize(%d) = %q, want %q", count, got, want)
		}
	}
}

func TestExplorerCell(t *testing.T) {
	r := models.Record{
		"source_transcript_id": "0123456789",
		"quality_score":        71.5,
		"case_type":            nil,
		"suggested_tags":       []any{"whiplash", "rear-end"},
	}
	tests := []struct {
		column string
		want   string
	}{
		{"source_transcript_id", "01234567…"},
		{"case_type", "—"},
		{"missing", "—"},
		{"quality_score", "71.5"},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			if got := explorerCell(r, tt.column); got != tt.want {
				t.Errorf("explorerCell(%q) = %q, want %q", tt.column, got, tt.want)
			}
		})
	}
}

func TestActiveGroups(t *testing.T) {
	t.Run("Defaults To Core", func(t *testing.T) {
		got := activeGroups(nil)
		if len(got) != 1 || got[0] != "Core" {
			t.Errorf("activeGroups(nil) = %v", got)
		}
	})

	t.Run("Drops Unknown Groups", func(t *testing.T) {
		got := activeGroups([]string{"bogus"})
		if len(got) != 1 || got[0] != "Core" {
			t.Errorf("activeGroups(bogus) = %v", got)
		}
	})
}

func TestNewAngleCard(t *testing.T) {
	r := models.Record{
		"status":           "approved",
		"content_type":     "short_video",
		"quality_score":    84.0,
		"created_at":       "2025-06-02T10:00:00Z",
		"generation_model": "anthropic/claude-sonnet",
		"api_cost":         0.0123,
		"content_text": map[string]any{
			"creative_angle":    "From panic to plan",
			"call_summary":      "Caller was rear-ended.",
			"content_intent":    "educate",
			"funnel_stage_hint": "awareness",
			"key_quotes":        []any{"one", "two", "three", "four"},
			"emotional_arc":     map[string]any{"opening": "scared", "closing": "relieved"},
			"why_this_angle":    "Shows the turn.",
		},
	}

	card := newAngleCard(r)
	if card.Angle != "From panic to plan" || card.Why != "Shows the turn." {
		t.Errorf("unexpected content %+v", card)
	}
	if len(card.Quotes) != 3 {
		t.Errorf("expected 3 quotes, got %d", len(card.Quotes))
	}
	if len(card.Arc) != 2 || card.Arc[0].Label != "Opening" || card.Arc[1].Label != "Closing" {
		t.Errorf("unexpected arc %+v", card.Arc)
	}

	var texts []string
	for _, p := range card.Pills {
		texts = append(texts, p.Text)
	}
	joined := strings.Join(texts, "|")
	if joined != "Short Video|educate|awareness|Approved|Other|Q: 84" {
		t.Errorf("pills = %q", joined)
	}
	if card.Meta != "Created 2025-06-02 · claude-sonnet · $0.0123" {
		t.Errorf("meta = %q", card.Meta)
	}
}

func TestCostSection(t *testing.T) {
	t.Run("Oldest First", func(t *testing.T) {
		rows := []models.Record{
			{"date": "2025-06-03", "total_cost": 3.0, "calls_processed": 30},
			{"date": "2025-06-02", "total_cost": 1.0, "calls_processed": 10},
		}
		p, cards := costSection(rows)
		if p.Figure == nil {
			t.Fatal("expected a chart")
		}
		if len(cards) != 3 || cards[0].Value != "$4.00" || cards[1].Value != "$2.00" || cards[2].Value != "40" {
			t.Errorf("unexpected cards %+v", cards)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		p, cards := costSection(nil)
		if p.Empty != "No cost data available." || cards != nil {
			t.Errorf("unexpected %+v %+v", p, cards)
		}
	})
}

func TestCalibrationSection(t *testing.T) {
	labels := func(n int) []models.Record {
		rows := make([]models.Record, n)
		for i := range rows {
			rows[i] = models.Record{"production_quality_score": float64(60 + i), "consensus_quality_score": float64(62 + i)}
		}
		return rows
	}

	t.Run("Too Few Labels", func(t *testing.T) {
		p, caption := calibrationSection(labels(5), nil)
		if p.Figure != nil || caption != "" {
			t.Errorf("expected no chart, got %+v %q", p, caption)
		}
	})

	t.Run("Chart", func(t *testing.T) {
		p, caption := calibrationSection(labels(12), nil)
		if p.Figure == nil || caption != "12 calibration labels" {
			t.Errorf("expected chart, got %+v %q", p, caption)
		}
	})

	t.Run("Unavailable", func(t *testing.T) {
		p, _ := calibrationSection(nil, errors.New("missing table"))
		if p.Empty != "Calibration data table not available." {
			t.Errorf("Empty = %q", p.Empty)
		}
	})
}

func TestNewDriftAlert(t *testing.T) {
	a := newDriftAlert(models.Record{"created_at": "2025-06-01T00:00:00Z"})
	if a.Report != "No report available." || a.Label != "2025-06-01" {
		t.Errorf("unexpected alert %+v", a)
	}
}
