package formatter

import (
	"strings"

	"github.com/desertthunder/walkerbrain/internal/models"
)

// Badge is a labelled pill.
type Badge struct {
	Text  string
	Class string
}

// Quote is the display model for one quote card.
type Quote struct {
	ID              string
	Text            string
	CaseType        string
	Tone            string
	Quality         float64
	HasQuality      bool
	Language        string
	Date            string
	Tags            []string
	Testimonial     bool
	TestimonialType string
}

// QuoteFromRecord builds a [Quote] from an analysis row.
func QuoteFromRecord(r models.Record) Quote {
	q := Quote{
		ID:              r.String("source_transcript_id"),
		Text:            r.String("key_quote"),
		CaseType:        r.String("case_type"),
		Tone:            r.String("emotional_tone"),
		Language:        r.String("original_language"),
		Date:            DatePrefix(r.String("analyzed_at")),
		Tags:            r.Strings("suggested_tags"),
		Testimonial:     r.Bool("testimonial_candidate"),
		TestimonialType: r.String("testimonial_type"),
	}
	q.Quality, q.HasQuality = r.Float("quality_score")
	return q
}

// Band returns the quote's quality band.
func (q Quote) Band() Band { return QualityBand(q.Quality, q.HasQuality) }

// Badges returns the quote's pill row: case type, tone, quality and language code.
func (q Quote) Badges() []Badge {
	var badges []Badge
	if q.CaseType != "" {
		badges = append(badges, Badge{Text: q.CaseType, Class: BadgeInfo})
	}
	if q.Tone != "" {
		badges = append(badges, Badge{Text: q.Tone, Class: ToneBadgeClass(q.Tone)})
	}
	if q.HasQuality {
		badges = append(badges, Badge{
			Text:  "Quality: " + FormatNumber(q.Quality),
			Class: QualityBadgeClass(q.Band()),
		})
	}
	if code := LanguageCode(q.Language); code != "" {
		badges = append(badges, Badge{Text: code, Class: BadgeInfo})
	}
	return badges
}

// Meta returns the card's meta line parts: short ID, first five tags, testimonial type and date.
func (q Quote) Meta() []string {
	var parts []string
	if q.ID != "" {
		parts = append(parts, ShortID(q.ID))
	}
	if len(q.Tags) > 0 {
		tags := q.Tags
		if len(tags) > 5 {
			tags = tags[:5]
		}
		parts = append(parts, "Tags: "+strings.Join(tags, ", "))
	}
	if q.Testimonial && q.TestimonialType != "" {
		parts = append(parts, "Testimonial: "+TestimonialTypeLabel(q.TestimonialType))
	}
	if q.Date != "" {
		parts = append(parts, q.Date)
	}
	return parts
}

// Clipboard returns the copy-ready text for the quote.
func (q Quote) Clipboard() string {
	var quality *float64
	if q.HasQuality {
		quality = &q.Quality
	}
	return QuoteClipboard(q.Text, q.CaseType, q.Tone, quality, q.Date)
}

// QuoteClipboard formats a quote with context for creative briefs:
//
//	"quote"
//	Case type: x | Tone: y | Quality: 82/100 | Date: 2026-01-05
func QuoteClipboard(quote, caseType, tone string, quality *float64, date string) string {
	out := `"` + quote + `"`

	var meta []string
	if caseType != "" {
		meta = append(meta, "Case type: "+caseType)
	}
	if tone != "" {
		meta = append(meta, "Tone: "+tone)
	}
	if quality != nil {
		meta = append(meta, "Quality: "+FormatNumber(*quality)+"/100")
	}
	if date != "" {
		meta = append(meta, "Date: "+date)
	}
	if len(meta) > 0 {
		out += "\n" + strings.Join(meta, " | ")
	}
	return out
}

var subScoreLabels = []struct {
	key   string
	label string
}{
	{key: "case_potential", label: "Case"},
	{key: "narrative_quality", label: "Narr"},
	{key: "agent_performance", label: "Agent"},
	{key: "completeness", label: "Compl"},
}

// SubScoreSummary compacts a quality_sub_scores object into "Case:8 | Narr:7 | Agent:9 | Compl:6".
// Missing keys are skipped; an empty or absent object yields an em-dash.
func SubScoreSummary(scores map[string]any) string {
	var parts []string
	for _, s := range subScoreLabels {
		v, ok := scores[s.key]
		if !ok || v == nil {
			continue
		}
		parts = append(parts, s.label+":"+models.Stringify(v))
	}
	if len(parts) == 0 {
		return EmDash
	}
	return strings.Join(parts, " | ")
}

// RowBadges composes the badge pills for a call row: case type, quality, tone and, when flagged,
// testimonial and content-worthy markers.
func RowBadges(r models.Record) []Badge {
	var badges []Badge

	if ct := r.String("case_type"); ct != "" {
		badges = append(badges, Badge{Text: ct, Class: BadgeInfo})
	}

	score, ok := r.Float("quality_score")
	band := QualityBand(score, ok)
	if ok {
		badges = append(badges, Badge{Text: "Quality: " + FormatNumber(score), Class: QualityBadgeClass(band)})
	}

	if tone := r.String("emotional_tone"); tone != "" {
		badges = append(badges, Badge{Text: Humanize(tone), Class: ToneBadgeClass(tone)})
	}

	if r.Bool("testimonial_candidate") {
		label := "Testimonial"
		if t := r.String("testimonial_type"); t != "" {
			label += ": " + TestimonialTypeLabel(t)
		}
		badges = append(badges, Badge{Text: label, Class: BadgeSuccess})
	}

	if r.Bool("content_generation_flag") {
		badges = append(badges, Badge{Text: "Content-worthy", Class: BadgeSuccess})
	}

	return badges
}
