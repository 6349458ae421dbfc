package web

import (
	"strconv"
	"strings"

	"github.com/desertthunder/walkerbrain/internal/formatter"
	"github.com/desertthunder/walkerbrain/internal/models"
)

// CallCard is a compact search result.
type CallCard struct {
	ID        string
	ShortID   string
	CaseType  string
	CaseValue string
	Quality   formatter.Badge
	Tone      formatter.Badge
	Date      string
	Summary   string
	Quote     string
	Tags      string
	DetailURL string
	Open      bool
}

func newCallCard(r models.Record) CallCard {
	card := CallCard{
		ID:       r.String("source_transcript_id"),
		CaseType: r.String("case_type"),
		Date:     formatter.DatePrefix(r.String("analyzed_at")),
		Summary:  formatter.Truncate(r.String("summary"), 200),
		Quote:    formatter.Truncate(r.String("key_quote"), 200),
	}
	card.ShortID = formatter.ShortID(card.ID)

	if cat := r.String("estimated_case_value_category"); !formatter.IsFalsySentinel(cat) {
		card.CaseValue = cat
	}

	score, ok := r.Float("quality_score")
	card.Quality = formatter.Badge{Text: "Quality: " + formatter.EmDash, Class: formatter.BadgeInfo}
	if ok {
		card.Quality = formatter.Badge{
			Text:  "Quality: " + formatter.FormatNumber(score),
			Class: formatter.QualityBadgeClass(formatter.QualityBand(score, true)),
		}
	}

	tone := r.String("emotional_tone")
	card.Tone = formatter.Badge{Text: formatter.EmDash, Class: formatter.ToneBadgeClass(tone)}
	if tone != "" {
		card.Tone.Text = formatter.Humanize(tone)
	}

	if tags := r.Strings("suggested_tags"); len(tags) > 0 {
		card.Tags = strings.Join(tags[:min(len(tags), 5)], ", ")
	}
	return card
}

func callCards(rows []models.Record) []CallCard {
	cards := make([]CallCard, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, newCallCard(r))
	}
	return cards
}

// QuoteCard pairs a quote with its selection state for export.
type QuoteCard struct {
	formatter.Quote
	Key string
}

func quoteCards(rows []models.Record) []QuoteCard {
	cards := make([]QuoteCard, 0, len(rows))
	for i, r := range rows {
		q := formatter.QuoteFromRecord(r)
		key := q.ID
		if key == "" {
			key = "row-" + strconv.Itoa(i)
		}
		cards = append(cards, QuoteCard{Quote: q, Key: key})
	}
	return cards
}

// TestimonialCard is one kanban card.
type TestimonialCard struct {
	ID        string
	TypeLabel string
	Caption   string
	Quote     string
	Notes     string
	Color     string
}

func newTestimonialCard(r models.Record) TestimonialCard {
	quality := r.String("quality_score")
	if quality == "" {
		quality = "None"
	}

	card := TestimonialCard{
		ID:        r.String("source_transcript_id"),
		TypeLabel: formatter.TestimonialTypeLabel(r.String("testimonial_type")),
		Caption:   r.String("case_type") + " | Quality: " + quality,
		Notes:     r.String("notes"),
	}
	score, ok := r.Float("quality_score")
	card.Color = formatter.QualityBand(score, ok).Color

	if quote := r.String("key_quote"); quote != "" {
		card.Quote = formatter.Truncate(quote, 80)
	}
	return card
}
