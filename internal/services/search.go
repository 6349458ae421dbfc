package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/walkerbrain/internal/shared"
)

// DefaultMaxResults is used when a transcript search does not set MaxResults.
const DefaultMaxResults = 20

// TranscriptQuery is a full-text search request.
type TranscriptQuery struct {
	Keyword    string
	MinQuality int
	MaxResults int
}

// TranscriptHit is one search result. Headline and Snippet may contain <b> highlight tags.
type TranscriptHit struct {
	SourceTranscriptID string
	QualityScore       float64
	CaseType           string
	CallStartDate      string
	Headline           string
	Snippet            string
}

// TranscriptSearcher runs full-text search over call transcripts.
type TranscriptSearcher interface {
	SearchTranscripts(ctx context.Context, q TranscriptQuery) ([]TranscriptHit, error)
}

// SearchTranscripts calls the search_transcripts database function.
// An empty keyword returns [shared.ErrInvalidInput] without a request.
func (q *Queries) SearchTranscripts(ctx context.Context, tq TranscriptQuery) ([]TranscriptHit, error) {
	keyword := strings.TrimSpace(tq.Keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: keyword is required", shared.ErrInvalidInput)
	}

	limit := tq.MaxResults
	if limit <= 0 {
		limit = DefaultMaxResults
	}

	rows, err := q.client.RPC(ctx, RPCSearchTranscript, map[string]any{
		"query":       keyword,
		"min_quality": tq.MinQuality,
		"max_results": limit,
	})
	if err != nil {
		return nil, err
	}

	hits := make([]TranscriptHit, 0, len(rows))
	for _, r := range rows {
		score, _ := r.Float("quality_score")
		hits = append(hits, TranscriptHit{
			SourceTranscriptID: r.String("source_transcript_id"),
			QualityScore:       score,
			CaseType:           r.String("case_type"),
			CallStartDate:      r.String("call_start_date"),
			Headline:           r.String("headline"),
			Snippet:            r.String("snippet"),
		})
	}
	return hits, nil
}
