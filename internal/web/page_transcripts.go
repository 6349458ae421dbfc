package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/desertthunder/walkerbrain/internal/formatter"
	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/services"
	"github.com/desertthunder/walkerbrain/internal/shared"
)

// MaxResultOptions are the selectable transcript search result limits.
var MaxResultOptions = []int{10, 20, 50}

// TranscriptResult is one rendered search hit.
type TranscriptResult struct {
	ID       string
	Quality  formatter.Badge
	CaseType string
	Date     string
	CallURL  string
	Headline template.HTML
	Snippet  template.HTML
}

type transcriptSearchData struct {
	Keyword    string
	MinQuality int
	MaxResults int
	Options    []int
	Submitted  bool
	Results    []TranscriptResult
	Summary    string
}

func newTranscriptResult(hit services.TranscriptHit) TranscriptResult {
	res := TranscriptResult{
		ID:       hit.SourceTranscriptID,
		CaseType: hit.CaseType,
		CallURL:  withQuery(CallSearch.Path(), nil, keyCall, hit.SourceTranscriptID),
		Quality: formatter.Badge{
			Text:  "Quality: " + formatter.FormatNumber(hit.QualityScore),
			Class: formatter.SearchBadgeClass(hit.QualityScore),
		},
		// Highlight tags come from the database; everything else is escaped.
		Headline: template.HTML(formatter.HighlightHTML(hit.Headline)),
	}
	if strings.TrimSpace(hit.Snippet) != "" {
		res.Snippet = template.HTML(formatter.HighlightHTML(hit.Snippet))
	}
	if res.CaseType == "" {
		res.CaseType = "Unknown"
	}
	if hit.CallStartDate != "" {
		if t, ok := models.ParseDate(hit.CallStartDate); ok {
			res.Date = formatter.FormatShortDate(t)
		} else {
			res.Date = formatter.DatePrefix(hit.CallStartDate)
		}
	}
	return res
}

// transcriptSearch runs the full-text search RPC. Ranking and snippets are computed by the database.
func (a *App) transcriptSearch(ctx context.Context, req *Request) (*View, error) {
	q := req.Query
	data := &transcriptSearchData{
		Keyword:    strings.TrimSpace(q.Get(keyText)),
		MinQuality: queryInt(q, "min_quality", 0, 0, 100) / 5 * 5,
		MaxResults: services.DefaultMaxResults,
		Options:    MaxResultOptions,
		Submitted:  q.Has(keyText),
	}
	if n := queryInt(q, "max_results", 0, 0, 50); n > 0 {
		for _, opt := range MaxResultOptions {
			if n == opt {
				data.MaxResults = n
			}
		}
	}

	view := newView(req.Page, "Search across analyzed call transcripts by keyword. Uses full-text indexing for fast results.", data)
	if !data.Submitted {
		return view, nil
	}

	hits, err := a.search.SearchTranscripts(ctx, services.TranscriptQuery{
		Keyword:    data.Keyword,
		MinQuality: data.MinQuality,
		MaxResults: data.MaxResults,
	})
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		view.notice(LevelWarning, "Please enter a keyword to search.")
		return view, nil
	case err != nil:
		return nil, err
	}

	if len(hits) == 0 {
		view.notice(LevelInfo, fmt.Sprintf(
			"No transcripts found for %q. Try a different keyword or lower the minimum quality score.", data.Keyword))
		return view, nil
	}

	for _, h := range hits {
		data.Results = append(data.Results, newTranscriptResult(h))
	}
	plural := "s"
	if len(hits) == 1 {
		plural = ""
	}
	data.Summary = fmt.Sprintf("%d result%s for %q", len(hits), plural, data.Keyword)
	return view, nil
}
