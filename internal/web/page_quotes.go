package web

import (
	"context"

	"github.com/desertthunder/walkerbrain/internal/formatter"
	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/services"
)

type quoteBankData struct {
	Form        FilterForm
	Updated     string
	Pagination  Pagination
	Quotes      []QuoteCard
	Selected    []string
	ExportLabel string
}

// quoteBank lists key quotes with badge pills and exports the visible or ticked ones.
func (a *App) quoteBank(ctx context.Context, req *Request) (*View, error) {
	q := req.Query
	filter := services.QuoteFilter{
		Quality:         qualityRange(q, 0, 100),
		Dates:           dateRange(q, req.Now, DefaultDateWindow),
		CaseTypes:       queryStrings(q, keyCaseType),
		Tones:           queryStrings(q, keyTone),
		Languages:       queryStrings(q, keyLanguage),
		TestimonialOnly: queryBool(q, keyTestimonial),
	}

	data := &quoteBankData{
		Form:    newFilterForm(q, a.loadOptions(ctx), filter.Quality, filter.Dates),
		Updated: a.lastUpdated(ctx),
	}

	total, err := a.data.CountQuotes(ctx, filter)
	if err != nil {
		return nil, err
	}
	data.Pagination = NewPagination(q, req.Page.Path(), total, services.DefaultPageSize, "quotes")
	filter.Page = services.Page{Limit: services.DefaultPageSize, Offset: data.Pagination.Offset()}

	rows, err := a.data.Quotes(ctx, filter)
	if err != nil {
		return nil, err
	}
	data.Quotes = quoteCards(rows)
	data.Selected = queryStrings(q, keySelected)

	view := newView(req.Page, "", data)
	if len(data.Quotes) == 0 {
		view.notice(LevelInfo, "No quotes found matching your filters.")
		return view, nil
	}

	data.ExportLabel = "visible"
	if len(data.Selected) > 0 {
		data.ExportLabel = "selected"
	}

	switch exportFormat(q) {
	case ExportCSV:
		picked := selectedRows(rows, data.Selected, func(r models.Record) string {
			return r.String("source_transcript_id")
		})
		view.Download, err = csvDownload("quotes_export", picked, columnList(services.QuoteColumns), req.Now)
	case ExportMarkdown:
		picked := selectedRows(data.Quotes, data.Selected, func(c QuoteCard) string { return c.Key })
		quotes := make([]formatter.Quote, 0, len(picked))
		for _, c := range picked {
			if c.Text != "" {
				quotes = append(quotes, c.Quote)
			}
		}
		title := "Quote Export — " + formatter.FormatShortDate(req.Now)
		view.Download, err = markdownDownload("quotes_export", title, quotes, req.Now)
	}
	if err != nil {
		return nil, err
	}
	return view, nil
}

// lastUpdated renders the newest analysis time, or "" when unknown.
func (a *App) lastUpdated(ctx context.Context) string {
	t, ok, err := a.data.LastUpdated(ctx)
	if err != nil {
		a.logger.Warn("last updated unavailable", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return formatter.FormatLastUpdated(t)
}
