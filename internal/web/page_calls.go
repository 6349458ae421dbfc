package web

import (
	"context"
	"strings"

	"github.com/desertthunder/walkerbrain/internal/services"
)

type callSearchData struct {
	Form          FilterForm
	Pagination    Pagination
	Calls         []CallCard
	Detail        *CallDetail
	DetailMissing bool
	ExportURL     string
}

// callSearch filters calls, shows them as cards and opens the detail panel for ?call=<id>.
func (a *App) callSearch(ctx context.Context, req *Request) (*View, error) {
	q := req.Query
	filter := services.CallFilter{
		Text:          strings.TrimSpace(q.Get(keyText)),
		Quality:       qualityRange(q, 0, 100),
		Dates:         dateRange(q, req.Now, DefaultDateWindow),
		CaseTypes:     queryStrings(q, keyCaseType),
		Tones:         queryStrings(q, keyTone),
		Languages:     queryStrings(q, keyLanguage),
		HasQuote:      queryBool(q, keyHasQuote),
		ContentWorthy: queryBool(q, keyContentWorthy),
	}

	data := &callSearchData{
		Form:      newFilterForm(q, a.loadOptions(ctx), filter.Quality, filter.Dates),
		ExportURL: withQuery(req.Page.Path(), q, keyExport, ExportCSV, keyCall, "", keyTranscript, ""),
	}

	total, err := a.data.CountCalls(ctx, filter)
	if err != nil {
		return nil, err
	}
	data.Pagination = NewPagination(q, req.Page.Path(), total, services.DefaultPageSize, "calls")
	filter.Page = services.Page{Limit: services.DefaultPageSize, Offset: data.Pagination.Offset()}

	rows, err := a.data.SearchCalls(ctx, filter)
	if err != nil {
		return nil, err
	}

	view := newView(req.Page, "Filter, browse, and deep-dive into analyzed calls.", data)
	if exportFormat(q) == ExportCSV && len(rows) > 0 {
		view.Download, err = csvDownload("walker_brain_calls", rows, columnList(services.SearchColumns), req.Now)
		return view, err
	}

	open := strings.TrimSpace(q.Get(keyCall))
	data.Calls = callCards(rows)
	for i := range data.Calls {
		c := &data.Calls[i]
		c.DetailURL = withQuery(req.Page.Path(), q, keyCall, c.ID, keyTranscript, "")
		c.Open = open != "" && c.ID == open
	}

	if open != "" {
		data.Detail, err = a.loadCallDetail(ctx, open, queryBool(q, keyTranscript))
		if err != nil {
			return nil, err
		}
		if data.Detail == nil {
			data.DetailMissing = true
		} else {
			data.Detail.TranscriptURL = withQuery(req.Page.Path(), q, keyCall, open, keyTranscript, "1")
		}
	}

	if len(data.Calls) == 0 {
		view.notice(LevelInfo, "No calls found matching your filters.")
	}
	return view, nil
}
