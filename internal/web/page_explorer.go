package web

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/walkerbrain/internal/formatter"
	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/services"
)

const keyGroup = "group"

// GroupToggle is one column group checkbox.
type GroupToggle struct {
	Name    string
	Columns int
	On      bool
}

// ExplorerRow is one formatted table row.
type ExplorerRow struct {
	ID        string
	Cells     []string
	DetailURL string
	Open      bool
}

type explorerData struct {
	Form          FilterForm
	Groups        []GroupToggle
	Headers       []string
	Rows          []ExplorerRow
	Summary       string
	Pagination    Pagination
	ExportURL     string
	Detail        *CallDetail
	DetailMissing bool
	CallSearchURL string
}

// explorer pages through every extracted field, grouped into toggleable column sets.
func (a *App) explorer(ctx context.Context, req *Request) (*View, error) {
	q := req.Query
	groups := activeGroups(queryStrings(q, keyGroup))
	filter := services.ExplorerFilter{
		Columns:   formatter.ColumnsFor(groups),
		Quality:   qualityRange(q, 0, 100),
		Dates:     dateRange(q, req.Now, DefaultDateWindow),
		CaseTypes: queryStrings(q, keyCaseType),
		Languages: queryStrings(q, keyLanguage),
	}

	data := &explorerData{
		Form:      newFilterForm(q, a.loadOptions(ctx), filter.Quality, filter.Dates),
		Groups:    groupToggles(groups),
		ExportURL: withQuery(req.Page.Path(), q, keyExport, ExportCSV, keyCall, "", keyTranscript, ""),
	}
	for _, c := range filter.Columns {
		data.Headers = append(data.Headers, formatter.Humanize(c))
	}

	total, err := a.data.CountExplorerRows(ctx, filter)
	if err != nil {
		return nil, err
	}
	data.Pagination = NewPagination(q, req.Page.Path(), total, services.DefaultPageSize, "rows")
	filter.Page = services.Page{Limit: services.DefaultPageSize, Offset: data.Pagination.Offset()}

	rows, err := a.data.ExplorerRows(ctx, filter)
	if err != nil {
		return nil, err
	}

	view := newView(req.Page, "Explore all extracted fields. Toggle column groups to customize your view.", data)
	if len(rows) == 0 {
		view.notice(LevelInfo, "No data found matching your filters.")
		return view, nil
	}

	if exportFormat(q) == ExportCSV {
		view.Download, err = csvDownload("walker_brain_explorer", rows, filter.Columns, req.Now)
		return view, err
	}

	data.Summary = fmt.Sprintf("%d rows (page %d)", len(rows), data.Pagination.Page+1)
	if n := zeroQualityRows(rows); n > 0 {
		view.notice(LevelInfo, fmt.Sprintf("%d rows have quality_score = 0 (voicemails / dropped calls)", n))
	}

	open := q.Get(keyCall)
	for _, r := range rows {
		id := r.String("source_transcript_id")
		row := ExplorerRow{ID: id, Open: id != "" && id == open}
		for _, c := range filter.Columns {
			row.Cells = append(row.Cells, explorerCell(r, c))
		}
		if id != "" {
			row.DetailURL = withQuery(req.Page.Path(), q, keyCall, id, keyTranscript, "")
		}
		data.Rows = append(data.Rows, row)
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
			data.CallSearchURL = withQuery(CallSearch.Path(), nil, keyCall, open)
		}
	}

	return view, nil
}

// activeGroups keeps the known group names, falling back to Core.
func activeGroups(requested []string) []string {
	var groups []string
	for _, g := range formatter.ColumnGroups {
		if slices.Contains(requested, g.Name) {
			groups = append(groups, g.Name)
		}
	}
	if len(groups) == 0 {
		return []string{formatter.ColumnGroups[0].Name}
	}
	return groups
}

func groupToggles(active []string) []GroupToggle {
	out := make([]GroupToggle, 0, len(formatter.ColumnGroups))
	for _, g := range formatter.ColumnGroups {
		out = append(out, GroupToggle{Name: g.Name, Columns: len(g.Columns), On: slices.Contains(active, g.Name)})
	}
	return out
}

// explorerCell formats one table cell.
func explorerCell(r models.Record, column string) string {
	if !r.Has(column) {
		return formatter.EmDash
	}
	switch column {
	case "source_transcript_id":
		id := r.String(column)
		if len(id) > 8 {
			return id[:8] + "…"
		}
		return id
	case "quality_sub_scores":
		return formatter.SubScoreSummary(r.Map(column))
	case "analyzed_at":
		if t, ok := r.Date(column); ok {
			return formatter.FormatDateTime(t)
		}
	}
	return formatter.DisplayValue(r[column])
}

func zeroQualityRows(rows []models.Record) int {
	n := 0
	for _, r := range rows {
		if v, ok := r.Float("quality_score"); ok && v == 0 {
			n++
		}
	}
	return n
}
