package web

import (
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/walkerbrain/internal/formatter"
	"github.com/desertthunder/walkerbrain/internal/models"
)

// Export formats accepted by the export query parameter.
const (
	ExportCSV      = "csv"
	ExportMarkdown = "md"
)

// keySelected carries the quote keys ticked for export.
const keySelected = "sel"

func exportFormat(q url.Values) string {
	switch f := strings.ToLower(q.Get(keyExport)); f {
	case ExportCSV, ExportMarkdown:
		return f
	default:
		return ""
	}
}

// columnList splits a select list into column names.
func columnList(sel string) []string {
	var cols []string
	for _, c := range strings.Split(sel, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

func csvDownload(prefix string, rows []models.Record, columns []string, now time.Time) (*Download, error) {
	body, err := formatter.ExportToCSV(rows, columns)
	if err != nil {
		return nil, err
	}
	return &Download{
		Filename:    formatter.ExportFilename(prefix, "csv", now),
		ContentType: "text/csv; charset=utf-8",
		Body:        body,
	}, nil
}

func markdownDownload(prefix, title string, quotes []formatter.Quote, now time.Time) (*Download, error) {
	body, err := formatter.ExportQuotesToMarkdown(title, quotes)
	if err != nil {
		return nil, err
	}
	return &Download{
		Filename:    formatter.ExportFilename(prefix, "md", now),
		ContentType: "text/markdown; charset=utf-8",
		Body:        body,
	}, nil
}

// selectedRows keeps the rows whose key is in selected, or every row when nothing is selected.
func selectedRows[T any](rows []T, selected []string, key func(T) string) []T {
	if len(selected) == 0 {
		return rows
	}
	var out []T
	for _, r := range rows {
		if slices.Contains(selected, key(r)) {
			out = append(out, r)
		}
	}
	return out
}
