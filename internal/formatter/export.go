package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"github.com/desertthunder/walkerbrain/internal/models"
)

// ExportToCSV converts records to CSV with one column per entry in columns, headed by the raw column name.
//
// When columns is empty the sorted union of every record's keys is used.
func ExportToCSV(records []models.Record, columns []string) ([]byte, error) {
	if len(columns) == 0 {
		columns = recordKeys(records)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	row := make([]string, len(columns))
	for _, r := range records {
		for i, col := range columns {
			row[i] = r.String(col)
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func recordKeys(records []models.Record) []string {
	seen := map[string]bool{}
	var keys []string
	for _, r := range records {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// ExportQuotesToMarkdown renders quotes as a Markdown brief: one section per quote with its clipboard meta.
func ExportQuotesToMarkdown(title string, quotes []Quote) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Quotes**: %d\n\n", len(quotes)))

	for i, q := range quotes {
		heading := q.CaseType
		if heading == "" {
			heading = "Quote"
		}
		buf.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, heading))
		buf.WriteString(fmt.Sprintf("> %s\n\n", q.Text))

		var meta []string
		if q.Tone != "" {
			meta = append(meta, "Tone: "+q.Tone)
		}
		if q.HasQuality {
			meta = append(meta, "Quality: "+FormatNumber(q.Quality)+"/100")
		}
		if q.Date != "" {
			meta = append(meta, "Date: "+q.Date)
		}
		if q.ID != "" {
			meta = append(meta, "Call: `"+ShortID(q.ID)+"`")
		}
		for _, m := range meta {
			buf.WriteString(fmt.Sprintf("- %s\n", m))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportFilename builds a dated download name such as "quote_bank_2026-01-05.csv".
func ExportFilename(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format("2006-01-02"), ext)
}
