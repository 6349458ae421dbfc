package web

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/walkerbrain/internal/formatter"
	"github.com/desertthunder/walkerbrain/internal/services"
	"github.com/desertthunder/walkerbrain/internal/tasks"
)

// Query string keys shared by the filter forms.
const (
	keyText          = "q"
	keyCaseType      = "case"
	keyTone          = "tone"
	keyLanguage      = "lang"
	keyQualityMin    = "qmin"
	keyQualityMax    = "qmax"
	keyFrom          = "from"
	keyTo            = "to"
	keyTestimonial   = "testimonial"
	keyHasQuote      = "has_quote"
	keyContentWorthy = "content_worthy"
	keyPage          = "page"
	keyExport        = "export"
	keyCall          = "call"
	keyTranscript    = "transcript"
)

// DefaultDateWindow is how many days back date filters start.
const DefaultDateWindow = 30

const dateLayout = "2006-01-02"

// queryStrings returns the non-empty values of key, split on commas.
func queryStrings(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" && !slices.Contains(out, part) {
				out = append(out, part)
			}
		}
	}
	return out
}

// queryInt parses key as an integer clamped to [lo, hi], or returns def.
func queryInt(q url.Values, key string, def, lo, hi int) int {
	n, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return def
	}
	return min(max(n, lo), hi)
}

// queryBool treats "1", "true" and "on" as set.
func queryBool(q url.Values, key string) bool {
	switch strings.ToLower(q.Get(key)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// qualityRange reads qmin/qmax, defaulting to lo and hi and swapping a reversed range.
func qualityRange(q url.Values, lo, hi int) services.QualityRange {
	r := services.QualityRange{
		Min: queryInt(q, keyQualityMin, lo, 0, 100),
		Max: queryInt(q, keyQualityMax, hi, 0, 100),
	}
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

// dateRange reads from/to as YYYY-MM-DD. An absent bound defaults to the last days up to today;
// a bound submitted empty is left open. Unparseable dates are ignored.
func dateRange(q url.Values, now time.Time, days int) services.DateRange {
	bound := func(key, def string) string {
		if !q.Has(key) {
			return def
		}
		v := strings.TrimSpace(q.Get(key))
		if _, err := time.Parse(dateLayout, v); err != nil {
			return ""
		}
		return v
	}

	now = now.UTC()
	return services.DateRange{
		Start: bound(keyFrom, now.AddDate(0, 0, -days).Format(dateLayout)),
		End:   bound(keyTo, now.Format(dateLayout)),
	}
}

// Choice is one option of a multi-select.
type Choice struct {
	Value    string
	Label    string
	Selected bool
}

// choices marks the selected options, keeping selections that are not among the options.
func choices(options, selected []string, label func(string) string) []Choice {
	if label == nil {
		label = func(s string) string { return s }
	}

	out := make([]Choice, 0, len(options))
	for _, o := range options {
		out = append(out, Choice{Value: o, Label: label(o), Selected: slices.Contains(selected, o)})
	}
	for _, s := range selected {
		if !slices.Contains(options, s) {
			out = append(out, Choice{Value: s, Label: label(s), Selected: true})
		}
	}
	return out
}

// BandLegend is the quality band hint shown under quality sliders.
type BandLegend struct {
	Name  string
	Range string
	Color string
}

func bandLegend() []BandLegend {
	out := make([]BandLegend, 0, len(formatter.QualityBands))
	for _, b := range formatter.QualityBands {
		out = append(out, BandLegend{
			Name:  formatter.Truncate(b.Name, 12),
			Range: fmt.Sprintf("%.0f-%.0f", b.Low, b.High),
			Color: b.Color,
		})
	}
	return out
}

// FilterForm is the sidebar form state shared by the filterable pages.
type FilterForm struct {
	Text          string
	CaseTypes     []Choice
	Tones         []Choice
	Languages     []Choice
	Quality       services.QualityRange
	Dates         services.DateRange
	Bands         []BandLegend
	Testimonial   bool
	HasQuote      bool
	ContentWorthy bool
}

func newFilterForm(q url.Values, opts filterOptions, quality services.QualityRange, dates services.DateRange) FilterForm {
	return FilterForm{
		Text:          q.Get(keyText),
		CaseTypes:     choices(opts.CaseTypes, queryStrings(q, keyCaseType), nil),
		Tones:         choices(opts.Tones, queryStrings(q, keyTone), formatter.Humanize),
		Languages:     choices(opts.Languages, queryStrings(q, keyLanguage), nil),
		Quality:       quality,
		Dates:         dates,
		Bands:         bandLegend(),
		Testimonial:   queryBool(q, keyTestimonial),
		HasQuote:      queryBool(q, keyHasQuote),
		ContentWorthy: queryBool(q, keyContentWorthy),
	}
}

type filterOptions struct {
	CaseTypes []string
	Tones     []string
	Languages []string
}

// loadOptions fetches the filter option lists concurrently. A failed list is left empty so the
// form still renders.
func (a *App) loadOptions(ctx context.Context) filterOptions {
	var opts filterOptions
	res := tasks.Run(ctx, 3,
		tasks.Section{Name: "case types", Load: func(ctx context.Context) (err error) {
			opts.CaseTypes, err = a.data.CaseTypes(ctx)
			return err
		}},
		tasks.Section{Name: "tones", Load: func(ctx context.Context) (err error) {
			opts.Tones, err = a.data.EmotionalTones(ctx)
			return err
		}},
		tasks.Section{Name: "languages", Load: func(ctx context.Context) (err error) {
			opts.Languages, err = a.data.Languages(ctx)
			return err
		}},
	)
	for _, f := range res.Failed() {
		a.logger.Warn("filter options unavailable", "section", f.Name, "error", f.Err)
	}
	return opts
}

// Pagination is the previous/next control under a result count.
type Pagination struct {
	Page  int // Zero-based
	Pages int
	Total int
	Size  int
	Label string
	Prev  string
	Next  string
}

// NewPagination clamps the requested page to the available pages and builds the navigation links
// from the current query.
func NewPagination(q url.Values, path string, total, size int, label string) Pagination {
	if size <= 0 {
		size = services.DefaultPageSize
	}

	p := Pagination{Total: total, Size: size, Label: label}
	if total > 0 {
		p.Pages = (total + size - 1) / size
	}
	p.Page = min(queryInt(q, keyPage, 1, 1, 1<<30)-1, max(p.Pages-1, 0))

	link := func(page int) string {
		v := url.Values{}
		for k, vals := range q {
			if k == keyPage || k == keyExport || k == keyCall || k == keyTranscript {
				continue
			}
			v[k] = vals
		}
		if page > 0 {
			v.Set(keyPage, strconv.Itoa(page+1))
		}
		if enc := v.Encode(); enc != "" {
			return path + "?" + enc
		}
		return path
	}

	if p.Page > 0 {
		p.Prev = link(p.Page - 1)
	}
	if p.Page < p.Pages-1 {
		p.Next = link(p.Page + 1)
	}
	return p
}

// Offset is the first row of the current page.
func (p Pagination) Offset() int { return p.Page * p.Size }

// Info renders "Page 2 of 5 · 230 quotes", or "0 quotes" when nothing matched.
func (p Pagination) Info() string {
	if p.Total == 0 {
		return "0 " + p.Label
	}
	return fmt.Sprintf("Page %d of %d · %s %s", p.Page+1, p.Pages, formatter.FormatCount(p.Total), p.Label)
}

// window returns the slice bounds of the current page within n rows.
func (p Pagination) window(n int) (int, int) {
	start := min(p.Offset(), n)
	return start, min(start+p.Size, n)
}

// withQuery returns path with q's parameters plus the given overrides.
func withQuery(path string, q url.Values, kv ...string) string {
	v := url.Values{}
	for k, vals := range q {
		v[k] = append([]string(nil), vals...)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			v.Del(kv[i])
			continue
		}
		v.Set(kv[i], kv[i+1])
	}
	if enc := v.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}
