package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/services"
	"github.com/desertthunder/walkerbrain/internal/shared"
)

func TestParsePage(t *testing.T) {
	t.Run("Round Trips Every Slug", func(t *testing.T) {
		for _, p := range Pages() {
			got, ok := ParsePage(p.Slug())
			if !ok || got != p {
				t.Errorf("ParsePage(%q) = %v, %v; want %v", p.Slug(), got, ok, p)
			}
		}
	})

	t.Run("Unknown Slug", func(t *testing.T) {
		if _, ok := ParsePage("nope"); ok {
			t.Error("expected unknown slug to fail")
		}
	})

	t.Run("Navigation Order", func(t *testing.T) {
		pages := Pages()
		if len(pages) != 11 {
			t.Fatalf("expected 11 pages, got %d", len(pages))
		}
		if pages[0] != AngleBank {
			t.Errorf("expected Angle Bank first, got %v", pages[0])
		}
	})
}

func TestPageVisibility(t *testing.T) {
	tests := []struct {
		role models.Role
		want bool
	}{
		{models.RoleNone, false},
		{models.RoleUser, false},
		{models.RoleAdmin, true},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			if got := PipelineStatus.Visible(session(tt.role)); got != tt.want {
				t.Errorf("PipelineStatus.Visible(%v) = %v, want %v", tt.role, got, tt.want)
			}
			if !QuoteBank.Visible(session(tt.role)) {
				t.Error("expected Quote Bank to be visible")
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("Pipeline Status Is Denied Without Admin", func(t *testing.T) {
		for _, role := range []models.Role{models.RoleNone, models.RoleUser} {
			data := &fakeData{}
			app := newTestApp(t, data, Options{})

			view := render(t, app, PipelineStatus, role, "")
			if view.Status != http.StatusForbidden {
				t.Errorf("role %v: expected 403, got %d", role, view.Status)
			}
			if view.templateName() != "denied" {
				t.Errorf("role %v: expected denied template, got %q", role, view.templateName())
			}
			if data.callCount() != 0 {
				t.Errorf("role %v: expected no data access, got %v", role, data.calls)
			}
		}
	})

	t.Run("Pipeline Status For Admin", func(t *testing.T) {
		data := &fakeData{
			status: models.Record{
				"system_active":       true,
				"daily_budget_limit":  10.0,
				"current_daily_spend": 2.5,
			},
			throughput: services.Throughput{Total: 140, Passed: 133, PassRate: 95, PerDay: 20},
			prompts: []models.Record{
				{"prompt_name": "analysis", "prompt_version": "v7", "description": "Main pass", "is_active": true},
				{"prompt_name": "legacy", "prompt_version": "v1", "description": "Old", "is_active": false},
			},
		}
		app := newTestApp(t, data, Options{})

		view := render(t, app, PipelineStatus, models.RoleAdmin, "")
		got, ok := view.Data.(*statusData)
		if !ok {
			t.Fatalf("expected status data, got %T", view.Data)
		}
		if !got.Active || got.StatusLabel() != "System operational" {
			t.Errorf("expected operational status, got %q", got.StatusLabel())
		}
		if len(got.System) != 4 || got.System[3].Value != "$7.50" {
			t.Errorf("unexpected system cards: %+v", got.System)
		}
		if len(got.Throughput) != 3 || got.Throughput[2].Value != "95.0%" {
			t.Errorf("unexpected throughput cards: %+v", got.Throughput)
		}
		if len(got.Prompts) != 1 || got.Prompts[0].Name != "analysis" {
			t.Errorf("expected only the active prompt, got %+v", got.Prompts)
		}
		if got.QualityEmpty != "No quality data available." {
			t.Errorf("QualityEmpty = %q", got.QualityEmpty)
		}
		if got.DriftEmpty != "No drift alerts." {
			t.Errorf("DriftEmpty = %q", got.DriftEmpty)
		}
	})

	t.Run("Every Page Renders For Admin", func(t *testing.T) {
		app := newTestApp(t, &fakeData{}, Options{})
		for _, p := range Pages() {
			view := render(t, app, p, models.RoleAdmin, "")
			if view.status() != http.StatusOK {
				t.Errorf("%v: expected 200, got %d", p, view.status())
			}
			if !app.templates.Has(view.templateName()) {
				t.Errorf("%v: missing template %q", p, view.templateName())
			}
		}
	})

	t.Run("Unknown Page", func(t *testing.T) {
		app := newTestApp(t, &fakeData{}, Options{})
		view := render(t, app, NoPage, models.RoleUser, "")
		if view.Status != http.StatusNotFound || view.templateName() != "notfound" {
			t.Errorf("expected not found view, got %d %q", view.Status, view.templateName())
		}
	})

	t.Run("Stub Pages", func(t *testing.T) {
		app := newTestApp(t, &fakeData{}, Options{})
		for _, p := range []Page{CaseStudies, Clusters} {
			view := render(t, app, p, models.RoleUser, "")
			data, ok := view.Data.(comingSoonData)
			if !ok || !strings.HasPrefix(data.Message, "Coming soon.") {
				t.Errorf("%v: unexpected stub data %+v", p, view.Data)
			}
			if len(data.Planned) != 3 {
				t.Errorf("%v: expected 3 planned features, got %d", p, len(data.Planned))
			}
		}
	})
}

func TestRender(t *testing.T) {
	t.Run("Data Error Shows Banner", func(t *testing.T) {
		data := &fakeData{err: fmt.Errorf("%w: connection refused", shared.ErrDataAccess), quotes: sampleQuotes()}
		app := newTestApp(t, data, Options{})

		view := render(t, app, QuoteBank, models.RoleUser, "")
		if view.templateName() != "failed" {
			t.Fatalf("expected failed view, got %q", view.templateName())
		}
		if !strings.HasPrefix(view.Banner, "Could not load data: ") {
			t.Errorf("unexpected banner %q", view.Banner)
		}

		data.err = nil
		next := render(t, app, QuoteBank, models.RoleUser, "")
		if next.Banner != "" || next.templateName() != "quotes" {
			t.Errorf("expected the next request to recover, got %q %q", next.Banner, next.templateName())
		}
	})

	t.Run("Other Errors Are Returned", func(t *testing.T) {
		data := &fakeData{err: errors.New("boom")}
		app := newTestApp(t, data, Options{})

		_, err := app.Render(t.Context(), &Request{Page: QuoteBank, Session: session(models.RoleUser), Now: testNow})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestQuoteBank(t *testing.T) {
	t.Run("Lists Quotes", func(t *testing.T) {
		app := newTestApp(t, &fakeData{quotes: sampleQuotes()}, Options{})

		view := render(t, app, QuoteBank, models.RoleUser, "")
		data := view.Data.(*quoteBankData)
		if len(data.Quotes) != 2 {
			t.Fatalf("expected 2 quotes, got %d", len(data.Quotes))
		}
		if data.ExportLabel != "visible" {
			t.Errorf("ExportLabel = %q", data.ExportLabel)
		}
		if data.Pagination.Total != 2 {
			t.Errorf("Pagination.Total = %d", data.Pagination.Total)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		app := newTestApp(t, &fakeData{}, Options{})
		view := render(t, app, QuoteBank, models.RoleUser, "")
		if !hasNotice(view, LevelInfo, "No quotes found matching your filters.") {
			t.Errorf("expected empty notice, got %+v", view.Notices)
		}
	})

	t.Run("Exports Selected Quotes As CSV", func(t *testing.T) {
		app := newTestApp(t, &fakeData{quotes: sampleQuotes()}, Options{})

		view := render(t, app, QuoteBank, models.RoleUser, "export=csv&sel=ffee0011aabb")
		if view.Download == nil {
			t.Fatal("expected a download")
		}
		if view.Download.Filename != "quotes_export_2025-06-12.csv" {
			t.Errorf("Filename = %q", view.Download.Filename)
		}
		body := string(view.Download.Body)
		if !strings.Contains(body, "who else to call") || strings.Contains(body, "same day") {
			t.Errorf("expected only the selected quote, got:\n%s", body)
		}
	})

	t.Run("Exports Visible Quotes As Markdown", func(t *testing.T) {
		app := newTestApp(t, &fakeData{quotes: sampleQuotes()}, Options{})

		view := render(t, app, QuoteBank, models.RoleUser, "export=md")
		if view.Download == nil || !strings.HasSuffix(view.Download.Filename, ".md") {
			t.Fatalf("expected markdown download, got %+v", view.Download)
		}
		body := string(view.Download.Body)
		if !strings.Contains(body, "same day") || !strings.Contains(body, "who else to call") {
			t.Errorf("expected both quotes, got:\n%s", body)
		}
	})
}

func TestTranscriptSearch(t *testing.T) {
	t.Run("Not Submitted", func(t *testing.T) {
		data := &fakeData{}
		app := newTestApp(t, data, Options{})

		view := render(t, app, TranscriptSearch, models.RoleUser, "")
		if data.called("SearchTranscripts") || len(view.Notices) != 0 {
			t.Error("expected no search before submit")
		}
	})

	t.Run("Empty Keyword", func(t *testing.T) {
		app := newTestApp(t, &fakeData{}, Options{})
		view := render(t, app, TranscriptSearch, models.RoleUser, "q=+")
		if !hasNotice(view, LevelWarning, "Please enter a keyword to search.") {
			t.Errorf("expected keyword warning, got %+v", view.Notices)
		}
	})

	t.Run("No Hits", func(t *testing.T) {
		app := newTestApp(t, &fakeData{}, Options{})
		view := render(t, app, TranscriptSearch, models.RoleUser, "q=whiplash")
		if !hasNotice(view, LevelInfo, `No transcripts found for "whiplash"`) {
			t.Errorf("expected zero hit notice, got %+v", view.Notices)
		}
	})

	t.Run("Hits", func(t *testing.T) {
		data := &fakeData{hits: []services.TranscriptHit{{
			SourceTranscriptID: "abc123def456",
			QualityScore:       72,
			CallStartDate:      "2025-06-01T10:00:00Z",
			Headline:           "rear <b>whiplash</b>",
			Snippet:            "my <b>whiplash</b> <script>",
		}}}
		app := newTestApp(t, data, Options{})

		view := render(t, app, TranscriptSearch, models.RoleUser, "q=whiplash&min_quality=42&max_results=50")
		got := view.Data.(*transcriptSearchData)
		if got.Summary != `1 result for "whiplash"` || len(got.Results) != 1 {
			t.Fatalf("unexpected results %+v", got)
		}
		if got.Results[0].CaseType != "Unknown" {
			t.Errorf("CaseType = %q", got.Results[0].CaseType)
		}
		if strings.Contains(string(got.Results[0].Snippet), "<script>") {
			t.Errorf("snippet was not escaped: %s", got.Results[0].Snippet)
		}
		if data.lastSearch.MinQuality != 40 || data.lastSearch.MaxResults != 50 {
			t.Errorf("unexpected query %+v", data.lastSearch)
		}
	})
}

func TestTranscriptSearchPage(t *testing.T) {
	data := &fakeData{hits: []services.TranscriptHit{
		{SourceTranscriptID: "abc123def456", QualityScore: 72, Snippet: "my <b>truck</b> was hit"},
		{SourceTranscriptID: "fed654cba321", QualityScore: 55, Snippet: "  "},
	}}
	handler := newTestServer(t, data)
	cookie := loginAs(t, handler, testPassword)

	rec := get(handler, "/p/transcripts?q=truck", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()

	if !strings.Contains(body, "2 results for &#34;truck&#34;") {
		t.Error("expected the summary to name the keyword")
	}
	if !strings.Contains(body, "<b>truck</b>") {
		t.Error("expected the highlighted excerpt")
	}
	if strings.Count(body, "No excerpt available.") != 1 {
		t.Error("expected one excerpt fallback for the blank snippet")
	}
}

func TestTestimonials(t *testing.T) {
	data := &fakeData{testimonials: []models.Record{
		{"source_transcript_id": "t1", "status": "flagged", "testimonial_type": "video"},
		{"source_transcript_id": "t2", "testimonial_type": "written"},
		{"source_transcript_id": "t3", "status": "declined"},
		{"source_transcript_id": "t4", "status": "published"},
		{"source_transcript_id": "t5", "status": "archived"},
	}}
	app := newTestApp(t, data, Options{})

	view := render(t, app, TestimonialPipeline, models.RoleUser, "")
	got := view.Data.(*testimonialsData)
	if len(got.Columns) != len(KanbanStatuses) {
		t.Fatalf("expected %d columns, got %d", len(KanbanStatuses), len(got.Columns))
	}
	if got.Columns[0].Total != 2 {
		t.Errorf("expected rows without status under flagged, got %d", got.Columns[0].Total)
	}
	if got.Columns[4].Total != 1 {
		t.Errorf("expected one published card, got %d", got.Columns[4].Total)
	}
	if len(got.Declined) != 1 || got.DeclinedHeading() != "Declined (1)" {
		t.Errorf("unexpected declined %+v", got.Declined)
	}
}

func TestSignals(t *testing.T) {
	t.Run("Taxonomy", func(t *testing.T) {
		data := &fakeData{taxonomy: []models.Record{
			{"tag_id": "1", "tag_name": "Injury"},
			{"tag_id": "2", "tag_name": "whiplash", "parent_tag_id": "1", "usage_count": 12},
			{"tag_id": "3", "tag_name": "orphan", "parent_tag_id": "9", "usage_count": 1},
		}}
		app := newTestApp(t, data, Options{})

		got := render(t, app, SignalsObjections, models.RoleUser, "").Data.(*signalsData)
		if got.Mined || len(got.Groups) != 2 {
			t.Fatalf("expected two taxonomy groups, got %+v", got.Groups)
		}
		if got.Groups[0].Name != "Category 9" || got.Groups[1].Name != "Injury" {
			t.Errorf("unexpected group order %q, %q", got.Groups[0].Name, got.Groups[1].Name)
		}
		if data.called("TagCounts") {
			t.Error("expected no fallback when taxonomy has rows")
		}
	})

	t.Run("Falls Back To Mined Tags", func(t *testing.T) {
		data := &fakeData{tags: []services.ValueCount{{Value: "Whiplash", Count: 120}, {Value: "insurance", Count: 8}}}
		app := newTestApp(t, data, Options{})

		got := render(t, app, SignalsObjections, models.RoleUser, "tagq=WHIP").Data.(*signalsData)
		if !got.Mined || len(got.Chips) != 1 || got.Chips[0].Size != "tag-xl" {
			t.Errorf("unexpected chips %+v", got.Chips)
		}
	})

	t.Run("Week Over Week Changes", func(t *testing.T) {
		data := &fakeData{objections: []models.Record{
			{"obj_category": "cost", "frequency": 10, "freq_this_week": 6, "freq_last_week": 4},
			{"obj_category": "null", "frequency": 3, "freq_this_week": 3, "freq_last_week": 0},
		}}
		app := newTestApp(t, data, Options{})

		got := render(t, app, SignalsObjections, models.RoleUser, "").Data.(*signalsData)
		if len(got.Changes) != 1 {
			t.Fatalf("expected one change, got %+v", got.Changes)
		}
		if s := got.Changes[0].String(); s != "Cost: 6 this week (+2 vs last week)" {
			t.Errorf("change = %q", s)
		}
	})

	t.Run("Baseline Collecting", func(t *testing.T) {
		data := &fakeData{objections: []models.Record{
			{"obj_category": "cost", "frequency": 10, "freq_this_week": 10, "freq_last_week": 0},
		}}
		app := newTestApp(t, data, Options{})

		got := render(t, app, SignalsObjections, models.RoleUser, "").Data.(*signalsData)
		if len(got.Changes) != 0 || !strings.HasPrefix(got.BaselineEmpty, "Trend comparison collecting") {
			t.Errorf("expected baseline notice, got %+v %q", got.Changes, got.BaselineEmpty)
		}
	})
}

func TestExplorer(t *testing.T) {
	rows := []models.Record{
		{"source_transcript_id": "0123456789abcdef", "case_type": "auto", "quality_score": 0.0},
		{"source_transcript_id": "short", "case_type": nil, "quality_score": 77.0},
	}

	t.Run("Default Core Columns", func(t *testing.T) {
		app := newTestApp(t, &fakeData{explorer: rows}, Options{})

		view := render(t, app, DataExplorer, models.RoleUser, "")
		got := view.Data.(*explorerData)
		if len(got.Rows) != 2 || got.Rows[0].Cells[0] != "01234567…" {
			t.Fatalf("unexpected rows %+v", got.Rows)
		}
		if got.Rows[1].Cells[1] != "—" {
			t.Errorf("expected em dash for null, got %q", got.Rows[1].Cells[1])
		}
		if !hasNotice(view, LevelInfo, "1 rows have quality_score = 0") {
			t.Errorf("expected zero quality notice, got %+v", view.Notices)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		app := newTestApp(t, &fakeData{}, Options{})
		view := render(t, app, DataExplorer, models.RoleUser, "")
		if !hasNotice(view, LevelInfo, "No data found matching your filters.") {
			t.Errorf("expected empty notice, got %+v", view.Notices)
		}
	})
}

func TestHighlights(t *testing.T) {
	t.Run("Sections Fail Independently", func(t *testing.T) {
		data := &fakeData{
			current: services.PeriodMetrics{Quotes: 12, Testimonials: 3, ContentWorthy: 5, MedianQuality: 64},
			prior:   services.PeriodMetrics{Quotes: 9, Testimonials: 3, ContentWorthy: 7, MedianQuality: 60},
		}
		app := newTestApp(t, data, Options{})

		got := render(t, app, TodaysHighlights, models.RoleUser, "").Data.(*highlightsData)
		if got.MetricsFailed || len(got.Metrics) == 0 {
			t.Fatalf("expected metrics, got %+v", got)
		}
		if got.Metrics[0].DeltaClass != "up" {
			t.Errorf("expected quotes to trend up, got %q", got.Metrics[0].DeltaClass)
		}
		if got.QuotesEmpty == "" {
			t.Error("expected empty top quotes caption")
		}
	})
}

func TestAngleBank(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		app := newTestApp(t, &fakeData{}, Options{})
		view := render(t, app, AngleBank, models.RoleUser, "")
		if !hasNotice(view, LevelInfo, "No creative angles found.") {
			t.Errorf("expected empty notice, got %+v", view.Notices)
		}
	})

	t.Run("Cards And Metrics", func(t *testing.T) {
		data := &fakeData{angles: []models.Record{
			{"status": "pending_review", "content_type": "short_video", "quality_score": 81.0},
			{"status": "approved", "content_type": "short_video"},
			{"status": "approved", "content_type": "blog"},
		}}
		app := newTestApp(t, data, Options{})

		got := render(t, app, AngleBank, models.RoleUser, "").Data.(*angleBankData)
		if len(got.Angles) != 3 {
			t.Fatalf("expected 3 cards, got %d", len(got.Angles))
		}
		if got.Metrics[1].Value != "1" || got.Metrics[2].Value != "2" {
			t.Errorf("unexpected metrics %+v", got.Metrics)
		}
		if got.TypeSummary != "Short Video: 2, Blog: 1" {
			t.Errorf("TypeSummary = %q", got.TypeSummary)
		}
	})
}

func TestCallSearch(t *testing.T) {
	detail := models.Record{
		"source_transcript_id": "a1b2c3d4e5f6",
		"summary":              "Caller was rear-ended on the highway.",
		"key_quote":            "They called me back the same day.",
	}

	t.Run("Lists Calls", func(t *testing.T) {
		data := &fakeData{callRows: sampleQuotes()}
		app := newTestApp(t, data, Options{})

		view := render(t, app, CallSearch, models.RoleUser, "")
		got := view.Data.(*callSearchData)
		if len(got.Calls) != 2 {
			t.Fatalf("expected 2 calls, got %d", len(got.Calls))
		}
		if got.Detail != nil || got.DetailMissing {
			t.Error("no detail panel expected without ?call")
		}
		if !strings.Contains(got.Calls[0].DetailURL, "call=a1b2c3d4e5f6") {
			t.Errorf("DetailURL = %q", got.Calls[0].DetailURL)
		}
		if data.called("CallDetail") {
			t.Error("detail should not load without ?call")
		}
	})

	t.Run("Opens Detail Without Transcript", func(t *testing.T) {
		data := &fakeData{callRows: sampleQuotes(), detail: detail, transcript: "Agent: Hello"}
		app := newTestApp(t, data, Options{})

		got := render(t, app, CallSearch, models.RoleUser, "call=a1b2c3d4e5f6").Data.(*callSearchData)
		if got.Detail == nil || got.Detail.Summary != "Caller was rear-ended on the highway." {
			t.Fatalf("unexpected detail %+v", got.Detail)
		}
		if !got.Calls[0].Open || got.Calls[1].Open {
			t.Error("only the selected call should be open")
		}
		if got.Detail.Transcript != nil || data.called("Transcript") {
			t.Error("transcript should load lazily")
		}
		if !strings.Contains(got.Detail.TranscriptURL, "transcript=1") {
			t.Errorf("TranscriptURL = %q", got.Detail.TranscriptURL)
		}
	})

	t.Run("Loads Transcript", func(t *testing.T) {
		data := &fakeData{callRows: sampleQuotes(), detail: detail, transcript: "Agent: Thanks for calling.\nCaller: I was hit from behind."}
		app := newTestApp(t, data, Options{})

		got := render(t, app, CallSearch, models.RoleUser, "call=a1b2c3d4e5f6&transcript=1").Data.(*callSearchData)
		if got.Detail == nil || got.Detail.Transcript == nil {
			t.Fatal("expected a transcript")
		}
		if len(got.Detail.Transcript.Turns) != 2 {
			t.Errorf("expected 2 turns, got %+v", got.Detail.Transcript.Turns)
		}
	})

	t.Run("Missing Transcript", func(t *testing.T) {
		data := &fakeData{callRows: sampleQuotes(), detail: detail}
		app := newTestApp(t, data, Options{})

		got := render(t, app, CallSearch, models.RoleUser, "call=a1b2c3d4e5f6&transcript=1").Data.(*callSearchData)
		if got.Detail == nil || !got.Detail.TranscriptMissing {
			t.Error("expected the transcript-missing state")
		}
	})

	t.Run("Unknown Call", func(t *testing.T) {
		data := &fakeData{callRows: sampleQuotes(), detail: detail}
		app := newTestApp(t, data, Options{})

		got := render(t, app, CallSearch, models.RoleUser, "call=ffffffffffff").Data.(*callSearchData)
		if got.Detail != nil || !got.DetailMissing {
			t.Errorf("expected DetailMissing, got %+v", got.Detail)
		}
	})

	t.Run("No Results", func(t *testing.T) {
		app := newTestApp(t, &fakeData{}, Options{})

		view := render(t, app, CallSearch, models.RoleUser, "q=whiplash")
		if !hasNotice(view, LevelInfo, "No calls found") {
			t.Errorf("expected info notice, got %+v", view.Notices)
		}
	})

	t.Run("CSV Export", func(t *testing.T) {
		app := newTestApp(t, &fakeData{callRows: sampleQuotes()}, Options{})

		view := render(t, app, CallSearch, models.RoleUser, "export=csv")
		if view.Download == nil {
			t.Fatal("expected a download")
		}
		if view.Download.Filename != "walker_brain_calls_2025-06-12.csv" {
			t.Errorf("Filename = %q", view.Download.Filename)
		}
	})
}
