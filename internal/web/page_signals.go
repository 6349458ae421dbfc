package web

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/desertthunder/walkerbrain/internal/formatter"
	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/services"
	"github.com/desertthunder/walkerbrain/internal/tasks"
)

const (
	keyTag       = "tag"
	keyTagSearch = "tagq"

	// MinedTagLimit caps the tag cloud shown when no taxonomy exists.
	MinedTagLimit = 50

	// BaselineRatio is the share of this week's objections last week must reach before deltas are shown.
	BaselineRatio = 0.10
)

// TagUse is one taxonomy tag and how often it has been applied.
type TagUse struct {
	Name string
	Uses int
}

// TagGroup is a parent taxonomy tag and its children.
type TagGroup struct {
	Name string
	Tags []TagUse
}

// Heading renders "Parent (3 tags)".
func (g TagGroup) Heading() string {
	return fmt.Sprintf("%s (%d tags)", g.Name, len(g.Tags))
}

// TagChip is one mined tag in the fallback tag cloud.
type TagChip struct {
	Tag    string
	Count  int
	Size   string
	URL    string
	Active bool
}

// ObjectionChange is one week-over-week line.
type ObjectionChange struct {
	Category string
	ThisWeek int
	Delta    int
}

// String renders "Cost Anxiety: 12 this week (+3 vs last week)".
func (c ObjectionChange) String() string {
	sign := ""
	if c.Delta > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s: %d this week (%s%d vs last week)", c.Category, c.ThisWeek, sign, c.Delta)
}

type signalsData struct {
	Groups    []TagGroup
	TopLevel  []TagUse
	Mined     bool
	Chips     []TagChip
	TagQuery  string
	TagsEmpty string

	Tag         string
	TaggedCalls []CallCard
	TaggedEmpty string
	ClearURL    string

	Objections    Panel
	Changes       []ObjectionChange
	BaselineEmpty string
}

// signals shows the tag taxonomy and objection trends.
func (a *App) signals(ctx context.Context, req *Request) (*View, error) {
	q := req.Query
	data := &signalsData{
		TagQuery: strings.TrimSpace(q.Get(keyTagSearch)),
		Tag:      strings.TrimSpace(q.Get(keyTag)),
		ClearURL: withQuery(req.Page.Path(), q, keyTag, ""),
	}

	var (
		taxonomy, frequencies, recent, tagged []models.Record
		mined                                 []services.ValueCount
	)

	sections := []tasks.Section{
		{Name: "tags", Load: func(ctx context.Context) error {
			var err error
			taxonomy, err = a.data.Taxonomy(ctx)
			if err == nil && len(taxonomy) > 0 {
				return nil
			}
			if err != nil {
				a.logger.Debug("taxonomy unavailable, mining suggested tags", "error", err)
			}
			mined, err = a.data.TagCounts(ctx)
			return err
		}},
		{Name: "objections", Load: func(ctx context.Context) error {
			var err error
			frequencies, err = a.data.ObjectionFrequencies(ctx)
			if err == nil && len(frequencies) > 0 {
				return nil
			}
			if err != nil {
				a.logger.Debug("objection view unavailable, counting recent calls", "error", err)
			}
			recent, err = a.data.RecentColumn(ctx, "objection_categories", HighlightWindow)
			return err
		}},
	}
	if data.Tag != "" {
		sections = append(sections, tasks.Section{Name: "tagged calls", Load: func(ctx context.Context) (err error) {
			tagged, err = a.data.TaggedCalls(ctx, data.Tag)
			return err
		}})
	}

	res := tasks.Run(ctx, tasks.DefaultWorkers, sections...)
	for _, f := range res.Failed() {
		a.logger.Warn("signals section failed", "section", f.Name, "error", f.Err)
	}

	switch {
	case res.Err("tags") != nil:
		data.TagsEmpty = "Tag data unavailable."
	case len(taxonomy) > 0:
		data.Groups, data.TopLevel = groupTaxonomy(taxonomy)
	default:
		data.Mined = true
		data.Chips = tagChips(req, mined, data.TagQuery, data.Tag)
		if len(data.Chips) == 0 {
			data.TagsEmpty = "No tag data available yet."
		}
	}

	if data.Tag != "" {
		switch {
		case res.Err("tagged calls") != nil:
			data.TaggedEmpty = "Tagged calls unavailable."
		case len(tagged) == 0:
			data.TaggedEmpty = fmt.Sprintf("No calls tagged %q.", data.Tag)
		default:
			data.TaggedCalls = callCards(tagged)
			for i := range data.TaggedCalls {
				data.TaggedCalls[i].DetailURL = withQuery(CallSearch.Path(), nil, keyCall, data.TaggedCalls[i].ID)
			}
		}
	}

	a.objectionInsights(data, frequencies, recent, res.Err("objections"))

	return newView(req.Page, "Browse the tag taxonomy and explore objection patterns.", data), nil
}

func (a *App) objectionInsights(data *signalsData, frequencies, recent []models.Record, err error) {
	if err != nil {
		data.Objections = panel("Objection Category Insights", "", nil, err, "", "Objection data unavailable.")
		return
	}

	if len(frequencies) == 0 {
		counts := services.Tally(recent, "objection_categories")
		var fig *Figure
		if len(counts) > 0 {
			fig = ObjectionBar(counts)
		}
		data.Objections = panel("Objection Category Insights", "Last 7 days", fig, nil, "No objection data available yet.", "")
		return
	}

	var (
		counts               []services.ValueCount
		totalThis, totalLast int
		hasWeekly            bool
		changes              []ObjectionChange
	)
	for _, r := range frequencies {
		category := r.String("obj_category")
		if services.IsJunkValue(category) {
			continue
		}
		n, _ := r.Int("frequency")
		counts = append(counts, services.ValueCount{Value: category, Count: n})

		if r.Has("freq_this_week") || r.Has("freq_last_week") {
			hasWeekly = true
		}
		thisWeek, _ := r.Int("freq_this_week")
		lastWeek, _ := r.Int("freq_last_week")
		totalThis += thisWeek
		totalLast += lastWeek
		changes = append(changes, ObjectionChange{
			Category: formatter.Humanize(category),
			ThisWeek: thisWeek,
			Delta:    thisWeek - lastWeek,
		})
	}

	var fig *Figure
	if len(counts) > 0 {
		fig = ObjectionBar(counts)
	}
	data.Objections = panel("Objection Category Insights", "", fig, nil, "No objection data available yet.", "")

	if !hasWeekly {
		return
	}
	if hasBaseline(totalThis, totalLast) {
		data.Changes = changes
		return
	}
	data.BaselineEmpty = "Trend comparison collecting — check back next week once a baseline week of data is available."
}

// hasBaseline reports whether last week carries enough objections to compare against.
func hasBaseline(totalThis, totalLast int) bool {
	return totalLast > 0 && float64(totalLast) >= float64(totalThis)*BaselineRatio
}

// groupTaxonomy splits taxonomy rows into parent groups, sorted by parent name, and top-level tags.
func groupTaxonomy(rows []models.Record) ([]TagGroup, []TagUse) {
	names := map[string]string{}
	for _, r := range rows {
		if id := r.String("tag_id"); id != "" {
			names[id] = r.String("tag_name")
			if names[id] == "" {
				names[id] = "Tag " + id
			}
		}
	}

	children := map[string][]TagUse{}
	var topLevel []TagUse
	for _, r := range rows {
		uses, _ := r.Int("usage_count")
		tag := TagUse{Name: r.String("tag_name"), Uses: uses}
		if parent := r.String("parent_tag_id"); parent != "" {
			children[parent] = append(children[parent], tag)
		} else {
			topLevel = append(topLevel, tag)
		}
	}

	groups := make([]TagGroup, 0, len(children))
	for parent, tags := range children {
		name, ok := names[parent]
		if !ok {
			name = "Category " + parent
		}
		groups = append(groups, TagGroup{Name: name, Tags: tags})
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, topLevel
}

// tagChips renders the top mined tags, narrowed by a case-insensitive search.
func tagChips(req *Request, counts []services.ValueCount, search, active string) []TagChip {
	needle := strings.ToLower(search)
	var chips []TagChip
	for _, c := range counts {
		if needle != "" && !strings.Contains(strings.ToLower(c.Value), needle) {
			continue
		}
		chips = append(chips, TagChip{
			Tag:    c.Value,
			Count:  c.Count,
			Size:   tagSize(c.Count),
			URL:    withQuery(req.Page.Path(), req.Query, keyTag, c.Value),
			Active: c.Value == active,
		})
		if len(chips) == MinedTagLimit {
			break
		}
	}
	return chips
}

func tagSize(count int) string {
	switch {
	case count > 100:
		return "tag-xl"
	case count > 50:
		return "tag-lg"
	case count > 20:
		return "tag-md"
	default:
		return "tag-sm"
	}
}
