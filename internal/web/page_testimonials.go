package web

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/walkerbrain/internal/formatter"
)

const (
	keyTestimonialType   = "type"
	keyTestimonialStatus = "status"

	// KanbanColumnLimit caps the cards drawn in one kanban column.
	KanbanColumnLimit = 20

	statusDeclined = "declined"
)

// KanbanStatuses are the board columns in pipeline order.
var KanbanStatuses = []string{"flagged", "contacted", "scheduled", "recorded", "published"}

// KanbanColumn is one status column of the testimonial board.
type KanbanColumn struct {
	Status string
	Color  string
	Total  int
	Cards  []TestimonialCard
}

// Heading renders "Flagged (12)".
func (c KanbanColumn) Heading() string {
	return fmt.Sprintf("%s (%d)", formatter.Title(c.Status), c.Total)
}

type testimonialsData struct {
	Types    []Choice
	Statuses []Choice
	Columns  []KanbanColumn
	Declined []TestimonialCard
}

// DeclinedHeading renders "Declined (n)".
func (d testimonialsData) DeclinedHeading() string {
	return fmt.Sprintf("Declined (%d)", len(d.Declined))
}

// testimonials draws the read-only testimonial kanban board.
func (a *App) testimonials(ctx context.Context, req *Request) (*View, error) {
	q := req.Query
	testimonialType := singleChoice(q.Get(keyTestimonialType), formatter.TestimonialTypes)
	status := singleChoice(q.Get(keyTestimonialStatus), formatter.TestimonialStatuses)

	data := &testimonialsData{
		Types:    choices(formatter.TestimonialTypes, nonEmpty(testimonialType), formatter.TestimonialTypeLabel),
		Statuses: choices(formatter.TestimonialStatuses, nonEmpty(status), formatter.Title),
	}

	rows, err := a.data.TestimonialPipeline(ctx, status, testimonialType)
	if err != nil {
		return nil, err
	}

	columns := make(map[string]*KanbanColumn, len(KanbanStatuses))
	for _, s := range KanbanStatuses {
		data.Columns = append(data.Columns, KanbanColumn{Status: s, Color: testimonialStatusColor(s)})
	}
	for i := range data.Columns {
		columns[data.Columns[i].Status] = &data.Columns[i]
	}

	for _, r := range rows {
		s := r.String("status")
		if s == "" {
			s = KanbanStatuses[0]
		}
		if s == statusDeclined {
			data.Declined = append(data.Declined, newTestimonialCard(r))
			continue
		}
		col, ok := columns[s]
		if !ok {
			continue
		}
		col.Total++
		if len(col.Cards) < KanbanColumnLimit {
			col.Cards = append(col.Cards, newTestimonialCard(r))
		}
	}

	view := newView(req.Page, "Track testimonial candidates from flagged through published.", data)
	if len(rows) == 0 {
		view.notice(LevelInfo, "No testimonial candidates match these filters.")
	}
	return view, nil
}

// singleChoice returns v when it is one of options, otherwise "" (all).
func singleChoice(v string, options []string) string {
	v = strings.TrimSpace(v)
	if slices.Contains(options, v) {
		return v
	}
	return ""
}

func nonEmpty(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}

func testimonialStatusColor(status string) string {
	if c, ok := formatter.TestimonialStatusColors[status]; ok {
		return c
	}
	return "#9e9e9e"
}
