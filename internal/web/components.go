package web

import (
	"fmt"

	"github.com/desertthunder/walkerbrain/internal/formatter"
)

// Accent colours for metric cards.
const (
	accentPrimary = "#1565c0"
	accentSuccess = "#2e7d32"
	accentWarning = "#f57f17"
	accentError   = "#c62828"
	accentInfo    = "#0277bd"
)

// MetricCard is a headline number with an optional change against the prior period.
type MetricCard struct {
	Label      string
	Value      string
	Color      string
	Delta      string
	DeltaClass string
}

func metricCard(label, value, color string) MetricCard {
	return MetricCard{Label: label, Value: value, Color: color}
}

// withDelta renders "▲ +3 vs prior week", "▼ -2 vs prior week" or "— 0 vs prior week".
func (m MetricCard) withDelta(delta float64) MetricCard {
	switch {
	case delta > 0:
		m.Delta = fmt.Sprintf("▲ +%s vs prior week", formatter.FormatNumber(delta))
		m.DeltaClass = "up"
	case delta < 0:
		m.Delta = fmt.Sprintf("▼ %s vs prior week", formatter.FormatNumber(delta))
		m.DeltaClass = "down"
	default:
		m.Delta = "— 0 vs prior week"
		m.DeltaClass = "flat"
	}
	return m
}

// Panel is a titled block holding a chart or, when Figure is nil, a caption explaining why not.
type Panel struct {
	Title    string
	Subtitle string
	Figure   *Figure
	Empty    string
}

// panel fills p with fig, or with empty when fig is nil, or with failed when err is set.
func panel(title, subtitle string, fig *Figure, err error, empty, failed string) Panel {
	p := Panel{Title: title, Subtitle: subtitle}
	switch {
	case err != nil:
		p.Empty = failed
	case fig == nil:
		p.Empty = empty
	default:
		p.Figure = fig
	}
	return p
}

// shortBand abbreviates long band names for narrow cards: "NEEDS IMPROVEMENT" becomes "NEEDS.".
func shortBand(name string) string {
	if len(name) > 8 {
		return name[:5] + "."
	}
	return name
}
