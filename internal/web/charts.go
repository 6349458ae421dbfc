package web

import (
	"encoding/json"
	"sort"

	"github.com/desertthunder/walkerbrain/internal/formatter"
	"github.com/desertthunder/walkerbrain/internal/services"
)

// Figure is a Plotly figure. It is serialised into a data attribute and drawn by plotly.js.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// JSON returns the figure as a JSON string for a data-figure attribute.
func (f *Figure) JSON() string {
	b, err := json.Marshal(f)
	if err != nil {
		return "{}"
	}
	return string(b)
}

type Trace struct {
	Type         string   `json:"type"`
	Mode         string   `json:"mode,omitempty"`
	Name         string   `json:"name,omitempty"`
	X            any      `json:"x,omitempty"`
	Y            any      `json:"y,omitempty"`
	Labels       []string `json:"labels,omitempty"`
	Values       []int    `json:"values,omitempty"`
	Orientation  string   `json:"orientation,omitempty"`
	Marker       *Marker  `json:"marker,omitempty"`
	Line         *Line    `json:"line,omitempty"`
	Fill         string   `json:"fill,omitempty"`
	FillColor    string   `json:"fillcolor,omitempty"`
	Hole         float64  `json:"hole,omitempty"`
	TextInfo     string   `json:"textinfo,omitempty"`
	TextPosition string   `json:"textposition,omitempty"`
	NBinsX       int      `json:"nbinsx,omitempty"`
	Opacity      float64  `json:"opacity,omitempty"`
	Box          *Toggle  `json:"box,omitempty"`
	MeanLine     *Toggle  `json:"meanline,omitempty"`
	ShowLegend   *bool    `json:"showlegend,omitempty"`
}

type Marker struct {
	Color  string   `json:"color,omitempty"`
	Colors []string `json:"colors,omitempty"`
	Size   int      `json:"size,omitempty"`
}

type Line struct {
	Color string `json:"color,omitempty"`
	Width int    `json:"width"`
	Dash  string `json:"dash,omitempty"`
}

type Toggle struct {
	Visible bool `json:"visible"`
}

type Layout struct {
	Title       string       `json:"title,omitempty"`
	Height      int          `json:"height,omitempty"`
	Margin      Margin       `json:"margin"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	ShowLegend  *bool        `json:"showlegend,omitempty"`
	Shapes      []Shape      `json:"shapes,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type Axis struct {
	Title string `json:"title,omitempty"`
}

// Shape is a background band drawn behind the data.
type Shape struct {
	Type      string  `json:"type"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	X0        float64 `json:"x0"`
	X1        float64 `json:"x1"`
	Y0        float64 `json:"y0"`
	Y1        float64 `json:"y1"`
	FillColor string  `json:"fillcolor"`
	Opacity   float64 `json:"opacity"`
	Layer     string  `json:"layer"`
	Line      Line    `json:"line"`
}

type Annotation struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	Text      string  `json:"text"`
	ShowArrow bool    `json:"showarrow"`
	Font      Font    `json:"font"`
	YAnchor   string  `json:"yanchor,omitempty"`
}

type Font struct {
	Size  int    `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

const (
	colorPrimary = "#1565c0"
	colorWarning = "#f57c00"
	colorSuccess = "#388e3c"
)

var hidden = false

// QualityHistogram plots quality scores in 20 bins over the quality band backgrounds.
func QualityHistogram(scores []float64) *Figure {
	layout := Layout{
		Height:     300,
		Margin:     Margin{L: 40, R: 20, T: 30, B: 40},
		XAxis:      &Axis{Title: "Quality Score"},
		YAxis:      &Axis{Title: "Count"},
		ShowLegend: &hidden,
	}
	for _, b := range formatter.QualityBands {
		layout.Shapes = append(layout.Shapes, Shape{
			Type: "rect", XRef: "x", YRef: "paper",
			X0: b.Low, X1: b.High, Y0: 0, Y1: 1,
			FillColor: b.Color, Opacity: 0.08, Layer: "below",
		})
		layout.Annotations = append(layout.Annotations, Annotation{
			X: (b.Low + b.High) / 2, Y: 1, XRef: "x", YRef: "paper",
			Text: b.Name, YAnchor: "bottom",
			Font: Font{Size: 9, Color: b.Color},
		})
	}

	return &Figure{
		Data: []Trace{{
			Type:    "histogram",
			X:       scores,
			NBinsX:  20,
			Marker:  &Marker{Color: colorPrimary},
			Opacity: 0.7,
		}},
		Layout: layout,
	}
}

// CaseTypePie plots the share of each case type, largest first.
func CaseTypePie(counts []services.ValueCount) *Figure {
	labels := make([]string, len(counts))
	values := make([]int, len(counts))
	colors := make([]string, len(counts))
	for i, c := range counts {
		labels[i] = c.Value
		values[i] = c.Count
		colors[i] = formatter.CaseTypeColor(c.Value)
	}

	return &Figure{
		Data: []Trace{{
			Type:         "pie",
			Labels:       labels,
			Values:       values,
			Marker:       &Marker{Colors: colors},
			Hole:         0.4,
			TextPosition: "inside",
			TextInfo:     "label+percent",
		}},
		Layout: Layout{Height: 300, Margin: Margin{L: 20, R: 20, T: 20, B: 20}, ShowLegend: &hidden},
	}
}

// VolumeTrend plots calls processed per day.
func VolumeTrend(days []services.DailyVolume) *Figure {
	x := make([]string, len(days))
	y := make([]int, len(days))
	for i, d := range days {
		x[i] = d.Date
		y[i] = d.Count
	}

	return &Figure{
		Data: []Trace{{
			Type:   "scatter",
			Mode:   "lines+markers",
			Name:   "Calls",
			X:      x,
			Y:      y,
			Line:   &Line{Color: colorPrimary, Width: 2},
			Marker: &Marker{Size: 6},
		}},
		Layout: Layout{
			Height: 250,
			Margin: Margin{L: 40, R: 20, T: 20, B: 40},
			XAxis:  &Axis{Title: "Date"},
			YAxis:  &Axis{Title: "Calls Processed"},
		},
	}
}

// FrequencyBar plots counts as horizontal bars with the largest at the top.
// label maps raw values to axis labels; nil keeps them as they are.
func FrequencyBar(title string, counts []services.ValueCount, color string, label func(string) string) *Figure {
	sorted := append([]services.ValueCount(nil), counts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count < sorted[j].Count })

	x := make([]int, len(sorted))
	y := make([]string, len(sorted))
	for i, c := range sorted {
		x[i] = c.Count
		y[i] = c.Value
		if label != nil {
			y[i] = label(c.Value)
		}
	}

	layout := Layout{
		Title:  title,
		Height: max(200, len(sorted)*35),
		Margin: Margin{L: 150, R: 20, T: 20, B: 40},
		XAxis:  &Axis{Title: "Count"},
	}
	if title != "" {
		layout.Margin.T = 40
	}

	return &Figure{
		Data: []Trace{{
			Type:        "bar",
			Orientation: "h",
			X:           x,
			Y:           y,
			Marker:      &Marker{Color: color},
		}},
		Layout: layout,
	}
}

// ObjectionBar plots objection category frequencies.
func ObjectionBar(counts []services.ValueCount) *Figure {
	return FrequencyBar("", counts, colorWarning, formatter.Humanize)
}

// TrendingBar plots one of the "this week" frequency charts.
func TrendingBar(title string, counts []services.ValueCount, label func(string) string) *Figure {
	return FrequencyBar(title, counts, colorPrimary, label)
}

// ConfidenceBar plots how many calls received each confidence score.
func ConfidenceBar(counts []services.ValueCount) *Figure {
	x := make([]string, len(counts))
	y := make([]int, len(counts))
	for i, c := range counts {
		x[i] = c.Value
		y[i] = c.Count
	}
	return &Figure{
		Data: []Trace{{Type: "bar", X: x, Y: y, Marker: &Marker{Color: colorPrimary}}},
		Layout: Layout{
			Height:     250,
			Margin:     Margin{L: 40, R: 20, T: 20, B: 40},
			XAxis:      &Axis{Title: "Confidence Score"},
			YAxis:      &Axis{Title: "Count"},
			ShowLegend: &hidden,
		},
	}
}

// CostTrend plots daily spend. dates and costs are parallel.
func CostTrend(dates []string, costs []float64) *Figure {
	return &Figure{
		Data: []Trace{{
			Type:      "scatter",
			Mode:      "lines+markers",
			Name:      "Daily Cost",
			X:         dates,
			Y:         costs,
			Line:      &Line{Color: colorSuccess, Width: 2},
			Fill:      "tozeroy",
			FillColor: "rgba(56,142,60,0.1)",
		}},
		Layout: Layout{
			Height: 250,
			Margin: Margin{L: 40, R: 20, T: 20, B: 40},
			XAxis:  &Axis{Title: "Date"},
			YAxis:  &Axis{Title: "Cost ($)"},
		},
	}
}

// QualityViolin plots the quality score distribution with its box and mean line.
func QualityViolin(scores []float64) *Figure {
	return &Figure{
		Data: []Trace{{
			Type:      "violin",
			Y:         scores,
			Box:       &Toggle{Visible: true},
			MeanLine:  &Toggle{Visible: true},
			FillColor: "#e3f2fd",
			Line:      &Line{Color: colorPrimary, Width: 1},
			Opacity:   0.7,
		}},
		Layout: Layout{
			Height: 300,
			Margin: Margin{L: 40, R: 20, T: 20, B: 20},
			YAxis:  &Axis{Title: "Quality Score"},
		},
	}
}

// CalibrationScatter plots production scores against consensus scores with an identity line.
func CalibrationScatter(production, consensus []float64) *Figure {
	return &Figure{
		Data: []Trace{
			{
				Type:       "scatter",
				Mode:       "lines",
				X:          []float64{0, 100},
				Y:          []float64{0, 100},
				Line:       &Line{Color: "#999", Width: 1, Dash: "dash"},
				ShowLegend: &hidden,
			},
			{
				Type:   "scatter",
				Mode:   "markers",
				Name:   "Calls",
				X:      production,
				Y:      consensus,
				Marker: &Marker{Size: 8, Color: colorPrimary},
			},
		},
		Layout: Layout{
			Height: 350,
			Margin: Margin{L: 40, R: 20, T: 20, B: 40},
			XAxis:  &Axis{Title: "Grok Production Score"},
			YAxis:  &Axis{Title: "Consensus Score"},
		},
	}
}
