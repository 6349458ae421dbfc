package web

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/desertthunder/walkerbrain/internal/formatter"
	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/services"
	"github.com/desertthunder/walkerbrain/internal/tasks"
)

const (
	// CostWindow is the number of days of spend shown.
	CostWindow = 30
	// ThroughputWindow is the number of days throughput is measured over.
	ThroughputWindow = 7
)

// DriftAlert is one expandable drift alert.
type DriftAlert struct {
	Label    string
	Severity formatter.Severity
	Report   string
}

// PromptLine renders "name (version): description".
type PromptLine struct {
	Name        string
	Version     string
	Description string
}

type statusData struct {
	Active bool

	System      []MetricCard
	SystemEmpty string

	Cost      Panel
	CostTotal []MetricCard

	Violin       Panel
	Histogram    Panel
	Confidence   Panel
	QualityEmpty string

	Drift      []DriftAlert
	DriftEmpty string

	Calibration        Panel
	CalibrationCaption string

	Throughput      []MetricCard
	ThroughputEmpty string

	Prompts      []PromptLine
	PromptsEmpty string
}

// pipelineStatus is the admin view of budget, model health and throughput.
func (a *App) pipelineStatus(ctx context.Context, req *Request) (*View, error) {
	var (
		status                        models.Record
		costs, scores, alerts, labels []models.Record
		prompts                       []models.Record
		throughput                    services.Throughput
	)

	res := tasks.Run(ctx, tasks.DefaultWorkers,
		tasks.Section{Name: "status", Load: func(ctx context.Context) (err error) {
			status, err = a.data.SystemStatus(ctx)
			return err
		}},
		tasks.Section{Name: "cost", Load: func(ctx context.Context) (err error) {
			costs, err = a.data.CostTracking(ctx, CostWindow)
			return err
		}},
		tasks.Section{Name: "quality", Load: func(ctx context.Context) (err error) {
			scores, err = a.data.QualityScores(ctx, services.QualityScanLimit)
			return err
		}},
		tasks.Section{Name: "drift", Load: func(ctx context.Context) (err error) {
			alerts, err = a.data.DriftAlerts(ctx, services.DriftAlertLimit)
			return err
		}},
		tasks.Section{Name: "calibration", Load: func(ctx context.Context) (err error) {
			labels, err = a.data.CalibrationLabels(ctx)
			return err
		}},
		tasks.Section{Name: "throughput", Load: func(ctx context.Context) (err error) {
			throughput, err = a.data.Throughput(ctx, ThroughputWindow)
			return err
		}},
		tasks.Section{Name: "prompts", Load: func(ctx context.Context) (err error) {
			prompts, err = a.data.PromptLibrary(ctx)
			return err
		}},
	)
	for _, f := range res.Failed() {
		a.logger.Warn("status section failed", "section", f.Name, "error", f.Err)
	}

	data := &statusData{}

	if res.Err("status") != nil || status == nil {
		data.SystemEmpty = "System status unavailable."
	} else {
		data.Active, data.System = systemCards(status)
	}

	if err := res.Err("cost"); err != nil {
		data.Cost = panel("Cost Tracking", "Last 30 days", nil, err, "", "Cost data unavailable.")
	} else {
		data.Cost, data.CostTotal = costSection(costs)
	}

	switch {
	case res.Err("quality") != nil:
		data.QualityEmpty = "Unable to load quality data."
	case len(scores) == 0:
		data.QualityEmpty = "No quality data available."
	default:
		values := scoreValues(scores, "quality_score")
		data.Violin = panel("Quality Score (violin)", "", QualityViolin(values), nil, "", "")
		data.Histogram = panel("Quality Score (histogram)", "", QualityHistogram(values), nil, "", "")
		var fig *Figure
		if counts := confidenceCounts(scores); len(counts) > 0 {
			fig = ConfidenceBar(counts)
		}
		data.Confidence = panel("Confidence Score Distribution", "", fig, nil, "No confidence scores recorded.", "")
	}

	switch {
	case res.Err("drift") != nil:
		data.DriftEmpty = "Drift alerts unavailable."
	case len(alerts) == 0:
		data.DriftEmpty = "No drift alerts."
	default:
		for _, r := range alerts {
			data.Drift = append(data.Drift, newDriftAlert(r))
		}
	}

	data.Calibration, data.CalibrationCaption = calibrationSection(labels, res.Err("calibration"))

	if res.Err("throughput") != nil {
		data.ThroughputEmpty = "Throughput data unavailable."
	} else {
		data.Throughput = []MetricCard{
			metricCard("Processed (7d)", formatter.FormatCount(throughput.Total), accentPrimary),
			metricCard("Avg/day", fmt.Sprintf("%.0f", throughput.PerDay), accentInfo),
			metricCard("Validation pass rate", fmt.Sprintf("%.1f%%", throughput.PassRate), accentSuccess),
		}
	}

	switch {
	case res.Err("prompts") != nil || len(prompts) == 0:
		data.PromptsEmpty = "Prompt library unavailable."
	default:
		for _, p := range prompts {
			if !p.Bool("is_active") {
				continue
			}
			data.Prompts = append(data.Prompts, PromptLine{
				Name:        p.String("prompt_name"),
				Version:     p.String("prompt_version"),
				Description: p.String("description"),
			})
		}
		if len(data.Prompts) == 0 {
			data.PromptsEmpty = "No active prompts found."
		}
	}

	return newView(req.Page, "Engineering metrics, model health, and cost tracking.", data), nil
}

// StatusLabel renders the status pill text.
func (d statusData) StatusLabel() string {
	if d.Active {
		return "System operational"
	}
	return "System paused"
}

func dollars(v float64) string { return fmt.Sprintf("$%.2f", v) }

func systemCards(status models.Record) (bool, []MetricCard) {
	active := status.Bool("system_active")
	budget, _ := status.Float("daily_budget_limit")
	spend, _ := status.Float("current_daily_spend")

	activeCard := metricCard("Active", "No", accentError)
	if active {
		activeCard = metricCard("Active", "Yes", accentSuccess)
	}
	return active, []MetricCard{
		activeCard,
		metricCard("Daily Budget", dollars(budget), accentPrimary),
		metricCard("Today's Spend", dollars(spend), accentWarning),
		metricCard("Budget Remaining", dollars(max(0, budget-spend)), accentSuccess),
	}
}

// costSection charts daily spend oldest first and totals it.
func costSection(rows []models.Record) (Panel, []MetricCard) {
	var (
		dates  []string
		costs  []float64
		total  float64
		calls  int
		counts bool
	)
	for _, r := range slices.Backward(rows) {
		date := formatter.DatePrefix(r.String("date"))
		if date == "" || !r.Has("total_cost") {
			continue
		}
		cost, _ := r.Float("total_cost")
		dates = append(dates, date)
		costs = append(costs, cost)
		total += cost
		if n, ok := r.Int("calls_processed"); ok {
			calls += n
			counts = true
		}
	}

	if len(dates) == 0 {
		return panel("Cost Tracking", "Last 30 days", nil, nil, "No cost data available.", ""), nil
	}

	cards := []MetricCard{
		metricCard("Total (30d)", dollars(total), accentPrimary),
		metricCard("Avg daily", dollars(total/float64(len(costs))), accentInfo),
	}
	if counts {
		cards = append(cards, metricCard("Calls processed (30d)", formatter.FormatCount(calls), accentSuccess))
	}
	return panel("Cost Tracking", "Last 30 days", CostTrend(dates, costs), nil, "", ""), cards
}

// confidenceCounts tallies confidence scores in ascending score order.
func confidenceCounts(rows []models.Record) []services.ValueCount {
	byScore := map[float64]int{}
	for _, r := range rows {
		if v, ok := r.Float("confidence_score"); ok {
			byScore[v]++
		}
	}
	keys := make([]float64, 0, len(byScore))
	for k := range byScore {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	out := make([]services.ValueCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, services.ValueCount{Value: formatter.FormatNumber(k), Count: byScore[k]})
	}
	return out
}

func newDriftAlert(r models.Record) DriftAlert {
	deviation, _ := r.Float("max_deviation")
	alert := DriftAlert{
		Label:    formatter.DatePrefix(r.String("created_at")),
		Severity: formatter.DriftSeverity(deviation),
		Report:   r.String("drift_report"),
	}
	if deviation != 0 {
		alert.Label = formatter.DriftLabel(r.String("created_at"), deviation)
	}
	if alert.Report == "" {
		alert.Report = "No report available."
	}
	return alert
}

// calibrationSection plots production against consensus scores once more than the minimum labels exist.
func calibrationSection(rows []models.Record, err error) (Panel, string) {
	const title, subtitle = "Model Calibration", "Production vs Consensus"
	if err != nil {
		return panel(title, subtitle, nil, err, "", "Calibration data table not available."), ""
	}
	if len(rows) <= services.CalibrationMinLabels {
		return panel(title, subtitle, nil, nil, "Not enough calibration labels for chart.", ""), ""
	}

	var production, consensus []float64
	for _, r := range rows {
		p, okP := r.Float("production_quality_score")
		c, okC := r.Float("consensus_quality_score")
		if okP && okC {
			production = append(production, p)
			consensus = append(consensus, c)
		}
	}
	if len(production) == 0 {
		return panel(title, subtitle, nil, nil, "No calibration data available.", ""), ""
	}
	return panel(title, subtitle, CalibrationScatter(production, consensus), nil, "", ""),
		fmt.Sprintf("%d calibration labels", len(production))
}
