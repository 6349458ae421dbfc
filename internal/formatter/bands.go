package formatter

import (
	"fmt"
	"strings"
)

// Badge CSS classes.
const (
	BadgeError   = "wb-badge-error"
	BadgeWarning = "wb-badge-warning"
	BadgeSuccess = "wb-badge-success"
	BadgeInfo    = "wb-badge-info"
)

// Band is a named quality score range.
type Band struct {
	Name  string
	Low   float64
	High  float64
	Color string
}

// QualityBands are listed from worst to best. Scores between two bands fall into none.
var QualityBands = []Band{
	{Name: "POOR", Low: 0, High: 29, Color: "#E17055"},
	{Name: "NEEDS IMPROVEMENT", Low: 30, High: 59, Color: "#FDCB6E"},
	{Name: "ADEQUATE", Low: 60, High: 74, Color: "#F9CA24"},
	{Name: "STRONG", Low: 75, High: 89, Color: "#00B894"},
	{Name: "EXCEPTIONAL", Low: 90, High: 100, Color: "#D4A03C"},
}

// NoBand is returned for missing or out-of-range scores.
var NoBand = Band{Name: "N/A", Color: "#6B7280"}

// QualityBand buckets score into its [Band]. ok=false means the score is missing.
func QualityBand(score float64, ok bool) Band {
	if !ok {
		return NoBand
	}
	for _, b := range QualityBands {
		if score >= b.Low && score <= b.High {
			return b
		}
	}
	return NoBand
}

// QualityBadgeClass maps a band to its badge class.
func QualityBadgeClass(b Band) string {
	switch b.Name {
	case "POOR", "NEEDS IMPROVEMENT":
		return BadgeError
	case "ADEQUATE":
		return BadgeWarning
	case "STRONG", "EXCEPTIONAL":
		return BadgeSuccess
	default:
		return BadgeInfo
	}
}

var toneBadges = map[string]string{
	"distressed":   BadgeError,
	"angry":        BadgeError,
	"fearful":      BadgeError,
	"frustrated":   BadgeError,
	"anxious":      BadgeWarning,
	"confused":     BadgeWarning,
	"skeptical":    BadgeWarning,
	"hopeful":      BadgeSuccess,
	"grateful":     BadgeSuccess,
	"relieved":     BadgeSuccess,
	"neutral":      BadgeInfo,
	"calm":         BadgeInfo,
	"neutral_calm": BadgeInfo,
}

// ToneBadgeClass maps an emotional tone to a badge class. Unknown tones are info.
func ToneBadgeClass(tone string) string {
	if class, ok := toneBadges[strings.ToLower(strings.TrimSpace(tone))]; ok {
		return class
	}
	return BadgeInfo
}

// SearchBadgeClass colours a transcript search hit by quality: 75+ success, 50+ warning, else error.
func SearchBadgeClass(score float64) string {
	switch {
	case score >= 75:
		return BadgeSuccess
	case score >= 50:
		return BadgeWarning
	default:
		return BadgeError
	}
}

// AngleQualityColor colours an angle brief's quality pill.
func AngleQualityColor(score float64) string {
	switch {
	case score >= 75:
		return "#388e3c"
	case score >= 60:
		return "#f57c00"
	default:
		return "#d32f2f"
	}
}

// AgentScoreClass colours a 0-10 agent score: below 5 error, below 8 warning, else success.
func AgentScoreClass(score float64) string {
	switch {
	case score < 5:
		return BadgeError
	case score < 8:
		return BadgeWarning
	default:
		return BadgeSuccess
	}
}

// Severity is a drift alert's display level.
type Severity struct {
	Label string
	Class string
}

// DriftSeverity grades a drift deviation measured in standard deviations.
func DriftSeverity(deviation float64) Severity {
	switch {
	case deviation > 3:
		return Severity{Label: "High", Class: BadgeError}
	case deviation > 2:
		return Severity{Label: "Medium", Class: BadgeWarning}
	default:
		return Severity{Label: "Low", Class: BadgeInfo}
	}
}

// DriftLabel renders "2026-01-05 — High (3.4σ)".
func DriftLabel(created string, deviation float64) string {
	return fmt.Sprintf("%s — %s (%.1fσ)", DatePrefix(created), DriftSeverity(deviation).Label, deviation)
}

// CaseTypeColors keys chart colours by case type.
var CaseTypeColors = map[string]string{
	"auto-accident":       "#D4A03C",
	"MVA":                 "#D4A03C",
	"slip-and-fall":       "#E17055",
	"workers-comp":        "#00B894",
	"premises-liability":  "#6C5CE7",
	"dog-bite":            "#A29BFE",
	"medical-malpractice": "#FD79A8",
	"product-liability":   "#FDCB6E",
	"wrongful-death":      "#74B9FF",
	"other":               "#9CA3B4",
}

// CaseTypeColor returns the chart colour for a case type.
func CaseTypeColor(caseType string) string {
	if c, ok := CaseTypeColors[caseType]; ok {
		return c
	}
	return "#bcbd22"
}

// ObjectionCategories is the fixed objection taxonomy.
var ObjectionCategories = []string{
	"cost_anxiety",
	"risk_avoidance",
	"authority_doubt",
	"timing_resistance",
	"immigration_status",
	"prior_bad_experience",
	"trust_legitimacy",
	"process_confusion",
}

// IsObjectionCategory reports whether s belongs to the taxonomy.
func IsObjectionCategory(s string) bool {
	for _, c := range ObjectionCategories {
		if c == s {
			return true
		}
	}
	return false
}

// TestimonialStatuses in pipeline order; declined is kept last and shown separately.
var TestimonialStatuses = []string{"flagged", "contacted", "scheduled", "recorded", "published", "declined"}

// TestimonialStatusColors keys kanban column accents by status.
var TestimonialStatusColors = map[string]string{
	"flagged":   "#6B7280",
	"contacted": "#74B9FF",
	"scheduled": "#FDCB6E",
	"recorded":  "#00B894",
	"published": "#D4A03C",
	"declined":  "#E17055",
}

// TestimonialTypes are the filterable testimonial types.
var TestimonialTypes = []string{"not_suitable", "high_value_long_form", "quantity_short_form", "video_candidate"}

var testimonialTypeLabels = map[string]string{
	"not_suitable":         "Not Suitable",
	"high_value_long_form": "High Value — Long Form",
	"quantity_short_form":  "Short Form",
	"video_candidate":      "Video Candidate",
}

// TestimonialTypeLabel returns the display label for a testimonial type, or the raw value.
func TestimonialTypeLabel(t string) string {
	if l, ok := testimonialTypeLabels[t]; ok {
		return l
	}
	return t
}

// ContentTypes are the Angle Bank content types.
var ContentTypes = []string{"educational_explainer", "social_hook", "case_study_brief", "testimonial_angle"}

var contentTypeColors = map[string]string{
	"educational_explainer": "#1565c0",
	"social_hook":           "#7b1fa2",
	"case_study_brief":      "#ef6c00",
	"testimonial_angle":     "#2e7d32",
}

// ContentTypeColor returns the accent colour for an Angle Bank content type.
func ContentTypeColor(ct string) string {
	if c, ok := contentTypeColors[ct]; ok {
		return c
	}
	return "#757575"
}

// ContentIntents are the Angle Bank intents.
var ContentIntents = []string{"Educate", "Empathize", "Empower", "Activate"}

var intentColors = map[string]string{
	"Educate":   "#1565c0",
	"Empathize": "#7b1fa2",
	"Empower":   "#2e7d32",
	"Activate":  "#ef6c00",
}

// IntentColor returns the pill colour for a content intent.
func IntentColor(intent string) string {
	if c, ok := intentColors[intent]; ok {
		return c
	}
	return "#757575"
}

var funnelColors = map[string]string{
	"Problem Aware":  "#d32f2f",
	"Solution Aware": "#f57c00",
	"Service Aware":  "#388e3c",
}

// FunnelColor returns the pill colour for a funnel stage hint.
func FunnelColor(stage string) string {
	if c, ok := funnelColors[stage]; ok {
		return c
	}
	return "#757575"
}

// AngleStatuses are the review states shown on the Angle Bank.
var AngleStatuses = []string{"pending_review", "approved"}

// AngleStatusColor is green for approved and amber otherwise.
func AngleStatusColor(status string) string {
	if status == "approved" {
		return "#2e7d32"
	}
	return "#f57c00"
}

// ColumnGroup is a named set of Data Explorer columns.
type ColumnGroup struct {
	Name    string
	Columns []string
}

// ColumnGroups are the Data Explorer toggles in display order. Core is on by default.
var ColumnGroups = []ColumnGroup{
	{Name: "Core", Columns: []string{
		"source_transcript_id", "case_type", "quality_score",
		"emotional_tone", "outcome", "analyzed_at",
	}},
	{Name: "Quality Sub-Scores", Columns: []string{"quality_sub_scores"}},
	{Name: "Agent Scores", Columns: []string{
		"agent_empathy_score", "agent_education_quality",
		"agent_objection_handling", "agent_closing_effectiveness",
	}},
	{Name: "Case Assessment", Columns: []string{
		"liability_clarity", "injury_severity",
		"documentation_quality", "estimated_case_value_low",
		"estimated_case_value_high",
	}},
	{Name: "Objection Taxonomy", Columns: []string{
		"objection_categories", "mid_call_dropout_moment",
		"conversion_driver", "drop_off_reason",
		"agent_intervention_that_worked", "moment_that_closed",
	}},
	{Name: "Language & Culture", Columns: []string{
		"reading_level_estimate", "communication_style",
		"spanglish_detected", "colloquialisms", "cultural_markers",
		"family_references", "verbatim_customer_language",
	}},
	{Name: "CX Intelligence", Columns: []string{
		"questions_repeated_by_attorney", "attorney_used_prior_info",
		"handoff_wait_time_mentioned", "attorney_sentiment",
		"attorney_rejection_reason", "testimonial_candidate",
		"testimonial_type", "review_request_eligible",
	}},
	{Name: "Content Mining", Columns: []string{
		"common_questions_asked", "misunderstandings",
		"education_calming_moment", "process_confusion_points",
		"other_brands_mentioned", "competitive_comparison",
		"category_confusion", "ad_or_creative_referenced",
		"ad_promise_vs_reality_mismatch", "repeated_questions_from_caller",
	}},
	{Name: "Emotional Arc", Columns: []string{
		"opening_emotional_state", "mid_call_emotional_shift",
		"end_state_emotion",
	}},
	{Name: "Metadata", Columns: []string{
		"prompt_version_used", "confidence_score", "validation_passed",
		"api_cost", "input_tokens", "output_tokens", "analysis_type",
	}},
}

// ColumnsFor returns the deduplicated columns of the named groups, in group order.
// Unknown names are ignored; no known names yields the Core group.
func ColumnsFor(groups []string) []string {
	want := make(map[string]bool, len(groups))
	for _, g := range groups {
		want[g] = true
	}

	seen := map[string]bool{}
	var cols []string
	for _, g := range ColumnGroups {
		if !want[g.Name] {
			continue
		}
		for _, c := range g.Columns {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}

	if len(cols) == 0 {
		return append([]string(nil), ColumnGroups[0].Columns...)
	}
	return cols
}
