// package formatter turns analysis rows into display text, badge classes and export files
package formatter

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/desertthunder/walkerbrain/internal/models"
)

// EmDash is shown in place of a missing value.
const EmDash = "—"

var falsySentinels = map[string]bool{
	"":      true,
	"none":  true,
	"null":  true,
	"n/a":   true,
	"false": true,
}

// Humanize converts a snake_case column name to Title Case: "snake_case" becomes "Snake Case".
func Humanize(s string) string {
	return Title(strings.ReplaceAll(s, "_", " "))
}

// Title upper-cases the first letter of every run of letters and lower-cases the rest.
func Title(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		prevLetter = false
		b.WriteRune(r)
	}
	return b.String()
}

// IsFalsySentinel reports whether v is a placeholder that should be hidden from display.
// Numbers are never sentinels, so a score of 0 is shown.
func IsFalsySentinel(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return !v
	case float64, float32, int, int64:
		return false
	case string:
		return falsySentinels[strings.ToLower(strings.TrimSpace(v))]
	default:
		return false
	}
}

// HasRealValue reports whether v is worth rendering: not a sentinel and not an empty list.
func HasRealValue(v any) bool {
	switch v := v.(type) {
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case bool:
		return true
	default:
		return !IsFalsySentinel(v)
	}
}

// CleanLanguage strips wrapping single quotes and whitespace from a language value.
func CleanLanguage(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "'"))
}

// LanguageCode returns the two-letter upper-case prefix of a language value, e.g. "EN".
func LanguageCode(s string) string {
	clean := []rune(CleanLanguage(s))
	if len(clean) > 2 {
		clean = clean[:2]
	}
	return strings.ToUpper(string(clean))
}

// FormatLastUpdated renders a timestamp as "Jan 5, 2026 at 3:04 PM UTC".
func FormatLastUpdated(t time.Time) string {
	return t.UTC().Format("Jan 2, 2006 at 3:04 PM") + " UTC"
}

// FormatShortDate renders a timestamp as "Jan 02, 2006".
func FormatShortDate(t time.Time) string {
	return t.Format("Jan 02, 2006")
}

// FormatDateTime renders a timestamp as "Jan 02, 2006 03:04 PM".
func FormatDateTime(t time.Time) string {
	return t.Format("Jan 02, 2006 03:04 PM")
}

// DatePrefix returns the YYYY-MM-DD part of an ISO timestamp string.
func DatePrefix(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

// Truncate shortens s to max runes, appending "..." when anything was cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// ShortID returns the first 12 characters of a transcript ID.
func ShortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatNumber renders v without a trailing ".0" for whole numbers.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDollars(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("$%.0fk", v/1000)
	}
	return "$" + FormatCount(int(math.RoundToEven(v)))
}

// FormatCaseValue renders an estimated case value range as "$200k – $500k (High)".
// A missing low end is shown as "?", a missing high end is omitted, and both missing yields an em-dash.
func FormatCaseValue(low, high *float64, category string) string {
	if low == nil && high == nil {
		return EmDash
	}

	parts := make([]string, 0, 2)
	if low != nil {
		parts = append(parts, formatDollars(*low))
	} else {
		parts = append(parts, "?")
	}
	if high != nil {
		parts = append(parts, formatDollars(*high))
	}

	result := strings.Join(parts, " – ")
	if category != "" {
		result += " (" + category + ")"
	}
	return result
}

// CaseValue reads the estimated case value columns from r and formats them.
func CaseValue(r models.Record) string {
	var low, high *float64
	if v, ok := r.Float("estimated_case_value_low"); ok {
		low = &v
	}
	if v, ok := r.Float("estimated_case_value_high"); ok {
		high = &v
	}
	return FormatCaseValue(low, high, r.String("estimated_case_value_category"))
}

// Median returns the upper median of values, or 0 for an empty slice. values is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// DisplayValue renders a cell for tables: an em-dash for missing values, plain text otherwise.
func DisplayValue(v any) string {
	if v == nil {
		return EmDash
	}
	if s := models.Stringify(v); s != "" {
		return s
	}
	return EmDash
}

var highlightRestorer = strings.NewReplacer("&lt;b&gt;", "<b>", "&lt;/b&gt;", "</b>")

// HighlightHTML escapes s as HTML, keeping only the <b> and </b> tags a full-text search inserts.
func HighlightHTML(s string) string {
	return highlightRestorer.Replace(html.EscapeString(s))
}
