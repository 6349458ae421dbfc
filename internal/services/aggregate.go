package services

import (
	"sort"
	"strings"

	"github.com/desertthunder/walkerbrain/internal/formatter"
	"github.com/desertthunder/walkerbrain/internal/models"
)

// ValueCount is one bar of a frequency chart.
type ValueCount struct {
	Value string
	Count int
}

var junkValues = map[string]bool{
	"":          true,
	"undefined": true,
	"none":      true,
	"null":      true,
	"n/a":       true,
}

// IsJunkValue reports whether a mined category or tag is a placeholder rather than real data.
func IsJunkValue(s string) bool {
	return junkValues[strings.ToLower(strings.TrimSpace(s))]
}

// Tally counts the values of column across rows, expanding list-valued columns, skipping junk values,
// and sorting by count descending then value ascending.
func Tally(rows []models.Record, column string) []ValueCount {
	counts := map[string]int{}
	for _, r := range rows {
		for _, v := range r.Strings(column) {
			if IsJunkValue(v) {
				continue
			}
			counts[v]++
		}
	}

	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Top returns the first n counts, or all of them when n <= 0.
func Top(counts []ValueCount, n int) []ValueCount {
	if n <= 0 || len(counts) <= n {
		return counts
	}
	return counts[:n]
}

func distinct(rows []models.Record, column string) []string {
	seen := map[string]bool{}
	values := []string{}
	for _, r := range rows {
		v := r.String(column)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func floats(rows []models.Record, column string) []float64 {
	var values []float64
	for _, r := range rows {
		if f, ok := r.Float(column); ok {
			values = append(values, f)
		}
	}
	return values
}

func medianOf(rows []models.Record, column string) float64 {
	return formatter.Median(floats(rows, column))
}
