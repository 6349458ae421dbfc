package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Record is one row returned by the REST endpoint, keyed by column name.
//
// List and object columns sometimes arrive JSON-encoded as strings; the accessors decode them transparently.
type Record map[string]any

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Has reports whether key is present with a non-null value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// ID returns the row's id column as a string.
func (r Record) ID() string { return r.String("id") }

// String returns the value at key as display text. Null and missing values are empty.
func (r Record) String(key string) string {
	return Stringify(r[key])
}

// Float returns the numeric value at key. Numeric strings are parsed.
func (r Record) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Int returns the value at key truncated to an int.
func (r Record) Int(key string) (int, bool) {
	f, ok := r.Float(key)
	return int(f), ok
}

// Bool reports whether the value at key is true or the string "true".
func (r Record) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

// Strings returns a list column as strings.
// A JSON array encoded as a string is decoded; any other non-empty string becomes a single element.
func (r Record) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := Stringify(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		if strings.HasPrefix(s, "[") {
			var items []any
			if err := json.Unmarshal([]byte(s), &items); err == nil {
				return Record{"v": items}.Strings("v")
			}
		}
		return []string{s}
	default:
		return nil
	}
}

// Map returns an object column. A JSON object encoded as a string is decoded.
func (r Record) Map(key string) map[string]any {
	switch v := r[key].(type) {
	case map[string]any:
		return v
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err == nil {
			return m
		}
	}
	return nil
}

// Date parses a timestamp or date column.
func (r Record) Date(key string) (time.Time, bool) {
	return ParseDate(r.String(key))
}

// ParseDate accepts the timestamp shapes PostgREST emits for timestamptz, timestamp and date columns.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Stringify renders a decoded JSON value as display text.
func Stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
