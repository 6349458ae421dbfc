package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Op is a PostgREST filter operator.
type Op string

const (
	OpEq    Op = "eq"
	OpNeq   Op = "neq"
	OpGt    Op = "gt"
	OpGte   Op = "gte"
	OpLt    Op = "lt"
	OpLte   Op = "lte"
	OpLike  Op = "like"
	OpIlike Op = "ilike"
	OpIn    Op = "in"
	OpIs    Op = "is"
	OpNotIs Op = "not.is"
	OpCs    Op = "cs"
)

// Filter is one column predicate.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

func Eq(col string, v any) Filter { return Filter{Column: col, Op: OpEq, Value: v} }
func Neq(col string, v any) Filter { return Filter{Column: col, Op: OpNeq, Value: v} }
func Gt(col string, v any) Filter { return Filter{Column: col, Op: OpGt, Value: v} }
func Gte(col string, v any) Filter { return Filter{Column: col, Op: OpGte, Value: v} }
func Lt(col string, v any) Filter { return Filter{Column: col, Op: OpLt, Value: v} }
func Lte(col string, v any) Filter { return Filter{Column: col, Op: OpLte, Value: v} }
func Ilike(col string, v any) Filter { return Filter{Column: col, Op: OpIlike, Value: v} }
func NotNull(col string) Filter { return Filter{Column: col, Op: OpNotIs, Value: nil} }
func IsNull(col string) Filter { return Filter{Column: col, Op: OpIs, Value: nil} }

// In matches any of values. An empty list is left to the caller to skip.
func In(col string, values []string) Filter {
	return Filter{Column: col, Op: OpIn, Value: values}
}

// Contains matches array or jsonb columns containing literal, which is sent verbatim.
func Contains(col, literal string) Filter {
	return Filter{Column: col, Op: OpCs, Value: literal}
}

// Order sorts by one column.
type Order struct {
	Column string
	Desc   bool
}

// ParseOrder reads the "-col" shorthand for descending order.
func ParseOrder(s string) Order {
	if strings.HasPrefix(s, "-") {
		return Order{Column: s[1:], Desc: true}
	}
	return Order{Column: s}
}

// Query describes a read against one table or view.
type Query struct {
	Table   string
	Select  string
	Filters []Filter
	Or      []Filter // sent as a single or=(...) group
	Order   []Order
	Limit   int
	Offset  int
}

// Where appends filters and returns q for chaining.
func (q Query) Where(filters ...Filter) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), filters...)
	return q
}

// Values encodes the query as PostgREST URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}

	sel := q.Select
	if sel == "" {
		sel = "*"
	}
	v.Set("select", compactSelect(sel))

	for _, f := range q.Filters {
		v.Add(f.Column, string(f.Op)+"."+formatValue(f.Op, f.Value))
	}

	if len(q.Or) > 0 {
		parts := make([]string, len(q.Or))
		for i, f := range q.Or {
			parts[i] = f.Column + "." + string(f.Op) + "." + formatValue(f.Op, f.Value)
		}
		v.Set("or", "("+strings.Join(parts, ",")+")")
	}

	if len(q.Order) > 0 {
		parts := make([]string, len(q.Order))
		for i, o := range q.Order {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts[i] = o.Column + "." + dir
		}
		v.Set("order", strings.Join(parts, ","))
	}

	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}

	return v
}

// Encode returns the sorted, URL-encoded parameter string. It doubles as a cache key.
func (q Query) Encode() string {
	return q.Values().Encode()
}

func compactSelect(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func formatValue(op Op, v any) string {
	switch op {
	case OpIs, OpNotIs:
		if v == nil {
			return "null"
		}
	case OpIn:
		if values, ok := v.([]string); ok {
			quoted := make([]string, len(values))
			for i, s := range values {
				quoted[i] = quoteListValue(s)
			}
			return "(" + strings.Join(quoted, ",") + ")"
		}
	}
	return formatScalar(v)
}

func formatScalar(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// quoteListValue double-quotes an in-list value when it contains a PostgREST reserved character.
func quoteListValue(s string) string {
	if !strings.ContainsAny(s, `,()".: `) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

var searchEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
	`(`, `\(`,
	`)`, `\)`,
	`.`, `\.`,
	`,`, `\,`,
)

// EscapeSearchTerm escapes a free-text term for use inside an ilike pattern within an or=(...) group.
func EscapeSearchTerm(s string) string {
	return searchEscaper.Replace(s)
}
