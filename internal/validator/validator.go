// Package validator checks invoice-like records against completeness, format,
// business-rule, and anomaly rules, plus batch-scoped duplicate detection.
// Rules never fail hard: each one returns zero or more error-code strings and
// recovers locally from values it cannot coerce.
package validator

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"invoiceqc/internal/domain"
)

// Rule is a single validation check. Check returns the error codes the record
// violates, in a deterministic order, or nil when the rule passes.
type Rule struct {
	Key   string
	Check func(rec domain.Record) []string
}

// dateLayout is the only accepted date format, DD.MM.YYYY.
const dateLayout = "02.01.2006"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(s))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// truthy mirrors the presence test the rules apply to mapping values: nil,
// empty strings, zero numbers, false, and empty sequences all count as absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// asNumber coerces a mapping value to float64. Strings are parsed after
// trimming; anything else that is not a number reports false.
func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// stringify renders a mapping value for use in invoice IDs and duplicate
// keys. Numeric JSON values print without exponent notation.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// hasItems reports whether a line_items value is a non-empty sequence.
func hasItems(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return rv.Len() > 0
	}
	return truthy(v)
}

// itemRecords extracts the per-item mappings from a record's line_items
// value. Elements that are not mappings are skipped.
func itemRecords(rec domain.Record) []domain.Record {
	items, ok := rec["line_items"].([]any)
	if !ok {
		return nil
	}
	out := make([]domain.Record, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, domain.Record(m))
		}
	}
	return out
}
