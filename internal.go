package tabula

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

func seriesWithError(err error) *Series {
	return &Series{err: err}
}

func dataFrameWithError(err error) *DataFrame {
	return &DataFrame{err: err}
}

// keyString reduces a value to the single stringified key space used by
// GroupBy, Distinct, Join, and the set operators. Distinct values that
// stringify identically (e.g., 1 and "1") collide.
func keyString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

// rowKey joins a row's values in column order, for whole-row identity.
func rowKey(row Row, columnNames []string) string {
	parts := make([]string, len(columnNames))
	for i, name := range columnNames {
		parts[i] = keyString(row[name])
	}
	return strings.Join(parts, "\x1f")
}

func numericValue(val any) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// toFloat coerces a value to float64, parsing strings and converting bools.
func toFloat(val any) (float64, bool) {
	if f, ok := numericValue(val); ok {
		return f, true
	}
	switch v := val.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// compareValues is the default relational comparison by detected value type.
// nil sorts before everything; mixed types fall back to stringified order.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		if a == nil && b == nil {
			return 0
		}
		if a == nil {
			return -1
		}
		return 1
	}
	if af, aok := numericValue(a); aok {
		if bf, bok := numericValue(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
	}
	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case !ab && bb:
				return -1
			case ab && !bb:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(keyString(a), keyString(b))
}

// typeTag reports the runtime type tag used by DetectTypes and Serialize.
func typeTag(val any) string {
	switch val.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case time.Time:
		return "date"
	}
	if _, ok := numericValue(val); ok {
		return "number"
	}
	return "other"
}

// dedupeColumnNames makes column names unique case-insensitively by
// suffixing duplicates with .1, .2, and so on.
func dedupeColumnNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	ret := make([]string, len(names))
	for i, name := range names {
		candidate := name
		for n := 1; seen[strings.ToLower(candidate)]; n++ {
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		seen[strings.ToLower(candidate)] = true
		ret[i] = candidate
	}
	return ret
}

// inferColumnNames returns the sorted union of row keys. If considerAllRows
// is false, only the first row is scanned.
func inferColumnNames(rows seq[Row], considerAllRows bool) []string {
	seen := make(map[string]bool)
	var names []string
	rows(func(row Row) bool {
		for name := range row {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		return considerAllRows
	})
	sort.Strings(names)
	return names
}

func copyRow(row Row) Row {
	ret := make(Row, len(row)+1)
	for k, v := range row {
		ret[k] = v
	}
	return ret
}

// mergeColumnNames appends the additions that are not already present
// (case-insensitively), keeping existing order and positions.
func mergeColumnNames(existing []string, additions []string) []string {
	ret := append([]string{}, existing...)
	for _, name := range additions {
		if _, ok := findColumnName(name, ret); !ok {
			ret = append(ret, name)
		}
	}
	return ret
}

func rowValues(row Row, columnNames []string) []any {
	ret := make([]any, len(columnNames))
	for i, name := range columnNames {
		ret[i] = row[name]
	}
	return ret
}

func asRow(val any) Row {
	if row, ok := val.(Row); ok {
		return row
	}
	return nil
}

// findColumnName matches name against columnNames case-insensitively and
// returns the canonical name, mirroring the case-insensitive uniqueness
// rule applied at construction.
func findColumnName(name string, columnNames []string) (string, bool) {
	for _, col := range columnNames {
		if strings.EqualFold(col, name) {
			return col, true
		}
	}
	return "", false
}

// -- float aggregation helpers

// floatValues coerces a value sequence to float64, skipping values that
// cannot be coerced.
func floatValues(values seq[any]) []float64 {
	var ret []float64
	values(func(v any) bool {
		if f, ok := toFloat(v); ok {
			ret = append(ret, f)
		}
		return true
	})
	return ret
}

func sum(vals []float64) float64 {
	var total float64
	for _, v := range vals {
		total += v
	}
	return total
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return sum(vals) / float64(len(vals))
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func std(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := mean(vals)
	var variance float64
	for _, v := range vals {
		variance += (v - m) * (v - m)
	}
	return math.Sqrt(variance / float64(len(vals)))
}

func minimum(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	ret := vals[0]
	for _, v := range vals[1:] {
		if v < ret {
			ret = v
		}
	}
	return ret
}

func maximum(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	ret := vals[0]
	for _, v := range vals[1:] {
		if v > ret {
			ret = v
		}
	}
	return ret
}
