package weread

import (
	"encoding/json"
	"strconv"
)

// Record is a loosely structured JSON object returned by the WeRead API.
// Field names drift between client versions, so callers read it through
// ordered candidate keys instead of fixed structs.
type Record map[string]any

// Records returns r[key] as a list of objects. ok is false when the value is
// not a list; non-object list entries are skipped.
func (r Record) Records(key string) (records []Record, ok bool) {
	items, ok := r[key].([]any)
	if !ok {
		return nil, false
	}
	records = make([]Record, 0, len(items))
	for _, item := range items {
		if m, isMap := item.(map[string]any); isMap {
			records = append(records, Record(m))
		}
	}
	return records, true
}

// Object returns r[key] as a nested object.
func (r Record) Object(key string) (Record, bool) {
	m, ok := r[key].(map[string]any)
	if !ok {
		return nil, false
	}
	return Record(m), true
}

// Scalar renders a JSON scalar as a string. Objects, arrays and null render
// as the empty string.
func Scalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// IsBlank reports whether v carries no usable value: null, empty string,
// numeric zero, false, or an empty list or object.
func IsBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case json.Number:
		f, err := val.Float64()
		return err == nil && f == 0
	case float64:
		return val == 0
	case int:
		return val == 0
	case int64:
		return val == 0
	case bool:
		return !val
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

// Int64 converts a JSON scalar to an integer. Fractional values are
// truncated; non-numeric values report ok=false.
func Int64(v any) (n int64, ok bool) {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, true
		}
		if f, err := val.Float64(); err == nil {
			return int64(f), true
		}
	case float64:
		return int64(val), true
	case int:
		return int64(val), true
	case int64:
		return val, true
	case string:
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}
