package backend

import (
	"encoding/json"
	"strconv"
	"time"
)

// StringID normalizes backend identifiers. Older endpoints emit numeric
// ids, newer ones strings; pages only ever see strings.
func StringID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case json.Number:
		return id.String()
	case nil:
		return ""
	default:
		return ""
	}
}

// timeLayouts are the timestamp formats the backend has emitted.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses a backend timestamp. Unparseable or empty values yield
// the zero time; timestamps are display data here, never authority.
func ParseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseFloat normalizes numeric fields that arrive as numbers or strings
// ("price": "25.00" on older records).
func ParseFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}

// ParseInt normalizes integer fields that arrive as numbers or strings.
func ParseInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	}
	return 0
}
