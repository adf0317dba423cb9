package entities

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RawRecord is one institution item exactly as returned by a facility source.
// Numbers are kept as json.Number so that values such as "0900" and 900 stay
// distinguishable. Records are shared through the cache and must not be mutated.
type RawRecord map[string]interface{}

// String returns the trimmed textual form of field, or "" when absent or null.
func (r RawRecord) String(field string) string {
	value, ok := r[field]
	if !ok || value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Float parses field as a float64. Missing or unparsable values yield (0, false).
func (r RawRecord) Float(field string) (float64, bool) {
	raw := r.String(field)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
