// utils/fieldpath.go - ordered fallback lookup over raw JSON payloads
package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Lookup walks a dot-separated path through nested maps. Intermediate slices
// accept a numeric segment ("documents.0.file"). The boolean is false when any
// segment is missing or the final value is empty.
func Lookup(m map[string]any, path string) (any, bool) {
	if m == nil || path == "" {
		return nil, false
	}

	var current any = m
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = value
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}

	if isEmptyValue(current) {
		return nil, false
	}
	return current, true
}

// FirstNonEmpty resolves the first path that yields a non-empty value.
// The paths form the ordered fallback table for one logical field.
func FirstNonEmpty(m map[string]any, paths ...string) (any, bool) {
	for _, path := range paths {
		if value, ok := Lookup(m, path); ok {
			return value, true
		}
	}
	return nil, false
}

// StringAt resolves the first path yielding a non-empty string representation.
func StringAt(m map[string]any, paths ...string) string {
	value, ok := FirstNonEmpty(m, paths...)
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// NumberAt resolves the first path yielding a finite number. Non-numeric and
// non-finite values resolve to nil rather than NaN.
func NumberAt(m map[string]any, paths ...string) *float64 {
	for _, path := range paths {
		value, ok := Lookup(m, path)
		if !ok {
			continue
		}
		if parsed := ParseNumber(value); parsed != nil {
			return parsed
		}
	}
	return nil
}

// IntAt resolves the first path yielding an integral number.
func IntAt(m map[string]any, paths ...string) (int, bool) {
	if parsed := NumberAt(m, paths...); parsed != nil {
		return int(*parsed), true
	}
	return 0, false
}

// BoolAt resolves the first path yielding a boolean (or "true"/"false").
func BoolAt(m map[string]any, paths ...string) (bool, bool) {
	value, ok := FirstNonEmpty(m, paths...)
	if !ok {
		return false, false
	}
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return parsed, true
	default:
		return false, false
	}
}

// TimeAt resolves the first path yielding a parseable timestamp.
func TimeAt(m map[string]any, paths ...string) *time.Time {
	for _, path := range paths {
		value, ok := Lookup(m, path)
		if !ok {
			continue
		}
		str, ok := value.(string)
		if !ok {
			continue
		}
		if parsed := ParseTime(str); parsed != nil {
			return parsed
		}
	}
	return nil
}

// ParseNumber coerces a JSON value to a finite float64, returning nil for
// anything else. Strings may carry thousand separators.
func ParseNumber(value any) *float64 {
	var parsed float64
	switch v := value.(type) {
	case float64:
		parsed = v
	case int:
		parsed = float64(v)
	case int64:
		parsed = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		parsed = f
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if cleaned == "" {
			return nil
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		parsed = f
	default:
		return nil
	}

	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil
	}
	return &parsed
}

// ParseTime accepts the timestamp layouts observed across backend versions.
func ParseTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	default:
		return false
	}
}
