// Package jsonutil renders decoded JSON values tolerantly. Form snapshots
// arrive as map[string]any from the frontend, so a field expected to be a
// string may decode as a number, boolean, or list.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Stringify converts a decoded JSON value to its display string.
// Numbers render without a trailing ".0" when integral, lists join their
// elements with ", ", and nil renders as the empty string.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	case json.Number:
		return val.String()
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := Stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}

// IsEmpty reports whether a decoded JSON value carries no content: nil,
// an empty string, or a list with no non-empty elements.
func IsEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		for _, item := range val {
			if !IsEmpty(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
