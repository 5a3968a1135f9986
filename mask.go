package netbird

import (
	"fmt"
	"strings"
)

var sensitiveFields = map[string]struct{}{
	"api_key":       {},
	"token":         {},
	"password":      {},
	"secret":        {},
	"key":           {},
	"authorization": {},
	"auth":          {},
	"credentials":   {},
	"private_key":   {},
	"access_token":  {},
	"refresh_token": {},
	"session_id":    {},
}

// MaskSensitive returns a copy of v with the values of well-known credential
// fields masked, keeping at most the last showChars characters visible.
// Field names are matched case-insensitively; maps and slices are walked
// recursively. Use this on any request or response payload before logging.
func MaskSensitive(v any, showChars int) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for key, value := range val {
			if _, sensitive := sensitiveFields[strings.ToLower(key)]; sensitive {
				result[key] = maskValue(fmt.Sprintf("%v", value), showChars)
			} else {
				result[key] = MaskSensitive(value, showChars)
			}
		}
		return result
	case map[string]string:
		result := make(map[string]any, len(val))
		for key, value := range val {
			if _, sensitive := sensitiveFields[strings.ToLower(key)]; sensitive {
				result[key] = maskValue(value, showChars)
			} else {
				result[key] = value
			}
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = MaskSensitive(item, showChars)
		}
		return result
	default:
		return v
	}
}

func maskValue(value string, showChars int) string {
	if showChars < 0 {
		showChars = 0
	}
	if len(value) <= showChars {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-showChars) + value[len(value)-showChars:]
}
