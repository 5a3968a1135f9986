// Package models contains the typed data models for the NetBird management
// API: peers, groups and policies, plus the reference projections embedded
// inside them.
//
// The API returns heterogeneous shapes for the same logical fields (inline
// reference objects vs. bare id strings, several datetime formats, boolean
// fields encoded as strings, snake_case or camelCase field names). Each
// entity has a Parse function that normalizes a raw JSON payload into a
// single internal representation and reports every violation in one
// aggregated ValidationError. Unrecognized keys are retained in the
// entity's Extra map so new API fields survive a decode/encode round trip.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	netbird "github.com/peteraglen/netbird-go-client"
)

// maxNameLength is the API's limit for group, policy and rule names.
const maxNameLength = 100

// fieldErrors accumulates normalization violations so a caller sees all of
// them at once instead of failing on the first.
type fieldErrors []string

func (e *fieldErrors) addf(format string, v ...any) {
	*e = append(*e, fmt.Sprintf(format, v...))
}

func (e fieldErrors) intoError(entity string) error {
	if len(e) == 0 {
		return nil
	}
	return netbird.NewValidationError(entity + ": " + strings.Join(e, "; "))
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("expected a JSON object: %w", err)
	}
	return fields, nil
}

// take removes every listed key from fields and returns the first value
// that was present. Listing both the snake_case wire name and its camelCase
// alias makes either spelling acceptable while keeping the leftovers map
// clean for Extra retention.
func take(fields map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	var value json.RawMessage
	found := false
	for _, key := range keys {
		if v, ok := fields[key]; ok {
			if !found && !isNull(v) {
				value = v
				found = true
			}
			delete(fields, key)
		}
	}
	return value, found
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

func stringField(fields map[string]json.RawMessage, errs *fieldErrors, keys ...string) string {
	raw, ok := take(fields, keys...)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		errs.addf("%s must be a string", keys[0])
		return ""
	}
	return s
}

func intField(fields map[string]json.RawMessage, errs *fieldErrors, keys ...string) int {
	raw, ok := take(fields, keys...)
	if !ok {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		errs.addf("%s must be an integer", keys[0])
		return 0
	}
	return n
}

// flexBoolField reads a boolean that the API may encode as a native bool or
// a string, falling back to def when the field is absent.
func flexBoolField(fields map[string]json.RawMessage, errs *fieldErrors, def bool, keys ...string) bool {
	raw, ok := take(fields, keys...)
	if !ok {
		return def
	}
	var b FlexBool
	if err := b.UnmarshalJSON(raw); err != nil {
		errs.addf("%s must be a boolean", keys[0])
		return def
	}
	return bool(b)
}

func timeField(fields map[string]json.RawMessage, errs *fieldErrors, keys ...string) *Timestamp {
	raw, ok := take(fields, keys...)
	if !ok {
		return nil
	}
	var t Timestamp
	if err := t.UnmarshalJSON(raw); err != nil {
		errs.addf("%s: %v", keys[0], err)
		return nil
	}
	if t.IsZero() {
		return nil
	}
	return &t
}

// validateName trims the name and checks the shared 1-100 character rule.
// The trimmed name is returned; violations go to errs.
func validateName(name, what string, errs *fieldErrors) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		errs.addf("%s name cannot be empty", what)
		return ""
	}
	if utf8.RuneCountInString(trimmed) > maxNameLength {
		errs.addf("%s name too long (max %d characters)", what, maxNameLength)
		return ""
	}
	return trimmed
}

func setIfNotEmpty(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func setIfNotNil(m map[string]any, key string, value *Timestamp) {
	if value != nil {
		m[key] = value
	}
}

func listItems(data []byte, what string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, netbird.NewValidationError(fmt.Sprintf("%s: expected a JSON array: %v", what, err))
	}
	return items, nil
}

func listItemError(what string, index int, err error) error {
	return netbird.NewValidationError(fmt.Sprintf("%s at index %d: %v", what, index, err))
}

// checkName is the standalone variant used by the write DTOs.
func checkName(name, what string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", netbird.NewValidationError(what + " name cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return "", netbird.NewValidationError(fmt.Sprintf("%s name too long (max %d characters)", what, maxNameLength))
	}
	return trimmed, nil
}
