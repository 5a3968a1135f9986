package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are the datetime formats the API is known to emit:
// ISO-8601 with or without fractional seconds and with Z or an explicit
// offset, plus space-separated and date-only fallbacks.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp is a time.Time that unmarshals from any of the API's datetime
// formats and marshals back as RFC 3339.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s against the known layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unable to parse datetime %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a datetime string")
	}
	if s == "" {
		return nil
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// FlexBool is a boolean that also accepts the string encodings the API
// sometimes uses. Strings are truthy only for case-insensitive "true",
// "connected", "1" and "yes".
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch val := v.(type) {
	case bool:
		*b = FlexBool(val)
	case string:
		*b = FlexBool(truthyString(val))
	case float64:
		*b = FlexBool(val != 0)
	case nil:
		*b = false
	default:
		return fmt.Errorf("cannot interpret %T as boolean", v)
	}
	return nil
}

func truthyString(s string) bool {
	switch strings.ToLower(s) {
	case "true", "connected", "1", "yes":
		return true
	}
	return false
}
