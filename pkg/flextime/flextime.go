// Package flextime parses date fields that arrive in more than one wire
// shape. Upstream channel managers and the legacy front-desk client send
// either an ISO-8601 string or a timestamp object carrying epoch seconds;
// both normalize to a plain time.Time at the request boundary so nothing
// past the handlers ever branches on field shape.
package flextime

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Time wraps time.Time with a tolerant JSON decoder.
type Time struct {
	time.Time
}

type secondsPayload struct {
	Seconds *int64 `json:"seconds"`
	Nanos   int64  `json:"nanos"`
}

var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// UnmarshalJSON accepts an RFC3339 timestamp, a bare YYYY-MM-DD date, a
// {"seconds": N} object, or null.
func (t *Time) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		t.Time = time.Time{}
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		for _, layout := range stringLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed.UTC()
				return nil
			}
		}
		return fmt.Errorf("flextime: unrecognized timestamp %q", s)
	}

	var payload secondsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("flextime: unrecognized timestamp shape: %w", err)
	}
	if payload.Seconds == nil {
		return fmt.Errorf("flextime: timestamp object missing seconds")
	}
	t.Time = time.Unix(*payload.Seconds, payload.Nanos).UTC()
	return nil
}

// MarshalJSON always emits RFC3339 UTC, or null for the zero value.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// Ptr returns the wrapped time, or nil for the zero value.
func (t Time) Ptr() *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.UTC()
	return &v
}
