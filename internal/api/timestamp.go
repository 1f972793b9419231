package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Timestamp is a server instant. The server emits naive ISO-8601 strings
// that are implicitly UTC; Timestamp pins them to UTC at decode time so
// nothing downstream has to guess.
type Timestamp struct {
	time.Time
}

// ParseServerTime parses a server timestamp. Strings without a zone are
// read as UTC. A space separator is accepted in place of 'T'.
func ParseServerTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	if !hasZone(s) {
		s += "Z"
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// hasZone reports whether an ISO-8601 date-time carries Z or a ±hh:mm offset
// after the time part.
func hasZone(s string) bool {
	if strings.HasSuffix(s, "Z") || strings.HasSuffix(s, "z") {
		return true
	}
	i := strings.IndexByte(s, 'T')
	if i < 0 {
		return false
	}
	rest := s[i+1:]
	return strings.ContainsAny(rest, "+-")
}

// UnmarshalJSON accepts a string timestamp or null. Anything unparsable
// decodes to the zero time.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if parsed, err := ParseServerTime(s); err == nil {
		t.Time = parsed
	}
	return nil
}

// Display renders the time in loc with layout, or "-" when it is unknown.
func (t Timestamp) Display(loc *time.Location, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(loc).Format(layout)
}

// MarshalJSON writes RFC 3339 with an explicit zone.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
