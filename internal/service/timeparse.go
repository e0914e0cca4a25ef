package service

import (
	"fmt"
	"time"
)

// Accepted timestamp layouts, tried in order.  Layouts without a zone are
// read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses an ISO 8601 timestamp and normalises it to UTC so
// that comparisons and storage never depend on the client's offset.
// Fractional seconds are truncated: the DATETIME columns hold whole
// seconds, and the overlap check must see the interval that gets stored.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
