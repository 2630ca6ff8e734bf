// Package datefmt parses and formats the calendar dates exchanged with API
// clients.
package datefmt

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value into a UTC midnight timestamp.
func ParseDate(v string) (time.Time, error) {
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", v)
	}
	return t.UTC(), nil
}

// ParseTime parses an RFC 3339 timestamp, falling back to a bare date.
func ParseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return ParseDate(v)
}

// FormatDate renders a timestamp as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// EndOfTodayUTC returns the last instant of the current UTC day. Business
// dates are stored as UTC midnights, so anything after this bound is
// tomorrow or later.
func EndOfTodayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
}
