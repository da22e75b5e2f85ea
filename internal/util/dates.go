package util

import "time"

const (
	// DateLayout is the wire format for calendar dates
	DateLayout = "2006-01-02"
	// TimestampLayout is the wire format for instants (ISO-8601, UTC, millisecond precision)
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// ParseDate parses a YYYY-MM-DD string into midnight UTC of that day
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders the calendar date part of t
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTimestamp renders t as an ISO-8601 instant in UTC
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatOptionalTimestamp renders t, or nil when t is unset
func FormatOptionalTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTimestamp(*t)
	return &s
}

// TruncateToDate returns midnight UTC of the UTC calendar date of t
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
