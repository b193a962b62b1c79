package sqlite

import (
	"time"
)

// FormatTimeForDB formats a time.Time value as an RFC3339 UTC string for
// consistent database storage and day-level SQL date comparisons.
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatTimePtrForDB formats a *time.Time value as RFC3339 string, returning nil if the pointer is nil
func FormatTimePtrForDB(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatTimeForDB(*t)
}

// FormatDateForDB formats only the calendar date portion of a time.Time.
func FormatDateForDB(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ParseTimeFromDB parses an RFC3339 formatted time string from the database
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
