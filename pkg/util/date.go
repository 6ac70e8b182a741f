package util

import "time"

// DateLayout is the label format used for daily price points.
const DateLayout = "2006-01-02"

// FromUnixMillis converts a millisecond epoch timestamp to UTC time.
func FromUnixMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// DateLabel formats t as a UTC calendar date.
func DateLabel(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
