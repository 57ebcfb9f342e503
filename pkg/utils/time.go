package utils

import "time"

// DateLayout is the wire format for meeting dates
const DateLayout = "2006-01-02"

// NowRFC3339 returns the current time in RFC3339 format
func NowRFC3339() string {
	return time.Now().Format(time.RFC3339)
}

// ParseRFC3339 parses a time string in RFC3339 format
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ParseDate parses a meeting date in YYYY-MM-DD form
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate formats a meeting date in YYYY-MM-DD form
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
