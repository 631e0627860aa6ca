package timeutil

import "time"

// DateLayout defines the canonical calendar-day format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// LocalDay returns the calendar day of t evaluated in local time.
func LocalDay(t time.Time) string {
	return FormatDate(t.Local())
}

// SameLocalDay reports whether a and b fall on the same local calendar day.
// Day boundaries follow the local clock, not UTC.
func SameLocalDay(a, b time.Time) bool {
	return LocalDay(a) == LocalDay(b)
}

// NextMidnight returns the next local midnight strictly after now.
func NextMidnight(now time.Time) time.Time {
	local := now.Local()
	y, m, d := local.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, local.Location())
}

// UntilMidnight returns the duration from now until the next local midnight.
func UntilMidnight(now time.Time) time.Duration {
	return NextMidnight(now).Sub(now)
}
