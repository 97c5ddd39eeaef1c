package utils

import "time"

// SameDate compares year, month and day only.
func SameDate(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateOnly drops the time of day, keeping the calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WithinDays reports whether t falls in [start, start+days], both ends inclusive.
func WithinDays(start, t time.Time, days int) bool {
	diff := t.Sub(start)
	return diff >= 0 && diff <= time.Duration(days)*24*time.Hour
}

// DateKey formats the calendar date of t for map lookups.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
