// Package biztime provides UTC calendar utilities for quota accounting.
// All storage, counter keys, and reset boundaries use UTC; implicit Local
// timezone is prohibited.
package biztime

import "time"

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// DayKey returns the UTC calendar date of t formatted as YYYY-MM-DD.
// Daily counter keys embed this so a new day starts on a fresh key.
func DayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// StartOfDayUTC returns 00:00:00 UTC of the day containing t.
func StartOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfMonthUTC returns 00:00:00 UTC of the first day of the month containing t.
func StartOfMonthUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextDayBoundary returns the first instant of the UTC day after t.
func NextDayBoundary(t time.Time) time.Time {
	return StartOfDayUTC(t).Add(24 * time.Hour)
}

// NextMonthBoundary returns the first instant of the UTC month after t.
func NextMonthBoundary(t time.Time) time.Time {
	return StartOfMonthUTC(t).AddDate(0, 1, 0)
}
