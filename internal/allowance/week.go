package allowance

import "time"

// StartOfWeek returns midnight at the start of the Sunday-aligned week
// containing t, in t's location. Every place that stamps or queries a
// completion's week must go through this function.
func StartOfWeek(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(t.Weekday()))
}

// WouldExceedCap reports whether earning choreAmount on top of the child's
// current-week earnings would push past the weekly cap. The comparison is
// strict: landing exactly on the cap is allowed.
//
// weekEarnings counts pending and approved chore completions alike, since a
// pending completion reserves capacity until a parent rules on it. Bonuses
// never count and are never gated.
func WouldExceedCap(weekEarnings, choreAmount, weeklyCap float64) bool {
	return weekEarnings+choreAmount > weeklyCap
}

// RemainingCap returns how much the child can still earn this week, never
// negative.
func RemainingCap(weekEarnings, weeklyCap float64) float64 {
	if weekEarnings >= weeklyCap {
		return 0
	}
	return weeklyCap - weekEarnings
}
