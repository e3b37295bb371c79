package cadence

import "time"

// ReportAllowed enforces at most one scored growth report per local date.
// It reports whether a new growth report may be submitted at now,
// given the time of the previous one (nil if there is none).
func (c Calendar) ReportAllowed(last *time.Time, now time.Time) bool {
	if last == nil || last.IsZero() {
		return true
	}
	return !c.SameDay(*last, now)
}
