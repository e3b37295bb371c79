package cadence

import "time"

// Watering is the part of the newest watering log entry the streak rule needs.
type Watering struct {
	At     time.Time
	Streak int
}

// StreakAfter applies the streak rule to a previous streak and the number of
// calendar days since that watering.
//
//	dayDiff == 0  unchanged
//	dayDiff == 1  prevStreak + 1
//	otherwise     1
//
// Negative differences (clock skew, backdated entries) also reset to 1.
func StreakAfter(prevStreak, dayDiff int) int {
	if prevStreak < 1 {
		prevStreak = 1
	}
	switch dayDiff {
	case 0:
		return prevStreak
	case 1:
		return prevStreak + 1
	default:
		return 1
	}
}

// StreakResult is the outcome of evaluating a new watering.
type StreakResult struct {
	Streak  int
	DayDiff int
	// Skewed is set when the previous watering lies on a later local date
	// than now.
	Skewed bool
}

// NextStreak computes the streak to store for a watering logged at now.
// prev is nil when the plant has never been watered.
func (c Calendar) NextStreak(prev *Watering, now time.Time) StreakResult {
	if prev == nil {
		return StreakResult{Streak: 1}
	}
	diff := c.DaysBetween(prev.At, now)
	return StreakResult{
		Streak:  StreakAfter(prev.Streak, diff),
		DayDiff: diff,
		Skewed:  diff < 0,
	}
}
