// Package cadence holds the date arithmetic behind watering streaks, the
// once-per-day growth report rule and growth-week bucketing.
package cadence

import (
	"fmt"
	"time"
)

// Day is a calendar date in some time zone, with the time of day discarded.
// Two timestamps share a Day exactly when they fall on the same local date.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf reduces t to its calendar date in loc. A nil loc uses t's own location.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Sub returns the number of whole calendar days from o to d.
// It is positive when d is later than o.
func (d Day) Sub(o Day) int {
	// Anchoring both dates at UTC midnight keeps DST transitions out of the count.
	a := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	b := time.Date(o.Year, o.Month, o.Day, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b).Hours() / 24)
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Calendar evaluates cadence rules against the local midnight boundaries of a
// single time zone.
type Calendar struct {
	loc *time.Location
}

// NewCalendar returns a Calendar for loc. A nil loc means time.Local.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{loc: loc}
}

// Location returns the zone the calendar uses for day boundaries.
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// Day returns the day key of t.
func (c Calendar) Day(t time.Time) Day {
	return DayOf(t, c.Location())
}

// SameDay reports whether a and b fall on the same local date.
func (c Calendar) SameDay(a, b time.Time) bool {
	return c.Day(a) == c.Day(b)
}

// DaysBetween returns dayKey(to) - dayKey(from) in whole days.
func (c Calendar) DaysBetween(from, to time.Time) int {
	return c.Day(to).Sub(c.Day(from))
}

// Label renders t relative to now the way plant cards show it:
// "Today", "Yesterday", "N days ago" within a week, otherwise the full date.
func (c Calendar) Label(t, now time.Time) string {
	diff := c.DaysBetween(t, now)
	switch {
	case diff == 0:
		return "Today"
	case diff == 1:
		return "Yesterday"
	case diff > 1 && diff < 7:
		return fmt.Sprintf("%d days ago", diff)
	default:
		return t.In(c.Location()).Format("02 January 2006")
	}
}
