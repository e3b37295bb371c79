package cadence

import (
	"testing"
	"time"
	_ "time/tzdata"
)

var wib = time.FixedZone("WIB", 7*60*60)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, wib)
}

func TestDayOf(t *testing.T) {
	t.Run("discards time of day", func(t *testing.T) {
		a := DayOf(at(2024, 3, 10, 0, 0), wib)
		b := DayOf(at(2024, 3, 10, 23, 59), wib)
		if a != b {
			t.Errorf("DayOf() = %v and %v, want equal", a, b)
		}
	})

	t.Run("uses the requested zone", func(t *testing.T) {
		// 2024-03-10 20:00 UTC is already 2024-03-11 in WIB.
		ts := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
		if got := DayOf(ts, wib).String(); got != "2024-03-11" {
			t.Errorf("DayOf(WIB) = %s, want 2024-03-11", got)
		}
		if got := DayOf(ts, time.UTC).String(); got != "2024-03-10" {
			t.Errorf("DayOf(UTC) = %s, want 2024-03-10", got)
		}
	})

	t.Run("nil location keeps the timestamp's zone", func(t *testing.T) {
		if got := DayOf(at(2024, 1, 2, 3, 4), nil).String(); got != "2024-01-02" {
			t.Errorf("DayOf(nil) = %s, want 2024-01-02", got)
		}
	})
}

func TestDay_Sub(t *testing.T) {
	tests := []struct {
		name string
		a, b Day
		want int
	}{
		{"same day", Day{2024, 1, 1}, Day{2024, 1, 1}, 0},
		{"next day", Day{2024, 1, 2}, Day{2024, 1, 1}, 1},
		{"across month", Day{2024, 3, 1}, Day{2024, 2, 28}, 2},
		{"across year", Day{2025, 1, 1}, Day{2024, 12, 31}, 1},
		{"negative", Day{2024, 1, 1}, Day{2024, 1, 3}, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Sub(tt.b); got != tt.want {
				t.Errorf("Sub() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalendar_DaysBetween_DST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz data unavailable: %v", err)
	}
	cal := NewCalendar(ny)

	// The night of 2024-03-10 is only 23 hours long in New York.
	from := time.Date(2024, 3, 9, 23, 30, 0, 0, ny)
	to := time.Date(2024, 3, 10, 23, 0, 0, 0, ny)
	if got := cal.DaysBetween(from, to); got != 1 {
		t.Errorf("DaysBetween() across DST = %d, want 1", got)
	}
}

func TestCalendar_DaysBetween_LocalMidnight(t *testing.T) {
	cal := NewCalendar(wib)

	// 40 minutes apart but on different local dates.
	if got := cal.DaysBetween(at(2024, 5, 1, 23, 30), at(2024, 5, 2, 0, 10)); got != 1 {
		t.Errorf("DaysBetween() = %d, want 1", got)
	}
	// 23 hours apart on the same local date.
	if got := cal.DaysBetween(at(2024, 5, 1, 0, 30), at(2024, 5, 1, 23, 30)); got != 0 {
		t.Errorf("DaysBetween() = %d, want 0", got)
	}
}

func TestStreakAfter(t *testing.T) {
	for _, s := range []int{1, 2, 5, 30, 365} {
		if got := StreakAfter(s, 0); got != s {
			t.Errorf("StreakAfter(%d, 0) = %d, want %d", s, got, s)
		}
		if got := StreakAfter(s, 1); got != s+1 {
			t.Errorf("StreakAfter(%d, 1) = %d, want %d", s, got, s+1)
		}
		for _, diff := range []int{2, 3, 7, 100} {
			if got := StreakAfter(s, diff); got != 1 {
				t.Errorf("StreakAfter(%d, %d) = %d, want 1", s, diff, got)
			}
		}
		if got := StreakAfter(s, -1); got != 1 {
			t.Errorf("StreakAfter(%d, -1) = %d, want 1", s, got)
		}
	}

	t.Run("missing previous streak counts as one", func(t *testing.T) {
		if got := StreakAfter(0, 1); got != 2 {
			t.Errorf("StreakAfter(0, 1) = %d, want 2", got)
		}
	})
}

func TestCalendar_NextStreak(t *testing.T) {
	cal := NewCalendar(wib)

	t.Run("first watering starts at one", func(t *testing.T) {
		for _, now := range []time.Time{at(2024, 1, 1, 8, 0), at(2030, 6, 1, 8, 0)} {
			if got := cal.NextStreak(nil, now); got.Streak != 1 {
				t.Errorf("NextStreak(nil) = %d, want 1", got.Streak)
			}
		}
	})

	t.Run("watering sequence", func(t *testing.T) {
		steps := []struct {
			now  time.Time
			want int
		}{
			{at(2024, 6, 1, 7, 0), 1},
			{at(2024, 6, 2, 18, 0), 2},
			{at(2024, 6, 4, 6, 0), 1},
			{at(2024, 6, 4, 17, 0), 1},
		}

		var prev *Watering
		for i, step := range steps {
			got := cal.NextStreak(prev, step.now)
			if got.Streak != step.want {
				t.Fatalf("step %d: streak = %d, want %d", i+1, got.Streak, step.want)
			}
			prev = &Watering{At: step.now, Streak: got.Streak}
		}
	})

	t.Run("previous watering in the future is flagged and resets", func(t *testing.T) {
		prev := &Watering{At: at(2024, 6, 3, 7, 0), Streak: 4}
		got := cal.NextStreak(prev, at(2024, 6, 2, 7, 0))
		if !got.Skewed {
			t.Error("NextStreak() Skewed = false, want true")
		}
		if got.Streak != 1 {
			t.Errorf("NextStreak() = %d, want 1", got.Streak)
		}
		if got.DayDiff != -1 {
			t.Errorf("DayDiff = %d, want -1", got.DayDiff)
		}
	})
}

func TestCalendar_ReportAllowed(t *testing.T) {
	cal := NewCalendar(wib)
	now := at(2024, 7, 10, 15, 0)

	today := at(2024, 7, 10, 0, 5)
	yesterday := at(2024, 7, 9, 23, 55)
	zero := time.Time{}

	tests := []struct {
		name string
		last *time.Time
		want bool
	}{
		{"no previous report", nil, true},
		{"zero timestamp", &zero, true},
		{"earlier today", &today, false},
		{"yesterday", &yesterday, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.ReportAllowed(tt.last, now); got != tt.want {
				t.Errorf("ReportAllowed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGrowthWeek(t *testing.T) {
	planted := at(2024, 2, 1, 9, 0)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"planting day", planted, 1},
		{"six days", planted.Add(6 * day), 1},
		{"just short of seven days", planted.Add(7*day - time.Minute), 1},
		{"seven days", planted.Add(7 * day), 2},
		{"twenty seven days", planted.Add(27 * day), 4},
		{"twenty eight days", planted.Add(28 * day), 5},
		{"clock skew", planted.Add(-1 * day), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GrowthWeek(planted, tt.now); got != tt.want {
				t.Errorf("GrowthWeek() = %d, want %d", got, tt.want)
			}
		})
	}

	t.Run("is stable for the same inputs", func(t *testing.T) {
		now := planted.Add(15*day + 3*time.Hour)
		first := GrowthWeek(planted, now)
		for i := 0; i < 10; i++ {
			if got := GrowthWeek(planted, now); got != first {
				t.Fatalf("GrowthWeek() = %d on call %d, want %d", got, i, first)
			}
		}
	})
}

func TestReferenceWeek(t *testing.T) {
	tests := map[int]int{-3: 1, 0: 1, 1: 1, 3: 3, 4: 4, 5: 4, 12: 4}
	for week, want := range tests {
		if got := ReferenceWeek(week); got != want {
			t.Errorf("ReferenceWeek(%d) = %d, want %d", week, got, want)
		}
	}
}

func TestCalendar_Label(t *testing.T) {
	cal := NewCalendar(wib)
	now := at(2024, 8, 20, 12, 0)

	tests := []struct {
		when time.Time
		want string
	}{
		{at(2024, 8, 20, 1, 0), "Today"},
		{at(2024, 8, 19, 23, 0), "Yesterday"},
		{at(2024, 8, 17, 9, 0), "3 days ago"},
		{at(2024, 8, 14, 9, 0), "6 days ago"},
		{at(2024, 8, 13, 9, 0), "13 August 2024"},
	}
	for _, tt := range tests {
		if got := cal.Label(tt.when, now); got != tt.want {
			t.Errorf("Label(%v) = %q, want %q", tt.when, got, tt.want)
		}
	}
}
