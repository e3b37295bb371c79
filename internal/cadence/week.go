package cadence

import "time"

// ReferenceWeeks is the number of weeks the reference dataset and the report
// questionnaire describe.
const ReferenceWeeks = 4

const day = 24 * time.Hour

// GrowthWeek maps the time elapsed since planting to a 1-based week number.
// Elapsed time is measured in whole 24-hour days, not calendar dates.
// A planting date in the future yields week 1.
func GrowthWeek(planted, now time.Time) int {
	elapsed := now.Sub(planted)
	if elapsed < 0 {
		return 1
	}
	days := int(elapsed / day)
	week := days/7 + 1
	if week < 1 {
		return 1
	}
	return week
}

// ReferenceWeek clamps week into the range covered by the reference data.
// Plants older than four weeks are compared against the week-4 slice.
func ReferenceWeek(week int) int {
	if week < 1 {
		return 1
	}
	if week > ReferenceWeeks {
		return ReferenceWeeks
	}
	return week
}
