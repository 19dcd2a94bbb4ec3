package activity

import "time"

// StreakLookback bounds how many days CurrentStreak inspects. Callers can
// use it to limit how much history they load.
const StreakLookback = 366

// CurrentStreak counts consecutive qualifying days ending today.
//
// A today with no qualifying activity yet does not break the streak: the
// count then starts from yesterday. Any earlier gap ends it.
func CurrentStreak(days []DailyActivity, today time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	qualifying := make(map[string]bool, len(days))
	for _, d := range days {
		if d.Qualifies() {
			qualifying[d.Date] = true
		}
	}

	cursor := today.In(loc)
	if !qualifying[Day(cursor, loc)] {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for streak < StreakLookback && qualifying[Day(cursor, loc)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// LookbackStart returns the earliest day key CurrentStreak can reach.
func LookbackStart(today time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return Day(today.In(loc).AddDate(0, 0, -StreakLookback), loc)
}
