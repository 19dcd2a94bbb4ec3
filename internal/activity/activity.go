// Package activity tracks per-user daily reading activity and derives
// day streaks from it.
package activity

import "time"

// DayLayout is the calendar-day key format.
const DayLayout = "2006-01-02"

// Day returns the calendar-day key of t in loc.
func Day(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}

// DailyActivity is one user's activity on one calendar day.
type DailyActivity struct {
	UserID           string `json:"-"`
	Date             string `json:"date"`
	StoriesCompleted int    `json:"stories_completed"`
	ScenesRead       int    `json:"scenes_read"`
	QuizAttempts     int    `json:"quiz_attempts"`
	SecondsSpent     int    `json:"seconds_spent"`
}

// Qualifies reports whether the day counts toward a streak.
func (d DailyActivity) Qualifies() bool {
	return d.StoriesCompleted > 0 || d.ScenesRead > 0
}

// MinutesSpent returns the time spent, in whole minutes.
func (d DailyActivity) MinutesSpent() int {
	return d.SecondsSpent / 60
}

// Add accumulates delta's counters into d.
func (d *DailyActivity) Add(delta DailyActivity) {
	d.StoriesCompleted += delta.StoriesCompleted
	d.ScenesRead += delta.ScenesRead
	d.QuizAttempts += delta.QuizAttempts
	d.SecondsSpent += delta.SecondsSpent
}
