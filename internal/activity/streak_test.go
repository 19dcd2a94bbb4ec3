package activity

import (
	"testing"
	"time"
)

var today = time.Date(2026, 5, 20, 15, 30, 0, 0, time.UTC)

func day(offset int, scenes, stories int) DailyActivity {
	return DailyActivity{
		Date:             Day(today.AddDate(0, 0, offset), time.UTC),
		ScenesRead:       scenes,
		StoriesCompleted: stories,
	}
}

func TestCurrentStreak_NoRows(t *testing.T) {
	if got := CurrentStreak(nil, today, time.UTC); got != 0 {
		t.Errorf("streak = %d, want 0", got)
	}
}

func TestCurrentStreak_ThreeDaysThenGap(t *testing.T) {
	days := []DailyActivity{
		day(0, 1, 0),
		day(-1, 0, 1),
		day(-2, 3, 1),
		day(-4, 2, 0), // gap at -3
	}
	if got := CurrentStreak(days, today, time.UTC); got != 3 {
		t.Errorf("streak = %d, want 3", got)
	}
}

func TestCurrentStreak_TodayNotYetActive(t *testing.T) {
	days := []DailyActivity{day(-1, 1, 0), day(-2, 1, 0)}
	if got := CurrentStreak(days, today, time.UTC); got != 2 {
		t.Errorf("streak = %d, want 2", got)
	}
}

func TestCurrentStreak_YesterdayMissing(t *testing.T) {
	days := []DailyActivity{day(-2, 1, 0), day(-3, 1, 0)}
	if got := CurrentStreak(days, today, time.UTC); got != 0 {
		t.Errorf("streak = %d, want 0", got)
	}
}

func TestCurrentStreak_QuizOnlyDayDoesNotQualify(t *testing.T) {
	days := []DailyActivity{
		day(0, 1, 0),
		{Date: Day(today.AddDate(0, 0, -1), time.UTC), QuizAttempts: 1},
		day(-2, 1, 0),
	}
	if got := CurrentStreak(days, today, time.UTC); got != 1 {
		t.Errorf("streak = %d, want 1", got)
	}
}

func TestCurrentStreak_Timezone(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// 15:30 UTC on the 20th is 01:30 on the 21st in UTC+10.
	days := []DailyActivity{{Date: "2026-05-21", ScenesRead: 1}, {Date: "2026-05-20", ScenesRead: 1}}
	if got := CurrentStreak(days, today, loc); got != 2 {
		t.Errorf("streak = %d, want 2", got)
	}
	if got := CurrentStreak(days, today, time.UTC); got != 1 {
		t.Errorf("utc streak = %d, want 1", got)
	}
}

func TestDailyActivityAdd(t *testing.T) {
	d := DailyActivity{Date: "2026-05-20", ScenesRead: 1, SecondsSpent: 50}
	d.Add(DailyActivity{ScenesRead: 1, StoriesCompleted: 1, QuizAttempts: 1, SecondsSpent: 70})
	if d.ScenesRead != 2 || d.StoriesCompleted != 1 || d.QuizAttempts != 1 {
		t.Errorf("unexpected counters: %+v", d)
	}
	if d.MinutesSpent() != 2 {
		t.Errorf("minutes = %d, want 2", d.MinutesSpent())
	}
}

func TestLookbackStart(t *testing.T) {
	got := LookbackStart(today, time.UTC)
	want := Day(today.AddDate(0, 0, -StreakLookback), time.UTC)
	if got != want {
		t.Errorf("LookbackStart = %q, want %q", got, want)
	}
}
