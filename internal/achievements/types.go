// Package achievements decides which one-time achievements a user earns.
package achievements

// Achievement identifies a one-time award.
type Achievement string

const (
	PerfectScore Achievement = "perfect_score"
	WeekStreak   Achievement = "week_streak"
	StoryMaster  Achievement = "story_master"
)

// Thresholds for the achievement rules.
const (
	PerfectScoreValue     = 100.0
	WeekStreakDays        = 7
	StoryMasterCompletion = 3
)

// All returns every achievement in evaluation order.
func All() []Achievement {
	return []Achievement{PerfectScore, WeekStreak, StoryMaster}
}

// DisplayName returns a human-readable label.
func (a Achievement) DisplayName() string {
	switch a {
	case PerfectScore:
		return "Perfect Score"
	case WeekStreak:
		return "Week Streak"
	case StoryMaster:
		return "Story Master"
	default:
		return string(a)
	}
}

// Description explains how the achievement is earned.
func (a Achievement) Description() string {
	switch a {
	case PerfectScore:
		return "Answer every quiz question correctly"
	case WeekStreak:
		return "Read on 7 days in a row"
	case StoryMaster:
		return "Complete 3 stories"
	default:
		return ""
	}
}

// Icon returns the display icon.
func (a Achievement) Icon() string {
	switch a {
	case PerfectScore:
		return "💯"
	case WeekStreak:
		return "🔥"
	case StoryMaster:
		return "📚"
	default:
		return "✦"
	}
}

// Valid reports whether a is a known achievement.
func (a Achievement) Valid() bool {
	for _, known := range All() {
		if a == known {
			return true
		}
	}
	return false
}
