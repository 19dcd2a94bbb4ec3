package progress

import (
	"reflect"
	"testing"
	"time"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/session"
)

var now = time.Date(2026, 4, 2, 18, 0, 0, 0, time.UTC)

func completedSession(category string, score float64, seconds int) session.Session {
	done := now
	return session.Session{
		StoryCategory:    category,
		ScenesCompleted:  3,
		QuizStarted:      true,
		QuizCompleted:    true,
		IsCompleted:      true,
		QuizScore:        &score,
		TotalReadingTime: seconds,
		CompletedAt:      &done,
	}
}

func readingSession(category string, scenes, seconds int) session.Session {
	return session.Session{
		StoryCategory:     category,
		ScenesCompleted:   scenes,
		CurrentSceneIndex: scenes,
		TotalReadingTime:  seconds,
	}
}

func TestRecompute_Empty(t *testing.T) {
	p := New("u1")
	p.Recompute(nil, 0, now)

	if p.TotalSessions != 0 || p.AverageQuizScore != 0 || p.TotalReadingTime != 0 {
		t.Errorf("unexpected rollup: %+v", p)
	}
	if p.LastActivityDate == nil || !p.LastActivityDate.Equal(now) {
		t.Error("last activity should be stamped")
	}
}

func TestRecompute_Rollups(t *testing.T) {
	sessions := []session.Session{
		completedSession("wisdom", 60, 100),
		completedSession("wisdom", 100, 50),
		completedSession("patience", 80, 45),
		readingSession("patience", 2, 500),
	}

	p := New("u1")
	p.Recompute(sessions, 2, now)

	if p.TotalSessions != 4 {
		t.Errorf("total sessions = %d, want 4", p.TotalSessions)
	}
	if p.TotalStoriesCompleted != 3 {
		t.Errorf("stories completed = %d, want 3", p.TotalStoriesCompleted)
	}
	if p.TotalScenesRead != 11 {
		t.Errorf("scenes read = %d, want 11", p.TotalScenesRead)
	}
	if p.AverageQuizScore != 80 {
		t.Errorf("average = %v, want 80", p.AverageQuizScore)
	}
	// 195 seconds across quiz-completed sessions; the open session is excluded.
	if p.TotalReadingTime != 3 {
		t.Errorf("reading time = %d, want 3", p.TotalReadingTime)
	}
	if p.CategoryScores["wisdom"] != 80 || p.CategoryScores["patience"] != 80 {
		t.Errorf("category scores = %v", p.CategoryScores)
	}
	if want := []string{"wisdom", "patience"}; !reflect.DeepEqual(p.FavoriteCategories, want) {
		t.Errorf("favorites = %v, want %v", p.FavoriteCategories, want)
	}
	if p.CurrentStreak != 2 || p.LongestStreak != 2 {
		t.Errorf("streaks = %d/%d, want 2/2", p.CurrentStreak, p.LongestStreak)
	}
}

func TestRecompute_LongestStreakIsHighWaterMark(t *testing.T) {
	p := New("u1")
	p.Recompute(nil, 5, now)
	p.Recompute(nil, 1, now.Add(72*time.Hour))
	if p.CurrentStreak != 1 {
		t.Errorf("current = %d, want 1", p.CurrentStreak)
	}
	if p.LongestStreak != 5 {
		t.Errorf("longest = %d, want 5", p.LongestStreak)
	}
}

func TestRecompute_PreservesPointsAndAchievements(t *testing.T) {
	p := New("u1")
	p.AddPoints(99.9)
	p.Achievements = p.Achievements.With("perfect_score")
	p.Recompute([]session.Session{completedSession("wisdom", 99.9, 60)}, 1, now)

	if p.TotalPoints != 99 {
		t.Errorf("points = %d, want 99", p.TotalPoints)
	}
	if len(p.Achievements) != 1 {
		t.Errorf("achievements = %v", p.Achievements)
	}
}

func TestFavoritesCapAndTies(t *testing.T) {
	got := favorites(map[string]int{"d": 1, "a": 2, "c": 2, "b": 1})
	want := []string{"a", "c", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("favorites = %v, want %v", got, want)
	}
}
