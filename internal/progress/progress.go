// Package progress derives a user's aggregate progress from session
// history.
package progress

import (
	"math"
	"sort"
	"time"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/achievements"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/session"
)

// MaxFavoriteCategories caps the favorite category list.
const MaxFavoriteCategories = 3

// UserProgress is the per-user rollup. Everything except TotalPoints,
// LongestStreak and Achievements is recomputed from history on every
// update.
type UserProgress struct {
	UserID string `json:"user_id"`

	TotalStoriesCompleted int     `json:"total_stories_completed"`
	TotalScenesRead       int     `json:"total_scenes_read"`
	TotalSessions         int     `json:"total_sessions"`
	AverageQuizScore      float64 `json:"average_quiz_score"`

	// TotalReadingTime is in whole minutes.
	TotalReadingTime int `json:"total_reading_time"`

	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`

	FavoriteCategories []string           `json:"favorite_categories"`
	CategoryScores     map[string]float64 `json:"category_scores"`
	Achievements       achievements.Set   `json:"achievements"`

	TotalPoints      int        `json:"total_points"`
	LastActivityDate *time.Time `json:"last_activity_date"`
}

// New returns an empty progress record for userID.
func New(userID string) *UserProgress {
	return &UserProgress{
		UserID:             userID,
		FavoriteCategories: []string{},
		CategoryScores:     map[string]float64{},
		Achievements:       achievements.Set{},
	}
}

// AddPoints credits floor(score) points for a quiz submission.
func (p *UserProgress) AddPoints(score float64) {
	p.TotalPoints += int(math.Floor(score))
}

// Recompute rebuilds the derived fields from the user's sessions and the
// current day streak, and stamps the last activity time.
func (p *UserProgress) Recompute(sessions []session.Session, currentStreak int, now time.Time) {
	var (
		completed   int
		scenes      int
		quizCount   int
		scoreSum    float64
		readSeconds int
	)
	catSum := map[string]float64{}
	catQuiz := map[string]int{}
	catCompleted := map[string]int{}

	for _, s := range sessions {
		scenes += s.ScenesCompleted
		if s.IsCompleted {
			completed++
			if s.StoryCategory != "" {
				catCompleted[s.StoryCategory]++
			}
		}
		if s.QuizCompleted && s.QuizScore != nil {
			quizCount++
			scoreSum += *s.QuizScore
			readSeconds += s.TotalReadingTime
			if s.StoryCategory != "" {
				catSum[s.StoryCategory] += *s.QuizScore
				catQuiz[s.StoryCategory]++
			}
		}
	}

	p.TotalSessions = len(sessions)
	p.TotalStoriesCompleted = completed
	p.TotalScenesRead = scenes
	p.TotalReadingTime = readSeconds / 60
	p.AverageQuizScore = 0
	if quizCount > 0 {
		p.AverageQuizScore = scoreSum / float64(quizCount)
	}

	p.CategoryScores = make(map[string]float64, len(catQuiz))
	for cat, n := range catQuiz {
		p.CategoryScores[cat] = catSum[cat] / float64(n)
	}
	p.FavoriteCategories = favorites(catCompleted)

	p.CurrentStreak = currentStreak
	if currentStreak > p.LongestStreak {
		p.LongestStreak = currentStreak
	}

	if p.Achievements == nil {
		p.Achievements = achievements.Set{}
	}
	stamp := now
	p.LastActivityDate = &stamp
}

// favorites orders categories by completed count, then name.
func favorites(counts map[string]int) []string {
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if counts[cats[i]] != counts[cats[j]] {
			return counts[cats[i]] > counts[cats[j]]
		}
		return cats[i] < cats[j]
	})
	if len(cats) > MaxFavoriteCategories {
		cats = cats[:MaxFavoriteCategories]
	}
	return cats
}
