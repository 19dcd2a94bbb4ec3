package tutor

import (
	"time"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/achievements"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/quiz"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/session"
)

// SceneProgress is returned after a scene is recorded.
type SceneProgress struct {
	SessionID         string `json:"session_id"`
	CurrentSceneIndex int    `json:"current_scene_index"`
	ScenesCompleted   int    `json:"scenes_completed"`
	QuizReady         bool   `json:"quiz_ready"`
}

// QuizOutcome is returned after a quiz submission.
type QuizOutcome struct {
	SessionID      string              `json:"session_id"`
	Score          float64             `json:"score"`
	CorrectCount   int                 `json:"correct_count"`
	TotalQuestions int                 `json:"total_questions"`
	Answers        []quiz.AnswerRecord `json:"answers"`
	Feedback       string              `json:"feedback"`

	// AchievementUnlocked is empty when nothing new was earned.
	AchievementUnlocked achievements.Achievement `json:"achievement_unlocked,omitempty"`
	TotalPoints         int                      `json:"total_points"`
}

// QuizResults is the stored outcome of a completed session.
type QuizResults struct {
	SessionID      string              `json:"session_id"`
	StoryID        string              `json:"story_id"`
	Score          float64             `json:"score"`
	CorrectCount   int                 `json:"correct_count"`
	TotalQuestions int                 `json:"total_questions"`
	ReadingTime    int                 `json:"reading_time_seconds"`
	CompletedAt    time.Time           `json:"completed_at"`
	Feedback       string              `json:"feedback"`
	Answers        []quiz.AnswerRecord `json:"answers"`
}

// SessionView is the client-facing snapshot of a session.
type SessionView struct {
	ID                string     `json:"id"`
	StoryID           string     `json:"story_id"`
	State             string     `json:"state"`
	CurrentSceneIndex int        `json:"current_scene_index"`
	ScenesCompleted   int        `json:"scenes_completed"`
	QuizReady         bool       `json:"quiz_ready"`
	QuizCompleted     bool       `json:"quiz_completed"`
	QuizScore         *float64   `json:"quiz_score"`
	ReadingTime       int        `json:"reading_time_seconds"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`
	Feedback          string     `json:"feedback,omitempty"`
}

// View projects s for clients.
func View(s *session.Session) SessionView {
	return SessionView{
		ID:                s.ID,
		StoryID:           s.StoryID,
		State:             s.State().String(),
		CurrentSceneIndex: s.CurrentSceneIndex,
		ScenesCompleted:   s.ScenesCompleted,
		QuizReady:         s.IsQuizEligible(),
		QuizCompleted:     s.QuizCompleted,
		QuizScore:         s.QuizScore,
		ReadingTime:       s.TotalReadingTime,
		StartedAt:         s.StartedAt,
		CompletedAt:       s.CompletedAt,
		Feedback:          s.Feedback,
	}
}
