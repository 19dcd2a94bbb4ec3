// Package session implements the per-(user, story, attempt) progression
// state machine: scenes are read in order, then the quiz is submitted
// exactly once.
package session

import (
	"fmt"
	"time"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/errs"
)

// lastSceneIndex is the highest value CurrentSceneIndex may hold.
const lastSceneIndex = catalog.SceneCount - 1

// Session is one attempt by a user at one story. Sessions are never
// deleted; a completed session is immutable.
type Session struct {
	ID      string
	UserID  string
	StoryID string

	// StoryCategory is the story's category at start time, kept for
	// per-category rollups.
	StoryCategory string

	CurrentSceneIndex int
	ScenesCompleted   int

	QuizStarted   bool
	QuizCompleted bool
	QuizScore     *float64

	// TotalReadingTime is in seconds and never decreases.
	TotalReadingTime int

	StartedAt   time.Time
	CompletedAt *time.Time
	IsCompleted bool

	// Feedback is filled in after the quiz commit and may stay empty.
	Feedback string

	// Version increments on every persisted transition.
	Version int
}

// New returns a fresh session for story with all counters at zero.
func New(id, userID string, story *catalog.Story, now time.Time) *Session {
	return &Session{
		ID:            id,
		UserID:        userID,
		StoryID:       story.ID,
		StoryCategory: story.Category,
		StartedAt:     now,
	}
}

// State derives the tagged progression state from the record fields.
func (s *Session) State() State {
	switch {
	case s.QuizCompleted:
		var score float64
		if s.QuizScore != nil {
			score = *s.QuizScore
		}
		return State{Phase: PhaseQuizCompleted, Score: score}
	case s.ScenesCompleted >= catalog.SceneCount:
		return State{Phase: PhaseQuizPending}
	default:
		return State{Phase: PhaseReading, Scene: s.CurrentSceneIndex}
	}
}

// CompleteScene records that sceneIndex was read for readingSeconds.
//
// It fails with *errs.InvalidStateError once the session is completed and
// with *errs.SequenceError when sceneIndex is not the scene the session is
// waiting for, including any scene after all three have been read. A
// failed call leaves the session unchanged.
func (s *Session) CompleteScene(sceneIndex, readingSeconds int) error {
	st := s.State()
	if st.Phase == PhaseQuizCompleted {
		return &errs.InvalidStateError{SessionID: s.ID, State: st.String(), Op: "complete scene"}
	}
	if readingSeconds < 0 {
		return &errs.ValidationError{Field: "reading_time_seconds", Reason: "must not be negative"}
	}

	switch st.Phase {
	case PhaseQuizPending:
		return &errs.SequenceError{SessionID: s.ID, Expected: -1, Got: sceneIndex}
	}
	if sceneIndex != st.Scene {
		return &errs.SequenceError{SessionID: s.ID, Expected: st.Scene, Got: sceneIndex}
	}

	s.ScenesCompleted++
	s.TotalReadingTime += readingSeconds
	if s.CurrentSceneIndex < lastSceneIndex {
		s.CurrentSceneIndex++
	}
	return nil
}

// IsQuizEligible reports whether every scene has been read and the quiz is
// still open. Submission does not require it.
func (s *Session) IsQuizEligible() bool {
	return s.ScenesCompleted == catalog.SceneCount && !s.QuizCompleted
}

// CompleteQuiz finalizes the session with score. The reading phase is
// closed regardless of how many scenes were read.
func (s *Session) CompleteQuiz(score float64, quizSeconds int, now time.Time) error {
	if s.QuizCompleted {
		return &errs.InvalidStateError{SessionID: s.ID, State: s.State().String(), Op: "submit quiz"}
	}
	if quizSeconds < 0 {
		return &errs.ValidationError{Field: "total_quiz_time_seconds", Reason: "must not be negative"}
	}

	completedAt := now
	s.ScenesCompleted = catalog.SceneCount
	s.CurrentSceneIndex = lastSceneIndex
	s.QuizStarted = true
	s.QuizCompleted = true
	s.QuizScore = &score
	s.IsCompleted = true
	s.CompletedAt = &completedAt
	s.TotalReadingTime += quizSeconds
	return nil
}

// CheckInvariants verifies the flag chain and counter bounds.
func (s *Session) CheckInvariants() error {
	switch {
	case s.IsCompleted && !s.QuizCompleted:
		return fmt.Errorf("session %s: completed without quiz", s.ID)
	case s.QuizCompleted && (s.QuizScore == nil || !s.IsCompleted):
		return fmt.Errorf("session %s: quiz completed without score or completion", s.ID)
	case s.ScenesCompleted < 0 || s.ScenesCompleted > catalog.SceneCount:
		return fmt.Errorf("session %s: scenes completed %d out of range", s.ID, s.ScenesCompleted)
	case s.CurrentSceneIndex < 0 || s.CurrentSceneIndex > lastSceneIndex:
		return fmt.Errorf("session %s: scene index %d out of range", s.ID, s.CurrentSceneIndex)
	case s.TotalReadingTime < 0:
		return fmt.Errorf("session %s: negative reading time", s.ID)
	}
	return nil
}
