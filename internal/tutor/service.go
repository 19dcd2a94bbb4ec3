// Package tutor runs reading sessions: it sequences scenes, scores quizzes,
// and keeps each user's progress, streaks and achievements in step with
// their session history.
package tutor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/achievements"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/activity"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/errs"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/feedback"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/progress"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/quiz"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/session"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/store"
)

// maxConflictRetries bounds how often a transition is replayed after
// losing an optimistic version check to another process.
const maxConflictRetries = 3

// Repository runs a unit of work over sessions, answers, progress and
// daily activity.
type Repository interface {
	InTx(ctx context.Context, fn func(tx store.Tx) error) error
}

// Options tune a Service. The zero value is usable.
type Options struct {
	// Feedback writes post-quiz text. Nil means templates only.
	Feedback feedback.Generator

	// FeedbackTimeout bounds one feedback generation. Zero means none.
	FeedbackTimeout time.Duration

	// StrictQuiz rejects submissions before all three scenes are read.
	StrictQuiz bool

	// Location decides calendar-day boundaries for activity and streaks.
	Location *time.Location

	Logger *slog.Logger
	Clock  func() time.Time
	NewID  func() string
}

// Service implements the reader-facing operations.
type Service struct {
	repo     Repository
	stories  catalog.Catalog
	feedback feedback.Generator
	strict   bool
	loc      *time.Location
	log      *slog.Logger
	now      func() time.Time
	newID    func() string

	sessionLocks keyedMutex
	userLocks    keyedMutex
}

// New builds a Service over repo and stories.
func New(repo Repository, stories catalog.Catalog, opts Options) *Service {
	s := &Service{
		repo:    repo,
		stories: stories,
		strict:  opts.StrictQuiz,
		loc:     opts.Location,
		log:     opts.Logger,
		now:     opts.Clock,
		newID:   opts.NewID,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.log = s.log.With("component", "tutor")
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if fb, ok := opts.Feedback.(*feedback.Fallback); ok {
		s.feedback = fb
	} else {
		s.feedback = feedback.NewFallback(opts.Feedback, opts.FeedbackTimeout, s.log)
	}
	return s
}

// ListStories returns the active catalog.
func (s *Service) ListStories(ctx context.Context) ([]catalog.Story, error) {
	return s.stories.ListActiveStories(ctx)
}

// GetStory returns one active story.
func (s *Service) GetStory(ctx context.Context, storyID string) (*catalog.Story, error) {
	return s.stories.GetActiveStory(ctx, storyID)
}

// StartSession opens a fresh attempt at storyID for userID.
func (s *Service) StartSession(ctx context.Context, userID, storyID string) (*session.Session, error) {
	if userID == "" {
		return nil, &errs.ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	story, err := s.stories.GetActiveStory(ctx, storyID)
	if err != nil {
		return nil, err
	}

	sess := session.New(s.newID(), userID, story, s.now().UTC().Truncate(time.Second))
	err = s.repo.InTx(ctx, func(tx store.Tx) error {
		return tx.CreateSession(ctx, sess)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "session started", "session", sess.ID, "user", userID, "story", storyID)
	return sess, nil
}

// GetSession returns a session owned by userID.
func (s *Service) GetSession(ctx context.Context, userID, sessionID string) (*session.Session, error) {
	var sess *session.Session
	err := s.repo.InTx(ctx, func(tx store.Tx) error {
		var err error
		sess, err = ownedSession(ctx, tx, userID, sessionID)
		return err
	})
	return sess, err
}

// ListSessions returns every session of userID, oldest first.
func (s *Service) ListSessions(ctx context.Context, userID string) ([]session.Session, error) {
	var out []session.Session
	err := s.repo.InTx(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.ListSessionsByUser(ctx, userID)
		return err
	})
	return out, err
}

// CompleteScene records that sceneIndex of the session was read.
func (s *Service) CompleteScene(ctx context.Context, userID, sessionID string, sceneIndex, readingSeconds int) (*SceneProgress, error) {
	unlockSession := s.sessionLocks.Lock(sessionID)
	defer unlockSession()
	unlockUser := s.userLocks.Lock(userID)
	defer unlockUser()

	var out SceneProgress
	err := s.withConflictRetry(ctx, func() error {
		return s.repo.InTx(ctx, func(tx store.Tx) error {
			sess, err := ownedSession(ctx, tx, userID, sessionID)
			if err != nil {
				return err
			}
			if err := sess.CompleteScene(sceneIndex, readingSeconds); err != nil {
				return err
			}
			if err := tx.UpdateSession(ctx, sess); err != nil {
				return err
			}

			now := s.now()
			err = tx.AddActivity(ctx, activity.DailyActivity{
				UserID:       userID,
				Date:         activity.Day(now, s.loc),
				ScenesRead:   1,
				SecondsSpent: readingSeconds,
			})
			if err != nil {
				return err
			}
			if _, err := s.refreshProgress(ctx, tx, userID, now); err != nil {
				return err
			}

			out = SceneProgress{
				SessionID:         sess.ID,
				CurrentSceneIndex: sess.CurrentSceneIndex,
				ScenesCompleted:   sess.ScenesCompleted,
				QuizReady:         sess.IsQuizEligible(),
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "scene completed",
		"session", sessionID,
		"scene", sceneIndex,
		"scenes_completed", out.ScenesCompleted,
	)
	return &out, nil
}

// SubmitQuiz scores answers, closes the session and updates progress in
// one transaction. Feedback is generated after the commit and never fails
// the call.
func (s *Service) SubmitQuiz(ctx context.Context, userID, sessionID string, answers quiz.Answers, quizSeconds int) (*QuizOutcome, error) {
	unlockSession := s.sessionLocks.Lock(sessionID)
	outcome, story, err := s.submitLocked(ctx, userID, sessionID, answers, quizSeconds)
	unlockSession()
	if err != nil {
		return nil, err
	}

	outcome.Feedback = s.generateFeedback(ctx, story, outcome)
	err = s.repo.InTx(ctx, func(tx store.Tx) error {
		return tx.SetFeedback(ctx, sessionID, outcome.Feedback)
	})
	if err != nil {
		s.log.WarnContext(ctx, "store feedback", "session", sessionID, "err", err)
	}
	return outcome, nil
}

func (s *Service) submitLocked(ctx context.Context, userID, sessionID string, answers quiz.Answers, quizSeconds int) (*QuizOutcome, *catalog.Story, error) {
	// The story lives outside the unit of work, so resolve it first. The
	// session lock keeps the session from changing underneath us.
	sess, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkSubmittable(sess); err != nil {
		return nil, nil, err
	}
	// A closed session reports its state before any payload problem.
	if quizSeconds < 0 {
		return nil, nil, &errs.ValidationError{Field: "total_quiz_time_seconds", Reason: "must not be negative"}
	}
	story, err := s.stories.GetActiveStory(ctx, sess.StoryID)
	if err != nil {
		return nil, nil, err
	}
	if len(story.Quiz) == 0 {
		return nil, nil, &errs.NotFoundError{Kind: "quiz", ID: story.ID}
	}

	unlockUser := s.userLocks.Lock(userID)
	defer unlockUser()

	var out QuizOutcome
	err = s.withConflictRetry(ctx, func() error {
		return s.repo.InTx(ctx, func(tx store.Tx) error {
			sess, err := ownedSession(ctx, tx, userID, sessionID)
			if err != nil {
				return err
			}
			if err := s.checkSubmittable(sess); err != nil {
				return err
			}

			now := s.now()
			res := quiz.Score(story.Quiz, answers)
			if err := sess.CompleteQuiz(res.Percentage, quizSeconds, now.UTC().Truncate(time.Second)); err != nil {
				return err
			}
			if err := tx.UpdateSession(ctx, sess); err != nil {
				return err
			}
			if err := tx.InsertAnswers(ctx, sess.ID, res.Records); err != nil {
				return err
			}
			err = tx.AddActivity(ctx, activity.DailyActivity{
				UserID:           userID,
				Date:             activity.Day(now, s.loc),
				StoriesCompleted: 1,
				QuizAttempts:     1,
				SecondsSpent:     quizSeconds,
			})
			if err != nil {
				return err
			}

			p, err := s.loadProgress(ctx, tx, userID, now)
			if err != nil {
				return err
			}
			p.AddPoints(res.Percentage)
			unlocked, ok := achievements.Evaluate(p.Achievements, achievements.Facts{
				Score:            res.Percentage,
				CurrentStreak:    p.CurrentStreak,
				StoriesCompleted: p.TotalStoriesCompleted,
			})
			if ok {
				p.Achievements = p.Achievements.With(unlocked)
			}
			if err := tx.SaveProgress(ctx, p); err != nil {
				return err
			}

			out = QuizOutcome{
				SessionID:           sess.ID,
				Score:               res.Percentage,
				CorrectCount:        res.CorrectCount,
				TotalQuestions:      res.TotalQuestions,
				Answers:             res.Records,
				AchievementUnlocked: unlocked,
				TotalPoints:         p.TotalPoints,
			}
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.InfoContext(ctx, "quiz submitted",
		"session", sessionID,
		"user", userID,
		"score", out.Score,
		"achievement", out.AchievementUnlocked,
	)
	return &out, story, nil
}

func (s *Service) checkSubmittable(sess *session.Session) error {
	if sess.QuizCompleted {
		return &errs.InvalidStateError{SessionID: sess.ID, State: sess.State().String(), Op: "submit quiz"}
	}
	if s.strict && !sess.IsQuizEligible() {
		return &errs.InvalidStateError{SessionID: sess.ID, State: sess.State().String(), Op: "submit quiz"}
	}
	return nil
}

func (s *Service) generateFeedback(ctx context.Context, story *catalog.Story, out *QuizOutcome) string {
	in := feedback.Input{
		StoryTitle: story.Title,
		Category:   story.Category,
		Result: quiz.Result{
			Percentage:     out.Score,
			CorrectCount:   out.CorrectCount,
			TotalQuestions: out.TotalQuestions,
			Records:        out.Answers,
		},
	}
	text, err := s.feedback.Generate(ctx, in)
	if err != nil || text == "" {
		s.log.WarnContext(ctx, "feedback unavailable", "session", out.SessionID, "err", err)
		return feedback.DefaultMessage
	}
	return text
}

// GetQuizResults returns the stored outcome of a completed session.
func (s *Service) GetQuizResults(ctx context.Context, userID, sessionID string) (*QuizResults, error) {
	var out QuizResults
	err := s.repo.InTx(ctx, func(tx store.Tx) error {
		sess, err := ownedSession(ctx, tx, userID, sessionID)
		if err != nil {
			return err
		}
		if !sess.QuizCompleted || sess.QuizScore == nil || sess.CompletedAt == nil {
			return &errs.InvalidStateError{SessionID: sess.ID, State: sess.State().String(), Op: "read quiz results"}
		}
		records, err := tx.ListAnswers(ctx, sess.ID)
		if err != nil {
			return err
		}
		correct := 0
		for _, r := range records {
			correct += r.Points
		}
		out = QuizResults{
			SessionID:      sess.ID,
			StoryID:        sess.StoryID,
			Score:          *sess.QuizScore,
			CorrectCount:   correct,
			TotalQuestions: len(records),
			ReadingTime:    sess.TotalReadingTime,
			CompletedAt:    *sess.CompletedAt,
			Feedback:       sess.Feedback,
			Answers:        records,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProgress returns the user's rollup with the current streak evaluated
// as of now.
func (s *Service) GetProgress(ctx context.Context, userID string) (*progress.UserProgress, error) {
	var p *progress.UserProgress
	err := s.repo.InTx(ctx, func(tx store.Tx) error {
		var err error
		p, err = tx.GetProgress(ctx, userID)
		if err != nil {
			return err
		}
		p.CurrentStreak, err = s.streak(ctx, tx, userID, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RecentActivity returns the user's daily activity for the last days
// calendar days, newest first.
func (s *Service) RecentActivity(ctx context.Context, userID string, days int) ([]activity.DailyActivity, error) {
	if days < 1 {
		days = 1
	}
	from := activity.Day(s.now().In(s.loc).AddDate(0, 0, -(days - 1)), s.loc)
	var out []activity.DailyActivity
	err := s.repo.InTx(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.ListActivity(ctx, userID, from)
		return err
	})
	return out, err
}

// refreshProgress recomputes and saves the rollup.
func (s *Service) refreshProgress(ctx context.Context, tx store.Tx, userID string, now time.Time) (*progress.UserProgress, error) {
	p, err := s.loadProgress(ctx, tx, userID, now)
	if err != nil {
		return nil, err
	}
	return p, tx.SaveProgress(ctx, p)
}

// loadProgress locks the rollup row and recomputes it from history without
// saving. Callers save it in the same transaction.
func (s *Service) loadProgress(ctx context.Context, tx store.Tx, userID string, now time.Time) (*progress.UserProgress, error) {
	p, err := tx.GetProgressForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := tx.ListSessionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	streak, err := s.streak(ctx, tx, userID, now)
	if err != nil {
		return nil, err
	}
	p.Recompute(sessions, streak, now.UTC().Truncate(time.Second))
	return p, nil
}

func (s *Service) streak(ctx context.Context, tx store.Tx, userID string, now time.Time) (int, error) {
	days, err := tx.ListActivity(ctx, userID, activity.LookbackStart(now, s.loc))
	if err != nil {
		return 0, err
	}
	return activity.CurrentStreak(days, now, s.loc), nil
}

// withConflictRetry replays fn when another writer bumped the session
// version first; the replay sees the winner's state and usually fails with
// a sequence or state error.
func (s *Service) withConflictRetry(ctx context.Context, fn func() error) error {
	var err error
	for range maxConflictRetries {
		err = fn()
		if !errors.Is(err, store.ErrVersionConflict) {
			return err
		}
		s.log.DebugContext(ctx, "session version conflict, replaying")
	}
	return err
}

// ownedSession loads a session and hides sessions owned by other users.
func ownedSession(ctx context.Context, tx store.Tx, userID, sessionID string) (*session.Session, error) {
	sess, err := tx.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, &errs.NotFoundError{Kind: "session", ID: sessionID}
	}
	return sess, nil
}
