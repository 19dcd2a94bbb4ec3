package screen

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/activity"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/chat"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/progress"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/quiz"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/session"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/tutor"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Tutor is the engine surface the terminal screens drive.
type Tutor interface {
	ListStories(ctx context.Context) ([]catalog.Story, error)
	StartSession(ctx context.Context, userID, storyID string) (*session.Session, error)
	CompleteScene(ctx context.Context, userID, sessionID string, sceneIndex, readingSeconds int) (*tutor.SceneProgress, error)
	SubmitQuiz(ctx context.Context, userID, sessionID string, answers quiz.Answers, quizSeconds int) (*tutor.QuizOutcome, error)
	GetProgress(ctx context.Context, userID string) (*progress.UserProgress, error)
	RecentActivity(ctx context.Context, userID string, days int) ([]activity.DailyActivity, error)
}

// Chat answers reader questions about a story.
type Chat interface {
	Reply(ctx context.Context, userID, message, storyID string) (*chat.Reply, error)
}

// Env is what every screen needs to talk to the engine as the local
// reader.
type Env struct {
	Tutor  Tutor
	UserID string

	// Chat is optional; without it the reader offers no tutor screen.
	Chat Chat

	// Now defaults to time.Now; reading and quiz timers use it.
	Now func() time.Time
}

// Clock returns the current time from e.Now.
func (e Env) Clock() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// EscCapturer is implemented by screens that consume Esc themselves while
// in some mode (an open filter, say) instead of letting the app pop them.
type EscCapturer interface {
	CapturesEsc() bool
}

// StatsChangedMsg tells the app to refresh the header totals.
type StatsChangedMsg struct {
	Stats layout.HeaderStats
}

// RefreshStats loads the reader's totals for the header. Errors leave the
// header unchanged.
func RefreshStats(env Env) tea.Cmd {
	return func() tea.Msg {
		p, err := env.Tutor.GetProgress(context.Background(), env.UserID)
		if err != nil {
			return nil
		}
		return StatsChangedMsg{Stats: layout.HeaderStats{Points: p.TotalPoints, Streak: p.CurrentStreak}}
	}
}
