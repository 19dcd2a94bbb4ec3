package store

import (
	"context"
	"errors"
	"time"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/activity"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/progress"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/quiz"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/session"
)

// ErrVersionConflict is returned when a session update loses an optimistic
// concurrency check against another writer.
var ErrVersionConflict = errors.New("session was modified concurrently")

// ErrUsernameTaken is returned when registering an existing username.
var ErrUsernameTaken = errors.New("username already taken")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose match (empty = any)
}

// SessionRepo persists reading sessions and their answer records.
type SessionRepo interface {
	CreateSession(ctx context.Context, s *session.Session) error

	// GetSession returns *errs.NotFoundError when id is unknown.
	GetSession(ctx context.Context, id string) (*session.Session, error)

	// UpdateSession writes s if the stored version still equals s.Version,
	// then bumps s.Version. Returns ErrVersionConflict otherwise.
	UpdateSession(ctx context.Context, s *session.Session) error

	ListSessionsByUser(ctx context.Context, userID string) ([]session.Session, error)

	InsertAnswers(ctx context.Context, sessionID string, records []quiz.AnswerRecord) error
	ListAnswers(ctx context.Context, sessionID string) ([]quiz.AnswerRecord, error)

	// SetFeedback stores generated feedback text without touching the
	// session version.
	SetFeedback(ctx context.Context, sessionID, feedback string) error
}

// ProgressRepo persists the per-user rollup.
type ProgressRepo interface {
	// GetProgress returns an empty record when the user has none yet.
	GetProgress(ctx context.Context, userID string) (*progress.UserProgress, error)

	// GetProgressForUpdate is GetProgress for a read-modify-write: the row
	// is created if missing and held locked until the transaction ends.
	GetProgressForUpdate(ctx context.Context, userID string) (*progress.UserProgress, error)
	SaveProgress(ctx context.Context, p *progress.UserProgress) error
}

// ActivityRepo persists daily activity counters.
type ActivityRepo interface {
	// AddActivity adds delta's counters to the (user, date) row, creating
	// it when missing.
	AddActivity(ctx context.Context, delta activity.DailyActivity) error

	// ListActivity returns the user's rows with date >= fromDay, newest first.
	ListActivity(ctx context.Context, userID, fromDay string) ([]activity.DailyActivity, error)
}

// Tx is the set of repositories available inside one unit of work.
type Tx interface {
	SessionRepo
	ProgressRepo
	ActivityRepo
}

// TxRunner runs a function inside a single database transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// StoryRepo persists story definitions and serves them as a catalog.
type StoryRepo interface {
	catalog.Catalog

	// SeedStories inserts missing stories and refreshes existing ones.
	SeedStories(ctx context.Context, stories []catalog.Story) error
}

// User is a registered account.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepo persists accounts.
type UserRepo interface {
	// CreateUser returns ErrUsernameTaken for a duplicate username.
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo records and reads LLM request events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns nil when id is unknown.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)
}
