// Package screentest wires a real tutor over an in-memory store for
// screen tests and drives Bubble Tea commands synchronously.
package screentest

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/chat"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screen"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/store"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/tutor"
)

// Clock is a settable clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Fixture bundles a screen env with the service and clock behind it.
type Fixture struct {
	Env   screen.Env
	Tutor *tutor.Service
	Clock *Clock
	Story catalog.Story
}

// Owl is the story every fixture is seeded with. Its answers are B, A.
func Owl() catalog.Story {
	return catalog.Story{
		ID:          "owl",
		Title:       "The Night Owl",
		Description: "An owl learns to ask for help",
		Difficulty:  catalog.Beginner,
		Category:    "friendship",
		Scenes: []string{
			"Hoot could not find the moon.",
			"The fox offered a lantern.",
			"Together they found the moon behind a cloud.",
		},
		Quiz: []catalog.Question{
			{Text: "What was Hoot looking for?", Options: []string{"The sun", "The moon"}, Correct: 1},
			{Text: "Who helped Hoot?", Options: []string{"The fox", "The bear"}, Correct: 0},
		},
		Active: true,
	}
}

// New returns a fixture for user "reader-1".
func New(t *testing.T) *Fixture {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, store.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	story := Owl()
	if err := st.StoryRepo().SeedStories(ctx, []catalog.Story{story}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	clock := &Clock{now: time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := tutor.New(st, st.StoryRepo(), tutor.Options{Logger: log, Clock: clock.Now})
	tutorChat := chat.New(nil, svc, chat.Options{Logger: log, Clock: clock.Now})
	return &Fixture{
		Env:   screen.Env{Tutor: svc, UserID: "reader-1", Chat: tutorChat, Now: clock.Now},
		Tutor: svc,
		Clock: clock,
		Story: story,
	}
}

// Drain runs cmd and any batched commands it yields, returning every
// message produced in order. Nil messages are dropped.
func Drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, Drain(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// Key builds a key press for a named key ("enter", "esc", "up", ...) or a
// single printable character.
func Key(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}
