// Package chat answers free-form reader questions about a story. Replies
// come from a language model when one is configured and from keyword
// templates otherwise, so a reader always gets an answer.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/errs"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/llm"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/session"
)

const (
	// MaxMessageLength is the longest question accepted, in characters.
	MaxMessageLength = 1000

	// EmptyPrompt answers a blank message.
	EmptyPrompt = "Ask me anything about the story or your reading!"

	defaultTimeout      = 10 * time.Second
	defaultHistoryTurns = 10
	replyTokens         = 250
)

// Mode says where a reply came from.
type Mode string

const (
	ModeLLM      Mode = "llm"
	ModeFallback Mode = "fallback" // model configured but the call failed
	ModeTemplate Mode = "template" // no model configured
)

// Level is a coarse reader level derived from scene completion.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// LevelFor maps a completion percentage to a level: above 80 is advanced,
// above 50 intermediate.
func LevelFor(completion int) Level {
	switch {
	case completion > 80:
		return LevelAdvanced
	case completion > 50:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

// Source is what the chat needs from the tutoring engine.
type Source interface {
	GetStory(ctx context.Context, storyID string) (*catalog.Story, error)
	ListSessions(ctx context.Context, userID string) ([]session.Session, error)
}

type Options struct {
	// Timeout bounds one model call. Default 10s.
	Timeout time.Duration

	// HistoryTurns is how many exchanges per user are kept and replayed
	// to the model. Default 10.
	HistoryTurns int

	Logger *slog.Logger
	Clock  func() time.Time
}

// StoryContext is the story the reader is asking about.
type StoryContext struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Theme       string             `json:"theme"`
	Description string             `json:"description"`
	Difficulty  catalog.Difficulty `json:"difficulty"`
}

// ProgressContext is how far the reader got in their latest attempt.
type ProgressContext struct {
	Level                Level `json:"level"`
	CompletionPercentage int   `json:"completion_percentage"`
}

// Context grounds a conversation in one story.
type Context struct {
	Story    StoryContext    `json:"current_story"`
	Progress ProgressContext `json:"user_progress"`
	Mode     Mode            `json:"chat_mode"`
}

// Reply is one tutor answer.
type Reply struct {
	Response    string    `json:"response"`
	Suggestions []string  `json:"suggestions"`
	Mode        Mode      `json:"mode"`
	Timestamp   time.Time `json:"timestamp"`
}

// Status describes the chat backend without calling it.
type Status struct {
	Mode      Mode   `json:"chat_mode"`
	Model     string `json:"model,omitempty"`
	Available bool   `json:"available"`
}

type turn struct {
	question string
	answer   string
}

// Service keeps a bounded in-memory history per user. History is lost on
// restart.
type Service struct {
	provider llm.Provider
	src      Source
	timeout  time.Duration
	turns    int
	log      *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	history map[string][]turn
}

// New builds a chat service. A nil provider answers from templates only.
func New(provider llm.Provider, src Source, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HistoryTurns <= 0 {
		opts.HistoryTurns = defaultHistoryTurns
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Service{
		provider: provider,
		src:      src,
		timeout:  opts.Timeout,
		turns:    opts.HistoryTurns,
		log:      opts.Logger.With("component", "chat"),
		now:      opts.Clock,
		history:  make(map[string][]turn),
	}
}

func (s *Service) mode() Mode {
	if s.provider == nil {
		return ModeTemplate
	}
	return ModeLLM
}

// Reply answers message for userID. A non-empty storyID grounds the answer
// in that story and the caller's progress through it.
func (s *Service) Reply(ctx context.Context, userID, message, storyID string) (*Reply, error) {
	if userID == "" {
		return nil, &errs.ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	message = strings.TrimSpace(message)
	if n := utf8.RuneCountInString(message); n > MaxMessageLength {
		return nil, &errs.ValidationError{
			Field:  "message",
			Reason: fmt.Sprintf("%d characters, at most %d allowed", n, MaxMessageLength),
		}
	}

	var cc *Context
	if storyID != "" {
		var err error
		if cc, err = s.ContextFor(ctx, userID, storyID); err != nil {
			return nil, err
		}
	} else {
		cc = &Context{Progress: ProgressContext{Level: LevelBeginner}}
	}

	out := &Reply{
		Suggestions: storySuggestions(cc.Story.Title),
		Mode:        s.mode(),
		Timestamp:   s.now().UTC(),
	}
	switch {
	case message == "":
		out.Response = EmptyPrompt
	case s.provider == nil:
		out.Response = templateReply(message, cc.Story.Title)
	default:
		text, err := s.ask(ctx, userID, message, cc)
		if err != nil {
			s.log.WarnContext(ctx, "chat model failed, using template",
				"user", userID,
				"story", storyID,
				"err", err,
			)
			out.Response = templateReply(message, cc.Story.Title)
			out.Mode = ModeFallback
			break
		}
		out.Response = text
	}
	return out, nil
}

func (s *Service) ask(ctx context.Context, userID, message string, cc *Context) (string, error) {
	req := llm.Request{
		System:      systemPrompt(cc),
		MaxTokens:   replyTokens,
		Temperature: 0.7,
	}
	for _, t := range s.snapshot(userID) {
		req.Messages = append(req.Messages,
			llm.Message{Role: llm.RoleUser, Content: t.question},
			llm.Message{Role: llm.RoleAssistant, Content: t.answer},
		)
	}
	req.Messages = append(req.Messages, llm.Message{Role: llm.RoleUser, Content: message})

	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, llm.PurposeChat), s.timeout)
	defer cancel()
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(resp.Content))
	if text == "" {
		return "", errors.New("model returned an empty reply")
	}
	s.remember(userID, turn{question: message, answer: text})
	return text, nil
}

func (s *Service) snapshot(userID string) []turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]turn(nil), s.history[userID]...)
}

func (s *Service) remember(userID string, t turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := append(s.history[userID], t)
	if len(h) > s.turns {
		h = append([]turn(nil), h[len(h)-s.turns:]...)
	}
	s.history[userID] = h
}

// Clear drops userID's history and reports whether there was any.
func (s *Service) Clear(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.history[userID]
	delete(s.history, userID)
	return ok
}

// ContextFor describes storyID and userID's latest attempt at it.
func (s *Service) ContextFor(ctx context.Context, userID, storyID string) (*Context, error) {
	story, err := s.src.GetStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.src.ListSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	var latest *session.Session
	for i := range sessions {
		sess := &sessions[i]
		if sess.StoryID != storyID {
			continue
		}
		if latest == nil || !sess.StartedAt.Before(latest.StartedAt) {
			latest = sess
		}
	}
	completion := 0
	if latest != nil {
		completion = latest.ScenesCompleted * 100 / catalog.SceneCount
	}

	return &Context{
		Story: StoryContext{
			ID:          story.ID,
			Title:       story.Title,
			Theme:       theme(story.Category),
			Description: story.Description,
			Difficulty:  story.Difficulty,
		},
		Progress: ProgressContext{
			Level:                LevelFor(completion),
			CompletionPercentage: completion,
		},
		Mode: s.mode(),
	}, nil
}

// Status reports the configured backend.
func (s *Service) Status() Status {
	st := Status{Mode: s.mode(), Available: true}
	if s.provider != nil {
		st.Model = s.provider.ModelID()
	}
	return st
}

func theme(category string) string {
	return strings.ReplaceAll(category, "_", " ")
}

func systemPrompt(cc *Context) string {
	title := cc.Story.Title
	if title == "" {
		title = "general reading"
	}
	var b strings.Builder
	b.WriteString("You are a friendly reading tutor for children aged 6 to 12.\n")
	fmt.Fprintf(&b, "Story: %s\n", title)
	if cc.Story.Theme != "" {
		fmt.Fprintf(&b, "Theme: %s\n", cc.Story.Theme)
	}
	fmt.Fprintf(&b, "Reader level: %s (%d%% of scenes read)\n\n",
		cc.Progress.Level, cc.Progress.CompletionPercentage)
	b.WriteString(`Answer the question directly in simple words, under 120 words.
Use examples from the story and end with one short question that checks
understanding. Do not reveal quiz answers outright. Never discuss anything
unsafe for children; steer back to the story instead.`)
	return b.String()
}
