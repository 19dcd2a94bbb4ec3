// Package questions runs the end-of-story quiz.
package questions

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/quiz"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/router"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screen"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screens/results"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/tutor"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/components"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/layout"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/theme"
)

type submittedMsg struct {
	Outcome *tutor.QuizOutcome
	Err     error
}

// QuizScreen shows one question at a time. Choices can be revised until
// the quiz is submitted.
type QuizScreen struct {
	env       screen.Env
	story     catalog.Story
	sessionID string

	items     []components.MultiChoice
	current   int
	reviewing bool
	startedAt time.Time
	sending   bool
	err       error
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates the quiz for story. Only question text and options are
// handed to the widgets.
func New(env screen.Env, story catalog.Story, sessionID string) *QuizScreen {
	items := make([]components.MultiChoice, len(story.Quiz))
	for i, q := range story.Quiz {
		items[i] = components.NewMultiChoice(q.Text, q.Options)
	}
	return &QuizScreen{env: env, story: story, sessionID: sessionID, items: items}
}

func (s *QuizScreen) Init() tea.Cmd {
	s.startedAt = s.env.Clock()
	return nil
}

func (s *QuizScreen) Title() string {
	return "Quiz: " + s.story.Title
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.reviewing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "←", Description: "Revise"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter/1-9", Description: "Answer"},
		{Key: "←→", Description: "Question"},
		{Key: "s", Description: "Submit"},
	}
}

// Answers returns the picks so far keyed by question index.
func (s *QuizScreen) Answers() quiz.Answers {
	out := quiz.Answers{}
	for i, it := range s.items {
		if it.Answered() {
			out[i] = it.Chosen
		}
	}
	return out
}

func (s *QuizScreen) answered() int {
	return len(s.Answers())
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		s.sending = false
		if msg.Err != nil {
			s.err = msg.Err
			return s, nil
		}
		next := results.New(s.env, s.story, msg.Outcome)
		return s, tea.Batch(
			func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
			screen.RefreshStats(s.env),
		)

	case tea.KeyPressMsg:
		if s.sending {
			return s, nil
		}
		if s.reviewing {
			switch msg.String() {
			case "enter", "s":
				return s, s.submit()
			case "left", "h", "shift+tab":
				s.reviewing = false
			}
			return s, nil
		}
		switch msg.String() {
		case "left", "h", "shift+tab":
			s.current = max(s.current-1, 0)
			return s, nil
		case "right", "l", "tab":
			s.advance()
			return s, nil
		case "s":
			s.reviewing = true
			return s, nil
		}
		if len(s.items) == 0 {
			return s, nil
		}
		var picked bool
		s.items[s.current], picked = s.items[s.current].Update(msg)
		if picked {
			s.advance()
		}
	}
	return s, nil
}

// advance moves to the next question, or to the review step after the
// last one.
func (s *QuizScreen) advance() {
	if s.current < len(s.items)-1 {
		s.current++
		return
	}
	s.reviewing = true
}

func (s *QuizScreen) submit() tea.Cmd {
	s.sending = true
	s.err = nil
	env, id, answers := s.env, s.sessionID, s.Answers()
	secs := max(int(env.Clock().Sub(s.startedAt).Seconds()), 0)
	return func() tea.Msg {
		out, err := env.Tutor.SubmitQuiz(context.Background(), env.UserID, id, answers, secs)
		return submittedMsg{Outcome: out, Err: err}
	}
}

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(layout.Centered(width, theme.Title, "How well do you remember?"))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Subtitle,
		fmt.Sprintf("%d of %d answered", s.answered(), len(s.items))))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.NewProgressBar("", float64(s.answered())/float64(max(len(s.items), 1)), false, cw).View()))
	b.WriteString("\n\n")

	switch {
	case s.sending:
		b.WriteString(layout.Centered(width, theme.Hint, "Checking your answers..."))
	case s.reviewing:
		b.WriteString(s.reviewView(width, cw))
	case len(s.items) > 0:
		head := theme.Hint.Render(fmt.Sprintf("Question %d of %d", s.current+1, len(s.items)))
		card := components.Card(lipgloss.NewStyle().Align(lipgloss.Left).Render(
			head+"\n\n"+s.items[s.current].View()), cw)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	}

	if s.err != nil {
		b.WriteString("\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, components.ErrorLine(s.err, cw)))
	}
	return b.String()
}

func (s *QuizScreen) reviewView(width, cw int) string {
	var b strings.Builder
	for i, it := range s.items {
		choice := theme.Hint.Render(quiz.NoAnswer)
		if it.Answered() {
			choice = theme.Body.Render(it.Options[it.Chosen])
		}
		b.WriteString(fmt.Sprintf("%d. %s\n   %s\n", i+1, it.Question, choice))
	}
	msg := "Press Enter to hand in your answers."
	if missing := len(s.items) - s.answered(); missing > 0 {
		msg = fmt.Sprintf("%d left blank. Press Enter to hand in anyway.", missing)
	}
	card := components.Card(lipgloss.NewStyle().Align(lipgloss.Left).Render(b.String()), cw)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card) + "\n\n" +
		layout.Centered(width, theme.Hint, msg)
}
