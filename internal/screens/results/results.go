// Package results shows how a quiz went.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/feedback"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/router"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screen"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/tutor"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/layout"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/theme"
)

// ResultsScreen displays the score, per-question review and feedback.
type ResultsScreen struct {
	env     screen.Env
	story   catalog.Story
	outcome *tutor.QuizOutcome
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a new ResultsScreen.
func New(env screen.Env, story catalog.Story, outcome *tutor.QuizOutcome) *ResultsScreen {
	return &ResultsScreen{env: env, story: story, outcome: outcome}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Library"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	out := s.outcome
	if out == nil {
		return ""
	}
	center := func(style lipgloss.Style, text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(text))
	}

	var b strings.Builder
	b.WriteString(layout.Centered(width, theme.Title, feedback.BandFor(out.Score).Headline()))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.Body, fmt.Sprintf(
		"%s        Correct: %d / %d        Score: %.0f%%",
		s.story.Title, out.CorrectCount, out.TotalQuestions, out.Score)))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(width, theme.Hint, "Answers"))
	b.WriteString("\n")
	b.WriteString(layout.Divider(width))
	b.WriteString("\n")
	var answers strings.Builder
	for _, rec := range out.Answers {
		style := theme.Incorrect
		if rec.IsCorrect {
			style = theme.Correct
		}
		answers.WriteString(theme.Body.Render(fmt.Sprintf("%d. %s", rec.QuestionIndex+1, rec.QuestionText)))
		answers.WriteString("\n   ")
		answers.WriteString(theme.Hint.Render("You said: " + rec.ChosenText))
		answers.WriteString("\n   ")
		answers.WriteString(style.Render(feedback.AnswerLine(rec)))
		answers.WriteString("\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, answers.String()))
	b.WriteString("\n")

	if out.Feedback != "" {
		b.WriteString(layout.Divider(width))
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Italic(true).
			Width(min(width-8, 60)), out.Feedback))
		b.WriteString("\n\n")
	}

	if a := out.AchievementUnlocked; a != "" {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Gold).Bold(true),
			fmt.Sprintf("%s Achievement unlocked: %s", a.Icon(), a.DisplayName())))
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, theme.Subtitle, a.Description()))
		b.WriteString("\n\n")
	}

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Gold),
		fmt.Sprintf("✦ %d points in total", out.TotalPoints)))
	return b.String()
}
