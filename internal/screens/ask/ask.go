// Package ask lets the reader put questions about a story to the tutor.
package ask

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/chat"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screen"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/components"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/layout"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/theme"
)

// shownExchanges is how many recent exchanges fit on screen.
const shownExchanges = 3

type replyMsg struct {
	Question string
	Reply    *chat.Reply
	Err      error
}

type exchange struct {
	question string
	answer   string
}

// AskScreen is a small chat with the tutor about one story.
type AskScreen struct {
	env     screen.Env
	story   catalog.Story
	input   textinput.Model
	log     []exchange
	hints   []string
	waiting bool
	err     error
}

var _ screen.Screen = (*AskScreen)(nil)
var _ screen.KeyHintProvider = (*AskScreen)(nil)

// New opens a chat about story. env.Chat must be set.
func New(env screen.Env, story catalog.Story) *AskScreen {
	ti := textinput.New()
	ti.Placeholder = "Why did the fox help?"
	ti.Prompt = "? "
	ti.CharLimit = chat.MaxMessageLength
	return &AskScreen{env: env, story: story, input: ti}
}

func (s *AskScreen) Init() tea.Cmd {
	return s.input.Focus()
}

func (s *AskScreen) Title() string {
	return "Ask the tutor"
}

func (s *AskScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Ask"},
		{Key: "Esc", Description: "Back to the story"},
	}
}

func (s *AskScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		s.waiting = false
		if msg.Err != nil {
			s.err = msg.Err
			return s, nil
		}
		s.err = nil
		s.log = append(s.log, exchange{question: msg.Question, answer: msg.Reply.Response})
		s.hints = msg.Reply.Suggestions
		return s, nil

	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			return s, s.send()
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *AskScreen) send() tea.Cmd {
	q := strings.TrimSpace(s.input.Value())
	if s.waiting || q == "" {
		return nil
	}
	s.waiting = true
	s.input.SetValue("")
	env, storyID := s.env, s.story.ID
	return func() tea.Msg {
		r, err := env.Chat.Reply(context.Background(), env.UserID, q, storyID)
		return replyMsg{Question: q, Reply: r, Err: err}
	}
}

func (s *AskScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(layout.Centered(width, theme.Title, s.story.Title))
	b.WriteString("\n\n")

	start := max(len(s.log)-shownExchanges, 0)
	var lines []string
	for _, ex := range s.log[start:] {
		lines = append(lines,
			theme.Selected.Render("You: ")+ex.question,
			theme.Body.Render("Tutor: "+ex.answer),
			"",
		)
	}
	if len(lines) == 0 {
		lines = append(lines, theme.Hint.Render("Ask anything about the story."))
	}
	page := lipgloss.NewStyle().Width(cw - 6).Align(lipgloss.Left).Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(page, cw)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
	b.WriteString("\n")
	switch {
	case s.waiting:
		b.WriteString(layout.Centered(width, theme.Hint, "The tutor is thinking..."))
	case s.err != nil:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.ErrorLine(s.err, cw)))
	case len(s.hints) > 0:
		b.WriteString(layout.Centered(width, theme.Hint, "Try: "+s.hints[0]))
	}
	return b.String()
}
