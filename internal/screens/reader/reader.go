// Package reader shows a story one scene at a time and records each scene
// as it is finished.
package reader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/errs"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/router"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screen"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screens/ask"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screens/questions"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/session"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/tutor"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/components"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/layout"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/theme"
)

type sceneRecordedMsg struct {
	Progress *tutor.SceneProgress
	Err      error
}

// ReaderScreen displays the current scene.
type ReaderScreen struct {
	env       screen.Env
	story     catalog.Story
	sessionID string

	scene     int
	completed int
	shownAt   time.Time
	saving    bool
	err       error
}

var _ screen.Screen = (*ReaderScreen)(nil)
var _ screen.KeyHintProvider = (*ReaderScreen)(nil)

// New opens story at the session's current scene.
func New(env screen.Env, story catalog.Story, sess *session.Session) *ReaderScreen {
	return &ReaderScreen{
		env:       env,
		story:     story,
		sessionID: sess.ID,
		scene:     sess.CurrentSceneIndex,
		completed: sess.ScenesCompleted,
	}
}

func (s *ReaderScreen) Init() tea.Cmd {
	s.shownAt = s.env.Clock()
	return nil
}

func (s *ReaderScreen) Title() string {
	return s.story.Title
}

func (s *ReaderScreen) KeyHints() []layout.KeyHint {
	label := "Next scene"
	if s.scene == len(s.story.Scenes)-1 {
		label = "To the quiz"
	}
	hints := []layout.KeyHint{{Key: "Enter", Description: label}}
	if s.env.Chat != nil {
		hints = append(hints, layout.KeyHint{Key: "?", Description: "Ask the tutor"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Library"})
}

// Scene returns the index of the scene on screen.
func (s *ReaderScreen) Scene() int {
	return s.scene
}

func (s *ReaderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sceneRecordedMsg:
		s.saving = false
		if msg.Err != nil {
			s.err = msg.Err
			// Another client moved the session on; follow it.
			var seq *errs.SequenceError
			if errors.As(msg.Err, &seq) && seq.Retryable() {
				s.scene = seq.Expected
				s.completed = seq.Expected
			}
			return s, nil
		}
		s.err = nil
		s.completed = msg.Progress.ScenesCompleted
		if msg.Progress.QuizReady {
			next := questions.New(s.env, s.story, s.sessionID)
			return s, tea.Batch(
				func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
				screen.RefreshStats(s.env),
			)
		}
		s.scene = msg.Progress.CurrentSceneIndex
		s.shownAt = s.env.Clock()
		return s, screen.RefreshStats(s.env)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter", "space", "right", "l":
			return s, s.finishScene()
		case "?":
			if s.env.Chat != nil {
				next := ask.New(s.env, s.story)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

func (s *ReaderScreen) finishScene() tea.Cmd {
	if s.saving {
		return nil
	}
	s.saving = true
	env, id, idx := s.env, s.sessionID, s.scene
	secs := max(int(env.Clock().Sub(s.shownAt).Seconds()), 0)
	return func() tea.Msg {
		p, err := env.Tutor.CompleteScene(context.Background(), env.UserID, id, idx, secs)
		return sceneRecordedMsg{Progress: p, Err: err}
	}
}

func (s *ReaderScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(layout.Centered(width, theme.Title, s.story.Title))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Subtitle,
		fmt.Sprintf("Scene %d of %d", s.scene+1, len(s.story.Scenes))))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Pips(s.completed, len(s.story.Scenes))))
	b.WriteString("\n\n")

	text := ""
	if s.scene >= 0 && s.scene < len(s.story.Scenes) {
		text = s.story.Scenes[s.scene]
	}
	// Card borders and padding take six cells.
	page := theme.Prose.Width(cw - 6).Align(lipgloss.Left).Render(text)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(page, cw)))
	b.WriteString("\n\n")

	switch {
	case s.saving:
		b.WriteString(layout.Centered(width, theme.Hint, "Turning the page..."))
	case s.err != nil:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.ErrorLine(s.err, cw)))
	default:
		b.WriteString(layout.Centered(width, theme.Hint, "Press Enter when you have finished reading"))
	}
	return b.String()
}
