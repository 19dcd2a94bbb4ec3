// Package library lists the active stories and starts a reading session.
package library

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/router"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screen"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screens/reader"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/session"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/components"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/layout"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/theme"
)

type storiesLoadedMsg struct {
	Stories []catalog.Story
	Err     error
}

type sessionStartedMsg struct {
	Story   catalog.Story
	Session *session.Session
	Err     error
}

// LibraryScreen is the story picker.
type LibraryScreen struct {
	env      screen.Env
	stories  []catalog.Story
	visible  []int // indices into stories that pass the filter
	cursor   int
	filter   components.Filter
	loaded   bool
	starting bool
	err      error
}

var _ screen.Screen = (*LibraryScreen)(nil)
var _ screen.KeyHintProvider = (*LibraryScreen)(nil)
var _ screen.EscCapturer = (*LibraryScreen)(nil)

// New creates a new LibraryScreen.
func New(env screen.Env) *LibraryScreen {
	return &LibraryScreen{env: env, filter: components.NewFilter("title or theme")}
}

func (s *LibraryScreen) Init() tea.Cmd {
	env := s.env
	return func() tea.Msg {
		stories, err := env.Tutor.ListStories(context.Background())
		return storiesLoadedMsg{Stories: stories, Err: err}
	}
}

func (s *LibraryScreen) Title() string {
	return "Library"
}

func (s *LibraryScreen) KeyHints() []layout.KeyHint {
	if s.filter.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Read"},
		{Key: "/", Description: "Filter"},
		{Key: "Esc", Description: "Back"},
	}
}

// CapturesEsc keeps Esc for clearing the filter while it is focused.
func (s *LibraryScreen) CapturesEsc() bool {
	return s.filter.Focused()
}

func (s *LibraryScreen) refilter() {
	s.visible = s.visible[:0]
	for i, st := range s.stories {
		if s.filter.Match(st.Title, st.Category, string(st.Difficulty)) {
			s.visible = append(s.visible, i)
		}
	}
	s.cursor = min(s.cursor, max(len(s.visible)-1, 0))
}

// Selected returns the story under the cursor.
func (s *LibraryScreen) Selected() (catalog.Story, bool) {
	if len(s.visible) == 0 {
		return catalog.Story{}, false
	}
	return s.stories[s.visible[s.cursor]], true
}

func (s *LibraryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case storiesLoadedMsg:
		s.loaded = true
		s.stories, s.err = msg.Stories, msg.Err
		s.refilter()
		return s, nil

	case sessionStartedMsg:
		s.starting = false
		if msg.Err != nil {
			s.err = msg.Err
			return s, nil
		}
		next := reader.New(s.env, msg.Story, msg.Session)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }

	case tea.KeyPressMsg:
		if s.filter.Focused() {
			return s.updateFilter(msg)
		}
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.visible)-1 {
				s.cursor++
			}
		case "/":
			return s, s.filter.Focus()
		case "enter":
			return s, s.start()
		}
	}
	return s, nil
}

func (s *LibraryScreen) updateFilter(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.filter.Reset()
		s.refilter()
		return s, nil
	case "enter":
		s.filter.Blur()
		return s, nil
	}
	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	s.refilter()
	return s, cmd
}

func (s *LibraryScreen) start() tea.Cmd {
	story, ok := s.Selected()
	if !ok || s.starting {
		return nil
	}
	s.starting = true
	s.err = nil
	env := s.env
	return func() tea.Msg {
		sess, err := env.Tutor.StartSession(context.Background(), env.UserID, story.ID)
		return sessionStartedMsg{Story: story, Session: sess, Err: err}
	}
}

func (s *LibraryScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(layout.Centered(width, theme.Title, "Choose a story"))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.filter.View()))
	b.WriteString("\n")
	b.WriteString(layout.Divider(width))
	b.WriteString("\n\n")

	switch {
	case !s.loaded:
		b.WriteString(layout.Centered(width, theme.Hint, "Opening the bookshelf..."))
		return b.String()
	case len(s.stories) == 0:
		b.WriteString(layout.Centered(width, theme.Hint, "The bookshelf is empty."))
		return b.String()
	case len(s.visible) == 0:
		b.WriteString(layout.Centered(width, theme.Hint, "No stories match."))
		return b.String()
	}

	// Keep the cursor in view on short terminals.
	perItem := 3
	rows := max((height-8)/perItem, 1)
	first := max(s.cursor-rows+1, 0)
	last := min(first+rows, len(s.visible))

	var list strings.Builder
	for pos := first; pos < last; pos++ {
		st := s.stories[s.visible[pos]]
		list.WriteString(renderEntry(st, pos == s.cursor, cw))
		list.WriteString("\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, list.String()))

	if s.starting {
		b.WriteString("\n" + layout.Centered(width, theme.Hint, "Opening the book..."))
	}
	if s.err != nil {
		b.WriteString("\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, components.ErrorLine(s.err, cw)))
	}
	return b.String()
}

func renderEntry(st catalog.Story, selected bool, cw int) string {
	title := theme.Unselected.Render("  " + st.Title)
	if selected {
		title = theme.Selected.Render("▸ " + st.Title)
	}
	meta := lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("    %s · %s · %d questions", st.Difficulty, st.Category, len(st.Quiz)))
	desc := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
		Width(cw).Render("    " + st.Description)
	return title + "\n" + meta + "\n" + desc
}
