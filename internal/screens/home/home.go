package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/activity"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/progress"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/router"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screen"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screens/journal"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screens/library"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/components"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/layout"
)

type progressLoadedMsg struct {
	Progress *progress.UserProgress
	Err      error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	env      screen.Env
	menu     components.Menu
	progress *progress.UserProgress
	err      error
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ router.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(env screen.Env) *HomeScreen {
	items := []components.MenuItem{
		{Label: "READ A STORY", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: library.New(env)} }
		}},
		{Label: "MY PROGRESS", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: journal.New(env)} }
		}},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	}
	return &HomeScreen{env: env, menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Resume reloads the dashboard after a story or the progress screen.
func (h *HomeScreen) Resume() tea.Cmd {
	return tea.Batch(h.load(), screen.RefreshStats(h.env))
}

func (h *HomeScreen) load() tea.Cmd {
	env := h.env
	return func() tea.Msg {
		p, err := env.Tutor.GetProgress(context.Background(), env.UserID)
		return progressLoadedMsg{Progress: p, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(progressLoadedMsg); ok {
		h.progress, h.err = msg.Progress, msg.Err
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// mascot picks the owl from the reader's recent activity.
func (h *HomeScreen) mascot() MascotVariant {
	p := h.progress
	if p == nil {
		return MascotIdle
	}
	now := h.env.Clock()
	if p.LastActivityDate != nil && activity.Day(*p.LastActivityDate, now.Location()) == activity.Day(now, now.Location()) {
		return MascotCelebrating
	}
	if p.TotalStoriesCompleted > 0 && p.CurrentStreak == 0 {
		return MascotSleepy
	}
	return MascotIdle
}

func (h *HomeScreen) View(width, height int) string {
	// height excludes header and footer
	compact := layout.IsCompactHeight(height+8) || width < 100
	cw := components.ContentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	if !compact {
		sections = append(sections, RenderMascot(h.mascot()))
	}
	if bar := renderStatsBar(h.progress, cw, compact); bar != "" {
		sections = append(sections, bar)
	}
	sections = append(sections, renderGreeting(h.progress, cw))
	if h.err != nil {
		sections = append(sections, components.ErrorLine(h.err, cw))
	}
	sections = append(sections, components.ButtonColumn(h.menu, cw, compact))

	return components.BookFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
