// Package journal shows the reader's progress, achievements and recent
// reading days.
package journal

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/achievements"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/activity"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/progress"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screen"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/components"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/layout"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/theme"
)

// Days is how many calendar days the activity strip covers.
const Days = 7

type loadedMsg struct {
	Progress *progress.UserProgress
	Days     []activity.DailyActivity
	Err      error
}

// JournalScreen is the progress dashboard.
type JournalScreen struct {
	env      screen.Env
	progress *progress.UserProgress
	days     []activity.DailyActivity
	loaded   bool
	err      error
}

var _ screen.Screen = (*JournalScreen)(nil)
var _ screen.KeyHintProvider = (*JournalScreen)(nil)

// New creates a new JournalScreen.
func New(env screen.Env) *JournalScreen {
	return &JournalScreen{env: env}
}

func (s *JournalScreen) Init() tea.Cmd {
	env := s.env
	return func() tea.Msg {
		ctx := context.Background()
		p, err := env.Tutor.GetProgress(ctx, env.UserID)
		if err != nil {
			return loadedMsg{Err: err}
		}
		days, err := env.Tutor.RecentActivity(ctx, env.UserID, Days)
		return loadedMsg{Progress: p, Days: days, Err: err}
	}
}

func (s *JournalScreen) Title() string {
	return "My Progress"
}

func (s *JournalScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *JournalScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(loadedMsg); ok {
		s.loaded = true
		s.progress, s.days, s.err = msg.Progress, msg.Days, msg.Err
	}
	return s, nil
}

func (s *JournalScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if !s.loaded {
		return layout.Centered(width, theme.Hint, "Opening your journal...")
	}
	if s.err != nil {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, components.ErrorLine(s.err, cw))
	}
	p := s.progress

	sections := []string{
		layout.Centered(width, theme.Title, "Reading Journal"),
		lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(statsBlock(p), cw)),
		section(width, "Achievements", achievementsBlock(p.Achievements)),
		section(width, fmt.Sprintf("Last %d days", Days), weekBlock(s.days, s.env.Clock())),
	}
	if len(p.CategoryScores) > 0 {
		sections = append(sections, section(width, "Themes", themesBlock(p, cw)))
	}
	return strings.Join(sections, "\n\n")
}

func section(width int, title, body string) string {
	return layout.Centered(width, theme.Hint, title) + "\n" +
		layout.Divider(width) + "\n" +
		lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func statsBlock(p *progress.UserProgress) string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	value := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	row := func(l1, v1, l2, v2 string) string {
		return fmt.Sprintf("%s %s    %s %s",
			label.Render(fmt.Sprintf("%-16s", l1)), value.Render(fmt.Sprintf("%-6s", v1)),
			label.Render(fmt.Sprintf("%-16s", l2)), value.Render(v2))
	}
	return strings.Join([]string{
		row("Stories finished", fmt.Sprint(p.TotalStoriesCompleted), "Scenes read", fmt.Sprint(p.TotalScenesRead)),
		row("Average score", fmt.Sprintf("%.0f%%", p.AverageQuizScore), "Reading time", fmt.Sprintf("%d min", p.TotalReadingTime)),
		row("Current streak", fmt.Sprint(p.CurrentStreak), "Longest streak", fmt.Sprint(p.LongestStreak)),
		row("Sessions", fmt.Sprint(p.TotalSessions), "Points", fmt.Sprint(p.TotalPoints)),
	}, "\n")
}

func achievementsBlock(held achievements.Set) string {
	var b strings.Builder
	for _, a := range achievements.All() {
		if held.Has(a) {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render(
				fmt.Sprintf("%s %-14s", a.Icon(), a.DisplayName())))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
				fmt.Sprintf("🔒 %-14s", a.DisplayName())))
		}
		b.WriteString(theme.Hint.Render("  " + a.Description()))
		b.WriteString("\n")
	}
	return b.String()
}

// weekBlock draws one column per day, oldest first, with a bar for the
// scenes read that day.
func weekBlock(days []activity.DailyActivity, now time.Time) string {
	byDate := make(map[string]activity.DailyActivity, len(days))
	for _, d := range days {
		byDate[d.Date] = d
	}
	loc := now.Location()
	var cols []string
	for i := Days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		d := byDate[activity.Day(day, loc)]
		bar := lipgloss.NewStyle().Foreground(theme.Border).Render("·")
		if d.Qualifies() {
			bar = lipgloss.NewStyle().Foreground(theme.Accent).Render(
				strings.Repeat("█", min(max(d.ScenesRead, 1), 6)))
		}
		cols = append(cols, fmt.Sprintf("%s %-6s %s",
			theme.Hint.Render(day.In(loc).Format("Mon")), bar,
			theme.Hint.Render(fmt.Sprintf("%d min", d.MinutesSpent()))))
	}
	return strings.Join(cols, "\n")
}

func themesBlock(p *progress.UserProgress, cw int) string {
	names := make([]string, 0, len(p.CategoryScores))
	for c := range p.CategoryScores {
		names = append(names, c)
	}
	sort.Strings(names)
	lines := make([]string, len(names))
	for i, c := range names {
		label := c
		if slices.Contains(p.FavoriteCategories, c) {
			label = "★ " + c
		}
		lines[i] = components.NewProgressBar(fmt.Sprintf("%-14s", label), p.CategoryScores[c]/100, true, cw-4).View()
	}
	return strings.Join(lines, "\n")
}
