package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/progress"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/theme"
)

const bannerFull = `╔═╗╔╦╗╔═╗╦═╗╦ ╦  ╔╦╗╦ ╦╔╦╗╔═╗╦═╗
╚═╗ ║ ║ ║╠╦╝╚╦╝   ║ ║ ║ ║ ║ ║╠╦╝
╚═╝ ╩ ╚═╝╩╚═ ╩    ╩ ╚═╝ ╩ ╚═╝╩╚═`

const bannerCompact = "S T O R Y · T U T O R"

func renderTitle(cw int, compact bool) string {
	art := bannerFull
	if compact {
		art = bannerCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render(art))
}

// renderStatsBar shows completed stories, average score and achievements.
func renderStatsBar(p *progress.UserProgress, cw int, compact bool) string {
	if p == nil {
		return ""
	}
	books := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	score := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	badges := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			books.Render(fmt.Sprintf("📖%d", p.TotalStoriesCompleted)),
			score.Render(fmt.Sprintf("%.0f%%", p.AverageQuizScore)),
			badges.Render(fmt.Sprintf("🏅%d", len(p.Achievements))))
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			books.Render(fmt.Sprintf("📖 %d STORIES", p.TotalStoriesCompleted)),
			score.Render(fmt.Sprintf("AVG %.0f%%", p.AverageQuizScore)),
			badges.Render(fmt.Sprintf("🏅 %d BADGES", len(p.Achievements))))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func renderGreeting(p *progress.UserProgress, cw int) string {
	text := "Pick a story and let's begin!"
	switch {
	case p == nil:
	case p.CurrentStreak > 1:
		text = fmt.Sprintf("%d days in a row. Keep the pages turning!", p.CurrentStreak)
	case p.TotalStoriesCompleted > 0 && p.CurrentStreak == 0:
		text = "Welcome back! Your owl missed you."
	}
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}
