package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for all sections of a
// framed screen so boxes line up.
func ContentWidth(frameWidth int) int {
	// border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 64)
}

// BookFrame wraps content in a double border, centered in the area.
func BookFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// ButtonWidth is the fixed width for menu buttons.
const ButtonWidth = 24

// Button renders a bordered button.
func Button(label string, selected bool) string {
	style := lipgloss.NewStyle().
		Width(ButtonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if selected {
		return style.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.Gold).
			BorderForeground(theme.Gold).
			Render("▸ " + label)
	}
	return style.
		Foreground(theme.Text).
		BorderForeground(theme.Border).
		Render(label)
}

// ButtonColumn renders m's items as stacked buttons, or as plain lines
// when compact.
func ButtonColumn(m Menu, cw int, compact bool) string {
	lines := make([]string, len(m.Items))
	for i, item := range m.Items {
		selected := i == m.Selected && !item.Disabled
		switch {
		case !compact:
			lines[i] = Button(item.Label, selected)
		case selected:
			lines[i] = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Gold).
				Bold(true).
				Render(" ▸ " + item.Label + " ")
		default:
			lines[i] = theme.Unselected.Render("   " + item.Label)
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// ErrorLine renders err in the error color, or "" for nil.
func ErrorLine(err error, cw int) string {
	if err == nil {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(theme.Error).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + err.Error())
}
