package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/theme"
)

// MultiChoice is a single quiz question. The reader may change their
// choice until the whole quiz is submitted; the answer key never reaches
// this component.
type MultiChoice struct {
	Question string
	Options  []string
	Cursor   int

	// Chosen is -1 until an option is picked.
	Chosen int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
		Chosen:   -1,
	}
}

// Answered reports whether an option has been picked.
func (m MultiChoice) Answered() bool {
	return m.Chosen >= 0
}

// Update handles cursor movement and picking. Enter or a digit picks an
// option; picked reports whether this message made a choice.
func (m MultiChoice) Update(msg tea.Msg) (mc MultiChoice, picked bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter", "space":
		m.Chosen = m.Cursor
		return m, true
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Cursor = i
				m.Chosen = i
				return m, true
			}
		}
	}
	return m, false
}

// optionLabel returns A, B, C... for index i.
func optionLabel(i int) string {
	return string(rune('A' + i))
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor {
			prefix = "▸ "
		}
		mark := "○"
		if i == m.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, optionLabel(i), opt)

		switch {
		case i == m.Chosen:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(line))
		case i == m.Cursor:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
