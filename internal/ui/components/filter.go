package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/theme"
)

// Filter is a one-line search box for narrowing a list. It starts blurred
// so list navigation keys are not swallowed; "/" focuses it.
type Filter struct {
	Model textinput.Model
}

// NewFilter creates a blurred filter input.
func NewFilter(placeholder string) Filter {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	ti.CharLimit = 40
	return Filter{Model: ti}
}

// Focused reports whether keystrokes go to the filter.
func (f Filter) Focused() bool {
	return f.Model.Focused()
}

// Focus starts capturing keystrokes.
func (f *Filter) Focus() tea.Cmd {
	return f.Model.Focus()
}

// Blur stops capturing keystrokes and keeps the current query.
func (f *Filter) Blur() {
	f.Model.Blur()
}

// Reset clears the query and blurs.
func (f *Filter) Reset() {
	f.Model.SetValue("")
	f.Model.Blur()
}

// Update forwards msg to the text input.
func (f Filter) Update(msg tea.Msg) (Filter, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// Query returns the trimmed, lower-cased query.
func (f Filter) Query() string {
	return strings.ToLower(strings.TrimSpace(f.Model.Value()))
}

// Match reports whether any field contains the query. An empty query
// matches everything.
func (f Filter) Match(fields ...string) bool {
	q := f.Query()
	if q == "" {
		return true
	}
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// View renders the input, dimmed while blurred.
func (f Filter) View() string {
	if !f.Focused() && f.Model.Value() == "" {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("/ to filter")
	}
	return f.Model.View()
}
