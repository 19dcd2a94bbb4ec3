package home

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/ui/theme"
)

// MascotVariant selects which owl to draw.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // awake, no streak yet
	MascotCelebrating                      // read today
	MascotSleepy                           // streak lapsed
)

const owlIdle = ` ,___,
 (O,O)
 /)_)
  ""`

const owlCelebrating = ` ,___,  *
 (^,^)
 /)_)\
  ""`

const owlSleepy = ` ,___,  z
 (-,-)
 /)_)
  ""`

// RenderMascot returns the owl for the given variant.
func RenderMascot(v MascotVariant) string {
	art, fg := owlIdle, theme.Primary
	switch v {
	case MascotCelebrating:
		art, fg = owlCelebrating, theme.Gold
	case MascotSleepy:
		art, fg = owlSleepy, theme.TextDim
	}
	return lipgloss.NewStyle().Foreground(fg).Render(squareUp(art))
}

// squareUp pads every line to the same width so centering keeps the
// drawing's shape.
func squareUp(art string) string {
	lines := strings.Split(art, "\n")
	w := 0
	for _, l := range lines {
		w = max(w, lipgloss.Width(l))
	}
	for i, l := range lines {
		lines[i] = l + strings.Repeat(" ", w-lipgloss.Width(l))
	}
	return strings.Join(lines, "\n")
}
