package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pymaster/internal/ui/theme"
)

// ContentWidth returns the width used for stacked dashboard sections so
// that they line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 90)
}

// Panel renders body in a rounded box with an optional heading line.
func Panel(heading, body string, width int) string {
	content := body
	if heading != "" {
		content = theme.Heading.Render(heading) + "\n" + body
	}
	return theme.Card.
		Width(width).
		Render(content)
}

// Center places s horizontally in width.
func Center(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
