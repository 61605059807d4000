package lesson

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/abhisek/pymaster/internal/ui/theme"
)

// renderedTheory is the last theory rendering, keyed by difficulty and width.
type renderedTheory struct {
	key string
	out string
}

// renderTheory renders lesson theory markdown. Rendering is redone only
// when the difficulty or the width changes.
func (s *LessonScreen) renderTheory(text string, width int) string {
	key := fmt.Sprintf("%s/%d", s.ws.Difficulty, width)
	if s.theory.key == key {
		return s.theory.out
	}

	out, err := renderMarkdown(text, width)
	if err != nil {
		s.deps.Logger.Warn("render theory", zap.Int("lesson_id", s.lesson.ID), zap.Error(err))
		out = theme.Body.Width(width).Render(text) + "\n"
	}
	s.theory = renderedTheory{key: key, out: out}
	return out
}

// renderMarkdown renders text with the dark glamour style wrapped to width.
// The style is fixed so rendering never queries the terminal.
func renderMarkdown(text string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.Trim(out, "\n") + "\n", nil
}
