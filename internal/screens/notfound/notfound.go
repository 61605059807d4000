package notfound

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pymaster/internal/router"
	"github.com/abhisek/pymaster/internal/screen"
	"github.com/abhisek/pymaster/internal/ui/layout"
	"github.com/abhisek/pymaster/internal/ui/theme"
)

// NotFoundScreen is shown for a lesson ID that is not in the curriculum.
type NotFoundScreen struct {
	lessonID string
}

var _ screen.Screen = (*NotFoundScreen)(nil)
var _ screen.KeyHintProvider = (*NotFoundScreen)(nil)

// New creates a NotFoundScreen for the requested lesson ID.
func New(lessonID string) *NotFoundScreen {
	return &NotFoundScreen{lessonID: lessonID}
}

func (p *NotFoundScreen) Init() tea.Cmd {
	return nil
}

func (p *NotFoundScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter", "q":
			return p, router.Pop()
		}
	}
	return p, nil
}

func (p *NotFoundScreen) View(width, height int) string {
	detail := "The lesson you asked for does not exist."
	if p.lessonID != "" {
		detail = fmt.Sprintf("There is no lesson %q in this course.", p.lessonID)
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(theme.Title.Render("Lesson not found") + "\n\n" + detail)
}

func (p *NotFoundScreen) Title() string {
	return "Not Found"
}

func (p *NotFoundScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Dashboard"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
