package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pymaster/internal/router"
	"github.com/abhisek/pymaster/internal/screen"
	"github.com/abhisek/pymaster/internal/store"
	"github.com/abhisek/pymaster/internal/ui/layout"
	"github.com/abhisek/pymaster/internal/ui/theme"
)

// Limit is the number of timeline entries loaded.
const Limit = 100

type historyLoadedMsg struct {
	Items []store.Activity
	Err   error
}

// HistoryScreen lists recent runs, quiz results and lesson completions.
type HistoryScreen struct {
	eventRepo store.EventRepo
	items     []store.Activity
	selected  int
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. A nil repo shows that history is off.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{eventRepo: eventRepo}
}

func (s *HistoryScreen) Init() tea.Cmd {
	if s.eventRepo == nil {
		return nil
	}
	repo := s.eventRepo
	return func() tea.Msg {
		items, err := repo.RecentActivity(context.Background(), Limit)
		return historyLoadedMsg{Items: items, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.items = msg.Items
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return s, router.Pop()
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.items)-1 {
				s.selected++
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	dim := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim)
	switch {
	case s.eventRepo == nil:
		return dim.Italic(true).Render("\n\n  History is unavailable without a database.")
	case s.errMsg != "":
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	case !s.loaded:
		return dim.Render("\n\n  Loading history...")
	case len(s.items) == 0:
		return dim.Italic(true).Render("\n\n  Nothing here yet. Run some code!")
	}

	rows := max(height-2, 1)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(s.items))

	var b strings.Builder
	b.WriteString("\n")
	for i := start; i < end; i++ {
		a := s.items[i]
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		lesson := "         "
		if a.LessonID > 0 {
			lesson = fmt.Sprintf("Lesson %2d", a.LessonID)
		}
		line := fmt.Sprintf("%s%s  %-6s  %s  %s",
			prefix, a.Timestamp.Local().Format("Jan 02 15:04"), a.Kind, lesson, a.Summary)

		style := lipgloss.NewStyle().Foreground(kindColor(a.Kind))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func kindColor(k store.ActivityKind) color.Color {
	switch k {
	case store.ActivityRun:
		return theme.Text
	case store.ActivityQuiz:
		return theme.Secondary
	case store.ActivityLesson:
		return theme.Success
	default:
		return theme.Text
	}
}
