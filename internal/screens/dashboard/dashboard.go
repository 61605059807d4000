// Package dashboard is the course overview: progress figures, a continue
// shortcut and the curriculum list with lock state.
package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pymaster/internal/progress"
	"github.com/abhisek/pymaster/internal/router"
	"github.com/abhisek/pymaster/internal/screen"
	"github.com/abhisek/pymaster/internal/screens/history"
	"github.com/abhisek/pymaster/internal/screens/lesson"
	"github.com/abhisek/pymaster/internal/ui/components"
	"github.com/abhisek/pymaster/internal/ui/layout"
	"github.com/abhisek/pymaster/internal/ui/theme"
)

// Markers drawn before lesson titles.
const (
	markerDone     = "✔"
	markerOpen     = "○"
	markerLocked   = "🔒"
	markerQuizDone = "quiz ✔"
)

// DashboardScreen is the root screen of the app.
type DashboardScreen struct {
	deps screen.Deps
	menu components.Menu

	// lessonRows maps a menu row to a lesson ID; zero for other rows.
	lessonRows []int

	jumping bool
	jump    components.NumberInput
	notice  string
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.InputCapturer = (*DashboardScreen)(nil)

// New creates the dashboard.
func New(deps screen.Deps) *DashboardScreen {
	d := &DashboardScreen{deps: deps}
	d.refresh()
	return d
}

func (d *DashboardScreen) Init() tea.Cmd {
	d.refresh()
	return nil
}

func (d *DashboardScreen) Title() string {
	return "Dashboard"
}

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	if d.jumping {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Open lesson"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "c", Description: "Continue"},
		{Key: "g", Description: "Go to lesson"},
		{Key: "h", Description: "History"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// CapturingInput reports whether the go-to prompt is open.
func (d *DashboardScreen) CapturingInput() bool {
	return d.jumping
}

func (d *DashboardScreen) snapshot() progress.Snapshot {
	return d.deps.Session.Progress().Snapshot()
}

// refresh rebuilds the menu from the current snapshot, keeping the cursor.
func (d *DashboardScreen) refresh() {
	snap := d.snapshot()
	lessons := d.deps.Catalog.All()

	items := make([]components.MenuItem, 0, len(lessons)+2)
	rows := make([]int, 0, len(lessons)+2)

	if cont, ok := d.deps.Catalog.ByID(snap.CurrentLessonID); ok {
		id := cont.ID
		items = append(items, components.MenuItem{
			Label:  fmt.Sprintf("Continue: Lesson %d · %s", id, cont.Title),
			Marker: "▶",
			Action: func() tea.Cmd { return d.open(id) },
		})
		rows = append(rows, 0)
	}

	for _, l := range lessons {
		id := l.ID
		item := components.MenuItem{
			Label:  fmt.Sprintf("%2d. %s", l.ID, l.Title),
			Action: func() tea.Cmd { return d.open(id) },
		}
		switch {
		case snap.IsCompleted(l.ID):
			item.Marker = markerDone
		case snap.IsUnlocked(l.ID):
			item.Marker = markerOpen
		default:
			item.Marker = markerLocked
			item.Disabled = true
		}
		if snap.IsQuizCompleted(l.ID) {
			item.Detail = markerQuizDone
		}
		items = append(items, item)
		rows = append(rows, l.ID)
	}

	items = append(items, components.MenuItem{
		Label:  "History",
		Marker: "≡",
		Action: func() tea.Cmd { return router.Push(history.New(d.deps.Session.Events())) },
	})
	rows = append(rows, 0)

	selected := d.menu.Selected
	d.menu = components.NewMenu(items)
	d.lessonRows = rows
	if selected > 0 {
		d.menu = d.menu.Select(selected)
	}
}

// open pushes the lesson screen for id if it is unlocked.
func (d *DashboardScreen) open(id int) tea.Cmd {
	l, ok := d.deps.Catalog.ByID(id)
	if !ok {
		d.notice = fmt.Sprintf("There is no lesson %d.", id)
		return nil
	}
	if !d.snapshot().IsUnlocked(id) {
		d.notice = fmt.Sprintf("Lesson %d is locked. Finish lesson %d first.", id, d.snapshot().CurrentLessonID)
		return nil
	}
	d.notice = ""
	return router.Push(lesson.New(d.deps, l))
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if d.jumping {
			var cmd tea.Cmd
			d.jump, cmd = d.jump.Update(msg)
			return d, cmd
		}
		return d, nil
	}

	// Progress may have changed on a screen that was popped.
	d.refresh()

	if d.jumping {
		switch kmsg.String() {
		case "esc":
			d.jumping = false
			return d, nil
		case "enter":
			d.jumping = false
			n, err := strconv.Atoi(d.jump.Value())
			if err != nil {
				d.notice = "Enter a lesson number."
				return d, nil
			}
			return d, d.open(n)
		}
		var cmd tea.Cmd
		d.jump, cmd = d.jump.Update(msg)
		return d, cmd
	}

	switch kmsg.String() {
	case "c":
		return d, d.open(d.snapshot().CurrentLessonID)
	case "g":
		d.jumping = true
		d.notice = ""
		d.jump = components.NewNumberInput("lesson number", 999)
		return d, d.jump.Init()
	case "h":
		return d, router.Push(history.New(d.deps.Session.Events()))
	}

	var cmd tea.Cmd
	d.menu, cmd = d.menu.Update(msg)
	return d, cmd
}

func (d *DashboardScreen) View(width, height int) string {
	snap := d.snapshot()
	sum := progress.Summarize(snap, d.deps.Catalog.Count())
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(components.Center(renderBanner(width, height), width))
	b.WriteString("\n")
	b.WriteString(components.Center(theme.Subtitle.Render("Learn Python one lesson at a time"), width))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("%s  %s  %s",
		lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("%d/%d lessons", sum.Completed, sum.Total)),
		lipgloss.NewStyle().Foreground(theme.Primary).Render(fmt.Sprintf("%d quizzes", sum.QuizzesCompleted)),
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(fmt.Sprintf("%d XP", sum.XP)),
	)
	bar := components.NewProgressBar("Progress", sum.Percent, cw-4)
	b.WriteString(components.Center(components.Panel("", stats+"\n"+bar.View(), cw), width))
	b.WriteString("\n")

	if d.jumping {
		b.WriteString(components.Center("Go to lesson: "+d.jump.View(), width))
		b.WriteString("\n")
	}
	if d.notice != "" {
		b.WriteString(components.Center(lipgloss.NewStyle().Foreground(theme.Accent).Render(d.notice), width))
		b.WriteString("\n")
	}

	used := lipgloss.Height(b.String())
	rows := max(height-used-3, 3)
	list := components.Panel("Curriculum", d.menu.ViewWindow(rows), cw)
	b.WriteString(components.Center(list, width))

	return b.String()
}

// SelectedLesson returns the lesson ID under the cursor, or zero.
func (d *DashboardScreen) SelectedLesson() int {
	if d.menu.Selected < 0 || d.menu.Selected >= len(d.lessonRows) {
		return 0
	}
	return d.lessonRows[d.menu.Selected]
}
