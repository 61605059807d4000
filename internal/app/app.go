package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/pymaster/internal/curriculum"
	"github.com/abhisek/pymaster/internal/progress"
	"github.com/abhisek/pymaster/internal/router"
	"github.com/abhisek/pymaster/internal/screen"
	"github.com/abhisek/pymaster/internal/session"
	"github.com/abhisek/pymaster/internal/tutor"
	"github.com/abhisek/pymaster/internal/ui/layout"
)

// Options are the dependencies of the TUI.
type Options struct {
	Catalog *curriculum.Catalog
	Session *session.Service

	// Tutor is nil when no model provider is configured.
	Tutor *tutor.Service

	Logger *zap.Logger

	// Route is the initial path, "/" when empty.
	Route string
}

func (o Options) deps() screen.Deps {
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return screen.Deps{
		Catalog: o.Catalog,
		Session: o.Session,
		Tutor:   o.Tutor,
		Logger:  logger,
	}
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	init    tea.Cmd
	session *session.Service
	total   int
	width   int
	height  int
}

// newAppModel builds the screen stack for opts.Route.
func newAppModel(opts Options) AppModel {
	route := opts.Route
	if route == "" {
		route = RouteDashboard
	}
	stack := Resolve(route, opts.deps())

	r := router.New(stack[0])
	cmds := []tea.Cmd{stack[0].Init()}
	for _, s := range stack[1:] {
		cmds = append(cmds, r.Push(s))
	}
	return AppModel{
		router:  r,
		init:    tea.Batch(cmds...),
		session: opts.Session,
		total:   opts.Catalog.Count(),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.init
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.InputCapturer); ok && c.CapturingInput() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// stats returns the header figures.
func (m AppModel) stats() layout.Stats {
	sum := progress.Summarize(m.session.Progress().Snapshot(), m.total)
	return layout.Stats{Completed: sum.Completed, Total: sum.Total, XP: sum.XP}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.stats(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)
	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the interpreter in the background and runs the TUI until the
// user quits.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	opts.Session.Runner().Start(ctx)

	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
