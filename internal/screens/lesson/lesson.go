// Package lesson is the lesson screen: theory, examples, the coding task with
// an editor and run output, external resources and the quiz.
package lesson

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/pymaster/internal/curriculum"
	"github.com/abhisek/pymaster/internal/quiz"
	"github.com/abhisek/pymaster/internal/router"
	"github.com/abhisek/pymaster/internal/runner"
	"github.com/abhisek/pymaster/internal/screen"
	"github.com/abhisek/pymaster/internal/tutor"
	"github.com/abhisek/pymaster/internal/ui/components"
	"github.com/abhisek/pymaster/internal/ui/layout"
	"github.com/abhisek/pymaster/internal/workspace"
)

// LessonScreen shows one lesson.
type LessonScreen struct {
	deps   screen.Deps
	lesson curriculum.Lesson

	ws     workspace.Workspace
	editor components.Editor

	quiz quiz.State
	mc   components.MultiChoice

	spinner  spinner.Model
	spinning bool

	// output is the channel of the run in progress.
	output    chan tea.Msg
	cancelRun context.CancelFunc

	review    *tutor.Review
	reviewing bool

	theory renderedTheory

	scroll int
	status string
	failed bool
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)
var _ screen.InputCapturer = (*LessonScreen)(nil)

// New opens lesson on the easy difficulty, seeded from the code cache.
func New(deps screen.Deps, lesson curriculum.Lesson) *LessonScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	cache := deps.Session.Progress().Snapshot().CodeCache
	ws := workspace.Open(lesson, curriculum.Easy, cache)
	s := &LessonScreen{
		deps:    deps,
		lesson:  lesson,
		ws:      ws,
		editor:  components.NewEditor(ws.Code),
		quiz:    quiz.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	s.resetQuizView()
	return s
}

func (s *LessonScreen) Init() tea.Cmd {
	if s.runner().Ready() {
		return nil
	}
	return s.spin()
}

// spin starts the spinner unless it is already ticking.
func (s *LessonScreen) spin() tea.Cmd {
	if s.spinning {
		return nil
	}
	s.spinning = true
	return s.spinner.Tick
}

func (s *LessonScreen) Title() string {
	return fmt.Sprintf("Lesson %d · %s", s.lesson.ID, s.lesson.Title)
}

// CapturingInput reports whether esc belongs to the screen: it leaves the
// editor, or stops a running program.
func (s *LessonScreen) CapturingInput() bool {
	return s.editor.Focused() || s.ws.Running
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	if s.ws.Running && !s.editor.Focused() {
		return []layout.KeyHint{{Key: "Esc", Description: "Stop program"}}
	}
	if s.editor.Focused() {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Stop editing"},
			{Key: "Ctrl+R", Description: "Run"},
		}
	}
	switch s.ws.Tab {
	case workspace.TabQuiz:
		if s.quiz.Finished {
			return []layout.KeyHint{
				{Key: "r", Description: "Retake"},
				{Key: "Tab", Description: "Section"},
				{Key: "Esc", Description: "Back"},
			}
		}
		return []layout.KeyHint{
			{Key: "↑↓/1-4", Description: "Choose"},
			{Key: "Enter", Description: "Submit/Next"},
			{Key: "Tab", Description: "Section"},
			{Key: "Esc", Description: "Back"},
		}
	case workspace.TabResources:
		return []layout.KeyHint{
			{Key: "1/2/3", Description: "Difficulty"},
			{Key: "Tab", Description: "Section"},
			{Key: "Esc", Description: "Back"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "i", Description: "Edit"},
		{Key: "r", Description: "Run"},
		{Key: "h", Description: "Hint"},
		{Key: "x", Description: "Reset"},
		{Key: "e", Description: "$EDITOR"},
	}
	if s.deps.Tutor != nil {
		hints = append(hints, layout.KeyHint{Key: "t", Description: "Tutor"})
	}
	return append(hints,
		layout.KeyHint{Key: "1/2/3", Description: "Difficulty"},
		layout.KeyHint{Key: "Tab", Description: "Section"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

func (s *LessonScreen) runner() *runner.Adapter {
	return s.deps.Session.Runner()
}

// Workspace returns the current lesson state.
func (s *LessonScreen) Workspace() workspace.Workspace {
	s.syncCode()
	return s.ws
}

// syncCode copies the editor buffer into the workspace.
func (s *LessonScreen) syncCode() {
	s.ws = s.ws.Edit(s.editor.Value())
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if s.runner().Ready() && !s.reviewing {
			s.spinning = false
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case outputChunkMsg:
		s.ws = s.ws.AppendOutput(msg.Chunk)
		return s, s.listen()

	case runDoneMsg:
		return s.handleRunDone(msg)

	case reviewDoneMsg:
		s.reviewing = false
		if msg.Err != nil {
			s.setError(fmt.Sprintf("Tutor unavailable: %v", msg.Err))
			return s, nil
		}
		s.review = msg.Review
		return s, nil

	case editorClosedMsg:
		return s.handleEditorClosed(msg)

	case quizSavedMsg:
		if msg.Err != nil {
			s.setError(fmt.Sprintf("Could not save quiz: %v", msg.Err))
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.editor.Focused() {
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *LessonScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+r" {
		return s, s.startRun()
	}

	if s.editor.Focused() {
		if key == "esc" {
			s.editor.Blur()
			s.syncCode()
			return s, nil
		}
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		return s, cmd
	}

	if s.ws.Running && key == "esc" {
		if s.cancelRun != nil {
			s.cancelRun()
		}
		return s, nil
	}

	switch key {
	case "esc", "q":
		if s.ws.Running {
			return s, nil
		}
		return s, router.Pop()
	case "tab":
		s.setTab((s.ws.Tab + 1) % workspace.Tab(len(workspace.Tabs())))
		return s, nil
	case "shift+tab":
		n := workspace.Tab(len(workspace.Tabs()))
		s.setTab((s.ws.Tab + n - 1) % n)
		return s, nil
	}

	if s.ws.Tab == workspace.TabQuiz {
		return s.handleQuizKey(msg)
	}

	switch key {
	case "1", "2", "3":
		s.switchDifficulty(curriculum.Difficulties()[key[0]-'1'])
		return s, nil
	case "up", "k":
		s.scroll = max(s.scroll-1, 0)
		return s, nil
	case "down", "j":
		s.scroll++
		return s, nil
	case "pgup":
		s.scroll = max(s.scroll-10, 0)
		return s, nil
	case "pgdown":
		s.scroll += 10
		return s, nil
	}

	if s.ws.Tab != workspace.TabLearn {
		return s, nil
	}

	switch key {
	case "i", "enter":
		return s, s.editor.Focus()
	case "r":
		return s, s.startRun()
	case "h":
		s.ws = s.ws.ToggleHint()
		return s, nil
	case "x":
		if s.ws.Running {
			return s, nil
		}
		s.ws = s.ws.Reset(s.lesson)
		s.editor.SetValue(s.ws.Code)
		s.review = nil
		s.setStatus("Code reset to the starter.")
		return s, nil
	case "e":
		return s, s.openExternalEditor()
	case "t":
		return s, s.askTutor()
	}
	return s, nil
}

func (s *LessonScreen) setTab(t workspace.Tab) {
	s.syncCode()
	s.editor.Blur()
	s.ws = s.ws.SetTab(t)
	s.scroll = 0
}

func (s *LessonScreen) switchDifficulty(d curriculum.Difficulty) {
	if s.ws.Running || d == s.ws.Difficulty {
		return
	}
	cache := s.deps.Session.Progress().Snapshot().CodeCache
	s.ws = s.ws.SwitchDifficulty(s.lesson, d, cache)
	s.editor.SetValue(s.ws.Code)
	s.review = nil
	s.scroll = 0
	s.status = ""
}

func (s *LessonScreen) setStatus(msg string) {
	s.status, s.failed = msg, false
}

func (s *LessonScreen) setError(msg string) {
	s.status, s.failed = msg, true
}
