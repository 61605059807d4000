package lesson

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pymaster/internal/curriculum"
	"github.com/abhisek/pymaster/internal/llm"
	"github.com/abhisek/pymaster/internal/router"
	"github.com/abhisek/pymaster/internal/runner"
	"github.com/abhisek/pymaster/internal/screen"
	"github.com/abhisek/pymaster/internal/screen/screentest"
	"github.com/abhisek/pymaster/internal/store"
	"github.com/abhisek/pymaster/internal/tutor"
	"github.com/abhisek/pymaster/internal/workspace"
)

func lessonByID(t *testing.T, id int) curriculum.Lesson {
	t.Helper()
	l, ok := curriculum.ByID(id)
	require.True(t, ok)
	return l
}

func press(t *testing.T, s screen.Screen, keys ...tea.KeyPressMsg) screen.Screen {
	t.Helper()
	for _, k := range keys {
		var cmd tea.Cmd
		s, cmd = s.Update(k)
		s = screentest.Drive(t, s, cmd, foreign)
	}
	return s
}

// foreign stops the command loop at messages this screen does not produce,
// such as cursor blinks and spinner ticks, which repeat forever.
func foreign(msg tea.Msg) bool {
	switch msg.(type) {
	case outputChunkMsg, runDoneMsg, reviewDoneMsg, quizSavedMsg, editorClosedMsg:
		return false
	}
	return true
}

func typeText(t *testing.T, s screen.Screen, text string) screen.Screen {
	t.Helper()
	for _, r := range text {
		if r == '\n' {
			s, _ = s.Update(screentest.Special(tea.KeyEnter))
			continue
		}
		s, _ = s.Update(screentest.Key(r))
	}
	return s
}

func TestNew_SeedsStarterAndCache(t *testing.T) {
	kv := store.NewMemoryKV()
	deps := screentest.NewDeps(t, screentest.Options{KV: kv})
	require.NoError(t, deps.Session.Progress().SaveCode(context.Background(), "2-easy", "print('cached answer')"))

	s := New(deps, lessonByID(t, 2))
	assert.Equal(t, "print('cached answer')", s.Workspace().Code)
	assert.Equal(t, curriculum.Easy, s.Workspace().Difficulty)
	assert.Contains(t, s.View(120, 40), "LESSON 2 / EASY")
}

func TestRun_StreamsOutputAndCompletes(t *testing.T) {
	deps := screentest.NewDeps(t, screentest.Options{
		Runtime:    &runner.MockRuntime{Stdout: []string{"I am learning Python"}},
		WithEvents: true,
	})
	s := New(deps, lessonByID(t, 1))
	require.Nil(t, s.Init(), "runner is ready, no spinner")

	var sc screen.Screen = s
	sc = press(t, sc, screentest.Key('i'))
	require.True(t, s.CapturingInput())
	s.editor.SetValue("")
	sc = typeText(t, sc, `print("I am learning Python")`)
	sc = press(t, sc, screentest.Special(tea.KeyEscape))
	assert.False(t, s.CapturingInput())

	press(t, sc, screentest.Key('r'))

	ws := s.Workspace()
	assert.False(t, ws.Running)
	assert.Equal(t, "I am learning Python\n", ws.Output)
	assert.Contains(t, s.status, "Lesson 2 is unlocked")

	snap := deps.Session.Progress().Snapshot()
	assert.True(t, snap.IsCompleted(1))
	assert.Equal(t, 2, snap.CurrentLessonID)
	assert.Equal(t, `print("I am learning Python")`, snap.CodeCache["1-easy"])

	runs, err := deps.Session.Events().QueryRunEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRun_CtrlRWhileEditing(t *testing.T) {
	rt := &runner.MockRuntime{Stdout: []string{"ok"}}
	deps := screentest.NewDeps(t, screentest.Options{Runtime: rt})
	s := New(deps, lessonByID(t, 1))

	var sc screen.Screen = s
	sc = press(t, sc, screentest.Key('i'))
	s.editor.SetValue("x = 1")
	press(t, sc, screentest.Ctrl('r'))

	assert.Equal(t, []string{"x = 1"}, rt.Sources())
	assert.Equal(t, "ok\n", s.Workspace().Output)
	assert.False(t, deps.Session.Progress().Snapshot().IsCompleted(1), "short code does not complete")
	assert.Contains(t, s.status, "Write a little more")
}

func TestRun_FailureShowsErrorOutput(t *testing.T) {
	rt := &runner.MockRuntime{Err: &runner.ProgramError{ExitCode: 1, Message: "NameError: name 'x' is not defined"}}
	deps := screentest.NewDeps(t, screentest.Options{Runtime: rt})
	s := New(deps, lessonByID(t, 1))
	s.editor.SetValue("print(x)  # undefined")

	press(t, s, screentest.Key('r'))

	assert.Equal(t, runner.FailurePrefix+"NameError: name 'x' is not defined", s.Workspace().Output)
	assert.True(t, deps.Session.Progress().Snapshot().IsCompleted(1), "failed runs still complete the lesson")
}

func TestRun_NotReadyShowsLoading(t *testing.T) {
	deps := screentest.NewDeps(t, screentest.Options{})
	s := New(deps, lessonByID(t, 1))

	assert.NotNil(t, s.Init(), "spinner ticks while python loads")
	assert.Contains(t, s.View(120, 40), "loading Python")

	s.editor.SetValue("print('hello there')")
	_, cmd := s.Update(screentest.Key('r'))
	assert.Nil(t, cmd)
	assert.False(t, s.Workspace().Running)
	assert.Equal(t, "Python is still loading.", s.status)
}

func TestDifficultySwitch_ReseedsAndKeepsTab(t *testing.T) {
	deps := screentest.NewDeps(t, screentest.Options{})
	l := lessonByID(t, 1)
	s := New(deps, l)

	s.editor.SetValue("unsaved edit")
	press(t, s, screentest.Key('2'))

	ws := s.Workspace()
	assert.Equal(t, curriculum.Medium, ws.Difficulty)
	assert.Equal(t, l.Level(curriculum.Medium).Task.StarterCode, ws.Code)
	assert.Contains(t, s.View(120, 40), "LESSON 1 / MEDIUM")

	press(t, s, screentest.Special(tea.KeyTab))
	assert.Equal(t, workspace.TabResources, s.Workspace().Tab)
	press(t, s, screentest.Key('3'))
	assert.Equal(t, curriculum.Hard, s.Workspace().Difficulty)
	assert.Equal(t, workspace.TabResources, s.Workspace().Tab)
}

func TestHintAndReset(t *testing.T) {
	deps := screentest.NewDeps(t, screentest.Options{})
	l := lessonByID(t, 1)
	s := New(deps, l)

	hint := l.Level(curriculum.Easy).Task.Hint
	require.NotEmpty(t, hint)
	assert.NotContains(t, s.View(120, 60), hint)

	press(t, s, screentest.Key('h'))
	assert.True(t, s.Workspace().HintVisible)

	s.editor.SetValue("something else")
	press(t, s, screentest.Key('x'))
	assert.Equal(t, l.Level(curriculum.Easy).Task.StarterCode, s.Workspace().Code)
}

func TestQuiz_PerfectRunCompletesQuiz(t *testing.T) {
	deps := screentest.NewDeps(t, screentest.Options{WithEvents: true})
	l := lessonByID(t, 1)
	s := New(deps, l)

	press(t, s, screentest.Special(tea.KeyTab), screentest.Special(tea.KeyTab))
	require.Equal(t, workspace.TabQuiz, s.Workspace().Tab)

	enter := screentest.Special(tea.KeyEnter)
	for _, q := range l.Quiz {
		press(t, s, screentest.Key(rune('1'+q.CorrectIndex)), enter)
		assert.True(t, s.quiz.LastCorrect(l.Quiz))
		press(t, s, enter)
	}

	assert.True(t, s.quiz.Finished)
	assert.True(t, s.quizPassed())
	assert.Contains(t, s.View(120, 40), "Perfect score!")
	assert.True(t, deps.Session.Progress().Snapshot().IsQuizCompleted(1))

	quizzes, err := deps.Session.Events().QueryQuizEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, 3, quizzes[0].Score)
	assert.True(t, quizzes[0].Passed)

	press(t, s, enter)
	assert.True(t, s.quiz.Finished, "an extra enter keeps the score on screen")
	assert.Contains(t, s.View(120, 40), "Perfect score!")
	assert.Equal(t, "r", s.KeyHints()[0].Key)

	press(t, s, screentest.Key('r'))
	assert.False(t, s.quiz.Finished, "r retakes")
	assert.Equal(t, 0, s.quiz.Score)
}

func TestQuiz_SubmitNeedsSelection(t *testing.T) {
	deps := screentest.NewDeps(t, screentest.Options{})
	s := New(deps, lessonByID(t, 1))
	press(t, s, screentest.Special(tea.KeyTab), screentest.Special(tea.KeyTab))

	press(t, s, screentest.Special(tea.KeyEnter))
	assert.False(t, s.quiz.Submitted)

	press(t, s, screentest.Key('1'), screentest.Key('2'))
	assert.Equal(t, 1, s.quiz.Selected, "choice can change before submit")
	assert.Equal(t, curriculum.Easy, s.Workspace().Difficulty, "digits answer on the quiz tab")
}

func TestQuiz_ArrowThenEnterSubmits(t *testing.T) {
	deps := screentest.NewDeps(t, screentest.Options{})
	l := lessonByID(t, 1)
	s := New(deps, l)
	press(t, s, screentest.Special(tea.KeyTab), screentest.Special(tea.KeyTab))
	require.Equal(t, workspace.TabQuiz, s.Workspace().Tab)

	press(t, s, screentest.Special(tea.KeyDown), screentest.Special(tea.KeyEnter))
	assert.Equal(t, 1, s.quiz.Selected)
	assert.True(t, s.quiz.Submitted)
	assert.Equal(t, l.Quiz[0].CorrectIndex == 1, s.quiz.LastCorrect(l.Quiz))

	press(t, s, screentest.Special(tea.KeyEnter))
	assert.Equal(t, 1, s.quiz.Index, "enter again moves to the next question")

	press(t, s, screentest.Special(tea.KeyDown), screentest.Special(tea.KeyUp), screentest.Special(tea.KeyEnter))
	assert.Equal(t, 0, s.quiz.Selected)
	assert.True(t, s.quiz.Submitted)
}

func TestTutor_OffWithoutProvider(t *testing.T) {
	deps := screentest.NewDeps(t, screentest.Options{})
	s := New(deps, lessonByID(t, 1))

	_, cmd := s.Update(screentest.Key('t'))
	assert.Nil(t, cmd)
	assert.True(t, s.failed)
	assert.Contains(t, s.status, "Tutor is off")
}

func TestTutor_ShowsReview(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Push(llm.MockJSON(map[string]string{
		"verdict":   "partial",
		"feedback":  "Close, check the spelling of the message.",
		"next_step": "Compare your text with the task.",
	}))
	deps := screentest.NewDeps(t, screentest.Options{})
	deps.Tutor = tutor.NewService(mock, tutor.DefaultConfig(), nil)

	s := New(deps, lessonByID(t, 1))
	s.editor.SetValue(`print("I am lerning Python")`)

	_, cmd := s.Update(screentest.Key('t'))
	require.NotNil(t, cmd)
	assert.True(t, s.reviewing)
	screentest.Drive(t, s, cmd, foreign)

	require.NotNil(t, s.review)
	assert.Equal(t, tutor.VerdictPartial, s.review.Verdict)
	assert.Contains(t, s.View(140, 50), "Almost there")
	assert.Equal(t, 1, mock.CallCount())
}

func TestEsc_PopsWhenNotEditing(t *testing.T) {
	deps := screentest.NewDeps(t, screentest.Options{})
	s := New(deps, lessonByID(t, 1))

	_, cmd := s.Update(screentest.Special(tea.KeyEscape))
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}

func TestRenderMarkdown(t *testing.T) {
	out, err := renderMarkdown("### Loops\n\n* **Concept:** repeat work.\n* Usage\n", 60)
	require.NoError(t, err)
	assert.Contains(t, out, "Loops")
	assert.Contains(t, out, "Concept")
	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "###")
}

func TestRenderTheory_Cached(t *testing.T) {
	deps := screentest.NewDeps(t, screentest.Options{})
	l := lessonByID(t, 2)
	s := New(deps, l)
	theory := l.Level(curriculum.Easy).Theory

	first := s.renderTheory(theory, 80)
	assert.Equal(t, "easy/80", s.theory.key)
	assert.Equal(t, first, s.renderTheory(theory, 80))

	s.renderTheory(theory, 100)
	assert.Equal(t, "easy/100", s.theory.key)
}

func TestWindow(t *testing.T) {
	text := "a\nb\nc\nd"
	assert.Equal(t, "a\nb", window(text, 0, 2))
	assert.Equal(t, "c\nd", window(text, 9, 2), "offset clamps to the last page")
	assert.Equal(t, text, window(text, 0, 10))
	assert.Empty(t, window(text, 0, 0))
}

func TestRun_EscStopsRunningProgram(t *testing.T) {
	rt := &runner.MockRuntime{Block: make(chan struct{})}
	deps := screentest.NewDeps(t, screentest.Options{Runtime: rt})
	s := New(deps, lessonByID(t, 1))
	s.editor.SetValue("while True: pass")

	_, listen := s.Update(screentest.Key('r'))
	require.NotNil(t, listen)
	assert.True(t, s.Workspace().Running)
	assert.True(t, s.CapturingInput())
	assert.Equal(t, workspace.RunningPlaceholder, s.Workspace().Output)

	_, cmd := s.Update(screentest.Special(tea.KeyEscape))
	assert.Nil(t, cmd, "esc stops the program instead of leaving")

	screentest.Drive(t, s, listen, foreign)
	assert.False(t, s.Workspace().Running)
	assert.Contains(t, s.Workspace().Output, "context canceled")
	assert.Contains(t, s.status, "Program stopped")
	assert.False(t, deps.Session.Progress().Snapshot().IsCompleted(1), "a stopped run does not complete the lesson")
}
