package dashboard

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pymaster/internal/router"
	"github.com/abhisek/pymaster/internal/screen"
	"github.com/abhisek/pymaster/internal/screen/screentest"
	"github.com/abhisek/pymaster/internal/screens/history"
	"github.com/abhisek/pymaster/internal/screens/lesson"
	"github.com/abhisek/pymaster/internal/screens/notfound"
)

func pushed(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	_, ok := msg.(router.PushScreenMsg)
	require.True(t, ok, "expected a push, got %T", msg)
	return msg
}

func TestView_FreshProgress(t *testing.T) {
	d := New(screentest.NewDeps(t, screentest.Options{}))
	view := d.View(120, 50)

	assert.Contains(t, view, "0/30 lessons")
	assert.Contains(t, view, "0 XP")
	assert.Contains(t, view, "Continue: Lesson 1")
	assert.Contains(t, view, "0%")
}

func TestMenu_LocksBeyondWatermark(t *testing.T) {
	deps := screentest.NewDeps(t, screentest.Options{})
	ctx := context.Background()
	require.NoError(t, deps.Session.Progress().CompleteLesson(ctx, 1))
	require.NoError(t, deps.Session.Progress().CompleteQuiz(ctx, 1))

	d := New(deps)
	assert.Equal(t, 0, d.SelectedLesson(), "cursor starts on continue")

	for _, it := range d.menu.Items {
		switch it.Label {
		case " 1. " + mustTitle(t, deps, 1):
			assert.Equal(t, markerDone, it.Marker)
			assert.Equal(t, markerQuizDone, it.Detail)
		case " 2. " + mustTitle(t, deps, 2):
			assert.Equal(t, markerOpen, it.Marker)
			assert.False(t, it.Disabled)
		case " 3. " + mustTitle(t, deps, 3):
			assert.Equal(t, markerLocked, it.Marker)
			assert.True(t, it.Disabled)
		}
	}
	assert.Contains(t, d.View(120, 50), "10 XP")
}

func mustTitle(t *testing.T, deps screen.Deps, id int) string {
	t.Helper()
	l, ok := deps.Catalog.ByID(id)
	require.True(t, ok)
	return l.Title
}

func TestContinue_OpensWatermarkLesson(t *testing.T) {
	d := New(screentest.NewDeps(t, screentest.Options{}))

	_, cmd := d.Update(screentest.Key('c'))
	msg := pushed(t, cmd).(router.PushScreenMsg)
	ls, ok := msg.Screen.(*lesson.LessonScreen)
	require.True(t, ok)
	assert.Equal(t, 1, ls.Workspace().LessonID)
}

func TestEnter_OnListOpensLesson(t *testing.T) {
	d := New(screentest.NewDeps(t, screentest.Options{}))

	d.Update(screentest.Key('j'))
	assert.Equal(t, 1, d.SelectedLesson())
	_, cmd := d.Update(screentest.Special(tea.KeyEnter))
	pushed(t, cmd)
}

func TestGoTo_LockedLessonIsRefused(t *testing.T) {
	d := New(screentest.NewDeps(t, screentest.Options{}))

	d.Update(screentest.Key('g'))
	require.True(t, d.CapturingInput())
	d.Update(screentest.Key('5'))
	_, cmd := d.Update(screentest.Special(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.False(t, d.CapturingInput())
	assert.Contains(t, d.notice, "Lesson 5 is locked")
}

func TestGoTo_UnknownLesson(t *testing.T) {
	d := New(screentest.NewDeps(t, screentest.Options{}))

	d.Update(screentest.Key('g'))
	d.Update(screentest.Key('9'))
	d.Update(screentest.Key('9'))
	_, cmd := d.Update(screentest.Special(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Equal(t, "There is no lesson 99.", d.notice)
}

func TestGoTo_EscCancels(t *testing.T) {
	d := New(screentest.NewDeps(t, screentest.Options{}))
	d.Update(screentest.Key('g'))
	d.Update(screentest.Special(tea.KeyEscape))
	assert.False(t, d.CapturingInput())
}

func TestHistoryKey(t *testing.T) {
	d := New(screentest.NewDeps(t, screentest.Options{WithEvents: true}))
	_, cmd := d.Update(screentest.Key('h'))
	msg := pushed(t, cmd).(router.PushScreenMsg)
	_, ok := msg.Screen.(*history.HistoryScreen)
	assert.True(t, ok)
}

func TestRefresh_PicksUpProgressWhenRevealed(t *testing.T) {
	deps := screentest.NewDeps(t, screentest.Options{})
	d := New(deps)
	r := router.New(d)
	r.Push(notfound.New("x"))

	require.NoError(t, deps.Session.Progress().CompleteLesson(context.Background(), 1))
	r.Pop()

	view := d.View(120, 50)
	assert.Contains(t, view, "1/30 lessons")
	assert.Contains(t, view, "Continue: Lesson 2")

	require.Greater(t, len(d.menu.Items), 2)
	assert.Equal(t, markerDone, d.menu.Items[1].Marker)
	assert.Equal(t, markerOpen, d.menu.Items[2].Marker)
	assert.False(t, d.menu.Items[2].Disabled, "lesson 2 is unlocked")
}
