package workspace

import (
	"testing"

	"github.com/abhisek/pymaster/internal/curriculum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lesson(t *testing.T, id int) curriculum.Lesson {
	t.Helper()
	l, ok := curriculum.ByID(id)
	require.True(t, ok)
	return l
}

func TestOpen_SeedsFromStarter(t *testing.T) {
	l := lesson(t, 1)
	w := Open(l, curriculum.Easy, nil)

	assert.Equal(t, 1, w.LessonID)
	assert.Equal(t, curriculum.Easy, w.Difficulty)
	assert.Equal(t, l.Level(curriculum.Easy).Task.StarterCode, w.Code)
	assert.Empty(t, w.Output)
	assert.False(t, w.HintVisible)
	assert.Equal(t, TabLearn, w.Tab)
	assert.Equal(t, "1-easy", w.CodeKey())
}

func TestOpen_SeedsFromCache(t *testing.T) {
	l := lesson(t, 1)
	cache := map[string]string{"1-easy": `print("cached")`}

	w := Open(l, curriculum.Easy, cache)
	assert.Equal(t, `print("cached")`, w.Code)
}

func TestOpen_EmptyCacheEntryUsesStarter(t *testing.T) {
	l := lesson(t, 1)
	w := Open(l, curriculum.Easy, map[string]string{"1-easy": ""})
	assert.Equal(t, l.Level(curriculum.Easy).Task.StarterCode, w.Code)
}

func TestSwitchDifficulty_DiscardsUnsavedEdits(t *testing.T) {
	l := lesson(t, 2)
	cache := map[string]string{"2-medium": "value = '7'\nprint(int(value) * 6)"}

	w := Open(l, curriculum.Easy, cache).
		Edit("city = 'Ankara'  # unsaved").
		ToggleHint().
		SetTab(TabQuiz)
	w = w.BeginRun().AppendOutput("x\n")
	w, _ = w.FinishRun()

	w = w.SwitchDifficulty(l, curriculum.Medium, cache)
	assert.Equal(t, curriculum.Medium, w.Difficulty)
	assert.Equal(t, cache["2-medium"], w.Code, "medium loads its own cached code")
	assert.Empty(t, w.Output)
	assert.False(t, w.HintVisible)
	assert.Equal(t, TabQuiz, w.Tab, "section tab is kept")

	w = w.SwitchDifficulty(l, curriculum.Easy, cache)
	assert.Equal(t, l.Level(curriculum.Easy).Task.StarterCode, w.Code, "easy edits were not saved")
}

func TestReset_IgnoresCache(t *testing.T) {
	l := lesson(t, 1)
	cache := map[string]string{"1-hard": "print(25 * 4)\nprint(100 - 45)"}

	w := Open(l, curriculum.Hard, cache).BeginRun().AppendOutput("100\n")
	w, _ = w.FinishRun()
	w = w.Reset(l)

	assert.Equal(t, l.Level(curriculum.Hard).Task.StarterCode, w.Code)
	assert.Empty(t, w.Output)
}

func TestRunLifecycle(t *testing.T) {
	l := lesson(t, 1)
	w := Open(l, curriculum.Easy, nil).Edit(`print("I am learning Python")`)

	assert.False(t, w.CanRun(false), "not while the interpreter loads")
	require.True(t, w.CanRun(true))

	w = w.BeginRun()
	assert.True(t, w.Running)
	assert.Equal(t, RunningPlaceholder, w.Output)
	assert.False(t, w.CanRun(true), "not while running")

	w = w.AppendOutput("I am learning Python\n")
	assert.Equal(t, "I am learning Python\n", w.Output, "first chunk replaces placeholder")

	w = w.AppendOutput("more\n")
	assert.Equal(t, "I am learning Python\nmore\n", w.Output)

	w, persist := w.FinishRun()
	assert.False(t, w.Running)
	assert.True(t, persist)
}

func TestFinishRun_NoOutputClearsPlaceholder(t *testing.T) {
	l := lesson(t, 1)
	w, persist := Open(l, curriculum.Easy, nil).Edit("x = 1").BeginRun().FinishRun()
	assert.Empty(t, w.Output)
	assert.False(t, persist, "short code is not persisted")
}

func TestRunningBlocksSwitchAndReset(t *testing.T) {
	l := lesson(t, 1)
	w := Open(l, curriculum.Easy, nil).Edit("print('long enough')").BeginRun()

	assert.Equal(t, w, w.SwitchDifficulty(l, curriculum.Hard, nil))
	assert.Equal(t, w, w.Reset(l))
}

func TestShouldPersist(t *testing.T) {
	assert.False(t, ShouldPersist(""))
	assert.False(t, ShouldPersist("0123456789"))
	assert.True(t, ShouldPersist("0123456789a"))
	assert.False(t, ShouldPersist("ğğğğğğğğğğ"), "counts characters, not bytes")
}

func TestTabString(t *testing.T) {
	var names []string
	for _, tab := range Tabs() {
		names = append(names, tab.String())
	}
	assert.Equal(t, []string{"Learn", "Resources", "Quiz"}, names)
}
