// Package workspace holds the state of the lesson screen: which difficulty
// is open, the learner's working code, run output and hint visibility.
// Transitions are pure; the screen owns the value and replaces it.
package workspace

import (
	"unicode/utf8"

	"github.com/abhisek/pymaster/internal/curriculum"
	"github.com/abhisek/pymaster/internal/progress"
)

// Tab is a section of the lesson screen.
type Tab int

const (
	TabLearn Tab = iota
	TabResources
	TabQuiz
)

// Tabs returns the tabs in display order.
func Tabs() []Tab {
	return []Tab{TabLearn, TabResources, TabQuiz}
}

func (t Tab) String() string {
	switch t {
	case TabLearn:
		return "Learn"
	case TabResources:
		return "Resources"
	case TabQuiz:
		return "Quiz"
	default:
		return "?"
	}
}

// RunningPlaceholder is shown from the start of a run until the first
// output chunk arrives.
const RunningPlaceholder = "Running...\n"

// MinPersistLength is the code length a run must exceed to be saved and to
// complete the lesson.
const MinPersistLength = 10

// Workspace is the lesson screen state for one lesson.
type Workspace struct {
	LessonID    int
	Difficulty  curriculum.Difficulty
	Code        string
	Output      string
	HintVisible bool
	Running     bool
	Tab         Tab

	awaitingOutput bool
}

// Open starts a workspace on lesson at difficulty d, seeded from the code
// cache when it holds non-empty code for that task, else from the starter.
func Open(lesson curriculum.Lesson, d curriculum.Difficulty, cache map[string]string) Workspace {
	w := Workspace{
		LessonID:   lesson.ID,
		Difficulty: d,
		Tab:        TabLearn,
	}
	return w.seed(lesson, cache)
}

// SwitchDifficulty moves to difficulty d on the same lesson. Unsaved edits
// are discarded; code is re-seeded from cache or starter.
func (w Workspace) SwitchDifficulty(lesson curriculum.Lesson, d curriculum.Difficulty, cache map[string]string) Workspace {
	if w.Running {
		return w
	}
	w.LessonID = lesson.ID
	w.Difficulty = d
	return w.seed(lesson, cache)
}

func (w Workspace) seed(lesson curriculum.Lesson, cache map[string]string) Workspace {
	w.Code = lesson.Level(w.Difficulty).Task.StarterCode
	if cached := cache[progress.CodeKey(lesson.ID, w.Difficulty)]; cached != "" {
		w.Code = cached
	}
	w.Output = ""
	w.HintVisible = false
	w.Running = false
	w.awaitingOutput = false
	return w
}

// CodeKey is the progress cache key of the open task.
func (w Workspace) CodeKey() string {
	return progress.CodeKey(w.LessonID, w.Difficulty)
}

// Edit replaces the working code.
func (w Workspace) Edit(code string) Workspace {
	w.Code = code
	return w
}

// ToggleHint shows or hides the task hint.
func (w Workspace) ToggleHint() Workspace {
	w.HintVisible = !w.HintVisible
	return w
}

// Reset restores the starter code of the open task and clears output,
// ignoring any cached code.
func (w Workspace) Reset(lesson curriculum.Lesson) Workspace {
	if w.Running {
		return w
	}
	w.Code = lesson.Level(w.Difficulty).Task.StarterCode
	w.Output = ""
	return w
}

// SetTab switches the visible section.
func (w Workspace) SetTab(t Tab) Workspace {
	w.Tab = t
	return w
}

// CanRun reports whether a run may start given the interpreter readiness.
func (w Workspace) CanRun(ready bool) bool {
	return ready && !w.Running
}

// BeginRun marks a run in progress and shows the placeholder.
func (w Workspace) BeginRun() Workspace {
	w.Running = true
	w.Output = RunningPlaceholder
	w.awaitingOutput = true
	return w
}

// AppendOutput adds a chunk of program output. The first chunk replaces
// the placeholder.
func (w Workspace) AppendOutput(chunk string) Workspace {
	if w.awaitingOutput {
		w.Output = ""
		w.awaitingOutput = false
	}
	w.Output += chunk
	return w
}

// FinishRun ends the run. persist reports whether the working code should
// be saved to the cache and the lesson marked complete.
func (w Workspace) FinishRun() (Workspace, bool) {
	w.Running = false
	if w.awaitingOutput {
		w.Output = ""
		w.awaitingOutput = false
	}
	return w, ShouldPersist(w.Code)
}

// ShouldPersist reports whether code is long enough to count as an attempt.
func ShouldPersist(code string) bool {
	return utf8.RuneCountInString(code) > MinPersistLength
}
