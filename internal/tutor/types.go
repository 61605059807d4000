package tutor

import (
	"github.com/abhisek/pymaster/internal/curriculum"
	"github.com/abhisek/pymaster/internal/workspace"
)

// Verdict is the reviewer's judgement of an attempt.
type Verdict string

const (
	VerdictSolved  Verdict = "solved"
	VerdictPartial Verdict = "partial"
	VerdictNotYet  Verdict = "not_yet"
)

// Label returns a short display label.
func (v Verdict) Label() string {
	switch v {
	case VerdictSolved:
		return "Looks solved"
	case VerdictPartial:
		return "Almost there"
	default:
		return "Not yet"
	}
}

// Input is everything the reviewer sees about one attempt.
type Input struct {
	LessonTitle string
	Difficulty  curriculum.Difficulty
	Task        curriculum.Task
	Code        string
	Output      string
}

// InputFor builds a review input from the open workspace.
func InputFor(lesson curriculum.Lesson, ws workspace.Workspace) Input {
	return Input{
		LessonTitle: lesson.Title,
		Difficulty:  ws.Difficulty,
		Task:        lesson.Level(ws.Difficulty).Task,
		Code:        ws.Code,
		Output:      ws.Output,
	}
}

// Review is the reviewer's answer.
type Review struct {
	Verdict  Verdict
	Feedback string
	NextStep string
}
