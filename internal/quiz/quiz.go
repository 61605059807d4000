// Package quiz implements the multiple-choice quiz flow as pure state
// transitions. Every method returns a new State; invalid transitions return
// the receiver unchanged.
package quiz

import "github.com/abhisek/pymaster/internal/curriculum"

// NoSelection marks that no option has been chosen for the current question.
const NoSelection = -1

// State is the position of a learner in one quiz.
type State struct {
	Index     int
	Selected  int
	Submitted bool
	Score     int
	Finished  bool
}

// New returns the initial state: first question, nothing selected.
func New() State {
	return State{Selected: NoSelection}
}

// Answering reports whether the current question still accepts a choice.
func (s State) Answering() bool {
	return !s.Finished && !s.Submitted
}

// Current returns the question being shown, or false when finished or the
// quiz is empty.
func (s State) Current(questions []curriculum.QuizQuestion) (curriculum.QuizQuestion, bool) {
	if s.Finished || s.Index < 0 || s.Index >= len(questions) {
		return curriculum.QuizQuestion{}, false
	}
	return questions[s.Index], true
}

// Select records a tentative choice. It may be changed freely until the
// answer is submitted.
func (s State) Select(option int, questions []curriculum.QuizQuestion) State {
	q, ok := s.Current(questions)
	if !ok || !s.Answering() || option < 0 || option >= len(q.Options) {
		return s
	}
	s.Selected = option
	return s
}

// Submit locks in the selected option and scores it. It is ignored without
// a selection or if the question was already submitted.
func (s State) Submit(questions []curriculum.QuizQuestion) State {
	q, ok := s.Current(questions)
	if !ok || !s.Answering() || s.Selected == NoSelection {
		return s
	}
	s.Submitted = true
	if s.Selected == q.CorrectIndex {
		s.Score++
	}
	return s
}

// LastCorrect reports whether the submitted answer to the current question
// was right.
func (s State) LastCorrect(questions []curriculum.QuizQuestion) bool {
	q, ok := s.Current(questions)
	return ok && s.Submitted && s.Selected == q.CorrectIndex
}

// Next advances past a submitted question. Advancing from the last question
// finishes the quiz and reports completed=true; the caller records the
// completion exactly once per finish.
func (s State) Next(questions []curriculum.QuizQuestion) (State, bool) {
	if s.Finished || !s.Submitted {
		return s, false
	}
	if s.Index+1 >= len(questions) {
		s.Finished = true
		s.Submitted = false
		s.Selected = NoSelection
		return s, true
	}
	s.Index++
	s.Selected = NoSelection
	s.Submitted = false
	return s, false
}

// Restart returns to the first question with a zero score. Completion that
// was already reported is not undone.
func (State) Restart() State {
	return New()
}

// Passed reports whether every question was answered correctly.
func (s State) Passed(questions []curriculum.QuizQuestion) bool {
	return s.Finished && s.Score == len(questions)
}
