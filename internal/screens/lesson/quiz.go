package lesson

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pymaster/internal/screen"
	"github.com/abhisek/pymaster/internal/ui/components"
)

// resetQuizView rebuilds the choice widget for the current question.
func (s *LessonScreen) resetQuizView() {
	q, ok := s.quiz.Current(s.lesson.Quiz)
	if !ok {
		s.mc = components.MultiChoice{}
		return
	}
	s.mc = components.NewMultiChoice(q.Question, q.Options, q.CorrectIndex)
}

func (s *LessonScreen) handleQuizKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	questions := s.lesson.Quiz
	if len(questions) == 0 {
		return s, nil
	}

	if s.quiz.Finished {
		if msg.String() == "r" {
			s.quiz = s.quiz.Restart()
			s.resetQuizView()
		}
		return s, nil
	}

	if msg.String() != "enter" {
		var cmd tea.Cmd
		s.mc, cmd = s.mc.Update(msg)
		if s.mc.Chosen != components.NoChoice {
			s.quiz = s.quiz.Select(s.mc.Chosen, questions)
		}
		return s, cmd
	}

	if s.quiz.Answering() {
		s.quiz = s.quiz.Submit(questions)
		s.mc.Submitted = s.quiz.Submitted
		return s, nil
	}

	var completed bool
	s.quiz, completed = s.quiz.Next(questions)
	s.resetQuizView()
	if !completed {
		return s, nil
	}

	svc := s.deps.Session
	lessonID, score, total := s.lesson.ID, s.quiz.Score, len(questions)
	return s, func() tea.Msg {
		return quizSavedMsg{Err: svc.FinishQuiz(context.Background(), lessonID, score, total)}
	}
}

// quizPassed reports whether the finished quiz had every answer right.
func (s *LessonScreen) quizPassed() bool {
	return s.quiz.Passed(s.lesson.Quiz)
}
