// Package session records what happens while a learner works through a
// lesson: task runs, quiz results and progress resets. It is the single
// place where the progress snapshot and the event log are updated together,
// shared by the TUI and the headless CLI.
package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/pymaster/internal/curriculum"
	"github.com/abhisek/pymaster/internal/progress"
	"github.com/abhisek/pymaster/internal/runner"
	"github.com/abhisek/pymaster/internal/store"
	"github.com/abhisek/pymaster/internal/workspace"
)

// Attempt identifies the code being run.
type Attempt struct {
	LessonID   int
	Difficulty curriculum.Difficulty
	TaskID     string
	Code       string
}

// AttemptFor describes the task open in ws.
func AttemptFor(lesson curriculum.Lesson, ws workspace.Workspace) Attempt {
	return Attempt{
		LessonID:   lesson.ID,
		Difficulty: ws.Difficulty,
		TaskID:     lesson.Level(ws.Difficulty).Task.ID,
		Code:       ws.Code,
	}
}

// Outcome reports what a finished run changed.
type Outcome struct {
	Result runner.Result

	// Saved is true when the code was long enough to be cached and to
	// complete the lesson.
	Saved bool

	// Completed is true when this run completed the lesson for the first
	// time.
	Completed bool

	// Unlocked is the watermark after the run.
	Unlocked int
}

// Service ties the interpreter, the progress store and the event log
// together. Events may be nil, which disables history.
type Service struct {
	adapter  *runner.Adapter
	progress *progress.Store
	events   store.EventRepo
	logger   *zap.Logger
}

// New creates a Service.
func New(adapter *runner.Adapter, p *progress.Store, events store.EventRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{adapter: adapter, progress: p, events: events, logger: logger.Named("session")}
}

// Progress returns the progress store.
func (s *Service) Progress() *progress.Store { return s.progress }

// Runner returns the execution adapter.
func (s *Service) Runner() *runner.Adapter { return s.adapter }

// Events returns the event log, or nil when history is disabled.
func (s *Service) Events() store.EventRepo { return s.events }

// Run executes a.Code, streaming output to onOutput, then records the
// result. ErrNotReady and ErrBusy from the adapter are returned as-is and
// record nothing. Cancelling ctx stops the program; the result is still
// recorded.
func (s *Service) Run(ctx context.Context, a Attempt, onOutput func(chunk string)) (Outcome, error) {
	res, err := s.adapter.Run(ctx, a.Code, onOutput)
	if err != nil {
		return Outcome{}, err
	}
	return s.Finish(context.WithoutCancel(ctx), a, res)
}

// Finish applies a finished run: non-trivial code is cached and completes
// the lesson whether or not the program failed, and the run is logged. A
// run stopped by the learner is only logged. Persistence errors are joined
// and returned after every step was tried.
func (s *Service) Finish(ctx context.Context, a Attempt, res runner.Result) (Outcome, error) {
	out := Outcome{Result: res}
	var errs []error

	if !res.Stopped && workspace.ShouldPersist(a.Code) {
		out.Saved = true
		if err := s.progress.SaveCode(ctx, progress.CodeKey(a.LessonID, a.Difficulty), a.Code); err != nil {
			errs = append(errs, err)
		}
		wasDone := s.progress.Snapshot().IsCompleted(a.LessonID)
		if err := s.progress.CompleteLesson(ctx, a.LessonID); err != nil {
			errs = append(errs, err)
		}
		if !wasDone {
			out.Completed = true
			s.appendLesson(ctx, store.LessonEventData{
				LessonID:   a.LessonID,
				Action:     store.ActionLessonCompleted,
				Difficulty: string(a.Difficulty),
			})
		}
	}
	out.Unlocked = s.progress.Snapshot().CurrentLessonID

	if s.events != nil {
		err := s.events.AppendRun(ctx, store.RunEventData{
			RunID:        res.RunID,
			LessonID:     a.LessonID,
			Difficulty:   string(a.Difficulty),
			TaskID:       a.TaskID,
			CodeBytes:    len(a.Code),
			OutputBytes:  res.OutputBytes,
			DurationMs:   res.Duration.Milliseconds(),
			Failed:       res.Failed,
			ErrorMessage: res.ErrorMessage,
		})
		if err != nil {
			s.logger.Warn("record run", zap.Error(err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return out, fmt.Errorf("save run: %w", err)
	}
	return out, nil
}

// FinishQuiz marks the quiz of lessonID completed and logs the score. It is
// called every time a quiz reaches the end; completion is idempotent.
func (s *Service) FinishQuiz(ctx context.Context, lessonID, score, total int) error {
	err := s.progress.CompleteQuiz(ctx, lessonID)
	if s.events != nil {
		if recErr := s.events.AppendQuiz(ctx, store.QuizEventData{
			LessonID: lessonID,
			Score:    score,
			Total:    total,
			Passed:   total > 0 && score == total,
		}); recErr != nil {
			s.logger.Warn("record quiz", zap.Error(recErr))
		}
	}
	return err
}

// Reset wipes learner progress. The event log is kept and the reset itself
// is logged.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.progress.Reset(ctx); err != nil {
		return err
	}
	s.appendLesson(ctx, store.LessonEventData{Action: store.ActionProgressReset})
	return nil
}

func (s *Service) appendLesson(ctx context.Context, ev store.LessonEventData) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendLesson(ctx, ev); err != nil {
		s.logger.Warn("record lesson event", zap.String("action", ev.Action), zap.Error(err))
	}
}
