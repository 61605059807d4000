package lesson

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/pymaster/internal/runner"
	"github.com/abhisek/pymaster/internal/screen"
	"github.com/abhisek/pymaster/internal/session"
	"github.com/abhisek/pymaster/internal/tutor"
)

// startRun begins executing the editor contents. Output chunks and the
// final result arrive as messages through s.output.
func (s *LessonScreen) startRun() tea.Cmd {
	s.syncCode()
	if !s.ws.CanRun(s.runner().Ready()) {
		if !s.ws.Running {
			s.setError("Python is still loading.")
		}
		return nil
	}

	s.ws = s.ws.BeginRun()
	s.review = nil
	s.status = ""

	attempt := session.AttemptFor(s.lesson, s.ws)
	svc := s.deps.Session
	ch := make(chan tea.Msg, 64)
	ctx, cancel := context.WithCancel(context.Background())
	s.output, s.cancelRun = ch, cancel

	go func() {
		defer close(ch)
		defer cancel()
		out, err := svc.Run(ctx, attempt, func(chunk string) {
			ch <- outputChunkMsg{Chunk: chunk}
		})
		ch <- runDoneMsg{Outcome: out, Err: err}
	}()

	return s.listen()
}

// listen waits for the next message of the run in progress.
func (s *LessonScreen) listen() tea.Cmd {
	ch := s.output
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (s *LessonScreen) handleRunDone(msg runDoneMsg) (screen.Screen, tea.Cmd) {
	s.ws, _ = s.ws.FinishRun()
	s.output, s.cancelRun = nil, nil

	switch {
	case errors.Is(msg.Err, runner.ErrNotReady):
		s.setError("Python is still loading.")
		return s, nil
	case errors.Is(msg.Err, runner.ErrBusy):
		s.setError("Another program is still running.")
		return s, nil
	case msg.Err != nil:
		s.deps.Logger.Warn("run not saved", zap.Int("lesson", s.lesson.ID), zap.Error(msg.Err))
		s.setError(fmt.Sprintf("Progress not saved: %v", msg.Err))
		return s, nil
	}

	out := msg.Outcome
	switch {
	case out.Result.Stopped:
		s.setStatus("Program stopped. Run it to completion to finish the lesson.")
	case out.Completed && out.Unlocked > s.lesson.ID:
		s.setStatus(fmt.Sprintf("Lesson complete! Lesson %d is unlocked.", out.Unlocked))
	case out.Completed:
		s.setStatus("Lesson complete!")
	case out.Saved:
		s.setStatus("Code saved.")
	case out.Result.Failed:
		s.status = ""
	default:
		s.setStatus("Write a little more code to complete the lesson.")
	}
	return s, nil
}

// editorCommand returns the user's editor, falling back to vi.
func editorCommand() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}

// openExternalEditor suspends the TUI and edits the code in $EDITOR.
func (s *LessonScreen) openExternalEditor() tea.Cmd {
	if s.ws.Running {
		return nil
	}
	s.syncCode()

	f, err := os.CreateTemp("", fmt.Sprintf("pymaster-%d-%s-*.py", s.lesson.ID, s.ws.Difficulty))
	if err != nil {
		s.setError(fmt.Sprintf("Cannot open editor: %v", err))
		return nil
	}
	path := f.Name()
	_, err = f.WriteString(s.ws.Code)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		s.setError(fmt.Sprintf("Cannot open editor: %v", err))
		return nil
	}

	argv := append(editorCommand(), path)
	c := exec.Command(argv[0], argv[1:]...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorClosedMsg{Path: path, Err: err}
	})
}

func (s *LessonScreen) handleEditorClosed(msg editorClosedMsg) (screen.Screen, tea.Cmd) {
	defer os.Remove(msg.Path)
	if msg.Err != nil {
		s.setError(fmt.Sprintf("Editor failed: %v", msg.Err))
		return s, nil
	}
	data, err := os.ReadFile(msg.Path)
	if err != nil {
		s.setError(fmt.Sprintf("Cannot read edited code: %v", err))
		return s, nil
	}
	s.editor.SetValue(string(data))
	s.syncCode()
	s.setStatus("Code updated from editor.")
	return s, nil
}

// askTutor requests a review of the current code.
func (s *LessonScreen) askTutor() tea.Cmd {
	if s.deps.Tutor == nil {
		s.setError("Tutor is off. Set an API key, e.g. ANTHROPIC_API_KEY, to enable it.")
		return nil
	}
	if s.reviewing {
		return nil
	}
	s.syncCode()
	if strings.TrimSpace(s.ws.Code) == "" {
		s.setError(tutor.ErrNothingToReview.Error())
		return nil
	}

	s.reviewing = true
	s.review = nil
	s.status = ""
	svc := s.deps.Tutor
	in := tutor.InputFor(s.lesson, s.ws)
	review := func() tea.Msg {
		r, err := svc.Review(context.Background(), in)
		return reviewDoneMsg{Review: r, Err: err}
	}
	return tea.Batch(review, s.spin())
}
