package lesson

import (
	"github.com/abhisek/pymaster/internal/session"
	"github.com/abhisek/pymaster/internal/tutor"
)

// outputChunkMsg carries program output as it is produced.
type outputChunkMsg struct {
	Chunk string
}

// runDoneMsg is sent when a run has finished and been recorded.
type runDoneMsg struct {
	Outcome session.Outcome
	Err     error
}

// reviewDoneMsg is sent when the tutor has answered.
type reviewDoneMsg struct {
	Review *tutor.Review
	Err    error
}

// editorClosedMsg is sent when the external editor exits.
type editorClosedMsg struct {
	Path string
	Err  error
}

// quizSavedMsg confirms that a finished quiz was recorded.
type quizSavedMsg struct {
	Err error
}
