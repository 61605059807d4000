// Package runner executes learner programs through an external interpreter.
//
// The Adapter owns the interpreter lifecycle: it waits for the interpreter to
// become available, loads it once, and then accepts one program at a time,
// relaying output chunks to the caller as they are produced.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// Sink receives one line of program output, without the trailing newline.
type Sink func(line string)

// Runtime is a loaded interpreter instance.
type Runtime interface {
	SetStdout(Sink)
	SetStderr(Sink)
	// Run executes source to completion. A program failure is returned as
	// an error.
	Run(ctx context.Context, source string) error
}

// Loader acquires a Runtime. Available reports whether the interpreter can
// be loaded yet; Load is called at most once per Adapter.
type Loader interface {
	Available() bool
	Load(ctx context.Context) (Runtime, error)
}

// Sentinel errors for rejected runs.
var (
	ErrNotReady = errors.New("runtime not ready")
	ErrBusy     = errors.New("a program is already running")
)

// ProgramError is a failed program: a non-zero exit with the last line the
// program wrote to stderr, usually the exception summary.
type ProgramError struct {
	ExitCode int
	Message  string
}

func (e *ProgramError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("program exited with status %d", e.ExitCode)
	}
	return e.Message
}

// Output prefixes. Stderr lines and failures are marked so the learner can
// tell them apart from regular output.
const (
	StderrPrefix  = "Error: "
	FailurePrefix = "⚠️ Error:\n"
)

// Config controls interpreter discovery.
type Config struct {
	// Interpreter is the executable name or path.
	Interpreter string

	// PollInterval is how often Available is checked before loading.
	PollInterval time.Duration
}

// DefaultConfig returns the default runner configuration.
func DefaultConfig() Config {
	return Config{
		Interpreter:  "python3",
		PollInterval: 500 * time.Millisecond,
	}
}

// ConfigFromEnv overlays PYMASTER_PYTHON on the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if p := os.Getenv("PYMASTER_PYTHON"); p != "" {
		cfg.Interpreter = p
	}
	return cfg
}
