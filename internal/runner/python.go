package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// maxLine bounds a single output line.
const maxLine = 1 << 20

// PythonLoader finds a CPython interpreter on PATH.
type PythonLoader struct {
	interpreter string
}

// NewPythonLoader returns a loader for the given executable name or path.
func NewPythonLoader(interpreter string) *PythonLoader {
	return &PythonLoader{interpreter: interpreter}
}

func (l *PythonLoader) Available() bool {
	_, err := exec.LookPath(l.interpreter)
	return err == nil
}

// Load resolves the interpreter and runs it once to read its version.
func (l *PythonLoader) Load(ctx context.Context) (Runtime, error) {
	path, err := exec.LookPath(l.interpreter)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", l.interpreter, err)
	}
	out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}
	return &PythonRuntime{
		path:    path,
		version: strings.TrimSpace(string(out)),
	}, nil
}

// PythonRuntime runs programs as `python -u -` with the source on stdin, in
// a scratch working directory that is removed afterwards.
type PythonRuntime struct {
	path    string
	version string

	mu     sync.Mutex
	stdout Sink
	stderr Sink
}

func (r *PythonRuntime) Version() string { return r.version }

func (r *PythonRuntime) SetStdout(s Sink) {
	r.mu.Lock()
	r.stdout = s
	r.mu.Unlock()
}

func (r *PythonRuntime) SetStderr(s Sink) {
	r.mu.Lock()
	r.stderr = s
	r.mu.Unlock()
}

func (r *PythonRuntime) Run(ctx context.Context, source string) error {
	r.mu.Lock()
	stdoutSink, stderrSink := r.stdout, r.stderr
	r.mu.Unlock()

	dir, err := os.MkdirTemp("", "pymaster-run-")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	cmd := exec.CommandContext(ctx, r.path, "-u", "-")
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(source)
	cmd.Env = append(os.Environ(), "PYTHONIOENCODING=utf-8", "PYTHONDONTWRITEBYTECODE=1")

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", r.path, err)
	}

	var (
		wg       sync.WaitGroup
		lastErr  string
		streamMu sync.Mutex
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		stream(stdout, stdoutSink)
	}()
	go func() {
		defer wg.Done()
		stream(stderr, func(line string) {
			if strings.TrimSpace(line) != "" {
				streamMu.Lock()
				lastErr = line
				streamMu.Unlock()
			}
			if stderrSink != nil {
				stderrSink(line)
			}
		})
	}()
	// Pipes must be drained before Wait closes them.
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ProgramError{ExitCode: exitErr.ExitCode(), Message: lastErr}
		}
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

func stream(r io.Reader, sink Sink) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		if sink != nil {
			sink(sc.Text())
		}
	}
	// Drain whatever is left after an over-long line so the child never
	// blocks on a full pipe.
	_, _ = io.Copy(io.Discard, r)
}
