package runner

import (
	"context"
	"sync"
	"sync/atomic"
)

// MockRuntime is a scripted Runtime for tests.
type MockRuntime struct {
	// Stdout and Stderr are emitted line by line on every Run.
	Stdout []string
	Stderr []string

	// Err is returned from Run after output is emitted.
	Err error

	// Block, when non-nil, makes Run wait until it is closed or ctx ends.
	Block chan struct{}

	mu      sync.Mutex
	stdout  Sink
	stderr  Sink
	sources []string
}

func (m *MockRuntime) SetStdout(s Sink) {
	m.mu.Lock()
	m.stdout = s
	m.mu.Unlock()
}

func (m *MockRuntime) SetStderr(s Sink) {
	m.mu.Lock()
	m.stderr = s
	m.mu.Unlock()
}

func (m *MockRuntime) Run(ctx context.Context, source string) error {
	m.mu.Lock()
	m.sources = append(m.sources, source)
	stdout, stderr := m.stdout, m.stderr
	m.mu.Unlock()

	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for _, line := range m.Stdout {
		stdout(line)
	}
	for _, line := range m.Stderr {
		stderr(line)
	}
	return m.Err
}

func (m *MockRuntime) Version() string { return "Mock 1.0" }

// Sources returns every program passed to Run.
func (m *MockRuntime) Sources() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sources...)
}

// StaticLoader hands out a fixed Runtime once it is marked available.
type StaticLoader struct {
	Runtime Runtime
	LoadErr error

	available atomic.Bool
	loads     atomic.Int32
}

// NewStaticLoader returns a loader that is immediately available.
func NewStaticLoader(rt Runtime) *StaticLoader {
	l := &StaticLoader{Runtime: rt}
	l.available.Store(true)
	return l
}

// SetAvailable toggles what Available reports.
func (l *StaticLoader) SetAvailable(v bool) {
	l.available.Store(v)
}

func (l *StaticLoader) Available() bool {
	return l.available.Load()
}

func (l *StaticLoader) Load(context.Context) (Runtime, error) {
	l.loads.Add(1)
	if l.LoadErr != nil {
		return nil, l.LoadErr
	}
	return l.Runtime, nil
}

// Loads returns how many times Load was called.
func (l *StaticLoader) Loads() int {
	return int(l.loads.Load())
}
