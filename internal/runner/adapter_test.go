package runner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{Interpreter: "python3", PollInterval: 5 * time.Millisecond}
}

func readyAdapter(t *testing.T, rt Runtime) *Adapter {
	t.Helper()
	a := NewAdapter(NewStaticLoader(rt), fastConfig(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	a.Start(ctx)
	require.NoError(t, a.WaitReady(ctx))
	return a
}

type collector struct {
	mu     sync.Mutex
	chunks []string
}

func (c *collector) add(chunk string) {
	c.mu.Lock()
	c.chunks = append(c.chunks, chunk)
	c.mu.Unlock()
}

func (c *collector) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.chunks...)
}

func TestAdapter_RejectsBeforeReady(t *testing.T) {
	rt := &MockRuntime{Stdout: []string{"hi"}}
	a := NewAdapter(NewStaticLoader(rt), fastConfig(), nil)
	assert.Equal(t, StateUninitialized, a.State())

	var out collector
	_, err := a.Run(context.Background(), "print('hi')", out.add)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Empty(t, out.all(), "no output while not ready")
	assert.Empty(t, rt.Sources())
}

func TestAdapter_PollsUntilAvailable(t *testing.T) {
	rt := &MockRuntime{}
	loader := NewStaticLoader(rt)
	loader.SetAvailable(false)

	a := NewAdapter(loader, fastConfig(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	a.Start(ctx)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, StateLoading, a.State())
	assert.Equal(t, 0, loader.Loads())

	loader.SetAvailable(true)
	require.NoError(t, a.WaitReady(ctx))
	assert.True(t, a.Ready())
	assert.Equal(t, 1, loader.Loads())
	assert.Equal(t, "Mock 1.0", a.Version())

	a.Start(ctx)
	assert.Equal(t, 1, loader.Loads(), "start is idempotent")
}

func TestAdapter_LoadFailure(t *testing.T) {
	loader := NewStaticLoader(nil)
	loader.LoadErr = errors.New("bad interpreter")

	a := NewAdapter(loader, fastConfig(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	a.Start(ctx)

	err := a.WaitReady(ctx)
	require.Error(t, err)
	assert.Equal(t, StateFailed, a.State())

	_, err = a.Run(ctx, "print(1)", func(string) {})
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestAdapter_StartCancelled(t *testing.T) {
	loader := NewStaticLoader(&MockRuntime{})
	loader.SetAvailable(false)

	a := NewAdapter(loader, fastConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	a.Start(ctx)
	cancel()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer waitCancel()
	assert.ErrorIs(t, a.WaitReady(waitCtx), context.DeadlineExceeded)
	assert.False(t, a.Ready())
}

func TestAdapter_StreamsOutput(t *testing.T) {
	rt := &MockRuntime{
		Stdout: []string{"Hello", "World"},
		Stderr: []string{"DeprecationWarning: old"},
	}
	a := readyAdapter(t, rt)

	var out collector
	res, err := a.Run(context.Background(), "print('Hello')", out.add)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Hello\n",
		"World\n",
		"Error: DeprecationWarning: old\n",
	}, out.all())
	assert.False(t, res.Failed)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, len("Hello\nWorld\nError: DeprecationWarning: old\n"), res.OutputBytes)
	assert.Equal(t, []string{"print('Hello')"}, rt.Sources())
}

func TestAdapter_FailureDeliveredOnce(t *testing.T) {
	rt := &MockRuntime{
		Stdout: []string{"before"},
		Err:    &ProgramError{ExitCode: 1, Message: "NameError: name 'x' is not defined"},
	}
	a := readyAdapter(t, rt)

	var out collector
	res, err := a.Run(context.Background(), "print('before')\nx", out.add)
	require.NoError(t, err, "program failures are not returned")

	chunks := out.all()
	require.Len(t, chunks, 2)
	assert.Equal(t, "⚠️ Error:\nNameError: name 'x' is not defined", chunks[1])

	failures := 0
	for _, c := range chunks {
		if strings.HasPrefix(c, FailurePrefix) {
			failures++
		}
	}
	assert.Equal(t, 1, failures)
	assert.True(t, res.Failed)
	assert.Equal(t, "NameError: name 'x' is not defined", res.ErrorMessage)
}

func TestAdapter_BusyRejectsSecondRun(t *testing.T) {
	rt := &MockRuntime{Stdout: []string{"done"}, Block: make(chan struct{})}
	a := readyAdapter(t, rt)

	first := make(chan error, 1)
	go func() {
		_, err := a.Run(context.Background(), "first", func(string) {})
		first <- err
	}()

	require.Eventually(t, a.Busy, time.Second, time.Millisecond)

	var out collector
	_, err := a.Run(context.Background(), "second", out.add)
	assert.ErrorIs(t, err, ErrBusy)
	assert.Empty(t, out.all())

	close(rt.Block)
	require.NoError(t, <-first)
	assert.False(t, a.Busy())

	_, err = a.Run(context.Background(), "third", out.add)
	assert.NoError(t, err)
}

func TestAdapter_CancelledRunReportsFailure(t *testing.T) {
	rt := &MockRuntime{Block: make(chan struct{})}
	a := readyAdapter(t, rt)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out collector
	res, err := a.Run(ctx, "while True: pass", out.add)
	require.NoError(t, err)
	assert.True(t, res.Failed)
	assert.True(t, res.Stopped)
	assert.Equal(t, []string{FailurePrefix + context.Canceled.Error()}, out.all())
}

func TestProgramError(t *testing.T) {
	assert.Equal(t, "boom", (&ProgramError{ExitCode: 1, Message: "boom"}).Error())
	assert.Equal(t, "program exited with status 2", (&ProgramError{ExitCode: 2}).Error())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "failed", StateFailed.String())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PYMASTER_PYTHON", "/opt/python/bin/python3.12")
	cfg := ConfigFromEnv()
	assert.Equal(t, "/opt/python/bin/python3.12", cfg.Interpreter)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
}
