package runner

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pythonAdapter(t *testing.T) *Adapter {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not on PATH")
	}
	a := NewAdapter(NewPythonLoader("python3"), fastConfig(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Start(ctx)
	require.NoError(t, a.WaitReady(ctx))
	return a
}

func TestPythonLoader_Unavailable(t *testing.T) {
	l := NewPythonLoader("definitely-not-a-python-binary")
	assert.False(t, l.Available())
	_, err := l.Load(context.Background())
	assert.Error(t, err)
}

func TestPython_PrintsOutput(t *testing.T) {
	a := pythonAdapter(t)
	assert.Contains(t, a.Version(), "Python")

	var out collector
	res, err := a.Run(context.Background(), "print('Hello, Python!')\nprint(25 * 4)\n", out.add)
	require.NoError(t, err)
	assert.False(t, res.Failed)
	assert.Equal(t, []string{"Hello, Python!\n", "100\n"}, out.all())
}

func TestPython_ExceptionReported(t *testing.T) {
	a := pythonAdapter(t)

	var out collector
	res, err := a.Run(context.Background(), "print('start')\nundefined_name\n", out.add)
	require.NoError(t, err)
	require.True(t, res.Failed)
	assert.Equal(t, "NameError: name 'undefined_name' is not defined", res.ErrorMessage)

	chunks := out.all()
	require.NotEmpty(t, chunks)
	assert.Contains(t, chunks, "start\n")
	assert.Equal(t, FailurePrefix+"NameError: name 'undefined_name' is not defined", chunks[len(chunks)-1])
	assert.Contains(t, chunks, "Error: Traceback (most recent call last):\n")
}

func TestPython_SyntaxError(t *testing.T) {
	a := pythonAdapter(t)

	var out collector
	res, err := a.Run(context.Background(), "print('unclosed'\n", out.add)
	require.NoError(t, err)
	assert.True(t, res.Failed)
	assert.Contains(t, res.ErrorMessage, "SyntaxError")
}
