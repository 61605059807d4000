// Package screentest builds screen dependencies backed by in-memory storage
// and a scripted interpreter, for view tests.
package screentest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pymaster/internal/curriculum"
	"github.com/abhisek/pymaster/internal/progress"
	"github.com/abhisek/pymaster/internal/runner"
	"github.com/abhisek/pymaster/internal/screen"
	"github.com/abhisek/pymaster/internal/session"
	"github.com/abhisek/pymaster/internal/store"
)

// Options adjust the dependencies built by NewDeps.
type Options struct {
	// Runtime is the scripted interpreter. Nil leaves the runner loading.
	Runtime *runner.MockRuntime

	// WithEvents opens a SQLite event log in a temp dir.
	WithEvents bool

	// KV backs progress; a fresh MemoryKV when nil.
	KV *store.MemoryKV
}

// NewDeps returns screen dependencies over the default curriculum.
func NewDeps(t *testing.T, opts Options) screen.Deps {
	t.Helper()

	var loader runner.Loader
	if opts.Runtime != nil {
		loader = runner.NewStaticLoader(opts.Runtime)
	} else {
		l := runner.NewStaticLoader(&runner.MockRuntime{})
		l.SetAvailable(false)
		loader = l
	}
	a := runner.NewAdapter(loader, runner.Config{PollInterval: 5 * time.Millisecond}, nil)
	if opts.Runtime != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		a.Start(ctx)
		require.NoError(t, a.WaitReady(ctx))
	}

	var events store.EventRepo
	if opts.WithEvents {
		st, err := store.Open(filepath.Join(t.TempDir(), "screens.db"))
		require.NoError(t, err)
		t.Cleanup(func() { st.Close() })
		events = st.EventRepo()
	}

	kv := opts.KV
	if kv == nil {
		kv = store.NewMemoryKV()
	}
	p := progress.New(context.Background(), kv, curriculum.Count(), nil)

	return screen.Deps{
		Catalog: curriculum.Default(),
		Session: session.New(a, p, events, nil),
	}
}

// Key returns a key press for a printable rune.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Special returns a key press for a non-printable key such as tea.KeyEnter.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Ctrl returns a ctrl+r style key press.
func Ctrl(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

// Drive feeds the messages produced by cmd back into s until a command
// yields nil, runs out, or stop reports true. It returns the final screen.
// Batches are flattened in order.
func Drive(t *testing.T, s screen.Screen, cmd tea.Cmd, stop func(tea.Msg) bool) screen.Screen {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 1000, "command loop did not settle")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		done := make(chan tea.Msg, 1)
		go func() { done <- next() }()
		var msg tea.Msg
		select {
		case msg = <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("command did not return")
		}

		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg == nil || stop != nil && stop(msg) {
			if msg != nil {
				s, _ = s.Update(msg)
			}
			continue
		}
		var c tea.Cmd
		s, c = s.Update(msg)
		queue = append(queue, c)
	}
	return s
}
