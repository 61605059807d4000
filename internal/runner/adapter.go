package runner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result describes a finished run. A failed program is reported here and
// through the output callback, never as an error from Run.
type Result struct {
	RunID        string
	Duration     time.Duration
	OutputBytes  int
	Failed       bool
	ErrorMessage string

	// Stopped is set when the caller cancelled the run before it ended.
	Stopped bool
}

// Adapter bridges programs to a Runtime acquired from a Loader.
type Adapter struct {
	loader Loader
	cfg    Config
	logger *zap.Logger

	startOnce sync.Once
	done      chan struct{} // closed once loading ends, either way

	mu      sync.Mutex
	state   State
	rt      Runtime
	loadErr error
	busy    bool
}

// NewAdapter returns an Adapter in the uninitialized state.
func NewAdapter(loader Loader, cfg Config, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	return &Adapter{
		loader: loader,
		cfg:    cfg,
		logger: logger.Named("runner"),
		done:   make(chan struct{}),
	}
}

// Start begins waiting for the interpreter in the background. It polls
// Available every PollInterval until it reports true, then loads the
// runtime once. Later calls are no-ops. Cancelling ctx stops polling.
func (a *Adapter) Start(ctx context.Context) {
	a.startOnce.Do(func() {
		a.setState(StateLoading)
		go a.bootstrap(ctx)
	})
}

func (a *Adapter) bootstrap(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	for !a.loader.Available() {
		a.logger.Debug("interpreter not available, polling", zap.Duration("interval", a.cfg.PollInterval))
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}

	rt, err := a.loader.Load(ctx)

	a.mu.Lock()
	if err != nil {
		a.state = StateFailed
		a.loadErr = err
		a.logger.Error("load interpreter", zap.Error(err))
	} else {
		a.state = StateReady
		a.rt = rt
		a.logger.Info("interpreter ready", zap.String("version", versionOf(rt)))
	}
	a.mu.Unlock()
	close(a.done)
}

func (a *Adapter) setState(s State) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

// State returns the lifecycle state.
func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Ready reports whether programs are accepted.
func (a *Adapter) Ready() bool {
	return a.State() == StateReady
}

// Busy reports whether a program is running.
func (a *Adapter) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}

// Err returns the load error once the adapter has failed.
func (a *Adapter) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadErr
}

// Version returns the interpreter version string, or "" before ready.
func (a *Adapter) Version() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rt == nil {
		return ""
	}
	return versionOf(a.rt)
}

// WaitReady blocks until loading ends or ctx is done. It returns the load
// error if the interpreter could not be loaded.
func (a *Adapter) WaitReady(ctx context.Context) error {
	select {
	case <-a.done:
		return a.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes source and delivers output through onOutput: stdout lines
// as line+"\n", stderr lines with StderrPrefix, and a failure message once
// with FailurePrefix. onOutput is never called concurrently.
//
// Run returns ErrNotReady before the interpreter is loaded and ErrBusy while
// another program runs; in both cases onOutput is not called.
func (a *Adapter) Run(ctx context.Context, source string, onOutput func(chunk string)) (Result, error) {
	a.mu.Lock()
	if a.state != StateReady {
		a.mu.Unlock()
		return Result{}, ErrNotReady
	}
	if a.busy {
		a.mu.Unlock()
		return Result{}, ErrBusy
	}
	a.busy = true
	rt := a.rt
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.busy = false
		a.mu.Unlock()
	}()

	res := Result{RunID: uuid.NewString()}
	var outMu sync.Mutex
	emit := func(chunk string) {
		outMu.Lock()
		defer outMu.Unlock()
		res.OutputBytes += len(chunk)
		onOutput(chunk)
	}

	rt.SetStdout(func(line string) { emit(line + "\n") })
	rt.SetStderr(func(line string) { emit(StderrPrefix + line + "\n") })

	start := time.Now()
	err := rt.Run(ctx, source)
	res.Duration = time.Since(start)

	if err != nil {
		res.Failed = true
		res.ErrorMessage = err.Error()
		res.Stopped = ctx.Err() != nil
		emit(FailurePrefix + err.Error())
	}

	a.logger.Info("program finished",
		zap.String("run_id", res.RunID),
		zap.Int("source_bytes", len(source)),
		zap.Duration("duration", res.Duration),
		zap.Bool("failed", res.Failed),
		zap.Bool("stopped", res.Stopped),
	)
	return res, nil
}

func versionOf(rt Runtime) string {
	if v, ok := rt.(interface{ Version() string }); ok {
		return v.Version()
	}
	return ""
}
