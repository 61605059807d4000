package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/pymaster/internal/curriculum"
	"github.com/abhisek/pymaster/internal/llm"
	"github.com/abhisek/pymaster/internal/logging"
	"github.com/abhisek/pymaster/internal/progress"
	"github.com/abhisek/pymaster/internal/runner"
	"github.com/abhisek/pymaster/internal/session"
	"github.com/abhisek/pymaster/internal/store"
	"github.com/abhisek/pymaster/internal/tutor"
)

var rootCmd = &cobra.Command{
	Use:          "pymaster",
	Short:        "Learn Python in your terminal",
	Long:         "PyMaster is a terminal Python course: lessons, runnable tasks and quizzes, with progress saved locally.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "/")
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides PYMASTER_DB env var)")
	pf.String("log-file", "", "Path to the log file (overrides PYMASTER_LOG env var)")
	pf.Bool("debug", false, "Log at debug level")
	pf.String("curriculum", "", "Load the curriculum from a YAML file (overrides PYMASTER_CURRICULUM env var)")
	pf.String("python", "", "Python interpreter to run code with (overrides PYMASTER_PYTHON env var)")
	pf.Bool("ephemeral", false, "Keep progress in memory only; nothing is written to disk")

	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PYMASTER_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// env holds everything a command needs, built from flags and environment.
type env struct {
	logger  *zap.Logger
	store   *store.Store // nil when ephemeral
	catalog *curriculum.Catalog
	session *session.Service
	tutor   *tutor.Service
}

func (e *env) Close() {
	if e.store != nil {
		e.store.Close()
	}
	e.logger.Sync()
}

// events returns the event log, or nil when running ephemeral.
func (e *env) events() store.EventRepo {
	if e.store == nil {
		return nil
	}
	return e.store.EventRepo()
}

// openEnv builds the logger, storage, curriculum, interpreter adapter and
// the optional tutor. The adapter is not started.
func openEnv(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()
	flags := cmd.Flags()

	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	e := &env{logger: logger}

	catalog, err := loadCatalog(cmd)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.catalog = catalog

	var kv store.KVRepo
	if ephemeral, _ := flags.GetBool("ephemeral"); ephemeral {
		kv = store.NewMemoryKV()
	} else {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		e.store = st
		kv = st.KVRepo()
		logger.Debug("store opened", zap.String("path", dbPath))
	}

	rcfg := runner.ConfigFromEnv()
	if p, _ := flags.GetString("python"); p != "" {
		rcfg.Interpreter = p
	}
	adapter := runner.NewAdapter(runner.NewPythonLoader(rcfg.Interpreter), rcfg, logger)
	p := progress.New(ctx, kv, catalog.Count(), logger)
	e.session = session.New(adapter, p, e.events(), logger)

	provider, err := llm.NewProviderFromEnv(ctx, e.events(), logger)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		logger.Debug("tutor disabled, no model provider configured")
	case err != nil:
		fmt.Fprintln(os.Stderr, "Tutor unavailable:", err)
	default:
		e.tutor = tutor.NewService(provider, tutor.DefaultConfig(), logger)
	}
	return e, nil
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	defaultPath, err := store.DefaultLogPath()
	if err != nil {
		defaultPath = ""
	}
	cfg := logging.ConfigFromEnv(defaultPath)
	if p, _ := cmd.Flags().GetString("log-file"); p != "" {
		cfg.Path = p
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}
	return logging.New(cfg)
}

func loadCatalog(cmd *cobra.Command) (*curriculum.Catalog, error) {
	path, _ := cmd.Flags().GetString("curriculum")
	if path == "" {
		path = os.Getenv("PYMASTER_CURRICULUM")
	}
	if path == "" {
		return curriculum.Default(), nil
	}
	c, err := curriculum.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load curriculum: %w", err)
	}
	return c, nil
}

// waitForPython starts the interpreter and waits up to timeout for it.
func waitForPython(ctx context.Context, e *env, timeout time.Duration) error {
	rt := e.session.Runner()
	rt.Start(ctx)
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := rt.WaitReady(wctx); err != nil {
		return fmt.Errorf("python interpreter not available: %w", err)
	}
	return nil
}
