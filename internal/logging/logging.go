// Package logging builds the process logger. The terminal belongs to the
// TUI, so log output always goes to a file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the log destination and verbosity.
type Config struct {
	// Path is the log file. Empty disables logging.
	Path string

	// Debug lowers the level from info to debug.
	Debug bool

	// Mode is "dev" (console encoding) or "prod" (JSON encoding).
	Mode string
}

// ConfigFromEnv reads PYMASTER_LOG, PYMASTER_LOG_MODE and PYMASTER_DEBUG.
func ConfigFromEnv(defaultPath string) Config {
	cfg := Config{Path: defaultPath, Mode: "dev"}
	if p := os.Getenv("PYMASTER_LOG"); p != "" {
		cfg.Path = p
	}
	if m := os.Getenv("PYMASTER_LOG_MODE"); m != "" {
		cfg.Mode = m
	}
	switch strings.ToLower(os.Getenv("PYMASTER_DEBUG")) {
	case "1", "true", "yes", "on":
		cfg.Debug = true
	}
	return cfg
}

// New builds a logger writing to cfg.Path.
func New(cfg Config) (*zap.Logger, error) {
	if cfg.Path == "" {
		return Nop(), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	var zc zap.Config
	switch strings.ToLower(cfg.Mode) {
	case "prod", "production":
		zc = zap.NewProductionConfig()
	default:
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	level := zap.InfoLevel
	if cfg.Debug {
		level = zap.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{cfg.Path}
	zc.ErrorOutputPaths = []string{cfg.Path}
	// Stack traces on warnings are noise in a single-user tool.
	zc.DisableStacktrace = true

	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// Redact hides all but the last four characters of a secret such as an API
// key before it is logged.
func Redact(secret string) string {
	if len(secret) <= 4 {
		return "[REDACTED]"
	}
	return "…" + secret[len(secret)-4:]
}
