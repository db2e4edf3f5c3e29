// Package logging provides categorized logging for clinicterm.
// Logs go to a file (never the terminal, which belongs to the TUI) and are
// controlled by the logging section of the config file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config loading
	CategoryAPI     Category = "api"     // Backend REST calls
	CategoryUI      Category = "ui"      // TUI events, page transitions
	CategorySession Category = "session" // Selected-patient lifecycle
	CategoryExport  Category = "export"  // Report export
)

// Options mirrors config.LoggingConfig to avoid a circular import.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	File   string // log file path; empty disables logging
}

var (
	mu      sync.RWMutex
	root    *zap.Logger
	level   zap.AtomicLevel
	haveLvl bool
	loggers = make(map[Category]*zap.SugaredLogger)
)

// Initialize builds the root logger from the given options. With an empty
// file path logging is a silent no-op. Safe to call more than once; later
// calls replace the root logger.
func Initialize(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	loggers = make(map[Category]*zap.SugaredLogger)

	if opts.File == "" {
		root = zap.NewNop()
		haveLvl = false
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	level = zap.NewAtomicLevelAt(parseLevel(opts.Level))
	haveLvl = true

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.OutputPaths = []string{opts.File}
	cfg.ErrorOutputPaths = []string{opts.File}
	if opts.Format != "json" {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	root = logger
	return nil
}

// SetLevel adjusts the level at runtime (config hot reload).
func SetLevel(lvl string) {
	mu.RLock()
	defer mu.RUnlock()
	if haveLvl {
		level.SetLevel(parseLevel(lvl))
	}
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Get returns (or creates) the sugared logger for a category.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	base := root
	if base == nil {
		base = zap.NewNop()
	}
	l := base.Named(string(category)).Sugar()
	loggers[category] = l
	return l
}

// Sync flushes buffered entries. Call at shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if root != nil {
		_ = root.Sync()
	}
}

// Convenience helpers for the common categories.

func Boot(format string, args ...interface{}) { Get(CategoryBoot).Infof(format, args...) }

func API(format string, args ...interface{}) { Get(CategoryAPI).Infof(format, args...) }

func APIDebug(format string, args ...interface{}) { Get(CategoryAPI).Debugf(format, args...) }

func APIError(format string, args ...interface{}) { Get(CategoryAPI).Errorf(format, args...) }

func UI(format string, args ...interface{}) { Get(CategoryUI).Infof(format, args...) }

func UIDebug(format string, args ...interface{}) { Get(CategoryUI).Debugf(format, args...) }

func Session(format string, args ...interface{}) { Get(CategorySession).Infof(format, args...) }

func Export(format string, args ...interface{}) { Get(CategoryExport).Infof(format, args...) }
