// Package log is a thin verbosity-gated wrapper around log/slog.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Verbosity levels
const (
	LevelQuiet = iota // Default: only errors and warnings
	LevelInfo         // -v: fetches, cache hits, counts
	LevelDebug        // -vv: API calls, read-ahead, store reads
	LevelTrace        // -vvv: full request details
)

const slogLevelTrace = slog.Level(-8)

var (
	mu        sync.RWMutex
	verbosity int
	logger    *slog.Logger
)

// Initialize sets up the global logger with the specified verbosity level.
func Initialize(level int, w io.Writer) {
	var slogLevel slog.Level
	switch {
	case level >= LevelTrace:
		slogLevel = slogLevelTrace
	case level >= LevelDebug:
		slogLevel = slog.LevelDebug
	case level >= LevelInfo:
		slogLevel = slog.LevelInfo
	default:
		slogLevel = slog.LevelWarn
	}

	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel}))

	mu.Lock()
	verbosity = level
	logger = l
	mu.Unlock()
}

// Discard silences all output, including warnings. Used while a TUI owns the terminal.
func Discard() {
	mu.Lock()
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	mu.Unlock()
}

func current() (*slog.Logger, int) {
	mu.RLock()
	defer mu.RUnlock()
	return logger, verbosity
}

// Info logs at info level (-v)
func Info(msg string, args ...any) {
	if l, v := current(); v >= LevelInfo {
		l.Info(msg, args...)
	}
}

// Debug logs at debug level (-vv)
func Debug(msg string, args ...any) {
	if l, v := current(); v >= LevelDebug {
		l.Debug(msg, args...)
	}
}

// Trace logs at trace level (-vvv)
func Trace(msg string, args ...any) {
	if l, v := current(); v >= LevelTrace {
		l.Log(context.Background(), slogLevelTrace, msg, args...)
	}
}

// Warn logs at warn level (always visible)
func Warn(msg string, args ...any) {
	l, _ := current()
	l.Warn(msg, args...)
}

// Error logs at error level (always visible)
func Error(msg string, args ...any) {
	l, _ := current()
	l.Error(msg, args...)
}

// IsDebug returns true if debug-level logging is enabled
func IsDebug() bool {
	_, v := current()
	return v >= LevelDebug
}

// Verbosity returns the current verbosity level
func Verbosity() int {
	_, v := current()
	return v
}

func init() {
	Initialize(LevelQuiet, os.Stderr)
}
