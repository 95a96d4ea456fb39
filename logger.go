package kvgo

import (
	"errors"
	"log/slog"
	"os"

	"github.com/hupe1980/kvgo/segment"
)

// Logger wraps slog.Logger with kvgo-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogOpen logs a successful open.
func (l *Logger) LogOpen(path string, columns int) {
	l.Info("database opened",
		"path", path,
		"columns", columns,
	)
}

// LogGet logs a point lookup. Absence is not an error condition.
func (l *Logger) LogGet(col Column, err error) {
	if err == nil || errors.Is(err, ErrNotFound) {
		return
	}
	l.Error("get failed",
		"column", int32(col),
		"error", err,
	)
}

// LogWrite logs an atomic batch write.
func (l *Logger) LogWrite(ops int, err error) {
	if err != nil {
		l.Error("write failed",
			"ops", ops,
			"error", err,
		)
	} else {
		l.Debug("write committed",
			"ops", ops,
		)
	}
}

// LogBufferedWrite logs a swallowed buffered-write failure.
func (l *Logger) LogBufferedWrite(ops int, err error) {
	l.Warn("buffered write failed",
		"ops", ops,
		"error", err,
	)
}

// LogFlush logs a durability flush.
func (l *Logger) LogFlush(err error) {
	if err != nil {
		l.Error("flush failed",
			"error", err,
		)
	} else {
		l.Debug("flush completed")
	}
}

// LogBackgroundFlush logs an error from the engine's background flusher.
func (l *Logger) LogBackgroundFlush(err error) {
	l.Warn("background flush failed",
		"error", err,
	)
}

// LogSkippedEntry logs a corrupt entry skipped during a scan.
func (l *Logger) LogSkippedEntry(col Column, ce *segment.CorruptEntryError) {
	l.Warn("skipped corrupt entry",
		"column", int32(col),
		"segment", ce.Tree,
	)
}

// LogClose logs database teardown.
func (l *Logger) LogClose(err error) {
	if err != nil {
		l.Warn("closed with flush error",
			"error", err,
		)
	} else {
		l.Info("database closed")
	}
}
