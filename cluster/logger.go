// SPDX-License-Identifier: MIT

package cluster

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with the field names used across the engine
// ("node", "op", "nodes", "messages", "values").
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger on top of handler.
// A nil handler selects a text handler on stderr at Info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a human-readable Logger on stderr at the given level.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything. It is the default of every environment.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	}))
}

// WithNode tags records with the node id.
func (l *Logger) WithNode(id NodeID) *Logger {
	return &Logger{Logger: l.Logger.With("node", int(id))}
}

// WithOp tags records with the collective or protocol name.
func (l *Logger) WithOp(op string) *Logger {
	return &Logger{Logger: l.Logger.With("op", op)}
}
