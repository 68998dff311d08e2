// SPDX-License-Identifier: MIT

// Package logging provides the structured logger shared by the code
// generator and the problem assembler.
package logging

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with symopt-specific field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at Info.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs to stderr.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithFunction adds the generated function name.
func (l *Logger) WithFunction(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("function", name),
	}
}

// WithFactor adds the factor name.
func (l *Logger) WithFactor(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("factor", name),
	}
}

// WithCount adds a count field.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogGenerate logs the outcome of generating one function.
func (l *Logger) LogGenerate(ctx context.Context, name string, temps, ops int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "generate failed",
			"function", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "generate completed",
			"function", name,
			"temporaries", temps,
			"ops", ops,
		)
	}
}

// LogFactors logs the outcome of building a factor set.
func (l *Logger) LogFactors(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "factor build failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "factor build completed",
			"factors", count,
		)
	}
}

// LogAlias logs an optimized value whose storage also matches another input key.
func (l *Logger) LogAlias(ctx context.Context, key, other string) {
	l.WarnContext(ctx, "optimized value storage matches several inputs",
		"key", key,
		"alias", other,
	)
}
