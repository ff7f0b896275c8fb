package gridbuf

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with dataset-specific context.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
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
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithDataset adds dataset kind and batch fields to the logger.
func (l *Logger) WithDataset(name string, batchSize Idx) *Logger {
	return &Logger{
		Logger: l.Logger.With("dataset", name, "batch_size", batchSize),
	}
}

// WithComponent adds a component field to the logger.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", name),
	}
}

// WithScenario adds a scenario field to the logger.
func (l *Logger) WithScenario(s Idx) *Logger {
	return &Logger{
		Logger: l.Logger.With("scenario", s),
	}
}

// LogAttach logs a component attach or buffer set.
func (l *Logger) LogAttach(op, component string, elementsPerScenario, totalElements Idx, err error) {
	if err != nil {
		l.Error("attach failed",
			"op", op,
			"component", component,
			"elements_per_scenario", elementsPerScenario,
			"total_elements", totalElements,
			"error", err,
		)
	} else {
		l.Debug("attach completed",
			"op", op,
			"component", component,
			"elements_per_scenario", elementsPerScenario,
			"total_elements", totalElements,
		)
	}
}

// LogScenarioView logs the creation of an individual-scenario view.
func (l *Logger) LogScenarioView(scenario Idx, err error) {
	if err != nil {
		l.Error("scenario view failed",
			"scenario", scenario,
			"error", err,
		)
	} else {
		l.Debug("scenario view created",
			"scenario", scenario,
		)
	}
}

// LogBatchRun logs a fan-out over every scenario of a batch.
func (l *Logger) LogBatchRun(ctx context.Context, count, failed int, elapsed time.Duration) {
	if failed > 0 {
		l.WarnContext(ctx, "batch run completed with failures",
			"total", count,
			"failed", failed,
			"success", count-failed,
			"elapsed", elapsed,
		)
	} else {
		l.InfoContext(ctx, "batch run completed",
			"count", count,
			"elapsed", elapsed,
		)
	}
}

// LogSnapshot logs a snapshot save or load.
func (l *Logger) LogSnapshot(ctx context.Context, op, name string, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"op", op,
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot completed",
			"op", op,
			"name", name,
			"bytes", bytes,
		)
	}
}
