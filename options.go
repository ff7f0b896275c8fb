package gridbuf

import (
	"log/slog"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a dataset handler.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for attach and
// scenario-view operations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &gridbuf.BasicMetricsCollector{}
//	ds, _ := gridbuf.NewConstDataset(md, true, 10, "update", gridbuf.WithMetricsCollector(metrics))
//	// ... attach buffers ...
//	stats := metrics.GetStats()
//	fmt.Printf("Attached: %d, failed: %d\n", stats.AttachCount, stats.AttachErrors)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := gridbuf.NewJSONLogger(slog.LevelDebug)
//	ds, _ := gridbuf.NewMutableDataset(md, false, 1, "sym_output", gridbuf.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
