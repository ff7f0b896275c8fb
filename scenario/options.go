package scenario

import (
	"runtime"

	"github.com/hupe1980/gridbuf"
	"github.com/hupe1980/gridbuf/resource"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/hupe1980/gridbuf/scenario"

type options struct {
	workers     int
	controller  *resource.Controller
	stopOnError bool
	logger      *gridbuf.Logger
	metrics     gridbuf.MetricsCollector
	tracer      trace.Tracer
}

// Option configures Run.
type Option func(*options)

// WithWorkers bounds the number of scenarios processed concurrently.
// Values <= 0 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithController shares worker slots with other users of c.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithStopOnError cancels the run at the first failing scenario instead of
// collecting every failure.
func WithStopOnError() Option {
	return func(o *options) {
		o.stopOnError = true
	}
}

// WithLogger configures structured logging for the run.
func WithLogger(l *gridbuf.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = gridbuf.NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector records the duration and outcome of each scenario.
func WithMetricsCollector(mc gridbuf.MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = gridbuf.NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithTracerProvider records a span for the run on tp.
// Default: the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracer = tp.Tracer(tracerName)
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:  gridbuf.NoopLogger(),
		metrics: gridbuf.NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	return o
}
