package snapshot

import (
	"github.com/google/uuid"
	"github.com/hupe1980/gridbuf"
	"github.com/hupe1980/gridbuf/codec"
	"github.com/hupe1980/gridbuf/resource"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/hupe1980/gridbuf/snapshot"

type options struct {
	compression Compression
	codec       codec.Codec
	controller  *resource.Controller
	logger      *gridbuf.Logger
	metrics     gridbuf.MetricsCollector
	tracer      trace.Tracer
	id          string
	zeroCopy    bool
}

// Option configures Encode, Save, Decode and Load.
type Option func(*options)

// WithCompression selects the body compression for new snapshots.
// Default: CompressionNone.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithCodec selects the manifest codec for new snapshots.
// Default: codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithController throttles snapshot I/O and accounts decoded buffers
// against the controller's memory limit.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithLogger configures structured logging. Loaded datasets inherit it.
func WithLogger(l *gridbuf.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = gridbuf.NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector records snapshot sizes and durations. Loaded
// datasets inherit it.
func WithMetricsCollector(mc gridbuf.MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = gridbuf.NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithTracerProvider records Save and Load spans on tp.
// Default: the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithID sets the manifest ID instead of a random UUID.
func WithID(id uuid.UUID) Option {
	return func(o *options) {
		o.id = id.String()
	}
}

// WithCopy makes Load decode into owned memory even when the blob could be
// used in place.
func WithCopy() Option {
	return func(o *options) {
		o.zeroCopy = false
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:    codec.Default,
		logger:   gridbuf.NoopLogger(),
		metrics:  gridbuf.NoopMetricsCollector{},
		zeroCopy: true,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	return o
}

func (o *options) datasetOptions() []gridbuf.Option {
	return []gridbuf.Option{
		gridbuf.WithLogger(o.logger),
		gridbuf.WithMetricsCollector(o.metrics),
	}
}
