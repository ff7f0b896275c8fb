package metrics

import (
	"context"
	"time"

	"github.com/hupe1980/gridbuf"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName is the meter and tracer name used by gridbuf.
const InstrumentationName = "github.com/hupe1980/gridbuf"

var _ gridbuf.MetricsCollector = (*OTelCollector)(nil)

// OTelCollector implements gridbuf.MetricsCollector with OpenTelemetry
// instruments.
type OTelCollector struct {
	attaches      metric.Int64Counter
	views         metric.Int64Counter
	viewLatency   metric.Float64Histogram
	runs          metric.Int64Counter
	runLatency    metric.Float64Histogram
	snapshots     metric.Int64Counter
	snapLatency   metric.Float64Histogram
	snapshotBytes metric.Int64Counter
}

// NewOTelCollector creates the instruments on mp. A nil mp uses the global
// meter provider.
func NewOTelCollector(mp metric.MeterProvider) (*OTelCollector, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(InstrumentationName)

	var (
		c   OTelCollector
		err error
	)
	if c.attaches, err = meter.Int64Counter("gridbuf.attach",
		metric.WithDescription("Buffers attached to dataset handlers")); err != nil {
		return nil, err
	}
	if c.views, err = meter.Int64Counter("gridbuf.scenario_view",
		metric.WithDescription("Individual-scenario views created")); err != nil {
		return nil, err
	}
	if c.viewLatency, err = meter.Float64Histogram("gridbuf.scenario_view.duration",
		metric.WithDescription("Latency of individual-scenario views"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if c.runs, err = meter.Int64Counter("gridbuf.scenario_run",
		metric.WithDescription("Scenarios processed by batch runs")); err != nil {
		return nil, err
	}
	if c.runLatency, err = meter.Float64Histogram("gridbuf.scenario_run.duration",
		metric.WithDescription("Latency of one scenario in a batch run"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if c.snapshots, err = meter.Int64Counter("gridbuf.snapshot",
		metric.WithDescription("Snapshot operations")); err != nil {
		return nil, err
	}
	if c.snapLatency, err = meter.Float64Histogram("gridbuf.snapshot.duration",
		metric.WithDescription("Latency of snapshot operations"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if c.snapshotBytes, err = meter.Int64Counter("gridbuf.snapshot.bytes",
		metric.WithDescription("Encoded bytes of successful snapshot operations"),
		metric.WithUnit("By")); err != nil {
		return nil, err
	}
	return &c, nil
}

func statusAttr(err error) attribute.KeyValue {
	return attribute.String("status", status(err))
}

// RecordAttach implements gridbuf.MetricsCollector.
func (c *OTelCollector) RecordAttach(component string, err error) {
	c.attaches.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("component", component), statusAttr(err)))
}

// RecordScenarioView implements gridbuf.MetricsCollector.
func (c *OTelCollector) RecordScenarioView(d time.Duration, err error) {
	ctx := context.Background()
	attrs := metric.WithAttributes(statusAttr(err))
	c.views.Add(ctx, 1, attrs)
	c.viewLatency.Record(ctx, d.Seconds(), attrs)
}

// RecordScenarioRun implements gridbuf.MetricsCollector.
func (c *OTelCollector) RecordScenarioRun(d time.Duration, err error) {
	ctx := context.Background()
	attrs := metric.WithAttributes(statusAttr(err))
	c.runs.Add(ctx, 1, attrs)
	c.runLatency.Record(ctx, d.Seconds(), attrs)
}

// RecordSnapshot implements gridbuf.MetricsCollector.
func (c *OTelCollector) RecordSnapshot(op string, bytes int64, d time.Duration, err error) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("op", op), statusAttr(err))
	c.snapshots.Add(ctx, 1, attrs)
	c.snapLatency.Record(ctx, d.Seconds(), attrs)
	if err == nil && bytes > 0 {
		c.snapshotBytes.Add(ctx, bytes, metric.WithAttributes(attribute.String("op", op)))
	}
}
