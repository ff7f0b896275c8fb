// Package metrics exports gridbuf metrics to Prometheus.
package metrics

import (
	"time"

	"github.com/hupe1980/gridbuf"
	"github.com/hupe1980/gridbuf/resource"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "gridbuf"

var _ gridbuf.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector implements gridbuf.MetricsCollector.
type PrometheusCollector struct {
	attaches      *prometheus.CounterVec
	views         *prometheus.CounterVec
	viewLatency   prometheus.Histogram
	runs          *prometheus.CounterVec
	runLatency    prometheus.Histogram
	snapshots     *prometheus.CounterVec
	snapLatency   *prometheus.HistogramVec
	snapshotBytes *prometheus.CounterVec
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// NewPrometheusCollector creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer, namespace string) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &PrometheusCollector{
		attaches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attach_total",
			Help:      "Buffers attached to dataset handlers.",
		}, []string{"component", "status"}),
		views: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenario_views_total",
			Help:      "Individual-scenario views created.",
		}, []string{"status"}),
		viewLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scenario_view_seconds",
			Help:      "Latency of individual-scenario views.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenario_runs_total",
			Help:      "Scenarios processed by batch runs.",
		}, []string{"status"}),
		runLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scenario_run_seconds",
			Help:      "Latency of one scenario in a batch run.",
			Buckets:   prometheus.DefBuckets,
		}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_operations_total",
			Help:      "Snapshot operations.",
		}, []string{"op", "status"}),
		snapLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_seconds",
			Help:      "Latency of snapshot operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		snapshotBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_bytes_total",
			Help:      "Encoded bytes of successful snapshot operations.",
		}, []string{"op"}),
	}

	for _, col := range []prometheus.Collector{
		c.attaches, c.views, c.viewLatency, c.runs, c.runLatency,
		c.snapshots, c.snapLatency, c.snapshotBytes,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordAttach implements gridbuf.MetricsCollector.
func (c *PrometheusCollector) RecordAttach(component string, err error) {
	c.attaches.WithLabelValues(component, status(err)).Inc()
}

// RecordScenarioView implements gridbuf.MetricsCollector.
func (c *PrometheusCollector) RecordScenarioView(d time.Duration, err error) {
	c.views.WithLabelValues(status(err)).Inc()
	c.viewLatency.Observe(d.Seconds())
}

// RecordScenarioRun implements gridbuf.MetricsCollector.
func (c *PrometheusCollector) RecordScenarioRun(d time.Duration, err error) {
	c.runs.WithLabelValues(status(err)).Inc()
	c.runLatency.Observe(d.Seconds())
}

// RecordSnapshot implements gridbuf.MetricsCollector.
func (c *PrometheusCollector) RecordSnapshot(op string, bytes int64, d time.Duration, err error) {
	s := status(err)
	c.snapshots.WithLabelValues(op, s).Inc()
	c.snapLatency.WithLabelValues(op, s).Observe(d.Seconds())
	if err == nil && bytes > 0 {
		c.snapshotBytes.WithLabelValues(op).Add(float64(bytes))
	}
}

// RegisterController exports the memory accounting of rc as gauges.
func RegisterController(reg prometheus.Registerer, namespace string, rc *resource.Controller) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	used := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "memory_reserved_bytes",
		Help:      "Bytes reserved against the resource controller.",
	}, func() float64 { return float64(rc.MemoryUsage()) })
	limit := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "memory_limit_bytes",
		Help:      "Configured memory limit, 0 when unlimited.",
	})
	if rc != nil {
		limit.Set(float64(rc.Config().MemoryLimitBytes))
	}
	if err := reg.Register(used); err != nil {
		return err
	}
	return reg.Register(limit)
}
