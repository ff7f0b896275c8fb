package gridbuf

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus; see package metrics for a ready-made implementation.
type MetricsCollector interface {
	// RecordAttach is called after each attach or buffer set.
	// err is nil if successful.
	RecordAttach(component string, err error)

	// RecordScenarioView is called after each individual-scenario view.
	RecordScenarioView(duration time.Duration, err error)

	// RecordScenarioRun is called once per scenario processed by a fan-out.
	RecordScenarioRun(duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot save or load.
	// op is "save", "load" or "decode"; bytes is the encoded size.
	RecordSnapshot(op string, bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAttach(string, error)                         {}
func (NoopMetricsCollector) RecordScenarioView(time.Duration, error)            {}
func (NoopMetricsCollector) RecordScenarioRun(time.Duration, error)             {}
func (NoopMetricsCollector) RecordSnapshot(string, int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AttachCount        atomic.Int64
	AttachErrors       atomic.Int64
	ViewCount          atomic.Int64
	ViewErrors         atomic.Int64
	RunCount           atomic.Int64
	RunErrors          atomic.Int64
	RunTotalNanos      atomic.Int64
	SnapshotCount      atomic.Int64
	SnapshotErrors     atomic.Int64
	SnapshotBytes      atomic.Int64
	SnapshotTotalNanos atomic.Int64
}

// RecordAttach implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAttach(_ string, err error) {
	b.AttachCount.Add(1)
	if err != nil {
		b.AttachErrors.Add(1)
	}
}

// RecordScenarioView implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScenarioView(_ time.Duration, err error) {
	b.ViewCount.Add(1)
	if err != nil {
		b.ViewErrors.Add(1)
	}
}

// RecordScenarioRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScenarioRun(duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(_ string, bytes int64, duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	b.SnapshotTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SnapshotErrors.Add(1)
		return
	}
	b.SnapshotBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AttachCount:      b.AttachCount.Load(),
		AttachErrors:     b.AttachErrors.Load(),
		ViewCount:        b.ViewCount.Load(),
		ViewErrors:       b.ViewErrors.Load(),
		RunCount:         b.RunCount.Load(),
		RunErrors:        b.RunErrors.Load(),
		RunAvgNanos:      avg(b.RunTotalNanos.Load(), b.RunCount.Load()),
		SnapshotCount:    b.SnapshotCount.Load(),
		SnapshotErrors:   b.SnapshotErrors.Load(),
		SnapshotBytes:    b.SnapshotBytes.Load(),
		SnapshotAvgNanos: avg(b.SnapshotTotalNanos.Load(), b.SnapshotCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AttachCount      int64
	AttachErrors     int64
	ViewCount        int64
	ViewErrors       int64
	RunCount         int64
	RunErrors        int64
	RunAvgNanos      int64
	SnapshotCount    int64
	SnapshotErrors   int64
	SnapshotBytes    int64
	SnapshotAvgNanos int64
}
