package kvgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordGet is called after each point lookup.
	// duration is the total time taken, err is nil on success (a missing
	// key counts as an error of kind ErrNotFound).
	RecordGet(duration time.Duration, err error)

	// RecordWrite is called after each atomic batch write.
	// ops is the number of operations in the batch.
	RecordWrite(ops int, duration time.Duration, err error)

	// RecordFlush is called after each durability flush.
	RecordFlush(duration time.Duration, err error)

	// RecordScan is called when an iteration sequence ends (exhausted or
	// terminated early). entries is the number of entries yielded.
	RecordScan(entries int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGet(time.Duration, error)        {}
func (NoopMetricsCollector) RecordWrite(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordFlush(time.Duration, error)      {}
func (NoopMetricsCollector) RecordScan(int, time.Duration)         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	GetCount        atomic.Int64
	GetErrors       atomic.Int64
	GetTotalNanos   atomic.Int64
	WriteCount      atomic.Int64
	WriteOps        atomic.Int64
	WriteErrors     atomic.Int64
	WriteTotalNanos atomic.Int64
	FlushCount      atomic.Int64
	FlushErrors     atomic.Int64
	ScanCount       atomic.Int64
	ScanEntries     atomic.Int64
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(duration time.Duration, err error) {
	b.GetCount.Add(1)
	b.GetTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GetErrors.Add(1)
	}
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(ops int, duration time.Duration, err error) {
	b.WriteCount.Add(1)
	b.WriteOps.Add(int64(ops))
	b.WriteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WriteErrors.Add(1)
	}
}

// RecordFlush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFlush(duration time.Duration, err error) {
	b.FlushCount.Add(1)
	if err != nil {
		b.FlushErrors.Add(1)
	}
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(entries int, duration time.Duration) {
	b.ScanCount.Add(1)
	b.ScanEntries.Add(int64(entries))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GetCount:      b.GetCount.Load(),
		GetErrors:     b.GetErrors.Load(),
		GetAvgNanos:   avg(b.GetTotalNanos.Load(), b.GetCount.Load()),
		WriteCount:    b.WriteCount.Load(),
		WriteOps:      b.WriteOps.Load(),
		WriteErrors:   b.WriteErrors.Load(),
		WriteAvgNanos: avg(b.WriteTotalNanos.Load(), b.WriteCount.Load()),
		FlushCount:    b.FlushCount.Load(),
		FlushErrors:   b.FlushErrors.Load(),
		ScanCount:     b.ScanCount.Load(),
		ScanEntries:   b.ScanEntries.Load(),
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
	GetCount      int64
	GetErrors     int64
	GetAvgNanos   int64
	WriteCount    int64
	WriteOps      int64
	WriteErrors   int64
	WriteAvgNanos int64
	FlushCount    int64
	FlushErrors   int64
	ScanCount     int64
	ScanEntries   int64
}
