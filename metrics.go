package seqmap

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see
// metrics/prom for a Prometheus implementation.
type MetricsCollector interface {
	// RecordBuild is called after each index build.
	RecordBuild(sequences int, bases uint64, duration time.Duration, err error)

	// RecordAlign is called after each query. alignments is the number of
	// reported placements.
	RecordAlign(alignments int, duration time.Duration, err error)

	// RecordCache is called once per batch with the cache hits and the
	// searches avoided through duplicated windows.
	RecordCache(hits, skips int64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, uint64, time.Duration, error) {}
func (NoopMetricsCollector) RecordAlign(int, time.Duration, error)         {}
func (NoopMetricsCollector) RecordCache(int64, int64)                      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	BasesIndexed    atomic.Int64
	AlignCount      atomic.Int64
	AlignErrors     atomic.Int64
	AlignUnmapped   atomic.Int64
	AlignTotalNanos atomic.Int64
	CacheHits       atomic.Int64
	Skips           atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(_ int, bases uint64, _ time.Duration, err error) {
	b.BuildCount.Add(1)
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.BasesIndexed.Add(int64(bases))
}

// RecordAlign implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlign(alignments int, duration time.Duration, err error) {
	b.AlignCount.Add(1)
	b.AlignTotalNanos.Add(duration.Nanoseconds())
	switch {
	case err != nil:
		b.AlignErrors.Add(1)
	case alignments == 0:
		b.AlignUnmapped.Add(1)
	}
}

// RecordCache implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCache(hits, skips int64) {
	b.CacheHits.Add(hits)
	b.Skips.Add(skips)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		BuildCount:    b.BuildCount.Load(),
		BuildErrors:   b.BuildErrors.Load(),
		BasesIndexed:  b.BasesIndexed.Load(),
		AlignCount:    b.AlignCount.Load(),
		AlignErrors:   b.AlignErrors.Load(),
		AlignUnmapped: b.AlignUnmapped.Load(),
		CacheHits:     b.CacheHits.Load(),
		Skips:         b.Skips.Load(),
	}
	if s.AlignCount > 0 {
		s.AlignAvgNanos = b.AlignTotalNanos.Load() / s.AlignCount
	}
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount    int64
	BuildErrors   int64
	BasesIndexed  int64
	AlignCount    int64
	AlignErrors   int64
	AlignUnmapped int64
	AlignAvgNanos int64
	CacheHits     int64
	Skips         int64
}
