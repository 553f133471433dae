// Package prom exports seqmap metrics to Prometheus.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements seqmap.MetricsCollector on Prometheus metrics.
type Collector struct {
	latency    *prometheus.HistogramVec
	builds     *prometheus.CounterVec
	bases      prometheus.Counter
	sequences  prometheus.Gauge
	alignments prometheus.Histogram
	unmapped   prometheus.Counter
	cacheHits  prometheus.Counter
	skips      prometheus.Counter
}

// New creates a collector and registers its metrics with reg. A nil reg
// uses the default registerer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "seqmap_operation_latency_seconds",
			Help:    "Latency of index builds and query alignments",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"op", "status"}),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seqmap_builds_total",
			Help: "Index builds by status",
		}, []string{"status"}),
		bases: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seqmap_bases_indexed_total",
			Help: "Reference bases indexed by successful builds",
		}),
		sequences: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "seqmap_reference_sequences",
			Help: "Reference sequences in the last built index",
		}),
		alignments: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seqmap_alignments_per_query",
			Help:    "Reported placements per successful query",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
		}),
		unmapped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seqmap_unmapped_queries_total",
			Help: "Queries without any placement",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seqmap_cache_hits_total",
			Help: "Queries answered from the alignment cache",
		}),
		skips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seqmap_duplicate_skips_total",
			Help: "Window searches avoided through duplicated reference regions",
		}),
	}
	for _, m := range []prometheus.Collector{
		c.latency, c.builds, c.bases, c.sequences,
		c.alignments, c.unmapped, c.cacheHits, c.skips,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordBuild implements seqmap.MetricsCollector.
func (c *Collector) RecordBuild(sequences int, bases uint64, d time.Duration, err error) {
	c.latency.WithLabelValues("build", status(err)).Observe(d.Seconds())
	c.builds.WithLabelValues(status(err)).Inc()
	if err != nil {
		return
	}
	c.bases.Add(float64(bases))
	c.sequences.Set(float64(sequences))
}

// RecordAlign implements seqmap.MetricsCollector.
func (c *Collector) RecordAlign(alignments int, d time.Duration, err error) {
	c.latency.WithLabelValues("align", status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.alignments.Observe(float64(alignments))
	if alignments == 0 {
		c.unmapped.Inc()
	}
}

// RecordCache implements seqmap.MetricsCollector.
func (c *Collector) RecordCache(hits, skips int64) {
	c.cacheHits.Add(float64(hits))
	c.skips.Add(float64(skips))
}
