package seqmap

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/seqmap/align"
	"github.com/hupe1980/seqmap/cache"
	"github.com/hupe1980/seqmap/duplication"
	"github.com/hupe1980/seqmap/index"
)

// Defaults for options that are not set.
const (
	DefaultWindowSlack   = 16
	DefaultMaxCandidates = 16
)

type options struct {
	logger              *Logger
	metricsCollector    MetricsCollector
	params              align.Parameters
	workers             int
	memoryLimit         int64
	minLevel            int
	maxLevel            int
	maxBlockMatches     int
	maxIndexedPositions int
	windowSlack         int
	maxCandidates       int
	cache               *cache.AlignmentCache
	detector            *duplication.Detector
}

// Option configures index builds and mappers.
type Option func(*options)

// WithLogger configures structured logging. Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := seqmap.NewJSONLogger(slog.LevelInfo)
//	idx, _ := seqmap.BuildIndex(ctx, refs, seqmap.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
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

// WithMetricsCollector configures a metrics collector. Pass nil to disable
// metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithParameters sets the penalty model.
func WithParameters(p align.Parameters) Option {
	return func(o *options) {
		o.params = p
	}
}

// WithWorkers sets the number of goroutines used for index builds and
// query batches.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMemoryLimit bounds the tracked memory of index position storage.
// Zero means no limit.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithIndexLevels sets the pyramid levels stored in the index.
func WithIndexLevels(minLevel, maxLevel int) Option {
	return func(o *options) {
		o.minLevel = minLevel
		o.maxLevel = maxLevel
	}
}

// WithMaxBlockMatches sets how many reference occurrences a block key may
// have before it is ignored as uninformative.
func WithMaxBlockMatches(n int) Option {
	return func(o *options) {
		o.maxBlockMatches = n
	}
}

// WithMaxIndexedPositions bounds the positions stored per block key.
func WithMaxIndexedPositions(n int) Option {
	return func(o *options) {
		o.maxIndexedPositions = n
	}
}

// WithWindowSlack sets the largest diagonal shift between two index hits
// that are still placed in the same reference window.
func WithWindowSlack(n int) Option {
	return func(o *options) {
		o.windowSlack = n
	}
}

// WithMaxCandidates caps the reference windows aligned per query strand.
func WithMaxCandidates(n int) Option {
	return func(o *options) {
		o.maxCandidates = n
	}
}

// WithCache shares an alignment cache between mappers.
func WithCache(c *cache.AlignmentCache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithDuplicationDetector lets a mapper reuse searches across identical
// copies of duplicated reference regions.
func WithDuplicationDetector(d *duplication.Detector) Option {
	return func(o *options) {
		o.detector = d
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector:    NoopMetricsCollector{},
		logger:              NoopLogger(),
		params:              align.DefaultParameters(),
		workers:             runtime.GOMAXPROCS(0),
		minLevel:            index.DefaultMinLevel,
		maxLevel:            index.DefaultMaxLevel,
		maxBlockMatches:     index.DefaultMaxNumMatches,
		maxIndexedPositions: index.DefaultMaxIndexedPositions,
		windowSlack:         DefaultWindowSlack,
		maxCandidates:       DefaultMaxCandidates,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}
