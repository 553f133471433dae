package index

import (
	"runtime"

	"github.com/hupe1980/seqmap/internal/resource"
)

// Default settings.
const (
	DefaultMinLevel            = 3
	DefaultMaxLevel            = 5
	DefaultMaxNumMatches       = 64
	DefaultMaxIndexedPositions = 4096
)

type options struct {
	minLevel            int
	maxLevel            int
	maxNumMatches       int
	maxIndexedPositions int
	workers             int
	rc                  *resource.Controller
}

// Option configures a Builder.
type Option func(*options)

// WithLevels sets the range of pyramid levels that are indexed.
func WithLevels(minLevel, maxLevel int) Option {
	return func(o *options) {
		o.minLevel = minLevel
		o.maxLevel = maxLevel
	}
}

// WithMaxNumMatches sets the occurrence count above which a key is
// uninformative.
func WithMaxNumMatches(n int) Option {
	return func(o *options) {
		o.maxNumMatches = n
	}
}

// WithMaxIndexedPositions bounds how many positions are stored per key.
// Further occurrences are counted but not stored.
func WithMaxIndexedPositions(n int) Option {
	return func(o *options) {
		o.maxIndexedPositions = n
	}
}

// WithWorkers sets how many sequences are processed in parallel.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMemoryController accounts position storage and bounds concurrency.
func WithMemoryController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		minLevel:            DefaultMinLevel,
		maxLevel:            DefaultMaxLevel,
		maxNumMatches:       DefaultMaxNumMatches,
		maxIndexedPositions: DefaultMaxIndexedPositions,
		workers:             runtime.GOMAXPROCS(0),
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}
