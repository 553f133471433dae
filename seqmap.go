package seqmap

import (
	"context"
	"strings"
	"time"

	"github.com/hupe1980/seqmap/duplication"
	"github.com/hupe1980/seqmap/index"
	"github.com/hupe1980/seqmap/internal/resource"
	"github.com/hupe1980/seqmap/sequence"
)

// RunContext describes one invocation. It is passed explicitly to the
// components that record provenance, such as SAM headers.
type RunContext struct {
	Version    string
	Invocation []string
	Started    time.Time
}

// NewRunContext returns a run context started now.
func NewRunContext(version string, args []string) RunContext {
	return RunContext{
		Version:    version,
		Invocation: args,
		Started:    time.Now(),
	}
}

// CommandLine returns the invocation joined by spaces.
func (r RunContext) CommandLine() string {
	return strings.Join(r.Invocation, " ")
}

// BuildIndex indexes seqs. The pyramids of different sequences are computed
// in parallel; the returned index is read-only.
func BuildIndex(ctx context.Context, seqs []*sequence.Sequence, optFns ...Option) (*index.Index, error) {
	o := applyOptions(optFns)
	start := time.Now()

	var bases uint64
	for _, s := range seqs {
		bases += uint64(s.Len())
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:     o.memoryLimit,
		MaxBackgroundWorkers: int64(max(o.workers, 1)),
	})

	b := index.NewBuilder(
		index.WithLevels(o.minLevel, o.maxLevel),
		index.WithMaxNumMatches(o.maxBlockMatches),
		index.WithMaxIndexedPositions(o.maxIndexedPositions),
		index.WithWorkers(o.workers),
		index.WithMemoryController(rc),
	)
	b.Add(seqs...)

	idx, err := b.Build(ctx)
	err = translateError(err)

	d := time.Since(start)
	o.metricsCollector.RecordBuild(len(seqs), bases, d, err)
	o.logger.LogBuild(ctx, len(seqs), bases, d, err)
	if err != nil {
		return nil, err
	}
	if o.logger.Enabled() {
		for _, l := range idx.Stats().Levels {
			o.logger.DebugContext(ctx, "index level",
				"level", l.Level,
				"singles", l.Singles,
				"repeats", l.Repeats,
			)
		}
		o.logger.DebugContext(ctx, "index memory", "peak_bytes", rc.PeakMemoryUsage())
	}
	return idx, nil
}

// BuildDuplicationDetector returns a detector for duplications of
// minLen..maxLen bases recorded in windows of granularity bases. The table
// is computed on first use.
func BuildDuplicationDetector(idx *index.Index, minLen, maxLen, granularity int, optFns ...Option) (*duplication.Detector, error) {
	o := applyOptions(optFns)
	d, err := duplication.New(idx, minLen, maxLen, granularity, duplication.WithLogger(o.logger))
	if err != nil {
		return nil, translateError(err)
	}
	return d, nil
}
