package seqmap

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/biogo/hts/sam"

	"github.com/hupe1980/seqmap/align"
	"github.com/hupe1980/seqmap/cache"
	"github.com/hupe1980/seqmap/duplication"
	"github.com/hupe1980/seqmap/index"
	"github.com/hupe1980/seqmap/internal/workerpool"
	"github.com/hupe1980/seqmap/sequence"
)

// Mapper aligns reads against an index. It is safe for concurrent use.
type Mapper struct {
	idx      *index.Index
	opts     options
	aligner  *align.SkipHighAmbiguity
	cache    *cache.AlignmentCache
	detector *duplication.Detector
	pool     *workerpool.WorkerPool
	closed   atomic.Bool
}

// NewMapper returns a mapper over idx. When no cache is supplied a private
// one is created.
func NewMapper(idx *index.Index, optFns ...Option) (*Mapper, error) {
	if idx == nil || len(idx.Sequences()) == 0 {
		return nil, ErrNoReferences
	}
	o := applyOptions(optFns)
	if err := o.params.Validate(); err != nil {
		return nil, translateError(err)
	}
	if o.windowSlack < 0 || o.maxCandidates < 0 {
		return nil, fmt.Errorf("%w: window slack and candidate cap must not be negative", ErrInvalidParameters)
	}
	if o.detector != nil {
		if err := o.detector.Setup(context.Background()); err != nil {
			return nil, translateError(err)
		}
	}

	c := o.cache
	if c == nil {
		c = cache.NewAlignmentCache()
	}

	return &Mapper{
		idx:      idx,
		opts:     o,
		aligner:  align.NewSkipHighAmbiguity(align.NewPathAligner(o.params), o.logger),
		cache:    c,
		detector: o.detector,
		pool:     workerpool.New(o.workers),
	}, nil
}

// Cache returns the alignment cache used by m.
func (m *Mapper) Cache() *cache.AlignmentCache { return m.cache }

// Close stops the batch workers. It is idempotent.
func (m *Mapper) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	m.pool.Close()
	return nil
}

// queryStats reports how a query was resolved.
type queryStats struct {
	hit   bool
	skips int
}

// Align returns the alignments of q on both strands, best first. A read
// that does not align yields an empty slice and no error.
func (m *Mapper) Align(ctx context.Context, q *align.Query) ([]align.Alignment, error) {
	as, st, err := m.align(ctx, q)
	var hits int64
	if st.hit {
		hits = 1
	}
	m.addHitsAndSkips(hits, int64(st.skips))
	return as, err
}

// addHitsAndSkips forwards counters accumulated over one call or one batch
// to the cache.
func (m *Mapper) addHitsAndSkips(hits, skips int64) {
	if hits > 0 || skips > 0 {
		m.cache.AddHitsAndSkips(hits, skips)
	}
}

func (m *Mapper) align(ctx context.Context, q *align.Query) ([]align.Alignment, queryStats, error) {
	var st queryStats
	if m.closed.Load() {
		return nil, st, ErrClosed
	}
	if q == nil || q.Sequence == nil {
		return nil, st, fmt.Errorf("%w: query without sequence", ErrInvalidParameters)
	}
	start := time.Now()

	key := q.Sequence.String()
	if cached, ok := m.cache.Get(key); ok {
		st.hit = true
		m.opts.metricsCollector.RecordAlign(len(cached.Alignments), time.Since(start), nil)
		return slices.Clone(cached.Alignments), st, nil
	}

	codes := q.Sequence.Codes(0, q.Sequence.Len())
	var out []align.Alignment
	for _, reverse := range []bool{false, true} {
		strand := codes
		if reverse {
			strand = sequence.ReverseComplement(codes)
		}
		as, skips, err := m.alignStrand(ctx, strand, reverse)
		if err != nil {
			err = &QueryError{Query: q.Name, cause: err}
			m.opts.metricsCollector.RecordAlign(0, time.Since(start), err)
			m.opts.logger.LogAlign(ctx, q.Name, 0, err)
			return nil, st, err
		}
		st.skips += skips
		out = append(out, as...)
	}

	align.SortAlignments(out)
	out = slices.CompactFunc(out, func(a, b align.Alignment) bool {
		return a.Reference == b.Reference && a.Start == b.Start && a.Reverse == b.Reverse && a.Penalty == b.Penalty
	})
	out = align.FilterBySpan(out, m.opts.params.MaxPenaltySpan, m.opts.params.MaxNumMatches)
	out = slices.Clip(out)

	m.cache.AddAlignment(key, cache.QueryAlignments{Alignments: out})

	m.opts.metricsCollector.RecordAlign(len(out), time.Since(start), nil)
	m.opts.logger.LogAlign(ctx, q.Name, len(out), nil)
	return slices.Clone(out), st, nil
}

// reusable is a window already searched for the current strand.
type reusable struct {
	codes  []sequence.Code
	result align.Result
	ok     bool
}

func (m *Mapper) alignStrand(ctx context.Context, query []sequence.Code, reverse bool) ([]align.Alignment, int, error) {
	if len(query) == 0 {
		return nil, 0, nil
	}
	cands := clusterHits(collectHits(m.idx, query), m.opts.windowSlack, m.opts.maxCandidates)

	var (
		out   []align.Alignment
		skips int
		seen  map[duplication.Key][]reusable
	)
	for _, c := range cands {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		ref := m.idx.Sequence(c.seqID)
		ws, we := c.window(len(query))
		clipStart := max(-ws, 0)
		clipEnd := max(we-ref.Len(), 0)
		// Indels outside the first and last hit shift the read within the
		// window, so the window is widened and its ends are free.
		pad := m.opts.windowSlack
		ws, we = max(ws-pad, 0), min(we+pad, ref.Len())
		if clipStart+clipEnd >= len(query) || ws >= we {
			continue
		}
		window := ref.Codes(ws, we)
		body := query[clipStart : len(query)-clipEnd]

		dupKey, dup := duplication.NoKey, false
		if m.detector != nil {
			dupKey, dup = m.detector.MayContainDuplicationInRange(c.seqID, ws, we)
		}
		if dup {
			if r, found := findReusable(seen[dupKey], window); found {
				skips++
				if r.ok {
					a := m.placement(ref, ws, reverse, clipStart, clipEnd, r.result)
					a.Duplicate = true
					out = append(out, a)
				}
				continue
			}
		}

		unaligned := float64(clipStart+clipEnd) * m.opts.params.UnalignedPenalty
		maxPenalty := m.opts.params.MaxErrorRate*float64(len(query)) - unaligned
		if maxPenalty < 0 {
			continue
		}
		analysis := align.NewAnalysis(m.opts.params, len(body), len(window))
		analysis.MaxPenalty = maxPenalty
		analysis.MaxInsertionExtensionPenalty = maxPenalty
		analysis.MaxDeletionExtensionPenalty = maxPenalty
		analysis.FreeReferenceStart = true
		analysis.FreeReferenceEnd = true
		if c.votes >= 2 {
			analysis.Confirm(c.firstDiag + clipStart - ws)
		}
		res, ok := m.aligner.Align(body, window, analysis)

		if dup {
			if seen == nil {
				seen = make(map[duplication.Key][]reusable)
			}
			seen[dupKey] = append(seen[dupKey], reusable{codes: window, result: res, ok: ok})
		}
		if ok {
			out = append(out, m.placement(ref, ws, reverse, clipStart, clipEnd, res))
		}
	}
	return out, skips, nil
}

func findReusable(rs []reusable, window []sequence.Code) (reusable, bool) {
	for _, r := range rs {
		if slices.Equal(r.codes, window) {
			return r, true
		}
	}
	return reusable{}, false
}

// placement converts a result for the window starting at ws into an
// alignment. Clipped query ends become soft clips and are charged the
// unaligned penalty.
func (m *Mapper) placement(ref *sequence.Sequence, ws int, reverse bool, clipStart, clipEnd int, res align.Result) align.Alignment {
	cigar := res.Cigar()
	if clipStart > 0 {
		cigar = append(sam.Cigar{sam.NewCigarOp(sam.CigarSoftClipped, clipStart)}, cigar...)
	}
	if clipEnd > 0 {
		cigar = append(cigar, sam.NewCigarOp(sam.CigarSoftClipped, clipEnd))
	}
	var mismatches []int
	for _, x := range res.Mismatches {
		mismatches = append(mismatches, x+clipStart)
	}
	return align.Alignment{
		Reference:  ref,
		Start:      ws + res.RefStart,
		End:        ws + res.RefEnd(),
		Reverse:    reverse,
		Penalty:    res.Penalty + float64(clipStart+clipEnd)*m.opts.params.UnalignedPenalty,
		Cigar:      cigar,
		Mismatches: mismatches,
	}
}

// AlignBatch aligns queries on the mapper's workers. The result slice is
// parallel to queries; a failed query leaves a nil entry and contributes to
// the joined error.
func (m *Mapper) AlignBatch(ctx context.Context, queries []*align.Query) ([][]align.Alignment, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	results := make([][]align.Alignment, len(queries))
	errs := make([]error, len(queries))

	var (
		wg          sync.WaitGroup
		hits, skips atomic.Int64
	)
	for i, q := range queries {
		wg.Add(1)
		err := m.pool.Submit(ctx, func() {
			defer wg.Done()
			as, st, err := m.align(ctx, q)
			results[i], errs[i] = as, err
			if st.hit {
				hits.Add(1)
			}
			skips.Add(int64(st.skips))
		})
		if err != nil {
			wg.Done()
			errs[i] = translateError(err)
		}
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	m.addHitsAndSkips(hits.Load(), skips.Load())
	m.opts.metricsCollector.RecordCache(hits.Load(), skips.Load())
	m.opts.logger.LogBatch(ctx, len(queries), failed, hits.Load(), skips.Load())
	return results, errors.Join(errs...)
}
