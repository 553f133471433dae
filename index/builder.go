package index

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/seqmap/hashblock"
	"github.com/hupe1980/seqmap/internal/blockstore"
	"github.com/hupe1980/seqmap/sequence"
)

// Builder collects reference sequences and builds an Index.
type Builder struct {
	opts options
	seqs []*sequence.Sequence
}

// NewBuilder returns an empty builder.
func NewBuilder(optFns ...Option) *Builder {
	return &Builder{opts: applyOptions(optFns)}
}

// Add appends a reference. Sequences are numbered in the order they are added.
func (b *Builder) Add(seqs ...*sequence.Sequence) {
	b.seqs = append(b.seqs, seqs...)
}

// Len returns the number of added references.
func (b *Builder) Len() int { return len(b.seqs) }

func storeOptions(o options) []blockstore.Option {
	if o.rc == nil {
		return nil
	}
	return []blockstore.Option{blockstore.WithMemoryController(o.rc)}
}

// entry is one keyed occurrence produced by a pyramid.
type entry struct {
	key    uint64
	pos    uint64
	length uint32
}

type batch struct {
	level   int
	entries []entry
}

// producer turns pyramid blocks of one sequence into batches of global
// positions.
type producer struct {
	ctx   context.Context
	start uint64
	out   chan<- batch
}

func (p *producer) AddSingles(_, level int, blocks []hashblock.HashBlock) error {
	entries := make([]entry, len(blocks))
	for i, b := range blocks {
		entries[i] = entry{key: b.Key, pos: p.start + uint64(b.Start), length: uint32(b.Len())}
	}
	return p.send(batch{level: level, entries: entries})
}

func (p *producer) AddMultis(_, level int, blocks []hashblock.MultiHashBlock) error {
	entries := make([]entry, 0, len(blocks)*2)
	for _, m := range blocks {
		for _, c := range m.Possibilities() {
			entries = append(entries, entry{
				key:    c.Block.Key,
				pos:    p.start + uint64(c.Block.Start),
				length: uint32(c.Block.Len()),
			})
		}
	}
	return p.send(batch{level: level, entries: entries})
}

func (p *producer) send(b batch) error {
	select {
	case p.out <- b:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Build computes the pyramid of every reference in parallel and fills the
// level tables. Table writes happen on a single goroutine.
func (b *Builder) Build(ctx context.Context) (*Index, error) {
	x, err := newIndex(b.seqs, b.opts)
	if err != nil {
		return nil, err
	}

	levels := make([]int, 0, x.maxLevel-x.minLevel+1)
	for l := x.minLevel; l <= x.maxLevel; l++ {
		levels = append(levels, l)
	}

	batches := make(chan batch, 4*max(b.opts.workers, 1))
	consumed := make(chan error, 1)
	go func() {
		var cerr error
		for bt := range batches {
			if cerr != nil {
				continue
			}
			t := x.table(bt.level)
			for _, e := range bt.entries {
				if cerr = t.add(e.key, e.pos, e.length); cerr != nil {
					break
				}
			}
		}
		consumed <- cerr
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.opts.workers, 1))
	for id, seq := range b.seqs {
		g.Go(func() error {
			rc := b.opts.rc
			if err := rc.AcquireBackground(gctx); err != nil {
				return err
			}
			defer rc.ReleaseBackground()

			p := hashblock.NewPyramid(seq, x.maxLevel)
			prod := &producer{ctx: gctx, start: x.starts[id], out: batches}
			if err := p.Stream(gctx, prod, id, levels...); err != nil {
				return fmt.Errorf("index: sequence %q: %w", seq.Name, err)
			}
			return nil
		})
	}
	err = g.Wait()
	close(batches)
	if cerr := <-consumed; cerr != nil {
		return nil, fmt.Errorf("index: store positions: %w", cerr)
	}
	if err != nil {
		return nil, err
	}

	for _, t := range x.tables {
		t.optimize()
	}
	return x, nil
}
