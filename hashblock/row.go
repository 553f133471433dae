package hashblock

import (
	"github.com/hupe1980/seqmap/internal/container"
	"github.com/hupe1980/seqmap/internal/hash"
	"github.com/hupe1980/seqmap/sequence"
)

// Row computes the blocks of one level on demand and caches them by start
// position. A Row is not safe for concurrent use.
type Row struct {
	seq   *sequence.Sequence
	spec  *LevelSpec
	below *Row
	cells *container.SegmentedArray[MultiHashBlock]
}

func newRow(seq *sequence.Sequence, spec *LevelSpec, below *Row) *Row {
	return &Row{
		seq:   seq,
		spec:  spec,
		below: below,
		cells: container.NewSegmentedArray[MultiHashBlock](),
	}
}

// Level returns the pyramid level of the row.
func (r *Row) Level() int { return r.spec.Level }

// Spec returns the level spec.
func (r *Row) Spec() *LevelSpec { return r.spec }

// BlockAt returns the block starting at i. The zero value means no block of
// this level starts at i.
func (r *Row) BlockAt(i int) MultiHashBlock {
	if i < 0 || i >= r.seq.Len() {
		return MultiHashBlock{}
	}
	if m, ok := r.cells.Get(uint32(i)); ok {
		return m
	}
	var m MultiHashBlock
	if r.below == nil {
		m = baseBlock(r.seq, i)
	} else {
		m = r.merge(i, 0)
	}
	r.cells.Set(uint32(i), m)
	return m
}

// GappedAt returns the block starting at i whose second child begins gap
// bases after the end of the first. The key equals that of the ungapped
// block with the same keyed content. Level 0 has no gapped form.
func (r *Row) GappedAt(i, gap int) MultiHashBlock {
	if gap == 0 {
		return r.BlockAt(i)
	}
	if r.below == nil || gap < 0 || i < 0 || i >= r.seq.Len() {
		return MultiHashBlock{}
	}
	return r.merge(i, gap)
}

// Next returns the block that starts where b ends. For conditional blocks
// the shortest possibility decides.
func (r *Row) Next(b MultiHashBlock) MultiHashBlock {
	if b.IsZero() {
		return MultiHashBlock{}
	}
	return r.BlockAt(b.MinEnd())
}

// Release drops cached blocks that start below pos in this row and every
// row beneath it. Released blocks are recomputed if requested again.
func (r *Row) Release(pos int) {
	if pos <= 0 {
		return
	}
	for row := r; row != nil; row = row.below {
		row.cells.Release(uint32(pos))
	}
}

func baseBlock(seq *sequence.Sequence, i int) MultiHashBlock {
	c := seq.At(i)
	if !sequence.IsAmbiguous(c) {
		return Single(HashBlock{Start: i, End: i + 1, Key: hash.BaseKey(uint8(c))})
	}
	bases := sequence.Bases(c)
	out := make([]ConditionalHashBlock, 0, len(bases))
	for _, b := range bases {
		out = append(out, ConditionalHashBlock{
			Block:     HashBlock{Start: i, End: i + 1, Key: hash.BaseKey(uint8(b))},
			Condition: Condition(i, b),
		})
	}
	return Multi(out)
}

func (r *Row) merge(i, gap int) MultiHashBlock {
	left := r.below.BlockAt(i)
	if left.IsZero() {
		return MultiHashBlock{}
	}

	var out []ConditionalHashBlock
	for _, l := range left.Possibilities() {
		right := r.below.BlockAt(l.Block.End + gap)
		for _, rc := range right.Possibilities() {
			cond, ok := l.Condition.Merge(rc.Condition)
			if !ok {
				continue
			}
			b := HashBlock{
				Start: i,
				End:   rc.Block.End,
				Key:   hash.Combine(l.Block.Key, rc.Block.Key),
			}
			if gap > 0 {
				b.GapStart = l.Block.End
				b.GapLen = gap
			}
			if !r.spec.Extends(b.Key) {
				out = append(out, ConditionalHashBlock{Block: b, Condition: cond})
				continue
			}
			// A block whose third child runs off the sequence is dropped.
			tail := r.below.BlockAt(rc.Block.End)
			for _, tc := range tail.Possibilities() {
				tcond, ok := cond.Merge(tc.Condition)
				if !ok {
					continue
				}
				ext := b
				ext.End = tc.Block.End
				ext.Key = hash.Combine(b.Key, tc.Block.Key)
				out = append(out, ConditionalHashBlock{Block: ext, Condition: tcond})
			}
		}
		if len(out) > MaxPossibilities {
			return MultiHashBlock{}
		}
	}
	return Multi(out)
}
