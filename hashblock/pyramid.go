package hashblock

import (
	"context"
	"fmt"
	"slices"

	"github.com/hupe1980/seqmap/internal/container"
	"github.com/hupe1980/seqmap/sequence"
)

// Pyramid exposes the levels of one sequence. Rows are created on first
// request. A Pyramid is not safe for concurrent use.
type Pyramid struct {
	seq      *sequence.Sequence
	maxLevel int
	rows     []*Row
}

// NewPyramid returns a pyramid over seq with levels 0..maxLevel.
func NewPyramid(seq *sequence.Sequence, maxLevel int) *Pyramid {
	maxLevel = min(max(maxLevel, 0), MaxLevels-1)
	return &Pyramid{
		seq:      seq,
		maxLevel: maxLevel,
		rows:     make([]*Row, maxLevel+1),
	}
}

// Sequence returns the underlying sequence.
func (p *Pyramid) Sequence() *sequence.Sequence { return p.seq }

// MaxLevel returns the highest level the pyramid can expose.
func (p *Pyramid) MaxLevel() int { return p.maxLevel }

// Level returns the row for level k, building the rows beneath it first.
// It returns nil when k is out of range or the sequence is too short to hold
// a single block of that level.
func (p *Pyramid) Level(k int) *Row {
	if k < 0 || k > p.maxLevel {
		return nil
	}
	spec := Spec(k)
	if spec.MinLen > p.seq.Len() {
		return nil
	}
	if p.rows[k] == nil {
		var below *Row
		if k > 0 {
			below = p.Level(k - 1)
		}
		p.rows[k] = newRow(p.seq, spec, below)
	}
	return p.rows[k]
}

// Stream walks every position once and hands the blocks of the requested
// levels to sink, seqID identifying the sequence. Cached blocks are
// released as the walk moves past them.
func (p *Pyramid) Stream(ctx context.Context, sink Sink, seqID int, levels ...int) error {
	levels = slices.Clone(levels)
	slices.Sort(levels)
	levels = slices.Compact(levels)

	rows := make([]*Row, 0, len(levels))
	bufs := make([]*Buffer, 0, len(levels))
	for _, l := range levels {
		if l < 0 || l > p.maxLevel {
			return fmt.Errorf("hashblock: level %d outside 0..%d", l, p.maxLevel)
		}
		row := p.Level(l)
		if row == nil {
			continue
		}
		rows = append(rows, row)
		bufs = append(bufs, NewBuffer(sink, seqID, l))
	}
	if len(rows) == 0 {
		return nil
	}
	top := rows[len(rows)-1]

	step := container.SegmentSize()
	for i := range p.seq.Len() {
		if i > 0 && i%step == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			top.Release(i)
		}
		for j, row := range rows {
			m := row.BlockAt(i)
			if m.IsZero() {
				continue
			}
			if err := bufs[j].Add(m); err != nil {
				return err
			}
		}
	}
	for _, b := range bufs {
		if err := b.Flush(); err != nil {
			return err
		}
	}
	top.Release(p.seq.Len())
	return nil
}
