package index

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/seqmap/sequence"
)

// Loader refills the tables of an index from previously exported entries.
type Loader struct {
	x *Index
}

// NewLoader returns a loader for an empty index over seqs.
func NewLoader(seqs []*sequence.Sequence, optFns ...Option) (*Loader, error) {
	x, err := newIndex(seqs, applyOptions(optFns))
	if err != nil {
		return nil, err
	}
	return &Loader{x: x}, nil
}

// AddSingle restores a key that occurs once.
func (l *Loader) AddSingle(level int, key, pos uint64) error {
	t := l.x.table(level)
	if t == nil {
		return fmt.Errorf("%w: %d", ErrLevelNotIndexed, level)
	}
	return t.putSingle(key, pos)
}

// AddRepeat restores a key that occurs more than once. The loader takes
// ownership of positions.
func (l *Loader) AddRepeat(level int, key uint64, length int, count uint64, positions *roaring64.Bitmap) error {
	t := l.x.table(level)
	if t == nil {
		return fmt.Errorf("%w: %d", ErrLevelNotIndexed, level)
	}
	t.multis[key] = &multiEntry{positions: positions, count: count, length: uint32(length)}
	return nil
}

// Index returns the filled index. The loader must not be used afterwards.
func (l *Loader) Index() *Index {
	x := l.x
	l.x = nil
	for _, t := range x.tables {
		t.optimize()
	}
	return x
}

// RepeatBitmap returns a copy of the stored positions of a repeated key, or
// nil if key is not repeated at level.
func (x *Index) RepeatBitmap(level int, key uint64) *roaring64.Bitmap {
	t := x.table(level)
	if t == nil {
		return nil
	}
	e, ok := t.multis[key]
	if !ok {
		return nil
	}
	return e.positions.Clone()
}
