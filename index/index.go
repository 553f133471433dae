package index

import (
	"fmt"
	"sort"

	"github.com/hupe1980/seqmap/hashblock"
	"github.com/hupe1980/seqmap/sequence"
)

// Candidates is the result of a key lookup.
type Candidates struct {
	// Count is the number of occurrences seen while building, which may
	// exceed len(Positions) for saturated keys.
	Count uint64
	// Positions holds global block start positions in ascending order. It is
	// nil when the key is uninformative.
	Positions []uint64
	// Informative is false when Count exceeds the match limit.
	Informative bool
}

// Repeat describes a key that occurs at more than one position.
type Repeat struct {
	Key       uint64
	Length    int
	Count     uint64
	Positions []uint64
}

// LevelStats summarises one level table.
type LevelStats struct {
	Level   int
	Singles int
	Repeats int
}

// Stats summarises an index.
type Stats struct {
	Sequences int
	Bases     uint64
	Levels    []LevelStats
}

// Index is an immutable mapping from block keys to reference positions.
// It is safe for concurrent readers.
type Index struct {
	seqs          []*sequence.Sequence
	starts        []uint64
	total         uint64
	minLevel      int
	maxLevel      int
	maxNumMatches int
	tables        []*table
}

func newIndex(seqs []*sequence.Sequence, o options) (*Index, error) {
	if len(seqs) == 0 {
		return nil, ErrNoSequences
	}
	if o.minLevel < 0 || o.maxLevel < o.minLevel || o.maxLevel >= hashblock.MaxLevels {
		return nil, fmt.Errorf("%w: %d..%d", ErrInvalidLevels, o.minLevel, o.maxLevel)
	}

	x := &Index{
		seqs:          seqs,
		starts:        make([]uint64, len(seqs)),
		minLevel:      o.minLevel,
		maxLevel:      o.maxLevel,
		maxNumMatches: o.maxNumMatches,
	}
	for i, s := range seqs {
		x.starts[i] = x.total
		x.total += uint64(s.Len())
	}
	for l := o.minLevel; l <= o.maxLevel; l++ {
		t, err := newTable(l, x.total, o.maxIndexedPositions, storeOptions(o)...)
		if err != nil {
			return nil, err
		}
		x.tables = append(x.tables, t)
	}
	return x, nil
}

func (x *Index) table(level int) *table {
	if level < x.minLevel || level > x.maxLevel {
		return nil
	}
	return x.tables[level-x.minLevel]
}

// Levels returns the indexed level range.
func (x *Index) Levels() (minLevel, maxLevel int) { return x.minLevel, x.maxLevel }

// MaxNumMatches returns the occurrence count above which keys are uninformative.
func (x *Index) MaxNumMatches() int { return x.maxNumMatches }

// MaxIndexedPositions returns how many positions are stored per repeated
// key.
func (x *Index) MaxIndexedPositions() int { return int(x.tables[0].maxIndexed) }

// Sequences returns the reference sequences in index order.
func (x *Index) Sequences() []*sequence.Sequence { return x.seqs }

// Sequence returns the reference with the given index order position.
func (x *Index) Sequence(id int) *sequence.Sequence { return x.seqs[id] }

// TotalBases returns the combined length of all references.
func (x *Index) TotalBases() uint64 { return x.total }

// Global converts a sequence offset to a global position.
func (x *Index) Global(seqID, offset int) uint64 {
	return x.starts[seqID] + uint64(offset)
}

// Locate converts a global position to a sequence and offset.
func (x *Index) Locate(pos uint64) (seqID, offset int) {
	seqID = sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > pos }) - 1
	return seqID, int(pos - x.starts[seqID])
}

// Lookup returns the positions of key at level. It reports false when the
// level is not indexed or the key never occurs.
func (x *Index) Lookup(level int, key uint64) (Candidates, bool) {
	t := x.table(level)
	if t == nil {
		return Candidates{}, false
	}
	if i, ok := t.singles[key]; ok {
		return Candidates{
			Count:       1,
			Positions:   []uint64{t.position(i)},
			Informative: x.maxNumMatches >= 1,
		}, true
	}
	e, ok := t.multis[key]
	if !ok {
		return Candidates{}, false
	}
	c := Candidates{Count: e.count}
	if e.count <= uint64(x.maxNumMatches) {
		c.Informative = true
		c.Positions = e.positions.ToArray()
	}
	return c, true
}

// ForEachRepeated calls fn for every key at level that occurs more than
// once, until fn returns false.
func (x *Index) ForEachRepeated(level int, fn func(Repeat) bool) error {
	t := x.table(level)
	if t == nil {
		return fmt.Errorf("%w: %d", ErrLevelNotIndexed, level)
	}
	for key, e := range t.multis {
		r := Repeat{
			Key:       key,
			Length:    int(e.length),
			Count:     e.count,
			Positions: e.positions.ToArray(),
		}
		if !fn(r) {
			return nil
		}
	}
	return nil
}

// ForEachSingle calls fn for every key at level that occurs once, until fn
// returns false.
func (x *Index) ForEachSingle(level int, fn func(key, pos uint64) bool) error {
	t := x.table(level)
	if t == nil {
		return fmt.Errorf("%w: %d", ErrLevelNotIndexed, level)
	}
	for key, i := range t.singles {
		if !fn(key, t.position(i)) {
			return nil
		}
	}
	return nil
}

// Stats returns table sizes per level.
func (x *Index) Stats() Stats {
	s := Stats{Sequences: len(x.seqs), Bases: x.total}
	for _, t := range x.tables {
		s.Levels = append(s.Levels, LevelStats{
			Level:   t.level,
			Singles: len(t.singles),
			Repeats: len(t.multis),
		})
	}
	return s
}
