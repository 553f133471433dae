package duplication

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/seqmap/hashblock"
	"github.com/hupe1980/seqmap/index"
)

var (
	// ErrInvalidConfig is returned for non-positive lengths or granularity.
	ErrInvalidConfig = errors.New("duplication: invalid configuration")

	// ErrNoLevels is returned when no indexed level has blocks of a length
	// in the requested range.
	ErrNoLevels = errors.New("duplication: no indexed level in length range")
)

// Key identifies a recorded duplication.
type Key int

// NoKey is returned when a range overlaps no duplication.
const NoKey Key = -1

// Duplication is content of Length bases found at every global position in
// Positions.
type Duplication struct {
	Length    int
	Positions []uint64
}

// Logger is the logging surface used by the detector.
type Logger interface {
	Enabled() bool
	Important(ctx context.Context, msg string, args ...any)
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger that reports the table size after setup.
func WithLogger(l Logger) Option {
	return func(d *Detector) {
		d.logger = l
	}
}

// Detector answers whether a reference range may lie inside a duplicated
// region. The table is computed once on first use; afterwards the detector
// is read-only and safe for concurrent use.
type Detector struct {
	idx         *index.Index
	minLen      int
	maxLen      int
	granularity int
	levels      []int
	logger      Logger

	once    sync.Once
	err     error
	dups    []Duplication
	windows []map[int]*roaring.Bitmap
}

// New returns a detector for duplications of minLen..maxLen bases, recorded
// in windows of granularity bases.
func New(idx *index.Index, minLen, maxLen, granularity int, optFns ...Option) (*Detector, error) {
	if minLen <= 0 || maxLen < minLen || granularity <= 0 {
		return nil, fmt.Errorf("%w: length %d..%d, granularity %d", ErrInvalidConfig, minLen, maxLen, granularity)
	}

	lo, hi := idx.Levels()
	var levels []int
	for _, l := range hashblock.LevelsForLength(minLen, maxLen) {
		if l >= lo && l <= hi {
			levels = append(levels, l)
		}
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: %d..%d", ErrNoLevels, minLen, maxLen)
	}
	slices.Reverse(levels)

	d := &Detector{
		idx:         idx,
		minLen:      minLen,
		maxLen:      maxLen,
		granularity: granularity,
		levels:      levels,
	}
	for _, fn := range optFns {
		fn(d)
	}
	return d, nil
}

// Setup builds the duplication table. Only the first call does work; later
// calls return the first result.
func (d *Detector) Setup(ctx context.Context) error {
	d.once.Do(func() {
		d.err = d.setup(ctx)
	})
	return d.err
}

// WindowNumber returns the window that holds pos.
func (d *Detector) WindowNumber(pos int) int { return pos / d.granularity }

// Granularity returns the window size.
func (d *Detector) Granularity() int { return d.granularity }

// Len returns the number of recorded duplications.
func (d *Detector) Len() int {
	if d.Setup(context.Background()) != nil {
		return 0
	}
	return len(d.dups)
}

// Duplication returns the recorded duplication for k.
func (d *Detector) Duplication(k Key) (Duplication, bool) {
	if d.Setup(context.Background()) != nil || k < 0 || int(k) >= len(d.dups) {
		return Duplication{}, false
	}
	return d.dups[k], true
}

// MayContainDuplicationInRange reports whether [start, end) of sequence
// seqID touches a window holding a duplication, and returns the key of the
// longest such duplication.
func (d *Detector) MayContainDuplicationInRange(seqID, start, end int) (Key, bool) {
	if d.Setup(context.Background()) != nil || seqID < 0 || seqID >= len(d.windows) || end <= start {
		return NoKey, false
	}
	table := d.windows[seqID]
	if len(table) == 0 {
		return NoKey, false
	}
	best := NoKey
	for w := d.WindowNumber(max(start, 0)); w <= d.WindowNumber(end-1); w++ {
		bm, ok := table[w]
		if !ok || bm.IsEmpty() {
			continue
		}
		if k := Key(bm.Minimum()); best == NoKey || k < best {
			best = k
		}
	}
	return best, best != NoKey
}

func (d *Detector) setup(ctx context.Context) error {
	d.windows = make([]map[int]*roaring.Bitmap, len(d.idx.Sequences()))

	var cands []Duplication
	for _, level := range d.levels {
		err := d.idx.ForEachRepeated(level, func(r index.Repeat) bool {
			if r.Length < d.minLen || r.Length > d.maxLen {
				return true
			}
			positions := RemoveDuplicatePositions(r.Positions)
			if len(positions) > 1 {
				cands = append(cands, Duplication{Length: r.Length, Positions: positions})
			}
			return true
		})
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	slices.SortFunc(cands, func(a, b Duplication) int {
		if c := cmp.Compare(b.Length, a.Length); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Positions[0], b.Positions[0]); c != 0 {
			return c
		}
		return cmp.Compare(len(b.Positions), len(a.Positions))
	})

	for i, c := range cands {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if !d.interesting(c) {
			continue
		}
		d.record(Key(len(d.dups)), c)
		d.dups = append(d.dups, c)
	}

	if d.logger != nil && d.logger.Enabled() {
		d.logger.Important(ctx, "duplication table ready",
			"candidates", len(cands), "duplications", len(d.dups), "granularity", d.granularity)
	}
	return nil
}

// interesting reports whether some copy of c is not already inside a
// recorded duplication.
func (d *Detector) interesting(c Duplication) bool {
	for _, p := range c.Positions {
		if !d.covered(p, c.Length) {
			return true
		}
	}
	return false
}

func (d *Detector) covered(pos uint64, length int) bool {
	seqID, off := d.idx.Locate(pos)
	bm, ok := d.windows[seqID][d.WindowNumber(off)]
	if !ok {
		return false
	}
	it := bm.Iterator()
	for it.HasNext() {
		e := d.dups[it.Next()]
		i := sort.Search(len(e.Positions), func(i int) bool { return e.Positions[i] > pos }) - 1
		if i >= 0 && pos+uint64(length) <= e.Positions[i]+uint64(e.Length) {
			return true
		}
	}
	return false
}

func (d *Detector) record(k Key, c Duplication) {
	for _, p := range c.Positions {
		seqID, off := d.idx.Locate(p)
		table := d.windows[seqID]
		if table == nil {
			table = make(map[int]*roaring.Bitmap)
			d.windows[seqID] = table
		}
		for w := d.WindowNumber(off); w <= d.WindowNumber(off+c.Length-1); w++ {
			bm, ok := table[w]
			if !ok {
				bm = roaring.New()
				table[w] = bm
			}
			bm.Add(uint32(k))
		}
	}
}

// RemoveDuplicatePositions sorts positions and drops repeated entries in
// place.
func RemoveDuplicatePositions(positions []uint64) []uint64 {
	slices.Sort(positions)
	return slices.Compact(positions)
}
