package index

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/seqmap/internal/blockstore"
	"github.com/hupe1980/seqmap/internal/conv"
)

// positionWidth returns how many bytes a global position needs.
func positionWidth(totalBases uint64) int {
	if totalBases <= 1<<32 {
		return blockstore.DirectMaxBytes
	}
	return conv.BytesFor(totalBases - 1)
}

type multiEntry struct {
	positions *roaring64.Bitmap
	count     uint64
	length    uint32
}

// table holds the keys of one level.
type table struct {
	level      int
	width      int
	maxIndexed uint64
	singles    map[uint64]blockstore.Index
	store      blockstore.Store
	multis     map[uint64]*multiEntry
}

func newTable(level int, totalBases uint64, maxIndexed int, bsOpts ...blockstore.Option) (*table, error) {
	width := positionWidth(totalBases)
	maxBlocks := int(min(totalBases, math.MaxUint32))
	store, err := blockstore.New(maxBlocks, width, bsOpts...)
	if err != nil {
		return nil, err
	}
	return &table{
		level:      level,
		width:      width,
		maxIndexed: uint64(max(maxIndexed, 2)),
		singles:    make(map[uint64]blockstore.Index),
		store:      store,
		multis:     make(map[uint64]*multiEntry),
	}, nil
}

func (t *table) position(i blockstore.Index) uint64 {
	return conv.Uint(t.store.Get(i), t.width)
}

func (t *table) putSingle(key, pos uint64) error {
	var buf [8]byte
	conv.PutUint(buf[:], pos, t.width)
	i, err := t.store.Put(buf[:t.width])
	if err != nil {
		return err
	}
	t.singles[key] = i
	return nil
}

func (t *table) add(key, pos uint64, length uint32) error {
	if e, ok := t.multis[key]; ok {
		if e.positions.Contains(pos) {
			return nil
		}
		e.count++
		if e.positions.GetCardinality() < t.maxIndexed {
			e.positions.Add(pos)
		}
		return nil
	}

	i, ok := t.singles[key]
	if !ok {
		return t.putSingle(key, pos)
	}
	prev := t.position(i)
	if prev == pos {
		return nil
	}
	delete(t.singles, key)
	t.store.Clear(i)

	bm := roaring64.New()
	bm.Add(prev)
	bm.Add(pos)
	t.multis[key] = &multiEntry{positions: bm, count: 2, length: length}
	return nil
}

func (t *table) optimize() {
	for _, e := range t.multis {
		e.positions.RunOptimize()
	}
}
