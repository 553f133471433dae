package blockstore

import (
	"fmt"
	"math"

	"github.com/hupe1980/seqmap/internal/conv"
	"github.com/hupe1980/seqmap/internal/resource"
)

// Index identifies a stored block.
type Index uint32

// DirectMaxBytes is the widest block that is encoded directly into its index.
const DirectMaxBytes = 4

// largeThreshold selects the column tier.
const largeThreshold = math.MaxInt32 / 2

// Store is a key→byte-array store for fixed-width blocks.
type Store interface {
	// Put stores b and returns its index. len(b) must equal BytesPerBlock.
	Put(b []byte) (Index, error)
	// Get returns the full block at i.
	Get(i Index) []byte
	// GetN returns the first n bytes of the block at i.
	GetN(i Index, n int) ([]byte, error)
	// GetAt returns a single byte of the block at i.
	GetAt(i Index, offset int) byte
	// Write replaces one byte of the block at i and returns the block's index,
	// which differs from i only for the direct tier.
	Write(i Index, offset int, v byte) (Index, error)
	// Clear releases i so a later Put may reuse it.
	Clear(i Index)
	// Len returns the number of live blocks.
	Len() int
	// BytesPerBlock returns the configured block width.
	BytesPerBlock() int
}

// Option configures New.
type Option func(*options)

type options struct {
	rc            *resource.Controller
	initialBlocks int
}

// WithMemoryController accounts growth against rc.
func WithMemoryController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithInitialBlocks preallocates room for n blocks.
func WithInitialBlocks(n int) Option {
	return func(o *options) {
		o.initialBlocks = n
	}
}

// New returns the store tier suited to maxBlocks blocks of bytesPerBlock bytes.
func New(maxBlocks, bytesPerBlock int, optFns ...Option) (Store, error) {
	if maxBlocks <= 0 || bytesPerBlock <= 0 {
		return nil, fmt.Errorf("%w: maxBlocks=%d bytesPerBlock=%d", ErrInvalidConfig, maxBlocks, bytesPerBlock)
	}
	if uint64(maxBlocks) > math.MaxUint32+1 {
		return nil, &CapacityError{Requested: maxBlocks, Limit: math.MaxUint32 + 1, cause: ErrCapacityOverflow}
	}

	var o options
	for _, fn := range optFns {
		fn(&o)
	}
	o.initialBlocks = min(o.initialBlocks, maxBlocks)

	if bytesPerBlock <= DirectMaxBytes {
		return &DirectStore{width: bytesPerBlock}, nil
	}

	total, err := conv.MulInt(maxBlocks, bytesPerBlock)
	if err != nil || total > largeThreshold {
		return newColumnStore(maxBlocks, bytesPerBlock, o)
	}
	return newRowStore(maxBlocks, bytesPerBlock, o)
}

// DirectStore interprets up to four block bytes as the index itself.
type DirectStore struct {
	width int
}

// Put implements Store.
func (s *DirectStore) Put(b []byte) (Index, error) {
	if len(b) != s.width {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrBlockSize, len(b), s.width)
	}
	return Index(conv.Uint(b, s.width)), nil
}

// Get implements Store.
func (s *DirectStore) Get(i Index) []byte {
	out := make([]byte, s.width)
	conv.PutUint(out, uint64(i), s.width)
	return out
}

// GetN implements Store.
func (s *DirectStore) GetN(i Index, n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	return s.Get(i)[:min(n, s.width)], nil
}

// GetAt implements Store.
func (s *DirectStore) GetAt(i Index, offset int) byte {
	return byte(uint32(i) >> (8 * offset))
}

// Write implements Store.
func (s *DirectStore) Write(i Index, offset int, v byte) (Index, error) {
	if offset < 0 || offset >= s.width {
		return i, fmt.Errorf("%w: offset %d", ErrBlockSize, offset)
	}
	shift := 8 * offset
	return Index(uint32(i)&^(0xFF<<shift) | uint32(v)<<shift), nil
}

// Clear implements Store. Direct blocks own no storage.
func (s *DirectStore) Clear(Index) {}

// Len implements Store. Direct blocks are never counted.
func (s *DirectStore) Len() int { return 0 }

// BytesPerBlock implements Store.
func (s *DirectStore) BytesPerBlock() int { return s.width }

// allocator hands out dense indexes and recycles cleared ones.
type allocator struct {
	maxBlocks int
	next      int
	free      []Index
	live      int
}

func (a *allocator) alloc() (Index, bool, error) {
	if n := len(a.free); n > 0 {
		i := a.free[n-1]
		a.free = a.free[:n-1]
		a.live++
		return i, true, nil
	}
	if a.next >= a.maxBlocks {
		return 0, false, &CapacityError{Requested: a.next + 1, Limit: a.maxBlocks, cause: ErrStoreFull}
	}
	i := Index(a.next)
	a.next++
	a.live++
	return i, false, nil
}

func (a *allocator) release(i Index) {
	if int(i) >= a.next {
		return
	}
	a.free = append(a.free, i)
	a.live--
}

// RowStore keeps each block as a contiguous row in one buffer.
type RowStore struct {
	width int
	rows  *ByteArrayList
	alloc allocator
}

func newRowStore(maxBlocks, width int, o options) (*RowStore, error) {
	rows, err := NewByteArrayList(o.initialBlocks*width, o.rc)
	if err != nil {
		return nil, err
	}
	return &RowStore{
		width: width,
		rows:  rows,
		alloc: allocator{maxBlocks: maxBlocks},
	}, nil
}

// Put implements Store.
func (s *RowStore) Put(b []byte) (Index, error) {
	if len(b) != s.width {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrBlockSize, len(b), s.width)
	}
	i, reused, err := s.alloc.alloc()
	if err != nil {
		return 0, err
	}
	if !reused {
		if err := s.rows.Resize((int(i) + 1) * s.width); err != nil {
			s.alloc.next--
			s.alloc.live--
			return 0, err
		}
	}
	off := int(i) * s.width
	copy(s.rows.Slice(off, off+s.width), b)
	return i, nil
}

// Get implements Store.
func (s *RowStore) Get(i Index) []byte {
	off := int(i) * s.width
	return s.rows.Slice(off, off+s.width)
}

// GetN implements Store.
func (s *RowStore) GetN(i Index, n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	off := int(i) * s.width
	return s.rows.Slice(off, off+min(n, s.width)), nil
}

// GetAt implements Store.
func (s *RowStore) GetAt(i Index, offset int) byte {
	return s.rows.Get(int(i)*s.width + offset)
}

// Write implements Store.
func (s *RowStore) Write(i Index, offset int, v byte) (Index, error) {
	if offset < 0 || offset >= s.width {
		return i, fmt.Errorf("%w: offset %d", ErrBlockSize, offset)
	}
	s.rows.Set(int(i)*s.width+offset, v)
	return i, nil
}

// Clear implements Store.
func (s *RowStore) Clear(i Index) { s.alloc.release(i) }

// Len implements Store.
func (s *RowStore) Len() int { return s.alloc.live }

// BytesPerBlock implements Store.
func (s *RowStore) BytesPerBlock() int { return s.width }

// ColumnStore keeps one growable column per in-block offset.
type ColumnStore struct {
	width   int
	columns []*ByteArrayList
	alloc   allocator
}

func newColumnStore(maxBlocks, width int, o options) (*ColumnStore, error) {
	s := &ColumnStore{
		width:   width,
		columns: make([]*ByteArrayList, width),
		alloc:   allocator{maxBlocks: maxBlocks},
	}
	for k := range s.columns {
		col, err := NewByteArrayList(o.initialBlocks, o.rc)
		if err != nil {
			return nil, err
		}
		s.columns[k] = col
	}
	return s, nil
}

// Put implements Store.
func (s *ColumnStore) Put(b []byte) (Index, error) {
	if len(b) != s.width {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrBlockSize, len(b), s.width)
	}
	i, reused, err := s.alloc.alloc()
	if err != nil {
		return 0, err
	}
	if !reused {
		for _, col := range s.columns {
			if err := col.Resize(int(i) + 1); err != nil {
				s.alloc.next--
				s.alloc.live--
				return 0, err
			}
		}
	}
	for k, col := range s.columns {
		col.Set(int(i), b[k])
	}
	return i, nil
}

// Get implements Store.
func (s *ColumnStore) Get(i Index) []byte {
	out := make([]byte, s.width)
	for k, col := range s.columns {
		out[k] = col.Get(int(i))
	}
	return out
}

// GetN implements Store.
func (s *ColumnStore) GetN(i Index, n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	out := make([]byte, min(n, s.width))
	for k := range out {
		out[k] = s.columns[k].Get(int(i))
	}
	return out, nil
}

// GetAt implements Store.
func (s *ColumnStore) GetAt(i Index, offset int) byte {
	return s.columns[offset].Get(int(i))
}

// Write implements Store.
func (s *ColumnStore) Write(i Index, offset int, v byte) (Index, error) {
	if offset < 0 || offset >= s.width {
		return i, fmt.Errorf("%w: offset %d", ErrBlockSize, offset)
	}
	s.columns[offset].Set(int(i), v)
	return i, nil
}

// Clear implements Store.
func (s *ColumnStore) Clear(i Index) { s.alloc.release(i) }

// Len implements Store.
func (s *ColumnStore) Len() int { return s.alloc.live }

// BytesPerBlock implements Store.
func (s *ColumnStore) BytesPerBlock() int { return s.width }
