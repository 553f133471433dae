// Package container implements container data structures.
package container

import (
	"sync"
	"sync/atomic"
)

const (
	// segmentBits determines the size of each segment.
	// 12 bits = 4096 items per segment.
	segmentBits = 12
	segmentSize = 1 << segmentBits
	segmentMask = segmentSize - 1
)

// SegmentedArray is a sparse array addressed by uint32 that allocates
// fixed-size segments on first write. Segments that lie entirely below a
// watermark can be released, which lets a caller stream forward over a
// long coordinate space while keeping only a bounded window resident.
//
// Reads are lock-free and may run concurrently with each other. Writers
// must be serialized by the caller.
type SegmentedArray[T any] struct {
	segments atomic.Pointer[[]*Segment[T]]
	mu       sync.Mutex // Protects growth and release
	live     atomic.Int64
	released atomic.Uint32 // first segment index that is not released
}

// Segment is a fixed-size array of items.
type Segment[T any] struct {
	items [segmentSize]T
	set   [segmentSize / 64]uint64
}

// NewSegmentedArray creates a new SegmentedArray.
func NewSegmentedArray[T any]() *SegmentedArray[T] {
	sa := &SegmentedArray[T]{}
	segments := make([]*Segment[T], 0)
	sa.segments.Store(&segments)
	return sa
}

// Get returns the item at the given index and whether it was set.
// Released or never-written indexes report false.
func (sa *SegmentedArray[T]) Get(index uint32) (T, bool) {
	var zero T
	segments := sa.segments.Load()
	segIdx := int(index >> segmentBits)
	if segments == nil || segIdx >= len(*segments) {
		return zero, false
	}
	seg := (*segments)[segIdx]
	if seg == nil {
		return zero, false
	}
	off := index & segmentMask
	if seg.set[off>>6]&(1<<(off&63)) == 0 {
		return zero, false
	}
	return seg.items[off], true
}

// Set stores value at index, allocating its segment if needed. Writes
// below the release watermark are dropped.
func (sa *SegmentedArray[T]) Set(index uint32, value T) {
	segIdx := int(index >> segmentBits)
	if uint32(segIdx) < sa.released.Load() {
		return
	}

	segments := sa.segments.Load()
	if segments != nil && segIdx < len(*segments) && (*segments)[segIdx] != nil {
		put((*segments)[segIdx], index, value)
		return
	}

	sa.mu.Lock()
	defer sa.mu.Unlock()

	segments = sa.segments.Load()
	var current []*Segment[T]
	if segments != nil {
		current = *segments
	}
	if segIdx < len(current) && current[segIdx] != nil {
		put(current[segIdx], index, value)
		return
	}

	next := current
	if segIdx >= len(next) {
		grown := make([]*Segment[T], segIdx+1)
		copy(grown, next)
		next = grown
	}
	if next[segIdx] == nil {
		next[segIdx] = &Segment[T]{}
		sa.live.Add(1)
	}
	put(next[segIdx], index, value)
	sa.segments.Store(&next)
}

func put[T any](seg *Segment[T], index uint32, value T) {
	off := index & segmentMask
	seg.items[off] = value
	seg.set[off>>6] |= 1 << (off & 63)
}

// Release frees every segment whose items all lie below index.
// Released positions are never allocated again.
func (sa *SegmentedArray[T]) Release(index uint32) {
	upTo := index >> segmentBits
	if upTo <= sa.released.Load() {
		return
	}

	sa.mu.Lock()
	defer sa.mu.Unlock()

	segments := sa.segments.Load()
	if segments == nil {
		return
	}
	from := sa.released.Load()
	if upTo <= from {
		return
	}
	next := make([]*Segment[T], len(*segments))
	copy(next, *segments)
	for i := int(from); i < int(upTo) && i < len(next); i++ {
		if next[i] != nil {
			next[i] = nil
			sa.live.Add(-1)
		}
	}
	sa.released.Store(upTo)
	sa.segments.Store(&next)
}

// LiveSegments returns the number of allocated segments.
func (sa *SegmentedArray[T]) LiveSegments() int {
	return int(sa.live.Load())
}

// SegmentSize returns the number of items per segment.
func SegmentSize() int { return segmentSize }
