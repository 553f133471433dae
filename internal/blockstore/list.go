package blockstore

import (
	"math"

	"github.com/hupe1980/seqmap/internal/resource"
)

// MaxCapacity is the largest buffer a ByteArrayList may allocate.
const MaxCapacity = math.MaxInt32

// ByteArrayList is a growable byte buffer with checked growth.
type ByteArrayList struct {
	buf    []byte
	maxCap int
	rc     *resource.Controller
}

// NewByteArrayList returns a list with the given initial capacity.
func NewByteArrayList(initial int, rc *resource.Controller) (*ByteArrayList, error) {
	l := &ByteArrayList{maxCap: MaxCapacity, rc: rc}
	if initial > 0 {
		if err := l.Grow(initial); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Len returns the number of bytes in use.
func (l *ByteArrayList) Len() int { return len(l.buf) }

// Cap returns the allocated capacity.
func (l *ByteArrayList) Cap() int { return cap(l.buf) }

// Get returns the byte at i.
func (l *ByteArrayList) Get(i int) byte { return l.buf[i] }

// Set overwrites the byte at i.
func (l *ByteArrayList) Set(i int, v byte) { l.buf[i] = v }

// Slice returns a read-only view of [i, j).
func (l *ByteArrayList) Slice(i, j int) []byte { return l.buf[i:j:j] }

// Append adds p to the end of the list.
func (l *ByteArrayList) Append(p ...byte) error {
	if err := l.Resize(len(l.buf) + len(p)); err != nil {
		return err
	}
	copy(l.buf[len(l.buf)-len(p):], p)
	return nil
}

// Resize sets the length to n, zero-filling new bytes.
func (l *ByteArrayList) Resize(n int) error {
	if n < 0 {
		return ErrNegativeLength
	}
	if n > cap(l.buf) {
		if err := l.Grow(n); err != nil {
			return err
		}
	}
	old := len(l.buf)
	l.buf = l.buf[:n]
	if n > old {
		clear(l.buf[old:])
	}
	return nil
}

// Grow makes room for at least minCap bytes, growing by roughly 10%.
func (l *ByteArrayList) Grow(minCap int) error {
	oldCap := cap(l.buf)
	if minCap <= oldCap {
		return nil
	}
	if minCap > l.maxCap {
		return &CapacityError{Requested: minCap, Limit: l.maxCap, cause: ErrCapacityOverflow}
	}

	newCap := oldCap + oldCap/10
	if newCap <= oldCap {
		newCap = oldCap + 1
	}
	// newCap can only wrap when oldCap is near MaxInt; clamp either way.
	if newCap < minCap || newCap < 0 {
		newCap = minCap
	}
	if newCap > l.maxCap {
		newCap = l.maxCap
	}

	if err := l.rc.AcquireMemory(int64(newCap - oldCap)); err != nil {
		return err
	}
	buf := make([]byte, len(l.buf), newCap)
	copy(buf, l.buf)
	l.buf = buf
	return nil
}

// Free drops the buffer and returns its reservation.
func (l *ByteArrayList) Free() {
	l.rc.ReleaseMemory(int64(cap(l.buf)))
	l.buf = nil
}
