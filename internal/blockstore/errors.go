package blockstore

import (
	"errors"
	"fmt"
)

var (
	// ErrBlockSize is returned when a block does not have the configured width.
	ErrBlockSize = errors.New("blockstore: block size mismatch")
	// ErrNegativeLength is returned when a read length is negative.
	ErrNegativeLength = errors.New("blockstore: negative length")
	// ErrCapacityOverflow is returned when growth would exceed the addressable range.
	ErrCapacityOverflow = errors.New("blockstore: capacity overflow")
	// ErrStoreFull is returned when a bounded store has no free index.
	ErrStoreFull = errors.New("blockstore: store full")
	// ErrInvalidConfig is returned for non-positive sizes.
	ErrInvalidConfig = errors.New("blockstore: invalid configuration")
)

// CapacityError describes a rejected growth or allocation.
type CapacityError struct {
	Requested int
	Limit     int
	cause     error
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%v: requested %d, limit %d", e.cause, e.Requested, e.Limit)
}

func (e *CapacityError) Unwrap() error { return e.cause }
