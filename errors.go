package seqmap

import (
	"errors"
	"fmt"

	"github.com/hupe1980/seqmap/align"
	"github.com/hupe1980/seqmap/duplication"
	"github.com/hupe1980/seqmap/index"
	"github.com/hupe1980/seqmap/internal/blockstore"
	"github.com/hupe1980/seqmap/internal/resource"
	"github.com/hupe1980/seqmap/internal/workerpool"
)

var (
	// ErrInvalidParameters is returned for an invalid penalty model or option.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrNoReferences is returned when building an index without sequences.
	ErrNoReferences = errors.New("no reference sequences")

	// ErrCapacityExceeded is returned when index storage outgrows its
	// addressable size. The build cannot continue.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrMemoryLimitExceeded is returned when the configured memory limit
	// is reached.
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

	// ErrClosed is returned by a Mapper after Close.
	ErrClosed = errors.New("mapper closed")
)

// QueryError reports a failure while aligning one query.
//
// The original underlying error can be accessed via errors.Unwrap.
type QueryError struct {
	Query string
	cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q: %v", e.Query, e.cause)
}

func (e *QueryError) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, index.ErrNoSequences):
		return fmt.Errorf("%w: %w", ErrNoReferences, err)
	case errors.Is(err, index.ErrInvalidLevels),
		errors.Is(err, align.ErrInvalidParameters),
		errors.Is(err, duplication.ErrInvalidConfig),
		errors.Is(err, duplication.ErrNoLevels):
		return fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	case errors.Is(err, blockstore.ErrCapacityOverflow), errors.Is(err, blockstore.ErrStoreFull):
		return fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
	case errors.Is(err, resource.ErrMemoryLimitExceeded):
		return fmt.Errorf("%w: %w", ErrMemoryLimitExceeded, err)
	case errors.Is(err, workerpool.ErrClosed):
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	return err
}
