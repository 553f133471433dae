package index

import "errors"

var (
	// ErrInvalidLevels is returned when the level range is empty or out of bounds.
	ErrInvalidLevels = errors.New("index: invalid level range")

	// ErrNoSequences is returned when building from an empty reference set.
	ErrNoSequences = errors.New("index: no sequences")

	// ErrLevelNotIndexed is returned when a level outside the indexed range is requested.
	ErrLevelNotIndexed = errors.New("index: level not indexed")
)
