package align

import (
	"errors"
	"fmt"
)

// ErrInvalidParameters is returned by Parameters.Validate.
var ErrInvalidParameters = errors.New("align: invalid parameters")

// Parameters is the penalty model. It is a value type: setters return a
// modified copy and never change the receiver.
type Parameters struct {
	MutationPenalty           float64
	InsertionStartPenalty     float64
	InsertionExtensionPenalty float64
	DeletionStartPenalty      float64
	DeletionExtensionPenalty  float64
	// AmbiguityPenalty is added to a diagonal step that matches only
	// through an ambiguity code.
	AmbiguityPenalty float64
	// UnalignedPenalty is charged per query base that overhangs the end of
	// a reference.
	UnalignedPenalty float64
	// MaxErrorRate bounds the penalty of an alignment to this fraction of
	// the query length.
	MaxErrorRate float64
	// MaxPenaltySpan is how far above the best penalty reported alignments
	// and explored search states may be.
	MaxPenaltySpan float64
	// MaxNumMatches caps the number of alignments reported per query.
	MaxNumMatches int
	// StartingInsertionStartFree waives the insertion start penalty for an
	// insertion at the very beginning of the alignment.
	StartingInsertionStartFree bool
}

// DefaultParameters returns the default penalty model.
func DefaultParameters() Parameters {
	return Parameters{
		MutationPenalty:           1,
		InsertionStartPenalty:     1.5,
		InsertionExtensionPenalty: 0.5,
		DeletionStartPenalty:      1.5,
		DeletionExtensionPenalty:  0.5,
		AmbiguityPenalty:          0.1,
		UnalignedPenalty:          0.25,
		MaxErrorRate:              0.1,
		MaxPenaltySpan:            1,
		MaxNumMatches:             8,
	}
}

// Clone returns a copy of p.
func (p Parameters) Clone() Parameters { return p }

// Validate reports the first invalid field.
func (p Parameters) Validate() error {
	penalties := []struct {
		name  string
		value float64
	}{
		{"MutationPenalty", p.MutationPenalty},
		{"InsertionStartPenalty", p.InsertionStartPenalty},
		{"InsertionExtensionPenalty", p.InsertionExtensionPenalty},
		{"DeletionStartPenalty", p.DeletionStartPenalty},
		{"DeletionExtensionPenalty", p.DeletionExtensionPenalty},
		{"AmbiguityPenalty", p.AmbiguityPenalty},
		{"UnalignedPenalty", p.UnalignedPenalty},
		{"MaxErrorRate", p.MaxErrorRate},
		{"MaxPenaltySpan", p.MaxPenaltySpan},
	}
	for _, f := range penalties {
		if f.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidParameters, f.name, f.value)
		}
	}
	if p.InsertionExtensionPenalty == 0 || p.DeletionExtensionPenalty == 0 {
		return fmt.Errorf("%w: gap extension penalties must be positive", ErrInvalidParameters)
	}
	if p.MaxNumMatches < 1 {
		return fmt.Errorf("%w: MaxNumMatches must be at least 1, got %d", ErrInvalidParameters, p.MaxNumMatches)
	}
	return nil
}

// WithMutationPenalty returns a copy with the substitution penalty set.
func (p Parameters) WithMutationPenalty(v float64) Parameters {
	p.MutationPenalty = v
	return p
}

// WithInsertionPenalties returns a copy with the insertion start and
// extension penalties set.
func (p Parameters) WithInsertionPenalties(start, extension float64) Parameters {
	p.InsertionStartPenalty = start
	p.InsertionExtensionPenalty = extension
	return p
}

// WithDeletionPenalties returns a copy with the deletion start and
// extension penalties set.
func (p Parameters) WithDeletionPenalties(start, extension float64) Parameters {
	p.DeletionStartPenalty = start
	p.DeletionExtensionPenalty = extension
	return p
}

// WithMaxErrorRate returns a copy with the error-rate ceiling set.
func (p Parameters) WithMaxErrorRate(v float64) Parameters {
	p.MaxErrorRate = v
	return p
}

// WithMaxPenaltySpan returns a copy with the penalty span set.
func (p Parameters) WithMaxPenaltySpan(v float64) Parameters {
	p.MaxPenaltySpan = v
	return p
}

// WithMaxNumMatches returns a copy with the per-query result cap set.
func (p Parameters) WithMaxNumMatches(n int) Parameters {
	p.MaxNumMatches = n
	return p
}

// WithStartingInsertionStartFree returns a copy with the leading insertion
// waiver set.
func (p Parameters) WithStartingInsertionStartFree(v bool) Parameters {
	p.StartingInsertionStartFree = v
	return p
}
