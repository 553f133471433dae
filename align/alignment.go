package align

import (
	"cmp"
	"slices"

	"github.com/biogo/hts/sam"

	"github.com/hupe1980/seqmap/sequence"
)

// Query is a read to be mapped.
type Query struct {
	ID       int
	Name     string
	Sequence *sequence.Sequence
}

// Alignment places a query on a reference.
type Alignment struct {
	Reference *sequence.Sequence
	// Start and End delimit the aligned reference window [Start, End).
	Start int
	End   int
	// Reverse is set when the reverse complement of the query aligned.
	Reverse bool
	Penalty float64
	Cigar   sam.Cigar
	// Mismatches holds query offsets of substituted bases, counted on the
	// aligned strand.
	Mismatches []int
	// Duplicate is set when the result was reused from an identical copy of
	// the reference window.
	Duplicate bool
}

func referenceID(a Alignment) int {
	if a.Reference == nil {
		return -1
	}
	return a.Reference.ID
}

// CompareAlignments orders alignments by penalty, then reference, position
// and strand.
func CompareAlignments(a, b Alignment) int {
	if c := cmp.Compare(a.Penalty, b.Penalty); c != 0 {
		return c
	}
	if c := cmp.Compare(referenceID(a), referenceID(b)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	switch {
	case a.Reverse == b.Reverse:
		return 0
	case a.Reverse:
		return 1
	}
	return -1
}

// SortAlignments sorts best penalty first.
func SortAlignments(as []Alignment) {
	slices.SortStableFunc(as, CompareAlignments)
}

// FilterBySpan keeps the alignments of a sorted slice whose penalty is within
// span of the first, and at most maxCount of them when maxCount > 0.
func FilterBySpan(as []Alignment, span float64, maxCount int) []Alignment {
	if len(as) == 0 {
		return as
	}
	limit := as[0].Penalty + span
	n := 0
	for n < len(as) && as[n].Penalty <= limit {
		n++
	}
	if maxCount > 0 {
		n = min(n, maxCount)
	}
	return as[:n]
}
