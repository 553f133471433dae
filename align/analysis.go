package align

import "math"

// Analysis is the per-attempt working record of an alignment. It holds the
// diagonal prior derived from index hits and the budgets that prune the
// search.
type Analysis struct {
	// PredictedOffset is the expected reference offset of query position 0.
	PredictedOffset int
	// LastCheckedOffset is the last offset an alignment was attempted at.
	LastCheckedOffset int
	// Confident is set when several index hits agree on the offset.
	Confident bool
	// Corridor is the number of gap bases tolerated beyond the length
	// difference of query and reference once the offset is confident.
	Corridor int

	MaxInsertionExtensionPenalty float64
	MaxDeletionExtensionPenalty  float64
	// MaxPenalty is the error-rate ceiling for this query length.
	MaxPenalty float64

	// FreeReferenceStart and FreeReferenceEnd let the alignment begin and
	// end anywhere in the reference window. Reference bases outside the
	// aligned span cost nothing.
	FreeReferenceStart bool
	FreeReferenceEnd   bool

	params   Parameters
	queryLen int
	refLen   int
}

// NewAnalysis returns an analysis for aligning queryLen bases against
// refLen bases.
func NewAnalysis(params Parameters, queryLen, refLen int) *Analysis {
	maxPenalty := params.MaxErrorRate * float64(queryLen)
	return &Analysis{
		LastCheckedOffset:            math.MinInt,
		Corridor:                     max(4, queryLen/10),
		MaxInsertionExtensionPenalty: maxPenalty,
		MaxDeletionExtensionPenalty:  maxPenalty,
		MaxPenalty:                   maxPenalty,
		params:                       params,
		queryLen:                     queryLen,
		refLen:                       refLen,
	}
}

// Confirm records offset as the predicted diagonal and narrows the gap
// budgets to the corridor around it.
func (a *Analysis) Confirm(offset int) {
	a.PredictedOffset = offset
	a.Confident = true

	ins := max(a.queryLen-a.refLen, 0) + a.Corridor
	del := a.Corridor
	if !a.FreeReferenceStart && !a.FreeReferenceEnd {
		del += max(a.refLen-a.queryLen, 0)
	}
	a.MaxInsertionExtensionPenalty = min(a.MaxPenalty, float64(ins)*a.params.InsertionExtensionPenalty)
	a.MaxDeletionExtensionPenalty = min(a.MaxPenalty, float64(del)*a.params.DeletionExtensionPenalty)
}

// Child returns a copy that can be narrowed without affecting a.
func (a *Analysis) Child() *Analysis {
	c := *a
	return &c
}
