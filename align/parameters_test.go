package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameters_Validate(t *testing.T) {
	require.NoError(t, DefaultParameters().Validate())

	tests := []struct {
		name   string
		params Parameters
	}{
		{"negative mutation", DefaultParameters().WithMutationPenalty(-1)},
		{"zero insertion extension", DefaultParameters().WithInsertionPenalties(1, 0)},
		{"negative deletion start", DefaultParameters().WithDeletionPenalties(-1, 1)},
		{"negative error rate", DefaultParameters().WithMaxErrorRate(-0.1)},
		{"no matches", DefaultParameters().WithMaxNumMatches(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.params.Validate(), ErrInvalidParameters)
		})
	}
}

func TestParameters_SettersCopy(t *testing.T) {
	base := DefaultParameters()
	changed := base.WithMaxErrorRate(0.5).WithMaxPenaltySpan(3).WithStartingInsertionStartFree(true)

	assert.Equal(t, 0.1, base.MaxErrorRate)
	assert.Equal(t, 1.0, base.MaxPenaltySpan)
	assert.False(t, base.StartingInsertionStartFree)
	assert.Equal(t, 0.5, changed.MaxErrorRate)
	assert.Equal(t, 3.0, changed.MaxPenaltySpan)
	assert.True(t, changed.StartingInsertionStartFree)
	assert.Equal(t, base, base.Clone())
}

func TestNode_Less(t *testing.T) {
	low := Node{Penalty: 1, X: 1}
	high := Node{Penalty: 2, X: 9}
	assert.True(t, low.Less(high))
	assert.False(t, high.Less(low))

	further := Node{Penalty: 1, X: 5, Y: 1}
	assert.True(t, further.Less(low), "larger x wins ties")

	moreRef := Node{Penalty: 1, X: 5, Y: 3}
	assert.True(t, moreRef.Less(further))

	match := Node{Penalty: 1, X: 5, Y: 3, Move: MoveMatch}
	ins := Node{Penalty: 1, X: 5, Y: 3, Move: MoveInsertion}
	assert.True(t, match.Less(ins))
	assert.False(t, match.Less(match))
}

func TestAnalysis(t *testing.T) {
	params := DefaultParameters()
	a := NewAnalysis(params, 100, 102)
	assert.InDelta(t, 10.0, a.MaxPenalty, 1e-9)
	assert.Equal(t, a.MaxPenalty, a.MaxDeletionExtensionPenalty)
	assert.False(t, a.Confident)

	c := a.Child()
	c.Confirm(42)
	assert.True(t, c.Confident)
	assert.Equal(t, 42, c.PredictedOffset)
	// Corridor of 10 plus the length difference of 2, at 0.5 per base.
	assert.InDelta(t, 6.0, c.MaxDeletionExtensionPenalty, 1e-9)
	assert.InDelta(t, 5.0, c.MaxInsertionExtensionPenalty, 1e-9)

	assert.False(t, a.Confident, "child must not change its parent")
	assert.InDelta(t, 10.0, a.MaxDeletionExtensionPenalty, 1e-9)
}
