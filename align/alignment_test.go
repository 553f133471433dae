package align

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/seqmap/sequence"
)

func TestResult_Cigar(t *testing.T) {
	r := Result{Ops: []Op{OpMatch, OpMatch, OpMismatch, OpInsertion, OpInsertion, OpMatch, OpDeletion}}
	cigar := r.Cigar()
	assert.Equal(t, "2=1X2I1=1D", cigar.String())
	assert.Equal(t, sam.CigarInsertion, cigar[2].Type())
	assert.Equal(t, 6, r.QueryConsumed())
	assert.Equal(t, 5, r.RefConsumed())

	ref, read := cigar.Lengths()
	assert.Equal(t, 5, ref)
	assert.Equal(t, 6, read)

	assert.Empty(t, Result{}.Cigar())
}

func TestSortAndFilter(t *testing.T) {
	refA, err := sequence.FromString("a", 0, "ACGT")
	require.NoError(t, err)
	refB, err := sequence.FromString("b", 1, "ACGT")
	require.NoError(t, err)

	as := []Alignment{
		{Reference: refB, Start: 5, Penalty: 2},
		{Reference: refA, Start: 9, Penalty: 0.5},
		{Reference: refA, Start: 3, Penalty: 2},
		{Reference: refA, Start: 3, Penalty: 0.5, Reverse: true},
		{Reference: refA, Start: 3, Penalty: 0.5},
		{Reference: refA, Start: 1, Penalty: 4},
	}
	SortAlignments(as)

	assert.Equal(t, 3, as[0].Start)
	assert.False(t, as[0].Reverse)
	assert.True(t, as[1].Reverse)
	assert.Equal(t, 9, as[2].Start)
	assert.Equal(t, "a", as[3].Reference.Name)
	assert.Equal(t, "b", as[4].Reference.Name)
	assert.Equal(t, 4.0, as[5].Penalty)

	kept := FilterBySpan(as, 1.5, 0)
	assert.Len(t, kept, 5)
	assert.Len(t, FilterBySpan(as, 1, 0), 3)
	assert.Len(t, FilterBySpan(as, 10, 2), 2)
	assert.Empty(t, FilterBySpan(nil, 1, 0))
}
