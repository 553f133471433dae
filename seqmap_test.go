package seqmap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/seqmap/hashblock"
	"github.com/hupe1980/seqmap/sequence"
	"github.com/hupe1980/seqmap/testutil"
)

func mustSequence(t *testing.T, name string, id int, text string) *sequence.Sequence {
	t.Helper()
	s, err := sequence.FromString(name, id, text)
	require.NoError(t, err)
	return s
}

func TestBuildIndex_RepeatedBlock(t *testing.T) {
	ref := mustSequence(t, "ref", 0, "ACGTACGT")
	idx, err := BuildIndex(t.Context(), []*sequence.Sequence{ref}, WithIndexLevels(2, 2))
	require.NoError(t, err)

	b, ok := hashblock.NewPyramid(ref, 2).Level(2).BlockAt(0).Block()
	require.True(t, ok)

	found, ok := idx.Lookup(2, b.Key)
	require.True(t, ok)
	assert.Equal(t, uint64(2), found.Count)
	assert.Equal(t, []uint64{0, 4}, found.Positions)
	assert.True(t, found.Informative)
}

func TestBuildIndex_Errors(t *testing.T) {
	_, err := BuildIndex(t.Context(), nil)
	assert.ErrorIs(t, err, ErrNoReferences)

	ref := mustSequence(t, "ref", 0, testutil.NewRNG(1).Bases(200))
	_, err = BuildIndex(t.Context(), []*sequence.Sequence{ref}, WithIndexLevels(5, 3))
	assert.ErrorIs(t, err, ErrInvalidParameters)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = BuildIndex(ctx, []*sequence.Sequence{ref})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildIndex_Metrics(t *testing.T) {
	mc := &BasicMetricsCollector{}
	ref := mustSequence(t, "ref", 0, testutil.NewRNG(1).Bases(500))

	_, err := BuildIndex(t.Context(), []*sequence.Sequence{ref}, WithMetricsCollector(mc))
	require.NoError(t, err)
	_, err = BuildIndex(t.Context(), nil, WithMetricsCollector(mc))
	require.Error(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.BuildCount)
	assert.Equal(t, int64(1), stats.BuildErrors)
	assert.Equal(t, int64(500), stats.BasesIndexed)
}

func TestBuildDuplicationDetector_Errors(t *testing.T) {
	ref := mustSequence(t, "ref", 0, testutil.NewRNG(1).Bases(500))
	idx, err := BuildIndex(t.Context(), []*sequence.Sequence{ref})
	require.NoError(t, err)

	_, err = BuildDuplicationDetector(idx, 0, 10, 50)
	assert.ErrorIs(t, err, ErrInvalidParameters)
	_, err = BuildDuplicationDetector(idx, 5000, 6000, 50)
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestRunContext(t *testing.T) {
	rc := NewRunContext("1.0.0", []string{"seqmap", "align", "-r", "ref.fa"})
	assert.Equal(t, "seqmap align -r ref.fa", rc.CommandLine())
	assert.False(t, rc.Started.IsZero())
}
