package seqmap

import (
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/seqmap/align"
	"github.com/hupe1980/seqmap/cache"
	"github.com/hupe1980/seqmap/index"
	"github.com/hupe1980/seqmap/sequence"
	"github.com/hupe1980/seqmap/testutil"
)

type fixture struct {
	rng *testutil.RNG
	ref string
	idx *index.Index
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rng := testutil.NewRNG(42)
	ref := rng.Bases(3000)
	idx, err := BuildIndex(t.Context(), []*sequence.Sequence{mustSequence(t, "chr1", 0, ref)}, WithWorkers(2))
	require.NoError(t, err)
	return &fixture{rng: rng, ref: ref, idx: idx}
}

func (f *fixture) mapper(t *testing.T, opts ...Option) *Mapper {
	t.Helper()
	m, err := NewMapper(f.idx, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func query(t *testing.T, name, text string) *align.Query {
	t.Helper()
	return &align.Query{Name: name, Sequence: mustSequence(t, name, 0, text)}
}

func TestMapper_ExactRead(t *testing.T) {
	f := newFixture(t)
	m := f.mapper(t)

	as, err := m.Align(t.Context(), query(t, "r1", f.ref[1000:1100]))
	require.NoError(t, err)
	require.Len(t, as, 1)

	a := as[0]
	assert.Equal(t, "chr1", a.Reference.Name)
	assert.Equal(t, 1000, a.Start)
	assert.Equal(t, 1100, a.End)
	assert.False(t, a.Reverse)
	assert.False(t, a.Duplicate)
	assert.Zero(t, a.Penalty)
	assert.Equal(t, "100=", a.Cigar.String())
	assert.Empty(t, a.Mismatches)
}

func TestMapper_Substitution(t *testing.T) {
	f := newFixture(t)
	m := f.mapper(t)

	read := testutil.SubstituteAt(f.ref[1000:1100], 50)
	as, err := m.Align(t.Context(), query(t, "r1", read))
	require.NoError(t, err)
	require.NotEmpty(t, as)

	a := as[0]
	assert.Equal(t, 1000, a.Start)
	assert.InDelta(t, 1.0, a.Penalty, 1e-9)
	assert.Equal(t, "50=1X49=", a.Cigar.String())
	assert.Equal(t, []int{50}, a.Mismatches)
}

func TestMapper_ReverseStrand(t *testing.T) {
	f := newFixture(t)
	m := f.mapper(t)

	read := testutil.ReverseComplement(f.ref[2000:2100])
	as, err := m.Align(t.Context(), query(t, "r1", read))
	require.NoError(t, err)
	require.Len(t, as, 1)

	assert.True(t, as[0].Reverse)
	assert.Equal(t, 2000, as[0].Start)
	assert.Zero(t, as[0].Penalty)
	assert.Equal(t, "100=", as[0].Cigar.String())
}

func TestMapper_Deletion(t *testing.T) {
	f := newFixture(t)
	m := f.mapper(t)

	read := testutil.Delete(f.ref[1000:1102], 50, 2)
	require.Len(t, read, 100)

	as, err := m.Align(t.Context(), query(t, "r1", read))
	require.NoError(t, err)
	require.NotEmpty(t, as)

	a := as[0]
	assert.Equal(t, 1000, a.Start)
	assert.Equal(t, 1102, a.End)
	assert.InDelta(t, 2.5, a.Penalty, 1e-9)
	refLen, readLen := a.Cigar.Lengths()
	assert.Equal(t, 102, refLen)
	assert.Equal(t, 100, readLen)
}

func TestMapper_Insertion(t *testing.T) {
	f := newFixture(t)
	m := f.mapper(t)

	read := testutil.Insert(f.ref[1000:1098], 50, "GT")
	require.Len(t, read, 100)

	as, err := m.Align(t.Context(), query(t, "r1", read))
	require.NoError(t, err)
	require.NotEmpty(t, as)

	a := as[0]
	assert.Equal(t, 1000, a.Start)
	assert.Equal(t, 1098, a.End)
	assert.InDelta(t, 2.5, a.Penalty, 1e-9)
	refLen, readLen := a.Cigar.Lengths()
	assert.Equal(t, 98, refLen)
	assert.Equal(t, 100, readLen)
}

// repeatedBase returns n copies of a base that differs from every excluded
// base.
func repeatedBase(n int, excluded ...byte) string {
	for _, b := range []byte("ACGT") {
		if !slices.Contains(excluded, b) {
			return strings.Repeat(string(b), n)
		}
	}
	panic("all bases excluded")
}

func TestMapper_InsertionNearReadEnds(t *testing.T) {
	f := newFixture(t)
	m := f.mapper(t, WithParameters(align.DefaultParameters().WithMutationPenalty(2)))

	tests := []struct {
		name  string
		read  string
		cigar string
	}{
		{
			name:  "start",
			read:  testutil.Insert(f.ref[1000:1097], 3, repeatedBase(3, f.ref[1001], f.ref[1002], f.ref[1003])),
			cigar: "3=3I94=",
		},
		{
			name:  "end",
			read:  testutil.Insert(f.ref[1000:1097], 96, repeatedBase(3, f.ref[1095], f.ref[1096], f.ref[1097])),
			cigar: "96=3I1=",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Len(t, tt.read, 100)

			as, err := m.Align(t.Context(), query(t, "r1", tt.read))
			require.NoError(t, err)
			require.NotEmpty(t, as)

			a := as[0]
			assert.False(t, a.Reverse)
			assert.Equal(t, 1000, a.Start)
			assert.Equal(t, 1097, a.End)
			assert.InDelta(t, 3.0, a.Penalty, 1e-9)
			assert.Equal(t, tt.cigar, a.Cigar.String())
			assert.Empty(t, a.Mismatches)
		})
	}
}

func TestMapper_OverhangIsSoftClipped(t *testing.T) {
	f := newFixture(t)
	m := f.mapper(t)

	read := f.ref[2940:] + "AAAAA"
	as, err := m.Align(t.Context(), query(t, "r1", read))
	require.NoError(t, err)
	require.NotEmpty(t, as)

	a := as[0]
	assert.Equal(t, 2940, a.Start)
	assert.Equal(t, 3000, a.End)
	assert.Equal(t, "60=5S", a.Cigar.String())
	assert.InDelta(t, 5*align.DefaultParameters().UnalignedPenalty, a.Penalty, 1e-9)
}

func TestMapper_UnalignableRead(t *testing.T) {
	f := newFixture(t)
	m := f.mapper(t)

	as, err := m.Align(t.Context(), query(t, "r1", f.rng.Bases(100)))
	require.NoError(t, err)
	assert.Empty(t, as)
}

func TestMapper_CacheHit(t *testing.T) {
	f := newFixture(t)
	c := cache.NewAlignmentCache()
	m := f.mapper(t, WithCache(c))

	q := query(t, "r1", f.ref[500:600])
	first, err := m.Align(t.Context(), q)
	require.NoError(t, err)
	second, err := m.Align(t.Context(), query(t, "r2", f.ref[500:600]))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	hits, skips := c.HitsAndSkips()
	assert.Equal(t, int64(1), hits)
	assert.Zero(t, skips)
	assert.Equal(t, 1, c.Usage())
	assert.Same(t, c, m.Cache())
}

func TestMapper_DuplicatedReference(t *testing.T) {
	rng := testutil.NewRNG(7)
	unit := rng.Bases(300)
	text := rng.Bases(1000) + unit + rng.Bases(200) + unit + rng.Bases(1000)
	ref := mustSequence(t, "chr1", 0, text)

	idx, err := BuildIndex(t.Context(), []*sequence.Sequence{ref}, WithIndexLevels(4, 4))
	require.NoError(t, err)
	dd, err := BuildDuplicationDetector(idx, 16, 36, 50)
	require.NoError(t, err)

	c := cache.NewAlignmentCache()
	m, err := NewMapper(idx, WithDuplicationDetector(dd), WithCache(c))
	require.NoError(t, err)
	defer m.Close()

	as, err := m.Align(t.Context(), query(t, "r1", unit[100:200]))
	require.NoError(t, err)
	require.Len(t, as, 2)

	assert.Equal(t, 1100, as[0].Start)
	assert.False(t, as[0].Duplicate)
	assert.Equal(t, 1600, as[1].Start)
	assert.True(t, as[1].Duplicate)
	for _, a := range as {
		assert.Zero(t, a.Penalty)
		assert.Equal(t, "100=", a.Cigar.String())
	}

	_, skips := c.HitsAndSkips()
	assert.Equal(t, int64(1), skips)
}

func TestMapper_AlignBatch(t *testing.T) {
	f := newFixture(t)
	mc := &BasicMetricsCollector{}
	m := f.mapper(t, WithWorkers(4), WithMetricsCollector(mc))

	queries := []*align.Query{
		query(t, "r1", f.ref[100:200]),
		query(t, "r2", testutil.SubstituteAt(f.ref[700:800], 10)),
		query(t, "r3", f.rng.Bases(100)),
		query(t, "r4", f.ref[100:200]),
	}
	results, err := m.AlignBatch(t.Context(), queries)
	require.NoError(t, err)
	require.Len(t, results, len(queries))

	require.NotEmpty(t, results[0])
	assert.Equal(t, 100, results[0][0].Start)
	require.NotEmpty(t, results[1])
	assert.Equal(t, 700, results[1][0].Start)
	assert.Empty(t, results[2])
	assert.Equal(t, results[0], results[3])

	stats := mc.GetStats()
	assert.Equal(t, int64(4), stats.AlignCount)
	assert.Equal(t, int64(1), stats.AlignUnmapped)
	assert.Zero(t, stats.AlignErrors)
}

func TestMapper_AlignBatchCountsCacheHits(t *testing.T) {
	f := newFixture(t)
	m := f.mapper(t, WithWorkers(1))

	_, err := m.AlignBatch(t.Context(), []*align.Query{
		query(t, "r1", f.ref[300:400]),
		query(t, "r2", f.ref[300:400]),
		query(t, "r3", f.ref[300:400]),
	})
	require.NoError(t, err)

	hits, skips := m.Cache().HitsAndSkips()
	assert.Equal(t, int64(2), hits)
	assert.Zero(t, skips)
	assert.Equal(t, 1, m.Cache().Usage())
}

func TestMapper_AlignBatchReportsFailures(t *testing.T) {
	f := newFixture(t)
	m := f.mapper(t)

	results, err := m.AlignBatch(t.Context(), []*align.Query{
		query(t, "r1", f.ref[100:200]),
		{Name: "empty"},
	})
	require.ErrorIs(t, err, ErrInvalidParameters)
	assert.NotEmpty(t, results[0])
	assert.Nil(t, results[1])
}

func TestMapper_Concurrent(t *testing.T) {
	f := newFixture(t)
	m := f.mapper(t)

	queries := make([]*align.Query, 16)
	for i := range queries {
		off := 100 * (i + 2)
		queries[i] = query(t, "r", f.ref[off:off+100])
	}

	var wg sync.WaitGroup
	starts := make([]int, len(queries))
	for i, q := range queries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			as, err := m.Align(t.Context(), q)
			if err == nil && len(as) > 0 {
				starts[i] = as[0].Start
			}
		}()
	}
	wg.Wait()
	for i, s := range starts {
		assert.Equal(t, 100*(i+2), s)
	}
}

func TestMapper_Closed(t *testing.T) {
	f := newFixture(t)
	m, err := NewMapper(f.idx)
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	_, err = m.Align(t.Context(), query(t, "r1", f.ref[:100]))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = m.AlignBatch(t.Context(), nil)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestNewMapper_Errors(t *testing.T) {
	_, err := NewMapper(nil)
	assert.ErrorIs(t, err, ErrNoReferences)

	f := newFixture(t)
	_, err = NewMapper(f.idx, WithParameters(align.DefaultParameters().WithMutationPenalty(-1)))
	assert.ErrorIs(t, err, ErrInvalidParameters)
	_, err = NewMapper(f.idx, WithWindowSlack(-1))
	assert.ErrorIs(t, err, ErrInvalidParameters)
}
