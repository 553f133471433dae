package duplication

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/seqmap/index"
	"github.com/hupe1980/seqmap/sequence"
)

func randomBases(seed uint64, n int) string {
	rng := rand.New(rand.NewPCG(seed, 3))
	var sb strings.Builder
	for range n {
		sb.WriteByte("ACGT"[rng.IntN(4)])
	}
	return sb.String()
}

type fakeLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *fakeLogger) Enabled() bool { return true }

func (l *fakeLogger) Important(_ context.Context, msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

const (
	copyA = 1000
	copyB = 1500
	unitN = 300
)

// buildIndex returns an index over one reference holding a 300 base unit
// at offsets 1000 and 1500.
func buildIndex(t *testing.T) *index.Index {
	t.Helper()
	unit := randomBases(1, unitN)
	text := randomBases(2, copyA) + unit + randomBases(3, copyB-copyA-unitN) + unit + randomBases(4, 1000)
	seq, err := sequence.FromString("ref", 0, text)
	require.NoError(t, err)

	b := index.NewBuilder(index.WithLevels(4, 4))
	b.Add(seq)
	idx, err := b.Build(t.Context())
	require.NoError(t, err)
	return idx
}

func TestDetector_FindsRepeatedUnit(t *testing.T) {
	logger := &fakeLogger{}
	d, err := New(buildIndex(t), 16, 36, 50, WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, d.Setup(t.Context()))
	require.Positive(t, d.Len())
	assert.Equal(t, []string{"duplication table ready"}, logger.msgs)

	ka, ok := d.MayContainDuplicationInRange(0, copyA+50, copyA+100)
	require.True(t, ok)
	kb, ok := d.MayContainDuplicationInRange(0, copyB+50, copyB+100)
	require.True(t, ok)
	assert.Equal(t, ka, kb, "aligned windows of both copies share their longest duplication")

	_, ok = d.MayContainDuplicationInRange(0, 0, 500)
	assert.False(t, ok)
	_, ok = d.MayContainDuplicationInRange(0, 2000, 2800)
	assert.False(t, ok)
	_, ok = d.MayContainDuplicationInRange(1, 0, 10)
	assert.False(t, ok)
	_, ok = d.MayContainDuplicationInRange(0, 10, 10)
	assert.False(t, ok)

	prev := -1
	for k := range d.Len() {
		dup, ok := d.Duplication(Key(k))
		require.True(t, ok)
		assert.GreaterOrEqual(t, len(dup.Positions), 2)
		assert.IsIncreasing(t, dup.Positions)
		if prev >= 0 {
			assert.LessOrEqual(t, dup.Length, prev, "longest duplications are recorded first")
		}
		prev = dup.Length
	}
	_, ok = d.Duplication(NoKey)
	assert.False(t, ok)
}

func TestDetector_SetupOnce(t *testing.T) {
	d, err := New(buildIndex(t), 16, 36, 50)
	require.NoError(t, err)

	var wg sync.WaitGroup
	lens := make([]int, 8)
	for i := range lens {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lens[i] = d.Len()
		}()
	}
	wg.Wait()
	for _, n := range lens {
		assert.Equal(t, lens[0], n)
	}
	assert.Positive(t, lens[0])
}

func TestDetector_CancelledSetup(t *testing.T) {
	d, err := New(buildIndex(t), 16, 36, 50)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.ErrorIs(t, d.Setup(ctx), context.Canceled)
	assert.ErrorIs(t, d.Setup(t.Context()), context.Canceled, "setup runs only once")

	_, ok := d.MayContainDuplicationInRange(0, copyA, copyA+100)
	assert.False(t, ok)
	assert.Equal(t, 0, d.Len())
}

func TestNew_Errors(t *testing.T) {
	idx := buildIndex(t)

	_, err := New(idx, 0, 10, 50)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = New(idx, 20, 10, 50)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = New(idx, 16, 36, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = New(idx, 100, 200, 50)
	assert.ErrorIs(t, err, ErrNoLevels)
}

func TestRemoveDuplicatePositions(t *testing.T) {
	assert.Equal(t, []uint64{1, 3, 5}, RemoveDuplicatePositions([]uint64{5, 1, 5, 3, 1}))
	assert.Empty(t, RemoveDuplicatePositions(nil))
}
