package hashblock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpec(t *testing.T) {
	tests := []struct {
		level, minLen, maxLen int
		extends               bool
	}{
		{0, 1, 1, false},
		{1, 2, 2, false},
		{2, 4, 4, false},
		{3, 8, 12, true},
		{4, 16, 36, true},
	}
	for _, tt := range tests {
		s := Spec(tt.level)
		assert.Equal(t, tt.level, s.Level)
		assert.Equal(t, tt.minLen, s.MinLen, "level %d", tt.level)
		assert.Equal(t, tt.maxLen, s.MaxLen, "level %d", tt.level)
		assert.Equal(t, tt.extends, s.ExtendMask != 0, "level %d", tt.level)
	}

	assert.Nil(t, Spec(-1))
	assert.Nil(t, Spec(MaxLevels))
	assert.False(t, Spec(2).Extends(^uint64(0)))
	assert.True(t, Spec(3).Extends(1))
	assert.False(t, Spec(3).Extends(4))
}

func TestSpec_SharedAcrossGoroutines(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]*LevelSpec, 16)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = Spec(MaxLevels - 1)
		}()
	}
	wg.Wait()
	for _, s := range got {
		assert.Same(t, got[0], s)
	}
}

func TestLevelsForLength(t *testing.T) {
	assert.Equal(t, []int{2, 3}, LevelsForLength(4, 8))
	assert.Equal(t, []int{3, 4}, LevelsForLength(10, 20))
	assert.Empty(t, LevelsForLength(0, 0))
}
