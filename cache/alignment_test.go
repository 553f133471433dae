package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/seqmap/align"
)

func TestAlignmentCache_GetAdd(t *testing.T) {
	c := NewAlignmentCache()

	_, ok := c.Get("ACGT")
	assert.False(t, ok)

	c.AddAlignment("ACGT", QueryAlignments{Alignments: []align.Alignment{{Start: 3, Penalty: 1}}})
	got, ok := c.Get("ACGT")
	require.True(t, ok)
	require.Len(t, got.Alignments, 1)
	assert.Equal(t, 3, got.Alignments[0].Start)

	c.AddAlignment("TTTT", QueryAlignments{})
	miss, ok := c.Get("TTTT")
	require.True(t, ok, "unaligned queries are cached too")
	assert.Empty(t, miss.Alignments)

	c.AddAlignment("ACGT", QueryAlignments{})
	assert.Equal(t, 2, c.Usage())
}

func TestAlignmentCache_Counters(t *testing.T) {
	c := NewAlignmentCache()
	c.AddHitsAndSkips(3, 1)
	c.AddHitsAndSkips(0, 0)
	c.AddHitsAndSkips(2, 4)

	hits, skips := c.HitsAndSkips()
	assert.Equal(t, int64(5), hits)
	assert.Equal(t, int64(5), skips)
}

func TestAlignmentCache_ConcurrentWriters(t *testing.T) {
	c := NewAlignmentCache()
	const writers, perWriter = 16, 500

	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				key := fmt.Sprintf("q-%d-%d", w, i)
				c.AddAlignment(key, QueryAlignments{Alignments: []align.Alignment{{Start: i}}})
				if _, ok := c.Get(key); !ok {
					t.Errorf("missing %s", key)
				}
				c.AddHitsAndSkips(1, 2)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, writers*perWriter, c.Usage())
	hits, skips := c.HitsAndSkips()
	assert.Equal(t, int64(writers*perWriter), hits)
	assert.Equal(t, int64(2*writers*perWriter), skips)
}
