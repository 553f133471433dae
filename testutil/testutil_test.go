package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBases(t *testing.T) {
	rng := NewRNG(4711)

	s := rng.Bases(64)

	assert.Len(t, s, 64)
	assert.NotContains(t, s, "N")

	rng.Reset()
	assert.Equal(t, s, rng.Bases(64))
}

func TestSubstitute(t *testing.T) {
	rng := NewRNG(4711)
	s := rng.Bases(100)

	m := rng.Substitute(s, 5)

	diff := 0
	for i := range s {
		if s[i] != m[i] {
			diff++
		}
	}
	assert.Equal(t, 5, diff)
}

func TestEdits(t *testing.T) {
	assert.Equal(t, "ACT", Delete("ACGT", 2, 1))
	assert.Equal(t, "ACCCGT", Insert("ACGT", 2, "CC"))
	assert.Equal(t, "CCGT", SubstituteAt("ACGT", 0))
	assert.Equal(t, "ACGTT", ReverseComplement("AACGT"))
}
