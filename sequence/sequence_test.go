package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderPacksCodes(t *testing.T) {
	b := NewBuilder("chr1", "ref.fa", 3)
	_, err := b.WriteString("acgtN\nRy")
	require.NoError(t, err)
	assert.Equal(t, 7, b.Len())

	s := b.Build()
	assert.Equal(t, "chr1", s.Name)
	assert.Equal(t, "ref.fa", s.Path)
	assert.Equal(t, 3, s.ID)
	assert.Equal(t, 7, s.Len())
	assert.Equal(t, "ACGTNRY", s.String())
	assert.Len(t, s.Words(), 2)
	assert.Equal(t, 0, b.Len(), "builder resets after Build")
}

func TestBuilderRejectsInvalid(t *testing.T) {
	b := NewBuilder("x", "", 0)
	_, err := b.WriteString("ACXT")
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestSequenceCodes(t *testing.T) {
	s, err := FromString("s", 0, "ACGTACGTNN")
	require.NoError(t, err)

	assert.Equal(t, []Code{G, T, A}, s.Codes(2, 5))
	assert.Equal(t, []Code{N, N}, s.Codes(8, 20))
	assert.Nil(t, s.Codes(5, 5))
	assert.Equal(t, 2, s.AmbiguousCount(0, s.Len()))
	assert.Equal(t, 0, s.AmbiguousCount(0, 8))
}

func TestFromWords(t *testing.T) {
	s, err := FromString("s", 1, "GATTACA")
	require.NoError(t, err)

	again, err := FromWords(s.Name, s.Path, s.ID, s.Len(), s.Words())
	require.NoError(t, err)
	assert.Equal(t, s.String(), again.String())

	_, err = FromWords("bad", "", 0, 9, s.Words())
	assert.Error(t, err)
}

func TestFromCodes(t *testing.T) {
	s, err := FromCodes("c", 0, []Code{A, N, T})
	require.NoError(t, err)
	assert.Equal(t, "ANT", s.String())

	_, err = FromCodes("c", 0, []Code{0})
	assert.ErrorIs(t, err, ErrInvalidCode)
}
