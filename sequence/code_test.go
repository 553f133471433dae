package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, sym := range []byte("ACGT") {
		c, err := Encode(sym)
		require.NoError(t, err)
		got, err := Decode(c)
		require.NoError(t, err)
		assert.Equal(t, sym, got)
	}
}

func TestEncodeInjectiveOverCanonical(t *testing.T) {
	seen := map[Code]byte{}
	for _, sym := range []byte("ACGT") {
		c, err := Encode(sym)
		require.NoError(t, err)
		_, dup := seen[c]
		assert.False(t, dup, "code %04b reused", c)
		seen[c] = sym
		assert.False(t, IsAmbiguous(c))
	}
}

func TestEncodeLowercaseAndInvalid(t *testing.T) {
	c, err := Encode('g')
	require.NoError(t, err)
	assert.Equal(t, G, c)

	_, err = Encode('X')
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestDecodeAmbiguous(t *testing.T) {
	_, err := Decode(N)
	assert.ErrorIs(t, err, ErrAmbiguousCode)

	_, err = Decode(R)
	assert.ErrorIs(t, err, ErrAmbiguousCode)

	_, err = Decode(0)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestCanMatch(t *testing.T) {
	for a := Code(1); a <= N; a++ {
		assert.True(t, CanMatch(a, a), "code %04b should match itself", a)
		for b := Code(1); b <= N; b++ {
			assert.Equal(t, CanMatch(a, b), CanMatch(b, a))
		}
		assert.Equal(t, IsAmbiguous(a), len(Bases(a)) > 1)
	}
	for _, base := range Canonical {
		assert.True(t, CanMatch(N, base))
	}
	assert.False(t, CanMatch(A, C))
	assert.True(t, CanMatch(R, G))
	assert.False(t, CanMatch(R, T))
}

func TestComplement(t *testing.T) {
	assert.Equal(t, T, Complement(A))
	assert.Equal(t, Y, Complement(R))
	assert.Equal(t, N, Complement(N))
}

func TestReverseComplement(t *testing.T) {
	in := []Code{A, C, G, T, R}
	assert.Equal(t, []Code{Y, A, C, G, T}, ReverseComplement(in))
	assert.Equal(t, in, ReverseComplement(ReverseComplement(in)))
	assert.Empty(t, ReverseComplement(nil))
}
