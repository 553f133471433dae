package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToUint32(t *testing.T) {
	got, err := IntToUint32(123)
	require.NoError(t, err)
	assert.Equal(t, uint32(123), got)

	_, err = IntToUint32(-1)
	assert.Error(t, err)

	_, err = IntToUint32(math.MaxUint32 + 1)
	assert.Error(t, err)
}

func TestUint64ToInt(t *testing.T) {
	got, err := Uint64ToInt(42)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	_, err = Uint64ToInt(uint64(math.MaxInt) + 1)
	assert.Error(t, err)
}

func TestMulInt(t *testing.T) {
	got, err := MulInt(1<<20, 1<<10)
	require.NoError(t, err)
	assert.Equal(t, 1<<30, got)

	_, err = MulInt(math.MaxInt/2, 3)
	assert.Error(t, err)

	_, err = MulInt(-1, 3)
	assert.Error(t, err)
}

func TestPutUintRoundTrip(t *testing.T) {
	buf := make([]byte, 5)
	PutUint(buf, 0x12_3456_789A, 5)
	assert.Equal(t, []byte{0x9A, 0x78, 0x56, 0x34, 0x12}, buf)
	assert.Equal(t, uint64(0x12_3456_789A), Uint(buf, 5))
}

func TestBytesFor(t *testing.T) {
	assert.Equal(t, 1, BytesFor(0))
	assert.Equal(t, 1, BytesFor(255))
	assert.Equal(t, 2, BytesFor(256))
	assert.Equal(t, 4, BytesFor(math.MaxUint32))
	assert.Equal(t, 5, BytesFor(math.MaxUint32+1))
}
