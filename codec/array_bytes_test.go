package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArrayPrefixedRoundTrip(t *testing.T) {
	c := Array[uint8](U8, ArraySize{Kind: ArraySizePrefixed, LengthCodec: ShortU16})
	values := []uint8{1, 2, 3, 4, 5}

	encoded, err := Encode[[]uint8](c, values)
	require.NoError(t, err)
	require.Equal(t, []byte{5, 1, 2, 3, 4, 5}, encoded)

	decoded, err := Decode[[]uint8](c, encoded)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestArrayFixedCountRoundTrip(t *testing.T) {
	c := Array[uint8](U8, ArraySize{Kind: ArraySizeFixedCount, FixedCount: 3})
	values := []uint8{9, 8, 7}

	encoded, err := Encode[[]uint8](c, values)
	require.NoError(t, err)
	require.Equal(t, values, []uint8(encoded))
	require.True(t, c.Size().IsFixed())
	require.Equal(t, 3, c.Size().FixedSize)

	decoded, err := Decode[[]uint8](c, encoded)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestMergeAndPadBytes(t *testing.T) {
	merged := MergeBytes([]byte{1, 2}, []byte{3}, []byte{4, 5})
	require.Equal(t, []byte{1, 2, 3, 4, 5}, merged)

	padded := FixBytes([]byte{1, 2}, 5)
	require.Equal(t, []byte{1, 2, 0, 0, 0}, padded)

	truncated := FixBytes([]byte{1, 2, 3, 4, 5}, 3)
	require.Equal(t, []byte{1, 2, 3}, truncated)
}

func TestContainsAndIndexOfBytes(t *testing.T) {
	data := []byte("hello sentinel world")
	require.True(t, ContainsBytes(data, []byte("sentinel"), 0))
	require.False(t, ContainsBytes(data, []byte("missing"), 0))
	require.Equal(t, 6, IndexOfBytes(data, []byte("sentinel"), 0))
	require.Equal(t, -1, IndexOfBytes(data, []byte("sentinel"), 7))
}
