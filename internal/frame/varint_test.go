package frame

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarintRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 300, 1<<20 - 1, 1 << 40} {
		encoded := PutVarint(v)
		got, n := Varint(encoded)
		require.Equal(t, v, got)
		require.Equal(t, len(encoded), n)
	}
}

func TestVarintTruncatedBuffer(t *testing.T) {
	encoded := PutVarint(1 << 40)
	_, n := Varint(encoded[:len(encoded)-1])
	require.Equal(t, 0, n)
}

func TestVarintPrefixOfLargerBuffer(t *testing.T) {
	encoded := PutVarint(300)
	rest := append(encoded, []byte{1, 2, 3}...)
	v, n := Varint(rest)
	require.Equal(t, uint64(300), v)
	require.Equal(t, len(encoded), n)
}
