package packet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChainSmallPayloadNoBlobs(t *testing.T) {
	fid := fidOf(1)
	var prev [20]byte
	payload := []byte("short content")

	head, blobs, err := Chain(fid, seq(1), prev, payload)
	require.NoError(t, err)
	require.Equal(t, Chain20, head.Kind)
	require.Empty(t, blobs)

	size, n := Varint(head.Payload[:])
	require.Equal(t, uint64(len(payload)), size)
	content := head.Payload[n:28]
	require.True(t, bytes.Equal(content[:len(payload)], payload))
	require.True(t, bytes.Equal(head.Payload[28:48], make([]byte, 20)))
}

func TestChainLargePayloadBuildsBlobChain(t *testing.T) {
	fid := fidOf(2)
	var prev [20]byte
	payload := bytes.Repeat([]byte("x"), 250)

	head, blobs, err := Chain(fid, seq(1), prev, payload)
	require.NoError(t, err)
	require.Equal(t, Chain20, head.Kind)
	require.NotEmpty(t, blobs)

	size, n := Varint(head.Payload[:])
	require.Equal(t, uint64(250), size)

	inlineLen := 28 - n
	content := head.Payload[n : n+inlineLen]
	pointer := head.Payload[28:48]

	reconstructed := append([]byte{}, content...)
	var ptr [20]byte
	copy(ptr[:], pointer)

	byIndex := map[[20]byte]*Blob{}
	for _, b := range blobs {
		byIndex[b.Signature()] = b
	}

	for ptr != ([20]byte{}) {
		b, ok := byIndex[ptr]
		require.True(t, ok, "dangling blob pointer")
		reconstructed = append(reconstructed, b.Payload[:]...)
		ptr = b.Next
	}

	reconstructed = reconstructed[:size]
	require.True(t, bytes.Equal(reconstructed, payload))
}

func TestBlobWireParseRoundTrip(t *testing.T) {
	b := &Blob{}
	copy(b.Payload[:], bytes.Repeat([]byte{0x42}, 100))
	for i := range b.Next {
		b.Next[i] = byte(i)
	}

	raw := b.Wire()
	require.Len(t, raw, 120)

	got, err := ParseBlob(raw)
	require.NoError(t, err)
	require.Equal(t, b, got)
}

func TestParseBlobWrongSize(t *testing.T) {
	_, err := ParseBlob(make([]byte, 50))
	require.Error(t, err)
}
