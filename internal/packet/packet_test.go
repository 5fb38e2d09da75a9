package packet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func seq(n uint32) []byte {
	return []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
}

func fidOf(b byte) [32]byte {
	var f [32]byte
	for i := range f {
		f[i] = b
	}
	return f
}

func TestNewParseRoundTrip(t *testing.T) {
	fid := fidOf(1)
	var prev [20]byte
	var payload [48]byte
	copy(payload[:], []byte("hello-payload"))

	p := New(fid, seq(1), prev, payload)
	require.Equal(t, Plain48, p.Kind)

	wire := p.Wire()
	require.Len(t, wire, 120)

	got, err := ParsePacket(fid, seq(1), prev, wire)
	require.NoError(t, err)
	require.Equal(t, p.Mid, got.Mid)
	require.Equal(t, payload, got.Payload)
}

func TestParsePacketDetectsTamper(t *testing.T) {
	fid := fidOf(2)
	var prev [20]byte
	var payload [48]byte
	p := New(fid, seq(1), prev, payload)
	wire := p.Wire()
	wire[10] ^= 0xFF // flip a payload bit

	_, err := ParsePacket(fid, seq(1), prev, wire)
	require.Error(t, err)
}

func TestParsePacketWrongContextFails(t *testing.T) {
	fid := fidOf(3)
	var prev [20]byte
	var payload [48]byte
	p := New(fid, seq(1), prev, payload)
	wire := p.Wire()

	// same bytes, but claimed to be at a different sequence number
	_, err := ParsePacket(fid, seq(2), prev, wire)
	require.Error(t, err)
}

func TestMidChains(t *testing.T) {
	fid := fidOf(4)
	var prev [20]byte
	var payload [48]byte

	p1 := New(fid, seq(1), prev, payload)
	p2 := New(fid, seq(2), p1.Mid, payload)
	require.NotEqual(t, p1.Mid, p2.Mid)

	// verifying p2 with the wrong prevMid must fail
	_, err := ParsePacket(fid, seq(2), prev, p2.Wire())
	require.Error(t, err)

	got, err := ParsePacket(fid, seq(2), p1.Mid, p2.Wire())
	require.NoError(t, err)
	require.Equal(t, p2.Mid, got.Mid)
}

func TestNewTopologyPacket(t *testing.T) {
	fid := fidOf(5)
	var prev [20]byte
	child := fidOf(9)

	p, err := NewTopology(fid, seq(1), prev, MkChild, child)
	require.NoError(t, err)
	require.Equal(t, MkChild, p.Kind)
	require.Equal(t, child[:], p.Payload[:32])
}

func TestNewTopologyRejectsNonTopologyKind(t *testing.T) {
	fid := fidOf(6)
	var prev [20]byte
	_, err := NewTopology(fid, seq(1), prev, Plain48, fidOf(1))
	require.Error(t, err)
}

func TestUnknownKindString(t *testing.T) {
	require.Contains(t, Type(99).String(), "unknown")
}
