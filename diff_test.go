package tinylog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeChangesAndApply(t *testing.T) {
	old := "a\nb\nc"
	next := "a\nB\nc\nd"

	changes := ComputeChanges(old, next)
	require.Equal(t, []Change{
		{Line: 2, Op: Delete, Content: "b"},
		{Line: 2, Op: Insert, Content: "B"},
		{Line: 4, Op: Insert, Content: "d"},
	}, changes)

	require.Equal(t, next, Apply(old, changes))
	require.Equal(t, old, Apply(next, Reverse(changes)))
}

func TestComputeChangesIdentical(t *testing.T) {
	require.Empty(t, ComputeChanges("a\nb\nc", "a\nb\nc"))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	changes := []Change{
		{Line: 2, Op: Delete, Content: "b"},
		{Line: 2, Op: Insert, Content: "B"},
		{Line: 4, Op: Insert, Content: "d"},
	}

	encoded := Encode(changes, 3)
	got, dep, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, uint32(3), dep)
	require.Equal(t, changes, got)
}

func TestDecodeTooShort(t *testing.T) {
	_, _, err := Decode([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestReverseIsInvolution(t *testing.T) {
	changes := []Change{
		{Line: 1, Op: Insert, Content: "x"},
		{Line: 3, Op: Delete, Content: "y"},
	}
	require.Equal(t, changes, Reverse(Reverse(changes)))
}

func TestOpString(t *testing.T) {
	require.Equal(t, "insert", Insert.String())
	require.Equal(t, "delete", Delete.String())
	require.Contains(t, Op(0).String(), "unknown")
}
