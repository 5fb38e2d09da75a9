package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	mockio "github.com/scigolib/tinylog/internal/testing"
)

func sampleHeader() *Header {
	h := &Header{
		ParentSeq: 7,
		AnchorSeq: 0,
		FrontSeq:  3,
	}
	for i := range h.Fid {
		h.Fid[i] = byte(i + 1)
	}
	for i := range h.ParentID {
		h.ParentID[i] = byte(i + 100)
	}
	for i := range h.AnchorMid {
		h.AnchorMid[i] = byte(i)
	}
	for i := range h.FrontMid {
		h.FrontMid[i] = byte(200 + i)
	}
	return h
}

func TestHeaderEncodeParseRoundTrip(t *testing.T) {
	h := sampleHeader()
	buf := h.Encode()
	require.Len(t, buf, HeaderSize)

	// leading 12 bytes are always reserved/zero
	require.True(t, bytes.Equal(buf[:12], make([]byte, 12)))

	got, err := ParseHeader(buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestParseHeaderWrongSize(t *testing.T) {
	_, err := ParseHeader(make([]byte, 100))
	require.Error(t, err)
}

func TestReadHeader(t *testing.T) {
	h := sampleHeader()
	buf := h.Encode()
	// pad so the reader has more than just the header, like a real file
	buf = append(buf, make([]byte, FrameSize)...)

	got, err := ReadHeader(mockio.NewMockReaderAt(buf))
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestFrontFields(t *testing.T) {
	h := sampleHeader()
	ff := h.FrontFields()
	require.Len(t, ff, 24)

	buf := h.Encode()
	require.True(t, bytes.Equal(buf[FrontFieldsOffset:FrontFieldsOffset+24], ff))
}

func TestEncodeSplitFrameRoundTrip(t *testing.T) {
	wire := bytes.Repeat([]byte{0xAB}, PacketWireSize)
	raw, err := EncodeFrame(wire)
	require.NoError(t, err)
	require.Len(t, raw, FrameSize)
	require.True(t, bytes.Equal(raw[:FrameReserved], make([]byte, FrameReserved)))

	got, err := SplitFrame(raw)
	require.NoError(t, err)
	require.True(t, bytes.Equal(got, wire))
}

func TestEncodeFrameWrongSize(t *testing.T) {
	_, err := EncodeFrame(make([]byte, 10))
	require.Error(t, err)
}

func TestSplitFrameWrongSize(t *testing.T) {
	_, err := SplitFrame(make([]byte, 10))
	require.Error(t, err)
}
