// Package frame implements the on-disk binary layout of a feed file: the
// 128-byte header and the 128-byte packet frames that follow it.
//
// Layout follows the teacher's offset-table parsing style
// (internal/core.ReadSuperblock in the scigolib/hdf5 codebase this package
// was adapted from): fixed byte ranges read through an io.ReaderAt, pooled
// scratch buffers, and errors wrapped with utils.WrapError.
package frame

import (
	"encoding/binary"
	"fmt"

	"github.com/scigolib/tinylog/internal/utils"
)

// Sizes of the fixed on-disk structures. Every frame (header or packet)
// is exactly FrameSize bytes; a feed file's length must always be an
// exact multiple of FrameSize.
const (
	FrameSize      = 128
	HeaderSize     = FrameSize
	FrameReserved  = 8   // leading reserved bytes of every post-header frame
	PacketWireSize = FrameSize - FrameReserved // 120

	headerReservedSize = 12
	fidSize            = 32
	midSize            = 20
)

// Header holds the parsed fields of a feed file's first 128-byte frame.
type Header struct {
	Fid        [32]byte
	ParentID   [32]byte
	ParentSeq  uint32
	AnchorSeq  uint32
	AnchorMid  [20]byte
	FrontSeq   uint32
	FrontMid   [20]byte
}

// ParseHeader parses a 128-byte header buffer. buf must be exactly
// HeaderSize bytes.
func ParseHeader(buf []byte) (*Header, error) {
	if len(buf) != HeaderSize {
		return nil, fmt.Errorf("frame: header must be %d bytes, got %d", HeaderSize, len(buf))
	}

	h := &Header{}
	copy(h.Fid[:], buf[12:44])
	copy(h.ParentID[:], buf[44:76])
	h.ParentSeq = binary.BigEndian.Uint32(buf[76:80])
	h.AnchorSeq = binary.BigEndian.Uint32(buf[80:84])
	copy(h.AnchorMid[:], buf[84:104])
	h.FrontSeq = binary.BigEndian.Uint32(buf[104:108])
	copy(h.FrontMid[:], buf[108:128])
	return h, nil
}

// ReadHeader reads and parses the header from the start of r.
func ReadHeader(r utils.ReaderAt) (*Header, error) {
	buf := utils.GetBuffer(HeaderSize)
	defer utils.ReleaseBuffer(buf)

	if _, err := r.ReadAt(buf, 0); err != nil {
		return nil, utils.WrapError("frame: reading header", err)
	}
	return ParseHeader(buf)
}

// Encode serializes the header back into a 128-byte buffer. The leading
// 12 reserved bytes are always written as zero.
func (h *Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[12:44], h.Fid[:])
	copy(buf[44:76], h.ParentID[:])
	binary.BigEndian.PutUint32(buf[76:80], h.ParentSeq)
	binary.BigEndian.PutUint32(buf[80:84], h.AnchorSeq)
	copy(buf[84:104], h.AnchorMid[:])
	binary.BigEndian.PutUint32(buf[104:108], h.FrontSeq)
	copy(buf[108:128], h.FrontMid[:])
	return buf
}

// FrontFields returns just the 24 trailing bytes of the header (front_seq
// ‖ front_mid) that Feed.Append rewrites on every append. A header writer
// that can patch a file in place (see HeaderWriter) only ever needs to
// touch these bytes; one that cannot (the embedded environment this
// format originates from) rewrites the whole file instead.
func (h *Header) FrontFields() []byte {
	buf := make([]byte, 24)
	binary.BigEndian.PutUint32(buf[0:4], h.FrontSeq)
	copy(buf[4:24], h.FrontMid[:])
	return buf
}

// FrontFieldsOffset is the byte offset of the front_seq/front_mid pair
// within the header.
const FrontFieldsOffset = 104

// EncodeFrame wraps a 120-byte packet wire image with the 8 leading
// reserved bytes every on-disk frame carries.
func EncodeFrame(wire []byte) ([]byte, error) {
	if len(wire) != PacketWireSize {
		return nil, fmt.Errorf("frame: packet wire must be %d bytes, got %d", PacketWireSize, len(wire))
	}
	buf := make([]byte, FrameSize)
	copy(buf[FrameReserved:], wire)
	return buf, nil
}

// SplitFrame strips the 8 reserved leading bytes from a raw 128-byte
// frame, returning the 120-byte packet wire image.
func SplitFrame(raw []byte) ([]byte, error) {
	if len(raw) != FrameSize {
		return nil, fmt.Errorf("frame: raw frame must be %d bytes, got %d", FrameSize, len(raw))
	}
	return raw[FrameReserved:], nil
}
