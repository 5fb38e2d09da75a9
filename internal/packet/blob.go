package packet

import (
	"crypto/sha256"
	"fmt"

	"github.com/scigolib/tinylog/internal/frame"
)

// blobPayloadSize is the amount of content each blob frame carries; the
// remaining 20 bytes are the pointer to the next blob in the chain.
const blobPayloadSize = 100

// Blob is one 120-byte sidecar record in a blob chain: 100 bytes of
// content followed by a 20-byte pointer to the next blob, or 20 zero
// bytes to terminate the chain.
type Blob struct {
	Payload [100]byte
	Next    [20]byte
}

// Wire serializes the blob to its 120-byte on-disk image.
func (b *Blob) Wire() []byte {
	out := make([]byte, 120)
	copy(out[:100], b.Payload[:])
	copy(out[100:], b.Next[:])
	return out
}

// ParseBlob parses a 120-byte raw blob image.
func ParseBlob(raw []byte) (*Blob, error) {
	if len(raw) != 120 {
		return nil, fmt.Errorf("packet: raw blob must be 120 bytes, got %d", len(raw))
	}
	b := &Blob{}
	copy(b.Payload[:], raw[:100])
	copy(b.Next[:], raw[100:])
	return b, nil
}

// Signature returns the 20-byte content-address this blob is stored
// under: the first 20 bytes of sha256(payload ‖ next).
func (b *Blob) Signature() [20]byte {
	sum := sha256.Sum256(b.Wire())
	var out [20]byte
	copy(out[:], sum[:20])
	return out
}

// Chain builds a chain20 head packet plus its tail blobs for an
// oversize payload. The head packet's 48-byte payload is
// varint(len(payload)) ‖ head-bytes ‖ 20-byte pointer, with head-bytes
// padded out so the three fields always total 28 bytes. Everything past
// head-bytes is chained through 100-byte blob frames, built from the
// tail backward so each blob's pointer is the signature of the one
// after it.
func Chain(fid [32]byte, seqBE []byte, prevMid [20]byte, payload []byte) (*Packet, []*Blob, error) {
	size := len(payload)
	vbuf := frame.PutVarint(uint64(size))
	vlen := len(vbuf)
	inlineLen := 28 - vlen
	if inlineLen < 0 {
		return nil, nil, fmt.Errorf("packet: payload too large to chain (%d bytes)", size)
	}

	var headContent []byte
	var tail []byte
	if size <= inlineLen {
		headContent = make([]byte, inlineLen)
		copy(headContent, payload)
	} else {
		headContent = payload[:inlineLen]
		tail = payload[inlineLen:]
	}

	blobs := buildBlobChain(tail)

	var pointer [20]byte
	if len(blobs) > 0 {
		pointer = blobs[0].Signature()
	}

	var headPayload [48]byte
	copy(headPayload[0:vlen], vbuf)
	copy(headPayload[vlen:vlen+inlineLen], headContent)
	copy(headPayload[28:48], pointer[:])

	head := newTyped(fid, seqBE, prevMid, Chain20, headPayload)
	return head, blobs, nil
}

// buildBlobChain splits tail into 100-byte blocks (the final block
// zero-padded) and links them tail-first so every blob's Next points to
// the signature of the blob after it; the last blob's Next is the
// all-zero terminator.
func buildBlobChain(tail []byte) []*Blob {
	if len(tail) == 0 {
		return nil
	}

	n := (len(tail) + blobPayloadSize - 1) / blobPayloadSize
	blobs := make([]*Blob, n)

	var next [20]byte // zero terminator
	for i := n - 1; i >= 0; i-- {
		start := i * blobPayloadSize
		end := start + blobPayloadSize
		if end > len(tail) {
			end = len(tail)
		}
		b := &Blob{Next: next}
		copy(b.Payload[:], tail[start:end])
		blobs[i] = b
		next = b.Signature()
	}
	return blobs
}
