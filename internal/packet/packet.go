// Package packet provides a minimal, self-contained implementation of the
// packet/blob codec that tiny-ssb-style feeds treat as an external
// collaborator: pkt_from_bytes, Packet, create_chain in the spec this
// module implements. Message IDs and blob signatures are opaque 20-byte
// tags in that spec - no particular signature scheme is mandated - so
// this package derives them deterministically with crypto/sha256 rather
// than pulling in a signing library the rest of the module has no other
// use for. See DESIGN.md for the rationale.
package packet

import (
	"crypto/sha256"
	"fmt"

	"github.com/scigolib/tinylog/internal/frame"
)

// Type identifies one of the packet kinds a feed frame can carry.
type Type byte

// The six named packet kinds. Any other byte value is an unknown kind:
// readers built against an older version of this package must still be
// able to skip frames of a kind they don't recognize (see ParsePacket).
const (
	Plain48 Type = iota
	Chain20
	IsChild
	IsContn
	MkChild
	Contdas
)

func (t Type) String() string {
	switch t {
	case Plain48:
		return "plain48"
	case Chain20:
		return "chain20"
	case IsChild:
		return "ischild"
	case IsContn:
		return "iscontn"
	case MkChild:
		return "mkchild"
	case Contdas:
		return "contdas"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

const (
	dmxSize     = 7
	kindSize    = 1
	payloadSize = 48
	authSize    = 64
	midSize     = 20
)

// Packet is a single parsed or constructed feed entry.
type Packet struct {
	Kind    Type
	Payload [48]byte
	Dmx     [7]byte
	Auth    [64]byte
	Mid     [20]byte
}

// Wire serializes the packet back to its 120-byte on-disk image:
// dmx ‖ kind ‖ payload ‖ auth.
func (p *Packet) Wire() []byte {
	buf := make([]byte, frame.PacketWireSize)
	copy(buf[0:7], p.Dmx[:])
	buf[7] = byte(p.Kind)
	copy(buf[8:56], p.Payload[:])
	copy(buf[56:120], p.Auth[:])
	return buf
}

// computeDmx derives the demux tag for a frame at (fid, seq) chained from
// prevMid. Deterministic and independent of payload, mirroring tiny-ssb's
// DMX field, which lets a reader recognize a frame before its contents
// are known.
func computeDmx(fid [32]byte, seq uint32, prevMid [20]byte) [7]byte {
	h := sha256.New()
	h.Write(fid[:])
	var seqBuf [4]byte
	seqBuf[0] = byte(seq >> 24)
	seqBuf[1] = byte(seq >> 16)
	seqBuf[2] = byte(seq >> 8)
	seqBuf[3] = byte(seq)
	h.Write(seqBuf[:])
	h.Write(prevMid[:])
	sum := h.Sum(nil)
	var out [7]byte
	copy(out[:], sum[:7])
	return out
}

// computeAuth derives a 64-byte authenticator for the frame contents.
// Stands in for the real signature scheme (out of scope per the core
// spec); it is deterministic so chain verification is still meaningful.
func computeAuth(dmx [7]byte, kind Type, payload [48]byte) [64]byte {
	h1 := sha256.Sum256(append(append([]byte{byte(kind)}, dmx[:]...), payload[:]...))
	h2 := sha256.Sum256(h1[:])
	var out [64]byte
	copy(out[:32], h1[:])
	copy(out[32:], h2[:])
	return out
}

// computeMid derives the 20-byte message ID that chains this frame to
// the next one.
func computeMid(dmx [7]byte, kind Type, payload [48]byte, auth [64]byte) [20]byte {
	h := sha256.New()
	h.Write(dmx[:])
	h.Write([]byte{byte(kind)})
	h.Write(payload[:])
	h.Write(auth[:])
	sum := h.Sum(nil)
	var out [20]byte
	copy(out[:], sum[:20])
	return out
}

func seqBytesToUint32(seqBE []byte) uint32 {
	return uint32(seqBE[0])<<24 | uint32(seqBE[1])<<16 | uint32(seqBE[2])<<8 | uint32(seqBE[3])
}

// New constructs a plain48 packet for (fid, seq) chained from prevMid,
// carrying the given 48-byte payload.
func New(fid [32]byte, seqBE []byte, prevMid [20]byte, payload [48]byte) *Packet {
	return newTyped(fid, seqBE, prevMid, Plain48, payload)
}

func newTyped(fid [32]byte, seqBE []byte, prevMid [20]byte, kind Type, payload [48]byte) *Packet {
	seq := seqBytesToUint32(seqBE)
	dmx := computeDmx(fid, seq, prevMid)
	auth := computeAuth(dmx, kind, payload)
	mid := computeMid(dmx, kind, payload, auth)
	return &Packet{Kind: kind, Payload: payload, Dmx: dmx, Auth: auth, Mid: mid}
}

// NewTopology builds one of the fixed-payload topology packets (ischild,
// iscontn, mkchild, contdas), whose payload is the referenced 32-byte
// feed ID left-padded into the 48-byte payload area.
func NewTopology(fid [32]byte, seqBE []byte, prevMid [20]byte, kind Type, referenced [32]byte) (*Packet, error) {
	switch kind {
	case IsChild, IsContn, MkChild, Contdas:
	default:
		return nil, fmt.Errorf("packet: %s is not a topology kind", kind)
	}
	var payload [48]byte
	copy(payload[:32], referenced[:])
	return newTyped(fid, seqBE, prevMid, kind, payload), nil
}

// ParsePacket parses and verifies a 120-byte raw packet wire image read
// from sequence seq in feed fid, chained from prevMid. Verification
// recomputes dmx/auth/mid from the context and the bytes actually on
// disk; a mismatch means the frame was corrupted or the chain context is
// wrong.
func ParsePacket(fid [32]byte, seqBE []byte, prevMid [20]byte, raw []byte) (*Packet, error) {
	if len(raw) != frame.PacketWireSize {
		return nil, fmt.Errorf("packet: raw wire must be %d bytes, got %d", frame.PacketWireSize, len(raw))
	}

	var dmx [7]byte
	copy(dmx[:], raw[0:7])
	kind := Type(raw[7])
	var payload [48]byte
	copy(payload[:], raw[8:56])
	var auth [64]byte
	copy(auth[:], raw[56:120])

	seq := seqBytesToUint32(seqBE)
	wantDmx := computeDmx(fid, seq, prevMid)
	if dmx != wantDmx {
		return nil, fmt.Errorf("packet: dmx mismatch at seq %d", seq)
	}
	wantAuth := computeAuth(dmx, kind, payload)
	if auth != wantAuth {
		return nil, fmt.Errorf("packet: auth mismatch at seq %d", seq)
	}

	mid := computeMid(dmx, kind, payload, auth)
	return &Packet{Kind: kind, Payload: payload, Dmx: dmx, Auth: auth, Mid: mid}, nil
}
