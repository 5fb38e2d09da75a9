package tinylog

import (
	"fmt"
	"os"
	"sync"

	"github.com/scigolib/tinylog/internal/blobstore"
	"github.com/scigolib/tinylog/internal/frame"
	"github.com/scigolib/tinylog/internal/packet"
	"github.com/scigolib/tinylog/internal/utils"
)

// Feed represents a single .log file: a 128-byte header followed by a
// sequence of 128-byte packet frames. Every public method here opens its
// own file handle, does its work, and closes it again - no handle is
// held between calls (see §5 of the spec this implements).
type Feed struct {
	Path string

	Fid       [32]byte
	ParentID  [32]byte
	ParentSeq uint32
	AnchorSeq uint32
	AnchorMid [20]byte
	FrontSeq  uint32
	FrontMid  [20]byte

	// mids caches the message ID chain: mids[0] is fid[:20], mids[k]
	// (k >= 1) is the verified message ID at sequence anchor_seq+k.
	mids [][20]byte

	mu           sync.Mutex // serializes Append/AppendBytes/AppendBlob
	headerWriter HeaderWriter
}

// Open reads path's header and rebuilds its mids cache, verifying every
// frame in the file chains correctly from the previous one. Returns
// ErrHeaderInvalid if the file size disagrees with the header or any
// frame fails verification.
func Open(path string) (*Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.WrapError("tinylog: open "+path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, utils.WrapError("tinylog: stat "+path, err)
	}

	h, err := frame.ReadHeader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrHeaderInvalid, path, err)
	}

	feed := &Feed{
		Path:      path,
		Fid:       h.Fid,
		ParentID:  h.ParentID,
		ParentSeq: h.ParentSeq,
		AnchorSeq: h.AnchorSeq,
		AnchorMid: h.AnchorMid,
		FrontSeq:  h.FrontSeq,
		FrontMid:  h.FrontMid,
	}

	wantSize := int64(frame.FrameSize) * int64(feed.FrontSeq-feed.AnchorSeq+1)
	if info.Size() != wantSize {
		return nil, fmt.Errorf("%w: %s: file size %d, expected %d", ErrHeaderInvalid, path, info.Size(), wantSize)
	}

	mids, err := feed.rebuildMids(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrHeaderInvalid, path, err)
	}
	feed.mids = mids

	return feed, nil
}

// rebuildMids walks every frame from anchor_seq+1 to front_seq, verifying
// each one chains from the previous message ID.
func (f *Feed) rebuildMids(r *os.File) ([][20]byte, error) {
	var fidSeed [20]byte
	copy(fidSeed[:], f.Fid[:20])
	mids := make([][20]byte, 1, f.FrontSeq-f.AnchorSeq+1)
	mids[0] = fidSeed

	buf := make([]byte, frame.FrameSize)
	for s := f.AnchorSeq + 1; s <= f.FrontSeq; s++ {
		off := int64(frame.FrameSize) * int64(s-f.AnchorSeq)
		if _, err := r.ReadAt(buf, off); err != nil {
			return nil, fmt.Errorf("reading frame %d: %w", s, err)
		}
		wire, err := frame.SplitFrame(buf)
		if err != nil {
			return nil, err
		}
		pkt, err := packet.ParsePacket(f.Fid, seqBytes(s), mids[len(mids)-1], wire)
		if err != nil {
			return nil, fmt.Errorf("verifying frame %d: %w", s, err)
		}
		mids = append(mids, pkt.Mid)
	}
	return mids, nil
}

func seqBytes(seq uint32) []byte {
	return []byte{byte(seq >> 24), byte(seq >> 16), byte(seq >> 8), byte(seq)}
}

// Len returns the feed's front sequence number (the absolute sequence of
// the most recently appended packet).
func (f *Feed) Len() uint32 {
	return f.FrontSeq
}

// resolveSeq maps a possibly-negative seq (Python-style, from the back of
// the feed) to an absolute sequence number and checks it is in range.
func (f *Feed) resolveSeq(seq int64) (uint32, error) {
	if seq < 0 {
		seq = int64(f.FrontSeq) + seq + 1
	}
	if seq <= int64(f.AnchorSeq) || seq > int64(f.FrontSeq) {
		return 0, fmt.Errorf("%w: seq %d (anchor=%d, front=%d)", ErrOutOfRange, seq, f.AnchorSeq, f.FrontSeq)
	}
	return uint32(seq), nil
}

func (f *Feed) readRawFrame(seq uint32) ([]byte, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, utils.WrapError("tinylog: open "+f.Path, err)
	}
	defer file.Close()

	off := int64(frame.FrameSize) * int64(seq-f.AnchorSeq)
	buf := make([]byte, frame.FrameSize)
	if _, err := file.ReadAt(buf, off); err != nil {
		return nil, utils.WrapError("tinylog: read frame", err)
	}
	return frame.SplitFrame(buf)
}

// Get returns the verified packet at seq (negative seq counts back from
// front_seq, so Get(-1) is the most recent packet).
func (f *Feed) Get(seq int64) (*packet.Packet, error) {
	abs, err := f.resolveSeq(seq)
	if err != nil {
		return nil, err
	}

	wire, err := f.readRawFrame(abs)
	if err != nil {
		return nil, err
	}

	rel := abs - f.AnchorSeq
	return packet.ParsePacket(f.Fid, seqBytes(abs), f.mids[rel-1], wire)
}

// Iterate returns every packet from anchor_seq+1 to front_seq in order.
// It is a single, finite pass - not a restartable cursor.
func (f *Feed) Iterate() ([]*packet.Packet, error) {
	out := make([]*packet.Packet, 0, f.FrontSeq-f.AnchorSeq)
	for s := f.AnchorSeq + 1; s <= f.FrontSeq; s++ {
		p, err := f.Get(int64(s))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *Feed) blobStore() *blobstore.Store {
	return blobstore.New(blobstore.RootFromFeedPath(f.Path))
}

// GetBytesQuick returns the packet-specific payload at seq without
// re-verifying the packet. For chain20 packets it walks the blob chain
// but does not check pointer/signature consistency - use GetBytes for a
// verified read.
func (f *Feed) GetBytesQuick(seq int64) ([]byte, error) {
	abs, err := f.resolveSeq(seq)
	if err != nil {
		return nil, err
	}
	wire, err := f.readRawFrame(abs)
	if err != nil {
		return nil, err
	}

	kind := packet.Type(wire[7])
	payload := wire[8:56]
	if kind != packet.Chain20 {
		out := make([]byte, 48)
		copy(out, payload)
		return out, nil
	}

	size, n := frame.Varint(payload)
	content := append([]byte{}, payload[n:28]...)

	var ptr [20]byte
	copy(ptr[:], payload[28:48])
	store := f.blobStore()
	var zero [20]byte
	for ptr != zero {
		b, err := store.Read(ptr)
		if err != nil {
			return content[:min64(int64(len(content)), int64(size))], nil
		}
		content = append(content, b.Payload[:]...)
		ptr = b.Next
	}
	if int64(len(content)) < int64(size) {
		return content, nil
	}
	return content[:size], nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// GetBytes returns the packet-specific payload at seq after verifying
// the packet (and, for chain20, the full blob chain). Returns nil if the
// chain fails verification or the kind is not recognized.
func (f *Feed) GetBytes(seq int64) ([]byte, error) {
	p, err := f.Get(seq)
	if err != nil {
		return nil, err
	}

	switch p.Kind {
	case packet.Plain48, packet.IsChild, packet.IsContn, packet.MkChild, packet.Contdas:
		out := make([]byte, 48)
		copy(out, p.Payload[:])
		return out, nil
	case packet.Chain20:
		return f.verifyChain(p)
	default:
		return nil, nil
	}
}

// verifyChain walks and verifies a chain20 head packet's blob chain,
// checking every blob's signature against the previous blob's pointer.
// Returns (nil, nil) - "no content" - if verification fails, per §7.
func (f *Feed) verifyChain(head *packet.Packet) ([]byte, error) {
	size, n := frame.Varint(head.Payload[:])
	content := append([]byte{}, head.Payload[n:28]...)

	var ptr [20]byte
	copy(ptr[:], head.Payload[28:48])

	store := f.blobStore()
	var zero [20]byte
	for ptr != zero {
		b, err := store.Read(ptr)
		if err != nil {
			return nil, nil
		}
		if b.Signature() != ptr {
			return nil, nil
		}
		content = append(content, b.Payload[:]...)
		ptr = b.Next
	}

	if int64(len(content)) < int64(size) {
		return nil, nil
	}
	return content[:size], nil
}
