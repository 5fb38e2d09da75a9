package tinylog

import (
	"fmt"
	"io"
	"os"

	"github.com/scigolib/tinylog/internal/frame"
	"github.com/scigolib/tinylog/internal/packet"
	"github.com/scigolib/tinylog/internal/utils"
)

// SetHeaderWriter overrides how Append patches the header's front_seq/
// front_mid trailer after an append. Defaults to an in-place 24-byte
// write; pass a fullRewriteHeaderWriter-backed implementation to match
// the original constrained-environment behavior.
func (f *Feed) SetHeaderWriter(w HeaderWriter) {
	f.headerWriter = w
}

func (f *Feed) writer() HeaderWriter {
	if f.headerWriter != nil {
		return f.headerWriter
	}
	return defaultHeaderWriter
}

// Append writes p as the next frame in the feed and advances front_seq/
// front_mid. Returns ErrEnded if the feed was already terminated by a
// contdas packet.
func (f *Feed) Append(p *packet.Packet) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ended, err := f.hasEndedLocked()
	if err != nil {
		return err
	}
	if ended {
		return ErrEnded
	}

	raw, err := frame.EncodeFrame(p.Wire())
	if err != nil {
		return err
	}

	file, err := os.OpenFile(f.Path, os.O_WRONLY, 0)
	if err != nil {
		return utils.WrapError("tinylog: open for append "+f.Path, err)
	}
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		file.Close()
		return utils.WrapError("tinylog: seek "+f.Path, err)
	}
	if _, err := file.Write(raw); err != nil {
		file.Close()
		return utils.WrapError("tinylog: write frame "+f.Path, err)
	}
	if err := file.Close(); err != nil {
		return utils.WrapError("tinylog: close "+f.Path, err)
	}

	f.FrontSeq++
	f.FrontMid = p.Mid

	h := &frame.Header{FrontSeq: f.FrontSeq, FrontMid: f.FrontMid}
	if err := f.writer().WriteFrontFields(f.Path, h.FrontFields()); err != nil {
		return err
	}

	f.mids = append(f.mids, p.Mid)
	return nil
}

// AppendBytes builds a plain48 packet from payload (which must be <= 48
// bytes; shorter payloads are zero-padded) and appends it.
func (f *Feed) AppendBytes(payload []byte) error {
	if len(payload) > 48 {
		return fmt.Errorf("tinylog: plain payload must be <= 48 bytes, got %d", len(payload))
	}
	var buf [48]byte
	copy(buf[:], payload)

	p := packet.New(f.Fid, seqBytes(f.FrontSeq+1), f.FrontMid, buf)
	return f.Append(p)
}

// AppendBlob builds a chain20 head packet for payload (of any size),
// appends it, and writes its tail blobs to the sidecar blob store.
func (f *Feed) AppendBlob(payload []byte) error {
	head, blobs, err := packet.Chain(f.Fid, seqBytes(f.FrontSeq+1), f.FrontMid, payload)
	if err != nil {
		return err
	}
	if err := f.Append(head); err != nil {
		return err
	}
	if len(blobs) == 0 {
		return nil
	}
	return f.blobStore().Write(blobs)
}
