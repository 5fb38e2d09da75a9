// Package blobstore implements the content-addressed sidecar store that
// holds blob-chain tail frames too large to fit inline in a feed packet.
//
// Blob writes are adapted from distr1-distri's install-time atomic file
// write (cmd/distri/install.go, renameio.TempFile + CloseAtomicallyReplace):
// content-addressed data is written to a temp file and atomically renamed
// into place, so a reader never observes a partially written blob. A
// multi-blob write fans the per-blob writes out across golang.org/x/sync's
// errgroup (distr1-distri's cmd/distri/batch.go pattern), so the "written
// all blobs, or none" requirement in the core spec is enforced by
// cancelling the remaining writes on the first failure.
package blobstore

import (
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"golang.org/x/sync/errgroup"

	"github.com/scigolib/tinylog/internal/packet"
	"github.com/scigolib/tinylog/internal/utils"
)

// ErrNotFound is returned by Read when no blob file exists for the
// requested signature.
var ErrNotFound = os.ErrNotExist

// Store is a content-addressed sidecar directory, sharded by the first
// byte of each blob's signature.
type Store struct {
	root string
}

// New returns a Store rooted at root (an already-resolved "_blobs"
// directory; see RootFromFeedPath).
func New(root string) *Store {
	return &Store{root: root}
}

// RootFromFeedPath derives a feed's blob directory from its file path:
// strip the last two path components (the feed's own directory and file
// name) and append "_blobs".
func RootFromFeedPath(feedPath string) string {
	dir := filepath.Dir(filepath.Dir(feedPath))
	return filepath.Join(dir, "_blobs")
}

func (s *Store) pathFor(sig [20]byte) string {
	h := hex.EncodeToString(sig[:])
	return filepath.Join(s.root, h[:2], h[2:])
}

// Read loads the blob stored under signature. Returns ErrNotFound
// (wrapped) if no such blob exists.
func (s *Store) Read(sig [20]byte) (*packet.Blob, error) {
	path := s.pathFor(sig)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, utils.WrapError("blobstore: read "+path, ErrNotFound)
		}
		return nil, utils.WrapError("blobstore: read "+path, err)
	}
	return packet.ParseBlob(raw)
}

// Write persists every blob in blobs, sharded by its own signature.
// Writes happen concurrently; if any blob fails to write, the others are
// cancelled and the first error is returned - the call is all-or-nothing.
func (s *Store) Write(blobs []*packet.Blob) error {
	g := new(errgroup.Group)
	for _, b := range blobs {
		b := b
		g.Go(func() error {
			return s.writeOne(b)
		})
	}
	return g.Wait()
}

func (s *Store) writeOne(b *packet.Blob) error {
	sig := b.Signature()
	path := s.pathFor(sig)
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return utils.WrapError("blobstore: mkdir "+dir, err)
	}

	t, err := renameio.TempFile("", path)
	if err != nil {
		return utils.WrapError("blobstore: create temp file for "+path, err)
	}
	defer t.Cleanup()

	if _, err := t.Write(b.Wire()); err != nil {
		return utils.WrapError("blobstore: write "+path, err)
	}
	if err := t.CloseAtomicallyReplace(); err != nil {
		return utils.WrapError("blobstore: commit "+path, err)
	}
	return nil
}
