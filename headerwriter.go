package tinylog

import (
	"os"

	"github.com/scigolib/tinylog/internal/frame"
	"github.com/scigolib/tinylog/internal/utils"
)

// HeaderWriter updates the front_seq/front_mid trailer of a feed's
// header after an append. It is a seam (per §9 of the spec): a desktop
// target can patch just those 24 bytes in place, while a constrained
// environment that cannot do partial in-place writes can substitute
// fullRewriteHeaderWriter instead. The observable result is identical.
type HeaderWriter interface {
	WriteFrontFields(path string, fields []byte) error
}

// partialHeaderWriter overwrites only the 24 header bytes that changed.
// This is the default - any modern filesystem supports WriteAt at an
// arbitrary offset.
type partialHeaderWriter struct{}

func (partialHeaderWriter) WriteFrontFields(path string, fields []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return utils.WrapError("tinylog: open for header update "+path, err)
	}
	defer f.Close()

	if _, err := f.WriteAt(fields, frame.FrontFieldsOffset); err != nil {
		return utils.WrapError("tinylog: write header fields "+path, err)
	}
	return nil
}

// fullRewriteHeaderWriter reads the entire file, substitutes the header
// bytes, and writes the whole buffer back - the approach the original
// micropython implementation takes because its filesystem does not
// support in-place partial writes.
type fullRewriteHeaderWriter struct{}

func (fullRewriteHeaderWriter) WriteFrontFields(path string, fields []byte) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return utils.WrapError("tinylog: read for header rewrite "+path, err)
	}
	if len(content) < frame.FrontFieldsOffset+len(fields) {
		return utils.WrapError("tinylog: header rewrite "+path, os.ErrInvalid)
	}
	copy(content[frame.FrontFieldsOffset:frame.FrontFieldsOffset+len(fields)], fields)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return utils.WrapError("tinylog: write header rewrite "+path, err)
	}
	return nil
}

var defaultHeaderWriter HeaderWriter = partialHeaderWriter{}
