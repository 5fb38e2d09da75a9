package tinylog

// GetUpdVersion returns the lowest version number this feed covers
// (anchor_seq+1), or ok=false if the feed has no packets past its anchor
// yet. Version numbers are just absolute feed sequence numbers: a
// continuation feed's anchor_seq is its parent's front_seq, so version
// numbering runs continuously across the handoff.
func (f *Feed) GetUpdVersion() (int, bool) {
	if f.FrontSeq <= f.AnchorSeq {
		return 0, false
	}
	return int(f.AnchorSeq) + 1, true
}

// GetCurrentVersionNum returns the highest version number this feed
// covers (front_seq), or ok=false if the feed has no packets past its
// anchor yet.
func (f *Feed) GetCurrentVersionNum() (int, bool) {
	if f.FrontSeq <= f.AnchorSeq {
		return 0, false
	}
	return int(f.FrontSeq), true
}

// GetUpdateBlob returns the encoded diff (see Encode/Decode) carried by
// the packet at version v, i.e. the verified payload at absolute sequence
// v in this feed.
func (f *Feed) GetUpdateBlob(v int) ([]byte, error) {
	return f.GetBytes(int64(v))
}
