package tinylog

import "github.com/scigolib/tinylog/internal/packet"

// GetParent returns the feed this one was spawned from. Only meaningful
// for a root segment (anchor_seq == 0): its packet at sequence 1, if any,
// is an ischild packet carrying the parent's fid in its payload.
func (f *Feed) GetParent(fm FeedManager) (*Feed, bool) {
	if f.AnchorSeq != 0 {
		return nil, false
	}
	p, err := f.Get(1)
	if err != nil || p.Kind != packet.IsChild {
		return nil, false
	}
	var parentFid [32]byte
	copy(parentFid[:], p.Payload[:32])
	return fm.GetFeed(parentFid)
}

// GetPrev returns the feed this one continues: its packet at sequence 1,
// if any, is an iscontn packet carrying the predecessor's fid in its
// payload.
func (f *Feed) GetPrev(fm FeedManager) (*Feed, bool) {
	p, err := f.Get(1)
	if err != nil || p.Kind != packet.IsContn {
		return nil, false
	}
	var prevFid [32]byte
	copy(prevFid[:], p.Payload[:32])
	return fm.GetFeed(prevFid)
}

// GetContinuation returns the feed this one continues into: the contdas
// terminator packet that ends a feed carries the successor's fid in its
// payload.
func (f *Feed) GetContinuation(fm FeedManager) (*Feed, bool) {
	ended, err := f.HasEnded()
	if err != nil || !ended {
		return nil, false
	}
	p, err := f.Get(-1)
	if err != nil || p.Kind != packet.Contdas {
		return nil, false
	}
	var contFid [32]byte
	copy(contFid[:], p.Payload[:32])
	return fm.GetFeed(contFid)
}

// GetChildren returns every feed spawned from this one: a mkchild packet
// anywhere in the feed carries a child's fid in its payload.
func (f *Feed) GetChildren(fm FeedManager) ([]*Feed, error) {
	pkts, err := f.Iterate()
	if err != nil {
		return nil, err
	}
	var children []*Feed
	for _, p := range pkts {
		if p.Kind != packet.MkChild {
			continue
		}
		var childFid [32]byte
		copy(childFid[:], p.Payload[:32])
		if cf, ok := fm.GetFeed(childFid); ok {
			children = append(children, cf)
		}
	}
	return children, nil
}

// parentLink resolves the feed named by this feed's header parent_id/
// parent_seq fields - the structural link a continuation segment carries
// from the moment it is created, independent of (and gated differently
// than) the packet-derived GetParent query above. ExtractVersionTree uses
// this to walk version numbering across a parent/continuation boundary;
// see DESIGN.md's discussion of the two parent concepts.
func (f *Feed) parentLink(fm FeedManager) (*Feed, bool) {
	if f.ParentSeq == 0 {
		return nil, false
	}
	return fm.GetFeed(f.ParentID)
}

// GetFront returns the feed's front_seq and front_mid, the sequence
// number and message ID of the most recently appended packet.
func (f *Feed) GetFront() (uint32, [20]byte) {
	return f.FrontSeq, f.FrontMid
}

// HasEnded reports whether the feed's most recent packet is a contdas
// terminator. A feed with no packets past its anchor (front_seq <=
// anchor_seq, e.g. a freshly created continuation segment) has not ended
// - there is nothing to inspect yet, and naively calling Get(-1) in that
// state would fail with ErrOutOfRange rather than meaning "ended".
func (f *Feed) HasEnded() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasEndedLocked()
}

func (f *Feed) hasEndedLocked() (bool, error) {
	if f.FrontSeq <= f.AnchorSeq {
		return false, nil
	}
	p, err := f.Get(-1)
	if err != nil {
		return false, err
	}
	return p.Kind == packet.Contdas, nil
}
