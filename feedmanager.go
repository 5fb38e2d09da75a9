package tinylog

import "sync"

// FeedManager resolves a feed identifier to its Feed handle. The core
// spec treats this lookup as an external collaborator - in a full
// deployment it would be backed by a directory layout or a database: a
// feed's file path is derived from its fid by some policy the core
// doesn't care about. FeedRegistry below is the minimal in-memory
// implementation this module needs to exercise the version engine and
// topology queries against a set of feeds opened ahead of time.
type FeedManager interface {
	GetFeed(fid [32]byte) (*Feed, bool)
}

// FeedRegistry is a trivial in-memory FeedManager: a fid -> *Feed map
// guarded by a mutex, since feeds may be registered and looked up from
// more than one goroutine even though a single feed is never
// concurrently appended to (see §5 of the spec).
type FeedRegistry struct {
	mu    sync.RWMutex
	feeds map[[32]byte]*Feed
}

// NewFeedRegistry returns an empty registry.
func NewFeedRegistry() *FeedRegistry {
	return &FeedRegistry{feeds: make(map[[32]byte]*Feed)}
}

// Register adds or replaces the feed known under its own Fid.
func (r *FeedRegistry) Register(f *Feed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feeds[f.Fid] = f
}

// GetFeed implements FeedManager.
func (r *FeedRegistry) GetFeed(fid [32]byte) (*Feed, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.feeds[fid]
	return f, ok
}
