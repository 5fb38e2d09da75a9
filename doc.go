// Package tinylog implements a tiny append-only authenticated log store
// ("feeds") together with a line-diff version-control layer that replays
// update records across a DAG of feeds.
//
// A Feed is a single append-only file: a 128-byte header followed by a
// sequence of 128-byte packet frames, each chained to the previous one
// by a message ID. Oversize payloads spill into a content-addressed
// sidecar blob store (internal/blobstore) as chains of 120-byte blobs.
//
// On top of feeds, the version engine (diff.go, version.go,
// version_apply.go) encodes per-version line diffs into feed packets,
// reconstructs the version dependency graph by walking a feed's parent
// chain, and computes the sequence of applies/reverts needed to
// transform file contents between any two versions.
package tinylog
