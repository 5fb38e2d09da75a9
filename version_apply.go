package tinylog

import "fmt"

// JumpVersions computes the ordered edits that transform the document at
// version start into the document at version end, by walking the
// shortest path between them in feed's version graph (see
// ExtractVersionTree) and applying or reverting each version's diff along
// the way.
//
// The path can take three shapes:
//   - monotonically increasing (start < every intermediate < end): apply
//     every version's diff in order, skipping start itself.
//   - monotonically decreasing (start > every intermediate > end): revert
//     every version's diff in order, skipping end itself.
//   - mixed (a V: descends from start to some pivot dependency, then
//     ascends to end): revert the descending leg, skip the pivot, apply
//     the ascending leg.
func JumpVersions(start, end int, feed *Feed, fm FeedManager) ([]Change, error) {
	if start == end {
		return nil, nil
	}

	adjacency, access, err := ExtractVersionTree(feed, fm)
	if err != nil {
		return nil, err
	}

	maxVersion := 0
	for v := range access {
		if v > maxVersion {
			maxVersion = v
		}
	}
	if start > maxVersion || end > maxVersion {
		return nil, fmt.Errorf("tinylog: version %d or %d not available yet (max %d)", start, end, maxVersion)
	}

	path := ShortestPath(adjacency, start, end)
	if path == nil {
		return nil, fmt.Errorf("tinylog: no path between version %d and %d", start, end)
	}

	switch {
	case isMonotonicIncreasing(path):
		return applyPath(path[1:], access, forward)
	case isMonotonicDecreasing(path):
		return applyPath(path[:len(path)-1], access, reverseDir)
	default:
		return applyMixedPath(path, access)
	}
}

type direction int

const (
	forward direction = iota
	reverseDir
)

func isMonotonicIncreasing(path []int) bool {
	for i := 1; i < len(path); i++ {
		if path[i-1] >= path[i] {
			return false
		}
	}
	return true
}

func isMonotonicDecreasing(path []int) bool {
	for i := 1; i < len(path); i++ {
		if path[i-1] <= path[i] {
			return false
		}
	}
	return true
}

func applyPath(steps []int, access map[int]*Feed, dir direction) ([]Change, error) {
	var all []Change
	for _, step := range steps {
		f, ok := access[step]
		if !ok {
			return nil, fmt.Errorf("tinylog: version %d not covered by any known feed", step)
		}
		blob, err := f.GetUpdateBlob(step)
		if err != nil {
			return nil, fmt.Errorf("tinylog: reading version %d: %w", step, err)
		}
		changes, _, err := Decode(blob)
		if err != nil {
			return nil, fmt.Errorf("tinylog: decoding version %d: %w", step, err)
		}
		if dir == reverseDir {
			changes = Reverse(changes)
		}
		all = append(all, changes...)
	}
	return all, nil
}

// applyMixedPath splits a V-shaped path into its descending leg (reverted)
// and ascending leg (applied), ignoring the pivot version where the path
// turns around - that version is the shared dependency both legs already
// account for, not an edit in its own right.
func applyMixedPath(path []int, access map[int]*Feed) ([]Change, error) {
	firstHalf := longestNonIncreasingPrefix(path)
	secondHalf := path[len(firstHalf)+1:]

	reverted, err := applyPath(firstHalf, access, reverseDir)
	if err != nil {
		return nil, err
	}
	applied, err := applyPath(secondHalf, access, forward)
	if err != nil {
		return nil, err
	}
	return append(reverted, applied...), nil
}

// longestNonIncreasingPrefix returns the longest leading slice of path for
// which the remaining suffix, starting at each point, is not yet
// monotonically increasing - i.e. the descending leg of a V-shaped path,
// stopping just before the pivot where the ascent begins.
func longestNonIncreasingPrefix(path []int) []int {
	var out []int
	for i := range path {
		if isMonotonicIncreasing(path[i:]) {
			break
		}
		out = append(out, path[i])
	}
	return out
}
