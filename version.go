package tinylog

import "fmt"

// maxParentChainHops bounds how far ExtractVersionTree will walk up a
// feed's parent chain before giving up. Real feeds are never this deep;
// this only guards against a malformed or cyclic parent pointer turning a
// lookup into an infinite loop.
const maxParentChainHops = 64

// ExtractVersionTree walks feed's parent chain all the way back,
// recording which feed carries each version number, then reads every
// version's encoded diff to learn its declared dependency and builds the
// bidirectional adjacency graph those dependencies form. The result is
// not simply 1-2-3-...: a version can declare any earlier version as its
// dependency (branches), so the "tree" is really a graph walked with
// ShortestPath.
func ExtractVersionTree(feed *Feed, fm FeedManager) (map[int][]int, map[int]*Feed, error) {
	access := make(map[int]*Feed)
	maxVersion := 0

	current := feed
	for hops := 0; ; hops++ {
		if hops >= maxParentChainHops {
			return nil, nil, fmt.Errorf("tinylog: parent chain exceeds %d hops, possible cycle", maxParentChainHops)
		}

		minV, ok := current.GetUpdVersion()
		if !ok {
			break
		}
		maxV, ok := current.GetCurrentVersionNum()
		if !ok {
			break
		}
		if maxV > maxVersion {
			maxVersion = maxV
		}
		for i := minV; i <= maxV; i++ {
			access[i] = current
		}

		parent, ok := current.parentLink(fm)
		if !ok {
			break
		}
		current = parent
	}

	tree := make(map[int][]int)
	for i := 1; i <= maxVersion; i++ {
		accessFeed, ok := access[i]
		if !ok {
			continue
		}
		update, err := accessFeed.GetUpdateBlob(i)
		if err != nil {
			return nil, nil, fmt.Errorf("tinylog: reading version %d: %w", i, err)
		}
		if len(update) < 4 {
			return nil, nil, fmt.Errorf("tinylog: version %d update too short for a dependency header", i)
		}
		depOn := int(uint32(update[0])<<24 | uint32(update[1])<<16 | uint32(update[2])<<8 | uint32(update[3]))

		tree[i] = append(tree[i], depOn)
		tree[depOn] = append(tree[depOn], i)
	}

	return tree, access, nil
}

// ShortestPath returns the shortest sequence of version numbers
// connecting start to end in adjacency (breadth-first, so the first path
// found is shortest). Returns nil if end is unreachable from start.
func ShortestPath(adjacency map[int][]int, start, end int) []int {
	if start == end {
		return []int{start}
	}

	visited := map[int]bool{start: true}
	queue := [][]int{{start}}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		current := path[len(path)-1]

		for _, n := range adjacency[current] {
			if visited[n] {
				continue
			}
			next := append(append([]int{}, path...), n)
			if n == end {
				return next
			}
			visited[n] = true
			queue = append(queue, next)
		}
	}
	return nil
}
