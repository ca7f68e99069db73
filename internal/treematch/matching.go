package treematch

// bipartiteMatcher computes maximum matchings between a pattern node's
// undirected neighbours (Y) and a host node's undirected neighbours (X).
// The eligibility graph is built once per (v,u) site and reused across the
// |Y|+1 sub-problems the kernel needs (the full match, then one per
// "remove a single Y vertex" case) — equivalent to building a unit-capacity
// flow network once and mutating source-edge capacities between augments,
// as described in the original Shamir/Tsur implementation this is ported
// from. A unit-capacity bipartite max-flow and a maximum bipartite
// matching via augmenting paths are the same computation; we use the
// latter directly rather than modelling an explicit flow graph.
type bipartiteMatcher struct {
	adj      [][]int // adj[yIdx] = eligible xIdx list
	excluded []bool  // excluded[yIdx]: temporarily removed from Y
	matchY   []int   // matchY[yIdx] = xIdx or -1
	matchX   []int   // matchX[xIdx] = yIdx or -1
}

func newBipartiteMatcher(numY, numX int) *bipartiteMatcher {
	return &bipartiteMatcher{
		adj:      make([][]int, numY),
		excluded: make([]bool, numY),
		matchY:   make([]int, numY),
		matchX:   make([]int, numX),
	}
}

// addEdge records that Y-vertex yIdx may match X-vertex xIdx.
func (bm *bipartiteMatcher) addEdge(yIdx, xIdx int) {
	bm.adj[yIdx] = append(bm.adj[yIdx], xIdx)
}

// run computes a maximum matching over the current (non-excluded) Y
// vertices and returns its size. matchY/matchX hold the resulting
// assignment after the call.
func (bm *bipartiteMatcher) run() int {
	for i := range bm.matchY {
		bm.matchY[i] = -1
	}
	for i := range bm.matchX {
		bm.matchX[i] = -1
	}
	size := 0
	visited := make([]bool, len(bm.matchX))
	for y := range bm.adj {
		if bm.excluded[y] {
			continue
		}
		for i := range visited {
			visited[i] = false
		}
		if bm.augment(y, visited) {
			size++
		}
	}
	return size
}

// augment tries to find an augmenting path starting from Y-vertex y,
// standard Kuhn's-algorithm recursion.
func (bm *bipartiteMatcher) augment(y int, visited []bool) bool {
	for _, x := range bm.adj[y] {
		if visited[x] {
			continue
		}
		visited[x] = true
		if bm.matchX[x] == -1 || bm.augment(bm.matchX[x], visited) {
			bm.matchX[x] = y
			bm.matchY[y] = x
			return true
		}
	}
	return false
}

// pairs materialises the current matchY assignment as Y/X index pairs,
// filtering out unmatched Y vertices (equivalent to dropping zero-flow
// source/sink edges from the flow-network formulation).
func (bm *bipartiteMatcher) pairs() [][2]int {
	var out [][2]int
	for y, x := range bm.matchY {
		if x != -1 {
			out = append(out, [2]int{y, x})
		}
	}
	return out
}

// runMatchingKernel is §4.3: the bipartite max-matching kernel between the
// undirected neighbours of host node v and pattern node u. It reads memo
// for edge eligibility and writes witnesses into memo on success.
func runMatchingKernel(g, h *Tree, memo *memoTable, v, u int) {
	X := g.NeighboursUndirected(v)
	Y := h.NeighboursUndirected(u)
	target := len(Y)

	bm := newBipartiteMatcher(len(Y), len(X))
	numEdges := 0
	for yi, y := range Y {
		for xi, x := range X {
			// Crossing memo key: eligibility of edge (y, x) is decided
			// by S[(x, y)] (the CHILDREN, host x / pattern y) recording
			// the CURRENT pattern node u (the parent) as a witnessed
			// ancestor, not by S[(v, u)] itself. Swapping this is a
			// classic, plausible-looking bug — see spec §9.
			if memo.has(MemoKey{V: x, U: y}, u) && subset(g.Node(x), h.Node(y)) {
				bm.addEdge(yi, xi)
				numEdges++
			}
		}
	}

	// Early exit: with fewer than target-1 eligible edges, not even the
	// remove-one-Y-vertex matchings can reach size target-1.
	if numEdges+1 < target {
		return
	}

	key := MemoKey{V: v, U: u}

	full := bm.run()
	if full == target {
		if !memo.has(key, u) {
			memo.set(key, u, toPairs(bm.pairs(), Y, X))
		}
	} else if full < target-1 {
		// No single-vertex deletion can recover a matching of size
		// target-1 from something already that far short.
		return
	}

	// Try removing each single Y vertex (pattern child) in turn, reusing
	// the same eligibility graph.
	for yi, y := range Y {
		bm.excluded[yi] = true
		size := bm.run()
		if size == target-1 && !memo.has(key, y) {
			memo.set(key, y, toPairs(bm.pairs(), Y, X))
		}
		bm.excluded[yi] = false
	}
}

// toPairs converts index-space matcher output back into (pattern-node,
// host-node) references.
func toPairs(idxPairs [][2]int, Y, X []int) []Pair {
	out := make([]Pair, 0, len(idxPairs))
	for _, p := range idxPairs {
		out = append(out, Pair{Pattern: Y[p[0]], Host: X[p[1]]})
	}
	return out
}
