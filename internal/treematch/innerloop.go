package treematch

// innerLoop is §4.4: for host node v, run the matching kernel against
// every pattern node passing the Shamir-Tsur degree bound, then check
// whether the pattern root is now matched at v. Returns (true, v) the
// moment a match is found rooted at v.
func innerLoop(g, h *Tree, memo *memoTable, v, rootH int) (bool, int) {
	vDegree := len(g.NeighboursUndirected(v))
	for u := 0; u < h.NodeCount(); u++ {
		uDegree := len(h.NeighboursUndirected(u))
		// Degree bound: a pattern node with more children than the host
		// node can have (plus one) cannot be matched there as a root of
		// subtree.
		if uDegree > vDegree+1 {
			continue
		}
		runMatchingKernel(g, h, memo, v, u)
	}

	if memo.has(MemoKey{V: v, U: rootH}, rootH) && subset(g.Node(v), h.Node(rootH)) {
		return true, v
	}
	return false, -1
}
