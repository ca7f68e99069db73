package treematch

// initializeCentralized performs the S initialisation of §4.2: every
// S[(v,u)] starts empty, then every (host leaf, pattern leaf) pair is
// seeded with the leaf itself and each of the leaf's parents, bound to the
// singleton witness [(leaf_h, leaf_g)].
func initializeCentralized(g, h *Tree, rootG, rootH int) *memoTable {
	memo := newMemoTable()
	for v := 0; v < g.NodeCount(); v++ {
		for u := 0; u < h.NodeCount(); u++ {
			memo.ensure(MemoKey{V: v, U: u})
		}
	}
	for _, leafG := range g.Leaves(rootG) {
		for _, leafH := range h.Leaves(rootH) {
			key := MemoKey{V: leafG, U: leafH}
			witness := []Pair{{Pattern: leafH, Host: leafG}}
			memo.set(key, leafH, witness)
			if p := h.Parent(leafH); p >= 0 {
				memo.set(key, p, witness)
			}
		}
	}
	return memo
}

// Match is §4.6: the centralised driver. It returns the mapping from
// pattern node index to host node index (as (pattern,host) pairs) if the
// pattern tree h embeds as a rooted subgraph of the host tree g respecting
// the subset predicate, or ok=false otherwise.
func Match(g, h *Tree) (mapping []Pair, ok bool, err error) {
	rootG, err := g.Root()
	if err != nil {
		return nil, false, err
	}
	rootH, err := h.Root()
	if err != nil {
		return nil, false, err
	}
	if g.NodeCount() < h.NodeCount() {
		return nil, false, nil
	}

	memo := initializeCentralized(g, h, rootG, rootH)

	for _, v := range g.PostOrder(rootG) {
		found, matchedRoot := innerLoop(g, h, memo, v, rootH)
		if found {
			return reconstruct(h, memo, rootH, matchedRoot), true, nil
		}
	}
	return nil, false, nil
}
