package treematch

// Decentralized is the streaming driver of §4.7. It is fed one new host
// node at a time, children before parents (post-order arrival), and
// extends its own memo table with each admission. Unlike Match, state
// persists across calls — callers own a Decentralized instance for the
// lifetime of one stream/query and discard it when the stream closes
// (spec §5 memory policy; the memo table grows monotonically and is never
// reentrant across concurrent streams).
type Decentralized struct {
	h     *Tree
	rootH int
	memo  *memoTable
}

// NewDecentralized creates a streaming driver for pattern tree h.
func NewDecentralized(h *Tree) (*Decentralized, error) {
	rootH, err := h.Root()
	if err != nil {
		return nil, err
	}
	return &Decentralized{h: h, rootH: rootH, memo: newMemoTable()}, nil
}

// initializeNode is §4.2's lazy, per-host-node initialisation: entries
// start empty, and if the host node is a leaf of g (no admitted children
// yet — callers admit children before parents) it is seeded against every
// pattern leaf.
func initializeNode(g, h *Tree, memo *memoTable, node int) {
	for u := 0; u < h.NodeCount(); u++ {
		memo.ensure(MemoKey{V: node, U: u})
	}
	if len(g.Children(node)) != 0 {
		return
	}
	rootH, _ := h.Root()
	for _, leafH := range h.Leaves(rootH) {
		key := MemoKey{V: node, U: leafH}
		witness := []Pair{{Pattern: leafH, Host: node}}
		memo.set(key, leafH, witness)
		if p := h.Parent(leafH); p >= 0 {
			memo.set(key, p, witness)
		}
	}
}

// Admit is the per-call contract of §4.7: v is a newly-added node of the
// host tree g (already wired into g's edges by the caller), isRoot marks
// whether v is the final, root admission. It returns a non-nil mapping
// the moment a match becomes possible, and nil otherwise.
func (d *Decentralized) Admit(g *Tree, v int, isRoot bool) []Pair {
	initializeNode(g, d.h, d.memo, v)

	var matchedRootHost = -1
	for _, c := range g.Children(v) {
		found, matchedRoot := innerLoop(g, d.h, d.memo, c, d.rootH)
		if !isRoot && found {
			matchedRootHost = matchedRoot
		}
	}

	if matchedRootHost != -1 {
		return reconstruct(d.h, d.memo, d.rootH, matchedRootHost)
	}

	if isRoot {
		found, matchedRoot := innerLoop(g, d.h, d.memo, v, d.rootH)
		if found {
			return reconstruct(d.h, d.memo, d.rootH, matchedRoot)
		}
	}
	return nil
}
