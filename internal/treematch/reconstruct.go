package treematch

// reconstruct is §4.5: given a match rooted at hostRoot (the image of the
// pattern root), walk the memo table top-down to assemble the full
// mapping. The root pair is expanded through S[(hostRoot, rootH)][rootH];
// every other pair (u, v) through S[(v, u)][parent(u)], the same entry that
// made (u, v) an eligible edge in its parent's matching. Each pair is
// recorded and expanded once, so the result holds no duplicate pairs.
func reconstruct(h *Tree, memo *memoTable, rootH, hostRoot int) []Pair {
	result := make([]Pair, 0, h.NodeCount())
	seen := make(map[Pair]bool)
	record := func(p Pair) {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}

	stack := []Pair{{Pattern: rootH, Host: hostRoot}}
	for len(stack) > 0 {
		n := len(stack) - 1
		top := stack[n]
		stack = stack[:n]

		record(top)

		witnessKey := top.Pattern
		if p := h.Parent(top.Pattern); p >= 0 {
			witnessKey = p
		}
		witness := memo.get(MemoKey{V: top.Host, U: top.Pattern}, witnessKey)
		for _, child := range witness {
			if seen[child] {
				continue
			}
			record(child)
			stack = append(stack, child)
		}
	}
	return result
}
