package treematch

import "testing"

// Scenario (a): G = a->b, a->c; H = a->b. Verdict: match, including (a,a)
// and one of (b,b), (b,c).
func TestMatchScenarioA(t *testing.T) {
	g := threeNodeGraph()
	h := twoNodeGraph()

	mapping, ok, err := Match(g, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a match")
	}

	a := findLabel(h, "a")
	b := findLabel(h, "b")
	ga := findLabel(g, "a")
	gb := findLabel(g, "b")
	gc := findLabel(g, "c")

	if !containsPair(mapping, Pair{Pattern: a, Host: ga}) {
		t.Errorf("mapping missing (a,a): %v", mapping)
	}
	if !containsPair(mapping, Pair{Pattern: b, Host: gb}) && !containsPair(mapping, Pair{Pattern: b, Host: gc}) {
		t.Errorf("mapping missing (b,b) or (b,c): %v", mapping)
	}
}

// Scenario (b): G = a->b->c->*, H = a->b. Verdict: match.
func TestMatchScenarioB(t *testing.T) {
	g := chain("a", "b", "c", "*")
	h := twoNodeGraph()

	_, ok, err := Match(g, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a match")
	}
}

// Scenario (c): a four-child star matches a three-child star; swapping G
// and H must not match.
func TestMatchScenarioC(t *testing.T) {
	four := star("root", 4)
	three := star("root", 3)

	_, ok, err := Match(four, three)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected four-child host to match three-child pattern")
	}

	_, ok, err = Match(three, four)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected three-child host NOT to match four-child pattern")
	}
}

// Scenario (d): bookinfo trace. G = productpage->{reviews,details},
// reviews->ratings; H = a->b, a->c. Verdict: match with (a,productpage)
// and {b,c} <-> {details,reviews}.
func TestMatchScenarioD(t *testing.T) {
	g := bookinfoTraceGraph()
	h := threeNodeGraph()

	mapping, ok, err := Match(g, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a match")
	}

	a := findLabel(h, "a")
	b := findLabel(h, "b")
	c := findLabel(h, "c")
	prod := findLabel(g, "productpage-v1")
	det := findLabel(g, "details-v1")
	rev := findLabel(g, "reviews-v1")

	if !containsPair(mapping, Pair{Pattern: a, Host: prod}) {
		t.Errorf("mapping missing (a,productpage): %v", mapping)
	}
	if !containsPair(mapping, Pair{Pattern: b, Host: det}) && !containsPair(mapping, Pair{Pattern: c, Host: det}) {
		t.Errorf("mapping missing details under b or c: %v", mapping)
	}
	if !containsPair(mapping, Pair{Pattern: b, Host: rev}) && !containsPair(mapping, Pair{Pattern: c, Host: rev}) {
		t.Errorf("mapping missing reviews under b or c: %v", mapping)
	}
}

// Scenario (e): Shamir figure 2. The branching pattern cannot be embedded.
func TestMatchScenarioEFigure2NoMatch(t *testing.T) {
	g := gFigure2()
	h := hFigure2()

	_, ok, err := Match(g, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected no match for Shamir figure 2")
	}
}

// Scenario (f): attribute mismatch must block a match regardless of shape.
func TestMatchScenarioFAttributeMismatch(t *testing.T) {
	g := twoNodeGraphWithWrongProperties()
	h := twoNodeGraphWithProperties()

	_, ok, err := Match(g, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected attribute mismatch to block the match")
	}
}

func TestMatchAttributeSubsetAllowsExtraHostAttrs(t *testing.T) {
	g := threeNodeGraphWithProperties()
	h := twoNodeGraphWithProperties()

	_, ok, err := Match(g, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected host's superset of attributes to satisfy the pattern")
	}
}

func TestMatchHostSmallerThanPatternIsNoMatch(t *testing.T) {
	g := twoNodeGraph()
	h := threeNodeGraph()

	mapping, ok, err := Match(g, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected no match, got %v", mapping)
	}
}

func TestMatchFullSelfMatch(t *testing.T) {
	g := threeNodeGraph()
	h := threeNodeGraph()

	_, ok, err := Match(g, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a tree to match itself")
	}
}

func TestMatchMalformedHostTree(t *testing.T) {
	g := NewTree()
	g.AddNode(NewNode("a"))
	b := g.AddNode(NewNode("b"))
	c := g.AddNode(NewNode("c"))
	// three roots: a, b and c are all parentless.
	_ = b
	_ = c
	h := twoNodeGraph()

	_, _, err := Match(g, h)
	if err == nil {
		t.Fatal("expected ErrMalformedTree for a forest with multiple roots")
	}
}

// Soundness: every returned pair respects the subset predicate and
// parent/child pairs in H map to ancestor/descendant pairs in G.
func TestMatchSoundness(t *testing.T) {
	g := bookinfoTraceGraph()
	h := threeNodeChainGraph()

	mapping, ok, err := Match(g, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a match")
	}

	byPattern := make(map[int]int)
	for _, p := range mapping {
		byPattern[p.Pattern] = p.Host
	}

	for u := 0; u < h.NodeCount(); u++ {
		hostIdx, covered := byPattern[u]
		if !covered {
			t.Fatalf("pattern node %d not covered by mapping", u)
		}
		if !subset(g.Node(hostIdx), h.Node(u)) {
			t.Errorf("host node %d does not satisfy pattern node %d's attrs", hostIdx, u)
		}
		if p := h.Parent(u); p >= 0 {
			parentHost := byPattern[p]
			if !isAncestor(g, parentHost, hostIdx) {
				t.Errorf("host image of pattern parent %d (host %d) is not an ancestor of host image of child %d (host %d)", p, parentHost, u, hostIdx)
			}
		}
	}
}

func isAncestor(g *Tree, ancestor, node int) bool {
	for n := g.Parent(node); n >= 0; n = g.Parent(n) {
		if n == ancestor {
			return true
		}
	}
	return ancestor == node
}
