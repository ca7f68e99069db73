package treematch

// Helpers mirroring the graph fixtures used by the original Shamir/Tsur
// test suite this package is ported from (bookinfo trace, Shamir figure 2,
// star graphs, chains).

// chain builds a -> b -> c -> ... over the given labels.
func chain(labels ...string) *Tree {
	t := NewTree()
	prev := -1
	for _, l := range labels {
		n := t.AddNode(NewNode(l))
		if prev != -1 {
			t.AddEdge(prev, n)
		}
		prev = n
	}
	return t
}

// star builds a root with the given number of unlabeled children.
func star(root string, numChildren int) *Tree {
	t := NewTree()
	r := t.AddNode(NewNode(root))
	for i := 0; i < numChildren; i++ {
		c := t.AddNode(NewNode("child"))
		t.AddEdge(r, c)
	}
	return t
}

// threeNodeGraph: a -> b, a -> c.
func threeNodeGraph() *Tree {
	t := NewTree()
	a := t.AddNode(NewNode("a"))
	b := t.AddNode(NewNode("b"))
	c := t.AddNode(NewNode("c"))
	t.AddEdge(a, b)
	t.AddEdge(a, c)
	return t
}

// threeNodeChainGraph: a -> b -> c.
func threeNodeChainGraph() *Tree {
	return chain("a", "b", "c")
}

// twoNodeGraph: a -> b.
func twoNodeGraph() *Tree {
	return chain("a", "b")
}

func threeNodeGraphWithProperties() *Tree {
	t := NewTree()
	a := t.AddNode(NewNode("a", Attr{Key: "height", Value: "100"}, Attr{Key: "breadth", Value: "5"}))
	b := t.AddNode(NewNode("b"))
	c := t.AddNode(NewNode("c"))
	t.AddEdge(a, b)
	t.AddEdge(a, c)
	return t
}

func twoNodeGraphWithProperties() *Tree {
	t := NewTree()
	a := t.AddNode(NewNode("a", Attr{Key: "height", Value: "100"}))
	b := t.AddNode(NewNode("b"))
	t.AddEdge(a, b)
	return t
}

func twoNodeGraphWithWrongProperties() *Tree {
	t := NewTree()
	a := t.AddNode(NewNode("a", Attr{Key: "height", Value: "1"}))
	b := t.AddNode(NewNode("b"))
	t.AddEdge(a, b)
	return t
}

// gFigure2 / hFigure2 reproduce figure 2 of the Shamir & Tsur paper: a
// branching pattern that must NOT embed into a narrower host tree.
func gFigure2() *Tree {
	t := NewTree()
	r := t.AddNode(NewNode("r"))
	v := t.AddNode(NewNode("v"))
	v1 := t.AddNode(NewNode("v1"))
	v2 := t.AddNode(NewNode("v2"))
	v3 := t.AddNode(NewNode("v3"))
	left := t.AddNode(NewNode("leftchild"))
	right := t.AddNode(NewNode("rightchild"))
	t.AddEdge(r, v)
	t.AddEdge(v, v1)
	t.AddEdge(v, v2)
	t.AddEdge(v, v3)
	t.AddEdge(v1, left)
	t.AddEdge(v1, right)
	return t
}

func hFigure2() *Tree {
	t := NewTree()
	u := t.AddNode(NewNode("u"))
	u1 := t.AddNode(NewNode("u1"))
	u2 := t.AddNode(NewNode("u2"))
	u3 := t.AddNode(NewNode("u3"))
	u1Left := t.AddNode(NewNode("u1left"))
	u1Right := t.AddNode(NewNode("u1right"))
	u3Child := t.AddNode(NewNode("u3child"))
	t.AddEdge(u, u1)
	t.AddEdge(u, u2)
	t.AddEdge(u, u3)
	t.AddEdge(u1, u1Left)
	t.AddEdge(u1, u1Right)
	t.AddEdge(u3, u3Child)
	return t
}

func bookinfoTraceGraph() *Tree {
	t := NewTree()
	productpage := t.AddNode(NewNode("productpage-v1"))
	reviews := t.AddNode(NewNode("reviews-v1"))
	ratings := t.AddNode(NewNode("ratings-v1"))
	details := t.AddNode(NewNode("details-v1"))
	t.AddEdge(productpage, reviews)
	t.AddEdge(productpage, details)
	t.AddEdge(reviews, ratings)
	return t
}

// findLabel returns the index of the node with the given label, or -1.
func findLabel(t *Tree, label string) int {
	for i := 0; i < t.NodeCount(); i++ {
		if t.Node(i).Label == label {
			return i
		}
	}
	return -1
}

func containsPair(pairs []Pair, p Pair) bool {
	for _, q := range pairs {
		if q == p {
			return true
		}
	}
	return false
}
