// Package treematch implements rooted-tree subgraph isomorphism with
// attribute filtering, following the Shamir & Tsur algorithm adapted to
// attribute-bearing trees. It answers one question: does a host tree
// contain a pattern tree as a rooted subgraph, respecting per-node
// attribute constraints?
package treematch

// Node is a single vertex of a Tree: an opaque label plus an ordered
// attribute map. Attrs preserves insertion order so that iteration over a
// node's attributes (e.g. for the subset predicate) is deterministic.
type Node struct {
	Label string
	Attrs []Attr
}

// Attr is a single key/value attribute on a Node.
type Attr struct {
	Key   string
	Value string
}

// Get returns the value for key and whether it was present.
func (n *Node) Get(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// NewNode builds a Node with the given label and attributes, in the order
// given.
func NewNode(label string, attrs ...Attr) Node {
	return Node{Label: label, Attrs: attrs}
}

// Tree is a directed rooted tree over Nodes, addressed by index. Index 0
// has no special meaning; the root is discovered via Root().
type Tree struct {
	nodes       []Node
	parent      []int // parent[i] = index of parent, -1 for root
	children    [][]int
	multiParent bool // set once any node is given a second parent via AddEdge
}

// NewTree builds an empty Tree. Use AddNode/AddEdge (or a builder such as
// tracetree.BuildHostTree) to populate it.
func NewTree() *Tree {
	return &Tree{}
}

// AddNode appends a node and returns its index.
func (t *Tree) AddNode(n Node) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, n)
	t.parent = append(t.parent, -1)
	t.children = append(t.children, nil)
	return idx
}

// AddEdge records parent -> child. Both indices must already exist. It is
// the caller's responsibility to ensure the result is a tree (no cycles);
// Root() surfaces a MalformedTree error if the root invariant is violated.
// A second AddEdge call naming the same child gives it in-degree greater
// than one -- the edge is still recorded (last writer wins for Parent;
// Children keeps both edges), but the tree is flagged unsupported and Root()
// will report it as such rather than silently matching against a
// structure that is not itself a tree.
func (t *Tree) AddEdge(parent, child int) {
	if t.parent[child] != -1 {
		t.multiParent = true
	}
	t.parent[child] = parent
	t.children[parent] = append(t.children[parent], child)
}

// NodeCount returns the number of nodes in the tree.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// Node returns the node at index i.
func (t *Tree) Node(i int) *Node { return &t.nodes[i] }

// Children returns the direct children of node i, in insertion order.
func (t *Tree) Children(i int) []int { return t.children[i] }

// Parent returns the parent of node i, or -1 if i is the root.
func (t *Tree) Parent(i int) int { return t.parent[i] }

// Parents returns the direct parent of node i as a single-element slice,
// or nil for the root. Mirrors Children for symmetry in call sites that
// treat parents/children uniformly (see NeighboursUndirected).
func (t *Tree) Parents(i int) []int {
	if p := t.parent[i]; p >= 0 {
		return []int{p}
	}
	return nil
}

// NeighboursUndirected returns the union of parent and children of node i:
// the matching kernel needs undirected degree for the Shamir-Tsur t+1
// bound (§4.1, §4.4 of the spec).
func (t *Tree) NeighboursUndirected(i int) []int {
	children := t.Children(i)
	out := make([]int, 0, len(children)+1)
	out = append(out, children...)
	if p := t.parent[i]; p >= 0 {
		out = append(out, p)
	}
	return out
}

// Root returns the unique in-degree-0 node. It fails with ErrUnsupportedQuery
// if any node was given more than one parent (the input is not itself a
// tree), or ErrMalformedTree if zero or multiple roots exist.
func (t *Tree) Root() (int, error) {
	if t.multiParent {
		return -1, ErrUnsupportedQuery
	}
	root := -1
	for i, p := range t.parent {
		if p == -1 {
			if root != -1 {
				return -1, ErrMalformedTree
			}
			root = i
		}
	}
	if root == -1 {
		return -1, ErrMalformedTree
	}
	return root, nil
}

// Leaves enumerates the out-degree-0 descendants of root (inclusive of
// root itself if root has no children).
func (t *Tree) Leaves(root int) []int {
	var leaves []int
	var walk func(int)
	walk = func(n int) {
		children := t.children[n]
		if len(children) == 0 {
			leaves = append(leaves, n)
			return
		}
		for _, c := range children {
			walk(c)
		}
	}
	walk(root)
	return leaves
}

// PostOrder returns a lazy (precomputed, but presented as a sequence)
// visitation of every descendant of root, each node strictly after all of
// its descendants.
func (t *Tree) PostOrder(root int) []int {
	order := make([]int, 0, len(t.nodes))
	var walk func(int)
	walk = func(n int) {
		for _, c := range t.children[n] {
			walk(c)
		}
		order = append(order, n)
	}
	walk(root)
	return order
}
