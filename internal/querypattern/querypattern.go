// Package querypattern loads pattern trees from declarative YAML fixtures,
// the same way the cardinality checker's patterns package loads its
// log-template YAML config -- a flat document, unmarshalled with
// gopkg.in/yaml.v3, no regex/operator layer on top.
package querypattern

import (
	"fmt"
	"os"

	"github.com/fidde/tracematch/internal/treematch"
	"gopkg.in/yaml.v3"
)

// nodeSpec is one entry of the YAML document's node list.
type nodeSpec struct {
	ID     string            `yaml:"id"`
	Parent string            `yaml:"parent"`
	Attrs  map[string]string `yaml:"attrs"`
}

// document is the top-level shape of a pattern-tree YAML file.
type document struct {
	Nodes []nodeSpec `yaml:"nodes"`
}

// LoadTree reads a YAML pattern-tree fixture and builds a treematch.Tree.
// Exactly one node must omit "parent" (the root); every other node's
// parent must reference a node ID already declared earlier in the list.
func LoadTree(path string) (*treematch.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("querypattern: reading %s: %w", path, err)
	}
	return ParseTree(data)
}

// ParseTree builds a treematch.Tree directly from YAML bytes, for callers
// that already have the document in memory (tests, embedded fixtures).
func ParseTree(data []byte) (*treematch.Tree, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("querypattern: parsing YAML: %w", err)
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("querypattern: document has no nodes")
	}

	t := treematch.NewTree()
	indexByID := make(map[string]int, len(doc.Nodes))
	rootSeen := false

	for _, n := range doc.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("querypattern: node missing an id")
		}
		if _, dup := indexByID[n.ID]; dup {
			return nil, fmt.Errorf("querypattern: duplicate node id %q", n.ID)
		}

		idx := t.AddNode(treematch.NewNode(n.ID, attrsOf(n.Attrs)...))
		indexByID[n.ID] = idx

		if n.Parent == "" {
			if rootSeen {
				return nil, fmt.Errorf("querypattern: more than one root (second: %q)", n.ID)
			}
			rootSeen = true
			continue
		}

		parentIdx, ok := indexByID[n.Parent]
		if !ok {
			return nil, fmt.Errorf("querypattern: node %q references undeclared parent %q", n.ID, n.Parent)
		}
		t.AddEdge(parentIdx, idx)
	}

	if !rootSeen {
		return nil, fmt.Errorf("querypattern: no root node (every node declares a parent)")
	}

	return t, nil
}

// attrsOf converts a YAML map into ordered treematch.Attr pairs. Go's map
// iteration order is randomized, so callers that need deterministic attr
// ordering across runs should rely on subset-predicate semantics (order
// never affects matching), not on iteration order of the source map.
func attrsOf(m map[string]string) []treematch.Attr {
	out := make([]treematch.Attr, 0, len(m))
	for k, v := range m {
		out = append(out, treematch.Attr{Key: k, Value: v})
	}
	return out
}
