package treematch

import "errors"

// Sentinel errors surfaced eagerly at driver entry (spec §7). The matching
// kernel itself never fails structurally — it simply returns without
// recording a witness when no match is possible at a given site.
var (
	// ErrMalformedTree indicates a missing or multiple roots, or a cycle.
	ErrMalformedTree = errors.New("treematch: malformed tree")

	// ErrBadMemoKey indicates a memo key failed to parse at the
	// serialization boundary (see ParseMemoKey).
	ErrBadMemoKey = errors.New("treematch: malformed memo key")

	// ErrUnsupportedQuery indicates a node was given in-degree greater
	// than one (i.e. the input is not itself a tree). Surfaced by
	// Tree.Root() on either the host or the pattern tree.
	ErrUnsupportedQuery = errors.New("treematch: unsupported query")
)
