package treematch

import (
	"fmt"
	"strconv"
	"strings"
)

// Pair is a (pattern-node, host-node) correspondence, as produced by a
// witness mapping or the final reconstructed embedding.
type Pair struct {
	Pattern int
	Host    int
}

// MemoKey identifies one memo-table cell: a host node v and a pattern node
// u. Serializes as the comma-separated unsigned pair "i,j" described in
// spec §6.
type MemoKey struct {
	V int // host node index
	U int // pattern node index
}

// String renders the key in its wire form.
func (k MemoKey) String() string {
	return strconv.Itoa(k.V) + "," + strconv.Itoa(k.U)
}

// ParseMemoKey parses the wire form produced by MemoKey.String, failing
// with ErrBadMemoKey on malformed input.
func ParseMemoKey(s string) (MemoKey, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return MemoKey{}, fmt.Errorf("%w: %q", ErrBadMemoKey, s)
	}
	v, err := strconv.Atoi(parts[0])
	if err != nil {
		return MemoKey{}, fmt.Errorf("%w: %q", ErrBadMemoKey, s)
	}
	u, err := strconv.Atoi(parts[1])
	if err != nil {
		return MemoKey{}, fmt.Errorf("%w: %q", ErrBadMemoKey, s)
	}
	if v < 0 || u < 0 {
		return MemoKey{}, fmt.Errorf("%w: %q", ErrBadMemoKey, s)
	}
	return MemoKey{V: v, U: u}, nil
}

// entry is S[(v,u)]: an ordered mapping from ancestor pattern nodes
// (including u itself) to a witness. Presence of a key in the map is the
// tag distinguishing "no witness recorded" from "witness recorded" — even
// an empty (but non-nil) slice is a valid witness, e.g. for a pattern leaf
// whose only neighbour (its parent) was the removed Y vertex. Never treat a missing
// key and an empty slice as the same thing.
type entry struct {
	keys   []int // insertion order, for deterministic serialization/debug
	values map[int][]Pair
}

func newEntry() entry {
	return entry{values: make(map[int][]Pair)}
}

func (e *entry) has(a int) bool {
	_, ok := e.values[a]
	return ok
}

func (e *entry) get(a int) []Pair {
	return e.values[a]
}

func (e *entry) set(a int, witness []Pair) {
	if _, ok := e.values[a]; !ok {
		e.keys = append(e.keys, a)
	}
	e.values[a] = witness
}

// memoTable is set S: for every (host node, pattern node) pair, the
// witness map keyed by ancestor-or-self pattern nodes. Created at driver
// entry, mutated only by the driver, dropped at driver exit. Never shared
// across queries (spec §3 lifecycle, §5 concurrency model).
type memoTable struct {
	cells map[MemoKey]entry
}

func newMemoTable() *memoTable {
	return &memoTable{cells: make(map[MemoKey]entry)}
}

// ensure returns the entry for key, creating an empty one if absent.
func (m *memoTable) ensure(key MemoKey) entry {
	e, ok := m.cells[key]
	if !ok {
		e = newEntry()
		m.cells[key] = e
	}
	return e
}

func (m *memoTable) has(key MemoKey, a int) bool {
	e, ok := m.cells[key]
	if !ok {
		return false
	}
	return e.has(a)
}

func (m *memoTable) get(key MemoKey, a int) []Pair {
	e := m.cells[key]
	return e.get(a)
}

// set records witness for (key, a), mutating the entry map in place.
func (m *memoTable) set(key MemoKey, a int, witness []Pair) {
	e := m.ensure(key)
	e.set(a, witness)
	m.cells[key] = e
}

// ancestorsOrSelf returns {u} ∪ ancestors(u) in the pattern tree H,
// nearest-first: the ancestor part of the domain bound on S[(v,u)] keys
// (the matching kernel may also write keys for u's children).
func ancestorsOrSelf(h *Tree, u int) []int {
	out := []int{u}
	for p := h.Parent(u); p >= 0; p = h.Parent(p) {
		out = append(out, p)
	}
	return out
}
