// Package alpha implements the AlphaBuilder of spec §4.2
// (include/klee/Expr/AlphaBuilder.h): a deterministic renaming of every
// array referenced by an expression set to alpha_0, alpha_1, ... by visit
// order, producing isomorphic expressions usable as cache keys regardless
// of the arrays' actual interned identity.
package alpha

import "symexec/internal/expr"

// Builder assigns each distinct array it encounters the name alpha_N in
// first-visit order and remembers each assignment, so repeated calls against
// the same expression set are idempotent and deterministic. It does not
// rewrite nodes.
//
// renamed is keyed by ULHash with Equal-checked buckets rather than a plain
// map[expr.UpdateListRef]int: two UpdateListRef values can be Equal without
// being the same Go value (e.g. after a round trip through a query-log
// parse), and a bare interface map key compares by identity, not by Equal.
type Builder struct {
	nextIndex int
	renamed   map[uint64][]ulEntry
}

type ulEntry struct {
	list  expr.UpdateListRef
	index int
}

func NewBuilder() *Builder {
	return &Builder{renamed: make(map[uint64][]ulEntry)}
}

// IndexOf returns the alpha index assigned to list, assigning the next free
// index on first sight.
func (b *Builder) IndexOf(list expr.UpdateListRef) int {
	h := list.ULHash()
	for _, e := range b.renamed[h] {
		if e.list.Equal(list) {
			return e.index
		}
	}
	idx := b.nextIndex
	b.nextIndex++
	b.renamed[h] = append(b.renamed[h], ulEntry{list: list, index: idx})
	return idx
}

// Entry pairs an assigned array with its alpha index.
type Entry struct {
	List  expr.UpdateListRef
	Index int
}

// Entries returns every array this Builder has assigned an index to so
// far, ordered by index (i.e. first-visit order). Used by internal/querylog
// to print a readable array declaration per entry.
func (b *Builder) Entries() []Entry {
	out := make([]Entry, b.nextIndex)
	for _, bucket := range b.renamed {
		for _, e := range bucket {
			out[e.index] = Entry{List: e.list, Index: e.index}
		}
	}
	return out
}

// Visit walks n, assigning alpha indices to every Read's UpdateList in
// left-to-right visit order. It does not itself rewrite the DAG (renaming
// an UpdateList's backing array is a symbarray-level operation). No
// rewrite in the module consumes these indices: internal/bidir's Compose
// renames arrays to SourceAlpha arrays with its own counter.
func (b *Builder) Visit(n *expr.Node) {
	seen := make(map[*expr.Node]bool)
	b.visit(n, seen)
}

func (b *Builder) visit(n *expr.Node, seen map[*expr.Node]bool) {
	if seen[n] {
		return
	}
	seen[n] = true
	if n.Kind() == expr.Read {
		b.IndexOf(n.UpdateList())
	}
	for _, op := range n.Operands() {
		b.visit(op, seen)
	}
}

// Fingerprint returns a stable key for n under this builder's current
// alpha assignment: each reachable node's kind and width, its alpha index
// if it is a Read, and its bytes if it is a Constant, folded in visit order
// (the node's own hash is not used, since it includes array identity), so that two isomorphic-but-not-identical
// queries (differing only in which concrete arrays they name) fingerprint
// equal once each has been visited by its own Builder.
func (b *Builder) Fingerprint(n *expr.Node) uint64 {
	seen := make(map[*expr.Node]bool)
	h := uint64(1469598103934665603)
	b.fingerprint(n, seen, &h)
	return h
}

func (b *Builder) fingerprint(n *expr.Node, seen map[*expr.Node]bool, h *uint64) {
	if seen[n] {
		return
	}
	seen[n] = true
	*h ^= uint64(n.Kind())
	*h *= 1099511628211
	*h ^= uint64(n.Width())
	*h *= 1099511628211
	if n.Kind() == expr.Read {
		*h ^= uint64(b.IndexOf(n.UpdateList()))
		*h *= 1099511628211
	}
	if v, ok := n.ConstantValue(); ok {
		for _, by := range v.Bytes() {
			*h ^= uint64(by)
			*h *= 1099511628211
		}
	}
	for _, op := range n.Operands() {
		b.fingerprint(op, seen, h)
	}
}
