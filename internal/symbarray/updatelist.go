package symbarray

import "symexec/internal/expr"

// UpdateNode is one layered write: (index, value) plus the rest of the
// chain and how many updates deep it sits (spec §4.1: "each UpdateNode is
// (index expr, value expr, next, size)").
type UpdateNode struct {
	index *expr.Node
	value *expr.Node
	next  *UpdateNode
	size  int
}

// UpdateList is an (array root, linked chain of writes) pair. Lists are
// persistent: Extend never mutates an existing list, it only builds a new
// head referencing the old one, so every prior reader keeps seeing its own
// view (spec §4.1: "never mutated in place once shared").
type UpdateList struct {
	Root *Array
	Head *UpdateNode
}

// New returns the empty update list over root (no writes yet).
func New(root *Array) *UpdateList {
	return &UpdateList{Root: root}
}

// Extend returns a fresh list with (index, value) as its new head.
func (ul *UpdateList) Extend(index, value *expr.Node) *UpdateList {
	size := 1
	if ul.Head != nil {
		size = ul.Head.size + 1
	}
	return &UpdateList{Root: ul.Root, Head: &UpdateNode{index: index, value: value, next: ul.Head, size: size}}
}

// Size returns the number of writes layered on top of the root array.
func (ul *UpdateList) Size() int {
	if ul.Head == nil {
		return 0
	}
	return ul.Head.size
}

// ULHash implements expr.UpdateListRef.
func (ul *UpdateList) ULHash() uint64 {
	h := ul.Root.Hash()
	mix := func(v uint64) { h ^= v; h *= 1099511628211 }
	for n := ul.Head; n != nil; n = n.next {
		mix(n.index.Hash())
		mix(n.value.Hash())
	}
	return h
}

// ArrayDomainWidth/ArrayRangeWidth implement expr.UpdateListRef.
func (ul *UpdateList) ArrayDomainWidth() uint32 { return ul.Root.Domain }
func (ul *UpdateList) ArrayRangeWidth() uint32  { return ul.Root.Range }

// ArrayRootHash implements expr.UpdateListRef.
func (ul *UpdateList) ArrayRootHash() uint64 { return ul.Root.Hash() }

// Equal implements expr.UpdateListRef: structural equality, not identity,
// so two lists built independently (e.g. one replayed from a query log)
// still compare equal if they carry the same root and write chain.
func (ul *UpdateList) Equal(other expr.UpdateListRef) bool {
	o, ok := other.(*UpdateList)
	if !ok || ul.Root != o.Root {
		return false
	}
	a, b := ul.Head, o.Head
	for a != nil && b != nil {
		if !expr.Equal(a.index, b.index) || !expr.Equal(a.value, b.value) {
			return false
		}
		a, b = a.next, b.next
	}
	return a == nil && b == nil
}
