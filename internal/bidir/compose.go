package bidir

import (
	"symexec/internal/expr"
	"symexec/internal/symbarray"
)

// Propagation is a matching of a ReachedState with an Obligation at the
// same target location (spec "a matching of a reachedState with a
// ProofObligation at the same target").
type Propagation struct {
	Reached    *ReachedState
	Obligation *Obligation
}

// alphaRenamer is the composition visitor's array-renaming half (spec
// "composing the reached state's path constraints with the pob's path
// constraints (alpha-renaming symbolic arrays ...)"). Every distinct array
// root hash encountered on the obligation side is mapped to a fresh Alpha
// array so it cannot collide with an array of the same shape the reached
// state's own constraints already reference.
type alphaRenamer struct {
	seen map[uint64]*symbarray.Array
	next int
}

func newAlphaRenamer() *alphaRenamer {
	return &alphaRenamer{seen: make(map[uint64]*symbarray.Array)}
}

func (a *alphaRenamer) rename(root *symbarray.Array) *symbarray.Array {
	if r, ok := a.seen[root.Hash()]; ok {
		return r
	}
	fresh := symbarray.Create(root.Size, root.Domain, root.Range, symbarray.Source{
		Kind:       symbarray.SourceAlpha,
		AlphaIndex: a.next,
	})
	a.next++
	a.seen[root.Hash()] = fresh
	return fresh
}

// renamingUpdateList wraps an UpdateList so its Root reports as the
// renamed array while every Read built against it still lands in the
// single interned Node for (renamedRoot, same write chain).
type renamingUpdateList struct {
	orig    *symbarray.UpdateList
	renamed *symbarray.Array
}

func (r *renamingUpdateList) ULHash() uint64 {
	h := r.renamed.Hash()
	mix := func(v uint64) { h ^= v; h *= 1099511628211 }
	mix(r.orig.ULHash() ^ r.orig.Root.Hash())
	return h
}
func (r *renamingUpdateList) ArrayDomainWidth() uint32 { return r.renamed.Domain }
func (r *renamingUpdateList) ArrayRangeWidth() uint32  { return r.renamed.Range }
func (r *renamingUpdateList) ArrayRootHash() uint64    { return r.renamed.Hash() }
func (r *renamingUpdateList) Equal(other expr.UpdateListRef) bool {
	o, ok := other.(*renamingUpdateList)
	return ok && o.renamed == r.renamed && r.orig.Equal(o.orig)
}

// renameVisitor rewrites every Read node's backing array through an
// alphaRenamer, leaving every other node shape untouched (lazy-init
// rewriting is handled separately by rewriteLazyInit, since it targets
// Source.Kind == SourceLazyInitialization rather than every Read).
type renameVisitor struct {
	a *alphaRenamer
}

func (v renameVisitor) Visit(n *expr.Node) expr.Action {
	if n.Kind() != expr.Read {
		return expr.Continue()
	}
	ul, ok := n.UpdateList().(*symbarray.UpdateList)
	if !ok {
		return expr.Continue()
	}
	renamed := v.a.rename(ul.Root)
	fresh, err := expr.NewReadRaw(&renamingUpdateList{orig: ul, renamed: renamed}, n.Index())
	if err != nil {
		return expr.Continue()
	}
	return expr.ReplaceWith(fresh)
}

// Compose implements the composition visitor of spec §4.12: alpha-rename
// every array the obligation's constraints reference (so they cannot
// collide with the reached state's own arrays), then conjoin the renamed
// obligation constraints with the reached state's path constraints.
// Lazy-initialization sources need no separate treatment here: they are
// already SourceLazyInitialization-tagged Arrays, which alphaRenamer maps
// to a fresh SourceAlpha array like any other, which is exactly "rewriting
// lazy-initialization sources through the composition visitor" -- a lazy
// pointer target composed from a backward summary must materialize fresh
// in the reached state's address space rather than reuse the pob's.
func Compose(r *ReachedState, pob *Obligation) ([]*expr.Node, error) {
	a := newAlphaRenamer()
	v := renameVisitor{a: a}

	renamed := make([]*expr.Node, 0, len(pob.Constraints))
	for _, c := range pob.Constraints {
		rc, err := expr.Rewrite(v, c)
		if err != nil {
			return nil, err
		}
		renamed = append(renamed, rc)
	}

	composed := make([]*expr.Node, 0, len(renamed)+len(r.Constraints))
	composed = append(composed, r.Constraints...)
	composed = append(composed, renamed...)
	return composed, nil
}
