package symbarray

import (
	"math/big"

	"symexec/internal/expr"
)

// Read implements ReadExpr::create (spec §4.2): it tries to resolve a read
// at a constant index against the update chain or the root's constant
// source before falling back to an actual Read node.
func Read(ul *UpdateList, index *expr.Node) (*expr.Node, error) {
	idxVal, idxConst := index.ConstantValue()

	if idxConst {
		// Walk back through the chain while indices stay constant: the first
		// matching write forwards its value. A symbolic index anywhere in
		// the chain stops the walk, since we can no longer prove it didn't
		// overwrite the byte we're after.
		for n := ul.Head; n != nil; n = n.next {
			nv, nc := n.index.ConstantValue()
			if !nc {
				break
			}
			if nv.Cmp(idxVal) == 0 {
				return n.value, nil
			}
		}

		// Separately: if every update in the chain is provably distinct
		// from i, the root's own constant content at i is still valid.
		if allDistinctFrom(ul.Head, idxVal) && ul.Root.Source.Kind == SourceConstant {
			off := idxVal.Uint64()
			v := ul.Root.Source.Default
			if ul.Root.Source.Values != nil {
				v = ul.Root.Source.Values.Load(off)
			}
			return expr.ConstantU64(uint64(v), ul.Root.Range), nil
		}
	}

	return expr.NewReadRaw(ul, index)
}

func allDistinctFrom(head *UpdateNode, idxVal *big.Int) bool {
	for n := head; n != nil; n = n.next {
		nv, nc := n.index.ConstantValue()
		if !nc || nv.Cmp(idxVal) == 0 {
			return false
		}
	}
	return true
}
