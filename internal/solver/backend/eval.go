package backend

import "symexec/internal/expr"

// substituteReads rewrites every Read whose backing array has a byte-per-cell
// range width of 8 (the convention internal/memobj always builds its arrays
// under) and a constant index into a Constant drawn from assignment, then
// lets expr.Rewrite's rebuild-through-canonical-builders cascade constant
// folding up through the rest of the tree. Reads that resolve to neither
// (symbolic index, unassigned array, or a non-byte cell width) are left
// untouched, and the caller learns the result is not fully concrete by
// checking ConstantValue on the returned node.
func substituteReads(n *expr.Node, assignment map[uint64][]byte) (*expr.Node, error) {
	v := expr.VisitorFunc(func(n *expr.Node) expr.Action {
		if n.Kind() != expr.Read {
			return expr.Continue()
		}
		list := n.UpdateList()
		if list.ArrayRangeWidth() != 8 {
			return expr.Continue()
		}
		idxVal, ok := n.Index().ConstantValue()
		if !ok {
			return expr.Continue()
		}
		bytes, ok := assignment[list.ArrayRootHash()]
		if !ok {
			return expr.Continue()
		}
		idx := idxVal.Uint64()
		if idx >= uint64(len(bytes)) {
			return expr.Continue()
		}
		return expr.ReplaceWith(expr.ConstantU64(uint64(bytes[idx]), 8))
	})
	return expr.Rewrite(v, n)
}

// VerifyAssignment reports whether every constraint folds to concretely
// true once assignment is substituted in, used by the assignment-validating
// wrapper to double check a backend's claimed solution (spec §4.7 item 2).
func VerifyAssignment(constraints []*expr.Node, assignment map[uint64][]byte) (bool, error) {
	folded, err := foldConjunction(constraints, assignment)
	if err != nil {
		return false, err
	}
	v, ok := folded.ConstantValue()
	return ok && v.Sign() != 0, nil
}

// VerifyFalse reports whether e folds to concretely false once assignment
// is substituted in.
func VerifyFalse(e *expr.Node, assignment map[uint64][]byte) (bool, error) {
	folded, err := substituteReads(e, assignment)
	if err != nil {
		return false, err
	}
	v, ok := folded.ConstantValue()
	return ok && v.Sign() == 0, nil
}

// foldConjunction ANDs every constraint together (empty set folds to True)
// and resolves it against assignment, returning the fully-folded node.
func foldConjunction(constraints []*expr.Node, assignment map[uint64][]byte) (*expr.Node, error) {
	acc := expr.True()
	for _, c := range constraints {
		folded, err := substituteReads(c, assignment)
		if err != nil {
			return nil, err
		}
		next, err := expr.NewAnd(acc, folded)
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}
