package constraints

import "symexec/internal/expr"

// factor is one partition of the independence union-find: a set of
// constraints that share at least one array symbol transitively, plus the
// set of array hashes it touches (spec §4.4 "IndependentConstraintSetUnion").
type factor struct {
	constraints []*expr.Node
	arrays      map[uint64]struct{}
}

func newFactor(c *expr.Node, arrays map[uint64]struct{}) *factor {
	return &factor{constraints: []*expr.Node{c}, arrays: arrays}
}

func (f *factor) intersects(arrays map[uint64]struct{}) bool {
	for a := range arrays {
		if _, ok := f.arrays[a]; ok {
			return true
		}
	}
	return false
}

func (f *factor) clone() *factor {
	arrays := make(map[uint64]struct{}, len(f.arrays))
	for a := range f.arrays {
		arrays[a] = struct{}{}
	}
	return &factor{constraints: append([]*expr.Node{}, f.constraints...), arrays: arrays}
}

func mergeFactors(fs []*factor, extra *expr.Node, extraArrays map[uint64]struct{}) *factor {
	merged := &factor{arrays: make(map[uint64]struct{})}
	for _, f := range fs {
		merged.constraints = append(merged.constraints, f.constraints...)
		for a := range f.arrays {
			merged.arrays[a] = struct{}{}
		}
	}
	merged.constraints = append(merged.constraints, extra)
	for a := range extraArrays {
		merged.arrays[a] = struct{}{}
	}
	return merged
}

// arraysOf walks e and collects the hash of every array reached through a
// Read node's update list (the array "symbols" a constraint touches, for
// independence partitioning).
func arraysOf(e *expr.Node) map[uint64]struct{} {
	out := make(map[uint64]struct{})
	seen := make(map[*expr.Node]bool)
	var walk func(n *expr.Node)
	walk = func(n *expr.Node) {
		if seen[n] {
			return
		}
		seen[n] = true
		if n.Kind() == expr.Read {
			out[n.UpdateList().ArrayRootHash()] = struct{}{}
		}
		for _, op := range n.Operands() {
			walk(op)
		}
	}
	walk(e)
	return out
}
