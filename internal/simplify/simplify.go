// Package simplify implements the Simplificator of spec §4.5: gathering
// Replacements from a constraint set and applying them to rewrite an
// expression, either as a single pass or to a fixed point, with dependency
// tracking back to the constraints that fired.
//
// It operates on a plain []*expr.Node rather than internal/constraints'
// ConstraintSet type, so that internal/constraints can depend on
// internal/simplify without a cycle (ConstraintSet.addConstraint calls the
// Simplificator; the Simplificator never needs to know about factors or
// copy-on-write ownership).
package simplify

import "symexec/internal/expr"

// Policy selects how aggressively addConstraint simplifies an incoming
// expression against the current constraint set (spec §4.5).
type Policy int

const (
	None Policy = iota
	Simple
	Full
)

// Simplificator applies Policy's rewrite strategy.
type Simplificator struct {
	Policy Policy
}

func New(policy Policy) *Simplificator {
	return &Simplificator{Policy: policy}
}

// replacement is one gathered rewrite rule, tagged with the constraint it
// came from so callers can report which original constraints a rewrite
// depended on.
type replacement struct {
	from, to *expr.Node
	source   *expr.Node
}

// gatherReplacements builds the Replacements set described in spec §4.5:
// each equality x = c (c constant) becomes x -> c; every other constraint
// p becomes p -> true (and Not(q) becomes q -> false).
func gatherReplacements(constraints []*expr.Node) []replacement {
	out := make([]replacement, 0, len(constraints))
	for _, c := range constraints {
		if c.Kind() == expr.Eq {
			a, b := c.Operand(0), c.Operand(1)
			if _, ok := a.ConstantValue(); ok {
				if _, ok := b.ConstantValue(); !ok {
					out = append(out, replacement{from: b, to: a, source: c})
					continue
				}
			}
			if _, ok := b.ConstantValue(); ok {
				if _, ok := a.ConstantValue(); !ok {
					out = append(out, replacement{from: a, to: b, source: c})
					continue
				}
			}
		}
		if c.Kind() == expr.Not {
			out = append(out, replacement{from: c.Operand(0), to: expr.False(), source: c})
			continue
		}
		out = append(out, replacement{from: c, to: expr.True(), source: c})
	}
	return out
}

// applyReplacements rewrites e with repls in one pass, returning the set
// of source constraints whose replacement actually fired.
func applyReplacements(e *expr.Node, repls []replacement) (*expr.Node, []*expr.Node, error) {
	fired := make(map[*expr.Node]*expr.Node)
	visitor := expr.VisitorFunc(func(n *expr.Node) expr.Action {
		for _, r := range repls {
			if expr.Equal(n, r.from) {
				fired[r.source] = r.source
				return expr.ReplaceWith(r.to)
			}
		}
		return expr.Continue()
	})
	out, err := expr.Rewrite(visitor, e)
	if err != nil {
		return nil, nil, err
	}
	deps := make([]*expr.Node, 0, len(fired))
	for _, src := range fired {
		deps = append(deps, src)
	}
	return out, deps, nil
}

// SplitConjunction flattens e's top-level And chain into its conjuncts
// (spec §4.4 addConstraint step 2: "split top-level conjunctions").
func SplitConjunction(e *expr.Node) []*expr.Node {
	if e.Kind() != expr.And || e.Width() != 1 {
		return []*expr.Node{e}
	}
	return append(SplitConjunction(e.Operand(0)), SplitConjunction(e.Operand(1))...)
}

// Simplify rewrites e against constraints per the Simplificator's Policy,
// returning the simplified expression and the constraints it depended on.
func (s *Simplificator) Simplify(constraints []*expr.Node, e *expr.Node) (*expr.Node, []*expr.Node, error) {
	switch s.Policy {
	case None:
		return e, nil, nil
	case Simple:
		repls := gatherReplacements(constraints)
		return applyReplacements(e, repls)
	case Full:
		return s.simplifyToFixedPoint(constraints, e)
	default:
		return e, nil, nil
	}
}

func (s *Simplificator) simplifyToFixedPoint(constraints []*expr.Node, e *expr.Node) (*expr.Node, []*expr.Node, error) {
	cur := e
	depsSeen := make(map[*expr.Node]*expr.Node)
	for {
		repls := gatherReplacements(constraints)
		next, fired, err := applyReplacements(cur, repls)
		if err != nil {
			return nil, nil, err
		}
		for _, f := range fired {
			depsSeen[f] = f
		}
		if expr.Equal(next, cur) {
			break
		}
		cur = next
	}
	deps := make([]*expr.Node, 0, len(depsSeen))
	for _, d := range depsSeen {
		deps = append(deps, d)
	}
	return cur, deps, nil
}

// SimplifyExpr performs a single, non-fixed-point pass of constraints
// against e regardless of Policy, tracking which constraints touched the
// result (spec §4.5: "used by a validity-core feature").
func SimplifyExpr(constraints []*expr.Node, e *expr.Node) (*expr.Node, []*expr.Node, error) {
	repls := gatherReplacements(constraints)
	return applyReplacements(e, repls)
}

// depIndex maps each constraint's identity back to its index in the
// original slice, used by SimplifySet to report dependency edges by index.
func depIndex(constraints []*expr.Node) map[*expr.Node]int {
	idx := make(map[*expr.Node]int, len(constraints))
	for i, c := range constraints {
		idx[c] = i
	}
	return idx
}

// SimplifySet re-simplifies an entire constraint list against itself to a
// fixed point (spec §4.4's "every 1024th addition" policy and spec §4.5's
// Full-simplification algorithm): each pass, every constraint is rewritten
// against every other constraint's replacement (excluding its own), with
// conjunctions re-split, and dependency edges recorded by index.
func (s *Simplificator) SimplifySet(constraints []*expr.Node) ([]*expr.Node, [][]int, error) {
	cur := append([]*expr.Node{}, constraints...)
	idx := depIndex(constraints)
	deps := make([][]int, len(cur))

	for {
		changed := false
		next := make([]*expr.Node, 0, len(cur))
		nextDeps := make([][]int, 0, len(cur))

		for i, c := range cur {
			others := make([]*expr.Node, 0, len(cur)-1)
			for j, o := range cur {
				if j != i {
					others = append(others, o)
				}
			}
			repls := gatherReplacements(others)
			rewritten, fired, err := applyReplacements(c, repls)
			if err != nil {
				return nil, nil, err
			}

			pieces := SplitConjunction(rewritten)
			if len(pieces) != 1 || !expr.Equal(pieces[0], c) {
				changed = true
			}
			firedIdx := make([]int, 0, len(fired))
			for _, f := range fired {
				if j, ok := idx[f]; ok {
					firedIdx = append(firedIdx, j)
				}
			}
			for _, p := range pieces {
				next = append(next, p)
				nextDeps = append(nextDeps, append(append([]int{}, deps[i]...), firedIdx...))
			}
		}

		cur, deps = next, nextDeps
		if !changed {
			break
		}
	}
	return cur, deps, nil
}
