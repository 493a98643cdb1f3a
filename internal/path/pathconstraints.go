package path

import (
	"symexec/internal/constraints"
	"symexec/internal/expr"
	"symexec/internal/simplify"
)

// Position names the (block, instruction) pair a constraint was added at,
// used for ordered replay (spec §4.6).
type Position struct {
	BlockIndex int
	InstrIndex int
}

type entry struct {
	pos         Position
	constraints []*expr.Node
}

// PathConstraints pairs a Path with a ConstraintSet, indexing every
// addConstraint by the current path position (spec §4.6).
type PathConstraints struct {
	path    *Path
	cs      *constraints.ConstraintSet
	entries []entry
}

// New returns an empty PathConstraints owned by owner, simplifying with
// policy.
func New(policy simplify.Policy, owner uint64) *PathConstraints {
	return &PathConstraints{path: Empty(), cs: constraints.New(policy, owner)}
}

// Path returns the current Path.
func (pc *PathConstraints) Path() *Path { return pc.path }

// Constraints returns the underlying ConstraintSet.
func (pc *PathConstraints) Constraints() *constraints.ConstraintSet { return pc.cs }

// AdvancePath updates the path with a new block transition (spec §4.6
// "PathConstraints::advancePath(ki)").
func (pc *PathConstraints) AdvancePath(rec BlockRecord, instrIndex int) {
	pc.path = pc.path.Advance(rec, instrIndex)
}

func (pc *PathConstraints) currentPosition() Position {
	return Position{BlockIndex: len(pc.path.blocks) - 1, InstrIndex: pc.path.lastInstr}
}

// AddConstraint adds e to the underlying ConstraintSet and, if any
// conjuncts were actually added (simplification may have reduced it to a
// no-op), binds them to the current path position (spec §4.6
// "addConstraint(e) returns the set of conjuncts actually added... bound
// to the current path index").
func (pc *PathConstraints) AddConstraint(e *expr.Node) ([]*expr.Node, error) {
	added, err := pc.cs.AddConstraint(e)
	if err != nil {
		return nil, err
	}
	if len(added) > 0 {
		pc.entries = append(pc.entries, entry{pos: pc.currentPosition(), constraints: added})
	}
	return added, nil
}

// Replay returns the position of every recorded AddConstraint call in the
// order they were added, enabling ordered replay of the path's constraint
// history; ConstraintsAt gives the constraints bound to a position.
func (pc *PathConstraints) Replay() []Position {
	out := make([]Position, len(pc.entries))
	for i, e := range pc.entries {
		out[i] = e.pos
	}
	return out
}

// ConstraintsAt returns the constraints bound to position pos.
func (pc *PathConstraints) ConstraintsAt(pos Position) []*expr.Node {
	for _, e := range pc.entries {
		if e.pos == pos {
			return e.constraints
		}
	}
	return nil
}

// Clone returns a PathConstraints sharing this one's Path (immutable, so
// safe) and a copy-on-write clone of the ConstraintSet owned by newOwner.
func (pc *PathConstraints) Clone(newOwner uint64) *PathConstraints {
	return &PathConstraints{
		path:    pc.path,
		cs:      pc.cs.Clone(newOwner),
		entries: append([]entry{}, pc.entries...),
	}
}
