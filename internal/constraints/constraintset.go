// Package constraints implements the Constraint Set of spec §4.4: an
// ordered list of boolean constraints, a list of symcretes, a current
// Assignment mapping arrays to concrete byte sequences, and an
// independence partition over the constraints, all under copy-on-write
// ownership.
package constraints

import (
	"symexec/internal/expr"
	"symexec/internal/simplify"
)

// resimplifyEvery is the "every 1024th addition" policy of spec §4.4.
const resimplifyEvery = 1024

// core holds everything a ConstraintSet handle can share with clones until
// one of them needs to mutate: a mutating method first copies the core when
// its ownerStamp is not the handle's owner or when a Clone has shared it.
type core struct {
	constraints []*expr.Node
	symcretes   []*expr.Node
	assignment  map[uint64][]byte // array root hash -> concrete bytes
	factors     []*factor
	addCount    int
	ownerStamp  uint64
	shared      bool
}

func newCore() *core {
	return &core{assignment: make(map[uint64][]byte)}
}

func (c *core) clone(newOwner uint64) *core {
	assignment := make(map[uint64][]byte, len(c.assignment))
	for k, v := range c.assignment {
		cp := make([]byte, len(v))
		copy(cp, v)
		assignment[k] = cp
	}
	factors := make([]*factor, len(c.factors))
	for i, f := range c.factors {
		factors[i] = f.clone()
	}
	return &core{
		constraints: append([]*expr.Node{}, c.constraints...),
		symcretes:   append([]*expr.Node{}, c.symcretes...),
		assignment:  assignment,
		factors:     factors,
		addCount:    c.addCount,
		ownerStamp:  newOwner,
	}
}

// ConstraintSet is a copy-on-write handle onto a core. Distinct owners
// never observe each other's mutations (spec §4.4).
type ConstraintSet struct {
	owner         uint64
	c             *core
	simplificator *simplify.Simplificator
}

// New returns an empty ConstraintSet owned by owner, simplifying with
// policy.
func New(policy simplify.Policy, owner uint64) *ConstraintSet {
	c := newCore()
	c.ownerStamp = owner
	return &ConstraintSet{owner: owner, c: c, simplificator: simplify.New(policy)}
}

// Clone returns a new handle sharing this ConstraintSet's core until
// either handle mutates.
func (cs *ConstraintSet) Clone(newOwner uint64) *ConstraintSet {
	cs.c.shared = true
	return &ConstraintSet{owner: newOwner, c: cs.c, simplificator: cs.simplificator}
}

func (cs *ConstraintSet) ensureOwned() {
	if cs.c.ownerStamp == cs.owner && !cs.c.shared {
		return
	}
	cs.c = cs.c.clone(cs.owner)
}

// Constraints returns the ordered constraint list (read-only snapshot).
func (cs *ConstraintSet) Constraints() []*expr.Node {
	return append([]*expr.Node{}, cs.c.constraints...)
}

// Symcretes returns the ordered symcrete list.
func (cs *ConstraintSet) Symcretes() []*expr.Node {
	return append([]*expr.Node{}, cs.c.symcretes...)
}

// ErrInfeasible is returned by AddConstraint when the expression
// simplifies to false under the current set.
type ErrInfeasible struct{}

func (ErrInfeasible) Error() string { return "constraint set is infeasible under this addition" }

// AddConstraint implements spec §4.4's addConstraint: simplify against the
// current set; if it folds to true, the addition is a no-op; if it folds
// to false, the caller's state is infeasible; otherwise split top-level
// conjunctions, insert each, and merge the independence partition.
func (cs *ConstraintSet) AddConstraint(e *expr.Node) ([]*expr.Node, error) {
	cs.ensureOwned()

	simplified, _, err := cs.simplificator.Simplify(cs.c.constraints, e)
	if err != nil {
		return nil, err
	}
	if expr.IsTrue(simplified) {
		return nil, nil
	}
	if expr.IsFalse(simplified) {
		return nil, ErrInfeasible{}
	}

	conjuncts := simplify.SplitConjunction(simplified)
	added := make([]*expr.Node, 0, len(conjuncts))
	for _, c := range conjuncts {
		cs.c.constraints = append(cs.c.constraints, c)
		cs.mergeFactor(c)
		added = append(added, c)
	}

	cs.c.addCount++
	if cs.c.addCount%resimplifyEvery == 0 {
		if err := cs.resimplifyAll(); err != nil {
			return nil, err
		}
	}
	return added, nil
}

// mergeFactor inserts c into the independence partition, joining every
// existing factor that shares an array with it into one merged factor
// (spec §4.4 step 3).
func (cs *ConstraintSet) mergeFactor(c *expr.Node) {
	arrays := arraysOf(c)

	var overlapping []*factor
	var rest []*factor
	for _, f := range cs.c.factors {
		if f.intersects(arrays) {
			overlapping = append(overlapping, f)
		} else {
			rest = append(rest, f)
		}
	}
	merged := mergeFactors(overlapping, c, arrays)
	cs.c.factors = append(rest, merged)
}

// resimplifyAll reruns full simplification across the whole constraint
// set (spec §4.4 step 4), replacing the constraint list with the result
// and rebuilding the independence partition from scratch (a constraint's
// rewritten form may touch a different set of arrays than its original).
func (cs *ConstraintSet) resimplifyAll() error {
	full := simplify.New(simplify.Full)
	rewritten, _, err := full.SimplifySet(cs.c.constraints)
	if err != nil {
		return err
	}
	cs.c.constraints = rewritten
	cs.c.factors = nil
	for _, c := range rewritten {
		cs.mergeFactor(c)
	}
	return nil
}

// AddSymcrete records a symbolic term pinned to a concrete surrogate to
// enable progress (spec GLOSSARY "Symcrete").
func (cs *ConstraintSet) AddSymcrete(e *expr.Node) {
	cs.ensureOwned()
	cs.c.symcretes = append(cs.c.symcretes, e)
}

// RewriteConcretization replaces bindings for arrays already present in
// the current concretization (spec §4.4): arrays with no existing entry
// are left untouched; this method only updates already-concretized ones,
// keeping every factor's cached evaluation consistent with the rest.
func (cs *ConstraintSet) RewriteConcretization(assignment map[uint64][]byte) {
	cs.ensureOwned()
	for arrayHash, bytes := range assignment {
		if _, present := cs.c.assignment[arrayHash]; present {
			cp := make([]byte, len(bytes))
			copy(cp, bytes)
			cs.c.assignment[arrayHash] = cp
		}
	}
}

// Concretize adds or overwrites a binding unconditionally (used the first
// time an array is given a concrete surrogate, as opposed to
// RewriteConcretization's update-only semantics).
func (cs *ConstraintSet) Concretize(arrayHash uint64, bytes []byte) {
	cs.ensureOwned()
	cp := make([]byte, len(bytes))
	copy(cp, bytes)
	cs.c.assignment[arrayHash] = cp
}

// Assignment returns the concrete byte sequence bound to arrayHash, if any.
func (cs *ConstraintSet) Assignment(arrayHash uint64) ([]byte, bool) {
	v, ok := cs.c.assignment[arrayHash]
	return v, ok
}

// GetAllIndependentConstraintsSets returns every factor whose arrays
// intersect e's arrays: the complement is guaranteed irrelevant to any
// query involving only e and the current constraints (spec §4.4).
func (cs *ConstraintSet) GetAllIndependentConstraintsSets(e *expr.Node) [][]*expr.Node {
	arrays := arraysOf(e)
	var out [][]*expr.Node
	for _, f := range cs.c.factors {
		if f.intersects(arrays) {
			out = append(out, append([]*expr.Node{}, f.constraints...))
		}
	}
	return out
}

// GetAllDependentConstraintsSets is the reflexive closure of
// GetAllIndependentConstraintsSets, additionally pulling in any factor
// that shares an array with an already-included factor (transitively),
// which is needed when emitting solver queries including symcretes (spec
// §4.4).
func (cs *ConstraintSet) GetAllDependentConstraintsSets(e *expr.Node) [][]*expr.Node {
	included := make(map[*factor]bool)
	arrays := arraysOf(e)

	for {
		grew := false
		for _, f := range cs.c.factors {
			if included[f] {
				continue
			}
			if f.intersects(arrays) {
				included[f] = true
				for a := range f.arrays {
					arrays[a] = struct{}{}
				}
				grew = true
			}
		}
		if !grew {
			break
		}
	}

	out := make([][]*expr.Node, 0, len(included))
	for _, f := range cs.c.factors {
		if included[f] {
			out = append(out, append([]*expr.Node{}, f.constraints...))
		}
	}
	return out
}
