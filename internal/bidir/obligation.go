// Package bidir implements the Bidirectional Engine of spec §4.12:
// backward proof obligations that chase forward-reached states toward a
// target, composing path constraints and propagating one block (or one
// call frame) at a time until either the program entry is reached (the
// conflict closes) or a minimal unsat core pins the blame on some block
// (a TargetedConflict fed back to the forward searchers).
package bidir

import (
	"symexec/internal/expr"
)

// Location names a single block, the unit a ProofObligation is keyed by
// and propagates across (spec §4.12 "keyed by target location").
type Location struct {
	Function string
	Block    string
}

var nextObligationID uint64 = 1

// Obligation is a node in the proof-obligation DAG (spec "ProofObligation
// (C12). A node in a DAG keyed by target location, carrying composed
// PathConstraints, a target forest and a per-reaching-state propagation
// counter; parents/children form a tree; subtree deletion cascades").
type Obligation struct {
	ID       uint64
	Location Location

	// Constraints is the composed backward summary accumulated so far as
	// this obligation has propagated from its original target.
	Constraints []*expr.Node

	Parent   *Obligation
	Children []*Obligation

	// reachingCounts counts, per reached-state ID, how many times that
	// state has produced a Propagation against this obligation -- a
	// state may reach the same target more than once (e.g. around a
	// loop), and spec §4.12 tracks that per pair rather than once.
	reachingCounts map[uint64]int

	// Closed is set once this obligation's propagation has reached the
	// program entry: the path from entry to the original target is
	// guaranteed feasible.
	Closed bool
}

// NewObligation returns a root obligation at loc with the given initial
// backward constraints (typically the negation of the branch condition
// that produced the target, or nil for an unconditional target).
func NewObligation(loc Location, constraints []*expr.Node) *Obligation {
	id := nextObligationID
	nextObligationID++
	return &Obligation{
		ID:             id,
		Location:       loc,
		Constraints:    constraints,
		reachingCounts: make(map[uint64]int),
	}
}

// Propagate creates a child obligation at loc, carrying composed as its
// new constraints (spec "propagates the pob one block backward ... or on
// function entry, one frame up"). The child inherits no reachingCounts:
// those are per-(state, obligation) and start fresh at the new location.
func (o *Obligation) Propagate(loc Location, composed []*expr.Node) *Obligation {
	child := &Obligation{
		ID:             nextObligationID,
		Location:       loc,
		Constraints:    composed,
		Parent:         o,
		reachingCounts: make(map[uint64]int),
	}
	nextObligationID++
	o.Children = append(o.Children, child)
	return child
}

// RecordReach bumps the propagation counter for reachedStateID against
// this obligation, returning the new count.
func (o *Obligation) RecordReach(reachedStateID uint64) int {
	o.reachingCounts[reachedStateID]++
	return o.reachingCounts[reachedStateID]
}

// ReachCount reports how many times reachedStateID has propagated against
// this obligation.
func (o *Obligation) ReachCount(reachedStateID uint64) int {
	return o.reachingCounts[reachedStateID]
}

// Close marks this obligation as closed: its propagation chain reached
// the program entry, so the target it was originally derived from is
// guaranteed reachable (spec "When a pob reaches the program entry, the
// conflict is closed").
func (o *Obligation) Close() {
	o.Closed = true
}

// DeleteSubtree removes o from its parent's children (if any) and returns
// every obligation in o's subtree, o included, so a caller can evict them
// from whatever index keyed obligations by location (spec "subtree
// deletion cascades").
func (o *Obligation) DeleteSubtree() []*Obligation {
	if o.Parent != nil {
		siblings := o.Parent.Children[:0]
		for _, c := range o.Parent.Children {
			if c != o {
				siblings = append(siblings, c)
			}
		}
		o.Parent.Children = siblings
	}
	return o.collectSubtree(nil)
}

func (o *Obligation) collectSubtree(out []*Obligation) []*Obligation {
	out = append(out, o)
	for _, c := range o.Children {
		out = c.collectSubtree(out)
	}
	return out
}
