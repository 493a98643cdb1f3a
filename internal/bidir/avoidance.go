package bidir

import (
	"symexec/internal/expr"
	"symexec/internal/searcher"
	"symexec/internal/state"
)

// TargetedConflict names a block whose outgoing paths were proven unable
// to satisfy a proof obligation (spec "that block is recorded as a
// TargetedConflict and fed back to all forward searchers as a block to
// avoid").
type TargetedConflict struct {
	Location Location
	Core     []*expr.Node
}

// Avoidance is the shared sink every forward searcher consults: the set of
// blocks the bidirectional engine has proven cannot lead to a still-open
// target.
type Avoidance struct {
	blocks map[Location]bool
}

func NewAvoidance() *Avoidance {
	return &Avoidance{blocks: make(map[Location]bool)}
}

// Record adds c's location to the avoided set.
func (a *Avoidance) Record(c TargetedConflict) {
	a.blocks[c.Location] = true
}

// Avoided reports whether loc has been ruled out.
func (a *Avoidance) Avoided(loc Location) bool {
	return a.blocks[loc]
}

// AvoidanceFilter wraps a base searcher.Searcher, skipping over any state
// currently sitting at an avoided block (spec's "fed back to all forward
// searchers" -- implemented as a decorator over the existing Searcher
// family rather than a change to each one, the same pattern Guided and
// Merging already use to layer behavior over a base searcher).
type AvoidanceFilter struct {
	base  searcher.Searcher
	avoid *Avoidance

	held map[uint64]*state.ExecutionState
}

func NewAvoidanceFilter(base searcher.Searcher, avoid *Avoidance) *AvoidanceFilter {
	return &AvoidanceFilter{base: base, avoid: avoid, held: make(map[uint64]*state.ExecutionState)}
}

func (f *AvoidanceFilter) at(s *state.ExecutionState) Location {
	return Location{Function: s.PC.Function, Block: s.PC.Block}
}

// SelectState asks base repeatedly, holding onto (rather than dropping)
// any state that lands on an avoided block, until one lands elsewhere or
// base is exhausted.
func (f *AvoidanceFilter) SelectState() (*state.ExecutionState, error) {
	for {
		s, err := f.base.SelectState()
		if err != nil {
			return nil, err
		}
		if !f.avoid.Avoided(f.at(s)) {
			return s, nil
		}
		f.held[s.ID] = s
		f.base.Update(nil, nil, []*state.ExecutionState{s})
		if f.base.Empty() {
			return nil, searcher.ErrEmpty
		}
	}
}

func (f *AvoidanceFilter) Update(current *state.ExecutionState, added, removed []*state.ExecutionState) {
	for _, s := range removed {
		delete(f.held, s.ID)
	}
	f.base.Update(current, added, removed)
}

// Empty reports whether base has anything left to try. Held states are
// parked on permanently-avoided blocks and will never become selectable
// again, so they do not count as live.
func (f *AvoidanceFilter) Empty() bool {
	return f.base.Empty()
}
