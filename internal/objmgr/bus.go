// Package objmgr implements the Object Manager of spec §4.13: a
// single-threaded event bus that publishes the fixed-order batch of
// events produced by one scheduler step to every subscriber, then owns
// destroying removed states once every subscriber has flushed.
package objmgr

import (
	"symexec/internal/bidir"
	"symexec/internal/solver/backend"
	"symexec/internal/state"
)

// StatesEvent carries a round's state transitions (spec
// "States{current, added, removed, isolated}").
type StatesEvent struct {
	Current  *state.ExecutionState
	Added    []*state.ExecutionState
	Removed  []*state.ExecutionState
	Isolated []*state.ExecutionState
}

// PropagationsEvent carries a round's bidir.Propagation churn.
type PropagationsEvent struct {
	Added   []*bidir.Propagation
	Removed []*bidir.Propagation
}

// ProofObligationsEvent carries a round's bidir.Obligation births/deaths.
type ProofObligationsEvent struct {
	Added   []*bidir.Obligation
	Removed []*bidir.Obligation
}

// ConflictsEvent carries a round's newly recorded TargetedConflicts.
type ConflictsEvent struct {
	Added []bidir.TargetedConflict
}

// Subscriber receives every event kind in the fixed publish order spec
// §4.13 guarantees: States, then Propagations, then ProofObligations,
// then Conflicts.
type Subscriber interface {
	OnStates(StatesEvent)
	OnPropagations(PropagationsEvent)
	OnProofObligations(ProofObligationsEvent)
	OnConflicts(ConflictsEvent)
}

// Bus accumulates one round's events and flushes them to every subscriber
// in order. It is not safe for concurrent use: the engine is
// single-threaded cooperative (spec §4.13 "single-threaded event bus").
type Bus struct {
	subscribers []Subscriber
	solver      backend.SolverImpl

	states        StatesEvent
	propagations  PropagationsEvent
	obligations   ProofObligationsEvent
	conflicts     ConflictsEvent
	havePropEvent bool
	haveObEvent   bool
	haveConfEvent bool
	haveStateEv   bool
}

// NewBus returns an empty Bus. solver is used for the destroy-after-flush
// step: removed states' per-state solver resources are released via
// NotifyStateTermination once every subscriber has seen the States event
// (spec "owns destroy-after-flush for removed states").
func NewBus(solver backend.SolverImpl) *Bus {
	return &Bus{solver: solver}
}

// Subscribe registers s to receive every future Flush's events.
func (b *Bus) Subscribe(s Subscriber) {
	b.subscribers = append(b.subscribers, s)
}

func (b *Bus) PublishStates(ev StatesEvent) {
	b.states = ev
	b.haveStateEv = true
}

func (b *Bus) PublishPropagations(ev PropagationsEvent) {
	b.propagations = ev
	b.havePropEvent = true
}

func (b *Bus) PublishProofObligations(ev ProofObligationsEvent) {
	b.obligations = ev
	b.haveObEvent = true
}

func (b *Bus) PublishConflicts(ev ConflictsEvent) {
	b.conflicts = ev
	b.haveConfEvent = true
}

// Flush delivers this round's pending events to every subscriber in the
// fixed order (spec §4.13 items 1-4), then destroys every removed state
// by notifying the solver so it can release per-state resources (spec
// §4.7 NotifyStateTermination), and clears the round for the next step.
func (b *Bus) Flush() {
	if b.haveStateEv {
		for _, s := range b.subscribers {
			s.OnStates(b.states)
		}
	}
	if b.havePropEvent {
		for _, s := range b.subscribers {
			s.OnPropagations(b.propagations)
		}
	}
	if b.haveObEvent {
		for _, s := range b.subscribers {
			s.OnProofObligations(b.obligations)
		}
	}
	if b.haveConfEvent {
		for _, s := range b.subscribers {
			s.OnConflicts(b.conflicts)
		}
	}

	for _, removed := range b.states.Removed {
		if b.solver != nil {
			b.solver.NotifyStateTermination(removed.ID)
		}
	}

	b.states = StatesEvent{}
	b.propagations = PropagationsEvent{}
	b.obligations = ProofObligationsEvent{}
	b.conflicts = ConflictsEvent{}
	b.haveStateEv = false
	b.havePropEvent = false
	b.haveObEvent = false
	b.haveConfEvent = false
}
