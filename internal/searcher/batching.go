package searcher

import (
	"time"

	"symexec/internal/state"
)

// Batching wraps a base searcher but keeps returning the same selected
// state until a time or instruction budget is spent, instead of asking
// base on every step (spec §4.11 "Batching(base, timeBudget, instrBudget):
// stays on one state for a budget; auto-grows the time budget if an
// iteration overrun is detected").
type Batching struct {
	base Searcher

	timeBudget  time.Duration
	instrBudget int

	current      *state.ExecutionState
	sliceStart   time.Time
	sliceInstrs  int
	startedInstr int
}

func NewBatching(base Searcher, timeBudget time.Duration, instrBudget int) *Batching {
	return &Batching{base: base, timeBudget: timeBudget, instrBudget: instrBudget}
}

func (b *Batching) SelectState() (*state.ExecutionState, error) {
	if b.current != nil && !b.budgetSpent() {
		return b.current, nil
	}
	s, err := b.base.SelectState()
	if err != nil {
		return nil, err
	}
	b.current = s
	b.sliceStart = time.Now()
	b.startedInstr = s.SteppedMemoryInstructions
	return s, nil
}

func (b *Batching) budgetSpent() bool {
	if b.current == nil {
		return true
	}
	if b.timeBudget > 0 && time.Since(b.sliceStart) >= b.timeBudget {
		// A single step overran the slice outright: grow the budget so the
		// next state gets a fairer shake instead of thrashing every call.
		if time.Since(b.sliceStart) > 2*b.timeBudget {
			b.timeBudget *= 2
		}
		return true
	}
	if b.instrBudget > 0 && b.current.SteppedMemoryInstructions-b.startedInstr >= b.instrBudget {
		return true
	}
	return false
}

func (b *Batching) Update(current *state.ExecutionState, added, removed []*state.ExecutionState) {
	b.base.Update(current, added, removed)
	if b.current == nil {
		return
	}
	for _, s := range removed {
		if s.ID == b.current.ID {
			b.current = nil
			return
		}
	}
	if current != nil && current.ID == b.current.ID && len(added) > 0 {
		// The batched state forked this round; stop batching and let the
		// base searcher pick fresh (possibly from the new children) next
		// time.
		b.current = nil
	}
}

func (b *Batching) Empty() bool {
	return b.current == nil && b.base.Empty()
}
