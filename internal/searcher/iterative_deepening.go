package searcher

import (
	"time"

	"symexec/internal/state"
)

// IterativeDeepeningTime wraps a base searcher, pausing any state whose
// cumulative wall time exceeds the current slice; once base runs dry it
// doubles the slice and un-pauses everything (spec §4.11
// "IterativeDeepeningTime(base): pauses states that exceed a time slice;
// doubles the slice when the base is exhausted; un-pauses all").
type IterativeDeepeningTime struct {
	base  Searcher
	slice time.Duration

	started map[uint64]time.Time
	paused  map[uint64]*state.ExecutionState
}

func NewIterativeDeepeningTime(base Searcher, initialSlice time.Duration) *IterativeDeepeningTime {
	return &IterativeDeepeningTime{
		base:    base,
		slice:   initialSlice,
		started: make(map[uint64]time.Time),
		paused:  make(map[uint64]*state.ExecutionState),
	}
}

func (it *IterativeDeepeningTime) SelectState() (*state.ExecutionState, error) {
	for {
		s, err := it.base.SelectState()
		if err != nil {
			if len(it.paused) == 0 {
				return nil, err
			}
			it.slice *= 2
			it.unpauseAll()
			continue
		}

		start, ok := it.started[s.ID]
		if !ok {
			it.started[s.ID] = time.Now()
			return s, nil
		}
		if time.Since(start) < it.slice {
			return s, nil
		}

		// Exceeded its slice: pause it and ask base again. If that empties
		// base, the err branch above handles doubling the slice and
		// un-pausing everything uniformly.
		it.paused[s.ID] = s
		delete(it.started, s.ID)
		it.base.Update(nil, nil, []*state.ExecutionState{s})
	}
}

func (it *IterativeDeepeningTime) unpauseAll() {
	if len(it.paused) == 0 {
		return
	}
	restored := make([]*state.ExecutionState, 0, len(it.paused))
	for _, s := range it.paused {
		restored = append(restored, s)
	}
	it.paused = make(map[uint64]*state.ExecutionState)
	it.base.Update(nil, restored, nil)
}

func (it *IterativeDeepeningTime) Update(current *state.ExecutionState, added, removed []*state.ExecutionState) {
	for _, s := range removed {
		delete(it.started, s.ID)
		delete(it.paused, s.ID)
	}
	it.base.Update(current, added, removed)
}

func (it *IterativeDeepeningTime) Empty() bool {
	return it.base.Empty() && len(it.paused) == 0
}
