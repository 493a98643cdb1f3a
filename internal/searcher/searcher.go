// Package searcher implements the scheduler family that decides which live
// execution state to step next (spec §4.11). Every variant implements the
// same three-method Searcher interface; update semantics are uniform
// across all of them: current may be nil (a pure add/remove), and every
// mutation to a searcher's state multiset must go through Update so that
// any searcher composing others (Interleaved, Guided, Merging) sees a
// consistent view.
package searcher

import (
	"symexec/internal/coreerr"
	"symexec/internal/state"
)

// Searcher selects the next state to execute from a live pool, and is told
// about every addition, removal, and most-recently-selected state so it
// can keep its own bookkeeping (queues, weights, pause sets) current.
type Searcher interface {
	SelectState() (*state.ExecutionState, error)
	Update(current *state.ExecutionState, added, removed []*state.ExecutionState)
	Empty() bool
}

// ErrEmpty is returned by SelectState when a searcher has no live states.
var ErrEmpty = coreerr.Execution(coreerr.CodeUnsupportedInstruction, "searcher: no live states to select")

// removeByID returns states with every id in removed filtered out,
// idempotent to a removed id that is not present (spec §4.11 "implementations
// must be idempotent to a repeated removal").
func removeByID(states []*state.ExecutionState, removed []*state.ExecutionState) []*state.ExecutionState {
	if len(removed) == 0 {
		return states
	}
	drop := make(map[uint64]bool, len(removed))
	for _, r := range removed {
		drop[r.ID] = true
	}
	out := states[:0:0]
	for _, s := range states {
		if !drop[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

func containsID(states []*state.ExecutionState, id uint64) bool {
	for _, s := range states {
		if s.ID == id {
			return true
		}
	}
	return false
}
