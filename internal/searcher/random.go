package searcher

import (
	"math/rand/v2"

	"symexec/internal/state"
)

// Random selects uniformly over the live set (spec §4.11 "Random: uniform
// over an array").
type Random struct {
	states []*state.ExecutionState
}

func NewRandom() *Random { return &Random{} }

func (r *Random) SelectState() (*state.ExecutionState, error) {
	if len(r.states) == 0 {
		return nil, ErrEmpty
	}
	return r.states[rand.IntN(len(r.states))], nil
}

func (r *Random) Update(current *state.ExecutionState, added, removed []*state.ExecutionState) {
	r.states = removeByID(r.states, removed)
	r.states = append(r.states, added...)
}

func (r *Random) Empty() bool { return len(r.states) == 0 }
