package searcher

import "symexec/internal/state"

// BFS selects the oldest state (FIFO). A state that survives its turn
// (wasn't removed, didn't fork) is requeued to the back so every live
// state gets one step before any gets a second (spec §4.11 "ensure
// current state migrates on fork (BFS appends it again)").
type BFS struct {
	states []*state.ExecutionState
}

func NewBFS() *BFS { return &BFS{} }

func (b *BFS) SelectState() (*state.ExecutionState, error) {
	if len(b.states) == 0 {
		return nil, ErrEmpty
	}
	return b.states[0], nil
}

func (b *BFS) Update(current *state.ExecutionState, added, removed []*state.ExecutionState) {
	b.states = removeByID(b.states, removed)
	if current != nil && containsID(b.states, current.ID) {
		// Move current from the front to the back.
		rest := make([]*state.ExecutionState, 0, len(b.states))
		for _, s := range b.states {
			if s.ID != current.ID {
				rest = append(rest, s)
			}
		}
		b.states = append(rest, current)
	}
	b.states = append(b.states, added...)
}

func (b *BFS) Empty() bool { return len(b.states) == 0 }
