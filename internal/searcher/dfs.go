package searcher

import "symexec/internal/state"

// DFS selects the most recently added state (LIFO), so execution always
// continues down one branch to the end before backtracking (spec §4.11
// "DFS/BFS: back/front of a deque").
type DFS struct {
	states []*state.ExecutionState
}

func NewDFS() *DFS { return &DFS{} }

func (d *DFS) SelectState() (*state.ExecutionState, error) {
	if len(d.states) == 0 {
		return nil, ErrEmpty
	}
	return d.states[len(d.states)-1], nil
}

func (d *DFS) Update(current *state.ExecutionState, added, removed []*state.ExecutionState) {
	d.states = removeByID(d.states, removed)
	d.states = append(d.states, added...)
}

func (d *DFS) Empty() bool { return len(d.states) == 0 }
