package searcher

import "symexec/internal/state"

// Interleaved round-robins SelectState across a fixed list of sub-searchers,
// skipping any that are empty, and broadcasts every Update to all of them
// (spec §4.11 "Interleaved([s1,...]): round-robin").
type Interleaved struct {
	searchers []Searcher
	next      int
}

func NewInterleaved(searchers ...Searcher) *Interleaved {
	return &Interleaved{searchers: searchers}
}

func (in *Interleaved) SelectState() (*state.ExecutionState, error) {
	n := len(in.searchers)
	if n == 0 {
		return nil, ErrEmpty
	}
	for i := 0; i < n; i++ {
		idx := (in.next + i) % n
		if in.searchers[idx].Empty() {
			continue
		}
		s, err := in.searchers[idx].SelectState()
		if err != nil {
			continue
		}
		in.next = (idx + 1) % n
		return s, nil
	}
	return nil, ErrEmpty
}

func (in *Interleaved) Update(current *state.ExecutionState, added, removed []*state.ExecutionState) {
	for _, s := range in.searchers {
		s.Update(current, added, removed)
	}
}

func (in *Interleaved) Empty() bool {
	for _, s := range in.searchers {
		if !s.Empty() {
			return false
		}
	}
	return true
}
