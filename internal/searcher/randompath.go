package searcher

import (
	"math/rand/v2"

	"symexec/internal/forest"
	"symexec/internal/state"
)

// RandomPath is path-uniform selection over the process forest's bitsets
// (spec §4.11 "RandomPath: path-uniform via the process-forest bitsets"),
// registering its own owner bit and tracking every state it is given.
type RandomPath struct {
	f   *forest.Forest
	bit int
	rng *rand.Rand
}

// NewRandomPath registers a fresh owner bit on f and tracks root (the
// state the forest was constructed from).
func NewRandomPath(f *forest.Forest, root *state.ExecutionState) *RandomPath {
	bit := f.RegisterSearcher()
	_ = f.Track(root.ID, bit)
	return &RandomPath{f: f, bit: bit}
}

func (r *RandomPath) SelectState() (*state.ExecutionState, error) {
	return r.f.RandomPathWalk(r.bit, r.rng)
}

func (r *RandomPath) Update(current *state.ExecutionState, added, removed []*state.ExecutionState) {
	for _, s := range removed {
		_ = r.f.Untrack(s.ID, r.bit)
	}
	for _, s := range added {
		_ = r.f.Track(s.ID, r.bit)
	}
}

func (r *RandomPath) Empty() bool {
	_, err := r.f.RandomPathWalk(r.bit, r.rng)
	return err != nil
}
