package forest

import (
	"math/rand/v2"

	"symexec/internal/coreerr"
	"symexec/internal/state"
)

// RandomPathWalk descends from the root following only edges whose child
// owner bit matches bit, choosing uniformly between the two children when
// both qualify (spec §4.9 "RandomPathSearcher walks from the root
// following only edges whose ancestor bit matches the searcher's id,
// choosing uniformly between valid descendants; this yields path-uniform
// selection without materializing all states"). rng is injected so
// RandomPathSearcher (C11) can share one PRNG across selections; a nil rng
// uses the package-level (auto-seeded) generator.
func (f *Forest) RandomPathWalk(bit int, rng *rand.Rand) (*state.ExecutionState, error) {
	coinFlip := rand.IntN
	if rng != nil {
		coinFlip = rng.IntN
	}

	n := f.root
	if n.Kind == Leaf && !n.owners.Test(bit) {
		return nil, coreerr.Execution(coreerr.CodeUnsupportedInstruction, "forest: RandomPathWalk hit a dead node, searcher is not tracking any live leaf")
	}
	for {
		switch n.Kind {
		case Leaf:
			return n.State, nil
		case Dead:
			return nil, coreerr.Execution(coreerr.CodeUnsupportedInstruction, "forest: RandomPathWalk hit a dead node, searcher is not tracking any live leaf")
		case Fork:
			leftOK := n.Left.Kind != Dead && n.Left.owners.Test(bit)
			rightOK := n.Right.Kind != Dead && n.Right.owners.Test(bit)
			switch {
			case leftOK && rightOK:
				if coinFlip(2) == 0 {
					n = n.Left
				} else {
					n = n.Right
				}
			case leftOK:
				n = n.Left
			case rightOK:
				n = n.Right
			default:
				return nil, coreerr.Execution(coreerr.CodeUnsupportedInstruction, "forest: RandomPathWalk found no owned descendant")
			}
		}
	}
}
