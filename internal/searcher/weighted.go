package searcher

import (
	"math"
	"math/rand/v2"

	"symexec/internal/distance"
	"symexec/internal/state"
)

// WeightFunc scores a state; higher means more likely to be picked.
type WeightFunc func(*state.ExecutionState) float64

func depthOf(s *state.ExecutionState) float64 {
	return float64(len(s.Path.Path().Blocks()))
}

// DepthWeight favors deeper states (spec §4.11 WeightedRandom "Depth").
func DepthWeight(s *state.ExecutionState) float64 { return 1 + depthOf(s) }

// ExpDepthWeight favors shallower states exponentially (spec §4.11
// WeightedRandom "2^-depth").
func ExpDepthWeight(s *state.ExecutionState) float64 { return math.Exp2(-depthOf(s)) }

// InvInstCountWeight and InvCPInstCountWeight both favor states with fewer
// stepped instructions (spec §4.11 "1/instCount², 1/cpInstCount"). No
// separate "current-path-only" instruction counter exists on
// ExecutionState beyond SteppedMemoryInstructions, so both read the same
// field; a distinct current-path counter is an extension, not a behavior
// change, if one is added later.
func InvInstCountWeight(s *state.ExecutionState) float64 {
	n := float64(s.SteppedMemoryInstructions)
	return 1 / ((n + 1) * (n + 1))
}

func InvCPInstCountWeight(s *state.ExecutionState) float64 {
	n := float64(s.SteppedMemoryInstructions)
	return 1 / (n + 1)
}

// InvQueryCostWeight favors states whose solver queries have been cheap.
// cost is supplied by the caller (the object manager or engine tracks
// per-state query cost; this package has no solver dependency).
func InvQueryCostWeight(cost func(*state.ExecutionState) float64) WeightFunc {
	return func(s *state.ExecutionState) float64 {
		c := cost(s)
		if c <= 0 {
			return 1
		}
		return 1 / c
	}
}

// MinDistToUncoveredWeight favors states closest to any still-uncovered
// target, using C10's distance classification. A state with no reachable
// uncovered target gets weight 0 (never selected ahead of one that has a
// chance); a state already Done at one gets the maximum weight.
func MinDistToUncoveredWeight(g *distance.ProgramGraph, uncovered func() []distance.Target) WeightFunc {
	return func(s *state.ExecutionState) float64 {
		best := math.Inf(1)
		for _, t := range uncovered() {
			res, outcome := distance.GetDistance(g, t, s)
			switch outcome {
			case distance.Done:
				return 1
			case distance.Continue:
				if float64(res.Weight) < best {
					best = float64(res.Weight)
				}
			}
		}
		if math.IsInf(best, 1) {
			return 0
		}
		return 1 / (1 + best)
	}
}

// CoveringNewWeight favors states whose last step touched code the
// coverage map had not seen before.
func CoveringNewWeight(coveredNewRecently func(*state.ExecutionState) bool) WeightFunc {
	return func(s *state.ExecutionState) float64 {
		if coveredNewRecently(s) {
			return 2
		}
		return 1
	}
}

// WeightedRandom draws states from a discrete PDF built from a WeightFunc,
// recomputed on every selection (state weights, e.g. depth, change every
// step) (spec §4.11 "WeightedRandom(type): discrete PDF over states").
type WeightedRandom struct {
	states []*state.ExecutionState
	weight WeightFunc
}

func NewWeightedRandom(weight WeightFunc) *WeightedRandom {
	return &WeightedRandom{weight: weight}
}

func (w *WeightedRandom) SelectState() (*state.ExecutionState, error) {
	if len(w.states) == 0 {
		return nil, ErrEmpty
	}
	total := 0.0
	weights := make([]float64, len(w.states))
	for i, s := range w.states {
		wt := w.weight(s)
		if wt < 0 {
			wt = 0
		}
		weights[i] = wt
		total += wt
	}
	if total <= 0 {
		return w.states[rand.IntN(len(w.states))], nil
	}
	pick := rand.Float64() * total
	acc := 0.0
	for i, wt := range weights {
		acc += wt
		if pick < acc {
			return w.states[i], nil
		}
	}
	return w.states[len(w.states)-1], nil
}

func (w *WeightedRandom) Update(current *state.ExecutionState, added, removed []*state.ExecutionState) {
	w.states = removeByID(w.states, removed)
	w.states = append(w.states, added...)
}

func (w *WeightedRandom) Empty() bool { return len(w.states) == 0 }
