package searcher

import (
	"math/rand/v2"

	"symexec/internal/distance"
	"symexec/internal/state"
)

// guidedKey identifies one (history, target) pair's sub-searcher.
type guidedKey struct {
	history uint64
	target  distance.Target
}

// Guided alternates between a base searcher and a set of Targeted
// sub-searchers keyed by each state's (history, active target) pairs,
// recording in paused the states that stop making progress. SelectState
// does not consult paused, so a recorded state stays selectable (spec
// §4.11 "Guided(base,
// reachability, pausedStates): at each selectState, with uniform
// probability chooses either the base searcher or one of the (history,
// target) pairs currently live; per state update, routes it to the set of
// targeted subsearchers keyed by its current history and target
// multiset; stuck states (no progress) are paused").
type Guided struct {
	base  Searcher
	graph *distance.ProgramGraph

	subs map[guidedKey]*Targeted
	keys []guidedKey // stable iteration order for uniform sub-searcher choice

	paused   map[uint64]*state.ExecutionState
	lastRank map[uint64]distance.DistanceResult
}

func NewGuided(base Searcher, graph *distance.ProgramGraph) *Guided {
	return &Guided{
		base:     base,
		graph:    graph,
		subs:     make(map[guidedKey]*Targeted),
		paused:   make(map[uint64]*state.ExecutionState),
		lastRank: make(map[uint64]distance.DistanceResult),
	}
}

func (g *Guided) SelectState() (*state.ExecutionState, error) {
	haveBase := !g.base.Empty()
	liveSubs := g.liveSubs()
	if !haveBase && len(liveSubs) == 0 {
		return nil, ErrEmpty
	}
	if haveBase && (len(liveSubs) == 0 || rand.IntN(2) == 0) {
		if s, err := g.base.SelectState(); err == nil {
			return s, nil
		}
	}
	if len(liveSubs) > 0 {
		return liveSubs[rand.IntN(len(liveSubs))].SelectState()
	}
	return g.base.SelectState()
}

func (g *Guided) liveSubs() []*Targeted {
	out := make([]*Targeted, 0, len(g.keys))
	for _, k := range g.keys {
		if sub := g.subs[k]; sub != nil && !sub.Empty() {
			out = append(out, sub)
		}
	}
	return out
}

func (g *Guided) subFor(key guidedKey) *Targeted {
	sub, ok := g.subs[key]
	if !ok {
		sub = NewTargeted(g.graph, key.target)
		g.subs[key] = sub
		g.keys = append(g.keys, key)
	}
	return sub
}

// Update routes current and every added state into the sub-searchers for
// each of its still-active targets, paving over duplicate dispatch with
// Targeted.Update's own idempotent removal. A state with no active
// targets only ever lives in base.
func (g *Guided) Update(current *state.ExecutionState, added, removed []*state.ExecutionState) {
	g.base.Update(current, added, removed)

	for _, s := range removed {
		delete(g.paused, s.ID)
		delete(g.lastRank, s.ID)
		for _, sub := range g.subs {
			sub.Update(nil, nil, []*state.ExecutionState{s})
		}
	}

	for _, s := range added {
		g.route(s)
	}
	if current != nil && !containsID(removed, current.ID) {
		g.checkProgress(current)
		g.route(current)
	}
}

func (g *Guided) route(s *state.ExecutionState) {
	for target := range s.Targets.Active {
		key := guidedKey{history: s.Targets.History.Hash(), target: distance.Target{Function: target}}
		g.subFor(key).Update(nil, []*state.ExecutionState{s}, []*state.ExecutionState{s})
	}
}

// checkProgress records in paused a state whose best distance rank has not
// improved since the last time it was observed.
func (g *Guided) checkProgress(s *state.ExecutionState) {
	best := distance.DistanceResult{}
	haveBest := false
	for target := range s.Targets.Active {
		rank, outcome := distance.GetDistance(g.graph, distance.Target{Function: target}, s)
		if outcome != distance.Continue {
			continue
		}
		if !haveBest || distance.Less(rank, best) {
			best = rank
			haveBest = true
		}
	}
	if !haveBest {
		return
	}
	prev, seen := g.lastRank[s.ID]
	g.lastRank[s.ID] = best
	if seen && !distance.Less(best, prev) {
		g.paused[s.ID] = s
	} else {
		delete(g.paused, s.ID)
	}
}

func (g *Guided) Empty() bool {
	return g.base.Empty() && len(g.liveSubs()) == 0
}
