package searcher

import (
	"container/heap"

	"symexec/internal/distance"
	"symexec/internal/state"
)

// Targeted is a priority queue of states ordered by distance.DistanceResult
// toward a single target; states that reach Done on an update move out
// into ReachedOnLastUpdate for the bidirectional engine to pick up (spec
// §4.11 "Targeted(target): a priority queue keyed by distance weight; on
// update, states that become Done move to a reachedOnLastUpdate set").
type Targeted struct {
	graph  *distance.ProgramGraph
	target distance.Target

	pq targetedHeap

	// ReachedOnLastUpdate is replaced (not accumulated) on every Update
	// call, mirroring "on update" rather than "ever".
	ReachedOnLastUpdate []*state.ExecutionState
}

func NewTargeted(g *distance.ProgramGraph, target distance.Target) *Targeted {
	return &Targeted{graph: g, target: target}
}

type targetedItem struct {
	s    *state.ExecutionState
	rank distance.DistanceResult
}

type targetedHeap []*targetedItem

func (h targetedHeap) Len() int            { return len(h) }
func (h targetedHeap) Less(i, j int) bool  { return distance.Less(h[i].rank, h[j].rank) }
func (h targetedHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *targetedHeap) Push(x interface{}) { *h = append(*h, x.(*targetedItem)) }
func (h *targetedHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func (t *Targeted) SelectState() (*state.ExecutionState, error) {
	if t.pq.Len() == 0 {
		return nil, ErrEmpty
	}
	return t.pq[0].s, nil
}

func (t *Targeted) Update(current *state.ExecutionState, added, removed []*state.ExecutionState) {
	drop := make(map[uint64]bool, len(removed))
	for _, s := range removed {
		drop[s.ID] = true
	}
	kept := t.pq[:0]
	for _, item := range t.pq {
		if !drop[item.s.ID] {
			kept = append(kept, item)
		}
	}
	t.pq = kept
	heap.Init(&t.pq)

	t.ReachedOnLastUpdate = nil
	for _, s := range added {
		rank, outcome := distance.GetDistance(t.graph, t.target, s)
		switch outcome {
		case distance.Miss:
			continue
		case distance.Done:
			t.ReachedOnLastUpdate = append(t.ReachedOnLastUpdate, s)
		default:
			heap.Push(&t.pq, &targetedItem{s: s, rank: rank})
		}
	}

	// current may have made progress (or become Done) this round too.
	if current != nil && !drop[current.ID] {
		rank, outcome := distance.GetDistance(t.graph, t.target, current)
		for i, item := range t.pq {
			if item.s.ID == current.ID {
				if outcome == distance.Done {
					heap.Remove(&t.pq, i)
					t.ReachedOnLastUpdate = append(t.ReachedOnLastUpdate, current)
				} else {
					item.rank = rank
					heap.Fix(&t.pq, i)
				}
				break
			}
		}
	}
}

func (t *Targeted) Empty() bool { return t.pq.Len() == 0 }
