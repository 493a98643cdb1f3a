package state

import "sync"

// History is an interned, shared prefix-chain of reached targets (spec
// §4.8 "TargetForest::History: an interned, shared prefix-chain of reached
// targets; equality and hash are structural"), grounded on the same
// hash-cons-with-equal-checked-bucket pattern internal/expr's intern table
// and internal/symbarray's Array interning already use: two states that
// reached the same targets in the same order share one History node
// regardless of which state reached it first.
type History struct {
	Target string
	Prev   *History
	hash   uint64
	depth  int
}

var (
	historyMu    sync.Mutex
	historyTable = map[uint64][]*History{}
)

const fnvOffset = 1469598103934665603
const fnvPrime = 1099511628211

func computeHistoryHash(target string, prev *History) uint64 {
	h := uint64(fnvOffset)
	if prev != nil {
		h ^= prev.hash
		h *= fnvPrime
	}
	for i := 0; i < len(target); i++ {
		h ^= uint64(target[i])
		h *= fnvPrime
	}
	return h
}

// EmptyHistory is the shared root of every History chain.
var EmptyHistory = &History{}

// Extend returns the History formed by appending target to h, interning the
// result so structurally identical chains (same targets, same order, same
// prefix identity) always return the same *History.
func (h *History) Extend(target string) *History {
	hash := computeHistoryHash(target, h)

	historyMu.Lock()
	defer historyMu.Unlock()

	for _, cand := range historyTable[hash] {
		if cand.Target == target && cand.Prev == h {
			return cand
		}
	}
	depth := 0
	if h != nil {
		depth = h.depth + 1
	}
	node := &History{Target: target, Prev: h, hash: hash, depth: depth}
	historyTable[hash] = append(historyTable[hash], node)
	return node
}

// Hash returns h's structural hash.
func (h *History) Hash() uint64 { return h.hash }

// Depth is the number of targets in the chain (0 for EmptyHistory).
func (h *History) Depth() int { return h.depth }

// Equal reports structural equality; since History is interned, pointer
// equality already implies structural equality, but this is provided for
// callers holding a History reconstructed some other way (e.g. replay).
func (h *History) Equal(other *History) bool {
	for a, b := h, other; ; a, b = a.Prev, b.Prev {
		if a == b {
			return true
		}
		if a == nil || b == nil || a.Target != b.Target {
			return false
		}
	}
}

// Targets returns the chain's targets oldest-first.
func (h *History) Targets() []string {
	var out []string
	for n := h; n != nil && n != EmptyHistory; n = n.Prev {
		out = append(out, n.Target)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
