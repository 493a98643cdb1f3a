package symbarray

import (
	"sync"

	"symexec/internal/expr"
)

// Array is the (size, domain, range, source) tuple of spec §4.1, interned
// the same way internal/expr interns Nodes: two arrays built from equal
// components share one *Array.
type Array struct {
	Size   *expr.Node // may itself be symbolic
	Domain uint32     // index width, e.g. 32
	Range  uint32     // element width, e.g. 8
	Source Source

	hash uint64
}

func (a *Array) Hash() uint64 { return a.hash }

var arrayTable = struct {
	mu      sync.Mutex
	buckets map[uint64][]*Array
}{buckets: make(map[uint64][]*Array)}

func computeArrayHash(size *expr.Node, domain, range_ uint32, source Source) uint64 {
	h := uint64(14695981039346656037)
	mix := func(v uint64) { h ^= v; h *= 1099511628211 }
	if size != nil {
		mix(size.Hash())
	}
	mix(uint64(domain))
	mix(uint64(range_))
	mix(source.hash())
	return h
}

// Create interns an Array on (size, domain, range, source), matching
// spec §4.2: "Array::create interns on (size, source, domain, range)".
func Create(size *expr.Node, domain, range_ uint32, source Source) *Array {
	h := computeArrayHash(size, domain, range_, source)

	arrayTable.mu.Lock()
	defer arrayTable.mu.Unlock()

	for _, cand := range arrayTable.buckets[h] {
		if cand.Domain == domain && cand.Range == range_ &&
			sameSize(cand.Size, size) && cand.Source.equal(source) {
			return cand
		}
	}

	a := &Array{Size: size, Domain: domain, Range: range_, Source: source, hash: h}
	arrayTable.buckets[h] = append(arrayTable.buckets[h], a)
	return a
}

func sameSize(a, b *expr.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return expr.Equal(a, b)
}
