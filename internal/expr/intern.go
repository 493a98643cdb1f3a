package expr

import "sync"

// mix folds a new value into a running FNV-1a-style hash, giving the
// "mixing scheme seeded by (kind, operand hashes)" spec §4.1 asks for.
func mix(h uint64, v uint64) uint64 {
	h ^= v
	h *= 1099511628211
	return h
}

func mix32(h uint64, v uint32) uint64 { return mix(h, uint64(v)) }

func computeHash(kind Kind, width uint32, operands []*Node, payload interface{}) uint64 {
	h := uint64(14695981039346656037)
	h = mix32(h, uint32(kind))
	h = mix32(h, width)
	for _, op := range operands {
		h = mix(h, op.hash)
	}
	switch p := payload.(type) {
	case *bigIntPayload:
		h = mix(h, p.hashOf())
	case extractPayload:
		h = mix32(h, p.offset)
	case roundingPayload:
		h = mix32(h, uint32(p.mode))
	case readPayload:
		h = mix(h, p.list.ULHash())
	}
	return h
}

// internTable is the global weak intern table: two structurally-equal
// expressions share one *Node (spec §4.1, testable property 1). It is
// guarded by a mutex even though spec §5 describes the engine as
// single-threaded cooperative, so that expressions built from more than
// one goroutine intern safely, and the table outlives any one
// ExecutionState's scheduler thread.
type table struct {
	mu      sync.Mutex
	buckets map[uint64][]*Node
}

var internTable = &table{buckets: make(map[uint64][]*Node)}

func (t *table) intern(kind Kind, width uint32, operands []*Node, payload interface{}) *Node {
	h := computeHash(kind, width, operands, payload)
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, cand := range t.buckets[h] {
		if structurallyEqual(cand, kind, width, operands, payload) {
			return cand.Ref()
		}
	}

	n := &Node{kind: kind, width: width, hash: h, refs: 1, operands: operands, payload: payload}
	for _, op := range operands {
		op.Ref()
	}
	t.buckets[h] = append(t.buckets[h], n)
	return n
}

func (t *table) evict(n *Node) {
	t.mu.Lock()
	defer t.mu.Unlock()
	bucket := t.buckets[n.hash]
	for i, cand := range bucket {
		if cand == n {
			bucket[i] = bucket[len(bucket)-1]
			t.buckets[n.hash] = bucket[:len(bucket)-1]
			break
		}
	}
	if len(t.buckets[n.hash]) == 0 {
		delete(t.buckets, n.hash)
	}
}

func structurallyEqual(cand *Node, kind Kind, width uint32, operands []*Node, payload interface{}) bool {
	if cand.kind != kind || cand.width != width || len(cand.operands) != len(operands) {
		return false
	}
	for i := range operands {
		if cand.operands[i] != operands[i] {
			return false
		}
	}
	switch p := payload.(type) {
	case *bigIntPayload:
		cp, ok := cand.payload.(*bigIntPayload)
		return ok && cp.value.Cmp(p.value) == 0
	case extractPayload:
		cp, ok := cand.payload.(extractPayload)
		return ok && cp == p
	case roundingPayload:
		cp, ok := cand.payload.(roundingPayload)
		return ok && cp == p
	case readPayload:
		cp, ok := cand.payload.(readPayload)
		return ok && cp.list.Equal(p.list)
	default:
		return cand.payload == nil && payload == nil
	}
}

// Equal implements identity-by-interning: two canonical nodes are equal iff
// they are the same pointer (testable property 1 and 8).
func Equal(a, b *Node) bool { return a == b }
