package expr

import (
	"math/big"
	"sync/atomic"
)

// UpdateListRef is the minimal view of a C2 UpdateList that the expression
// DAG needs in order to build and hash a Read node, without importing the
// symbarray package (which itself builds Read nodes and would otherwise
// create an import cycle). symbarray.UpdateList implements this interface.
type UpdateListRef interface {
	// ULHash mixes the array root identity with every update node in the
	// chain, so that two structurally-equal update lists hash equal.
	ULHash() uint64
	// Domain/Range widths of the underlying array, needed for Node.Width.
	ArrayDomainWidth() uint32
	ArrayRangeWidth() uint32
	// ArrayRootHash identifies the backing array itself (not this
	// particular write chain over it), used by C4's independence
	// partition to group constraints by shared array symbol regardless
	// of how many writes separate two reads of the same array.
	ArrayRootHash() uint64
	// Equal reports structural equality against another update list,
	// used to break hash collisions during interning.
	Equal(other UpdateListRef) bool
}

// extractPayload carries Extract's bit offset (width comes from Node.width).
type extractPayload struct {
	offset uint32
}

// roundingPayload carries the rounding mode of a float arithmetic term.
type roundingPayload struct {
	mode RoundingMode
}

// readPayload carries the UpdateList a Read node indexes into; the index
// expression itself is operands[0].
type readPayload struct {
	list UpdateListRef
}

// Node is the single concrete representation for every expression variant
// named in spec §3. A Kind tag plus a small payload stand in for what the
// teacher's internal/ir models as N separate Instruction structs — here one
// shape suffices because hash-consing needs structural comparison, not
// method dispatch.
type Node struct {
	kind     Kind
	width    uint32
	hash     uint64
	refs     int32
	operands []*Node
	payload  interface{}
}

func (n *Node) Kind() Kind         { return n.kind }
func (n *Node) Width() uint32      { return n.width }
func (n *Node) Hash() uint64       { return n.hash }
func (n *Node) Operands() []*Node  { return n.operands }
func (n *Node) NumOperands() int   { return len(n.operands) }
func (n *Node) Operand(i int) *Node { return n.operands[i] }

// Height is recomputed lazily from operands; used for commutative-operand
// ordering and as a termination bound for visitors (spec §4.1).
func (n *Node) Height() int {
	h := 0
	for _, op := range n.operands {
		if c := op.Height() + 1; c > h {
			h = c
		}
	}
	return h
}

// ConstantValue returns the node's value and true iff kind is Constant.
func (n *Node) ConstantValue() (*big.Int, bool) {
	if n.kind != Constant {
		return nil, false
	}
	return n.payload.(*bigIntPayload).value, true
}

// IsZero / IsAllOnes are convenience checks used heavily by the builder's
// identity/absorption rewrites.
func (n *Node) IsZero() bool {
	v, ok := n.ConstantValue()
	return ok && v.Sign() == 0
}

func (n *Node) IsAllOnes() bool {
	v, ok := n.ConstantValue()
	if !ok {
		return false
	}
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(n.width)), big.NewInt(1))
	return v.Cmp(mask) == 0
}

// ExtractOffset is valid only for Extract nodes.
func (n *Node) ExtractOffset() uint32 {
	return n.payload.(extractPayload).offset
}

// RoundingMode is valid only for float-arithmetic nodes (FAdd/FSub/FMul/FDiv/FSqrt/FRint).
func (n *Node) RoundingModeOf() RoundingMode {
	return n.payload.(roundingPayload).mode
}

// UpdateList is valid only for Read nodes.
func (n *Node) UpdateList() UpdateListRef {
	return n.payload.(readPayload).list
}

// Index is valid only for Read nodes: the (zero-extended) byte offset.
func (n *Node) Index() *Node { return n.operands[0] }

// PointerBase/PointerValue are valid only for Pointer nodes.
func (n *Node) PointerBase() *Node  { return n.operands[0] }
func (n *Node) PointerValue() *Node { return n.operands[1] }

// Ref/Unref implement the shared ownership described in DESIGN NOTES
// ("ownership is shared by reference-counting the arena slot, weakly for
// intern entries"). Dropping the last reference removes the node from the
// global intern table so its hash bucket can be reused.
func (n *Node) Ref() *Node {
	atomic.AddInt32(&n.refs, 1)
	return n
}

func (n *Node) Unref() {
	if atomic.AddInt32(&n.refs, -1) == 0 {
		for _, op := range n.operands {
			op.Unref()
		}
		internTable.evict(n)
	}
}

func (n *Node) RefCount() int32 { return atomic.LoadInt32(&n.refs) }
