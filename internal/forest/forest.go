// Package forest implements the process forest (spec §4.9): a binary tree
// in which each leaf is a live execution state and each internal node
// records the fork reason and its two children. Searchers that need
// path-uniform selection (RandomPathSearcher, internal/searcher) register
// for an id bit and walk the tree following only edges an owned leaf sits
// beneath, without ever materializing the full state set.
package forest

import (
	"symexec/internal/coreerr"
	"symexec/internal/state"
)

// Kind tags a forest node.
type Kind int

const (
	// Leaf holds a live ExecutionState.
	Leaf Kind = iota
	// Fork records a branch: two children and the reason it happened.
	Fork
	// Dead marks a leaf (or a fully-collapsed subtree) whose state has
	// terminated. Dead nodes are pruned up the tree as their siblings
	// also die, but a Fork whose sibling is still live stays a Fork with
	// one Dead child so the ancestor chain above it stays intact.
	Dead
)

// Node is one binary-tree node. Leaf fields (State) and Fork fields
// (Reason, Left, Right) are mutually exclusive; a Fork's own State field is
// always nil once it has been split.
type Node struct {
	Kind   Kind
	State  *state.ExecutionState
	Reason string
	Left   *Node
	Right  *Node
	Parent *Node

	owners *ownerSet
}

// Forest is the tree plus an index from state id to its leaf node.
type Forest struct {
	root    *Node
	leaves  map[uint64]*Node
	nextBit int
}

// New returns a single-leaf forest rooted at initial.
func New(initial *state.ExecutionState) *Forest {
	leaf := &Node{Kind: Leaf, State: initial, owners: newOwnerSet()}
	return &Forest{root: leaf, leaves: map[uint64]*Node{initial.ID: leaf}}
}

// Root returns the tree's root node, mainly for diagnostics.
func (f *Forest) Root() *Node { return f.root }

// RegisterSearcher allocates a fresh owner bit for a searcher (spec §4.9
// "each searcher owns an id bit"). Bits are never reused within a Forest's
// lifetime, matching the id's role as a stable address into every node's
// owner set.
func (f *Forest) RegisterSearcher() int {
	bit := f.nextBit
	f.nextBit++
	return bit
}

// Leaf looks up the live node for a state id.
func (f *Forest) Leaf(stateID uint64) (*Node, bool) {
	n, ok := f.leaves[stateID]
	return n, ok
}

// Track sets bit on stateID's leaf and every ancestor up to the root,
// recording that the searcher owning bit is interested in that leaf (spec
// §4.9's ownership bitset). Track is idempotent.
func (f *Forest) Track(stateID uint64, bit int) error {
	n, ok := f.leaves[stateID]
	if !ok {
		return coreerr.Execution(coreerr.CodeUnsupportedInstruction, "forest: unknown state id in Track")
	}
	for cur := n; cur != nil; cur = cur.Parent {
		cur.owners.Set(bit)
	}
	return nil
}

// Untrack clears bit on stateID's leaf, then recomputes each ancestor's
// owner bit as the union of its two children so a bit is only cleared from
// a Fork once neither child still carries it.
func (f *Forest) Untrack(stateID uint64, bit int) error {
	n, ok := f.leaves[stateID]
	if !ok {
		return coreerr.Execution(coreerr.CodeUnsupportedInstruction, "forest: unknown state id in Untrack")
	}
	n.owners.Clear(bit)
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		recomputed := newOwnerSet()
		if cur.Left != nil {
			recomputed.Union(cur.Left.owners)
		}
		if cur.Right != nil {
			recomputed.Union(cur.Right.owners)
		}
		cur.owners = recomputed
	}
	return nil
}

// Fork turns parentID's leaf into a Fork node with two new leaves, carrying
// forward the parent's owner bits to both children (every searcher
// interested in the parent is, until it next updates, interested in both
// of its children).
func (f *Forest) Fork(parentID uint64, reason string, left, right *state.ExecutionState) error {
	n, ok := f.leaves[parentID]
	if !ok || n.Kind != Leaf {
		return coreerr.Execution(coreerr.CodeUnsupportedInstruction, "forest: Fork on a non-leaf or unknown state")
	}

	leftNode := &Node{Kind: Leaf, State: left, Parent: n, owners: n.owners.Clone()}
	rightNode := &Node{Kind: Leaf, State: right, Parent: n, owners: n.owners.Clone()}

	n.Kind = Fork
	n.Reason = reason
	n.State = nil
	n.Left = leftNode
	n.Right = rightNode

	delete(f.leaves, parentID)
	f.leaves[left.ID] = leftNode
	f.leaves[right.ID] = rightNode
	return nil
}

// Remove marks stateID's leaf Dead and collapses any run of Dead siblings
// up the tree, so a terminated branch never blocks a path-uniform walk on
// a node with no live descendants.
func (f *Forest) Remove(stateID uint64) error {
	n, ok := f.leaves[stateID]
	if !ok || n.Kind != Leaf {
		return coreerr.Execution(coreerr.CodeUnsupportedInstruction, "forest: Remove on a non-leaf or unknown state")
	}
	delete(f.leaves, stateID)
	n.Kind = Dead
	n.State = nil

	cur := n
	for cur.Parent != nil {
		p := cur.Parent
		sibling := p.Left
		if sibling == cur {
			sibling = p.Right
		}
		if sibling.Kind != Dead {
			break
		}
		p.Kind = Dead
		p.Left, p.Right = nil, nil
		cur = p
	}
	return nil
}

// Live reports whether the forest still has at least one non-Dead leaf.
func (f *Forest) Live() bool {
	return f.root.Kind != Dead
}

// LiveStateIDs returns every still-live leaf's state id, for diagnostics
// (e.g. internal/control's engine-inspector RPC service).
func (f *Forest) LiveStateIDs() []uint64 {
	ids := make([]uint64, 0, len(f.leaves))
	for id, n := range f.leaves {
		if n.Kind == Leaf {
			ids = append(ids, id)
		}
	}
	return ids
}
