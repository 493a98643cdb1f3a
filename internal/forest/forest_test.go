package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symexec/internal/simplify"
	"symexec/internal/state"
)

func TestNewForestIsSingleLeaf(t *testing.T) {
	root := state.New(state.PC{Function: "main"}, simplify.Simple)
	f := New(root)
	n, ok := f.Leaf(root.ID)
	require.True(t, ok)
	assert.Equal(t, Leaf, n.Kind)
	assert.True(t, f.Live())
}

func TestForkReplacesLeafWithTwoChildren(t *testing.T) {
	root := state.New(state.PC{Function: "main"}, simplify.Simple)
	f := New(root)
	left, right, err := root.Branch("if")
	require.NoError(t, err)

	require.NoError(t, f.Fork(root.ID, "if", left, right))

	_, ok := f.Leaf(root.ID)
	assert.False(t, ok, "forked state id should no longer resolve to a leaf")

	leftNode, ok := f.Leaf(left.ID)
	require.True(t, ok)
	assert.Equal(t, Leaf, leftNode.Kind)

	rightNode, ok := f.Leaf(right.ID)
	require.True(t, ok)
	assert.Equal(t, Leaf, rightNode.Kind)
	assert.Equal(t, leftNode.Parent, rightNode.Parent)
}

func TestTrackPropagatesUpAncestorChain(t *testing.T) {
	root := state.New(state.PC{Function: "main"}, simplify.Simple)
	f := New(root)
	left, right, err := root.Branch("if")
	require.NoError(t, err)
	require.NoError(t, f.Fork(root.ID, "if", left, right))

	bit := f.RegisterSearcher()
	require.NoError(t, f.Track(left.ID, bit))

	leftNode, _ := f.Leaf(left.ID)
	assert.True(t, leftNode.owners.Test(bit))
	assert.True(t, leftNode.Parent.owners.Test(bit))

	rightNode, _ := f.Leaf(right.ID)
	assert.False(t, rightNode.owners.Test(bit))
}

func TestUntrackClearsOnlyWhenNoSiblingHoldsBit(t *testing.T) {
	root := state.New(state.PC{Function: "main"}, simplify.Simple)
	f := New(root)
	left, right, err := root.Branch("if")
	require.NoError(t, err)
	require.NoError(t, f.Fork(root.ID, "if", left, right))

	bit := f.RegisterSearcher()
	require.NoError(t, f.Track(left.ID, bit))
	require.NoError(t, f.Track(right.ID, bit))

	require.NoError(t, f.Untrack(left.ID, bit))
	parent := f.root
	assert.True(t, parent.owners.Test(bit), "sibling still owns the bit, parent must keep it")

	require.NoError(t, f.Untrack(right.ID, bit))
	assert.False(t, parent.owners.Test(bit))
}

func TestRemoveCollapsesDeadSiblingPair(t *testing.T) {
	root := state.New(state.PC{Function: "main"}, simplify.Simple)
	f := New(root)
	left, right, err := root.Branch("if")
	require.NoError(t, err)
	require.NoError(t, f.Fork(root.ID, "if", left, right))

	require.NoError(t, f.Remove(left.ID))
	assert.True(t, f.Live(), "right sibling still live")

	require.NoError(t, f.Remove(right.ID))
	assert.False(t, f.Live())
}

func TestRandomPathWalkOnlyVisitsOwnedLeaves(t *testing.T) {
	root := state.New(state.PC{Function: "main"}, simplify.Simple)
	f := New(root)
	left, right, err := root.Branch("if")
	require.NoError(t, err)
	require.NoError(t, f.Fork(root.ID, "if", left, right))

	bit := f.RegisterSearcher()
	require.NoError(t, f.Track(left.ID, bit))

	for i := 0; i < 20; i++ {
		got, err := f.RandomPathWalk(bit, nil)
		require.NoError(t, err)
		assert.Equal(t, left.ID, got.ID)
	}
}

func TestRandomPathWalkErrorsWithNoOwnedLeaf(t *testing.T) {
	root := state.New(state.PC{Function: "main"}, simplify.Simple)
	f := New(root)
	_, _, err := root.Branch("if")
	require.NoError(t, err)

	bit := f.RegisterSearcher()
	_, err = f.RandomPathWalk(bit, nil)
	assert.Error(t, err)
}
