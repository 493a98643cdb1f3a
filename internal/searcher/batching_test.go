package searcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symexec/internal/state"
)

func TestBatchingStaysOnStateUntilInstrBudgetSpent(t *testing.T) {
	base := NewDFS()
	a := newState("a")
	base.Update(nil, []*state.ExecutionState{a}, nil)

	b := NewBatching(base, 0, 3)

	got, err := b.SelectState()
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	a.SteppedMemoryInstructions = 1
	got, err = b.SelectState()
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID, "budget not yet spent")

	a.SteppedMemoryInstructions = 3
	got, err = b.SelectState()
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID, "only state available, still selected after new slice starts")
}

func TestBatchingReleasesStateOnRemoval(t *testing.T) {
	base := NewDFS()
	a := newState("a")
	base.Update(nil, []*state.ExecutionState{a}, nil)

	b := NewBatching(base, time.Hour, 0)
	_, err := b.SelectState()
	require.NoError(t, err)

	b.Update(a, nil, []*state.ExecutionState{a})
	assert.True(t, b.Empty())
}

func TestBatchingStopsOnFork(t *testing.T) {
	base := NewDFS()
	a := newState("a")
	base.Update(nil, []*state.ExecutionState{a}, nil)

	b := NewBatching(base, time.Hour, 0)
	_, err := b.SelectState()
	require.NoError(t, err)

	left, right, err := a.Branch("if")
	require.NoError(t, err)
	b.Update(a, []*state.ExecutionState{left, right}, []*state.ExecutionState{a})

	got, err := b.SelectState()
	require.NoError(t, err)
	assert.Contains(t, []uint64{left.ID, right.ID}, got.ID)
}
