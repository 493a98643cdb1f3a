package searcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symexec/internal/path"
	"symexec/internal/state"
)

func TestRandomSelectsAmongLiveStates(t *testing.T) {
	r := NewRandom()
	a, b := newState("a"), newState("b")
	r.Update(nil, []*state.ExecutionState{a, b}, nil)

	seen := map[uint64]bool{}
	for i := 0; i < 40; i++ {
		got, err := r.SelectState()
		require.NoError(t, err)
		seen[got.ID] = true
	}
	assert.True(t, seen[a.ID])
	assert.True(t, seen[b.ID])
}

func TestWeightedRandomAlwaysPicksSoleNonZeroWeight(t *testing.T) {
	a, b := newState("a"), newState("b")
	w := NewWeightedRandom(func(s *state.ExecutionState) float64 {
		if s.ID == a.ID {
			return 0
		}
		return 1
	})
	w.Update(nil, []*state.ExecutionState{a, b}, nil)

	for i := 0; i < 20; i++ {
		got, err := w.SelectState()
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
	}
}

func TestDepthWeightIncreasesWithPathLength(t *testing.T) {
	s := newState("a")
	before := DepthWeight(s)
	s.Step(state.PC{Function: "a", Block: "b"}, path.None, false)
	after := DepthWeight(s)
	assert.Greater(t, after, before)
}
