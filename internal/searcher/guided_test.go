package searcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symexec/internal/simplify"
	"symexec/internal/state"
)

func TestGuidedRoutesStateWithActiveTargetIntoSubSearcher(t *testing.T) {
	g := linearDistanceGraph()
	base := NewDFS()
	gd := NewGuided(base, g)

	s := state.New(state.PC{Function: "main", Block: "mid"}, simplify.Simple)
	s.Targets = state.NewTargetForest([]string{"main"})

	gd.Update(nil, []*state.ExecutionState{s}, nil)

	assert.False(t, gd.Empty())
	got, err := gd.SelectState()
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
}

func TestGuidedDropsStateOnRemoval(t *testing.T) {
	g := linearDistanceGraph()
	base := NewDFS()
	gd := NewGuided(base, g)

	s := state.New(state.PC{Function: "main", Block: "mid"}, simplify.Simple)
	s.Targets = state.NewTargetForest([]string{"main"})
	gd.Update(nil, []*state.ExecutionState{s}, nil)

	gd.Update(nil, nil, []*state.ExecutionState{s})
	assert.True(t, gd.Empty())
}
