package searcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symexec/internal/distance"
	"symexec/internal/path"
	"symexec/internal/simplify"
	"symexec/internal/state"
)

func linearDistanceGraph() *distance.ProgramGraph {
	g := distance.New()
	g.AddBlock("main", "entry", []string{"mid"}, nil)
	g.AddBlock("main", "mid", []string{"exit"}, nil)
	g.AddBlock("main", "exit", nil, nil)
	return g
}

func TestTargetedOrdersByDistanceAndSurfacesDone(t *testing.T) {
	g := linearDistanceGraph()
	target := distance.Target{Function: "main", Block: "exit"}
	tg := NewTargeted(g, target)

	near := state.New(state.PC{Function: "main", Block: "mid"}, simplify.Simple)
	far := state.New(state.PC{Function: "main", Block: "entry"}, simplify.Simple)
	tg.Update(nil, []*state.ExecutionState{far, near}, nil)

	got, err := tg.SelectState()
	require.NoError(t, err)
	assert.Equal(t, near.ID, got.ID, "the closer state should be on top of the heap")

	near.Step(state.PC{Function: "main", Block: "exit"}, path.None, false)
	tg.Update(near, nil, nil)
	require.Len(t, tg.ReachedOnLastUpdate, 1)
	assert.Equal(t, near.ID, tg.ReachedOnLastUpdate[0].ID)

	got, err = tg.SelectState()
	require.NoError(t, err)
	assert.Equal(t, far.ID, got.ID, "the done state must no longer be selectable")
}
