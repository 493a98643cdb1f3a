package control

import (
	"testing"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symexec/internal/forest"
	"symexec/internal/simplify"
	"symexec/internal/state"
)

func newRunControl() *RunControl {
	s := state.New(state.PC{Function: "main"}, simplify.Simple)
	return &RunControl{Forest: forest.New(s)}
}

func TestDispatchPauseResumeTogglesRunControl(t *testing.T) {
	run := newRunControl()
	svc := NewService(run)

	_, err := svc.dispatch(&jsonrpc2.Request{Method: MethodPause})
	require.NoError(t, err)
	assert.True(t, run.Paused())

	_, err = svc.dispatch(&jsonrpc2.Request{Method: MethodResume})
	require.NoError(t, err)
	assert.False(t, run.Paused())
}

func TestDispatchListStatesReturnsLiveIDs(t *testing.T) {
	run := newRunControl()
	svc := NewService(run)

	result, err := svc.dispatch(&jsonrpc2.Request{Method: MethodStates})
	require.NoError(t, err)
	sr, ok := result.(StatesResult)
	require.True(t, ok)
	assert.Len(t, sr.StateIDs, 1)
}

func TestDispatchSnapshotReportsLiveness(t *testing.T) {
	run := newRunControl()
	svc := NewService(run)

	result, err := svc.dispatch(&jsonrpc2.Request{Method: MethodSnapshot})
	require.NoError(t, err)
	snap, ok := result.(SnapshotResult)
	require.True(t, ok)
	assert.True(t, snap.Live)
	assert.Equal(t, 1, snap.LiveStates)
}

func TestDispatchUnknownMethodErrors(t *testing.T) {
	run := newRunControl()
	svc := NewService(run)

	_, err := svc.dispatch(&jsonrpc2.Request{Method: "engine/bogus"})
	assert.Error(t, err)
}
