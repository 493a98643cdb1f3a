package objmgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symexec/internal/simplify"
	"symexec/internal/solver/backend"
	"symexec/internal/state"
)

type recordingSubscriber struct {
	order []string
}

func (r *recordingSubscriber) OnStates(StatesEvent)                     { r.order = append(r.order, "states") }
func (r *recordingSubscriber) OnPropagations(PropagationsEvent)         { r.order = append(r.order, "propagations") }
func (r *recordingSubscriber) OnProofObligations(ProofObligationsEvent) { r.order = append(r.order, "obligations") }
func (r *recordingSubscriber) OnConflicts(ConflictsEvent)               { r.order = append(r.order, "conflicts") }

type notifyingSolver struct {
	backend.Dummy
	terminated []uint64
}

func (n *notifyingSolver) NotifyStateTermination(id uint64) {
	n.terminated = append(n.terminated, id)
}

func TestFlushDeliversEventsInFixedOrder(t *testing.T) {
	solver := &notifyingSolver{}
	bus := NewBus(solver)
	sub := &recordingSubscriber{}
	bus.Subscribe(sub)

	bus.PublishConflicts(ConflictsEvent{})
	bus.PublishProofObligations(ProofObligationsEvent{})
	bus.PublishPropagations(PropagationsEvent{})
	bus.PublishStates(StatesEvent{})

	bus.Flush()

	assert.Equal(t, []string{"states", "propagations", "obligations", "conflicts"}, sub.order)
}

func TestFlushDestroysRemovedStatesAfterDelivery(t *testing.T) {
	solver := &notifyingSolver{}
	bus := NewBus(solver)
	sub := &recordingSubscriber{}
	bus.Subscribe(sub)

	s := state.New(state.PC{Function: "main"}, simplify.Simple)
	bus.PublishStates(StatesEvent{Removed: []*state.ExecutionState{s}})

	bus.Flush()

	require.Len(t, solver.terminated, 1)
	assert.Equal(t, s.ID, solver.terminated[0])
}

func TestFlushSkipsUnpublishedEventKinds(t *testing.T) {
	bus := NewBus(&notifyingSolver{})
	sub := &recordingSubscriber{}
	bus.Subscribe(sub)

	bus.PublishStates(StatesEvent{})
	bus.Flush()

	assert.Equal(t, []string{"states"}, sub.order)
}

func TestFlushClearsRoundForNextCall(t *testing.T) {
	solver := &notifyingSolver{}
	bus := NewBus(solver)
	sub := &recordingSubscriber{}
	bus.Subscribe(sub)

	s := state.New(state.PC{Function: "main"}, simplify.Simple)
	bus.PublishStates(StatesEvent{Removed: []*state.ExecutionState{s}})
	bus.Flush()
	bus.Flush() // nothing pending, must not redeliver or re-notify

	assert.Equal(t, []string{"states"}, sub.order)
	assert.Len(t, solver.terminated, 1)
}
