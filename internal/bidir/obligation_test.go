package bidir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeleteSubtreeCascadesAndUnlinksFromParent(t *testing.T) {
	root := NewObligation(Location{Function: "f", Block: "a"}, nil)
	child := root.Propagate(Location{Function: "f", Block: "b"}, nil)
	grandchild := child.Propagate(Location{Function: "f", Block: "c"}, nil)

	removed := child.DeleteSubtree()

	ids := map[uint64]bool{}
	for _, o := range removed {
		ids[o.ID] = true
	}
	assert.True(t, ids[child.ID])
	assert.True(t, ids[grandchild.ID])
	assert.False(t, ids[root.ID])
	assert.Empty(t, root.Children, "root must no longer reference the deleted child")
}

func TestRegistryMatchesObligationsAndReachedStatesAtSameLocation(t *testing.T) {
	reg := NewRegistry()
	loc := Location{Function: "f", Block: "target"}

	pob := NewObligation(loc, nil)
	props := reg.AddObligation(pob)
	assert.Empty(t, props, "no reached states registered yet")

	r := &ReachedState{StateID: 1, Location: loc}
	props = reg.AddReached(r)
	assert.Len(t, props, 1)
	assert.Same(t, pob, props[0].Obligation)
	assert.Same(t, r, props[0].Reached)
}

func TestRegistryIgnoresDifferentLocations(t *testing.T) {
	reg := NewRegistry()
	pob := NewObligation(Location{Function: "f", Block: "a"}, nil)
	reg.AddObligation(pob)

	r := &ReachedState{StateID: 1, Location: Location{Function: "f", Block: "b"}}
	props := reg.AddReached(r)
	assert.Empty(t, props)
}

func TestObligationRecordReachCountsPerState(t *testing.T) {
	o := NewObligation(Location{Function: "f", Block: "a"}, nil)
	assert.Equal(t, 1, o.RecordReach(42))
	assert.Equal(t, 2, o.RecordReach(42))
	assert.Equal(t, 1, o.RecordReach(7))
	assert.Equal(t, 2, o.ReachCount(42))
}
