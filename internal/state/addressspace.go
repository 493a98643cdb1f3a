package state

import "symexec/internal/memobj"

// AddressSpace maps live MemoryObject ids to their ObjectState, under the
// same copy-on-write owner-stamp discipline as internal/constraints and
// internal/path (spec §4.8 "address space (MO -> ObjectState map with
// owner stamp)").
type AddressSpace struct {
	owner   uint64
	objects map[uint64]*memobj.ObjectState
}

// NewAddressSpace returns an empty AddressSpace owned by owner.
func NewAddressSpace(owner uint64) *AddressSpace {
	return &AddressSpace{owner: owner, objects: make(map[uint64]*memobj.ObjectState)}
}

// Bind installs os under mo.ID, taking ownership (os must already be
// stamped with this AddressSpace's owner, or the next Clone will deep copy
// it like every other entry).
func (as *AddressSpace) Bind(moID uint64, os *memobj.ObjectState) {
	as.objects[moID] = os
}

// Unbind removes mo.ID, used when a MemoryObject is freed.
func (as *AddressSpace) Unbind(moID uint64) {
	delete(as.objects, moID)
}

// Lookup returns the ObjectState bound to moID, if any.
func (as *AddressSpace) Lookup(moID uint64) (*memobj.ObjectState, bool) {
	os, ok := as.objects[moID]
	return os, ok
}

// Clone returns a new AddressSpace owned by newOwner holding
// memobj.ObjectState.Clone of every entry: each object's caches are copied
// at once, and only its persistent update list is shared between the two
// address spaces.
func (as *AddressSpace) Clone(newOwner uint64) *AddressSpace {
	objects := make(map[uint64]*memobj.ObjectState, len(as.objects))
	for id, os := range as.objects {
		objects[id] = os.Clone(newOwner)
	}
	return &AddressSpace{owner: newOwner, objects: objects}
}

// Objects returns every live (id, ObjectState) pair, used by flush-on-query
// and by the object manager's destroy-after-flush bookkeeping.
func (as *AddressSpace) Objects() map[uint64]*memobj.ObjectState {
	return as.objects
}
