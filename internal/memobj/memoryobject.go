// Package memobj implements the Symbolic Memory Object model of spec §4.3:
// a MemoryObject's fixed identity plus an ObjectState tracking its concrete
// and symbolic content with lazy update-list materialization.
package memobj

import "symexec/internal/expr"

// Allocator is notified when a MemoryObject it produced is destroyed,
// letting it reclaim the address range or bookkeeping slot.
type Allocator interface {
	NotifyObjectDestroyed(mo *MemoryObject)
}

// MemoryObject has fixed identity for its lifetime: size may be symbolic
// (spec §3: "a size expression (possibly symbolic)"), everything else is
// immutable once allocated.
type MemoryObject struct {
	ID          uint64
	Size        *expr.Node // possibly symbolic
	Address     uint64
	AllocSite   string
	Allocator   Allocator
	UserSpecified bool // set by defineFixedObject-style entry points
}

// Destroy notifies the owning allocator, if any. Safe to call once.
func (mo *MemoryObject) Destroy() {
	if mo.Allocator != nil {
		mo.Allocator.NotifyObjectDestroyed(mo)
	}
}

// ConcreteSize returns the object's size as a concrete uint64 and true, or
// false if the size is symbolic.
func (mo *MemoryObject) ConcreteSize() (uint64, bool) {
	v, ok := mo.Size.ConstantValue()
	if !ok {
		return 0, false
	}
	return v.Uint64(), true
}
