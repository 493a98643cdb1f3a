package memobj

import (
	"fmt"
	"sort"

	"symexec/internal/coreerr"
	"symexec/internal/expr"
	"symexec/internal/memobj/typepolicy"
	"symexec/internal/sparse"
	"symexec/internal/symbarray"
)

// ObjectState is one instance of a MemoryObject's storage (spec §3). Cache
// invariant: at every byte, exactly one of {concrete, known-symbolic,
// unresolved} holds; unflushed implies concrete or known-symbolic.
type ObjectState struct {
	Object *MemoryObject

	concreteStore  *sparse.Map
	concreteMask   *bitset
	knownSymbolics map[uint64]*expr.Node
	unflushedMask  *bitset
	updates        *symbarray.UpdateList

	dynamicType      typepolicy.Capability
	typePolicy       typepolicy.Policy
	copyOnWriteOwner uint64
}

// New creates an ObjectState for mo, owned initially by owner (spec §4.3's
// copy-on-write owner stamp).
func New(mo *MemoryObject, owner uint64) *ObjectState {
	return &ObjectState{
		Object:           mo,
		concreteStore:    sparse.New(0),
		concreteMask:     newBitset(),
		knownSymbolics:   make(map[uint64]*expr.Node),
		unflushedMask:    newBitset(),
		typePolicy:       typepolicy.Default{},
		copyOnWriteOwner: owner,
	}
}

// Clone returns a new ObjectState owned by newOwner, sharing the updates
// UpdateList (persistent, safe to share) but deep-copying the mutable
// caches, matching the copy-on-write contract: distinct owners never
// observe each other's mutations.
func (os *ObjectState) Clone(newOwner uint64) *ObjectState {
	known := make(map[uint64]*expr.Node, len(os.knownSymbolics))
	for k, v := range os.knownSymbolics {
		known[k] = v
	}
	return &ObjectState{
		Object:           os.Object,
		concreteStore:    os.concreteStore.Clone(),
		concreteMask:     os.concreteMask.Clone(),
		knownSymbolics:   known,
		unflushedMask:    os.unflushedMask.Clone(),
		updates:          os.updates, // persistent, safe to share until extended
		dynamicType:      os.dynamicType,
		typePolicy:       os.typePolicy,
		copyOnWriteOwner: newOwner,
	}
}

// IsOwnedBy reports whether stamp may mutate os without a copy.
func (os *ObjectState) IsOwnedBy(stamp uint64) bool { return os.copyOnWriteOwner == stamp }

// SetDynamicType attaches the capability used by isAccessableFrom.
func (os *ObjectState) SetDynamicType(cap typepolicy.Capability) { os.dynamicType = cap }

// SetTypePolicy overrides the default universal char* policy, e.g. with
// typepolicy.Strict{} when the engine is run with strict aliasing checks.
func (os *ObjectState) SetTypePolicy(p typepolicy.Policy) { os.typePolicy = p }

// IsAccessibleFrom reports whether an access presenting accessType may
// touch this object (spec §4.3).
func (os *ObjectState) IsAccessibleFrom(accessType typepolicy.Capability) bool {
	return os.typePolicy.IsAccessibleFrom(os.dynamicType, accessType)
}

func (os *ObjectState) boundsCheck(offset, width uint64) error {
	size, ok := os.Object.ConcreteSize()
	if !ok {
		return nil // symbolic size: bounds are a solver question, not checked here
	}
	if offset+width > size {
		return coreerr.Program(coreerr.CodeOutOfBoundsPointer,
			fmt.Sprintf("offset %d width %d exceeds object size %d", offset, width, size))
	}
	return nil
}

// ensureUpdates lazily materializes the UpdateList on first symbolic
// access: concrete writes collapse into a ConstantSource array (spec
// §4.3 "keeps the solver input compact"), symbolic writes replay on top in
// ascending offset order.
func (os *ObjectState) ensureUpdates() *symbarray.UpdateList {
	if os.updates != nil {
		return os.updates
	}
	source := symbarray.Source{Kind: symbarray.SourceConstant, Values: os.concreteStore.Clone(), Default: os.concreteStore.Default()}
	root := symbarray.Create(os.Object.Size, 32, 8, source)
	ul := symbarray.New(root)

	offsets := make([]uint64, 0, len(os.knownSymbolics))
	for off := range os.knownSymbolics {
		offsets = append(offsets, off)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	for _, off := range offsets {
		ul = ul.Extend(expr.ConstantU64(off, 32), os.knownSymbolics[off])
	}
	os.updates = ul
	return os.updates
}

// flushForRead pushes every dirty offset into the UpdateList (ascending
// order, one update node per offset), then clears unflushedMask.
func (os *ObjectState) flushForRead() {
	if os.unflushedMask == nil {
		return
	}
	ul := os.ensureUpdates()
	var dirty []uint64
	os.unflushedMask.Range(func(off uint64) { dirty = append(dirty, off) })
	for _, off := range dirty {
		ul = ul.Extend(expr.ConstantU64(off, 32), os.byteNodeAt(off))
	}
	os.updates = ul
	os.unflushedMask.ClearAll()
}

// flushForWrite does the same as flushForRead, then clears concreteMask
// and knownSymbolics: those bytes are now abstractly overwritten and live
// only in the UpdateList going forward.
func (os *ObjectState) flushForWrite() {
	os.flushForRead()
	os.concreteMask.ClearAll()
	for k := range os.knownSymbolics {
		delete(os.knownSymbolics, k)
	}
}

func (os *ObjectState) byteNodeAt(offset uint64) *expr.Node {
	if sym, ok := os.knownSymbolics[offset]; ok {
		return sym
	}
	return expr.ConstantU64(uint64(os.concreteStore.Load(offset)), 8)
}

// Read8 reads the byte at a constant offset.
func (os *ObjectState) Read8(offset uint64) (*expr.Node, error) {
	if err := os.boundsCheck(offset, 1); err != nil {
		return nil, err
	}
	if os.concreteMask.Test(offset) {
		return expr.ConstantU64(uint64(os.concreteStore.Load(offset)), 8), nil
	}
	if sym, ok := os.knownSymbolics[offset]; ok {
		return sym, nil
	}
	os.flushForRead()
	return symbarray.Read(os.updates, expr.ConstantU64(offset, 32))
}

// Read8Symbolic reads the byte at a symbolic offset expression.
func (os *ObjectState) Read8Symbolic(offset *expr.Node) (*expr.Node, error) {
	os.flushForRead()
	idx, err := zextIndex(offset)
	if err != nil {
		return nil, err
	}
	return symbarray.Read(os.updates, idx)
}

// Write8 stores a concrete byte at a constant offset.
func (os *ObjectState) Write8(offset uint64, v byte) error {
	if err := os.boundsCheck(offset, 1); err != nil {
		return err
	}
	os.concreteStore.Store(offset, v)
	delete(os.knownSymbolics, offset)
	os.concreteMask.Set(offset)
	os.unflushedMask.Set(offset)
	return nil
}

// Write8Symbolic stores a symbolic byte expression at a constant offset.
func (os *ObjectState) Write8Symbolic(offset uint64, v *expr.Node) error {
	if err := os.boundsCheck(offset, 1); err != nil {
		return err
	}
	os.knownSymbolics[offset] = v
	os.concreteMask.Clear(offset)
	os.unflushedMask.Set(offset)
	return nil
}

// Write8AtSymbolicOffset stores v at a symbolic offset expression: flushes
// everything first (the write may alias any byte), clears both caches
// entirely, then appends to the UpdateList.
func (os *ObjectState) Write8AtSymbolicOffset(offset, v *expr.Node) error {
	os.flushForWrite()
	idx, err := zextIndex(offset)
	if err != nil {
		return err
	}
	os.updates = os.updates.Extend(idx, v)
	return nil
}

func zextIndex(offset *expr.Node) (*expr.Node, error) {
	if offset.Width() == 32 {
		return offset, nil
	}
	if offset.Width() > 32 {
		return nil, coreerr.Execution(coreerr.CodeUnsupportedInstruction, "symbolic offset wider than array domain")
	}
	return expr.NewZExt(offset, 32)
}

// ReadWidth reads width bits (must be a multiple of 8) starting at a
// constant offset, little-endian byte order, with fast-path widths for
// Int16/32/64 falling out of the same loop (no separate code path is
// needed since Concat already folds over constant bytes).
func (os *ObjectState) ReadWidth(offset uint64, width uint32) (*expr.Node, error) {
	if width%8 != 0 {
		return os.ReadBit(offset, width)
	}
	n := width / 8
	if err := os.boundsCheck(offset, uint64(n)); err != nil {
		return nil, err
	}
	bytes := make([]*expr.Node, n)
	for i := uint32(0); i < n; i++ {
		b, err := os.Read8(offset + uint64(i))
		if err != nil {
			return nil, err
		}
		bytes[i] = b
	}
	// little-endian: bytes[0] is least significant, so fold from the top.
	result := bytes[n-1]
	for i := int(n) - 2; i >= 0; i-- {
		var err error
		result, err = expr.NewConcat(result, bytes[i])
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ReadBit is the bool fast path: an Extract of the low bitWidth bits of the
// byte at offset.
func (os *ObjectState) ReadBit(offset uint64, bitWidth uint32) (*expr.Node, error) {
	byteVal, err := os.Read8(offset)
	if err != nil {
		return nil, err
	}
	return expr.NewExtract(byteVal, 0, bitWidth)
}

// WriteWidth decomposes v into little-endian bytes and writes each one,
// using the concrete fast path when a byte folds to a constant.
func (os *ObjectState) WriteWidth(offset uint64, width uint32, v *expr.Node) error {
	n := width / 8
	if err := os.boundsCheck(offset, uint64(n)); err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		b, err := expr.NewExtract(v, i*8, 8)
		if err != nil {
			return err
		}
		if cv, ok := b.ConstantValue(); ok {
			if err := os.Write8(offset+uint64(i), byte(cv.Uint64())); err != nil {
				return err
			}
			continue
		}
		if err := os.Write8Symbolic(offset+uint64(i), b); err != nil {
			return err
		}
	}
	return nil
}
