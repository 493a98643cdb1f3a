// Package symbarray implements the Array & UpdateList model of spec §4.2:
// hash-consed symbolic arrays, their tagged symbolic sources, and the
// persistent update lists that record layered writes over them.
package symbarray

import "symexec/internal/sparse"

// SourceKind tags the variant carried by a Source, mirroring the way
// internal/expr tags a Node's Kind: one Go type, many shapes, switched on
// by a small enum rather than by interface dispatch.
type SourceKind uint8

const (
	// Constant arrays are backed by a sparse byte mapping plus default,
	// e.g. a global's initializer or a string literal.
	SourceConstant SourceKind = iota
	// MakeSymbolic arrays are the klee_make_symbolic entry points: a name
	// plus a version disambiguating repeated symbolic names.
	SourceMakeSymbolic
	// Uninitialized arrays back stack/heap allocations whose initial
	// content was never written (spec: "Uninitialized").
	SourceUninitialized
	// SymbolicSizeConstantAddress arrays have a concrete address but a
	// symbolic size (e.g. alloca of a symbolic length).
	SourceSymbolicSizeConstantAddress
	// LazyInitialization arrays stand in for memory reachable only through
	// a symbolic pointer, materialized on first dereference.
	SourceLazyInitialization
	// Argument/Instruction/Global arrays are named by call-site identity:
	// which function argument, which instruction result, which global.
	SourceArgument
	SourceInstruction
	SourceGlobal
	// MockNaive/MockDeterministic back external-function mocking policies
	// (spec §6 MockPolicy/MockStrategy).
	SourceMockNaive
	SourceMockDeterministic
	// Alpha arrays exist only as AlphaBuilder's renamed placeholders; they
	// never appear in a real execution state.
	SourceAlpha
	// Irreproducible arrays back sources with no stable identity across
	// runs (e.g. a timestamp), documented as explicitly unreplayable.
	SourceIrreproducible
)

func (k SourceKind) String() string {
	switch k {
	case SourceConstant:
		return "Constant"
	case SourceMakeSymbolic:
		return "MakeSymbolic"
	case SourceUninitialized:
		return "Uninitialized"
	case SourceSymbolicSizeConstantAddress:
		return "SymbolicSizeConstantAddress"
	case SourceLazyInitialization:
		return "LazyInitialization"
	case SourceArgument:
		return "Argument"
	case SourceInstruction:
		return "Instruction"
	case SourceGlobal:
		return "Global"
	case SourceMockNaive:
		return "MockNaive"
	case SourceMockDeterministic:
		return "MockDeterministic"
	case SourceAlpha:
		return "Alpha"
	case SourceIrreproducible:
		return "Irreproducible"
	default:
		return "Unknown"
	}
}

// CallSite identifies the program point a symbolic source is named after:
// Argument/Instruction/Global all key off some (function, site) pair.
type CallSite struct {
	Function string
	Index    int // argument index, instruction ordinal, or unused for Global
}

// LazyInitPointer names the pointer expression a LazyInitialization source
// materializes from as opaque hashes rather than *expr.Node values
// (callers supply the pointer identity as hashes).
type LazyInitPointer struct {
	AddressHash uint64
	SizeHash    uint64
	ContentHash uint64
}

// MockCall identifies a mocked external call: the function name plus a
// hash of its actual argument values, used by MockNaive/MockDeterministic
// sources to stay deterministic across runs of the same inputs.
type MockCall struct {
	Function  string
	ArgsHash  uint64
}

// Source is the tagged symbolic source of an Array (spec §4.1 Array
// variant list). Exactly one of the typed fields is meaningful, selected
// by Kind; this mirrors expr.Node's Kind+payload shape rather than an
// interface hierarchy, since sources need structural hashing for Array
// interning, not virtual dispatch.
type Source struct {
	Kind SourceKind

	// SourceConstant
	Values  *sparse.Map
	Default byte

	// SourceMakeSymbolic
	Name    string
	Version int

	// SourceArgument/SourceInstruction/SourceGlobal
	Site CallSite

	// SourceLazyInitialization
	LazyPtr LazyInitPointer

	// SourceMockNaive/SourceMockDeterministic
	Mock MockCall

	// SourceAlpha
	AlphaIndex int

	// SourceUninitialized/SourceSymbolicSizeConstantAddress/SourceIrreproducible
	// carry no payload beyond Kind.
}

// hash mixes a Source's structural identity for Array interning.
func (s Source) hash() uint64 {
	h := uint64(14695981039346656037)
	mixU := func(v uint64) { h ^= v; h *= 1099511628211 }
	mixU(uint64(s.Kind))
	switch s.Kind {
	case SourceConstant:
		mixU(uint64(s.Default))
		if s.Values != nil {
			s.Values.Range(func(idx uint64, v byte) bool {
				mixU(idx)
				mixU(uint64(v))
				return true
			})
		}
	case SourceMakeSymbolic:
		for _, b := range []byte(s.Name) {
			mixU(uint64(b))
		}
		mixU(uint64(s.Version))
	case SourceArgument, SourceInstruction, SourceGlobal:
		for _, b := range []byte(s.Site.Function) {
			mixU(uint64(b))
		}
		mixU(uint64(s.Site.Index))
	case SourceLazyInitialization:
		mixU(s.LazyPtr.AddressHash)
		mixU(s.LazyPtr.SizeHash)
		mixU(s.LazyPtr.ContentHash)
	case SourceMockNaive, SourceMockDeterministic:
		for _, b := range []byte(s.Mock.Function) {
			mixU(uint64(b))
		}
		mixU(s.Mock.ArgsHash)
	case SourceAlpha:
		mixU(uint64(s.AlphaIndex))
	}
	return h
}

// equal reports structural equality between two sources, used to break
// hash collisions during Array interning.
func (s Source) equal(o Source) bool {
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case SourceConstant:
		if s.Default != o.Default {
			return false
		}
		if (s.Values == nil) != (o.Values == nil) {
			return false
		}
		if s.Values == nil {
			return true
		}
		if s.Values.Len() != o.Values.Len() {
			return false
		}
		eq := true
		s.Values.Range(func(idx uint64, v byte) bool {
			if !o.Values.Has(idx) || o.Values.Load(idx) != v {
				eq = false
				return false
			}
			return true
		})
		return eq
	case SourceMakeSymbolic:
		return s.Name == o.Name && s.Version == o.Version
	case SourceArgument, SourceInstruction, SourceGlobal:
		return s.Site == o.Site
	case SourceLazyInitialization:
		return s.LazyPtr == o.LazyPtr
	case SourceMockNaive, SourceMockDeterministic:
		return s.Mock == o.Mock
	case SourceAlpha:
		return s.AlphaIndex == o.AlphaIndex
	default:
		return true
	}
}
