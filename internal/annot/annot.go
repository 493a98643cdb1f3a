// Package annot mirrors the Annotation JSON schema of spec §6 that the
// core consumes: per-function statement lists plus declared properties.
// Parsing the JSON itself is explicitly out of scope (spec §1 "Annotation
// parsing ... excluded"); these are the plain structs a caller's own
// loader is expected to populate.
package annot

// StatementKind tags one annotation statement's variant (spec §6
// "Statement grammar: Kind:Offset:Value, where Kind in {Deref, InitNull,
// MaybeInitNull, AllocSource, Free, TaintOutput, TaintPropagation:{type}:
// {index}, TaintSink}").
type StatementKind string

const (
	Deref             StatementKind = "Deref"
	InitNull          StatementKind = "InitNull"
	MaybeInitNull     StatementKind = "MaybeInitNull"
	AllocSource       StatementKind = "AllocSource"
	Free              StatementKind = "Free"
	TaintOutput       StatementKind = "TaintOutput"
	TaintPropagation  StatementKind = "TaintPropagation"
	TaintSink         StatementKind = "TaintSink"
)

// OffsetTokenKind tags one token in a Statement's pointer-chasing Offset
// sequence (spec "Offset is a sequence of *, &, or [n] tokens describing
// pointer chasing into an argument or return value").
type OffsetTokenKind string

const (
	Deref_ OffsetTokenKind = "*" // dereference
	Addr_  OffsetTokenKind = "&" // address-of
	Index_ OffsetTokenKind = "[n]"
)

// OffsetToken is one step of an Offset chain; Index is only meaningful
// when Kind is Index_.
type OffsetToken struct {
	Kind  OffsetTokenKind
	Index int
}

// Statement is one annotation entry: a Kind, the pointer-chasing path it
// applies to, and (for TaintPropagation only) a propagation type/index
// pair.
type Statement struct {
	Kind   StatementKind
	Offset []OffsetToken
	Value  string

	// PropagationType/PropagationIndex are only meaningful when
	// Kind == TaintPropagation (spec "TaintPropagation:{type}:{index}").
	PropagationType  string
	PropagationIndex int
}

// FunctionEntry is one function's annotation record (spec "A JSON file
// with per-function entries {annotation: [[<stmt>...], ...], properties:
// [<prop>...]}").
type FunctionEntry struct {
	Function   string
	Annotation [][]Statement
	Properties []string
}

// File is the top-level annotation document: one entry per annotated
// function.
type File struct {
	Functions []FunctionEntry
}
