// Package backend defines the core solver boundary of spec §4.7: the
// SolverImpl interface every wrapper in internal/solver composes over, plus
// a Dummy implementation usable when no external SMT process is attached.
package backend

import (
	"time"

	"symexec/internal/expr"
)

// Validity is the three-way outcome of ComputeValidity.
type Validity int

const (
	Unknown Validity = iota
	True
	False
)

func (v Validity) String() string {
	switch v {
	case True:
		return "True"
	case False:
		return "False"
	default:
		return "Unknown"
	}
}

// Query bundles a constraint set with the expression under test (or, for
// ComputeInitialValues/Check, just acts as the constraint set; Expr is
// ignored by those). Assignment carries already-concretized array bytes
// (array root hash -> byte-per-cell contents) that a backend may use to
// resolve Read nodes without a real SMT decision procedure (spec §4.7
// "Core backend ... or a dummy").
type Query struct {
	Constraints []*expr.Node
	Expr        *expr.Node
	Assignment  map[uint64][]byte
}

// CheckResult is the outcome of Check: Valid, or Invalid with a
// counterexample assignment.
type CheckResult struct {
	Valid          bool
	Counterexample map[uint64][]byte
}

// SolverImpl is the core solver interface of spec §4.7. Every wrapper
// (assignment-validating, query logger, debug-validating, concretization
// manager) also implements this interface, composing leaf-first around a
// concrete backend.
type SolverImpl interface {
	// ComputeTruth reports whether query.Expr must be true given
	// query.Constraints (spec: "{MustBeTrue, MayBeFalse} | Error").
	ComputeTruth(q Query) (mustBeTrue bool, err error)
	// ComputeValidity classifies query.Expr as True, False, or Unknown
	// under query.Constraints.
	ComputeValidity(q Query) (Validity, error)
	// ComputeValue returns a concrete value for query.Expr consistent
	// with query.Constraints.
	ComputeValue(q Query) (*expr.Node, error)
	// ComputeInitialValues returns a satisfying assignment for objects
	// (identified by array root hash with its per-cell width) under
	// query.Constraints, or hasSolution=false if none exists.
	ComputeInitialValues(q Query, objects []expr.UpdateListRef) (assignment map[uint64][]byte, hasSolution bool, err error)
	// Check decides query.Constraints directly, returning a
	// counterexample on Invalid.
	Check(q Query) (CheckResult, error)
	// ComputeValidityCore returns a minimal unsat core of query.Constraints
	// against the negation of query.Expr, plus whether the query is valid.
	ComputeValidityCore(q Query) (core []*expr.Node, isValid bool, err error)
	// SetLimits bounds wall time and memory for subsequent queries.
	SetLimits(wallTime time.Duration, memoryBytes uint64)
	// NotifyStateTermination releases any per-state resources (e.g.
	// incremental solver contexts) held for the state named by id.
	NotifyStateTermination(id uint64)
}
