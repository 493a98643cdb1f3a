package solver

import (
	"symexec/internal/coreerr"
	"symexec/internal/expr"
	"symexec/internal/solver/backend"
)

// assignmentValidating implements spec §4.7 item 2: on any response that
// carries a claimed assignment, re-evaluate the constraints (and, for
// Check, the query expression) under it; a backend that lies about a
// solution is a solver-layer bug, not a recoverable condition, so this
// wrapper reports it as a SolverError rather than silently trusting it.
type assignmentValidating struct {
	passthrough
}

func newAssignmentValidating(inner backend.SolverImpl) backend.SolverImpl {
	return &assignmentValidating{passthrough{inner: inner}}
}

func (w *assignmentValidating) ComputeInitialValues(q backend.Query, objects []expr.UpdateListRef) (map[uint64][]byte, bool, error) {
	assignment, hasSolution, err := w.inner.ComputeInitialValues(q, objects)
	if err != nil || !hasSolution {
		return assignment, hasSolution, err
	}
	ok, verr := backend.VerifyAssignment(q.Constraints, assignment)
	if verr != nil {
		return nil, false, verr
	}
	if !ok {
		return nil, false, coreerr.Solver(coreerr.CodeSolverBackendFailed,
			"backend returned an assignment that does not satisfy the constraint set")
	}
	return assignment, true, nil
}

func (w *assignmentValidating) Check(q backend.Query) (backend.CheckResult, error) {
	result, err := w.inner.Check(q)
	if err != nil || result.Valid {
		return result, err
	}

	ok, verr := backend.VerifyAssignment(q.Constraints, result.Counterexample)
	if verr != nil {
		return backend.CheckResult{}, verr
	}
	if !ok {
		return backend.CheckResult{}, coreerr.Solver(coreerr.CodeSolverBackendFailed,
			"backend's counterexample does not satisfy the path constraints")
	}

	if q.Expr != nil {
		falseOK, ferr := backend.VerifyFalse(q.Expr, result.Counterexample)
		if ferr != nil {
			return backend.CheckResult{}, ferr
		}
		if !falseOK {
			return backend.CheckResult{}, coreerr.Solver(coreerr.CodeSolverBackendFailed,
				"backend's counterexample does not falsify the query expression")
		}
	}

	return result, nil
}
