package solver

import (
	"symexec/internal/coreerr"
	"symexec/internal/solver/backend"
)

// validating is the debug dual-oracle wrapper of spec §4.7 item 4: every
// truth/validity decision is cross-checked against a second oracle solver,
// and disagreement is an internal invariant violation (two deterministic
// decision procedures must never disagree on the same query), not a
// recoverable solver error.
type validating struct {
	passthrough
	oracle backend.SolverImpl
}

func newValidating(inner, oracle backend.SolverImpl) backend.SolverImpl {
	return &validating{passthrough: passthrough{inner: inner}, oracle: oracle}
}

func (w *validating) ComputeTruth(q backend.Query) (bool, error) {
	got, err := w.inner.ComputeTruth(q)
	if err != nil {
		return got, err
	}
	want, err := w.oracle.ComputeTruth(q)
	if err != nil {
		return got, err
	}
	if got != want {
		return false, coreerr.WrapFatal(coreerr.Fatal("oracle disagreement on computeTruth: got %v want %v", got, want), "solver validating wrapper")
	}
	return got, nil
}

func (w *validating) ComputeValidity(q backend.Query) (backend.Validity, error) {
	got, err := w.inner.ComputeValidity(q)
	if err != nil {
		return got, err
	}
	want, err := w.oracle.ComputeValidity(q)
	if err != nil {
		return got, err
	}
	if got != want {
		return backend.Unknown, coreerr.WrapFatal(coreerr.Fatal("oracle disagreement on computeValidity: got %v want %v", got, want), "solver validating wrapper")
	}
	return got, nil
}
