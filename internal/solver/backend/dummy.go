package backend

import (
	"errors"
	"time"

	"symexec/internal/expr"
)

// ErrUnknown is returned by Dummy whenever a query does not fold to a
// constant once every resolvable Read has been substituted: Dummy has no
// real decision procedure, only constant folding over an assignment, so
// anything genuinely symbolic is outside what it can answer (spec §4.7
// "Core backend ... or a dummy"; real deployments plug an STP/Z3/Bitwuzla/
// MetaSMT process in behind this same interface instead).
var ErrUnknown = errors.New("dummy backend: query is not fully concrete under the given assignment")

// Dummy is the zero-dependency core backend: it never invokes an external
// process and can only decide a query once substituting Query.Assignment
// into every Read resolves the whole expression to a Constant. It exists
// so the rest of the solver chain (logging, caching, validation wrappers)
// can be built and tested without a real SMT backend attached.
type Dummy struct{}

func (Dummy) ComputeTruth(q Query) (bool, error) {
	folded, err := substituteReads(q.Expr, q.Assignment)
	if err != nil {
		return false, err
	}
	v, ok := folded.ConstantValue()
	if !ok {
		return false, ErrUnknown
	}
	return v.Sign() != 0, nil
}

func (Dummy) ComputeValidity(q Query) (Validity, error) {
	folded, err := substituteReads(q.Expr, q.Assignment)
	if err != nil {
		return Unknown, err
	}
	v, ok := folded.ConstantValue()
	if !ok {
		return Unknown, nil
	}
	if v.Sign() != 0 {
		return True, nil
	}
	return False, nil
}

func (Dummy) ComputeValue(q Query) (*expr.Node, error) {
	folded, err := substituteReads(q.Expr, q.Assignment)
	if err != nil {
		return nil, err
	}
	if _, ok := folded.ConstantValue(); !ok {
		return nil, ErrUnknown
	}
	return folded, nil
}

func (Dummy) ComputeInitialValues(q Query, objects []expr.UpdateListRef) (map[uint64][]byte, bool, error) {
	folded, err := foldConjunction(q.Constraints, q.Assignment)
	if err != nil {
		return nil, false, err
	}
	v, ok := folded.ConstantValue()
	if !ok || v.Sign() == 0 {
		return nil, false, nil
	}
	out := make(map[uint64][]byte, len(objects))
	for _, obj := range objects {
		if bytes, present := q.Assignment[obj.ArrayRootHash()]; present {
			out[obj.ArrayRootHash()] = append([]byte{}, bytes...)
		}
	}
	return out, true, nil
}

func (Dummy) Check(q Query) (CheckResult, error) {
	folded, err := foldConjunction(q.Constraints, q.Assignment)
	if err != nil {
		return CheckResult{}, err
	}
	v, ok := folded.ConstantValue()
	if !ok {
		return CheckResult{}, ErrUnknown
	}
	if v.Sign() != 0 {
		return CheckResult{Valid: true}, nil
	}
	return CheckResult{Valid: false, Counterexample: q.Assignment}, nil
}

func (Dummy) ComputeValidityCore(q Query) ([]*expr.Node, bool, error) {
	valid, err := Dummy{}.ComputeValidity(Query{Constraints: q.Constraints, Expr: q.Expr, Assignment: q.Assignment})
	if err != nil {
		return nil, false, err
	}
	if valid == Unknown {
		return nil, false, ErrUnknown
	}
	// Dummy has no real unsat-core minimization; the full constraint list
	// is a (non-minimal) valid core.
	return append([]*expr.Node{}, q.Constraints...), valid == True, nil
}

func (Dummy) SetLimits(time.Duration, uint64) {}

func (Dummy) NotifyStateTermination(uint64) {}
