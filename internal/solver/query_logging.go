package solver

import (
	"time"

	"symexec/internal/expr"
	"symexec/internal/querylog"
	"symexec/internal/solver/backend"
	"symexec/internal/telemetry"
)

// queryLogging times every call and hands it to a querylog.Logger, which
// drops anything under its configured minimum wall time (spec §4.7 item 3).
type queryLogging struct {
	passthrough
	log *querylog.Logger
}

func newQueryLogging(inner backend.SolverImpl, log *querylog.Logger) backend.SolverImpl {
	return &queryLogging{passthrough: passthrough{inner: inner}, log: log}
}

var solverLog = telemetry.Scope("solver")

func (w *queryLogging) logQuery(q backend.Query, start time.Time) {
	elapsed := time.Since(start)
	logged, err := w.log.Log(q.Constraints, q.Expr, elapsed)
	if err != nil {
		solverLog.Warning("query log write failed: " + err.Error())
		return
	}
	if logged {
		solverLog.Debug("logged slow query")
	}
}

func (w *queryLogging) ComputeTruth(q backend.Query) (bool, error) {
	start := time.Now()
	defer w.logQuery(q, start)
	return w.inner.ComputeTruth(q)
}

func (w *queryLogging) ComputeValidity(q backend.Query) (backend.Validity, error) {
	start := time.Now()
	defer w.logQuery(q, start)
	return w.inner.ComputeValidity(q)
}

func (w *queryLogging) ComputeValue(q backend.Query) (*expr.Node, error) {
	start := time.Now()
	defer w.logQuery(q, start)
	return w.inner.ComputeValue(q)
}

func (w *queryLogging) ComputeInitialValues(q backend.Query, objects []expr.UpdateListRef) (map[uint64][]byte, bool, error) {
	start := time.Now()
	defer w.logQuery(q, start)
	return w.inner.ComputeInitialValues(q, objects)
}

func (w *queryLogging) Check(q backend.Query) (backend.CheckResult, error) {
	start := time.Now()
	defer w.logQuery(q, start)
	return w.inner.Check(q)
}

func (w *queryLogging) ComputeValidityCore(q backend.Query) ([]*expr.Node, bool, error) {
	start := time.Now()
	defer w.logQuery(q, start)
	return w.inner.ComputeValidityCore(q)
}
