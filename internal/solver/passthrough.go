// Package solver composes the solver chain of spec §4.7: a core backend
// (internal/solver/backend) wrapped leaf-first by assignment-validating,
// query-logging, debug-validating, and concretization-manager layers, every
// layer implementing the same backend.SolverImpl interface so the chain is
// indistinguishable from a single solver to the rest of the engine.
package solver

import (
	"time"

	"symexec/internal/expr"
	"symexec/internal/solver/backend"
)

// passthrough forwards every SolverImpl method to inner unchanged; wrappers
// embed it and override only the methods their concern touches.
type passthrough struct {
	inner backend.SolverImpl
}

func (p *passthrough) ComputeTruth(q backend.Query) (bool, error) {
	return p.inner.ComputeTruth(q)
}

func (p *passthrough) ComputeValidity(q backend.Query) (backend.Validity, error) {
	return p.inner.ComputeValidity(q)
}

func (p *passthrough) ComputeValue(q backend.Query) (*expr.Node, error) {
	return p.inner.ComputeValue(q)
}

func (p *passthrough) ComputeInitialValues(q backend.Query, objects []expr.UpdateListRef) (map[uint64][]byte, bool, error) {
	return p.inner.ComputeInitialValues(q, objects)
}

func (p *passthrough) Check(q backend.Query) (backend.CheckResult, error) {
	return p.inner.Check(q)
}

func (p *passthrough) ComputeValidityCore(q backend.Query) ([]*expr.Node, bool, error) {
	return p.inner.ComputeValidityCore(q)
}

func (p *passthrough) SetLimits(wallTime time.Duration, memoryBytes uint64) {
	p.inner.SetLimits(wallTime, memoryBytes)
}

func (p *passthrough) NotifyStateTermination(id uint64) {
	p.inner.NotifyStateTermination(id)
}
