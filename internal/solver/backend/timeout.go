package backend

import (
	"time"

	deadlock "github.com/sasha-s/go-deadlock"

	"symexec/internal/coreerr"
	"symexec/internal/expr"
)

// Supervised wraps a core SolverImpl with the process-supervision half of
// spec §4.7/§5: an alarm-based wall-time limit enforced with a non-blocking
// wait on the query's completion, guarded by go-deadlock since SetLimits
// and NotifyStateTermination may run concurrently with an in-flight query
// from the scheduler's alarm goroutine. A real STP/Z3/Bitwuzla/MetaSMT
// backend forks a subprocess and waits on it with SIGALRM; Dummy never
// forks, so here the goroutine-plus-timer pair stands in for fork/waitpid
// while keeping the same timeout contract for whichever backend is plugged
// in behind SolverImpl.
type Supervised struct {
	inner    SolverImpl
	mu       deadlock.Mutex
	wallTime time.Duration
	memory   uint64
}

// WithTimeout wraps inner with wall-time supervision.
func WithTimeout(inner SolverImpl) *Supervised {
	return &Supervised{inner: inner}
}

func (s *Supervised) SetLimits(wallTime time.Duration, memoryBytes uint64) {
	s.mu.Lock()
	s.wallTime = wallTime
	s.memory = memoryBytes
	s.mu.Unlock()
	s.inner.SetLimits(wallTime, memoryBytes)
}

func (s *Supervised) NotifyStateTermination(id uint64) {
	s.inner.NotifyStateTermination(id)
}

// runWithTimeout runs fn on its own goroutine and waits on it non-blockingly
// against the configured wall-time limit (spec §5 "parent uses non-blocking
// wait with alarm-based timeouts"). A limit of 0 means unlimited.
func (s *Supervised) runWithTimeout(fn func() error) error {
	s.mu.Lock()
	limit := s.wallTime
	s.mu.Unlock()
	if limit <= 0 {
		return fn()
	}

	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-time.After(limit):
		return coreerr.Solver(coreerr.CodeSolverTimeout, "query exceeded its configured wall-time limit")
	}
}

func (s *Supervised) ComputeTruth(q Query) (bool, error) {
	var result bool
	err := s.runWithTimeout(func() error {
		var ferr error
		result, ferr = s.inner.ComputeTruth(q)
		return ferr
	})
	return result, err
}

func (s *Supervised) ComputeValidity(q Query) (Validity, error) {
	var result Validity
	err := s.runWithTimeout(func() error {
		var ferr error
		result, ferr = s.inner.ComputeValidity(q)
		return ferr
	})
	return result, err
}

func (s *Supervised) ComputeValue(q Query) (*expr.Node, error) {
	var result *expr.Node
	err := s.runWithTimeout(func() error {
		var ferr error
		result, ferr = s.inner.ComputeValue(q)
		return ferr
	})
	return result, err
}

func (s *Supervised) ComputeInitialValues(q Query, objects []expr.UpdateListRef) (map[uint64][]byte, bool, error) {
	var assignment map[uint64][]byte
	var hasSolution bool
	err := s.runWithTimeout(func() error {
		var ferr error
		assignment, hasSolution, ferr = s.inner.ComputeInitialValues(q, objects)
		return ferr
	})
	return assignment, hasSolution, err
}

func (s *Supervised) Check(q Query) (CheckResult, error) {
	var result CheckResult
	err := s.runWithTimeout(func() error {
		var ferr error
		result, ferr = s.inner.Check(q)
		return ferr
	})
	return result, err
}

func (s *Supervised) ComputeValidityCore(q Query) ([]*expr.Node, bool, error) {
	var core []*expr.Node
	var isValid bool
	err := s.runWithTimeout(func() error {
		var ferr error
		core, isValid, ferr = s.inner.ComputeValidityCore(q)
		return ferr
	})
	return core, isValid, err
}
