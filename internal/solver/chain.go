package solver

import (
	"io"
	"time"

	"symexec/internal/querylog"
	"symexec/internal/solver/backend"
)

// Config controls which optional wrappers Build installs around a core
// backend (spec §4.7's wrappers are all optional except the core itself
// and the assignment-validating safety net).
type Config struct {
	// QueryLogWriter, if non-nil, enables the query logger (item 3).
	QueryLogWriter io.Writer
	// QueryLogMinWallTime is the minimum wall time a query must take
	// before it's written to QueryLogWriter.
	QueryLogMinWallTime time.Duration
	// Oracle, if non-nil, enables the debug dual-oracle validating
	// wrapper (item 4) cross-checked against inner.
	Oracle backend.SolverImpl
	// WallTimeLimit/MemoryLimit seed the core backend's process
	// supervisor (spec §5); 0 means unlimited.
	WallTimeLimit time.Duration
	MemoryLimit   uint64
}

// Build composes the full chain leaf-first around core: process-supervised
// core backend, assignment-validating, query logger (if configured), debug
// validating (if configured), concretization manager (outermost).
func Build(core backend.SolverImpl, cfg Config) backend.SolverImpl {
	supervised := backend.WithTimeout(core)
	supervised.SetLimits(cfg.WallTimeLimit, cfg.MemoryLimit)

	chain := newAssignmentValidating(supervised)

	if cfg.QueryLogWriter != nil {
		log := querylog.NewLogger(cfg.QueryLogWriter, cfg.QueryLogMinWallTime)
		chain = newQueryLogging(chain, log)
	}

	if cfg.Oracle != nil {
		chain = newValidating(chain, cfg.Oracle)
	}

	return newConcretization(chain)
}
