// Package config holds the run configuration record of spec §6. The core
// only reads these values; parsing them from flags or a file is the
// command-line driver's job and stays out of scope (spec §1).
package config

import "time"

// MockPolicy controls which external calls get mocked.
type MockPolicy string

const (
	MockPolicyNone   MockPolicy = "none"
	MockPolicyFailed MockPolicy = "failed"
	MockPolicyAll    MockPolicy = "all"
)

// MockStrategy controls how mocked values are synthesized.
type MockStrategy string

const (
	MockStrategyNaive       MockStrategy = "naive"
	MockStrategyDeterministic MockStrategy = "deterministic"
)

// MockMutableGlobals controls which globals mocks are allowed to mutate.
type MockMutableGlobals string

const (
	MockMutableGlobalsNone MockMutableGlobals = "none"
	MockMutableGlobalsAll  MockMutableGlobals = "all"
)

// RewriteEqualities selects the Simplificator policy of spec §4.5.
type RewriteEqualities string

const (
	RewriteNone   RewriteEqualities = "none"
	RewriteSimple RewriteEqualities = "simple"
	RewriteFull   RewriteEqualities = "full"
)

// CoreSolverKind names the backend behind the solver chain's core layer
// (spec §4.7). The backends themselves are external collaborators; the
// core only needs to know which shape of process to supervise.
type CoreSolverKind string

const (
	CoreSolverSTP       CoreSolverKind = "stp"
	CoreSolverZ3        CoreSolverKind = "z3"
	CoreSolverBitwuzla  CoreSolverKind = "bitwuzla"
	CoreSolverMetaSMT   CoreSolverKind = "metasmt"
	CoreSolverDummy     CoreSolverKind = "dummy"
)

// SearchHeuristic names a registered entry in the searcher family (C11).
type SearchHeuristic string

const (
	SearchDFS             SearchHeuristic = "dfs"
	SearchBFS             SearchHeuristic = "bfs"
	SearchRandom          SearchHeuristic = "random"
	SearchWeightedRandom   SearchHeuristic = "weighted-random"
	SearchRandomPath       SearchHeuristic = "random-path"
	SearchTargeted         SearchHeuristic = "targeted"
	SearchGuided           SearchHeuristic = "guided"
)

// Config is the record the core consumes from the driver (spec §6).
type Config struct {
	EntryPoint     string
	MainModuleName string

	MockPolicy         MockPolicy
	MockStrategy       MockStrategy
	MockMutableGlobals MockMutableGlobals

	CheckDivZero  bool
	CheckOvershift bool

	Optimize bool
	Simplify bool

	UseTypeBasedAliasAnalysis bool

	RewriteEqualities RewriteEqualities

	SearchHeuristic SearchHeuristic

	MaxForks          int
	MaxMemory         uint64
	MaxCoreSolverTime time.Duration
	CoreSolverKind    CoreSolverKind
}

// Default returns the configuration the teacher's CLI would resolve to
// when no flags override it: full simplification, type-based alias
// analysis on, and a randomly-weighted searcher, matching klee's defaults.
func Default() Config {
	return Config{
		MockPolicy:                MockPolicyNone,
		MockStrategy:              MockStrategyNaive,
		MockMutableGlobals:        MockMutableGlobalsNone,
		CheckDivZero:              true,
		CheckOvershift:            true,
		Optimize:                  true,
		Simplify:                  true,
		UseTypeBasedAliasAnalysis: true,
		RewriteEqualities:         RewriteFull,
		SearchHeuristic:           SearchWeightedRandom,
		MaxForks:                  -1,
		MaxMemory:                 2 << 30,
		MaxCoreSolverTime:         10 * time.Second,
		CoreSolverKind:            CoreSolverDummy,
	}
}
