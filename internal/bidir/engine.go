package bidir

import (
	"symexec/internal/distance"
	"symexec/internal/expr"
	"symexec/internal/solver/backend"
)

// StepOutcome classifies what happened when the engine stepped a matched
// Propagation (spec §4.12's three outcomes for a backward propagation
// attempt).
type StepOutcome int

const (
	// Infeasible: the composed constraints are unsatisfiable; Conflict
	// names the block to record as a TargetedConflict.
	Infeasible StepOutcome = iota
	// ClosedAtEntry: the obligation's propagation reached the program
	// entry; the original target is guaranteed reachable.
	ClosedAtEntry
	// PropagatedFurther: one or more child obligations were created at
	// predecessor locations (or caller call-site blocks on a frame pop).
	PropagatedFurther
)

// StepResult is the outcome of Engine.Step for one Propagation.
type StepResult struct {
	Outcome  StepOutcome
	Children []*Obligation
	Conflict *TargetedConflict
}

// Engine drives proof obligations across the registry, consulting graph
// for predecessor/caller blocks and solver for feasibility (spec §4.12).
type Engine struct {
	graph    *distance.ProgramGraph
	solver   backend.SolverImpl
	Registry *Registry
	Avoid    *Avoidance
}

func NewEngine(g *distance.ProgramGraph, s backend.SolverImpl) *Engine {
	return &Engine{
		graph:    g,
		solver:   s,
		Registry: NewRegistry(),
		Avoid:    NewAvoidance(),
	}
}

// Step composes p's reached state against p's obligation, checks
// feasibility, and either closes, propagates, or records a conflict.
//
// Feasibility is decided by asking the solver to validate composed =>
// False: the solver's "query is valid" means composed (plus the negated
// query expr, here False's negation, i.e. nothing extra) is unsatisfiable,
// which is exactly "composed is infeasible" -- and on that outcome the
// solver hands back composed's own minimal unsat core (spec "fails with a
// minimal unsat core at some block").
func (e *Engine) Step(p *Propagation) (StepResult, error) {
	composed, err := Compose(p.Reached, p.Obligation)
	if err != nil {
		return StepResult{}, err
	}

	q := backend.Query{Constraints: composed, Expr: expr.False()}
	core, infeasible, err := e.solver.ComputeValidityCore(q)
	if err != nil {
		return StepResult{}, err
	}
	if infeasible {
		loc := p.Obligation.Location
		conflict := &TargetedConflict{Location: loc, Core: core}
		e.Avoid.Record(*conflict)
		return StepResult{Outcome: Infeasible, Conflict: conflict}, nil
	}

	p.Obligation.RecordReach(p.Reached.StateID)

	loc := p.Obligation.Location
	var preds []Location
	if fg, ok := e.graph.Function(loc.Function); ok && fg.Entry == loc.Block {
		preds = e.callerBlocks(loc.Function)
	} else {
		preds = e.predecessorBlocks(loc)
	}
	if len(preds) == 0 {
		p.Obligation.Close()
		return StepResult{Outcome: ClosedAtEntry}, nil
	}

	children := make([]*Obligation, 0, len(preds))
	for _, loc := range preds {
		child := p.Obligation.Propagate(loc, composed)
		e.Registry.AddObligation(child)
		children = append(children, child)
	}
	return StepResult{Outcome: PropagatedFurther, Children: children}, nil
}

// predecessorBlocks returns every block in loc's function with loc.Block
// among its successors.
func (e *Engine) predecessorBlocks(loc Location) []Location {
	fg, ok := e.graph.Function(loc.Function)
	if !ok {
		return nil
	}
	var out []Location
	for _, blk := range fg.Blocks {
		for _, succ := range blk.Successors {
			if succ == loc.Block {
				out = append(out, Location{Function: loc.Function, Block: blk.Name})
				break
			}
		}
	}
	return out
}

// callerBlocks returns every call-site block, in any function, whose call
// edges name function -- the "one frame up" propagation step taken when
// loc.Block is its function's entry block (spec "on function entry, one
// frame up (to the caller blocks)").
func (e *Engine) callerBlocks(function string) []Location {
	var out []Location
	for fname, fg := range e.graph.Functions {
		for _, blk := range fg.Blocks {
			for _, callee := range blk.Calls {
				if callee == function {
					out = append(out, Location{Function: fname, Block: blk.Name})
					break
				}
			}
		}
	}
	return out
}
