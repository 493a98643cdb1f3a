package state

import (
	"symexec/internal/coreerr"
	"symexec/internal/expr"
	"symexec/internal/path"
	"symexec/internal/simplify"
)

var nextUniqueID uint64 = 1

func allocID() uint64 {
	id := nextUniqueID
	nextUniqueID++
	return id
}

// ExecutionState is a single symbolic thread of control (spec §4.8): its
// program counters, call stack, address space, path constraints, rounding
// mode, target forest, and per-state counters feeding the distance/searcher
// layers.
type ExecutionState struct {
	ID        uint64
	Kind      Kind
	PC        PC
	PrevPC    PC
	InitialPC PC

	Stack []Frame

	Addr *AddressSpace
	Path *path.PathConstraints

	RoundingMode expr.RoundingMode

	Targets *TargetForest

	// SteppedMemoryInstructions feeds the distance weight formula of spec
	// §4.10 ("2*callHops + stackFrames + stepped memory instructions on
	// the local path").
	SteppedMemoryInstructions int

	// ForkDisabled suppresses Branch: a state with it set returns an error
	// from Branch instead of forking.
	ForkDisabled bool

	// Assumptions are solver hints outside the path constraints proper
	// (e.g. alignment facts asserted by the executor, not derived from a
	// branch) -- kept separate so RewriteConcretization/replay never
	// confuses them with actual path history.
	Assumptions []*expr.Node

	termination     TerminationKind
	terminationDone bool
}

// New returns a fresh Regular state at entryPC with an empty stack, address
// space, and path.
func New(entryPC PC, policy simplify.Policy) *ExecutionState {
	id := allocID()
	return &ExecutionState{
		ID:        id,
		Kind:      Regular,
		PC:        entryPC,
		InitialPC: entryPC,
		Stack:     []Frame{{Function: entryPC.Function}},
		Addr:      NewAddressSpace(id),
		Path:      path.New(policy, id),
		Targets:   NewTargetForest(nil),
	}
}

// Terminated reports whether Terminate has been called, and with what kind.
func (s *ExecutionState) Terminated() (TerminationKind, bool) {
	return s.termination, s.terminationDone
}

// Terminate marks the state as finished with the given kind. Calling it
// twice on the same state is a bug in the caller (the scheduler should
// never step a terminated state), so the second call is fatal rather than
// silently ignored.
func (s *ExecutionState) Terminate(kind TerminationKind) error {
	if s.terminationDone {
		return coreerr.WrapFatal(coreerr.Fatal("state %d terminated twice (first %s, now %s)", s.ID, s.termination, kind), "ExecutionState.Terminate")
	}
	s.termination = kind
	s.terminationDone = true
	return nil
}

// Branch clones this state into a new sibling at the same PC, under
// copy-on-write for both the address space and the path constraints (spec
// §4.8 "clones the state, attaches to the process forest as a sibling,
// preserves copy-on-write for address space and constraints"). Attaching
// the pair to the process forest is internal/forest's job (C9), which
// depends on internal/state rather than the reverse; Branch itself only
// produces the two independent handles.
func (s *ExecutionState) Branch(reason string) (*ExecutionState, *ExecutionState, error) {
	if s.ForkDisabled {
		return nil, nil, coreerr.Execution(coreerr.CodeUnsupportedInstruction, "branch requested on a fork-disabled state: "+reason)
	}

	leftID := allocID()
	rightID := allocID()

	left := s.cloneWithID(leftID)
	right := s.cloneWithID(rightID)
	return left, right, nil
}

func (s *ExecutionState) cloneWithID(id uint64) *ExecutionState {
	stack := append([]Frame{}, s.Stack...)
	assumptions := append([]*expr.Node{}, s.Assumptions...)
	return &ExecutionState{
		ID:                        id,
		Kind:                      s.Kind,
		PC:                        s.PC,
		PrevPC:                    s.PrevPC,
		InitialPC:                 s.InitialPC,
		Stack:                     stack,
		Addr:                      s.Addr.Clone(id),
		Path:                      s.Path.Clone(id),
		RoundingMode:              s.RoundingMode,
		Targets:                   s.Targets.Clone(),
		SteppedMemoryInstructions: s.SteppedMemoryInstructions,
		ForkDisabled:              s.ForkDisabled,
		Assumptions:               assumptions,
	}
}

// Step advances the state to pc, recording prevPC, pushing a path-block
// transition, and bumping SteppedMemoryInstructions when isMemoryInstr is
// set (spec §4.8 "step(ki): advances PC and path, may mutate address
// space, may push constraints, may record history transitions").
func (s *ExecutionState) Step(pc PC, transition path.Transition, isMemoryInstr bool) {
	s.PrevPC = s.PC
	s.PC = pc
	s.Path.AdvancePath(path.BlockRecord{Function: pc.Function, Block: pc.Block, Transition: transition}, pc.Instr)
	if isMemoryInstr {
		s.SteppedMemoryInstructions++
	}
}

// PushFrame enters a call, recording where execution should resume on
// return.
func (s *ExecutionState) PushFrame(callee string, returnPC PC) {
	s.Stack = append(s.Stack, Frame{Function: callee, ReturnPC: returnPC, HasReturn: true})
}

// PopFrame returns from a call, reporting the frame popped and whether one
// existed (popping the entry frame is a caller bug, reported as false).
func (s *ExecutionState) PopFrame() (Frame, bool) {
	if len(s.Stack) <= 1 {
		return Frame{}, false
	}
	top := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return top, true
}

// StackDepth is the number of live frames, including the entry frame.
func (s *ExecutionState) StackDepth() int {
	return len(s.Stack)
}
