package distance

import "symexec/internal/state"

// TargetKind classifies where a target sits relative to a state's current
// frame (spec §4.10).
type TargetKind int

const (
	// LocalTarget: the target is in the function currently executing.
	LocalTarget TargetKind = iota
	// PreTarget: the target is not yet on the stack but reachable by
	// calling down into a callee from here.
	PreTarget
	// PostTarget: the target's function is already an ancestor frame;
	// reaching it means returning up the stack.
	PostTarget
)

func (k TargetKind) String() string {
	switch k {
	case LocalTarget:
		return "LocalTarget"
	case PreTarget:
		return "PreTarget"
	case PostTarget:
		return "PostTarget"
	default:
		return "unknown"
	}
}

// Outcome is getDistance's verdict for a (state, target) pair.
type Outcome int

const (
	// Miss: the target is unreachable from this state.
	Miss Outcome = iota
	// Done: the state is already at the target.
	Done
	// Continue: progress toward the target is possible; DistanceResult
	// describes how good that progress looks.
	Continue
)

// Target identifies a location to reach.
type Target struct {
	Function string
	Block    string
}

// DistanceResult ranks one candidate path toward a target. Results compare
// lexicographically by (InsideFunction, Kind, Weight) (spec §4.10): moves
// that stay inside the current function are preferred over ones that
// don't, ties broken by target kind, then by weight.
type DistanceResult struct {
	Kind           TargetKind
	Weight         int
	InsideFunction bool
}

// Less reports whether a ranks strictly better than b.
func Less(a, b DistanceResult) bool {
	if a.InsideFunction != b.InsideFunction {
		return a.InsideFunction
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Weight < b.Weight
}

// GetDistance classifies target relative to s's current frame and stack,
// and computes the weight searchers use to prioritize states (spec §4.10).
// Every weight adds s.SteppedMemoryInstructions to a kind-specific term:
// the CFG block distance for LocalTarget, the number of frames to pop for
// PostTarget, and 2*callHops for PreTarget.
func GetDistance(g *ProgramGraph, target Target, s *state.ExecutionState) (DistanceResult, Outcome) {
	current := s.PC.Function

	if current == target.Function {
		blockDist, reachable := g.BlockDistance(current, s.PC.Block, target.Block)
		if !reachable {
			return DistanceResult{}, Miss
		}
		if blockDist == 0 {
			return DistanceResult{Kind: LocalTarget, Weight: s.SteppedMemoryInstructions, InsideFunction: true}, Done
		}
		weight := blockDist + s.SteppedMemoryInstructions
		return DistanceResult{Kind: LocalTarget, Weight: weight, InsideFunction: true}, Continue
	}

	// An ancestor frame already sitting at the target function: returning
	// up the stack reaches it.
	for i := len(s.Stack) - 2; i >= 0; i-- {
		if s.Stack[i].Function == target.Function {
			popCount := len(s.Stack) - 1 - i
			weight := popCount + s.SteppedMemoryInstructions
			return DistanceResult{Kind: PostTarget, Weight: weight, InsideFunction: false}, Continue
		}
	}

	// Not on the stack: see if it is reachable by calling down from here.
	callHops, reachable := g.CallDistance(current, target.Function)
	if !reachable {
		return DistanceResult{}, Miss
	}
	weight := 2*callHops + s.SteppedMemoryInstructions
	return DistanceResult{Kind: PreTarget, Weight: weight, InsideFunction: false}, Continue
}
