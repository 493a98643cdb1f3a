package bidir

import (
	"symexec/internal/expr"
	"symexec/internal/state"
)

// ReachedState is the forward-side counterpart of an Obligation: a clone
// of a state's path constraints and stack, frozen at the moment it
// reached a target location with an acceptable stack (spec §4.12
// "cloned and installed as a reached state for that target").
type ReachedState struct {
	StateID  uint64
	Location Location

	Constraints []*expr.Node
	StackDepth  int
}

// Reach captures s as a ReachedState at loc. The caller is responsible for
// having already checked the stack is acceptable for loc (spec leaves
// "acceptable stack" to the executor, not to this package).
func Reach(s *state.ExecutionState, loc Location) *ReachedState {
	return &ReachedState{
		StateID:     s.ID,
		Location:    loc,
		Constraints: s.Path.Constraints().Constraints(),
		StackDepth:  s.StackDepth(),
	}
}

// Registry indexes live ReachedStates and Obligations by Location, the
// structure a new pob or a new reached state is matched against (spec
// "stored in a set keyed per target location").
type Registry struct {
	reached     map[Location][]*ReachedState
	obligations map[Location][]*Obligation
}

func NewRegistry() *Registry {
	return &Registry{
		reached:     make(map[Location][]*ReachedState),
		obligations: make(map[Location][]*Obligation),
	}
}

// AddReached indexes r and returns every Propagation it forms against
// obligations already registered at its location.
func (reg *Registry) AddReached(r *ReachedState) []*Propagation {
	reg.reached[r.Location] = append(reg.reached[r.Location], r)
	var props []*Propagation
	for _, pob := range reg.obligations[r.Location] {
		props = append(props, &Propagation{Reached: r, Obligation: pob})
	}
	return props
}

// AddObligation indexes pob and returns every Propagation it forms against
// reached states already registered at its location (spec "each new pob
// is matched with every currently reached state at the same target").
func (reg *Registry) AddObligation(pob *Obligation) []*Propagation {
	reg.obligations[pob.Location] = append(reg.obligations[pob.Location], pob)
	var props []*Propagation
	for _, r := range reg.reached[pob.Location] {
		props = append(props, &Propagation{Reached: r, Obligation: pob})
	}
	return props
}

// RemoveObligations drops every obligation in obs from its location's
// index, used after DeleteSubtree cascades.
func (reg *Registry) RemoveObligations(obs []*Obligation) {
	dead := make(map[uint64]bool, len(obs))
	for _, o := range obs {
		dead[o.ID] = true
	}
	for loc, pobs := range reg.obligations {
		kept := pobs[:0]
		for _, p := range pobs {
			if !dead[p.ID] {
				kept = append(kept, p)
			}
		}
		reg.obligations[loc] = kept
	}
}

// RemoveReached drops stateID's reached entries from every location it was
// registered at.
func (reg *Registry) RemoveReached(stateID uint64) {
	for loc, rs := range reg.reached {
		kept := rs[:0]
		for _, r := range rs {
			if r.StateID != stateID {
				kept = append(kept, r)
			}
		}
		reg.reached[loc] = kept
	}
}
