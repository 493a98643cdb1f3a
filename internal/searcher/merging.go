package searcher

import "symexec/internal/state"

// CloseMergePoint reports whether s has just reached a program point where
// it should wait to be merged with sibling states, and which merge group
// it belongs to.
type CloseMergePoint func(s *state.ExecutionState) (group string, atPoint bool)

// Merging postpones any state that reaches a shared close_merge point,
// holding it in its mergeGroup until siblings catch up there, and
// prioritizes groups in which two or more postponed states wait (spec §4.11
// "Merging: maintains mergeGroups, postpones merged states, prioritizes
// candidates that all reached a common close_merge point").
type Merging struct {
	base       Searcher
	closePoint CloseMergePoint

	groups    map[string][]*state.ExecutionState
	postponed map[uint64]*state.ExecutionState
}

func NewMerging(base Searcher, closePoint CloseMergePoint) *Merging {
	return &Merging{
		base:       base,
		closePoint: closePoint,
		groups:     make(map[string][]*state.ExecutionState),
		postponed:  make(map[uint64]*state.ExecutionState),
	}
}

func (m *Merging) SelectState() (*state.ExecutionState, error) {
	for gid, members := range m.groups {
		if len(members) < 2 {
			continue
		}
		// Two or more members wait at this point: release one back into
		// circulation so the engine can merge it with its siblings.
		s := members[0]
		m.groups[gid] = members[1:]
		delete(m.postponed, s.ID)
		m.base.Update(nil, []*state.ExecutionState{s}, nil)
		return s, nil
	}
	if !m.base.Empty() {
		return m.base.SelectState()
	}
	// Every live state is postponed waiting on a partner: surface one of
	// them (whichever map iteration yields first) rather than reporting
	// ErrEmpty, since it is still live.
	for _, s := range m.postponed {
		return s, nil
	}
	return nil, ErrEmpty
}

func (m *Merging) Update(current *state.ExecutionState, added, removed []*state.ExecutionState) {
	m.base.Update(current, added, removed)

	for _, s := range removed {
		delete(m.postponed, s.ID)
		for gid, members := range m.groups {
			m.groups[gid] = removeByID(members, []*state.ExecutionState{s})
		}
	}

	for _, s := range added {
		m.maybePostpone(s)
	}
	if current != nil && !containsID(removed, current.ID) {
		m.maybePostpone(current)
	}
}

func (m *Merging) maybePostpone(s *state.ExecutionState) {
	if m.closePoint == nil {
		return
	}
	gid, atPoint := m.closePoint(s)
	if !atPoint {
		return
	}
	if _, already := m.postponed[s.ID]; already {
		return
	}
	m.postponed[s.ID] = s
	m.groups[gid] = append(m.groups[gid], s)
	m.base.Update(nil, nil, []*state.ExecutionState{s})
}

func (m *Merging) Empty() bool {
	return m.base.Empty() && len(m.postponed) == 0
}
