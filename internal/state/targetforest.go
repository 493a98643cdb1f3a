package state

// TargetForest tracks which reachability targets (spec §4.10/§4.12) are
// still active for a state and the History of targets it has already
// reached. It prunes a target from Active once StepTo reports it reached,
// and "re-roots" by recording the step in History so later distance/bidir
// computations see the updated prefix (spec §4.8 "The target forest prunes
// itself as targets are satisfied and re-roots on stepTo").
type TargetForest struct {
	Active  map[string]bool
	History *History
}

// NewTargetForest returns a forest with every name in targets active and an
// empty History.
func NewTargetForest(targets []string) *TargetForest {
	active := make(map[string]bool, len(targets))
	for _, t := range targets {
		active[t] = true
	}
	return &TargetForest{Active: active, History: EmptyHistory}
}

// Clone returns an independent copy, since TargetForest.Active is mutated
// in place by StepTo and must not be shared across a Branch.
func (tf *TargetForest) Clone() *TargetForest {
	active := make(map[string]bool, len(tf.Active))
	for k, v := range tf.Active {
		active[k] = v
	}
	return &TargetForest{Active: active, History: tf.History}
}

// StepTo records that target was reached: it is pruned from Active (once
// satisfied, a target need not be tracked further for this state) and
// appended to History.
func (tf *TargetForest) StepTo(target string) {
	delete(tf.Active, target)
	tf.History = tf.History.Extend(target)
}

// IsActive reports whether target is still being tracked.
func (tf *TargetForest) IsActive(target string) bool {
	return tf.Active[target]
}

// Done reports whether every target has been satisfied.
func (tf *TargetForest) Done() bool {
	return len(tf.Active) == 0
}
