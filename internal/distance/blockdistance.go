package distance

// blockDistances runs a single reverse BFS from target over fg's block
// graph, giving every block the number of forward CFG edges it needs to
// traverse to reach target (spec §4.10 "backward distances over basic
// blocks"). A block absent from the result is unreachable from (i.e.
// cannot reach) target.
func (fg *FunctionGraph) blockDistances(target string) map[string]int {
	dist := map[string]int{target: 0}
	if _, ok := fg.Blocks[target]; !ok {
		return dist
	}

	predecessors := make(map[string][]string, len(fg.Blocks))
	for _, b := range fg.Blocks {
		for _, succ := range b.Successors {
			predecessors[succ] = append(predecessors[succ], b.Name)
		}
	}

	queue := []string{target}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, pred := range predecessors[cur] {
			if _, seen := dist[pred]; seen {
				continue
			}
			dist[pred] = dist[cur] + 1
			queue = append(queue, pred)
		}
	}
	return dist
}

// BlockDistance returns the number of CFG hops from block to target within
// this function, memoized per (function, target) pair on the owning
// ProgramGraph.
func (g *ProgramGraph) BlockDistance(function, block, target string) (int, bool) {
	fg, ok := g.Functions[function]
	if !ok {
		return 0, false
	}
	key := blockDistKey{function: function, target: target}
	table, ok := g.blockDistCache[key]
	if !ok {
		table = fg.blockDistances(target)
		g.blockDistCache[key] = table
	}
	d, ok := table[block]
	return d, ok
}
