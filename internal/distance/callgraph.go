package distance

// callees returns every function name any block in fg calls, deduplicated.
func (fg *FunctionGraph) callees() []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range fg.Blocks {
		for _, c := range b.Calls {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// callDistances runs a forward BFS over the call graph starting at from,
// giving every function the number of call hops needed to reach it (spec
// §4.10 "forward ... distances ... over the call graph").
func (g *ProgramGraph) callDistances(from string) map[string]int {
	dist := map[string]int{from: 0}
	if _, ok := g.Functions[from]; !ok {
		return dist
	}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		fg, ok := g.Functions[cur]
		if !ok {
			continue
		}
		for _, callee := range fg.callees() {
			if _, seen := dist[callee]; seen {
				continue
			}
			dist[callee] = dist[cur] + 1
			queue = append(queue, callee)
		}
	}
	return dist
}

// CallDistance returns the number of call-graph hops from -> to,
// memoized per source function on the owning ProgramGraph.
func (g *ProgramGraph) CallDistance(from, to string) (int, bool) {
	table, ok := g.callDistCache[from]
	if !ok {
		table = g.callDistances(from)
		g.callDistCache[from] = table
	}
	d, ok := table[to]
	return d, ok
}
