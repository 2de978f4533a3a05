package depgraph

// Path is a critical path through the graph: the node chain and its total
// weighted length in ticks.
type Path struct {
	Nodes  []string
	Length int
}

// Contains reports whether name lies on the path.
func (p Path) Contains(name string) bool {
	for _, n := range p.Nodes {
		if n == name {
			return true
		}
	}
	return false
}

// CriticalPath returns the longest weighted path through the graph. A node
// without ordering predecessors starts at its own batching-scaled cost;
// every other node's cost is carried by its incoming edges. Ties are broken
// alphabetically so repeated calls on the same graph agree.
//
// The graph is known acyclic once Build succeeds, so the forward pass over
// the topological order cannot fail here.
func (g *Graph) CriticalPath() Path {
	order, err := g.TopoSort()
	if err != nil {
		panic("BUG: critical path on cyclic graph: " + err.Error())
	}

	dist := make(map[string]int, len(order))
	prev := make(map[string]string, len(order))
	for _, name := range order {
		if len(g.in[name]) == 0 {
			dist[name] = g.cost[name]
		}
	}

	for _, name := range order {
		for _, e := range g.out[name] {
			d := dist[name] + e.Weight
			if d > dist[e.To] || (d == dist[e.To] && better(name, prev[e.To])) {
				dist[e.To] = d
				prev[e.To] = name
			}
		}
	}

	var end string
	best := -1
	for _, name := range order {
		if dist[name] > best || (dist[name] == best && better(name, end)) {
			best = dist[name]
			end = name
		}
	}
	if end == "" {
		return Path{}
	}

	var nodes []string
	for at := end; at != ""; at = prev[at] {
		nodes = append([]string{at}, nodes...)
	}
	return Path{Nodes: nodes, Length: best}
}

func better(a, b string) bool {
	return b == "" || a < b
}
