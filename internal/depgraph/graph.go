// Package depgraph builds dependency graphs over unit-type multisets and
// computes their critical paths.
package depgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/napolitain/buildorder/internal/models"
)

// EdgeKind distinguishes the two dependency flavors.
type EdgeKind int

const (
	// ProducerEdge orders a producer type before its product.
	ProducerEdge EdgeKind = iota
	// PreconditionEdge orders a required structure before the type that
	// needs it.
	PreconditionEdge
)

// Edge is one directed ordering constraint u -> v. Its weight is v's node
// cost, so a path length sums the costs of every node it passes through.
type Edge struct {
	From   string
	To     string
	Kind   EdgeKind
	Weight int
}

// Graph is the dependency graph of outstanding work. Nodes are the demanded
// types plus any dependency that still has to be created; types with a
// completed instance available impose no ordering and appear in the graph
// only through producer capacity. The graph is a pure function of its
// inputs; rebuild it whenever the multiset changes.
type Graph struct {
	counts map[string]int
	cost   map[string]int
	names  []string
	out    map[string][]Edge
	in     map[string][]Edge
}

// CycleError reports that the outstanding work can never be ordered: some
// types each require another to exist first.
type CycleError struct {
	Nodes []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle through %s", strings.Join(e.Nodes, ", "))
}

// Build constructs the graph for demanded instance counts given the
// completed instances already available. Dependencies that are neither
// available nor demanded are added as implied single builds. A node's cost
// is its build duration scaled by how many production batches its demand
// needs from the available-plus-demanded producer capacity. Build fails
// with a CycleError when the outstanding work cannot be ordered.
func Build(catalog *models.Catalog, demand, available map[string]int) (*Graph, error) {
	g := &Graph{
		counts: make(map[string]int),
		cost:   make(map[string]int),
		out:    make(map[string][]Edge),
		in:     make(map[string][]Edge),
	}

	// Close over dependencies that still have to be created, walking in
	// sorted order so node discovery is deterministic.
	pending := make([]string, 0, len(demand))
	for name, n := range demand {
		if n <= 0 {
			continue
		}
		if _, ok := catalog.Get(name); !ok {
			return nil, fmt.Errorf("unknown unit type %q", name)
		}
		g.counts[name] = n
		pending = append(pending, name)
	}
	sort.Strings(pending)

	for len(pending) > 0 {
		name := pending[0]
		pending = pending[1:]
		t := catalog.MustGet(name)
		for _, dep := range depsOf(t) {
			if available[dep] > 0 {
				continue
			}
			if _, seen := g.counts[dep]; !seen {
				g.counts[dep] = 1
				pending = append(pending, dep)
			}
		}
	}

	g.names = make([]string, 0, len(g.counts))
	for name := range g.counts {
		g.names = append(g.names, name)
	}
	sort.Strings(g.names)

	for _, name := range g.names {
		t := catalog.MustGet(name)
		g.cost[name] = t.BuildDuration * batches(g.counts[name], capacity(t.ProducedBy, g.counts, available))
		if t.ProducedBy != "" && available[t.ProducedBy] == 0 {
			g.addEdge(Edge{From: t.ProducedBy, To: name, Kind: ProducerEdge, Weight: g.cost[name]})
		}
		for _, req := range t.Requires {
			if available[req] > 0 {
				continue
			}
			g.addEdge(Edge{From: req, To: name, Kind: PreconditionEdge, Weight: g.cost[name]})
		}
	}

	if _, err := g.TopoSort(); err != nil {
		return nil, err
	}
	return g, nil
}

func depsOf(t models.UnitType) []string {
	var deps []string
	if t.ProducedBy != "" {
		deps = append(deps, t.ProducedBy)
	}
	deps = append(deps, t.Requires...)
	return deps
}

// capacity is the number of producer instances the demand can draw on:
// everything already built plus everything the multiset will build.
func capacity(producer string, counts, available map[string]int) int {
	if producer == "" {
		return 1
	}
	return available[producer] + counts[producer]
}

// batches is how many full production rounds the demand needs.
func batches(n, cap int) int {
	if cap < 1 {
		cap = 1
	}
	return (n + cap - 1) / cap
}

func (g *Graph) addEdge(e Edge) {
	g.out[e.From] = append(g.out[e.From], e)
	g.in[e.To] = append(g.in[e.To], e)
}

// Names returns the node names in sorted order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Count returns the demanded count of name, including implied builds.
func (g *Graph) Count(name string) int {
	return g.counts[name]
}

// Cost returns the batching-scaled build cost of name.
func (g *Graph) Cost(name string) int {
	return g.cost[name]
}

// TopoSort returns a topological order of the nodes using Kahn's algorithm.
// Ties are broken alphabetically so the order is deterministic. A non-empty
// remainder means a cycle; the implicated nodes are reported.
func (g *Graph) TopoSort() ([]string, error) {
	indegree := make(map[string]int, len(g.names))
	for _, name := range g.names {
		indegree[name] = len(g.in[name])
	}

	var ready []string
	for _, name := range g.names {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}

	order := make([]string, 0, len(g.names))
	for len(ready) > 0 {
		sort.Strings(ready)
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)
		for _, e := range g.out[name] {
			indegree[e.To]--
			if indegree[e.To] == 0 {
				ready = append(ready, e.To)
			}
		}
	}

	if len(order) != len(g.names) {
		var cyclic []string
		for _, name := range g.names {
			if indegree[name] > 0 {
				cyclic = append(cyclic, name)
			}
		}
		return nil, &CycleError{Nodes: cyclic}
	}
	return order, nil
}
