package graph

import (
	"go.uber.org/zap"

	"github.com/nicu/typemockr/logger"
)

// Analyzer answers recursion questions over one Graph.
//
// SCCs are computed eagerly at construction; reachability sets are computed
// on first use per component and cached for the lifetime of the analyzer.
// An Analyzer is not safe for concurrent use.
type Analyzer struct {
	g      *Graph
	logger *zap.SugaredLogger

	comp       []int   // node -> component id
	components [][]int // component id -> member nodes, in discovery order

	reach []bitset // component id -> nodes reachable via at least one edge
}

// NewAnalyzer runs Tarjan's algorithm over g.
func NewAnalyzer(g *Graph, log *zap.SugaredLogger) *Analyzer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	a := &Analyzer{g: g, logger: log.Named("graph.analyzer")}
	a.tarjan()
	a.reach = make([]bitset, len(a.components))

	cyclic := 0
	for c := range a.components {
		if a.cyclicComponent(c) {
			cyclic++
		}
	}
	a.logger.Debugw("Computed strongly connected components",
		logger.FieldCount, len(a.components),
		"cyclic", cyclic)
	return a
}

// tarjan computes strongly connected components in O(V+E). Components are
// numbered in completion order, so every component reachable from c has an
// id lower than c.
func (a *Analyzer) tarjan() {
	n := a.g.Len()
	a.comp = make([]int, n)
	indexOf := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range indexOf {
		indexOf[i] = -1
	}
	var stack []int
	next := 0

	var strongconnect func(v int)
	strongconnect = func(v int) {
		indexOf[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range a.g.succ[v] {
			if indexOf[w] < 0 {
				strongconnect(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], indexOf[w])
			}
		}

		if low[v] == indexOf[v] {
			id := len(a.components)
			var members []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				a.comp[w] = id
				members = append(members, w)
				if w == v {
					break
				}
			}
			// members in discovery order
			for i, j := 0, len(members)-1; i < j; i, j = i+1, j-1 {
				members[i], members[j] = members[j], members[i]
			}
			a.components = append(a.components, members)
		}
	}

	for v := 0; v < n; v++ {
		if indexOf[v] < 0 {
			strongconnect(v)
		}
	}
}

func (a *Analyzer) cyclicComponent(c int) bool {
	members := a.components[c]
	return len(members) > 1 || a.g.self[members[0]]
}

// Components returns the SCC partition as entity names.
func (a *Analyzer) Components() [][]string {
	out := make([][]string, len(a.components))
	for c, members := range a.components {
		out[c] = a.namesOf(members)
	}
	return out
}

// ComponentOf returns the SCC id of name, or -1 when name is not a node.
func (a *Analyzer) ComponentOf(name string) int {
	i, ok := a.g.index[name]
	if !ok {
		return -1
	}
	return a.comp[i]
}

// Group returns the recursion group of name: its SCC when that has more than
// one member, {name} when name references itself, nil otherwise.
func (a *Analyzer) Group(name string) []string {
	i, ok := a.g.index[name]
	if !ok || !a.cyclicComponent(a.comp[i]) {
		return nil
	}
	return a.namesOf(a.components[a.comp[i]])
}

// HasRecursion reports whether name has a recursion group.
func (a *Analyzer) HasRecursion(name string) bool {
	i, ok := a.g.index[name]
	return ok && a.cyclicComponent(a.comp[i])
}

// Reachable returns every name reachable from name through one or more
// edges, in index order. name itself is included only when it lies on a cycle.
func (a *Analyzer) Reachable(name string) []string {
	i, ok := a.g.index[name]
	if !ok {
		return nil
	}
	var out []string
	a.reachFrom(a.comp[i]).each(func(j int) {
		out = append(out, a.g.names[j])
	})
	return out
}

// reachFrom returns the memoized reachable set of component c.
func (a *Analyzer) reachFrom(c int) bitset {
	if r := a.reach[c]; r != nil {
		return r
	}
	r := newBitset(a.g.Len())
	members := a.components[c]
	if a.cyclicComponent(c) {
		for _, m := range members {
			r.set(m)
		}
	}
	for _, m := range members {
		for _, s := range a.g.succ[m] {
			if sc := a.comp[s]; sc != c {
				r.set(s)
				r.union(a.reachFrom(sc))
			}
		}
	}
	a.reach[c] = r
	return r
}

// groupSet returns the recursion group of node i as a bitset, or nil.
func (a *Analyzer) groupSet(i int) bitset {
	c := a.comp[i]
	if !a.cyclicComponent(c) {
		return nil
	}
	s := newBitset(a.g.Len())
	for _, m := range a.components[c] {
		s.set(m)
	}
	return s
}

func (a *Analyzer) namesOf(members []int) []string {
	out := make([]string, len(members))
	for k, m := range members {
		out[k] = a.g.names[m]
	}
	return out
}
