// Package graph builds the type reference graph of a set of entities and
// answers recursion questions about it.
//
// Nodes are entity names mapped to dense integer indices; every per-node
// cache (SCC ids, reachability sets) is a slice indexed the same way.
package graph

// Graph is the reference graph of one entity set.
//
// An edge A→B exists iff A's value tree or base list references B and B is
// a declared entity.
type Graph struct {
	names []string
	index map[string]int
	succ  [][]int
	self  []bool

	Stats Stats
}

// Stats provides graph statistics
type Stats struct {
	TotalNodes int `json:"total_nodes"`
	TotalEdges int `json:"total_edges"`
	SelfEdges  int `json:"self_edges"`
	Ignored    int `json:"ignored_references,omitempty"` // anonymous or undeclared targets
}

// Len returns the number of distinct entity names.
func (g *Graph) Len() int { return len(g.names) }

// Names returns node names in index order (first appearance).
func (g *Graph) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Index returns the node index of name.
func (g *Graph) Index(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

// Name returns the entity name of node i.
func (g *Graph) Name(i int) string { return g.names[i] }

// Has reports whether name is a node.
func (g *Graph) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Adjacency returns the names that name references, in first-reference order.
func (g *Graph) Adjacency(name string) []string {
	i, ok := g.index[name]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g.succ[i]))
	for _, j := range g.succ[i] {
		out = append(out, g.names[j])
	}
	return out
}

// HasSelfEdge reports whether name references itself directly.
func (g *Graph) HasSelfEdge(name string) bool {
	i, ok := g.index[name]
	return ok && g.self[i]
}
