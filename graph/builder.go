package graph

import (
	"strings"

	"go.uber.org/zap"

	"github.com/nicu/typemockr/entity"
	"github.com/nicu/typemockr/logger"
)

// anonymousPrefix marks synthesized names of anonymous index-signature types.
const anonymousPrefix = "__"

// Builder builds reference graphs from entity lists
type Builder struct {
	logger *zap.SugaredLogger
}

// NewBuilder creates a graph builder.
func NewBuilder(log *zap.SugaredLogger) *Builder {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Builder{logger: log.Named("graph.builder")}
}

// Build is shorthand for NewBuilder(nil).Build(entities).
func Build(entities []*entity.Entity) *Graph {
	return NewBuilder(nil).Build(entities)
}

// Build assigns every distinct entity name an index and records the
// references between them. Same-named entities share one node whose edges
// are the union of theirs.
func (b *Builder) Build(entities []*entity.Entity) *Graph {
	g := &Graph{index: make(map[string]int, len(entities))}

	for _, e := range entities {
		if e == nil {
			continue
		}
		if _, exists := g.index[e.Name]; !exists {
			g.index[e.Name] = len(g.names)
			g.names = append(g.names, e.Name)
		}
	}
	g.succ = make([][]int, len(g.names))
	g.self = make([]bool, len(g.names))
	seen := make([]map[int]bool, len(g.names))

	for _, e := range entities {
		if e == nil {
			continue
		}
		from := g.index[e.Name]
		if seen[from] == nil {
			seen[from] = make(map[int]bool)
		}
		for _, target := range referencedNames(e) {
			if target == "" || strings.HasPrefix(target, anonymousPrefix) || e.IsTypeParam(target) {
				g.Stats.Ignored++
				continue
			}
			to, ok := g.index[target]
			if !ok {
				g.Stats.Ignored++
				continue
			}
			if to == from {
				g.self[from] = true
			}
			if !seen[from][to] {
				seen[from][to] = true
				g.succ[from] = append(g.succ[from], to)
			}
		}
	}

	g.Stats.TotalNodes = len(g.names)
	for i := range g.succ {
		g.Stats.TotalEdges += len(g.succ[i])
		if g.self[i] {
			g.Stats.SelfEdges++
		}
	}

	b.logger.Debugw("Built reference graph",
		logger.FieldCount, g.Stats.TotalNodes,
		"edges", g.Stats.TotalEdges,
		"self_edges", g.Stats.SelfEdges,
		"ignored", g.Stats.Ignored)
	return g
}

// referencedNames collects every name an entity mentions: references in
// its value trees, base names and references inside base type arguments.
func referencedNames(e *entity.Entity) []string {
	var out []string
	for _, v := range e.Values() {
		out = append(out, entity.References(v)...)
	}
	for _, base := range e.Bases {
		out = append(out, base.Name)
		for _, arg := range base.TypeArgs {
			out = append(out, entity.References(arg)...)
		}
	}
	return out
}
