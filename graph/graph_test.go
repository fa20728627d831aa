package graph

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nicu/typemockr/entity"
)

func ref(target string) *entity.Reference { return &entity.Reference{Target: target} }

func str() *entity.Primitive { return &entity.Primitive{Kind: entity.PrimitiveString} }

func prop(name string, v entity.Value) entity.Property {
	return entity.Property{Name: name, Value: v}
}

func instance(name string, props ...entity.Property) *entity.Entity {
	return &entity.Entity{Name: name, Kind: entity.KindInstance, Properties: props}
}

func alias(name string, v entity.Value) *entity.Entity {
	return &entity.Entity{Name: name, Kind: entity.KindAlias, Value: v}
}

func TestBuildAdjacency(t *testing.T) {
	entities := []*entity.Entity{
		instance("User",
			prop("id", str()),
			prop("friends", &entity.Array{Element: ref("User")}),
			prop("address", ref("Address")),
			prop("also", ref("Address")),
			prop("meta", ref("__index0")),
			prop("external", ref("Missing")),
		),
		instance("Address", prop("street", str())),
		{Name: "Admin", Kind: entity.KindInstance, Bases: []entity.InheritanceEdge{
			{Name: "User"},
			{Name: "Box", TypeArgs: []entity.Value{ref("Address")}},
		}},
		{Name: "Box", Kind: entity.KindInstance, TypeParams: []string{"T"},
			Properties: []entity.Property{prop("item", ref("T"))}},
		alias("T", str()),
	}

	g := NewBuilder(zaptest.NewLogger(t).Sugar()).Build(entities)

	assert.Equal(t, []string{"User", "Address", "Admin", "Box", "T"}, g.Names())
	assert.Equal(t, []string{"User", "Address"}, g.Adjacency("User"))
	assert.Equal(t, []string{"User", "Box", "Address"}, g.Adjacency("Admin"))
	assert.Empty(t, g.Adjacency("Box"), "type parameters are not references")
	assert.Empty(t, g.Adjacency("Missing"))

	assert.True(t, g.HasSelfEdge("User"))
	assert.False(t, g.HasSelfEdge("Address"))

	assert.Equal(t, 5, g.Stats.TotalNodes)
	assert.Equal(t, 5, g.Stats.TotalEdges)
	assert.Equal(t, 1, g.Stats.SelfEdges)
	assert.Equal(t, 3, g.Stats.Ignored)
}

func TestBuildDuplicateNamesShareNode(t *testing.T) {
	g := Build([]*entity.Entity{
		instance("X", prop("a", ref("A"))),
		{Name: "X", Kind: entity.KindConstant, Value: &entity.Constant{Literal: "x"}},
		alias("X", ref("B")),
		instance("A"),
		instance("B"),
	})
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"A", "B"}, g.Adjacency("X"))
}

func TestBuildObjectReference(t *testing.T) {
	g := Build([]*entity.Entity{
		instance("Tree", prop("left", &entity.Object{Reference: "Tree"})),
	})
	assert.True(t, g.HasSelfEdge("Tree"))
}

func TestComponentsAndGroups(t *testing.T) {
	// A <-> B, B -> C, C -> C, D -> A, E isolated
	entities := []*entity.Entity{
		instance("A", prop("b", ref("B"))),
		instance("B", prop("a", ref("A")), prop("c", ref("C"))),
		instance("C", prop("self", ref("C"))),
		instance("D", prop("a", ref("A"))),
		instance("E", prop("s", str())),
	}
	a := NewAnalyzer(Build(entities), zaptest.NewLogger(t).Sugar())

	assert.ElementsMatch(t, []string{"A", "B"}, a.Group("A"))
	assert.ElementsMatch(t, []string{"A", "B"}, a.Group("B"))
	assert.Equal(t, []string{"C"}, a.Group("C"))
	assert.Nil(t, a.Group("D"))
	assert.Nil(t, a.Group("E"))
	assert.Nil(t, a.Group("Nope"))

	assert.True(t, a.HasRecursion("A"))
	assert.True(t, a.HasRecursion("C"))
	assert.False(t, a.HasRecursion("D"))
	assert.False(t, a.HasRecursion("E"))

	assert.Equal(t, a.ComponentOf("A"), a.ComponentOf("B"))
	assert.NotEqual(t, a.ComponentOf("A"), a.ComponentOf("D"))
	assert.Equal(t, -1, a.ComponentOf("Nope"))

	assert.Equal(t, []string{"A", "B", "C"}, a.Reachable("D"))
	assert.Equal(t, []string{"A", "B", "C"}, a.Reachable("A"))
	assert.Equal(t, []string{"C"}, a.Reachable("C"))
	assert.Empty(t, a.Reachable("E"), "acyclic node is not in its own reachable set")
	assert.Nil(t, a.Reachable("Nope"))
}

// bruteReach computes reachability (one or more edges) by DFS from every node.
func bruteReach(g *Graph) [][]bool {
	n := g.Len()
	out := make([][]bool, n)
	for s := 0; s < n; s++ {
		out[s] = make([]bool, n)
		stack := append([]int(nil), g.succ[s]...)
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if out[s][v] {
				continue
			}
			out[s][v] = true
			stack = append(stack, g.succ[v]...)
		}
	}
	return out
}

func TestSCCPartitionMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 25; round++ {
		n := 2 + rng.Intn(14)
		entities := make([]*entity.Entity, n)
		for i := 0; i < n; i++ {
			var props []entity.Property
			for j := 0; j < n; j++ {
				if rng.Intn(5) == 0 {
					props = append(props, prop(fmt.Sprintf("p%d", j), ref(fmt.Sprintf("N%d", j))))
				}
			}
			entities[i] = instance(fmt.Sprintf("N%d", i), props...)
		}
		g := Build(entities)
		a := NewAnalyzer(g, nil)
		reach := bruteReach(g)

		// complete and disjoint
		seen := map[string]int{}
		for _, comp := range a.Components() {
			require.NotEmpty(t, comp)
			for _, name := range comp {
				seen[name]++
			}
		}
		require.Len(t, seen, n, "round %d", round)
		for name, count := range seen {
			require.Equal(t, 1, count, "round %d: %s appears in %d components", round, name, count)
		}

		for u := 0; u < n; u++ {
			for v := 0; v < n; v++ {
				mutual := u == v || (reach[u][v] && reach[v][u])
				same := a.comp[u] == a.comp[v]
				require.Equal(t, mutual, same, "round %d: N%d/N%d", round, u, v)
			}

			var want []string
			for v := 0; v < n; v++ {
				if reach[u][v] {
					want = append(want, g.Name(v))
				}
			}
			got := a.Reachable(g.Name(u))
			sort.Strings(want)
			sort.Strings(got)
			require.Equal(t, want, got, "round %d: reachable from N%d", round, u)
			require.Equal(t, reach[u][u], a.HasRecursion(g.Name(u)), "round %d: N%d", round, u)
		}
	}
}
