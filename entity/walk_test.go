package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferences(t *testing.T) {
	v := &Union{Members: []Value{
		&Reference{Target: "A", TypeArgs: []Value{&Reference{Target: "B"}}},
		&Array{Element: &Object{Reference: "C", Properties: []Property{
			{Name: "d", Value: &Reference{Target: "D"}},
		}}},
		&Primitive{Kind: PrimitiveString},
		&Conditional{True: &Reference{Target: "E"}, False: &Reference{Target: "A"}},
	}}
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "A"}, References(v))
}

func TestWalkSkipsChildren(t *testing.T) {
	v := &Array{Element: &Array{Element: &Reference{Target: "X"}}}
	var kinds []string
	Walk(v, func(n Value) bool {
		kinds = append(kinds, KindOf(n))
		_, isArray := n.(*Array)
		return !isArray || len(kinds) == 1
	})
	assert.Equal(t, []string{"array", "array"}, kinds)
}

func TestEntityValues(t *testing.T) {
	inst := &Entity{Kind: KindInstance, Properties: []Property{
		{Name: "a", Value: &Primitive{Kind: PrimitiveString}},
		{Name: "b"},
	}}
	assert.Len(t, inst.Values(), 1)

	alias := &Entity{Kind: KindAlias, Value: &Reference{Target: "X"}}
	assert.Len(t, alias.Values(), 1)

	placeholder := &Entity{Kind: KindPlaceholder}
	assert.Empty(t, placeholder.Values())
}

func TestLocation(t *testing.T) {
	a := &Location{File: "a.ts", Line: 1}
	assert.True(t, a.Same(&Location{File: "a.ts", Line: 1}))
	assert.False(t, a.Same(&Location{File: "a.ts", Line: 2}))
	assert.False(t, a.Same(nil))
	assert.Equal(t, "a.ts", (&Location{File: "a.ts"}).String())
	var nilLoc *Location
	assert.Equal(t, "", nilLoc.String())
}

func TestParsePrimitiveKind(t *testing.T) {
	k, ok := ParsePrimitiveKind(" BigInt ")
	assert.True(t, ok)
	assert.Equal(t, PrimitiveBigInt, k)

	_, ok = ParsePrimitiveKind("float")
	assert.False(t, ok)
}
