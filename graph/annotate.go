package graph

import (
	"github.com/nicu/typemockr/entity"
	"github.com/nicu/typemockr/logger"
)

// Annotate returns a copy of e whose value nodes carry RecursiveEdge flags.
//
// A reference is flagged when its target is in e's recursion group or can
// reach a member of it. Composite nodes are flagged when any child is, so
// every node on a path back to e is marked. e itself is not modified.
func (a *Analyzer) Annotate(e *entity.Entity) *entity.Entity {
	out := *e
	an := annotator{a: a, owner: e}
	if i, ok := a.g.index[e.Name]; ok {
		an.group = a.groupSet(i)
	}
	out.Properties = cloneProperties(e.Properties, an.value)
	out.Value = an.value(e.Value)
	if len(e.Bases) > 0 {
		out.Bases = make([]entity.InheritanceEdge, len(e.Bases))
		for k, base := range e.Bases {
			out.Bases[k] = base
			out.Bases[k].TypeArgs = an.values(base.TypeArgs)
		}
	}

	if an.flagged > 0 {
		a.logger.Debugw("Annotated recursive entity",
			logger.FieldEntity, e.Name,
			logger.FieldCount, an.flagged)
	}
	return &out
}

type annotator struct {
	a       *Analyzer
	owner   *entity.Entity
	group   bitset
	flagged int
}

// recursiveTarget reports whether a reference to name leads back to the owner.
func (an *annotator) recursiveTarget(name string) bool {
	if an.group == nil || an.owner.IsTypeParam(name) {
		return false
	}
	t, ok := an.a.g.index[name]
	if !ok {
		return false
	}
	return an.group.has(t) || an.a.reachFrom(an.a.comp[t]).intersects(an.group)
}

func (an *annotator) values(vs []entity.Value) []entity.Value {
	if vs == nil {
		return nil
	}
	out := make([]entity.Value, len(vs))
	for k, v := range vs {
		out[k] = an.value(v)
	}
	return out
}

func anyRecursive(vs ...entity.Value) bool {
	for _, v := range vs {
		if v != nil && v.Recursive() {
			return true
		}
	}
	return false
}

// value clones v bottom-up, computing each node's flag from its own
// reference target and its children.
func (an *annotator) value(v entity.Value) entity.Value {
	var out entity.Value
	switch n := v.(type) {
	case nil:
		return nil
	case *entity.Primitive:
		c := *n
		c.RecursiveEdge = false
		out = &c
	case *entity.Constant:
		c := *n
		c.RecursiveEdge = false
		out = &c
	case *entity.Enum:
		c := *n
		c.RecursiveEdge = false
		out = &c
	case *entity.Function:
		out = &entity.Function{}
	case *entity.Unknown:
		out = &entity.Unknown{Kind: n.Kind}
	case *entity.Union:
		c := &entity.Union{Members: an.values(n.Members)}
		c.RecursiveEdge = anyRecursive(c.Members...)
		out = c
	case *entity.Intersection:
		c := &entity.Intersection{Members: an.values(n.Members)}
		c.RecursiveEdge = anyRecursive(c.Members...)
		out = c
	case *entity.Array:
		c := &entity.Array{Element: an.value(n.Element)}
		c.RecursiveEdge = anyRecursive(c.Element)
		out = c
	case *entity.Tuple:
		c := &entity.Tuple{Elements: an.values(n.Elements)}
		c.RecursiveEdge = anyRecursive(c.Elements...)
		out = c
	case *entity.Object:
		c := &entity.Object{Reference: n.Reference, Properties: cloneProperties(n.Properties, an.value)}
		c.RecursiveEdge = n.Reference != "" && an.recursiveTarget(n.Reference)
		for _, p := range c.Properties {
			c.RecursiveEdge = c.RecursiveEdge || p.RecursiveEdge
		}
		out = c
	case *entity.Record:
		c := &entity.Record{Key: an.value(n.Key), Value: an.value(n.Value)}
		c.RecursiveEdge = anyRecursive(c.Key, c.Value)
		out = c
	case *entity.IndexSignature:
		c := &entity.IndexSignature{Key: an.value(n.Key), Value: an.value(n.Value)}
		c.RecursiveEdge = anyRecursive(c.Key, c.Value)
		out = c
	case *entity.Promise:
		c := &entity.Promise{Value: an.value(n.Value)}
		c.RecursiveEdge = anyRecursive(c.Value)
		out = c
	case *entity.Reference:
		c := &entity.Reference{Target: n.Target, TypeArgs: an.values(n.TypeArgs)}
		c.RecursiveEdge = an.recursiveTarget(n.Target) || anyRecursive(c.TypeArgs...)
		out = c
	case *entity.TypeOperator:
		c := &entity.TypeOperator{Operator: n.Operator, Value: an.value(n.Value)}
		c.RecursiveEdge = anyRecursive(c.Value)
		out = c
	case *entity.Mapped:
		c := &entity.Mapped{Key: an.value(n.Key), Value: an.value(n.Value)}
		c.RecursiveEdge = anyRecursive(c.Key, c.Value)
		out = c
	case *entity.Conditional:
		c := &entity.Conditional{
			Check:   an.value(n.Check),
			Extends: an.value(n.Extends),
			True:    an.value(n.True),
			False:   an.value(n.False),
		}
		c.RecursiveEdge = anyRecursive(c.Check, c.Extends, c.True, c.False)
		out = c
	default:
		return v
	}
	if out.Recursive() {
		an.flagged++
	}
	return out
}

// cloneProperties copies props, mapping each value through fn. A nil
// result from fn keeps the original value.
func cloneProperties(props []entity.Property, fn func(entity.Value) entity.Value) []entity.Property {
	if props == nil {
		return nil
	}
	out := make([]entity.Property, len(props))
	for k, p := range props {
		out[k] = p
		if v := fn(p.Value); v != nil {
			out[k].Value = v
		}
		out[k].RecursiveEdge = out[k].Value != nil && out[k].Value.Recursive()
	}
	return out
}
