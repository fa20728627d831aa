// Package inherit resolves base-type references and aggregates inherited
// properties across possibly cyclic base graphs.
package inherit

import (
	"go.uber.org/zap"

	"github.com/nicu/typemockr/entity"
	"github.com/nicu/typemockr/logger"
)

// Resolver looks up base entities by name and location.
type Resolver struct {
	byName map[string][]*entity.Entity
	logger *zap.SugaredLogger
}

// InheritedProperty is a property reached through a base chain.
type InheritedProperty struct {
	entity.Property

	// Owner is the base entity that declares the property.
	Owner *entity.Entity
}

// Base is one direct base of an entity after resolution.
type Base struct {
	Edge entity.InheritanceEdge

	// Entity is nil when the base name is not declared anywhere.
	Entity *entity.Entity

	// Properties holds the inherited properties attributed to this base:
	// its own and those of its ancestors, minus names claimed by the derived
	// entity or by an earlier base.
	Properties []InheritedProperty

	// Cyclic is set when the base's chain leads back to the derived entity.
	Cyclic bool
}

// NewResolver indexes entities by name, keeping declaration order.
func NewResolver(entities []*entity.Entity, log *zap.SugaredLogger) *Resolver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	r := &Resolver{
		byName: make(map[string][]*entity.Entity, len(entities)),
		logger: log.Named("inherit"),
	}
	for _, e := range entities {
		if e != nil {
			r.byName[e.Name] = append(r.byName[e.Name], e)
		}
	}
	return r
}

// ResolveBase finds the entity a base reference points at. Candidates are
// tried in order: exact name and location, same name in fromFile, first
// declared entity with the name. Returns nil when the name is unknown.
func (r *Resolver) ResolveBase(edge entity.InheritanceEdge, fromFile string) *entity.Entity {
	candidates := r.byName[edge.Name]
	if len(candidates) == 0 {
		return nil
	}
	if edge.Location != nil {
		for _, c := range candidates {
			if edge.Location.Same(c.Location) {
				return c
			}
		}
	}
	if fromFile != "" {
		for _, c := range candidates {
			if c.File() == fromFile {
				return c
			}
		}
	}
	return candidates[0]
}

// CollectTransitive walks the chain starting at edge depth-first. Each
// visited base contributes its own properties first, skipping names already
// collected, then its bases are walked. A base revisited by name ends that
// branch, so cyclic chains return what was collected before the cycle closed.
func (r *Resolver) CollectTransitive(edge entity.InheritanceEdge, fromFile string) []InheritedProperty {
	var out []InheritedProperty
	r.collect(edge, fromFile, map[string]bool{}, map[string]bool{}, &out)
	return out
}

func (r *Resolver) collect(edge entity.InheritanceEdge, fromFile string, seenBases, seenProps map[string]bool, out *[]InheritedProperty) {
	base := r.ResolveBase(edge, fromFile)
	if base == nil {
		r.logger.Debugw("Unresolvable base",
			logger.FieldBase, edge.Name,
			logger.FieldFile, fromFile)
		return
	}
	if seenBases[base.Name] {
		return
	}
	seenBases[base.Name] = true

	for _, p := range base.Properties {
		if seenProps[p.Name] {
			continue
		}
		seenProps[p.Name] = true
		*out = append(*out, InheritedProperty{Property: p, Owner: base})
	}
	for _, next := range base.Bases {
		r.collect(next, base.File(), seenBases, seenProps, out)
	}
}

type pending struct {
	edge     entity.InheritanceEdge
	fromFile string
	root     int
}

// Inherited resolves every direct base of e and distributes the inherited
// properties among them. The walk is nearest-first across all bases and
// shares one seen set seeded with e's name and own property names, so a
// shared ancestor contributes once and closer declarations win.
func (r *Resolver) Inherited(e *entity.Entity) []Base {
	if len(e.Bases) == 0 {
		return nil
	}
	bases := make([]Base, len(e.Bases))
	seenBases := map[string]bool{e.Name: true}
	seenProps := make(map[string]bool, len(e.Properties))
	for _, p := range e.Properties {
		seenProps[p.Name] = true
	}

	queue := make([]pending, 0, len(e.Bases))
	for i, edge := range e.Bases {
		bases[i].Edge = edge
		bases[i].Entity = r.ResolveBase(edge, e.File())
		bases[i].Cyclic = r.leadsTo(bases[i].Entity, e.Name, map[string]bool{})
		queue = append(queue, pending{edge: edge, fromFile: e.File(), root: i})
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		base := r.ResolveBase(item.edge, item.fromFile)
		if base == nil {
			r.logger.Debugw("Unresolvable base",
				logger.FieldEntity, e.Name,
				logger.FieldBase, item.edge.Name)
			continue
		}
		if seenBases[base.Name] {
			continue
		}
		seenBases[base.Name] = true

		for _, p := range base.Properties {
			if seenProps[p.Name] {
				continue
			}
			seenProps[p.Name] = true
			bases[item.root].Properties = append(bases[item.root].Properties, InheritedProperty{Property: p, Owner: base})
		}
		for _, next := range base.Bases {
			queue = append(queue, pending{edge: next, fromFile: base.File(), root: item.root})
		}
	}
	return bases
}

// leadsTo reports whether name is base or one of its transitive bases.
func (r *Resolver) leadsTo(base *entity.Entity, name string, visited map[string]bool) bool {
	if base == nil {
		return false
	}
	if base.Name == name {
		return true
	}
	if visited[base.Name] {
		return false
	}
	visited[base.Name] = true
	for _, next := range base.Bases {
		if r.leadsTo(r.ResolveBase(next, base.File()), name, visited) {
			return true
		}
	}
	return false
}

// Flatten returns the inherited properties of all bases in order.
func Flatten(bases []Base) []InheritedProperty {
	var out []InheritedProperty
	for _, b := range bases {
		out = append(out, b.Properties...)
	}
	return out
}
