// Package entity defines the declared-type graph that factories are generated from.
//
// An Entity is one declared type as handed over by an external type extractor.
// Its shape is described by a tree of Value nodes (see value.go). Entities are
// read-only once decoded; analysis passes return annotated copies instead of
// mutating them.
package entity

import "fmt"

// Kind classifies a declared type.
type Kind string

const (
	KindInstance    Kind = "instance"
	KindUnion       Kind = "union"
	KindAlias       Kind = "alias"
	KindArray       Kind = "array"
	KindPrimitive   Kind = "primitive"
	KindConstant    Kind = "constant"
	KindEnum        Kind = "enum"
	KindPlaceholder Kind = "placeholder"
)

// Valid reports whether k is one of the known entity kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindInstance, KindUnion, KindAlias, KindArray, KindPrimitive,
		KindConstant, KindEnum, KindPlaceholder:
		return true
	}
	return false
}

// Location is the source position of a declaration.
type Location struct {
	File string `json:"file" yaml:"file"`
	Line int    `json:"line,omitempty" yaml:"line,omitempty"`
}

func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return l.File
}

// Same reports whether two locations point at the same declaration.
// A nil location never matches.
func (l *Location) Same(other *Location) bool {
	if l == nil || other == nil {
		return false
	}
	return l.File == other.File && l.Line == other.Line
}

// Entity is one declared type.
type Entity struct {
	Name string
	Kind Kind

	// Properties holds the fields of instance entities.
	Properties []Property

	// Value holds the body of every non-instance kind
	// (the union, the aliased type, the array, the literal, the enum, ...).
	Value Value

	// Bases lists inherited types in declaration order.
	Bases []InheritanceEdge

	// TypeParams lists generic parameter names.
	TypeParams []string

	Location *Location
}

// File returns the declaring file or "" when no location is known.
func (e *Entity) File() string {
	if e == nil || e.Location == nil {
		return ""
	}
	return e.Location.File
}

// IsTypeParam reports whether name is one of the entity's generic parameters.
func (e *Entity) IsTypeParam(name string) bool {
	for _, p := range e.TypeParams {
		if p == name {
			return true
		}
	}
	return false
}

// Property finds an own property by name.
func (e *Entity) Property(name string) (Property, bool) {
	for _, p := range e.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Property is a named field of an instance or inline object type.
type Property struct {
	Name     string
	Value    Value
	Optional bool

	// RecursiveEdge is set by the recursion analyzer when the property's
	// value leads back to the owning entity.
	RecursiveEdge bool
}

// InheritanceEdge is a reference to a base type.
type InheritanceEdge struct {
	Name     string
	TypeArgs []Value

	// Location of the base declaration, when the extractor could resolve it.
	Location *Location
}
