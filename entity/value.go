package entity

import "strings"

// Value is a node of a property's type shape.
//
// The set of implementations is closed: only the types in this file satisfy
// the interface. Decoders map kinds outside the set to *Unknown.
type Value interface {
	// Recursive reports whether the node lies on a path back to its owner.
	Recursive() bool
	value()
}

// Annotation carries analysis results shared by every value node.
type Annotation struct {
	RecursiveEdge bool
}

// Recursive implements Value.
func (a Annotation) Recursive() bool { return a.RecursiveEdge }

// PrimitiveKind names a built-in scalar type.
type PrimitiveKind string

const (
	PrimitiveString    PrimitiveKind = "string"
	PrimitiveNumber    PrimitiveKind = "number"
	PrimitiveBoolean   PrimitiveKind = "boolean"
	PrimitiveBigInt    PrimitiveKind = "bigint"
	PrimitiveNull      PrimitiveKind = "null"
	PrimitiveUndefined PrimitiveKind = "undefined"
	PrimitiveAny       PrimitiveKind = "any"
	PrimitiveUnknown   PrimitiveKind = "unknown"
	PrimitiveNever     PrimitiveKind = "never"
	PrimitiveVoid      PrimitiveKind = "void"
	PrimitiveObject    PrimitiveKind = "object"
	PrimitiveSymbol    PrimitiveKind = "symbol"
	PrimitiveDate      PrimitiveKind = "date"
)

var primitiveKinds = map[PrimitiveKind]bool{
	PrimitiveString: true, PrimitiveNumber: true, PrimitiveBoolean: true,
	PrimitiveBigInt: true, PrimitiveNull: true, PrimitiveUndefined: true,
	PrimitiveAny: true, PrimitiveUnknown: true, PrimitiveNever: true,
	PrimitiveVoid: true, PrimitiveObject: true, PrimitiveSymbol: true,
	PrimitiveDate: true,
}

// ParsePrimitiveKind accepts a primitive kind name in any case.
func ParsePrimitiveKind(s string) (PrimitiveKind, bool) {
	k := PrimitiveKind(strings.ToLower(strings.TrimSpace(s)))
	return k, primitiveKinds[k]
}

type (
	// Primitive is a built-in scalar such as string or number.
	Primitive struct {
		Annotation
		Kind PrimitiveKind
	}

	// Constant is a literal type: 'active', 42, true or null.
	// Literal holds a string, a number (int, int64 or float64), a bool or nil.
	Constant struct {
		Annotation
		Literal any
	}

	// Union is A | B | C.
	Union struct {
		Annotation
		Members []Value
	}

	// Intersection is A & B.
	Intersection struct {
		Annotation
		Members []Value
	}

	// Array is T[].
	Array struct {
		Annotation
		Element Value
	}

	// Tuple is [A, B].
	Tuple struct {
		Annotation
		Elements []Value
	}

	// Object is an inline object type. Reference is set when the object is
	// structurally a single named type.
	Object struct {
		Annotation
		Properties []Property
		Reference  string
	}

	// Record is Record<K, V>.
	Record struct {
		Annotation
		Key   Value
		Value Value
	}

	// IndexSignature is { [key: K]: V }.
	IndexSignature struct {
		Annotation
		Key   Value
		Value Value
	}

	// Function is a callable type. Factories never synthesize it.
	Function struct {
		Annotation
	}

	// Promise is Promise<T>.
	Promise struct {
		Annotation
		Value Value
	}

	// Reference names another declared type or a generic parameter.
	Reference struct {
		Annotation
		Target   string
		TypeArgs []Value
	}

	// TypeOperator is keyof T, readonly T, unique symbol.
	TypeOperator struct {
		Annotation
		Operator string
		Value    Value
	}

	// Mapped is { [K in Keys]: V }.
	Mapped struct {
		Annotation
		Key   Value
		Value Value
	}

	// Conditional is Check extends Extends ? True : False.
	Conditional struct {
		Annotation
		Check   Value
		Extends Value
		True    Value
		False   Value
	}

	// Enum is an enum declaration body.
	Enum struct {
		Annotation
		Name    string
		Members []EnumMember
	}

	// Unknown is a node whose kind the decoder did not recognize.
	Unknown struct {
		Annotation
		Kind string
	}
)

// EnumMember is one member of an Enum.
type EnumMember struct {
	Name  string
	Value any
}

func (*Primitive) value()      {}
func (*Constant) value()       {}
func (*Union) value()          {}
func (*Intersection) value()   {}
func (*Array) value()          {}
func (*Tuple) value()          {}
func (*Object) value()         {}
func (*Record) value()         {}
func (*IndexSignature) value() {}
func (*Function) value()       {}
func (*Promise) value()        {}
func (*Reference) value()      {}
func (*TypeOperator) value()   {}
func (*Mapped) value()         {}
func (*Conditional) value()    {}
func (*Enum) value()           {}
func (*Unknown) value()        {}

// KindOf returns the wire name of a value's variant.
func KindOf(v Value) string {
	switch n := v.(type) {
	case *Primitive:
		return "primitive"
	case *Constant:
		return "constant"
	case *Union:
		return "union"
	case *Intersection:
		return "intersection"
	case *Array:
		return "array"
	case *Tuple:
		return "tuple"
	case *Object:
		return "object"
	case *Record:
		return "record"
	case *IndexSignature:
		return "index-signature"
	case *Function:
		return "function"
	case *Promise:
		return "promise"
	case *Reference:
		return "reference"
	case *TypeOperator:
		return "type-operator"
	case *Mapped:
		return "mapped"
	case *Conditional:
		return "conditional"
	case *Enum:
		return "enum"
	case *Unknown:
		return n.Kind
	case nil:
		return ""
	}
	return "unknown"
}
