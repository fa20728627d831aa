package entity

// Children returns the direct child nodes of v in declaration order.
// Object property values are included; enum members are not values.
func Children(v Value) []Value {
	switch n := v.(type) {
	case *Union:
		return n.Members
	case *Intersection:
		return n.Members
	case *Array:
		return nonNil(n.Element)
	case *Tuple:
		return n.Elements
	case *Object:
		out := make([]Value, 0, len(n.Properties))
		for _, p := range n.Properties {
			if p.Value != nil {
				out = append(out, p.Value)
			}
		}
		return out
	case *Record:
		return nonNil(n.Key, n.Value)
	case *IndexSignature:
		return nonNil(n.Key, n.Value)
	case *Promise:
		return nonNil(n.Value)
	case *Reference:
		return n.TypeArgs
	case *TypeOperator:
		return nonNil(n.Value)
	case *Mapped:
		return nonNil(n.Key, n.Value)
	case *Conditional:
		return nonNil(n.Check, n.Extends, n.True, n.False)
	}
	return nil
}

func nonNil(vs ...Value) []Value {
	out := vs[:0:0]
	for _, v := range vs {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// Walk visits v and its descendants depth-first. Returning false from fn
// skips the children of the visited node.
func Walk(v Value, fn func(Value) bool) {
	if v == nil {
		return
	}
	if !fn(v) {
		return
	}
	for _, c := range Children(v) {
		Walk(c, fn)
	}
}

// References returns every named type that v mentions, including the
// structural reference of inline objects. Duplicates are preserved.
func References(v Value) []string {
	var out []string
	Walk(v, func(n Value) bool {
		switch r := n.(type) {
		case *Reference:
			out = append(out, r.Target)
		case *Object:
			if r.Reference != "" {
				out = append(out, r.Reference)
			}
		}
		return true
	})
	return out
}

// Values returns the root value nodes of an entity: its property values for
// instances, or its body otherwise.
func (e *Entity) Values() []Value {
	if e.Kind == KindInstance {
		out := make([]Value, 0, len(e.Properties))
		for _, p := range e.Properties {
			if p.Value != nil {
				out = append(out, p.Value)
			}
		}
		return out
	}
	if e.Value == nil {
		return nil
	}
	return []Value{e.Value}
}
