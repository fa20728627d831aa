package factory

import (
	"strconv"
	"strings"

	"github.com/nicu/typemockr/entity"
	"github.com/nicu/typemockr/internal/util"
)

const neverExpr = "undefined as never"

// scope is the position of a value being synthesized.
type scope struct {
	// path is the dotted inference path, e.g. User.address.city.
	path string

	// typePath is a type expression naming the value's declared type, used
	// to tag literals. Empty where no simple indexed access exists.
	typePath string

	prop     string
	optional bool

	// guarded is set inside an enclosing depth guard.
	guarded bool
}

func (s scope) property(p entity.Property) scope {
	c := s
	c.path = s.path + "." + p.Name
	c.prop = p.Name
	c.optional = p.Optional
	c.typePath = ""
	if s.typePath != "" {
		c.typePath = s.typePath + "[" + util.QuoteSingle(p.Name) + "]"
		if p.Optional {
			c.typePath = "NonNullable<" + c.typePath + ">"
		}
	}
	return c
}

func (s scope) untyped() scope {
	s.typePath = ""
	return s
}

func (s scope) withGuard() scope {
	s.guarded = true
	return s
}

// synth returns the expression producing a sample of v.
func (em *emitter) synth(v entity.Value, s scope) string {
	switch n := v.(type) {
	case nil:
		return em.unsupported("missing", s)
	case *entity.Primitive:
		expr, _ := em.run.lookup(n.Kind, s.path, em.context(s))
		return expr
	case *entity.Constant:
		return constantExpr(n.Literal, "")
	case *entity.Union:
		return em.union(n, s)
	case *entity.Intersection:
		return em.intersection(n, s)
	case *entity.Array:
		return em.array(n.Element, n.Recursive(), s)
	case *entity.Tuple:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			parts[i] = em.synth(el, s.untyped())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *entity.Object:
		return em.object(n, s)
	case *entity.Record:
		return em.empty("record", s)
	case *entity.IndexSignature:
		return em.empty("index signature", s)
	case *entity.Mapped:
		return em.empty("mapped type", s)
	case *entity.Function:
		em.diag(DiagOmittedFunction, s.path, "Function value at %s cannot be synthesized", s.path)
		return neverExpr
	case *entity.Promise:
		return "Promise.resolve(" + em.synth(n.Value, s.untyped()) + ")"
	case *entity.Reference:
		return em.reference(n, s, neverExpr)
	case *entity.TypeOperator:
		if n.Operator == "readonly" {
			return em.synth(n.Value, s)
		}
		return em.unsupported("type-operator-"+n.Operator, s)
	case *entity.Conditional:
		return em.synth(n.True, s)
	case *entity.Enum:
		return em.enum(n, s)
	case *entity.Unknown:
		return em.unsupported(n.Kind, s)
	}
	return em.unsupported(entity.KindOf(v), s)
}

func (em *emitter) unsupported(kind string, s scope) string {
	em.diag(DiagUnsupported, s.path, "Unsupported %s value at %s, emitting placeholder", kind, s.path)
	return util.QuoteSingle("__unsupported_"+kind+"__") + " as never"
}

func (em *emitter) empty(what string, s scope) string {
	em.diag(DiagEmptyComposite, s.path, "No enumerable keys for %s at %s, emitting empty object", what, s.path)
	return "{}"
}

// guard wraps expr in a depth check unless an enclosing guard exists.
func (em *emitter) guard(expr, fallback string) string {
	em.usesDepth = true
	return "depth >= maxDepth ? " + fallback + " : " + expr
}

func (em *emitter) array(elem entity.Value, recursive bool, s scope) string {
	if isFunctionLike(elem) {
		em.diag(DiagOmittedFunction, s.path, "Array of functions at %s emitted empty", s.path)
		return "[]"
	}
	inner := s.untyped()
	if recursive && !s.guarded {
		return em.guard(em.repeat(elem, inner.withGuard()), "[]")
	}
	return em.repeat(elem, inner)
}

func (em *emitter) repeat(elem entity.Value, s scope) string {
	em.helpers[helperRepeat] = true
	expr := "repeat(() => " + em.synth(elem, s)
	if n := em.opts().ArrayLength; n > 0 {
		expr += ", " + strconv.Itoa(n)
	}
	return expr + ")"
}

func (em *emitter) union(n *entity.Union, s scope) string {
	members := make([]entity.Value, 0, len(n.Members))
	for _, m := range n.Members {
		if isFunctionLike(m) {
			em.diag(DiagOmittedFunction, s.path, "Dropped function member of union at %s", s.path)
			continue
		}
		members = append(members, m)
	}

	switch {
	case len(members) == 0:
		return em.unsupported("empty-union", s)
	case len(members) == 1:
		return em.synth(members[0], s)
	case allStringConstants(members):
		lits := make([]string, len(members))
		for i, m := range members {
			lits[i] = literal(m.(*entity.Constant).Literal)
		}
		return "faker.helpers.arrayElement([" + strings.Join(lits, ", ") + "] as const)"
	}

	var safe, risky []entity.Value
	for _, m := range members {
		if m.Recursive() {
			risky = append(risky, m)
		} else {
			safe = append(safe, m)
		}
	}
	if len(risky) > 0 && len(safe) > 0 && !s.guarded {
		inner := s.withGuard()
		return em.guard(em.pickOne(members, inner), em.pickOne(safe, inner))
	}
	return em.pickOne(members, s)
}

// pickOne emits a random choice between members, each synthesized lazily.
func (em *emitter) pickOne(members []entity.Value, s scope) string {
	if len(members) == 1 {
		return em.member(members[0], s)
	}
	em.helpers[helperOneOf] = true
	thunks := make([]string, len(members))
	for i, m := range members {
		thunks[i] = "() => " + em.member(m, s)
	}
	return "oneOf(" + strings.Join(thunks, ", ") + ")"
}

// member synthesizes a union member. Literals are tagged with the union's
// type so they do not widen inside the choice.
func (em *emitter) member(m entity.Value, s scope) string {
	if c, ok := m.(*entity.Constant); ok {
		return constantExpr(c.Literal, s.typePath)
	}
	return em.synth(m, s)
}

func (em *emitter) intersection(n *entity.Intersection, s scope) string {
	var parts []string
	for _, m := range n.Members {
		switch mm := m.(type) {
		case *entity.Primitive, *entity.Constant:
			target := s.typePath
			if target == "" {
				target = "never"
			}
			return wrap(em.synth(m, s.untyped())) + " as " + target
		case *entity.Object:
			if mm.Reference != "" && em.run.selected[mm.Reference] != nil {
				parts = append(parts, "..."+wrap(em.objectReference(mm, s, "{}")))
				continue
			}
			for _, f := range em.fields(mm.Properties, s) {
				parts = append(parts, f.key+": "+f.expr)
			}
		case *entity.Reference:
			parts = append(parts, "..."+wrap(em.reference(mm, s.untyped(), "{}")))
		case *entity.Record, *entity.IndexSignature, *entity.Mapped:
			em.diag(DiagEmptyComposite, s.path, "Skipped keyless member of intersection at %s", s.path)
		case *entity.Function:
			em.diag(DiagOmittedFunction, s.path, "Skipped function member of intersection at %s", s.path)
		default:
			parts = append(parts, "..."+wrap(em.synth(m, s.untyped())))
		}
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (em *emitter) object(n *entity.Object, s scope) string {
	if n.Reference != "" && em.run.selected[n.Reference] != nil {
		return em.objectReference(n, s, neverExpr)
	}
	fields := em.fields(n.Properties, s)
	if len(fields) == 0 {
		return "{}"
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.key + ": " + f.expr
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// objectReference delegates an inline object that is structurally a single
// named type to that type's factory.
func (em *emitter) objectReference(n *entity.Object, s scope, fallback string) string {
	ref := &entity.Reference{Target: n.Reference}
	ref.RecursiveEdge = n.RecursiveEdge
	return em.reference(ref, s, fallback)
}

// reference emits a call of the target's factory. fallback is what a depth
// guard yields at the limit.
func (em *emitter) reference(n *entity.Reference, s scope, fallback string) string {
	target := n.Target
	if em.owner.IsTypeParam(target) {
		return "generators." + target + "()"
	}

	def := em.run.selected[target]
	if def == nil {
		if expr, ok := em.builtin(n, s); ok {
			return expr
		}
		em.diag(DiagUnresolvedReference, s.path, "Reference to undeclared type %s at %s", target, s.path)
		return neverExpr
	}

	flagged := n.Recursive()
	guarded := flagged && !s.guarded
	inner := s.untyped()
	if guarded {
		inner.guarded = true
	}
	if flagged {
		em.edges = append(em.edges, edge{target: target, guarded: s.guarded || guarded})
	}

	var args []string
	if len(def.TypeParams) > 0 {
		args = append(args, em.generators(def.TypeParams, n.TypeArgs, inner))
	}
	if flagged && em.recursive && em.run.accepts[target] {
		em.usesDepth = true
		if def.Kind == entity.KindInstance {
			args = append(args, "{}")
		} else {
			args = append(args, "undefined")
		}
		args = append(args, "{ depth: depth + 1, maxDepth }")
	}
	call := em.opts().FactoryName(target) + "(" + strings.Join(args, ", ") + ")"
	if guarded {
		return em.guard(call, fallback)
	}
	return call
}

// generators builds the per-parameter closures passed to a generic factory.
func (em *emitter) generators(params []string, args []entity.Value, s scope) string {
	parts := make([]string, len(params))
	for i, p := range params {
		expr := neverExpr
		if i < len(args) {
			expr = em.synth(args[i], s.untyped())
		}
		parts[i] = p + ": () => " + expr
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// builtin handles references to standard library types that are not
// declared in the graph.
func (em *emitter) builtin(n *entity.Reference, s scope) (string, bool) {
	arg := func(i int) entity.Value {
		if i < len(n.TypeArgs) {
			return n.TypeArgs[i]
		}
		return &entity.Primitive{Kind: entity.PrimitiveUnknown}
	}
	switch n.Target {
	case "Date":
		expr, _ := em.run.lookup(entity.PrimitiveDate, s.path, em.context(s))
		return expr, true
	case "Array", "ReadonlyArray":
		return em.array(arg(0), n.Recursive(), s), true
	case "Promise":
		return "Promise.resolve(" + em.synth(arg(0), s.untyped()) + ")", true
	case "Partial", "Required", "Readonly", "NonNullable":
		return em.synth(arg(0), s.untyped()), true
	case "Record":
		return em.empty("record", s), true
	case "Map":
		return "new Map()", true
	case "Set":
		return "new Set()", true
	}
	return "", false
}

func (em *emitter) enum(n *entity.Enum, s scope) string {
	if len(n.Members) == 0 {
		return em.unsupported("empty-enum", s)
	}
	items := make([]string, len(n.Members))
	if n.Name == "" {
		for i, m := range n.Members {
			items[i] = literal(m.Value)
		}
		return "faker.helpers.arrayElement([" + strings.Join(items, ", ") + "] as const)"
	}
	em.valueRefs[n.Name] = true
	for i, m := range n.Members {
		if util.IsIdentifier(m.Name) {
			items[i] = n.Name + "." + m.Name
		} else {
			items[i] = n.Name + "[" + util.QuoteSingle(m.Name) + "]"
		}
	}
	return "faker.helpers.arrayElement([" + strings.Join(items, ", ") + "])"
}

// isFunctionLike reports whether v can only hold functions.
func isFunctionLike(v entity.Value) bool {
	switch n := v.(type) {
	case *entity.Function:
		return true
	case *entity.Union:
		if len(n.Members) == 0 {
			return false
		}
		for _, m := range n.Members {
			if !isFunctionLike(m) {
				return false
			}
		}
		return true
	case *entity.TypeOperator:
		return n.Operator == "readonly" && isFunctionLike(n.Value)
	}
	return false
}

func allStringConstants(vs []entity.Value) bool {
	for _, v := range vs {
		c, ok := v.(*entity.Constant)
		if !ok {
			return false
		}
		if _, ok := c.Literal.(string); !ok {
			return false
		}
	}
	return true
}

// wrap parenthesizes expressions whose top level holds a conditional, a
// nullish coalescing or a type assertion, which would bind wrongly next to
// ??, a spread or a trailing assertion.
func wrap(expr string) string {
	for _, op := range []string{" ? ", " ?? ", " as "} {
		if topLevelIndex(expr, op) >= 0 {
			return "(" + expr + ")"
		}
	}
	return expr
}

// topLevelIndex finds op outside any brackets or string literals.
func topLevelIndex(expr, op string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && strings.HasPrefix(expr[i:], op) {
				return i
			}
		}
	}
	return -1
}
