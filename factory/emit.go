package factory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nicu/typemockr/entity"
	"github.com/nicu/typemockr/infer"
	"github.com/nicu/typemockr/inherit"
	"github.com/nicu/typemockr/internal/util"
	"github.com/nicu/typemockr/logger"
)

// Runtime helper names provided by the generated runtime module.
const (
	helperRepeat      = "repeat"
	helperMaybe       = "maybe"
	helperOneOf       = "oneOf"
	helperMockOptions = "MockOptions"
)

// emitter builds the definition of a single entity.
type emitter struct {
	run       *run
	owner     *entity.Entity
	ownerType string
	recursive bool

	usesDepth bool
	refs      map[string]bool
	valueRefs map[string]bool
	helpers   map[string]bool
	edges     []edge
	diags     []Diagnostic
}

func newEmitter(r *run, owner *entity.Entity) *emitter {
	em := &emitter{
		run:       r,
		owner:     owner,
		ownerType: owner.Name,
		recursive: r.accepts[owner.Name],
		refs:      map[string]bool{owner.Name: true},
		valueRefs: map[string]bool{},
		helpers:   map[string]bool{},
	}
	if len(owner.TypeParams) > 0 {
		em.ownerType += "<" + strings.Join(owner.TypeParams, ", ") + ">"
	}
	return em
}

func (em *emitter) opts() Options { return em.run.gen.opts }

func (em *emitter) diag(kind DiagnosticKind, path, format string, args ...interface{}) {
	em.diags = append(em.diags, Diagnostic{
		Kind:    kind,
		Entity:  em.owner.Name,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

func (em *emitter) context(s scope) infer.Context {
	return infer.Context{EntityName: em.owner.Name, PropertyName: s.prop, Optional: s.optional}
}

func (em *emitter) topScope() scope {
	return scope{path: em.owner.Name, typePath: em.ownerType}
}

func (em *emitter) definition() *Definition {
	var body strings.Builder
	if em.owner.Kind == entity.KindInstance {
		em.instanceBody(&body)
	} else {
		em.valueBody(&body)
	}

	def := &Definition{
		Name:       em.opts().FactoryName(em.owner.Name),
		TypeName:   em.owner.Name,
		Kind:       em.owner.Kind,
		TypeParams: em.owner.TypeParams,
		Location:   em.owner.Location,
		edges:      em.edges,
	}
	def.Params = em.params(def)

	if em.usesDepth {
		def.Recursive = true
		def.Body = fmt.Sprintf("  const { depth = 0, maxDepth = %d } = options;\n", em.opts().MaxDepth) + body.String()
	} else {
		def.Body = body.String()
	}
	def.UsesFaker = strings.Contains(def.Body, "faker.")
	def.Refs = sortedKeys(em.refs)
	def.ValueRefs = sortedKeys(em.valueRefs)
	def.Helpers = sortedKeys(em.helpers)
	return def
}

func (em *emitter) params(def *Definition) []Param {
	var params []Param
	if len(em.owner.TypeParams) > 0 {
		params = append(params, Param{Name: "generators", Type: generatorsType(em.owner.TypeParams)})
	}
	if em.owner.Kind == entity.KindInstance {
		params = append(params, Param{Name: "overrides", Type: "Partial<" + em.ownerType + ">", Default: "{}"})
	} else {
		params = append(params, Param{Name: "override", Type: em.ownerType, Optional: true})
	}
	if em.usesDepth {
		em.helpers[helperMockOptions] = true
		params = append(params, Param{Name: "options", Type: helperMockOptions, Default: "{}"})
	}
	return params
}

func generatorsType(typeParams []string) string {
	parts := make([]string, len(typeParams))
	for i, p := range typeParams {
		parts[i] = p + ": () => " + p
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// instanceBody emits base spreads, own fields and the overrides spread.
func (em *emitter) instanceBody(body *strings.Builder) {
	body.WriteString("  return {\n")
	for _, b := range em.run.resolver.Inherited(em.owner) {
		call := em.baseCall(b)
		if call == "" {
			continue
		}
		body.WriteString("    ..." + call + ",\n")
	}
	for _, f := range em.fields(em.owner.Properties, em.topScope()) {
		body.WriteString("    " + f.key + ": " + f.expr + ",\n")
	}
	body.WriteString("    ...overrides,\n")
	body.WriteString("  };\n")
}

// valueBody emits the body of every non-instance kind.
func (em *emitter) valueBody(body *strings.Builder) {
	var expr string
	switch {
	case em.owner.Value == nil && em.owner.Kind == entity.KindPlaceholder:
		em.diag(DiagEmptyComposite, em.owner.Name, "Placeholder type %s has no shape, emitting an empty value", em.owner.Name)
		expr = "{} as unknown as " + em.ownerType
	case em.owner.Value == nil:
		expr = em.unsupported("empty "+string(em.owner.Kind), em.topScope())
	case isFunctionLike(em.owner.Value):
		em.diag(DiagOmittedFunction, em.owner.Name, "Function type %s cannot be synthesized", em.owner.Name)
		expr = "(() => undefined) as unknown as " + em.ownerType
	default:
		expr = em.synth(em.owner.Value, em.topScope())
	}
	body.WriteString("  return override ?? " + wrap(expr) + ";\n")
}

type field struct {
	key  string
	expr string
}

// fields synthesizes object properties, dropping function-typed ones.
func (em *emitter) fields(props []entity.Property, parent scope) []field {
	out := make([]field, 0, len(props))
	for _, p := range props {
		s := parent.property(p)
		if isFunctionLike(p.Value) {
			em.diag(DiagOmittedFunction, s.path, "Omitted function property %s", s.path)
			continue
		}
		expr := em.synth(p.Value, s)
		if p.Optional {
			em.helpers[helperMaybe] = true
			expr = "maybe(() => " + expr + ")"
		}
		out = append(out, field{key: util.PropertyKey(p.Name), expr: expr})
	}
	return out
}

// baseCall renders the factory call spread into a derived instance. A base
// whose chain leads back to the owner is spread behind a depth guard, or
// dropped when the owner takes no depth options.
func (em *emitter) baseCall(b inherit.Base) string {
	name := b.Edge.Name
	factory := em.opts().FactoryName(name)
	target := em.run.selected[name]
	if b.Entity == nil || target == nil {
		em.diag(DiagUnresolvedBase, em.owner.Name, "Base %s of %s is not declared, emitting a bare call", name, em.owner.Name)
		return factory + "()"
	}

	var args []string
	if len(target.TypeParams) > 0 {
		args = append(args, em.generators(target.TypeParams, b.Edge.TypeArgs, scope{path: em.owner.Name}))
	}

	overrides := "undefined"
	if target.Kind == entity.KindInstance {
		overrides = "{}"
		if defaults := em.inheritedDefaults(b); defaults != "" {
			overrides = defaults
		}
	}
	passDepth := em.recursive && em.run.accepts[name]
	if b.Cyclic && !passDepth {
		em.run.gen.logger.Debugw("Dropped cyclic base",
			logger.FieldEntity, em.owner.Name,
			logger.FieldBase, name)
		return ""
	}
	if (overrides != "{}" && overrides != "undefined") || passDepth {
		args = append(args, overrides)
	}
	if b.Cyclic {
		em.edges = append(em.edges, edge{target: name, guarded: true})
		args = append(args, "{ depth: depth + 1, maxDepth }")
		return "(" + em.guard(factory+"("+strings.Join(args, ", ")+")", "{}") + ")"
	}
	if passDepth {
		em.usesDepth = true
		args = append(args, "{ depth, maxDepth }")
	}
	return factory + "(" + strings.Join(args, ", ") + ")"
}

// inheritedDefaults composes the explicit defaults object for a base call:
// inherited scalar-like properties whose derived path has a configured answer.
func (em *emitter) inheritedDefaults(b inherit.Base) string {
	var parts []string
	for _, p := range b.Properties {
		kind, literal, ok := defaultableKind(p.Value)
		if !ok {
			continue
		}
		path := em.owner.Name + "." + p.Name
		expr, matched := em.run.lookup(kind, path, infer.Context{
			EntityName:   em.owner.Name,
			PropertyName: p.Name,
			Optional:     p.Optional,
		})
		if !matched {
			continue
		}
		if literal {
			expr = wrap(expr) + " as " + em.ownerType + "[" + util.QuoteSingle(p.Name) + "]"
		}
		parts = append(parts, util.PropertyKey(p.Name)+": "+expr)
	}
	if len(parts) == 0 {
		return ""
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// defaultableKind reports the inference kind of a primitive, constant or
// string-literal union value. literal is set for the latter two.
func defaultableKind(v entity.Value) (kind entity.PrimitiveKind, literal bool, ok bool) {
	switch n := v.(type) {
	case *entity.Primitive:
		return n.Kind, false, true
	case *entity.Constant:
		k, ok := literalKind(n.Literal)
		return k, true, ok
	case *entity.Union:
		if len(n.Members) > 0 && allStringConstants(n.Members) {
			return entity.PrimitiveString, true, true
		}
	}
	return "", false, false
}

// fallback is the definition emitted when synthesis of an entity fails.
func (em *emitter) fallback() *Definition {
	def := &Definition{
		Name:       em.opts().FactoryName(em.owner.Name),
		TypeName:   em.owner.Name,
		Kind:       em.owner.Kind,
		TypeParams: em.owner.TypeParams,
		Location:   em.owner.Location,
		Refs:       []string{em.owner.Name},
	}
	em.usesDepth = false
	def.Params = em.params(def)
	if em.owner.Kind == entity.KindInstance {
		def.Body = "  return { ...overrides } as " + em.ownerType + ";\n"
	} else {
		def.Body = "  return override ?? ({} as unknown as " + em.ownerType + ");\n"
	}
	return def
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
