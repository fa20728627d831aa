// Package factory emits one mock factory per declared type.
//
// Emission walks each entity's annotated value tree and turns every node into
// a TypeScript expression: primitives through the inference engine, references
// into calls of other factories, and every reference on a recursive path
// behind a depth guard.
package factory

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/nicu/typemockr/entity"
	"github.com/nicu/typemockr/graph"
	"github.com/nicu/typemockr/infer"
	"github.com/nicu/typemockr/inherit"
	"github.com/nicu/typemockr/logger"
)

// Result is the output of one generation run.
type Result struct {
	Definitions []*Definition
	Diagnostics []Diagnostic

	// Skipped counts same-named declarations that lost selection.
	Skipped int
}

// Counts tallies diagnostics by kind.
func (r *Result) Counts() map[DiagnosticKind]int {
	out := make(map[DiagnosticKind]int)
	for _, d := range r.Diagnostics {
		out[d.Kind]++
	}
	return out
}

// Definition returns the factory emitted for typeName, or nil.
func (r *Result) Definition(typeName string) *Definition {
	for _, d := range r.Definitions {
		if d.TypeName == typeName {
			return d
		}
	}
	return nil
}

// Generator turns entity sets into factory definitions. It holds only
// immutable configuration; all graph state is rebuilt per Generate call.
type Generator struct {
	engine *infer.Engine
	opts   Options
	logger *zap.SugaredLogger
}

// New creates a Generator. A nil engine uses the built-in defaults only.
func New(engine *infer.Engine, opts Options, log *zap.SugaredLogger) *Generator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if engine == nil {
		engine = infer.MustCompile(infer.Config{})
	}
	return &Generator{engine: engine, opts: opts.withDefaults(), logger: log}
}

// Generate runs one invocation over entities with a fresh graph, analyzer
// and resolver.
func Generate(entities []*entity.Entity, engine *infer.Engine, opts Options, log *zap.SugaredLogger) *Result {
	return New(engine, opts, log).Generate(entities)
}

type lookupKey struct {
	kind     entity.PrimitiveKind
	path     string
	prop     string
	optional bool
}

type lookupResult struct {
	expr    string
	matched bool
}

// run is the per-invocation state shared by all emitters.
type run struct {
	gen       *Generator
	analyzer  *graph.Analyzer
	resolver  *inherit.Resolver
	selected  map[string]*entity.Entity
	annotated map[string]*entity.Entity

	// accepts reports whether a factory takes depth options.
	accepts map[string]bool
	lookups map[lookupKey]lookupResult
}

func (r *run) lookup(kind entity.PrimitiveKind, path string, ctx infer.Context) (string, bool) {
	key := lookupKey{kind: kind, path: path, prop: ctx.PropertyName, optional: ctx.Optional}
	if res, ok := r.lookups[key]; ok {
		return res.expr, res.matched
	}
	expr, matched := r.gen.engine.Lookup(kind, path, ctx)
	r.lookups[key] = lookupResult{expr: expr, matched: matched}
	return expr, matched
}

// Generate emits one definition per distinct entity name.
func (g *Generator) Generate(entities []*entity.Entity) *Result {
	start := time.Now()
	gr := graph.NewBuilder(g.logger).Build(entities)
	r := &run{
		gen:       g,
		analyzer:  graph.NewAnalyzer(gr, g.logger),
		resolver:  inherit.NewResolver(entities, g.logger),
		selected:  make(map[string]*entity.Entity),
		annotated: make(map[string]*entity.Entity),
		accepts:   make(map[string]bool),
		lookups:   make(map[lookupKey]lookupResult),
	}

	selected := Select(entities)
	res := &Result{}
	for _, e := range selected {
		r.selected[e.Name] = e
		r.annotated[e.Name] = r.analyzer.Annotate(e)
		r.accepts[e.Name] = r.analyzer.HasRecursion(e.Name)
	}
	for _, e := range entities {
		if e != nil && r.selected[e.Name] != e {
			res.Skipped++
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:    DiagDuplicate,
				Entity:  e.Name,
				Message: fmt.Sprintf("Skipped %s declaration of %s in favor of %s", e.Kind, e.Name, r.selected[e.Name].Kind),
			})
		}
	}

	// A recursive factory drops its options parameter when its body never
	// reads depth, which in turn changes how its callers invoke it. Settle
	// that before the final pass; acceptance only ever flips to false.
	for pass := 0; pass <= len(selected); pass++ {
		changed := false
		for _, e := range selected {
			if !r.accepts[e.Name] {
				continue
			}
			if def, _ := r.emit(e); !def.Recursive {
				r.accepts[e.Name] = false
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	for _, e := range selected {
		def, diags := r.emit(e)
		res.Definitions = append(res.Definitions, def)
		res.Diagnostics = append(res.Diagnostics, diags...)
		for _, ed := range def.edges {
			if !ed.guarded {
				res.Diagnostics = append(res.Diagnostics, Diagnostic{
					Kind:    DiagFault,
					Entity:  e.Name,
					Message: fmt.Sprintf("Recursive reference to %s emitted without a depth guard", ed.target),
				})
			}
		}
	}

	for _, d := range res.Diagnostics {
		d.log(g.logger)
	}
	counts := res.Counts()
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	g.logger.Infow("Generated factories",
		logger.FieldCount, len(res.Definitions),
		logger.FieldTotalCount, len(entities),
		"skipped", res.Skipped,
		"diagnostics", len(res.Diagnostics),
		"diagnostic_kinds", kinds,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return res
}

// emit synthesizes one entity, degrading to a placeholder factory if
// synthesis panics.
func (r *run) emit(e *entity.Entity) (def *Definition, diags []Diagnostic) {
	em := newEmitter(r, r.annotated[e.Name])
	defer func() {
		if p := recover(); p != nil {
			def = em.fallback()
			diags = append(em.diags, Diagnostic{
				Kind:    DiagFault,
				Entity:  e.Name,
				Message: fmt.Sprintf("Synthesis failed, emitted placeholder factory: %v", p),
			})
		}
	}()
	return em.definition(), em.diags
}
