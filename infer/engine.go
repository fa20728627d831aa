// Package infer maps dotted property paths to value-producing expressions.
//
// An Engine is compiled once from a Config and is immutable afterwards, so a
// single Engine can be shared by concurrent generation runs.
package infer

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/nicu/typemockr/entity"
	"github.com/nicu/typemockr/errors"
	"github.com/nicu/typemockr/logger"
)

// Context describes where a lookup happens.
type Context struct {
	EntityName   string
	PropertyName string
	Optional     bool
}

// Query is what an Override is asked about.
type Query struct {
	Kind entity.PrimitiveKind
	Path string
	Context
}

// Override answers a query ahead of the pattern table. Returning ok=false
// (or an empty expression) defers to the patterns. Errors and panics are
// logged and treated as no answer.
type Override func(q Query) (expr string, ok bool, err error)

// Mapping binds an expression to the wildcard patterns it serves.
type Mapping struct {
	Expr     string   `json:"expr" yaml:"expr" toml:"expr" mapstructure:"expr"`
	Patterns []string `json:"patterns" yaml:"patterns" toml:"patterns" mapstructure:"patterns"`
}

// Config is the inference configuration of one generation setup.
type Config struct {
	// Mappings in declaration order. Order decides: the first matching
	// pattern wins.
	Mappings []Mapping

	Override Override

	// Defaults replaces entries of the per-kind default table.
	Defaults map[entity.PrimitiveKind]string
}

type rule struct {
	pattern string
	re      *regexp.Regexp
	expr    string
}

// Rule is a compiled pattern and its expression, for display.
type Rule struct {
	Pattern string
	Regexp  string
	Expr    string
}

// Engine resolves paths to expressions.
type Engine struct {
	rules    []rule
	override Override
	defaults map[entity.PrimitiveKind]string
	logger   *zap.SugaredLogger
}

// CompilePattern turns a wildcard pattern into an anchored, case-insensitive
// regular expression. Literal dots are escaped and * matches any run of
// characters, dots included.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, errors.Wrap(errors.ErrInvalidPattern, "empty pattern")
	}
	expr := strings.ReplaceAll(pattern, ".", `\.`)
	expr = strings.ReplaceAll(expr, "*", ".*")
	re, err := regexp.Compile("(?i)^" + expr + "$")
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidPattern, "pattern %q: %v", pattern, err),
			"only * is a wildcard; other regular expression syntax must be well formed")
	}
	return re, nil
}

// Compile builds an Engine from cfg. A nil logger disables diagnostics.
func Compile(cfg Config, log *zap.SugaredLogger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	e := &Engine{
		override: cfg.Override,
		defaults: make(map[entity.PrimitiveKind]string, len(defaultExprs)+len(cfg.Defaults)),
		logger:   log.Named("infer"),
	}
	for k, v := range defaultExprs {
		e.defaults[k] = v
	}
	for k, v := range cfg.Defaults {
		k = entity.PrimitiveKind(strings.ToLower(string(k)))
		if strings.TrimSpace(v) == "" {
			return nil, errors.NewInvalidConfigError("empty default expression for kind %q", k)
		}
		e.defaults[k] = v
	}

	for i, m := range cfg.Mappings {
		if strings.TrimSpace(m.Expr) == "" {
			return nil, errors.Wrapf(errors.ErrInvalidPattern, "mapping #%d has an empty expression", i)
		}
		for _, p := range m.Patterns {
			re, err := CompilePattern(p)
			if err != nil {
				return nil, errors.Wrapf(err, "mapping #%d", i)
			}
			e.rules = append(e.rules, rule{pattern: p, re: re, expr: m.Expr})
		}
	}
	e.logger.Debugw("Compiled inference rules", logger.FieldCount, len(e.rules))
	return e, nil
}

// MustCompile is Compile for static configurations; it panics on error.
func MustCompile(cfg Config) *Engine {
	e, err := Compile(cfg, nil)
	if err != nil {
		panic(err)
	}
	return e
}

// Rules lists the compiled rules in match order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	for i, r := range e.rules {
		out[i] = Rule{Pattern: r.pattern, Regexp: r.re.String(), Expr: r.expr}
	}
	return out
}

// Resolve returns the expression for a property of the given kind at path.
func (e *Engine) Resolve(kind entity.PrimitiveKind, path string, ctx Context) string {
	expr, _ := e.Lookup(kind, path, ctx)
	return expr
}

// Lookup is Resolve that also reports whether a configured source (the
// override or a pattern) produced the answer, as opposed to the default table.
func (e *Engine) Lookup(kind entity.PrimitiveKind, path string, ctx Context) (string, bool) {
	if e.override != nil {
		if expr, ok := e.callOverride(Query{Kind: kind, Path: path, Context: ctx}); ok {
			return expr, true
		}
	}

	for _, r := range e.rules {
		if !r.re.MatchString(path) {
			continue
		}
		if !compatible(kind, familyOf(r.expr)) {
			e.logger.Debugw("Mapped expression does not fit declared kind",
				logger.FieldPath, path,
				logger.FieldKind, string(kind),
				logger.FieldPattern, r.pattern)
			return e.Default(kind), false
		}
		return r.expr, true
	}
	return e.Default(kind), false
}

func (e *Engine) callOverride(q Query) (expr string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warnw("Override panicked, falling back to mappings",
				logger.FieldPath, q.Path,
				logger.FieldKind, string(q.Kind),
				logger.FieldError, fmt.Sprint(r))
			expr, ok = "", false
		}
	}()
	expr, ok, err := e.override(q)
	if err != nil {
		e.logger.Warnw("Override failed, falling back to mappings",
			logger.FieldPath, q.Path,
			logger.FieldKind, string(q.Kind),
			logger.FieldError, err.Error())
		return "", false
	}
	if !ok || strings.TrimSpace(expr) == "" {
		return "", false
	}
	return expr, true
}

// Default returns the default-table expression for kind.
func (e *Engine) Default(kind entity.PrimitiveKind) string {
	if expr, ok := e.defaults[kind]; ok {
		return expr
	}
	return e.defaults[entity.PrimitiveString]
}
