package factory

import "github.com/nicu/typemockr/internal/util"

const (
	DefaultMaxDepth      = 2
	DefaultFactoryPrefix = "create"
	DefaultFactorySuffix = "Mock"
)

// Options controls the shape of emitted factories.
type Options struct {
	// MaxDepth is the default recursion limit baked into recursive
	// factories. Values <= 0 select DefaultMaxDepth.
	MaxDepth int

	// ArrayLength, when > 0, is passed to repeat() as the element count.
	// Otherwise repeat() uses its own default of two elements.
	ArrayLength int

	FactoryPrefix string
	FactorySuffix string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxDepth:      DefaultMaxDepth,
		FactoryPrefix: DefaultFactoryPrefix,
		FactorySuffix: DefaultFactorySuffix,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.FactoryPrefix == "" && o.FactorySuffix == "" {
		o.FactoryPrefix = DefaultFactoryPrefix
		o.FactorySuffix = DefaultFactorySuffix
	}
	return o
}

// FactoryName returns the factory function name for a declared type.
func (o Options) FactoryName(typeName string) string {
	o = o.withDefaults()
	return o.FactoryPrefix + util.ToPascalCase(typeName) + o.FactorySuffix
}
