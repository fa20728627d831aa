package config

import (
	"github.com/nicu/typemockr/entity"
	"github.com/nicu/typemockr/errors"
	"github.com/nicu/typemockr/infer"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := entity.ParseFormat(c.Input.Format); err != nil {
		return errors.Wrap(err, "input.format")
	}

	if c.Output.Dir == "" {
		return errors.NewInvalidConfigError("output.dir cannot be empty")
	}

	// Max depth: nil = default, 0 and negative are invalid
	if c.Generator.MaxDepth != nil && *c.Generator.MaxDepth <= 0 {
		return errors.NewInvalidConfigError("generator.max_depth must be > 0, got %d (omit for default)", *c.Generator.MaxDepth)
	}
	if c.Generator.ArrayLength < 0 {
		return errors.NewInvalidConfigError("generator.array_length must be >= 0, got %d", c.Generator.ArrayLength)
	}
	if c.Generator.FactoryPrefix == "" && c.Generator.FactorySuffix == "" {
		return errors.NewInvalidConfigError("generator.factory_prefix and generator.factory_suffix cannot both be empty")
	}

	for i, r := range c.Mapping.Rules {
		if r.Expr == "" {
			return errors.NewInvalidConfigError("mapping.rules[%d] has no expr", i)
		}
		for _, p := range r.Patterns {
			if _, err := infer.CompilePattern(p); err != nil {
				return errors.Wrapf(err, "mapping.rules[%d]", i)
			}
		}
	}
	for kind := range c.Mapping.Defaults {
		if _, ok := entity.ParsePrimitiveKind(kind); !ok {
			return errors.NewInvalidConfigError("mapping.defaults.%s is not a primitive kind", kind)
		}
	}

	if c.Workers < 0 {
		return errors.NewInvalidConfigError("workers must be >= 0, got %d", c.Workers)
	}
	if c.Log.Verbosity < 0 {
		return errors.NewInvalidConfigError("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}
	return nil
}
