package config

import (
	"github.com/nicu/typemockr/entity"
	"github.com/nicu/typemockr/errors"
	"github.com/nicu/typemockr/factory"
	"github.com/nicu/typemockr/infer"
	"github.com/nicu/typemockr/output/typescript"
)

// InferConfig builds the inference configuration: inline rules first, then
// the rules of mapping.file. Defaults from the config file win over the
// mapping file's.
func (c *Config) InferConfig() (infer.Config, error) {
	cfg := infer.Config{Mappings: append([]infer.Mapping(nil), c.Mapping.Rules...)}

	if c.Mapping.File != "" {
		mf, err := infer.LoadMappingFile(c.Mapping.File)
		if err != nil {
			return infer.Config{}, errors.Wrap(err, "mapping.file")
		}
		mf.Apply(&cfg)
	}

	for name, expr := range c.Mapping.Defaults {
		kind, ok := entity.ParsePrimitiveKind(name)
		if !ok {
			return infer.Config{}, errors.NewInvalidConfigError("mapping.defaults.%s is not a primitive kind", name)
		}
		if cfg.Defaults == nil {
			cfg.Defaults = make(map[entity.PrimitiveKind]string)
		}
		cfg.Defaults[kind] = expr
	}
	return cfg, nil
}

// FactoryOptions returns the emission options.
func (c *Config) FactoryOptions() factory.Options {
	opts := factory.Options{
		ArrayLength:   c.Generator.ArrayLength,
		FactoryPrefix: c.Generator.FactoryPrefix,
		FactorySuffix: c.Generator.FactorySuffix,
	}
	if c.Generator.MaxDepth != nil {
		opts.MaxDepth = *c.Generator.MaxDepth
	}
	return opts
}

// OutputOptions returns the assembly options for the output directory.
func (c *Config) OutputOptions() typescript.Options {
	return typescript.Options{
		OutputDir:     c.Output.Dir,
		Suffix:        c.Output.Suffix,
		TypesModule:   c.Output.TypesModule,
		RuntimeModule: c.Output.RuntimeModule,
	}
}

// InputFormat returns the configured graph document format.
func (c *Config) InputFormat() entity.Format {
	f, _ := entity.ParseFormat(c.Input.Format)
	return f
}
