package config

import (
	"github.com/spf13/viper"

	"github.com/nicu/typemockr/factory"
	"github.com/nicu/typemockr/output/typescript"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input.files", []string{})
	v.SetDefault("input.format", "")
	v.SetDefault("input.source_root", "")

	v.SetDefault("output.dir", "mocks")
	v.SetDefault("output.suffix", typescript.DefaultSuffix)
	v.SetDefault("output.types_module", "")
	v.SetDefault("output.runtime_module", typescript.DefaultRuntimeModule)
	v.SetDefault("output.format_command", "")

	v.SetDefault("generator.max_depth", factory.DefaultMaxDepth)
	v.SetDefault("generator.array_length", 0) // 0 = runtime default
	v.SetDefault("generator.factory_prefix", factory.DefaultFactoryPrefix)
	v.SetDefault("generator.factory_suffix", factory.DefaultFactorySuffix)

	v.SetDefault("mapping.file", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)

	v.SetDefault("workers", 4)
}
