// Package config loads typemockr settings with Viper.
//
// Sources are merged lowest to highest: built-in defaults, the user file
// (~/.config/typemockr/typemockr.toml), the project file (typemockr.toml,
// found by walking up from the working directory), an explicit --config
// file, then TYPEMOCKR_* environment variables.
package config

import (
	"github.com/nicu/typemockr/infer"
)

// FileName is the project configuration file looked up from the working directory.
const FileName = "typemockr.toml"

// EnvPrefix prefixes environment overrides, e.g. TYPEMOCKR_OUTPUT_DIR.
const EnvPrefix = "TYPEMOCKR"

// Config is the complete typemockr configuration.
type Config struct {
	Input     InputConfig     `mapstructure:"input" toml:"input" json:"input" yaml:"input"`
	Output    OutputConfig    `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
	Generator GeneratorConfig `mapstructure:"generator" toml:"generator" json:"generator" yaml:"generator"`
	Mapping   MappingConfig   `mapstructure:"mapping" toml:"mapping" json:"mapping" yaml:"mapping"`
	Log       LogConfig       `mapstructure:"log" toml:"log" json:"log" yaml:"log"`

	// Workers bounds how many graph documents are generated concurrently.
	Workers int `mapstructure:"workers" toml:"workers" json:"workers" yaml:"workers"`
}

// InputConfig describes the graph documents.
type InputConfig struct {
	// Files are the graph documents generated when none are given on the
	// command line.
	Files []string `mapstructure:"files" toml:"files" json:"files" yaml:"files"`

	// Format is json, yaml, or empty to detect from the file extension.
	Format string `mapstructure:"format" toml:"format" json:"format" yaml:"format"`

	// SourceRoot is the directory entity source locations are relative to.
	// Empty means the working directory.
	SourceRoot string `mapstructure:"source_root" toml:"source_root" json:"source_root" yaml:"source_root"`
}

// OutputConfig describes where and how mocks are written.
type OutputConfig struct {
	Dir    string `mapstructure:"dir" toml:"dir" json:"dir" yaml:"dir"`
	Suffix string `mapstructure:"suffix" toml:"suffix" json:"suffix" yaml:"suffix"`

	// TypesModule, when set, is the module every declared type is imported
	// from instead of its source file.
	TypesModule   string `mapstructure:"types_module" toml:"types_module" json:"types_module" yaml:"types_module"`
	RuntimeModule string `mapstructure:"runtime_module" toml:"runtime_module" json:"runtime_module" yaml:"runtime_module"`

	// FormatCommand runs on the written files, e.g. "prettier --write".
	FormatCommand string `mapstructure:"format_command" toml:"format_command" json:"format_command" yaml:"format_command"`
}

// GeneratorConfig tunes factory emission.
type GeneratorConfig struct {
	MaxDepth      *int   `mapstructure:"max_depth" toml:"max_depth" json:"max_depth" yaml:"max_depth"` // nil = default 2, 0 is invalid
	ArrayLength   int    `mapstructure:"array_length" toml:"array_length" json:"array_length" yaml:"array_length"`
	FactoryPrefix string `mapstructure:"factory_prefix" toml:"factory_prefix" json:"factory_prefix" yaml:"factory_prefix"`
	FactorySuffix string `mapstructure:"factory_suffix" toml:"factory_suffix" json:"factory_suffix" yaml:"factory_suffix"`
}

// MappingConfig holds generator inference rules. Inline rules are tried
// before the rules of File.
type MappingConfig struct {
	File     string            `mapstructure:"file" toml:"file" json:"file" yaml:"file"`
	Rules    []infer.Mapping   `mapstructure:"rules" toml:"rules" json:"rules" yaml:"rules"`
	Defaults map[string]string `mapstructure:"defaults" toml:"defaults" json:"defaults" yaml:"defaults"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" json:"verbosity" yaml:"verbosity"`
}
