package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicu/typemockr/entity"
	"github.com/nicu/typemockr/errors"
	"github.com/nicu/typemockr/infer"
	"github.com/nicu/typemockr/internal/util"
)

const projectFile = `
workers = 2

[output]
dir = "src/__mocks__"
types_module = "@app/types"

[generator]
max_depth = 3
array_length = 1

[[mapping.rules]]
expr = "faker.string.uuid()"
patterns = ["*.id"]

[[mapping.rules]]
expr = "faker.internet.email()"
patterns = ["*.email", "User.contact"]

[mapping.defaults]
string = "faker.word.noun()"
`

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// isolate points user config lookup and the working directory at fresh
// temporary directories.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("TYPEMOCKR_OUTPUT_DIR", "")
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Chdir(root)
	return root
}

func TestLoadWithViperDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "mocks", cfg.Output.Dir)
	assert.Equal(t, ".mocks.ts", cfg.Output.Suffix)
	assert.Equal(t, "./mock-runtime", cfg.Output.RuntimeModule)
	require.NotNil(t, cfg.Generator.MaxDepth)
	assert.Equal(t, 2, *cfg.Generator.MaxDepth)
	assert.Equal(t, "create", cfg.Generator.FactoryPrefix)
	assert.Equal(t, "Mock", cfg.Generator.FactorySuffix)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, entity.FormatAuto, cfg.InputFormat())
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "custom.toml"), projectFile)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "src/__mocks__", cfg.Output.Dir)
	assert.Equal(t, "@app/types", cfg.Output.TypesModule)
	assert.Equal(t, ".mocks.ts", cfg.Output.Suffix, "unset keys keep defaults")
	assert.Equal(t, 3, *cfg.Generator.MaxDepth)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, []infer.Mapping{
		{Expr: "faker.string.uuid()", Patterns: []string{"*.id"}},
		{Expr: "faker.internet.email()", Patterns: []string{"*.email", "User.contact"}},
	}, cfg.Mapping.Rules)
	assert.Equal(t, map[string]string{"string": "faker.word.noun()"}, cfg.Mapping.Defaults)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestLoadFromFileYAML(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "typemockr.yaml"), `
output:
  dir: generated
generator:
  factory_prefix: make
  factory_suffix: ""
`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "generated", cfg.Output.Dir)
	assert.Equal(t, "makeUser", cfg.FactoryOptions().FactoryName("User"))
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "")
	nested := filepath.Join(root, "packages", "api", "src")
	require.NoError(t, os.MkdirAll(nested, 0755))

	assert.Equal(t, filepath.Join(root, FileName), FindProjectConfig(nested))
	assert.Equal(t, filepath.Join(root, FileName), FindProjectConfig(root))
}

func TestLoadMergesProjectAndEnvironment(t *testing.T) {
	root := isolate(t)
	writeFile(t, filepath.Join(root, FileName), projectFile)
	sub := filepath.Join(root, "web")
	require.NoError(t, os.MkdirAll(sub, 0755))
	t.Chdir(sub)
	t.Setenv("TYPEMOCKR_OUTPUT_DIR", "env-mocks")

	loaded, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-mocks", loaded.Config.Output.Dir)
	assert.Equal(t, "@app/types", loaded.Config.Output.TypesModule)
	assert.Equal(t, []string{filepath.Join(root, FileName)}, loaded.Files)

	sources := map[string]Setting{}
	for _, s := range loaded.Settings() {
		sources[s.Key] = s
	}
	assert.Equal(t, SourceEnvironment, sources["output.dir"].Source)
	assert.Equal(t, "TYPEMOCKR_OUTPUT_DIR", sources["output.dir"].Path)
	assert.Equal(t, SourceProject, sources["output.types_module"].Source)
	assert.Equal(t, SourceDefault, sources["output.suffix"].Source)
}

func TestLoadExplicitOverridesProject(t *testing.T) {
	root := isolate(t)
	writeFile(t, filepath.Join(root, FileName), projectFile)
	explicit := writeFile(t, filepath.Join(t.TempDir(), "ci.toml"), "[generator]\nmax_depth = 5\n")

	loaded, err := Load(explicit)
	require.NoError(t, err)

	assert.Equal(t, 5, *loaded.Config.Generator.MaxDepth)
	assert.Equal(t, "src/__mocks__", loaded.Config.Output.Dir)
	assert.Equal(t, []string{filepath.Join(root, FileName), explicit}, loaded.Files)

	_, err = Load(filepath.Join(root, "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Output:    OutputConfig{Dir: "mocks"},
			Generator: GeneratorConfig{FactoryPrefix: "create", FactorySuffix: "Mock"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"nil max depth is valid (default)", func(c *Config) { c.Generator.MaxDepth = nil }, false},
		{"positive max depth", func(c *Config) { c.Generator.MaxDepth = util.Ptr(4) }, false},
		{"zero max depth is invalid", func(c *Config) { c.Generator.MaxDepth = util.Ptr(0) }, true},
		{"negative max depth is invalid", func(c *Config) { c.Generator.MaxDepth = util.Ptr(-1) }, true},
		{"negative array length", func(c *Config) { c.Generator.ArrayLength = -1 }, true},
		{"empty output dir", func(c *Config) { c.Output.Dir = "" }, true},
		{"unknown input format", func(c *Config) { c.Input.Format = "xml" }, true},
		{"prefix only", func(c *Config) { c.Generator.FactorySuffix = "" }, false},
		{"no prefix and no suffix", func(c *Config) {
			c.Generator.FactoryPrefix = ""
			c.Generator.FactorySuffix = ""
		}, true},
		{"rule without expr", func(c *Config) {
			c.Mapping.Rules = []infer.Mapping{{Patterns: []string{"*.id"}}}
		}, true},
		{"rule with broken pattern", func(c *Config) {
			c.Mapping.Rules = []infer.Mapping{{Expr: "1", Patterns: []string{"User.(id"}}}
		}, true},
		{"unknown default kind", func(c *Config) { c.Mapping.Defaults = map[string]string{"float": "1.5"} }, true},
		{"negative workers", func(c *Config) { c.Workers = -2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInferConfigOrder(t *testing.T) {
	dir := t.TempDir()
	mappingPath := writeFile(t, filepath.Join(dir, "mocks.toml"), `
"faker.person.fullName()" = ["*.name"]
"*.id" = "faker.number.int()"

[defaults]
string = "faker.lorem.slug()"
boolean = "true"
`)
	cfg := Config{Mapping: MappingConfig{
		File:     mappingPath,
		Rules:    []infer.Mapping{{Expr: "faker.string.uuid()", Patterns: []string{"*.id"}}},
		Defaults: map[string]string{"string": "faker.word.noun()"},
	}}

	ic, err := cfg.InferConfig()
	require.NoError(t, err)

	require.Len(t, ic.Mappings, 3)
	assert.Equal(t, "faker.string.uuid()", ic.Mappings[0].Expr)
	assert.Equal(t, "faker.person.fullName()", ic.Mappings[1].Expr)
	assert.Equal(t, "faker.number.int()", ic.Mappings[2].Expr)
	assert.Equal(t, "faker.word.noun()", ic.Defaults[entity.PrimitiveString])
	assert.Equal(t, "true", ic.Defaults[entity.PrimitiveBoolean])

	engine, err := infer.Compile(ic, nil)
	require.NoError(t, err)
	assert.Equal(t, "faker.string.uuid()", engine.Resolve(entity.PrimitiveString, "User.id", infer.Context{}))

	cfg.Mapping.File = filepath.Join(dir, "missing.toml")
	_, err = cfg.InferConfig()
	assert.Error(t, err)
}

func TestFactoryAndOutputOptions(t *testing.T) {
	cfg := Config{
		Output:    OutputConfig{Dir: "out", Suffix: ".fixtures.ts", TypesModule: "@t"},
		Generator: GeneratorConfig{MaxDepth: util.Ptr(5), ArrayLength: 3, FactoryPrefix: "build"},
	}

	opts := cfg.FactoryOptions()
	assert.Equal(t, 5, opts.MaxDepth)
	assert.Equal(t, 3, opts.ArrayLength)
	assert.Equal(t, "buildUser", opts.FactoryName("User"))

	out := cfg.OutputOptions()
	assert.Equal(t, "out", out.OutputDir)
	assert.Equal(t, ".fixtures.ts", out.Suffix)
	assert.Equal(t, "@t", out.TypesModule)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "TYPEMOCKR_GENERATOR_MAX_DEPTH", EnvKey("generator.max_depth"))
}
