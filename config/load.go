package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/nicu/typemockr/errors"
)

// Source names where a configuration value came from.
type Source string

const (
	SourceDefault     Source = "default"
	SourceUser        Source = "user"        // ~/.config/typemockr/typemockr.toml
	SourceProject     Source = "project"     // typemockr.toml found from the working directory
	SourceExplicit    Source = "explicit"    // --config
	SourceEnvironment Source = "environment" // TYPEMOCKR_* env vars
)

// Loaded is a merged configuration together with its provenance.
type Loaded struct {
	Config *Config
	Viper  *viper.Viper

	// Files lists the configuration files merged, lowest precedence first.
	Files []string

	sources map[string]Setting
}

// Setting is one effective key with the source that set it.
type Setting struct {
	Key    string      `json:"key" yaml:"key"`
	Value  interface{} `json:"value" yaml:"value"`
	Source Source      `json:"source" yaml:"source"`
	Path   string      `json:"path,omitempty" yaml:"path,omitempty"` // file path or env var name
}

// Load merges every configuration source. explicit is the --config file and
// may be empty.
func Load(explicit string) (*Loaded, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}
	var files []fileSource
	if dir, err := os.UserConfigDir(); err == nil {
		files = append(files, fileSource{filepath.Join(dir, "typemockr", FileName), SourceUser, false})
	}
	if project := FindProjectConfig(wd); project != "" {
		files = append(files, fileSource{project, SourceProject, false})
	}
	if explicit != "" {
		files = append(files, fileSource{explicit, SourceExplicit, true})
	}
	return load(files, true)
}

// LoadFromFile loads configuration from a single file over the defaults,
// ignoring every other source.
func LoadFromFile(path string) (*Config, error) {
	loaded, err := load([]fileSource{{path, SourceExplicit, true}}, false)
	if err != nil {
		return nil, err
	}
	return loaded.Config, nil
}

// LoadWithViper unmarshals and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type fileSource struct {
	path     string
	source   Source
	required bool
}

func load(files []fileSource, env bool) (*Loaded, error) {
	v := viper.New()
	SetDefaults(v)
	if env {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	loaded := &Loaded{Viper: v, sources: map[string]Setting{}}
	for _, f := range files {
		if _, err := os.Stat(f.path); err != nil {
			if f.required {
				return nil, errors.WithHint(
					errors.Wrapf(err, "config file %s", f.path),
					"check the --config path")
			}
			continue
		}

		fv := viper.New()
		fv.SetConfigFile(f.path)
		fv.SetConfigType(configType(f.path))
		if err := fv.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", f.path)
		}

		settings := fv.AllSettings()
		if err := v.MergeConfigMap(settings); err != nil {
			return nil, errors.Wrapf(err, "failed to merge config file %s", f.path)
		}
		for _, key := range flattenKeys(settings, "") {
			loaded.sources[key] = Setting{Source: f.source, Path: f.path}
		}
		loaded.Files = append(loaded.Files, f.path)
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	loaded.Config = cfg
	return loaded, nil
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	}
	return "toml"
}

// FindProjectConfig searches for typemockr.toml by walking up from dir.
// Returns the path to the first file found, or empty string if none found.
func FindProjectConfig(dir string) string {
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Settings lists every effective key with its source, sorted by key.
func (l *Loaded) Settings() []Setting {
	all := l.Viper.AllSettings()
	keys := flattenKeys(all, "")
	out := make([]Setting, 0, len(keys))
	for _, key := range keys {
		s, ok := l.sources[key]
		if !ok {
			s = Setting{Source: SourceDefault, Path: "built-in default"}
		}
		if envKey := EnvKey(key); os.Getenv(envKey) != "" {
			s = Setting{Source: SourceEnvironment, Path: envKey}
		}
		s.Key = key
		s.Value = l.Viper.Get(key)
		out = append(out, s)
	}
	return out
}

// EnvKey is the environment variable overriding key.
func EnvKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// flattenKeys returns the dotted leaf keys of a nested settings map.
func flattenKeys(settings map[string]interface{}, prefix string) []string {
	var keys []string
	for key, value := range settings {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok && len(nested) > 0 {
			keys = append(keys, flattenKeys(nested, full)...)
			continue
		}
		keys = append(keys, full)
	}
	sort.Strings(keys)
	return keys
}
