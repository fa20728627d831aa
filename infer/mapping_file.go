package infer

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/nicu/typemockr/entity"
	"github.com/nicu/typemockr/errors"
)

// defaultsKey names the optional table of per-kind default expressions in a
// mapping file. Every other top-level key is a mapping entry.
const defaultsKey = "defaults"

// MappingFile is the content of a mapping file.
type MappingFile struct {
	Mappings []Mapping
	Defaults map[entity.PrimitiveKind]string
}

// Apply appends the file's mappings after cfg's and merges its defaults.
func (f *MappingFile) Apply(cfg *Config) {
	cfg.Mappings = append(cfg.Mappings, f.Mappings...)
	if len(f.Defaults) == 0 {
		return
	}
	if cfg.Defaults == nil {
		cfg.Defaults = make(map[entity.PrimitiveKind]string, len(f.Defaults))
	}
	for k, v := range f.Defaults {
		cfg.Defaults[k] = v
	}
}

// LoadMappingFile reads a mapping table from TOML, YAML or JSON, keeping
// entry order. Two entry shapes are accepted and may be mixed:
//
//	"faker.string.uuid()" = ["*.id", "*.uuid"]   # expression = patterns
//	"*.email" = "faker.internet.email()"          # pattern = expression
func LoadMappingFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read mapping file %s", path)
	}
	var mf *MappingFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		mf, err = decodeTOML(data)
	case ".yaml", ".yml":
		mf, err = decodeYAML(data)
	case ".json":
		mf, err = decodeJSON(data)
	default:
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrUnsupportedFormat, "mapping file %s", path),
			"use a .toml, .yaml or .json mapping file")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load mapping file %s", path)
	}
	return mf, nil
}

type entryBuilder struct {
	mf *MappingFile
}

func newEntryBuilder() *entryBuilder {
	return &entryBuilder{mf: &MappingFile{}}
}

// add records one top-level entry. value is either a string or a list of strings.
func (b *entryBuilder) add(key string, value any) error {
	switch v := value.(type) {
	case string:
		b.mf.Mappings = append(b.mf.Mappings, Mapping{Expr: v, Patterns: []string{key}})
	case []string:
		b.mf.Mappings = append(b.mf.Mappings, Mapping{Expr: key, Patterns: v})
	default:
		return errors.Newf("entry %q: expected a string or a list of patterns, got %T", key, value)
	}
	return nil
}

func (b *entryBuilder) addDefault(kind, expr string) {
	if b.mf.Defaults == nil {
		b.mf.Defaults = make(map[entity.PrimitiveKind]string)
	}
	b.mf.Defaults[entity.PrimitiveKind(strings.ToLower(kind))] = expr
}

func decodeTOML(data []byte) (*MappingFile, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}
	b := newEntryBuilder()
	for _, key := range md.Keys() {
		if len(key) == 2 && key[0] == defaultsKey {
			table, _ := raw[defaultsKey].(map[string]any)
			expr, ok := table[key[1]].(string)
			if !ok {
				return nil, errors.Newf("default for %q must be a string", key[1])
			}
			b.addDefault(key[1], expr)
			continue
		}
		if len(key) != 1 || key[0] == defaultsKey {
			continue
		}
		value, err := stringOrList(key[0], raw[key[0]])
		if err != nil {
			return nil, err
		}
		if err := b.add(key[0], value); err != nil {
			return nil, err
		}
	}
	return b.mf, nil
}

// stringOrList normalizes generic decoder output to string or []string.
func stringOrList(key string, v any) (any, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, errors.Newf("entry %q: patterns must be strings, got %T", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	case []string:
		return val, nil
	}
	return nil, errors.Newf("entry %q: expected a string or a list of patterns, got %T", key, v)
}

func decodeYAML(data []byte) (*MappingFile, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	b := newEntryBuilder()
	if len(doc.Content) == 0 {
		return b.mf, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.Newf("line %d: mapping file must be a mapping", root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		if key == defaultsKey && val.Kind == yaml.MappingNode {
			for j := 0; j+1 < len(val.Content); j += 2 {
				b.addDefault(val.Content[j].Value, val.Content[j+1].Value)
			}
			continue
		}
		switch val.Kind {
		case yaml.ScalarNode:
			if err := b.add(key, val.Value); err != nil {
				return nil, err
			}
		case yaml.SequenceNode:
			var patterns []string
			if err := val.Decode(&patterns); err != nil {
				return nil, errors.Wrapf(err, "entry %q", key)
			}
			if err := b.add(key, patterns); err != nil {
				return nil, err
			}
		default:
			return nil, errors.Newf("line %d: entry %q: expected a string or a list of patterns", val.Line, key)
		}
	}
	return b.mf, nil
}

func decodeJSON(data []byte) (*MappingFile, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	b := newEntryBuilder()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Newf("expected an object key, got %v", tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		switch v := tok.(type) {
		case string:
			if err := b.add(key, v); err != nil {
				return nil, err
			}
		case json.Delim:
			switch {
			case v == '[':
				patterns, err := readStrings(dec, key)
				if err != nil {
					return nil, err
				}
				if err := b.add(key, patterns); err != nil {
					return nil, err
				}
			case v == '{' && key == defaultsKey:
				if err := readDefaults(dec, b); err != nil {
					return nil, err
				}
			default:
				return nil, errors.Newf("entry %q: expected a string or a list of patterns", key)
			}
		default:
			return nil, errors.Newf("entry %q: expected a string or a list of patterns, got %v", key, tok)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return b.mf, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err == io.EOF {
		return errors.Newf("unexpected end of input, expected %q", want)
	}
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errors.Newf("expected %q, got %v", want, tok)
	}
	return nil
}

func readStrings(dec *json.Decoder, key string) ([]string, error) {
	var out []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		s, ok := tok.(string)
		if !ok {
			return nil, errors.Newf("entry %q: patterns must be strings, got %v", key, tok)
		}
		out = append(out, s)
	}
	return out, expectDelim(dec, ']')
}

func readDefaults(dec *json.Decoder, b *entryBuilder) error {
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		vt, err := dec.Token()
		if err != nil {
			return err
		}
		kind, ok1 := kt.(string)
		expr, ok2 := vt.(string)
		if !ok1 || !ok2 {
			return errors.New("defaults must map kind names to expressions")
		}
		b.addDefault(kind, expr)
	}
	return expectDelim(dec, '}')
}
