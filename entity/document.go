package entity

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/nicu/typemockr/errors"
)

// FormatVersion is the graph document version written by current extractors.
const FormatVersion = "1.0.0"

// SupportedVersions is the semver constraint a document version must satisfy.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// Format is a graph document encoding.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts the user-facing format names ("auto", "json", "yaml", "yml").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatAuto, errors.WithHint(
		errors.Wrapf(errors.ErrUnsupportedFormat, "graph document format %q", s),
		"supported formats: auto, json, yaml")
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return FormatAuto, errors.WithHintf(
		errors.Wrapf(errors.ErrUnsupportedFormat, "cannot infer graph document format of %s", path),
		"rename the file to .json/.yaml or pass --format")
}

// Document is a decoded graph document.
type Document struct {
	Version  string
	Entities []*Entity
}

// LoadFile reads and decodes a graph document. FormatAuto selects the
// format from the file extension.
func LoadFile(path string, format Format) (*Document, error) {
	if format == FormatAuto {
		f, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		format = f
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read graph document %s", path)
	}
	doc, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", path)
	}
	return doc, nil
}

// Decode reads a graph document in the given format.
func Decode(r io.Reader, format Format) (*Document, error) {
	var wire wireDocument
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&wire); err != nil {
			return nil, errors.Wrap(err, "failed to decode graph document")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&wire); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "failed to decode graph document")
		}
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "graph document format %q", string(format))
	}

	if err := CheckVersion(wire.Version); err != nil {
		return nil, err
	}

	doc := &Document{Version: wire.Version, Entities: make([]*Entity, 0, len(wire.Entities))}
	if doc.Version == "" {
		doc.Version = FormatVersion
	}
	for i, we := range wire.Entities {
		e, err := we.toEntity()
		if err != nil {
			return nil, errors.Wrapf(err, "entity #%d", i)
		}
		doc.Entities = append(doc.Entities, e)
	}
	return doc, nil
}

// CheckVersion verifies that a document version satisfies SupportedVersions.
// An empty version is accepted as the current version.
func CheckVersion(v string) error {
	if v == "" {
		return nil
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return errors.Wrapf(errors.ErrIncompatibleVersion, "invalid graph document version %q: %v", v, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return errors.AssertionFailedf("bad version constraint %q: %v", SupportedVersions, err)
	}
	if !constraint.Check(ver) {
		return errors.WithHintf(
			errors.Wrapf(errors.ErrIncompatibleVersion, "graph document version %s does not satisfy %s", v, SupportedVersions),
			"regenerate the document with an extractor that writes version %s", FormatVersion)
	}
	return nil
}

type wireDocument struct {
	Version  string        `json:"version" yaml:"version"`
	Entities []*wireEntity `json:"entities" yaml:"entities"`
}

type wireEntity struct {
	Name       string         `json:"name" yaml:"name"`
	Kind       string         `json:"kind" yaml:"kind"`
	Location   *Location      `json:"location,omitempty" yaml:"location,omitempty"`
	TypeParams []string       `json:"typeParams,omitempty" yaml:"typeParams,omitempty"`
	Bases      []wireBase     `json:"bases,omitempty" yaml:"bases,omitempty"`
	Properties []wireProperty `json:"properties,omitempty" yaml:"properties,omitempty"`
	Value      *wireValue     `json:"value,omitempty" yaml:"value,omitempty"`
}

type wireBase struct {
	Name     string       `json:"name" yaml:"name"`
	TypeArgs []*wireValue `json:"typeArgs,omitempty" yaml:"typeArgs,omitempty"`
	Location *Location    `json:"location,omitempty" yaml:"location,omitempty"`
}

type wireProperty struct {
	Name     string     `json:"name" yaml:"name"`
	Optional bool       `json:"optional,omitempty" yaml:"optional,omitempty"`
	Value    *wireValue `json:"value" yaml:"value"`
}

type wireEnumMember struct {
	Name  string `json:"name" yaml:"name"`
	Value any    `json:"value" yaml:"value"`
}

type wireValue struct {
	Kind        string           `json:"kind" yaml:"kind"`
	Type        string           `json:"type,omitempty" yaml:"type,omitempty"`
	Literal     any              `json:"value,omitempty" yaml:"value,omitempty"`
	Members     []*wireValue     `json:"members,omitempty" yaml:"members,omitempty"`
	Element     *wireValue       `json:"element,omitempty" yaml:"element,omitempty"`
	Elements    []*wireValue     `json:"elements,omitempty" yaml:"elements,omitempty"`
	Properties  []wireProperty   `json:"properties,omitempty" yaml:"properties,omitempty"`
	Reference   string           `json:"reference,omitempty" yaml:"reference,omitempty"`
	Key         *wireValue       `json:"key,omitempty" yaml:"key,omitempty"`
	ValueType   *wireValue       `json:"valueType,omitempty" yaml:"valueType,omitempty"`
	Target      string           `json:"target,omitempty" yaml:"target,omitempty"`
	TypeArgs    []*wireValue     `json:"typeArgs,omitempty" yaml:"typeArgs,omitempty"`
	Operator    string           `json:"operator,omitempty" yaml:"operator,omitempty"`
	Check       *wireValue       `json:"check,omitempty" yaml:"check,omitempty"`
	Extends     *wireValue       `json:"extends,omitempty" yaml:"extends,omitempty"`
	True        *wireValue       `json:"true,omitempty" yaml:"true,omitempty"`
	False       *wireValue       `json:"false,omitempty" yaml:"false,omitempty"`
	Name        string           `json:"name,omitempty" yaml:"name,omitempty"`
	EnumMembers []wireEnumMember `json:"enumMembers,omitempty" yaml:"enumMembers,omitempty"`
}

func (we *wireEntity) toEntity() (*Entity, error) {
	if we == nil {
		return nil, errors.New("null entity")
	}
	if we.Name == "" {
		return nil, errors.WithHint(errors.New("entity has no name"), "every entity needs a non-empty \"name\"")
	}
	kind := Kind(strings.ToLower(we.Kind))
	if !kind.Valid() {
		return nil, errors.WithHintf(errors.Newf("entity %s has unknown kind %q", we.Name, we.Kind),
			"valid kinds: instance, union, alias, array, primitive, constant, enum, placeholder")
	}
	e := &Entity{
		Name:       we.Name,
		Kind:       kind,
		TypeParams: we.TypeParams,
		Location:   we.Location,
		Properties: toProperties(we.Properties),
		Value:      we.Value.toValue(),
	}
	for _, b := range we.Bases {
		e.Bases = append(e.Bases, InheritanceEdge{
			Name:     b.Name,
			TypeArgs: toValues(b.TypeArgs),
			Location: b.Location,
		})
	}
	return e, nil
}

func toProperties(ws []wireProperty) []Property {
	if len(ws) == 0 {
		return nil
	}
	out := make([]Property, 0, len(ws))
	for _, wp := range ws {
		out = append(out, Property{Name: wp.Name, Optional: wp.Optional, Value: wp.Value.toValue()})
	}
	return out
}

func toValues(ws []*wireValue) []Value {
	if len(ws) == 0 {
		return nil
	}
	out := make([]Value, 0, len(ws))
	for _, w := range ws {
		if v := w.toValue(); v != nil {
			out = append(out, v)
		}
	}
	return out
}

func (w *wireValue) toValue() Value {
	if w == nil {
		return nil
	}
	switch strings.ToLower(w.Kind) {
	case "primitive":
		return &Primitive{Kind: PrimitiveKind(strings.ToLower(w.Type))}
	case "constant", "literal":
		return &Constant{Literal: w.Literal}
	case "union":
		return &Union{Members: toValues(w.Members)}
	case "intersection":
		return &Intersection{Members: toValues(w.Members)}
	case "array":
		return &Array{Element: w.Element.toValue()}
	case "tuple":
		return &Tuple{Elements: toValues(w.Elements)}
	case "object":
		return &Object{Properties: toProperties(w.Properties), Reference: w.Reference}
	case "record":
		return &Record{Key: w.Key.toValue(), Value: w.ValueType.toValue()}
	case "index-signature", "indexsignature", "index":
		return &IndexSignature{Key: w.Key.toValue(), Value: w.ValueType.toValue()}
	case "function":
		return &Function{}
	case "promise":
		return &Promise{Value: w.ValueType.toValue()}
	case "reference":
		return &Reference{Target: w.Target, TypeArgs: toValues(w.TypeArgs)}
	case "type-operator", "typeoperator":
		return &TypeOperator{Operator: w.Operator, Value: w.ValueType.toValue()}
	case "mapped":
		return &Mapped{Key: w.Key.toValue(), Value: w.ValueType.toValue()}
	case "conditional":
		return &Conditional{
			Check:   w.Check.toValue(),
			Extends: w.Extends.toValue(),
			True:    w.True.toValue(),
			False:   w.False.toValue(),
		}
	case "enum":
		en := &Enum{Name: w.Name}
		for _, m := range w.EnumMembers {
			en.Members = append(en.Members, EnumMember{Name: m.Name, Value: m.Value})
		}
		return en
	}
	return &Unknown{Kind: w.Kind}
}
