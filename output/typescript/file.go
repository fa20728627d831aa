// Package typescript assembles emitted factory definitions into TypeScript
// files: one mocks file per graph document, the shared runtime helper module
// and a barrel index.
package typescript

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nicu/typemockr/factory"
)

const (
	// DefaultSuffix is appended to the input basename to name a mocks file.
	DefaultSuffix = ".mocks.ts"

	// DefaultRuntimeModule is the import path of the runtime helpers, relative
	// to the output directory.
	DefaultRuntimeModule = "./mock-runtime"

	// DefaultTypesModule is used for types with no recorded source file when
	// no types module is configured.
	DefaultTypesModule = "./types"

	// FakerModule is the package faker is imported from.
	FakerModule = "@faker-js/faker"
)

// FileOptions controls how one mocks file is assembled.
type FileOptions struct {
	// Source is the graph document the definitions came from, shown in the header.
	Source string

	// OutputDir is the directory the file will live in. Relative type
	// imports are computed from here.
	OutputDir string

	// SourceRoot is the directory entity locations are relative to.
	SourceRoot string

	// TypesModule, when set, is the single module every declared type is
	// imported from. Otherwise each type is imported from its source file.
	TypesModule string

	// RuntimeModule is the import path of the runtime helpers.
	RuntimeModule string
}

func (o FileOptions) typesModule() string {
	if o.TypesModule == "" {
		return DefaultTypesModule
	}
	return o.TypesModule
}

func (o FileOptions) runtimeModule() string {
	if o.RuntimeModule == "" {
		return DefaultRuntimeModule
	}
	return o.RuntimeModule
}

// MocksFileName derives the mocks file name for a graph document path.
func MocksFileName(input, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + suffix
}

// importSet collects the names one module contributes.
type importSet struct {
	values map[string]bool
	types  map[string]bool
}

type imports map[string]*importSet

func (im imports) add(module, name string, value bool) {
	set, ok := im[module]
	if !ok {
		set = &importSet{values: map[string]bool{}, types: map[string]bool{}}
		im[module] = set
	}
	if value {
		set.values[name] = true
		delete(set.types, name)
		return
	}
	if !set.values[name] {
		set.types[name] = true
	}
}

func (im imports) lines() []string {
	modules := make([]string, 0, len(im))
	for m := range im {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	var out []string
	for _, m := range modules {
		set := im[m]
		if len(set.values) > 0 {
			out = append(out, fmt.Sprintf("import { %s } from '%s';", strings.Join(sortedNames(set.values), ", "), m))
		}
		if len(set.types) > 0 {
			out = append(out, fmt.Sprintf("import type { %s } from '%s';", strings.Join(sortedNames(set.types), ", "), m))
		}
	}
	return out
}

// RenderFile assembles definitions into the text of one mocks file.
func RenderFile(defs []*factory.Definition, opts FileOptions) string {
	var sb strings.Builder
	writeHeader(&sb, opts.Source)

	origin := make(map[string]string, len(defs))
	for _, d := range defs {
		origin[d.TypeName] = typesModule(d, opts)
	}
	moduleOf := func(name string) string {
		if m, ok := origin[name]; ok {
			return m
		}
		return opts.typesModule()
	}

	usesFaker := false
	runtime := imports{}
	declared := imports{}
	for _, d := range defs {
		usesFaker = usesFaker || d.UsesFaker
		for _, h := range d.Helpers {
			runtime.add(opts.runtimeModule(), h, h != "MockOptions")
		}
		for _, r := range d.Refs {
			declared.add(moduleOf(r), r, false)
		}
		for _, r := range d.ValueRefs {
			declared.add(moduleOf(r), r, true)
		}
	}

	var lines []string
	if usesFaker {
		lines = append(lines, fmt.Sprintf("import { faker } from '%s';", FakerModule))
	}
	lines = append(lines, runtime.lines()...)
	lines = append(lines, declared.lines()...)
	if len(lines) > 0 {
		sb.WriteString(strings.Join(lines, "\n"))
		sb.WriteString("\n\n")
	}

	for i, d := range defs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(d.Render())
	}
	return sb.String()
}

func writeHeader(sb *strings.Builder, source string) {
	sb.WriteString("/* eslint-disable */\n")
	if source != "" {
		sb.WriteString(fmt.Sprintf("// Code generated by typemockr from %s. DO NOT EDIT.\n", filepath.ToSlash(source)))
	} else {
		sb.WriteString("// Code generated by typemockr. DO NOT EDIT.\n")
	}
	sb.WriteString("// Regenerate with: typemockr generate\n\n")
}

// typesModule is the module a definition's type is imported from.
func typesModule(d *factory.Definition, opts FileOptions) string {
	if opts.TypesModule != "" || d.Location == nil || d.Location.File == "" {
		return opts.typesModule()
	}
	file := d.Location.File
	if opts.SourceRoot != "" && !filepath.IsAbs(file) {
		file = filepath.Join(opts.SourceRoot, file)
	}
	return ModulePath(opts.OutputDir, file)
}

// ModulePath returns the relative import path from dir to a TypeScript file,
// without its extension.
func ModulePath(dir, file string) string {
	for _, ext := range []string{".d.ts", ".tsx", ".ts", ".mts", ".cts"} {
		if strings.HasSuffix(file, ext) {
			file = strings.TrimSuffix(file, ext)
			break
		}
	}
	if dir == "" {
		dir = "."
	}
	rel, err := filepath.Rel(dir, file)
	if err != nil {
		rel = file
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, "../") && !strings.HasPrefix(rel, "./") && !strings.HasPrefix(rel, "/") {
		rel = "./" + rel
	}
	return rel
}

func sortedNames(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
