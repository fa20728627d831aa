package factory

import (
	"fmt"
	"strings"

	"github.com/nicu/typemockr/entity"
)

// Param is one factory parameter.
type Param struct {
	Name     string
	Type     string
	Default  string
	Optional bool
}

func (p Param) String() string {
	switch {
	case p.Default != "":
		return fmt.Sprintf("%s: %s = %s", p.Name, p.Type, p.Default)
	case p.Optional:
		return fmt.Sprintf("%s?: %s", p.Name, p.Type)
	}
	return fmt.Sprintf("%s: %s", p.Name, p.Type)
}

// Definition is one emitted factory.
type Definition struct {
	// Name is the factory function name, e.g. createUserMock.
	Name string

	// TypeName is the declared type the factory produces.
	TypeName   string
	Kind       entity.Kind
	TypeParams []string
	Params     []Param

	// Body holds the indented statements between the braces.
	Body string

	// Refs are type names used in type positions (import type).
	Refs []string

	// ValueRefs are declared names used as runtime values, such as enums.
	ValueRefs []string

	// Helpers are runtime helper names the body uses.
	Helpers []string

	UsesFaker bool

	// Recursive is set when the factory takes depth options.
	Recursive bool

	Location *entity.Location

	edges []edge
}

// edge records one emitted reference that lies on a recursive path.
type edge struct {
	target  string
	guarded bool
}

// ReturnType is the declared type with its generic parameters.
func (d *Definition) ReturnType() string {
	if len(d.TypeParams) == 0 {
		return d.TypeName
	}
	return d.TypeName + "<" + strings.Join(d.TypeParams, ", ") + ">"
}

// Signature renders the function head without the body.
func (d *Definition) Signature() string {
	var sb strings.Builder
	sb.WriteString("export function ")
	sb.WriteString(d.Name)
	if len(d.TypeParams) > 0 {
		sb.WriteString("<" + strings.Join(d.TypeParams, ", ") + ">")
	}
	sb.WriteString("(")
	for i, p := range d.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString("): ")
	sb.WriteString(d.ReturnType())
	return sb.String()
}

// Render returns the complete function declaration.
func (d *Definition) Render() string {
	var sb strings.Builder
	sb.WriteString(d.Signature())
	sb.WriteString(" {\n")
	sb.WriteString(d.Body)
	sb.WriteString("}\n")
	return sb.String()
}
