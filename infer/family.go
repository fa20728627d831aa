package infer

import (
	"regexp"
	"strings"

	"github.com/nicu/typemockr/entity"
)

// family is a coarse classification of what an expression evaluates to.
type family int

const (
	familyUnknown family = iota
	familyString
	familyNumber
	familyBoolean
	familyDate
	familyNull
	familyObject
)

var numericLiteral = regexp.MustCompile(`^-?\d+(\.\d+)?n?$`)

// fakerModules maps faker module names to the family their methods return.
var fakerModules = map[string]family{
	"number":   familyNumber,
	"date":     familyDate,
	"string":   familyString,
	"lorem":    familyString,
	"internet": familyString,
	"person":   familyString,
	"location": familyString,
	"phone":    familyString,
	"company":  familyString,
	"color":    familyString,
	"commerce": familyString,
	"word":     familyString,
	"hacker":   familyString,
	"system":   familyString,
	"image":    familyString,
	"music":    familyString,
	"vehicle":  familyString,
	"animal":   familyString,
	"database": familyString,
	"git":      familyString,
	"science":  familyString,
	"airline":  familyString,
	"book":     familyString,
	"food":     familyString,
	"finance":  familyString,
}

// familyOf guesses an expression's result family from its text.
func familyOf(expr string) family {
	s := strings.TrimSpace(expr)
	switch {
	case s == "":
		return familyUnknown
	case s == "null":
		return familyNull
	case s == "true" || s == "false":
		return familyBoolean
	case numericLiteral.MatchString(s):
		return familyNumber
	case strings.HasPrefix(s, "'"), strings.HasPrefix(s, `"`), strings.HasPrefix(s, "`"):
		return familyString
	case strings.HasPrefix(s, "{"), strings.HasPrefix(s, "["):
		return familyObject
	case strings.HasPrefix(s, "new Date("):
		return familyDate
	case strings.HasSuffix(s, ".toISOString()"), strings.HasSuffix(s, ".toString()"), strings.HasPrefix(s, "String("):
		return familyString
	case strings.HasPrefix(s, "Number("), strings.HasPrefix(s, "Math."), strings.HasPrefix(s, "parseInt("), strings.HasPrefix(s, "parseFloat("):
		return familyNumber
	case strings.HasPrefix(s, "faker.datatype.boolean"):
		return familyBoolean
	case strings.HasPrefix(s, "faker."):
		rest := strings.TrimPrefix(s, "faker.")
		if i := strings.IndexAny(rest, ".("); i > 0 {
			if f, ok := fakerModules[rest[:i]]; ok {
				return f
			}
		}
	}
	return familyUnknown
}

// compatible reports whether an expression of family f may stand in for a
// property declared with kind.
func compatible(kind entity.PrimitiveKind, f family) bool {
	if f == familyUnknown {
		return true
	}
	switch kind {
	case entity.PrimitiveString:
		return f == familyString
	case entity.PrimitiveNumber, entity.PrimitiveBigInt:
		return f == familyNumber
	case entity.PrimitiveBoolean:
		return f == familyBoolean
	case entity.PrimitiveDate:
		return f == familyDate
	case entity.PrimitiveNull:
		return f == familyNull
	}
	return true
}
