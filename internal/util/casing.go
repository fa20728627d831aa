package util

import (
	"strings"
	"unicode"
)

// ToPascalCase converts snake_case, kebab-case, dotted or space separated
// names to PascalCase. Runs that are already capitalized are kept as-is
// (e.g., "HTTPServer" stays "HTTPServer", "user_profile" -> "UserProfile").
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' ' || r == '$'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			// Capitalize first letter, keep rest as-is
			runes := []rune(part)
			result.WriteRune(unicode.ToUpper(runes[0]))
			result.WriteString(string(runes[1:]))
		}
	}

	return result.String()
}

// IsIdentifier reports whether s is a valid JavaScript identifier made of
// ASCII letters, digits, '_' and '$'.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// QuoteSingle renders s as a single-quoted JavaScript string literal.
func QuoteSingle(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// PropertyKey renders name as an object literal key, quoting it when it
// is not a plain identifier.
func PropertyKey(name string) string {
	if IsIdentifier(name) {
		return name
	}
	return QuoteSingle(name)
}
