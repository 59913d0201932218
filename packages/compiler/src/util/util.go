package util

import (
	"go/token"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"uibind-go/packages/compiler/src/core"
)

var dashCaseRegexp = regexp.MustCompile(`-+([a-z0-9])`)

// DashCaseToCamelCase converts a dash-case string to camelCase
func DashCaseToCamelCase(input string) string {
	return dashCaseRegexp.ReplaceAllStringFunc(input, func(match string) string {
		parts := dashCaseRegexp.FindStringSubmatch(match)
		if len(parts) > 1 {
			return strings.ToUpper(parts[1])
		}
		return match
	})
}

// Capitalize upper-cases the first rune of s
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Uncapitalize lower-cases the first rune of s
func Uncapitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// ExportedName converts a property or CSS class name to the exported method
// name the target model uses for it: "my-class" -> "MyClass".
func ExportedName(name string) string {
	if name == "" {
		return name
	}
	return Capitalize(DashCaseToCamelCase(strings.ToLower(name[:1]) + name[1:]))
}

// SplitAtPeriod splits a string at the first period
func SplitAtPeriod(input string, defaultValues []string) []string {
	index := strings.IndexRune(input, '.')
	if index == -1 {
		return defaultValues
	}
	return []string{
		strings.TrimSpace(input[:index]),
		strings.TrimSpace(input[index+1:]),
	}
}

// SanitizeIdentifier turns name into a legal Go identifier. Illegal characters
// become underscores, a leading digit gets an underscore prefix and Go keywords
// get an underscore suffix.
func SanitizeIdentifier(name string) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0 && !core.IsIdentifierStart(int(r)):
			if core.IsDigit(int(r)) {
				b.WriteRune('_')
				b.WriteRune(r)
			} else {
				b.WriteRune('_')
			}
		case core.IsIdentifierPart(int(r)):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	ident := b.String()
	if token.IsKeyword(ident) || predeclared[ident] {
		ident += "_"
	}
	return ident
}

// IsLegalIdentifier reports whether name can be used verbatim as a generated local
func IsLegalIdentifier(name string) bool {
	return token.IsIdentifier(name) && !predeclared[name]
}

// names the generated program relies on and must not be shadowed
var predeclared = map[string]bool{
	"owner":  true,
	"string": true,
	"int":    true,
	"bool":   true,
	"nil":    true,
	"true":   true,
	"false":  true,
	"len":    true,
}
