package attributeparsers

import (
	"math"
	"strconv"
	"strings"

	"uibind-go/packages/compiler/src/output"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/xmltree"
)

// delegate is a Delegate assembled from functions
type delegate struct {
	types     []*typeoracle.Type
	fragment  func(string) (string, error)
	reference func(string) string
	joiner    string
}

func (d *delegate) Types() []*typeoracle.Type { return d.types }

func (d *delegate) HandleFragment(fragment string) (string, error) {
	return d.fragment(fragment)
}

func (d *delegate) HandleReference(token string) string {
	if d.reference == nil {
		return token
	}
	return d.reference(token)
}

func (d *delegate) Joiner() string { return d.joiner }

func cannotParse(elem *xmltree.Element, value string, t ...*typeoracle.Type) error {
	names := make([]string, len(t))
	for i, typ := range t {
		names[i] = displayName(typ)
	}
	return elem.Error(util.AttributeError, "Cannot parse value: %q as type %s in %s", value, strings.Join(names, ", "), elem)
}

// parseSingleReference accepts exactly one {reference} and nothing else
func parseSingleReference(c *FieldReferenceConverter, elem *xmltree.Element, value string, wrap func(string) string, types ...*typeoracle.Type) (string, error) {
	if !IsSingleReference(value) {
		return "", cannotParse(elem, value, types...)
	}
	return c.Convert(elem, strings.TrimSpace(value), &delegate{
		types:     types,
		fragment:  func(string) (string, error) { return "", nil },
		reference: wrap,
	})
}

// StrictAttributeParser accepts only a single field reference
type StrictAttributeParser struct {
	converter *FieldReferenceConverter
	types     []*typeoracle.Type
}

// Parse implements AttributeParser
func (p *StrictAttributeParser) Parse(elem *xmltree.Element, value string) (string, error) {
	return parseSingleReference(p.converter, elem, value, nil, p.types...)
}

// BooleanAttributeParser accepts true, false or a reference
type BooleanAttributeParser struct {
	converter *FieldReferenceConverter
	boolType  *typeoracle.Type
}

// Parse implements AttributeParser
func (p *BooleanAttributeParser) Parse(elem *xmltree.Element, value string) (string, error) {
	switch strings.TrimSpace(value) {
	case "true", "false":
		return strings.TrimSpace(value), nil
	case "":
		return "", emptyValue(elem, "", p.boolType)
	}
	return parseSingleReference(p.converter, elem, value, nil, p.boolType)
}

// NumericAttributeParser accepts a numeric literal or a reference, which is
// cast to the target type.
type NumericAttributeParser struct {
	converter *FieldReferenceConverter
	numType   *typeoracle.Type
}

func bitSize(name string) int {
	for _, size := range []string{"8", "16", "32", "64"} {
		if strings.HasSuffix(name, size) {
			n, _ := strconv.Atoi(size)
			return n
		}
	}
	return 0
}

// Literal validates value as a literal of the target type and returns its
// canonical Go spelling.
func (p *NumericAttributeParser) Literal(value string) (string, bool) {
	value = strings.TrimSpace(value)
	name := p.numType.Name
	switch {
	case strings.HasPrefix(name, "float"):
		// Only finite decimal literals have a Go constant spelling.
		if strings.ContainsAny(value, "xX_") {
			return "", false
		}
		size := bitSize(name)
		f, err := strconv.ParseFloat(value, size)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return "", false
		}
		return strconv.FormatFloat(f, 'g', -1, size), true
	case strings.HasPrefix(name, "uint"):
		u, err := strconv.ParseUint(value, 10, bitSize(name))
		if err != nil {
			return "", false
		}
		return strconv.FormatUint(u, 10), true
	}
	i, err := strconv.ParseInt(value, 10, bitSize(name))
	if err != nil {
		return "", false
	}
	return strconv.FormatInt(i, 10), true
}

// Parse implements AttributeParser
func (p *NumericAttributeParser) Parse(elem *xmltree.Element, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", emptyValue(elem, "", p.numType)
	}
	if lit, ok := p.Literal(value); ok {
		return lit, nil
	}
	return parseSingleReference(p.converter, elem, value, func(token string) string {
		return p.numType.Name + "(" + token + ")"
	}, p.numType)
}

// BoxedAttributeParser parses the underlying value and takes its address
type BoxedAttributeParser struct {
	value     AttributeParser
	converter *FieldReferenceConverter
	boxedType *typeoracle.Type
}

// Parse implements AttributeParser
func (p *BoxedAttributeParser) Parse(elem *xmltree.Element, value string) (string, error) {
	if IsSingleReference(value) {
		return parseSingleReference(p.converter, elem, value, nil, p.boxedType)
	}
	expr, err := p.value.Parse(elem, value)
	if err != nil {
		return "", err
	}
	return output.Box(p.boxedType.Name, p.boxedType.Unboxed.Name+"("+expr+")"), nil
}

// StringAttributeParser quotes literal text and concatenates references
type StringAttributeParser struct {
	converter  *FieldReferenceConverter
	stringType *typeoracle.Type
}

// Parse implements AttributeParser
func (p *StringAttributeParser) Parse(elem *xmltree.Element, value string) (string, error) {
	if value == "" {
		return `""`, nil
	}
	return p.converter.Convert(elem, value, &delegate{
		types: []*typeoracle.Type{p.stringType},
		fragment: func(s string) (string, error) {
			return strconv.Quote(s), nil
		},
		joiner: " + ",
	})
}

// IntPairAttributeParser parses "x, y" into two int arguments
type IntPairAttributeParser struct {
	ints AttributeParser
}

// Parse implements AttributeParser
func (p *IntPairAttributeParser) Parse(elem *xmltree.Element, value string) (string, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return "", elem.Error(util.AttributeError, "Unable to parse %q as a pair of integers in %s", value, elem)
	}
	x, err := p.ints.Parse(elem, parts[0])
	if err != nil {
		return "", err
	}
	y, err := p.ints.Parse(elem, parts[1])
	if err != nil {
		return "", err
	}
	return x + ", " + y, nil
}

// EnumAttributeParser matches constant names case-sensitively, then falls
// back to a reference.
type EnumAttributeParser struct {
	converter *FieldReferenceConverter
	imports   *output.Imports
	enumType  *typeoracle.Type
}

// Parse implements AttributeParser
func (p *EnumAttributeParser) Parse(elem *xmltree.Element, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", emptyValue(elem, "", p.enumType)
	}
	for _, c := range p.enumType.EnumConstants {
		if c.Name == trimmed {
			return p.imports.Qualify(p.enumType, c.Ident), nil
		}
	}
	if !IsSingleReference(value) {
		names := make([]string, len(p.enumType.EnumConstants))
		for i, c := range p.enumType.EnumConstants {
			names[i] = c.Name
		}
		return "", elem.Error(util.AttributeError, "%q is not a constant of %s (expected one of %s) in %s",
			value, p.enumType.SimpleName(), strings.Join(names, ", "), elem)
	}
	return parseSingleReference(p.converter, elem, value, nil, p.enumType)
}
