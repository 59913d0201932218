// Package attributeparsers resolves raw attribute text into typed Go
// expressions: literals, enum constants and validated field references.
package attributeparsers

import (
	"strings"

	"uibind-go/packages/compiler/src/fields"
	"uibind-go/packages/compiler/src/output"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/widgets"
	"uibind-go/packages/compiler/src/xmltree"
)

// AttributeParser converts an attribute value into an expression
type AttributeParser interface {
	Parse(elem *xmltree.Element, value string) (string, error)
}

// Key returns the canonical signature of a type list: primitives verbatim,
// object types by qualified name, joined by commas.
func Key(types ...*typeoracle.Type) string {
	keys := make([]string, len(types))
	for i, t := range types {
		keys[i] = t.Key()
	}
	return strings.Join(keys, ",")
}

// Parsers is the parser registry of one compilation unit
type Parsers struct {
	oracle    typeoracle.Oracle
	imports   *output.Imports
	converter *FieldReferenceConverter
	parsers   map[string]AttributeParser
}

// NewParsers builds the registry. Parsers for library types are registered
// only when the oracle knows those types.
func NewParsers(oracle typeoracle.Oracle, fm *fields.FieldManager, imports *output.Imports) *Parsers {
	p := &Parsers{
		oracle:    oracle,
		imports:   imports,
		converter: NewFieldReferenceConverter(fm),
		parsers:   map[string]AttributeParser{},
	}
	prim := func(name string) *typeoracle.Type { return oracle.FindType("", name) }

	p.parsers["bool"] = &BooleanAttributeParser{converter: p.converter, boolType: prim("bool")}
	p.parsers["string"] = &StringAttributeParser{converter: p.converter, stringType: prim("string")}
	for _, name := range typeoracle.PrimitiveNames {
		t := prim(name)
		if !t.IsNumeric() {
			continue
		}
		numeric := &NumericAttributeParser{converter: p.converter, numType: t}
		p.parsers[name] = numeric
		boxed := prim("*" + name)
		p.parsers[boxed.Key()] = &BoxedAttributeParser{value: numeric, converter: p.converter, boxedType: boxed}
	}
	p.parsers["*bool"] = &BoxedAttributeParser{value: p.parsers["bool"], converter: p.converter, boxedType: prim("*bool")}
	intType := prim("int")
	p.parsers[Key(intType, intType)] = &IntPairAttributeParser{ints: p.parsers["int"]}

	if unit := oracle.FindType(widgets.UIPackage, "Unit"); unit != nil {
		p.parsers[Key(prim("float64"), unit)] = &LengthAttributeParser{
			converter: p.converter, imports: imports, doubles: p.parsers["float64"], unitType: unit,
		}
	}
	if t := oracle.FindType(widgets.UIPackage, "HorizontalAlignmentConstant"); t != nil {
		p.parsers[t.Key()] = newConstantParser(p.converter, imports, t, horizontalAlignments)
	}
	if t := oracle.FindType(widgets.UIPackage, "VerticalAlignmentConstant"); t != nil {
		p.parsers[t.Key()] = newConstantParser(p.converter, imports, t, verticalAlignments)
	}
	if t := oracle.FindType(widgets.DomPackage, "TextAlign"); t != nil {
		p.parsers[t.Key()] = newConstantParser(p.converter, imports, t, textAlignments)
	}
	if t := oracle.FindType(widgets.SafeHtmlPackage, "SafeHtml"); t != nil {
		p.parsers[t.Key()] = &SafeHtmlAttributeParser{
			converter: p.converter, imports: imports, safeHtmlType: t, strings: p.parsers["string"],
		}
	}
	if t := oracle.FindType(widgets.SafeHtmlPackage, "SafeUri"); t != nil {
		p.parsers[t.Key()] = &SafeUriAttributeParser{
			converter: p.converter, imports: imports, safeUriType: t, strings: p.parsers["string"],
		}
	}
	return p
}

// Get returns the parser for types. With no registered composite and a single
// type it falls back to the enum parser or the strict reference parser.
func (p *Parsers) Get(types ...*typeoracle.Type) AttributeParser {
	if parser, ok := p.parsers[Key(types...)]; ok {
		return parser
	}
	if len(types) == 1 {
		if types[0].IsEnum() {
			return &EnumAttributeParser{converter: p.converter, imports: p.imports, enumType: types[0]}
		}
		return &StrictAttributeParser{converter: p.converter, types: types}
	}
	return &StrictAttributeParser{converter: p.converter, types: types}
}

// Register installs a parser for a type signature
func (p *Parsers) Register(parser AttributeParser, types ...*typeoracle.Type) {
	p.parsers[Key(types...)] = parser
}

// Converter exposes the field reference converter
func (p *Parsers) Converter() *FieldReferenceConverter {
	return p.converter
}

// ConsumeAttribute consumes and parses an optional attribute
func (p *Parsers) ConsumeAttribute(elem *xmltree.Element, name string, types ...*typeoracle.Type) (string, bool, error) {
	value, ok := elem.ConsumeRawAttribute(name)
	if !ok {
		return "", false, nil
	}
	expr, err := p.Get(types...).Parse(elem, value)
	if err != nil {
		return "", true, err
	}
	return expr, true, nil
}

// ConsumeAttributeWithDefault consumes and parses an attribute, returning def
// when it is absent.
func (p *Parsers) ConsumeAttributeWithDefault(elem *xmltree.Element, name, def string, types ...*typeoracle.Type) (string, error) {
	expr, ok, err := p.ConsumeAttribute(elem, name, types...)
	if err != nil || !ok {
		return def, err
	}
	return expr, nil
}

// ConsumeRequiredAttribute consumes and parses an attribute that must be
// present and non-empty.
func (p *Parsers) ConsumeRequiredAttribute(elem *xmltree.Element, name string, types ...*typeoracle.Type) (string, error) {
	value, err := elem.ConsumeRequiredRawAttribute(name)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(value) == "" {
		return "", emptyValue(elem, name, types...)
	}
	return p.Get(types...).Parse(elem, value)
}

func emptyValue(elem *xmltree.Element, name string, types ...*typeoracle.Type) error {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = displayName(t)
	}
	if name == "" {
		return elem.Error(util.AttributeError, "Cannot use empty value as type %s in %s", strings.Join(names, ", "), elem)
	}
	return elem.Error(util.AttributeError, "Cannot use empty value as type %s for attribute %q in %s",
		strings.Join(names, ", "), name, elem)
}

// displayName spells a type the way diagnostics show it
func displayName(t *typeoracle.Type) string {
	if t.IsString() {
		return "String"
	}
	return t.SimpleName()
}
