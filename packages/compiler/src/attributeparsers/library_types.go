package attributeparsers

import (
	"regexp"
	"strconv"
	"strings"

	"uibind-go/packages/compiler/src/output"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/xmltree"
)

var horizontalAlignments = map[string]string{
	"ALIGN_LEFT":         "AlignLeft",
	"ALIGN_CENTER":       "AlignCenter",
	"ALIGN_RIGHT":        "AlignRight",
	"ALIGN_JUSTIFY":      "AlignJustify",
	"ALIGN_DEFAULT":      "AlignDefault",
	"ALIGN_LOCALE_START": "AlignLocaleStart",
	"ALIGN_LOCALE_END":   "AlignLocaleEnd",
}

var verticalAlignments = map[string]string{
	"ALIGN_TOP":    "AlignTop",
	"ALIGN_MIDDLE": "AlignMiddle",
	"ALIGN_BOTTOM": "AlignBottom",
}

var textAlignments = map[string]string{
	"LEFT":    "TextAlignLeft",
	"CENTER":  "TextAlignCenter",
	"RIGHT":   "TextAlignRight",
	"JUSTIFY": "TextAlignJustify",
}

// ConstantParser maps a fixed table of names to package constants. Each name
// is also accepted in lower case without its ALIGN_ prefix.
type ConstantParser struct {
	converter *FieldReferenceConverter
	imports   *output.Imports
	constType *typeoracle.Type
	values    map[string]string
}

func newConstantParser(c *FieldReferenceConverter, imports *output.Imports, t *typeoracle.Type, table map[string]string) *ConstantParser {
	values := make(map[string]string, len(table)*2)
	for name, ident := range table {
		values[name] = ident
		short := strings.ToLower(strings.TrimPrefix(name, "ALIGN_"))
		values[short] = ident
	}
	return &ConstantParser{converter: c, imports: imports, constType: t, values: values}
}

// Parse implements AttributeParser
func (p *ConstantParser) Parse(elem *xmltree.Element, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", emptyValue(elem, "", p.constType)
	}
	if ident, ok := p.values[trimmed]; ok {
		return p.imports.Qualify(p.constType, ident), nil
	}
	return parseSingleReference(p.converter, elem, value, nil, p.constType)
}

var lengthRe = regexp.MustCompile(`^\s*(\{[^}]*\}|[+-]?[0-9]*\.?[0-9]+(?:[eE][+-]?[0-9]+)?)\s*(\{[^}]*\}|[a-zA-Z%]*)\s*$`)

var unitIdents = map[string]string{
	"px":  "UnitPX",
	"%":   "UnitPCT",
	"pct": "UnitPCT",
	"em":  "UnitEM",
	"ex":  "UnitEX",
	"pt":  "UnitPT",
	"pc":  "UnitPC",
	"in":  "UnitIN",
	"cm":  "UnitCM",
	"mm":  "UnitMM",
}

// LengthAttributeParser parses "<number><unit>" into a value and a unit
// argument. The unit defaults to pixels.
type LengthAttributeParser struct {
	converter *FieldReferenceConverter
	imports   *output.Imports
	doubles   AttributeParser
	unitType  *typeoracle.Type
}

// Parse implements AttributeParser
func (p *LengthAttributeParser) Parse(elem *xmltree.Element, value string) (string, error) {
	m := lengthRe.FindStringSubmatch(value)
	if m == nil {
		return "", elem.Error(util.AttributeError, "Unable to parse %q as a length in %s", value, elem)
	}
	number, err := p.doubles.Parse(elem, m[1])
	if err != nil {
		return "", err
	}
	unit := strings.TrimSpace(m[2])
	var unitExpr string
	switch {
	case unit == "":
		unitExpr = p.imports.Qualify(p.unitType, unitIdents["px"])
	case IsSingleReference(unit):
		unitExpr, err = parseSingleReference(p.converter, elem, unit, nil, p.unitType)
		if err != nil {
			return "", err
		}
	default:
		ident, ok := unitIdents[strings.ToLower(unit)]
		if !ok {
			return "", elem.Error(util.AttributeError, "Unknown unit %q in %q in %s", unit, value, elem)
		}
		unitExpr = p.imports.Qualify(p.unitType, ident)
	}
	return number + ", " + unitExpr, nil
}

// SafeHtmlAttributeParser accepts a SafeHtml reference or text that is
// trusted as a constant.
type SafeHtmlAttributeParser struct {
	converter    *FieldReferenceConverter
	imports      *output.Imports
	safeHtmlType *typeoracle.Type
	strings      AttributeParser
}

// Parse implements AttributeParser
func (p *SafeHtmlAttributeParser) Parse(elem *xmltree.Element, value string) (string, error) {
	if IsSingleReference(value) {
		return parseSingleReference(p.converter, elem, value, nil, p.safeHtmlType)
	}
	text, err := p.strings.Parse(elem, value)
	if err != nil {
		return "", err
	}
	return p.imports.Qualify(p.safeHtmlType, "FromTrustedString") + "(" + text + ")", nil
}

// SafeUriAttributeParser accepts a SafeUri reference, a constant URI or a
// concatenation that is sanitized at runtime.
type SafeUriAttributeParser struct {
	converter   *FieldReferenceConverter
	imports     *output.Imports
	safeUriType *typeoracle.Type
	strings     AttributeParser
}

// Parse implements AttributeParser
func (p *SafeUriAttributeParser) Parse(elem *xmltree.Element, value string) (string, error) {
	if IsSingleReference(value) {
		return parseSingleReference(p.converter, elem, value, nil, p.safeUriType)
	}
	if !HasFieldReferences(value) {
		return p.imports.Qualify(p.safeUriType, "URIFromConstant") + "(" + strconv.Quote(value) + ")", nil
	}
	text, err := p.strings.Parse(elem, value)
	if err != nil {
		return "", err
	}
	return p.imports.Qualify(p.safeUriType, "URIFromString") + "(" + text + ")", nil
}
