package elementparsers

import (
	"strconv"
	"strings"

	"uibind-go/packages/compiler/src/fields"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/xmltree"
)

// UIObjectParser handles the attributes every UIObject accepts beyond plain
// setters.
type UIObjectParser struct{}

var styleListAttributes = []struct{ attr, method string }{
	{"addStyleNames", "AddStyleName"},
	{"addStyleDependentNames", "AddStyleDependentName"},
}

// Parse implements ElementParser
func (UIObjectParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	str := prim(w, "string")
	debugID, ok, err := w.Parsers().ConsumeAttribute(elem, "debugId", str)
	if err != nil {
		return err
	}
	if ok {
		field.AddStatement("%s.EnsureDebugID(%s)", field.Name(), debugID)
	}
	if elem.HasAttribute("styleName") && elem.HasAttribute("stylePrimaryName") {
		return elem.Error(util.AttributeError, "Cannot set both styleName and stylePrimaryName in %s", elem)
	}
	for _, list := range styleListAttributes {
		value, ok := elem.ConsumeRawAttribute(list.attr)
		if !ok {
			continue
		}
		for _, name := range strings.Split(value, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			expr, err := w.Parsers().Get(str).Parse(elem, name)
			if err != nil {
				return err
			}
			field.AddStatement("%s.%s(%s)", field.Name(), list.method, expr)
		}
	}
	return nil
}

// HasTextParser sets the body of the element, rendered as plain text, as the
// widget's text.
type HasTextParser struct{}

// Parse implements ElementParser
func (HasTextParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	if !elem.HasChildNodes() {
		return nil
	}
	text, err := NewTextRenderer(w, TextInterpreters()...).RenderInner(elem)
	if err != nil {
		return err
	}
	field.AddStatement("%s.SetText(%s)", field.Name(), strconv.Quote(strings.TrimSpace(text)))
	return nil
}

// HasHTMLParser sets the body of the element, rendered as HTML, as the
// widget's HTML.
type HasHTMLParser struct{}

// Parse implements ElementParser
func (HasHTMLParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	if !elem.HasChildNodes() {
		return nil
	}
	html, err := renderHTML(w, elem)
	if err != nil {
		return err
	}
	field.AddStatement("%s.SetHTML(%s)", field.Name(), html)
	return nil
}

// renderHTML renders the body of elem as a quoted HTML literal, without DOM
// fields or widgets.
func renderHTML(w Writer, elem *xmltree.Element) (string, error) {
	html, err := NewHTMLRenderer(w, HTMLInterpreters(nil, false, false)...).RenderInner(elem)
	if err != nil {
		return "", err
	}
	return strconv.Quote(strings.TrimSpace(html)), nil
}

// HasWidgetsParser adds every child element as a widget
type HasWidgetsParser struct{}

// Parse implements ElementParser
func (HasWidgetsParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	children, err := elem.ConsumeChildElements(nil)
	if err != nil {
		return err
	}
	for _, child := range children {
		f, err := childField(w, elem, child, uiType(w, "IsWidget"))
		if err != nil {
			return err
		}
		field.AddStatement("%s.Add(%s)", field.Name(), use(f))
	}
	return nil
}

// HasAlignmentParser reads the alignment constants of aligned panels
type HasAlignmentParser struct{}

// Parse implements ElementParser
func (HasAlignmentParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	for _, a := range []struct{ attr, typ, method string }{
		{"horizontalAlignment", "HorizontalAlignmentConstant", "SetHorizontalAlignment"},
		{"verticalAlignment", "VerticalAlignmentConstant", "SetVerticalAlignment"},
	} {
		expr, ok, err := w.Parsers().ConsumeAttribute(elem, a.attr, uiType(w, a.typ))
		if err != nil {
			return err
		}
		if ok {
			field.AddStatement("%s.%s(%s)", field.Name(), a.method, expr)
		}
	}
	return nil
}

// ImageParser builds images from an image resource
type ImageParser struct{}

// Parse implements ElementParser
func (ImageParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	if !elem.HasAttribute("resource") {
		return nil
	}
	resource := w.Oracle().FindType(resourcesPackage, "ImageResource")
	expr, err := w.Parsers().ConsumeRequiredAttribute(elem, "resource", resource)
	if err != nil {
		return err
	}
	if field.HasInitializer() {
		field.AddStatement("%s.SetResource(%s)", field.Name(), expr)
		return nil
	}
	ctor := w.Oracle().FindConstructor(typ, []*typeoracle.Type{resource})
	if ctor == nil {
		return elem.Error(util.SymbolError, "%s has no constructor taking an ImageResource", typ.SimpleName())
	}
	return field.SetInitializer(w.Imports().Qualify(typ, ctor.Name) + "(" + expr + ")")
}

// DomElementParser builds a DOM element, with its whole subtree, from
// markup. ui:field descendants are looked up once the element is attached.
type DomElementParser struct{}

// Parse implements ElementParser
func (DomElementParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	if field.HasInitializer() {
		return elem.Error(util.StructuralError, "DOM element %s cannot be provided", elem)
	}
	w.BeginAttachedSection(field.Name())
	html, err := NewHTMLRenderer(w, HTMLInterpreters(nil, false, true)...).RenderOuter(elem)
	w.EndAttachedSection()
	if err != nil {
		return err
	}
	expr := uiFunc(w, "ElementFromHTML") + "(" + strconv.Quote(html) + ")"
	if typ.Name != "Element" {
		expr = w.Imports().Qualify(typ, "As"+typ.GoName()) + "(" + expr + ")"
	}
	return field.SetInitializer(expr)
}
