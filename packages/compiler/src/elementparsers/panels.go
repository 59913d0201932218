package elementparsers

import (
	"strconv"
	"strings"

	"uibind-go/packages/compiler/src/fields"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/xmltree"
)

// htmlPanel renders the body of a panel as HTML holding widgets and DOM
// fields, inside an attach section on the panel's element.
func htmlPanel(elem *xmltree.Element, field *fields.FieldWriter, w Writer, stamped bool) (string, error) {
	if field.HasInitializer() {
		return "", elem.Error(util.StructuralError, "%s builds its content from the template and cannot be provided", elem)
	}
	w.BeginAttachedSection(field.Name() + ".Element()")
	defer w.EndAttachedSection()
	html, err := NewHTMLRenderer(w, HTMLInterpreters(field, stamped, true)...).RenderInner(elem)
	if err != nil {
		return "", err
	}
	return strconv.Quote(strings.TrimSpace(html)), nil
}

func constructor(elem *xmltree.Element, typ *typeoracle.Type, w Writer, params ...*typeoracle.Type) (string, error) {
	ctor := w.Oracle().FindConstructor(typ, params)
	if ctor == nil {
		keys := make([]string, len(params))
		for i, p := range params {
			keys[i] = p.Key()
		}
		return "", elem.Error(util.SymbolError, "%s has no constructor taking (%s)", typ.SimpleName(), strings.Join(keys, ", "))
	}
	return w.Imports().Qualify(typ, ctor.Name), nil
}

// HTMLPanelParser builds an HTMLPanel from its HTML body. Widgets in the body
// replace placeholders once the panel is attached.
type HTMLPanelParser struct{}

// Parse implements ElementParser
func (HTMLPanelParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	str := prim(w, "string")
	tag, hasTag, err := w.Parsers().ConsumeAttribute(elem, "tag", str)
	if err != nil {
		return err
	}
	html, err := htmlPanel(elem, field, w, false)
	if err != nil {
		return err
	}
	if hasTag {
		ctor, err := constructor(elem, typ, w, str, str)
		if err != nil {
			return err
		}
		return field.SetInitializer(ctor + "(" + tag + ", " + html + ")")
	}
	ctor, err := constructor(elem, typ, w, str)
	if err != nil {
		return err
	}
	return field.SetInitializer(ctor + "(" + html + ")")
}

// RenderablePanelParser builds a RenderablePanel. Child widgets are stamped
// into the HTML and claim their elements on attach.
type RenderablePanelParser struct{}

// Parse implements ElementParser
func (RenderablePanelParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	safeHtml := w.Oracle().FindType(safeHtmlPackage, "SafeHtml")
	html, err := htmlPanel(elem, field, w, true)
	if err != nil {
		return err
	}
	ctor, err := constructor(elem, typ, w, safeHtml)
	if err != nil {
		return err
	}
	trusted := w.Imports().Add(safeHtmlPackage, "safehtml") + ".FromTrustedString(" + html + ")"
	return field.SetInitializer(ctor + "(" + trusted + ")")
}

var dockDirections = map[string]string{
	"north":     "AddNorth",
	"south":     "AddSouth",
	"east":      "AddEast",
	"west":      "AddWest",
	"lineStart": "AddLineStart",
	"lineEnd":   "AddLineEnd",
}

// DockLayoutPanelParser handles <north size="..">, <center> and the other
// direction tags.
type DockLayoutPanelParser struct{}

// Parse implements ElementParser
func (DockLayoutPanelParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	children, err := elem.ConsumeChildElements(nil)
	if err != nil {
		return err
	}
	centers := 0
	for _, child := range children {
		if child.Namespace() != elem.Namespace() {
			return child.Error(util.StructuralError, "Expected a direction tag in %s, found %s", elem, child)
		}
		if child.LocalName() == "center" {
			centers++
			if centers > 1 {
				return child.Error(util.StructuralError, "Only one <%s> is allowed in %s", child.QualifiedName(), elem)
			}
			widget, err := singleWidget(w, child)
			if err != nil {
				return err
			}
			if err := child.AssertNoAttributes(); err != nil {
				return err
			}
			field.AddStatement("%s.Add(%s)", field.Name(), use(widget))
			continue
		}
		method, ok := dockDirections[child.LocalName()]
		if !ok {
			return child.Error(util.StructuralError, "Unknown direction tag %s in %s", child, elem)
		}
		size, err := w.Parsers().ConsumeRequiredAttribute(child, "size", prim(w, "float64"))
		if err != nil {
			return err
		}
		if err := child.AssertNoAttributes(); err != nil {
			return err
		}
		widget, err := singleWidget(w, child)
		if err != nil {
			return err
		}
		field.AddStatement("%s.%s(%s, %s)", field.Name(), method, use(widget), size)
	}
	return nil
}

// headerOf reads a <header size=".."> or <customHeader size=".."> tag. It
// returns the header widget, or the quoted HTML of a plain header.
func headerOf(w Writer, parent, tag *xmltree.Element, sized bool) (html string, widget *fields.FieldWriter, size string, err error) {
	if sized {
		size, err = w.Parsers().ConsumeRequiredAttribute(tag, "size", prim(w, "float64"))
		if err != nil {
			return "", nil, "", err
		}
	}
	if err := tag.AssertNoAttributes(); err != nil {
		return "", nil, "", err
	}
	if isChildTag(parent, tag, "customHeader") {
		widget, err = singleWidget(w, tag)
		return "", widget, size, err
	}
	html, err = renderHTML(w, tag)
	return html, nil, size, err
}

// stackChild splits a <stack> or <tab> into its header tag and content widget
func stackChild(w Writer, parent, item *xmltree.Element) (*xmltree.Element, *fields.FieldWriter, error) {
	if err := item.AssertNoAttributes(); err != nil {
		return nil, nil, err
	}
	children, err := item.ConsumeChildElements(nil)
	if err != nil {
		return nil, nil, err
	}
	var header *xmltree.Element
	var content *fields.FieldWriter
	for _, c := range children {
		if isChildTag(parent, c, "header") || isChildTag(parent, c, "customHeader") {
			if header != nil {
				return nil, nil, c.Error(util.StructuralError, "%s may only have one header", item)
			}
			header = c
			continue
		}
		if content != nil {
			return nil, nil, c.Error(util.StructuralError, "%s may only have one widget, found %s", item, c)
		}
		content, err = childField(w, item, c, uiType(w, "IsWidget"))
		if err != nil {
			return nil, nil, err
		}
	}
	if header == nil || content == nil {
		return nil, nil, item.Error(util.StructuralError, "%s must have a header and a widget", item)
	}
	return header, content, nil
}

// StackLayoutPanelParser handles <stack> children holding a header and a
// widget.
type StackLayoutPanelParser struct{}

// Parse implements ElementParser
func (StackLayoutPanelParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	children, err := elem.ConsumeChildElements(nil)
	if err != nil {
		return err
	}
	for _, child := range children {
		if !isChildTag(elem, child, "stack") {
			return child.Error(util.StructuralError, "Only <stack> children are allowed in %s, found %s", elem, child)
		}
		header, content, err := stackChild(w, elem, child)
		if err != nil {
			return err
		}
		html, widget, size, err := headerOf(w, elem, header, true)
		if err != nil {
			return err
		}
		if widget != nil {
			field.AddStatement("%s.AddStackWidget(%s, %s, %s)", field.Name(), use(content), use(widget), size)
		} else {
			field.AddStatement("%s.AddStack(%s, %s, true, %s)", field.Name(), use(content), html, size)
		}
	}
	return nil
}

// TabLayoutPanelParser handles <tab> children holding a header and a widget
type TabLayoutPanelParser struct{}

// Parse implements ElementParser
func (TabLayoutPanelParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	children, err := elem.ConsumeChildElements(nil)
	if err != nil {
		return err
	}
	for _, child := range children {
		if !isChildTag(elem, child, "tab") {
			return child.Error(util.StructuralError, "Only <tab> children are allowed in %s, found %s", elem, child)
		}
		header, content, err := stackChild(w, elem, child)
		if err != nil {
			return err
		}
		html, widget, _, err := headerOf(w, elem, header, false)
		if err != nil {
			return err
		}
		if widget != nil {
			field.AddStatement("%s.AddTabWidget(%s, %s)", field.Name(), use(content), use(widget))
		} else {
			field.AddStatement("%s.AddTab(%s, %s, true)", field.Name(), use(content), html)
		}
	}
	return nil
}

var layerPairs = [][][2]string{
	{{"left", "width"}, {"left", "right"}, {"right", "width"}},
	{{"top", "height"}, {"top", "bottom"}, {"bottom", "height"}},
}

// LayoutPanelParser handles <layer> children positioned by two of left,
// right and width and two of top, bottom and height.
type LayoutPanelParser struct{}

// Parse implements ElementParser
func (LayoutPanelParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	children, err := elem.ConsumeChildElements(nil)
	if err != nil {
		return err
	}
	length := []*typeoracle.Type{prim(w, "float64"), uiType(w, "Unit")}
	for _, child := range children {
		if !isChildTag(elem, child, "layer") {
			return child.Error(util.StructuralError, "Only <layer> children are allowed in %s, found %s", elem, child)
		}
		var calls []string
		for _, pairs := range layerPairs {
			pair, err := pickPair(child, pairs)
			if err != nil {
				return err
			}
			if pair == nil {
				continue
			}
			a, err := w.Parsers().ConsumeRequiredAttribute(child, pair[0], length...)
			if err != nil {
				return err
			}
			b, err := w.Parsers().ConsumeRequiredAttribute(child, pair[1], length...)
			if err != nil {
				return err
			}
			method := "SetWidget" + util.Capitalize(pair[0]) + util.Capitalize(pair[1])
			calls = append(calls, method+"(%[1]s, "+a+", "+b+")")
		}
		if err := child.AssertNoAttributes(); err != nil {
			return err
		}
		widget, err := singleWidget(w, child)
		if err != nil {
			return err
		}
		name := use(widget)
		field.AddStatement("%s.Add(%s)", field.Name(), name)
		for _, call := range calls {
			field.AddStatement("%s.%s", field.Name(), strings.ReplaceAll(call, "%[1]s", name))
		}
	}
	return nil
}

// pickPair returns the pair of attributes elem sets. Setting a single
// attribute of the group, or more than two, is an error.
func pickPair(elem *xmltree.Element, pairs [][2]string) (*[2]string, error) {
	var set []string
	seen := map[string]bool{}
	for _, pair := range pairs {
		for _, name := range pair {
			if !seen[name] && elem.HasAttribute(name) {
				set = append(set, name)
			}
			seen[name] = true
		}
	}
	if len(set) == 0 {
		return nil, nil
	}
	for _, pair := range pairs {
		if len(set) == 2 && pair[0] == set[0] && pair[1] == set[1] {
			p := pair
			return &p, nil
		}
	}
	names := make([]string, 0, len(seen))
	for _, pair := range pairs {
		names = append(names, pair[0]+"/"+pair[1])
	}
	return nil, elem.Error(util.AttributeError, "%s must set exactly one of %s", elem, strings.Join(names, ", "))
}

// AbsolutePanelParser handles <at left=".." top=".."> children and plain
// widgets.
type AbsolutePanelParser struct{}

// Parse implements ElementParser
func (AbsolutePanelParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	children, err := elem.ConsumeChildElements(nil)
	if err != nil {
		return err
	}
	integer := prim(w, "int")
	for _, child := range children {
		if !isChildTag(elem, child, "at") {
			widget, err := childField(w, elem, child, uiType(w, "IsWidget"))
			if err != nil {
				return err
			}
			field.AddStatement("%s.Add(%s)", field.Name(), use(widget))
			continue
		}
		left, err := w.Parsers().ConsumeRequiredAttribute(child, "left", integer)
		if err != nil {
			return err
		}
		top, err := w.Parsers().ConsumeRequiredAttribute(child, "top", integer)
		if err != nil {
			return err
		}
		if err := child.AssertNoAttributes(); err != nil {
			return err
		}
		widget, err := singleWidget(w, child)
		if err != nil {
			return err
		}
		field.AddStatement("%s.AddAt(%s, %s, %s)", field.Name(), use(widget), left, top)
	}
	return nil
}

var cellAttributes = []struct{ attr, typ, method string }{
	{"width", "string", "SetCellWidth"},
	{"height", "string", "SetCellHeight"},
	{"horizontalAlignment", "HorizontalAlignmentConstant", "SetCellHorizontalAlignment"},
	{"verticalAlignment", "VerticalAlignmentConstant", "SetCellVerticalAlignment"},
}

// CellPanelParser handles <cell> children carrying cell layout and plain
// widgets. Panels with directions also accept <Dock direction="..">.
type CellPanelParser struct{}

// Parse implements ElementParser
func (CellPanelParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	children, err := elem.ConsumeChildElements(nil)
	if err != nil {
		return err
	}
	for _, child := range children {
		switch {
		case isChildTag(elem, child, "cell"):
			if err := cell(w, field, child, "%s.Add(%s)"); err != nil {
				return err
			}
		case isChildTag(elem, child, "Dock"):
			addAt := typeoracle.FindMethod(typ, "AddAt")
			if addAt == nil || len(addAt.Params) != 2 {
				return child.Error(util.StructuralError, "%s does not accept %s", elem, child)
			}
			direction, err := w.Parsers().ConsumeRequiredAttribute(child, "direction", addAt.Params[1].Type)
			if err != nil {
				return err
			}
			if err := cell(w, field, child, "%s.AddAt(%s, "+direction+")"); err != nil {
				return err
			}
		default:
			widget, err := childField(w, elem, child, uiType(w, "IsWidget"))
			if err != nil {
				return err
			}
			field.AddStatement("%s.Add(%s)", field.Name(), use(widget))
		}
	}
	return nil
}

// cell adds the widget of a cell tag with add, a format taking the panel
// and the widget, then applies the cell attributes.
func cell(w Writer, field *fields.FieldWriter, tag *xmltree.Element, add string) error {
	var settings []string
	for _, a := range cellAttributes {
		t := prim(w, a.typ)
		if t == nil {
			t = uiType(w, a.typ)
		}
		expr, ok, err := w.Parsers().ConsumeAttribute(tag, a.attr, t)
		if err != nil {
			return err
		}
		if ok {
			settings = append(settings, a.method, expr)
		}
	}
	if err := tag.AssertNoAttributes(); err != nil {
		return err
	}
	widget, err := singleWidget(w, tag)
	if err != nil {
		return err
	}
	name := use(widget)
	field.AddStatement(add, field.Name(), name)
	for i := 0; i < len(settings); i += 2 {
		field.AddStatement("%s.%s(%s, %s)", field.Name(), settings[i], name, settings[i+1])
	}
	return nil
}

// DisclosurePanelParser handles the <header> or <customHeader> tag and the
// content widget.
type DisclosurePanelParser struct{}

// Parse implements ElementParser
func (DisclosurePanelParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	children, err := elem.ConsumeChildElements(nil)
	if err != nil {
		return err
	}
	var content bool
	for _, child := range children {
		switch {
		case isChildTag(elem, child, "header"):
			if err := headerImages(w, field, child); err != nil {
				return err
			}
			text, err := child.ConsumeUnescapedInnerText()
			if err != nil {
				return err
			}
			field.AddStatement("%s.SetHeaderText(%s)", field.Name(), strconv.Quote(strings.TrimSpace(text)))
		case isChildTag(elem, child, "customHeader"):
			if err := child.AssertNoAttributes(); err != nil {
				return err
			}
			widget, err := singleWidget(w, child)
			if err != nil {
				return err
			}
			field.AddStatement("%s.SetHeader(%s)", field.Name(), use(widget))
		default:
			if content {
				return child.Error(util.StructuralError, "%s may only have one content widget, found %s", elem, child)
			}
			content = true
			widget, err := childField(w, elem, child, uiType(w, "Widget"))
			if err != nil {
				return err
			}
			field.AddStatement("%s.SetContent(%s)", field.Name(), use(widget))
		}
	}
	return nil
}

func headerImages(w Writer, field *fields.FieldWriter, header *xmltree.Element) error {
	if !header.HasAttribute("openImage") && !header.HasAttribute("closedImage") {
		return header.AssertNoAttributes()
	}
	image := w.Oracle().FindType(resourcesPackage, "ImageResource")
	open, err := w.Parsers().ConsumeRequiredAttribute(header, "openImage", image)
	if err != nil {
		return err
	}
	closed, err := w.Parsers().ConsumeRequiredAttribute(header, "closedImage", image)
	if err != nil {
		return err
	}
	field.AddStatement("%s.SetHeaderImages(%s, %s)", field.Name(), open, closed)
	return header.AssertNoAttributes()
}
