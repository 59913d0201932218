package elementparsers

import (
	"strconv"
	"strings"

	"uibind-go/packages/compiler/src/fields"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/xmltree"
)

// isA reports whether child instantiates a type assignable to want. Children
// that do not resolve are not.
func isA(w Writer, child *xmltree.Element, want *typeoracle.Type) bool {
	if want == nil || w.IsBinderElement(child) || !w.IsImportedElement(child) {
		return false
	}
	t, err := w.FindFieldType(child)
	if err != nil {
		return false
	}
	return w.Oracle().IsAssignable(t, want)
}

// MenuBarParser adds <MenuItem> and <MenuItemSeparator> children
type MenuBarParser struct{}

// Parse implements ElementParser
func (MenuBarParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	if !field.HasInitializer() {
		vertical, err := w.Parsers().ConsumeAttributeWithDefault(elem, "vertical", "false", prim(w, "bool"))
		if err != nil {
			return err
		}
		ctor, err := constructor(elem, typ, w, prim(w, "bool"))
		if err != nil {
			return err
		}
		if err := field.SetInitializer(ctor + "(" + vertical + ")"); err != nil {
			return err
		}
	}
	item, separator := uiType(w, "MenuItem"), uiType(w, "MenuItemSeparator")
	children, err := elem.ConsumeChildElements(nil)
	if err != nil {
		return err
	}
	for _, child := range children {
		switch {
		case isA(w, child, item):
			f, err := childField(w, elem, child, item)
			if err != nil {
				return err
			}
			field.AddStatement("%s.AddItem(%s)", field.Name(), use(f))
		case isA(w, child, separator):
			f, err := childField(w, elem, child, separator)
			if err != nil {
				return err
			}
			field.AddStatement("%s.AddSeparator(%s)", field.Name(), use(f))
		default:
			return child.Error(util.StructuralError, "Only MenuItem or MenuItemSeparator children are allowed in %s, found %s", elem, child)
		}
	}
	return nil
}

// MenuItemParser builds a menu item from its text attribute or its HTML
// body. A nested MenuBar becomes the item's sub menu.
type MenuItemParser struct{}

// Parse implements ElementParser
func (MenuItemParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	bar := uiType(w, "MenuBar")
	menus, err := elem.ConsumeChildElements(func(child *xmltree.Element) bool {
		return isA(w, child, bar)
	})
	if err != nil {
		return err
	}
	if len(menus) > 1 {
		return menus[1].Error(util.StructuralError, "%s may only have one sub menu", elem)
	}
	if !field.HasInitializer() {
		str, boolean := prim(w, "string"), prim(w, "bool")
		ctor, err := constructor(elem, typ, w, str, boolean)
		if err != nil {
			return err
		}
		text, hasText, err := w.Parsers().ConsumeAttribute(elem, "text", str)
		if err != nil {
			return err
		}
		asHTML, err := w.Parsers().ConsumeAttributeWithDefault(elem, "asHTML", "false", boolean)
		if err != nil {
			return err
		}
		if !hasText {
			text, asHTML = `""`, "false"
			if elem.HasChildNodes() {
				if text, err = renderHTML(w, elem); err != nil {
					return err
				}
				asHTML = "true"
			}
		}
		if err := field.SetInitializer(ctor + "(" + text + ", " + asHTML + ")"); err != nil {
			return err
		}
	}
	for _, menu := range menus {
		f, err := childField(w, elem, menu, bar)
		if err != nil {
			return err
		}
		field.AddStatement("%s.SetSubMenu(%s)", field.Name(), use(f))
	}
	return nil
}

// ListBoxParser adds <item value=".."> children as list entries
type ListBoxParser struct{}

// Parse implements ElementParser
func (ListBoxParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	children, err := elem.ConsumeChildElements(nil)
	if err != nil {
		return err
	}
	str := prim(w, "string")
	for _, child := range children {
		if !isChildTag(elem, child, "item") {
			return child.Error(util.StructuralError, "Only <item> children are allowed in %s, found %s", elem, child)
		}
		value, hasValue, err := w.Parsers().ConsumeAttribute(child, "value", str)
		if err != nil {
			return err
		}
		if err := child.AssertNoAttributes(); err != nil {
			return err
		}
		text, err := child.ConsumeUnescapedInnerText()
		if err != nil {
			return err
		}
		item := strconv.Quote(strings.TrimSpace(text))
		if hasValue {
			field.AddStatement("%s.AddItem(%s, %s)", field.Name(), item, value)
		} else {
			field.AddStatement("%s.AddItemText(%s)", field.Name(), item)
		}
	}
	return nil
}

// GridParser fills a grid from <row> children holding <cell> HTML cells and
// <customCell> widget cells. The grid is sized to the widest row first.
type GridParser struct{}

type gridCell struct {
	row, column int
	html        string
	widget      *fields.FieldWriter
	style       string
}

// Parse implements ElementParser
func (GridParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	rows, err := elem.ConsumeChildElements(nil)
	if err != nil {
		return err
	}
	str := prim(w, "string")
	var rowStyles []string
	var cells []gridCell
	columns := 0
	for r, row := range rows {
		if !isChildTag(elem, row, "row") {
			return row.Error(util.StructuralError, "Only <row> children are allowed in %s, found %s", elem, row)
		}
		style, _, err := w.Parsers().ConsumeAttribute(row, "styleName", str)
		if err != nil {
			return err
		}
		rowStyles = append(rowStyles, style)
		if err := row.AssertNoAttributes(); err != nil {
			return err
		}
		rowCells, err := row.ConsumeChildElements(nil)
		if err != nil {
			return err
		}
		for c, cellElem := range rowCells {
			cell := gridCell{row: r, column: c}
			cell.style, _, err = w.Parsers().ConsumeAttribute(cellElem, "styleName", str)
			if err != nil {
				return err
			}
			if err := cellElem.AssertNoAttributes(); err != nil {
				return err
			}
			switch {
			case isChildTag(elem, cellElem, "cell"):
				if cell.html, err = renderHTML(w, cellElem); err != nil {
					return err
				}
			case isChildTag(elem, cellElem, "customCell"):
				if cell.widget, err = singleWidget(w, cellElem); err != nil {
					return err
				}
			default:
				return cellElem.Error(util.StructuralError, "Only <cell> or <customCell> children are allowed in %s, found %s", row, cellElem)
			}
			cells = append(cells, cell)
		}
		if len(rowCells) > columns {
			columns = len(rowCells)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	field.AddStatement("%s.Resize(%d, %d)", field.Name(), len(rows), columns)
	for r, style := range rowStyles {
		if style != "" {
			field.AddStatement("%s.SetRowStyleName(%d, %s)", field.Name(), r, style)
		}
	}
	for _, cell := range cells {
		if cell.widget != nil {
			field.AddStatement("%s.SetWidgetAt(%d, %d, %s)", field.Name(), cell.row, cell.column, use(cell.widget))
		} else {
			field.AddStatement("%s.SetHTMLAt(%d, %d, %s)", field.Name(), cell.row, cell.column, cell.html)
		}
		if cell.style != "" {
			field.AddStatement("%s.SetCellStyleName(%d, %d, %s)", field.Name(), cell.row, cell.column, cell.style)
		}
	}
	return nil
}

var buttonFaces = []string{"upFace", "downFace", "upHoveringFace", "downHoveringFace", "upDisabledFace", "downDisabledFace"}

// CustomButtonParser handles the face tags of a custom button. A face takes
// an image resource, HTML content, or both.
type CustomButtonParser struct{}

// Parse implements ElementParser
func (CustomButtonParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	isFace := func(child *xmltree.Element) bool {
		for _, face := range buttonFaces {
			if isChildTag(elem, child, face) {
				return true
			}
		}
		return false
	}
	faces, err := elem.ConsumeChildElements(isFace)
	if err != nil {
		return err
	}
	image := w.Oracle().FindType(resourcesPackage, "ImageResource")
	seen := map[string]bool{}
	for _, face := range faces {
		if seen[face.LocalName()] {
			return face.Error(util.StructuralError, "Only one <%s> is allowed in %s", face.QualifiedName(), elem)
		}
		seen[face.LocalName()] = true
		method := "Set" + util.Capitalize(face.LocalName())
		res, ok, err := w.Parsers().ConsumeAttribute(face, "image", image)
		if err != nil {
			return err
		}
		if ok {
			field.AddStatement("%s.%sImage(%s)", field.Name(), method, res)
		}
		if err := face.AssertNoAttributes(); err != nil {
			return err
		}
		if face.HasChildNodes() {
			html, err := renderHTML(w, face)
			if err != nil {
				return err
			}
			field.AddStatement("%s.%s(%s)", field.Name(), method, html)
		}
	}
	return nil
}

// HasTreeItemsParser adds TreeItem children. A tree item may also hold a
// single widget; other markup is left to the HTML parser.
type HasTreeItemsParser struct{}

// Parse implements ElementParser
func (HasTreeItemsParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	children, err := elem.ConsumeChildElements(func(child *xmltree.Element) bool {
		return !w.IsBinderElement(child) && w.IsImportedElement(child)
	})
	if err != nil {
		return err
	}
	item := uiType(w, "TreeItem")
	setWidget := typeoracle.FindMethod(typ, "SetWidget")
	hasWidget := false
	for _, child := range children {
		if isA(w, child, item) {
			f, err := childField(w, elem, child, item)
			if err != nil {
				return err
			}
			field.AddStatement("%s.AddItem(%s)", field.Name(), use(f))
			continue
		}
		if setWidget == nil {
			return child.Error(util.StructuralError, "Only TreeItem children are allowed in %s, found %s", elem, child)
		}
		if hasWidget {
			return child.Error(util.StructuralError, "%s may only hold one widget, found %s", elem, child)
		}
		hasWidget = true
		f, err := childField(w, elem, child, setWidget.Params[0].Type)
		if err != nil {
			return err
		}
		field.AddStatement("%s.SetWidget(%s)", field.Name(), use(f))
	}
	return nil
}
