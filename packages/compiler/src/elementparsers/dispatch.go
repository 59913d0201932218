package elementparsers

import (
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/widgets"
)

const (
	uiPackage        = widgets.UIPackage
	domPackage       = widgets.DomPackage
	safeHtmlPackage  = widgets.SafeHtmlPackage
	resourcesPackage = widgets.ResourcesPackage
)

// Capabilities shared by more than one parser. The most specific parser of a
// capability claims it; the others are skipped.
const (
	capUIObject  = "ui-object"
	capBodyText  = "body-text"
	capChildren  = "children"
	capAlignment = "alignment"
	capImage     = "image"
	capMenuItem  = "menu-item"
	capDom       = "dom"
	capFaces     = "faces"
)

type entry struct {
	pkg, name  string
	capability string
	parser     ElementParser
}

// table lists the type parsers. A parser applies to an element whose type is
// pkg.name or extends it.
var table = []entry{
	{uiPackage, "UIObject", capUIObject, UIObjectParser{}},
	{uiPackage, "HasText", capBodyText, HasTextParser{}},
	{uiPackage, "HasHTML", capBodyText, HasHTMLParser{}},
	{uiPackage, "HasWidgets", capChildren, HasWidgetsParser{}},
	{uiPackage, "HTMLPanel", capChildren, HTMLPanelParser{}},
	{uiPackage, "RenderablePanel", capChildren, RenderablePanelParser{}},
	{uiPackage, "DockLayoutPanel", capChildren, DockLayoutPanelParser{}},
	{uiPackage, "StackLayoutPanel", capChildren, StackLayoutPanelParser{}},
	{uiPackage, "TabLayoutPanel", capChildren, TabLayoutPanelParser{}},
	{uiPackage, "LayoutPanel", capChildren, LayoutPanelParser{}},
	{uiPackage, "AbsolutePanel", capChildren, AbsolutePanelParser{}},
	{uiPackage, "CellPanel", capChildren, CellPanelParser{}},
	{uiPackage, "DisclosurePanel", capChildren, DisclosurePanelParser{}},
	{uiPackage, "MenuBar", capChildren, MenuBarParser{}},
	{uiPackage, "MenuItem", capMenuItem, MenuItemParser{}},
	{uiPackage, "ListBox", capChildren, ListBoxParser{}},
	{uiPackage, "Grid", capChildren, GridParser{}},
	{uiPackage, "Image", capImage, ImageParser{}},
	{uiPackage, "CustomButton", capFaces, CustomButtonParser{}},
	{uiPackage, "HasTreeItems", capChildren, HasTreeItemsParser{}},
	{uiPackage, "HasAlignment", capAlignment, HasAlignmentParser{}},
	{domPackage, "Element", capDom, DomElementParser{}},
}

// Chain returns the parsers run for an element of type t, in order: the
// generic parsers, the type parsers found breadth-first over t and its
// supertypes, then the bean parser and the empty check.
func Chain(oracle typeoracle.Oracle, t *typeoracle.Type) []ElementParser {
	chain := []ElementParser{AttributeMessageParser{}, UiChildParser{}}
	claimed := map[string]bool{}
	hierarchy := append([]*typeoracle.Type{t}, oracle.Supertypes(t)...)
	for _, cur := range hierarchy {
		for _, e := range table {
			if e.pkg != cur.Package || e.name != cur.Name || claimed[e.capability] {
				continue
			}
			claimed[e.capability] = true
			chain = append(chain, e.parser)
		}
	}
	return append(chain, BeanParser{}, IsEmptyParser{})
}
