// Package widgets declares the default target widget library: the types a
// template can instantiate when no host manifest or Go package is supplied.
package widgets

import (
	"sort"

	"uibind-go/packages/compiler/src/typeoracle"
)

// Import paths of the default library packages
const (
	UIPackage        = "uibind.dev/ui"
	DomPackage       = "uibind.dev/dom"
	SafeHtmlPackage  = "uibind.dev/safehtml"
	ResourcesPackage = "uibind.dev/resources"
	I18nPackage      = "uibind.dev/i18n"
)

type library struct {
	r *typeoracle.Registry
}

func (l *library) prim(name string) *typeoracle.Type {
	return l.r.Primitive(name)
}

func (l *library) declare(pkg, pkgName, name string, kind typeoracle.Kind, super *typeoracle.Type, ifaces ...*typeoracle.Type) *typeoracle.Type {
	return l.r.MustRegister(&typeoracle.Type{
		Package:    pkg,
		PkgName:    pkgName,
		Name:       name,
		Kind:       kind,
		Super:      super,
		Interfaces: ifaces,
	})
}

func (l *library) class(name string, super *typeoracle.Type, ifaces ...*typeoracle.Type) *typeoracle.Type {
	return l.declare(UIPackage, "ui", name, typeoracle.Class, super, ifaces...)
}

func (l *library) iface(name string, ifaces ...*typeoracle.Type) *typeoracle.Type {
	return l.declare(UIPackage, "ui", name, typeoracle.Interface, nil, ifaces...)
}

func (l *library) enum(pkg, pkgName, name string, constants ...typeoracle.EnumConstant) *typeoracle.Type {
	t := l.declare(pkg, pkgName, name, typeoracle.Enum, nil)
	t.EnumConstants = constants
	return t
}

func (l *library) dom(name string, super *typeoracle.Type) *typeoracle.Type {
	return l.declare(DomPackage, "dom", name, typeoracle.Class, super)
}

func p(name string, t *typeoracle.Type) typeoracle.Param {
	return typeoracle.P(name, t)
}

// Register declares the default library in r
func Register(r *typeoracle.Registry) {
	l := &library{r: r}
	str, boolean, integer, float := l.prim("string"), l.prim("bool"), l.prim("int"), l.prim("float64")

	// safehtml
	safeHtml := l.declare(SafeHtmlPackage, "safehtml", "SafeHtml", typeoracle.Class, nil)
	safeHtml.AddMethod("String", str)
	safeUri := l.declare(SafeHtmlPackage, "safehtml", "SafeUri", typeoracle.Class, nil)
	safeUri.AddMethod("String", str)

	// dom
	element := l.dom("Element", nil)
	element.AddMethod("SetInnerText", nil, p("text", str)).
		AddMethod("SetInnerHTML", nil, p("html", str)).
		AddMethod("SetID", nil, p("id", str)).
		AddMethod("SetClassName", nil, p("className", str)).
		AddMethod("SetTitle", nil, p("title", str)).
		AddMethod("SetAttribute", nil, p("name", str), p("value", str)).
		AddMethod("RemoveAttribute", nil, p("name", str)).
		AddMethod("ID", str)
	r.RegisterDomTag("", element)
	domTags := map[string][]string{
		"DivElement":       {"div"},
		"SpanElement":      {"span"},
		"AnchorElement":    {"a"},
		"ImageElement":     {"img"},
		"InputElement":     {"input"},
		"ButtonElement":    {"button"},
		"LabelElement":     {"label"},
		"FormElement":      {"form"},
		"ParagraphElement": {"p"},
		"HeadingElement":   {"h1", "h2", "h3", "h4", "h5", "h6"},
		"TableElement":     {"table"},
		"TableRowElement":  {"tr"},
		"TableCellElement": {"td", "th"},
		"UListElement":     {"ul"},
		"OListElement":     {"ol"},
		"LIElement":        {"li"},
		"SelectElement":    {"select"},
		"TextAreaElement":  {"textarea"},
		"IFrameElement":    {"iframe"},
	}
	for _, name := range sortedKeys(domTags) {
		t := l.dom(name, element)
		for _, tag := range domTags[name] {
			r.RegisterDomTag(tag, t)
		}
	}
	style := l.dom("Style", nil)
	textAlign := l.enum(DomPackage, "dom", "TextAlign",
		typeoracle.EnumConstant{Name: "LEFT", Ident: "TextAlignLeft"},
		typeoracle.EnumConstant{Name: "CENTER", Ident: "TextAlignCenter"},
		typeoracle.EnumConstant{Name: "RIGHT", Ident: "TextAlignRight"},
		typeoracle.EnumConstant{Name: "JUSTIFY", Ident: "TextAlignJustify"},
	)
	style.AddMethod("SetTextAlign", nil, p("align", textAlign))

	// enums and alignment constants
	unit := l.enum(UIPackage, "ui", "Unit",
		typeoracle.EnumConstant{Name: "PX", Ident: "UnitPX"},
		typeoracle.EnumConstant{Name: "PCT", Ident: "UnitPCT"},
		typeoracle.EnumConstant{Name: "EM", Ident: "UnitEM"},
		typeoracle.EnumConstant{Name: "EX", Ident: "UnitEX"},
		typeoracle.EnumConstant{Name: "PT", Ident: "UnitPT"},
		typeoracle.EnumConstant{Name: "PC", Ident: "UnitPC"},
		typeoracle.EnumConstant{Name: "IN", Ident: "UnitIN"},
		typeoracle.EnumConstant{Name: "CM", Ident: "UnitCM"},
		typeoracle.EnumConstant{Name: "MM", Ident: "UnitMM"},
	)
	hAlign := l.class("HorizontalAlignmentConstant", nil)
	vAlign := l.class("VerticalAlignmentConstant", nil)
	direction := l.enum(UIPackage, "ui", "Direction",
		typeoracle.EnumConstant{Name: "NORTH", Ident: "DirectionNorth"},
		typeoracle.EnumConstant{Name: "SOUTH", Ident: "DirectionSouth"},
		typeoracle.EnumConstant{Name: "EAST", Ident: "DirectionEast"},
		typeoracle.EnumConstant{Name: "WEST", Ident: "DirectionWest"},
		typeoracle.EnumConstant{Name: "CENTER", Ident: "DirectionCenter"},
		typeoracle.EnumConstant{Name: "LINE_START", Ident: "DirectionLineStart"},
		typeoracle.EnumConstant{Name: "LINE_END", Ident: "DirectionLineEnd"},
	)

	// resources
	imageResource := l.declare(ResourcesPackage, "resources", "ImageResource", typeoracle.Interface, nil)
	imageResource.AddMethod("URL", safeUri).AddMethod("Width", integer).AddMethod("Height", integer)
	dataResource := l.declare(ResourcesPackage, "resources", "DataResource", typeoracle.Interface, nil)
	dataResource.AddMethod("URL", safeUri)
	cssResource := l.declare(ResourcesPackage, "resources", "CssResource", typeoracle.Interface, nil)
	cssResource.AddMethod("EnsureInjected", boolean).AddMethod("Text", str)
	l.declare(ResourcesPackage, "resources", "ClientBundle", typeoracle.Interface, nil)

	// i18n
	l.declare(I18nPackage, "i18n", "Messages", typeoracle.Interface, nil)

	// events
	clickHandler := l.class("ClickHandler", nil)
	changeHandler := l.class("ChangeHandler", nil)
	valueChangeHandler := l.class("ValueChangeHandler", nil)
	keyUpHandler := l.class("KeyUpHandler", nil)
	selectionHandler := l.class("SelectionHandler", nil)
	openHandler := l.class("OpenHandler", nil)
	closeHandler := l.class("CloseHandler", nil)
	command := l.class("Command", nil)
	hasClickHandlers := l.iface("HasClickHandlers")
	hasClickHandlers.AddMethod("AddClickHandler", nil, p("h", clickHandler))
	hasChangeHandlers := l.iface("HasChangeHandlers")
	hasChangeHandlers.AddMethod("AddChangeHandler", nil, p("h", changeHandler))
	hasValueChangeHandlers := l.iface("HasValueChangeHandlers")
	hasValueChangeHandlers.AddMethod("AddValueChangeHandler", nil, p("h", valueChangeHandler))
	hasKeyUpHandlers := l.iface("HasKeyUpHandlers")
	hasKeyUpHandlers.AddMethod("AddKeyUpHandler", nil, p("h", keyUpHandler))

	// capability interfaces
	isWidget := l.iface("IsWidget")
	hasText := l.iface("HasText")
	hasText.AddMethod("SetText", nil, p("text", str)).AddMethod("Text", str)
	hasHTML := l.iface("HasHTML", hasText)
	hasHTML.AddMethod("SetHTML", nil, p("html", str)).AddMethod("HTML", str)
	hasWidgets := l.iface("HasWidgets")
	hasWidgets.AddMethod("Add", nil, p("w", isWidget))
	hasOneWidget := l.iface("HasOneWidget")
	hasOneWidget.AddMethod("SetWidget", nil, p("w", isWidget))
	hasEnabled := l.iface("HasEnabled")
	hasEnabled.AddMethod("SetEnabled", nil, p("enabled", boolean))
	hasHAlign := l.iface("HasHorizontalAlignment")
	hasHAlign.AddMethod("SetHorizontalAlignment", nil, p("align", hAlign))
	hasVAlign := l.iface("HasVerticalAlignment")
	hasVAlign.AddMethod("SetVerticalAlignment", nil, p("align", vAlign))
	hasAlignment := l.iface("HasAlignment", hasHAlign, hasVAlign)
	hasTreeItems := l.iface("HasTreeItems")
	hasName := l.iface("HasName")
	hasName.AddMethod("SetName", nil, p("name", str))

	// base classes
	uiObject := l.class("UIObject", nil)
	uiObject.AddMethod("SetTitle", nil, p("title", str)).
		AddMethod("SetStyleName", nil, p("style", str)).
		AddMethod("SetStylePrimaryName", nil, p("style", str)).
		AddMethod("AddStyleName", nil, p("style", str)).
		AddMethod("AddStyleDependentName", nil, p("style", str)).
		AddMethod("EnsureDebugID", nil, p("id", str)).
		AddMethod("SetWidth", nil, p("width", str)).
		AddMethod("SetHeight", nil, p("height", str)).
		AddMethod("SetSize", nil, p("width", str), p("height", str)).
		AddMethod("SetPixelSize", nil, p("width", integer), p("height", integer)).
		AddMethod("SetVisible", nil, p("visible", boolean)).
		AddMethod("Element", element)
	widget := l.class("Widget", uiObject, isWidget)
	widget.AddMethod("SetLayoutData", nil, p("data", l.prim("any")))
	composite := l.class("Composite", widget)
	composite.AddMethod("InitWidget", nil, p("w", widget))
	panel := l.class("Panel", widget, hasWidgets)
	panel.AddMethod("Add", nil, p("w", isWidget))
	complexPanel := l.class("ComplexPanel", panel)
	flowPanel := l.class("FlowPanel", complexPanel)
	flowPanel.AddConstructor("NewFlowPanel")
	htmlPanel := l.class("HTMLPanel", complexPanel)
	htmlPanel.AddConstructor("NewHTMLPanel", p("html", str)).
		AddConstructor("NewHTMLPanelTag", p("tag", str), p("html", str))
	htmlPanel.AddMethod("AddAndReplaceElement", nil, p("w", isWidget), p("placeholder", element))
	renderablePanel := l.class("RenderablePanel", complexPanel)
	renderablePanel.AddConstructor("NewRenderablePanel", p("html", safeHtml))
	renderablePanel.AddMethod("AddAndReplaceElement", nil, p("w", isWidget), p("placeholder", element))
	renderablePanel.Markers.Renderable = true
	stamper := l.class("RenderableStamper", nil)
	stamper.AddConstructor("NewRenderableStamper", p("w", isWidget))
	stamper.AddMethod("Render", safeHtml, p("id", str)).
		AddMethod("Claim", nil, p("placeholder", element))
	simplePanel := l.class("SimplePanel", panel, hasOneWidget)
	simplePanel.AddConstructor("NewSimplePanel")
	scrollPanel := l.class("ScrollPanel", simplePanel)
	scrollPanel.AddConstructor("NewScrollPanel")
	scrollPanel.AddMethod("SetAlwaysShowScrollBars", nil, p("show", boolean))
	captionPanel := l.class("CaptionPanel", simplePanel)
	captionPanel.AddConstructor("NewCaptionPanel")
	captionPanel.AddMethod("SetCaptionText", nil, p("text", str)).
		AddMethod("SetCaptionHTML", nil, p("html", str))

	// text widgets
	label := l.class("Label", widget, hasText, hasHAlign, hasClickHandlers)
	label.AddConstructor("NewLabel")
	label.AddMethod("SetText", nil, p("text", str)).
		AddMethod("SetWordWrap", nil, p("wrap", boolean)).
		AddMethod("SetHorizontalAlignment", nil, p("align", hAlign)).
		AddMethod("AddClickHandler", nil, p("h", clickHandler))
	html := l.class("HTML", label, hasHTML)
	html.AddConstructor("NewHTML")
	inlineLabel := l.class("InlineLabel", label)
	inlineLabel.AddConstructor("NewInlineLabel")
	inlineHTML := l.class("InlineHTML", html)
	inlineHTML.AddConstructor("NewInlineHTML")

	focusWidget := l.class("FocusWidget", widget, hasEnabled, hasClickHandlers, hasKeyUpHandlers)
	focusWidget.AddMethod("SetTabIndex", nil, p("index", integer)).
		AddMethod("SetFocus", nil, p("focused", boolean)).
		AddMethod("SetEnabled", nil, p("enabled", boolean)).
		AddMethod("SetAccessKey", nil, p("key", l.prim("int32"))).
		AddMethod("AddClickHandler", nil, p("h", clickHandler)).
		AddMethod("AddKeyUpHandler", nil, p("h", keyUpHandler))
	buttonBase := l.class("ButtonBase", focusWidget, hasHTML)
	buttonBase.AddMethod("SetText", nil, p("text", str)).
		AddMethod("SetHTML", nil, p("html", str))
	button := l.class("Button", buttonBase)
	button.AddConstructor("NewButton")
	anchor := l.class("Anchor", focusWidget, hasHTML, hasName)
	anchor.AddConstructor("NewAnchor")
	anchor.AddMethod("SetHref", nil, p("href", str)).
		AddMethod("SetTarget", nil, p("target", str))
	checkBox := l.class("CheckBox", buttonBase, hasName, hasValueChangeHandlers)
	checkBox.AddConstructor("NewCheckBox")
	checkBox.AddMethod("SetValue", nil, p("value", l.prim("*bool"))).
		AddMethod("SetFormValue", nil, p("value", str))
	radioButton := l.class("RadioButton", checkBox)
	radioButton.AddConstructor("NewRadioButton", p("name", str))
	radioButton.Markers.Constructor = "NewRadioButton"
	radioButton.Markers.ConstructorParams = []string{"name"}
	customButton := l.class("CustomButton", buttonBase)
	customButton.AddMethod("SetUpFace", nil, p("face", str)).
		AddMethod("SetDownFace", nil, p("face", str)).
		AddMethod("SetUpHoveringFace", nil, p("face", str)).
		AddMethod("SetDownHoveringFace", nil, p("face", str)).
		AddMethod("SetUpDisabledFace", nil, p("face", str)).
		AddMethod("SetDownDisabledFace", nil, p("face", str)).
		AddMethod("SetUpFaceImage", nil, p("face", imageResource)).
		AddMethod("SetDownFaceImage", nil, p("face", imageResource)).
		AddMethod("SetUpHoveringFaceImage", nil, p("face", imageResource)).
		AddMethod("SetDownHoveringFaceImage", nil, p("face", imageResource)).
		AddMethod("SetUpDisabledFaceImage", nil, p("face", imageResource)).
		AddMethod("SetDownDisabledFaceImage", nil, p("face", imageResource))
	pushButton := l.class("PushButton", customButton)
	pushButton.AddConstructor("NewPushButton")
	toggleButton := l.class("ToggleButton", customButton)
	toggleButton.AddConstructor("NewToggleButton")
	toggleButton.AddMethod("SetDown", nil, p("down", boolean))

	valueBoxBase := l.class("ValueBoxBase", focusWidget, hasText, hasName, hasValueChangeHandlers, hasChangeHandlers)
	valueBoxBase.AddMethod("SetText", nil, p("text", str)).
		AddMethod("SetReadOnly", nil, p("readOnly", boolean)).
		AddMethod("SetValue", nil, p("value", str)).
		AddMethod("SetAlignment", nil, p("align", textAlign))
	textBox := l.class("TextBox", valueBoxBase)
	textBox.AddConstructor("NewTextBox")
	textBox.AddMethod("SetMaxLength", nil, p("length", integer)).
		AddMethod("SetVisibleLength", nil, p("length", integer))
	passwordTextBox := l.class("PasswordTextBox", textBox)
	passwordTextBox.AddConstructor("NewPasswordTextBox")
	textArea := l.class("TextArea", valueBoxBase)
	textArea.AddConstructor("NewTextArea")
	textArea.AddMethod("SetVisibleLines", nil, p("lines", integer)).
		AddMethod("SetCharacterWidth", nil, p("width", integer))
	listBox := l.class("ListBox", focusWidget, hasName, hasChangeHandlers)
	listBox.AddConstructor("NewListBox")
	listBox.AddMethod("AddItem", nil, p("item", str), p("value", str)).
		AddMethod("AddItemText", nil, p("item", str)).
		AddMethod("SetMultipleSelect", nil, p("multiple", boolean)).
		AddMethod("SetVisibleItemCount", nil, p("count", integer)).
		AddMethod("SetItemSelected", nil, p("index", integer), p("selected", boolean))

	image := l.class("Image", widget, hasClickHandlers)
	image.AddConstructor("NewImage").
		AddConstructor("NewImageFromResource", p("resource", imageResource))
	image.AddMethod("SetURL", nil, p("url", safeUri)).
		AddMethod("SetAltText", nil, p("alt", str)).
		AddMethod("SetResource", nil, p("resource", imageResource)).
		AddMethod("SetVisibleRect", nil, p("left", integer), p("top", integer), p("width", integer), p("height", integer)).
		AddMethod("AddClickHandler", nil, p("h", clickHandler))

	// layout panels
	requiresResize := l.iface("RequiresResize")
	dockLayoutPanel := l.class("DockLayoutPanel", complexPanel, requiresResize)
	dockLayoutPanel.AddConstructor("NewDockLayoutPanel", p("unit", unit))
	dockLayoutPanel.Markers.Constructor = "NewDockLayoutPanel"
	dockLayoutPanel.Markers.ConstructorParams = []string{"unit"}
	dockLayoutPanel.AddMethod("AddNorth", nil, p("w", isWidget), p("size", float)).
		AddMethod("AddSouth", nil, p("w", isWidget), p("size", float)).
		AddMethod("AddEast", nil, p("w", isWidget), p("size", float)).
		AddMethod("AddWest", nil, p("w", isWidget), p("size", float)).
		AddMethod("AddLineStart", nil, p("w", isWidget), p("size", float)).
		AddMethod("AddLineEnd", nil, p("w", isWidget), p("size", float)).
		AddMethod("Add", nil, p("w", isWidget))
	splitLayoutPanel := l.class("SplitLayoutPanel", dockLayoutPanel)
	splitLayoutPanel.AddConstructor("NewSplitLayoutPanel").
		AddConstructor("NewSplitLayoutPanelWithSplitter", p("splitterSize", integer))
	splitLayoutPanel.Markers.Constructor = "NewSplitLayoutPanelWithSplitter"
	splitLayoutPanel.Markers.ConstructorParams = []string{"splitterSize"}
	tabLayoutPanel := l.class("TabLayoutPanel", complexPanel, requiresResize)
	tabLayoutPanel.AddConstructor("NewTabLayoutPanel", p("barHeight", float), p("barUnit", unit))
	tabLayoutPanel.Markers.Constructor = "NewTabLayoutPanel"
	tabLayoutPanel.Markers.ConstructorParams = []string{"barHeight", "barUnit"}
	tabLayoutPanel.AddMethod("AddTab", nil, p("w", isWidget), p("text", str), p("asHTML", boolean)).
		AddMethod("AddTabWidget", nil, p("w", isWidget), p("tab", isWidget)).
		AddMethod("SetAnimationDuration", nil, p("millis", integer))
	stackLayoutPanel := l.class("StackLayoutPanel", complexPanel, requiresResize)
	stackLayoutPanel.AddConstructor("NewStackLayoutPanel", p("unit", unit))
	stackLayoutPanel.Markers.Constructor = "NewStackLayoutPanel"
	stackLayoutPanel.Markers.ConstructorParams = []string{"unit"}
	stackLayoutPanel.AddMethod("AddStack", nil, p("w", isWidget), p("header", str), p("asHTML", boolean), p("headerSize", float)).
		AddMethod("AddStackWidget", nil, p("w", isWidget), p("header", isWidget), p("headerSize", float))
	layoutPanel := l.class("LayoutPanel", complexPanel, requiresResize)
	layoutPanel.AddConstructor("NewLayoutPanel")
	for _, pair := range [][2]string{
		{"Left", "Width"}, {"Left", "Right"}, {"Right", "Width"},
		{"Top", "Height"}, {"Top", "Bottom"}, {"Bottom", "Height"},
	} {
		layoutPanel.AddMethod("SetWidget"+pair[0]+pair[1], nil,
			p("w", isWidget), p("a", float), p("aUnit", unit), p("b", float), p("bUnit", unit))
	}
	absolutePanel := l.class("AbsolutePanel", complexPanel)
	absolutePanel.AddConstructor("NewAbsolutePanel")
	absolutePanel.AddMethod("AddAt", nil, p("w", isWidget), p("left", integer), p("top", integer))
	cellPanel := l.class("CellPanel", complexPanel)
	cellPanel.AddMethod("SetSpacing", nil, p("spacing", integer)).
		AddMethod("SetBorderWidth", nil, p("width", integer)).
		AddMethod("SetCellWidth", nil, p("w", isWidget), p("width", str)).
		AddMethod("SetCellHeight", nil, p("w", isWidget), p("height", str)).
		AddMethod("SetCellHorizontalAlignment", nil, p("w", isWidget), p("align", hAlign)).
		AddMethod("SetCellVerticalAlignment", nil, p("w", isWidget), p("align", vAlign))
	horizontalPanel := l.class("HorizontalPanel", cellPanel, hasAlignment)
	horizontalPanel.AddConstructor("NewHorizontalPanel")
	verticalPanel := l.class("VerticalPanel", cellPanel, hasAlignment)
	verticalPanel.AddConstructor("NewVerticalPanel")
	dockPanel := l.class("DockPanel", cellPanel, hasAlignment)
	dockPanel.AddConstructor("NewDockPanel")
	dockPanel.AddMethod("AddAt", nil, p("w", isWidget), p("direction", direction))
	disclosurePanel := l.class("DisclosurePanel", composite, hasOneWidget)
	disclosurePanel.AddConstructor("NewDisclosurePanel")
	disclosurePanel.AddMethod("SetHeaderText", nil, p("text", str)).
		AddMethod("SetHeader", nil, p("w", widget)).
		AddMethod("SetContent", nil, p("w", widget)).
		AddMethod("SetOpen", nil, p("open", boolean)).
		AddMethod("SetAnimationEnabled", nil, p("enabled", boolean)).
		AddMethod("SetHeaderImages", nil, p("open", imageResource), p("closed", imageResource))

	headerPanel := l.class("HeaderPanel", panel)
	headerPanel.AddConstructor("NewHeaderPanel")
	headerPanel.AddMethod("SetHeaderWidget", nil, p("w", widget)).
		AddMethod("SetContentWidget", nil, p("w", widget)).
		AddMethod("AddFooterItem", nil, p("w", widget), p("weight", integer))
	headerPanel.Markers.ChildTags = []typeoracle.ChildTag{
		{Tag: "header", Method: "SetHeaderWidget", Limit: 1},
		{Tag: "content", Method: "SetContentWidget", Limit: 1},
		{Tag: "footer", Method: "AddFooterItem"},
	}

	// menus, lists, grids, trees
	menuBar := l.class("MenuBar", widget)
	menuItem := l.class("MenuItem", uiObject, hasHTML, hasEnabled)
	menuItemSeparator := l.class("MenuItemSeparator", uiObject)
	menuItemSeparator.AddConstructor("NewMenuItemSeparator")
	menuBar.AddConstructor("NewMenuBar", p("vertical", boolean))
	menuBar.Markers.Constructor = "NewMenuBar"
	menuBar.Markers.ConstructorParams = []string{"vertical"}
	menuBar.AddMethod("AddItem", nil, p("item", menuItem)).
		AddMethod("AddSeparator", nil, p("separator", menuItemSeparator)).
		AddMethod("SetAutoOpen", nil, p("autoOpen", boolean)).
		AddMethod("SetAnimationEnabled", nil, p("enabled", boolean))
	menuItem.AddConstructor("NewMenuItem", p("text", str), p("asHTML", boolean))
	menuItem.Markers.Constructor = "NewMenuItem"
	menuItem.Markers.ConstructorParams = []string{"text", "asHTML"}
	menuItem.AddMethod("SetText", nil, p("text", str)).
		AddMethod("SetHTML", nil, p("html", str)).
		AddMethod("SetEnabled", nil, p("enabled", boolean)).
		AddMethod("SetSubMenu", nil, p("menu", menuBar)).
		AddMethod("SetScheduledCommand", nil, p("cmd", command))
	grid := l.class("Grid", panel)
	grid.AddConstructor("NewGrid")
	grid.AddMethod("Resize", nil, p("rows", integer), p("columns", integer)).
		AddMethod("SetWidgetAt", nil, p("row", integer), p("column", integer), p("w", isWidget)).
		AddMethod("SetTextAt", nil, p("row", integer), p("column", integer), p("text", str)).
		AddMethod("SetHTMLAt", nil, p("row", integer), p("column", integer), p("html", str)).
		AddMethod("SetRowStyleName", nil, p("row", integer), p("style", str)).
		AddMethod("SetCellStyleName", nil, p("row", integer), p("column", integer), p("style", str)).
		AddMethod("SetCellSpacing", nil, p("spacing", integer)).
		AddMethod("SetCellPadding", nil, p("padding", integer))
	treeItem := l.class("TreeItem", uiObject, hasTreeItems, hasHTML)
	treeItem.AddConstructor("NewTreeItem")
	treeItem.AddMethod("AddItem", nil, p("item", treeItem)).
		AddMethod("SetText", nil, p("text", str)).
		AddMethod("SetHTML", nil, p("html", str)).
		AddMethod("SetWidget", nil, p("w", widget)).
		AddMethod("SetState", nil, p("open", boolean))
	hasTreeItems.AddMethod("AddItem", nil, p("item", treeItem))
	tree := l.class("Tree", widget, hasTreeItems)
	tree.AddConstructor("NewTree")
	tree.AddMethod("AddItem", nil, p("item", treeItem)).
		AddMethod("SetAnimationEnabled", nil, p("enabled", boolean)).
		AddMethod("AddSelectionHandler", nil, p("h", selectionHandler)).
		AddMethod("AddOpenHandler", nil, p("h", openHandler)).
		AddMethod("AddCloseHandler", nil, p("h", closeHandler))

	// runtime helpers referenced by generated programs
	attachRecord := l.class("TempAttachment", nil)
	attachRecord.AddMethod("Detach", nil)
}

// NewRegistry returns a registry holding the primitives and the default library
func NewRegistry() *typeoracle.Registry {
	r := typeoracle.NewRegistry()
	Register(r)
	return r
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
