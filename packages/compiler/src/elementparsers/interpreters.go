package elementparsers

import (
	"strconv"
	"strings"

	g "maragu.dev/gomponents"

	"uibind-go/packages/compiler/src/attributeparsers"
	"uibind-go/packages/compiler/src/fields"
	"uibind-go/packages/compiler/src/messages"
	"uibind-go/packages/compiler/src/tokenator"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/xmltree"
)

// HTMLInterpreters returns the interpreters of HTML content. With an open
// attach section DOM fields are allowed; with a panel, widgets too.
func HTMLInterpreters(panel *fields.FieldWriter, stamped, attached bool) []Interpreter {
	out := []Interpreter{AttributeMessageInterpreter{}, ComputedAttributeInterpreter{}}
	if attached {
		out = append(out, FieldInterpreter{})
	}
	if panel != nil {
		out = append(out, WidgetInterpreter{Panel: panel, Stamped: stamped})
	}
	return append(out, HtmlMessageInterpreter{}, UiTextInterpreter{}, UiSafeHtmlInterpreter{})
}

// TextInterpreters returns the interpreters of plain text content
func TextInterpreters() []Interpreter {
	return []Interpreter{TextMessageInterpreter{}, UiTextInterpreter{}}
}

func isBinderTag(w Writer, elem *xmltree.Element, local string) bool {
	return w.IsBinderElement(elem) && elem.LocalName() == local
}

// consumeBinderChildren consumes the child elements of elem that are the
// binder tag local.
func consumeBinderChildren(w Writer, elem *xmltree.Element, local string) []*xmltree.Element {
	var out []*xmltree.Element
	for _, c := range elem.Content() {
		if c.Kind == xmltree.ElementNode && isBinderTag(w, c.Element, local) {
			elem.ConsumeChild(c)
			out = append(out, c.Element)
		}
	}
	return out
}

func htmlEscape(w Writer, expr string) string {
	return w.Imports().Add(safeHtmlPackage, "safehtml") + ".HTMLEscape(" + expr + ")"
}

func uiFunc(w Writer, name string) string {
	return w.Imports().Add(uiPackage, "ui") + "." + name
}

// elementByID returns the expression looking up the element with the id held
// by holder, converted to typ.
func elementByID(w Writer, typ *typeoracle.Type, holder string) string {
	lookup := uiFunc(w, "ElementByID") + "(" + holder + ")"
	if typ == nil || typ.Name == "Element" {
		return lookup
	}
	return w.Imports().Qualify(typ, "As"+typ.GoName()) + "(" + lookup + ")"
}

// ComputedAttributeInterpreter rewrites attributes holding {references} so
// they render the escaped value of each reference.
type ComputedAttributeInterpreter struct{}

type computedAttribute struct {
	r    *Renderer
	elem *xmltree.Element
	str  *typeoracle.Type
}

func (d *computedAttribute) Types() []*typeoracle.Type { return []*typeoracle.Type{d.str} }

func (d *computedAttribute) HandleFragment(fragment string) (string, error) { return fragment, nil }

func (d *computedAttribute) HandleReference(token string) string {
	return d.r.Splice(d.elem, htmlEscape(d.r.Writer(), token))
}

func (d *computedAttribute) Joiner() string { return "" }

// Interpret implements Interpreter
func (ComputedAttributeInterpreter) Interpret(elem *xmltree.Element, r *Renderer) (string, bool, error) {
	w := r.Writer()
	for _, a := range elem.RemainingAttributes() {
		if a.Name.Space != "" || !attributeparsers.HasFieldReferences(a.Value) {
			continue
		}
		value, err := w.Parsers().Converter().Convert(elem, a.Value, &computedAttribute{r: r, elem: elem, str: prim(w, "string")})
		if err != nil {
			return "", false, err
		}
		elem.ReplaceAttribute(a, value)
	}
	return "", false, nil
}

// AttributeMessageInterpreter turns <ui:attribute> children of an HTML
// element into messages for the named attributes.
type AttributeMessageInterpreter struct{}

// Interpret implements Interpreter
func (AttributeMessageInterpreter) Interpret(elem *xmltree.Element, r *Renderer) (string, bool, error) {
	w := r.Writer()
	for _, child := range consumeBinderChildren(w, elem, "attribute") {
		name, m, err := attributeMessage(elem, child)
		if err != nil {
			return "", false, err
		}
		method, err := w.DeclareMessage(m)
		if err != nil {
			return "", false, err
		}
		elem.SetAttribute(name, r.Splice(elem, htmlEscape(w, method+"()")))
	}
	return "", false, nil
}

// attributeMessage reads a <ui:attribute name="x"> declaration and the
// literal value of attribute x of elem.
func attributeMessage(elem, decl *xmltree.Element) (string, *messages.Message, error) {
	name, err := decl.ConsumeRequiredRawAttribute("name")
	if err != nil {
		return "", nil, err
	}
	m := &messages.Message{
		Description: decl.ConsumeRawAttributeDefault("description", ""),
		Meaning:     decl.ConsumeRawAttributeDefault("meaning", ""),
		Key:         decl.ConsumeRawAttributeDefault("key", ""),
		Loc:         decl.Location(),
	}
	if err := decl.AssertNoAttributes(); err != nil {
		return "", nil, err
	}
	if err := decl.AssertNoBody(); err != nil {
		return "", nil, err
	}
	value, ok := elem.PeekAttribute(name)
	if !ok {
		return "", nil, decl.Error(util.AttributeError, "%s names attribute %q, which %s does not have", decl, name, elem)
	}
	if attributeparsers.HasFieldReferences(value) {
		return "", nil, decl.Error(util.AttributeError, "Attribute %q of %s holds a field reference and cannot be a message", name, elem)
	}
	m.Parts = []messages.Part{{Text: value}}
	return name, m, nil
}

// HtmlMessageInterpreter replaces <ui:msg> in HTML content with a call to
// the generated message method.
type HtmlMessageInterpreter struct{}

// Interpret implements Interpreter
func (HtmlMessageInterpreter) Interpret(elem *xmltree.Element, r *Renderer) (string, bool, error) {
	return interpretMessage(elem, r)
}

// TextMessageInterpreter replaces <ui:msg> in text content with a call to
// the generated message method.
type TextMessageInterpreter struct{}

// Interpret implements Interpreter
func (TextMessageInterpreter) Interpret(elem *xmltree.Element, r *Renderer) (string, bool, error) {
	return interpretMessage(elem, r)
}

func interpretMessage(elem *xmltree.Element, r *Renderer) (string, bool, error) {
	w := r.Writer()
	if !isBinderTag(w, elem, "msg") {
		return "", false, nil
	}
	m, err := parseMessage(elem, r)
	if err != nil {
		return "", false, err
	}
	method, err := w.DeclareMessage(m)
	if err != nil {
		return "", false, err
	}
	return r.Splice(elem, method+"("+strings.Join(m.Args(), ", ")+")"), true, nil
}

// parseMessage renders the content of a <ui:msg>. <ui:ph> children become
// named placeholders; every other spliced expression becomes a generated
// placeholder so the message text holds only literal content.
func parseMessage(elem *xmltree.Element, r *Renderer) (*messages.Message, error) {
	w := r.Writer()
	m := &messages.Message{
		Description: elem.ConsumeRawAttributeDefault("description", ""),
		Meaning:     elem.ConsumeRawAttributeDefault("meaning", ""),
		Key:         elem.ConsumeRawAttributeDefault("key", ""),
		HTML:        !r.IsText(),
		Loc:         elem.Location(),
	}
	if err := elem.AssertNoAttributes(); err != nil {
		return nil, err
	}
	var lit strings.Builder
	generated := 0
	flush := func() {
		for _, piece := range tokenator.Split(lit.String()) {
			if !piece.Token {
				m.Parts = append(m.Parts, messages.Part{Text: piece.Text})
				continue
			}
			generated++
			m.Parts = append(m.Parts, messages.Part{Placeholder: "arg" + strconv.Itoa(generated), Arg: spliceArg(r, piece.Text)})
		}
		lit.Reset()
	}
	for _, c := range elem.Content() {
		if c.Kind == xmltree.ElementNode && isBinderTag(w, c.Element, "msg") {
			return nil, c.Element.Error(util.StructuralError, "Messages cannot be nested: %s in %s", c.Element, elem)
		}
		if c.Kind == xmltree.ElementNode && isBinderTag(w, c.Element, "ph") {
			elem.ConsumeChild(c)
			flush()
			part, err := placeholder(c.Element, r)
			if err != nil {
				return nil, err
			}
			m.Parts = append(m.Parts, part)
			continue
		}
		node, err := r.slot(elem, c)
		if err != nil {
			return nil, err
		}
		text, err := render([]g.Node{node})
		if err != nil {
			return nil, err
		}
		lit.WriteString(text)
	}
	flush()
	return m, nil
}

func placeholder(ph *xmltree.Element, r *Renderer) (messages.Part, error) {
	name, err := ph.ConsumeRequiredRawAttribute("name")
	if err != nil {
		return messages.Part{}, err
	}
	example := ph.ConsumeRawAttributeDefault("example", "")
	if err := ph.AssertNoAttributes(); err != nil {
		return messages.Part{}, err
	}
	content, err := r.RenderInner(ph)
	if err != nil {
		return messages.Part{}, err
	}
	return messages.Part{Placeholder: name, Example: example, Arg: spliceArg(r, content)}, nil
}

// spliceArg returns the Go expression for rendered content: the spliced
// expression itself when content is a single splice, a quoted literal
// otherwise.
func spliceArg(r *Renderer, content string) string {
	if expr, ok := r.Spliced(content); ok {
		return expr
	}
	return strconv.Quote(content)
}

// UiTextInterpreter replaces <ui:text from="{...}"/> with the string value
// of its expression, escaped in HTML content.
type UiTextInterpreter struct{}

// Interpret implements Interpreter
func (UiTextInterpreter) Interpret(elem *xmltree.Element, r *Renderer) (string, bool, error) {
	w := r.Writer()
	if !isBinderTag(w, elem, "text") {
		return "", false, nil
	}
	expr, err := consumeFrom(elem, w, prim(w, "string"))
	if err != nil {
		return "", false, err
	}
	if !r.IsText() {
		expr = htmlEscape(w, expr)
	}
	return r.Splice(elem, expr), true, nil
}

// UiSafeHtmlInterpreter replaces <ui:safehtml from="{...}"/> with trusted
// markup.
type UiSafeHtmlInterpreter struct{}

// Interpret implements Interpreter
func (UiSafeHtmlInterpreter) Interpret(elem *xmltree.Element, r *Renderer) (string, bool, error) {
	w := r.Writer()
	if !isBinderTag(w, elem, "safehtml") {
		return "", false, nil
	}
	if r.IsText() {
		return "", false, elem.Error(util.StructuralError, "%s is not allowed in text content", elem)
	}
	safeHtml := w.Oracle().FindType(safeHtmlPackage, "SafeHtml")
	if safeHtml == nil {
		return "", false, elem.Error(util.SymbolError, "%s needs the type %s.SafeHtml", elem, safeHtmlPackage)
	}
	expr, err := consumeFrom(elem, w, safeHtml)
	if err != nil {
		return "", false, err
	}
	return r.Splice(elem, expr+".String()"), true, nil
}

func consumeFrom(elem *xmltree.Element, w Writer, t *typeoracle.Type) (string, error) {
	expr, err := w.Parsers().ConsumeRequiredAttribute(elem, "from", t)
	if err != nil {
		return "", err
	}
	if err := elem.AssertNoAttributes(); err != nil {
		return "", err
	}
	if err := elem.AssertNoBody(); err != nil {
		return "", err
	}
	return expr, nil
}

// FieldInterpreter binds a DOM element carrying ui:field to a field. The
// element gets a generated id and the field is looked up by that id while
// the enclosing section is attached.
type FieldInterpreter struct{}

// Interpret implements Interpreter
func (FieldInterpreter) Interpret(elem *xmltree.Element, r *Renderer) (string, bool, error) {
	w := r.Writer()
	if w.IsImportedElement(elem) || w.IsBinderElement(elem) {
		return "", false, nil
	}
	name, ok := w.ConsumeBinderAttribute(elem, "field")
	if !ok {
		return "", false, nil
	}
	if elem.HasAttribute("id") {
		return "", false, elem.Error(util.AttributeError, "Cannot declare id and ui:field on the same element %s", elem)
	}
	typ := w.Oracle().DomElementType(elem.LocalName())
	field, err := w.Fields().RegisterField(typ, name)
	if err != nil {
		return "", false, err
	}
	holder, err := w.DeclareDomIDHolder()
	if err != nil {
		return "", false, err
	}
	elem.SetAttribute("id", r.Splice(elem, holder))
	w.AddAttachStatement("%s = %s", field.Name(), elementByID(w, typ, holder))
	w.AddDetachStatement("%s.RemoveAttribute(\"id\")", field.Name())
	return "", false, nil
}

// WidgetInterpreter places a widget inside the HTML of a panel. The widget is
// rendered as a placeholder that the panel replaces with it on attach.
type WidgetInterpreter struct {
	Panel *fields.FieldWriter
	// Stamped panels render their children up front instead of replacing a
	// placeholder.
	Stamped bool
}

// Interpret implements Interpreter
func (wi WidgetInterpreter) Interpret(elem *xmltree.Element, r *Renderer) (string, bool, error) {
	w := r.Writer()
	if !w.IsImportedElement(elem) {
		return "", false, nil
	}
	child, err := childField(w, elem.Parent(), elem, uiType(w, "IsWidget"))
	if err != nil {
		return "", false, err
	}
	holder, err := w.DeclareDomIDHolder()
	if err != nil {
		return "", false, err
	}
	if wi.Stamped {
		return wi.stamp(elem, child, holder, r)
	}
	html, err := render([]g.Node{g.El("span", g.Attr("id", r.Splice(elem, holder)))})
	if err != nil {
		return "", false, err
	}
	w.AddAttachStatement("%s.AddAndReplaceElement(%s, %s)", use(wi.Panel), use(child), elementByID(w, nil, holder))
	return html, true, nil
}

func (wi WidgetInterpreter) stamp(elem *xmltree.Element, child *fields.FieldWriter, holder string, r *Renderer) (string, bool, error) {
	w := r.Writer()
	stamperType := uiType(w, "RenderableStamper")
	if stamperType == nil {
		return "", false, elem.Error(util.SymbolError, "%s needs the type %s.RenderableStamper", elem, uiPackage)
	}
	stamper, err := w.Fields().RegisterFieldOfKind(fields.RenderableStamper, stamperType, child.Name()+"Stamper")
	if err != nil {
		return "", false, err
	}
	if err := stamper.SetInitializer(uiFunc(w, "NewRenderableStamper") + "(" + use(child) + ")"); err != nil {
		return "", false, err
	}
	stamper.Needs(child.Name())
	stamper.Needs(holder)
	w.AddAttachStatement("%s.Claim(%s)", use(stamper), elementByID(w, nil, holder))
	return r.Splice(elem, stamper.Name()+".Render("+holder+").String()"), true, nil
}
