package xmltree

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"uibind-go/packages/compiler/src/core"
	"uibind-go/packages/compiler/src/util"
)

// NodeKind is the kind of a node in the template tree
type NodeKind int

const (
	ElementNode NodeKind = iota + 1
	TextNode
	CDATANode
)

// Name is a namespaced tag or attribute name. Space holds the namespace URI,
// Prefix the prefix the template used for it.
type Name struct {
	Space  string
	Local  string
	Prefix string
}

// Attribute is a single attribute of an element. Reading it through one of the
// Consume methods marks it consumed; a consumed attribute is invisible to every
// later reader.
type Attribute struct {
	Name     Name
	Value    string
	Loc      *util.ParseLocation
	consumed bool
}

// Consumed reports whether the attribute has already been read
func (a *Attribute) Consumed() bool {
	return a.consumed
}

type node struct {
	kind     NodeKind
	name     Name
	attrs    []Attribute
	children []int
	parent   int
	text     string
	loc      *util.ParseLocation
	consumed bool
}

// Document is an arena of template nodes addressed by index. Parent and child
// links are indices into the arena.
type Document struct {
	file     *util.ParseSourceFile
	nodes    []node
	elements map[int]*Element
	root     int
}

func (d *Document) add(n node) int {
	id := len(d.nodes)
	d.nodes = append(d.nodes, n)
	if n.parent >= 0 {
		d.nodes[n.parent].children = append(d.nodes[n.parent].children, id)
	}
	return id
}

// File returns the source file the document was loaded from
func (d *Document) File() *util.ParseSourceFile {
	return d.file
}

// Root returns the root element
func (d *Document) Root() *Element {
	return d.element(d.root)
}

// Len returns the number of nodes in the arena
func (d *Document) Len() int {
	return len(d.nodes)
}

func (d *Document) element(id int) *Element {
	if id < 0 || id >= len(d.nodes) || d.nodes[id].kind != ElementNode {
		return nil
	}
	if d.elements == nil {
		d.elements = map[int]*Element{}
	}
	if e, ok := d.elements[id]; ok {
		return e
	}
	e := &Element{doc: d, id: id}
	d.elements[id] = e
	return e
}

// Element is a handle to an element node. Handles are unique per node, so
// they can be compared and used as map keys.
type Element struct {
	doc *Document
	id  int
}

func (e *Element) node() *node {
	return &e.doc.nodes[e.id]
}

// ID returns the arena index of the element
func (e *Element) ID() int {
	return e.id
}

// Document returns the owning document
func (e *Element) Document() *Document {
	return e.doc
}

// Name returns the full tag name
func (e *Element) Name() Name {
	return e.node().name
}

// LocalName returns the tag name without prefix
func (e *Element) LocalName() string {
	return e.node().name.Local
}

// Namespace returns the namespace URI of the tag
func (e *Element) Namespace() string {
	return e.node().name.Space
}

// Prefix returns the prefix the template used for the tag
func (e *Element) Prefix() string {
	return e.node().name.Prefix
}

// QualifiedName returns prefix:local, or local when unprefixed
func (e *Element) QualifiedName() string {
	return e.node().name.String()
}

// Location returns where the element starts
func (e *Element) Location() *util.ParseLocation {
	return e.node().loc
}

// Parent returns the parent element, or nil for the root
func (e *Element) Parent() *Element {
	return e.doc.element(e.node().parent)
}

// Consumed reports whether the element has been consumed by its parent
func (e *Element) Consumed() bool {
	return e.node().consumed
}

// MarkConsumed marks the element slot in its parent as handled
func (e *Element) MarkConsumed() {
	e.node().consumed = true
}

// String returns the opening tag of the element
func (e *Element) String() string {
	return e.OpeningTag()
}

// OpeningTag renders the opening tag as written, with every original attribute
func (e *Element) OpeningTag() string {
	n := e.node()
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(n.name.String())
	for _, a := range n.attrs {
		fmt.Fprintf(&b, " %s=%q", a.Name.String(), a.Value)
	}
	b.WriteString(">")
	return b.String()
}

// ClosingTag renders the closing tag
func (e *Element) ClosingTag() string {
	return "</" + e.QualifiedName() + ">"
}

// Error builds an error of kind located at the element
func (e *Element) Error(kind util.ErrorKind, format string, args ...interface{}) *util.ParseError {
	return util.Errorf(kind, e.Location(), format, args...)
}

// -- attributes --

func (e *Element) findAttribute(space, local string) *Attribute {
	n := e.node()
	for i := range n.attrs {
		a := &n.attrs[i]
		if !a.consumed && a.Name.Space == space && a.Name.Local == local {
			return a
		}
	}
	return nil
}

// HasAttribute reports whether an unconsumed, unprefixed attribute exists
func (e *Element) HasAttribute(name string) bool {
	return e.findAttribute("", name) != nil
}

// HasAttributeNS reports whether an unconsumed namespaced attribute exists
func (e *Element) HasAttributeNS(space, local string) bool {
	return e.findAttribute(space, local) != nil
}

// PeekAttribute returns an unconsumed attribute value without consuming it
func (e *Element) PeekAttribute(name string) (string, bool) {
	if a := e.findAttribute("", name); a != nil {
		return a.Value, true
	}
	return "", false
}

// ConsumeRawAttribute consumes an unprefixed attribute and returns its text
func (e *Element) ConsumeRawAttribute(name string) (string, bool) {
	return e.ConsumeAttributeNS("", name)
}

// ConsumeAttributeNS consumes a namespaced attribute and returns its text
func (e *Element) ConsumeAttributeNS(space, local string) (string, bool) {
	a := e.findAttribute(space, local)
	if a == nil {
		return "", false
	}
	a.consumed = true
	return a.Value, true
}

// ConsumeRawAttributeDefault consumes an attribute, falling back to def
func (e *Element) ConsumeRawAttributeDefault(name, def string) string {
	if v, ok := e.ConsumeRawAttribute(name); ok {
		return v
	}
	return def
}

// ConsumeRequiredRawAttribute consumes an attribute that must be present
func (e *Element) ConsumeRequiredRawAttribute(name string) (string, error) {
	v, ok := e.ConsumeRawAttribute(name)
	if !ok {
		return "", e.Error(util.AttributeError, "Missing required attribute %q in %s", name, e)
	}
	return v, nil
}

// ConsumeBooleanConstant consumes an attribute that must be the literal
// "true" or "false". Absent attributes yield def.
func (e *Element) ConsumeBooleanConstant(name string, def bool) (bool, error) {
	v, ok := e.ConsumeRawAttribute(name)
	if !ok {
		return def, nil
	}
	switch strings.TrimSpace(v) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, e.Error(util.AttributeError, "%s must be \"true\" or \"false\", found %q in %s", name, v, e)
}

// ConsumeAttribute marks a specific attribute consumed
func (e *Element) ConsumeAttribute(a *Attribute) {
	a.consumed = true
}

// ReplaceAttribute rewrites the value of an attribute in place
func (e *Element) ReplaceAttribute(a *Attribute, value string) {
	a.Value = value
}

// SetAttribute replaces the value of an unconsumed, unprefixed attribute, or
// appends a new one. Attribute pointers obtained earlier may go stale.
func (e *Element) SetAttribute(local, value string) {
	if a := e.findAttribute("", local); a != nil {
		a.Value = value
		return
	}
	n := e.node()
	n.attrs = append(n.attrs, Attribute{Name: Name{Local: local}, Value: value, Loc: n.loc})
}

// RemainingAttributes returns the unconsumed attributes in document order
func (e *Element) RemainingAttributes() []*Attribute {
	n := e.node()
	var out []*Attribute
	for i := range n.attrs {
		if !n.attrs[i].consumed {
			out = append(out, &n.attrs[i])
		}
	}
	return out
}

// AttributeCount returns how many attributes remain unconsumed
func (e *Element) AttributeCount() int {
	return len(e.RemainingAttributes())
}

// -- content --

// Content is one slot of mixed element content
type Content struct {
	Kind    NodeKind
	Element *Element
	Text    string
	Loc     *util.ParseLocation
	id      int
}

// IsBlank reports whether the slot is whitespace-only text
func (c Content) IsBlank() bool {
	return c.Kind != ElementNode && core.IsBlank(c.Text)
}

// Content returns the unconsumed children in document order
func (e *Element) Content() []Content {
	var out []Content
	for _, id := range e.node().children {
		child := &e.doc.nodes[id]
		if child.consumed {
			continue
		}
		c := Content{Kind: child.kind, Text: child.text, Loc: child.loc, id: id}
		if child.kind == ElementNode {
			c.Element = e.doc.element(id)
		}
		out = append(out, c)
	}
	return out
}

// ConsumeChild marks one content slot as handled
func (e *Element) ConsumeChild(c Content) {
	e.doc.nodes[c.id].consumed = true
}

// ChildElements returns the unconsumed child elements without consuming them
func (e *Element) ChildElements() []*Element {
	var out []*Element
	for _, c := range e.Content() {
		if c.Kind == ElementNode {
			out = append(out, c.Element)
		}
	}
	return out
}

// ConsumeChildElements consumes every child element accepted by filter. With
// a nil filter all children are consumed and non-whitespace text is an error.
func (e *Element) ConsumeChildElements(filter func(*Element) bool) ([]*Element, error) {
	content := e.Content()
	if filter == nil {
		if err := e.AssertNoText(); err != nil {
			return nil, err
		}
	}
	var out []*Element
	for _, c := range content {
		if c.Kind != ElementNode {
			if filter == nil {
				e.ConsumeChild(c)
			}
			continue
		}
		if filter != nil && !filter(c.Element) {
			continue
		}
		e.ConsumeChild(c)
		out = append(out, c.Element)
	}
	return out, nil
}

// ConsumeSingleChildElement consumes the only child element
func (e *Element) ConsumeSingleChildElement() (*Element, error) {
	children, err := e.ConsumeChildElements(nil)
	if err != nil {
		return nil, err
	}
	if len(children) != 1 {
		return nil, e.Error(util.StructuralError, "%s must have a single child element, found %d", e, len(children))
	}
	return children[0], nil
}

// ConsumeInnerText consumes text and CDATA content as HTML: text is escaped,
// CDATA is passed through verbatim. Child elements are an error.
func (e *Element) ConsumeInnerText() (string, error) {
	return e.consumeText(true)
}

// ConsumeUnescapedInnerText consumes text and CDATA content as plain decoded
// text. Child elements are an error.
func (e *Element) ConsumeUnescapedInnerText() (string, error) {
	return e.consumeText(false)
}

func (e *Element) consumeText(escape bool) (string, error) {
	var b strings.Builder
	for _, c := range e.Content() {
		if c.Kind == ElementNode {
			return "", util.Errorf(util.StructuralError, c.Loc, "Illegal child %s in a text-only context in %s", c.Element, e)
		}
		if escape && c.Kind == TextNode {
			b.WriteString(html.EscapeString(c.Text))
		} else {
			b.WriteString(c.Text)
		}
		e.ConsumeChild(c)
	}
	return b.String(), nil
}

// ConsumeBody marks every remaining child consumed
func (e *Element) ConsumeBody() {
	for _, c := range e.Content() {
		e.ConsumeChild(c)
	}
}

// HasChildNodes reports whether any unconsumed, non-blank content remains
func (e *Element) HasChildNodes() bool {
	for _, c := range e.Content() {
		if !c.IsBlank() {
			return true
		}
	}
	return false
}

// -- assertions --

// AssertNoAttributes fails if any attribute is left unconsumed
func (e *Element) AssertNoAttributes() error {
	remaining := e.RemainingAttributes()
	if len(remaining) == 0 {
		return nil
	}
	names := make([]string, len(remaining))
	for i, a := range remaining {
		names[i] = a.Name.String()
	}
	return e.Error(util.AttributeError, "Unexpected attributes in element %s: %s", e, strings.Join(names, ", "))
}

// AssertNoBody fails if any child element or non-whitespace text is left
func (e *Element) AssertNoBody() error {
	for _, c := range e.Content() {
		if c.Kind == ElementNode {
			return util.Errorf(util.StructuralError, c.Loc, "Found unexpected child element %s in %s", c.Element, e)
		}
		if !c.IsBlank() {
			return util.Errorf(util.StructuralError, c.Loc, "Unexpected text in element %s: %q", e, strings.TrimSpace(c.Text))
		}
	}
	return nil
}

// AssertNoText fails if non-whitespace text is left
func (e *Element) AssertNoText() error {
	for _, c := range e.Content() {
		if c.Kind != ElementNode && !c.IsBlank() {
			return util.Errorf(util.StructuralError, c.Loc, "Unexpected text in element %s: %q", e, strings.TrimSpace(c.Text))
		}
	}
	return nil
}
