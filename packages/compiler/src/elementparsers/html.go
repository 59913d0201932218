package elementparsers

import (
	"strings"

	g "maragu.dev/gomponents"

	"golang.org/x/net/html/atom"

	"uibind-go/packages/compiler/src/tokenator"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/xmltree"
)

const xhtmlNamespace = "http://www.w3.org/1999/xhtml"

// Interpreter gets the first look at each element of HTML or text content.
// A handled element is replaced by the returned markup; an unhandled one is
// rendered normally, with whatever changes the interpreter made to it.
type Interpreter interface {
	Interpret(elem *xmltree.Element, r *Renderer) (string, bool, error)
}

// Renderer serializes element content as HTML, or as plain text in text
// mode. Literal text and attribute values are escaped exactly once; tokens
// spliced in by interpreters pass through untouched and later resolve to Go
// string concatenations.
type Renderer struct {
	w            Writer
	interpreters []Interpreter
	text         bool
	exprs        map[string]string
}

// NewHTMLRenderer creates a renderer producing HTML
func NewHTMLRenderer(w Writer, interpreters ...Interpreter) *Renderer {
	return &Renderer{w: w, interpreters: interpreters, exprs: map[string]string{}}
}

// NewTextRenderer creates a renderer producing plain text. Only interpreted
// elements are allowed in text content.
func NewTextRenderer(w Writer, interpreters ...Interpreter) *Renderer {
	return &Renderer{w: w, interpreters: interpreters, text: true, exprs: map[string]string{}}
}

// IsText reports whether the renderer produces plain text
func (r *Renderer) IsText() bool {
	return r.text
}

// Writer returns the unit the renderer writes into
func (r *Renderer) Writer() Writer {
	return r.w
}

// Splice returns a token that splices the string expression expr into the
// quoted literal holding the rendered content.
func (r *Renderer) Splice(elem *xmltree.Element, expr string) string {
	token := r.w.Tokens().Allocate(tokenator.Info{Source: expr, Loc: elem.Location()}, `" + `+expr+` + "`)
	r.exprs[token] = expr
	return token
}

// Spliced returns the expression behind a token made by Splice
func (r *Renderer) Spliced(token string) (string, bool) {
	expr, ok := r.exprs[token]
	return expr, ok
}

// RenderInner consumes and renders the content of elem
func (r *Renderer) RenderInner(elem *xmltree.Element) (string, error) {
	nodes, err := r.content(elem)
	if err != nil {
		return "", err
	}
	return render(nodes)
}

// RenderOuter renders elem itself along with its content
func (r *Renderer) RenderOuter(elem *xmltree.Element) (string, error) {
	node, err := r.element(elem)
	if err != nil {
		return "", err
	}
	return render([]g.Node{node})
}

func render(nodes []g.Node) (string, error) {
	var b strings.Builder
	if err := g.Group(nodes).Render(&b); err != nil {
		return "", util.Errorf(util.InternalError, nil, "rendering HTML: %v", err)
	}
	return b.String(), nil
}

func (r *Renderer) content(elem *xmltree.Element) ([]g.Node, error) {
	var nodes []g.Node
	for _, c := range elem.Content() {
		node, err := r.slot(elem, c)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// slot consumes and renders one content slot of elem
func (r *Renderer) slot(elem *xmltree.Element, c xmltree.Content) (g.Node, error) {
	elem.ConsumeChild(c)
	switch c.Kind {
	case xmltree.TextNode:
		if r.text {
			return g.Raw(c.Text), nil
		}
		return g.Text(c.Text), nil
	case xmltree.CDATANode:
		return g.Raw(c.Text), nil
	}
	return r.element(c.Element)
}

func (r *Renderer) element(elem *xmltree.Element) (g.Node, error) {
	for _, in := range r.interpreters {
		out, handled, err := in.Interpret(elem, r)
		if err != nil {
			return nil, err
		}
		if handled {
			return g.Raw(out), nil
		}
	}
	switch {
	case r.text:
		return nil, elem.Error(util.StructuralError, "Unexpected element %s in text content", elem)
	case r.w.IsBinderElement(elem):
		return nil, elem.Error(util.StructuralError, "Unexpected %s in HTML content", elem)
	case r.w.IsImportedElement(elem):
		return nil, elem.Error(util.StructuralError, "Found widget %s in an HTML context that cannot hold widgets", elem)
	}
	return r.tag(elem)
}

// tag renders a plain HTML element with its remaining attributes
func (r *Renderer) tag(elem *xmltree.Element) (g.Node, error) {
	r.checkTag(elem)
	var children []g.Node
	for _, a := range elem.RemainingAttributes() {
		if a.Name.Space != "" && a.Name.Space != xhtmlNamespace {
			return nil, elem.Error(util.AttributeError, "Unexpected attribute %s in %s", a.Name, elem)
		}
		elem.ConsumeAttribute(a)
		children = append(children, g.Attr(a.Name.Local, a.Value))
	}
	content, err := r.content(elem)
	if err != nil {
		return nil, err
	}
	return g.El(elem.LocalName(), append(children, content...)...), nil
}

func (r *Renderer) checkTag(elem *xmltree.Element) {
	name := elem.LocalName()
	if strings.Contains(name, "-") {
		return
	}
	if atom.Lookup([]byte(strings.ToLower(name))) == 0 {
		r.w.Warn(elem, "Unknown HTML element %s", elem)
	}
}
