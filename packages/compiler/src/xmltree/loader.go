package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"

	"uibind-go/packages/compiler/src/util"
)

const xmlNamespaceURI = "http://www.w3.org/XML/1998/namespace"

var cdataPrefix = []byte("<![CDATA[")

// Load parses template markup into a Document. Only elements, text, CDATA and
// comments are accepted inside the root; comments are dropped. The XML
// declaration and a DOCTYPE are tolerated before the root element.
func Load(source []byte, url string) (*Document, error) {
	file := util.NewParseSourceFile(string(source), url)
	l := &loader{
		source: source,
		file:   file,
		lines:  newLineIndex(source),
		doc: &Document{
			file: file,
			root: -1,
		},
	}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.doc, nil
}

type loader struct {
	source []byte
	file   *util.ParseSourceFile
	lines  lineIndex
	doc    *Document
	stack  []int
	scopes []map[string]string
	closed bool
}

func (l *loader) run() error {
	decoder := xml.NewDecoder(bytes.NewReader(l.source))
	decoder.Strict = true
	decoder.Entity = xml.HTMLEntity

	for {
		start := int(decoder.InputOffset())
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return l.syntaxError(err, start)
		}
		loc := l.location(start)

		switch t := tok.(type) {
		case xml.StartElement:
			if err := l.startElement(t, loc); err != nil {
				return err
			}
		case xml.EndElement:
			l.stack = l.stack[:len(l.stack)-1]
			l.scopes = l.scopes[:len(l.scopes)-1]
			if len(l.stack) == 0 {
				l.closed = true
			}
		case xml.CharData:
			raw := l.source[start:decoder.InputOffset()]
			if err := l.charData(string(t), bytes.HasPrefix(raw, cdataPrefix), loc); err != nil {
				return err
			}
		case xml.Comment:
			// dropped
		case xml.ProcInst:
			if t.Target != "xml" || l.doc.root >= 0 {
				return util.Errorf(util.StructuralError, loc, "Unexpected processing instruction <?%s?>", t.Target)
			}
		case xml.Directive:
			if l.doc.root >= 0 || !bytes.HasPrefix(bytes.TrimSpace(t), []byte("DOCTYPE")) {
				return util.Errorf(util.StructuralError, loc, "Unexpected directive <!%s>", firstWord(t))
			}
		default:
			return util.Errorf(util.StructuralError, loc, "Unexpected node %T", tok)
		}
	}

	if l.doc.root < 0 {
		return util.Errorf(util.StructuralError, l.location(0), "Template has no root element")
	}
	return nil
}

func (l *loader) startElement(t xml.StartElement, loc *util.ParseLocation) error {
	if l.closed {
		return util.Errorf(util.StructuralError, loc, "Unexpected element <%s> after the root element", t.Name.Local)
	}

	scope := map[string]string{}
	var attrs []Attribute
	for _, a := range t.Attr {
		switch {
		case a.Name.Space == "xmlns":
			scope[a.Name.Local] = a.Value
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			scope[""] = a.Value
		default:
			attrs = append(attrs, Attribute{
				Name:  Name{Space: a.Name.Space, Local: a.Name.Local},
				Value: a.Value,
				Loc:   loc,
			})
		}
	}
	l.scopes = append(l.scopes, scope)

	name := Name{Space: t.Name.Space, Local: t.Name.Local}
	prefix, err := l.prefixFor(name.Space, true, loc)
	if err != nil {
		return err
	}
	name.Prefix = prefix
	for i := range attrs {
		if attrs[i].Name.Space == "" {
			continue
		}
		prefix, err := l.prefixFor(attrs[i].Name.Space, false, loc)
		if err != nil {
			return err
		}
		attrs[i].Name.Prefix = prefix
	}

	id := l.doc.add(node{
		kind:   ElementNode,
		name:   name,
		attrs:  attrs,
		parent: l.parent(),
		loc:    loc,
	})
	if len(l.stack) == 0 {
		l.doc.root = id
	}
	l.stack = append(l.stack, id)
	return nil
}

func (l *loader) charData(text string, cdata bool, loc *util.ParseLocation) error {
	if len(l.stack) == 0 {
		if cdata || !isIgnorableOutsideRoot(text) {
			return util.Errorf(util.StructuralError, loc, "Unexpected text outside the root element")
		}
		return nil
	}
	kind := TextNode
	if cdata {
		kind = CDATANode
	}
	l.doc.add(node{
		kind:   kind,
		text:   text,
		parent: l.parent(),
		loc:    loc,
	})
	return nil
}

func (l *loader) parent() int {
	if len(l.stack) == 0 {
		return -1
	}
	return l.stack[len(l.stack)-1]
}

// prefixFor finds the innermost prefix bound to uri. encoding/xml leaves an
// unbound prefix in Name.Space, which is reported here.
func (l *loader) prefixFor(uri string, isElement bool, loc *util.ParseLocation) (string, error) {
	if uri == "" {
		return "", nil
	}
	if uri == xmlNamespaceURI {
		return "xml", nil
	}
	for i := len(l.scopes) - 1; i >= 0; i-- {
		prefixes := make([]string, 0, len(l.scopes[i]))
		for p := range l.scopes[i] {
			prefixes = append(prefixes, p)
		}
		sort.Strings(prefixes)
		for _, p := range prefixes {
			if l.scopes[i][p] != uri {
				continue
			}
			if p == "" && !isElement {
				continue
			}
			return p, nil
		}
	}
	return "", util.Errorf(util.StructuralError, loc, "Unbound namespace prefix %q", uri)
}

func (l *loader) location(offset int) *util.ParseLocation {
	line, col := l.lines.position(offset)
	return util.NewParseLocation(l.file, offset, line, col)
}

func (l *loader) syntaxError(err error, offset int) error {
	var syntax *xml.SyntaxError
	if errors.As(err, &syntax) {
		loc := util.NewParseLocation(l.file, -1, syntax.Line, 0)
		return util.Errorf(util.StructuralError, loc, "Malformed markup: %s", syntax.Msg)
	}
	return util.Errorf(util.StructuralError, l.location(offset), "Malformed markup: %v", err)
}

func isIgnorableOutsideRoot(text string) bool {
	for _, r := range text {
		if r == '\uFEFF' || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return false
	}
	return true
}

func firstWord(b []byte) string {
	fields := bytes.Fields(b)
	if len(fields) == 0 {
		return ""
	}
	return string(fields[0])
}

// lineIndex maps byte offsets to 1-based line and column numbers
type lineIndex []int

func newLineIndex(source []byte) lineIndex {
	idx := lineIndex{0}
	for i, b := range source {
		if b == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func (idx lineIndex) position(offset int) (int, int) {
	line := sort.Search(len(idx), func(i int) bool { return idx[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return line + 1, offset - idx[line] + 1
}

func (n Name) String() string {
	if n.Prefix == "" {
		return n.Local
	}
	return fmt.Sprintf("%s:%s", n.Prefix, n.Local)
}
