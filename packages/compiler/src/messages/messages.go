// Package messages collects the translatable messages of a template and
// generates the Go type serving them.
package messages

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
)

// Part is one piece of a message: literal text or a placeholder
type Part struct {
	// Text is the literal text of the part; empty for placeholders.
	Text string
	// Placeholder names the parameter bound to Arg.
	Placeholder string
	// Arg is the Go expression passed for the placeholder.
	Arg string
	// Example is shown to translators in place of the argument.
	Example string
}

// Message is one ui:msg or ui:attribute declaration
type Message struct {
	Description string
	Meaning     string
	Key         string
	// HTML marks messages whose literal text is markup.
	HTML  bool
	Parts []Part
	Loc   *util.ParseLocation
}

// Text renders the message the way translators see it, with {name} for
// placeholders.
func (m *Message) Text() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if p.Placeholder != "" {
			b.WriteString("{" + p.Placeholder + "}")
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// PlainText is Text with HTML entities decoded
func (m *Message) PlainText() string {
	if !m.HTML {
		return m.Text()
	}
	return html.UnescapeString(m.Text())
}

// Args returns the placeholder arguments in order
func (m *Message) Args() []string {
	var out []string
	for _, p := range m.Parts {
		if p.Placeholder != "" {
			out = append(out, p.Arg)
		}
	}
	return out
}

// Collaborator declares messages on a generated type. Each declared message
// becomes a method returning the message text.
type Collaborator interface {
	// Type is the generated messages type.
	Type() *typeoracle.Type
	// Initializer is the expression constructing the messages value.
	Initializer() string
	// DeclareMessage adds a method for m and returns the method name.
	DeclareMessage(m *Message) (string, error)
	// Declarations renders the Go source of the generated type.
	Declarations() []string
	// Len reports how many distinct messages were declared.
	Len() int
}

type method struct {
	name string
	msg  *Message
}

// Bundle is the default Collaborator. Messages with the same text and
// meaning share a method.
type Bundle struct {
	typ     *typeoracle.Type
	str     *typeoracle.Type
	methods []*method
	byKey   map[string]*method
}

// NewBundle creates a bundle generating type name into package pkgPath. str
// is the string type methods return.
func NewBundle(pkgPath, pkgName, name string, str *typeoracle.Type) *Bundle {
	return &Bundle{
		typ: &typeoracle.Type{
			Package: pkgPath,
			PkgName: pkgName,
			Name:    name,
			Kind:    typeoracle.Class,
		},
		str:   str,
		byKey: map[string]*method{},
	}
}

// Type implements Collaborator
func (b *Bundle) Type() *typeoracle.Type {
	return b.typ
}

// Initializer implements Collaborator
func (b *Bundle) Initializer() string {
	return "&" + b.typ.Name + "{}"
}

// Len implements Collaborator
func (b *Bundle) Len() int {
	return len(b.methods)
}

func (b *Bundle) key(m *Message) string {
	if m.Key != "" {
		return m.Key
	}
	return m.Text() + "\x00" + m.Meaning + "\x00" + strconv.FormatBool(m.HTML)
}

// DeclareMessage implements Collaborator
func (b *Bundle) DeclareMessage(m *Message) (string, error) {
	seen := map[string]bool{}
	for _, p := range m.Parts {
		if p.Placeholder == "" {
			continue
		}
		if !util.IsLegalIdentifier(p.Placeholder) {
			return "", util.Errorf(util.AttributeError, m.Loc, "Illegal placeholder name %q", p.Placeholder)
		}
		if seen[p.Placeholder] {
			return "", util.Errorf(util.AttributeError, m.Loc, "Duplicate placeholder name %q in message %q", p.Placeholder, m.Text())
		}
		seen[p.Placeholder] = true
	}
	key := b.key(m)
	if existing, ok := b.byKey[key]; ok {
		if existing.msg.Description != m.Description && m.Key != "" {
			return "", util.Errorf(util.SymbolError, m.Loc, "Message key %q declared twice with different descriptions", m.Key)
		}
		return existing.name, nil
	}
	meth := &method{name: "Message" + strconv.Itoa(len(b.methods)+1), msg: m}
	b.methods = append(b.methods, meth)
	b.byKey[key] = meth
	params := make([]typeoracle.Param, 0, len(seen))
	for _, p := range m.Parts {
		if p.Placeholder != "" {
			params = append(params, typeoracle.P(p.Placeholder, b.str))
		}
	}
	b.typ.AddMethod(meth.name, b.str, params...)
	return meth.name, nil
}

// Declarations implements Collaborator
func (b *Bundle) Declarations() []string {
	if len(b.methods) == 0 {
		return nil
	}
	out := []string{fmt.Sprintf("type %s struct{}", b.typ.Name)}
	for _, m := range b.methods {
		out = append(out, b.render(m))
	}
	return out
}

func (b *Bundle) render(m *method) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// %s returns %s.\n", m.name, strconv.Quote(m.msg.PlainText()))
	if m.msg.Description != "" {
		fmt.Fprintf(&sb, "// Description: %s\n", oneLine(m.msg.Description))
	}
	if m.msg.Meaning != "" {
		fmt.Fprintf(&sb, "// Meaning: %s\n", oneLine(m.msg.Meaning))
	}
	var examples []string
	var params, body []string
	for _, p := range m.msg.Parts {
		if p.Placeholder == "" {
			if p.Text != "" {
				body = append(body, strconv.Quote(p.Text))
			}
			continue
		}
		params = append(params, p.Placeholder)
		body = append(body, p.Placeholder)
		if p.Example != "" {
			examples = append(examples, p.Placeholder+"="+strconv.Quote(p.Example))
		}
	}
	if len(examples) > 0 {
		sort.Strings(examples)
		fmt.Fprintf(&sb, "// Examples: %s\n", strings.Join(examples, ", "))
	}
	sig := ""
	if len(params) > 0 {
		sig = strings.Join(params, ", ") + " string"
	}
	if len(body) == 0 {
		body = []string{`""`}
	}
	fmt.Fprintf(&sb, "func (*%s) %s(%s) string {\n", b.typ.Name, m.name, sig)
	fmt.Fprintf(&sb, "\treturn %s\n}", strings.Join(body, " + "))
	return sb.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
