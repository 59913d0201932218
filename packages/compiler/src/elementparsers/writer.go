// Package elementparsers turns template elements into field initializers and
// statements. Each parser handles one capability of an element's type; the
// chain for a type is assembled from an ordered table.
package elementparsers

import (
	"uibind-go/packages/compiler/src/attributeparsers"
	"uibind-go/packages/compiler/src/fields"
	"uibind-go/packages/compiler/src/messages"
	"uibind-go/packages/compiler/src/output"
	"uibind-go/packages/compiler/src/tokenator"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/xmltree"
)

// Writer is the state of the compilation unit the parsers write into
type Writer interface {
	Oracle() typeoracle.Oracle
	Fields() *fields.FieldManager
	Parsers() *attributeparsers.Parsers
	Imports() *output.Imports
	Tokens() *tokenator.Tokenator
	Logger() *util.MortalLogger

	// Owner returns the descriptor of the owner type, or nil when the owner
	// is unknown.
	Owner() *typeoracle.Descriptor

	// IsBinderElement reports whether elem is in the binder namespace.
	IsBinderElement(elem *xmltree.Element) bool
	// ConsumeBinderAttribute consumes a binder-namespaced attribute.
	ConsumeBinderAttribute(elem *xmltree.Element, name string) (string, bool)
	// IsImportedElement reports whether elem names a type of an imported
	// package.
	IsImportedElement(elem *xmltree.Element) bool
	// IsWidgetElement reports whether elem names a widget type.
	IsWidgetElement(elem *xmltree.Element) bool
	// FindFieldType resolves the type an element instantiates.
	FindFieldType(elem *xmltree.Element) (*typeoracle.Type, error)
	// ParseElementToField declares the field for elem and runs its parsers.
	ParseElementToField(elem *xmltree.Element) (*fields.FieldWriter, error)

	// DeclareDomIDHolder declares a field holding a fresh DOM id and returns
	// its name.
	DeclareDomIDHolder() (string, error)
	// BeginAttachedSection opens a section whose statements run while the
	// element expr evaluates to is attached to the document.
	BeginAttachedSection(expr string)
	// EndAttachedSection closes the innermost section.
	EndAttachedSection()
	// AddAttachStatement adds a statement to the innermost section.
	AddAttachStatement(format string, args ...interface{})
	// AddDetachStatement adds a statement run once every section has been
	// detached again.
	AddDetachStatement(format string, args ...interface{})

	// DeclareMessage declares m and returns the expression naming its
	// method, e.g. uibindMessages.Message1.
	DeclareMessage(m *messages.Message) (string, error)

	// Warn records an advisory warning located at elem.
	Warn(elem *xmltree.Element, format string, args ...interface{})
}

// ElementParser contributes the code for one capability of an element
type ElementParser interface {
	Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error
}

// use marks f read by generated code and returns its name
func use(f *fields.FieldWriter) string {
	f.MarkUsed()
	return f.Name()
}

// childField parses a child element and checks it is assignable to want
func childField(w Writer, parent, child *xmltree.Element, want *typeoracle.Type) (*fields.FieldWriter, error) {
	if w.IsBinderElement(child) {
		return nil, child.Error(util.StructuralError, "Unexpected %s in %s", child, parent)
	}
	f, err := w.ParseElementToField(child)
	if err != nil {
		return nil, err
	}
	if want != nil && !w.Oracle().IsAssignable(f.Type(), want) {
		return nil, child.Error(util.StructuralError, "%s in %s is a %s, expected %s",
			child, parent, f.Type().SimpleName(), want.SimpleName())
	}
	return f, nil
}

// singleWidget parses the only child element of elem as a widget
func singleWidget(w Writer, elem *xmltree.Element) (*fields.FieldWriter, error) {
	child, err := elem.ConsumeSingleChildElement()
	if err != nil {
		return nil, err
	}
	return childField(w, elem, child, uiType(w, "IsWidget"))
}

func uiType(w Writer, name string) *typeoracle.Type {
	return w.Oracle().FindType(uiPackage, name)
}

func prim(w Writer, name string) *typeoracle.Type {
	return w.Oracle().FindType("", name)
}

// isChildTag reports whether child is the custom tag name of parent: same
// namespace, given local name.
func isChildTag(parent, child *xmltree.Element, name string) bool {
	return child.Namespace() == parent.Namespace() && child.LocalName() == name
}
