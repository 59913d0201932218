// Package fields is the symbol table of a compilation unit: the generated
// locals, their initializers and statements, the references between them and
// the order they are declared and constructed in.
package fields

import (
	"fmt"

	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/xmltree"
)

// Precedence is the emission class of a field. Higher classes are declared
// later; within a class fields keep their declaration order.
type Precedence int

const (
	Default Precedence = iota + 1
	RenderableStamper
	DomIDHolder
	Imported
	GeneratedCSS
	GeneratedBundle
)

var precedenceNames = map[Precedence]string{
	Default:           "DEFAULT",
	RenderableStamper: "RENDERABLE_STAMPER",
	DomIDHolder:       "DOM_ID_HOLDER",
	Imported:          "IMPORTED",
	GeneratedCSS:      "GENERATED_CSS",
	GeneratedBundle:   "GENERATED_BUNDLE",
}

func (p Precedence) String() string {
	if name, ok := precedenceNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Precedence(%d)", int(p))
}

// FieldWriter accumulates everything generated for one field
type FieldWriter struct {
	name       string
	declared   string
	typ        *typeoracle.Type
	typeRef    string
	precedence Precedence
	index      int
	elem       *xmltree.Element

	initializer string
	hasInit     bool
	statements  []string

	provided bool
	used     bool
	// needs are the names of fields that must be constructed first.
	needs []string
}

// Name returns the identifier of the generated local
func (f *FieldWriter) Name() string {
	return f.name
}

// DeclaredName returns the name as the template spelled it
func (f *FieldWriter) DeclaredName() string {
	return f.declared
}

// Type returns the declared type of the field
func (f *FieldWriter) Type() *typeoracle.Type {
	return f.typ
}

// TypeRef returns an explicit Go type expression overriding the one derived
// from Type, or the empty string.
func (f *FieldWriter) TypeRef() string {
	return f.typeRef
}

// SetTypeRef overrides the Go type expression of the declaration
func (f *FieldWriter) SetTypeRef(ref string) {
	f.typeRef = ref
}

// Precedence returns the emission class
func (f *FieldWriter) Precedence() Precedence {
	return f.precedence
}

// Index returns the declaration index within the unit
func (f *FieldWriter) Index() int {
	return f.index
}

// Element returns the template element the field was declared by, if any
func (f *FieldWriter) Element() *xmltree.Element {
	return f.elem
}

// SetInitializer sets the expression constructing the field. It may be set
// only once.
func (f *FieldWriter) SetInitializer(expr string) error {
	if f.hasInit {
		return util.Errorf(util.InternalError, f.location(), "Second attempt to set initializer for field %q, from %q to %q",
			f.name, f.initializer, expr)
	}
	f.initializer, f.hasInit = expr, true
	return nil
}

// Initializer returns the construction expression
func (f *FieldWriter) Initializer() string {
	return f.initializer
}

// HasInitializer reports whether the initializer has been set
func (f *FieldWriter) HasInitializer() bool {
	return f.hasInit
}

// AddStatement appends a statement run right after construction
func (f *FieldWriter) AddStatement(format string, args ...interface{}) {
	f.statements = append(f.statements, fmt.Sprintf(format, args...))
	f.used = true
}

// Statements returns the per-field statements in order
func (f *FieldWriter) Statements() []string {
	return f.statements
}

// SetProvided marks the field as supplied by the owner
func (f *FieldWriter) SetProvided(provided bool) {
	f.provided = provided
}

// IsProvided reports whether the owner supplies the instance
func (f *FieldWriter) IsProvided() bool {
	return f.provided
}

// MarkUsed records that generated code reads the field
func (f *FieldWriter) MarkUsed() {
	f.used = true
}

// IsUsed reports whether generated code reads the field
func (f *FieldWriter) IsUsed() bool {
	return f.used
}

// Needs records that other must be constructed before f
func (f *FieldWriter) Needs(other string) {
	if other == f.name {
		return
	}
	for _, n := range f.needs {
		if n == other {
			return
		}
	}
	f.needs = append(f.needs, other)
}

// Dependencies returns the names of the fields f needs
func (f *FieldWriter) Dependencies() []string {
	return f.needs
}

func (f *FieldWriter) location() *util.ParseLocation {
	if f.elem == nil {
		return nil
	}
	return f.elem.Location()
}

// String implements fmt.Stringer
func (f *FieldWriter) String() string {
	return fmt.Sprintf("%s %s (%s)", f.name, f.typ.Key(), f.precedence)
}
