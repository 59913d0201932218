package typeoracle

import (
	"strings"
)

// Kind is the structural kind of a target type
type Kind int

const (
	Primitive Kind = iota + 1
	// Boxed is a nullable reference to a primitive, spelled *T in generated code.
	Boxed
	Class
	Interface
	Enum
)

var kindNames = map[Kind]string{
	Primitive: "primitive",
	Boxed:     "boxed",
	Class:     "class",
	Interface: "interface",
	Enum:      "enum",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Type describes one target type the compiler can instantiate or reference
type Type struct {
	// Package is the import path; empty for primitives and boxed types.
	Package string
	// PkgName is the identifier generated code uses to qualify the package.
	PkgName string
	// Name is the simple name. Nested types use dotted names ("Tab.Header").
	Name string
	Kind Kind

	Super      *Type
	Interfaces []*Type

	Methods      []*Method
	Constructors []*Method

	EnumConstants []EnumConstant

	// Unboxed links a boxed type to its primitive counterpart.
	Unboxed *Type

	Markers Markers
}

// Param is a named, typed parameter
type Param struct {
	Name string
	Type *Type
}

// Method is a method of a type, or for constructors a package-level function
// returning the type.
type Method struct {
	Name    string
	Params  []Param
	Returns *Type
	// Owner is the type that declares the method.
	Owner *Type
}

// EnumConstant is one constant of an enum type. Name is how templates spell it,
// Ident the package-level identifier generated code refers to.
type EnumConstant struct {
	Name  string
	Ident string
}

// Key returns the canonical signature of the type: primitives verbatim,
// object types as "<package>.<Name>".
func (t *Type) Key() string {
	if t == nil {
		return "<nil>"
	}
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// String implements fmt.Stringer
func (t *Type) String() string {
	return t.Key()
}

// SimpleName returns the unqualified name
func (t *Type) SimpleName() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// GoName returns the identifier of the type inside its package
func (t *Type) GoName() string {
	return strings.ReplaceAll(t.Name, ".", "")
}

// IsPrimitive reports whether t is a primitive
func (t *Type) IsPrimitive() bool {
	return t != nil && t.Kind == Primitive
}

// IsNumeric reports whether t is a numeric primitive
func (t *Type) IsNumeric() bool {
	return t.IsPrimitive() && numericPrimitives[t.Name]
}

// IsBoxedNumeric reports whether t is a boxed numeric primitive
func (t *Type) IsBoxedNumeric() bool {
	return t != nil && t.Kind == Boxed && t.Unboxed.IsNumeric()
}

// IsEnum reports whether t is an enum
func (t *Type) IsEnum() bool {
	return t != nil && t.Kind == Enum
}

// IsString reports whether t is the string primitive
func (t *Type) IsString() bool {
	return t.IsPrimitive() && t.Name == "string"
}

// DeclaredMethod finds a method declared directly on t
func (t *Type) DeclaredMethod(name string) *Method {
	for _, m := range t.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// AddMethod declares a method on t and returns t for chaining
func (t *Type) AddMethod(name string, returns *Type, params ...Param) *Type {
	t.Methods = append(t.Methods, &Method{Name: name, Params: params, Returns: returns, Owner: t})
	return t
}

// AddConstructor declares a constructor function for t and returns t
func (t *Type) AddConstructor(name string, params ...Param) *Type {
	t.Constructors = append(t.Constructors, &Method{Name: name, Params: params, Returns: t, Owner: t})
	return t
}

// ParamTypes returns the parameter types of m
func (m *Method) ParamTypes() []*Type {
	out := make([]*Type, len(m.Params))
	for i, p := range m.Params {
		out[i] = p.Type
	}
	return out
}

// Signature renders the method for diagnostics: Name(int, string)
func (m *Method) Signature() string {
	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		names[i] = p.Type.Key()
	}
	return m.Name + "(" + strings.Join(names, ", ") + ")"
}

// P is shorthand for building a Param
func P(name string, t *Type) Param {
	return Param{Name: name, Type: t}
}

var numericPrimitives = map[string]bool{
	"int":     true,
	"int8":    true,
	"int16":   true,
	"int32":   true,
	"int64":   true,
	"uint":    true,
	"uint8":   true,
	"uint16":  true,
	"uint32":  true,
	"uint64":  true,
	"float32": true,
	"float64": true,
}

// PrimitiveNames lists every primitive the oracle knows about
var PrimitiveNames = []string{
	"bool", "string",
	"int", "int8", "int16", "int32", "int64",
	"uint", "uint8", "uint16", "uint32", "uint64",
	"float32", "float64",
}
