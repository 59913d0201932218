package fields

import (
	"strings"

	"uibind-go/packages/compiler/src/output"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/xmltree"
)

// FieldReference is a {a.b.c} expression used where one of a set of types is
// expected.
type FieldReference struct {
	manager *FieldManager
	elem    *xmltree.Element
	path    string
	types   []*typeoracle.Type
	token   string
}

func newFieldReference(m *FieldManager, elem *xmltree.Element, path string, types []*typeoracle.Type) *FieldReference {
	return &FieldReference{manager: m, elem: elem, path: strings.TrimSpace(path), types: types}
}

// Path returns the dotted path
func (r *FieldReference) Path() string {
	return r.path
}

// FieldName returns the first path segment: the referenced field
func (r *FieldReference) FieldName() string {
	if i := strings.IndexByte(r.path, '.'); i >= 0 {
		return r.path[:i]
	}
	return r.path
}

// Token returns the marker standing for the resolved expression
func (r *FieldReference) Token() string {
	return r.token
}

// Types returns the accepted left-hand types
func (r *FieldReference) Types() []*typeoracle.Type {
	return r.types
}

// ReturnType walks the path and returns the type it evaluates to along with
// the Go expression reading it.
func (r *FieldReference) ReturnType() (*typeoracle.Type, string, error) {
	segments := strings.Split(r.path, ".")
	field := r.manager.LookupField(segments[0])
	if field == nil {
		return nil, "", r.elem.Error(util.SymbolError, "Reference to unknown field %q in %s", segments[0], r.elem)
	}
	t := field.Type()
	expr := field.Name()
	for _, seg := range segments[1:] {
		getter := typeoracle.FindGetter(t, seg)
		if getter == nil {
			return nil, "", r.elem.Error(util.SymbolError, "No public accessor for %q in type %s, referenced by {%s} in %s",
				seg, t.Key(), r.path, r.elem)
		}
		expr += "." + getter.Name + "()"
		t = getter.Returns
	}
	return t, expr, nil
}

func (r *FieldReference) resolve() (string, error) {
	rhs, expr, err := r.ReturnType()
	if err != nil {
		return "", err
	}
	if field := r.manager.LookupField(r.FieldName()); field != nil {
		field.MarkUsed()
	}
	if len(r.types) == 0 {
		return expr, nil
	}
	for _, lhs := range r.types {
		if adapted, ok := r.adapt(lhs, rhs, expr); ok {
			return adapted, nil
		}
	}
	names := make([]string, len(r.types))
	for i, t := range r.types {
		names[i] = t.Key()
	}
	return "", r.elem.Error(util.AttributeError, "{%s} is %s, expected %s in %s",
		r.path, rhs.Key(), strings.Join(names, " or "), r.elem)
}

// adapt converts expr of type rhs for use as lhs. Numeric primitives accept
// any numeric primitive or boxed numeric; the consuming parser applies the
// cast. A boxed type accepts its own primitive or anything assignable.
func (r *FieldReference) adapt(lhs, rhs *typeoracle.Type, expr string) (string, bool) {
	if r.manager.oracle.IsAssignable(rhs, lhs) {
		return expr, true
	}
	switch {
	case lhs.IsNumeric() && rhs.IsNumeric():
		return expr, true
	case lhs.IsNumeric() && rhs.IsBoxedNumeric():
		return "*" + expr, true
	case lhs.IsPrimitive() && rhs.Kind == typeoracle.Boxed && rhs.Unboxed.Key() == lhs.Key():
		return "*" + expr, true
	case lhs.Kind == typeoracle.Boxed && lhs.Unboxed.Key() == rhs.Key():
		return output.Box(lhs.Name, expr), true
	}
	return "", false
}
