package typeoracle

import (
	"uibind-go/packages/compiler/src/util"
)

// Oracle answers structural questions about target types. The compiler never
// inspects host metadata directly; everything it knows about a type comes
// through this interface.
type Oracle interface {
	// FindType looks up a type by package path and (possibly dotted) name.
	FindType(pkg, name string) *Type
	// ResolveType looks up a type by canonical key.
	ResolveType(key string) (*Type, error)
	// Supertypes returns the supertypes of t breadth-first, interfaces
	// before the superclass. t itself is not included.
	Supertypes(t *Type) []*Type
	// FindSetters returns every setter for property on t and its supertypes.
	FindSetters(t *Type, property string) []*Method
	// FindConstructor returns the constructor of t taking exactly paramTypes.
	FindConstructor(t *Type, paramTypes []*Type) *Method
	// IsAssignable reports whether a value of type from can be used as to.
	IsAssignable(from, to *Type) bool
	// EnumConstants returns the constants of an enum type.
	EnumConstants(t *Type) []EnumConstant
	// Descriptor returns the cached capability descriptor of t.
	Descriptor(t *Type) *Descriptor
	// DomElementType returns the DOM type for an HTML tag.
	DomElementType(tag string) *Type
}

// TypeHierarchy returns t followed by its supertypes, breadth-first with
// interfaces before the superclass. Each type appears once.
func TypeHierarchy(t *Type) []*Type {
	if t == nil {
		return nil
	}
	seen := map[*Type]bool{t: true}
	out := []*Type{t}
	for i := 0; i < len(out); i++ {
		cur := out[i]
		next := append(append([]*Type{}, cur.Interfaces...), cur.Super)
		for _, s := range next {
			if s == nil || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// FindMethod finds the most specific method called name on t or a supertype
func FindMethod(t *Type, name string) *Method {
	for _, cur := range TypeHierarchy(t) {
		if m := cur.DeclaredMethod(name); m != nil {
			return m
		}
	}
	return nil
}

// FindGetter finds a zero-argument accessor for property: Prop(), GetProp()
// or IsProp(), searching t and its supertypes.
func FindGetter(t *Type, property string) *Method {
	exported := util.ExportedName(property)
	for _, name := range []string{exported, "Get" + exported, "Is" + exported} {
		if m := FindMethod(t, name); m != nil && len(m.Params) == 0 && m.Returns != nil {
			return m
		}
	}
	return nil
}

// SetterName returns the setter name for a property: text -> SetText
func SetterName(property string) string {
	return "Set" + util.ExportedName(property)
}

// findSetters collects the setters of t. A subtype's setter hides a supertype
// setter with the same parameter list.
func findSetters(t *Type, property string) []*Method {
	name := SetterName(property)
	var out []*Method
	seen := map[string]bool{}
	for _, cur := range TypeHierarchy(t) {
		for _, m := range cur.Methods {
			if m.Name != name || len(m.Params) == 0 {
				continue
			}
			sig := m.Signature()
			if seen[sig] {
				continue
			}
			seen[sig] = true
			out = append(out, m)
		}
	}
	return out
}

func findConstructor(t *Type, paramTypes []*Type) *Method {
	for _, c := range t.Constructors {
		if len(c.Params) != len(paramTypes) {
			continue
		}
		match := true
		for i, p := range c.Params {
			if p.Type.Key() != paramTypes[i].Key() {
				match = false
				break
			}
		}
		if match {
			return c
		}
	}
	return nil
}

// isAssignable is the structural assignability check shared by every oracle
func isAssignable(from, to *Type) bool {
	if from == nil || to == nil {
		return false
	}
	if from.Key() == to.Key() {
		return true
	}
	if to.Kind == Interface && to.Package == "" && to.Name == "any" {
		return true
	}
	for _, s := range TypeHierarchy(from) {
		if s.Key() == to.Key() {
			return true
		}
	}
	return false
}
