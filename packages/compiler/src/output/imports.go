package output

import (
	"path"
	"sort"
	"strconv"

	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
)

// Imports tracks the packages a generated file refers to and the identifier
// each one is imported under.
type Imports struct {
	self    string
	byPath  map[string]string
	claimed map[string]int
}

// NewImports creates an import set for a file in package self
func NewImports(self string) *Imports {
	return &Imports{self: self, byPath: map[string]string{}, claimed: map[string]int{}}
}

// Self returns the import path of the generated file's package
func (im *Imports) Self() string {
	return im.self
}

// Add imports pkgPath and returns the identifier to qualify it with. The
// preferred name is used unless another package already claimed it.
func (im *Imports) Add(pkgPath, preferred string) string {
	if pkgPath == "" || pkgPath == im.self {
		return ""
	}
	if name, ok := im.byPath[pkgPath]; ok {
		return name
	}
	if preferred == "" {
		preferred = path.Base(pkgPath)
	}
	name := util.SanitizeIdentifier(preferred)
	if count := im.claimed[name]; count > 0 {
		im.claimed[name] = count + 1
		name = name + strconv.Itoa(count+1)
	}
	im.claimed[name]++
	im.byPath[pkgPath] = name
	return name
}

// Qualify returns name qualified with the package of t, importing it
func (im *Imports) Qualify(t *typeoracle.Type, name string) string {
	if q := im.Add(t.Package, t.PkgName); q != "" {
		return q + "." + name
	}
	return name
}

// TypeRef returns the Go type expression for t: pointers for classes, the
// bare name for interfaces, enums and primitives.
func (im *Imports) TypeRef(t *typeoracle.Type) string {
	switch t.Kind {
	case typeoracle.Primitive, typeoracle.Boxed:
		return t.Name
	case typeoracle.Class:
		return "*" + im.Qualify(t, t.GoName())
	}
	return im.Qualify(t, t.GoName())
}

// Import is one import line
type Import struct {
	Path string
	Name string
}

// List returns the imports sorted by path
func (im *Imports) List() []Import {
	out := make([]Import, 0, len(im.byPath))
	for p, name := range im.byPath {
		out = append(out, Import{Path: p, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
