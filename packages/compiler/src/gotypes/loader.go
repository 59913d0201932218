// Package gotypes fills a type oracle from real Go packages. Exported named
// types become classes, interfaces and enums; capability markers come from
// //uibind: doc directives and uibind struct tags.
//
// Directives on a type declaration:
//
//	//uibind:renderable
//	//uibind:childtag <tag> <Method> [limit]
//	//uibind:constructor <NewFunc> [param...]
//	//uibind:factory <Method>
//	//uibind:handler <Method> <Event> <field...>
//
// Owner fields are tagged `uibind:"name"` or `uibind:"name,provided"`.
package gotypes

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"uibind-go/packages/compiler/src/typeoracle"
)

const directivePrefix = "//uibind:"

// Loader loads Go packages into a Registry
type Loader struct {
	Registry *typeoracle.Registry
	// Dir is the directory the go command runs in; empty means the current one.
	Dir    string
	Logger *slog.Logger
}

// loaded pairs a registered type with the Go type it was built from
type loaded struct {
	typ   *typeoracle.Type
	named *types.Named
	doc   *ast.CommentGroup
}

// Load registers every exported named type of the packages matching
// patterns. Types already present in the registry are kept as they are.
func (l *Loader) Load(ctx context.Context, patterns ...string) error {
	if len(patterns) == 0 {
		return fmt.Errorf("no packages specified")
	}
	cfg := &packages.Config{
		Context: ctx,
		Dir:     l.Dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}

	b := &builder{
		reg:     l.Registry,
		byNamed: map[*types.Named]*typeoracle.Type{},
		created: map[*typeoracle.Type]bool{},
	}
	var all []*loaded
	for _, pkg := range pkgs {
		found, err := b.declare(pkg)
		if err != nil {
			return err
		}
		all = append(all, found...)
		l.log("loaded package", slog.String("package", pkg.PkgPath), slog.Int("types", len(found)))
	}
	ifaces := b.interfaces(all)
	for _, ld := range all {
		if err := b.link(ld, ifaces); err != nil {
			return fmt.Errorf("type %s: %w", ld.typ.Key(), err)
		}
	}
	for _, pkg := range pkgs {
		b.constructors(pkg)
	}
	return nil
}

func (l *Loader) log(msg string, attrs ...slog.Attr) {
	if l.Logger == nil {
		return
	}
	l.Logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

type builder struct {
	reg     *typeoracle.Registry
	byNamed map[*types.Named]*typeoracle.Type
	created map[*typeoracle.Type]bool
}

// declare registers the exported named types of pkg without linking them
func (b *builder) declare(pkg *packages.Package) ([]*loaded, error) {
	docs := typeDocs(pkg)
	scope := pkg.Types.Scope()
	var out []*loaded
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !tn.Exported() || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}
		if existing := b.reg.FindType(pkg.PkgPath, name); existing != nil {
			b.byNamed[named] = existing
			continue
		}
		t := &typeoracle.Type{Package: pkg.PkgPath, PkgName: pkg.Name, Name: name}
		switch named.Underlying().(type) {
		case *types.Interface:
			t.Kind = typeoracle.Interface
		case *types.Basic:
			consts := enumConstants(scope, named)
			if len(consts) == 0 {
				continue
			}
			t.Kind = typeoracle.Enum
			t.EnumConstants = consts
		case *types.Struct:
			t.Kind = typeoracle.Class
		default:
			continue
		}
		if _, err := b.reg.Register(t); err != nil {
			return nil, err
		}
		b.byNamed[named] = t
		b.created[t] = true
		out = append(out, &loaded{typ: t, named: named, doc: docs[tn.Pos()]})
	}
	return out, nil
}

// typeDocs maps the position of each type name to its doc comment
func typeDocs(pkg *packages.Package) map[token.Pos]*ast.CommentGroup {
	docs := map[token.Pos]*ast.CommentGroup{}
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				doc := ts.Doc
				if doc == nil {
					doc = gd.Doc
				}
				docs[ts.Name.Pos()] = doc
			}
		}
	}
	return docs
}

// enumConstants collects the constants of named in declaration order. The
// template name drops the type name prefix: UnitPX of Unit is PX.
func enumConstants(scope *types.Scope, named *types.Named) []typeoracle.EnumConstant {
	var consts []*types.Const
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if ok && c.Exported() && types.Identical(c.Type(), named) {
			consts = append(consts, c)
		}
	}
	sort.Slice(consts, func(i, j int) bool { return consts[i].Pos() < consts[j].Pos() })
	out := make([]typeoracle.EnumConstant, 0, len(consts))
	for _, c := range consts {
		name := strings.TrimPrefix(c.Name(), named.Obj().Name())
		if name == "" {
			name = c.Name()
		}
		out = append(out, typeoracle.EnumConstant{Name: strings.ToUpper(name), Ident: c.Name()})
	}
	return out
}

func (b *builder) interfaces(all []*loaded) []*loaded {
	var out []*loaded
	for _, ld := range all {
		if ld.typ.Kind == typeoracle.Interface {
			out = append(out, ld)
		}
	}
	return out
}

// link fills in supertypes, methods and markers
func (b *builder) link(ld *loaded, ifaces []*loaded) error {
	t := ld.typ
	switch u := ld.named.Underlying().(type) {
	case *types.Struct:
		for i := 0; i < u.NumFields(); i++ {
			f := u.Field(i)
			if f.Embedded() && t.Super == nil {
				if super := b.lookup(f.Type()); super != nil && super.Kind == typeoracle.Class {
					t.Super = super
				}
			}
		}
		ptr := types.NewPointer(ld.named)
		for _, iface := range ifaces {
			if types.Implements(ptr, iface.named.Underlying().(*types.Interface)) {
				t.Interfaces = append(t.Interfaces, iface.typ)
			}
		}
		fields, err := b.uiFields(u)
		if err != nil {
			return err
		}
		t.Markers.UiFields = fields
		for i := 0; i < ld.named.NumMethods(); i++ {
			b.addMethod(t, ld.named.Method(i))
		}
	case *types.Interface:
		for i := 0; i < u.NumEmbeddeds(); i++ {
			if super := b.lookup(u.EmbeddedType(i)); super != nil {
				t.Interfaces = append(t.Interfaces, super)
			}
		}
		for i := 0; i < u.NumExplicitMethods(); i++ {
			b.addMethod(t, u.ExplicitMethod(i))
		}
	}
	return parseDirectives(t, ld.doc)
}

// addMethod adds an exported method whose signature maps onto oracle types;
// other methods are invisible to templates.
func (b *builder) addMethod(t *typeoracle.Type, fn *types.Func) {
	if !fn.Exported() {
		return
	}
	sig := fn.Type().(*types.Signature)
	params, ret, ok := b.signature(sig)
	if !ok {
		return
	}
	t.AddMethod(fn.Name(), ret, params...)
}

func (b *builder) signature(sig *types.Signature) ([]typeoracle.Param, *typeoracle.Type, bool) {
	if sig.Variadic() || sig.Results().Len() > 1 {
		return nil, nil, false
	}
	params := make([]typeoracle.Param, 0, sig.Params().Len())
	for i := 0; i < sig.Params().Len(); i++ {
		p := sig.Params().At(i)
		pt := b.lookup(p.Type())
		if pt == nil {
			return nil, nil, false
		}
		name := p.Name()
		if name == "" {
			name = "p" + strconv.Itoa(i)
		}
		params = append(params, typeoracle.P(name, pt))
	}
	var ret *typeoracle.Type
	if sig.Results().Len() == 1 {
		if ret = b.lookup(sig.Results().At(0).Type()); ret == nil {
			return nil, nil, false
		}
	}
	return params, ret, true
}

// lookup maps a Go type onto the oracle: basic types and pointers to them
// are primitives and boxed primitives, named types and pointers to them are
// their registered types.
func (b *builder) lookup(t types.Type) *typeoracle.Type {
	if ptr, ok := t.(*types.Pointer); ok {
		if basic, ok := ptr.Elem().(*types.Basic); ok {
			return b.reg.Primitive("*" + basic.Name())
		}
		t = ptr.Elem()
	}
	switch tt := t.(type) {
	case *types.Basic:
		return b.reg.Primitive(tt.Name())
	case *types.Named:
		if found, ok := b.byNamed[tt]; ok {
			return found
		}
		if obj := tt.Obj(); obj.Pkg() != nil {
			return b.reg.FindType(obj.Pkg().Path(), obj.Name())
		}
	case *types.Interface:
		if tt.Empty() {
			found, _ := b.reg.ResolveType("any")
			return found
		}
	}
	return nil
}

// uiFields reads the uibind tags of an owner struct
func (b *builder) uiFields(s *types.Struct) ([]typeoracle.UiField, error) {
	var out []typeoracle.UiField
	for i := 0; i < s.NumFields(); i++ {
		tag, ok := reflect.StructTag(s.Tag(i)).Lookup("uibind")
		if !ok {
			continue
		}
		f := s.Field(i)
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name()
		}
		typ := b.lookup(f.Type())
		if typ == nil {
			return nil, fmt.Errorf("field %s has a type templates cannot produce: %s", f.Name(), f.Type())
		}
		out = append(out, typeoracle.UiField{Name: name, Type: typ, Provided: opts == "provided"})
	}
	return out, nil
}

// constructors attaches New<Type> functions to the types they return
func (b *builder) constructors(pkg *packages.Package) {
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok || !fn.Exported() || !strings.HasPrefix(name, "New") {
			continue
		}
		sig := fn.Type().(*types.Signature)
		if sig.Results().Len() != 1 {
			continue
		}
		typ := b.lookup(sig.Results().At(0).Type())
		if typ == nil || !b.created[typ] || typ.Package != pkg.PkgPath || typ.Kind != typeoracle.Class {
			continue
		}
		params, _, ok := b.signature(sig)
		if !ok {
			continue
		}
		typ.AddConstructor(name, params...)
	}
}

// parseDirectives reads the //uibind: lines of a type's doc comment
func parseDirectives(t *typeoracle.Type, doc *ast.CommentGroup) error {
	if doc == nil {
		return nil
	}
	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, directivePrefix) {
			continue
		}
		args := strings.Fields(strings.TrimPrefix(c.Text, directivePrefix))
		if len(args) == 0 {
			return fmt.Errorf("empty directive")
		}
		m := &t.Markers
		switch verb, rest := args[0], args[1:]; verb {
		case "renderable":
			m.Renderable = true
		case "childtag":
			if len(rest) < 2 || len(rest) > 3 {
				return fmt.Errorf("childtag wants <tag> <Method> [limit], got %q", c.Text)
			}
			ct := typeoracle.ChildTag{Tag: rest[0], Method: rest[1]}
			if len(rest) == 3 {
				n, err := strconv.Atoi(rest[2])
				if err != nil {
					return fmt.Errorf("childtag limit %q: %w", rest[2], err)
				}
				ct.Limit = n
			}
			m.ChildTags = append(m.ChildTags, ct)
		case "constructor":
			if len(rest) == 0 {
				return fmt.Errorf("constructor wants a function name")
			}
			m.Constructor = rest[0]
			m.ConstructorParams = rest[1:]
		case "factory":
			if len(rest) != 1 {
				return fmt.Errorf("factory wants one method name, got %q", c.Text)
			}
			m.Factories = append(m.Factories, rest[0])
		case "handler":
			if len(rest) < 3 {
				return fmt.Errorf("handler wants <Method> <Event> <field...>, got %q", c.Text)
			}
			m.Handlers = append(m.Handlers, typeoracle.Handler{Method: rest[0], Event: rest[1], Fields: rest[2:]})
		default:
			return fmt.Errorf("unknown directive %q", verb)
		}
	}
	return nil
}
