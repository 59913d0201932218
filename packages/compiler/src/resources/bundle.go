// Package resources generates the resource bundle of a template: the style
// blocks, images and data files its root directives declare.
package resources

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log/slog"
	"mime"
	"path"
	"strconv"
	"strings"

	"uibind-go/packages/compiler/src/output"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/widgets"
)

// Style is a ui:style declaration
type Style struct {
	Field string
	// Sources are stylesheet files relative to the template.
	Sources []string
	// Type is the declared style interface, or nil for a generated one.
	Type *typeoracle.Type
	// CSS is the inline stylesheet text.
	CSS string
	Loc *util.ParseLocation
}

// Image is a ui:image declaration
type Image struct {
	Field       string
	Src         string
	FlipRtl     bool
	RepeatStyle string
	Loc         *util.ParseLocation
}

// Data is a ui:data declaration
type Data struct {
	Field    string
	Src      string
	MimeType string
	Loc      *util.ParseLocation
}

// Collaborator declares resources on a generated bundle type. Every
// declaration becomes a bundle method returning the resource.
type Collaborator interface {
	// BundleType is the generated bundle type.
	BundleType() *typeoracle.Type
	// Initializer is the expression constructing the bundle.
	Initializer() string
	// DeclareStyle adds a style and returns the field type and bundle method.
	DeclareStyle(s *Style) (*typeoracle.Type, string, error)
	// DeclareImage adds an image and returns the bundle method.
	DeclareImage(img *Image) (string, error)
	// DeclareData adds a data file and returns the bundle method.
	DeclareData(d *Data) (string, error)
	// GeneratedTypes are the types the declarations introduced.
	GeneratedTypes() []*typeoracle.Type
	// Declarations renders the Go source of the generated types.
	Declarations() []string
	// Len reports how many resources were declared.
	Len() int
}

// Options configure a Bundle
type Options struct {
	// PkgPath and PkgName locate the generated code.
	PkgPath string
	PkgName string
	// Prefix names the generated types: <prefix>Bundle, <prefix><Field>.
	Prefix string
	// FS resolves resource files relative to the template.
	FS      fs.FS
	Oracle  typeoracle.Oracle
	Imports *output.Imports
	Logger  *slog.Logger
}

type style struct {
	decl    *Style
	typ     *typeoracle.Type
	method  string
	sheet   *Stylesheet
	classes map[string]string
	// accessors maps accessor method names to class names.
	accessors map[string]string
	order     []string
}

type resource struct {
	method string
	expr   string
	retRef string
}

// Bundle is the default Collaborator
type Bundle struct {
	opts      Options
	typ       *typeoracle.Type
	styles    []*style
	resources []*resource
	methods   map[string]bool
	generated []*typeoracle.Type
	logger    *slog.Logger
}

// NewBundle creates an empty bundle
func NewBundle(opts Options) *Bundle {
	logger := opts.Logger
	if logger != nil {
		logger = logger.With(slog.String("component", "resources"))
	}
	return &Bundle{
		opts: opts,
		typ: &typeoracle.Type{
			Package: opts.PkgPath,
			PkgName: opts.PkgName,
			Name:    opts.Prefix + "Bundle",
			Kind:    typeoracle.Class,
		},
		methods: map[string]bool{},
		logger:  logger,
	}
}

// BundleType implements Collaborator
func (b *Bundle) BundleType() *typeoracle.Type {
	return b.typ
}

// Initializer implements Collaborator
func (b *Bundle) Initializer() string {
	return "&" + b.typ.Name + "{}"
}

// GeneratedTypes implements Collaborator
func (b *Bundle) GeneratedTypes() []*typeoracle.Type {
	return b.generated
}

// Len implements Collaborator
func (b *Bundle) Len() int {
	return len(b.styles) + len(b.resources)
}

func (b *Bundle) log(msg string, attrs ...slog.Attr) {
	if b.logger == nil {
		return
	}
	b.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

func (b *Bundle) claimMethod(field string, loc *util.ParseLocation) (string, error) {
	name := util.ExportedName(field)
	if b.methods[name] {
		return "", util.Errorf(util.ResourceError, loc, "Resource %q collides with another resource named %s", field, name)
	}
	b.methods[name] = true
	return name, nil
}

func (b *Bundle) libraryType(pkg, name string) *typeoracle.Type {
	if t := b.opts.Oracle.FindType(pkg, name); t != nil {
		return t
	}
	return &typeoracle.Type{Package: pkg, PkgName: path.Base(pkg), Name: name, Kind: typeoracle.Interface}
}

func (b *Bundle) read(name string, loc *util.ParseLocation) ([]byte, error) {
	if b.opts.FS == nil {
		return nil, util.Errorf(util.ResourceError, loc, "Unable to find resource %q: no resource directory", name)
	}
	data, err := fs.ReadFile(b.opts.FS, path.Clean(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, util.Errorf(util.ResourceError, loc, "Unable to find resource %q", name)
	}
	if err != nil {
		return nil, util.Errorf(util.ResourceError, loc, "Unable to read resource %q: %v", name, err)
	}
	return data, nil
}

// obfuscationPrefix is stable for a given bundle and field
func (b *Bundle) obfuscationPrefix(field string) string {
	h := fnv.New32a()
	h.Write([]byte(b.opts.PkgPath + "." + b.typ.Name + "." + field))
	return "G" + strings.ToUpper(strconv.FormatUint(uint64(h.Sum32()), 36))
}

var reservedStyleMethods = map[string]bool{"EnsureInjected": true, "Text": true}

// DeclareStyle implements Collaborator
func (b *Bundle) DeclareStyle(s *Style) (*typeoracle.Type, string, error) {
	method, err := b.claimMethod(s.Field, s.Loc)
	if err != nil {
		return nil, "", err
	}
	var css strings.Builder
	for _, src := range s.Sources {
		data, err := b.read(src, s.Loc)
		if err != nil {
			return nil, "", err
		}
		css.Write(data)
		css.WriteString("\n")
	}
	css.WriteString(s.CSS)
	sheet := ParseStylesheet(css.String())

	st := &style{decl: s, method: method, sheet: sheet, classes: map[string]string{}, accessors: map[string]string{}}
	prefix := b.obfuscationPrefix(s.Field)
	for _, class := range sheet.Classes {
		accessor := util.ExportedName(class)
		if reservedStyleMethods[accessor] {
			return nil, "", util.Errorf(util.ResourceError, s.Loc, "Class %q of style %q collides with the %s method", class, s.Field, accessor)
		}
		if other, ok := st.accessors[accessor]; ok {
			return nil, "", util.Errorf(util.ResourceError, s.Loc, "Class names %q and %q of style %q both map to %s()", other, class, s.Field, accessor)
		}
		st.accessors[accessor] = class
		st.order = append(st.order, accessor)
		st.classes[class] = prefix + "-" + class
	}

	cssResource := b.libraryType(widgets.ResourcesPackage, "CssResource")
	str := b.opts.Oracle.FindType("", "string")
	gen := &typeoracle.Type{
		Package:    b.opts.PkgPath,
		PkgName:    b.opts.PkgName,
		Name:       b.opts.Prefix + util.ExportedName(s.Field),
		Kind:       typeoracle.Class,
		Interfaces: []*typeoracle.Type{cssResource},
	}
	gen.AddMethod("EnsureInjected", b.opts.Oracle.FindType("", "bool")).AddMethod("Text", str)
	for _, accessor := range st.order {
		gen.AddMethod(accessor, str)
	}
	st.typ = gen
	fieldType := gen
	if s.Type != nil {
		if s.Type.Kind != typeoracle.Interface {
			return nil, "", util.Errorf(util.ResourceError, s.Loc, "Style type %s must be an interface", s.Type.Key())
		}
		for _, cur := range typeoracle.TypeHierarchy(s.Type) {
			for _, m := range cur.Methods {
				if len(m.Params) != 0 || reservedStyleMethods[m.Name] || !m.Returns.IsString() {
					continue
				}
				if _, ok := st.accessors[m.Name]; !ok {
					return nil, "", util.Errorf(util.ResourceError, s.Loc, "Style %q has no class for method %s of %s",
						s.Field, m.Name, s.Type.Key())
				}
			}
		}
		gen.Interfaces = append(gen.Interfaces, s.Type)
		fieldType = s.Type
	}
	b.styles = append(b.styles, st)
	b.generated = append(b.generated, gen)
	b.typ.AddMethod(method, fieldType)
	b.log("declared style", slog.String("field", s.Field), slog.Int("classes", len(st.order)))
	return fieldType, method, nil
}

var imageExtensions = []string{".png", ".gif", ".jpg", ".jpeg"}

var repeatStyles = map[string]string{
	"None":       "RepeatNone",
	"Horizontal": "RepeatHorizontal",
	"Vertical":   "RepeatVertical",
	"Both":       "RepeatBoth",
}

// DeclareImage implements Collaborator
func (b *Bundle) DeclareImage(img *Image) (string, error) {
	src := img.Src
	if src == "" {
		for _, ext := range imageExtensions {
			if b.opts.FS == nil {
				break
			}
			if _, err := fs.Stat(b.opts.FS, img.Field+ext); err == nil {
				src = img.Field + ext
				break
			}
		}
		if src == "" {
			return "", util.Errorf(util.ResourceError, img.Loc, "No src for image %q and no file named after it", img.Field)
		}
	}
	repeat := ""
	if img.RepeatStyle != "" {
		ident, ok := repeatStyles[img.RepeatStyle]
		if !ok {
			return "", util.Errorf(util.AttributeError, img.Loc, "Unknown repeatStyle %q for image %q", img.RepeatStyle, img.Field)
		}
		repeat = ident
	}
	method, err := b.claimMethod(img.Field, img.Loc)
	if err != nil {
		return "", err
	}
	data, err := b.read(src, img.Loc)
	if err != nil {
		return "", err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", util.Errorf(util.ResourceError, img.Loc, "Unable to decode image %q: %v", src, err)
	}
	pkg := b.opts.Imports.Add(widgets.ResourcesPackage, "resources")
	url := "data:image/" + format + ";base64," + base64.StdEncoding.EncodeToString(data)
	expr := fmt.Sprintf("%s.NewImageResource(%s, %s, %d, %d)", pkg, strconv.Quote(img.Field), strconv.Quote(url), cfg.Width, cfg.Height)
	if img.FlipRtl || repeat != "" {
		var opts []string
		if img.FlipRtl {
			opts = append(opts, "FlipRtl: true")
		}
		if repeat != "" {
			opts = append(opts, "RepeatStyle: "+pkg+"."+repeat)
		}
		expr = fmt.Sprintf("%s.NewImageResourceWithOptions(%s, %s, %d, %d, %s.ImageOptions{%s})", pkg,
			strconv.Quote(img.Field), strconv.Quote(url), cfg.Width, cfg.Height, pkg, strings.Join(opts, ", "))
	}
	t := b.libraryType(widgets.ResourcesPackage, "ImageResource")
	b.resources = append(b.resources, &resource{method: method, expr: expr, retRef: b.opts.Imports.TypeRef(t)})
	b.typ.AddMethod(method, t)
	b.log("declared image", slog.String("field", img.Field), slog.String("src", src))
	return method, nil
}

// DeclareData implements Collaborator
func (b *Bundle) DeclareData(d *Data) (string, error) {
	if d.Src == "" {
		return "", util.Errorf(util.AttributeError, d.Loc, "Missing required attribute \"src\" for data %q", d.Field)
	}
	method, err := b.claimMethod(d.Field, d.Loc)
	if err != nil {
		return "", err
	}
	data, err := b.read(d.Src, d.Loc)
	if err != nil {
		return "", err
	}
	mimeType := d.MimeType
	if mimeType == "" {
		mimeType = mime.TypeByExtension(path.Ext(d.Src))
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	pkg := b.opts.Imports.Add(widgets.ResourcesPackage, "resources")
	url := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	t := b.libraryType(widgets.ResourcesPackage, "DataResource")
	b.resources = append(b.resources, &resource{
		method: method,
		expr:   fmt.Sprintf("%s.NewDataResource(%s, %s)", pkg, strconv.Quote(d.Field), strconv.Quote(url)),
		retRef: b.opts.Imports.TypeRef(t),
	})
	b.typ.AddMethod(method, t)
	b.log("declared data", slog.String("field", d.Field), slog.String("mimeType", mimeType))
	return method, nil
}

// Declarations implements Collaborator
func (b *Bundle) Declarations() []string {
	if b.Len() == 0 {
		return nil
	}
	out := []string{fmt.Sprintf("type %s struct{}", b.typ.Name)}
	for _, st := range b.styles {
		ret := b.opts.Imports.TypeRef(st.typ)
		if st.decl.Type != nil {
			ret = b.opts.Imports.TypeRef(st.decl.Type)
		}
		out = append(out, fmt.Sprintf("func (*%s) %s() %s {\n\treturn &%s{}\n}", b.typ.Name, st.method, ret, st.typ.Name))
	}
	for _, r := range b.resources {
		out = append(out, fmt.Sprintf("func (*%s) %s() %s {\n\treturn %s\n}", b.typ.Name, r.method, r.retRef, r.expr))
	}
	for _, st := range b.styles {
		out = append(out, b.renderStyle(st)...)
	}
	return out
}

func (b *Bundle) renderStyle(st *style) []string {
	pkg := b.opts.Imports.Add(widgets.ResourcesPackage, "resources")
	name := st.typ.Name
	cssConst := util.Uncapitalize(name) + "CSS"
	out := []string{
		fmt.Sprintf("// %s is the generated style of field %q.\ntype %s struct{}", name, st.decl.Field, name),
		fmt.Sprintf("const %s = %s", cssConst, strconv.Quote(strings.TrimSpace(st.sheet.Rename(st.classes)))),
		fmt.Sprintf("func (*%s) EnsureInjected() bool {\n\treturn %s.InjectStyle(%s)\n}", name, pkg, cssConst),
		fmt.Sprintf("func (*%s) Text() string {\n\treturn %s\n}", name, cssConst),
	}
	for _, accessor := range st.order {
		out = append(out, fmt.Sprintf("func (*%s) %s() string {\n\treturn %s\n}",
			name, accessor, strconv.Quote(st.classes[st.accessors[accessor]])))
	}
	return out
}
