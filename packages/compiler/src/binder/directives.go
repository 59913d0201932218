package binder

import (
	"log/slog"
	"strings"

	"uibind-go/packages/compiler/src/elementparsers"
	"uibind-go/packages/compiler/src/fields"
	"uibind-go/packages/compiler/src/resources"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/widgets"
	"uibind-go/packages/compiler/src/xmltree"
)

// parseDirectives handles the binder elements directly under the root. Each
// declares fields before the ui element is parsed, so references to them
// resolve regardless of document order.
func (w *Writer) parseDirectives(directives []*xmltree.Element) error {
	for _, elem := range directives {
		var err error
		switch elem.LocalName() {
		case "with":
			err = w.parseWith(elem)
		case "import":
			err = w.parseImport(elem)
		case "style":
			err = w.parseStyle(elem)
		case "image":
			err = w.parseImage(elem)
		case "data":
			err = w.parseData(elem)
		default:
			err = elem.Error(util.StructuralError, "Unknown binder element %s", elem)
		}
		if err != nil {
			return err
		}
		if err := elem.AssertNoAttributes(); err != nil {
			return err
		}
		if err := elem.AssertNoBody(); err != nil {
			return err
		}
	}
	return w.registerGenerated()
}

// registerGenerated adds the types the collaborators generated to the
// overlay, so field references can walk their accessors.
func (w *Writer) registerGenerated() error {
	for _, t := range w.resources.GeneratedTypes() {
		if w.overlay.FindType(t.Package, t.Name) == t {
			continue
		}
		if err := w.overlay.Register(t); err != nil {
			return util.Errorf(util.ResourceError, nil, "%v", err)
		}
	}
	return nil
}

// declareField registers a directive field, refusing a name already taken
func (w *Writer) declareField(elem *xmltree.Element, precedence fields.Precedence, typ *typeoracle.Type, name string) (*fields.FieldWriter, error) {
	if name == "" || reservedNames[name] {
		return nil, elem.Error(util.AttributeError, "Illegal field name %q in %s", name, elem)
	}
	if existing := w.fields.LookupField(name); existing != nil {
		return nil, elem.Error(util.SymbolError, "Duplicate declaration of field %q (%s and %s)", name, existing.Type().Key(), typ.Key())
	}
	w.log("directive field", slog.String("directive", elem.LocalName()), slog.String("field", name))
	return w.fields.RegisterFieldOfKind(precedence, typ, name)
}

// parseWith declares a field of an arbitrary type: provided by the owner, or
// built like a bean from the attributes of an optional ui:attributes child.
func (w *Writer) parseWith(elem *xmltree.Element) error {
	name, err := elem.ConsumeRequiredRawAttribute("field")
	if err != nil {
		return err
	}
	typeName, err := elem.ConsumeRequiredRawAttribute("type")
	if err != nil {
		return err
	}
	typ, err := w.overlay.ResolveType(typeName)
	if err != nil || typ == nil {
		return elem.Error(util.SymbolError, "Unknown type %q in %s", typeName, elem)
	}
	field, err := w.declareField(elem, fields.Imported, typ, name)
	if err != nil {
		return err
	}
	if w.ownerDesc != nil {
		if uf, ok := w.ownerDesc.UiField(name); ok && uf.Provided {
			field.SetProvided(true)
			if err := field.SetInitializer("owner." + uf.Name); err != nil {
				return err
			}
		}
	}

	children, err := elem.ConsumeChildElements(nil)
	if err != nil {
		return err
	}
	target := elem
	for _, child := range children {
		if !w.IsBinderElement(child) || child.LocalName() != "attributes" || target != elem {
			return child.Error(util.StructuralError, "Unexpected %s in %s, expected a single ui:attributes", child, elem)
		}
		target = child
	}

	w.fields.PushField(elem, field)
	defer w.fields.PopField()
	if err := (elementparsers.BeanParser{}).Parse(target, field, typ, w); err != nil {
		return err
	}
	return target.AssertNoAttributes()
}

// parseImport declares one field per imported enum constant:
// field="pkg.Type.CONST" imports one, field="pkg.Type.*" all of them.
func (w *Writer) parseImport(elem *xmltree.Element) error {
	spec, err := elem.ConsumeRequiredRawAttribute("field")
	if err != nil {
		return err
	}
	dot := strings.LastIndex(spec, ".")
	if dot <= 0 || dot == len(spec)-1 {
		return elem.Error(util.AttributeError, "Cannot import %q in %s, expected <type>.<constant> or <type>.*", spec, elem)
	}
	typeName, constant := spec[:dot], spec[dot+1:]
	typ, err := w.overlay.ResolveType(typeName)
	if err != nil || typ == nil {
		return elem.Error(util.SymbolError, "Unknown type %q in %s", typeName, elem)
	}
	consts := w.overlay.EnumConstants(typ)
	if len(consts) == 0 {
		return elem.Error(util.SymbolError, "%s has no constants to import in %s", typ.SimpleName(), elem)
	}
	found := false
	for _, c := range consts {
		if constant != "*" && c.Name != constant {
			continue
		}
		found = true
		field, err := w.declareField(elem, fields.Imported, typ, c.Name)
		if err != nil {
			return err
		}
		if err := field.SetInitializer(w.imports.Qualify(typ, c.Ident)); err != nil {
			return err
		}
	}
	if !found {
		return elem.Error(util.SymbolError, "%s has no constant %s in %s", typ.SimpleName(), constant, elem)
	}
	return nil
}

// parseStyle declares a generated style. The field defaults to style; the
// sheet is the inline text plus every file named by src.
func (w *Writer) parseStyle(elem *xmltree.Element) error {
	name := elem.ConsumeRawAttributeDefault("field", "style")
	src := elem.ConsumeRawAttributeDefault("src", "")
	typeName := elem.ConsumeRawAttributeDefault("type", "")
	css, err := elem.ConsumeUnescapedInnerText()
	if err != nil {
		return err
	}
	if existing := w.fields.LookupField(name); existing != nil {
		return elem.Error(util.SymbolError, "Duplicate declaration of field %q (%s)", name, existing.Type().Key())
	}
	var declared *typeoracle.Type
	if typeName != "" {
		if declared, err = w.overlay.ResolveType(typeName); err != nil || declared == nil {
			return elem.Error(util.SymbolError, "Unknown style type %q in %s", typeName, elem)
		}
	}
	bundle, err := w.bundle()
	if err != nil {
		return err
	}
	typ, method, err := w.resources.DeclareStyle(&resources.Style{
		Field:   name,
		Sources: strings.Fields(src),
		Type:    declared,
		CSS:     css,
		Loc:     elem.Location(),
	})
	if err != nil {
		return err
	}
	field, err := w.declareField(elem, fields.GeneratedCSS, typ, name)
	if err != nil {
		return err
	}
	field.Needs(bundle.Name())
	if err := field.SetInitializer(bundle.Name() + "." + method + "()"); err != nil {
		return err
	}
	field.AddStatement("%s.EnsureInjected()", field.Name())
	return nil
}

// parseImage declares an image resource
func (w *Writer) parseImage(elem *xmltree.Element) error {
	name, err := elem.ConsumeRequiredRawAttribute("field")
	if err != nil {
		return err
	}
	flip, err := elem.ConsumeBooleanConstant("flipRtl", false)
	if err != nil {
		return err
	}
	img := &resources.Image{
		Field:       name,
		Src:         elem.ConsumeRawAttributeDefault("src", ""),
		FlipRtl:     flip,
		RepeatStyle: elem.ConsumeRawAttributeDefault("repeatStyle", ""),
		Loc:         elem.Location(),
	}
	return w.declareResource(elem, name, "ImageResource", func() (string, error) {
		return w.resources.DeclareImage(img)
	})
}

// parseData declares a data resource
func (w *Writer) parseData(elem *xmltree.Element) error {
	name, err := elem.ConsumeRequiredRawAttribute("field")
	if err != nil {
		return err
	}
	src, err := elem.ConsumeRequiredRawAttribute("src")
	if err != nil {
		return err
	}
	d := &resources.Data{
		Field:    name,
		Src:      src,
		MimeType: elem.ConsumeRawAttributeDefault("mimeType", ""),
		Loc:      elem.Location(),
	}
	return w.declareResource(elem, name, "DataResource", func() (string, error) {
		return w.resources.DeclareData(d)
	})
}

func (w *Writer) declareResource(elem *xmltree.Element, name, typeName string, declare func() (string, error)) error {
	typ := w.overlay.FindType(widgets.ResourcesPackage, typeName)
	if typ == nil {
		return elem.Error(util.SymbolError, "%s needs the type %s.%s", elem, widgets.ResourcesPackage, typeName)
	}
	if existing := w.fields.LookupField(name); existing != nil {
		return elem.Error(util.SymbolError, "Duplicate declaration of field %q (%s and %s)", name, existing.Type().Key(), typ.Key())
	}
	bundle, err := w.bundle()
	if err != nil {
		return err
	}
	method, err := declare()
	if err != nil {
		return err
	}
	field, err := w.declareField(elem, fields.Imported, typ, name)
	if err != nil {
		return err
	}
	field.Needs(bundle.Name())
	return field.SetInitializer(bundle.Name() + "." + method + "()")
}
