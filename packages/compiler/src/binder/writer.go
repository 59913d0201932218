package binder

import (
	"fmt"
	"log/slog"
	"strings"

	"uibind-go/packages/compiler/src/attributeparsers"
	"uibind-go/packages/compiler/src/config"
	"uibind-go/packages/compiler/src/elementparsers"
	"uibind-go/packages/compiler/src/fields"
	"uibind-go/packages/compiler/src/messages"
	"uibind-go/packages/compiler/src/output"
	"uibind-go/packages/compiler/src/resources"
	"uibind-go/packages/compiler/src/tokenator"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/widgets"
	"uibind-go/packages/compiler/src/xmltree"
)

const (
	bundleField   = "uibindBundle"
	messagesField = "uibindMessages"
)

// reservedNames cannot name template fields: the generated method uses them.
var reservedNames = map[string]bool{"owner": true}

// Writer is the state of one compilation unit. It implements
// elementparsers.Writer and is not safe for concurrent use.
type Writer struct {
	name string
	cfg  *config.CompilerConfig
	unit *Unit

	overlay   *typeoracle.Overlay
	owner     *typeoracle.Type
	ownerDesc *typeoracle.Descriptor
	fields    *fields.FieldManager
	parsers   *attributeparsers.Parsers
	imports   *output.Imports
	tokens    *tokenator.Tokenator
	logger    *util.MortalLogger

	resources resources.Collaborator
	messages  messages.Collaborator
	sections  sections
	domIDs    int
	// trailing statements run after the attach phase: owner bindings and
	// handler registrations.
	trailing []string
}

var _ elementparsers.Writer = (*Writer)(nil)

// Oracle implements elementparsers.Writer
func (w *Writer) Oracle() typeoracle.Oracle { return w.overlay }

// Fields implements elementparsers.Writer
func (w *Writer) Fields() *fields.FieldManager { return w.fields }

// Parsers implements elementparsers.Writer
func (w *Writer) Parsers() *attributeparsers.Parsers { return w.parsers }

// Imports implements elementparsers.Writer
func (w *Writer) Imports() *output.Imports { return w.imports }

// Tokens implements elementparsers.Writer
func (w *Writer) Tokens() *tokenator.Tokenator { return w.tokens }

// Logger implements elementparsers.Writer
func (w *Writer) Logger() *util.MortalLogger { return w.logger }

// Owner implements elementparsers.Writer
func (w *Writer) Owner() *typeoracle.Descriptor { return w.ownerDesc }

// IsBinderURI reports whether uri is a binder namespace
func IsBinderURI(uri string) bool {
	return uri == BinderURI || uri == LegacyBinderURI
}

// IsBinderElement implements elementparsers.Writer
func (w *Writer) IsBinderElement(elem *xmltree.Element) bool {
	return IsBinderURI(elem.Namespace())
}

// ConsumeBinderAttribute implements elementparsers.Writer
func (w *Writer) ConsumeBinderAttribute(elem *xmltree.Element, name string) (string, bool) {
	if v, ok := elem.ConsumeAttributeNS(BinderURI, name); ok {
		return v, true
	}
	return elem.ConsumeAttributeNS(LegacyBinderURI, name)
}

// IsImportedElement implements elementparsers.Writer
func (w *Writer) IsImportedElement(elem *xmltree.Element) bool {
	return strings.HasPrefix(elem.Namespace(), ImportScheme)
}

// IsWidgetElement implements elementparsers.Writer
func (w *Writer) IsWidgetElement(elem *xmltree.Element) bool {
	if !w.IsImportedElement(elem) {
		return false
	}
	t, err := w.FindFieldType(elem)
	if err != nil {
		return false
	}
	return w.overlay.IsAssignable(t, w.overlay.FindType(widgets.UIPackage, "IsWidget"))
}

// FindFieldType implements elementparsers.Writer. Imported tags are searched
// by moving dotted prefixes of the tag onto the package: A.B.C in p tries
// p/A.B.C, then p.A/B.C, then p.A.B/C.
func (w *Writer) FindFieldType(elem *xmltree.Element) (*typeoracle.Type, error) {
	ns := elem.Namespace()
	switch {
	case w.IsBinderElement(elem):
		return nil, elem.Error(util.StructuralError, "Unexpected binder element %s", elem)
	case ns == "" || ns == xhtmlURI:
		return w.overlay.DomElementType(elem.LocalName()), nil
	case !strings.HasPrefix(ns, ImportScheme):
		return nil, elem.Error(util.StructuralError, "Unknown namespace %q of element %s", ns, elem)
	}
	pkg := strings.TrimPrefix(ns, ImportScheme)
	parts := strings.Split(elem.LocalName(), ".")
	for i := 0; i < len(parts); i++ {
		p := pkg
		if i > 0 {
			p += "." + strings.Join(parts[:i], ".")
		}
		if t := w.overlay.FindType(p, strings.Join(parts[i:], ".")); t != nil {
			return t, nil
		}
	}
	return nil, elem.Error(util.SymbolError, "No class matching %q in %s", elem.LocalName(), ns)
}

// fieldName returns the field name elem declares. The unprefixed field
// attribute is accepted with a warning when the type has no such property.
func (w *Writer) fieldName(elem *xmltree.Element, typ *typeoracle.Type) (string, bool) {
	if name, ok := w.ConsumeBinderAttribute(elem, "field"); ok {
		return name, true
	}
	if !elem.HasAttribute("field") || len(w.overlay.FindSetters(typ, "field")) > 0 {
		return "", false
	}
	name, _ := elem.ConsumeRawAttribute("field")
	w.Warn(elem, "Deprecated use of the field attribute in %s, use ui:field", elem)
	return name, true
}

// ParseElementToField implements elementparsers.Writer
func (w *Writer) ParseElementToField(elem *xmltree.Element) (*fields.FieldWriter, error) {
	typ, err := w.FindFieldType(elem)
	if err != nil {
		return nil, err
	}
	name, explicit := w.fieldName(elem, typ)
	if !explicit {
		name = w.fields.NextFieldName(elem.LocalName())
	} else if name == "" || reservedNames[name] {
		return nil, elem.Error(util.AttributeError, "Illegal field name %q in %s", name, elem)
	}
	field, err := w.fields.RegisterField(typ, name)
	if err != nil {
		return nil, err
	}
	if w.ownerDesc != nil {
		if uf, ok := w.ownerDesc.UiField(name); ok && uf.Provided {
			field.SetProvided(true)
			if err := field.SetInitializer("owner." + uf.Name); err != nil {
				return nil, err
			}
		}
	}
	w.log("parsing element", slog.String("element", elem.String()), slog.String("field", field.Name()))

	w.fields.PushField(elem, field)
	defer w.fields.PopField()
	for _, p := range elementparsers.Chain(w.overlay, typ) {
		if err := p.Parse(elem, field, typ, w); err != nil {
			return nil, err
		}
	}
	return field, nil
}

// DeclareDomIDHolder implements elementparsers.Writer
func (w *Writer) DeclareDomIDHolder() (string, error) {
	w.domIDs++
	holder, err := w.fields.RegisterFieldOfKind(fields.DomIDHolder, w.overlay.FindType("", "string"), fmt.Sprintf("domId%d", w.domIDs))
	if err != nil {
		return "", err
	}
	ui := w.imports.Add(widgets.UIPackage, "ui")
	if err := holder.SetInitializer(ui + ".CreateUniqueID()"); err != nil {
		return "", err
	}
	holder.MarkUsed()
	return holder.Name(), nil
}

// BeginAttachedSection implements elementparsers.Writer
func (w *Writer) BeginAttachedSection(expr string) {
	w.sections.begin(expr)
}

// EndAttachedSection implements elementparsers.Writer
func (w *Writer) EndAttachedSection() {
	if err := w.sections.end(); err != nil {
		w.logger.Error(util.InternalError, nil, err.Error())
	}
}

// AddAttachStatement implements elementparsers.Writer
func (w *Writer) AddAttachStatement(format string, args ...interface{}) {
	if err := w.sections.add(fmt.Sprintf(format, args...)); err != nil {
		w.logger.Error(util.InternalError, nil, err.Error())
	}
}

// AddDetachStatement implements elementparsers.Writer
func (w *Writer) AddDetachStatement(format string, args ...interface{}) {
	w.sections.addDetach(fmt.Sprintf(format, args...))
}

// DeclareMessage implements elementparsers.Writer
func (w *Writer) DeclareMessage(m *messages.Message) (string, error) {
	method, err := w.messages.DeclareMessage(m)
	if err != nil {
		return "", err
	}
	field, err := w.fields.RequireField(fields.GeneratedBundle, w.messages.Type(), messagesField)
	if err != nil {
		return "", err
	}
	if !field.HasInitializer() {
		if err := field.SetInitializer(w.messages.Initializer()); err != nil {
			return "", err
		}
	}
	field.MarkUsed()
	return field.Name() + "." + method, nil
}

// bundle returns the resource bundle field, declaring it on first use
func (w *Writer) bundle() (*fields.FieldWriter, error) {
	field, err := w.fields.RequireField(fields.GeneratedBundle, w.resources.BundleType(), bundleField)
	if err != nil {
		return nil, err
	}
	if !field.HasInitializer() {
		if err := field.SetInitializer(w.resources.Initializer()); err != nil {
			return nil, err
		}
	}
	field.MarkUsed()
	return field, nil
}

// Warn implements elementparsers.Writer
func (w *Writer) Warn(elem *xmltree.Element, format string, args ...interface{}) {
	w.logger.Warn(elem.Location(), fmt.Sprintf(format, args...))
}

func (w *Writer) log(msg string, attrs ...slog.Attr) {
	w.logger.Log(slog.LevelDebug, msg, attrs...)
}
