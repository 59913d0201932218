package elementparsers

import (
	"fmt"
	"strings"

	"uibind-go/packages/compiler/src/fields"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/xmltree"
)

// report records err through the logger of the unit
func report(w Writer, elem *xmltree.Element, err error) {
	if pe, ok := err.(*util.ParseError); ok {
		w.Logger().Error(pe.Kind, pe.Location(), pe.Msg)
		return
	}
	w.Logger().Error(util.InternalError, elem.Location(), err.Error())
}

// BeanParser constructs the field unless a previous parser did, then calls a
// setter for every remaining attribute. Unknown and ambiguous setters are
// reported together.
type BeanParser struct{}

// Parse implements ElementParser
func (BeanParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	if !field.HasInitializer() {
		init, err := initializer(elem, typ, w)
		if err != nil {
			return err
		}
		if err := field.SetInitializer(init); err != nil {
			return err
		}
	}
	failed := false
	for _, a := range elem.RemainingAttributes() {
		if a.Name.Space != "" {
			continue
		}
		setters := w.Oracle().FindSetters(typ, a.Name.Local)
		switch len(setters) {
		case 0:
			failed = true
			w.Logger().Error(util.AttributeError, a.Loc, fmt.Sprintf("Class %s has no appropriate %s() method for attribute %q in %s",
				typ.SimpleName(), typeoracle.SetterName(a.Name.Local), a.Name.Local, elem))
			continue
		case 1:
		default:
			failed = true
			sigs := make([]string, len(setters))
			for i, s := range setters {
				sigs[i] = s.Signature()
			}
			w.Logger().Error(util.SymbolError, a.Loc, fmt.Sprintf("Ambiguous setter for attribute %q of %s: %s",
				a.Name.Local, elem, strings.Join(sigs, ", ")))
			continue
		}
		elem.ConsumeAttribute(a)
		setter := setters[0]
		expr, err := w.Parsers().Get(setter.ParamTypes()...).Parse(elem, a.Value)
		if err != nil {
			failed = true
			report(w, elem, err)
			continue
		}
		field.AddStatement("%s.%s(%s)", field.Name(), setter.Name, expr)
	}
	if failed {
		return w.Logger().Err()
	}
	return nil
}

// initializer picks how to construct typ: an owner factory, the marked
// constructor, or the zero argument constructor.
func initializer(elem *xmltree.Element, typ *typeoracle.Type, w Writer) (string, error) {
	if owner := w.Owner(); owner != nil {
		if factory := owner.FactoryFor(typ); factory != nil {
			names := make([]string, len(factory.Params))
			for i, p := range factory.Params {
				names[i] = p.Name
			}
			args, err := bindArgs(elem, names, factory.Params, w)
			if err != nil {
				return "", err
			}
			return "owner." + factory.Name + "(" + args + ")", nil
		}
	}
	desc := w.Oracle().Descriptor(typ)
	zeroArg := w.Oracle().FindConstructor(typ, nil)
	if ctor := desc.MarkedConstructor; ctor != nil {
		names := desc.ConstructorParams
		if len(names) != len(ctor.Params) {
			names = make([]string, len(ctor.Params))
			for i, p := range ctor.Params {
				names[i] = p.Name
			}
		}
		present := false
		for _, n := range names {
			if elem.HasAttribute(n) {
				present = true
			}
		}
		if present || zeroArg == nil {
			args, err := bindArgs(elem, names, ctor.Params, w)
			if err != nil {
				return "", err
			}
			return w.Imports().Qualify(typ, ctor.Name) + "(" + args + ")", nil
		}
	}
	if zeroArg != nil {
		return w.Imports().Qualify(typ, zeroArg.Name) + "()", nil
	}
	return "", elem.Error(util.SymbolError,
		"%s has no default (zero args) constructor; declare a factory on the owner, mark a constructor or provide the field", typ.SimpleName())
}

// bindArgs consumes one required attribute per parameter
func bindArgs(elem *xmltree.Element, names []string, params []typeoracle.Param, w Writer) (string, error) {
	args := make([]string, len(params))
	for i, p := range params {
		expr, err := w.Parsers().ConsumeRequiredAttribute(elem, names[i], p.Type)
		if err != nil {
			return "", err
		}
		args[i] = expr
	}
	return strings.Join(args, ", "), nil
}

// IsEmptyParser fails on anything no earlier parser consumed
type IsEmptyParser struct{}

// Parse implements ElementParser
func (IsEmptyParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	if err := elem.AssertNoAttributes(); err != nil {
		return err
	}
	return elem.AssertNoBody()
}

// AttributeMessageParser turns <ui:attribute> children of a widget into
// message references for the named attributes.
type AttributeMessageParser struct{}

// Parse implements ElementParser
func (AttributeMessageParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	for _, child := range consumeBinderChildren(w, elem, "attribute") {
		name, m, err := attributeMessage(elem, child)
		if err != nil {
			return err
		}
		method, err := w.DeclareMessage(m)
		if err != nil {
			return err
		}
		elem.SetAttribute(name, "{"+method+"}")
	}
	return nil
}

// UiChildParser handles the custom child tags a type declares. Each tag
// holds one widget, passed to the tag's method along with the tag's
// attributes bound to the remaining parameters.
type UiChildParser struct{}

// Parse implements ElementParser
func (UiChildParser) Parse(elem *xmltree.Element, field *fields.FieldWriter, typ *typeoracle.Type, w Writer) error {
	desc := w.Oracle().Descriptor(typ)
	if !desc.HasChildTags() {
		return nil
	}
	counts := map[string]int{}
	children, err := elem.ConsumeChildElements(func(child *xmltree.Element) bool {
		_, ok := desc.ChildTags[child.LocalName()]
		return ok && child.Namespace() == elem.Namespace()
	})
	if err != nil {
		return err
	}
	for _, child := range children {
		tag := desc.ChildTags[child.LocalName()]
		counts[tag.Tag]++
		if tag.Limit > 0 && counts[tag.Tag] > tag.Limit {
			return child.Error(util.StructuralError, "Can only use the <%s> tag %d time(s) in %s", child.QualifiedName(), tag.Limit, elem)
		}
		params := tag.Method.Params
		if len(params) == 0 {
			return child.Error(util.InternalError, "Method %s for <%s> takes no widget", tag.Method.Signature(), child.QualifiedName())
		}
		names := make([]string, len(params)-1)
		for i, p := range params[1:] {
			names[i] = p.Name
		}
		extra, err := bindArgs(child, names, params[1:], w)
		if err != nil {
			return err
		}
		if err := child.AssertNoAttributes(); err != nil {
			return err
		}
		widget, err := singleWidgetOf(w, child, params[0].Type)
		if err != nil {
			return err
		}
		args := use(widget)
		if extra != "" {
			args += ", " + extra
		}
		field.AddStatement("%s.%s(%s)", field.Name(), tag.Method.Name, args)
	}
	return nil
}

// singleWidgetOf parses the only child element of elem as a want
func singleWidgetOf(w Writer, elem *xmltree.Element, want *typeoracle.Type) (*fields.FieldWriter, error) {
	child, err := elem.ConsumeSingleChildElement()
	if err != nil {
		return nil, err
	}
	return childField(w, elem, child, want)
}
