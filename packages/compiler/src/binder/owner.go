package binder

import (
	"fmt"
	"log/slog"

	"uibind-go/packages/compiler/src/fields"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/xmltree"
)

// fieldLocation is where a field was declared, or the ui element for fields
// declared at the top.
func fieldLocation(f *fields.FieldWriter, ui *xmltree.Element) *util.ParseLocation {
	if e := f.Element(); e != nil {
		return e.Location()
	}
	return ui.Location()
}

// checkOwnerFields matches the owner's ui fields against the template. Every
// problem is logged before the unit fails. Fields the owner does not provide
// are assigned to it once the program has run.
func (w *Writer) checkOwnerFields(ui *xmltree.Element) {
	if w.ownerDesc == nil {
		return
	}
	for _, uf := range w.ownerDesc.UiFields {
		f := w.fields.LookupField(uf.Name)
		if f == nil {
			w.logger.Error(util.SymbolError, ui.Location(), fmt.Sprintf("Field %q of %s has no corresponding field in the template",
				uf.Name, w.owner.SimpleName()))
			continue
		}
		if uf.Type != nil && !w.overlay.IsAssignable(f.Type(), uf.Type) {
			w.logger.Error(util.SymbolError, fieldLocation(f, ui), fmt.Sprintf("Template field %q is %s, but %s declares it as %s",
				uf.Name, f.Type().Key(), w.owner.SimpleName(), uf.Type.Key()))
			continue
		}
		if f.IsProvided() {
			continue
		}
		f.MarkUsed()
		w.trailing = append(w.trailing, fmt.Sprintf("owner.%s = %s", uf.Name, f.Name()))
	}
}

// bindHandlers registers each owner handler method with the fields it
// names. The field type must have an Add<Event>Handler method; the owner
// method is adapted with the handler's Func type.
func (w *Writer) bindHandlers(ui *xmltree.Element) {
	if w.ownerDesc == nil {
		return
	}
	for _, h := range w.ownerDesc.Handlers {
		method := typeoracle.FindMethod(w.owner, h.Method)
		if method == nil {
			w.logger.Error(util.SymbolError, ui.Location(), fmt.Sprintf("%s has no method %s to handle %s events",
				w.owner.SimpleName(), h.Method, h.Event))
			continue
		}
		if len(h.Fields) == 0 {
			w.logger.Error(util.SymbolError, ui.Location(), fmt.Sprintf("Handler %s of %s names no template field",
				h.Method, w.owner.SimpleName()))
			continue
		}
		for _, name := range h.Fields {
			f := w.fields.LookupField(name)
			if f == nil {
				w.logger.Error(util.SymbolError, ui.Location(), fmt.Sprintf("Handler %s refers to %q, which is not a template field",
					h.Method, name))
				continue
			}
			add := typeoracle.FindMethod(f.Type(), "Add"+h.Event+"Handler")
			if add == nil || len(add.Params) != 1 {
				w.logger.Error(util.SymbolError, fieldLocation(f, ui), fmt.Sprintf("Field %q of type %s does not fire %s events for handler %s",
					name, f.Type().SimpleName(), h.Event, h.Method))
				continue
			}
			handlerType := add.Params[0].Type
			adapter := w.imports.Qualify(handlerType, handlerType.GoName()+"Func")
			f.MarkUsed()
			w.trailing = append(w.trailing, fmt.Sprintf("%s.%s(%s(owner.%s))", f.Name(), add.Name, adapter, method.Name))
			w.log("bound handler", slog.String("field", f.Name()), slog.String("event", h.Event), slog.String("method", method.Name))
		}
	}
}
