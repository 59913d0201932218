package binder

import (
	"fmt"
	"path"
	"regexp"

	"uibind-go/packages/compiler/src/fields"
	"uibind-go/packages/compiler/src/output"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/widgets"
)

func (w *Writer) typeRef(f *fields.FieldWriter) string {
	if ref := f.TypeRef(); ref != "" {
		return ref
	}
	return w.imports.TypeRef(f.Type())
}

// program assembles the finished field table into a Program. Every import
// is added here, before the program is written.
func (w *Writer) program(root *fields.FieldWriter) (*output.Program, error) {
	order, err := w.fields.ConstructionOrder()
	if err != nil {
		return nil, err
	}
	prog := &output.Program{
		Package:    w.cfg.Package,
		Source:     path.Base(w.unit.URL),
		Imports:    w.imports,
		BinderName: w.name,
		OwnerType:  "any",
		RootType:   w.typeRef(root),
		RootExpr:   root.Name(),
	}
	if w.owner != nil {
		prog.OwnerType = w.imports.TypeRef(w.owner)
	}

	declared := w.fields.DeclarationOrder()
	for _, f := range declared {
		prog.Declarations = append(prog.Declarations, output.Declaration{Name: f.Name(), Type: w.typeRef(f)})
	}

	// Fields without an initializer are assigned while attached; their
	// statements wait for the attach phase.
	var late []string
	for _, f := range order {
		if !f.HasInitializer() {
			late = append(late, f.Statements()...)
			continue
		}
		prog.Construct = append(prog.Construct, f.Name()+" = "+f.Initializer())
		prog.Construct = append(prog.Construct, f.Statements()...)
	}

	if len(w.sections.finished) > 0 {
		attach := w.imports.Add(widgets.UIPackage, "ui") + ".AttachToDom"
		prog.Attach, prog.Detach = w.sections.render(attach)
	} else {
		prog.Detach = w.sections.detach
	}
	prog.Trailing = append(late, w.trailing...)

	for _, f := range declared {
		if f != root && !f.IsUsed() {
			prog.Unused = append(prog.Unused, f.Name())
		}
	}
	if err := w.checkGeneratedNames(declared); err != nil {
		return nil, err
	}
	prog.Extra = append(prog.Extra, w.resources.Declarations()...)
	if w.messages.Len() > 0 {
		prog.Extra = append(prog.Extra, w.messages.Declarations()...)
	}
	return prog, nil
}

// attachRecord matches the locals holding attach section records
var attachRecord = regexp.MustCompile(`^attach[0-9]+$`)

// checkGeneratedNames reports fields that would shadow an identifier the
// generated method refers to: an import, an attach record or the owner.
func (w *Writer) checkGeneratedNames(declared []*fields.FieldWriter) error {
	imported := map[string]string{}
	for _, im := range w.imports.List() {
		imported[im.Name] = im.Path
	}
	for _, f := range declared {
		name := f.Name()
		var loc *util.ParseLocation
		if elem := f.Element(); elem != nil {
			loc = elem.Location()
		}
		switch {
		case imported[name] != "":
			w.logger.Error(util.SymbolError, loc, fmt.Sprintf("Field %q collides with the import of %s", name, imported[name]))
		case reservedNames[name] || attachRecord.MatchString(name):
			w.logger.Error(util.SymbolError, loc, fmt.Sprintf("Field %q collides with a generated identifier", name))
		}
	}
	if w.logger.HasErrors() {
		return w.logger.Err()
	}
	return nil
}
