// Package binder compiles one template into the program that constructs and
// binds it. A compilation unit owns its tree, field table, tokens and
// generated types; only the type oracle is shared between units.
package binder

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"uibind-go/packages/compiler/src/attributeparsers"
	"uibind-go/packages/compiler/src/config"
	"uibind-go/packages/compiler/src/fields"
	"uibind-go/packages/compiler/src/messages"
	"uibind-go/packages/compiler/src/output"
	"uibind-go/packages/compiler/src/resources"
	"uibind-go/packages/compiler/src/tokenator"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/xmltree"
)

// Namespaces recognized in templates
const (
	BinderURI       = "urn:ui:uibind"
	LegacyBinderURI = "urn:ui:com.google.gwt.uibinder"
	ImportScheme    = "urn:import:"
	xhtmlURI        = "http://www.w3.org/1999/xhtml"
)

// Unit is one template to compile
type Unit struct {
	Source []byte
	// URL names the template in diagnostics and the generated header.
	URL string
	// Owner is the type the template binds to; nil when there is none.
	Owner *typeoracle.Type
	// BinderName names the generated binder type. It defaults to the
	// template base name followed by Binder.
	BinderName string
	// FS resolves the resources the template refers to.
	FS fs.FS
}

// Result is a compiled unit
type Result struct {
	Source   []byte
	Program  *output.Program
	Warnings []*util.ParseError
}

// BinderName derives the binder type name of a template path
func BinderName(url, suffix string) string {
	base := path.Base(url)
	if suffix != "" {
		base = strings.TrimSuffix(base, suffix)
	} else if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return util.ExportedName(util.SanitizeIdentifier(base)) + "Binder"
}

// Compile compiles one unit. The first fatal error aborts the unit; any
// partially generated program is discarded.
func Compile(oracle typeoracle.Oracle, unit *Unit, cfg *config.CompilerConfig) (*Result, error) {
	if cfg == nil {
		cfg = config.NewCompilerConfig()
	}
	doc, err := xmltree.Load(unit.Source, unit.URL)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if !IsBinderURI(root.Namespace()) || root.LocalName() != "UiBinder" {
		return nil, root.Error(util.StructuralError, "Root element must be ui:UiBinder in namespace %s, found %s", BinderURI, root)
	}

	w := newWriter(oracle, unit, cfg)
	prog, err := w.compile(root)
	if err != nil {
		return nil, err
	}
	src, err := w.render(prog)
	if err != nil {
		return nil, err
	}
	if cfg.Format {
		if src, err = output.Format(src); err != nil {
			return nil, util.Errorf(util.InternalError, root.Location(), "%v", err)
		}
	}
	w.log("compiled unit", slog.Int("fields", len(w.fields.Fields())), slog.Int("tokens", w.tokens.Count()))
	return &Result{Source: src, Program: prog, Warnings: w.logger.Warnings()}, nil
}

func newWriter(oracle typeoracle.Oracle, unit *Unit, cfg *config.CompilerConfig) *Writer {
	name := unit.BinderName
	if name == "" {
		name = BinderName(unit.URL, cfg.TemplateSuffix)
	}
	var logger *slog.Logger
	if cfg.Logger != nil {
		logger = cfg.Logger.With(slog.String("component", "binder"), slog.String("unit", unit.URL))
	}
	w := &Writer{
		name:    name,
		cfg:     cfg,
		unit:    unit,
		overlay: typeoracle.NewOverlay(oracle),
		owner:   unit.Owner,
		tokens:  tokenator.New(),
		logger:  util.NewMortalLogger(logger),
		imports: output.NewImports(cfg.PkgPath),
	}
	if unit.Owner != nil {
		w.ownerDesc = w.overlay.Descriptor(unit.Owner)
	}
	w.fields = fields.NewFieldManager(w.overlay, w.tokens, w.logger)
	w.parsers = attributeparsers.NewParsers(w.overlay, w.fields, w.imports)
	w.resources = resources.NewBundle(resources.Options{
		PkgPath: cfg.PkgPath,
		PkgName: cfg.Package,
		Prefix:  name,
		FS:      unit.FS,
		Oracle:  w.overlay,
		Imports: w.imports,
		Logger:  logger,
	})
	w.messages = messages.NewBundle(cfg.PkgPath, cfg.Package, name+"Messages", w.overlay.FindType("", "string"))
	return w
}

// compile runs the whole walk and the batched checks, and assembles the
// program. Generated types are registered as they are declared, so the
// overlay knows them before any reference is validated.
func (w *Writer) compile(root *xmltree.Element) (*output.Program, error) {
	for _, attr := range generatorAttributes {
		w.ConsumeBinderAttribute(root, attr)
	}
	if err := root.AssertNoAttributes(); err != nil {
		return nil, err
	}
	if err := root.AssertNoText(); err != nil {
		return nil, err
	}

	var ui *xmltree.Element
	for _, child := range root.ChildElements() {
		if w.IsBinderElement(child) {
			continue
		}
		if ui != nil {
			return nil, child.Error(util.StructuralError, "%s may contain a single ui element, found %s and %s", root, ui, child)
		}
		ui = child
	}
	if ui == nil {
		return nil, root.Error(util.StructuralError, "%s has no ui element", root)
	}

	directives, err := root.ConsumeChildElements(w.IsBinderElement)
	if err != nil {
		return nil, err
	}
	if err := w.parseDirectives(directives); err != nil {
		return nil, err
	}
	if _, err := root.ConsumeChildElements(nil); err != nil {
		return nil, err
	}
	rootField, err := w.ParseElementToField(ui)
	if err != nil {
		return nil, err
	}
	rootField.MarkUsed()
	if len(w.sections.open) > 0 {
		return nil, util.Errorf(util.InternalError, ui.Location(), "%d attach sections left open", len(w.sections.open))
	}
	if w.logger.HasErrors() {
		return nil, w.logger.Err()
	}

	w.checkOwnerFields(ui)
	w.bindHandlers(ui)
	if err := w.fields.ValidateFieldReferences(); err != nil {
		return nil, err
	}
	if w.logger.HasErrors() {
		return nil, w.logger.Err()
	}
	return w.program(rootField)
}

// generatorAttributes are root attributes configuring message generation.
// They are accepted and have no effect on the program.
var generatorAttributes = []string{"generateFormat", "generateKeys", "generateLocales", "generateFilename"}

// render writes, detokenates and checks the program text
func (w *Writer) render(prog *output.Program) ([]byte, error) {
	text, err := w.tokens.Detokenate(output.WriteProgram(prog))
	if err != nil {
		return nil, util.Errorf(util.InternalError, nil, "%v", err)
	}
	if tokenator.HasToken(text) {
		infos := w.tokens.Infos(text)
		var loc *util.ParseLocation
		if len(infos) > 0 {
			loc = infos[0].Loc
		}
		return nil, util.Errorf(util.InternalError, loc, "Unresolved token left in generated program")
	}
	return []byte(text), nil
}

func (w *Writer) String() string {
	return fmt.Sprintf("Writer[%s, %d fields]", w.name, len(w.fields.Fields()))
}
