package fields_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"uibind-go/packages/compiler/src/fields"
	"uibind-go/packages/compiler/src/tokenator"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/widgets"
	"uibind-go/packages/compiler/src/xmltree"
)

type fixture struct {
	registry *typeoracle.Registry
	tokens   *tokenator.Tokenator
	logger   *util.MortalLogger
	manager  *fields.FieldManager
	elem     *xmltree.Element
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	doc, err := xmltree.Load([]byte(`<root attr="x"/>`), "test.ui.xml")
	if err != nil {
		t.Fatal(err)
	}
	r := widgets.NewRegistry()
	tokens := tokenator.New()
	logger := util.NewMortalLogger(nil)
	return &fixture{
		registry: r,
		tokens:   tokens,
		logger:   logger,
		manager:  fields.NewFieldManager(r, tokens, logger),
		elem:     doc.Root(),
	}
}

func (f *fixture) ui(name string) *typeoracle.Type {
	return f.registry.FindType(widgets.UIPackage, name)
}

func names(fws []*fields.FieldWriter) []string {
	out := make([]string, len(fws))
	for i, fw := range fws {
		out[i] = fw.Name()
	}
	return out
}

func TestRegisterField(t *testing.T) {
	t.Run("rejects a duplicate declaration", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.manager.RegisterField(f.ui("Label"), "style"); err != nil {
			t.Fatal(err)
		}
		_, err := f.manager.RegisterField(f.ui("Label"), "style")
		if !util.IsKind(err, util.SymbolError) {
			t.Fatalf("expected a SymbolError, got %v", err)
		}
		if !strings.Contains(err.Error(), "Duplicate declaration of field") {
			t.Errorf("unexpected message %q", err)
		}
	})

	t.Run("shares a required field of the same type", func(t *testing.T) {
		f := newFixture(t)
		first, err := f.manager.RequireField(fields.GeneratedBundle, f.ui("Label"), "bundle")
		if err != nil {
			t.Fatal(err)
		}
		second, err := f.manager.RequireField(fields.GeneratedBundle, f.ui("Label"), "bundle")
		if err != nil || second != first {
			t.Fatalf("expected the same handle, got %v, %v", second, err)
		}
		if _, err := f.manager.RequireField(fields.GeneratedBundle, f.ui("Button"), "bundle"); !util.IsKind(err, util.SymbolError) {
			t.Errorf("expected a SymbolError for a different type, got %v", err)
		}
	})

	t.Run("sets the initializer once", func(t *testing.T) {
		f := newFixture(t)
		fw, _ := f.manager.RegisterField(f.ui("Label"), "lbl")
		if err := fw.SetInitializer("ui.NewLabel()"); err != nil {
			t.Fatal(err)
		}
		if err := fw.SetInitializer("ui.NewLabel()"); !util.IsKind(err, util.InternalError) {
			t.Errorf("expected an InternalError, got %v", err)
		}
	})

	t.Run("normalizes names to legal identifiers", func(t *testing.T) {
		f := newFixture(t)
		fw, _ := f.manager.RegisterField(f.ui("Label"), "type")
		if fw.Name() != "type_" || fw.DeclaredName() != "type" {
			t.Errorf("got %q (declared %q)", fw.Name(), fw.DeclaredName())
		}
		if got := f.manager.NextFieldName("label"); got != "f_Label1" {
			t.Errorf("got %q", got)
		}
	})
}

func TestOrdering(t *testing.T) {
	t.Run("declares by precedence then declaration order", func(t *testing.T) {
		f := newFixture(t)
		f.manager.RegisterFieldOfKind(fields.GeneratedCSS, f.ui("Label"), "style")
		f.manager.RegisterField(f.ui("FlowPanel"), "panel")
		f.manager.RegisterFieldOfKind(fields.DomIDHolder, f.registry.Primitive("string"), "domId0")
		f.manager.RegisterField(f.ui("Label"), "lbl")
		want := []string{"panel", "lbl", "domId0", "style"}
		if diff := cmp.Diff(want, names(f.manager.DeclarationOrder())); diff != "" {
			t.Errorf("declaration order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("constructs children before parents", func(t *testing.T) {
		f := newFixture(t)
		panel, _ := f.manager.RegisterField(f.ui("FlowPanel"), "panel")
		f.manager.PushField(f.elem, panel)
		inner, _ := f.manager.RegisterField(f.ui("FlowPanel"), "inner")
		f.manager.PushField(f.elem, inner)
		f.manager.RegisterField(f.ui("Label"), "lbl")
		f.manager.PopField()
		f.manager.RegisterFieldReference(f.elem, "style.name", f.registry.Primitive("string"))
		f.manager.PopField()
		f.manager.RegisterFieldOfKind(fields.GeneratedCSS, f.ui("Label"), "style")

		got, err := f.manager.ConstructionOrder()
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"lbl", "inner", "style", "panel"}
		if diff := cmp.Diff(want, names(got)); diff != "" {
			t.Errorf("construction order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("rejects dependency cycles", func(t *testing.T) {
		f := newFixture(t)
		a, _ := f.manager.RegisterField(f.ui("FlowPanel"), "a")
		b, _ := f.manager.RegisterField(f.ui("FlowPanel"), "b")
		a.Needs("b")
		b.Needs("a")
		if _, err := f.manager.ConstructionOrder(); !util.IsKind(err, util.SymbolError) {
			t.Errorf("expected a SymbolError, got %v", err)
		}
	})
}

func TestValidateFieldReferences(t *testing.T) {
	t.Run("accepts a subtype where a supertype is expected", func(t *testing.T) {
		f := newFixture(t)
		f.manager.RegisterField(f.ui("Label"), "lbl")
		token := f.manager.RegisterFieldReference(f.elem, "lbl", f.ui("Widget"))
		if err := f.manager.ValidateFieldReferences(); err != nil {
			t.Fatal(err)
		}
		got, _ := f.tokens.Detokenate(token)
		if got != "lbl" {
			t.Errorf("got %q", got)
		}
		if !f.manager.LookupField("lbl").IsUsed() {
			t.Error("expected the referenced field to be marked used")
		}
	})

	t.Run("names both types on a mismatch", func(t *testing.T) {
		f := newFixture(t)
		f.manager.RegisterField(f.ui("Label"), "lbl")
		f.manager.RegisterFieldReference(f.elem, "lbl", f.ui("MenuBar"))
		err := f.manager.ValidateFieldReferences()
		if !util.IsKind(err, util.AttributeError) {
			t.Fatalf("expected an AttributeError, got %v", err)
		}
		for _, want := range []string{"uibind.dev/ui.Label", "uibind.dev/ui.MenuBar"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("expected %q in %q", want, err)
			}
		}
	})

	t.Run("dereferences boxed numerics for numeric slots", func(t *testing.T) {
		f := newFixture(t)
		holder := &typeoracle.Type{Package: "example.com/app", PkgName: "app", Name: "Sizes", Kind: typeoracle.Class}
		holder.AddMethod("Width", f.registry.Primitive("*float64"))
		f.manager.RegisterField(holder, "sizes")
		token := f.manager.RegisterFieldReference(f.elem, "sizes.width", f.registry.Primitive("int"))
		if err := f.manager.ValidateFieldReferences(); err != nil {
			t.Fatal(err)
		}
		if got, _ := f.tokens.Detokenate(token); got != "*sizes.Width()" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("reports every broken reference at once", func(t *testing.T) {
		f := newFixture(t)
		f.manager.RegisterField(f.ui("Label"), "lbl")
		f.manager.RegisterFieldReference(f.elem, "missing", f.ui("Widget"))
		f.manager.RegisterFieldReference(f.elem, "lbl.nothing", f.registry.Primitive("string"))
		err := f.manager.ValidateFieldReferences()
		if !util.IsKind(err, util.SymbolError) {
			t.Fatalf("expected a SymbolError, got %v", err)
		}
		if got := len(f.logger.Errors()); got != 2 {
			t.Errorf("expected 2 logged errors, got %d", got)
		}
	})
}
