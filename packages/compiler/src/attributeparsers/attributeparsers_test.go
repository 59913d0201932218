package attributeparsers_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"uibind-go/packages/compiler/src/attributeparsers"
	"uibind-go/packages/compiler/src/fields"
	"uibind-go/packages/compiler/src/output"
	"uibind-go/packages/compiler/src/tokenator"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/widgets"
	"uibind-go/packages/compiler/src/xmltree"
)

type fixture struct {
	registry *typeoracle.Registry
	tokens   *tokenator.Tokenator
	manager  *fields.FieldManager
	parsers  *attributeparsers.Parsers
	elem     *xmltree.Element
}

func newFixture(t *testing.T, markup string) *fixture {
	t.Helper()
	doc, err := xmltree.Load([]byte(markup), "test.ui.xml")
	if err != nil {
		t.Fatal(err)
	}
	r := widgets.NewRegistry()
	tokens := tokenator.New()
	fm := fields.NewFieldManager(r, tokens, util.NewMortalLogger(nil))
	return &fixture{
		registry: r,
		tokens:   tokens,
		manager:  fm,
		parsers:  attributeparsers.NewParsers(r, fm, output.NewImports("example.com/app")),
		elem:     doc.Root(),
	}
}

// parse runs the parser, validates references and detokenates the result
func (f *fixture) parse(t *testing.T, value string, types ...*typeoracle.Type) (string, error) {
	t.Helper()
	expr, err := f.parsers.Get(types...).Parse(f.elem, value)
	if err != nil {
		return "", err
	}
	if err := f.manager.ValidateFieldReferences(); err != nil {
		return "", err
	}
	return f.tokens.Detokenate(expr)
}

func TestSplit(t *testing.T) {
	got := attributeparsers.Split("a {b.c} {{d} {e}")
	want := []attributeparsers.Segment{
		{Text: "a "},
		{Text: "b.c", IsReference: true},
		{Text: " {d} "},
		{Text: "e", IsReference: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestLiterals(t *testing.T) {
	f := newFixture(t, `<root/>`)
	prim := f.registry.Primitive
	unit := f.registry.FindType(widgets.UIPackage, "Unit")
	hAlign := f.registry.FindType(widgets.UIPackage, "HorizontalAlignmentConstant")
	safeUri := f.registry.FindType(widgets.SafeHtmlPackage, "SafeUri")
	tests := []struct {
		name  string
		value string
		types []*typeoracle.Type
		want  string
	}{
		{"boolean", "true", []*typeoracle.Type{prim("bool")}, "true"},
		{"int normalizes leading zeros", "007", []*typeoracle.Type{prim("int")}, "7"},
		{"float", ".5", []*typeoracle.Type{prim("float64")}, "0.5"},
		{"float exponent", "1e3", []*typeoracle.Type{prim("float64")}, "1000"},
		{"string is quoted", `say "hi"`, []*typeoracle.Type{prim("string")}, `"say \"hi\""`},
		{"escaped brace", "{{literal}", []*typeoracle.Type{prim("string")}, `"{literal}"`},
		{"boxed int", "3", []*typeoracle.Type{prim("*int")}, "func() *int { v := int(3); return &v }()"},
		{"int pair", "10, 20", []*typeoracle.Type{prim("int"), prim("int")}, "10, 20"},
		{"length with unit", "2.5em", []*typeoracle.Type{prim("float64"), unit}, "2.5, ui.UnitEM"},
		{"length defaults to pixels", "40", []*typeoracle.Type{prim("float64"), unit}, "40, ui.UnitPX"},
		{"percent length", "50%", []*typeoracle.Type{prim("float64"), unit}, "50, ui.UnitPCT"},
		{"alignment constant", "ALIGN_RIGHT", []*typeoracle.Type{hAlign}, "ui.AlignRight"},
		{"short alignment", "center", []*typeoracle.Type{hAlign}, "ui.AlignCenter"},
		{"enum constant", "CM", []*typeoracle.Type{unit}, "ui.UnitCM"},
		{"constant uri", "http://x/y", []*typeoracle.Type{safeUri}, `safehtml.URIFromConstant("http://x/y")`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.parse(t, tc.value, tc.types...)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("expression mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReferences(t *testing.T) {
	t.Run("casts numeric references", func(t *testing.T) {
		f := newFixture(t, `<root/>`)
		sizes := &typeoracle.Type{Package: "example.com/app", PkgName: "app", Name: "Sizes", Kind: typeoracle.Class}
		sizes.AddMethod("Ratio", f.registry.Primitive("*float64"))
		if _, err := f.manager.RegisterField(sizes, "a"); err != nil {
			t.Fatal(err)
		}
		got, err := f.parse(t, "{a.ratio}", f.registry.Primitive("float64"))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff("float64(*a.Ratio())", got); diff != "" {
			t.Errorf("expression mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("concatenates mixed string values", func(t *testing.T) {
		f := newFixture(t, `<root/>`)
		lbl := f.registry.FindType(widgets.UIPackage, "Label")
		if _, err := f.manager.RegisterField(lbl, "lbl"); err != nil {
			t.Fatal(err)
		}
		got, err := f.parse(t, "Hello {lbl.text}!", f.registry.Primitive("string"))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(`"Hello " + lbl.Text() + "!"`, got); diff != "" {
			t.Errorf("expression mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("strict parser accepts exactly one reference", func(t *testing.T) {
		f := newFixture(t, `<root/>`)
		widget := f.registry.FindType(widgets.UIPackage, "Widget")
		if _, err := f.manager.RegisterField(widget, "w"); err != nil {
			t.Fatal(err)
		}
		if _, err := f.parse(t, "{w} {w}", widget); !util.IsKind(err, util.AttributeError) {
			t.Errorf("expected an AttributeError, got %v", err)
		}
		if _, err := f.parse(t, "plain", widget); !util.IsKind(err, util.AttributeError) {
			t.Errorf("expected an AttributeError, got %v", err)
		}
	})
}

func TestErrors(t *testing.T) {
	t.Run("rejects an empty required string", func(t *testing.T) {
		f := newFixture(t, `<root name=""/>`)
		_, err := f.parsers.ConsumeRequiredAttribute(f.elem, "name", f.registry.Primitive("string"))
		if !util.IsKind(err, util.AttributeError) {
			t.Fatalf("expected an AttributeError, got %v", err)
		}
		if !strings.Contains(err.Error(), "Cannot use empty value as type String") {
			t.Errorf("unexpected message %q", err)
		}
	})

	t.Run("rejects unparsable numbers", func(t *testing.T) {
		f := newFixture(t, `<root/>`)
		if _, err := f.parse(t, "12px", f.registry.Primitive("int")); !util.IsKind(err, util.AttributeError) {
			t.Errorf("expected an AttributeError, got %v", err)
		}
	})

	t.Run("rejects floats without a finite decimal spelling", func(t *testing.T) {
		f := newFixture(t, `<root/>`)
		for _, value := range []string{"Inf", "+Infinity", "-Infinity", "NaN", "0x1p4", "1_000", "1e400"} {
			if _, err := f.parse(t, value, f.registry.Primitive("float64")); !util.IsKind(err, util.AttributeError) {
				t.Errorf("%s: expected an AttributeError, got %v", value, err)
			}
		}
	})

	t.Run("rejects unknown units", func(t *testing.T) {
		f := newFixture(t, `<root/>`)
		unit := f.registry.FindType(widgets.UIPackage, "Unit")
		if _, err := f.parse(t, "3parsecs", f.registry.Primitive("float64"), unit); !util.IsKind(err, util.AttributeError) {
			t.Errorf("expected an AttributeError, got %v", err)
		}
	})

	t.Run("matches enum constants case sensitively", func(t *testing.T) {
		f := newFixture(t, `<root/>`)
		unit := f.registry.FindType(widgets.UIPackage, "Unit")
		if _, err := f.parse(t, "cm", unit); !util.IsKind(err, util.AttributeError) {
			t.Errorf("expected an AttributeError, got %v", err)
		}
	})
}
