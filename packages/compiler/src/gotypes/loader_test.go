package gotypes_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"uibind-go/packages/compiler/src/gotypes"
	"uibind-go/packages/compiler/src/typeoracle"
)

const app = "example.com/app"

func load(t *testing.T) *typeoracle.Registry {
	t.Helper()
	r := typeoracle.NewRegistry()
	l := &gotypes.Loader{Registry: r, Dir: "testdata/app"}
	if err := l.Load(context.Background(), "./..."); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return r
}

func methodNames(ms []*typeoracle.Method) []string {
	var out []string
	for _, m := range ms {
		out = append(out, m.Name)
	}
	return out
}

func TestLoader(t *testing.T) {
	r := load(t)

	t.Run("structs become classes with embedded supertypes", func(t *testing.T) {
		label := r.FindType(app, "Label")
		if label == nil {
			t.Fatal("Label not loaded")
		}
		if label.Kind != typeoracle.Class {
			t.Errorf("Label is %s, want class", label.Kind)
		}
		if label.Super != r.FindType(app, "Widget") {
			t.Errorf("Label super is %v, want Widget", label.Super)
		}
		if !r.IsAssignable(label, r.FindType(app, "HasText")) {
			t.Error("Label should implement HasText")
		}
	})

	t.Run("keeps methods whose signatures map onto the oracle", func(t *testing.T) {
		label := r.FindType(app, "Label")
		want := []string{"SetText", "Text", "SetWidth"}
		if diff := cmp.Diff(want, methodNames(label.Methods)); diff != "" {
			t.Errorf("methods mismatch (-want +got):\n%s", diff)
		}
		width := label.DeclaredMethod("SetWidth")
		if got := width.Params[0].Type.Key(); got != "*float64" {
			t.Errorf("SetWidth takes %s, want *float64", got)
		}
		if diff := cmp.Diff([]string{"NewLabel"}, methodNames(label.Constructors)); diff != "" {
			t.Errorf("constructors mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("typed constants become enums in declaration order", func(t *testing.T) {
		align := r.FindType(app, "Align")
		want := []typeoracle.EnumConstant{
			{Name: "LEFT", Ident: "AlignLeft"},
			{Name: "CENTER", Ident: "AlignCenter"},
			{Name: "RIGHT", Ident: "AlignRight"},
		}
		if diff := cmp.Diff(want, r.EnumConstants(align)); diff != "" {
			t.Errorf("constants mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("reads directives from doc comments", func(t *testing.T) {
		if !r.FindType(app, "Label").Markers.Renderable {
			t.Error("Label should be renderable")
		}
		tabs := r.FindType(app, "Tabs").Markers
		if diff := cmp.Diff([]typeoracle.ChildTag{{Tag: "tab", Method: "AddTab"}}, tabs.ChildTags); diff != "" {
			t.Errorf("child tags mismatch (-want +got):\n%s", diff)
		}
		if tabs.Constructor != "NewTabs" || !cmp.Equal(tabs.ConstructorParams, []string{"title"}) {
			t.Errorf("constructor marker is %s %v", tabs.Constructor, tabs.ConstructorParams)
		}
	})

	t.Run("reads owner fields and handlers", func(t *testing.T) {
		form := r.FindType(app, "Form").Markers
		label := r.FindType(app, "Label")
		want := []typeoracle.UiField{
			{Name: "save", Type: label},
			{Name: "heading", Type: label, Provided: true},
		}
		if diff := cmp.Diff(want, form.UiFields, cmp.Comparer(func(a, b *typeoracle.Type) bool { return a == b })); diff != "" {
			t.Errorf("ui fields mismatch (-want +got):\n%s", diff)
		}
		handlers := []typeoracle.Handler{{Method: "OnSave", Event: "Click", Fields: []string{"save"}}}
		if diff := cmp.Diff(handlers, form.Handlers); diff != "" {
			t.Errorf("handlers mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestLoaderKeepsRegisteredTypes(t *testing.T) {
	r := typeoracle.NewRegistry()
	widget := r.MustRegister(&typeoracle.Type{Package: app, PkgName: "app", Name: "Widget", Kind: typeoracle.Class})
	l := &gotypes.Loader{Registry: r, Dir: "testdata/app"}
	if err := l.Load(context.Background(), "./..."); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.FindType(app, "Widget") != widget {
		t.Error("registered Widget was replaced")
	}
	if r.FindType(app, "Label").Super != widget {
		t.Error("Label should extend the registered Widget")
	}
	if len(widget.Methods) != 0 {
		t.Errorf("registered Widget gained methods %v", methodNames(widget.Methods))
	}
}

func TestLoaderNeedsPatterns(t *testing.T) {
	l := &gotypes.Loader{Registry: typeoracle.NewRegistry()}
	if err := l.Load(context.Background()); err == nil {
		t.Error("expected an error without patterns")
	}
}
