package typeoracle_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"uibind-go/packages/compiler/src/typeoracle"
)

func keys(types []*typeoracle.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.Key()
	}
	return out
}

func sampleRegistry(t *testing.T) (*typeoracle.Registry, map[string]*typeoracle.Type) {
	t.Helper()
	r := typeoracle.NewRegistry()
	str := r.Primitive("string")
	hasText := r.MustRegister(&typeoracle.Type{Package: "x/ui", PkgName: "ui", Name: "HasText", Kind: typeoracle.Interface})
	hasText.AddMethod("SetText", nil, typeoracle.P("text", str))
	hasHTML := r.MustRegister(&typeoracle.Type{Package: "x/ui", PkgName: "ui", Name: "HasHTML", Kind: typeoracle.Interface,
		Interfaces: []*typeoracle.Type{hasText}})
	uiObject := r.MustRegister(&typeoracle.Type{Package: "x/ui", PkgName: "ui", Name: "UIObject", Kind: typeoracle.Class})
	uiObject.AddMethod("SetTitle", nil, typeoracle.P("title", str))
	widget := r.MustRegister(&typeoracle.Type{Package: "x/ui", PkgName: "ui", Name: "Widget", Kind: typeoracle.Class, Super: uiObject})
	label := r.MustRegister(&typeoracle.Type{Package: "x/ui", PkgName: "ui", Name: "Label", Kind: typeoracle.Class,
		Super: widget, Interfaces: []*typeoracle.Type{hasHTML}})
	label.AddMethod("SetText", nil, typeoracle.P("text", str))
	label.AddConstructor("NewLabel")
	return r, map[string]*typeoracle.Type{
		"HasText": hasText, "HasHTML": hasHTML, "UIObject": uiObject, "Widget": widget, "Label": label,
	}
}

func TestTypeHierarchy(t *testing.T) {
	t.Run("walks breadth first with interfaces before the superclass", func(t *testing.T) {
		_, types := sampleRegistry(t)
		got := keys(typeoracle.TypeHierarchy(types["Label"]))
		want := []string{"x/ui.Label", "x/ui.HasHTML", "x/ui.Widget", "x/ui.HasText", "x/ui.UIObject"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("hierarchy mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("hides supertype setters with the same signature", func(t *testing.T) {
		r, types := sampleRegistry(t)
		setters := r.FindSetters(types["Label"], "text")
		if len(setters) != 1 || setters[0].Owner != types["Label"] {
			t.Fatalf("expected the Label setter only, got %v", setters)
		}
		if got := r.FindSetters(types["Label"], "title"); len(got) != 1 || got[0].Owner != types["UIObject"] {
			t.Errorf("expected inherited SetTitle, got %v", got)
		}
	})
}

func TestAssignability(t *testing.T) {
	r, types := sampleRegistry(t)
	tests := []struct {
		name     string
		from, to *typeoracle.Type
		want     bool
	}{
		{"same type", types["Label"], types["Label"], true},
		{"subclass to superclass", types["Label"], types["UIObject"], true},
		{"class to implemented interface", types["Label"], types["HasText"], true},
		{"superclass to subclass", types["Widget"], types["Label"], false},
		{"anything to any", types["Widget"], r.Primitive("any"), true},
		{"primitive to boxed", r.Primitive("int"), r.Primitive("*int"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.IsAssignable(tc.from, tc.to); got != tc.want {
				t.Errorf("IsAssignable(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestDescriptorCache(t *testing.T) {
	t.Run("concurrent lookups share one descriptor", func(t *testing.T) {
		r, types := sampleRegistry(t)
		types["Label"].Markers.ChildTags = []typeoracle.ChildTag{{Tag: "caption", Method: "SetText"}}
		results := make([]*typeoracle.Descriptor, 16)
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = r.Descriptor(types["Label"])
			}(i)
		}
		wg.Wait()
		for _, d := range results[1:] {
			if d != results[0] {
				t.Fatal("expected every caller to observe the first stored descriptor")
			}
		}
		if diff := cmp.Diff([]string{"caption"}, results[0].ChildTagNames()); diff != "" {
			t.Errorf("child tags mismatch (-want +got):\n%s", diff)
		}
		if r.Cache().Len() != 1 {
			t.Errorf("expected one cache entry, got %d", r.Cache().Len())
		}
	})

	t.Run("overlay types are described without caching", func(t *testing.T) {
		r, types := sampleRegistry(t)
		overlay := typeoracle.NewOverlay(r)
		style := &typeoracle.Type{Package: "x/app", PkgName: "app", Name: "FooStyle", Kind: typeoracle.Class, Super: types["UIObject"]}
		if err := overlay.Register(style); err != nil {
			t.Fatal(err)
		}
		if overlay.FindType("x/app", "FooStyle") != style {
			t.Error("overlay should resolve its generated type")
		}
		if r.FindType("x/app", "FooStyle") != nil {
			t.Error("generated type leaked into the shared registry")
		}
		overlay.Descriptor(style)
		if r.Cache().Len() != 0 {
			t.Errorf("expected no shared cache entries, got %d", r.Cache().Len())
		}
	})
}

func TestLoadManifest(t *testing.T) {
	t.Run("links types declared in any order", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "app.json")
		manifest := `{
  "package": "example.com/app",
  "types": [
    {"name": "Owner", "kind": "class",
     "methods": [{"name": "OnClick", "params": [{"name": "e", "type": "string"}]}],
     "markers": {"uiFields": [{"name": "title", "type": "example.com/app.Title"}]}},
    {"name": "Title", "kind": "class", "constructors": [{"name": "NewTitle"}],
     "methods": [{"name": "SetText", "params": [{"name": "text", "type": "string"}]}]},
    {"name": "Color", "kind": "enum", "enumConstants": [{"Name": "RED", "Ident": "ColorRed"}]}
  ]
}`
		if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
			t.Fatal(err)
		}
		m, err := typeoracle.ReadManifest(path)
		if err != nil {
			t.Fatal(err)
		}
		r := typeoracle.NewRegistry()
		if err := r.LoadManifest(m); err != nil {
			t.Fatal(err)
		}
		owner := r.FindType("example.com/app", "Owner")
		title := r.FindType("example.com/app", "Title")
		if owner == nil || title == nil {
			t.Fatal("expected both types to be registered")
		}
		if owner.PkgName != "app" {
			t.Errorf("expected package name from path, got %q", owner.PkgName)
		}
		field, ok := r.Descriptor(owner).UiField("title")
		if !ok || field.Type != title {
			t.Errorf("expected ui field typed as Title, got %+v", field)
		}
		if c := r.FindConstructor(title, nil); c == nil || c.Name != "NewTitle" {
			t.Errorf("expected NewTitle constructor, got %v", c)
		}
		color := r.FindType("example.com/app", "Color")
		want := []typeoracle.EnumConstant{{Name: "RED", Ident: "ColorRed"}}
		if diff := cmp.Diff(want, r.EnumConstants(color)); diff != "" {
			t.Errorf("enum constants mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("rejects unknown type references", func(t *testing.T) {
		r := typeoracle.NewRegistry()
		err := r.LoadManifest(&typeoracle.Manifest{
			Package: "example.com/app",
			Types:   []typeoracle.ManifestType{{Name: "A", Kind: "class", Super: "example.com/app.Missing"}},
		})
		if err == nil {
			t.Fatal("expected an error for an unknown super type")
		}
	})
}
