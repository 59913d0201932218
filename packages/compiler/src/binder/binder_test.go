package binder_test

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"uibind-go/packages/compiler/src/binder"
	"uibind-go/packages/compiler/src/config"
	"uibind-go/packages/compiler/src/output"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/widgets"
)

const appPkg = "example.com/app"

func template(body string) []byte {
	return []byte(`<ui:UiBinder xmlns:ui="urn:ui:uibind" xmlns:g="urn:import:uibind.dev/ui">` + body + `</ui:UiBinder>`)
}

func testConfig() *config.CompilerConfig {
	return config.NewCompilerConfig(config.WithPackage(appPkg, "app"))
}

func compile(t *testing.T, r *typeoracle.Registry, unit *binder.Unit) (*binder.Result, error) {
	t.Helper()
	if unit.URL == "" {
		unit.URL = "View.ui.xml"
	}
	return binder.Compile(r, unit, testConfig())
}

func mustCompile(t *testing.T, r *typeoracle.Registry, unit *binder.Unit) *binder.Result {
	t.Helper()
	res, err := compile(t, r, unit)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return res
}

func contains(t *testing.T, src []byte, want ...string) {
	t.Helper()
	for _, w := range want {
		if !bytes.Contains(src, []byte(w)) {
			t.Errorf("generated source lacks %q:\n%s", w, src)
		}
	}
}

func TestScenarios(t *testing.T) {
	t.Run("a widget with a field and a text attribute", func(t *testing.T) {
		r := widgets.NewRegistry()
		res := mustCompile(t, r, &binder.Unit{Source: template(`<g:Label field="lbl" text="hi"/>`)})

		want := []output.Declaration{{Name: "lbl", Type: "*ui.Label"}}
		if diff := cmp.Diff(want, res.Program.Declarations); diff != "" {
			t.Errorf("declarations mismatch (-want +got):\n%s", diff)
		}
		if res.Program.RootExpr != "lbl" {
			t.Errorf("root is %q, want lbl", res.Program.RootExpr)
		}
		contains(t, res.Source, "lbl = ui.NewLabel()", `lbl.SetText("hi")`, "return lbl")
		if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0].Msg, "Deprecated use of the field attribute") {
			t.Errorf("expected one deprecation warning, got %v", res.Warnings)
		}
	})

	t.Run("two unnamed styles collide on the default field name", func(t *testing.T) {
		r := widgets.NewRegistry()
		_, err := compile(t, r, &binder.Unit{Source: template(
			`<ui:style>.a { color: red; }</ui:style><ui:style>.b { color: blue; }</ui:style><g:Label/>`)})
		if !util.IsKind(err, util.SymbolError) {
			t.Fatalf("expected a SymbolError, got %v", err)
		}
		if !strings.Contains(err.Error(), "Duplicate declaration of field") {
			t.Errorf("unexpected message %q", err)
		}
	})

	t.Run("an empty required string is rejected", func(t *testing.T) {
		r := widgets.NewRegistry()
		_, err := compile(t, r, &binder.Unit{Source: template(`<g:RadioButton name=""/>`)})
		if !util.IsKind(err, util.AttributeError) {
			t.Fatalf("expected an AttributeError, got %v", err)
		}
		if !strings.Contains(err.Error(), "Cannot use empty value as type String") {
			t.Errorf("unexpected message %q", err)
		}
	})

	t.Run("a boxed float reference feeds an int setter with a cast", func(t *testing.T) {
		r := widgets.NewRegistry()
		r.MustRegister(&typeoracle.Type{Package: appPkg, PkgName: "app", Name: "Sizes", Kind: typeoracle.Class}).
			AddConstructor("NewSizes").
			AddMethod("Ratio", r.Primitive("*float64"))
		res := mustCompile(t, r, &binder.Unit{Source: template(
			`<ui:with field="a" type="example.com/app.Sizes"/><g:TextBox ui:field="box" visibleLength="{a.ratio}"/>`)})
		contains(t, res.Source, "a = NewSizes()", "box.SetVisibleLength(int(*a.Ratio()))")
		if bytes.Index(res.Source, []byte("a = NewSizes()")) > bytes.Index(res.Source, []byte("box = ui.NewTextBox()")) {
			t.Errorf("a must be constructed before box:\n%s", res.Source)
		}
	})
}

func TestConsumption(t *testing.T) {
	t.Run("a stray attribute fails the unit", func(t *testing.T) {
		_, err := compile(t, widgets.NewRegistry(), &binder.Unit{Source: template(`<g:FlowPanel bogus="1"/>`)})
		if !util.IsKind(err, util.AttributeError) {
			t.Fatalf("expected an AttributeError, got %v", err)
		}
		if !strings.Contains(err.Error(), "SetBogus") {
			t.Errorf("unexpected message %q", err)
		}
	})

	t.Run("text inside a widget without a body is a structural error", func(t *testing.T) {
		_, err := compile(t, widgets.NewRegistry(), &binder.Unit{Source: template(`<g:FlowPanel>stray</g:FlowPanel>`)})
		if !util.IsKind(err, util.StructuralError) {
			t.Fatalf("expected a StructuralError, got %v", err)
		}
	})

	t.Run("the root must be a binder element", func(t *testing.T) {
		_, err := compile(t, widgets.NewRegistry(), &binder.Unit{Source: []byte(`<div/>`)})
		if !util.IsKind(err, util.StructuralError) {
			t.Fatalf("expected a StructuralError, got %v", err)
		}
	})

	t.Run("only one ui element is allowed", func(t *testing.T) {
		_, err := compile(t, widgets.NewRegistry(), &binder.Unit{Source: template(`<g:Label/><g:Label/>`)})
		if !util.IsKind(err, util.StructuralError) {
			t.Fatalf("expected a StructuralError, got %v", err)
		}
	})

	t.Run("unknown binder directives are rejected", func(t *testing.T) {
		_, err := compile(t, widgets.NewRegistry(), &binder.Unit{Source: template(`<ui:bogus/><g:Label/>`)})
		if !util.IsKind(err, util.StructuralError) {
			t.Fatalf("expected a StructuralError, got %v", err)
		}
	})
}

func TestTagResolution(t *testing.T) {
	r := widgets.NewRegistry()
	widget := r.FindType(widgets.UIPackage, "Widget")
	r.MustRegister(&typeoracle.Type{Package: appPkg, PkgName: "app", Name: "Outer.Inner", Kind: typeoracle.Class, Super: widget}).
		AddConstructor("NewOuterInner")
	r.MustRegister(&typeoracle.Type{Package: appPkg + ".cards", PkgName: "cards", Name: "Card", Kind: typeoracle.Class, Super: widget}).
		AddConstructor("NewCard")
	header := `<ui:UiBinder xmlns:ui="urn:ui:uibind" xmlns:app="urn:import:example.com/app">`

	t.Run("finds nested type names", func(t *testing.T) {
		res := mustCompile(t, r, &binder.Unit{Source: []byte(header + `<app:Outer.Inner ui:field="inner"/></ui:UiBinder>`)})
		contains(t, res.Source, "inner = NewOuterInner()")
	})

	t.Run("moves dotted prefixes onto the package", func(t *testing.T) {
		res := mustCompile(t, r, &binder.Unit{Source: []byte(header + `<app:cards.Card ui:field="card"/></ui:UiBinder>`)})
		contains(t, res.Source, "card = cards.NewCard()", `"example.com/app.cards"`)
	})

	t.Run("reports tags matching no type", func(t *testing.T) {
		_, err := compile(t, r, &binder.Unit{Source: []byte(header + `<app:Missing/></ui:UiBinder>`)})
		if !util.IsKind(err, util.SymbolError) {
			t.Fatalf("expected a SymbolError, got %v", err)
		}
		if !strings.Contains(err.Error(), "No class matching") {
			t.Errorf("unexpected message %q", err)
		}
	})
}

func TestFieldReferences(t *testing.T) {
	t.Run("a reference of an unrelated type names both types", func(t *testing.T) {
		_, err := compile(t, widgets.NewRegistry(), &binder.Unit{Source: template(
			`<g:FlowPanel><g:Label ui:field="l"/><g:Image resource="{l}"/></g:FlowPanel>`)})
		if !util.IsKind(err, util.AttributeError) {
			t.Fatalf("expected an AttributeError, got %v", err)
		}
		for _, name := range []string{"uibind.dev/ui.Label", "uibind.dev/resources.ImageResource"} {
			if !strings.Contains(err.Error(), name) {
				t.Errorf("message %q does not name %s", err, name)
			}
		}
	})

	t.Run("every broken reference is reported at once", func(t *testing.T) {
		_, err := compile(t, widgets.NewRegistry(), &binder.Unit{Source: template(
			`<g:FlowPanel><g:Label text="{nope.text}"/><g:Label text="{gone}"/></g:FlowPanel>`)})
		list, ok := err.(util.ErrorList)
		if !ok {
			t.Fatalf("expected an ErrorList, got %T: %v", err, err)
		}
		if len(list) != 2 {
			t.Errorf("got %d errors, want 2: %v", len(list), list)
		}
	})

	t.Run("a referenced field is constructed first", func(t *testing.T) {
		res := mustCompile(t, widgets.NewRegistry(), &binder.Unit{Source: template(
			`<g:FlowPanel><g:Label text="{src.text}"/><g:Label ui:field="src" text="x"/></g:FlowPanel>`)})
		first := bytes.Index(res.Source, []byte("src = ui.NewLabel()"))
		second := bytes.Index(res.Source, []byte("f_Label2 = ui.NewLabel()"))
		if first < 0 || second < 0 || first > second {
			t.Errorf("src must be constructed before f_Label2:\n%s", res.Source)
		}
		contains(t, res.Source, "f_Label2.SetText(src.Text())")
	})
}

func loginOwner(r *typeoracle.Registry, provided bool, handlers ...typeoracle.Handler) *typeoracle.Type {
	owner := r.MustRegister(&typeoracle.Type{
		Package: appPkg,
		PkgName: "app",
		Name:    "LoginView",
		Kind:    typeoracle.Class,
		Markers: typeoracle.Markers{
			UiFields: []typeoracle.UiField{
				{Name: "submit", Type: r.FindType(widgets.UIPackage, "Button")},
				{Name: "user", Type: r.FindType(widgets.UIPackage, "TextBox"), Provided: provided},
			},
			Handlers: handlers,
		},
	})
	owner.AddMethod("OnSubmit", nil)
	return owner
}

const loginTemplate = `<g:FlowPanel><g:Button ui:field="submit">Go</g:Button><g:TextBox ui:field="user"/></g:FlowPanel>`

func TestGeneratedNames(t *testing.T) {
	tests := []struct {
		name, body, field string
	}{
		{"a field named like an import", `<g:FlowPanel ui:field="ui"><g:Label ui:field="lbl" text="x"/></g:FlowPanel>`, "ui"},
		{"a field named like an attach record", `<g:HTMLPanel><div ui:field="attach1"/></g:HTMLPanel>`, "attach1"},
	}
	for _, tc := range tests {
		t.Run(tc.name+" is rejected", func(t *testing.T) {
			_, err := compile(t, widgets.NewRegistry(), &binder.Unit{Source: template(tc.body)})
			if !util.IsKind(err, util.SymbolError) {
				t.Fatalf("expected a SymbolError, got %v", err)
			}
			if !strings.Contains(err.Error(), `"`+tc.field+`"`) {
				t.Errorf("message %q does not name %s", err, tc.field)
			}
		})
	}

	t.Run("names unrelated to the generated code are accepted", func(t *testing.T) {
		res := mustCompile(t, widgets.NewRegistry(), &binder.Unit{Source: template(
			`<g:FlowPanel ui:field="uiPanel"><g:Label ui:field="attach" text="x"/></g:FlowPanel>`)})
		contains(t, res.Source, "uiPanel = ui.NewFlowPanel()", "attach = ui.NewLabel()")
	})
}

func TestParserPrecedence(t *testing.T) {
	t.Run("an attribute shared with the bean parser is set once", func(t *testing.T) {
		res := mustCompile(t, widgets.NewRegistry(), &binder.Unit{Source: template(
			`<g:HorizontalPanel ui:field="row" horizontalAlignment="ALIGN_RIGHT"/>`)})
		stmt := []byte("row.SetHorizontalAlignment(ui.AlignRight)")
		if diff := cmp.Diff(1, bytes.Count(res.Source, stmt)); diff != "" {
			t.Errorf("statement count mismatch (-want +got):\n%s\n%s", diff, res.Source)
		}
	})

	t.Run("a debug id is consumed before the bean parser runs", func(t *testing.T) {
		res := mustCompile(t, widgets.NewRegistry(), &binder.Unit{Source: template(
			`<g:Label ui:field="lbl" debugId="greeting"/>`)})
		if diff := cmp.Diff(1, bytes.Count(res.Source, []byte(`lbl.EnsureDebugID("greeting")`))); diff != "" {
			t.Errorf("statement count mismatch (-want +got):\n%s\n%s", diff, res.Source)
		}
		if bytes.Contains(res.Source, []byte("SetDebugId")) {
			t.Errorf("bean setter emitted for a consumed attribute:\n%s", res.Source)
		}
	})
}

func TestOwner(t *testing.T) {
	t.Run("binds fields and handlers after construction", func(t *testing.T) {
		r := widgets.NewRegistry()
		owner := loginOwner(r, false, typeoracle.Handler{Method: "OnSubmit", Event: "Click", Fields: []string{"submit"}})
		res := mustCompile(t, r, &binder.Unit{Source: template(loginTemplate), Owner: owner})
		want := []string{
			"owner.submit = submit",
			"owner.user = user",
			"submit.AddClickHandler(ui.ClickHandlerFunc(owner.OnSubmit))",
		}
		if diff := cmp.Diff(want, res.Program.Trailing); diff != "" {
			t.Errorf("trailing statements mismatch (-want +got):\n%s", diff)
		}
		if res.Program.OwnerType != "*LoginView" {
			t.Errorf("owner type %q, want *LoginView", res.Program.OwnerType)
		}
	})

	t.Run("takes provided fields from the owner", func(t *testing.T) {
		r := widgets.NewRegistry()
		res := mustCompile(t, r, &binder.Unit{Source: template(loginTemplate), Owner: loginOwner(r, true)})
		contains(t, res.Source, "user = owner.user")
		if diff := cmp.Diff([]string{"owner.submit = submit"}, res.Program.Trailing); diff != "" {
			t.Errorf("trailing statements mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("reports owner fields missing from the template", func(t *testing.T) {
		r := widgets.NewRegistry()
		_, err := compile(t, r, &binder.Unit{Source: template(`<g:Button ui:field="submit"/>`), Owner: loginOwner(r, false)})
		if !util.IsKind(err, util.SymbolError) {
			t.Fatalf("expected a SymbolError, got %v", err)
		}
		if !strings.Contains(err.Error(), `"user"`) {
			t.Errorf("unexpected message %q", err)
		}
	})

	t.Run("reports fields of the wrong type", func(t *testing.T) {
		r := widgets.NewRegistry()
		_, err := compile(t, r, &binder.Unit{
			Source: template(`<g:FlowPanel><g:Label ui:field="submit"/><g:TextBox ui:field="user"/></g:FlowPanel>`),
			Owner:  loginOwner(r, false),
		})
		if !util.IsKind(err, util.SymbolError) {
			t.Fatalf("expected a SymbolError, got %v", err)
		}
	})

	t.Run("reports handlers for events a field does not fire", func(t *testing.T) {
		r := widgets.NewRegistry()
		owner := loginOwner(r, false, typeoracle.Handler{Method: "OnSubmit", Event: "Selection", Fields: []string{"submit"}})
		_, err := compile(t, r, &binder.Unit{Source: template(loginTemplate), Owner: owner})
		if !util.IsKind(err, util.SymbolError) {
			t.Fatalf("expected a SymbolError, got %v", err)
		}
		if !strings.Contains(err.Error(), "Selection") {
			t.Errorf("unexpected message %q", err)
		}
	})
}

func TestAttachPhase(t *testing.T) {
	t.Run("looks up DOM fields and places widgets while attached", func(t *testing.T) {
		res := mustCompile(t, widgets.NewRegistry(), &binder.Unit{Source: template(
			`<g:HTMLPanel ui:field="panel"><div ui:field="box">hi</div><g:Button ui:field="submit"/></g:HTMLPanel>`)})
		want := []string{
			"attach1 := ui.AttachToDom(panel.Element())",
			"box = dom.AsDivElement(ui.ElementByID(domId1))",
			"panel.AddAndReplaceElement(submit, ui.ElementByID(domId2))",
			"attach1.Detach()",
		}
		if diff := cmp.Diff(want, res.Program.Attach); diff != "" {
			t.Errorf("attach phase mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{`box.RemoveAttribute("id")`}, res.Program.Detach); diff != "" {
			t.Errorf("detach phase mismatch (-want +got):\n%s", diff)
		}
		contains(t, res.Source, "domId1 = ui.CreateUniqueID()", "domId2 = ui.CreateUniqueID()")
	})

	t.Run("panels without DOM content need no attach phase", func(t *testing.T) {
		res := mustCompile(t, widgets.NewRegistry(), &binder.Unit{Source: template(`<g:HTMLPanel><p>static</p></g:HTMLPanel>`)})
		if len(res.Program.Attach) != 0 {
			t.Errorf("unexpected attach phase %v", res.Program.Attach)
		}
		if bytes.Contains(res.Source, []byte("AttachToDom")) {
			t.Errorf("unexpected attachment:\n%s", res.Source)
		}
	})
}

func TestMessages(t *testing.T) {
	res := mustCompile(t, widgets.NewRegistry(), &binder.Unit{
		URL:    "views/Greeting.ui.xml",
		Source: template(`<g:HTML ui:field="greeting"><ui:msg description="Greets the user">Hello <b>world</b></ui:msg></g:HTML>`),
	})
	found := false
	for _, d := range res.Program.Declarations {
		if d == (output.Declaration{Name: "uibindMessages", Type: "*GreetingBinderMessages"}) {
			found = true
		}
	}
	if !found {
		t.Errorf("no messages field in %v", res.Program.Declarations)
	}
	contains(t, res.Source, "type GreetingBinderMessages struct{}", "uibindMessages.Message1(", "// Description: Greets the user")
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 3))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestResources(t *testing.T) {
	files := fstest.MapFS{
		"logo.png": {Data: pngBytes(t)},
		"font.bin": {Data: []byte{1, 2, 3}},
	}

	t.Run("declares styles and images on the bundle", func(t *testing.T) {
		res := mustCompile(t, widgets.NewRegistry(), &binder.Unit{
			URL: "Card.ui.xml",
			FS:  files,
			Source: template(`<ui:style>.title { font-weight: bold; }</ui:style><ui:image field="logo" src="logo.png"/>` +
				`<g:FlowPanel><g:Label styleName="{style.title}"/><g:Image resource="{logo}"/></g:FlowPanel>`),
		})
		contains(t, res.Source,
			"uibindBundle = &CardBinderBundle{}",
			"style = uibindBundle.Style()",
			"style.EnsureInjected()",
			"logo = uibindBundle.Logo()",
			"f_Label2.SetStyleName(style.Title())",
			"ui.NewImageFromResource(logo)",
			"type CardBinderStyle struct{}",
		)
	})

	t.Run("resources mapping to one method collide", func(t *testing.T) {
		_, err := compile(t, widgets.NewRegistry(), &binder.Unit{
			FS:     files,
			Source: template(`<ui:image field="logo" src="logo.png"/><ui:data field="Logo" src="font.bin"/><g:Label/>`),
		})
		if !util.IsKind(err, util.ResourceError) {
			t.Fatalf("expected a ResourceError, got %v", err)
		}
	})

	t.Run("missing resource files are reported", func(t *testing.T) {
		_, err := compile(t, widgets.NewRegistry(), &binder.Unit{
			FS:     files,
			Source: template(`<ui:data field="manual" src="manual.pdf"/><g:Label/>`),
		})
		if !util.IsKind(err, util.ResourceError) {
			t.Fatalf("expected a ResourceError, got %v", err)
		}
	})
}

func TestImport(t *testing.T) {
	t.Run("imports every constant of an enum", func(t *testing.T) {
		res := mustCompile(t, widgets.NewRegistry(), &binder.Unit{Source: template(
			`<ui:import field="uibind.dev/ui.Unit.*"/><g:Label/>`)})
		contains(t, res.Source, "PX = ui.UnitPX", "PT = ui.UnitPT")
	})

	t.Run("imports a single constant", func(t *testing.T) {
		res := mustCompile(t, widgets.NewRegistry(), &binder.Unit{Source: template(
			`<ui:import field="uibind.dev/ui.Unit.EM"/><g:Label/>`)})
		contains(t, res.Source, "EM = ui.UnitEM")
		if bytes.Contains(res.Source, []byte("UnitPX")) {
			t.Errorf("unexpected constant:\n%s", res.Source)
		}
	})

	t.Run("rejects unknown constants", func(t *testing.T) {
		_, err := compile(t, widgets.NewRegistry(), &binder.Unit{Source: template(
			`<ui:import field="uibind.dev/ui.Unit.FURLONG"/><g:Label/>`)})
		if !util.IsKind(err, util.SymbolError) {
			t.Fatalf("expected a SymbolError, got %v", err)
		}
	})
}

const richTemplate = `<ui:style>.box { margin: 0; } .title { color: red; }</ui:style>` +
	`<g:HTMLPanel ui:field="panel">` +
	`<div class="{style.box}" ui:field="box"><ui:msg>Welcome <ui:ph name="who"><b>back</b></ui:ph></ui:msg></div>` +
	`<g:Label styleName="{style.title}" text="Title"/>` +
	`<g:DockLayoutPanel unit="EM"><g:north size="4"><g:Label>North</g:Label></g:north><g:center><g:Label>Body</g:Label></g:center></g:DockLayoutPanel>` +
	`</g:HTMLPanel>`

func TestDeterminism(t *testing.T) {
	r := widgets.NewRegistry()
	unit := func() *binder.Unit {
		return &binder.Unit{URL: "Rich.ui.xml", Source: template(richTemplate)}
	}
	first := mustCompile(t, r, unit())
	second := mustCompile(t, r, unit())
	if diff := cmp.Diff(string(first.Source), string(second.Source)); diff != "" {
		t.Errorf("recompiling changed the output (-first +second):\n%s", diff)
	}
	if bytes.Contains(first.Source, []byte("--token--")) {
		t.Errorf("token left in output:\n%s", first.Source)
	}
}

func TestCompileAll(t *testing.T) {
	r := widgets.NewRegistry()
	var units []*binder.Unit
	for i := 0; i < 12; i++ {
		src := template(richTemplate)
		if i == 5 {
			src = template(`<g:Label bogus="1"/>`)
		}
		units = append(units, &binder.Unit{URL: "Rich.ui.xml", Source: src})
	}
	cfg := config.NewCompilerConfig(config.WithPackage(appPkg, "app"), config.WithWorkers(4))
	outcomes := binder.CompileAll(r, units, cfg)
	if len(outcomes) != len(units) {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), len(units))
	}
	want := outcomes[0].Result.Source
	for i, o := range outcomes {
		if o.Unit != units[i] {
			t.Errorf("outcome %d belongs to another unit", i)
		}
		if i == 5 {
			if !util.IsKind(o.Err, util.AttributeError) {
				t.Errorf("unit 5: expected an AttributeError, got %v", o.Err)
			}
			continue
		}
		if o.Err != nil {
			t.Errorf("unit %d: %v", i, o.Err)
			continue
		}
		if diff := cmp.Diff(string(want), string(o.Result.Source)); diff != "" {
			t.Errorf("unit %d differs (-want +got):\n%s", i, diff)
		}
	}
}

func TestCompileAllWorkers(t *testing.T) {
	t.Run("a config without workers still compiles every unit", func(t *testing.T) {
		units := []*binder.Unit{
			{URL: "A.ui.xml", Source: template(`<g:Label text="a"/>`)},
			{URL: "B.ui.xml", Source: template(`<g:Label text="b"/>`)},
		}
		cfg := &config.CompilerConfig{PkgPath: appPkg, Package: "app"}
		outcomes := binder.CompileAll(widgets.NewRegistry(), units, cfg)
		if len(outcomes) != len(units) {
			t.Fatalf("got %d outcomes, want %d", len(outcomes), len(units))
		}
		for i, o := range outcomes {
			if o.Err != nil {
				t.Errorf("unit %d: %v", i, o.Err)
			}
		}
	})
}

func TestBinderName(t *testing.T) {
	tests := []struct {
		url, suffix, want string
	}{
		{"views/Login.ui.xml", ".ui.xml", "LoginBinder"},
		{"views/login-form.ui.xml", ".ui.xml", "Login_formBinder"},
		{"Card.xml", "", "CardBinder"},
	}
	for _, tc := range tests {
		t.Run(tc.url, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, binder.BinderName(tc.url, tc.suffix)); diff != "" {
				t.Errorf("BinderName mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
