package xmltree_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/xmltree"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE ui:UiBinder SYSTEM "http://dl.google.com/gwt/DTD/xhtml.ent">
<ui:UiBinder xmlns:ui="urn:ui:uibind" xmlns:g="urn:import:uibind.dev/ui">
  <!-- a comment -->
  <g:Label ui:field="lbl" text="hi"/>
  <div>a&nbsp;b<![CDATA[<i>raw</i>]]></div>
</ui:UiBinder>`

func load(t *testing.T, src string) *xmltree.Document {
	t.Helper()
	doc, err := xmltree.Load([]byte(src), "view.ui.xml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return doc
}

func TestLoad(t *testing.T) {
	t.Run("should resolve namespaces and prefixes", func(t *testing.T) {
		doc := load(t, sample)
		root := doc.Root()
		want := xmltree.Name{Space: "urn:ui:uibind", Local: "UiBinder", Prefix: "ui"}
		if diff := cmp.Diff(want, root.Name()); diff != "" {
			t.Errorf("root name mismatch (-want +got):\n%s", diff)
		}
		children := root.ChildElements()
		if len(children) != 2 {
			t.Fatalf("expected 2 child elements, got %d", len(children))
		}
		if got := children[0].QualifiedName(); got != "g:Label" {
			t.Errorf("QualifiedName() = %q", got)
		}
		if got := children[0].Namespace(); got != "urn:import:uibind.dev/ui" {
			t.Errorf("Namespace() = %q", got)
		}
		if got := children[0].Location().Line; got != 5 {
			t.Errorf("Line = %d, want 5", got)
		}
	})

	t.Run("should keep cdata apart from text and drop comments", func(t *testing.T) {
		doc := load(t, sample)
		div := doc.Root().ChildElements()[1]
		var kinds []xmltree.NodeKind
		var texts []string
		for _, c := range div.Content() {
			kinds = append(kinds, c.Kind)
			texts = append(texts, c.Text)
		}
		if diff := cmp.Diff([]xmltree.NodeKind{xmltree.TextNode, xmltree.CDATANode}, kinds); diff != "" {
			t.Errorf("kinds mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"a b", "<i>raw</i>"}, texts); diff != "" {
			t.Errorf("texts mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should expand named HTML entities and reject unknown ones", func(t *testing.T) {
		doc := load(t, `<a>x&nbsp;&copy;&#233;&amp;</a>`)
		got, err := doc.Root().ConsumeUnescapedInnerText()
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff("x\u00a0\u00a9\u00e9&", got); diff != "" {
			t.Errorf("inner text mismatch (-want +got):\n%s", diff)
		}
		for _, src := range []string{`<a>&bogus;</a>`, `<a title="&bogus;"/>`} {
			if _, err := xmltree.Load([]byte(src), "entity.ui.xml"); !util.IsKind(err, util.StructuralError) {
				t.Errorf("Load(%q) error = %v, want StructuralError", src, err)
			}
		}
	})

	t.Run("should reject malformed and unexpected markup", func(t *testing.T) {
		bad := []string{
			`<a><b></a>`,
			`<a><?php echo ?></a>`,
			`<a>&unknown;</a>`,
			`<a/><b/>`,
			`text<a/>`,
			`<x:a/>`,
		}
		for _, src := range bad {
			_, err := xmltree.Load([]byte(src), "bad.ui.xml")
			if !util.IsKind(err, util.StructuralError) {
				t.Errorf("Load(%q) error = %v, want StructuralError", src, err)
			}
		}
	})
}

func TestConsumption(t *testing.T) {
	t.Run("should consume attributes exactly once", func(t *testing.T) {
		doc := load(t, `<a x="1" y="2"/>`)
		root := doc.Root()
		if v, ok := root.ConsumeRawAttribute("x"); !ok || v != "1" {
			t.Fatalf("ConsumeRawAttribute(x) = %q, %v", v, ok)
		}
		if _, ok := root.ConsumeRawAttribute("x"); ok {
			t.Errorf("second consumption of x must fail")
		}
		err := root.AssertNoAttributes()
		if !util.IsKind(err, util.AttributeError) {
			t.Errorf("AssertNoAttributes() = %v, want AttributeError for y", err)
		}
		root.ConsumeRawAttribute("y")
		if err := root.AssertNoAttributes(); err != nil {
			t.Errorf("AssertNoAttributes() = %v", err)
		}
	})

	t.Run("should replace or add attributes", func(t *testing.T) {
		doc := load(t, `<a x="1"/>`)
		root := doc.Root()
		root.SetAttribute("x", "2")
		root.SetAttribute("y", "3")
		got := map[string]string{}
		for _, a := range root.RemainingAttributes() {
			got[a.Name.Local] = a.Value
		}
		if diff := cmp.Diff(map[string]string{"x": "2", "y": "3"}, got); diff != "" {
			t.Errorf("attributes mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report stray body content", func(t *testing.T) {
		doc := load(t, `<a> <b/> text </a>`)
		root := doc.Root()
		if err := root.AssertNoBody(); !util.IsKind(err, util.StructuralError) {
			t.Errorf("AssertNoBody() = %v, want StructuralError", err)
		}
		if _, err := root.ConsumeChildElements(nil); err == nil {
			t.Errorf("ConsumeChildElements() must reject text")
		}
		filtered, err := root.ConsumeChildElements(func(e *xmltree.Element) bool { return e.LocalName() == "b" })
		if err != nil || len(filtered) != 1 {
			t.Fatalf("filtered consume = %v, %v", filtered, err)
		}
		if _, err := root.ConsumeInnerText(); err != nil {
			t.Fatalf("ConsumeInnerText() = %v", err)
		}
		if err := root.AssertNoBody(); err != nil {
			t.Errorf("AssertNoBody() = %v", err)
		}
	})

	t.Run("should escape text but not CDATA", func(t *testing.T) {
		doc := load(t, `<a>1 &lt; 2 &amp; <![CDATA[<b>raw</b>]]></a>`)
		got, err := doc.Root().ConsumeInnerText()
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff("1 &lt; 2 &amp; <b>raw</b>", got); diff != "" {
			t.Errorf("inner text mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should return decoded text unescaped", func(t *testing.T) {
		doc := load(t, `<a>Tom &amp; Jerry</a>`)
		got, err := doc.Root().ConsumeUnescapedInnerText()
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff("Tom & Jerry", got); diff != "" {
			t.Errorf("inner text mismatch (-want +got):\n%s", diff)
		}
		if doc.Root().HasChildNodes() {
			t.Errorf("text should be consumed")
		}
	})

	t.Run("should return stable element handles", func(t *testing.T) {
		doc := load(t, `<a><b/></a>`)
		first := doc.Root().ChildElements()[0]
		second := doc.Root().ChildElements()[0]
		if first != second {
			t.Errorf("handles differ for the same node")
		}
		if first.Parent() != doc.Root() {
			t.Errorf("Parent() mismatch")
		}
	})
}
