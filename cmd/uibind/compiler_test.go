package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const loginTemplate = `<ui:UiBinder xmlns:ui="urn:ui:uibind" xmlns:g="urn:import:uibind.dev/ui">
  <g:FlowPanel>
    <g:Label ui:field="title" text="Sign in"/>
    <g:TextBox ui:field="user"/>
  </g:FlowPanel>
</ui:UiBinder>`

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestProject(t *testing.T, root string) *Project {
	t.Helper()
	p, err := NewProject(root, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewProject: %v", err)
	}
	return p
}

func TestProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "uibind.json"), `{"package": {"path": "example.com/app"}, "exclude": ["drafts/*"]}`)
	writeFile(t, filepath.Join(root, "views", "Login.ui.xml"), loginTemplate)
	writeFile(t, filepath.Join(root, "drafts", "Old.ui.xml"), loginTemplate)
	writeFile(t, filepath.Join(root, "testdata", "Broken.ui.xml"), "<nope")

	p := newTestProject(t, root)
	if p.Config.Package != "app" {
		t.Errorf("package %q, want app", p.Config.Package)
	}

	t.Run("finds templates honoring excludes", func(t *testing.T) {
		files, err := p.Templates()
		if err != nil {
			t.Fatal(err)
		}
		want := []string{filepath.Join(root, "views", "Login.ui.xml")}
		if diff := cmp.Diff(want, files); diff != "" {
			t.Errorf("templates mismatch (-want +got):\n%s", diff)
		}
	})

	out := filepath.Join(root, "views", "Login_uibind.go")
	t.Run("writes the generated file next to the template", func(t *testing.T) {
		if err := p.Run(false); err != nil {
			t.Fatalf("Run: %v", err)
		}
		src, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"package app", "LoginBinder", `title.SetText("Sign in")`} {
			if !bytes.Contains(src, []byte(want)) {
				t.Errorf("output lacks %q:\n%s", want, src)
			}
		}
	})

	t.Run("check passes on fresh output", func(t *testing.T) {
		if err := p.Run(true); err != nil {
			t.Errorf("check: %v", err)
		}
	})

	t.Run("check reports stale output", func(t *testing.T) {
		writeFile(t, out, "package app\n")
		if err := p.Run(true); err == nil {
			t.Error("expected stale output to fail the check")
		}
	})
}

func TestProjectReportsBrokenTemplates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Bad.ui.xml"), `<ui:UiBinder xmlns:ui="urn:ui:uibind"><ui:bogus/></ui:UiBinder>`)
	p := newTestProject(t, root)
	if err := p.Run(false); err == nil {
		t.Fatal("expected the run to fail")
	}
	if _, err := os.Stat(filepath.Join(root, "Bad_uibind.go")); !os.IsNotExist(err) {
		t.Errorf("no output should be written for a failed template, stat: %v", err)
	}
}

func TestProjectRequiresExplicitConfig(t *testing.T) {
	_, err := NewProject(t.TempDir(), "missing.json", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err == nil {
		t.Error("expected a missing explicit config to fail")
	}
}
