package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"uibind-go/packages/compiler/src/config"
)

func TestNewCompilerConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := config.NewCompilerConfig()
		if c.Package != "main" || c.TemplateSuffix != ".ui.xml" || c.OutputSuffix != "_uibind.go" || !c.Format {
			t.Errorf("unexpected defaults %+v", c)
		}
		if c.Workers < 1 {
			t.Errorf("workers %d, want at least 1", c.Workers)
		}
	})

	t.Run("package name defaults to the last path element", func(t *testing.T) {
		c := config.NewCompilerConfig(config.WithPackage("example.com/app/views", ""))
		if c.Package != "views" {
			t.Errorf("package %q, want views", c.Package)
		}
	})

	t.Run("workers never drop below one", func(t *testing.T) {
		if got := config.NewCompilerConfig(config.WithWorkers(-3)).Workers; got != 1 {
			t.Errorf("workers %d, want 1", got)
		}
	})

	t.Run("empty suffixes keep the defaults", func(t *testing.T) {
		c := config.NewCompilerConfig(config.WithSuffixes("", ".gen.go", "View"))
		if c.TemplateSuffix != ".ui.xml" || c.OutputSuffix != ".gen.go" || c.OwnerSuffix != "View" {
			t.Errorf("unexpected suffixes %+v", c)
		}
	})
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	data := `{
  "package": {"path": "example.com/app", "name": "app"},
  "format": false,
  "workers": 3,
  "ownerSuffix": "View",
  "manifests": ["types/ui.json", "/abs/dom.json"],
  "goPackages": ["./..."]
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := config.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	root := f.GetProjectRoot(path)
	got := config.NewCompilerConfig(f.Options(root)...)
	want := &config.CompilerConfig{
		PkgPath:        "example.com/app",
		Package:        "app",
		Format:         false,
		Workers:        3,
		TemplateSuffix: ".ui.xml",
		OutputSuffix:   "_uibind.go",
		OwnerSuffix:    "View",
		Manifests:      []string{filepath.Join(dir, "types/ui.json"), "/abs/dom.json"},
		GoPackages:     []string{"./..."},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(config.CompilerConfig{}, "Logger")); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	t.Run("reports malformed files", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := config.ParseFile(bad); err == nil {
			t.Error("expected a parse error")
		}
	})
}
