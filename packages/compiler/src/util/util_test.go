package util_test

import (
	"errors"
	"strings"
	"testing"

	"uibind-go/packages/compiler/src/util"
)

func TestIdentifiers(t *testing.T) {
	t.Run("should sanitize illegal characters and keywords", func(t *testing.T) {
		cases := map[string]string{
			"my-label": "my_label",
			"1st":      "_1st",
			"type":     "type_",
			"owner":    "owner_",
			"ok":       "ok",
			"":         "_",
		}
		for in, want := range cases {
			if got := util.SanitizeIdentifier(in); got != want {
				t.Errorf("SanitizeIdentifier(%q) = %q, want %q", in, got, want)
			}
		}
	})

	t.Run("should export css class names", func(t *testing.T) {
		if got := util.ExportedName("my-class"); got != "MyClass" {
			t.Errorf("got %q", got)
		}
		if got := util.ExportedName("Bold"); got != "Bold" {
			t.Errorf("got %q", got)
		}
	})
}

func TestMortalLogger(t *testing.T) {
	file := util.NewParseSourceFile("<a>\n<b/>\n</a>", "view.ui.xml")
	loc := util.NewParseLocation(file, 4, 2, 1)

	t.Run("should keep warnings advisory", func(t *testing.T) {
		logger := util.NewMortalLogger(nil)
		logger.Warn(loc, "deprecated")
		if logger.HasErrors() || logger.Err() != nil {
			t.Fatalf("warnings must not fail the unit")
		}
		if len(logger.Warnings()) != 1 {
			t.Fatalf("expected one warning, got %d", len(logger.Warnings()))
		}
	})

	t.Run("should batch errors before dying", func(t *testing.T) {
		logger := util.NewMortalLogger(nil)
		logger.Error(util.SymbolError, loc, "first")
		err := logger.Die(util.SymbolError, loc, "second")
		var list util.ErrorList
		if !errors.As(err, &list) || len(list) != 2 {
			t.Fatalf("expected a list of two errors, got %v", err)
		}
		if !util.IsKind(err, util.SymbolError) {
			t.Errorf("expected SymbolError kind")
		}
		if !strings.Contains(err.Error(), "view.ui.xml:2:1") {
			t.Errorf("expected location in %q", err.Error())
		}
	})
}
