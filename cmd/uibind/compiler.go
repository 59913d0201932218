package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"uibind-go/packages/compiler/src/binder"
	"uibind-go/packages/compiler/src/config"
	"uibind-go/packages/compiler/src/gotypes"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/widgets"
)

// Project is a directory of templates and the configuration compiling them
type Project struct {
	Root    string
	Config  *config.CompilerConfig
	Include []string
	Exclude []string
	Oracle  *typeoracle.Registry
	logger  *slog.Logger
}

// NewProject reads the configuration of root and prepares the type oracle.
// A missing default configuration file is not an error.
func NewProject(root, configPath string, logger *slog.Logger) (*Project, error) {
	p := &Project{Root: root, logger: logger}
	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(root, config.FileName)
	}
	opts := []config.CompilerConfigOption{config.WithLogger(logger)}
	f, err := config.ParseFile(configPath)
	switch {
	case err == nil:
		opts = append(opts, f.Options(f.GetProjectRoot(configPath))...)
		p.Include, p.Exclude = f.Include, f.Exclude
		logger.Debug("loaded configuration", slog.String("path", configPath))
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}
	p.Config = config.NewCompilerConfig(opts...)

	if p.Oracle, err = p.loadOracle(context.Background()); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Project) loadOracle(ctx context.Context) (*typeoracle.Registry, error) {
	r := widgets.NewRegistry()
	for _, path := range p.Config.Manifests {
		m, err := typeoracle.ReadManifest(path)
		if err != nil {
			return nil, err
		}
		if err := r.LoadManifest(m); err != nil {
			return nil, fmt.Errorf("manifest %s: %w", path, err)
		}
	}
	if len(p.Config.GoPackages) > 0 {
		l := &gotypes.Loader{Registry: r, Dir: p.Root, Logger: p.logger}
		if err := l.Load(ctx, p.Config.GoPackages...); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Templates lists the template files under the root, honoring the include
// and exclude patterns of the configuration.
func (p *Project) Templates() ([]string, error) {
	var found []string
	err := filepath.WalkDir(p.Root, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if file != p.Root && (strings.HasPrefix(d.Name(), ".") || d.Name() == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(file, p.Config.TemplateSuffix) {
			return nil
		}
		rel, err := filepath.Rel(p.Root, file)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if p.selected(rel) {
			found = append(found, file)
		}
		return nil
	})
	return found, err
}

func (p *Project) selected(rel string) bool {
	match := func(patterns []string) bool {
		for _, pat := range patterns {
			if ok, _ := path.Match(pat, rel); ok {
				return true
			}
			if ok, _ := path.Match(pat, path.Base(rel)); ok {
				return true
			}
		}
		return false
	}
	if len(p.Include) > 0 && !match(p.Include) {
		return false
	}
	return !match(p.Exclude)
}

// Unit builds the compilation unit of a template file. The owner type is the
// template base name plus the owner suffix, looked up in the generated package.
func (p *Project) Unit(file string) (*binder.Unit, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	unit := &binder.Unit{
		Source:     src,
		URL:        filepath.ToSlash(file),
		FS:         os.DirFS(filepath.Dir(file)),
		BinderName: binder.BinderName(file, p.Config.TemplateSuffix),
	}
	base := strings.TrimSuffix(filepath.Base(file), p.Config.TemplateSuffix)
	owner := util.ExportedName(util.SanitizeIdentifier(base)) + p.Config.OwnerSuffix
	unit.Owner = p.Oracle.FindType(p.Config.PkgPath, owner)
	if unit.Owner == nil {
		p.logger.Debug("template has no owner", slog.String("template", file), slog.String("owner", owner))
	}
	return unit, nil
}

// OutputPath is the generated file written next to a template
func (p *Project) OutputPath(file string) string {
	return strings.TrimSuffix(file, p.Config.TemplateSuffix) + p.Config.OutputSuffix
}

// Run compiles every template. In check mode nothing is written and stale
// outputs are errors.
func (p *Project) Run(check bool) error {
	files, err := p.Templates()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		p.logger.Warn("no templates found", slog.String("root", p.Root), slog.String("suffix", p.Config.TemplateSuffix))
		return nil
	}
	units := make([]*binder.Unit, 0, len(files))
	for _, file := range files {
		unit, err := p.Unit(file)
		if err != nil {
			return err
		}
		units = append(units, unit)
	}

	failed := 0
	for i, o := range binder.CompileAll(p.Oracle, units, p.Config) {
		file := files[i]
		if o.Err != nil {
			failed++
			p.report(file, o.Err)
			continue
		}
		for _, w := range o.Result.Warnings {
			p.logger.Warn(w.ContextualMessage(), slog.String("template", file))
		}
		out := p.OutputPath(file)
		if check {
			existing, err := os.ReadFile(out)
			if err != nil || !bytes.Equal(existing, o.Result.Source) {
				failed++
				p.logger.Error("generated file is stale", slog.String("template", file), slog.String("output", out))
			}
			continue
		}
		if err := os.WriteFile(out, o.Result.Source, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		p.logger.Debug("wrote", slog.String("output", out))
	}
	p.logger.Info("done", slog.Int("templates", len(files)), slog.Int("failed", failed))
	if failed > 0 {
		return fmt.Errorf("%d of %d templates failed", failed, len(files))
	}
	return nil
}

func (p *Project) report(file string, err error) {
	var list util.ErrorList
	if errors.As(err, &list) {
		for _, e := range list {
			p.logger.Error(e.ContextualMessage(), slog.String("template", file), slog.String("kind", e.Kind.String()))
		}
		return
	}
	var pe *util.ParseError
	if errors.As(err, &pe) {
		p.logger.Error(pe.ContextualMessage(), slog.String("template", file), slog.String("kind", pe.Kind.String()))
		return
	}
	p.logger.Error(err.Error(), slog.String("template", file))
}
