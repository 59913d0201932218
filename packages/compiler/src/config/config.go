package config

import (
	"log/slog"
	"path"
	"runtime"
)

// CompilerConfig represents the compiler configuration
type CompilerConfig struct {
	// PkgPath is the import path of the package generated code lives in, and
	// Package its name.
	PkgPath string
	Package string
	// Format runs gofmt over every generated file.
	Format bool
	// Workers bounds how many templates compile at once.
	Workers int
	// TemplateSuffix selects template files; OutputSuffix names the file
	// generated next to each template.
	TemplateSuffix string
	OutputSuffix   string
	// OwnerSuffix is appended to a template's base name to find its owner
	// type: Foo.ui.xml binds to Foo<OwnerSuffix>.
	OwnerSuffix string
	// Manifests are JSON type manifests loaded into the type oracle.
	Manifests []string
	// GoPackages are Go package patterns whose types the oracle loads.
	GoPackages []string
	Logger     *slog.Logger
}

// NewCompilerConfig creates a new CompilerConfig with optional parameters
func NewCompilerConfig(opts ...CompilerConfigOption) *CompilerConfig {
	config := &CompilerConfig{
		PkgPath:        "main",
		Package:        "main",
		Format:         true,
		Workers:        runtime.GOMAXPROCS(0),
		TemplateSuffix: ".ui.xml",
		OutputSuffix:   "_uibind.go",
	}

	for _, opt := range opts {
		opt(config)
	}

	if config.Workers < 1 {
		config.Workers = 1
	}
	return config
}

// CompilerConfigOption is a function that modifies CompilerConfig
type CompilerConfigOption func(*CompilerConfig)

// WithPackage sets the generated package. An empty name defaults to the last
// element of the import path.
func WithPackage(pkgPath, name string) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.PkgPath = pkgPath
		if name == "" {
			name = path.Base(pkgPath)
		}
		c.Package = name
	}
}

// WithFormat sets whether generated code is gofmt-ed
func WithFormat(format bool) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.Format = format
	}
}

// WithWorkers sets the number of templates compiled concurrently
func WithWorkers(n int) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.Workers = n
	}
}

// WithSuffixes sets the template, output and owner suffixes. Empty values
// keep the current setting.
func WithSuffixes(template, output, owner string) CompilerConfigOption {
	return func(c *CompilerConfig) {
		if template != "" {
			c.TemplateSuffix = template
		}
		if output != "" {
			c.OutputSuffix = output
		}
		if owner != "" {
			c.OwnerSuffix = owner
		}
	}
}

// WithManifests adds type manifests to load
func WithManifests(paths ...string) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.Manifests = append(c.Manifests, paths...)
	}
}

// WithGoPackages adds Go package patterns to load
func WithGoPackages(patterns ...string) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.GoPackages = append(c.GoPackages, patterns...)
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.Logger = logger
	}
}
