package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the name of the project configuration file
const FileName = "uibind.json"

// File is the JSON form of the configuration. Unset fields keep their
// defaults.
type File struct {
	Package        FilePackage `json:"package"`
	Format         *bool       `json:"format"`
	Workers        int         `json:"workers"`
	TemplateSuffix string      `json:"templateSuffix"`
	OutputSuffix   string      `json:"outputSuffix"`
	OwnerSuffix    string      `json:"ownerSuffix"`
	Manifests      []string    `json:"manifests"`
	GoPackages     []string    `json:"goPackages"`
	Include        []string    `json:"include"`
	Exclude        []string    `json:"exclude"`
}

// FilePackage names the generated package
type FilePackage struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// ParseFile reads and parses a uibind.json file
func ParseFile(path string) (*File, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config File
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return &config, nil
}

// Options converts the file into config options. Manifest paths are made
// relative to root.
func (f *File) Options(root string) []CompilerConfigOption {
	var opts []CompilerConfigOption
	if f.Package.Path != "" {
		opts = append(opts, WithPackage(f.Package.Path, f.Package.Name))
	}
	if f.Format != nil {
		opts = append(opts, WithFormat(*f.Format))
	}
	if f.Workers > 0 {
		opts = append(opts, WithWorkers(f.Workers))
	}
	opts = append(opts, WithSuffixes(f.TemplateSuffix, f.OutputSuffix, f.OwnerSuffix))
	for _, m := range f.Manifests {
		if !filepath.IsAbs(m) {
			m = filepath.Join(root, m)
		}
		opts = append(opts, WithManifests(m))
	}
	if len(f.GoPackages) > 0 {
		opts = append(opts, WithGoPackages(f.GoPackages...))
	}
	return opts
}

// GetProjectRoot returns the directory containing the config file
func (f *File) GetProjectRoot(configPath string) string {
	return filepath.Dir(configPath)
}
