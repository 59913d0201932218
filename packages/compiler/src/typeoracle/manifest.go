package typeoracle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest declares the target types of one package. Hosts that cannot be
// introspected with the Go package loader describe their types this way.
type Manifest struct {
	Package string         `json:"package"`
	Name    string         `json:"name"`
	Types   []ManifestType `json:"types"`
	// DomTags maps HTML tags to DOM types declared in this manifest.
	DomTags map[string]string `json:"domTags,omitempty"`
}

// ManifestType is the JSON form of a Type
type ManifestType struct {
	Name          string           `json:"name"`
	Kind          string           `json:"kind"`
	Super         string           `json:"super,omitempty"`
	Interfaces    []string         `json:"interfaces,omitempty"`
	Methods       []ManifestMethod `json:"methods,omitempty"`
	Constructors  []ManifestMethod `json:"constructors,omitempty"`
	EnumConstants []EnumConstant   `json:"enumConstants,omitempty"`
	Markers       ManifestMarkers  `json:"markers,omitempty"`
}

// ManifestMethod is the JSON form of a Method. Types are canonical keys.
type ManifestMethod struct {
	Name    string          `json:"name"`
	Params  []ManifestParam `json:"params,omitempty"`
	Returns string          `json:"returns,omitempty"`
}

// ManifestParam is the JSON form of a Param
type ManifestParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ManifestMarkers is the JSON form of Markers
type ManifestMarkers struct {
	Renderable        bool              `json:"renderable,omitempty"`
	ChildTags         []ChildTag        `json:"childTags,omitempty"`
	Constructor       string            `json:"constructor,omitempty"`
	ConstructorParams []string          `json:"constructorParams,omitempty"`
	UiFields          []ManifestUiField `json:"uiFields,omitempty"`
	Factories         []string          `json:"factories,omitempty"`
	Handlers          []Handler         `json:"handlers,omitempty"`
}

// ManifestUiField is the JSON form of UiField
type ManifestUiField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Provided bool   `json:"provided,omitempty"`
}

var manifestKinds = map[string]Kind{
	"class":     Class,
	"interface": Interface,
	"enum":      Enum,
}

// ReadManifest reads a manifest file
func ReadManifest(path string) (*Manifest, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// LoadManifest registers every type of m into r. Types are created first and
// linked second, so declarations may reference each other in any order.
func (r *Registry) LoadManifest(m *Manifest) error {
	if m.Package == "" {
		return fmt.Errorf("manifest has no package")
	}
	pkgName := m.Name
	if pkgName == "" {
		pkgName = filepath.Base(m.Package)
	}
	created := make([]*Type, len(m.Types))
	for i, mt := range m.Types {
		kind, ok := manifestKinds[mt.Kind]
		if !ok {
			return fmt.Errorf("type %s: unknown kind %q", mt.Name, mt.Kind)
		}
		t := &Type{Package: m.Package, PkgName: pkgName, Name: mt.Name, Kind: kind, EnumConstants: mt.EnumConstants}
		if _, err := r.Register(t); err != nil {
			return err
		}
		created[i] = t
	}
	resolve := func(key string) (*Type, error) {
		if key == "" {
			return nil, nil
		}
		return r.ResolveType(key)
	}
	method := func(owner *Type, mm ManifestMethod) (*Method, error) {
		out := &Method{Name: mm.Name, Owner: owner}
		for _, p := range mm.Params {
			pt, err := resolve(p.Type)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", owner.Name, mm.Name, err)
			}
			out.Params = append(out.Params, Param{Name: p.Name, Type: pt})
		}
		ret, err := resolve(mm.Returns)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", owner.Name, mm.Name, err)
		}
		out.Returns = ret
		return out, nil
	}
	for i, mt := range m.Types {
		t := created[i]
		var err error
		if t.Super, err = resolve(mt.Super); err != nil {
			return fmt.Errorf("type %s: %w", t.Name, err)
		}
		for _, key := range mt.Interfaces {
			iface, err := resolve(key)
			if err != nil {
				return fmt.Errorf("type %s: %w", t.Name, err)
			}
			t.Interfaces = append(t.Interfaces, iface)
		}
		for _, mm := range mt.Methods {
			meth, err := method(t, mm)
			if err != nil {
				return err
			}
			t.Methods = append(t.Methods, meth)
		}
		for _, mm := range mt.Constructors {
			ctor, err := method(t, mm)
			if err != nil {
				return err
			}
			ctor.Returns = t
			t.Constructors = append(t.Constructors, ctor)
		}
		mk := mt.Markers
		t.Markers = Markers{
			Renderable:        mk.Renderable,
			ChildTags:         mk.ChildTags,
			Constructor:       mk.Constructor,
			ConstructorParams: mk.ConstructorParams,
			Factories:         mk.Factories,
			Handlers:          mk.Handlers,
		}
		for _, f := range mk.UiFields {
			ft, err := resolve(f.Type)
			if err != nil {
				return fmt.Errorf("type %s: ui field %s: %w", t.Name, f.Name, err)
			}
			t.Markers.UiFields = append(t.Markers.UiFields, UiField{Name: f.Name, Type: ft, Provided: f.Provided})
		}
	}
	for tag, key := range m.DomTags {
		t, err := resolve(key)
		if err != nil {
			return fmt.Errorf("dom tag %s: %w", tag, err)
		}
		r.RegisterDomTag(tag, t)
	}
	return nil
}
