package typeoracle

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry is an in-memory Oracle populated by declarative registration. It
// is safe for concurrent readers once populated; descriptors are memoized in a
// shared DescriptorCache.
type Registry struct {
	mu       sync.RWMutex
	types    map[string]*Type
	domTags  map[string]*Type
	domOther *Type
	cache    *DescriptorCache
}

// NewRegistry creates a registry preloaded with primitives, their boxed
// counterparts and the universal "any" interface.
func NewRegistry() *Registry {
	r := &Registry{
		types:   map[string]*Type{},
		domTags: map[string]*Type{},
		cache:   NewDescriptorCache(),
	}
	for _, name := range PrimitiveNames {
		prim := &Type{Name: name, Kind: Primitive}
		r.types[name] = prim
		boxed := &Type{Name: "*" + name, Kind: Boxed, Unboxed: prim}
		r.types[boxed.Name] = boxed
	}
	r.types["any"] = &Type{Name: "any", Kind: Interface}
	return r
}

// Register adds t to the registry. Registering a different type under an
// existing key is an error.
func (r *Registry) Register(t *Type) (*Type, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := t.Key()
	if existing, ok := r.types[key]; ok {
		if existing == t {
			return t, nil
		}
		return nil, fmt.Errorf("type %s registered twice", key)
	}
	r.types[key] = t
	return t, nil
}

// MustRegister is Register for static tables; it panics on duplicates.
func (r *Registry) MustRegister(t *Type) *Type {
	if _, err := r.Register(t); err != nil {
		panic(err)
	}
	return t
}

// Primitive returns a built-in primitive, boxed type or "any"
func (r *Registry) Primitive(name string) *Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[name]
}

// RegisterDomTag maps an HTML tag to its DOM type. The empty tag sets the type
// used for tags without a specific mapping.
func (r *Registry) RegisterDomTag(tag string, t *Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tag == "" {
		r.domOther = t
		return
	}
	r.domTags[strings.ToLower(tag)] = t
}

// Types returns every registered type sorted by key
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Cache exposes the descriptor cache
func (r *Registry) Cache() *DescriptorCache {
	return r.cache
}

// FindType implements Oracle
func (r *Registry) FindType(pkg, name string) *Type {
	key := name
	if pkg != "" {
		key = pkg + "." + name
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[key]
}

// ResolveType implements Oracle
func (r *Registry) ResolveType(key string) (*Type, error) {
	r.mu.RLock()
	t, ok := r.types[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown type %s", key)
	}
	return t, nil
}

// Supertypes implements Oracle
func (r *Registry) Supertypes(t *Type) []*Type {
	return TypeHierarchy(t)[1:]
}

// FindSetters implements Oracle
func (r *Registry) FindSetters(t *Type, property string) []*Method {
	return findSetters(t, property)
}

// FindConstructor implements Oracle
func (r *Registry) FindConstructor(t *Type, paramTypes []*Type) *Method {
	return findConstructor(t, paramTypes)
}

// IsAssignable implements Oracle
func (r *Registry) IsAssignable(from, to *Type) bool {
	return isAssignable(from, to)
}

// EnumConstants implements Oracle
func (r *Registry) EnumConstants(t *Type) []EnumConstant {
	return t.EnumConstants
}

// Descriptor implements Oracle
func (r *Registry) Descriptor(t *Type) *Descriptor {
	return r.cache.Get(t)
}

// DomElementType implements Oracle
func (r *Registry) DomElementType(tag string) *Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.domTags[strings.ToLower(tag)]; ok {
		return t
	}
	return r.domOther
}

// Overlay layers per-unit generated types over a shared oracle. Generated
// types never leak into the shared oracle, and their descriptors are not
// cached across units.
type Overlay struct {
	Oracle
	local map[string]*Type
}

// NewOverlay creates an overlay over base
func NewOverlay(base Oracle) *Overlay {
	return &Overlay{Oracle: base, local: map[string]*Type{}}
}

// Register adds a generated type to the overlay
func (o *Overlay) Register(t *Type) error {
	if _, ok := o.local[t.Key()]; ok {
		return fmt.Errorf("type %s generated twice", t.Key())
	}
	if existing, _ := o.Oracle.ResolveType(t.Key()); existing != nil {
		return fmt.Errorf("generated type %s collides with an existing type", t.Key())
	}
	o.local[t.Key()] = t
	return nil
}

// FindType implements Oracle
func (o *Overlay) FindType(pkg, name string) *Type {
	key := name
	if pkg != "" {
		key = pkg + "." + name
	}
	if t, ok := o.local[key]; ok {
		return t
	}
	return o.Oracle.FindType(pkg, name)
}

// ResolveType implements Oracle
func (o *Overlay) ResolveType(key string) (*Type, error) {
	if t, ok := o.local[key]; ok {
		return t, nil
	}
	return o.Oracle.ResolveType(key)
}

// Descriptor implements Oracle
func (o *Overlay) Descriptor(t *Type) *Descriptor {
	if _, ok := o.local[t.Key()]; ok {
		return Describe(t)
	}
	return o.Oracle.Descriptor(t)
}
