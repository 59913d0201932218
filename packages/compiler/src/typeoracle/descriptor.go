package typeoracle

import (
	"sort"
	"sync"
)

// Markers are the raw capability declarations a host attaches to a type. They
// replace annotation scanning: the registry, a manifest or the Go package
// loader fills them in, and Describe derives a Descriptor from them.
type Markers struct {
	// Renderable types can be stamped into HTML before being attached.
	Renderable bool
	// ChildTags declares custom child elements, e.g. <g:tab> -> AddTab.
	ChildTags []ChildTag
	// Constructor names the constructor templates call with named attributes.
	Constructor string
	// ConstructorParams are the attribute names bound to the marked
	// constructor's parameters, in order.
	ConstructorParams []string
	// UiFields are the template-bound fields of an owner type.
	UiFields []UiField
	// Factories are owner methods that construct template fields.
	Factories []string
	// Handlers bind owner methods to events of template fields.
	Handlers []Handler
}

// ChildTag declares a custom child element accepted by a type
type ChildTag struct {
	Tag    string
	Method string
	// Limit caps how many times the tag may appear; 0 is unlimited.
	Limit int
}

// UiField is an owner field bound to a template field
type UiField struct {
	Name     string
	Type     *Type
	Provided bool
}

// Handler binds an owner method to an event of one or more template fields
type Handler struct {
	Method string
	Event  string
	Fields []string
}

// Descriptor is the capability set of a type, computed once and cached
type Descriptor struct {
	Type       *Type
	Renderable bool
	// ChildTags maps a tag to the method accepting it, most specific type first.
	ChildTags map[string]ChildTagMethod
	// MarkedConstructor is the constructor whose parameters bind to attributes.
	MarkedConstructor *Method
	ConstructorParams []string
	// Factories maps a produced type key to the owner method producing it.
	Factories map[string]*Method
	UiFields  []UiField
	Handlers  []Handler
}

// ChildTagMethod is a resolved child tag
type ChildTagMethod struct {
	Tag    string
	Method *Method
	Limit  int
}

// HasChildTags reports whether the type declares custom child tags
func (d *Descriptor) HasChildTags() bool {
	return len(d.ChildTags) > 0
}

// ChildTagNames returns the declared child tags in sorted order
func (d *Descriptor) ChildTagNames() []string {
	names := make([]string, 0, len(d.ChildTags))
	for n := range d.ChildTags {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FactoryFor returns the owner factory producing t, if any
func (d *Descriptor) FactoryFor(t *Type) *Method {
	return d.Factories[t.Key()]
}

// UiField looks up an owner ui field by name
func (d *Descriptor) UiField(name string) (UiField, bool) {
	for _, f := range d.UiFields {
		if f.Name == name {
			return f, true
		}
	}
	return UiField{}, false
}

// Describe derives the descriptor of t from its markers and those of its
// supertypes. More specific declarations shadow inherited ones.
func Describe(t *Type) *Descriptor {
	d := &Descriptor{
		Type:      t,
		ChildTags: map[string]ChildTagMethod{},
		Factories: map[string]*Method{},
	}
	for _, cur := range TypeHierarchy(t) {
		m := cur.Markers
		if m.Renderable {
			d.Renderable = true
		}
		for _, tag := range m.ChildTags {
			if _, seen := d.ChildTags[tag.Tag]; seen {
				continue
			}
			method := FindMethod(t, tag.Method)
			if method == nil {
				continue
			}
			d.ChildTags[tag.Tag] = ChildTagMethod{Tag: tag.Tag, Method: method, Limit: tag.Limit}
		}
		if cur == t && m.Constructor != "" {
			for _, c := range t.Constructors {
				if c.Name == m.Constructor {
					d.MarkedConstructor = c
					d.ConstructorParams = m.ConstructorParams
					break
				}
			}
		}
		for _, name := range m.Factories {
			method := FindMethod(t, name)
			if method == nil || method.Returns == nil {
				continue
			}
			if _, seen := d.Factories[method.Returns.Key()]; !seen {
				d.Factories[method.Returns.Key()] = method
			}
		}
		if cur == t {
			d.UiFields = append(d.UiFields, m.UiFields...)
			d.Handlers = append(d.Handlers, m.Handlers...)
		}
	}
	return d
}

// DescriptorCache memoizes descriptors across compilation units. It is safe
// for concurrent use: the first stored descriptor for a key wins and later
// computations of the same key are discarded.
type DescriptorCache struct {
	entries sync.Map
}

// NewDescriptorCache creates an empty cache
func NewDescriptorCache() *DescriptorCache {
	return &DescriptorCache{}
}

// Get returns the cached descriptor of t, computing it on a miss
func (c *DescriptorCache) Get(t *Type) *Descriptor {
	key := t.Key()
	if v, ok := c.entries.Load(key); ok {
		return v.(*Descriptor)
	}
	actual, _ := c.entries.LoadOrStore(key, Describe(t))
	return actual.(*Descriptor)
}

// Len returns the number of cached descriptors
func (c *DescriptorCache) Len() int {
	n := 0
	c.entries.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
