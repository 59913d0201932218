package fields

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"uibind-go/packages/compiler/src/tokenator"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/xmltree"
)

type frame struct {
	elem  *xmltree.Element
	field *FieldWriter
}

// FieldManager owns the fields of one compilation unit. It is not safe for
// concurrent use.
type FieldManager struct {
	oracle  typeoracle.Oracle
	tokens  *tokenator.Tokenator
	logger  *util.MortalLogger
	fields  map[string]*FieldWriter
	ordered []*FieldWriter
	stack   []frame
	refs    []*FieldReference
	counter int
}

// NewFieldManager creates an empty field table
func NewFieldManager(oracle typeoracle.Oracle, tokens *tokenator.Tokenator, logger *util.MortalLogger) *FieldManager {
	return &FieldManager{
		oracle: oracle,
		tokens: tokens,
		logger: logger,
		fields: map[string]*FieldWriter{},
	}
}

// NextFieldName synthesizes a unique name for an unnamed element: f_<Tag><n>
func (m *FieldManager) NextFieldName(tag string) string {
	m.counter++
	return "f_" + util.ExportedName(tag) + strconv.Itoa(m.counter)
}

// RegisterField declares a DEFAULT field. A second declaration of the same
// name is a SymbolError.
func (m *FieldManager) RegisterField(typ *typeoracle.Type, name string) (*FieldWriter, error) {
	return m.RegisterFieldOfKind(Default, typ, name)
}

// RegisterFieldOfKind declares a field in the given precedence class
func (m *FieldManager) RegisterFieldOfKind(precedence Precedence, typ *typeoracle.Type, name string) (*FieldWriter, error) {
	ident := util.SanitizeIdentifier(name)
	if existing, ok := m.fields[ident]; ok {
		return nil, util.Errorf(util.SymbolError, m.location(), "Duplicate declaration of field %q (%s and %s)",
			name, existing.typ.Key(), typ.Key())
	}
	f := &FieldWriter{
		name:       ident,
		declared:   name,
		typ:        typ,
		precedence: precedence,
		index:      len(m.ordered),
		elem:       m.currentElement(),
	}
	m.fields[ident] = f
	m.ordered = append(m.ordered, f)
	m.dependOn(ident)
	m.logger.Log(slog.LevelDebug, "registered field",
		slog.String("field", ident), slog.String("type", typ.Key()), slog.String("precedence", precedence.String()))
	return f, nil
}

// RequireField returns the field called name, declaring it when absent. An
// existing field with a different type is a SymbolError.
func (m *FieldManager) RequireField(precedence Precedence, typ *typeoracle.Type, name string) (*FieldWriter, error) {
	if existing, ok := m.fields[util.SanitizeIdentifier(name)]; ok {
		if existing.typ.Key() != typ.Key() {
			return nil, util.Errorf(util.SymbolError, m.location(), "Duplicate declaration of field %q (%s and %s)",
				name, existing.typ.Key(), typ.Key())
		}
		m.dependOn(existing.name)
		return existing, nil
	}
	return m.RegisterFieldOfKind(precedence, typ, name)
}

// LookupField returns a field by name, or nil
func (m *FieldManager) LookupField(name string) *FieldWriter {
	return m.fields[util.SanitizeIdentifier(name)]
}

// Fields returns every field in declaration index order
func (m *FieldManager) Fields() []*FieldWriter {
	return m.ordered
}

// PushField makes f the field under construction while elem is parsed
func (m *FieldManager) PushField(elem *xmltree.Element, f *FieldWriter) {
	m.stack = append(m.stack, frame{elem: elem, field: f})
}

// PopField ends the construction of the top field
func (m *FieldManager) PopField() {
	if len(m.stack) > 0 {
		m.stack = m.stack[:len(m.stack)-1]
	}
}

// Current returns the field under construction, or nil
func (m *FieldManager) Current() *FieldWriter {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1].field
}

func (m *FieldManager) currentElement() *xmltree.Element {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1].elem
}

func (m *FieldManager) location() *util.ParseLocation {
	if e := m.currentElement(); e != nil {
		return e.Location()
	}
	return nil
}

func (m *FieldManager) dependOn(name string) {
	if top := m.Current(); top != nil {
		top.Needs(name)
	}
}

// DeclarationOrder returns the fields by ascending precedence, in declaration
// order within a class.
func (m *FieldManager) DeclarationOrder() []*FieldWriter {
	out := append([]*FieldWriter(nil), m.ordered...)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

func less(a, b *FieldWriter) bool {
	if a.precedence != b.precedence {
		return a.precedence < b.precedence
	}
	return a.index < b.index
}

// ConstructionOrder returns the fields so that every field comes after the
// fields it needs. Among fields whose needs are met, precedence and then
// declaration order decide. A cycle is a SymbolError.
func (m *FieldManager) ConstructionOrder() ([]*FieldWriter, error) {
	pending := map[*FieldWriter]int{}
	dependents := map[*FieldWriter][]*FieldWriter{}
	for _, f := range m.ordered {
		for _, name := range f.needs {
			dep, ok := m.fields[name]
			if !ok {
				continue
			}
			pending[f]++
			dependents[dep] = append(dependents[dep], f)
		}
	}
	var ready []*FieldWriter
	for _, f := range m.ordered {
		if pending[f] == 0 {
			ready = append(ready, f)
		}
	}
	out := make([]*FieldWriter, 0, len(m.ordered))
	for len(ready) > 0 {
		sort.SliceStable(ready, func(i, j int) bool { return less(ready[i], ready[j]) })
		next := ready[0]
		ready = ready[1:]
		out = append(out, next)
		for _, d := range dependents[next] {
			pending[d]--
			if pending[d] == 0 {
				ready = append(ready, d)
			}
		}
	}
	if len(out) != len(m.ordered) {
		var cycle []string
		for _, f := range m.ordered {
			if pending[f] > 0 {
				cycle = append(cycle, f.name)
			}
		}
		return nil, util.Errorf(util.SymbolError, nil, "Fields depend on each other in a cycle: %s", strings.Join(cycle, ", "))
	}
	return out, nil
}

// RegisterFieldReference records a {path} reference that must evaluate to one
// of types, and returns the token standing for its final expression. The
// reference is checked by ValidateFieldReferences once every field is known.
func (m *FieldManager) RegisterFieldReference(elem *xmltree.Element, path string, types ...*typeoracle.Type) string {
	ref := newFieldReference(m, elem, path, types)
	ref.token = m.tokens.Allocate(tokenator.Info{Source: "{" + path + "}", Loc: elem.Location()}, path)
	m.refs = append(m.refs, ref)
	m.dependOn(ref.FieldName())
	return ref.token
}

// References returns every registered reference
func (m *FieldManager) References() []*FieldReference {
	return m.refs
}

// ValidateFieldReferences checks every reference, logging each failure, and
// fails once at the end if any reference is broken.
func (m *FieldManager) ValidateFieldReferences() error {
	failed := false
	for _, ref := range m.refs {
		expr, err := ref.resolve()
		if err != nil {
			failed = true
			if pe, ok := err.(*util.ParseError); ok {
				m.logger.Error(pe.Kind, pe.Location(), pe.Msg)
			} else {
				m.logger.Error(util.InternalError, ref.elem.Location(), err.Error())
			}
			continue
		}
		if err := m.tokens.Resolve(ref.token, expr); err != nil {
			return err
		}
	}
	if failed {
		return m.logger.Err()
	}
	return nil
}

// String describes the table for debugging
func (m *FieldManager) String() string {
	names := make([]string, len(m.ordered))
	for i, f := range m.ordered {
		names[i] = f.String()
	}
	return fmt.Sprintf("FieldManager[%s]", strings.Join(names, "; "))
}
