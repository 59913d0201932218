package attributeparsers

import (
	"strings"

	"uibind-go/packages/compiler/src/fields"
	"uibind-go/packages/compiler/src/typeoracle"
	"uibind-go/packages/compiler/src/util"
	"uibind-go/packages/compiler/src/xmltree"
)

// Delegate turns the pieces of an attribute value into expressions
type Delegate interface {
	// Types are the types a reference in the value must evaluate to.
	Types() []*typeoracle.Type
	// HandleFragment converts a literal run of text.
	HandleFragment(fragment string) (string, error)
	// HandleReference wraps the token standing for a reference.
	HandleReference(token string) string
	// Joiner glues converted pieces together.
	Joiner() string
}

// Segment is one piece of an attribute value: literal text or a reference
type Segment struct {
	Text        string
	IsReference bool
}

// Split breaks value into literal and {reference} segments. "{{" is a literal
// brace; an unterminated brace is literal text.
func Split(value string) []Segment {
	var out []Segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			out = append(out, Segment{Text: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '{' {
			lit.WriteByte(c)
			continue
		}
		if i+1 < len(value) && value[i+1] == '{' {
			lit.WriteByte('{')
			i++
			continue
		}
		end := strings.IndexByte(value[i+1:], '}')
		if end < 0 {
			lit.WriteString(value[i:])
			break
		}
		flush()
		out = append(out, Segment{Text: strings.TrimSpace(value[i+1 : i+1+end]), IsReference: true})
		i += end + 1
	}
	flush()
	return out
}

// HasFieldReferences reports whether value contains a {reference}
func HasFieldReferences(value string) bool {
	for _, s := range Split(value) {
		if s.IsReference {
			return true
		}
	}
	return false
}

// IsSingleReference reports whether value is exactly one {reference}
func IsSingleReference(value string) bool {
	segs := Split(strings.TrimSpace(value))
	return len(segs) == 1 && segs[0].IsReference
}

// FieldReferenceConverter converts attribute values with {references} into
// expressions, registering every reference with the field manager.
type FieldReferenceConverter struct {
	fields *fields.FieldManager
}

// NewFieldReferenceConverter creates a converter registering into fm
func NewFieldReferenceConverter(fm *fields.FieldManager) *FieldReferenceConverter {
	return &FieldReferenceConverter{fields: fm}
}

// Convert converts value piece by piece through delegate
func (c *FieldReferenceConverter) Convert(elem *xmltree.Element, value string, delegate Delegate) (string, error) {
	var parts []string
	for _, seg := range Split(value) {
		if !seg.IsReference {
			part, err := delegate.HandleFragment(seg.Text)
			if err != nil {
				return "", err
			}
			if part != "" {
				parts = append(parts, part)
			}
			continue
		}
		if !isLegalPath(seg.Text) {
			return "", elem.Error(util.AttributeError, "Illegal field reference {%s} in %s", seg.Text, elem)
		}
		token := c.fields.RegisterFieldReference(elem, seg.Text, delegate.Types()...)
		parts = append(parts, delegate.HandleReference(token))
	}
	return strings.Join(parts, delegate.Joiner()), nil
}

func isLegalPath(path string) bool {
	if path == "" {
		return false
	}
	for _, seg := range strings.Split(path, ".") {
		if !util.IsLegalIdentifier(seg) && !isDashedName(seg) {
			return false
		}
	}
	return true
}

// css class names may contain dashes; the accessor is derived from them
func isDashedName(s string) bool {
	if s == "" || s[0] == '-' {
		return false
	}
	for _, r := range s {
		if r != '-' && r != '_' && !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
