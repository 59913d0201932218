package resources

import (
	"regexp"
	"sort"
	"strings"
)

var commentRe = regexp.MustCompile(`/\*[\s\S]*?\*/`)

// selectorRe splits a selector into its simple parts. Group 3 holds the "." or
// "#" prefix of a class or id.
var selectorRe = regexp.MustCompile(
	`(\:not\()|` +
		`(([\.\#]?)[-\w]+)|` +
		`(?:\[([-.\w*\\$]+)(?:=(?:"([^"]*)"|'([^']*)'|([^\]\s]+)))?\])|` +
		`(\))|` +
		`(\s*,\s*)`,
)

const (
	groupSimple = 2
	groupPrefix = 3
)

// Stylesheet is a parsed style block: its text and the class names its
// selectors use, in order of first appearance.
type Stylesheet struct {
	Text    string
	Classes []string
}

// ParseStylesheet strips comments and collects the class names used by every
// selector, including selectors nested in at-rule blocks.
func ParseStylesheet(css string) *Stylesheet {
	css = commentRe.ReplaceAllString(css, "")
	sheet := &Stylesheet{Text: css}
	seen := map[string]bool{}
	forEachSelector(css, func(start, end int) {
		for _, class := range selectorClasses(css[start:end]) {
			if !seen[class] {
				seen[class] = true
				sheet.Classes = append(sheet.Classes, class)
			}
		}
	})
	return sheet
}

// Rename returns the stylesheet text with every class selector replaced
// through names. Classes missing from names are left as they are.
func (s *Stylesheet) Rename(names map[string]string) string {
	var b strings.Builder
	last := 0
	forEachSelector(s.Text, func(start, end int) {
		b.WriteString(s.Text[last:start])
		b.WriteString(renameSelector(s.Text[start:end], names))
		last = end
	})
	b.WriteString(s.Text[last:])
	return b.String()
}

// SortedClasses returns the class names in lexical order
func (s *Stylesheet) SortedClasses() []string {
	out := append([]string(nil), s.Classes...)
	sort.Strings(out)
	return out
}

func selectorClasses(selector string) []string {
	var out []string
	for _, m := range selectorRe.FindAllStringSubmatch(selector, -1) {
		if m[groupPrefix] == "." {
			out = append(out, m[groupSimple][1:])
		}
	}
	return out
}

func renameSelector(selector string, names map[string]string) string {
	var b strings.Builder
	last := 0
	for _, loc := range selectorRe.FindAllStringSubmatchIndex(selector, -1) {
		ps, pe := loc[2*groupPrefix], loc[2*groupPrefix+1]
		if ps < 0 || selector[ps:pe] != "." {
			continue
		}
		ss, se := loc[2*groupSimple], loc[2*groupSimple+1]
		renamed, ok := names[selector[ss+1:se]]
		if !ok {
			continue
		}
		b.WriteString(selector[last : ss+1])
		b.WriteString(renamed)
		last = se
	}
	b.WriteString(selector[last:])
	return b.String()
}

// forEachSelector calls fn with the bounds of every selector list: the text
// before a "{" that is not an at-rule prelude. Strings and escapes are skipped.
func forEachSelector(css string, fn func(start, end int)) {
	segment := 0
	var quote byte
	for i := 0; i < len(css); i++ {
		c := css[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\\':
			i++
		case c == '"' || c == '\'':
			quote = c
		case c == ';' || c == '}':
			segment = i + 1
		case c == '{':
			start := segment
			for start < i && isSpace(css[start]) {
				start++
			}
			if start < i && css[start] != '@' {
				fn(start, i)
			}
			segment = i + 1
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
