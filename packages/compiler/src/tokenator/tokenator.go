// Package tokenator weaves generated expressions into literal text buffers.
// A buffer under construction holds opaque markers; the final detokenation
// pass replaces each marker with its resolved value in a single scan.
package tokenator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"

	"uibind-go/packages/compiler/src/util"
)

const (
	tokenPrefix = "--token--"
	tokenSuffix = "--end-token--"
)

var tokenRe = regexp.MustCompile(`--token--(\d+)--end-token--`)

// ids are process wide so markers from concurrently compiled units never collide
var nextID atomic.Int64

// Info is the metadata attached to a token, used for diagnostics
type Info struct {
	Source string
	Loc    *util.ParseLocation
}

// Resolver produces the value of a deferred token at detokenation time
type Resolver func() (string, error)

type entry struct {
	info     Info
	value    string
	resolver Resolver
}

// Tokenator owns the tokens of one compilation unit. It is not safe for
// concurrent use.
type Tokenator struct {
	entries map[int64]*entry
	order   []int64
	count   int
}

// New creates an empty Tokenator
func New() *Tokenator {
	return &Tokenator{entries: map[int64]*entry{}}
}

func format(id int64) string {
	return tokenPrefix + strconv.FormatInt(id, 10) + tokenSuffix
}

// Allocate returns a marker standing for resolved
func (t *Tokenator) Allocate(info Info, resolved string) string {
	id := nextID.Add(1)
	t.entries[id] = &entry{info: info, value: resolved}
	t.order = append(t.order, id)
	return format(id)
}

// AllocateDeferred returns a marker whose value is computed when the marker is
// first detokenated. The resolver runs at most once.
func (t *Tokenator) AllocateDeferred(info Info, resolver Resolver) string {
	id := nextID.Add(1)
	t.entries[id] = &entry{info: info, resolver: resolver}
	t.order = append(t.order, id)
	return format(id)
}

// Resolve sets the value of a previously allocated marker
func (t *Tokenator) Resolve(token, value string) error {
	id, ok := parseToken(token)
	if !ok {
		return util.Errorf(util.InternalError, nil, "%q is not a token", token)
	}
	e, ok := t.entries[id]
	if !ok {
		return util.Errorf(util.InternalError, nil, "unknown token %d", id)
	}
	e.value, e.resolver = value, nil
	return nil
}

func parseToken(token string) (int64, bool) {
	m := tokenRe.FindStringSubmatch(token)
	if m == nil || m[0] != token {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	return id, err == nil
}

func (t *Tokenator) value(id int64) (string, error) {
	e, ok := t.entries[id]
	if !ok {
		return "", util.Errorf(util.InternalError, nil, "unresolved token %d", id)
	}
	if e.resolver != nil {
		v, err := e.resolver()
		if err != nil {
			return "", err
		}
		e.value, e.resolver = v, nil
	}
	return e.value, nil
}

// Detokenate replaces every marker in text with its value. Values may contain
// markers themselves; those are replaced too. Text without markers is
// returned unchanged, so the pass is idempotent.
func (t *Tokenator) Detokenate(text string) (string, error) {
	return t.detokenate(text, map[int64]bool{})
}

func (t *Tokenator) detokenate(text string, active map[int64]bool) (string, error) {
	if !strings.Contains(text, tokenPrefix) {
		return text, nil
	}
	var b strings.Builder
	last := 0
	for _, m := range tokenRe.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(text[last:m[0]])
		last = m[1]
		id, err := strconv.ParseInt(text[m[2]:m[3]], 10, 64)
		if err != nil {
			return "", util.Errorf(util.InternalError, nil, "malformed token %q", text[m[0]:m[1]])
		}
		if active[id] {
			return "", util.Errorf(util.InternalError, nil, "token %d refers to itself", id)
		}
		v, err := t.value(id)
		if err != nil {
			return "", err
		}
		active[id] = true
		v, err = t.detokenate(v, active)
		delete(active, id)
		if err != nil {
			return "", err
		}
		b.WriteString(v)
		t.count++
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

// HasToken reports whether text still contains a marker
func HasToken(text string) bool {
	return tokenRe.MatchString(text)
}

// HasToken reports whether text still contains a marker
func (t *Tokenator) HasToken(text string) bool {
	return HasToken(text)
}

// Piece is a run of literal text or a single marker
type Piece struct {
	Text  string
	Token bool
}

// Split breaks text into literal runs and markers, in order
func Split(text string) []Piece {
	var out []Piece
	last := 0
	for _, loc := range tokenRe.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			out = append(out, Piece{Text: text[last:loc[0]]})
		}
		out = append(out, Piece{Text: text[loc[0]:loc[1]], Token: true})
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, Piece{Text: text[last:]})
	}
	return out
}

// Infos returns the metadata of every token in text, in order of appearance
func (t *Tokenator) Infos(text string) []Info {
	var out []Info
	for _, m := range tokenRe.FindAllStringSubmatch(text, -1) {
		id, _ := strconv.ParseInt(m[1], 10, 64)
		if e, ok := t.entries[id]; ok {
			out = append(out, e.info)
		}
	}
	return out
}

// Count returns how many markers Detokenate has substituted so far
func (t *Tokenator) Count() int {
	return t.count
}

// Len returns how many tokens have been allocated
func (t *Tokenator) Len() int {
	return len(t.order)
}

// String describes the tokenator for debugging
func (t *Tokenator) String() string {
	return fmt.Sprintf("Tokenator(%d tokens)", len(t.order))
}
