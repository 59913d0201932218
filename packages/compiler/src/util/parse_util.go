package util

import (
	"errors"
	"fmt"
	"strings"
)

// ParseSourceFile represents a template source file
type ParseSourceFile struct {
	Content string
	URL     string
}

// NewParseSourceFile creates a new ParseSourceFile
func NewParseSourceFile(content, url string) *ParseSourceFile {
	return &ParseSourceFile{
		Content: content,
		URL:     url,
	}
}

// ParseLocation represents a location in the source file
type ParseLocation struct {
	File   *ParseSourceFile
	Offset int
	Line   int
	Col    int
}

// NewParseLocation creates a new ParseLocation
func NewParseLocation(file *ParseSourceFile, offset, line, col int) *ParseLocation {
	return &ParseLocation{
		File:   file,
		Offset: offset,
		Line:   line,
		Col:    col,
	}
}

// String returns a string representation of the location
func (p *ParseLocation) String() string {
	if p == nil {
		return "<unknown>"
	}
	url := ""
	if p.File != nil {
		url = p.File.URL
	}
	if p.Line > 0 {
		return fmt.Sprintf("%s:%d:%d", url, p.Line, p.Col)
	}
	return url
}

// GetContext returns the source context around the location
func (p *ParseLocation) GetContext(maxChars, maxLines int) *Context {
	if p == nil || p.File == nil || p.Offset < 0 || len(p.File.Content) == 0 {
		return nil
	}
	content := p.File.Content
	offset := p.Offset
	if offset > len(content) {
		offset = len(content)
	}
	startOffset := offset
	endOffset := offset

	ctxChars := 0
	ctxLines := 0
	for ctxChars < maxChars && startOffset > 0 {
		startOffset--
		ctxChars++
		if content[startOffset] == '\n' {
			ctxLines++
			if ctxLines == maxLines {
				startOffset++
				break
			}
		}
	}

	ctxChars = 0
	ctxLines = 0
	for ctxChars < maxChars && endOffset < len(content) {
		if content[endOffset] == '\n' {
			ctxLines++
			if ctxLines == maxLines {
				break
			}
		}
		endOffset++
		ctxChars++
	}

	return &Context{
		Before: content[startOffset:offset],
		After:  content[offset:endOffset],
	}
}

// Context represents source context around a location
type Context struct {
	Before string
	After  string
}

// ParseSourceSpan represents a span of source code
type ParseSourceSpan struct {
	Start   *ParseLocation
	End     *ParseLocation
	Details string
}

// NewParseSourceSpan creates a new ParseSourceSpan
func NewParseSourceSpan(start, end *ParseLocation) *ParseSourceSpan {
	if end == nil {
		end = start
	}
	return &ParseSourceSpan{
		Start: start,
		End:   end,
	}
}

// String returns the source code in this span
func (p *ParseSourceSpan) String() string {
	if p == nil || p.Start == nil || p.End == nil || p.Start.File == nil {
		return ""
	}
	content := p.Start.File.Content
	if p.Start.Offset < 0 || p.End.Offset > len(content) || p.Start.Offset > p.End.Offset {
		return ""
	}
	return content[p.Start.Offset:p.End.Offset]
}

// ParseErrorLevel represents the level of a parse error
type ParseErrorLevel int

const (
	ParseErrorLevelWarning ParseErrorLevel = iota
	ParseErrorLevelError
)

func (l ParseErrorLevel) String() string {
	if l == ParseErrorLevelWarning {
		return "WARNING"
	}
	return "ERROR"
}

// ErrorKind classifies compilation failures
type ErrorKind int

const (
	// StructuralError is malformed input or an unexpected node kind.
	StructuralError ErrorKind = iota + 1
	// AttributeError is a missing, unparsable, mistyped or forbidden-empty attribute.
	AttributeError
	// SymbolError is a field table problem: duplicates, ambiguous setters,
	// unresolved references, owner fields missing from the template.
	SymbolError
	// ResourceError is a missing external resource or a generated name collision.
	ResourceError
	// InternalError is a broken compiler invariant.
	InternalError
)

var errorKindNames = map[ErrorKind]string{
	StructuralError: "StructuralError",
	AttributeError:  "AttributeError",
	SymbolError:     "SymbolError",
	ResourceError:   "ResourceError",
	InternalError:   "InternalError",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError represents a compilation diagnostic tied to a source span
type ParseError struct {
	Kind  ErrorKind
	Span  *ParseSourceSpan
	Msg   string
	Level ParseErrorLevel
}

// NewParseError creates a new error-level ParseError
func NewParseError(kind ErrorKind, span *ParseSourceSpan, msg string) *ParseError {
	return &ParseError{
		Kind:  kind,
		Span:  span,
		Msg:   msg,
		Level: ParseErrorLevelError,
	}
}

// NewParseWarning creates a new ParseWarning
func NewParseWarning(span *ParseSourceSpan, msg string) *ParseError {
	return &ParseError{
		Span:  span,
		Msg:   msg,
		Level: ParseErrorLevelWarning,
	}
}

// Errorf creates an error-level ParseError at loc with a formatted message
func Errorf(kind ErrorKind, loc *ParseLocation, format string, args ...interface{}) *ParseError {
	var span *ParseSourceSpan
	if loc != nil {
		span = NewParseSourceSpan(loc, loc)
	}
	return NewParseError(kind, span, fmt.Sprintf(format, args...))
}

// Error implements the error interface
func (p *ParseError) Error() string {
	return p.String()
}

// Location returns the start of the error span, or nil
func (p *ParseError) Location() *ParseLocation {
	if p.Span == nil {
		return nil
	}
	return p.Span.Start
}

// ContextualMessage returns the error message with context
func (p *ParseError) ContextualMessage() string {
	if p.Span == nil || p.Span.Start == nil {
		return p.Msg
	}
	ctx := p.Span.Start.GetContext(100, 3)
	if ctx != nil {
		return fmt.Sprintf(`%s ("%s[%s ->]%s")`, p.Msg, ctx.Before, p.Level, ctx.After)
	}
	return p.Msg
}

// String returns a string representation of the error
func (p *ParseError) String() string {
	var b strings.Builder
	if p.Kind != 0 {
		b.WriteString(p.Kind.String())
		b.WriteString(": ")
	}
	b.WriteString(p.Msg)
	if p.Span != nil && p.Span.Start != nil {
		b.WriteString(": ")
		b.WriteString(p.Span.Start.String())
	}
	if p.Span != nil && p.Span.Details != "" {
		b.WriteString(", ")
		b.WriteString(p.Span.Details)
	}
	return b.String()
}

// IsKind reports whether err, or any error it wraps, is a ParseError of kind
func IsKind(err error, kind ErrorKind) bool {
	var list ErrorList
	if errors.As(err, &list) {
		for _, e := range list {
			if e.Kind == kind {
				return true
			}
		}
		return false
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// ErrorList is an error that carries several accumulated ParseErrors
type ErrorList []*ParseError

// Error joins every message on its own line
func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the individual errors to errors.Is and errors.As
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}
