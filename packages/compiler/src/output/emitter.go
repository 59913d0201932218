package output

import (
	"strings"
)

const indentWith = "\t"

// EmittedLine represents a line being emitted
type EmittedLine struct {
	Parts  []string
	Indent int
}

// EmitterContext is an indentation-aware line buffer
type EmitterContext struct {
	lines  []*EmittedLine
	indent int
}

// NewEmitterContext creates a new EmitterContext
func NewEmitterContext(indent int) *EmitterContext {
	return &EmitterContext{
		lines:  []*EmittedLine{{Indent: indent}},
		indent: indent,
	}
}

func (ctx *EmitterContext) currentLine() *EmittedLine {
	return ctx.lines[len(ctx.lines)-1]
}

// Print appends part to the current line
func (ctx *EmitterContext) Print(part string) {
	if part == "" {
		return
	}
	line := ctx.currentLine()
	line.Parts = append(line.Parts, part)
}

// Println appends part and starts a new line
func (ctx *EmitterContext) Println(part string) {
	ctx.Print(part)
	ctx.lines = append(ctx.lines, &EmittedLine{Indent: ctx.indent})
}

// Printf is Print with the parts joined first
func (ctx *EmitterContext) Printf(parts ...string) {
	ctx.Print(strings.Join(parts, ""))
}

// Blank writes an empty line unless the previous line already is one
func (ctx *EmitterContext) Blank() {
	if len(ctx.lines) >= 2 && len(ctx.lines[len(ctx.lines)-2].Parts) == 0 && ctx.LineIsEmpty() {
		return
	}
	ctx.Println("")
}

// LineIsEmpty checks if the current line is empty
func (ctx *EmitterContext) LineIsEmpty() bool {
	return len(ctx.currentLine().Parts) == 0
}

// RemoveEmptyLastLine removes the empty last line
func (ctx *EmitterContext) RemoveEmptyLastLine() {
	if ctx.LineIsEmpty() && len(ctx.lines) > 1 {
		ctx.lines = ctx.lines[:len(ctx.lines)-1]
	}
}

// IncIndent increases the indent
func (ctx *EmitterContext) IncIndent() {
	ctx.indent++
	if ctx.LineIsEmpty() {
		ctx.currentLine().Indent = ctx.indent
	}
}

// DecIndent decreases the indent
func (ctx *EmitterContext) DecIndent() {
	ctx.indent--
	if ctx.LineIsEmpty() {
		ctx.currentLine().Indent = ctx.indent
	}
}

// ToSource joins the buffered lines. Empty lines carry no indentation.
func (ctx *EmitterContext) ToSource() string {
	result := make([]string, 0, len(ctx.lines))
	for _, line := range ctx.lines {
		if len(line.Parts) > 0 {
			result = append(result, strings.Repeat(indentWith, line.Indent)+strings.Join(line.Parts, ""))
		} else {
			result = append(result, "")
		}
	}
	return strings.Join(result, "\n")
}
