package output

import (
	"fmt"
	"go/format"
	"strconv"
)

// Declaration is one local of the generated initializer
type Declaration struct {
	Name string
	Type string
}

// Program is the ordered result of compiling one template: declarations and
// statements partitioned into construct, attach, detach and trailing phases.
type Program struct {
	// Package is the name of the package the program is emitted into.
	Package string
	// Source names the template, for the header comment.
	Source  string
	Imports *Imports

	// BinderName is the generated binder type, OwnerType the owner parameter
	// type and RootType the type returned by CreateAndBindUI.
	BinderName string
	OwnerType  string
	RootType   string
	RootExpr   string

	Declarations []Declaration
	Construct    []string
	Attach       []string
	Detach       []string
	Trailing     []string
	// Unused lists locals nothing else reads.
	Unused []string
	// Extra holds top-level declarations contributed by collaborators.
	Extra []string
}

// Statements returns every statement in emission order
func (p *Program) Statements() []string {
	out := make([]string, 0, len(p.Construct)+len(p.Attach)+len(p.Detach)+len(p.Trailing))
	out = append(out, p.Construct...)
	out = append(out, p.Attach...)
	out = append(out, p.Detach...)
	out = append(out, p.Trailing...)
	return out
}

// WriteProgram renders p as Go source text. Statement text is written as is;
// callers detokenate the result.
func WriteProgram(p *Program) string {
	ctx := NewEmitterContext(0)
	ctx.Println("// Code generated by uibind. DO NOT EDIT.")
	if p.Source != "" {
		ctx.Println("// source: " + p.Source)
	}
	ctx.Blank()
	ctx.Println("package " + p.Package)
	ctx.Blank()
	if imports := p.Imports.List(); len(imports) > 0 {
		ctx.Println("import (")
		ctx.IncIndent()
		for _, im := range imports {
			if im.Name == defaultImportName(im.Path) {
				ctx.Println(strconv.Quote(im.Path))
			} else {
				ctx.Println(im.Name + " " + strconv.Quote(im.Path))
			}
		}
		ctx.DecIndent()
		ctx.Println(")")
		ctx.Blank()
	}
	ctx.Println(fmt.Sprintf("// %s builds the widget tree declared in %s.", p.BinderName, p.Source))
	ctx.Println(fmt.Sprintf("type %s struct{}", p.BinderName))
	ctx.Blank()
	ctx.Println("// CreateAndBindUI constructs the template and binds its fields to owner.")
	ctx.Println(fmt.Sprintf("func (%s) CreateAndBindUI(owner %s) %s {", p.BinderName, p.OwnerType, p.RootType))
	ctx.IncIndent()
	started := false
	section := func(lines []string) {
		if len(lines) == 0 {
			return
		}
		if started {
			ctx.Blank()
		}
		started = true
		for _, line := range lines {
			ctx.Println(line)
		}
	}
	if len(p.Declarations) > 0 {
		decls := []string{"var ("}
		for _, d := range p.Declarations {
			decls = append(decls, indentWith+d.Name+" "+d.Type)
		}
		section(append(decls, ")"))
	}
	for _, phase := range [][]string{p.Construct, p.Attach, p.Detach, p.Trailing} {
		section(phase)
	}
	unused := make([]string, len(p.Unused))
	for i, name := range p.Unused {
		unused[i] = "_ = " + name
	}
	section(unused)
	ctx.Println("return " + p.RootExpr)
	ctx.DecIndent()
	ctx.Println("}")
	for _, extra := range p.Extra {
		ctx.Blank()
		ctx.Println(extra)
	}
	ctx.RemoveEmptyLastLine()
	return ctx.ToSource() + "\n"
}

func defaultImportName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

// Format runs gofmt over src
func Format(src []byte) ([]byte, error) {
	out, err := format.Source(src)
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return out, nil
}

// Box returns an expression yielding a pointer to a fresh copy of expr, for
// pointer-typed slots fed with values.
func Box(ptrType, expr string) string {
	return "func() " + ptrType + " { v := " + expr + "; return &v }()"
}
