package formula

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Expression is one ${...} form: either a function call over arguments or a
// bare path reference.
type Expression struct {
	Pos lexer.Position

	Call *Call `parser:"Open ( @@"`
	Path *Path `parser:"| @@ ) Close"`
}

// Call applies a named reducer to an ordered argument list.
type Call struct {
	Func string `parser:"@Ident"`
	Args []*Arg `parser:"LParen @@ ( Comma @@ )* RParen"`
}

// Arg is a single call argument: a nested formula, a numeric literal, or a
// path reference.
type Arg struct {
	Formula *Expression `parser:"  @@"`
	Number  *float64    `parser:"| @Number"`
	Path    *Path       `parser:"| @@"`
}

// Path is a dotted reference; segments are literal keys or the "*" wildcard.
type Path struct {
	Segments []string `parser:"@(Ident|Star) ( Dot @(Ident|Star) )*"`
}

// String reconstructs the source form of the expression.
func (e *Expression) String() string {
	var b strings.Builder
	b.WriteString("${")
	if e.Call != nil {
		b.WriteString(e.Call.String())
	} else if e.Path != nil {
		b.WriteString(e.Path.String())
	}
	b.WriteString("}")
	return b.String()
}

func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Func + "(" + strings.Join(parts, ", ") + ")"
}

func (a *Arg) String() string {
	switch {
	case a.Formula != nil:
		return a.Formula.String()
	case a.Number != nil:
		return strconvFloat(*a.Number)
	case a.Path != nil:
		return a.Path.String()
	}
	return ""
}

func (p *Path) String() string {
	return strings.Join(p.Segments, ".")
}

// References collects every path reference in the expression, in source order.
func (e *Expression) References() []*Path {
	var refs []*Path
	e.collectRefs(&refs)
	return refs
}

func (e *Expression) collectRefs(refs *[]*Path) {
	if e.Path != nil {
		*refs = append(*refs, e.Path)
	}
	if e.Call != nil {
		for _, a := range e.Call.Args {
			switch {
			case a.Formula != nil:
				a.Formula.collectRefs(refs)
			case a.Path != nil:
				*refs = append(*refs, a.Path)
			}
		}
	}
}
