package formula

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes the ${...} micro-syntax embedded in component scalars.
// Idents allow hyphens so keys like "hit-points" lex as a single token.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Open", Pattern: `\$\{`},
	{Name: "Close", Pattern: `\}`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*(?:-[a-zA-Z0-9_]+)*`},
	{Name: "Star", Pattern: `\*`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// Build creates the formula parser from the struct tags in `ast.go`.
func Build() *participle.Parser[Expression] {
	return participle.MustBuild[Expression](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
}
