package grammar

import (
	"github.com/alecthomas/participle/v2"
)

var parser = participle.MustBuild[Program](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(3),
)

// ParseString parses source text; filename only labels positions.
func ParseString(filename, source string) (*Program, error) {
	return parser.ParseString(filename, source)
}
