package parser

import (
	"github.com/ramtk/ram/internal/lexer"
	"github.com/ramtk/ram/internal/syntax"
)

// Parse tokenizes and parses source, returning the lossless green tree plus
// any diagnostics recorded along the way. Parsing never aborts: a
// syntactically broken line still produces a tree (wrapped in ERROR_NODE
// where the grammar couldn't make sense of it) so callers can keep working
// with whatever parsed cleanly.
func Parse(source string) (*syntax.GreenNode, []SyntaxError) {
	tokens := lexer.Tokenize(source)
	p := NewParser(tokens)
	Program(p)
	return Build(p.Finish())
}
