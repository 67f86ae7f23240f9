// Package lexer tokenizes RAM assembly source into a flat, lossless token
// list: concatenating every token's text reproduces the input byte for
// byte, including whitespace, comments, and unrecognized bytes.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ramtk/ram/internal/syntax"
	"github.com/ramtk/ram/internal/types"
)

// Token is one lexical unit: its kind, its exact source text, and its
// half-open byte span in the source.
type Token struct {
	Kind syntax.Kind
	Text string
	Span types.TextRange
}

type lexer struct {
	source string
	pos    int
}

// Tokenize converts source into a flat token list. The lexer is
// single-pass and byte-driven, consulting only the current rune — no
// lookahead beyond it. It never returns an error: anything it cannot
// classify becomes an ERROR_TOKEN of length one, so the caller (the
// parser) can always proceed.
func Tokenize(source string) []Token {
	l := &lexer{source: source}
	var tokens []Token
	for l.pos < len(l.source) {
		if r, _ := l.peek(); r == '#' {
			tokens = append(tokens, l.lexComment()...)
			continue
		}
		tokens = append(tokens, l.next())
	}
	return tokens
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func (l *lexer) peek() (rune, int) {
	if l.pos >= len(l.source) {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	return r, size
}

func (l *lexer) next() Token {
	r, size := l.peek()
	switch {
	case r == '\n':
		return l.single(syntax.NEWLINE, size)
	case r != '\n' && unicode.IsSpace(r):
		return l.lexWhitespace()
	case r == ':':
		return l.single(syntax.COLON, size)
	case r == '*':
		return l.single(syntax.STAR, size)
	case r == '=':
		return l.single(syntax.EQUALS, size)
	case r == '[':
		return l.single(syntax.LBRACKET, size)
	case r == ']':
		return l.single(syntax.RBRACKET, size)
	case r == '"':
		return l.lexString()
	case r >= '0' && r <= '9':
		return l.lexNumber()
	case isASCIILetter(r):
		return l.lexIdentifier()
	default:
		return l.single(syntax.ERROR_TOKEN, size)
	}
}

func (l *lexer) single(kind syntax.Kind, size int) Token {
	start := l.pos
	l.pos += size
	return Token{Kind: kind, Text: l.source[start:l.pos], Span: types.NewTextRange(types.TextSize(start), types.TextSize(l.pos))}
}

func (l *lexer) lexWhitespace() Token {
	start := l.pos
	for l.pos < len(l.source) {
		r, size := l.peek()
		if r == '\n' || !unicode.IsSpace(r) {
			break
		}
		l.pos += size
	}
	return Token{Kind: syntax.WHITESPACE, Text: l.source[start:l.pos], Span: types.NewTextRange(types.TextSize(start), types.TextSize(l.pos))}
}

func (l *lexer) lexNumber() Token {
	start := l.pos
	for l.pos < len(l.source) {
		r, size := l.peek()
		if r < '0' || r > '9' {
			break
		}
		l.pos += size
	}
	return Token{Kind: syntax.NUMBER, Text: l.source[start:l.pos], Span: types.NewTextRange(types.TextSize(start), types.TextSize(l.pos))}
}

func (l *lexer) lexIdentifier() Token {
	start := l.pos
	r, size := l.peek()
	if isASCIILetter(r) {
		l.pos += size
	}
	for l.pos < len(l.source) {
		r, size := l.peek()
		if !isASCIILetter(r) && !(r >= '0' && r <= '9') && r != '_' {
			break
		}
		l.pos += size
	}
	text := l.source[start:l.pos]
	kind := syntax.IDENTIFIER
	if k, ok := syntax.KeywordKind(strings.ToUpper(text)); ok {
		kind = k
	}
	return Token{Kind: kind, Text: text, Span: types.NewTextRange(types.TextSize(start), types.TextSize(l.pos))}
}

// lexString tokenizes a double-quoted string used for module paths
// (`use "path/to/module"`). An unterminated string runs to end of line or
// end of input; either way every consumed byte is still returned as token
// text, preserving losslessness.
func (l *lexer) lexString() Token {
	start := l.pos
	_, size := l.peek()
	l.pos += size // opening quote
	for l.pos < len(l.source) {
		r, rsize := l.peek()
		if r == '\n' {
			break
		}
		l.pos += rsize
		if r == '"' {
			break
		}
	}
	return Token{Kind: syntax.STRING, Text: l.source[start:l.pos], Span: types.NewTextRange(types.TextSize(start), types.TextSize(l.pos))}
}

// lexComment tokenizes a comment as a HASH token followed by an optional
// COMMENT_TEXT token spanning up to but not including the next newline. A
// `#*` prefix marks a doc comment; the caller (parser) distinguishes doc
// comments from plain ones by inspecting the COMMENT_TEXT text, since the
// lexer itself emits the same two kinds either way.
func (l *lexer) lexComment() []Token {
	hashStart := l.pos
	_, size := l.peek()
	l.pos += size // consume '#'
	hash := Token{Kind: syntax.HASH, Text: l.source[hashStart:l.pos], Span: types.NewTextRange(types.TextSize(hashStart), types.TextSize(l.pos))}

	textStart := l.pos
	for l.pos < len(l.source) {
		r, size := l.peek()
		if r == '\n' {
			break
		}
		l.pos += size
	}
	if l.pos == textStart {
		return []Token{hash}
	}
	text := Token{Kind: syntax.COMMENT_TEXT, Text: l.source[textStart:l.pos], Span: types.NewTextRange(types.TextSize(textStart), types.TextSize(l.pos))}
	return []Token{hash, text}
}

// IsDocComment reports whether a COMMENT_TEXT token's text marks a doc
// comment (`#*` prefix attaches the comment to the following item).
func IsDocComment(commentText string) bool {
	return strings.HasPrefix(commentText, "*")
}

// Reconstruct concatenates every token's text, used to verify the
// losslessness invariant: Reconstruct(Tokenize(s)) == s for all s.
func Reconstruct(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Text)
	}
	return sb.String()
}
