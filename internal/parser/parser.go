package parser

import (
	"github.com/ramtk/ram/internal/lexer"
	"github.com/ramtk/ram/internal/syntax"
	"github.com/ramtk/ram/internal/types"
)

// tombstone marks a Placeholder/StartNodeBefore event whose node kind is
// not yet decided (freshly started) or was abandoned. It is a value no
// real syntax.Kind ever takes.
const tombstone = syntax.Kind(^uint16(0))

// Parser walks a flat token list (trivia included) and records an event
// log; it never touches tree storage. The token list is exactly what
// lexer.Tokenize produced, so WHITESPACE/NEWLINE appear as ordinary tokens
// the grammar consumes explicitly — there is no implicit trivia skipping.
type Parser struct {
	tokens []lexer.Token
	pos    int
	events []Event
}

// NewParser creates a Parser over tokens.
func NewParser(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Marker records the position of a not-yet-completed node.
type Marker struct {
	pos int
}

// CompletedMarker records the position of a node whose kind and extent are
// already fixed.
type CompletedMarker struct {
	pos int
}

// Start opens a new node whose kind is not yet known; call Complete once
// its extent and kind are both known.
func (p *Parser) Start() Marker {
	pos := len(p.events)
	p.events = append(p.events, Event{kind: evPlaceholder, NodeKind: tombstone})
	return Marker{pos: pos}
}

// Complete fixes m's kind and closes the node: every event recorded since
// Start becomes this node's content.
func (m Marker) Complete(p *Parser, kind syntax.Kind) CompletedMarker {
	p.events[m.pos].NodeKind = kind
	p.events = append(p.events, Event{kind: evFinishNode})
	return CompletedMarker{pos: m.pos}
}

// Abandon drops m without producing a node. If nothing was recorded since
// Start, the placeholder itself is removed; otherwise it is left as a
// tombstone that the tree builder skips, and its already-recorded children
// are reparented to whatever encloses it.
func (m Marker) Abandon(p *Parser) {
	if m.pos == len(p.events)-1 {
		p.events = p.events[:m.pos]
	}
}

// Precede wraps cm's node in a new, outer node: the returned Marker, once
// completed, becomes cm's parent. This lets the grammar decide a node's
// outer shape only after having already parsed (and completed) its first
// child. The current grammar does not call it: operand() starts its OPERAND
// marker before the inner DIRECT_OPERAND/INDIRECT_OPERAND/IMMEDIATE_OPERAND.
func (cm CompletedMarker) Precede(p *Parser) Marker {
	newPos := len(p.events)
	p.events = append(p.events, Event{kind: evStartNodeBefore, NodeKind: tombstone})
	p.events[cm.pos].ForwardTo = newPos - cm.pos
	return Marker{pos: newPos}
}

// BumpAny consumes the current token unconditionally, recording a Token
// event.
func (p *Parser) BumpAny() {
	tok := p.tokens[p.pos]
	p.events = append(p.events, Event{kind: evToken, TokenIndex: p.pos, TokenKind: tok.Kind, TokenText: tok.Text})
	p.pos++
}

// Current returns the kind of the token at the cursor, or syntax.EOF past
// the end of input.
func (p *Parser) Current() syntax.Kind {
	if p.pos >= len(p.tokens) {
		return syntax.EOF
	}
	return p.tokens[p.pos].Kind
}

// At reports whether the current token has the given kind.
func (p *Parser) At(kind syntax.Kind) bool {
	return p.Current() == kind
}

// TokenText returns the current token's exact text, or "" at EOF.
func (p *Parser) TokenText() string {
	if p.pos >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos].Text
}

// TokenSpan returns the current token's byte span. At EOF it returns a
// zero-width span at the end of input.
func (p *Parser) TokenSpan() types.TextRange {
	if p.pos >= len(p.tokens) {
		end := types.TextSize(0)
		if len(p.tokens) > 0 {
			end = p.tokens[len(p.tokens)-1].Span.End
		}
		return types.NewTextRange(end, end)
	}
	return p.tokens[p.pos].Span
}

// Error records a diagnostic with a single labeled span without consuming
// any token.
func (p *Parser) Error(message, help string, span types.TextRange) {
	p.events = append(p.events, Event{kind: evError, Error: &SyntaxError{
		Message: message,
		Help:    help,
		Spans:   []LabeledSpan{{Start: int(span.Start), End: int(span.End), Label: "here"}},
	}})
}

// LabeledError records a diagnostic with multiple labeled spans.
func (p *Parser) LabeledError(message, help string, spans []LabeledSpan) {
	p.events = append(p.events, Event{kind: evError, Error: &SyntaxError{Message: message, Help: help, Spans: spans}})
}

// ErrAndBump records an error at the current token, then wraps that token
// in an ERROR_NODE and consumes it — used for stray bytes the grammar has
// no production for (a bare `[`, a bare `]`, an ERROR_TOKEN, an identifier
// in a position where neither a label nor an instruction can start).
func (p *Parser) ErrAndBump(message, help string) {
	span := p.TokenSpan()
	p.Error(message, help, span)
	m := p.Start()
	p.BumpAny()
	m.Complete(p, syntax.ERROR_NODE)
}

// AtInstructionStart reports whether the cursor sits on a token that can
// begin an instruction: one of the reserved opcode keywords, or an
// identifier. READ and WRITE fall under the identifier case here too — they
// are not reserved keywords, only names the instruction registry happens to
// recognize — and the registry's Custom(name) extension point means any
// other name may be a valid opcode at parse time as well; validity is
// checked later by instruction validation, not by the grammar.
func (p *Parser) AtInstructionStart() bool {
	switch p.Current() {
	case syntax.LOAD_KW, syntax.STORE_KW, syntax.ADD_KW, syntax.SUB_KW, syntax.MUL_KW, syntax.DIV_KW,
		syntax.JUMP_KW, syntax.JGTZ_KW, syntax.JZERO_KW, syntax.HALT_KW,
		syntax.IDENTIFIER:
		return true
	default:
		return false
	}
}

// AtLabelDefinitionStart reports whether the cursor sits on an identifier
// followed (after optional whitespace) by a colon.
func (p *Parser) AtLabelDefinitionStart() bool {
	if p.Current() != syntax.IDENTIFIER {
		return false
	}
	return p.peekPastWhitespaceIs(syntax.COLON)
}

// AtModStart reports whether the cursor starts a `mod NAME` statement.
func (p *Parser) AtModStart() bool {
	return p.Current() == syntax.IDENTIFIER && p.TokenText() == "mod" && p.peekPastWhitespaceIs(syntax.IDENTIFIER)
}

// AtUseStart reports whether the cursor starts a `use "path"` statement.
func (p *Parser) AtUseStart() bool {
	return p.Current() == syntax.IDENTIFIER && p.TokenText() == "use" && p.peekPastWhitespaceIs(syntax.STRING)
}

func (p *Parser) peekPastWhitespaceIs(kind syntax.Kind) bool {
	i := p.pos + 1
	for i < len(p.tokens) && p.tokens[i].Kind == syntax.WHITESPACE {
		i++
	}
	return i < len(p.tokens) && p.tokens[i].Kind == kind
}

// Finish returns the recorded event log. Call Build on the result to
// materialize a green tree and collect diagnostics.
func (p *Parser) Finish() []Event {
	return p.events
}
