// Package parser turns a lexer token list into an event stream and, from
// that stream, a lossless green tree — the grammar (grammar.go) describes
// each production as a sequence of Parser calls; the Parser itself never
// touches tree storage directly, only the event log a TreeBuilder later
// replays.
package parser

import "github.com/ramtk/ram/internal/syntax"

// Event is one step of the parse: a node boundary, a consumed token, or an
// error. The parser emits events; a separate pass (Build) folds them into
// a green tree via syntax.TreeBuilder.
type Event struct {
	kind eventKind

	// Placeholder / StartNode carry the eventual node kind once known.
	// A Placeholder's Kind starts as tombstone (a sentinel meaning "not
	// yet decided") and is overwritten in place when its Marker
	// completes — this is what lets a marker be started before its
	// node kind is known.
	NodeKind syntax.Kind

	// Token carries the index of the consumed token in the parser's
	// input and its kind/text for convenience.
	TokenIndex int
	TokenKind  syntax.Kind
	TokenText  string

	// ForwardTo is set on a Placeholder event to redirect completion:
	// when a CompletedMarker is preceded, the original Placeholder's
	// ForwardTo points at the new wrapping node's slot so tree-building
	// can nest it correctly (mirrors StartNodeBefore).
	ForwardTo int

	// Error carries a finished diagnostic for Event.
	Error *SyntaxError
}

type eventKind uint8

const (
	evPlaceholder eventKind = iota
	evStartNodeBefore
	evFinishNode
	evToken
	evError
)

// SyntaxError is a parser-produced diagnostic: a message, help text, and
// one or more labeled spans (see grammar.go for exact wording per
// production).
type SyntaxError struct {
	Message string
	Help    string
	Spans   []LabeledSpan
}

// LabeledSpan pairs a byte range with a short label explaining its
// relevance to the error.
type LabeledSpan struct {
	Start int
	End   int
	Label string
}
