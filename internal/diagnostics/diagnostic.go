// Package diagnostics defines the Diagnostic type shared by the lexer,
// parser, item-tree lowering, HIR lowering, and analysis passes. A
// Diagnostic is plain data: it carries a message, zero or more labeled
// source spans, a severity, and optional notes. Rendering is left to the
// caller (cmd/ramc formats diagnostics as plain text; other consumers may
// serialize them as JSON for export).
package diagnostics

import "github.com/ramtk/ram/internal/types"

// Kind is the severity of a Diagnostic.
type Kind uint8

const (
	// Error marks a diagnostic that prevents successful compilation or
	// execution.
	Error Kind = iota
	// Warning marks a diagnostic about a likely issue that does not by
	// itself abort compilation.
	Warning
	// Advice marks a suggestion or style note.
	Advice
	// Custom marks a diagnostic whose display name is given by
	// Diagnostic.CustomName rather than one of the three above.
	Custom
)

func (k Kind) String() string {
	switch k {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Advice:
		return "advice"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// LabeledSpan pairs a source range with a short label describing why that
// range is relevant to the diagnostic.
type LabeledSpan struct {
	Range types.TextRange
	Label string
}

// Diagnostic is a single error, warning, or advice note attached to one or
// more source spans. LabeledSpans[0], when present, is the primary span;
// any remaining entries are secondary (related) spans.
type Diagnostic struct {
	Message      string
	Help         string
	LabeledSpans []LabeledSpan
	Kind         Kind
	// CustomName holds the display name when Kind == Custom.
	CustomName string
	Code       string
	Notes      []string
}

// PrimarySpan returns the first labeled span and true, or the zero span and
// false if the diagnostic has no spans at all.
func (d *Diagnostic) PrimarySpan() (types.TextRange, bool) {
	if len(d.LabeledSpans) == 0 {
		return types.TextRange{}, false
	}
	return d.LabeledSpans[0].Range, true
}

// NewError builds a simple single-span error diagnostic.
func NewError(message, help string, span types.TextRange) *Diagnostic {
	return &Diagnostic{
		Message:      message,
		Help:         help,
		LabeledSpans: []LabeledSpan{{Range: span, Label: "here"}},
		Kind:         Error,
	}
}

// NewWarning builds a simple single-span warning diagnostic.
func NewWarning(message, help string, span types.TextRange) *Diagnostic {
	return &Diagnostic{
		Message:      message,
		Help:         help,
		LabeledSpans: []LabeledSpan{{Range: span, Label: "here"}},
		Kind:         Warning,
	}
}

// NewAdvice builds a simple single-span advice diagnostic.
func NewAdvice(message, help string, span types.TextRange) *Diagnostic {
	return &Diagnostic{
		Message:      message,
		Help:         help,
		LabeledSpans: []LabeledSpan{{Range: span, Label: "here"}},
		Kind:         Advice,
	}
}

// Builder assembles a Diagnostic through a fluent API.
type Builder struct {
	d Diagnostic
}

// NewBuilder starts a new Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithMessage sets the diagnostic's message.
func (b *Builder) WithMessage(message string) *Builder {
	b.d.Message = message
	return b
}

// WithHelp sets the diagnostic's help text.
func (b *Builder) WithHelp(help string) *Builder {
	b.d.Help = help
	return b
}

// WithKind sets the diagnostic's severity.
func (b *Builder) WithKind(kind Kind) *Builder {
	b.d.Kind = kind
	return b
}

// WithCustomKind sets the diagnostic's severity to Custom with the given
// display name.
func (b *Builder) WithCustomKind(name string) *Builder {
	b.d.Kind = Custom
	b.d.CustomName = name
	return b
}

// WithPrimarySpan makes span the primary (first) span; any spans already
// present are kept after it.
func (b *Builder) WithPrimarySpan(span types.TextRange, label string) *Builder {
	entry := LabeledSpan{Range: span, Label: label}
	if len(b.d.LabeledSpans) == 0 {
		b.d.LabeledSpans = append(b.d.LabeledSpans, entry)
		return b
	}
	b.d.LabeledSpans = append([]LabeledSpan{entry}, b.d.LabeledSpans...)
	return b
}

// WithSecondarySpan appends a related span.
func (b *Builder) WithSecondarySpan(span types.TextRange, label string) *Builder {
	b.d.LabeledSpans = append(b.d.LabeledSpans, LabeledSpan{Range: span, Label: label})
	return b
}

// WithSpans appends multiple spans at once.
func (b *Builder) WithSpans(spans []LabeledSpan) *Builder {
	b.d.LabeledSpans = append(b.d.LabeledSpans, spans...)
	return b
}

// WithCode sets an optional diagnostic code (e.g. "E001").
func (b *Builder) WithCode(code string) *Builder {
	b.d.Code = code
	return b
}

// WithNote appends a single note.
func (b *Builder) WithNote(note string) *Builder {
	b.d.Notes = append(b.d.Notes, note)
	return b
}

// WithNotes appends multiple notes.
func (b *Builder) WithNotes(notes []string) *Builder {
	b.d.Notes = append(b.d.Notes, notes...)
	return b
}

// Build finalizes the diagnostic. A diagnostic with no message or no spans
// is still returned (callers that need to enforce those invariants should
// check Message/LabeledSpans themselves); Build never panics, since a
// malformed diagnostic is a programmer error best caught by a test, not a
// runtime crash in a long-running analysis pipeline.
func (b *Builder) Build() *Diagnostic {
	out := b.d
	return &out
}

// BuildError sets Kind to Error and builds.
func (b *Builder) BuildError() *Diagnostic {
	return b.WithKind(Error).Build()
}

// BuildWarning sets Kind to Warning and builds.
func (b *Builder) BuildWarning() *Diagnostic {
	return b.WithKind(Warning).Build()
}

// BuildAdvice sets Kind to Advice and builds.
func (b *Builder) BuildAdvice() *Diagnostic {
	return b.WithKind(Advice).Build()
}
