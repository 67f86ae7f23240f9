package diagnostics

import (
	"testing"

	"github.com/ramtk/ram/internal/types"
	"github.com/stretchr/testify/assert"
)

func span(start, end uint32) types.TextRange {
	return types.NewTextRange(types.TextSize(start), types.TextSize(end))
}

func TestNewErrorHasPrimarySpan(t *testing.T) {
	d := NewError("bad token", "remove it", span(0, 5))
	primary, ok := d.PrimarySpan()
	assert.True(t, ok)
	assert.Equal(t, span(0, 5), primary)
	assert.Equal(t, Error, d.Kind)
}

func TestBuilderOrdersPrimarySpanFirst(t *testing.T) {
	d := NewBuilder().
		WithMessage("unknown instruction").
		WithSecondarySpan(span(10, 15), "related").
		WithPrimarySpan(span(0, 5), "here").
		WithKind(Warning).
		Build()

	assert.Len(t, d.LabeledSpans, 2)
	assert.Equal(t, span(0, 5), d.LabeledSpans[0].Range)
	assert.Equal(t, "here", d.LabeledSpans[0].Label)
	assert.Equal(t, span(10, 15), d.LabeledSpans[1].Range)
}

func TestBuilderConvenienceBuilders(t *testing.T) {
	w := NewBuilder().WithMessage("m").WithPrimarySpan(span(0, 1), "here").BuildWarning()
	assert.Equal(t, Warning, w.Kind)

	a := NewBuilder().WithMessage("m").WithPrimarySpan(span(0, 1), "here").BuildAdvice()
	assert.Equal(t, Advice, a.Kind)

	e := NewBuilder().WithMessage("m").WithPrimarySpan(span(0, 1), "here").BuildError()
	assert.Equal(t, Error, e.Kind)
}

func TestBuilderCustomKind(t *testing.T) {
	d := NewBuilder().
		WithMessage("deprecated opcode").
		WithCustomKind("deprecation").
		WithPrimarySpan(span(0, 1), "here").
		Build()

	assert.Equal(t, Custom, d.Kind)
	assert.Equal(t, "deprecation", d.CustomName)
}

func TestBuilderCodeAndNotes(t *testing.T) {
	d := NewBuilder().
		WithMessage("m").
		WithPrimarySpan(span(0, 1), "here").
		WithCode("E001").
		WithNote("note one").
		WithNotes([]string{"note two", "note three"}).
		Build()

	assert.Equal(t, "E001", d.Code)
	assert.Equal(t, []string{"note one", "note two", "note three"}, d.Notes)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "advice", Advice.String())
	assert.Equal(t, "custom", Custom.String())
}

func TestPrimarySpanEmptyDiagnostic(t *testing.T) {
	d := &Diagnostic{}
	_, ok := d.PrimarySpan()
	assert.False(t, ok)
}
