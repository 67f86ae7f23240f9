package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramtk/ram/internal/analysis"
	"github.com/ramtk/ram/internal/diagnostics"
	"github.com/ramtk/ram/internal/hir"
)

func runValidation(t *testing.T, b *hir.Body) *analysis.Context {
	t.Helper()
	p := analysis.NewPipeline()
	require.NoError(t, p.Register(analysis.InstructionValidationAnalysis{}))
	ctx, err := p.Analyze(b)
	require.NoError(t, err)
	return ctx
}

func hasKind(ds []*diagnostics.Diagnostic, kind diagnostics.Kind) bool {
	for _, d := range ds {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

func TestInstructionValidationUnknownOpcode(t *testing.T) {
	b := &hir.Body{}
	pushInstr(b, "FROB", nil)

	ctx := runValidation(t, b)
	assert.True(t, hasKind(ctx.Diagnostics(), diagnostics.Error))
}

func TestInstructionValidationMissingRequiredOperand(t *testing.T) {
	b := &hir.Body{}
	pushInstr(b, "LOAD", nil)

	ctx := runValidation(t, b)
	assert.True(t, hasKind(ctx.Diagnostics(), diagnostics.Error))
}

func TestInstructionValidationUnexpectedOperand(t *testing.T) {
	b := &hir.Body{}
	pushInstr(b, "HALT", exprPtr(immediate(b, 1)))

	ctx := runValidation(t, b)
	assert.True(t, hasKind(ctx.Diagnostics(), diagnostics.Warning))
}

func TestInstructionValidationNegativeAddressWarns(t *testing.T) {
	b := &hir.Body{}
	pushInstr(b, "LOAD", exprPtr(memRef(b, hir.Direct, intLit(b, -1))))

	ctx := runValidation(t, b)
	assert.True(t, hasKind(ctx.Diagnostics(), diagnostics.Warning))
}

func TestInstructionValidationUndefinedLabelSuggestsClosestMatch(t *testing.T) {
	b := &hir.Body{}
	addLabel(b, "loop", 1)
	pushInstr(b, "JUMP", exprPtr(jumpOperand(b, "loob")))
	pushInstr(b, "HALT", nil)

	ctx := runValidation(t, b)
	var help string
	for _, d := range ctx.Diagnostics() {
		if d.Kind == diagnostics.Error {
			help = d.Help
		}
	}
	assert.Contains(t, help, "loop")
}

func TestInstructionValidationKnownLabelIsFine(t *testing.T) {
	b := &hir.Body{}
	addLabel(b, "loop", 1)
	pushInstr(b, "JUMP", exprPtr(jumpOperand(b, "loop")))
	pushInstr(b, "HALT", nil)

	ctx := runValidation(t, b)
	assert.False(t, hasKind(ctx.Diagnostics(), diagnostics.Error))
}
