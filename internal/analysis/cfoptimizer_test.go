package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramtk/ram/internal/analysis"
	"github.com/ramtk/ram/internal/hir"
)

func runOptimizer(t *testing.T, b *hir.Body) *analysis.OptimizedControlFlowGraph {
	t.Helper()
	p := analysis.NewPipeline()
	require.NoError(t, p.Register(analysis.ControlFlowAnalysis{}))
	require.NoError(t, p.Register(analysis.DataFlowAnalysis{}))
	require.NoError(t, p.Register(analysis.ConstantPropagationAnalysis{}))
	require.NoError(t, p.Register(analysis.ControlFlowOptimizer{}))
	ctx, err := p.Analyze(b)
	require.NoError(t, err)
	opt, err := analysis.GetResult[analysis.ControlFlowOptimizer, *analysis.OptimizedControlFlowGraph](ctx)
	require.NoError(t, err)
	return opt
}

func TestControlFlowOptimizerRemovesDeadBranch(t *testing.T) {
	b := &hir.Body{}
	addLabel(b, "end", 3)
	pushInstr(b, "LOAD", exprPtr(immediate(b, 0)))
	pushInstr(b, "JZERO", exprPtr(jumpOperand(b, "end")))
	pushInstr(b, "LOAD", exprPtr(immediate(b, 1)))
	pushInstr(b, "HALT", nil)

	opt := runOptimizer(t, b)
	edges := opt.CFG.Successors(1)
	require.Len(t, edges, 1)
	assert.Equal(t, analysis.ConditionalTrue, edges[0].Kind)
	assert.Equal(t, 3, edges[0].To)

	unreached := opt.CFG.FindUnreachableNodes()
	assert.Contains(t, unreached, 2)
}

func TestControlFlowOptimizerLeavesUndecidedBranchesAlone(t *testing.T) {
	b := &hir.Body{}
	addLabel(b, "end", 3)
	pushInstr(b, "LOAD", exprPtr(memRef(b, hir.Direct, intLit(b, 5))))
	pushInstr(b, "JZERO", exprPtr(jumpOperand(b, "end")))
	pushInstr(b, "LOAD", exprPtr(immediate(b, 1)))
	pushInstr(b, "HALT", nil)

	opt := runOptimizer(t, b)
	assert.Empty(t, opt.OptimizedEdges)
	edges := opt.CFG.Successors(1)
	assert.Len(t, edges, 2)
}
