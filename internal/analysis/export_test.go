package analysis_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramtk/ram/internal/analysis"
	"github.com/ramtk/ram/internal/hir"
)

func TestExportControlFlowGraphAsJSON(t *testing.T) {
	b := &hir.Body{}
	pushInstr(b, "LOAD", exprPtr(immediate(b, 1)))
	pushInstr(b, "HALT", nil)

	cfg := runCFG(t, b)
	data, err := cfg.ExportJSON()
	require.NoError(t, err)

	var decoded struct {
		Nodes []string `json:"nodes"`
		Edges []struct {
			From  int    `json:"from"`
			To    int    `json:"to"`
			Label string `json:"label"`
		} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded.Nodes, 2)
	require.Len(t, decoded.Edges, 1)
	assert.Equal(t, "unconditional", decoded.Edges[0].Label)
}

func TestExportPipelineDependencyGraphFormats(t *testing.T) {
	p := analysis.NewPipeline()
	require.NoError(t, p.Register(analysis.ControlFlowAnalysis{}))
	require.NoError(t, p.Register(analysis.DataFlowAnalysis{}))

	dot, err := p.ExportDependencyGraph(analysis.FormatDOT)
	require.NoError(t, err)
	assert.Contains(t, dot, "digraph PassDependencies")
	assert.Contains(t, dot, `"ControlFlowAnalysis" -> "DataFlowAnalysis"`)

	mermaid, err := p.ExportDependencyGraph(analysis.FormatMermaid)
	require.NoError(t, err)
	assert.Contains(t, mermaid, "flowchart TD")

	jsonOut, err := p.ExportDependencyGraph(analysis.FormatJSON)
	require.NoError(t, err)
	var decoded struct {
		Nodes []string `json:"nodes"`
		Edges []struct {
			From int `json:"from"`
			To   int `json:"to"`
		} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal([]byte(jsonOut), &decoded))
	require.Len(t, decoded.Edges, 1)
	assert.Equal(t, "ControlFlowAnalysis", decoded.Nodes[decoded.Edges[0].From])
	assert.Equal(t, "DataFlowAnalysis", decoded.Nodes[decoded.Edges[0].To])
}

func TestExportPipelineExecutionOrder(t *testing.T) {
	p := analysis.NewPipeline()
	require.NoError(t, p.Register(analysis.ControlFlowAnalysis{}))
	require.NoError(t, p.Register(analysis.DataFlowAnalysis{}))
	require.NoError(t, p.Register(analysis.ConstantPropagationAnalysis{}))

	dot, err := p.ExportExecutionOrder(analysis.FormatDOT)
	require.NoError(t, err)
	assert.Contains(t, dot, "digraph ExecutionOrder")
	assert.Contains(t, dot, `"ControlFlowAnalysis" -> "DataFlowAnalysis"`)
	assert.Contains(t, dot, `"DataFlowAnalysis" -> "ConstantPropagationAnalysis"`)
}
