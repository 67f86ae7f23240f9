package analysis_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramtk/ram/internal/analysis"
	"github.com/ramtk/ram/internal/hir"
)

// orderRecordingPass appends its own name to *log when run, so tests can
// assert on the order Analyze actually executed independent passes in.
type orderRecordingPass struct {
	name     string
	priority uint32
	deps     []reflect.Type
	log      *[]string
}

func (p orderRecordingPass) Name() string               { return p.name }
func (p orderRecordingPass) Description() string        { return "test fixture pass" }
func (p orderRecordingPass) Priority() uint32            { return p.priority }
func (p orderRecordingPass) Dependencies() []reflect.Type { return p.deps }
func (p orderRecordingPass) Run(ctx *analysis.Context) (any, error) {
	*p.log = append(*p.log, p.name)
	return p.name, nil
}

// The pipeline keys passes by their type, so each orderRecordingPass
// registered in one pipeline needs a named type of its own.
type fixturePassA struct{ orderRecordingPass }
type fixturePassB struct{ orderRecordingPass }
type fixturePassC struct{ orderRecordingPass }

func TestPipelineRejectsDuplicateRegistration(t *testing.T) {
	p := analysis.NewPipeline()
	require.NoError(t, p.Register(analysis.ControlFlowAnalysis{}))
	err := p.Register(analysis.ControlFlowAnalysis{})
	require.Error(t, err)
	var aerr *analysis.Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, analysis.ErrPassAlreadyRegistered, aerr.Kind)
}

func TestPipelineRejectsUnregisteredDependency(t *testing.T) {
	p := analysis.NewPipeline()
	err := p.Register(analysis.DataFlowAnalysis{})
	require.Error(t, err)
	var aerr *analysis.Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, analysis.ErrPassNotRegistered, aerr.Kind)
}

func TestPipelineRunsPassesInDependencyOrder(t *testing.T) {
	b := &hir.Body{}
	pushInstr(b, "LOAD", exprPtr(immediate(b, 1)))
	pushInstr(b, "HALT", nil)

	p := analysis.NewPipeline()
	require.NoError(t, p.Register(analysis.ControlFlowAnalysis{}))
	require.NoError(t, p.Register(analysis.DataFlowAnalysis{}))
	require.NoError(t, p.Register(analysis.ConstantPropagationAnalysis{}))

	_, err := p.Analyze(b)
	require.NoError(t, err)

	// ExportExecutionOrder reports the order Analyze runs the passes in.
	out, err := p.ExportExecutionOrder(analysis.FormatJSON)
	require.NoError(t, err)
	var order struct {
		Nodes []string `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &order))
	assert.Equal(t, []string{"ControlFlowAnalysis", "DataFlowAnalysis", "ConstantPropagationAnalysis"}, order.Nodes)
}

func TestPipelineBreaksTiesByPriorityThenRegistrationOrder(t *testing.T) {
	var log []string
	p := analysis.NewPipeline()
	require.NoError(t, p.Register(fixturePassA{orderRecordingPass{name: "second", priority: 5, log: &log}}))
	require.NoError(t, p.Register(fixturePassB{orderRecordingPass{name: "first", priority: 1, log: &log}}))
	require.NoError(t, p.Register(fixturePassC{orderRecordingPass{name: "third-same-priority", priority: 5, log: &log}}))

	b := &hir.Body{}
	_, err := p.Analyze(b)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "third-same-priority"}, log)
}

func TestPipelineWrapsPassFailure(t *testing.T) {
	p := analysis.NewPipeline()

	boom := analysisFailingPass{name: "boom"}
	require.NoError(t, p.Register(boom))

	b := &hir.Body{}
	_, err := p.Analyze(b)
	require.Error(t, err)
	var aerr *analysis.Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, analysis.ErrPassFailed, aerr.Kind)
	assert.Equal(t, "boom", aerr.PassName)
}

// analysisFailingPass always returns an error from Run, to exercise
// Analyze's failure-wrapping path.
type analysisFailingPass struct {
	name string
}

func (p analysisFailingPass) Name() string                { return p.name }
func (p analysisFailingPass) Description() string         { return "always fails" }
func (p analysisFailingPass) Priority() uint32             { return 0 }
func (p analysisFailingPass) Dependencies() []reflect.Type { return nil }
func (p analysisFailingPass) Run(ctx *analysis.Context) (any, error) {
	return nil, assertErr{}
}

type assertErr struct{}

func (assertErr) Error() string { return "boom: deliberate failure" }

func TestPipelineCachesEachPassResultOnce(t *testing.T) {
	var log []string
	p := analysis.NewPipeline()
	require.NoError(t, p.Register(orderRecordingPass{name: "once", priority: 0, log: &log}))

	b := &hir.Body{}
	_, err := p.Analyze(b)
	require.NoError(t, err)
	assert.Len(t, log, 1)
}
