package compile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramtk/ram/internal/compile"
	"github.com/ramtk/ram/internal/hir"
	"github.com/ramtk/ram/internal/operand"
	"github.com/ramtk/ram/internal/registry"
	"github.com/ramtk/ram/internal/types"
	"github.com/ramtk/ram/internal/vm"
)

func intLit(b *hir.Body, n int64) types.ExprID {
	id := types.ExprID(len(b.Exprs))
	b.Exprs = append(b.Exprs, hir.Expr{ID: id, Kind: hir.ExprLiteral, Literal: hir.Literal{Kind: hir.LiteralInt, Int: n}})
	return id
}

func memRef(b *hir.Body, mode hir.AddressingMode, addr types.ExprID) types.ExprID {
	id := types.ExprID(len(b.Exprs))
	b.Exprs = append(b.Exprs, hir.Expr{ID: id, Kind: hir.ExprMemoryRef, MemoryRef: hir.MemoryRef{Mode: mode, Address: addr}})
	return id
}

func labelRef(b *hir.Body, def types.DefId) types.ExprID {
	id := types.ExprID(len(b.Exprs))
	b.Exprs = append(b.Exprs, hir.Expr{ID: id, Kind: hir.ExprLabelRef, LabelRef: hir.LabelRef{Label: def}})
	return id
}

func pushInstr(b *hir.Body, opcode string, operand *types.ExprID) {
	local := types.LocalDefId(len(b.Instructions))
	b.Instructions = append(b.Instructions, hir.Instruction{ID: local, Opcode: opcode, Operand: operand})
}

func exprPtr(id types.ExprID) *types.ExprID { return &id }

func TestProgramLowersSimpleArithmetic(t *testing.T) {
	b := &hir.Body{}
	five := memRef(b, hir.Immediate, intLit(b, 5))
	three := memRef(b, hir.Immediate, intLit(b, 3))
	one := intLit(b, 1)
	dest := memRef(b, hir.Direct, one)

	pushInstr(b, "LOAD", exprPtr(five))
	pushInstr(b, "ADD", exprPtr(three))
	pushInstr(b, "STORE", exprPtr(dest))
	pushInstr(b, "WRITE", exprPtr(dest))
	pushInstr(b, "HALT", nil)

	prog, err := compile.Program(b)
	require.NoError(t, err)
	require.Equal(t, 5, prog.Len())

	out := vm.NewVecOutput()
	m := vm.New(prog, vm.NewVecInput(nil), out)
	require.NoError(t, m.Run())

	assert.EqualValues(t, 8, m.Accumulator())
	assert.Equal(t, []int64{8}, out.Values)
}

func TestProgramRegistersLabelsAtInstructionIndex(t *testing.T) {
	b := &hir.Body{}
	loopLocal := types.LocalDefId(2)
	b.Labels = append(b.Labels, hir.Label{ID: 0, Name: "loop", InstructionID: &loopLocal})

	zero := intLit(b, 0)
	one := memRef(b, hir.Immediate, intLit(b, 1))
	dest := memRef(b, hir.Direct, zero)

	pushInstr(b, "LOAD", exprPtr(one))
	pushInstr(b, "STORE", exprPtr(dest))
	pushInstr(b, "WRITE", exprPtr(dest))
	pushInstr(b, "HALT", nil)

	prog, err := compile.Program(b)
	require.NoError(t, err)

	idx, err := prog.ResolveLabel("loop")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestProgramResolvesJumpTargetAsLabelName(t *testing.T) {
	b := &hir.Body{}
	endLocal := types.LocalDefId(3)
	endDef := types.DefId{Local: 1}
	b.Labels = append(b.Labels, hir.Label{ID: 1, Name: "end", InstructionID: &endLocal})

	zero := memRef(b, hir.Immediate, intLit(b, 0))
	jumpTarget := memRef(b, hir.Direct, labelRef(b, endDef))
	nine := memRef(b, hir.Immediate, intLit(b, 9))

	pushInstr(b, "LOAD", exprPtr(zero))
	pushInstr(b, "JZERO", exprPtr(jumpTarget))
	pushInstr(b, "LOAD", exprPtr(nine))
	pushInstr(b, "HALT", nil)

	prog, err := compile.Program(b)
	require.NoError(t, err)

	m := vm.New(prog, vm.NewVecInput(nil), vm.NewVecOutput())
	require.NoError(t, m.Run())
	assert.EqualValues(t, 0, m.Accumulator())
}

func TestProgramLowersIndexedOperand(t *testing.T) {
	b := &hir.Body{}
	base := intLit(b, 10)
	idx := intLit(b, 2)
	indexed := types.ExprID(len(b.Exprs))
	b.Exprs = append(b.Exprs, hir.Expr{
		ID:   indexed,
		Kind: hir.ExprArrayAccess,
		ArrayAccess: hir.ArrayAccess{
			Array: base,
			Index: idx,
		},
	})

	pushInstr(b, "WRITE", exprPtr(indexed))
	pushInstr(b, "HALT", nil)

	prog, err := compile.Program(b)
	require.NoError(t, err)

	instr, ok := prog.At(0)
	require.True(t, ok)
	require.Equal(t, registry.Write, instr.Kind)
	require.NotNil(t, instr.Operand)
	assert.Equal(t, operand.Indexed, instr.Operand.Kind)
	assert.EqualValues(t, 10, instr.Operand.Value.Base)
	assert.EqualValues(t, 2, instr.Operand.Value.IndexReg)
}

func TestProgramRejectsIndexedOperandWithNonLiteralBase(t *testing.T) {
	b := &hir.Body{}
	notLit := types.ExprID(len(b.Exprs))
	b.Exprs = append(b.Exprs, hir.Expr{ID: notLit, Kind: hir.ExprLabelRef, LabelRef: hir.LabelRef{Label: types.DefId{Local: 9}}})
	idx := intLit(b, 1)
	indexed := types.ExprID(len(b.Exprs))
	b.Exprs = append(b.Exprs, hir.Expr{ID: indexed, Kind: hir.ExprArrayAccess, ArrayAccess: hir.ArrayAccess{Array: notLit, Index: idx}})

	pushInstr(b, "WRITE", exprPtr(indexed))

	_, err := compile.Program(b)
	require.Error(t, err)
}

func TestProgramLowersBareLiteralOperandAsImmediate(t *testing.T) {
	b := &hir.Body{}
	five := intLit(b, 5)
	pushInstr(b, "WRITE", exprPtr(five))

	prog, err := compile.Program(b)
	require.NoError(t, err)

	instr, ok := prog.At(0)
	require.True(t, ok)
	assert.Equal(t, operand.Immediate, instr.Operand.Kind)
	assert.EqualValues(t, 5, instr.Operand.Value.Number)
}

func TestProgramHaltHasNilOperand(t *testing.T) {
	b := &hir.Body{}
	pushInstr(b, "HALT", nil)

	prog, err := compile.Program(b)
	require.NoError(t, err)

	instr, ok := prog.At(0)
	require.True(t, ok)
	assert.Nil(t, instr.Operand)
}
