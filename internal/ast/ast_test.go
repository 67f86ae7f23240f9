package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramtk/ram/internal/ast"
	"github.com/ramtk/ram/internal/parser"
	"github.com/ramtk/ram/internal/syntax"
)

func parseProgram(t *testing.T, src string) ast.Program {
	t.Helper()
	green, errs := parser.Parse(src)
	require.Empty(t, errs)
	root := syntax.NewRoot(green)
	prog, ok := ast.CastProgram(root)
	require.True(t, ok)
	return prog
}

func TestProgramLines(t *testing.T) {
	prog := parseProgram(t, "loop: LOAD x\nADD =1\nHALT\n")
	lines := prog.Lines()
	require.Len(t, lines, 3)

	label, ok := lines[0].LabelDef()
	require.True(t, ok)
	name, ok := label.Name()
	require.True(t, ok)
	assert.Equal(t, "loop", name)

	instr, ok := lines[0].Instruction()
	require.True(t, ok)
	opcode, ok := instr.Opcode()
	require.True(t, ok)
	assert.Equal(t, "LOAD", opcode)
}

func TestInstructionOperandDirect(t *testing.T) {
	prog := parseProgram(t, "LOAD x\n")
	instr, ok := prog.Lines()[0].Instruction()
	require.True(t, ok)

	operand, ok := instr.Operand()
	require.True(t, ok)
	direct, ok := operand.AsDirect()
	require.True(t, ok)
	value, ok := direct.Value()
	require.True(t, ok)
	name, ok := value.AsIdentifier()
	require.True(t, ok)
	assert.Equal(t, "x", name)
}

func TestInstructionOperandImmediateNumber(t *testing.T) {
	prog := parseProgram(t, "ADD =42\n")
	instr, _ := prog.Lines()[0].Instruction()
	operand, _ := instr.Operand()
	imm, ok := operand.AsImmediate()
	require.True(t, ok)
	value, _ := imm.Value()
	n, ok := value.AsNumber()
	require.True(t, ok)
	assert.EqualValues(t, 42, n)
}

func TestInstructionOperandIndirect(t *testing.T) {
	prog := parseProgram(t, "STORE *ptr\n")
	instr, _ := prog.Lines()[0].Instruction()
	operand, _ := instr.Operand()
	_, ok := operand.AsIndirect()
	assert.True(t, ok)
}

func TestArrayAccessorIndex(t *testing.T) {
	prog := parseProgram(t, "LOAD arr[3]\n")
	instr, _ := prog.Lines()[0].Instruction()
	operand, _ := instr.Operand()
	direct, _ := operand.AsDirect()
	value, _ := direct.Value()
	accessor, ok := value.ArrayAccessor()
	require.True(t, ok)
	idx, ok := accessor.IndexNumber()
	require.True(t, ok)
	assert.EqualValues(t, 3, idx)
}

func TestCommentText(t *testing.T) {
	prog := parseProgram(t, "# hello world\n")
	comment, ok := prog.Lines()[0].Comment()
	require.True(t, ok)
	text, ok := comment.Text()
	require.True(t, ok)
	assert.Equal(t, " hello world", text)
}

func TestUseStmtPathStripsQuotes(t *testing.T) {
	prog := parseProgram(t, `use "math/lib"`+"\n")
	use, ok := prog.Lines()[0].UseStmt()
	require.True(t, ok)
	path, ok := use.Path()
	require.True(t, ok)
	s, ok := path.AsString()
	require.True(t, ok)
	assert.Equal(t, "math/lib", s)
}

func TestModStmtName(t *testing.T) {
	prog := parseProgram(t, "mod helpers\n")
	mod, ok := prog.Lines()[0].ModStmt()
	require.True(t, ok)
	name, ok := mod.Name()
	require.True(t, ok)
	assert.Equal(t, "helpers", name)
}
