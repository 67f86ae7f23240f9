package hir

import (
	"strings"

	"github.com/ramtk/ram/internal/ast"
	"github.com/ramtk/ram/internal/itemtree"
	"github.com/ramtk/ram/internal/types"
)

// LowerProgram lowers program's instructions into a Body, using tree's
// labels to resolve forward references. Labels are registered before any
// instruction is lowered, so a JUMP to a label declared later in the file
// still resolves; a label line records the not-yet-allocated LocalDefId of
// the instruction that immediately follows it, assigned when that
// instruction is lowered rather than back-patched afterward.
func LowerProgram(program ast.Program, owner types.DefId, file types.FileID, tree *itemtree.Tree) *Body {
	c := &collector{
		body:      &Body{Owner: owner},
		file:      file,
		labelDefs: map[string]types.DefId{},
	}
	c.registerLabels(tree)
	c.lowerLines(program)
	return c.body
}

type collector struct {
	body      *Body
	file      types.FileID
	labelDefs map[string]types.DefId

	nextExprID  types.ExprID
	nextLocalID types.LocalDefId
}

func (c *collector) registerLabels(tree *itemtree.Tree) {
	for _, label := range tree.Labels {
		local := types.LocalDefId(label.ID)
		def := types.DefId{File: c.file, Local: local}
		c.labelDefs[label.Name] = def
		c.body.Labels = append(c.body.Labels, Label{ID: local, Name: label.Name})
	}
}

func (c *collector) lowerLines(program ast.Program) {
	for _, line := range program.Lines() {
		if labelDef, ok := line.LabelDef(); ok {
			c.attachLabelToNextInstruction(labelDef)
		}
		if instr, ok := line.Instruction(); ok {
			c.lowerInstruction(instr)
		}
	}
}

func (c *collector) attachLabelToNextInstruction(labelDef ast.LabelDef) {
	name, ok := labelDef.Name()
	if !ok {
		return
	}
	next := c.nextLocalID
	for i := range c.body.Labels {
		if c.body.Labels[i].Name == name {
			c.body.Labels[i].InstructionID = &next
			break
		}
	}
}

func (c *collector) lowerInstruction(instr ast.Instruction) {
	opcode, ok := instr.Opcode()
	if !ok {
		opcode = "UNKNOWN"
	}
	opcode = strings.ToUpper(opcode)

	var operands []types.ExprID
	if operand, ok := instr.Operand(); ok {
		operands = append(operands, c.lowerOperand(operand))
	}

	c.pushExpr(Expr{
		Kind:            ExprInstructionCall,
		InstructionCall: InstructionCall{Opcode: opcode, Operands: operands},
	})

	var first *types.ExprID
	if len(operands) > 0 {
		first = &operands[0]
	}
	c.body.Instructions = append(c.body.Instructions, Instruction{
		ID:      c.allocLocalID(),
		Opcode:  opcode,
		Operand: first,
	})
}

func (c *collector) lowerOperand(operand ast.Operand) types.ExprID {
	if id, ok := c.tryLowerArrayAccess(operand); ok {
		return id
	}

	var kind ExprKind
	var lit Literal
	var labelRef LabelRef
	var memRef MemoryRef

	switch {
	case isOperand(operand, operandDirect):
		kind, lit, labelRef, memRef = c.lowerMemoryOperand(operand, Direct, true)
	case isOperand(operand, operandIndirect):
		kind, lit, labelRef, memRef = c.lowerMemoryOperand(operand, Indirect, true)
	case isOperand(operand, operandImmediate):
		kind, lit, labelRef, memRef = c.lowerMemoryOperand(operand, Immediate, false)
	default:
		kind, lit = ExprLiteral, Literal{Kind: LiteralInt}
	}

	return c.pushExpr(Expr{Kind: kind, Literal: lit, LabelRef: labelRef, MemoryRef: memRef})
}

// tryLowerArrayAccess handles the `base[index]` suffix, which the grammar
// allows after any operand value regardless of its Direct/Indirect/Immediate
// prefix. Indexed addressing is its own operand kind at resolution time
// (it doesn't compose with the other three), so a bracketed value lowers
// straight to an ArrayAccess expr instead of a MemoryRef.
func (c *collector) tryLowerArrayAccess(operand ast.Operand) (types.ExprID, bool) {
	value, ok := operandValue(operand)
	if !ok {
		return 0, false
	}
	accessor, ok := value.ArrayAccessor()
	if !ok {
		return 0, false
	}

	var base types.ExprID
	if num, ok := value.AsNumber(); ok {
		base = c.pushExpr(Expr{Kind: ExprLiteral, Literal: Literal{Kind: LiteralInt, Int: num}})
	} else if ident, ok := value.AsIdentifier(); ok {
		base = c.pushExpr(Expr{Kind: ExprLiteral, Literal: Literal{Kind: LiteralLabel, Text: ident}})
	} else {
		base = c.pushExpr(Expr{Kind: ExprLiteral, Literal: Literal{Kind: LiteralInt}})
	}

	var index types.ExprID
	if num, ok := accessor.IndexNumber(); ok {
		index = c.pushExpr(Expr{Kind: ExprLiteral, Literal: Literal{Kind: LiteralInt, Int: num}})
	} else if ident, ok := accessor.IndexIdentifier(); ok {
		index = c.pushExpr(Expr{Kind: ExprLiteral, Literal: Literal{Kind: LiteralLabel, Text: ident}})
	} else {
		index = c.pushExpr(Expr{Kind: ExprLiteral, Literal: Literal{Kind: LiteralInt}})
	}

	id := c.pushExpr(Expr{Kind: ExprArrayAccess, ArrayAccess: ArrayAccess{Array: base, Index: index}})
	return id, true
}

type operandShape uint8

const (
	operandDirect operandShape = iota
	operandIndirect
	operandImmediate
)

func isOperand(operand ast.Operand, shape operandShape) bool {
	switch shape {
	case operandDirect:
		_, ok := operand.AsDirect()
		return ok
	case operandIndirect:
		_, ok := operand.AsIndirect()
		return ok
	default:
		_, ok := operand.AsImmediate()
		return ok
	}
}

// lowerMemoryOperand handles the Direct/Indirect/Immediate cases, which
// differ only in the addressing mode tag and in how an unresolved
// identifier falls back: Direct and Indirect fall back to a label literal
// (it is almost certainly a forward-declared label), Immediate falls back
// to a string literal instead — an immediate value is never a memory
// address, so there is no label to guess at.
func (c *collector) lowerMemoryOperand(
	operand ast.Operand, mode AddressingMode, identifierIsLabel bool,
) (ExprKind, Literal, LabelRef, MemoryRef) {
	value, ok := operandValue(operand)
	if !ok {
		return ExprLiteral, Literal{Kind: LiteralInt}, LabelRef{}, MemoryRef{}
	}

	if num, ok := value.AsNumber(); ok {
		addr := c.pushExpr(Expr{Kind: ExprLiteral, Literal: Literal{Kind: LiteralInt, Int: num}})
		return ExprMemoryRef, Literal{}, LabelRef{}, MemoryRef{Mode: mode, Address: addr}
	}

	ident, ok := value.AsIdentifier()
	if !ok {
		return ExprLiteral, Literal{Kind: LiteralInt}, LabelRef{}, MemoryRef{}
	}

	def, known := c.labelDefs[ident]
	switch {
	case known && mode == Immediate:
		return ExprLabelRef, Literal{}, LabelRef{Label: def}, MemoryRef{}
	case known:
		addr := c.pushExpr(Expr{Kind: ExprLabelRef, LabelRef: LabelRef{Label: def}})
		return ExprMemoryRef, Literal{}, LabelRef{}, MemoryRef{Mode: mode, Address: addr}
	case identifierIsLabel:
		return ExprLiteral, Literal{Kind: LiteralLabel, Text: ident}, LabelRef{}, MemoryRef{}
	default:
		return ExprLiteral, Literal{Kind: LiteralString, Text: ident}, LabelRef{}, MemoryRef{}
	}
}

func operandValue(operand ast.Operand) (ast.OperandValue, bool) {
	if d, ok := operand.AsDirect(); ok {
		return d.Value()
	}
	if i, ok := operand.AsIndirect(); ok {
		return i.Value()
	}
	if im, ok := operand.AsImmediate(); ok {
		return im.Value()
	}
	return ast.OperandValue{}, false
}

func (c *collector) pushExpr(e Expr) types.ExprID {
	id := c.nextExprID
	c.nextExprID++
	e.ID = id
	c.body.Exprs = append(c.body.Exprs, e)
	return id
}

func (c *collector) allocLocalID() types.LocalDefId {
	id := c.nextLocalID
	c.nextLocalID++
	return id
}
