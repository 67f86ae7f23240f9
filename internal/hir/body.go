// Package hir lowers a syntax tree's program, together with its item tree,
// into a flat instruction body: the canonical Instruction{opcode, operand}
// sequence the VM and analysis passes both consume. Each operand is also
// recorded in an expression arena, resolving labels by name where the
// syntax made them unambiguous.
package hir

import "github.com/ramtk/ram/internal/types"

// AddressingMode is the addressing mode of a memory reference expression.
type AddressingMode uint8

const (
	Direct AddressingMode = iota
	Indirect
	Immediate
)

// LiteralKind distinguishes the three literal forms an expression can hold.
type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralString
	LiteralLabel
)

// Literal is a constant value appearing directly in an operand: a number,
// an unresolved label name kept as text, or an unresolved bare identifier
// kept as text (distinguished from LiteralLabel only by which addressing
// mode produced it; see lowerMemoryOperand).
type Literal struct {
	Kind LiteralKind
	Int  int64
	Text string
}

// MemoryRef is a memory access through one addressing mode: Mode plus the
// expression computing the address.
type MemoryRef struct {
	Mode    AddressingMode
	Address types.ExprID
}

// LabelRef is a resolved reference to a label declared elsewhere in the
// same body.
type LabelRef struct {
	Label types.DefId
}

// ArrayAccess is an indexed memory reference `base[index]`: the base
// address and the register holding the offset, each an expression in its
// own right so either can in principle be any expr kind, though in
// practice both are integer literals.
type ArrayAccess struct {
	Array types.ExprID
	Index types.ExprID
}

// InstructionCall is the legacy expression-arena record for a lowered
// instruction: its opcode text and the expression IDs of its operands (at
// most one, since the grammar allows a single operand per instruction).
// Kept alongside the canonical Instruction record rather than replacing it,
// matching how the body the VM executes and the body analysis inspects
// share one arena.
type InstructionCall struct {
	Opcode   string
	Operands []types.ExprID
}

// ExprKind tags which field of Expr is populated.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprLabelRef
	ExprMemoryRef
	ExprInstructionCall
	ExprArrayAccess
)

// Expr is one node in the body's expression arena.
type Expr struct {
	ID   types.ExprID
	Kind ExprKind

	Literal         Literal
	LabelRef        LabelRef
	MemoryRef       MemoryRef
	InstructionCall InstructionCall
	ArrayAccess     ArrayAccess
}

// Instruction is the canonical executable record: an opcode name and at
// most one operand expression. The VM and analysis passes both read this,
// not the expression arena directly, so they don't need to re-derive
// addressing mode from Expr.Kind.
type Instruction struct {
	ID      types.LocalDefId
	Opcode  string
	Operand *types.ExprID
}

// Label is a label declared in the body, resolved to the instruction it
// marks once lowering has seen that instruction.
type Label struct {
	ID            types.LocalDefId
	Name          string
	InstructionID *types.LocalDefId
}

// Body is one lowered program: every instruction in source order, the
// labels declared in it, and the expression arena their operands live in.
type Body struct {
	Owner        types.DefId
	Exprs        []Expr
	Instructions []Instruction
	Labels       []Label
}

// FindLabel returns the label named name, if the body declares one.
func (b *Body) FindLabel(name string) (Label, bool) {
	for _, l := range b.Labels {
		if l.Name == name {
			return l, true
		}
	}
	return Label{}, false
}

// Expr returns the expression with the given ID.
func (b *Body) Expr(id types.ExprID) (Expr, bool) {
	for _, e := range b.Exprs {
		if e.ID == id {
			return e, true
		}
	}
	return Expr{}, false
}
