package analysis_test

import (
	"github.com/ramtk/ram/internal/hir"
	"github.com/ramtk/ram/internal/types"
)

func intLit(b *hir.Body, n int64) types.ExprID {
	id := types.ExprID(len(b.Exprs))
	b.Exprs = append(b.Exprs, hir.Expr{ID: id, Kind: hir.ExprLiteral, Literal: hir.Literal{Kind: hir.LiteralInt, Int: n}})
	return id
}

func immediate(b *hir.Body, n int64) types.ExprID {
	return memRef(b, hir.Immediate, intLit(b, n))
}

func memRef(b *hir.Body, mode hir.AddressingMode, addr types.ExprID) types.ExprID {
	id := types.ExprID(len(b.Exprs))
	b.Exprs = append(b.Exprs, hir.Expr{ID: id, Kind: hir.ExprMemoryRef, MemoryRef: hir.MemoryRef{Mode: mode, Address: addr}})
	return id
}

func labelLit(b *hir.Body, name string) types.ExprID {
	id := types.ExprID(len(b.Exprs))
	b.Exprs = append(b.Exprs, hir.Expr{ID: id, Kind: hir.ExprLiteral, Literal: hir.Literal{Kind: hir.LiteralLabel, Text: name}})
	return id
}

func jumpOperand(b *hir.Body, name string) types.ExprID {
	return memRef(b, hir.Direct, labelLit(b, name))
}

func pushInstr(b *hir.Body, opcode string, operand *types.ExprID) {
	local := types.LocalDefId(len(b.Instructions))
	b.Instructions = append(b.Instructions, hir.Instruction{ID: local, Opcode: opcode, Operand: operand})
}

func addLabel(b *hir.Body, name string, instructionIndex int) {
	id := types.LocalDefId(len(b.Labels))
	idx := types.LocalDefId(instructionIndex)
	b.Labels = append(b.Labels, hir.Label{ID: id, Name: name, InstructionID: &idx})
}

func exprPtr(id types.ExprID) *types.ExprID { return &id }
