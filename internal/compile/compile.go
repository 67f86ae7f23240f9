// Package compile turns a lowered HIR body into an executable vm.Program.
// It is the last step before execution: registry.FromName resolves each
// instruction's opcode text, and each operand expression in the body's
// arena is flattened into the operand.Operand the VM and operandresolver
// already know how to run.
package compile

import (
	"fmt"

	"github.com/ramtk/ram/internal/hir"
	"github.com/ramtk/ram/internal/operand"
	"github.com/ramtk/ram/internal/registry"
	"github.com/ramtk/ram/internal/types"
	"github.com/ramtk/ram/internal/vm"
)

// Error reports a body that can't be compiled into a program: a dangling
// expression reference, or an indexed operand whose base or index isn't a
// plain integer literal (register numbers and array bases are never
// deferred to a label lookup the way a jump target or store address is).
type Error struct {
	Reason string
}

func (e *Error) Error() string { return "compile: " + e.Reason }

// Program lowers body into a vm.Program: one vm.Instruction per hir
// Instruction, in source order, with labels registered at the instruction
// index they mark.
func Program(body *hir.Body) (*vm.Program, error) {
	p := vm.NewProgram()

	for _, label := range body.Labels {
		if label.InstructionID == nil {
			continue
		}
		p.SetLabel(label.Name, int(*label.InstructionID))
	}

	for _, instr := range body.Instructions {
		op, err := operandOf(body, instr.Operand)
		if err != nil {
			return nil, fmt.Errorf("instruction %d (%s): %w", instr.ID, instr.Opcode, err)
		}
		p.Push(vm.Instruction{Kind: registry.FromName(instr.Opcode), Operand: op})
	}

	return p, nil
}

// operandOf flattens the expression id refers to (if any) into the single
// operand.Operand the VM's executors consume.
func operandOf(body *hir.Body, id *types.ExprID) (*operand.Operand, error) {
	if id == nil {
		return nil, nil
	}
	expr, ok := body.Expr(*id)
	if !ok {
		return nil, &Error{Reason: fmt.Sprintf("dangling expression id %d", *id)}
	}

	switch expr.Kind {
	case hir.ExprMemoryRef:
		value, err := valueOf(body, expr.MemoryRef.Address)
		if err != nil {
			return nil, err
		}
		return &operand.Operand{Kind: addressingModeOf(expr.MemoryRef.Mode), Value: value}, nil

	case hir.ExprArrayAccess:
		base, err := literalInt(body, expr.ArrayAccess.Array)
		if err != nil {
			return nil, fmt.Errorf("indexed operand base: %w", err)
		}
		index, err := literalInt(body, expr.ArrayAccess.Index)
		if err != nil {
			return nil, fmt.Errorf("indexed operand register: %w", err)
		}
		return &operand.Operand{Kind: operand.Indexed, Value: operand.IndexedValue(base, index)}, nil

	case hir.ExprLabelRef:
		name, err := labelName(body, expr.LabelRef.Label)
		if err != nil {
			return nil, err
		}
		return &operand.Operand{Kind: operand.Immediate, Value: operand.IdentifierValue(name)}, nil

	case hir.ExprLiteral:
		v, err := literalValue(expr.Literal)
		if err != nil {
			return nil, err
		}
		return &operand.Operand{Kind: operand.Immediate, Value: v}, nil

	default:
		return nil, &Error{Reason: fmt.Sprintf("expression %d is not a valid operand (kind %v)", *id, expr.Kind)}
	}
}

func addressingModeOf(mode hir.AddressingMode) operand.Kind {
	switch mode {
	case hir.Indirect:
		return operand.Indirect
	case hir.Immediate:
		return operand.Immediate
	default:
		return operand.Direct
	}
}

// valueOf flattens the address expression inside a MemoryRef: a number
// literal, or an unresolved label/identifier name left for operandresolver
// to resolve at run time.
func valueOf(body *hir.Body, id types.ExprID) (operand.Value, error) {
	expr, ok := body.Expr(id)
	if !ok {
		return operand.Value{}, &Error{Reason: fmt.Sprintf("dangling address expression id %d", id)}
	}
	switch expr.Kind {
	case hir.ExprLiteral:
		return literalValue(expr.Literal)
	case hir.ExprLabelRef:
		name, err := labelName(body, expr.LabelRef.Label)
		if err != nil {
			return operand.Value{}, err
		}
		return operand.IdentifierValue(name), nil
	default:
		return operand.Value{}, &Error{Reason: fmt.Sprintf("expression %d is not a valid address", id)}
	}
}

func literalValue(lit hir.Literal) (operand.Value, error) {
	switch lit.Kind {
	case hir.LiteralInt:
		return operand.NumberValue(lit.Int), nil
	case hir.LiteralLabel, hir.LiteralString:
		return operand.IdentifierValue(lit.Text), nil
	default:
		return operand.Value{}, &Error{Reason: "unrecognized literal kind"}
	}
}

// literalInt requires id to resolve to a plain integer literal: the base
// address and index register of an indexed operand are never label names,
// since they name memory/register positions directly rather than program
// points.
func literalInt(body *hir.Body, id types.ExprID) (int64, error) {
	expr, ok := body.Expr(id)
	if !ok {
		return 0, &Error{Reason: fmt.Sprintf("dangling expression id %d", id)}
	}
	if expr.Kind == hir.ExprLiteral && expr.Literal.Kind == hir.LiteralInt {
		return expr.Literal.Int, nil
	}
	return 0, &Error{Reason: "expected an integer literal"}
}

func labelName(body *hir.Body, id types.DefId) (string, error) {
	for _, l := range body.Labels {
		if types.LocalDefId(l.ID) == id.Local {
			return l.Name, nil
		}
	}
	return "", &Error{Reason: fmt.Sprintf("unresolved label reference %v", id)}
}
