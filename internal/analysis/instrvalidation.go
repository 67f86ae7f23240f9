package analysis

import (
	"fmt"
	"reflect"

	"github.com/hbollon/go-edlib"

	"github.com/ramtk/ram/internal/hir"
	"github.com/ramtk/ram/internal/registry"
	"github.com/ramtk/ram/internal/types"
)

// maxSuggestionDistance bounds how far (in Damerau-Levenshtein edits) an
// undefined label may be from a known one before the "did you mean"
// suggestion is withheld — past this, the guess is more likely to mislead
// than help.
const maxSuggestionDistance = 3

// InstructionValidationAnalysis has no dependencies: it validates every
// instruction against the registry's declared shape (known opcode, operand
// presence) and walks each operand expression for out-of-range or
// ill-typed values. It does not check an operand's addressing mode against
// the registry's AllowedOperandKinds.
type InstructionValidationAnalysis struct {
	// Registry is consulted for opcode/operand-shape validation. Nil uses
	// registry.NewStandard().
	Registry *registry.Registry
}

func (InstructionValidationAnalysis) Name() string { return "InstructionValidationAnalysis" }
func (InstructionValidationAnalysis) Description() string {
	return "validates every instruction's opcode and operand shape, and flags suspicious operand expressions"
}
func (InstructionValidationAnalysis) Dependencies() []reflect.Type { return nil }
func (InstructionValidationAnalysis) Priority() uint32             { return 0 }

func (p InstructionValidationAnalysis) Run(ctx *Context) (any, error) {
	reg := p.Registry
	if reg == nil {
		reg = registry.NewStandard()
	}
	body := ctx.Body()

	knownLabels := make([]string, 0, len(body.Labels))
	for _, l := range body.Labels {
		knownLabels = append(knownLabels, l.Name)
	}

	for i, instr := range body.Instructions {
		def, ok := reg.GetByNameCaseInsensitive(instr.Opcode)
		if !ok {
			ctx.Error(fmt.Sprintf("instruction %d: unknown opcode %q", i, instr.Opcode), "", types.TextRange{})
			continue
		}

		hasOperand := instr.Operand != nil
		if def.RequiresOperand() && !hasOperand {
			ctx.Error(fmt.Sprintf("instruction %d: %s requires an operand", i, instr.Opcode), "", types.TextRange{})
		}
		if !def.RequiresOperand() && hasOperand {
			ctx.Warning(fmt.Sprintf("instruction %d: %s does not accept an operand", i, instr.Opcode), "", types.TextRange{})
		}
		if hasOperand {
			p.validateOperand(ctx, body, instr, *instr.Operand, knownLabels)
		}
	}

	return struct{}{}, nil
}

func (p InstructionValidationAnalysis) validateOperand(
	ctx *Context, body *hir.Body, instr hir.Instruction, id types.ExprID, knownLabels []string,
) {
	expr, ok := body.Expr(id)
	if !ok {
		return
	}
	isJump := instr.Opcode == "JUMP" || instr.Opcode == "JGTZ" || instr.Opcode == "JZERO"

	switch expr.Kind {
	case hir.ExprMemoryRef:
		p.validateOperand(ctx, body, instr, expr.MemoryRef.Address, knownLabels)

	case hir.ExprLiteral:
		switch expr.Literal.Kind {
		case hir.LiteralInt:
			if expr.Literal.Int < 0 {
				ctx.Warning(fmt.Sprintf("instruction %d: negative memory address %d", instrIndex(body, instr), expr.Literal.Int), "", types.TextRange{})
			}
		case hir.LiteralLabel:
			p.checkLabel(ctx, body, instr, expr.Literal.Text, knownLabels)
			if !isJump {
				ctx.Warning(fmt.Sprintf("instruction %d: label used as operand for a non-jump instruction", instrIndex(body, instr)), "", types.TextRange{})
			}
		case hir.LiteralString:
			ctx.Warning(fmt.Sprintf("instruction %d: string literal is not a valid operand", instrIndex(body, instr)), "", types.TextRange{})
		}

	case hir.ExprLabelRef:
		if !isJump {
			ctx.Warning(fmt.Sprintf("instruction %d: label reference used as operand for a non-jump instruction", instrIndex(body, instr)), "", types.TextRange{})
		}

	case hir.ExprArrayAccess:
		p.validateArrayAccess(ctx, body, instr, expr.ArrayAccess)

	case hir.ExprInstructionCall:
		ctx.Error(fmt.Sprintf("instruction %d: an instruction call cannot be used as an operand", instrIndex(body, instr)), "", types.TextRange{})
	}
}

func (InstructionValidationAnalysis) validateArrayAccess(ctx *Context, body *hir.Body, instr hir.Instruction, access hir.ArrayAccess) {
	if base, ok := body.Expr(access.Array); ok && base.Kind == hir.ExprLiteral && base.Literal.Kind == hir.LiteralInt {
		if base.Literal.Int < 0 {
			ctx.Warning(fmt.Sprintf("instruction %d: negative array base %d", instrIndex(body, instr), base.Literal.Int), "", types.TextRange{})
		}
	}
	index, ok := body.Expr(access.Index)
	if !ok {
		return
	}
	if index.Kind != hir.ExprLiteral || index.Literal.Kind != hir.LiteralInt {
		ctx.Warning(fmt.Sprintf("instruction %d: array index register must be a plain integer", instrIndex(body, instr)), "", types.TextRange{})
		return
	}
	if index.Literal.Int < 0 {
		ctx.Warning(fmt.Sprintf("instruction %d: negative array index register %d", instrIndex(body, instr), index.Literal.Int), "", types.TextRange{})
	}
}

func (InstructionValidationAnalysis) checkLabel(ctx *Context, body *hir.Body, instr hir.Instruction, name string, knownLabels []string) {
	if _, ok := body.FindLabel(name); ok {
		return
	}

	msg := fmt.Sprintf("instruction %d: undefined label %q", instrIndex(body, instr), name)
	help := ""
	if suggestion, distance, ok := closestLabel(name, knownLabels); ok && distance <= maxSuggestionDistance {
		help = fmt.Sprintf("did you mean %q?", suggestion)
	}
	ctx.Error(msg, help, types.TextRange{})
}

// closestLabel finds the known label with the smallest Damerau-Levenshtein
// distance to name.
func closestLabel(name string, known []string) (string, int, bool) {
	best := ""
	bestDistance := -1
	for _, candidate := range known {
		if candidate == name {
			continue
		}
		d := edlib.DamerauLevenshteinDistance(name, candidate)
		if bestDistance == -1 || d < bestDistance {
			bestDistance = d
			best = candidate
		}
	}
	if bestDistance == -1 {
		return "", 0, false
	}
	return best, bestDistance, true
}

func instrIndex(body *hir.Body, instr hir.Instruction) int {
	for i, in := range body.Instructions {
		if in.ID == instr.ID {
			return i
		}
	}
	return int(instr.ID)
}
