package analysis

import (
	"fmt"
	"reflect"

	"github.com/ramtk/ram/internal/hir"
	"github.com/ramtk/ram/internal/types"
)

// BranchTaken classifies a conditional jump whose condition is statically
// determined by ConstantPropagationAnalysis.
type BranchTaken uint8

const (
	// BranchAlways means the branch's true target is always reached.
	BranchAlways BranchTaken = iota
	// BranchNever means the branch's true target is never reached.
	BranchNever
)

func (b BranchTaken) String() string {
	if b == BranchAlways {
		return "always"
	}
	return "never"
}

// ConstantPropagationResult is the output of ConstantPropagationAnalysis:
// the statically-known accumulator value after each instruction (nil when
// not statically known), and which conditional branches are provably always
// or never taken.
type ConstantPropagationResult struct {
	// ValueAfter[i] is the known accumulator value after instruction i, or
	// nil if the value isn't statically determined.
	ValueAfter map[int]*int64
	// OptimizedEdges maps a JGTZ/JZERO instruction index to the branch
	// outcome constant propagation proved.
	OptimizedEdges map[int]BranchTaken
}

// ConstantPropagationAnalysis computes, for every instruction, the
// statically-known accumulator value (if any), using only immediate
// integer literals as "known" inputs — any other operand (memory
// reference, label, array access) makes the result unknown from that point
// until the next instruction that makes it known again.
type ConstantPropagationAnalysis struct{}

func (ConstantPropagationAnalysis) Name() string { return "ConstantPropagationAnalysis" }
func (ConstantPropagationAnalysis) Description() string {
	return "propagates statically-known accumulator values and flags branches whose outcome is determined"
}
func (ConstantPropagationAnalysis) Dependencies() []reflect.Type {
	return []reflect.Type{DependencyOf[ControlFlowAnalysis](), DependencyOf[DataFlowAnalysis]()}
}
func (ConstantPropagationAnalysis) Priority() uint32 { return 0 }

func (ConstantPropagationAnalysis) Run(ctx *Context) (any, error) {
	cfg, err := GetResult[ControlFlowAnalysis, *ControlFlowGraph](ctx)
	if err != nil {
		return nil, err
	}

	body := ctx.Body()
	order, ok := cfg.TopologicalSort()
	if !ok {
		order = make([]int, len(body.Instructions))
		for i := range order {
			order[i] = i
		}
	}

	valueBefore := map[int]*int64{}
	valueAfter := map[int]*int64{}
	if cfg.HasEntry {
		zero := int64(0)
		valueBefore[cfg.Entry] = &zero
	}

	for _, i := range order {
		before := valueBefore[i]
		if before == nil && i != cfg.Entry {
			before = mergePredecessors(cfg, valueAfter, i)
		}
		valueBefore[i] = before
		valueAfter[i] = processInstruction(body, i, before)
		for _, e := range cfg.Successors(i) {
			if _, set := valueBefore[e.To]; !set {
				valueBefore[e.To] = nil
			}
		}
	}

	result := &ConstantPropagationResult{
		ValueAfter:     valueAfter,
		OptimizedEdges: map[int]BranchTaken{},
	}

	for i, instr := range body.Instructions {
		if instr.Opcode != "JGTZ" && instr.Opcode != "JZERO" {
			continue
		}
		before := valueBefore[i]
		if before == nil {
			continue
		}
		var takeTrue bool
		switch instr.Opcode {
		case "JGTZ":
			takeTrue = *before > 0
		case "JZERO":
			takeTrue = *before == 0
		}
		hasTrue, hasFalse := false, false
		for _, e := range cfg.Successors(i) {
			if e.Kind == ConditionalTrue {
				hasTrue = true
			}
			if e.Kind == ConditionalFalse {
				hasFalse = true
			}
		}
		if !hasTrue || !hasFalse {
			continue
		}
		if takeTrue {
			result.OptimizedEdges[i] = BranchAlways
			ctx.Info(fmt.Sprintf("instruction %d: branch is always taken (accumulator statically %d)", i, *before), "", types.TextRange{})
		} else {
			result.OptimizedEdges[i] = BranchNever
			ctx.Info(fmt.Sprintf("instruction %d: branch is never taken (accumulator statically %d)", i, *before), "", types.TextRange{})
		}
	}

	return result, nil
}

// mergePredecessors returns the known value all of i's CFG predecessors
// agree on, or nil if they disagree, any is unknown, or i has no
// predecessors yet resolved.
func mergePredecessors(cfg *ControlFlowGraph, valueAfter map[int]*int64, i int) *int64 {
	preds := cfg.Predecessors(i)
	if len(preds) == 0 {
		return nil
	}
	var agreed *int64
	for _, e := range preds {
		v, ok := valueAfter[e.From]
		if !ok || v == nil {
			return nil
		}
		if agreed == nil {
			agreed = v
			continue
		}
		if *agreed != *v {
			return nil
		}
	}
	return agreed
}

func processInstruction(body *hir.Body, i int, before *int64) *int64 {
	instr := body.Instructions[i]
	switch instr.Opcode {
	case "LOAD":
		if n, ok := immediateInt(body, instr.Operand); ok {
			v := n
			return &v
		}
		return nil
	case "ADD", "SUB", "MUL", "DIV":
		if before == nil {
			return nil
		}
		n, ok := immediateInt(body, instr.Operand)
		if !ok {
			return nil
		}
		var v int64
		switch instr.Opcode {
		case "ADD":
			v = *before + n
		case "SUB":
			v = *before - n
		case "MUL":
			v = *before * n
		case "DIV":
			if n == 0 {
				return nil
			}
			v = *before / n
		}
		return &v
	case "READ":
		return nil
	default:
		return before
	}
}

// immediateInt extracts an operand's value when it is, or wraps, an
// immediate integer literal — the only form constant propagation treats as
// statically known.
func immediateInt(body *hir.Body, operand *types.ExprID) (int64, bool) {
	if operand == nil {
		return 0, false
	}
	expr, ok := body.Expr(*operand)
	if !ok {
		return 0, false
	}
	if expr.Kind == hir.ExprMemoryRef {
		if expr.MemoryRef.Mode != hir.Immediate {
			return 0, false
		}
		expr, ok = body.Expr(expr.MemoryRef.Address)
		if !ok {
			return 0, false
		}
	}
	if expr.Kind == hir.ExprLiteral && expr.Literal.Kind == hir.LiteralInt {
		return expr.Literal.Int, true
	}
	return 0, false
}
