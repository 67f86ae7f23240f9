// Package vm implements the RAM virtual machine: a flat list of
// instructions plus a label table, executed over an accumulator and a
// sparse memory map. It consumes registry.InstructionKind and
// operandresolver the same way the parser and HIR lowering do, so an
// instruction's addressing semantics are defined exactly once.
package vm

import (
	"fmt"

	"github.com/ramtk/ram/internal/operand"
	"github.com/ramtk/ram/internal/registry"
)

// Instruction is one executable step: an opcode plus its (optional) operand.
type Instruction struct {
	Kind    registry.InstructionKind
	Operand *operand.Operand
}

// Program is an executable RAM program: an ordered instruction list and the
// label names that resolve to positions within it.
type Program struct {
	Instructions []Instruction
	Labels       map[string]int
}

// NewProgram builds an empty program.
func NewProgram() *Program {
	return &Program{Labels: map[string]int{}}
}

// Len returns the number of instructions in the program.
func (p *Program) Len() int { return len(p.Instructions) }

// IsEmpty reports whether the program has no instructions.
func (p *Program) IsEmpty() bool { return len(p.Instructions) == 0 }

// At returns the instruction at index, if any.
func (p *Program) At(index int) (Instruction, bool) {
	if index < 0 || index >= len(p.Instructions) {
		return Instruction{}, false
	}
	return p.Instructions[index], true
}

// ResolveLabel resolves a label name to the instruction index it marks.
func (p *Program) ResolveLabel(name string) (int, error) {
	idx, ok := p.Labels[name]
	if !ok {
		return 0, fmt.Errorf("unknown label %q", name)
	}
	return idx, nil
}

// Push appends an instruction, returning its index.
func (p *Program) Push(instr Instruction) int {
	p.Instructions = append(p.Instructions, instr)
	return len(p.Instructions) - 1
}

// SetLabel records that name marks instruction index idx.
func (p *Program) SetLabel(name string, idx int) {
	p.Labels[name] = idx
}
