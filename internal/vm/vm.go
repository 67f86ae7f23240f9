package vm

import (
	"errors"
	"fmt"

	"github.com/ramtk/ram/internal/operand"
	"github.com/ramtk/ram/internal/operandresolver"
	"github.com/ramtk/ram/internal/registry"
	"github.com/ramtk/ram/internal/rerrors"
)

// DefaultMaxSteps bounds Run when the caller doesn't supply its own limit —
// it exists so a runaway program (an unconditional jump with no HALT) can't
// hang a caller that forgot to set one.
const DefaultMaxSteps = 1_000_000

// Executor implements a single instruction kind's runtime behavior. New
// wires in executors for the built-ins (HALT is handled by Step itself);
// RegisterExecutor lets a caller add
// a custom opcode the registry also knows about.
type Executor func(v *VM, op *operand.Operand) error

// VM is one instance of the RAM machine: an accumulator, a sparse memory
// array, a program counter, and the input/output streams READ and WRITE
// consume. A zero Memory cell always reads back as zero.
type VM struct {
	program *Program
	input   Input
	output  Output

	accumulator int64
	memory      map[int64]int64
	pc          int
	jumped      bool

	executors map[registry.InstructionKind]Executor
}

// New builds a VM over program, reading from in and writing to out.
func New(program *Program, in Input, out Output) *VM {
	v := &VM{
		program:   program,
		input:     in,
		output:    out,
		memory:    map[int64]int64{},
		executors: map[registry.InstructionKind]Executor{},
	}
	v.registerBuiltins()
	return v
}

// RegisterExecutor installs the runtime behavior for a custom instruction
// kind (see registry.Custom). Overwrites any previous executor for kind,
// including a built-in's — callers that want to override LOAD or similar
// may do so deliberately.
func (v *VM) RegisterExecutor(kind registry.InstructionKind, exec Executor) {
	v.executors[kind] = exec
}

// Accumulator returns the current accumulator value.
func (v *VM) Accumulator() int64 { return v.accumulator }

// PC returns the current program counter (the next instruction index).
func (v *VM) PC() int { return v.pc }

// Memory returns the value stored at addr, or 0 if never written.
func (v *VM) Memory(addr int64) int64 { return v.memory[addr] }

// SetMemory sets addr to value directly, bypassing any instruction —
// callers seed initial memory this way before Run.
func (v *VM) SetMemory(addr int64, value int64) {
	v.memory[addr] = value
}

// Reset returns the VM to its initial state: zero accumulator, empty
// memory, pc at the first instruction. The program and I/O streams are
// unchanged.
func (v *VM) Reset() {
	v.accumulator = 0
	v.memory = map[int64]int64{}
	v.pc = 0
}

// The RAM machine has a single uniform address space, so GetRegister and
// GetMemory both read the same sparse map: operandresolver distinguishes
// them only to name the two hops of indirect addressing.

func (v *VM) GetRegister(addr int64) (int64, error) { return v.memory[addr], nil }

func (v *VM) GetMemory(addr int64) (int64, error) { return v.memory[addr], nil }

func (v *VM) ResolveLabel(name string) (int, error) { return v.program.ResolveLabel(name) }

// store writes value to the location operandresolver resolved.
func (v *VM) store(target operandresolver.StoreTarget, addr int64, value int64) {
	switch target {
	case operandresolver.TargetAccumulator:
		v.accumulator = value
	default:
		v.memory[addr] = value
	}
}

// Step executes the instruction at the current pc and advances it,
// following jumps. It reports halted=true (with err nil) when a HALT
// instruction runs; callers stop calling Step once halted is true.
func (v *VM) Step() (halted bool, err error) {
	instr, ok := v.program.At(v.pc)
	if !ok {
		return true, nil
	}
	if instr.Kind == registry.Halt {
		return true, nil
	}

	exec, ok := v.executors[instr.Kind]
	if !ok {
		return false, fmt.Errorf("vm: no executor registered for instruction %q", instr.Kind.Name())
	}

	currentPC := v.pc
	v.jumped = false
	if err := exec(v, instr.Operand); err != nil {
		return false, v.wrapError(err, currentPC)
	}
	if !v.jumped {
		v.pc = currentPC + 1
	}
	return false, nil
}

// jump sets pc directly and suppresses Step's default fall-through
// increment for this instruction.
func (v *VM) jump(target int) {
	v.pc = target
	v.jumped = true
}

// Run executes the program until it halts or a step fails, bounded by
// DefaultMaxSteps.
func (v *VM) Run() error {
	return v.RunWithMaxSteps(DefaultMaxSteps)
}

// RunWithMaxSteps executes the program until it halts, a step fails, or
// maxSteps instructions have run — whichever comes first. Hitting the limit
// without halting is reported as an error so an infinite loop is never
// silently truncated.
func (v *VM) RunWithMaxSteps(maxSteps int) error {
	for i := 0; i < maxSteps; i++ {
		halted, err := v.Step()
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
	}
	return fmt.Errorf("vm: exceeded maximum step count (%d) without halting", maxSteps)
}

func (v *VM) wrapError(err error, atPC int) error {
	if errors.Is(err, errDivisionByZero) {
		return rerrors.NewVMError(rerrors.KindDivisionByZero, atPC).WithUnderlying(err)
	}
	if _, ok := err.(*ioError); ok {
		return rerrors.NewVMError(rerrors.KindIoError, atPC).WithUnderlying(err)
	}
	return fmt.Errorf("vm: at instruction %d: %w", atPC, err)
}

type ioError struct{ underlying error }

func (e *ioError) Error() string { return e.underlying.Error() }
func (e *ioError) Unwrap() error { return e.underlying }
