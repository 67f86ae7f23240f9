package vm

import (
	"errors"
	"fmt"

	"github.com/ramtk/ram/internal/operand"
	"github.com/ramtk/ram/internal/operandresolver"
	"github.com/ramtk/ram/internal/registry"
)

// errDivisionByZero is the sentinel DIV checks for to route the failure
// through rerrors.KindDivisionByZero instead of a generic wrapped error.
var errDivisionByZero = errors.New("division by zero")

func requireOperand(name string, op *operand.Operand) (*operand.Operand, error) {
	if op == nil {
		return nil, fmt.Errorf("%s requires an operand", name)
	}
	return op, nil
}

func (v *VM) registerBuiltins() {
	v.executors[registry.Load] = execLoad
	v.executors[registry.Store] = execStore
	v.executors[registry.Add] = execArith(func(acc, val int64) (int64, error) { return acc + val, nil })
	v.executors[registry.Sub] = execArith(func(acc, val int64) (int64, error) { return acc - val, nil })
	v.executors[registry.Mul] = execArith(func(acc, val int64) (int64, error) { return acc * val, nil })
	v.executors[registry.Div] = execArith(func(acc, val int64) (int64, error) {
		if val == 0 {
			return 0, errDivisionByZero
		}
		return acc / val, nil
	})
	v.executors[registry.Jump] = execJump(func(*VM) bool { return true })
	v.executors[registry.JumpGtz] = execJump(func(v *VM) bool { return v.accumulator > 0 })
	v.executors[registry.JumpZero] = execJump(func(v *VM) bool { return v.accumulator == 0 })
	v.executors[registry.Read] = execRead
	v.executors[registry.Write] = execWrite
	// HALT never reaches the executor table: Step recognizes it before
	// dispatch and reports halted=true directly.
}

// execLoad resolves op's value under every addressing mode the grammar
// allows (Direct/Indirect/Immediate, plus Indexed as a generalization) and
// sets the accumulator. Direct address 0 reads the accumulator itself —
// resolved uniformly by operandresolver rather than re-implemented here.
func execLoad(v *VM, op *operand.Operand) error {
	o, err := requireOperand("LOAD", op)
	if err != nil {
		return err
	}
	val, err := operandresolver.ResolveValue(*o, v)
	if err != nil {
		return err
	}
	v.accumulator = val
	return nil
}

func execStore(v *VM, op *operand.Operand) error {
	o, err := requireOperand("STORE", op)
	if err != nil {
		return err
	}
	target, addr, err := operandresolver.ResolveStoreAddress(*o, v)
	if err != nil {
		return err
	}
	v.store(target, addr, v.accumulator)
	return nil
}

func execArith(apply func(acc, val int64) (int64, error)) Executor {
	return func(v *VM, op *operand.Operand) error {
		o, err := requireOperand("arithmetic instruction", op)
		if err != nil {
			return err
		}
		val, err := operandresolver.ResolveValue(*o, v)
		if err != nil {
			return err
		}
		result, err := apply(v.accumulator, val)
		if err != nil {
			return err
		}
		v.accumulator = result
		return nil
	}
}

// execJump builds the executor for JUMP/JGTZ/JZERO: they share everything
// but the branch condition, which take decides. The operand is always
// resolved as a label name, even when written as a bare number.
func execJump(take func(*VM) bool) Executor {
	return func(v *VM, op *operand.Operand) error {
		o, err := requireOperand("jump instruction", op)
		if err != nil {
			return err
		}
		if !take(v) {
			return nil
		}
		target, err := operandresolver.ResolveJumpTarget(*o, v)
		if err != nil {
			return err
		}
		v.jump(target)
		return nil
	}
}

func execRead(v *VM, op *operand.Operand) error {
	o, err := requireOperand("READ", op)
	if err != nil {
		return err
	}
	value, err := v.input.Read()
	if err != nil {
		return &ioError{underlying: err}
	}
	target, addr, err := operandresolver.ResolveStoreAddress(*o, v)
	if err != nil {
		return err
	}
	v.store(target, addr, value)
	return nil
}

func execWrite(v *VM, op *operand.Operand) error {
	o, err := requireOperand("WRITE", op)
	if err != nil {
		return err
	}
	value, err := operandresolver.ResolveValue(*o, v)
	if err != nil {
		return err
	}
	if err := v.output.Write(value); err != nil {
		return &ioError{underlying: err}
	}
	return nil
}
