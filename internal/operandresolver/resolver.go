// Package operandresolver turns a parsed operand into the concrete value,
// store target, or jump target the VM needs, given the VM's current state
// (registers, accumulator, label table). It is the one place addressing
// modes are interpreted, independent of both the parser and the VM loop.
package operandresolver

import (
	"fmt"
	"strconv"

	"github.com/ramtk/ram/internal/operand"
)

// State is the slice of VM state operand resolution needs: the
// accumulator, indexed register access, and label lookup. The VM
// implements this directly; tests can fake it.
type State interface {
	Accumulator() int64
	GetRegister(addr int64) (int64, error)
	GetMemory(addr int64) (int64, error)
	ResolveLabel(name string) (int, error)
}

// StoreTarget says which address space a resolved store targets.
type StoreTarget uint8

const (
	TargetRegister StoreTarget = iota
	TargetMemory
	TargetAccumulator
)

// Error reports a failure resolving an operand: an unknown label, an
// addressing mode that doesn't support the requested resolution (e.g.
// storing to an immediate), or a malformed indexed/immediate value.
type Error struct {
	Op     string
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Op, e.Reason) }

// ResolveValue reads op's value under st.
func ResolveValue(op operand.Operand, st State) (int64, error) {
	switch op.Kind {
	case operand.Direct:
		return resolveDirect(op.Value, st)
	case operand.Indirect:
		return resolveIndirect(op.Value, st)
	case operand.Immediate:
		return resolveImmediate(op.Value)
	case operand.Indexed:
		return resolveIndexedRead(op.Value, st)
	default:
		return 0, &Error{Op: "resolve", Reason: "unknown operand kind"}
	}
}

// ResolveStoreAddress resolves op to a (target, address) pair suitable for
// a STORE. Immediate operands can never be store targets.
func ResolveStoreAddress(op operand.Operand, st State) (StoreTarget, int64, error) {
	switch op.Kind {
	case operand.Direct:
		return resolveDirectStore(op.Value, st)
	case operand.Indirect:
		return resolveIndirectStore(op.Value, st)
	case operand.Indexed:
		return resolveIndexedStore(op.Value, st)
	case operand.Immediate:
		return 0, 0, &Error{Op: "store", Reason: "cannot store to an immediate value"}
	default:
		return 0, 0, &Error{Op: "store", Reason: "unknown operand kind"}
	}
}

// ResolveJumpTarget resolves op to an instruction index. Jump instructions
// only support direct addressing, and always treat their operand as a
// label name — even a bare numeric operand is stringified and looked up by
// that name, never used as a raw instruction index.
func ResolveJumpTarget(op operand.Operand, st State) (int, error) {
	if op.Kind != operand.Direct {
		return 0, &Error{Op: "jump", Reason: "jump instructions can only use direct addressing"}
	}
	v := op.Value
	if v.IsIndexed {
		return 0, &Error{Op: "jump", Reason: "invalid direct operand value (indexed) for jump"}
	}
	if v.IsNumber {
		return st.ResolveLabel(strconv.FormatInt(v.Number, 10))
	}
	return st.ResolveLabel(v.Identifier)
}

func addressOf(v operand.Value, st State) (int64, error) {
	if v.IsIndexed {
		return 0, &Error{Op: "resolve", Reason: "unexpected indexed value where a register address was expected"}
	}
	if v.IsNumber {
		return v.Number, nil
	}
	pc, err := st.ResolveLabel(v.Identifier)
	return int64(pc), err
}

func resolveDirect(v operand.Value, st State) (int64, error) {
	if v.IsIndexed {
		return 0, &Error{Op: "direct", Reason: "unexpected indexed value in direct operand"}
	}
	addr, err := addressOf(v, st)
	if err != nil {
		return 0, err
	}
	if addr == 0 {
		return st.Accumulator(), nil
	}
	return st.GetRegister(addr)
}

func resolveIndirect(v operand.Value, st State) (int64, error) {
	if v.IsIndexed {
		return 0, &Error{Op: "indirect", Reason: "unexpected indexed value in indirect operand"}
	}
	addr, err := addressOf(v, st)
	if err != nil {
		return 0, err
	}
	var ptr int64
	if addr == 0 {
		ptr = st.Accumulator()
	} else {
		ptr, err = st.GetRegister(addr)
		if err != nil {
			return 0, err
		}
	}
	return st.GetMemory(ptr)
}

func resolveImmediate(v operand.Value) (int64, error) {
	if v.IsIndexed {
		return 0, &Error{Op: "immediate", Reason: "unexpected indexed value in immediate operand"}
	}
	if v.IsNumber {
		return v.Number, nil
	}
	return 0, &Error{Op: "immediate", Reason: fmt.Sprintf("cannot use identifier %q as immediate value", v.Identifier)}
}

func resolveIndexedRead(v operand.Value, st State) (int64, error) {
	if !v.IsIndexed {
		return 0, &Error{Op: "indexed", Reason: "invalid indexed operand"}
	}
	idx, err := st.GetRegister(v.IndexReg)
	if err != nil {
		return 0, err
	}
	return st.GetMemory(v.Base + idx)
}

// resolveDirectStore resolves the final store address for a Direct operand.
// Address 0 aliases the accumulator, same as the read path: STORE 0 is a
// redundant but legal store to the accumulator, not a write to register 0.
func resolveDirectStore(v operand.Value, st State) (StoreTarget, int64, error) {
	if v.IsIndexed {
		return 0, 0, &Error{Op: "store", Reason: "invalid direct operand value (indexed) for store"}
	}
	addr, err := addressOf(v, st)
	if err != nil {
		return 0, 0, err
	}
	if addr == 0 {
		return TargetAccumulator, 0, nil
	}
	return TargetRegister, addr, nil
}

func resolveIndirectStore(v operand.Value, st State) (StoreTarget, int64, error) {
	if v.IsIndexed {
		return 0, 0, &Error{Op: "store", Reason: "invalid indirect operand value (indexed) for store"}
	}
	addr, err := addressOf(v, st)
	if err != nil {
		return 0, 0, err
	}
	var ptr int64
	if addr == 0 {
		ptr = st.Accumulator()
	} else {
		ptr, err = st.GetRegister(addr)
		if err != nil {
			return 0, 0, err
		}
	}
	return TargetMemory, ptr, nil
}

func resolveIndexedStore(v operand.Value, st State) (StoreTarget, int64, error) {
	if !v.IsIndexed {
		return 0, 0, &Error{Op: "store", Reason: "invalid indexed operand for store"}
	}
	idx, err := st.GetRegister(v.IndexReg)
	if err != nil {
		return 0, 0, err
	}
	return TargetMemory, v.Base + idx, nil
}
