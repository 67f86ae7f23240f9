package operandresolver_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramtk/ram/internal/operand"
	"github.com/ramtk/ram/internal/operandresolver"
)

type fakeState struct {
	acc       int64
	registers map[int64]int64
	memory    map[int64]int64
	labels    map[string]int
}

func newFakeState() *fakeState {
	return &fakeState{registers: map[int64]int64{}, memory: map[int64]int64{}, labels: map[string]int{}}
}

func (s *fakeState) Accumulator() int64 { return s.acc }

func (s *fakeState) GetRegister(addr int64) (int64, error) {
	return s.registers[addr], nil
}

func (s *fakeState) GetMemory(addr int64) (int64, error) {
	return s.memory[addr], nil
}

func (s *fakeState) ResolveLabel(name string) (int, error) {
	pc, ok := s.labels[name]
	if !ok {
		return 0, fmt.Errorf("unknown label %q", name)
	}
	return pc, nil
}

func TestResolveValueDirectZeroIsAccumulator(t *testing.T) {
	st := newFakeState()
	st.acc = 7
	v, err := operandresolver.ResolveValue(operand.Operand{Kind: operand.Direct, Value: operand.NumberValue(0)}, st)
	require.NoError(t, err)
	assert.EqualValues(t, 7, v)
}

func TestResolveValueDirectRegister(t *testing.T) {
	st := newFakeState()
	st.registers[3] = 42
	v, err := operandresolver.ResolveValue(operand.Operand{Kind: operand.Direct, Value: operand.NumberValue(3)}, st)
	require.NoError(t, err)
	assert.EqualValues(t, 42, v)
}

func TestResolveValueIndirect(t *testing.T) {
	st := newFakeState()
	st.registers[1] = 100
	st.memory[100] = 9
	v, err := operandresolver.ResolveValue(operand.Operand{Kind: operand.Indirect, Value: operand.NumberValue(1)}, st)
	require.NoError(t, err)
	assert.EqualValues(t, 9, v)
}

func TestResolveValueImmediate(t *testing.T) {
	st := newFakeState()
	v, err := operandresolver.ResolveValue(operand.Operand{Kind: operand.Immediate, Value: operand.NumberValue(5)}, st)
	require.NoError(t, err)
	assert.EqualValues(t, 5, v)
}

func TestResolveValueImmediateIdentifierErrors(t *testing.T) {
	st := newFakeState()
	_, err := operandresolver.ResolveValue(operand.Operand{Kind: operand.Immediate, Value: operand.IdentifierValue("x")}, st)
	require.Error(t, err)
}

func TestResolveValueIndexed(t *testing.T) {
	st := newFakeState()
	st.registers[1] = 2
	st.memory[12] = 99
	v, err := operandresolver.ResolveValue(operand.Operand{Kind: operand.Indexed, Value: operand.IndexedValue(10, 1)}, st)
	require.NoError(t, err)
	assert.EqualValues(t, 99, v)
}

func TestResolveStoreAddressDirectZeroIsAccumulator(t *testing.T) {
	st := newFakeState()
	target, addr, err := operandresolver.ResolveStoreAddress(operand.Operand{Kind: operand.Direct, Value: operand.NumberValue(0)}, st)
	require.NoError(t, err)
	assert.Equal(t, operandresolver.TargetAccumulator, target)
	assert.EqualValues(t, 0, addr)
}

func TestResolveStoreAddressDirectRegister(t *testing.T) {
	st := newFakeState()
	target, addr, err := operandresolver.ResolveStoreAddress(operand.Operand{Kind: operand.Direct, Value: operand.NumberValue(5)}, st)
	require.NoError(t, err)
	assert.Equal(t, operandresolver.TargetRegister, target)
	assert.EqualValues(t, 5, addr)
}

func TestResolveStoreAddressImmediateErrors(t *testing.T) {
	st := newFakeState()
	_, _, err := operandresolver.ResolveStoreAddress(operand.Operand{Kind: operand.Immediate, Value: operand.NumberValue(1)}, st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot store to an immediate value")
}

func TestResolveJumpTargetDirectNumberIsStringifiedAndLookedUpAsLabel(t *testing.T) {
	st := newFakeState()
	st.labels["12"] = 7
	pc, err := operandresolver.ResolveJumpTarget(operand.Operand{Kind: operand.Direct, Value: operand.NumberValue(12)}, st)
	require.NoError(t, err)
	assert.Equal(t, 7, pc)
}

func TestResolveJumpTargetDirectLabel(t *testing.T) {
	st := newFakeState()
	st.labels["loop"] = 4
	pc, err := operandresolver.ResolveJumpTarget(operand.Operand{Kind: operand.Direct, Value: operand.IdentifierValue("loop")}, st)
	require.NoError(t, err)
	assert.Equal(t, 4, pc)
}

func TestResolveJumpTargetRejectsNonDirect(t *testing.T) {
	st := newFakeState()
	_, err := operandresolver.ResolveJumpTarget(operand.Operand{Kind: operand.Immediate, Value: operand.NumberValue(1)}, st)
	require.Error(t, err)
}
