package rerrors

import (
	"errors"
	"testing"

	"github.com/ramtk/ram/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestParseErrorError(t *testing.T) {
	underlying := errors.New("permission denied")
	err := NewParseError(KindIoError, types.FileID(3), underlying)

	assert.Contains(t, err.Error(), "file 3")
	assert.Contains(t, err.Error(), "permission denied")
	assert.ErrorIs(t, err, underlying)
}

func TestLoweringErrorWithDef(t *testing.T) {
	err := NewLoweringError(KindInvalidMemoryAccess, types.FileID(1), nil).WithDef(types.LocalDefId(7))

	assert.Equal(t, types.LocalDefId(7), err.Def)
	assert.Contains(t, err.Error(), "def 7")
}

func TestPipelineErrorDependencyCycle(t *testing.T) {
	err := NewPipelineError(KindDependencyCycle, "const_prop")
	assert.Contains(t, err.Error(), "dependency cycle")
	assert.Contains(t, err.Error(), "const_prop")
}

func TestPipelineErrorMissingDependency(t *testing.T) {
	err := NewPipelineError(KindMissingDependency, "branch_optimizer")
	assert.Contains(t, err.Error(), "not registered")
}

func TestVMErrorDivisionByZero(t *testing.T) {
	err := NewVMError(KindDivisionByZero, 42)
	assert.Equal(t, "division by zero at instruction 42", err.Error())
}

func TestVMErrorIoErrorWithUnderlying(t *testing.T) {
	underlying := errors.New("EOF")
	err := NewVMError(KindIoError, 5).WithUnderlying(underlying)
	assert.Contains(t, err.Error(), "EOF")
	assert.ErrorIs(t, err, underlying)
}

func TestMultiErrorFiltersNils(t *testing.T) {
	err := NewMultiError([]error{nil, errors.New("a"), nil, errors.New("b")})
	assert.Len(t, err.Errors, 2)
	assert.Contains(t, err.Error(), "2 errors occurred")
}

func TestMultiErrorAllNilReturnsNil(t *testing.T) {
	err := NewMultiError([]error{nil, nil})
	assert.Nil(t, err)
}

func TestMultiErrorSingleReturnsUnderlyingMessage(t *testing.T) {
	underlying := errors.New("only one")
	err := NewMultiError([]error{underlying})
	assert.Equal(t, "only one", err.Error())
}
