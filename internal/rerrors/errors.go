// Package rerrors defines the toolkit's fatal error taxonomy: typed errors
// that abort a compiler stage rather than being recorded as a diagnostic and
// recovered from. Named rerrors (not errors) to avoid colliding with the
// stdlib errors import alias used throughout the rest of the module.
//
// The recoverable half of the error surface — lex errors, parse errors
// anchored at a span, unattached doc comments — is never represented here;
// it is carried as diagnostics.Diagnostic values produced alongside a
// best-effort parse tree, per the parser's never-abort recovery policy.
package rerrors

import (
	"fmt"
	"time"

	"github.com/ramtk/ram/internal/types"
)

// Kind classifies a fatal error independent of which stage raised it, so
// callers can pattern-match on Kind without caring whether it came from
// lowering, the analysis pipeline, or the VM.
type Kind string

const (
	KindDependencyCycle     Kind = "dependency_cycle"
	KindMissingDependency   Kind = "missing_dependency"
	KindDivisionByZero      Kind = "division_by_zero"
	KindInvalidMemoryAccess Kind = "invalid_memory_access"
	KindIoError             Kind = "io_error"
)

// ParseError reports a fatal failure in the parsing stage that is not a
// recoverable syntax error — e.g. the source could not be read at all.
type ParseError struct {
	Kind       Kind
	FileID     types.FileID
	Underlying error
	Timestamp  time.Time
}

// NewParseError constructs a ParseError for the given file.
func NewParseError(kind Kind, fileID types.FileID, underlying error) *ParseError {
	return &ParseError{
		Kind:       kind,
		FileID:     fileID,
		Underlying: underlying,
		Timestamp:  time.Now(),
	}
}

func (e *ParseError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("parse error (%s) in file %d: %v", e.Kind, e.FileID, e.Underlying)
	}
	return fmt.Sprintf("parse error (%s) in file %d", e.Kind, e.FileID)
}

func (e *ParseError) Unwrap() error { return e.Underlying }

// LoweringError reports a fatal failure lowering an item tree or AST into a
// HIR body — an internal-consistency violation, not a user syntax mistake.
type LoweringError struct {
	Kind       Kind
	FileID     types.FileID
	Def        types.LocalDefId
	Underlying error
	Timestamp  time.Time
}

// NewLoweringError constructs a LoweringError anchored at a definition.
func NewLoweringError(kind Kind, fileID types.FileID, underlying error) *LoweringError {
	return &LoweringError{
		Kind:       kind,
		FileID:     fileID,
		Underlying: underlying,
		Timestamp:  time.Now(),
	}
}

// WithDef attaches the LocalDefId the error occurred while lowering.
func (e *LoweringError) WithDef(def types.LocalDefId) *LoweringError {
	e.Def = def
	return e
}

func (e *LoweringError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("lowering error (%s) in file %d at def %d: %v", e.Kind, e.FileID, e.Def, e.Underlying)
	}
	return fmt.Sprintf("lowering error (%s) in file %d at def %d", e.Kind, e.FileID, e.Def)
}

func (e *LoweringError) Unwrap() error { return e.Underlying }

// PipelineError reports a fatal failure registering or running the analysis
// pass pipeline: a pass dependency cycle, or a pass registered before a
// dependency it declares.
type PipelineError struct {
	Kind       Kind
	PassName   string
	Underlying error
	Timestamp  time.Time
}

// NewPipelineError constructs a PipelineError for the named pass.
func NewPipelineError(kind Kind, passName string) *PipelineError {
	return &PipelineError{
		Kind:      kind,
		PassName:  passName,
		Timestamp: time.Now(),
	}
}

// WithUnderlying attaches a wrapped cause.
func (e *PipelineError) WithUnderlying(err error) *PipelineError {
	e.Underlying = err
	return e
}

func (e *PipelineError) Error() string {
	switch e.Kind {
	case KindDependencyCycle:
		return fmt.Sprintf("pipeline error: dependency cycle involving pass %q", e.PassName)
	case KindMissingDependency:
		return fmt.Sprintf("pipeline error: pass %q depends on a pass that is not registered", e.PassName)
	default:
		if e.Underlying != nil {
			return fmt.Sprintf("pipeline error (%s) in pass %q: %v", e.Kind, e.PassName, e.Underlying)
		}
		return fmt.Sprintf("pipeline error (%s) in pass %q", e.Kind, e.PassName)
	}
}

func (e *PipelineError) Unwrap() error { return e.Underlying }

// VMError reports a fatal failure executing the virtual machine: division
// by zero, an invalid memory access, or an I/O failure on Input/Output.
type VMError struct {
	Kind       Kind
	PC         int
	Underlying error
	Timestamp  time.Time
}

// NewVMError constructs a VMError at the given program counter.
func NewVMError(kind Kind, pc int) *VMError {
	return &VMError{
		Kind:      kind,
		PC:        pc,
		Timestamp: time.Now(),
	}
}

// WithUnderlying attaches a wrapped cause (e.g. an io.Reader failure).
func (e *VMError) WithUnderlying(err error) *VMError {
	e.Underlying = err
	return e
}

func (e *VMError) Error() string {
	switch e.Kind {
	case KindDivisionByZero:
		return fmt.Sprintf("division by zero at instruction %d", e.PC)
	case KindInvalidMemoryAccess:
		return fmt.Sprintf("invalid memory access at instruction %d", e.PC)
	case KindIoError:
		if e.Underlying != nil {
			return fmt.Sprintf("I/O error at instruction %d: %v", e.PC, e.Underlying)
		}
		return fmt.Sprintf("I/O error at instruction %d", e.PC)
	default:
		return fmt.Sprintf("VM error (%s) at instruction %d", e.Kind, e.PC)
	}
}

func (e *VMError) Unwrap() error { return e.Underlying }

// MultiError aggregates multiple fatal errors raised in the same operation
// (e.g. running a batch of files through the pipeline, some of which fail).
type MultiError struct {
	Errors []error
}

// NewMultiError builds a MultiError from errs, dropping any nils. Returns
// nil if no non-nil error remains, so callers can write
// `if err := NewMultiError(errs); err != nil { return err }`.
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return &MultiError{Errors: filtered}
}

func (m *MultiError) Error() string {
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred, first: %v", len(m.Errors), m.Errors[0])
}

func (m *MultiError) Unwrap() []error { return m.Errors }
