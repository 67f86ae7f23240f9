// Package analysis implements the pipeline of static-analysis passes that
// run over a lowered HIR body: control-flow construction, data-flow
// liveness, accumulator constant propagation, dead-branch elimination, and
// instruction/operand validation. Passes declare dependencies on other
// passes by reflect.Type; the pipeline topologically orders them, runs each
// at most once per Analyze call, and caches results for later passes (and
// callers) to retrieve by type.
package analysis

import "reflect"

// Pass is one analysis stage. Name and Description are for diagnostics and
// graph export; Dependencies names the Pass types (via reflect.TypeOf on a
// zero value of the concrete pass type) that must run — and have their
// results cached — before this one runs. Priority breaks ties between
// passes that become runnable at the same topological level: lower values
// run first, with registration order breaking any remaining tie.
type Pass interface {
	Name() string
	Description() string
	Dependencies() []reflect.Type
	Priority() uint32
	Run(ctx *Context) (any, error)
}

// passType returns the reflect.Type key a pass is registered and cached
// under. A pass may be registered as a value or as a pointer; either way the
// key is the struct type, not the pointer type, which lets Dependencies()
// name other passes the same way whether declared from inside the package
// or from a caller building a custom pipeline.
func passType(p Pass) reflect.Type {
	t := reflect.TypeOf(p)
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

// DependencyOf returns the reflect.Type key for pass type T, for use in a
// Dependencies() implementation: `Dependencies() []reflect.Type { return
// []reflect.Type{analysis.DependencyOf[ControlFlowAnalysis]()} }`.
func DependencyOf[T any]() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

// GetResult retrieves the cached output of the pass type T from ctx,
// downcasting it to the type parameter R. Returns an error wrapping
// ErrResultNotAvailable or ErrDowncast if the dependency hasn't run or
// produced a different type than expected — a pass that calls this on an
// undeclared dependency has a bug the pipeline's registration-order check
// was supposed to prevent.
func GetResult[T any, R any](ctx *Context) (R, error) {
	var zero R
	key := DependencyOf[T]()
	raw, ok := ctx.result(key)
	if !ok {
		return zero, &Error{Kind: ErrResultNotAvailable, PassName: key.Name()}
	}
	v, ok := raw.(R)
	if !ok {
		return zero, &Error{Kind: ErrDowncast, PassName: key.Name()}
	}
	return v, nil
}
