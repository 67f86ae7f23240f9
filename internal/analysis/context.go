package analysis

import (
	"reflect"
	"sync"

	"github.com/ramtk/ram/internal/diagnostics"
	"github.com/ramtk/ram/internal/hir"
	"github.com/ramtk/ram/internal/types"
)

// Context is the state threaded through one Analyze call: the body every
// pass reads from, the accumulating diagnostic collection passes report
// into, and the cache of prior passes' results keyed by pass type.
type Context struct {
	body *hir.Body

	mu          sync.Mutex
	diagnostics []*diagnostics.Diagnostic
	results     map[reflect.Type]any
}

func newContext(body *hir.Body) *Context {
	return &Context{body: body, results: map[reflect.Type]any{}}
}

// Body returns the body under analysis.
func (c *Context) Body() *hir.Body { return c.body }

// Diagnostics returns every diagnostic reported so far, in issuance order.
func (c *Context) Diagnostics() []*diagnostics.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*diagnostics.Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// Error reports an error-severity diagnostic at span (the zero span if the
// body doesn't carry span information for the construct being flagged).
func (c *Context) Error(message, help string, span types.TextRange) {
	c.report(diagnostics.NewError(message, help, span))
}

// Warning reports a warning-severity diagnostic.
func (c *Context) Warning(message, help string, span types.TextRange) {
	c.report(diagnostics.NewWarning(message, help, span))
}

// Info reports an advice-severity diagnostic — the framework's "info" level
// maps onto diagnostics.Advice, the closest of the three built-in
// severities to a non-actionable observation.
func (c *Context) Info(message, help string, span types.TextRange) {
	c.report(diagnostics.NewAdvice(message, help, span))
}

func (c *Context) report(d *diagnostics.Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, d)
}

func (c *Context) result(key reflect.Type) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.results[key]
	return v, ok
}

func (c *Context) setResult(key reflect.Type, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[key] = value
}
