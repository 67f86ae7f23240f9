package analysis

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/ramtk/ram/internal/hir"
)

type registration struct {
	pass  Pass
	order int
}

// Pipeline holds a set of registered passes and runs them, for a given
// body, in an order that respects their declared dependencies.
type Pipeline struct {
	passes map[reflect.Type]*registration
	order  []reflect.Type // registration order, for tie-breaking
}

// NewPipeline builds an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{passes: map[reflect.Type]*registration{}}
}

// Register adds pass to the pipeline. Every dependency pass declares must
// already be registered — dependencies are registered before their
// dependents, never the reverse, so a dependency cycle is impossible to
// construct through this API (Analyze still checks, as a backstop against a
// pass lying about its own dependencies at a type level).
func (p *Pipeline) Register(pass Pass) error {
	key := passType(pass)
	if _, exists := p.passes[key]; exists {
		return &Error{Kind: ErrPassAlreadyRegistered, PassName: pass.Name()}
	}
	for _, dep := range pass.Dependencies() {
		if _, ok := p.passes[dep]; !ok {
			return &Error{Kind: ErrPassNotRegistered, PassName: pass.Name(), Underlying: fmt.Errorf("dependency %s is not registered", dep.Name())}
		}
	}
	p.passes[key] = &registration{pass: pass, order: len(p.order)}
	p.order = append(p.order, key)
	return nil
}

// PassNames returns every registered pass's Name(), in registration order.
func (p *Pipeline) PassNames() []string {
	names := make([]string, len(p.order))
	for i, key := range p.order {
		names[i] = p.passes[key].pass.Name()
	}
	return names
}

// executionOrder computes a valid run order: a topological sort of the
// dependency graph, breaking ties first by Priority (lower first), then by
// registration order.
func (p *Pipeline) executionOrder() ([]reflect.Type, error) {
	inDegree := map[reflect.Type]int{}
	dependents := map[reflect.Type][]reflect.Type{}
	for key, reg := range p.passes {
		if _, ok := inDegree[key]; !ok {
			inDegree[key] = 0
		}
		for _, dep := range reg.pass.Dependencies() {
			inDegree[key]++
			dependents[dep] = append(dependents[dep], key)
		}
	}

	var ready []reflect.Type
	for key, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, key)
		}
	}
	rank := func(t reflect.Type) (uint32, int) {
		reg := p.passes[t]
		return reg.pass.Priority(), reg.order
	}
	sortReady := func() {
		sort.Slice(ready, func(i, j int) bool {
			pi, oi := rank(ready[i])
			pj, oj := rank(ready[j])
			if pi != pj {
				return pi < pj
			}
			return oi < oj
		})
	}

	var order []reflect.Type
	sortReady()
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)
		for _, dependent := range dependents[next] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
		sortReady()
	}

	if len(order) != len(p.passes) {
		return nil, &Error{Kind: ErrDependencyCycle, PassName: "pipeline"}
	}
	return order, nil
}

// Analyze runs every registered pass, in dependency order, over body.
// Each pass runs at most once; its result is cached in the returned Context
// under its own type, for later passes and the caller to retrieve with
// GetResult.
func (p *Pipeline) Analyze(body *hir.Body) (*Context, error) {
	order, err := p.executionOrder()
	if err != nil {
		return nil, err
	}

	ctx := newContext(body)
	for _, key := range order {
		pass := p.passes[key].pass
		out, err := pass.Run(ctx)
		if err != nil {
			return ctx, &Error{Kind: ErrPassFailed, PassName: pass.Name(), Underlying: err}
		}
		ctx.setResult(key, out)
	}
	return ctx, nil
}
