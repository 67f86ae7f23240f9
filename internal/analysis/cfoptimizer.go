package analysis

import "reflect"

// OptimizedControlFlowGraph is a copy of a ControlFlowGraph with the
// provably-dead branch of each decided conditional removed.
type OptimizedControlFlowGraph struct {
	CFG            *ControlFlowGraph
	OptimizedEdges map[int]BranchTaken
}

// ControlFlowOptimizer removes the conditional edge ConstantPropagation
// proved unreachable from a clone of the control-flow graph; newly
// unreachable blocks follow as a consequence and show up through the
// clone's own FindUnreachableNodes.
type ControlFlowOptimizer struct{}

func (ControlFlowOptimizer) Name() string { return "ControlFlowOptimizer" }
func (ControlFlowOptimizer) Description() string {
	return "removes statically-dead branch edges from a cloned control-flow graph"
}
func (ControlFlowOptimizer) Priority() uint32 { return 0 }
func (ControlFlowOptimizer) Dependencies() []reflect.Type {
	return []reflect.Type{DependencyOf[ControlFlowAnalysis](), DependencyOf[ConstantPropagationAnalysis]()}
}

func (ControlFlowOptimizer) Run(ctx *Context) (any, error) {
	cfg, err := GetResult[ControlFlowAnalysis, *ControlFlowGraph](ctx)
	if err != nil {
		return nil, err
	}
	cp, err := GetResult[ConstantPropagationAnalysis, *ConstantPropagationResult](ctx)
	if err != nil {
		return nil, err
	}

	clone := cloneGraph(cfg)
	for instr, taken := range cp.OptimizedEdges {
		kill := ConditionalFalse
		if taken == BranchNever {
			kill = ConditionalTrue
		}
		clone.removeEdge(instr, kill)
	}
	clone.BasicBlocks = identifyBasicBlocks(clone)

	return &OptimizedControlFlowGraph{CFG: clone, OptimizedEdges: cp.OptimizedEdges}, nil
}

func cloneGraph(g *ControlFlowGraph) *ControlFlowGraph {
	clone := newGraph(g.NodeCount)
	clone.Entry = g.Entry
	clone.HasEntry = g.HasEntry
	for _, e := range g.Edges {
		clone.addEdge(e)
	}
	return clone
}

// removeEdge drops the first outgoing edge of kind from instruction, both
// from the flat edge list and the adjacency maps.
func (g *ControlFlowGraph) removeEdge(from int, kind EdgeKind) {
	filtered := g.out[from][:0]
	var dropped *Edge
	for _, e := range g.out[from] {
		if dropped == nil && e.Kind == kind {
			d := e
			dropped = &d
			continue
		}
		filtered = append(filtered, e)
	}
	g.out[from] = filtered
	if dropped == nil {
		return
	}

	g.in[dropped.To] = removeFirst(g.in[dropped.To], *dropped)

	for idx, e := range g.Edges {
		if e == *dropped {
			g.Edges = append(g.Edges[:idx], g.Edges[idx+1:]...)
			break
		}
	}
}

func removeFirst(edges []Edge, target Edge) []Edge {
	for i, e := range edges {
		if e == target {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return edges
}
