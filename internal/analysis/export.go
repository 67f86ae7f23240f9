package analysis

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/jsonschema-go/jsonschema"
)

// Format selects the serialization an export function renders.
type Format uint8

const (
	FormatDOT Format = iota
	FormatMermaid
	FormatJSON
)

// graphSchema declares the shape of a JSON-exported dependency or
// execution-order graph: a list of named nodes and a list of edges between
// node indices. CFG and pipeline JSON export below is validated against this schema
// before being handed to the caller, so a shape bug in the exporter fails
// loudly here instead of producing silently malformed operator tooling
// input.
var graphSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"nodes", "edges"},
	Properties: map[string]*jsonschema.Schema{
		"nodes": {
			Type:  "array",
			Items: &jsonschema.Schema{Type: "string"},
		},
		"edges": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type:     "object",
				Required: []string{"from", "to"},
				Properties: map[string]*jsonschema.Schema{
					"from":  {Type: "integer"},
					"to":    {Type: "integer"},
					"label": {Type: "string"},
				},
			},
		},
	},
}

type graphNode struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Label string `json:"label,omitempty"`
}

type graphExport struct {
	Nodes []string    `json:"nodes"`
	Edges []graphNode `json:"edges"`
}

func validateGraphExport(data []byte) error {
	resolved, err := graphSchema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("analysis: resolving export schema: %w", err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("analysis: export is not valid JSON: %w", err)
	}
	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("analysis: export does not match schema: %w", err)
	}
	return nil
}

// ExportJSON renders the control-flow graph as schema-validated JSON.
func (g *ControlFlowGraph) ExportJSON() ([]byte, error) {
	export := graphExport{Nodes: make([]string, g.NodeCount)}
	for i := range export.Nodes {
		export.Nodes[i] = fmt.Sprintf("%d", i)
	}
	for _, e := range g.Edges {
		export.Edges = append(export.Edges, graphNode{From: e.From, To: e.To, Label: e.Kind.String()})
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := validateGraphExport(data); err != nil {
		return nil, err
	}
	return data, nil
}

// ExportDependencyGraph renders the pipeline's pass-dependency graph (an
// edge from each dependency to its dependent) in the requested format.
func (p *Pipeline) ExportDependencyGraph(format Format) (string, error) {
	var keys []reflect.Type
	for k := range p.passes {
		keys = append(keys, k)
	}
	nameOf := func(t reflect.Type) string { return p.passes[t].pass.Name() }

	type edge struct{ from, to string }
	var edges []edge
	for _, k := range keys {
		for _, dep := range p.passes[k].pass.Dependencies() {
			edges = append(edges, edge{from: nameOf(dep), to: nameOf(k)})
		}
	}

	switch format {
	case FormatDOT:
		s := "digraph PassDependencies {\n"
		for _, k := range keys {
			s += fmt.Sprintf("  %q;\n", nameOf(k))
		}
		for _, e := range edges {
			s += fmt.Sprintf("  %q -> %q;\n", e.from, e.to)
		}
		s += "}\n"
		return s, nil
	case FormatMermaid:
		s := "flowchart TD\n"
		for _, e := range edges {
			s += fmt.Sprintf("  %s --> %s\n", mermaidID(e.from), mermaidID(e.to))
		}
		return s, nil
	case FormatJSON:
		export := graphExport{}
		for _, k := range keys {
			export.Nodes = append(export.Nodes, nameOf(k))
		}
		for _, e := range edges {
			export.Edges = append(export.Edges, graphNode{From: indexOf(export.Nodes, e.from), To: indexOf(export.Nodes, e.to)})
		}
		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return "", err
		}
		if err := validateGraphExport(data); err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("analysis: unknown export format %d", format)
	}
}

// ExportExecutionOrder renders the linear order Analyze would run passes in
// — a chain graph, one edge per adjacent pair — in the requested format.
func (p *Pipeline) ExportExecutionOrder(format Format) (string, error) {
	order, err := p.executionOrder()
	if err != nil {
		return "", err
	}
	names := make([]string, len(order))
	for i, k := range order {
		names[i] = p.passes[k].pass.Name()
	}

	switch format {
	case FormatDOT:
		s := "digraph ExecutionOrder {\n"
		for i, n := range names {
			s += fmt.Sprintf("  %q;\n", n)
			if i > 0 {
				s += fmt.Sprintf("  %q -> %q;\n", names[i-1], n)
			}
		}
		s += "}\n"
		return s, nil
	case FormatMermaid:
		s := "flowchart LR\n"
		for i := 1; i < len(names); i++ {
			s += fmt.Sprintf("  %s --> %s\n", mermaidID(names[i-1]), mermaidID(names[i]))
		}
		return s, nil
	case FormatJSON:
		export := graphExport{Nodes: names}
		for i := 1; i < len(names); i++ {
			export.Edges = append(export.Edges, graphNode{From: i - 1, To: i})
		}
		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return "", err
		}
		if err := validateGraphExport(data); err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("analysis: unknown export format %d", format)
	}
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func mermaidID(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r == ' ' || r == '-' || r == '.' {
			out = append(out, '_')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
