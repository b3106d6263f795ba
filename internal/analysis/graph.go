package analysis

import (
	"errors"
	"fmt"
	"io"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// Graph returns the dependency graph of universe. An edge from A to B means
// B depends on a fact A provides; the edge is labelled with the first such fact.
func Graph(universe []Module) (graph.Graph[string, string], error) {
	provided, err := providers(universe)
	if err != nil {
		return nil, err
	}
	g := graph.New(graph.StringHash, graph.Directed())
	for _, m := range universe {
		if err := g.AddVertex(m.Name()); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, err
		}
	}
	for _, m := range universe {
		for _, dep := range m.Depends() {
			p, ok := provided[dep]
			if !ok {
				return nil, fmt.Errorf("%w: %s requires %q", ErrUnresolvedDependency, m.Name(), dep)
			}
			err := g.AddEdge(p.Name(), m.Name(), graph.EdgeAttribute("label", dep))
			if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, err
			}
		}
	}
	return g, nil
}

// WriteDOT renders the dependency graph of universe in Graphviz DOT format
func WriteDOT(universe []Module, w io.Writer) error {
	g, err := Graph(universe)
	if err != nil {
		return err
	}
	return draw.DOT(g, w)
}
