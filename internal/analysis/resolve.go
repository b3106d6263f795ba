package analysis

import (
	"fmt"
	"slices"
	"strings"

	"github.com/apex/log"
	"github.com/dominikbraun/graph"
)

// node is a module being ordered together with the providers it still waits on
type node struct {
	module     Module
	unresolved []*node
}

// providers maps every fact name to the module of the universe providing it
func providers(universe []Module) (map[string]Module, error) {
	out := make(map[string]Module)
	for _, m := range universe {
		for _, fact := range m.Provides() {
			if other, ok := out[fact]; ok && other.Name() != m.Name() {
				return nil, fmt.Errorf("%w: %q by %s and %s", ErrDuplicateProvider, fact, other.Name(), m.Name())
			}
			out[fact] = m
		}
	}
	return out, nil
}

// Resolve orders the requested modules (all of universe when requested is
// empty) so that every module comes after the providers of its dependencies.
// Providers missing from the request are pulled in from the universe.
// Unknown requested names are logged and ignored.
//
// The order depends only on universe and requested, never on map iteration.
func Resolve(universe []Module, requested []string) ([]Module, error) {
	byName := make(map[string]Module, len(universe))
	for _, m := range universe {
		byName[m.Name()] = m
	}

	provided, err := providers(universe)
	if err != nil {
		return nil, err
	}

	var selected []Module
	seen := make(map[string]bool)
	add := func(m Module) {
		if !seen[m.Name()] {
			seen[m.Name()] = true
			selected = append(selected, m)
		}
	}
	if len(requested) == 0 {
		for _, m := range universe {
			add(m)
		}
	} else {
		for _, name := range requested {
			m, ok := byName[name]
			if !ok {
				log.Warnf("Module %s doesn't exist", name)
				continue
			}
			add(m)
		}
	}

	// expand with the providers of every dependency, transitively
	nodes := make(map[string]*node)
	var order []*node
	for i := 0; i < len(selected); i++ {
		m := selected[i]
		n := &node{module: m}
		nodes[m.Name()] = n
		order = append(order, n)
		for _, dep := range m.Depends() {
			p, ok := provided[dep]
			if !ok {
				return nil, fmt.Errorf("%w: %s requires %q", ErrUnresolvedDependency, m.Name(), dep)
			}
			add(p)
		}
	}

	for _, n := range order {
		for _, dep := range n.module.Depends() {
			p := nodes[provided[dep].Name()]
			if !slices.Contains(n.unresolved, p) {
				n.unresolved = append(n.unresolved, p)
			}
		}
	}

	// run leaves first
	var run []Module
	for len(order) > 0 {
		var remaining []*node
		for _, n := range order {
			if len(n.unresolved) > 0 {
				remaining = append(remaining, n)
				continue
			}
			run = append(run, n.module)
			for _, other := range order {
				other.unresolved = slices.DeleteFunc(other.unresolved, func(p *node) bool { return p == n })
			}
		}
		if len(remaining) == len(order) {
			return nil, cycleError(remaining)
		}
		order = remaining
	}

	return run, nil
}

// cycleError names the modules that form cycles among the stuck nodes
func cycleError(stuck []*node) error {
	g := graph.New(graph.StringHash, graph.Directed())
	for _, n := range stuck {
		_ = g.AddVertex(n.module.Name())
	}
	for _, n := range stuck {
		for _, p := range n.unresolved {
			_ = g.AddEdge(n.module.Name(), p.module.Name())
		}
	}

	var cycles []string
	if sccs, err := graph.StronglyConnectedComponents(g); err == nil {
		for _, scc := range sccs {
			if len(scc) == 1 && !selfLoop(stuck, scc[0]) {
				continue
			}
			slices.Sort(scc)
			cycles = append(cycles, "["+strings.Join(scc, ", ")+"]")
		}
	}
	slices.Sort(cycles)
	if len(cycles) == 0 {
		names := make([]string, 0, len(stuck))
		for _, n := range stuck {
			names = append(names, n.module.Name())
		}
		return fmt.Errorf("%w: can't resolve %s", ErrDependencyCycle, strings.Join(names, ", "))
	}
	return fmt.Errorf("%w: %s", ErrDependencyCycle, strings.Join(cycles, " "))
}

func selfLoop(stuck []*node, name string) bool {
	for _, n := range stuck {
		if n.module.Name() != name {
			continue
		}
		for _, p := range n.unresolved {
			if p == n {
				return true
			}
		}
	}
	return false
}
