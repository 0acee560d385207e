package graph

import "go.trai.ch/cppm/internal/core/domain"

// Walker collects transitive imports. Each walk starts a new generation, so
// marks never need to be cleared between walks.
type Walker struct {
	g     *Graph
	marks []uint32
	gen   uint32
}

// NewWalker creates a walker over the graph.
func (g *Graph) NewWalker() *Walker {
	return &Walker{g: g, marks: make([]uint32, len(g.nodes))}
}

// TransitiveImports returns every node reachable through imports of root,
// excluding root, each once and dependencies before their importers.
func (w *Walker) TransitiveImports(root NodeID) ([]NodeID, error) {
	w.gen++
	if len(w.marks) < len(w.g.nodes) {
		w.marks = append(w.marks, make([]uint32, len(w.g.nodes)-len(w.marks))...)
	}

	type frame struct {
		id   NodeID
		next int
	}

	var order []NodeID
	w.marks[root] = w.gen
	stack := []frame{{id: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		imports, err := w.g.ResolveImports(top.id)
		if err != nil {
			return nil, err
		}
		if top.next < len(imports) {
			dep := imports[top.next]
			top.next++
			if w.marks[dep] != w.gen {
				w.marks[dep] = w.gen
				stack = append(stack, frame{id: dep})
			}
			continue
		}
		if top.id != root {
			order = append(order, top.id)
		}
		stack = stack[:len(stack)-1]
	}
	return order, nil
}

// References returns the module references needed to compile root.
func (w *Walker) References(root NodeID) ([]domain.ModuleReference, error) {
	deps, err := w.TransitiveImports(root)
	if err != nil {
		return nil, err
	}
	refs := make([]domain.ModuleReference, 0, len(deps))
	for _, id := range deps {
		refs = append(refs, w.g.Reference(id))
	}
	return refs, nil
}
