package scheduler

import (
	"strings"

	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/engine/graph"
	"go.trai.ch/cppm/internal/engine/staleness"
	"go.trai.ch/zerr"
)

type frame struct {
	id           graph.NodeID
	imports      []graph.NodeID
	next         int
	childPending bool
}

// mark walks the graph from the selected nodes in post order. Every node that
// must be rebuilt, or imports one that must, is linked to its pending imports.
// Pending nodes without pending imports are queued.
func (st *runState) mark() error {
	for _, id := range st.targets {
		st.g.Node(id).Selected = true
	}

	for _, root := range st.targets {
		if st.visited[root] {
			continue
		}
		if err := st.walk(root); err != nil {
			return err
		}
	}
	return nil
}

func (st *runState) walk(root graph.NodeID) error {
	first, err := st.enter(root)
	if err != nil {
		return err
	}
	stack := []frame{first}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.next < len(top.imports) {
			dep := top.imports[top.next]
			top.next++

			switch {
			case st.onStack[dep]:
				return st.cycle(stack, dep)
			case st.visited[dep]:
				st.link(top, dep)
			default:
				f, err := st.enter(dep)
				if err != nil {
					return err
				}
				stack = append(stack, f)
			}
			continue
		}

		st.leave(top)
		done := top.id
		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			st.link(&stack[len(stack)-1], done)
		}
	}
	return nil
}

func (st *runState) enter(id graph.NodeID) (frame, error) {
	st.visited[id] = true
	st.onStack[id] = true
	st.closure = append(st.closure, id)

	n := st.g.Node(id)
	if !st.scope[n.Project] {
		// Referenced projects outside the build are taken as built.
		return frame{id: id}, nil
	}

	imports, err := st.g.ResolveImports(id)
	if err != nil {
		return frame{}, err
	}

	outOfDate := st.stale[domain.PathKey(n.Entry.SourceFile)]
	if !outOfDate {
		outOfDate, err = st.importsChanged(id, imports)
		if err != nil {
			return frame{}, err
		}
	}
	if outOfDate {
		n.OutOfDate = true
		if n.Selected {
			n.NeedsObject = true
		} else {
			n.NeedsInterface = true
		}
	}

	return frame{id: id, imports: imports}, nil
}

// importsChanged compares the interface hashes recorded at the last compile
// with the current hashes of the direct imports.
func (st *runState) importsChanged(id graph.NodeID, imports []graph.NodeID) (bool, error) {
	info, err := st.info(id)
	if err != nil || info == nil {
		return false, err
	}
	current := make(map[string]string, len(imports))
	for _, dep := range imports {
		entry := st.g.Node(dep).Entry
		hash, err := st.currentHash(dep)
		if err != nil {
			return false, err
		}
		if hash != "" {
			current[entry.ExportedModule] = hash
		}
	}
	return staleness.ImportsChanged(info, current), nil
}

func (st *runState) link(parent *frame, dep graph.NodeID) {
	if !st.pending[dep] {
		return
	}
	parent.childPending = true
	st.g.Node(dep).ImportedBy = append(st.g.Node(dep).ImportedBy, parent.id)
	st.g.Node(parent.id).PendingImports++
}

func (st *runState) leave(f *frame) {
	st.onStack[f.id] = false

	n := st.g.Node(f.id)
	st.pending[f.id] = n.HasWork() || f.childPending
	switch {
	case !st.pending[f.id]:
		n.BuildFinished = true
		n.Outcome = domain.OutcomeUpToDate
	case n.PendingImports == 0:
		st.ready = append(st.ready, f.id)
	}
}

func (st *runState) cycle(stack []frame, dep graph.NodeID) error {
	var labels []string
	for i := range stack {
		if stack[i].id == dep || len(labels) > 0 {
			labels = append(labels, st.g.Label(stack[i].id))
		}
	}
	labels = append(labels, st.g.Label(dep))
	return zerr.With(domain.ErrImportCycle, "cycle", strings.Join(labels, " -> "))
}

// emitPlan announces the pending nodes and their pending imports.
func (st *runState) emitPlan() {
	var nodes []string
	deps := make(map[string][]string)
	for _, id := range st.closure {
		if !st.pending[id] {
			continue
		}
		label := st.g.Label(id)
		nodes = append(nodes, label)
		for _, dep := range st.g.Node(id).Imports {
			if st.pending[dep] {
				deps[label] = append(deps[label], st.g.Label(dep))
			}
		}
	}
	targets := make([]string, 0, len(st.targets))
	for _, id := range st.targets {
		targets = append(targets, st.g.Label(id))
	}
	st.s.tracer.EmitPlan(st.ctx, nodes, deps, targets)
}
