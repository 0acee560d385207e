// Package graph merges module maps into one graph of sources keyed by exported module name.
//
// Nodes live in an arena and are addressed by index. Import edges are resolved
// on first use because most of the graph is irrelevant to any one invocation.
// A Graph is built once per invocation and is not safe for concurrent use.
package graph

import (
	"path/filepath"

	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/zerr"
)

// NodeID addresses a node in its graph.
type NodeID int

// Node is one source of a loaded project plus its scheduling state.
type Node struct {
	ID      NodeID
	Entry   domain.ModuleMapEntry
	Project *domain.Project

	// Imports holds the resolved import edges, deduplicated, once resolved is set.
	Imports  []NodeID
	resolved bool

	// ImportedBy holds back-edges, populated only along rebuild paths.
	ImportedBy []NodeID

	Selected         bool
	OutOfDate        bool
	NeedsObject      bool
	NeedsInterface   bool
	InterfaceChanged bool
	PendingImports   int
	BuildFinished    bool
	Outcome          domain.Outcome
}

// HasWork reports whether the node itself must be rebuilt.
func (n *Node) HasWork() bool {
	return n.NeedsObject || n.NeedsInterface
}

// Graph is the merged module graph of one invocation.
type Graph struct {
	nodes   []Node
	modules map[string]NodeID
	sources map[string]NodeID
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		modules: make(map[string]NodeID),
		sources: make(map[string]NodeID),
	}
}

// AddMap adds one node per entry of a project's module map. A module name
// exported by two sources is a fatal error.
func (g *Graph) AddMap(project *domain.Project, m *domain.ModuleMap) error {
	for _, entry := range m.Entries {
		id := NodeID(len(g.nodes))
		if entry.Exports() {
			if other, ok := g.modules[entry.ExportedModule]; ok {
				err := zerr.With(domain.ErrDuplicateModule, "module", entry.ExportedModule)
				err = zerr.With(err, "source", entry.SourceFile)
				return zerr.With(err, "other_source", g.nodes[other].Entry.SourceFile)
			}
			g.modules[entry.ExportedModule] = id
		}
		g.sources[domain.PathKey(entry.SourceFile)] = id
		g.nodes = append(g.nodes, Node{
			ID:      id,
			Entry:   entry,
			Project: project,
			Outcome: domain.OutcomePending,
		})
	}
	return nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) *Node {
	return &g.nodes[id]
}

// LookupModule returns the node exporting a module.
func (g *Graph) LookupModule(name string) (NodeID, bool) {
	id, ok := g.modules[name]
	return id, ok
}

// LookupSource returns the node of a source file.
func (g *Graph) LookupSource(path string) (NodeID, bool) {
	id, ok := g.sources[domain.PathKey(path)]
	return id, ok
}

// ResolveImports returns the nodes the given node imports, resolving them on first call.
func (g *Graph) ResolveImports(id NodeID) ([]NodeID, error) {
	n := &g.nodes[id]
	if n.resolved {
		return n.Imports, nil
	}

	imports := make([]NodeID, 0, len(n.Entry.ImportedModules))
	seen := make(map[NodeID]bool, len(n.Entry.ImportedModules))
	for _, module := range n.Entry.ImportedModules {
		dep, ok := g.modules[module]
		if !ok {
			err := zerr.With(domain.ErrUnresolvedImport, "module", module)
			return nil, zerr.With(err, "source", n.Entry.SourceFile)
		}
		if dep == id {
			label := g.Label(id)
			err := zerr.With(domain.ErrImportCycle, "cycle", label+" -> "+label)
			return nil, zerr.With(err, "module", module)
		}
		if seen[dep] {
			continue
		}
		seen[dep] = true
		imports = append(imports, dep)
	}
	n.Imports = imports
	n.resolved = true
	return imports, nil
}

// Label names a node for display as project/relative-source.
func (g *Graph) Label(id NodeID) string {
	n := &g.nodes[id]
	rel, err := filepath.Rel(n.Project.Dir, n.Entry.SourceFile)
	if err != nil {
		rel = n.Entry.SourceFile
	}
	return n.Project.Name + "/" + filepath.ToSlash(rel)
}

// Reference returns the reference importers of the node pass to the compiler.
func (g *Graph) Reference(id NodeID) domain.ModuleReference {
	n := &g.nodes[id]
	return domain.ModuleReference{
		Module:     n.Entry.ExportedModule,
		Artifact:   n.Entry.InterfaceArtifact,
		HeaderUnit: n.Entry.IsHeaderUnit,
	}
}
