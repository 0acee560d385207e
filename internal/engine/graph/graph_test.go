package graph_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/engine/graph"
)

func project(name string) *domain.Project {
	dir := filepath.Join("/ws", name)
	return &domain.Project{
		Name:      name,
		Dir:       dir,
		IntDir:    filepath.Join(dir, domain.IntermediateDirName),
		Toolchain: domain.Toolchain{InterfaceExtension: ".pcm", ObjectExtension: ".o"},
	}
}

func entry(p *domain.Project, file, exports string, imports ...string) domain.ModuleMapEntry {
	e := domain.ModuleMapEntry{
		SourceFile: filepath.Join(p.Dir, file),
		ModuleDefinition: domain.ModuleDefinition{
			ExportedModule:  exports,
			ImportedModules: imports,
		},
	}
	if exports != "" {
		e.InterfaceArtifact = p.InterfaceArtifact(exports)
	}
	return e
}

func moduleMap(p *domain.Project, entries ...domain.ModuleMapEntry) *domain.ModuleMap {
	m := domain.NewModuleMap(p.Name)
	for _, e := range entries {
		m.Add(e)
	}
	return m
}

func TestGraph_AddMap(t *testing.T) {
	t.Parallel()

	base, app := project("base"), project("app")
	g := graph.New()
	require.NoError(t, g.AddMap(base, moduleMap(base, entry(base, "A.ixx", "A"))))
	require.NoError(t, g.AddMap(app, moduleMap(app, entry(app, "main.cpp", "", "A"))))

	assert.Equal(t, 2, g.Len())
	id, ok := g.LookupModule("A")
	require.True(t, ok)
	assert.Equal(t, "base/A.ixx", g.Label(id))

	id, ok = g.LookupSource("/WS/APP/MAIN.CPP")
	require.True(t, ok, "source lookup is case-insensitive")
	assert.Same(t, app, g.Node(id).Project)
	assert.Equal(t, domain.OutcomePending, g.Node(id).Outcome)
}

func TestGraph_DuplicateModule(t *testing.T) {
	t.Parallel()

	base, app := project("base"), project("app")
	g := graph.New()
	require.NoError(t, g.AddMap(base, moduleMap(base, entry(base, "A.ixx", "A"))))

	err := g.AddMap(app, moduleMap(app, entry(app, "other.ixx", "A")))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrDuplicateModule.Error())
}

func TestGraph_ResolveImports(t *testing.T) {
	t.Parallel()

	p := project("app")
	g := graph.New()
	require.NoError(t, g.AddMap(p, moduleMap(p,
		entry(p, "A.ixx", "A"),
		entry(p, "B.ixx", "B", "A", "A"),
		entry(p, "C.cpp", "", "B", "Missing"),
	)))

	b, _ := g.LookupModule("B")
	a, _ := g.LookupModule("A")
	imports, err := g.ResolveImports(b)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{a}, imports, "duplicate imports are dropped")

	c, _ := g.LookupSource(filepath.Join(p.Dir, "C.cpp"))
	_, err = g.ResolveImports(c)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrUnresolvedImport.Error())
}

func TestGraph_SelfImport(t *testing.T) {
	t.Parallel()

	p := project("app")
	g := graph.New()
	require.NoError(t, g.AddMap(p, moduleMap(p, entry(p, "A.ixx", "A", "A"))))

	a, _ := g.LookupModule("A")
	_, err := g.ResolveImports(a)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrImportCycle.Error())
}

func TestWalker_References(t *testing.T) {
	t.Parallel()

	// D imports B and C, both import A; E is a header unit imported by C.
	p := project("app")
	hu := entry(p, "legacy.h", "LEGACY")
	hu.IsHeaderUnit = true
	g := graph.New()
	require.NoError(t, g.AddMap(p, moduleMap(p,
		entry(p, "A.ixx", "A"),
		entry(p, "B.ixx", "B", "A"),
		entry(p, "C.ixx", "C", "A", "LEGACY"),
		hu,
		entry(p, "D.cpp", "", "B", "C"),
	)))

	d, _ := g.LookupSource(filepath.Join(p.Dir, "D.cpp"))
	w := g.NewWalker()

	for range 2 {
		refs, err := w.References(d)
		require.NoError(t, err)

		names := make([]string, 0, len(refs))
		for _, r := range refs {
			names = append(names, r.Module)
		}
		assert.Equal(t, []string{"A", "B", "LEGACY", "C"}, names, "each import once, dependencies first")
		assert.True(t, refs[2].HeaderUnit)
		assert.Equal(t, p.InterfaceArtifact("A"), refs[0].Artifact)
	}

	a, _ := g.LookupModule("A")
	refs, err := w.References(a)
	require.NoError(t, err)
	assert.Empty(t, refs)
}
