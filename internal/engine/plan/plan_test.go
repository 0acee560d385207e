package plan_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cppm/internal/adapters/fs"
	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports/mocks"
	"go.trai.ch/cppm/internal/engine/graph"
	"go.trai.ch/cppm/internal/engine/plan"
	"go.uber.org/mock/gomock"
)

func newProject(name, dir string) *domain.Project {
	return &domain.Project{
		Name:   name,
		Dir:    dir,
		IntDir: filepath.Join(dir, domain.IntermediateDirName),
		Toolchain: domain.Toolchain{
			Kind:               domain.ToolchainClang,
			Compiler:           "clang++",
			InterfaceExtension: ".pcm",
			ObjectExtension:    ".o",
		},
	}
}

func sampleGraph(t *testing.T, p *domain.Project) *graph.Graph {
	t.Helper()

	m := domain.NewModuleMap(p.Name)
	m.Add(domain.ModuleMapEntry{
		SourceFile: "/work/app/a.ixx",
		ModuleDefinition: domain.ModuleDefinition{
			Schema:            domain.SchemaVersion,
			ExportedModule:    "A",
			IncludedHeaders:   []string{"/work/app/include/my header.h"},
			InterfaceArtifact: "/work/app/.cppm/bmi/A.pcm",
			ObjectFile:        "/work/app/.cppm/obj/a.o",
			BuildCommand:      `clang++ -std=c++20 -DPRICE=$5 -c "/work/app/a.ixx" -o "/work/app/.cppm/obj/a.o"`,
		},
	})
	m.Add(domain.ModuleMapEntry{
		SourceFile: "/work/app/include/legacy.h",
		ModuleDefinition: domain.ModuleDefinition{
			Schema:            domain.SchemaVersion,
			ExportedModule:    "LEGACY",
			IsHeaderUnit:      true,
			InterfaceArtifact: "/work/app/.cppm/bmi/LEGACY.pcm",
			ObjectFile:        "/work/app/.cppm/obj/legacy.o",
			BuildCommand:      `clang++ -std=c++20 -c "/work/app/include/legacy.h" -o "/work/app/.cppm/obj/legacy.o"`,
		},
	})
	m.Add(domain.ModuleMapEntry{
		SourceFile: "/work/app/main.cpp",
		ModuleDefinition: domain.ModuleDefinition{
			Schema:          domain.SchemaVersion,
			ImportedModules: []string{"A", "LEGACY"},
			ImportedHeaders: []string{"/work/app/include/legacy.h"},
			ObjectFile:      "/work/app/.cppm/obj/main.o",
			BuildCommand:    `clang++ -std=c++20 -c "/work/app/main.cpp" -o "/work/app/.cppm/obj/main.o"`,
		},
	})

	g := graph.New()
	require.NoError(t, g.AddMap(p, m))
	return g
}

func TestRender(t *testing.T) {
	t.Parallel()

	p := newProject("app", "/work/app")
	g := sampleGraph(t, p)

	var buf bytes.Buffer
	require.NoError(t, plan.Render(&buf, g, p))

	gold := goldie.New(t)
	gold.Assert(t, "app", buf.Bytes())
}

func TestRenderAggregate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	plan.RenderAggregate(&buf, []*domain.Project{
		newProject("app", "/work/app"),
		newProject("base", "/work/my libs/base"),
	})

	gold := goldie.New(t)
	gold.Assert(t, "aggregate", buf.Bytes())
}

func TestRender_UnresolvedImport(t *testing.T) {
	t.Parallel()

	p := newProject("app", "/work/app")
	m := domain.NewModuleMap(p.Name)
	m.Add(domain.ModuleMapEntry{
		SourceFile: "/work/app/main.cpp",
		ModuleDefinition: domain.ModuleDefinition{
			ImportedModules: []string{"Missing"},
			ObjectFile:      "/work/app/.cppm/obj/main.o",
		},
	})
	g := graph.New()
	require.NoError(t, g.AddMap(p, m))

	var buf bytes.Buffer
	err := plan.Render(&buf, g, p)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrUnresolvedImport.Error())
}

func TestEmitter_Emit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	app := newProject("app", filepath.Join(dir, "app"))
	base := newProject("base", filepath.Join(dir, "base"))

	m := domain.NewModuleMap(base.Name)
	m.Add(domain.ModuleMapEntry{
		SourceFile: filepath.Join(base.Dir, "base.ixx"),
		ModuleDefinition: domain.ModuleDefinition{
			ExportedModule:    "Base",
			InterfaceArtifact: base.InterfaceArtifact("Base"),
			ObjectFile:        filepath.Join(base.IntDir, "obj", "base.o"),
		},
	})
	g := graph.New()
	require.NoError(t, g.AddMap(base, m))

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).Times(2)

	osfs := fs.NewOS()
	require.NoError(t, plan.New(osfs, logger).Emit(g, []*domain.Project{app, base}))

	data, ok, err := osfs.ReadFile(base.PlanFile())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(data), "build ")

	data, ok, err = osfs.ReadFile(app.PlanFile())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "rule cc\n  command = $cmd\n", string(data))

	data, ok, err = osfs.ReadFile(app.AggregatePlanFile())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(data), "subninja ")
	assert.Contains(t, string(data), "base/.cppm/build.ninja")
}

func TestEmitter_WriteFailure(t *testing.T) {
	t.Parallel()

	p := newProject("app", "/work/app")
	g := sampleGraph(t, p)

	ctrl := gomock.NewController(t)
	fsys := mocks.NewMockFileSystem(ctrl)
	fsys.EXPECT().WriteFile(p.PlanFile(), gomock.Any()).Return(assert.AnError)
	logger := mocks.NewMockLogger(ctrl)

	err := plan.New(fsys, logger).Emit(g, []*domain.Project{p})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrPlanWriteFailed.Error())
}
