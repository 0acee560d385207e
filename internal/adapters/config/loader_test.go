package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cppm/internal/adapters/config"
	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger)
}

func TestLoader_Load_Standalone(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	createFile(t, root, "src/a.ixx", "export module A;")
	createFile(t, root, "src/main.cpp", "import A;")
	createFile(t, root, "include/legacy.h", "#pragma once")
	createFile(t, root, domain.ProjectFileName, `
version: "1"
project: app
sources: ["src/*.ixx", "src/*.cpp"]
header_units: ["include/legacy.h"]
options:
  language_standard: c++20
  include_dirs: [include, third_party]
`)

	projects, err := newLoader(t).Load(filepath.Join(root, "src"))
	require.NoError(t, err)
	require.Len(t, projects, 1)

	p := projects[0]
	assert.Equal(t, "app", p.Name)
	assert.Equal(t, root, p.Dir)
	assert.Equal(t, filepath.Join(root, domain.ProjectFileName), p.File)
	assert.Equal(t, filepath.Join(root, domain.IntermediateDirName), p.IntDir)
	assert.Equal(t, domain.StoreJSON, p.Store)
	assert.Equal(t, []string{
		filepath.Join(root, "include", "legacy.h"),
		filepath.Join(root, "src", "a.ixx"),
		filepath.Join(root, "src", "main.cpp"),
	}, p.Sources)
	assert.True(t, p.IsHeaderUnit(filepath.Join(root, "include", "legacy.h")))
	assert.Equal(t, []string{"c++20"}, p.Options["language_standard"])
	assert.Equal(t, []string{"include", "third_party"}, p.Options["include_dirs"])

	assert.Equal(t, domain.ToolchainClang, p.Toolchain.Kind)
	assert.Equal(t, "clang++", p.Toolchain.Compiler)
	assert.Equal(t, "clang-scan-deps", p.Toolchain.Scanner)
	assert.True(t, p.Toolchain.ExplicitStdModules)
	assert.Equal(t, ".pcm", p.Toolchain.InterfaceExtension)
	assert.Equal(t, ".o", p.Toolchain.ObjectExtension)
}

func TestLoader_Load_ReferenceClosure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	createFile(t, root, "base/base.ixx", "")
	createFile(t, root, "base/"+domain.ProjectFileName, `
project: base
sources: [base.ixx]
store: sqlite
`)
	createFile(t, root, "util/util.ixx", "")
	createFile(t, root, "util/"+domain.ProjectFileName, `
project: util
sources: [util.ixx]
references: [../base]
`)
	createFile(t, root, "app/main.cpp", "")
	createFile(t, root, "app/"+domain.ProjectFileName, `
project: app
sources: [main.cpp]
references: [../util, ../base]
toolchain:
  kind: msvc
`)

	projects, err := newLoader(t).Load(filepath.Join(root, "app"))
	require.NoError(t, err)

	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"app", "util", "base"}, names)
	assert.Equal(t, domain.StoreSQLite, projects[2].Store)

	app := projects[0]
	assert.Equal(t, domain.ToolchainMSVC, app.Toolchain.Kind)
	assert.Equal(t, "cl.exe", app.Toolchain.Compiler)
	assert.False(t, app.Toolchain.ExplicitStdModules)
	assert.Equal(t, ".ifc", app.Toolchain.InterfaceExtension)
	assert.Equal(t, ".obj", app.Toolchain.ObjectExtension)
	assert.Equal(t, []string{filepath.Join(root, "util"), filepath.Join(root, "base")}, app.References)
}

func TestLoader_Load_Workspace(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	createFile(t, root, domain.WorkFileName, `
version: "1"
projects: ["libs/*", "apps/*"]
toolchain:
  compiler: clang++-19
  options_version: "^1.0.0"
options:
  optimization: O2
  warnings: all
`)
	createFile(t, root, "libs/core/core.ixx", "")
	createFile(t, root, "libs/core/"+domain.ProjectFileName, `
project: core
sources: [core.ixx]
`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "libs", "empty"), domain.DirPerm))
	createFile(t, root, "apps/tool/main.cpp", "")
	createFile(t, root, "apps/tool/"+domain.ProjectFileName, `
project: tool
sources: [main.cpp]
references: [core]
options:
  optimization: O0
`)

	projects, err := newLoader(t).Load(filepath.Join(root, "apps", "tool"))
	require.NoError(t, err)
	require.Len(t, projects, 2)

	tool, core := projects[0], projects[1]
	assert.Equal(t, "tool", tool.Name)
	assert.Equal(t, "core", core.Name)
	assert.Equal(t, filepath.Join(root, "libs", "core"), core.Dir)

	assert.Equal(t, "clang++-19", tool.Toolchain.Compiler)
	assert.Equal(t, "^1.0.0", tool.Toolchain.OptionsVersion)
	assert.Equal(t, []string{"O0"}, tool.Options["optimization"])
	assert.Equal(t, []string{"all"}, tool.Options["warnings"])
	assert.Equal(t, []string{"O2"}, core.Options["optimization"])
}

func TestLoader_Load_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		files   map[string]string
		wantErr error
	}{
		{
			name:    "no project file",
			files:   map[string]string{},
			wantErr: domain.ErrConfigNotFound,
		},
		{
			name: "missing name",
			files: map[string]string{
				domain.ProjectFileName: "sources: [a.cpp]\n",
				"a.cpp":                "",
			},
			wantErr: domain.ErrMissingProjectName,
		},
		{
			name: "invalid name",
			files: map[string]string{
				domain.ProjectFileName: "project: \"a b\"\nsources: [a.cpp]\n",
				"a.cpp":                "",
			},
			wantErr: domain.ErrInvalidProjectName,
		},
		{
			name: "invalid yaml",
			files: map[string]string{
				domain.ProjectFileName: "project: [\n",
			},
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name: "missing literal source",
			files: map[string]string{
				domain.ProjectFileName: "project: app\nsources: [missing.cpp]\n",
			},
			wantErr: domain.ErrMissingSourceFile,
		},
		{
			name: "no sources",
			files: map[string]string{
				domain.ProjectFileName: "project: app\nsources: [\"src/*.cpp\"]\n",
			},
			wantErr: domain.ErrNoSources,
		},
		{
			name: "unknown toolchain",
			files: map[string]string{
				domain.ProjectFileName: "project: app\nsources: [a.cpp]\ntoolchain:\n  kind: gcc\n",
				"a.cpp":                "",
			},
			wantErr: domain.ErrInvalidToolchain,
		},
		{
			name: "unknown store",
			files: map[string]string{
				domain.ProjectFileName: "project: app\nsources: [a.cpp]\nstore: lmdb\n",
				"a.cpp":                "",
			},
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name: "missing reference",
			files: map[string]string{
				domain.ProjectFileName: "project: app\nsources: [a.cpp]\nreferences: [../nowhere]\n",
				"a.cpp":                "",
			},
			wantErr: domain.ErrReferenceNotFound,
		},
		{
			name: "duplicate names in closure",
			files: map[string]string{
				domain.ProjectFileName:          "project: app\nsources: [a.cpp]\nreferences: [lib]\n",
				"a.cpp":                         "",
				"lib/" + domain.ProjectFileName: "project: app\nsources: [b.cpp]\n",
				"lib/b.cpp":                     "",
			},
			wantErr: domain.ErrDuplicateProjectName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := filepath.Join(t.TempDir(), "project")
			require.NoError(t, os.MkdirAll(root, domain.DirPerm))
			for name, content := range tt.files {
				createFile(t, root, name, content)
			}

			_, err := newLoader(t).Load(root)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestLoader_Load_MapFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"ws/cppm.yaml":      {Data: []byte("project: mem\nsources: [\"src/*.cppm\"]\nintermediate_dir: /tmp/mem-int\n")},
		"ws/src/a.cppm":     {Data: []byte("export module a;")},
		"ws/src/b.cppm":     {Data: []byte("export module b;")},
		"ws/src/nested/c.h": {Data: []byte("")},
	}

	loader := newLoader(t)
	loader.FS = config.NewMapFSAdapter("/", fsys)

	projects, err := loader.Load("/ws/src")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, []string{"/ws/src/a.cppm", "/ws/src/b.cppm"}, projects[0].Sources)
	assert.Equal(t, "/tmp/mem-int", projects[0].IntDir)
}
