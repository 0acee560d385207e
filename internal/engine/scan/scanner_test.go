package scan_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cppm/internal/adapters/defstore"
	"go.trai.ch/cppm/internal/adapters/fs"
	"go.trai.ch/cppm/internal/adapters/tlog"
	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/cppm/internal/core/ports/mocks"
	"go.trai.ch/cppm/internal/engine/scan"
	"go.uber.org/mock/gomock"
)

type scanFixture struct {
	project  *domain.Project
	executor *mocks.MockExecutor
	metrics  *mocks.MockMetrics
	defs     *defstore.JSONStore
	scanner  *scan.Scanner
}

func newScanFixture(t *testing.T) *scanFixture {
	t.Helper()

	dir := t.TempDir()
	old := time.Now().Add(-time.Hour)
	var sources []string
	for _, name := range []string{"A.ixx", "B.cpp"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("// "+name), domain.FilePerm))
		require.NoError(t, os.Chtimes(path, old, old))
		sources = append(sources, path)
	}

	project := &domain.Project{
		Name:    "app",
		Dir:     dir,
		IntDir:  filepath.Join(dir, domain.IntermediateDirName),
		Sources: sources,
		Toolchain: domain.Toolchain{
			Kind:               domain.ToolchainClang,
			Compiler:           "clang++",
			Scanner:            "cppm-test-scanner-not-installed",
			InterfaceExtension: ".pcm",
			ObjectExtension:    ".o",
		},
		Options: map[string][]string{"language_standard": {"c++20"}},
	}

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	executor := mocks.NewMockExecutor(ctrl)
	metrics := mocks.NewMockMetrics(ctrl)
	defs := defstore.NewJSONStore(logger)

	return &scanFixture{
		project:  project,
		executor: executor,
		metrics:  metrics,
		defs:     defs,
		scanner:  scan.New(executor, defs, tlog.New(), fs.NewOS(), metrics, logger),
	}
}

func (f *scanFixture) output() string {
	a, b := f.project.Sources[0], f.project.Sources[1]
	return ":::: " + a + "\n:exp A\n" + a + "\n" +
		":::: " + b + "\n:imp A\n"
}

func TestScanner_Preprocess(t *testing.T) {
	t.Parallel()

	f := newScanFixture(t)
	f.metrics.EXPECT().SourcesScanned(2)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv ports.Invocation) (ports.Result, error) {
			assert.True(t, inv.CaptureStdout, "scanner stdout carries the protocol")
			assert.Equal(t, f.project.Dir, inv.Dir)
			assert.Contains(t, inv.Command, f.project.CompilationDatabaseFile())

			data, err := os.ReadFile(f.project.CompilationDatabaseFile())
			require.NoError(t, err)
			var db []map[string]string
			require.NoError(t, json.Unmarshal(data, &db))
			require.Len(t, db, 2)
			assert.Equal(t, f.project.Sources[0], db[0]["file"])
			assert.Equal(t, f.project.Dir, db[0]["directory"])
			assert.Contains(t, db[0]["command"], "-std=c++20")

			return ports.Result{Stdout: []byte(f.output())}, nil
		})

	entries, err := f.scanner.Preprocess(context.Background(), f.project)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0].ExportedModule)
	assert.Equal(t, []string{"A"}, entries[1].ImportedModules)

	def, err := f.defs.Get(f.project, f.project.Sources[0])
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "A", def.ExportedModule)
	assert.Equal(t, f.project.InterfaceArtifact("A"), def.InterfaceArtifact)

	// Nothing changed, so a second pass has nothing to scan.
	ood, err := f.scanner.OutOfDate(f.project)
	require.NoError(t, err)
	assert.Empty(t, ood)

	// Changing the options changes every compile command.
	f.project.Options["language_standard"] = []string{"c++23"}
	ood, err = f.scanner.OutOfDate(f.project)
	require.NoError(t, err)
	assert.Equal(t, f.project.Sources, ood)
}

func TestScanner_TouchedSourceIsRescanned(t *testing.T) {
	t.Parallel()

	f := newScanFixture(t)
	f.metrics.EXPECT().SourcesScanned(2)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(ports.Result{Stdout: []byte(f.output())}, nil)

	_, err := f.scanner.Preprocess(context.Background(), f.project)
	require.NoError(t, err)

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(f.project.Sources[1], later, later))

	ood, err := f.scanner.OutOfDate(f.project)
	require.NoError(t, err)
	assert.Equal(t, []string{f.project.Sources[1]}, ood)
}

func TestScanner_PartialFailure(t *testing.T) {
	t.Parallel()

	f := newScanFixture(t)
	a := f.project.Sources[0]
	f.metrics.EXPECT().SourcesScanned(1)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(
		ports.Result{ExitCode: 1, Stdout: []byte(":::: " + a + "\n:exp A\n")},
		errors.New("command failed"),
	)

	entries, err := f.scanner.Scan(context.Background(), f.project, f.project.Sources)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrScanFailure.Error())
	require.Len(t, entries, 1)

	def, err := f.defs.Get(f.project, a)
	require.NoError(t, err)
	require.NotNil(t, def, "finalized records survive a failed scan")

	ood, err := f.scanner.OutOfDate(f.project)
	require.NoError(t, err)
	assert.Equal(t, []string{f.project.Sources[1]}, ood)
}

func TestScanner_NothingToScan(t *testing.T) {
	t.Parallel()

	f := newScanFixture(t)
	entries, err := f.scanner.Scan(context.Background(), f.project, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
