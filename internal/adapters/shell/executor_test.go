package shell_test

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cppm/internal/adapters/shell"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/cppm/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newExecutor(t *testing.T) *shell.Executor {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell tests use POSIX sh")
	}
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return shell.NewExecutor(mockLogger)
}

func TestExecutor_Execute_PTYOutput(t *testing.T) {
	t.Parallel()
	executor := newExecutor(t)

	var streamed bytes.Buffer
	res, err := executor.Execute(context.Background(), ports.Invocation{
		Name:    "a.cpp",
		Command: "echo line1; echo line2 >&2",
		Dir:     t.TempDir(),
		Output:  &streamed,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, string(res.Output), "line1")
	assert.Contains(t, string(res.Output), "line2")
	assert.Empty(t, res.Stdout)
	assert.Equal(t, string(res.Output), streamed.String())
}

func TestExecutor_Execute_FragmentedOutput(t *testing.T) {
	t.Parallel()
	executor := newExecutor(t)

	res, err := executor.Execute(context.Background(), ports.Invocation{
		Command: "printf part1; sleep 0.1; echo part2",
	})
	require.NoError(t, err)
	assert.Contains(t, string(res.Output), "part1part2")
}

func TestExecutor_Execute_CaptureStdout(t *testing.T) {
	t.Parallel()
	executor := newExecutor(t)

	res, err := executor.Execute(context.Background(), ports.Invocation{
		Name:          "scan",
		Command:       "echo ':::: /src/a.cpp'; echo 'warning: unused' >&2",
		CaptureStdout: true,
	})
	require.NoError(t, err)

	assert.Equal(t, ":::: /src/a.cpp\n", string(res.Stdout))
	assert.Equal(t, "warning: unused\n", string(res.Output))
}

func TestExecutor_Execute_WorkingDir(t *testing.T) {
	t.Parallel()
	executor := newExecutor(t)
	dir := t.TempDir()

	res, err := executor.Execute(context.Background(), ports.Invocation{
		Command:       "pwd -P",
		Dir:           dir,
		CaptureStdout: true,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(string(res.Stdout)), strings.TrimPrefix(dir, "/private")))
}

func TestExecutor_Execute_ExitCode(t *testing.T) {
	t.Parallel()
	executor := newExecutor(t)

	res, err := executor.Execute(context.Background(), ports.Invocation{
		Command:       "echo broken >&2; exit 3",
		CaptureStdout: true,
	})
	require.Error(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "broken\n", string(res.Output))

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, 3, zErr.Metadata()["exit_code"])
}

func TestExecutor_Execute_EmptyCommand(t *testing.T) {
	t.Parallel()
	executor := newExecutor(t)

	_, err := executor.Execute(context.Background(), ports.Invocation{Name: "a.cpp", Command: "  "})
	require.Error(t, err)
	assert.ErrorContains(t, err, "empty command")
}

func TestExecutor_Execute_ContextCancel(t *testing.T) {
	t.Parallel()
	executor := newExecutor(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := executor.Execute(ctx, ports.Invocation{Command: "exec sleep 5"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestExecutor_Execute_LogsLines(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("shell tests use POSIX sh")
	}

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug("b.cpp: first").Times(1)
	mockLogger.EXPECT().Debug("b.cpp: tail").Times(1)

	_, err := shell.NewExecutor(mockLogger).Execute(context.Background(), ports.Invocation{
		Name:          "b.cpp",
		Command:       "printf 'first\\ntail' >&2",
		CaptureStdout: true,
	})
	require.NoError(t, err)
}
