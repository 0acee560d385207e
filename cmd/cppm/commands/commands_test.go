package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cppm/cmd/cppm/commands"
	"go.trai.ch/cppm/internal/app"
	"go.trai.ch/cppm/internal/build"
)

type mockApp struct {
	build   []app.BuildOptions
	watch   []app.BuildOptions
	project map[string]app.ProjectOptions
	err     error
}

func (m *mockApp) Build(_ context.Context, opts app.BuildOptions) error {
	m.build = append(m.build, opts)
	return m.err
}

func (m *mockApp) Watch(_ context.Context, opts app.BuildOptions) error {
	m.watch = append(m.watch, opts)
	return m.err
}

func (m *mockApp) Scan(_ context.Context, opts app.ProjectOptions) error {
	return m.record("scan", opts)
}

func (m *mockApp) Plan(_ context.Context, opts app.ProjectOptions) error {
	return m.record("plan", opts)
}

func (m *mockApp) Clean(_ context.Context, opts app.ProjectOptions) error {
	return m.record("clean", opts)
}

func (m *mockApp) record(name string, opts app.ProjectOptions) error {
	if m.project == nil {
		m.project = make(map[string]app.ProjectOptions)
	}
	m.project[name] = opts
	return m.err
}

type logConfig struct {
	json, verbose bool
}

func (l *logConfig) SetJSON(enable bool)    { l.json = enable }
func (l *logConfig) SetVerbose(enable bool) { l.verbose = enable }

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a, nil)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Build(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		mock := &mockApp{}
		_, err := execute(t, mock, "-C", "proj", "build", "-r", "-j", "4", "--plan",
			"--ci", "--metrics-file", "m.prom", "main.cpp")
		require.NoError(t, err)
		require.Len(t, mock.build, 1)
		assert.Equal(t, app.BuildOptions{
			Dir:         "proj",
			Targets:     []string{"main.cpp"},
			Recursive:   true,
			Jobs:        4,
			Plan:        true,
			MetricsFile: "m.prom",
			OutputMode:  "linear",
		}, mock.build[0])
	})

	t.Run("defaults", func(t *testing.T) {
		mock := &mockApp{}
		_, err := execute(t, mock, "build")
		require.NoError(t, err)
		require.Len(t, mock.build, 1)
		assert.Equal(t, ".", mock.build[0].Dir)
		assert.Equal(t, "auto", mock.build[0].OutputMode)
		assert.Empty(t, mock.build[0].Targets)
		assert.False(t, mock.build[0].Recursive)
	})

	t.Run("returns error on build failure", func(t *testing.T) {
		mock := &mockApp{err: errors.New("simulated error")}
		_, err := execute(t, mock, "build")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Watch(t *testing.T) {
	mock := &mockApp{}
	_, err := execute(t, mock, "watch", "-o", "tui", "a.cpp")
	require.NoError(t, err)
	require.Len(t, mock.watch, 1)
	assert.Equal(t, "tui", mock.watch[0].OutputMode)
	assert.Equal(t, []string{"a.cpp"}, mock.watch[0].Targets)
}

func TestCommands_ProjectCommands(t *testing.T) {
	for _, name := range []string{"scan", "plan", "clean"} {
		t.Run(name, func(t *testing.T) {
			mock := &mockApp{}
			_, err := execute(t, mock, "--dir", "/work", name, "--recursive")
			require.NoError(t, err)
			assert.Equal(t, app.ProjectOptions{Dir: "/work", Recursive: true}, mock.project[name])
		})
	}

	t.Run("rejects arguments", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "scan", "extra")
		require.Error(t, err)
	})
}

func TestCommands_LogFlags(t *testing.T) {
	log := &logConfig{}
	cli := commands.New(&mockApp{}, log)
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"--log-json", "--verbose", "scan"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, log.json)
	assert.True(t, log.verbose)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cppm version "+build.Version)
	assert.Contains(t, out, "(commit: "+build.Commit+", date: "+build.Date+")")
}
