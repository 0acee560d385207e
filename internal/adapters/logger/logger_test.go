package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cppm/internal/adapters/logger"
	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/zerr"
)

func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	l, ok := logger.New().(*logger.Logger)
	require.True(t, ok)
	l.SetOutput(&buf)
	return l, &buf
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newTestLogger(t)

	l.Debug("hidden")
	l.Info("scanning 3 sources")
	l.Warn("definition for a.cppm uses schema 2.0.0")

	assert.Equal(t, "scanning 3 sources\n! definition for a.cppm uses schema 2.0.0\n", buf.String())
}

func TestLogger_Verbose(t *testing.T) {
	l, buf := newTestLogger(t)
	l.SetVerbose(true)

	l.Debug("module map is current")

	assert.Equal(t, "● module map is current\n", buf.String())
}

func TestLogger_ErrorChain(t *testing.T) {
	l, buf := newTestLogger(t)

	err := zerr.With(zerr.Wrap(zerr.New("exit status 1"), domain.ErrCompileFailure.Error()), "source", "b.cppm")
	l.Error(err)

	want := "✗ Error: compile failed\n" +
		"       source: b.cppm\n\n" +
		"  Caused by:\n" +
		"    → exit status 1\n"
	assert.Equal(t, want, buf.String())
}

func TestLogger_ErrorNil(t *testing.T) {
	l, buf := newTestLogger(t)

	l.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	l, buf := newTestLogger(t)
	l.SetJSON(true)

	l.Info("build finished")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "build finished", record["msg"])
	assert.Equal(t, "INFO", record["level"])
}

func TestPrettyHandler_Attrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	log := slog.New(logger.NewPrettyHandler(&buf, nil)).WithGroup("node").With("project", "app")
	log.Info("compiled", "source", "main.cpp")

	assert.Equal(t, "compiled node.project=app node.source=main.cpp\n", buf.String())
}

func TestPrettyHandler_GroupValues(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	log := slog.New(logger.NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	log.WithGroup("plan").Debug("emitted",
		slog.Group("node", "module", "A", "source", "a.ixx"),
		slog.Attr{},
	)
	log.Warn("stale definition", "source", "b.cppm")

	want := "● emitted plan.node.module=A plan.node.source=a.ixx\n" +
		"! stale definition source=b.cppm\n"
	assert.Equal(t, want, buf.String())
}
