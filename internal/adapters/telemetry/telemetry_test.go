package telemetry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/cppm/internal/adapters/telemetry"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/cppm/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// recordingRenderer is a simple test double for ports.Renderer.
type recordingRenderer struct {
	mu        sync.Mutex
	plans     [][]string
	started   []string
	logs      []byte
	completed []error
}

func (r *recordingRenderer) Start(_ context.Context) error { return nil }
func (r *recordingRenderer) Stop() error                   { return nil }
func (r *recordingRenderer) Wait() error                   { return nil }

func (r *recordingRenderer) OnPlanEmit(nodes []string, _ map[string][]string, _ []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans = append(r.plans, nodes)
}

func (r *recordingRenderer) OnTaskStart(_, _, name string, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, name)
}

func (r *recordingRenderer) OnTaskLog(_ string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, data...)
}

func (r *recordingRenderer) OnTaskComplete(_ string, _ time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, err)
}

func (r *recordingRenderer) logText() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return string(r.logs)
}

func TestOTelTracer_WithRenderer(t *testing.T) {
	renderer := &recordingRenderer{}
	tracer := telemetry.NewOTelTracer("test-tracer").WithRenderer(renderer)
	ctx := context.Background()

	tracer.EmitPlan(ctx, []string{"A.ixx", "B.ixx"}, map[string][]string{"B.ixx": {"A.ixx"}}, []string{"B.ixx"})
	assert.Equal(t, [][]string{{"A.ixx", "B.ixx"}}, renderer.plans)

	_, span := tracer.Start(ctx, "compile")
	_, err := span.Write([]byte("warning: unused variable\n"))
	require.NoError(t, err)
	span.End()

	require.NoError(t, tracer.Shutdown(ctx))
	assert.Equal(t, "warning: unused variable\n", renderer.logText())
}

func TestOTelTracer_ShutdownTwice(t *testing.T) {
	tracer := telemetry.NewOTelTracer("test-tracer")
	require.NoError(t, tracer.Shutdown(context.Background()))
	require.NoError(t, tracer.Shutdown(context.Background()))
}

func TestOTelTracer_SpanAttributes(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := telemetry.NewOTelTracer("test-tracer")
	ctx, root := tracer.Start(context.Background(), "schedule")
	tracer.EmitPlan(ctx, []string{"A.ixx"}, nil, []string{"A.ixx"})

	_, span := tracer.Start(ctx, "compile", ports.WithAttribute(telemetry.NodeAttribute, "A.ixx"))
	span.SetAttribute("interface_changed", true)
	span.SetAttribute("duration_ms", 12)
	span.SetAttribute("imports", []string{"std"})
	span.SetAttribute("other", 1.5)
	span.RecordError(errors.New("exit status 1"))
	_, _ = span.Write([]byte("log line"))
	span.End()
	root.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)

	compile := spans[0]
	assert.Equal(t, "compile", compile.Name())
	assert.Equal(t, codes.Error, compile.Status().Code)
	assert.Contains(t, compile.Attributes(), attribute.String(telemetry.NodeAttribute, "A.ixx"))
	assert.Contains(t, compile.Attributes(), attribute.Bool("interface_changed", true))
	assert.Contains(t, compile.Attributes(), attribute.Int("duration_ms", 12))

	schedule := spans[1]
	require.NotEmpty(t, schedule.Events())
	assert.Equal(t, "plan_emitted", schedule.Events()[0].Name)
}

func TestBridge_ForwardsSpans(t *testing.T) {
	renderer := &recordingRenderer{}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(renderer)))
	tracer := tp.Tracer("test-bridge")

	_, ok := tracer.Start(context.Background(), "compile",
		trace.WithAttributes(attribute.String(telemetry.NodeAttribute, "B.ixx")))
	ok.End()

	_, failed := tracer.Start(context.Background(), "scan")
	failed.SetStatus(codes.Error, "")
	failed.End()

	assert.Equal(t, []string{"B.ixx", "scan"}, renderer.started)
	require.Len(t, renderer.completed, 2)
	require.NoError(t, renderer.completed[0])
	require.EqualError(t, renderer.completed[1], "scan failed")
}

func TestBridge_NilRenderer(t *testing.T) {
	bridge := telemetry.NewBridge(nil)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))

	_, span := tp.Tracer("test").Start(context.Background(), "noop")
	span.End()

	require.NoError(t, bridge.ForceFlush(context.Background()))
	require.NoError(t, bridge.Shutdown(context.Background()))
}

func TestBridge_WithMockRenderer(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRenderer := mocks.NewMockRenderer(ctrl)
	mockRenderer.EXPECT().OnTaskStart(gomock.Any(), "", "link", gomock.Any()).Times(1)
	mockRenderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil).Times(1)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(mockRenderer)))
	_, span := tp.Tracer("test").Start(context.Background(), "link")
	span.End()
}

func TestNoOpTracer(t *testing.T) {
	t.Parallel()

	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()

	newCtx, span := tracer.Start(ctx, "scan")
	assert.Equal(t, ctx, newCtx)

	tracer.EmitPlan(ctx, []string{"a"}, nil, nil)
	span.SetAttribute("k", "v")
	span.RecordError(errors.New("ignored"))
	n, err := span.Write([]byte("data"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	span.End()
}
