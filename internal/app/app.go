// Package app implements the application layer for cppm.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/cppm/internal/adapters/detector"
	"go.trai.ch/cppm/internal/adapters/linear"
	"go.trai.ch/cppm/internal/adapters/telemetry"
	"go.trai.ch/cppm/internal/adapters/tui"
	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/cppm/internal/engine/graph"
	"go.trai.ch/cppm/internal/engine/modmap"
	"go.trai.ch/cppm/internal/engine/plan"
	"go.trai.ch/cppm/internal/engine/scan"
	"go.trai.ch/cppm/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	loader    ports.ConfigLoader
	scanner   *scan.Scanner
	refresher *modmap.Refresher
	maps      ports.ModuleMapStore
	emitter   *plan.Emitter
	executor  ports.Executor
	store     ports.BuildInfoStore
	hasher    ports.Hasher
	fs        ports.FileSystem
	tlog      ports.TrackingLog
	metrics   ports.Metrics
	watcher   ports.Watcher
	logger    ports.Logger

	teaOptions []tea.ProgramOption
}

// Services groups the collaborators of an App.
type Services struct {
	Loader    ports.ConfigLoader
	Scanner   *scan.Scanner
	Refresher *modmap.Refresher
	Maps      ports.ModuleMapStore
	Emitter   *plan.Emitter
	Executor  ports.Executor
	Store     ports.BuildInfoStore
	Hasher    ports.Hasher
	FS        ports.FileSystem
	Tracking  ports.TrackingLog
	Metrics   ports.Metrics
	Watcher   ports.Watcher
	Logger    ports.Logger
}

// New creates a new App instance.
func New(s Services) *App {
	return &App{
		loader:    s.Loader,
		scanner:   s.Scanner,
		refresher: s.Refresher,
		maps:      s.Maps,
		emitter:   s.Emitter,
		executor:  s.Executor,
		store:     s.Store,
		hasher:    s.Hasher,
		fs:        s.FS,
		tlog:      s.Tracking,
		metrics:   s.Metrics,
		watcher:   s.Watcher,
		logger:    s.Logger,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// BuildOptions configures the Build method.
type BuildOptions struct {
	// Dir is the directory the project is discovered from.
	Dir string
	// Targets are source files to build. Empty means every source of the project.
	Targets []string
	// Recursive builds every referenced project as well.
	Recursive bool
	// Jobs bounds concurrent compiles. Zero means one per CPU.
	Jobs int
	// Plan writes the ninja build plans before compiling.
	Plan bool
	// MetricsFile receives the metrics in text exposition format when set.
	MetricsFile string
	// OutputMode is auto, tui or linear.
	OutputMode string
}

// Build scans, plans and compiles the selected sources.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	projects, err := a.loader.Load(opts.Dir)
	if err != nil {
		return err
	}

	renderer := a.newRenderer(ctx, opts.OutputMode)

	// A bridge sends OTel spans to the renderer through the global provider.
	bridge := telemetry.NewBridge(renderer)
	setupOTel(bridge)

	tracer := telemetry.NewOTelTracer("cppm").WithRenderer(renderer)
	defer func() {
		_ = tracer.Shutdown(ctx)
	}()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = zerr.With(domain.ErrBuildFailed, "panic", fmt.Sprint(r))
			}
			_ = renderer.Stop()
		}()

		if err := a.build(ctx, projects, opts, tracer); err != nil {
			return errors.Join(domain.ErrBuildFailed, err)
		}
		return nil
	})

	err = g.Wait()
	if opts.MetricsFile != "" {
		err = errors.Join(err, a.metrics.WriteTextfile(opts.MetricsFile))
	}
	return err
}

func (a *App) build(ctx context.Context, projects []*domain.Project, opts BuildOptions, tracer ports.Tracer) error {
	scope := inScope(projects, opts.Recursive)

	g, err := a.loadGraph(ctx, projects, scope, tracer)
	if err != nil {
		return err
	}

	targets, err := selectTargets(g, projects[0], opts.Dir, opts.Targets)
	if err != nil {
		return err
	}

	if opts.Plan {
		if err := a.emitter.Emit(g, projects); err != nil {
			return err
		}
	}

	sched := scheduler.NewScheduler(a.executor, a.store, a.hasher, a.fs, a.tlog, a.metrics, a.logger, tracer)
	_, err = sched.Run(ctx, scheduler.Request{
		Graph:   g,
		Targets: targets,
		Scope:   scope,
		Jobs:    opts.Jobs,
	})
	return err
}

func (a *App) newRenderer(ctx context.Context, outputMode string) ports.Renderer {
	mode := detector.ResolveMode(detector.DetectEnvironment(os.Stderr), outputMode)
	if mode == detector.ModeTUI {
		model := tui.NewModel(os.Stderr)
		optsTea := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
		return tui.NewRenderer(&model, optsTea...)
	}
	return linear.NewRenderer(os.Stdout, os.Stderr)
}

// inScope returns the projects whose sources may be scanned and compiled.
// The loader puts the current project first.
func inScope(projects []*domain.Project, recursive bool) []*domain.Project {
	if recursive {
		return projects
	}
	return projects[:1]
}

// selectTargets resolves target paths against dir. No targets selects every
// source of the current project.
func selectTargets(g *graph.Graph, current *domain.Project, dir string, names []string) ([]graph.NodeID, error) {
	if len(names) == 0 {
		ids := make([]graph.NodeID, 0, len(current.Sources))
		for _, source := range current.Sources {
			if id, ok := g.LookupSource(source); ok {
				ids = append(ids, id)
			}
		}
		return ids, nil
	}

	base, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSourceNotFound.Error()), "dir", dir)
	}
	ids := make([]graph.NodeID, 0, len(names))
	for _, name := range names {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(base, path)
		}
		id, ok := g.LookupSource(path)
		if !ok {
			return nil, zerr.With(domain.ErrSourceNotFound, "source", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}
