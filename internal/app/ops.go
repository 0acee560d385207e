package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.trai.ch/cppm/internal/adapters/telemetry"
	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/zerr"
)

// ProjectOptions selects the projects an operation works on.
type ProjectOptions struct {
	// Dir is the directory the project is discovered from.
	Dir string
	// Recursive includes every referenced project.
	Recursive bool
}

// Scan brings the module maps of the selected projects up to date without compiling.
func (a *App) Scan(ctx context.Context, opts ProjectOptions) error {
	projects, err := a.loader.Load(opts.Dir)
	if err != nil {
		return err
	}

	tracer := telemetry.NewNoOpTracer()
	for _, p := range inScope(projects, opts.Recursive) {
		m, err := a.refresh(ctx, p, tracer)
		if err != nil {
			return err
		}
		a.logger.Info(fmt.Sprintf("%s: module map holds %d sources", p.Name, m.Len()))
	}
	return nil
}

// Plan writes the ninja build plans of the loaded projects. Projects in scope
// are scanned first; the others must already have module maps.
func (a *App) Plan(ctx context.Context, opts ProjectOptions) error {
	projects, err := a.loader.Load(opts.Dir)
	if err != nil {
		return err
	}

	g, err := a.loadGraph(ctx, projects, inScope(projects, opts.Recursive), telemetry.NewNoOpTracer())
	if err != nil {
		return err
	}
	if err := a.emitter.Emit(g, projects); err != nil {
		return err
	}
	a.logger.Info("wrote " + projects[0].AggregatePlanFile())
	return nil
}

// Clean removes the build state kept in the intermediate directories of the
// selected projects. Sources and project files are never touched.
func (a *App) Clean(_ context.Context, opts ProjectOptions) error {
	projects, err := a.loader.Load(opts.Dir)
	if err != nil {
		return err
	}

	var errs error
	for _, p := range inScope(projects, opts.Recursive) {
		paths, err := cleanPaths(p)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		for _, path := range paths {
			if err := a.fs.RemoveAll(path); err != nil {
				errs = errors.Join(errs, zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", path))
			}
		}
		a.logger.Info("cleaned " + p.Name)
	}
	return errs
}

func cleanPaths(p *domain.Project) ([]string, error) {
	paths := []string{
		p.DefinitionDir(),
		p.ScanDir(),
		p.StoreDir(),
		filepath.Join(p.IntDir, domain.InterfaceDirName),
		filepath.Join(p.IntDir, domain.ObjectDirName),
		p.ModuleMapFile(),
		p.OutOfDateListFile(),
		p.ScanDatabaseFile(),
		p.PlanFile(),
		p.AggregatePlanFile(),
	}
	logs, err := filepath.Glob(filepath.Join(p.IntDir, domain.TrackingLogPrefix+".*.tlog"))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "project", p.Name)
	}
	return append(paths, logs...), nil
}
