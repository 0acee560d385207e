package app

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/cppm/internal/engine/graph"
	"go.trai.ch/zerr"
)

// loadGraph brings the module maps of the projects in scope up to date and
// merges them with the persisted maps of every other loaded project.
func (a *App) loadGraph(
	ctx context.Context,
	projects, scope []*domain.Project,
	tracer ports.Tracer,
) (*graph.Graph, error) {
	building := make(map[*domain.Project]bool, len(scope))
	for _, p := range scope {
		building[p] = true
	}

	g := graph.New()
	for _, p := range projects {
		var (
			m   *domain.ModuleMap
			err error
		)
		if building[p] {
			m, err = a.refresh(ctx, p, tracer)
		} else {
			m, err = a.maps.Load(p)
			if err == nil && m == nil {
				err = zerr.With(domain.ErrReferenceNotBuilt, "project", p.Name)
			}
		}
		if err != nil {
			return nil, err
		}
		if err := g.AddMap(p, m); err != nil {
			return nil, err
		}
	}

	a.metrics.GraphNodes(g.Len())
	return g, nil
}

// refresh rescans the out-of-date sources of a project and updates its module map.
func (a *App) refresh(ctx context.Context, p *domain.Project, tracer ports.Tracer) (*domain.ModuleMap, error) {
	scanCtx, span := tracer.Start(ctx, "scan "+p.Name)
	scanned, err := a.scanner.Preprocess(scanCtx, p)
	if err != nil {
		span.RecordError(err)
		span.End()
		if len(scanned) > 0 {
			// Keep what the scanner finalized so the next run resumes from it.
			err = errors.Join(err, a.refresher.SavePartial(p, scanned))
		}
		return nil, err
	}
	span.SetAttribute("cppm.scanned", len(scanned))
	span.End()

	mapCtx, span := tracer.Start(ctx, "modmap "+p.Name)
	defer span.End()
	m, err := a.refresher.Refresh(mapCtx, p, scanned)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	a.logger.Debug(fmt.Sprintf("%s: %d sources in module map, %d rescanned", p.Name, m.Len(), len(scanned)))
	return m, nil
}
