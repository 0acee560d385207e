// Package modmap rebuilds the per-project module map from scanned and persisted definitions.
package modmap

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/zerr"
)

// Rescanner produces fresh entries for sources whose persisted definition is unusable.
type Rescanner interface {
	Scan(ctx context.Context, project *domain.Project, sources []string) ([]domain.ModuleMapEntry, error)
}

// Refresher keeps a project's persisted module map current.
type Refresher struct {
	maps   ports.ModuleMapStore
	defs   ports.DefinitionStore
	fs     ports.FileSystem
	rescan Rescanner
	logger ports.Logger
}

// New creates a Refresher.
func New(
	maps ports.ModuleMapStore,
	defs ports.DefinitionStore,
	fsys ports.FileSystem,
	rescan Rescanner,
	logger ports.Logger,
) *Refresher {
	return &Refresher{maps: maps, defs: defs, fs: fsys, rescan: rescan, logger: logger}
}

// IsStale reports whether the map is missing or older than the project file.
func (r *Refresher) IsStale(project *domain.Project) (bool, error) {
	mapTime, err := r.maps.ModTime(project)
	if err != nil {
		return false, zerr.With(err, "project", project.Name)
	}
	if mapTime.IsZero() {
		return true, nil
	}
	projectTime, ok, err := r.fs.ModTime(project.File)
	if err != nil {
		return false, zerr.With(err, "project", project.Name)
	}
	return ok && mapTime.Before(projectTime), nil
}

// Refresh returns the project's module map after folding in the entries scanned
// during this invocation. When nothing was scanned and the map is current, the
// map file is only touched.
func (r *Refresher) Refresh(
	ctx context.Context,
	project *domain.Project,
	scanned []domain.ModuleMapEntry,
) (*domain.ModuleMap, error) {
	stale, err := r.IsStale(project)
	if err != nil {
		return nil, err
	}
	old, err := r.maps.Load(project)
	if err != nil {
		return nil, zerr.With(err, "project", project.Name)
	}

	if len(scanned) == 0 && !stale && old != nil && sameSources(old, project) {
		if err := r.maps.Touch(project); err != nil {
			return nil, zerr.With(err, "project", project.Name)
		}
		r.logger.Debug("module map of " + project.Name + " is current")
		return old, nil
	}

	fresh := domain.NewModuleMap(project.Name)
	for _, entry := range scanned {
		fresh.Add(entry)
	}

	var oldTime time.Time
	if old != nil {
		if oldTime, err = r.maps.ModTime(project); err != nil {
			return nil, zerr.With(err, "project", project.Name)
		}
	}

	m := domain.NewModuleMap(project.Name)
	var unusable []string
	for _, source := range project.Sources {
		if entry, ok := fresh.Lookup(source); ok {
			m.Add(entry)
			continue
		}

		defTime, err := r.defs.ModTime(project, source)
		if err != nil {
			return nil, zerr.With(err, "source", source)
		}
		if old != nil && !defTime.IsZero() && oldTime.After(defTime) {
			entry, ok := old.Lookup(source)
			if !ok {
				return nil, zerr.With(zerr.With(domain.ErrInternalConsistency, "source", source), "project", project.Name)
			}
			m.Add(entry)
			continue
		}

		def, err := r.defs.Get(project, source)
		if err != nil {
			return nil, zerr.With(err, "source", source)
		}
		if def == nil {
			unusable = append(unusable, source)
			continue
		}
		m.Add(domain.ModuleMapEntry{SourceFile: source, ModuleDefinition: *def})
	}

	if len(unusable) > 0 {
		r.logger.Warn("rescanning " + project.Name + " sources without a usable definition")
		entries, err := r.rescan.Scan(ctx, project, unusable)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			fresh.Add(entry)
		}
		for _, source := range unusable {
			entry, ok := fresh.Lookup(source)
			if !ok {
				return nil, zerr.With(zerr.With(domain.ErrScanFailure, "source", source), "project", project.Name)
			}
			m.Add(entry)
		}
	}

	// Keep the map in project source order.
	ordered := domain.NewModuleMap(project.Name)
	for _, source := range project.Sources {
		if entry, ok := m.Lookup(source); ok {
			ordered.Add(entry)
		}
	}

	if err := r.maps.Save(project, ordered); err != nil {
		return nil, zerr.With(err, "project", project.Name)
	}
	return ordered, nil
}

// SavePartial writes the map left by a failed scan. It holds the entries
// finalized before the failure and every other source whose persisted
// definition is readable. Sources without either are left out and rescanned
// by the next refresh.
func (r *Refresher) SavePartial(project *domain.Project, scanned []domain.ModuleMapEntry) error {
	fresh := domain.NewModuleMap(project.Name)
	for _, entry := range scanned {
		fresh.Add(entry)
	}

	m := domain.NewModuleMap(project.Name)
	for _, source := range project.Sources {
		if entry, ok := fresh.Lookup(source); ok {
			m.Add(entry)
			continue
		}
		def, err := r.defs.Get(project, source)
		if err != nil {
			return zerr.With(err, "source", source)
		}
		if def != nil {
			m.Add(domain.ModuleMapEntry{SourceFile: source, ModuleDefinition: *def})
		}
	}

	if err := r.maps.Save(project, m); err != nil {
		return zerr.With(err, "project", project.Name)
	}
	r.logger.Debug(fmt.Sprintf("saved partial module map of %s with %d of %d sources",
		project.Name, m.Len(), len(project.Sources)))
	return nil
}

// sameSources reports whether the map holds exactly the project's sources.
// Sources matched by a glob can disappear without the project file changing.
func sameSources(m *domain.ModuleMap, project *domain.Project) bool {
	if m.Len() != len(project.Sources) {
		return false
	}
	for _, source := range project.Sources {
		if _, ok := m.Lookup(source); !ok {
			return false
		}
	}
	return true
}
