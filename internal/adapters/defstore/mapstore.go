package defstore

import (
	"encoding/json"
	"errors"
	iofs "io/fs"
	"os"
	"time"

	"go.trai.ch/cppm/internal/adapters/fs"
	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ModuleMapStore = (*MapStore)(nil)

// MapStore persists a project's module map as one JSON file.
type MapStore struct {
	logger ports.Logger
	fs     ports.FileSystem
}

// NewMapStore creates a new MapStore.
func NewMapStore(logger ports.Logger, fsys ports.FileSystem) *MapStore {
	return &MapStore{logger: logger, fs: fsys}
}

// Load returns the persisted map, or nil, nil if none exists or its schema is unreadable.
func (s *MapStore) Load(project *domain.Project) (*domain.ModuleMap, error) {
	path := project.ModuleMapFile()
	//nolint:gosec // Path is derived from the project's intermediate directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "project", project.Name)
	}

	var m domain.ModuleMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "project", project.Name)
	}
	if err := checkSchema(m.Schema); err != nil {
		s.logger.Warn("ignoring module map with incompatible schema for project " + project.Name)
		return nil, nil
	}
	return &m, nil
}

// Save replaces the persisted map atomically.
func (s *MapStore) Save(project *domain.Project, m *domain.ModuleMap) error {
	m.Schema = domain.SchemaVersion
	m.Project = project.Name

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error()), "project", project.Name)
	}
	return fs.WriteFileAtomic(project.ModuleMapFile(), data)
}

// ModTime returns when the map file was last written.
func (s *MapStore) ModTime(project *domain.Project) (time.Time, error) {
	return modTime(project.ModuleMapFile())
}

// Touch refreshes the map's modification time without rewriting it.
func (s *MapStore) Touch(project *domain.Project) error {
	return s.fs.Touch(project.ModuleMapFile())
}
