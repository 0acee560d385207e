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

var _ ports.DefinitionStore = (*JSONStore)(nil)

// JSONStore keeps one indented JSON file per source in the project's definition directory.
type JSONStore struct {
	logger ports.Logger
}

// NewJSONStore creates a new JSONStore.
func NewJSONStore(logger ports.Logger) *JSONStore {
	return &JSONStore{logger: logger}
}

// Get returns the persisted definition, or nil, nil if none exists or it has an unreadable schema.
func (s *JSONStore) Get(project *domain.Project, source string) (*domain.ModuleDefinition, error) {
	path := project.DefinitionFile(source)
	//nolint:gosec // Path is derived from the project's intermediate directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "source", source)
	}

	var def domain.ModuleDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "source", source)
	}
	if err := checkSchema(def.Schema); err != nil {
		s.logger.Warn("ignoring definition with incompatible schema for " + source)
		return nil, nil
	}
	return &def, nil
}

// Put persists the definition for a source.
func (s *JSONStore) Put(project *domain.Project, source string, def *domain.ModuleDefinition) error {
	record := *def
	record.Schema = domain.SchemaVersion

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error()), "source", source)
	}
	return fs.WriteFileAtomic(project.DefinitionFile(source), data)
}

// ModTime returns when the definition file was last written.
func (s *JSONStore) ModTime(project *domain.Project, source string) (time.Time, error) {
	return modTime(project.DefinitionFile(source))
}

func modTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return time.Time{}, nil
		}
		return time.Time{}, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
	}
	return info.ModTime(), nil
}
