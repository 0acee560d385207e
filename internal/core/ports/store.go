package ports

import (
	"time"

	"go.trai.ch/cppm/internal/core/domain"
)

// BuildInfoStore defines the interface for storing and retrieving build information.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildInfoStore interface {
	// Get retrieves the build info for a given source.
	// Returns nil, nil if not found.
	Get(root, source string) (*domain.BuildInfo, error)

	// Put stores the build info.
	Put(root string, info domain.BuildInfo) error
}

// DefinitionStore persists one module definition per source.
type DefinitionStore interface {
	// Get returns the persisted definition, or nil, nil if none exists.
	Get(project *domain.Project, source string) (*domain.ModuleDefinition, error)

	// Put persists the definition for a source.
	Put(project *domain.Project, source string, def *domain.ModuleDefinition) error

	// ModTime returns when the definition was last written, or the zero time if it does not exist.
	ModTime(project *domain.Project, source string) (time.Time, error)
}

// ModuleMapStore persists the module map of a project as a single unit.
type ModuleMapStore interface {
	// Load returns the persisted map, or nil, nil if none exists.
	Load(project *domain.Project) (*domain.ModuleMap, error)

	// Save replaces the persisted map atomically.
	Save(project *domain.Project, m *domain.ModuleMap) error

	// ModTime returns when the map was last written, or the zero time if it does not exist.
	ModTime(project *domain.Project) (time.Time, error)

	// Touch refreshes the map's modification time without rewriting it.
	Touch(project *domain.Project) error
}
