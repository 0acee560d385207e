package defstore

import (
	"time"

	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports"
)

var _ ports.DefinitionStore = (*Router)(nil)

// Router dispatches each call to the backend the project selected.
type Router struct {
	json   *JSONStore
	sqlite *SQLiteStore
}

// NewRouter creates a Router over both backends.
func NewRouter(jsonStore *JSONStore, sqliteStore *SQLiteStore) *Router {
	return &Router{json: jsonStore, sqlite: sqliteStore}
}

// Get implements ports.DefinitionStore.
func (r *Router) Get(project *domain.Project, source string) (*domain.ModuleDefinition, error) {
	return r.backend(project).Get(project, source)
}

// Put implements ports.DefinitionStore.
func (r *Router) Put(project *domain.Project, source string, def *domain.ModuleDefinition) error {
	return r.backend(project).Put(project, source, def)
}

// ModTime implements ports.DefinitionStore.
func (r *Router) ModTime(project *domain.Project, source string) (time.Time, error) {
	return r.backend(project).ModTime(project, source)
}

// Close releases backend resources.
func (r *Router) Close() error {
	return r.sqlite.Close()
}

func (r *Router) backend(project *domain.Project) ports.DefinitionStore {
	if project.Store == domain.StoreSQLite {
		return r.sqlite
	}
	return r.json
}
