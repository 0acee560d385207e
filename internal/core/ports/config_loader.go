package ports

import "go.trai.ch/cppm/internal/core/domain"

// ConfigLoader defines the interface for loading project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the project found from cwd and every project it transitively references.
	// The current project is first; the rest follow in breadth-first reference order.
	Load(cwd string) ([]*domain.Project, error)
}
