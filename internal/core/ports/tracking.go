package ports

import "go.trai.ch/cppm/internal/core/domain"

// TrackingLog reads and writes the tracking logs kept in a directory.
//
//go:generate mockgen -source=tracking.go -destination=mocks/mock_tracking.go -package=mocks
type TrackingLog interface {
	// Read returns every recorded set in dir keyed by domain.PathKey of the source.
	Read(dir string) (map[string]domain.TrackingSet, error)

	// Write replaces the logs in dir with the given sets.
	Write(dir string, sets []domain.TrackingSet) error
}
