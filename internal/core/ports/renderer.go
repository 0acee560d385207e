package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for output rendering.
// It decouples telemetry collection from presentation logic,
// allowing the same event stream to drive either a rich TUI or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and flush buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called once the scheduler knows which nodes it will process.
	// nodes: node names in scheduling order
	// deps: node -> names of the nodes it imports
	// targets: the selected sources
	OnPlanEmit(nodes []string, deps map[string][]string, targets []string)

	// OnTaskStart is called when a unit of work begins.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called when a unit of work emits output.
	// data may contain partial lines or ANSI sequences.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when a unit of work finishes; err is nil on success.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
