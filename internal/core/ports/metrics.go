package ports

import "time"

// Metrics records build counters.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// SourcesScanned adds n to the number of scanned sources.
	SourcesScanned(n int)
	// NodeCompiled records one compile and its duration.
	NodeCompiled(d time.Duration)
	// NodeTouched records one touched node.
	NodeTouched()
	// InterfaceUnchanged records a recompile whose interface hash did not change.
	InterfaceUnchanged()
	// GraphNodes sets the number of nodes in the global graph.
	GraphNodes(n int)
	// WriteTextfile writes the current values in text exposition format.
	WriteTextfile(path string) error
}
