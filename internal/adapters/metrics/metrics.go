// Package metrics records build counters on a private prometheus registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Metrics = (*Recorder)(nil)

// Recorder implements ports.Metrics. Each build owns its registry, so repeated
// builds in watch mode never collide on registration.
type Recorder struct {
	registry           *prometheus.Registry
	sourcesScanned     prometheus.Counter
	nodesCompiled      prometheus.Counter
	nodesTouched       prometheus.Counter
	interfaceUnchanged prometheus.Counter
	compileDuration    prometheus.Histogram
	graphNodes         prometheus.Gauge
}

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sourcesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cppm_sources_scanned_total",
			Help: "Number of sources handed to the dependency scanner.",
		}),
		nodesCompiled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cppm_nodes_compiled_total",
			Help: "Number of graph nodes recompiled.",
		}),
		nodesTouched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cppm_nodes_touched_total",
			Help: "Number of graph nodes whose outputs were touched instead of recompiled.",
		}),
		interfaceUnchanged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cppm_interface_unchanged_total",
			Help: "Number of recompiles whose interface artifact hash did not change.",
		}),
		compileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cppm_compile_duration_seconds",
			Help:    "Time taken by a single compile.",
			Buckets: prometheus.DefBuckets,
		}),
		graphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cppm_graph_nodes",
			Help: "Number of nodes in the global module graph of the last build.",
		}),
	}

	r.registry.MustRegister(
		r.sourcesScanned,
		r.nodesCompiled,
		r.nodesTouched,
		r.interfaceUnchanged,
		r.compileDuration,
		r.graphNodes,
	)
	return r
}

// Registry returns the registry holding the build collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// SourcesScanned adds n to the number of scanned sources.
func (r *Recorder) SourcesScanned(n int) {
	r.sourcesScanned.Add(float64(n))
}

// NodeCompiled records one compile and its duration.
func (r *Recorder) NodeCompiled(d time.Duration) {
	r.nodesCompiled.Inc()
	r.compileDuration.Observe(d.Seconds())
}

// NodeTouched records one touched node.
func (r *Recorder) NodeTouched() {
	r.nodesTouched.Inc()
}

// InterfaceUnchanged records a recompile whose interface hash did not change.
func (r *Recorder) InterfaceUnchanged() {
	r.interfaceUnchanged.Inc()
}

// GraphNodes sets the number of nodes in the global graph.
func (r *Recorder) GraphNodes(n int) {
	r.graphNodes.Set(float64(n))
}

// WriteTextfile writes the current values in text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write metrics file"), "path", path)
	}
	return nil
}
