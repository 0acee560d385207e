package telemetry

import (
	"time"
)

// MsgPlan carries the scheduled nodes to the UI once the graph is built.
// Imports maps a node name to the names of the nodes it imports.
type MsgPlan struct {
	Nodes   []string
	Imports map[string][]string
	Targets []string
}

// MsgNodeStarted is sent when the scheduler begins compiling or touching a
// node. ParentID is empty for the build's root span.
type MsgNodeStarted struct {
	SpanID    string
	ParentID  string
	Name      string
	StartTime time.Time
}

// MsgNodeOutput carries a chunk of compiler output for a node.
type MsgNodeOutput struct {
	SpanID string
	Data   []byte
}

// MsgNodeFinished is sent when a node's span ends. Err is the compile error,
// if any.
type MsgNodeFinished struct {
	SpanID  string
	EndTime time.Time
	Err     error
}
