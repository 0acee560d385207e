package tlog

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cppm/internal/core/ports"
)

// NodeID is the unique identifier for the tracking log Graft node.
const NodeID graft.ID = "adapter.tracking_log"

func init() {
	graft.Register(graft.Node[ports.TrackingLog]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.TrackingLog, error) {
			return New(), nil
		},
	})
}
