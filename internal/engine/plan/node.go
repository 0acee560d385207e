package plan

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cppm/internal/adapters/fs"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cppm/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cppm/internal/core/ports"
)

// NodeID is the unique identifier for the plan emitter Graft node.
const NodeID graft.ID = "engine.plan"

func init() {
	graft.Register(graft.Node[*Emitter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.FileSystemNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Emitter, error) {
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(fsys, log), nil
		},
	})
}
