package scan

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cppm/internal/adapters/defstore" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cppm/internal/adapters/fs"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cppm/internal/adapters/logger"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cppm/internal/adapters/metrics"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cppm/internal/adapters/shell"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cppm/internal/adapters/tlog"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cppm/internal/core/ports"
)

// NodeID is the unique identifier for the scanner Graft node.
const NodeID graft.ID = "engine.scanner"

func init() {
	graft.Register(graft.Node[*Scanner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			defstore.DefinitionStoreNodeID,
			tlog.NodeID,
			fs.FileSystemNodeID,
			metrics.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scanner, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			defs, err := graft.Dep[ports.DefinitionStore](ctx)
			if err != nil {
				return nil, err
			}

			tracking, err := graft.Dep[ports.TrackingLog](ctx)
			if err != nil {
				return nil, err
			}

			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}

			recorder, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(executor, defs, tracking, fsys, recorder, log), nil
		},
	})
}
