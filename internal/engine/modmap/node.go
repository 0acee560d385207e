package modmap

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cppm/internal/adapters/defstore" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cppm/internal/adapters/fs"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cppm/internal/adapters/logger"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/cppm/internal/engine/scan"
)

// NodeID is the unique identifier for the module map refresher Graft node.
const NodeID graft.ID = "engine.modmap"

func init() {
	graft.Register(graft.Node[*Refresher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			defstore.MapStoreNodeID,
			defstore.DefinitionStoreNodeID,
			fs.FileSystemNodeID,
			scan.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Refresher, error) {
			maps, err := graft.Dep[ports.ModuleMapStore](ctx)
			if err != nil {
				return nil, err
			}

			defs, err := graft.Dep[ports.DefinitionStore](ctx)
			if err != nil {
				return nil, err
			}

			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}

			scanner, err := graft.Dep[*scan.Scanner](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(maps, defs, fsys, scanner, log), nil
		},
	})
}
