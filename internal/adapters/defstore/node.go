package defstore

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cppm/internal/adapters/fs"
	"go.trai.ch/cppm/internal/adapters/logger"
	"go.trai.ch/cppm/internal/core/ports"
)

const (
	// DefinitionStoreNodeID is the unique identifier for the definition store Graft node.
	DefinitionStoreNodeID graft.ID = "adapter.definition_store"
	// MapStoreNodeID is the unique identifier for the module map store Graft node.
	MapStoreNodeID graft.ID = "adapter.module_map_store"
)

func init() {
	graft.Register(graft.Node[ports.DefinitionStore]{
		ID:        DefinitionStoreNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.DefinitionStore, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewRouter(NewJSONStore(log), NewSQLiteStore(log)), nil
		},
	})

	graft.Register(graft.Node[ports.ModuleMapStore]{
		ID:        MapStoreNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, fs.FileSystemNodeID},
		Run: func(ctx context.Context) (ports.ModuleMapStore, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewMapStore(log, fsys), nil
		},
	})
}
