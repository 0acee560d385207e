package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cppm/internal/adapters/cas"      //nolint:depguard // Wired in app layer
	"go.trai.ch/cppm/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"go.trai.ch/cppm/internal/adapters/defstore" //nolint:depguard // Wired in app layer
	"go.trai.ch/cppm/internal/adapters/fs"       //nolint:depguard // Wired in app layer
	"go.trai.ch/cppm/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/cppm/internal/adapters/metrics"  //nolint:depguard // Wired in app layer
	"go.trai.ch/cppm/internal/adapters/shell"    //nolint:depguard // Wired in app layer
	"go.trai.ch/cppm/internal/adapters/tlog"     //nolint:depguard // Wired in app layer
	"go.trai.ch/cppm/internal/adapters/watcher"  //nolint:depguard // Wired in app layer
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/cppm/internal/engine/modmap"
	"go.trai.ch/cppm/internal/engine/plan"
	"go.trai.ch/cppm/internal/engine/scan"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			scan.NodeID,
			modmap.NodeID,
			defstore.MapStoreNodeID,
			plan.NodeID,
			shell.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			fs.FileSystemNodeID,
			tlog.NodeID,
			metrics.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

//nolint:cyclop // one lookup per dependency
func runAppNode(ctx context.Context) (*App, error) {
	var (
		s   Services
		err error
	)

	if s.Loader, err = graft.Dep[ports.ConfigLoader](ctx); err != nil {
		return nil, err
	}
	if s.Scanner, err = graft.Dep[*scan.Scanner](ctx); err != nil {
		return nil, err
	}
	if s.Refresher, err = graft.Dep[*modmap.Refresher](ctx); err != nil {
		return nil, err
	}
	if s.Maps, err = graft.Dep[ports.ModuleMapStore](ctx); err != nil {
		return nil, err
	}
	if s.Emitter, err = graft.Dep[*plan.Emitter](ctx); err != nil {
		return nil, err
	}
	if s.Executor, err = graft.Dep[ports.Executor](ctx); err != nil {
		return nil, err
	}
	if s.Store, err = graft.Dep[ports.BuildInfoStore](ctx); err != nil {
		return nil, err
	}
	if s.Hasher, err = graft.Dep[ports.Hasher](ctx); err != nil {
		return nil, err
	}
	if s.FS, err = graft.Dep[ports.FileSystem](ctx); err != nil {
		return nil, err
	}
	if s.Tracking, err = graft.Dep[ports.TrackingLog](ctx); err != nil {
		return nil, err
	}
	if s.Metrics, err = graft.Dep[ports.Metrics](ctx); err != nil {
		return nil, err
	}
	if s.Watcher, err = graft.Dep[ports.Watcher](ctx); err != nil {
		return nil, err
	}
	if s.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
		return nil, err
	}

	return New(s), nil
}
