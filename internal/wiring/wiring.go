// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/cppm/internal/adapters/cas"
	_ "go.trai.ch/cppm/internal/adapters/config"
	_ "go.trai.ch/cppm/internal/adapters/defstore"
	_ "go.trai.ch/cppm/internal/adapters/fs"
	_ "go.trai.ch/cppm/internal/adapters/logger"
	_ "go.trai.ch/cppm/internal/adapters/metrics"
	_ "go.trai.ch/cppm/internal/adapters/shell"
	_ "go.trai.ch/cppm/internal/adapters/tlog"
	_ "go.trai.ch/cppm/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/cppm/internal/app"
	_ "go.trai.ch/cppm/internal/engine/modmap"
	_ "go.trai.ch/cppm/internal/engine/plan"
	_ "go.trai.ch/cppm/internal/engine/scan"
)
