package app

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/cppm/internal/adapters/watcher"
	"go.trai.ch/cppm/internal/core/domain"
)

// Watch builds once and then again every time a file below one of the
// projects in scope changes. It returns when the context is done.
func (a *App) Watch(ctx context.Context, opts BuildOptions) error {
	projects, err := a.loader.Load(opts.Dir)
	if err != nil {
		return err
	}
	scope := inScope(projects, opts.Recursive)
	opts.OutputMode = "linear"

	roots := make([]string, 0, len(scope))
	for _, p := range scope {
		roots = append(roots, p.Dir)
	}
	if err := a.watcher.Start(ctx, roots...); err != nil {
		return err
	}
	defer func() { _ = a.watcher.Stop() }()

	changes := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		select {
		case changes <- paths:
		default:
			// A rebuild is already pending and will see these changes.
		}
	})

	go func() {
		for event := range a.watcher.Events() {
			if underIntermediateDir(scope, event.Path) {
				continue
			}
			debouncer.Add(event.Path)
		}
	}()

	a.rebuild(ctx, opts)
	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			a.logger.Info(fmt.Sprintf("%d files changed, rebuilding", len(paths)))
			a.rebuild(ctx, opts)
		}
	}
}

func (a *App) rebuild(ctx context.Context, opts BuildOptions) {
	if err := a.Build(ctx, opts); err != nil && ctx.Err() == nil {
		a.logger.Error(err)
	}
}

func underIntermediateDir(projects []*domain.Project, path string) bool {
	key := domain.PathKey(path)
	for _, p := range projects {
		dir := domain.PathKey(p.IntDir)
		if key == dir || strings.HasPrefix(key, dir+"/") {
			return true
		}
	}
	return false
}
