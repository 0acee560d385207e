package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cppm/internal/adapters/watcher"
	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/cppm/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func nextEvent(t *testing.T, events <-chan ports.WatchEvent, want string) ports.WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event stream closed")
			if ev.Path == want {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event for %s", want)
		}
	}
}

func TestWatcher_ReportsChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), domain.DirPerm))
	require.NoError(t, os.MkdirAll(filepath.Join(root, domain.IntermediateDirName), domain.DirPerm))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx, root))

	events := make(chan ports.WatchEvent, 16)
	go func() {
		defer close(events)
		for ev := range w.Events() {
			events <- ev
		}
	}()

	// Build outputs are not watched, so this write produces no event.
	require.NoError(t, os.WriteFile(filepath.Join(root, domain.IntermediateDirName, "a.o"), nil, domain.FilePerm))

	source := filepath.Join(root, "src", "a.ixx")
	require.NoError(t, os.WriteFile(source, []byte("export module A;"), domain.FilePerm))
	ev := nextEvent(t, events, source)
	assert.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, ev.Operation)

	nested := filepath.Join(root, "src", "detail")
	require.NoError(t, os.Mkdir(nested, domain.DirPerm))
	nextEvent(t, events, nested)

	// Directories created after Start are picked up as well.
	require.Eventually(t, func() bool {
		path := filepath.Join(nested, "impl.cpp")
		if err := os.WriteFile(path, nil, domain.FilePerm); err != nil {
			return false
		}
		select {
		case ev := <-events:
			return ev.Path == path
		case <-time.After(200 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	for range events {
	}
}
