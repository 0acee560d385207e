package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cppm/internal/adapters/watcher"
)

type batches struct {
	mu  sync.Mutex
	got [][]string
}

func (b *batches) record(paths []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, paths)
}

func (b *batches) snapshot() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]string(nil), b.got...)
}

func TestDebouncer_CoalescesSorted(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.record)

		d.Add("/p/src/c.cpp")
		d.Add("/p/src/a.ixx")
		d.Add("/p/src/c.cpp")
		d.Add("/p/src/b.ixx")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, b.snapshot(), 1)
		assert.Equal(t, []string{"/p/src/a.ixx", "/p/src/b.ixx", "/p/src/c.cpp"}, b.snapshot()[0])
	})
}

func TestDebouncer_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.record)

		d.Add("/p/a.ixx")
		time.Sleep(50 * time.Millisecond)
		d.Add("/p/b.ixx")
		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, b.snapshot(), "second event restarts the window")

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		require.Len(t, b.snapshot(), 1)
		assert.Len(t, b.snapshot()[0], 2)
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.record)

		d.Add("/p/a.ixx")
		d.Flush()
		require.Len(t, b.snapshot(), 1, "flush runs the callback synchronously")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, b.snapshot(), 1, "the cancelled timer must not fire again")

		d.Add("/p/b.ixx")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		d.Flush()
		require.Len(t, b.snapshot(), 2, "flush after the timer fired is a no-op")
		assert.Equal(t, []string{"/p/b.ixx"}, b.snapshot()[1])
	})
}

func TestDebouncer_EmptyAndNil(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		watcher.NewDebouncer(50*time.Millisecond, b.record).Flush()
		assert.Empty(t, b.snapshot())

		d := watcher.NewDebouncer(50*time.Millisecond, nil)
		d.Add("/p/a.ixx")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		d.Flush()
	})
}
