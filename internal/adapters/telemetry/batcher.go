// Package telemetry connects OpenTelemetry spans to the build renderers.
package telemetry

import (
	"bytes"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultChunkSize is the buffered size at which compiler output is
	// handed to the renderer.
	DefaultChunkSize = 4096
	// DefaultFlushInterval bounds how long output waits in the buffer.
	DefaultFlushInterval = 50 * time.Millisecond
)

var errBatcherClosed = zerr.New("output batcher is closed")

// OutputBatcher groups a node's compiler output into chunks for the renderer.
// Chunks cut by size end on a line break when the buffer holds one, so a
// diagnostic is not split across two renderer events.
type OutputBatcher struct {
	chunkSize int
	interval  time.Duration
	emit      func([]byte)

	mu     sync.Mutex
	buf    bytes.Buffer
	ticker *time.Ticker
	done   chan struct{}
	closed bool
}

// NewOutputBatcher starts a batcher calling emit with each chunk. Non-positive
// limits fall back to the defaults. Close stops its flush goroutine.
func NewOutputBatcher(chunkSize int, interval time.Duration, emit func([]byte)) *OutputBatcher {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if interval <= 0 {
		interval = DefaultFlushInterval
	}

	b := &OutputBatcher{
		chunkSize: chunkSize,
		interval:  interval,
		emit:      emit,
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
	}
	go b.loop()
	return b
}

// Write buffers p and emits the complete lines once chunkSize is reached.
func (b *OutputBatcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errBatcherClosed
	}

	b.buf.Write(p)
	if b.buf.Len() >= b.chunkSize {
		b.emitLocked(cutPoint(b.buf.Bytes()))
		b.ticker.Reset(b.interval)
	}
	return len(p), nil
}

// Flush emits everything buffered, including a trailing partial line.
func (b *OutputBatcher) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.emitLocked(b.buf.Len())
	}
}

// Close emits the remaining output and stops the batcher. Later writes fail.
func (b *OutputBatcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	close(b.done)
	b.emitLocked(b.buf.Len())
	return nil
}

func (b *OutputBatcher) loop() {
	for {
		select {
		case <-b.ticker.C:
			b.Flush()
		case <-b.done:
			b.ticker.Stop()
			return
		}
	}
}

// emitLocked hands the first n buffered bytes to emit. Called with mu held
// so chunks keep their order; emit must not block.
func (b *OutputBatcher) emitLocked(n int) {
	if n == 0 {
		return
	}
	chunk := bytes.Clone(b.buf.Next(n))
	if b.emit != nil {
		b.emit(chunk)
	}
}

// cutPoint returns the length of data up to its last line break, or all of
// data when it holds none.
func cutPoint(data []byte) int {
	if i := bytes.LastIndexByte(data, '\n'); i >= 0 {
		return i + 1
	}
	return len(data)
}
