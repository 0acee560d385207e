// Package shell provides a shell-based executor for running compilers and scanners.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/zerr"
)

const waitDelay = 2 * time.Second

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec and pty.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the invocation through the platform shell and waits for it to complete.
//
// Invocations that capture stdout run with plain pipes. All others run under a
// pseudo-terminal where available so compilers keep their colored diagnostics.
func (e *Executor) Execute(ctx context.Context, inv ports.Invocation) (ports.Result, error) {
	if strings.TrimSpace(inv.Command) == "" {
		return ports.Result{}, zerr.With(zerr.New("empty command"), "name", inv.Name)
	}

	cmd := shellCommand(ctx, inv.Command)
	cmd.Dir = inv.Dir
	// Grandchildren may keep the pipes open after the shell is killed.
	cmd.WaitDelay = waitDelay

	var output syncBuffer
	lines := &logWriter{logger: e.logger, prefix: inv.Name}
	sinks := []io.Writer{&output, lines}
	if inv.Output != nil {
		sinks = append(sinks, inv.Output)
	}
	combined := io.MultiWriter(sinks...)

	var stdout bytes.Buffer
	var err error
	if inv.CaptureStdout {
		cmd.Stdout = &stdout
		cmd.Stderr = combined
		err = cmd.Run()
	} else {
		err = runWithPTY(cmd, combined)
	}
	_ = lines.Close()

	result := ports.Result{
		Stdout: stdout.Bytes(),
		Output: output.Bytes(),
	}

	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		result.ExitCode = exitCode
		return result, zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
	}

	return result, nil
}

// runWithPTY starts cmd on a pseudo-terminal and copies everything it prints to w.
// It falls back to plain pipes where pseudo-terminals are unsupported.
func runWithPTY(cmd *exec.Cmd, w io.Writer) error {
	ptmx, err := pty.Start(cmd)
	if errors.Is(err, pty.ErrUnsupported) {
		cmd.Stdout = w
		cmd.Stderr = w
		return cmd.Run()
	}
	if err != nil {
		return zerr.Wrap(err, "failed to start pty")
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// Reading the master fails with EIO once the child side closes.
		_, _ = io.Copy(w, ptmx)
	}()

	waitErr := cmd.Wait()
	<-ioDone
	_ = ptmx.Close()

	return waitErr
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command) //nolint:gosec // commands come from project configuration
	}
	return exec.CommandContext(ctx, "/bin/sh", "-c", command) //nolint:gosec // commands come from project configuration
}

// syncBuffer is a bytes.Buffer safe for the concurrent writes of stdout and stderr pipes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}

// logWriter forwards complete lines to the debug log.
type logWriter struct {
	logger ports.Logger
	prefix string
	mu     sync.Mutex
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	// PTYs may introduce \r.
	msg := strings.TrimSuffix(string(line), "\r")
	if w.prefix != "" {
		msg = w.prefix + ": " + msg
	}
	w.logger.Debug(msg)
}
