// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Invocation describes one external tool run.
type Invocation struct {
	// Name identifies the run in logs, usually the source being processed.
	Name string
	// Command is the full command line, interpreted by the platform shell.
	Command string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Output receives the combined output while the process runs. May be nil.
	Output io.Writer
	// CaptureStdout keeps stdout apart from stderr and returns it in Result.Stdout.
	// Scanners need this so diagnostics never mix into the protocol stream.
	CaptureStdout bool
}

// Result is the outcome of a finished invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Output   []byte
}

// Executor runs external tools synchronously.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the invocation and blocks until the process exits.
	//
	// A non-zero exit status is reported both in the Result and as an error.
	Execute(ctx context.Context, inv Invocation) (Result, error)
}
