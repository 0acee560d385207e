package ports

import "time"

// FileSystem is the subset of file operations the build core needs.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// ModTime returns the modification time of path and whether it exists.
	ModTime(path string) (time.Time, bool, error)

	// Touch sets the modification time of an existing path to now.
	Touch(path string) error

	// ReadFile returns the content of path and whether it exists.
	ReadFile(path string) ([]byte, bool, error)

	// WriteFile replaces path atomically, creating parent directories as needed.
	WriteFile(path string, data []byte) error

	// RemoveAll removes path and everything below it. A missing path is not an error.
	RemoveAll(path string) error
}
