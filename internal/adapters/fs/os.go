package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*OS)(nil)

// OS implements ports.FileSystem on the host file system.
type OS struct {
	now func() time.Time
}

// NewOS creates a new OS file system.
func NewOS() *OS {
	return &OS{now: time.Now}
}

// WithClock replaces the clock used to touch files.
func (o *OS) WithClock(now func() time.Time) *OS {
	o.now = now
	return o
}

// ModTime returns the modification time of path and whether it exists.
func (o *OS) ModTime(path string) (time.Time, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}
	return info.ModTime(), true, nil
}

// Touch sets the access and modification times of path to now.
func (o *OS) Touch(path string) error {
	now := o.now()
	if err := os.Chtimes(path, now, now); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrTouchFailed.Error()), "path", path)
	}
	return nil
}

// ReadFile returns the content of path and whether it exists.
func (o *OS) ReadFile(path string) ([]byte, bool, error) {
	//nolint:gosec // Paths come from project configuration and intermediate directories
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	return data, true, nil
}

// WriteFile replaces path atomically.
func (o *OS) WriteFile(path string, data []byte) error {
	return WriteFileAtomic(path, data)
}

// RemoveAll removes path and any children it contains.
func (o *OS) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove path"), "path", path)
	}
	return nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames it into place.
// Readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	return nil
}
