// Package cas implements content-addressed storage of per-source build info.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/cppm/internal/adapters/fs"
	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildInfoStore = (*Store)(nil)

// Store implements ports.BuildInfoStore using a file-per-source strategy.
// The root passed to Get and Put is a project's store directory.
type Store struct{}

// NewStore creates a new BuildInfoStore.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the build info for a given source.
func (s *Store) Get(root, source string) (*domain.BuildInfo, error) {
	filename := s.filename(root, source)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "source", source)
	}

	var info domain.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "source", source)
	}

	return &info, nil
}

// Put stores the build info.
func (s *Store) Put(root string, info domain.BuildInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	return fs.WriteFileAtomic(s.filename(root, info.Source), data)
}

func (s *Store) filename(root, source string) string {
	hash := sha256.Sum256([]byte(domain.PathKey(source)))
	return filepath.Join(root, hex.EncodeToString(hash[:])+".json")
}
