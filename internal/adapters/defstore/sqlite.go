package defstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	// Registers the "sqlite3" database/sql driver.
	_ "github.com/mattn/go-sqlite3"
	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DefinitionStore = (*SQLiteStore)(nil)

const sqliteSchema = `
	PRAGMA busy_timeout = 5000;

	CREATE TABLE IF NOT EXISTS definitions (
		source_key TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		payload BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
`

// SQLiteStore keeps the definitions of each project in one sqlite database
// inside its intermediate directory.
type SQLiteStore struct {
	logger ports.Logger

	mu  sync.Mutex
	dbs map[string]*sql.DB
	now func() time.Time
}

// NewSQLiteStore creates a new SQLiteStore. Databases are opened on first use.
func NewSQLiteStore(logger ports.Logger) *SQLiteStore {
	return &SQLiteStore{
		logger: logger,
		dbs:    make(map[string]*sql.DB),
		now:    time.Now,
	}
}

// Close closes every open database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for path, db := range s.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, zerr.With(zerr.Wrap(err, "failed to close scan database"), "path", path))
		}
		delete(s.dbs, path)
	}
	return errors.Join(errs...)
}

// Get returns the stored definition, or nil, nil if none exists.
func (s *SQLiteStore) Get(project *domain.Project, source string) (*domain.ModuleDefinition, error) {
	db, err := s.open(project)
	if err != nil {
		return nil, err
	}

	var payload []byte
	err = db.QueryRow(`SELECT payload FROM definitions WHERE source_key = ?`, domain.PathKey(source)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "source", source)
	}

	var def domain.ModuleDefinition
	if err := json.Unmarshal(payload, &def); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "source", source)
	}
	if err := checkSchema(def.Schema); err != nil {
		s.logger.Warn("ignoring definition with incompatible schema for " + source)
		return nil, nil
	}
	return &def, nil
}

// Put upserts the definition for a source.
func (s *SQLiteStore) Put(project *domain.Project, source string, def *domain.ModuleDefinition) error {
	db, err := s.open(project)
	if err != nil {
		return err
	}

	record := *def
	record.Schema = domain.SchemaVersion
	payload, err := json.Marshal(record)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error()), "source", source)
	}

	_, err = db.Exec(`
		INSERT INTO definitions (source_key, source, payload, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(source_key) DO UPDATE SET
			source = excluded.source,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		domain.PathKey(source), source, payload, s.now().UnixNano())
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "source", source)
	}
	return nil
}

// ModTime returns when the definition row was last written.
func (s *SQLiteStore) ModTime(project *domain.Project, source string) (time.Time, error) {
	db, err := s.open(project)
	if err != nil {
		return time.Time{}, err
	}

	var updated int64
	err = db.QueryRow(`SELECT updated_at FROM definitions WHERE source_key = ?`, domain.PathKey(source)).Scan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "source", source)
	}
	return time.Unix(0, updated), nil
}

func (s *SQLiteStore) open(project *domain.Project) (*sql.DB, error) {
	path := project.ScanDatabaseFile()

	s.mu.Lock()
	defer s.mu.Unlock()

	if db, ok := s.dbs[path]; ok {
		return db, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", path)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", path)
	}
	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, domain.SchemaVersion); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}

	s.dbs[path] = db
	return db, nil
}
