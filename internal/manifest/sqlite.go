// Package manifest resolves content hashes into definitions from the local
// manifest database.
package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"destiny2-go/internal/d2"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ErrNotFound is returned by single-hash lookups when no row matches.
var ErrNotFound = errors.New("definition not found")

// SQLiteManifest implements d2.ManifestStore over a read-only SQLite snapshot.
// Typed lookups share the connection pool; ad-hoc JSON queries check out a
// dedicated connection for the duration of the call. Single-hash typed
// lookups may be served from an in-memory cache (see SetCacheSize).
type SQLiteManifest struct {
	db     *sql.DB
	path   string
	logger d2.Logger
	cache  *lru.Cache[cacheKey, string]
}

type cacheKey struct {
	table string
	key   int32
}

var _ d2.ManifestStore = (*SQLiteManifest)(nil)

// NewSQLiteManifest opens the manifest database at path in read-only mode.
func NewSQLiteManifest(path string, logger d2.Logger) (*SQLiteManifest, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("manifest database not available: %w", err)
	}

	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	m := NewSQLiteManifestFromDB(db, logger)
	m.path = path
	return m, nil
}

// NewSQLiteManifestFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteManifestFromDB(db *sql.DB, logger d2.Logger) *SQLiteManifest {
	if logger == nil {
		logger = d2.NewNopLogger()
	}
	return &SQLiteManifest{
		db:     db,
		logger: logger,
	}
}

// OpenConnection opens a read-only SQLite connection pool for path.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Path returns the file the manifest was opened from, if any.
func (m *SQLiteManifest) Path() string {
	return m.path
}

// SetCacheSize keeps the JSON of up to size definitions in memory, dropping
// any cached entries. size <= 0 disables the cache.
func (m *SQLiteManifest) SetCacheSize(size int) error {
	if size <= 0 {
		m.cache = nil
		return nil
	}
	cache, err := lru.New[cacheKey, string](size)
	if err != nil {
		return fmt.Errorf("creating definition cache: %w", err)
	}
	m.cache = cache
	return nil
}

// CachedDefinitions returns the number of definitions currently cached.
func (m *SQLiteManifest) CachedDefinitions() int {
	if m.cache == nil {
		return 0
	}
	return m.cache.Len()
}

// Close closes the database connection.
func (m *SQLiteManifest) Close() error {
	return m.db.Close()
}

// queryer is satisfied by both *sql.DB and *sql.Conn.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
